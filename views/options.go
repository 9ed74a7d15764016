package views

import "net/url"

type OptionItem struct {
	Label string
	Icon  string
	Href  string
	// NewTab opens the item in a separate window (print preview).
	NewTab bool
}

type ExportLink struct {
	Label string
	Href  string
}

// OptionsDropdown is the "More" menu on a study set page.
type OptionsDropdown struct {
	Label       string
	Items       []OptionItem
	ExportLinks []ExportLink
	// DeleteDialog is true for owners, who get the delete confirmation.
	DeleteDialog bool
}

func studySetHref(id string) string {
	return "/study-set/" + url.PathEscape(id)
}

// NewOptionsDropdown gates combine and delete on ownership; print and export
// are offered to anyone who can see the set.
func NewOptionsDropdown(isOwner bool, id string) OptionsDropdown {
	base := studySetHref(id)

	var items []OptionItem
	if isOwner {
		items = append(items, OptionItem{Label: "Combine", Icon: "merge", Href: base + "/combine"})
	}
	items = append(items,
		OptionItem{Label: "Print", Icon: "printer", Href: base + "/print", NewTab: true},
		OptionItem{Label: "Export", Icon: "download", Href: base + "/export"},
	)
	if isOwner {
		items = append(items, OptionItem{Label: "Delete", Icon: "trash", Href: base + "/delete"})
	}

	return OptionsDropdown{
		Label: "More",
		Items: items,
		ExportLinks: []ExportLink{
			{Label: "Tab separated (.tsv)", Href: base + "/export?format=tsv"},
			{Label: "Comma separated (.csv)", Href: base + "/export?format=csv"},
			{Label: "Excel (.xlsx)", Href: base + "/export?format=xlsx"},
		},
		DeleteDialog: isOwner,
	}
}

// Labels lists the item labels in menu order.
func (d OptionsDropdown) Labels() []string {
	labels := make([]string, len(d.Items))
	for i, item := range d.Items {
		labels[i] = item.Label
	}
	return labels
}
