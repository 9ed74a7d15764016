package views

import "github.com/andrewpaige1/nodebook-web/models"

const (
	TabAchievements = "1"
	TabStudySets    = "2"
	TabFolders      = "3"
)

type ProfileTab struct {
	Key   string
	Label string
	Href  string
}

// ProfileLayout is the header and tab strip shared by the profile pages.
type ProfileLayout struct {
	Name      string
	Nickname  string
	Image     string
	Initial   string
	Tabs      []ProfileTab
	ActiveKey string
}

// NewProfileLayout shows the achievements tab only to the profile's owner.
func NewProfileLayout(viewer, profile *models.User, path string) ProfileLayout {
	base := ProfileHref(profile)

	var tabs []ProfileTab
	if viewer != nil && viewer.ID == profile.ID {
		tabs = append(tabs, ProfileTab{Key: TabAchievements, Label: "Achievements", Href: base})
	}
	tabs = append(tabs,
		ProfileTab{Key: TabStudySets, Label: "Study sets", Href: base + "/study-sets"},
		ProfileTab{Key: TabFolders, Label: "Folders", Href: base + "/folders"},
	)

	active := TabFolders
	switch path {
	case base:
		active = TabAchievements
	case base + "/study-sets":
		active = TabStudySets
	}

	return ProfileLayout{
		Name:      profile.DisplayName(),
		Nickname:  profile.Nickname,
		Image:     profile.Image,
		Initial:   profile.Initial(),
		Tabs:      tabs,
		ActiveKey: active,
	}
}
