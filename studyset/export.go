package studyset

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/andrewpaige1/nodebook-web/models"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
	FormatXLSX Format = "xlsx"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatCSV, FormatTSV, FormatXLSX:
		return f, nil
	case "":
		return FormatTSV, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/tab-separated-values; charset=utf-8"
}

func (f Format) Extension() string {
	return "." + string(f)
}

// Export writes the set's cards as term/definition rows.
func Export(w io.Writer, set *models.FlashcardSet, format Format) error {
	switch format {
	case FormatCSV, FormatTSV:
		return exportDelimited(w, set, format)
	case FormatXLSX:
		return exportXLSX(w, set)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

func exportDelimited(w io.Writer, set *models.FlashcardSet, format Format) error {
	cw := csv.NewWriter(w)
	if format == FormatTSV {
		cw.Comma = '\t'
	}
	for _, card := range set.Flashcards {
		if err := cw.Write([]string{card.Term, card.Definition}); err != nil {
			return fmt.Errorf("write card %s: %w", card.PublicID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

const exportSheet = "Sheet1"

func exportXLSX(w io.Writer, set *models.FlashcardSet) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetCellValue(exportSheet, "A1", "Term"); err != nil {
		return err
	}
	if err := f.SetCellValue(exportSheet, "B1", "Definition"); err != nil {
		return err
	}
	for i, card := range set.Flashcards {
		row := i + 2
		termCell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		defCell, err := excelize.CoordinatesToCellName(2, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(exportSheet, termCell, card.Term); err != nil {
			return err
		}
		if err := f.SetCellValue(exportSheet, defCell, card.Definition); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(exportSheet, "A", "B", 40); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
