package export

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jackzampolin/folio/internal/issue"
)

// Article outcomes recorded in the status report.
const (
	StatusOK      = "ok"
	StatusWarning = "warning"
	StatusFailed  = "failed"
)

const statusSheet = "Status"

var statusColumns = []string{
	"edition", "chapot", "title", "section", "authors",
	"printed_page_start", "printed_page_end",
	"hyphens_per_1000", "low_hyphenation", "end_marker_found",
	"status", "error",
}

// StatusRow is one article of a batch run.
type StatusRow struct {
	Edition        string
	Chapot         string
	Title          string
	Section        string
	Authors        []string
	StartPage      *int
	EndPage        *int
	HyphensPer1000 float64
	LowHyphenation bool
	EndMarkerFound bool
	Status         string
	Error          string
}

// NewStatusRow fills the identifying columns of a row.
func NewStatusRow(iss issue.Issue, a issue.Article) StatusRow {
	return StatusRow{
		Edition:   iss.EditionLabel(),
		Chapot:    a.Chapot,
		Title:     a.Title,
		Section:   a.Section,
		Authors:   a.AuthorList(),
		StartPage: a.Page,
		EndPage:   a.EndPage,
	}
}

// illegalCellChars are control characters spreadsheet cells cannot hold;
// tab, newline and carriage return are allowed.
var illegalCellChars = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F]`)

// SanitizeCell removes characters that are not allowed in a cell.
func SanitizeCell(s string) string {
	return illegalCellChars.ReplaceAllString(s, "")
}

func (r StatusRow) cells() []any {
	authors := make([]string, len(r.Authors))
	for i, a := range r.Authors {
		authors[i] = SanitizeCell(a)
	}
	return []any{
		SanitizeCell(r.Edition),
		SanitizeCell(r.Chapot),
		SanitizeCell(r.Title),
		SanitizeCell(r.Section),
		strings.Join(authors, ", "),
		optionalCell(r.StartPage),
		optionalCell(r.EndPage),
		r.HyphensPer1000,
		r.LowHyphenation,
		r.EndMarkerFound,
		r.Status,
		SanitizeCell(r.Error),
	}
}

func optionalCell(v *int) any {
	if v == nil {
		return ""
	}
	return *v
}

// WriteStatusXLSX writes rows to a new spreadsheet at path, one row per
// article below a header row.
func WriteStatusXLSX(path string, rows []StatusRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), statusSheet); err != nil {
		return fmt.Errorf("failed to name status sheet: %w", err)
	}

	header := make([]any, len(statusColumns))
	for i, c := range statusColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(statusSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write status header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetRowStyle(statusSheet, 1, 1, bold); err != nil {
		return fmt.Errorf("failed to style status header: %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := r.cells()
		if err := f.SetSheetRow(statusSheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write status row %d: %w", i+1, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}
