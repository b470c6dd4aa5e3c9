// Package issue describes magazine issues and their articles: the manifest
// records the batch runner reads, the heading-label lookup table, and the
// locator that finds the table-of-contents page to derive the page offset.
package issue

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrNoManifest is returned when no manifest sidecar exists for a document.
	ErrNoManifest = errors.New("no issue manifest")

	// ErrTOCNotFound is returned when no page carries the configured TOC labels.
	ErrTOCNotFound = errors.New("table of contents page not found")
)

// Issue is one magazine issue: its identifiers, the mapping from printed
// page numbers to document indices, and its article list.
type Issue struct {
	Number       *int   `yaml:"number,omitempty" json:"number,omitempty"`
	ReleaseMonth *int   `yaml:"release_month,omitempty" json:"release_month,omitempty"`
	ReleaseYear  *int   `yaml:"release_year,omitempty" json:"release_year,omitempty"`
	Edition      string `yaml:"edition,omitempty" json:"edition,omitempty"` // publication name, e.g. "Bouwen met Staal"

	// PageOffset maps printed pages to 0-based document indices:
	// index = printed page + PageOffset.
	PageOffset *int `yaml:"page_offset,omitempty" json:"page_offset,omitempty"`

	// TOCPrintedPage is the printed page number of the TOC page. Used to
	// derive PageOffset when the manifest does not state it.
	TOCPrintedPage *int `yaml:"toc_printed_page,omitempty" json:"toc_printed_page,omitempty"`

	Articles []Article `yaml:"articles" json:"articles"`
}

// Article is one entry of an issue's table of contents. The range fields
// are empty in a manifest and filled in after extraction.
type Article struct {
	Section string   `yaml:"section,omitempty" json:"section,omitempty"`
	Page    *int     `yaml:"page,omitempty" json:"page,omitempty"` // printed start page
	Chapot  string   `yaml:"chapot,omitempty" json:"chapot,omitempty"`
	Title   string   `yaml:"title,omitempty" json:"title,omitempty"`
	Author  string   `yaml:"author,omitempty" json:"author,omitempty"`
	Authors []string `yaml:"authors,omitempty" json:"authors,omitempty"`

	StartIndex *int `yaml:"start_index,omitempty" json:"start_index,omitempty"`
	EndIndex   *int `yaml:"end_index,omitempty" json:"end_index,omitempty"`
	EndPage    *int `yaml:"end_page,omitempty" json:"end_page,omitempty"`
}

// Name returns the label used to identify the article in logs and reports.
func (a Article) Name() string {
	if a.Chapot != "" {
		return a.Chapot
	}
	if a.Title != "" {
		return a.Title
	}
	if a.Page != nil {
		return fmt.Sprintf("page %d", *a.Page)
	}
	return "untitled"
}

// Label returns a short identifier such as "BMS-305" for logs.
func (i Issue) Label() string {
	if i.Number == nil {
		return "unknown issue"
	}
	return fmt.Sprintf("BMS-%d", *i.Number)
}

// DefaultEdition is the publication name used when a manifest names none.
const DefaultEdition = "Bouwen met Staal"

// EditionLabel returns the publication name followed by the issue number,
// e.g. "Bouwen met Staal 305".
func (i Issue) EditionLabel() string {
	name := i.Edition
	if name == "" {
		name = DefaultEdition
	}
	if i.Number == nil {
		return name
	}
	return fmt.Sprintf("%s %d", name, *i.Number)
}

// AuthorList returns the article's authors, falling back to the raw author
// line.
func (a Article) AuthorList() []string {
	if len(a.Authors) > 0 {
		return a.Authors
	}
	if a.Author != "" {
		return []string{a.Author}
	}
	return nil
}

// NumberOrZero returns the issue number, or 0 when unknown.
func (i Issue) NumberOrZero() int {
	if i.Number == nil {
		return 0
	}
	return *i.Number
}

var authorSeparator = regexp.MustCompile(`(?i)\s+en\s+|\s*&\s*`)

// SplitAuthors splits a raw author line such as
// "H.L. Luu, S. van Hellenberg Hubar en P. Peters" into names.
func SplitAuthors(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	t := strings.ReplaceAll(raw, "\u00a0", " ")
	t = authorSeparator.ReplaceAllString(t, ",")

	var authors []string
	for _, part := range strings.Split(t, ",") {
		part = strings.Trim(part, " ,;")
		if part != "" {
			authors = append(authors, part)
		}
	}
	return authors
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}
