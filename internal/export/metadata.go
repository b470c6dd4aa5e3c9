package export

import (
	"fmt"
	"strings"

	"github.com/jackzampolin/folio/internal/issue"
)

const (
	headerOpen  = "========== ARTICLE METADATA =========="
	headerClose = "======================================"
)

// MetadataHeader renders the block prepended to every article text file.
// Document indices are shown both 0-based and as 1-based PDF page numbers.
// The range fields of a take precedence; missing ones are derived from the
// printed start page and the issue's page offset.
func MetadataHeader(iss issue.Issue, a issue.Article) (string, error) {
	var start int
	switch {
	case a.StartIndex != nil:
		start = *a.StartIndex
	case a.Page != nil && iss.PageOffset != nil:
		start = *a.Page + *iss.PageOffset
	default:
		return "", fmt.Errorf("%s, article %q: cannot determine document start index", iss.Label(), a.Name())
	}

	end := start
	if a.EndIndex != nil {
		end = *a.EndIndex
	}

	var printedEnd *int
	switch {
	case a.EndPage != nil:
		printedEnd = a.EndPage
	case a.Page != nil && iss.PageOffset != nil:
		printedEnd = issue.IntPtr(end - *iss.PageOffset)
	default:
		printedEnd = a.Page
	}

	var b strings.Builder
	line := func(label, value string) {
		fmt.Fprintf(&b, "%-15s: %s\n", label, value)
	}

	b.WriteString(headerOpen + "\n")
	line("Title", a.Chapot)
	if a.Title != "" {
		line("Subtitle", a.Title)
	}
	line("Section", a.Section)
	switch {
	case len(a.Authors) > 0:
		line("Authors", strings.Join(a.Authors, ", "))
	case a.Author != "":
		line("Author", a.Author)
	}
	line("Edition", iss.EditionLabel())
	line("Release", optional(iss.ReleaseMonth)+"-"+optional(iss.ReleaseYear))

	switch {
	case a.Page == nil:
		line("Printed pages", "(unknown)")
	case printedEnd != nil && *printedEnd != *a.Page:
		line("Printed pages", fmt.Sprintf("%d–%d", *a.Page, *printedEnd))
	default:
		line("Printed pages", fmt.Sprint(*a.Page))
	}

	if end != start {
		line("PDF pages", fmt.Sprintf("index %d–%d (PDF %d–%d)", start, end, start+1, end+1))
	} else {
		line("PDF pages", fmt.Sprintf("index %d (PDF %d)", start, start+1))
	}

	b.WriteString(headerClose + "\n")
	return b.String(), nil
}

func optional(v *int) string {
	if v == nil {
		return "?"
	}
	return fmt.Sprint(*v)
}
