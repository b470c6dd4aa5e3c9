package issue

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackzampolin/folio/internal/layout"
)

// LocateTOC returns the document index of the table-of-contents page: the
// first page carrying the left label in its left half and the right label
// in its right half. When both labels are equal the left label alone is
// enough. When several pages qualify and a previous label is set, the first
// one whose preceding page carries that label wins. A TOC page override in
// labels wins without scanning.
func LocateTOC(ctx context.Context, doc layout.Document, labels Labels) (int, error) {
	if labels.TOCPage != nil {
		if *labels.TOCPage < 0 || *labels.TOCPage >= doc.PageCount() {
			return 0, fmt.Errorf("%w: TOC page override %d outside document", layout.ErrPageRange, *labels.TOCPage)
		}
		return *labels.TOCPage, nil
	}

	left := strings.ToLower(labels.Left)
	right := strings.ToLower(labels.Right)
	previous := strings.ToLower(labels.Previous)
	if left == "" || right == "" {
		return 0, fmt.Errorf("%w: labels not configured", ErrTOCNotFound)
	}

	first := -1
	var prev []labelLine
	for i := 0; i < doc.PageCount(); i++ {
		page, err := doc.Page(ctx, i)
		if err != nil {
			return 0, err
		}
		lines := labelLines(page)
		if isTOCPage(lines, page.Width*0.5, left, right) {
			if previous == "" || hasLabel(prev, previous) {
				return i, nil
			}
			if first < 0 {
				first = i
			}
		}
		prev = lines
	}
	if first >= 0 {
		return first, nil
	}
	return 0, fmt.Errorf("%w: labels %q / %q", ErrTOCNotFound, labels.Left, labels.Right)
}

// labelLine is a normalized, lower-cased text line and its horizontal center.
type labelLine struct {
	text   string
	center float64
}

func labelLines(page *layout.Page) []labelLine {
	var out []labelLine
	for _, b := range page.Blocks {
		if b.Type != layout.BlockText {
			continue
		}
		for _, l := range b.Lines {
			if len(l.Spans) == 0 {
				continue
			}
			var sb strings.Builder
			box := l.Spans[0].BBox
			for _, s := range l.Spans {
				sb.WriteString(s.Text)
				box = box.Union(s.BBox)
			}
			text := strings.ToLower(strings.Join(strings.Fields(sb.String()), " "))
			if text == "" {
				continue
			}
			out = append(out, labelLine{text: text, center: (box.X0 + box.X1) / 2})
		}
	}
	return out
}

func isTOCPage(lines []labelLine, mid float64, left, right string) bool {
	hasLeft, hasRight := false, false
	for _, l := range lines {
		if strings.Contains(l.text, left) && l.center <= mid {
			hasLeft = true
		}
		if strings.Contains(l.text, right) && l.center >= mid {
			hasRight = true
		}
	}
	return hasLeft && (hasRight || left == right)
}

func hasLabel(lines []labelLine, label string) bool {
	for _, l := range lines {
		if strings.Contains(l.text, label) {
			return true
		}
	}
	return false
}

// ResolveOffset fills iss.PageOffset from the TOC page when the manifest
// names the TOC's printed page but not the offset. An offset already set
// is left alone.
func ResolveOffset(ctx context.Context, doc layout.Document, iss *Issue, table LabelTable) error {
	if iss.PageOffset != nil || iss.TOCPrintedPage == nil {
		return nil
	}
	tocIndex, err := LocateTOC(ctx, doc, table.For(iss.NumberOrZero()))
	if err != nil {
		return fmt.Errorf("%s: %w", iss.Label(), err)
	}
	offset := tocIndex - *iss.TOCPrintedPage
	iss.PageOffset = &offset
	return nil
}
