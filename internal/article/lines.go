package article

import (
	"math"
	"sort"
	"strings"

	"github.com/jackzampolin/folio/internal/layout"
)

// NoColumn marks a line whose column has not been assigned.
const NoColumn = -1

// PageLine is one visual text line of a page with its typographic signals.
type PageLine struct {
	Page   int
	Text   string // whitespace collapsed
	BBox   layout.Rect
	Size   float64 // largest run size on the line
	Serif  bool    // a run uses a body serif face
	Sans   bool    // a run uses a display sans face
	Bold   bool    // a run uses a bold-like weight
	Column int
}

// Center returns the horizontal center of the line.
func (l PageLine) Center() float64 { return (l.BBox.X0 + l.BBox.X1) / 2 }

// Left returns the left edge of the line.
func (l PageLine) Left() float64 { return l.BBox.X0 }

// Top returns the top edge of the line.
func (l PageLine) Top() float64 { return l.BBox.Y0 }

// Width returns the horizontal extent of the line.
func (l PageLine) Width() float64 { return l.BBox.Width() }

// normalizeSpace collapses all whitespace runs to single spaces and trims.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(s, "\r", " ")), " ")
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// ExtractLines turns a page layout into PageLines sorted top to bottom, then
// left to right. Image blocks, run-less lines and blank lines are dropped.
func ExtractLines(page *layout.Page, fonts FontProfile) []PageLine {
	var lines []PageLine
	for _, b := range page.Blocks {
		if b.Type != layout.BlockText {
			continue
		}
		for _, l := range b.Lines {
			if len(l.Spans) == 0 {
				continue
			}
			var sb strings.Builder
			for _, s := range l.Spans {
				sb.WriteString(s.Text)
			}
			text := normalizeSpace(sb.String())
			if text == "" {
				continue
			}

			pl := PageLine{
				Page:   page.Index,
				Text:   text,
				BBox:   l.Spans[0].BBox,
				Column: NoColumn,
			}
			for _, s := range l.Spans {
				pl.BBox = pl.BBox.Union(s.BBox)
				pl.Size = max(pl.Size, s.Size)
				name := strings.ToLower(s.Font)
				pl.Serif = pl.Serif || containsAny(name, fonts.BodySerif)
				pl.Sans = pl.Sans || containsAny(name, fonts.DisplaySans)
				pl.Bold = pl.Bold || containsAny(name, fonts.BoldWeight)
			}
			lines = append(lines, pl)
		}
	}

	sort.SliceStable(lines, func(i, j int) bool {
		ti, tj := round1(lines[i].Top()), round1(lines[j].Top())
		if ti != tj {
			return ti < tj
		}
		return round1(lines[i].Center()) < round1(lines[j].Center())
	})
	return lines
}

// Relevant reports whether a line matches the main-text profile: size within
// the configured band and set in a recognized body or display family.
func (c Config) Relevant(l PageLine) bool {
	if l.Size < c.MinFontSize || l.Size > c.MaxFontSize {
		return false
	}
	return l.Serif || l.Sans
}

// FilterRelevant returns the lines that pass Relevant, in order.
func (c Config) FilterRelevant(lines []PageLine) []PageLine {
	out := make([]PageLine, 0, len(lines))
	for _, l := range lines {
		if c.Relevant(l) {
			out = append(out, l)
		}
	}
	return out
}
