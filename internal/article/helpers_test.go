package article

import (
	"github.com/jackzampolin/folio/internal/layout"
)

const (
	serif     = "MinionPro-Regular"
	sansBold  = "UniversLTStd-Bold"
	sansLight = "UniversLTStd-Light"
	display   = "UniversLTStd-BlackCn"
)

// textLine builds a single-run layout line.
func textLine(text, font string, size, x0, top, width float64) layout.Line {
	box := layout.Rect{X0: x0, Y0: top, X1: x0 + width, Y1: top + size}
	return layout.Line{
		BBox:  box,
		Spans: []layout.Span{{Text: text, Font: font, Size: size, BBox: box}},
	}
}

// body builds a full-width 9pt serif line in the column starting at x0.
func body(text string, x0, top float64) layout.Line {
	return textLine(text, serif, 9, x0, top, 150)
}

func textPage(lines ...layout.Line) layout.Page {
	return layout.Page{
		Width:  595,
		Height: 842,
		Blocks: []layout.Block{{Type: layout.BlockText, Lines: lines}},
	}
}

func pageLine(text string, left, top, width float64) PageLine {
	return PageLine{
		Text:   text,
		BBox:   layout.Rect{X0: left, Y0: top, X1: left + width, Y1: top + 9},
		Size:   9,
		Serif:  true,
		Column: NoColumn,
	}
}

func intPtr(v int) *int { return &v }
