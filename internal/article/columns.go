package article

import (
	"math"
	"sort"
)

// AssignColumns sets the Column of every line of one page. Column reference
// positions come from anchor lines (at least AnchorWidthRatio of the median
// width): scanning anchors by left edge, an edge farther than ColumnGap from
// every reference becomes a new reference, up to MaxColumns. Each line then
// takes the nearest reference.
func (c Config) AssignColumns(lines []PageLine) {
	if len(lines) == 0 {
		return
	}

	widths := make([]float64, len(lines))
	for i, l := range lines {
		widths[i] = l.Width()
	}
	sort.Float64s(widths)
	median := widths[len(widths)/2]

	threshold := c.AnchorWidthRatio * median
	var anchors []PageLine
	for _, l := range lines {
		if l.Width() >= threshold {
			anchors = append(anchors, l)
		}
	}
	if len(anchors) == 0 {
		anchors = append(anchors, lines...)
	}
	sort.SliceStable(anchors, func(i, j int) bool { return anchors[i].Left() < anchors[j].Left() })

	refs := c.columnReferences(anchors)
	for i := range lines {
		best, bestDist := 0, math.Inf(1)
		for r, x := range refs {
			if d := math.Abs(lines[i].Left() - x); d < bestDist {
				best, bestDist = r, d
			}
		}
		lines[i].Column = best
	}
}

func (c Config) columnReferences(anchors []PageLine) []float64 {
	var refs []float64
	for _, a := range anchors {
		x := a.Left()
		distinct := true
		for _, r := range refs {
			if math.Abs(x-r) <= c.ColumnGap {
				distinct = false
				break
			}
		}
		if distinct {
			refs = append(refs, x)
		}
	}
	if len(refs) > c.MaxColumns {
		refs = refs[:c.MaxColumns]
	}
	return refs
}

// SortReadingOrder orders lines column by column, top to bottom.
func SortReadingOrder(lines []PageLine) {
	sort.SliceStable(lines, func(i, j int) bool {
		ci, cj := max(lines[i].Column, 0), max(lines[j].Column, 0)
		if ci != cj {
			return ci < cj
		}
		return lines[i].Top() < lines[j].Top()
	})
}
