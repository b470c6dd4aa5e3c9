// Package layout models the text layout of a document page as nested
// blocks, lines and runs, and provides readers that produce it.
//
// Coordinates use a top-left origin: Y grows downward, so Rect.Y0 is the top
// edge of a box and Rect.Y1 its bottom edge.
package layout

import (
	"context"
	"errors"
	"fmt"
)

// ErrPageRange is returned when a page index falls outside the document.
var ErrPageRange = errors.New("page index out of range")

// Rect is an axis-aligned box in points.
type Rect struct {
	X0 float64 `json:"x0"` // Left
	Y0 float64 `json:"y0"` // Top
	X1 float64 `json:"x1"` // Right
	Y1 float64 `json:"y1"` // Bottom
}

// Width returns the horizontal extent of the box.
func (r Rect) Width() float64 {
	return r.X1 - r.X0
}

// Height returns the vertical extent of the box.
func (r Rect) Height() float64 {
	return r.Y1 - r.Y0
}

// Union returns the smallest box containing both r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		X0: min(r.X0, o.X0),
		Y0: min(r.Y0, o.Y0),
		X1: max(r.X1, o.X1),
		Y1: max(r.Y1, o.Y1),
	}
}

// Span is a run of text set in a single font and size.
type Span struct {
	Text string
	Font string
	Size float64
	BBox Rect
}

// Line is one visual line of runs.
type Line struct {
	Spans []Span
	BBox  Rect
}

// BlockType distinguishes text blocks from everything else on a page.
type BlockType int

const (
	BlockText  BlockType = 0
	BlockImage BlockType = 1
)

// Block groups lines that the producer considered one layout unit.
type Block struct {
	Type  BlockType
	BBox  Rect
	Lines []Line
}

// Page is the layout of one page.
type Page struct {
	Index  int // 0-based document index
	Width  float64
	Height float64
	Blocks []Block
}

// Document exposes page layouts by 0-based index.
// Implementations must be safe for concurrent Page calls.
type Document interface {
	PageCount() int
	Page(ctx context.Context, index int) (*Page, error)
	Close() error
}

// Memory is a Document held entirely in memory.
type Memory struct {
	Pages []Page
}

// PageCount returns the number of pages.
func (m *Memory) PageCount() int {
	return len(m.Pages)
}

// Page returns a copy of the page at index.
func (m *Memory) Page(ctx context.Context, index int) (*Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if index < 0 || index >= len(m.Pages) {
		return nil, fmt.Errorf("%w: %d of %d", ErrPageRange, index, len(m.Pages))
	}
	p := m.Pages[index]
	p.Index = index
	return &p, nil
}

// Close is a no-op.
func (m *Memory) Close() error {
	return nil
}

var _ Document = (*Memory)(nil)
