package layout

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// GlyphOptions tunes how positioned glyphs are grouped into spans and lines.
type GlyphOptions struct {
	RowTolerance        float64 // baseline distance (pt) still considered the same row
	WordSpaceMultiplier float64 // gap, as a fraction of font size, that becomes a space
	LineGapMultiplier   float64 // gap, as a multiple of font size, that splits a row into two lines
}

// DefaultGlyphOptions returns grouping settings suited to body text in
// multi-column magazine pages.
func DefaultGlyphOptions() GlyphOptions {
	return GlyphOptions{
		RowTolerance:        2.0,
		WordSpaceMultiplier: 0.3,
		LineGapMultiplier:   1.5,
	}
}

// PDF is a Document backed by a PDF file. Page decoding is serialized, so a
// single PDF may be shared by concurrent readers.
type PDF struct {
	path   string
	file   *os.File
	reader *pdf.Reader
	opts   GlyphOptions

	mu sync.Mutex
}

// Validate checks the structural integrity of a PDF file and returns its
// page count.
func Validate(path string) (int, error) {
	ctx, err := api.ReadContextFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading PDF %s: %w", path, err)
	}
	if err := api.ValidateContext(ctx); err != nil {
		return 0, fmt.Errorf("validating PDF %s: %w", path, err)
	}
	return ctx.PageCount, nil
}

// OpenPDF opens a PDF file for layout extraction.
func OpenPDF(path string, opts GlyphOptions) (*PDF, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", path, err)
	}
	if opts == (GlyphOptions{}) {
		opts = DefaultGlyphOptions()
	}
	return &PDF{path: path, file: f, reader: r, opts: opts}, nil
}

// Path returns the file the document was opened from.
func (d *PDF) Path() string {
	return d.path
}

// PageCount returns the number of pages.
func (d *PDF) PageCount() int {
	return d.reader.NumPage()
}

// Close releases the underlying file.
func (d *PDF) Close() error {
	return d.file.Close()
}

// Page decodes the layout of the page at the 0-based index.
func (d *PDF) Page(ctx context.Context, index int) (*Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n := d.reader.NumPage()
	if index < 0 || index >= n {
		return nil, fmt.Errorf("%w: %d of %d", ErrPageRange, index, n)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	p := d.reader.Page(index + 1)
	if p.V.IsNull() {
		return &Page{Index: index}, nil
	}
	width, height := mediaBox(p)

	texts, err := pageTexts(p)
	if err != nil {
		return nil, fmt.Errorf("page %d: %w", index, err)
	}

	page := &Page{Index: index, Width: width, Height: height}
	lines := groupGlyphs(texts, height, d.opts)
	if len(lines) > 0 {
		block := Block{Type: BlockText, BBox: lines[0].BBox, Lines: lines}
		for _, l := range lines[1:] {
			block.BBox = block.BBox.Union(l.BBox)
		}
		page.Blocks = []Block{block}
	}
	return page, nil
}

// pageTexts reads the positioned glyphs of a page. Malformed content streams
// make the reader panic, which is reported as an error instead.
func pageTexts(p pdf.Page) (texts []pdf.Text, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("decoding content stream: %v", r)
		}
	}()
	return p.Content().Text, nil
}

// mediaBox returns the page size. The box is inherited from the page tree
// when the page itself does not set it.
func mediaBox(p pdf.Page) (float64, float64) {
	v := p.V
	for depth := 0; depth < maxTreeDepth && !v.IsNull(); depth++ {
		box := v.Key("MediaBox")
		if box.Kind() == pdf.Array && box.Len() >= 4 {
			x0, y0 := box.Index(0).Float64(), box.Index(1).Float64()
			x1, y1 := box.Index(2).Float64(), box.Index(3).Float64()
			return x1 - x0, y1 - y0
		}
		v = v.Key("Parent")
	}
	return 612, 792
}

// maxTreeDepth bounds the walk up the page tree in malformed files.
const maxTreeDepth = 32

// glyphBox converts a glyph to a top-left origin box.
func glyphBox(t pdf.Text, pageHeight float64) Rect {
	top := pageHeight - (t.Y + 0.8*t.FontSize)
	return Rect{X0: t.X, Y0: top, X1: t.X + t.W, Y1: top + t.FontSize}
}

// groupGlyphs assembles glyphs into lines: rows by baseline, rows split at
// wide gaps (column gutters), runs split on font or size changes.
func groupGlyphs(texts []pdf.Text, pageHeight float64, opts GlyphOptions) []Line {
	glyphs := make([]pdf.Text, 0, len(texts))
	for _, t := range texts {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		glyphs = append(glyphs, t)
	}
	if len(glyphs) == 0 {
		return nil
	}

	// Highest baseline first; rows are ordered by X below.
	sort.SliceStable(glyphs, func(i, j int) bool { return glyphs[i].Y > glyphs[j].Y })

	var rows [][]pdf.Text
	for _, g := range glyphs {
		if n := len(rows); n > 0 {
			anchor := rows[n-1][0].Y
			if d := anchor - g.Y; d <= opts.RowTolerance && d >= -opts.RowTolerance {
				rows[n-1] = append(rows[n-1], g)
				continue
			}
		}
		rows = append(rows, []pdf.Text{g})
	}

	var lines []Line
	for _, row := range rows {
		sort.SliceStable(row, func(i, j int) bool { return row[i].X < row[j].X })
		start := 0
		for i := 1; i <= len(row); i++ {
			if i < len(row) {
				prev, cur := row[i-1], row[i]
				gap := cur.X - (prev.X + prev.W)
				if gap <= opts.LineGapMultiplier*max(prev.FontSize, cur.FontSize) {
					continue
				}
			}
			lines = append(lines, buildLine(row[start:i], pageHeight, opts))
			start = i
		}
	}
	return lines
}

func buildLine(glyphs []pdf.Text, pageHeight float64, opts GlyphOptions) Line {
	var (
		line Line
		cur  *Span
		sb   strings.Builder
		prev pdf.Text
	)
	flush := func() {
		if cur == nil {
			return
		}
		cur.Text = sb.String()
		line.Spans = append(line.Spans, *cur)
		sb.Reset()
		cur = nil
	}

	for i, g := range glyphs {
		box := glyphBox(g, pageHeight)
		spaced := i > 0 && g.X-(prev.X+prev.W) > opts.WordSpaceMultiplier*max(prev.FontSize, g.FontSize)

		if cur == nil || cur.Font != g.Font || cur.Size != g.FontSize {
			flush()
			if spaced {
				// The space belongs to the run it follows.
				if n := len(line.Spans); n > 0 {
					line.Spans[n-1].Text += " "
				}
			}
			cur = &Span{Font: g.Font, Size: g.FontSize, BBox: box}
		} else {
			if spaced {
				sb.WriteByte(' ')
			}
			cur.BBox = cur.BBox.Union(box)
		}
		sb.WriteString(g.S)
		prev = g
	}
	flush()

	line.BBox = line.Spans[0].BBox
	for _, s := range line.Spans[1:] {
		line.BBox = line.BBox.Union(s.BBox)
	}
	return line
}

var _ Document = (*PDF)(nil)
