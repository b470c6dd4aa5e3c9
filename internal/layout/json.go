package layout

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// The JSON form follows the "dict" text export of MuPDF based tools:
// pages → blocks → lines → spans, boxes as [x0, y0, x1, y1] arrays.
type dictDocument struct {
	Pages []dictPage `json:"pages"`
}

type dictPage struct {
	Width  float64     `json:"width"`
	Height float64     `json:"height"`
	Blocks []dictBlock `json:"blocks"`
}

type dictBlock struct {
	Type  int        `json:"type"`
	BBox  [4]float64 `json:"bbox"`
	Lines []dictLine `json:"lines"`
}

type dictLine struct {
	BBox  [4]float64 `json:"bbox"`
	Spans []dictSpan `json:"spans"`
}

type dictSpan struct {
	Text string     `json:"text"`
	Font string     `json:"font"`
	Size float64    `json:"size"`
	BBox [4]float64 `json:"bbox"`
}

func rectOf(b [4]float64) Rect {
	return Rect{X0: b[0], Y0: b[1], X1: b[2], Y1: b[3]}
}

// ReadJSON decodes a layout dump into an in-memory document.
func ReadJSON(r io.Reader) (*Memory, error) {
	var doc dictDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding layout JSON: %w", err)
	}

	mem := &Memory{Pages: make([]Page, len(doc.Pages))}
	for i, dp := range doc.Pages {
		page := Page{
			Index:  i,
			Width:  dp.Width,
			Height: dp.Height,
			Blocks: make([]Block, 0, len(dp.Blocks)),
		}
		for _, db := range dp.Blocks {
			block := Block{
				Type: BlockType(db.Type),
				BBox: rectOf(db.BBox),
			}
			for _, dl := range db.Lines {
				line := Line{BBox: rectOf(dl.BBox)}
				for _, ds := range dl.Spans {
					line.Spans = append(line.Spans, Span{
						Text: ds.Text,
						Font: ds.Font,
						Size: ds.Size,
						BBox: rectOf(ds.BBox),
					})
				}
				block.Lines = append(block.Lines, line)
			}
			page.Blocks = append(page.Blocks, block)
		}
		mem.Pages[i] = page
	}
	return mem, nil
}

// OpenJSON reads a layout dump from disk.
func OpenJSON(path string) (*Memory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening layout dump: %w", err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// WriteJSON encodes a document's pages in the same dict form ReadJSON accepts.
func WriteJSON(w io.Writer, pages []Page) error {
	doc := dictDocument{Pages: make([]dictPage, len(pages))}
	for i, p := range pages {
		dp := dictPage{Width: p.Width, Height: p.Height}
		for _, b := range p.Blocks {
			db := dictBlock{Type: int(b.Type), BBox: [4]float64{b.BBox.X0, b.BBox.Y0, b.BBox.X1, b.BBox.Y1}}
			for _, l := range b.Lines {
				dl := dictLine{BBox: [4]float64{l.BBox.X0, l.BBox.Y0, l.BBox.X1, l.BBox.Y1}}
				for _, s := range l.Spans {
					dl.Spans = append(dl.Spans, dictSpan{
						Text: s.Text,
						Font: s.Font,
						Size: s.Size,
						BBox: [4]float64{s.BBox.X0, s.BBox.Y0, s.BBox.X1, s.BBox.Y1},
					})
				}
				db.Lines = append(db.Lines, dl)
			}
			dp.Blocks = append(dp.Blocks, db)
		}
		doc.Pages[i] = dp
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// Open opens a document by extension: ".json" files are read as layout
// dumps, everything else as PDF with default glyph grouping.
func Open(path string) (Document, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		m, err := OpenJSON(path)
		if err != nil {
			return nil, err
		}
		return m, nil
	}
	d, err := OpenPDF(path, GlyphOptions{})
	if err != nil {
		return nil, err
	}
	return d, nil
}
