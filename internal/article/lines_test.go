package article

import (
	"testing"

	"github.com/jackzampolin/folio/internal/layout"
)

func TestExtractLines(t *testing.T) {
	mixed := layout.Line{
		Spans: []layout.Span{
			{Text: "Staal  in\tde ", Font: serif, Size: 9, BBox: layout.Rect{X0: 50, Y0: 200, X1: 100, Y1: 209}},
			{Text: "BOUW", Font: sansBold, Size: 9.4, BBox: layout.Rect{X0: 100, Y0: 199, X1: 130, Y1: 209}},
		},
	}
	page := layout.Page{
		Index: 7,
		Blocks: []layout.Block{
			{Type: layout.BlockImage, Lines: []layout.Line{textLine("caption in image", serif, 9, 0, 0, 10)}},
			{Type: layout.BlockText, Lines: []layout.Line{
				textLine("right", serif, 9, 300, 100, 100),
				textLine("   ", serif, 9, 0, 50, 10),
				{},
				mixed,
				textLine("left", serif, 9, 50, 100.02, 100),
			}},
		},
	}

	lines := ExtractLines(&page, DefaultFontProfile())
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}

	if lines[0].Text != "left" || lines[1].Text != "right" {
		t.Errorf("expected left then right on the same rounded top, got %q, %q", lines[0].Text, lines[1].Text)
	}

	m := lines[2]
	if m.Text != "Staal in de BOUW" {
		t.Errorf("unexpected text %q", m.Text)
	}
	if m.Page != 7 {
		t.Errorf("expected page 7, got %d", m.Page)
	}
	if m.Size != 9.4 {
		t.Errorf("expected max size 9.4, got %v", m.Size)
	}
	if !m.Serif || !m.Sans || !m.Bold {
		t.Errorf("expected all flags set, got serif=%v sans=%v bold=%v", m.Serif, m.Sans, m.Bold)
	}
	if want := (layout.Rect{X0: 50, Y0: 199, X1: 130, Y1: 209}); m.BBox != want {
		t.Errorf("bbox = %+v, want %+v", m.BBox, want)
	}
	if m.Column != NoColumn {
		t.Errorf("column should be unset, got %d", m.Column)
	}
}

func TestConfig_Relevant(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		name string
		line PageLine
		want bool
	}{
		{"serif body", PageLine{Size: 9, Serif: true}, true},
		{"sans at band edge", PageLine{Size: 8.5, Sans: true}, true},
		{"upper band edge", PageLine{Size: 9.5, Serif: true}, true},
		{"title size", PageLine{Size: 24, Sans: true}, false},
		{"footnote size", PageLine{Size: 7, Serif: true}, false},
		{"unknown family", PageLine{Size: 9}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cfg.Relevant(tt.line); got != tt.want {
				t.Errorf("Relevant() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFontProfile_DataDriven(t *testing.T) {
	profile := FontProfile{
		BodySerif:   []string{"Georgia"},
		DisplaySans: []string{"Helvetica"},
		BoldWeight:  []string{"Bold"},
	}
	page := textPage(
		textLine("kop", "Helvetica-Bold", 9, 50, 100, 100),
		textLine("tekst", "Georgia", 9, 50, 120, 100),
	)
	lines := ExtractLines(&page, profile)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !lines[0].Sans || !lines[0].Bold || lines[0].Serif {
		t.Errorf("unexpected flags for heading: %+v", lines[0])
	}
	if !lines[1].Serif || lines[1].Sans {
		t.Errorf("unexpected flags for body: %+v", lines[1])
	}
}
