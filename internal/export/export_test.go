package export

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/jackzampolin/folio/internal/article"
	"github.com/jackzampolin/folio/internal/issue"
)

func testIssue() issue.Issue {
	return issue.Issue{
		Number:       issue.IntPtr(305),
		ReleaseMonth: issue.IntPtr(3),
		ReleaseYear:  issue.IntPtr(2025),
		PageOffset:   issue.IntPtr(2),
	}
}

func testArticle() issue.Article {
	return issue.Article{
		Section:    "Projecten",
		Page:       issue.IntPtr(6),
		Chapot:     "Stalen brug",
		Title:      "Een brug over de Maas",
		Author:     "A. Jansen en B. de Vries",
		Authors:    []string{"A. Jansen", "B. de Vries"},
		StartIndex: issue.IntPtr(8),
		EndIndex:   issue.IntPtr(10),
		EndPage:    issue.IntPtr(8),
	}
}

func TestMetadataHeader(t *testing.T) {
	got, err := MetadataHeader(testIssue(), testArticle())
	if err != nil {
		t.Fatalf("MetadataHeader failed: %v", err)
	}
	want := strings.Join([]string{
		"========== ARTICLE METADATA ==========",
		"Title          : Stalen brug",
		"Subtitle       : Een brug over de Maas",
		"Section        : Projecten",
		"Authors        : A. Jansen, B. de Vries",
		"Edition        : Bouwen met Staal 305",
		"Release        : 3-2025",
		"Printed pages  : 6–8",
		"PDF pages      : index 8–10 (PDF 9–11)",
		"======================================",
		"",
	}, "\n")
	if got != want {
		t.Errorf("MetadataHeader() =\n%s\nwant\n%s", got, want)
	}
}

func TestMetadataHeader_Fallbacks(t *testing.T) {
	t.Run("range derived from offset", func(t *testing.T) {
		a := issue.Article{Page: issue.IntPtr(6), Chapot: "Kort", Author: "C. Smit"}
		got, err := MetadataHeader(testIssue(), a)
		if err != nil {
			t.Fatalf("MetadataHeader failed: %v", err)
		}
		for _, want := range []string{
			"Author         : C. Smit\n",
			"Printed pages  : 6\n",
			"PDF pages      : index 8 (PDF 9)\n",
		} {
			if !strings.Contains(got, want) {
				t.Errorf("header lacks %q:\n%s", want, got)
			}
		}
		if strings.Contains(got, "Subtitle") {
			t.Error("empty subtitle should be omitted")
		}
	})

	t.Run("unknown release", func(t *testing.T) {
		got, err := MetadataHeader(issue.Issue{}, testArticle())
		if err != nil {
			t.Fatalf("MetadataHeader failed: %v", err)
		}
		if !strings.Contains(got, "Release        : ?-?\n") || !strings.Contains(got, "Edition        : Bouwen met Staal\n") {
			t.Errorf("unexpected header:\n%s", got)
		}
	})

	t.Run("no start index", func(t *testing.T) {
		if _, err := MetadataHeader(issue.Issue{}, issue.Article{Chapot: "X"}); err == nil {
			t.Error("expected error")
		}
	})
}

func TestWriter_Paths(t *testing.T) {
	w := NewWriter("/out", nil)

	if got := w.ArticlePath(testIssue(), "/in/305_BMS.pdf", 3); got != filepath.Join("/out", "305_articles_txt", "305_article_03.txt") {
		t.Errorf("unexpected article path %q", got)
	}
	if got := w.MagazinePath(issue.Issue{Number: issue.IntPtr(7)}, "x.pdf"); got != filepath.Join("/out", "007_articles_txt", "007_magazine.json") {
		t.Errorf("unexpected magazine path %q", got)
	}
	if got := w.IssueDir(issue.Issue{}, "/in/special edition.pdf"); got != filepath.Join("/out", "special edition_articles_txt") {
		t.Errorf("unexpected fallback dir %q", got)
	}
}

func TestWriter_WriteArticleAndMagazine(t *testing.T) {
	root := t.TempDir()
	w := NewWriter(root, nil)
	iss, a := testIssue(), testArticle()
	iss.Articles = []issue.Article{a}

	path, err := w.WriteArticle(iss, "305_BMS.pdf", 1, a, "Tekst van het artikel.\n")
	if err != nil {
		t.Fatalf("WriteArticle failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read article: %v", err)
	}
	if !strings.HasPrefix(string(data), headerOpen) || !strings.HasSuffix(string(data), headerClose+"\nTekst van het artikel.\n") {
		t.Errorf("unexpected article file:\n%s", data)
	}

	intro := "Staal & glas <samen>"
	m := NewMagazine(iss)
	m.Add(iss, a, article.Text{Intro: &intro, Paragraphs: []article.Paragraph{{Header: "Kop", Text: "Tekst."}}})

	path, err = w.WriteMagazine(iss, "305_BMS.pdf", m)
	if err != nil {
		t.Fatalf("WriteMagazine failed: %v", err)
	}
	data, err = os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read magazine: %v", err)
	}
	if !strings.Contains(string(data), intro) {
		t.Errorf("expected unescaped intro in %s", data)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded["total_articles"] != float64(1) || decoded["pdf_index_offset"] != float64(2) {
		t.Errorf("unexpected issue fields: %v", decoded)
	}
	articles := decoded["articles"].([]any)
	text := articles[0].(map[string]any)["text"].(map[string]any)
	if text["first_paragraph"] != nil {
		t.Errorf("expected null first paragraph, got %v", text["first_paragraph"])
	}
}

func TestValidateMagazineJSON(t *testing.T) {
	valid := NewMagazine(testIssue())
	valid.Add(testIssue(), issue.Article{Chapot: "Zonder auteur"}, article.Text{})
	data, err := json.Marshal(valid)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if err := ValidateMagazineJSON(data); err != nil {
		t.Errorf("expected valid document, got %v", err)
	}

	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{`},
		{"missing articles", `{"issue_number":1,"release_month":null,"release_year":null,"pdf_index_offset":null,"total_articles":0}`},
		{"month out of range", `{"issue_number":1,"release_month":13,"release_year":null,"pdf_index_offset":null,"total_articles":0,"articles":[]}`},
		{"unknown field", `{"issue_number":1,"release_month":null,"release_year":null,"pdf_index_offset":null,"total_articles":0,"articles":[],"extra":1}`},
		{"article without text", `{"issue_number":1,"release_month":null,"release_year":null,"pdf_index_offset":null,"total_articles":1,"articles":[{"metadata":{"chapot":"","title":"","section":"","authors":[],"edition":"BmS"}}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateMagazineJSON([]byte(tt.doc)); !errors.Is(err, ErrInvalidMagazine) {
				t.Errorf("expected ErrInvalidMagazine, got %v", err)
			}
		})
	}
}

func TestSanitizeCell(t *testing.T) {
	if got := SanitizeCell("Sta\x07al\tbouw\x00\n\x1f"); got != "Staal\tbouw\n" {
		t.Errorf("SanitizeCell() = %q", got)
	}
}

func TestWriteStatus(t *testing.T) {
	w := NewWriter(filepath.Join(t.TempDir(), "out"), nil)

	ok := NewStatusRow(testIssue(), testArticle())
	ok.Chapot = "Stalen\x07 brug"
	ok.Status = StatusOK
	failed := NewStatusRow(testIssue(), issue.Article{Chapot: "Kapot"})
	failed.Status = StatusFailed
	failed.Error = "start index outside document"

	path, err := w.WriteStatus([]StatusRow{ok, failed})
	if err != nil {
		t.Fatalf("WriteStatus failed: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("failed to open status report: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(statusSheet)
	if err != nil {
		t.Fatalf("failed to read rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header and 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "edition" || rows[0][len(statusColumns)-1] != "error" {
		t.Errorf("unexpected header %v", rows[0])
	}
	if rows[1][1] != "Stalen brug" || rows[1][4] != "A. Jansen, B. de Vries" || rows[1][10] != StatusOK {
		t.Errorf("unexpected first row %v", rows[1])
	}
	if rows[2][10] != StatusFailed || rows[2][11] != "start index outside document" {
		t.Errorf("unexpected failed row %v", rows[2])
	}
}
