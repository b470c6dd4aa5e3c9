package export

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/jackzampolin/folio/internal/article"
	"github.com/jackzampolin/folio/internal/issue"
)

// ErrInvalidMagazine is returned when an issue document does not match the
// magazine schema.
var ErrInvalidMagazine = errors.New("magazine JSON does not match schema")

//go:embed magazine.schema.json
var magazineSchema []byte

// Magazine is the per-issue JSON document.
type Magazine struct {
	IssueNumber    *int            `json:"issue_number"`
	ReleaseMonth   *int            `json:"release_month"`
	ReleaseYear    *int            `json:"release_year"`
	PDFIndexOffset *int            `json:"pdf_index_offset"`
	TotalArticles  int             `json:"total_articles"`
	Articles       []ArticleRecord `json:"articles"`
}

// ArticleRecord is one extracted article in the issue document.
type ArticleRecord struct {
	Metadata ArticleMetadata `json:"metadata"`
	Text     article.Text    `json:"text"`
}

// ArticleMetadata describes an article and the pages it was read from.
type ArticleMetadata struct {
	Chapot            string   `json:"chapot"`
	Title             string   `json:"title"`
	Section           string   `json:"section"`
	Authors           []string `json:"authors"`
	Edition           string   `json:"edition"`
	ReleaseMonth      *int     `json:"release_month"`
	ReleaseYear       *int     `json:"release_year"`
	PrintedPageStart  *int     `json:"printed_page_start"`
	PrintedPageEnd    *int     `json:"printed_page_end"`
	PDFPageStartIndex *int     `json:"pdf_page_start_index"`
	PDFPageEndIndex   *int     `json:"pdf_page_end_index"`
}

// NewMagazine starts the document for an issue. TotalArticles counts the
// manifest entries, including articles that later fail to extract.
func NewMagazine(iss issue.Issue) *Magazine {
	return &Magazine{
		IssueNumber:    iss.Number,
		ReleaseMonth:   iss.ReleaseMonth,
		ReleaseYear:    iss.ReleaseYear,
		PDFIndexOffset: iss.PageOffset,
		TotalArticles:  len(iss.Articles),
		Articles:       []ArticleRecord{},
	}
}

// Add appends an extracted article. a should carry the page range set by
// the extractor.
func (m *Magazine) Add(iss issue.Issue, a issue.Article, text article.Text) {
	authors := a.AuthorList()
	if authors == nil {
		authors = []string{}
	}
	if text.Paragraphs == nil {
		text.Paragraphs = []article.Paragraph{}
	}
	m.Articles = append(m.Articles, ArticleRecord{
		Metadata: ArticleMetadata{
			Chapot:            a.Chapot,
			Title:             a.Title,
			Section:           a.Section,
			Authors:           authors,
			Edition:           iss.EditionLabel(),
			ReleaseMonth:      iss.ReleaseMonth,
			ReleaseYear:       iss.ReleaseYear,
			PrintedPageStart:  a.Page,
			PrintedPageEnd:    a.EndPage,
			PDFPageStartIndex: a.StartIndex,
			PDFPageEndIndex:   a.EndIndex,
		},
		Text: text,
	})
}

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("magazine.schema.json", bytes.NewReader(magazineSchema)); err != nil {
		return nil, fmt.Errorf("failed to load magazine schema: %w", err)
	}
	schema, err := compiler.Compile("magazine.schema.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile magazine schema: %w", err)
	}
	return schema, nil
})

// ValidateMagazineJSON checks an encoded issue document against the
// embedded schema.
func ValidateMagazineJSON(data []byte) error {
	schema, err := compiledSchema()
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMagazine, err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMagazine, err)
	}
	return nil
}
