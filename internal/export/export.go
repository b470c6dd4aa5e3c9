// Package export writes extraction results to disk: one text file per
// article with a metadata header, one JSON document per issue, and the
// spreadsheet summarising every article of a batch run.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jackzampolin/folio/internal/issue"
)

// StatusFileName is the name of the batch status spreadsheet.
const StatusFileName = "extraction_status.xlsx"

// Writer lays out the output tree under a root directory:
//
//	<root>/<NNN>_articles_txt/<NNN>_article_<nn>.txt
//	<root>/<NNN>_articles_txt/<NNN>_magazine.json
//	<root>/extraction_status.xlsx
type Writer struct {
	root   string
	logger *slog.Logger
}

// NewWriter creates a writer rooted at root.
func NewWriter(root string, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{root: root, logger: logger}
}

// Root returns the output root.
func (w *Writer) Root() string {
	return w.root
}

// IssuePrefix returns the zero-padded issue number, or the document's file
// stem when the number is unknown.
func IssuePrefix(iss issue.Issue, docPath string) string {
	if iss.Number != nil {
		return fmt.Sprintf("%03d", *iss.Number)
	}
	return strings.TrimSuffix(filepath.Base(docPath), filepath.Ext(docPath))
}

// IssueDir returns the output folder of an issue.
func (w *Writer) IssueDir(iss issue.Issue, docPath string) string {
	return filepath.Join(w.root, IssuePrefix(iss, docPath)+"_articles_txt")
}

// ArticlePath returns the text file path of the n-th (1-based) article.
func (w *Writer) ArticlePath(iss issue.Issue, docPath string, n int) string {
	prefix := IssuePrefix(iss, docPath)
	return filepath.Join(w.IssueDir(iss, docPath), fmt.Sprintf("%s_article_%02d.txt", prefix, n))
}

// MagazinePath returns the path of the issue's JSON document.
func (w *Writer) MagazinePath(iss issue.Issue, docPath string) string {
	return filepath.Join(w.IssueDir(iss, docPath), IssuePrefix(iss, docPath)+"_magazine.json")
}

// WriteArticle writes the metadata header followed by the article text.
// a must carry the page range computed by the extractor.
func (w *Writer) WriteArticle(iss issue.Issue, docPath string, n int, a issue.Article, plain string) (string, error) {
	header, err := MetadataHeader(iss, a)
	if err != nil {
		return "", err
	}
	path := w.ArticlePath(iss, docPath, n)
	if err := writeFile(path, []byte(header+plain)); err != nil {
		return "", err
	}
	w.logger.Debug("article written", "issue", iss.Label(), "article", a.Name(), "path", path)
	return path, nil
}

// WriteMagazine validates the issue document against the embedded schema
// and writes it.
func (w *Writer) WriteMagazine(iss issue.Issue, docPath string, m *Magazine) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return "", fmt.Errorf("failed to encode magazine JSON: %w", err)
	}
	if err := ValidateMagazineJSON(buf.Bytes()); err != nil {
		return "", fmt.Errorf("%s: %w", iss.Label(), err)
	}

	path := w.MagazinePath(iss, docPath)
	if err := writeFile(path, buf.Bytes()); err != nil {
		return "", err
	}
	w.logger.Debug("magazine written", "issue", iss.Label(), "articles", len(m.Articles), "path", path)
	return path, nil
}

// WriteStatus writes the status spreadsheet to the output root.
func (w *Writer) WriteStatus(rows []StatusRow) (string, error) {
	if err := os.MkdirAll(w.root, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(w.root, StatusFileName)
	if err := WriteStatusXLSX(path, rows); err != nil {
		return "", err
	}
	w.logger.Info("status report written", "path", path, "rows", len(rows))
	return path, nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
