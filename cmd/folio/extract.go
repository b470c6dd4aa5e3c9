package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/folio/internal/article"
	"github.com/jackzampolin/folio/internal/export"
	"github.com/jackzampolin/folio/internal/issue"
	"github.com/jackzampolin/folio/internal/layout"
	"github.com/jackzampolin/folio/internal/output"
)

var (
	extractArticle  int
	extractManifest string
	extractWrite    bool
)

// extractedArticle is the structured output of one article.
type extractedArticle struct {
	Position       int           `json:"position" yaml:"position"`
	Article        issue.Article `json:"article" yaml:"article"`
	Text           *article.Text `json:"text,omitempty" yaml:"text,omitempty"`
	EndMarkerFound bool          `json:"end_marker_found" yaml:"end_marker_found"`
	HyphensPer1000 float64       `json:"hyphens_per_1000" yaml:"hyphens_per_1000"`
	LowHyphenation bool          `json:"low_hyphenation" yaml:"low_hyphenation"`
	OutputPath     string        `json:"output_path,omitempty" yaml:"output_path,omitempty"`
	Error          string        `json:"error,omitempty" yaml:"error,omitempty"`
}

var extractCmd = &cobra.Command{
	Use:   "extract <document>",
	Short: "Extract the articles of one issue",
	Long: `Extract the articles of one issue and print them.

The document is a PDF or a layout dump (.json) in the MuPDF dict format.
The issue manifest is read from a .yaml, .yml or .json file with the same
name next to the document unless --manifest is given.

Examples:
  folio extract 305_BMS.pdf                 # all articles as text
  folio extract 305_BMS.pdf --article 3     # only the third article
  folio extract 305_BMS.pdf -o json         # intro, paragraphs and ranges as JSON
  folio extract 305_BMS.pdf --write         # also write TXT and JSON outputs`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc, err := services(cmd)
		if err != nil {
			return err
		}
		cfg := svc.Config.Get()
		logger := svc.Logger
		docPath := args[0]

		var iss *issue.Issue
		if extractManifest != "" {
			iss, err = issue.ReadManifest(extractManifest, docPath)
		} else {
			iss, err = issue.LoadManifest(docPath)
		}
		if err != nil {
			return err
		}
		if extractArticle < 0 || extractArticle > len(iss.Articles) {
			return fmt.Errorf("article %d out of range: issue lists %d articles", extractArticle, len(iss.Articles))
		}

		doc, err := layout.Open(docPath)
		if err != nil {
			return err
		}
		defer doc.Close()

		if err := issue.ResolveOffset(ctx, doc, iss, cfg.Labels); err != nil {
			return err
		}

		extractor, err := article.NewExtractor(cfg.Extraction,
			article.WithLogger(logger), article.WithSink(article.LogSink{Logger: logger}))
		if err != nil {
			return err
		}

		var writer *export.Writer
		var magazine *export.Magazine
		if extractWrite {
			writer = export.NewWriter(svc.Home.ResolveOutput(cfg.Batch.OutputDir), logger)
			magazine = export.NewMagazine(*iss)
		}

		var results []extractedArticle
		var failed []error
		for i, a := range iss.Articles {
			n := i + 1
			if extractArticle != 0 && n != extractArticle {
				continue
			}
			out := extractedArticle{Position: n, Article: a}

			res, err := extractor.Extract(ctx, doc, *iss, a)
			if err != nil && res == nil {
				out.Error = err.Error()
				failed = append(failed, err)
				results = append(results, out)
				continue
			}
			out.Article = res.Annotate(a)
			out.Text = &res.Text
			out.EndMarkerFound = res.EndMarkerFound
			out.HyphensPer1000 = res.HyphensPer1000
			out.LowHyphenation = res.LowHyphenation

			if writer != nil && err == nil {
				path, werr := writer.WriteArticle(*iss, docPath, n, out.Article, res.Plain)
				if werr != nil {
					return werr
				}
				out.OutputPath = path
				magazine.Add(*iss, out.Article, res.Text)
			}

			if !output.IsStructured() {
				if perr := printArticle(cmd, *iss, out.Article, res.Plain); perr != nil {
					return perr
				}
			}
			results = append(results, out)

			if err != nil {
				// Interrupted: the partial article has been printed.
				return err
			}
		}

		if writer != nil && len(magazine.Articles) > 0 {
			if _, err := writer.WriteMagazine(*iss, docPath, magazine); err != nil {
				return err
			}
		}

		if output.IsStructured() {
			if err := output.Print(results); err != nil {
				return err
			}
		}
		return errors.Join(failed...)
	},
}

func printArticle(cmd *cobra.Command, iss issue.Issue, a issue.Article, plain string) error {
	header, err := export.MetadataHeader(iss, a)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	_, err = fmt.Fprintf(w, "%s\n%s\n", header, strings.TrimRight(plain, "\n"))
	return err
}

func init() {
	extractCmd.Flags().IntVar(&extractArticle, "article", 0, "1-based position of the article to extract (default: all)")
	extractCmd.Flags().StringVar(&extractManifest, "manifest", "", "issue manifest (default: sidecar file next to the document)")
	extractCmd.Flags().BoolVar(&extractWrite, "write", false, "also write TXT and JSON outputs to the output directory")

	rootCmd.AddCommand(extractCmd)
}
