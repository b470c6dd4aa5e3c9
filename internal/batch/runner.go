// Package batch runs article extraction over an archive of magazine PDFs:
// it discovers the documents, loads each issue's manifest, extracts the
// articles in parallel and writes the per-issue outputs, the status
// spreadsheet and the run ledger.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/jackzampolin/folio/internal/article"
	"github.com/jackzampolin/folio/internal/export"
	"github.com/jackzampolin/folio/internal/issue"
	"github.com/jackzampolin/folio/internal/jobs"
	"github.com/jackzampolin/folio/internal/layout"
	"github.com/jackzampolin/folio/internal/ledger"
)

const taskExtractArticle = "extract_article"

// Options configures a Runner.
type Options struct {
	Root        string
	OutputDir   string
	Workers     int // 0: one per CPU
	YearFolders bool
	Reverse     bool

	OpenAttempts uint
	OpenDelay    time.Duration

	Extraction article.Config
	Labels     issue.LabelTable
}

// Opener opens a document for reading.
type Opener func(path string) (layout.Document, error)

// Option customises a Runner.
type Option func(*Runner)

// WithLedger records the run in store.
func WithLedger(store *ledger.Store) Option {
	return func(r *Runner) { r.ledger = store }
}

// WithOpener replaces the document opener.
func WithOpener(open Opener) Option {
	return func(r *Runner) { r.open = open }
}

// WithSink adds a receiver of extraction events next to the log and the
// ledger.
func WithSink(sink article.Sink) Option {
	return func(r *Runner) { r.sinks = append(r.sinks, sink) }
}

// Runner processes an archive folder.
type Runner struct {
	opts   Options
	logger *slog.Logger
	writer *export.Writer
	ledger *ledger.Store
	open   Opener
	sinks  []article.Sink
}

// NewRunner creates a runner.
func NewRunner(opts Options, logger *slog.Logger, options ...Option) (*Runner, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := opts.Extraction.Validate(); err != nil {
		return nil, err
	}
	if opts.OpenAttempts == 0 {
		opts.OpenAttempts = 1
	}
	r := &Runner{
		opts:   opts,
		logger: logger,
		writer: export.NewWriter(opts.OutputDir, logger),
		open:   openValidated(logger),
	}
	for _, o := range options {
		o(r)
	}
	return r, nil
}

// openValidated checks the file with pdfcpu before reading its layout. A
// failed check is logged; many archive PDFs carry minor structural defects
// that do not affect their text.
func openValidated(logger *slog.Logger) Opener {
	return func(path string) (layout.Document, error) {
		doc, err := layout.Open(path)
		if err != nil {
			return nil, err
		}
		if pages, verr := layout.Validate(path); verr != nil {
			logger.Warn("document failed validation", "path", path, "error", verr)
		} else if pages != doc.PageCount() {
			logger.Warn("page count mismatch", "path", path, "validated", pages, "read", doc.PageCount())
		}
		return doc, nil
	}
}

// LowHyphenationHit identifies an article with suspiciously few hyphens.
type LowHyphenationHit struct {
	Position       int     `json:"position"`
	Title          string  `json:"title"`
	HyphensPer1000 float64 `json:"hyphens_per_1000"`
}

// IssueReport summarises one document.
type IssueReport struct {
	Document       string              `json:"document"`
	Issue          string              `json:"issue"`
	Exported       int                 `json:"exported"`
	Failed         int                 `json:"failed"`
	LowHyphenation []LowHyphenationHit `json:"low_hyphenation,omitempty"`
	Magazine       string              `json:"magazine,omitempty"`
	Error          string              `json:"error,omitempty"`
}

// Report summarises a run.
type Report struct {
	RunID      string        `json:"run_id,omitempty"`
	Issues     []IssueReport `json:"issues"`
	Articles   int           `json:"articles"`
	Failed     int           `json:"failed"`
	StatusFile string        `json:"status_file,omitempty"`
}

// LowHyphenation counts flagged articles over all issues.
func (r *Report) LowHyphenation() int {
	n := 0
	for _, i := range r.Issues {
		n += len(i.LowHyphenation)
	}
	return n
}

// Run processes every document under the root. Failures are isolated: an
// article that fails is reported and skipped, a document that cannot be
// opened or has no manifest is reported and the run moves on. Run returns
// an error only when the root cannot be read, the ledger or status file
// cannot be written, or ctx is cancelled.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	docs, err := Discover(r.opts.Root, r.opts.YearFolders, r.opts.Reverse)
	if err != nil {
		return nil, err
	}
	r.logger.Info("batch starting", "root", r.opts.Root, "documents", len(docs), "output", r.opts.OutputDir)

	report := &Report{Issues: []IssueReport{}}
	sinks := append([]article.Sink{article.LogSink{Logger: r.logger}}, r.sinks...)

	var run *ledger.Run
	if r.ledger != nil {
		run, err = r.ledger.StartRun(ctx, r.opts.Root)
		if err != nil {
			return nil, err
		}
		report.RunID = run.ID
		sinks = append(sinks, run)
	}

	extractor, err := article.NewExtractor(r.opts.Extraction,
		article.WithLogger(r.logger), article.WithSink(article.Sinks(sinks...)))
	if err != nil {
		return nil, err
	}

	pool := jobs.NewCPUWorkerPool(jobs.CPUWorkerPoolConfig{
		Name:        "articles",
		Logger:      r.logger,
		WorkerCount: r.opts.Workers,
	})
	pool.RegisterHandler(taskExtractArticle, func(ctx context.Context, unit *jobs.WorkUnit) (any, error) {
		t := unit.Payload.(articleTask)
		return extractor.Extract(ctx, t.doc, t.issue, t.article)
	})
	poolCtx, stopPool := context.WithCancel(ctx)
	defer stopPool()
	go pool.Start(poolCtx)

	var rows []export.StatusRow
	for _, path := range docs {
		if ctx.Err() != nil {
			break
		}
		ir, issueRows := r.processIssue(ctx, pool, run, path)
		report.Issues = append(report.Issues, ir)
		report.Articles += ir.Exported + ir.Failed
		report.Failed += ir.Failed
		rows = append(rows, issueRows...)
	}

	statusPath, err := r.writer.WriteStatus(rows)
	if err != nil {
		return report, err
	}
	report.StatusFile = statusPath

	if run != nil {
		sum := ledger.Summary{
			Issues:         len(report.Issues),
			Articles:       report.Articles,
			Failed:         report.Failed,
			LowHyphenation: report.LowHyphenation(),
		}
		if err := run.Finish(ctx, sum); err != nil {
			return report, err
		}
	}

	r.logger.Info("batch finished", "issues", len(report.Issues), "articles", report.Articles,
		"failed", report.Failed, "low_hyphenation", report.LowHyphenation(),
		"work_units", pool.Status().Completed)
	return report, ctx.Err()
}

type articleTask struct {
	doc     layout.Document
	issue   issue.Issue
	article issue.Article
}

// openDocument opens path, retrying transient failures.
func (r *Runner) openDocument(ctx context.Context, path string) (layout.Document, error) {
	var doc layout.Document
	err := retry.Do(
		func() error {
			d, err := r.open(path)
			if err != nil {
				return err
			}
			doc = d
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(r.opts.OpenAttempts),
		retry.Delay(r.opts.OpenDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			r.logger.Debug("retrying document open", "path", path, "attempt", n+1, "error", err)
		}),
	)
	return doc, err
}

func (r *Runner) processIssue(ctx context.Context, pool *jobs.CPUWorkerPool, run *ledger.Run, path string) (IssueReport, []export.StatusRow) {
	ir := IssueReport{Document: path}
	logger := r.logger.With("document", path)

	iss, err := issue.LoadManifest(path)
	if err != nil {
		ir.Error = err.Error()
		if errors.Is(err, issue.ErrNoManifest) {
			logger.Warn("skipping document without manifest")
		} else {
			logger.Error("failed to load manifest", "error", err)
		}
		return ir, nil
	}
	ir.Issue = iss.Label()
	logger = logger.With("issue", iss.Label())

	doc, err := r.openDocument(ctx, path)
	if err != nil {
		ir.Error = err.Error()
		logger.Error("failed to open document", "error", err)
		return ir, nil
	}
	defer doc.Close()

	if err := issue.ResolveOffset(ctx, doc, iss, r.opts.Labels); err != nil {
		logger.Warn("page offset unresolved", "error", err)
	}
	if iss.NumberOrZero() == 0 {
		logger.Warn("issue number unknown, output named after the file")
	}

	payloads := make([]any, len(iss.Articles))
	for i, a := range iss.Articles {
		payloads[i] = articleTask{doc: doc, issue: *iss, article: a}
	}
	results, err := pool.Run(ctx, taskExtractArticle, payloads)
	if err != nil {
		ir.Error = err.Error()
		logger.Warn("issue interrupted", "error", err)
		return ir, nil
	}

	magazine := export.NewMagazine(*iss)
	rows := make([]export.StatusRow, 0, len(results))
	for i, wr := range results {
		n := i + 1
		a := iss.Articles[i]
		row := export.NewStatusRow(*iss, a)
		outcome := ledger.Outcome{Document: path, Issue: iss.Label(), Position: n, Article: a.Name()}

		res, _ := wr.Output.(*article.Result)
		if !wr.Success || res == nil {
			err := wr.Error
			if err == nil {
				err = fmt.Errorf("no result")
			}
			logger.Error("article failed", "position", n, "article", a.Name(), "error", err)
			row.Status, row.Error = export.StatusFailed, err.Error()
			outcome.Status, outcome.Error = export.StatusFailed, err.Error()
			ir.Failed++
			rows = append(rows, row)
			r.recordOutcome(ctx, run, outcome)
			continue
		}

		annotated := res.Annotate(a)
		out, err := r.writer.WriteArticle(*iss, path, n, annotated, res.Plain)
		if err != nil {
			logger.Error("failed to write article", "position", n, "article", a.Name(), "error", err)
			row.Status, row.Error = export.StatusFailed, err.Error()
			outcome.Status, outcome.Error = export.StatusFailed, err.Error()
			ir.Failed++
			rows = append(rows, row)
			r.recordOutcome(ctx, run, outcome)
			continue
		}
		magazine.Add(*iss, annotated, res.Text)
		ir.Exported++

		row.EndPage = annotated.EndPage
		row.HyphensPer1000 = res.HyphensPer1000
		row.LowHyphenation = res.LowHyphenation
		row.EndMarkerFound = res.EndMarkerFound
		row.Status = export.StatusOK
		if res.LowHyphenation || !res.EndMarkerFound {
			row.Status = export.StatusWarning
		}
		if res.LowHyphenation {
			ir.LowHyphenation = append(ir.LowHyphenation, LowHyphenationHit{
				Position: n, Title: a.Title, HyphensPer1000: res.HyphensPer1000,
			})
		}
		rows = append(rows, row)

		outcome.Status = row.Status
		outcome.StartIndex = annotated.StartIndex
		outcome.EndIndex = annotated.EndIndex
		outcome.EndMarkerFound = res.EndMarkerFound
		outcome.HyphensPer1000 = res.HyphensPer1000
		outcome.OutputPath = out
		r.recordOutcome(ctx, run, outcome)
	}

	if ir.Exported > 0 {
		mpath, err := r.writer.WriteMagazine(*iss, path, magazine)
		if err != nil {
			logger.Error("failed to write magazine JSON", "error", err)
			ir.Error = err.Error()
		}
		ir.Magazine = mpath
	}

	r.logIssueSummary(logger, ir)
	return ir, rows
}

func (r *Runner) recordOutcome(ctx context.Context, run *ledger.Run, o ledger.Outcome) {
	if run == nil {
		return
	}
	if err := run.RecordOutcome(ctx, o); err != nil {
		r.logger.Error("failed to record outcome", "error", err)
	}
}

func (r *Runner) logIssueSummary(logger *slog.Logger, ir IssueReport) {
	if len(ir.LowHyphenation) == 0 {
		logger.Info("issue exported", "exported", ir.Exported, "failed", ir.Failed, "hyphenation_warnings", 0)
		return
	}
	logger.Warn("issue exported with hyphenation warnings",
		"exported", ir.Exported, "failed", ir.Failed, "hyphenation_warnings", len(ir.LowHyphenation))
	for _, hit := range ir.LowHyphenation {
		logger.Warn(fmt.Sprintf("article %02d: %s", hit.Position, hit.Title),
			"hyphens_per_1000", fmt.Sprintf("%.2f", hit.HyphensPer1000))
	}
}
