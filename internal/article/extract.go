package article

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackzampolin/folio/internal/issue"
	"github.com/jackzampolin/folio/internal/layout"
)

// Extractor runs the per-article pipeline. It holds no per-article state and
// is safe for concurrent use.
type Extractor struct {
	cfg    Config
	logger *slog.Logger
	sink   Sink
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger used for progress messages.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) { e.logger = logger }
}

// WithSink sets the receiver of soft quality events.
func WithSink(sink Sink) Option {
	return func(e *Extractor) { e.sink = sink }
}

// NewExtractor creates an extractor with the given settings.
func NewExtractor(cfg Config, opts ...Option) (*Extractor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Extractor{cfg: cfg}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.sink == nil {
		e.sink = discardSink{}
	}
	return e, nil
}

// Config returns the extractor's settings.
func (e *Extractor) Config() Config {
	return e.cfg
}

// Result is the outcome of extracting one article.
type Result struct {
	Blocks []Block `json:"blocks"` // after header merging and hyphen repair
	Text   Text    `json:"text"`
	Plain  string  `json:"plain"`
	Range  Range   `json:"range"`

	EndMarkerFound bool `json:"end_marker_found"`

	Hyphens        int     `json:"hyphens"`
	Chars          int     `json:"chars"`
	HyphensPer1000 float64 `json:"hyphens_per_1000"`
	LowHyphenation bool    `json:"low_hyphenation"`
}

// Annotate returns a copy of a with the computed page range filled in.
func (r *Result) Annotate(a issue.Article) issue.Article {
	start, end := r.Range.StartIndex, r.Range.EndIndex
	a.StartIndex = &start
	a.EndIndex = &end
	if r.Range.EndPage != nil {
		p := *r.Range.EndPage
		a.EndPage = &p
	}
	return a
}

// StartIndex maps the article's printed start page to a document index.
func (e *Extractor) StartIndex(ctx context.Context, iss issue.Issue, a issue.Article, pageCount int) (int, error) {
	if a.Page == nil {
		e.sink.Emit(ctx, Event{
			Kind:        EventMissingStartPage,
			IssueNumber: iss.Number,
			Issue:       iss.Label(),
			Article:     a.Name(),
		})
		return 0, articleError(ErrConfiguration, iss.Label(), a.Name(), "no start page")
	}
	if iss.PageOffset == nil {
		return 0, articleError(ErrConfiguration, iss.Label(), a.Name(), "issue has no page offset")
	}
	idx := *a.Page + *iss.PageOffset
	if idx < 0 || idx >= pageCount {
		return 0, articleError(ErrBounds, iss.Label(), a.Name(),
			"start index %d (page %d, offset %d) outside document of %d pages", idx, *a.Page, *iss.PageOffset, pageCount)
	}
	return idx, nil
}

// scan is the outcome of walking the pages of one article.
type scan struct {
	blocks    []Block
	lastIndex int // last page that contributed a block, or the start page
	ended     bool
}

// Collect walks the document from start, classifying the main-text lines
// of each page in reading order until a line carries the end marker or the
// document runs out. Pages without relevant lines are skipped. When ctx is
// cancelled between pages the blocks collected so far are returned together
// with the context error.
func (e *Extractor) Collect(ctx context.Context, doc layout.Document, start int) ([]Block, int, bool, error) {
	s, err := e.collect(ctx, doc, start, e.logger)
	return s.blocks, s.lastIndex, s.ended, err
}

func (e *Extractor) collect(ctx context.Context, doc layout.Document, start int, logger *slog.Logger) (scan, error) {
	s := scan{lastIndex: start}
	state := BeforeBody
	order := 0

	for idx := start; idx < doc.PageCount() && !s.ended; idx++ {
		if err := ctx.Err(); err != nil {
			return s, err
		}
		page, err := doc.Page(ctx, idx)
		if err != nil {
			return s, fmt.Errorf("reading page %d: %w", idx, err)
		}

		lines := e.cfg.FilterRelevant(ExtractLines(page, e.cfg.Fonts))
		if len(lines) == 0 {
			logger.Debug("page has no main text", "page_index", idx)
			continue
		}
		e.cfg.AssignColumns(lines)
		SortReadingOrder(lines)

		for _, l := range lines {
			var class Class
			class, state = Classify(l, state)
			end, text := DetectEndMarker(l.Text)

			s.blocks = append(s.blocks, Block{
				Kind:   class.Kind(),
				Text:   text,
				Page:   idx,
				Column: max(l.Column, 0),
				Order:  order,
			})
			order++
			s.lastIndex = idx

			if end {
				s.ended = true
				break
			}
		}
		logger.Debug("page scanned", "page_index", idx, "lines", len(lines), "blocks", order, "ended", s.ended)
	}
	return s, nil
}

// Extract runs the full pipeline for one article: locate the start page,
// collect blocks, merge wrapped headers, repair broken words, and render.
// Soft conditions (no end marker, low hyphenation) are reported to the sink
// and never fail the call. If ctx is cancelled mid-article the partial
// result is returned with the context error and a no-end-marker event.
func (e *Extractor) Extract(ctx context.Context, doc layout.Document, iss issue.Issue, a issue.Article) (*Result, error) {
	logger := e.logger.With("issue", iss.Label(), "article", a.Name())

	start, err := e.StartIndex(ctx, iss, a, doc.PageCount())
	if err != nil {
		return nil, err
	}

	s, scanErr := e.collect(ctx, doc, start, logger)
	if scanErr != nil && !errors.Is(scanErr, context.Canceled) && !errors.Is(scanErr, context.DeadlineExceeded) {
		return nil, fmt.Errorf("%s, article %q: %w", iss.Label(), a.Name(), scanErr)
	}

	blocks := RepairHyphenation(MergeHeaders(s.blocks))
	res := &Result{
		Blocks:         blocks,
		Text:           Structure(blocks),
		Plain:          Reflow(RenderLines(blocks), e.cfg.WrapWidth),
		EndMarkerFound: s.ended,
		Range: Range{
			StartIndex: start,
			EndIndex:   s.lastIndex,
			StartPage:  *a.Page,
		},
	}
	endPage := s.lastIndex - *iss.PageOffset
	res.Range.EndPage = &endPage

	// An interrupted scan is reported like one that ran out of pages.
	if !s.ended {
		last := s.lastIndex
		e.sink.Emit(ctx, Event{
			Kind:        EventNoEndMarker,
			IssueNumber: iss.Number,
			Issue:       iss.Label(),
			Article:     a.Name(),
			StartPage:   a.Page,
			LastIndex:   &last,
		})
	}
	if scanErr != nil {
		logger.Warn("extraction interrupted", "blocks", len(s.blocks), "error", scanErr)
		return res, scanErr
	}

	low, hyphens, chars, per1000 := e.cfg.LowHyphenation(res.Plain)
	res.Hyphens, res.Chars, res.HyphensPer1000, res.LowHyphenation = hyphens, chars, per1000, low
	if low {
		e.sink.Emit(ctx, Event{
			Kind:           EventLowHyphenation,
			IssueNumber:    iss.Number,
			Issue:          iss.Label(),
			Article:        a.Name(),
			StartPage:      a.Page,
			Hyphens:        hyphens,
			Chars:          chars,
			HyphensPer1000: per1000,
		})
	}

	logger.Debug("article extracted",
		"start_index", start, "end_index", s.lastIndex, "blocks", len(blocks), "end_marker", s.ended)
	return res, nil
}
