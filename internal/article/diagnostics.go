package article

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// EventKind identifies a soft extraction condition.
type EventKind string

const (
	EventMissingStartPage EventKind = "missing_start_page"
	EventNoEndMarker      EventKind = "no_end_marker"
	EventLowHyphenation   EventKind = "low_hyphenation"
)

// Event describes a soft quality condition of one article. Events never
// abort extraction.
type Event struct {
	Kind        EventKind `json:"kind"`
	IssueNumber *int      `json:"issue_number,omitempty"`
	Issue       string    `json:"issue"`
	Article     string    `json:"article"`
	StartPage   *int      `json:"start_page,omitempty"` // printed

	// Last document index with article content; set for EventNoEndMarker.
	LastIndex *int `json:"last_index,omitempty"`

	// Measurements for EventLowHyphenation.
	Hyphens        int     `json:"hyphens,omitempty"`
	Chars          int     `json:"chars,omitempty"`
	HyphensPer1000 float64 `json:"hyphens_per_1000,omitempty"`
}

// Message renders the event as a single human-readable sentence.
func (e Event) Message() string {
	switch e.Kind {
	case EventMissingStartPage:
		return fmt.Sprintf("%s, article %q has no start page", e.Issue, e.Article)
	case EventNoEndMarker:
		last := "unknown"
		if e.LastIndex != nil {
			last = fmt.Sprintf("index %d (PDF page %d)", *e.LastIndex, *e.LastIndex+1)
		}
		return fmt.Sprintf("%s, article %q: no end-of-article marker found, last page with content %s", e.Issue, e.Article, last)
	case EventLowHyphenation:
		return fmt.Sprintf("%s, article %q: low hyphenation, %d hyphens over %d chars (%.2f per 1000)",
			e.Issue, e.Article, e.Hyphens, e.Chars, e.HyphensPer1000)
	default:
		return fmt.Sprintf("%s, article %q: %s", e.Issue, e.Article, e.Kind)
	}
}

// Sink receives extraction events. Implementations must be safe for
// concurrent use: articles of one issue may be extracted in parallel.
type Sink interface {
	Emit(ctx context.Context, e Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, e Event)

// Emit calls f.
func (f SinkFunc) Emit(ctx context.Context, e Event) { f(ctx, e) }

// LogSink writes events as slog warnings.
type LogSink struct {
	Logger *slog.Logger
}

// Emit logs the event.
func (s LogSink) Emit(ctx context.Context, e Event) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	attrs := []any{"kind", e.Kind, "issue", e.Issue, "article", e.Article}
	if e.StartPage != nil {
		attrs = append(attrs, "start_page", *e.StartPage)
	}
	if e.LastIndex != nil {
		attrs = append(attrs, "last_index", *e.LastIndex)
	}
	if e.Kind == EventLowHyphenation {
		attrs = append(attrs, "hyphens", e.Hyphens, "chars", e.Chars, "per_1000", fmt.Sprintf("%.2f", e.HyphensPer1000))
	}
	logger.WarnContext(ctx, e.Message(), attrs...)
}

// Collector keeps every event it receives.
type Collector struct {
	mu     sync.Mutex
	events []Event
}

// Emit records the event.
func (c *Collector) Emit(_ context.Context, e Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

// Events returns a copy of the recorded events.
func (c *Collector) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Event, len(c.events))
	copy(out, c.events)
	return out
}

// Kinds returns the kinds of the recorded events, in order.
func (c *Collector) Kinds() []EventKind {
	events := c.Events()
	kinds := make([]EventKind, len(events))
	for i, e := range events {
		kinds[i] = e.Kind
	}
	return kinds
}

type multiSink []Sink

func (m multiSink) Emit(ctx context.Context, e Event) {
	for _, s := range m {
		s.Emit(ctx, e)
	}
}

// Sinks fans events out to every non-nil sink.
func Sinks(sinks ...Sink) Sink {
	var m multiSink
	for _, s := range sinks {
		if s != nil {
			m = append(m, s)
		}
	}
	return m
}

type discardSink struct{}

func (discardSink) Emit(context.Context, Event) {}
