package article

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestSinks_FanOut(t *testing.T) {
	a, b := &Collector{}, &Collector{}
	var calls int
	sink := Sinks(a, nil, b, SinkFunc(func(context.Context, Event) { calls++ }))

	sink.Emit(context.Background(), Event{Kind: EventNoEndMarker})
	sink.Emit(context.Background(), Event{Kind: EventLowHyphenation})

	for _, c := range []*Collector{a, b} {
		if got := c.Kinds(); len(got) != 2 || got[0] != EventNoEndMarker || got[1] != EventLowHyphenation {
			t.Errorf("unexpected kinds %v", got)
		}
	}
	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	LogSink{Logger: logger}.Emit(context.Background(), Event{
		Kind:      EventNoEndMarker,
		Issue:     "BMS-305",
		Article:   "Stalen brug",
		StartPage: intPtr(10),
		LastIndex: intPtr(4),
	})

	out := buf.String()
	for _, want := range []string{"level=WARN", "kind=no_end_marker", "start_page=10", "last_index=4", "PDF page 5"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q lacks %q", out, want)
		}
	}
}

func TestEvent_Message(t *testing.T) {
	tests := []struct {
		event Event
		want  string
	}{
		{Event{Kind: EventMissingStartPage, Issue: "BMS-1", Article: "A"}, `BMS-1, article "A" has no start page`},
		{Event{Kind: EventNoEndMarker, Issue: "BMS-1", Article: "A"}, "last page with content unknown"},
		{Event{Kind: EventLowHyphenation, Issue: "BMS-1", Article: "A", Hyphens: 1, Chars: 2500, HyphensPer1000: 0.4}, "1 hyphens over 2500 chars (0.40 per 1000)"},
	}
	for _, tt := range tests {
		t.Run(string(tt.event.Kind), func(t *testing.T) {
			if got := tt.event.Message(); !strings.Contains(got, tt.want) {
				t.Errorf("Message() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		valid  bool
	}{
		{"defaults", func(*Config) {}, true},
		{"inverted font band", func(c *Config) { c.MaxFontSize = 8 }, false},
		{"zero column gap", func(c *Config) { c.ColumnGap = 0 }, false},
		{"anchor ratio above one", func(c *Config) { c.AnchorWidthRatio = 1.5 }, false},
		{"no columns", func(c *Config) { c.MaxColumns = 0 }, false},
		{"negative wrap width", func(c *Config) { c.WrapWidth = -1 }, false},
		{"no wrapping", func(c *Config) { c.WrapWidth = 0 }, true},
		{"no font families", func(c *Config) { c.Fonts = FontProfile{} }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.valid && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.valid && !errors.Is(err, ErrConfiguration) {
				t.Errorf("expected ErrConfiguration, got %v", err)
			}
		})
	}
}
