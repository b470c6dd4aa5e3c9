package output

import (
	"bytes"
	"testing"
)

type sample struct {
	Name  string `json:"name" yaml:"name"`
	Pages []int  `json:"pages" yaml:"pages"`
}

func TestTo(t *testing.T) {
	data := sample{Name: "Staal & glas", Pages: []int{6, 8}}
	tests := []struct {
		format Format
		data   any
		want   string
	}{
		{FormatJSON, data, "{\n  \"name\": \"Staal & glas\",\n  \"pages\": [\n    6,\n    8\n  ]\n}\n"},
		{FormatYAML, data, "name: Staal & glas\npages:\n  - 6\n  - 8\n"},
		{FormatText, "plain text\n", "plain text\n"},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := To(&buf, tt.format, tt.data); err != nil {
				t.Fatalf("To() error = %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("To() =\n%q\nwant\n%q", buf.String(), tt.want)
			}
		})
	}

	if err := To(&bytes.Buffer{}, Format("xml"), data); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatText, "text": FormatText, "yaml": FormatYAML, "json": FormatJSON} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("toml"); err == nil {
		t.Error("expected error for toml")
	}
}
