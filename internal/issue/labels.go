package issue

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Labels are the section headings that identify the TOC page of an issue.
type Labels struct {
	Left     string `yaml:"left" mapstructure:"left" json:"left"`             // heading in the left half of the TOC page
	Right    string `yaml:"right" mapstructure:"right" json:"right"`          // heading in the right half of the TOC page
	Previous string `yaml:"previous" mapstructure:"previous" json:"previous"` // heading on the page before the TOC
	TOCPage  *int   `yaml:"toc_page,omitempty" mapstructure:"toc_page" json:"toc_page,omitempty"`
}

// LabelTable maps issue numbers to their TOC labels. Issues without an
// override use Default; an override replaces only the fields it sets.
type LabelTable struct {
	Default   Labels         `yaml:"default" mapstructure:"default" json:"default"`
	Overrides map[int]Labels `yaml:"overrides" mapstructure:"overrides" json:"overrides"`
}

//go:embed labels.yaml
var defaultLabelsYAML []byte

// DefaultLabelTable returns the built-in table for the Bouwen met Staal
// archive.
func DefaultLabelTable() LabelTable {
	t, err := ParseLabelTable(defaultLabelsYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded label table: %v", err))
	}
	return t
}

// ParseLabelTable decodes a label table from YAML.
func ParseLabelTable(data []byte) (LabelTable, error) {
	var t LabelTable
	if err := yaml.Unmarshal(data, &t); err != nil {
		return LabelTable{}, fmt.Errorf("decoding label table: %w", err)
	}
	return t, nil
}

// LoadLabelTable reads a label table file.
func LoadLabelTable(path string) (LabelTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return LabelTable{}, fmt.Errorf("reading label table: %w", err)
	}
	return ParseLabelTable(data)
}

// For returns the labels for an issue number.
func (t LabelTable) For(number int) Labels {
	l := t.Default
	o, ok := t.Overrides[number]
	if !ok {
		return l
	}
	if o.Left != "" {
		l.Left = o.Left
	}
	if o.Right != "" {
		l.Right = o.Right
	}
	if o.Previous != "" {
		l.Previous = o.Previous
	}
	if o.TOCPage != nil {
		l.TOCPage = o.TOCPage
	}
	return l
}
