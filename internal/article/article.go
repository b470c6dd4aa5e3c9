// Package article reconstructs the reading flow of a magazine article from
// page layouts: it picks the main-text lines of each page, orders them by
// column, classifies them as intro, sub-heading or body from typography
// alone, stops at the end-of-article bullet and renders the result as plain
// text and as a structured record.
package article

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is returned when the article or issue lacks the
	// metadata needed to locate the article (start page, page offset).
	ErrConfiguration = errors.New("article configuration")

	// ErrBounds is returned when the computed start index lies outside the
	// document.
	ErrBounds = errors.New("article page index out of bounds")
)

// Kind is the kind of a block in the article flow.
type Kind string

const (
	KindIntro      Kind = "intro"
	KindSubheading Kind = "subheading"
	KindParagraph  Kind = "paragraph"
)

// Class is the classifier's verdict for one line.
type Class int

const (
	ClassBody Class = iota
	ClassIntro
	ClassSubheading
)

func (c Class) String() string {
	switch c {
	case ClassIntro:
		return "INTRO"
	case ClassSubheading:
		return "SUBHEADING"
	default:
		return "BODY"
	}
}

// Kind maps a line class to the block kind it produces.
func (c Class) Kind() Kind {
	switch c {
	case ClassIntro:
		return KindIntro
	case ClassSubheading:
		return KindSubheading
	default:
		return KindParagraph
	}
}

// Block is one classified unit of the article flow.
type Block struct {
	Kind   Kind   `json:"kind"`
	Text   string `json:"text"`
	Page   int    `json:"page"`
	Column int    `json:"column"`
	Order  int    `json:"order"`
}

// Range is the page span of an extracted article in both document index
// space and printed page space.
type Range struct {
	StartIndex int  `json:"start_index"`
	EndIndex   int  `json:"end_index"`
	StartPage  int  `json:"start_page"`
	EndPage    *int `json:"end_page,omitempty"`
}

// Paragraph is a section of body text opened by a sub-heading.
type Paragraph struct {
	Header string `json:"header" yaml:"header"`
	Text   string `json:"text" yaml:"text"`
}

// Text is the structured form of an article.
type Text struct {
	Intro          *string     `json:"intro" yaml:"intro"`
	FirstParagraph *string     `json:"first_paragraph" yaml:"first_paragraph"`
	Paragraphs     []Paragraph `json:"paragraphs" yaml:"paragraphs"`
}

func articleError(sentinel error, issueLabel, name, format string, args ...any) error {
	return fmt.Errorf("%w: %s, article %q: %s", sentinel, issueLabel, name, fmt.Sprintf(format, args...))
}
