package article

import (
	"slices"
	"strings"
)

// RenderLines lays out blocks as line-based text: intro lines first, one
// blank line before the first block after the intro, sub-headings framed by
// blank lines, every other block on its own line. Trailing blank lines are
// trimmed and the result ends with a newline.
func RenderLines(blocks []Block) string {
	blocks = byOrder(blocks)
	hasIntro := slices.ContainsFunc(blocks, func(b Block) bool { return b.Kind == KindIntro })

	var lines []string
	blankAfter := func() {
		if len(lines) > 0 && lines[len(lines)-1] != "" {
			lines = append(lines, "")
		}
	}

	introDone := false
	for _, b := range blocks {
		txt := strings.TrimSpace(b.Text)
		if txt == "" {
			continue
		}
		if b.Kind == KindIntro {
			lines = append(lines, txt)
			continue
		}
		if hasIntro && !introDone {
			introDone = true
			blankAfter()
		}
		if b.Kind == KindSubheading {
			blankAfter()
			lines = append(lines, txt, "")
			continue
		}
		lines = append(lines, txt)
	}

	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimRight(strings.Join(lines, "\n"), " \t\r\n") + "\n"
}

// Structure builds the structured article: the intro text, the body text
// before the first sub-heading, then one paragraph per sub-heading holding
// the body text that follows it. Texts are reflowed onto a single line.
func Structure(blocks []Block) Text {
	blocks = byOrder(blocks)

	var (
		out         Text
		intro       []string
		body        []string
		header      string
		seenHeading bool
	)
	flush := func() {
		text := strings.TrimSpace(Reflow(strings.Join(body, "\n"), 0))
		body = body[:0]
		if !seenHeading {
			if text != "" {
				out.FirstParagraph = &text
			}
			return
		}
		out.Paragraphs = append(out.Paragraphs, Paragraph{Header: header, Text: text})
	}

	for _, b := range blocks {
		txt := strings.TrimSpace(b.Text)
		if txt == "" {
			continue
		}
		switch b.Kind {
		case KindIntro:
			intro = append(intro, txt)
		case KindSubheading:
			flush()
			seenHeading = true
			header = txt
		default:
			body = append(body, txt)
		}
	}
	flush()

	if len(intro) > 0 {
		s := strings.Join(intro, " ")
		out.Intro = &s
	}
	if out.Paragraphs == nil {
		out.Paragraphs = []Paragraph{}
	}
	return out
}

func byOrder(blocks []Block) []Block {
	sorted := slices.Clone(blocks)
	slices.SortStableFunc(sorted, func(a, b Block) int { return a.Order - b.Order })
	return sorted
}
