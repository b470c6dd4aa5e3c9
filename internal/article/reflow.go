package article

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	paragraphBreak = regexp.MustCompile(`\n\s*\n`)
	brokenLineEnd  = regexp.MustCompile(`\p{L}-$`)

	spaceReplacer = strings.NewReplacer("\u00ad", "", "\u00a0", " ", "\u2009", " ")
)

// Reflow cleans rendered article text: it drops soft hyphens, turns
// non-breaking and thin spaces into spaces, joins the lines of each
// blank-line separated paragraph (gluing "letter-" line ends to a following
// letter, otherwise joining with a space), collapses whitespace and wraps
// each paragraph at width runes. A width of zero or less leaves each
// paragraph on one line. The output ends with a newline. Reflow(Reflow(t))
// equals Reflow(t).
func Reflow(text string, width int) string {
	text = spaceReplacer.Replace(text)

	var paragraphs []string
	for _, para := range paragraphBreak.Split(strings.Trim(text, "\n"), -1) {
		joined := joinLines(para)
		if joined == "" {
			continue
		}
		paragraphs = append(paragraphs, wrap(joined, width))
	}
	return strings.Join(paragraphs, "\n\n") + "\n"
}

func joinLines(para string) string {
	var buf string
	started := false
	for _, line := range strings.Split(para, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		line = strings.TrimRightFunc(line, unicode.IsSpace)
		if !started {
			buf, started = line, true
			continue
		}
		next := strings.TrimLeftFunc(line, unicode.IsSpace)
		first, _ := utf8.DecodeRuneInString(next)
		if brokenLineEnd.MatchString(buf) && unicode.IsLetter(first) {
			buf = buf[:len(buf)-1] + next
		} else {
			buf = buf + " " + next
		}
	}
	return strings.Join(strings.Fields(buf), " ")
}

// wrap fills words greedily into lines of at most width runes. It breaks
// only at spaces and never between a word ending in "letter-" and a word
// starting with a letter, since joinLines would glue those two on a second
// pass. Units longer than width get a line of their own.
func wrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var units []string
	for _, w := range strings.Fields(text) {
		if n := len(units); n > 0 {
			first, _ := utf8.DecodeRuneInString(w)
			if brokenLineEnd.MatchString(units[n-1]) && unicode.IsLetter(first) {
				units[n-1] += " " + w
				continue
			}
		}
		units = append(units, w)
	}

	var (
		lines   []string
		current strings.Builder
		length  int
	)
	for _, u := range units {
		n := utf8.RuneCountInString(u)
		if length > 0 && length+1+n > width {
			lines = append(lines, current.String())
			current.Reset()
			length = 0
		}
		if length > 0 {
			current.WriteByte(' ')
			length++
		}
		current.WriteString(u)
		length += n
	}
	if length > 0 {
		lines = append(lines, current.String())
	}
	return strings.Join(lines, "\n")
}
