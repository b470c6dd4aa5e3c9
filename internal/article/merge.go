package article

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// hyphenLike are the characters that may stand for a word break: the ASCII
// hyphen, the soft hyphen and the U+2010..U+2014 hyphen and dash variants.
const hyphenLike = "-\u00ad\u2010\u2011\u2012\u2013\u2014"

var (
	trailingBreak = regexp.MustCompile(`(?s)^(.*?)(\p{L}+)\s*[-\x{00AD}\x{2010}-\x{2014}]\s*$`)
	leadingWord   = regexp.MustCompile(`(?s)^(\s*\P{L}*)(\p{L}+)(.*)$`)
)

func isHeader(k Kind) bool {
	return k == KindIntro || k == KindSubheading
}

// MergeHeaders collapses each run of consecutive intro blocks, and each run
// of consecutive sub-heading blocks, into one block carrying the first
// block's page, column and order. Fragments are joined with a space, or
// glued without the hyphen when the text so far ends in a hyphen-like
// character and the fragment starts with a letter. Blank fragments are
// skipped.
func MergeHeaders(blocks []Block) []Block {
	out := make([]Block, 0, len(blocks))
	for i := 0; i < len(blocks); {
		cur := blocks[i]
		if !isHeader(cur.Kind) {
			out = append(out, cur)
			i++
			continue
		}

		text := strings.TrimSpace(cur.Text)
		j := i + 1
		for ; j < len(blocks) && blocks[j].Kind == cur.Kind; j++ {
			text = joinHeader(text, strings.TrimSpace(blocks[j].Text))
		}
		merged := cur
		merged.Text = text
		out = append(out, merged)
		i = j
	}
	return out
}

func joinHeader(acc, next string) string {
	switch {
	case next == "":
		return acc
	case acc == "":
		return next
	}
	last, size := utf8.DecodeLastRuneInString(acc)
	first, _ := utf8.DecodeRuneInString(next)
	if strings.ContainsRune(hyphenLike, last) && unicode.IsLetter(first) {
		return acc[:len(acc)-size] + next
	}
	return acc + " " + next
}

// RepairHyphenation joins words broken across adjacent blocks of the same
// kind: when one block ends in letters followed by a hyphen-like character
// and the next block starts (after optional non-letters) with letters, the
// two become one block with the hyphen, the whitespace and the next block's
// leading non-letters removed. The result keeps the first block's page,
// column and order. A merged block is compared with its successor again, so
// a single pass reaches a fixed point.
func RepairHyphenation(blocks []Block) []Block {
	out := make([]Block, 0, len(blocks))
	for i := 0; i < len(blocks); i++ {
		cur := blocks[i]
		for i+1 < len(blocks) && blocks[i+1].Kind == cur.Kind {
			joined, ok := joinBroken(cur.Text, blocks[i+1].Text)
			if !ok {
				break
			}
			cur.Text = joined
			i++
		}
		out = append(out, cur)
	}
	return out
}

func joinBroken(first, second string) (string, bool) {
	m1 := trailingBreak.FindStringSubmatch(strings.TrimRightFunc(first, unicode.IsSpace))
	if m1 == nil {
		return "", false
	}
	m2 := leadingWord.FindStringSubmatch(second)
	if m2 == nil {
		return "", false
	}
	return m1[1] + m1[2] + m2[2] + m2[3], true
}
