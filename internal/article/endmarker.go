package article

import (
	"strings"
	"unicode"
)

const endBullet = '•'

// closingQuotes may sit between the final period and the end bullet.
const closingQuotes = "'’\"»”"

// DetectEndMarker reports whether text ends an article: a period, optional
// closing quotes, then the bullet. A line that starts with the bullet is a
// list item, not an end. For an end marker the returned text is cut after
// the period and its quotes; otherwise text is returned unchanged.
func DetectEndMarker(text string) (bool, string) {
	bullet := strings.LastIndex(text, string(endBullet))
	if bullet < 0 {
		return false, text
	}
	if strings.IndexRune(strings.TrimLeftFunc(text, unicode.IsSpace), endBullet) == 0 {
		return false, text
	}

	head := []rune(text[:bullet])
	i := len(head) - 1
	for i >= 0 && unicode.IsSpace(head[i]) {
		i--
	}
	quoteEnd := i
	for i >= 0 && strings.ContainsRune(closingQuotes, head[i]) {
		i--
	}
	if i < 0 || head[i] != '.' {
		return false, text
	}
	return true, strings.TrimRightFunc(string(head[:quoteEnd+1]), unicode.IsSpace)
}
