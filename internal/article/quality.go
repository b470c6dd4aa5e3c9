package article

import (
	"strings"
	"unicode/utf8"
)

// densityHyphens are counted by HyphenDensity: hyphen-minus, non-breaking
// hyphen, soft hyphen and en dash.
const densityHyphens = "-\u2011\u00ad\u2013"

// HyphenDensity counts hyphen characters in text and returns the count, the
// text length in runes and the number of hyphens per 1000 runes.
func HyphenDensity(text string) (hyphens, chars int, per1000 float64) {
	chars = utf8.RuneCountInString(text)
	if chars == 0 {
		return 0, 0, 0
	}
	for _, r := range text {
		if strings.ContainsRune(densityHyphens, r) {
			hyphens++
		}
	}
	return hyphens, chars, float64(hyphens) / float64(chars) * 1000
}

// LowHyphenation reports whether text is long enough to judge and carries
// fewer hyphens per 1000 runes than the configured minimum.
func (c Config) LowHyphenation(text string) (bool, int, int, float64) {
	hyphens, chars, per1000 := HyphenDensity(text)
	if chars < c.HyphenMinChars {
		return false, hyphens, chars, per1000
	}
	return per1000 < c.HyphenMinPer1000, hyphens, chars, per1000
}
