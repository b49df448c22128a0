package intent

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize lowercases s and strips diacritics, so "Últimos" and "ultimos"
// compare equal.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Tokens splits s into lowercase words, keeping accents.
func Tokens(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !isWordRune(r)
	})
}

// containsWord reports whether w occurs in s delimited by non-word runes or
// the ends of s. w may span several words ("por canal").
func containsWord(s, w string) bool {
	if w == "" {
		return false
	}
	from := 0
	for {
		i := strings.Index(s[from:], w)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(w)
		if boundaryBefore(s, start) && boundaryAfter(s, end) {
			return true
		}
		from = start + 1
	}
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r := lastRune(s[:i])
	return !isWordRune(r)
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	for _, r := range s[i:] {
		return !isWordRune(r)
	}
	return true
}

func lastRune(s string) rune {
	rs := []rune(s)
	return rs[len(rs)-1]
}

// Markers is a keyword set: Any entries match as substrings, Words entries
// only as whole words. Both are compared against Normalize'd text.
type Markers struct {
	Any   []string
	Words []string
}

func (m Markers) Empty() bool {
	return len(m.Any) == 0 && len(m.Words) == 0
}

// Match reports whether the normalized text q contains any marker.
func (m Markers) Match(q string) bool {
	for _, k := range m.Any {
		if strings.Contains(q, k) {
			return true
		}
	}
	for _, w := range m.Words {
		if containsWord(q, w) {
			return true
		}
	}
	return false
}
