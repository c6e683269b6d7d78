// Package textutil provides small text statistics helpers used by the
// chatbot intent matching and the textstats CLI.
package textutil

import (
	"regexp"
	"strings"
)

var (
	spaceRe      = regexp.MustCompile(`\s+`)
	tokenRe      = regexp.MustCompile(`\w+'\w+|\w+`)
	alnumOnlyRe  = regexp.MustCompile(`[^a-z0-9]`)
	whitespaceRe = regexp.MustCompile(`\s`)
)

// Normalize lowercases the text, trims it and collapses runs of
// whitespace into single spaces.
func Normalize(text string) string {
	return spaceRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(text)), " ")
}

// Tokenize splits normalized text into word tokens. Contractions like
// "don't" count as a single token.
func Tokenize(text string) []string {
	return tokenRe.FindAllString(Normalize(text), -1)
}

// WordCount returns the number of word tokens in the text.
func WordCount(text string) int {
	return len(Tokenize(text))
}

// CharCount returns the number of non-whitespace runes in the text.
func CharCount(text string) int {
	return len([]rune(whitespaceRe.ReplaceAllString(text, "")))
}

// IsPalindrome reports whether the text reads the same forwards and
// backwards, ignoring case, spacing and punctuation.
func IsPalindrome(text string) bool {
	s := alnumOnlyRe.ReplaceAllString(strings.ToLower(text), "")
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		if runes[i] != runes[j] {
			return false
		}
	}
	return true
}

// MostCommonWord returns the most frequent token and true, or "" and
// false for text with no tokens. Ties resolve to the earliest token.
func MostCommonWord(text string) (string, bool) {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return "", false
	}

	counts := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		counts[tok]++
	}

	best := ""
	bestCount := 0
	for _, tok := range tokens {
		if counts[tok] > bestCount {
			best = tok
			bestCount = counts[tok]
		}
	}
	return best, true
}
