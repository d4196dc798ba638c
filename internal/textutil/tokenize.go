// Package textutil holds the tokenization shared by the analysis engines.
package textutil

import (
	"regexp"
	"strings"
	"unicode"
)

var alphaWordExpr = regexp.MustCompile(`\b[a-zA-Z]+\b`)

// Words returns the lowercased alphabetic words of text.
func Words(text string) []string {
	return alphaWordExpr.FindAllString(strings.ToLower(text), -1)
}

// WordCount counts whitespace-separated fields.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// ContentWords returns alphabetic words that are not stopwords and longer than two letters.
func ContentWords(text string) []string {
	words := Words(text)
	out := words[:0]
	for _, w := range words {
		if len(w) <= 2 || IsStopword(w) {
			continue
		}
		out = append(out, w)
	}
	return out
}

// Sentences splits text on terminal punctuation followed by whitespace or end of text.
// Terminators stay attached to their sentence; fragments without letters or digits are dropped.
func Sentences(text string) []string {
	runes := []rune(text)
	var (
		out   []string
		start int
	)

	flush := func(end int) {
		s := strings.TrimSpace(string(runes[start:end]))
		if hasWordRune(s) {
			out = append(out, s)
		}
		start = end
	}

	for i := 0; i < len(runes); i++ {
		if !isTerminator(runes[i]) {
			continue
		}
		j := i
		for j+1 < len(runes) && (isTerminator(runes[j+1]) || isCloser(runes[j+1])) {
			j++
		}
		if j+1 == len(runes) || unicode.IsSpace(runes[j+1]) {
			flush(j + 1)
		}
		i = j
	}
	if start < len(runes) {
		flush(len(runes))
	}

	return out
}

// CollapseSpace replaces whitespace runs with a single space and trims the ends.
func CollapseSpace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func isCloser(r rune) bool {
	return r == '"' || r == '\'' || r == ')' || r == '”' || r == '’'
}

func hasWordRune(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
