package textutil

import "strings"

// Syllables estimates the syllable count of an English word.
// Vowel groups are counted, a silent trailing "e" is dropped and every word has at least one.
func Syllables(word string) int {
	word = strings.ToLower(strings.Trim(word, ".,;:!?\"'()[]"))
	if word == "" {
		return 0
	}

	count := 0
	prevVowel := false
	for _, r := range word {
		vowel := isVowel(r)
		if vowel && !prevVowel {
			count++
		}
		prevVowel = vowel
	}

	if len(word) > 2 && strings.HasSuffix(word, "e") && !strings.HasSuffix(word, "le") &&
		!isVowel(rune(word[len(word)-2])) && count > 1 {
		count--
	}
	if strings.HasSuffix(word, "ed") && len(word) > 3 && count > 1 {
		prev := word[len(word)-3]
		if prev != 't' && prev != 'd' && !isVowel(rune(prev)) {
			count--
		}
	}

	if count < 1 {
		count = 1
	}
	return count
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u', 'y':
		return true
	}
	return false
}
