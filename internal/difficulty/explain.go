package difficulty

import (
	"fmt"
	"strings"

	"ArticleIntel/internal/domain"
)

var levelAdvice = map[domain.Level]string{
	domain.LevelBeginner:     "Suitable for beginners: vocabulary and grammar are simple. Build core vocabulary first.",
	domain.LevelIntermediate: "Suitable for learners with a solid base: focus on long sentences and less common words.",
	domain.LevelAdvanced:     "Suitable for advanced learners: pay attention to structure and logical connections.",
	domain.LevelExpert:       "Suitable for expert readers: read closely and think critically about the argument.",
}

// Explain renders a human-readable summary of a difficulty result.
func Explain(r domain.DifficultyResult) string {
	if r.Details == nil {
		return "Text is too short to estimate difficulty."
	}

	d := r.Details
	var b strings.Builder
	fmt.Fprintf(&b, "Overall difficulty: %s (score %.2f/100)\n", r.Level, r.Score)
	fmt.Fprintf(&b, "Recommended exam: %s\n", r.RecommendedExam)
	fmt.Fprintf(&b, "Reading ease: %.2f (0-100, higher is easier)\n", d.FleschReadingEase)
	fmt.Fprintf(&b, "Grade level: %.2f\n", d.FleschKincaidGrade)
	fmt.Fprintf(&b, "Vocabulary complexity: %.2f/100\n", d.VocabComplexity)
	fmt.Fprintf(&b, "Syntax complexity: %.2f/100\n", d.SyntaxComplexity)
	fmt.Fprintf(&b, "Average sentence length: %.2f words\n", d.AvgSentenceLength)
	fmt.Fprintf(&b, "Length: %d words, %d sentences\n", d.WordCount, d.SentenceCount)
	b.WriteString(levelAdvice[r.Level])
	return b.String()
}
