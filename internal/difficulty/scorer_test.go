package difficulty

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ArticleIntel/internal/domain"
)

const simpleStory = `Tom has a dog. The dog is big and brown. Tom likes his dog a lot. Every day they go out.
They walk to the park. The park is near the house. Tom throws a ball. The dog runs fast. It gets the ball.
Then it comes back. Tom is happy. The dog is happy too. They play for a long time. The sun is warm.
The sky is blue. Birds sing in the trees. A cat sits on a wall. The dog sees the cat. The cat runs away.
Tom laughs. Soon it is time to go home. They walk back. Mom makes lunch. Tom eats his food.
The dog eats too. Then they both take a long nap.`

const academicPassage = `Notwithstanding considerable methodological heterogeneity, contemporary epidemiological investigations
consistently demonstrate that socioeconomic stratification substantially influences cardiovascular morbidity, which
necessitates comprehensive governmental interventions addressing structural determinants of population health.
Furthermore, longitudinal observational methodologies, when appropriately calibrated for confounding variables,
illuminate intergenerational transmission mechanisms whereby educational disadvantage perpetuates physiological
vulnerability throughout successive developmental trajectories of individuals within marginalized communities.`

func TestAnalyzeShortTextIsUnknown(t *testing.T) {
	t.Parallel()

	scorer := NewScorer(nil)
	for _, text := range []string{"", "   ", strings.Repeat("a", 99), "  " + strings.Repeat("b", 99) + "  "} {
		got := scorer.Analyze(text)
		assert.Equal(t, domain.LevelUnknown, got.Level)
		assert.Zero(t, got.Score)
		assert.Equal(t, domain.ExamUnknown, got.RecommendedExam)
		assert.Nil(t, got.Details)
	}
}

func TestAnalyzeSimpleStoryIsBeginner(t *testing.T) {
	t.Parallel()

	got := NewScorer(nil).Analyze(simpleStory)

	require.NotNil(t, got.Details)
	assert.Equal(t, 120, got.Details.WordCount)
	assert.Less(t, got.Score, 30.0)
	assert.Greater(t, got.Score, 0.0)
	assert.Equal(t, domain.LevelBeginner, got.Level)
	assert.Equal(t, "CET-4", got.RecommendedExam)
}

func TestAnalyzePunctuationOnlyTextStaysEasy(t *testing.T) {
	t.Parallel()

	got := NewScorer(nil).Analyze(strings.Repeat("!?- ", 30))
	require.NotNil(t, got.Details)
	assert.Equal(t, 1, got.Details.SentenceCount)
	assert.Less(t, got.Score, 10.0)
	assert.Equal(t, domain.LevelBeginner, got.Level)
}

func TestAnalyzeAcademicPassageIsHarder(t *testing.T) {
	t.Parallel()

	scorer := NewScorer(nil)
	easy := scorer.Analyze(simpleStory)
	hard := scorer.Analyze(academicPassage)

	assert.Greater(t, hard.Score, easy.Score)
	assert.Contains(t, []domain.Level{domain.LevelAdvanced, domain.LevelExpert}, hard.Level)
	assert.LessOrEqual(t, hard.Score, 100.0)
}

func TestAnalyzeRoundsPresentation(t *testing.T) {
	t.Parallel()

	got := NewScorer(nil).Analyze(simpleStory)
	require.NotNil(t, got.Details)
	assert.Equal(t, got.Score, round2(got.Score))
	assert.Equal(t, got.Details.VocabComplexity, round2(got.Details.VocabComplexity))
	assert.Equal(t, got.Details.AvgSentenceLength, round2(got.Details.AvgSentenceLength))
}

func TestLevelForScoreBoundaries(t *testing.T) {
	t.Parallel()

	cases := []struct {
		score float64
		want  domain.Level
	}{
		{0, domain.LevelBeginner},
		{29.99, domain.LevelBeginner},
		{30.00, domain.LevelIntermediate},
		{49.99, domain.LevelIntermediate},
		{50.00, domain.LevelAdvanced},
		{69.99, domain.LevelAdvanced},
		{70.00, domain.LevelExpert},
		{100, domain.LevelExpert},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, LevelForScore(tc.score), "score %.2f", tc.score)
	}
}

func TestExamForScoreBoundaries(t *testing.T) {
	t.Parallel()

	cases := []struct {
		score float64
		want  string
	}{
		{29.99, "CET-4"},
		{30, "CET-6"},
		{39.99, "CET-6"},
		{40, "IELTS-6.0 / TOEFL-80"},
		{50, "IELTS-6.5 / TOEFL-90"},
		{60, "IELTS-7.0"},
		{69.99, "IELTS-7.0"},
		{70, "TOEFL-100+"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ExamForScore(tc.score), "score %.2f", tc.score)
	}
}

func TestComprehensiveScoreWeights(t *testing.T) {
	t.Parallel()

	m := domain.MetricsBundle{
		FleschReadingEase:  60, // 40 * 0.25 = 10
		FleschKincaidGrade: 10, // 50 * 0.20 = 10
		GunningFog:         30, // capped 100 * 0.20 = 20
		VocabComplexity:    50, // 10
		SyntaxComplexity:   20, // 3
	}
	assert.InDelta(t, 53.0, ComprehensiveScore(m), 1e-9)

	easy := domain.MetricsBundle{FleschReadingEase: 130, FleschKincaidGrade: -5}
	assert.Zero(t, ComprehensiveScore(easy))
}

func TestLevelForExam(t *testing.T) {
	t.Parallel()

	assert.Equal(t, domain.LevelBeginner, LevelForExam("CET-4"))
	assert.Equal(t, domain.LevelIntermediate, LevelForExam("TOEFL-80"))
	assert.Equal(t, domain.LevelAdvanced, LevelForExam("IELTS-7.0"))
	assert.Equal(t, domain.LevelExpert, LevelForExam("GRE"))
}

func TestExplain(t *testing.T) {
	t.Parallel()

	got := Explain(NewScorer(nil).Analyze(simpleStory))
	assert.Contains(t, got, "Overall difficulty: Beginner")
	assert.Contains(t, got, "CET-4")

	assert.Equal(t, "Text is too short to estimate difficulty.", Explain(Unknown()))
}
