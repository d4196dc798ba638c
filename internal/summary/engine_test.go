package summary

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ArticleIntel/internal/textutil"
)

const aiArticle = `Artificial intelligence has become one of the most transformative technologies of the century.
From self-driving cars to virtual assistants, artificial intelligence is reshaping industries and changing the way we live and work.
Machine learning, a subset of artificial intelligence, enables computers to learn from experience without being explicitly programmed.
This technology has applications in healthcare, finance, transportation, and many other sectors.
However, the rapid advancement of artificial intelligence also raises important questions about ethics, privacy, and employment.
Researchers continue to publish new machine learning models every month.
As we develop more sophisticated systems, it is crucial to consider both the benefits and potential risks.
The future of artificial intelligence depends on how we choose to develop and deploy these powerful technologies.`

func newTestEngine() *Engine {
	return New(Options{}, nil)
}

func TestSummarizeTooShort(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("a", 199)
	got := newTestEngine().Summarize(text, MethodTextRank, 3)

	assert.Equal(t, TooShort, got.Summary)
	assert.Equal(t, StrategyTooShort, got.Strategy)
	assert.Zero(t, got.QualityScore)
	assert.Equal(t, 3, got.SentencesCount)
}

func TestSummarizeReturnsCleanedTextWhenFewSentences(t *testing.T) {
	t.Parallel()

	text := "The committee met on Tuesday to review the annual budget for the regional transport network and its planned upgrades. " +
		"Members agreed that the funding   for new buses should be doubled next year, pending approval from the city council ™."
	require.Greater(t, len(text), 200)

	got := newTestEngine().Summarize(text, MethodLSA, 3)

	assert.Equal(t, StrategyVerbatim, got.Strategy)
	assert.Equal(t, Clean(text), got.Summary)
	assert.NotContains(t, got.Summary, "™")
	assert.NotContains(t, got.Summary, "   ")
}

func TestSummarizeEveryMethodSelectsSentencesInOrder(t *testing.T) {
	t.Parallel()

	engine := newTestEngine()
	original := textutil.Sentences(Clean(aiArticle))

	for _, method := range append(engine.Methods(), MethodKeyword) {
		got := engine.Summarize(aiArticle, method, 3)
		assert.Equal(t, method, got.Strategy, "method %s", method)

		picked := textutil.Sentences(got.Summary)
		require.Len(t, picked, 3, "method %s", method)

		last := -1
		for _, s := range picked {
			pos := indexOf(original, s)
			require.GreaterOrEqual(t, pos, 0, "method %s returned a foreign sentence %q", method, s)
			assert.Greater(t, pos, last, "method %s broke document order", method)
			last = pos
		}

		assert.GreaterOrEqual(t, got.QualityScore, 0.0)
		assert.LessOrEqual(t, got.QualityScore, 1.0)
	}
}

func TestSummarizeDefaults(t *testing.T) {
	t.Parallel()

	got := New(Options{DefaultMethod: MethodLuhn, SentencesCount: 2}, nil).Summarize(aiArticle, "", 0)
	assert.Equal(t, MethodLuhn, got.Method)
	assert.Equal(t, 2, got.SentencesCount)
	assert.Len(t, textutil.Sentences(got.Summary), 2)
}

func TestSummarizeUnknownMethodUsesKeywordScoring(t *testing.T) {
	t.Parallel()

	got := newTestEngine().Summarize(aiArticle, "bart", 2)
	assert.Equal(t, "bart", got.Method)
	assert.Equal(t, MethodKeyword, got.Strategy)
}

func TestSummarizeFallsBackToPositional(t *testing.T) {
	t.Parallel()

	// only stopwords and short words: every scoring strategy has nothing to rate
	text := strings.Repeat("It is so. ", 25)

	got := newTestEngine().Summarize(text, MethodTextRank, 3)
	assert.Equal(t, StrategyPositional, got.Strategy)
	assert.Equal(t, "It is so. It is so. It is so.", got.Summary)
}

func TestRunStrategyRecoversPanics(t *testing.T) {
	t.Parallel()

	boom := strategy{name: "boom", run: func(string, int) (string, error) {
		panic("degenerate matrix")
	}}
	_, err := runStrategy(boom, aiArticle, 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "degenerate matrix")

	blank := strategy{name: "blank", run: func(string, int) (string, error) { return "  ", nil }}
	_, err = runStrategy(blank, aiArticle, 3)
	assert.True(t, errors.Is(err, errEmptySummary))
}

func TestPositionalSummary(t *testing.T) {
	t.Parallel()

	text := "One is here. Two is here. Three is here. Four is here. Five is here."

	got, err := positionalSummary(text, 3)
	require.NoError(t, err)
	assert.Equal(t, "One is here. Two is here. Five is here.", got)

	got, err = positionalSummary(text, 1)
	require.NoError(t, err)
	assert.Equal(t, "One is here.", got)

	got, err = positionalSummary(text, 5)
	require.NoError(t, err)
	assert.Equal(t, text, got)
}

func TestKeywordScoreBands(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1.0, positionScore(0, 20))
	assert.Equal(t, 0.8, positionScore(3, 20))
	assert.Equal(t, 0.5, positionScore(10, 20))
	assert.Equal(t, 0.8, positionScore(17, 20))
	assert.Equal(t, 1.0, positionScore(19, 20))

	assert.Equal(t, 0.5, lengthScore("Too short."))
	assert.Equal(t, 0.8, lengthScore("This one has exactly six words."))
	assert.Equal(t, 1.0, lengthScore(strings.Repeat("word ", 12)))
	assert.Equal(t, 0.5, lengthScore(strings.Repeat("word ", 40)))
}

func TestQuality(t *testing.T) {
	t.Parallel()

	assert.Zero(t, Quality(aiArticle, ""))
	assert.Zero(t, Quality(aiArticle, "Short summary under fifty characters."))
	assert.Zero(t, Quality("", strings.Repeat("long summary text ", 5)))

	// identical text: no compression gain, full coverage
	assert.InDelta(t, 0.4, Quality(aiArticle, aiArticle), 1e-9)

	got := newTestEngine().Summarize(aiArticle, MethodTextRank, 2)
	assert.Greater(t, got.QualityScore, 0.0)
	assert.LessOrEqual(t, got.QualityScore, 1.0)
}

func TestSummarizeAll(t *testing.T) {
	t.Parallel()

	got := newTestEngine().SummarizeAll(aiArticle, 2)
	assert.Len(t, got, 5)
	for _, method := range []string{MethodTextRank, MethodLSA, MethodLuhn, MethodLexRank, MethodKeyword} {
		assert.NotEmpty(t, got[method], method)
		assert.NotEqual(t, TooShort, got[method], method)
	}
}

func TestClean(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Hello world (ok)!", Clean("  Hello \n\t @world™ (ok)!  "))
	assert.Equal(t, "well-known: yes; no?", Clean("well-known: yes; no?"))
}

func indexOf(sentences []string, s string) int {
	for i, candidate := range sentences {
		if candidate == s {
			return i
		}
	}
	return -1
}
