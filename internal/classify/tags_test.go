package classify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTagExtractor(t *testing.T) *TagExtractor {
	t.Helper()

	kb, err := DefaultKnowledgeBase()
	require.NoError(t, err)
	return NewTagExtractor(kb)
}

func TestExtractScenarioHealthcareAI(t *testing.T) {
	t.Parallel()

	got := newTestTagExtractor(t).Extract(
		"New AI Technology Revolutionizes Healthcare Industry",
		"Artificial intelligence is transforming the medical field with new diagnostic tools and treatment methods. "+
			"Doctors are using machine learning algorithms to analyze patient data and improve outcomes.",
	)

	assert.Contains(t, got, TagQuickRead)
	assert.Contains(t, got, "Analysis")
	assert.LessOrEqual(t, len(got), MaxTags)
}

func TestExtractGeneralWhenNothingFires(t *testing.T) {
	t.Parallel()

	// between 300 and 1000 words, no keyword phrases, no digits, quotes or list markers
	content := strings.TrimSpace(strings.Repeat("lorem ", 400))
	assert.Equal(t, []string{TagGeneral}, newTestTagExtractor(t).Extract("lorem", content))
}

func TestExtractStructuralTags(t *testing.T) {
	t.Parallel()

	content := `Sales rose 12% in 2023. "We are pleased," the chair noted.
1. Expand abroad
- Hire staff`
	got := newTestTagExtractor(t).Extract("", content)
	assert.Equal(t, []string{TagData, TagQuotes, TagList, TagTimeline, TagQuickRead}, got)
}

func TestExtractLongRead(t *testing.T) {
	t.Parallel()

	content := strings.Repeat("lorem ", 1001)
	assert.Equal(t, []string{TagLongRead}, newTestTagExtractor(t).Extract("", content))
}

func TestExtractCapsAtFiveAndDedups(t *testing.T) {
	t.Parallel()

	title := "Breaking: exclusive interview and expert review"
	content := `A how to guide with research findings and an editorial feature. "Quoted" 45% in 2021.`

	x := newTestTagExtractor(t)
	got := x.Extract(title, content)
	require.Len(t, got, MaxTags)
	assert.Equal(t, []string{"Breaking News", "Analysis", "Research", "Interview", "Review"}, got)

	seen := map[string]bool{}
	for _, tag := range got {
		assert.False(t, seen[tag], "duplicate tag %s", tag)
		seen[tag] = true
	}
	assert.Equal(t, got, x.Extract(title, content))
}

func TestExtractSharedPhraseFiresEveryOwner(t *testing.T) {
	t.Parallel()

	// "opinion" belongs to Analysis, Review and Opinion
	got := newTestTagExtractor(t).Extract("", strings.TrimSpace(strings.Repeat("lorem ", 350))+" opinion")
	assert.Equal(t, []string{"Analysis", "Review", "Opinion"}, got)
}

func TestExtractWithoutTagTables(t *testing.T) {
	t.Parallel()

	x := NewTagExtractor(KnowledgeBase{})
	assert.Equal(t, []string{TagQuickRead}, x.Extract("breaking", "short"))
}
