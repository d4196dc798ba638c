package classify

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ArticleIntel/internal/domain"
)

func trainingSamples() []Sample {
	sports := []string{
		"The quarterback threw a touchdown pass in the final quarter",
		"Fans cheered as the striker scored a late goal",
		"The coach praised the defense after the playoff win",
		"A record crowd watched the marathon runners finish",
		"The pitcher struck out ten batters in the league game",
		"The quarterback was named most valuable player",
	}
	health := []string{
		"Doctors reported fewer hospital admissions after the vaccine rollout",
		"The clinic offers free screening for diabetes patients",
		"Nurses described long shifts in the intensive care ward",
		"A new therapy reduced symptoms in most patients",
		"The hospital expanded its cancer treatment centre",
		"Researchers studied sleep and blood pressure in adults",
	}

	var out []Sample
	for _, s := range sports {
		out = append(out, Sample{Title: "Sports", Content: s, Category: domain.CategorySports})
	}
	for _, s := range health {
		out = append(out, Sample{Title: "Health", Content: s, Category: domain.CategoryHealth})
	}
	return out
}

func trainSportsAndHealth(t *testing.T) *Model {
	t.Helper()

	m, err := Train(trainingSamples())
	require.NoError(t, err)
	return m
}

func TestTrainRequiresTenSamples(t *testing.T) {
	t.Parallel()

	samples := trainingSamples()[:9]
	_, err := Train(samples)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInsufficientSamples))

	// unlabelled samples do not count
	samples = append(samples, Sample{Content: "no label"})
	_, err = Train(samples)
	assert.True(t, errors.Is(err, ErrInsufficientSamples))
}

func TestTrainAndPredict(t *testing.T) {
	t.Parallel()

	m := trainSportsAndHealth(t)
	assert.Equal(t, []domain.Category{domain.CategoryHealth, domain.CategorySports}, m.Classes)
	assert.Equal(t, 12, m.Samples)
	assert.LessOrEqual(t, len(m.Vocabulary), MaxFeatures)

	got, err := m.Predict("the quarterback and the coach celebrated the touchdown")
	require.NoError(t, err)
	assert.Equal(t, domain.CategorySports, got)

	got, err = m.Predict("patients at the hospital received a vaccine")
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryHealth, got)
}

func TestModelIgnoresStopwords(t *testing.T) {
	t.Parallel()

	m := trainSportsAndHealth(t)
	_, hasThe := m.Vocabulary["the"]
	assert.False(t, hasThe)
	_, hasQB := m.Vocabulary["quarterback"]
	assert.True(t, hasQB)
}

func TestSelectVocabularyCapsFeatures(t *testing.T) {
	t.Parallel()

	doc := make([]string, 0, MaxFeatures+50)
	for i := 0; i < MaxFeatures+50; i++ {
		doc = append(doc, fmt.Sprintf("term%d", i))
	}
	vocab := selectVocabulary([][]string{doc})
	assert.Len(t, vocab, MaxFeatures)
}

func TestModelSaveAndLoad(t *testing.T) {
	t.Parallel()

	m := trainSportsAndHealth(t)
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, m.Save(path))

	loaded, err := LoadModel(path)
	require.NoError(t, err)
	assert.Equal(t, m.Classes, loaded.Classes)
	assert.Equal(t, m.Vocabulary, loaded.Vocabulary)

	text := "the striker scored a goal"
	want, err := m.Predict(text)
	require.NoError(t, err)
	got, err := loaded.Predict(text)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadModelRejectsBadFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, err := LoadModel(filepath.Join(dir, "missing.json"))
	require.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"classes":[]}`), 0o644))
	_, err = LoadModel(bad)
	require.Error(t, err)
}

func TestModelStoreSwap(t *testing.T) {
	t.Parallel()

	store := NewModelStore()
	assert.Nil(t, store.Load())

	first := trainSportsAndHealth(t)
	assert.Nil(t, store.Swap(first))
	assert.Same(t, first, store.Load())

	second := trainSportsAndHealth(t)
	assert.Same(t, first, store.Swap(second))
	assert.Same(t, second, store.Load())
	assert.Equal(t, uint64(2), store.Version())
}

func TestLoadModelRejectsInconsistentShapes(t *testing.T) {
	t.Parallel()

	cases := map[string]func(m *Model){
		"vocabulary index past idf": func(m *Model) {
			for term := range m.Vocabulary {
				m.Vocabulary[term] = len(m.IDF) + 7
				break
			}
		},
		"negative vocabulary index": func(m *Model) {
			for term := range m.Vocabulary {
				m.Vocabulary[term] = -1
				break
			}
		},
		"short feature row": func(m *Model) { m.FeatureLogProb[0] = m.FeatureLogProb[0][:1] },
		"missing prior":     func(m *Model) { m.ClassLogPrior = m.ClassLogPrior[:1] },
		"missing class row": func(m *Model) { m.FeatureLogProb = m.FeatureLogProb[:1] },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			m := trainSportsAndHealth(t)
			mutate(m)
			path := filepath.Join(t.TempDir(), "model.json")
			require.NoError(t, m.Save(path))

			_, err := LoadModel(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "decode model")
		})
	}
}

func TestPredictUntrained(t *testing.T) {
	t.Parallel()

	var m *Model
	_, err := m.Predict("anything")
	assert.Error(t, err)
}
