package summary

import "math"

const (
	damping         = 0.85
	rankEpsilon     = 1e-4
	rankMaxIterates = 100
)

// textRank ranks sentences with PageRank over a word-overlap similarity graph.
type textRank struct{}

func (textRank) Name() string { return MethodTextRank }

func (textRank) Select(doc *document, n int) ([]int, error) {
	if err := doc.validate(); err != nil {
		return nil, err
	}

	size := doc.len()
	weights := make([][]float64, size)
	sets := make([]map[string]struct{}, size)
	for i, ts := range doc.terms {
		sets[i] = termSet(ts)
	}
	for i := range weights {
		weights[i] = make([]float64, size)
		for j := range weights[i] {
			if i != j {
				weights[i][j] = overlap(sets[i], sets[j])
			}
		}
	}

	outSum := make([]float64, size)
	for i := range weights {
		for _, w := range weights[i] {
			outSum[i] += w
		}
	}

	scores := make([]float64, size)
	for i := range scores {
		scores[i] = 1.0 / float64(size)
	}
	for iter := 0; iter < rankMaxIterates; iter++ {
		next := make([]float64, size)
		delta := 0.0
		for i := range next {
			sum := 0.0
			for j := range weights {
				if outSum[j] > 0 && weights[j][i] > 0 {
					sum += weights[j][i] / outSum[j] * scores[j]
				}
			}
			next[i] = (1-damping)/float64(size) + damping*sum
			delta = math.Max(delta, math.Abs(next[i]-scores[i]))
		}
		scores = next
		if delta < rankEpsilon {
			break
		}
	}

	return pick(scores, n), nil
}

// overlap is the TextRank similarity: shared words normalized by log sentence lengths.
func overlap(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	norm := math.Log(float64(len(a))) + math.Log(float64(len(b)))
	if norm == 0 {
		return 0
	}
	common := 0
	for w := range a {
		if _, ok := b[w]; ok {
			common++
		}
	}
	return float64(common) / norm
}

func termSet(terms []string) map[string]struct{} {
	set := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		set[t] = struct{}{}
	}
	return set
}
