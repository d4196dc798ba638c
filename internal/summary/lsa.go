package summary

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	lsaMinTopics = 3
	lsaSmoothing = 0.4
)

var errFactorize = errors.New("singular value decomposition failed")

// lsa ranks sentences by their weight in the dominant latent topics of the term-sentence matrix.
type lsa struct{}

func (lsa) Name() string { return MethodLSA }

func (lsa) Select(doc *document, n int) ([]int, error) {
	if err := doc.validate(); err != nil {
		return nil, err
	}

	vocab := doc.vocabulary()
	a := termSentenceMatrix(doc, vocab)

	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return nil, errFactorize
	}
	sigma := svd.Values(nil)
	var v mat.Dense
	svd.VTo(&v)

	topics := max(lsaMinTopics, n)
	topics = min(topics, len(sigma))

	ratings := make([]float64, doc.len())
	for j := range ratings {
		sum := 0.0
		for k := 0; k < topics; k++ {
			w := sigma[k] * v.At(j, k)
			sum += w * w
		}
		ratings[j] = math.Sqrt(sum)
	}
	return pick(ratings, n), nil
}

// termSentenceMatrix builds a terms x sentences matrix of smoothed, max-normalized frequencies.
func termSentenceMatrix(doc *document, vocab map[string]int) *mat.Dense {
	a := mat.NewDense(len(vocab), doc.len(), nil)
	for j, ts := range doc.terms {
		counts := map[string]float64{}
		peak := 0.0
		for _, t := range ts {
			counts[t]++
			peak = math.Max(peak, counts[t])
		}
		for t, c := range counts {
			a.Set(vocab[t], j, lsaSmoothing+(1-lsaSmoothing)*c/peak)
		}
	}
	return a
}
