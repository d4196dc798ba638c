package summary

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const lexRankThreshold = 0.1

// lexRank ranks sentences by eigenvector centrality over a thresholded TF-IDF cosine graph.
type lexRank struct{}

func (lexRank) Name() string { return MethodLexRank }

func (lexRank) Select(doc *document, n int) ([]int, error) {
	if err := doc.validate(); err != nil {
		return nil, err
	}

	size := doc.len()
	vectors := tfidfVectors(doc)

	adjacency := mat.NewDense(size, size, nil)
	degrees := make([]float64, size)
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			if cosine(vectors[i], vectors[j]) > lexRankThreshold {
				adjacency.Set(i, j, 1)
				degrees[i]++
			}
		}
	}

	// row-normalize; isolated sentences jump uniformly
	for i := 0; i < size; i++ {
		if degrees[i] == 0 {
			for j := 0; j < size; j++ {
				adjacency.Set(i, j, 1/float64(size))
			}
			continue
		}
		for j := 0; j < size; j++ {
			adjacency.Set(i, j, adjacency.At(i, j)/degrees[i])
		}
	}

	return pick(powerMethod(adjacency, size), n), nil
}

// powerMethod returns the stationary distribution of the row-stochastic matrix m.
func powerMethod(m *mat.Dense, size int) []float64 {
	p := mat.NewVecDense(size, nil)
	for i := 0; i < size; i++ {
		p.SetVec(i, 1/float64(size))
	}

	next := mat.NewVecDense(size, nil)
	for iter := 0; iter < rankMaxIterates; iter++ {
		next.MulVec(m.T(), p)
		diff := mat.NewVecDense(size, nil)
		diff.SubVec(next, p)
		p.CopyVec(next)
		if mat.Norm(diff, 2) < rankEpsilon {
			break
		}
	}
	return mat.Col(nil, 0, p)
}

// tfidfVectors maps each sentence to a sparse TF-IDF vector, treating sentences as documents.
func tfidfVectors(doc *document) []map[string]float64 {
	size := float64(doc.len())
	df := map[string]int{}
	for _, ts := range doc.terms {
		for t := range termSet(ts) {
			df[t]++
		}
	}

	vectors := make([]map[string]float64, doc.len())
	for i, ts := range doc.terms {
		tf := map[string]float64{}
		for _, t := range ts {
			tf[t]++
		}
		vec := make(map[string]float64, len(tf))
		for t, count := range tf {
			vec[t] = count * math.Log(size/float64(df[t]))
		}
		vectors[i] = vec
	}
	return vectors
}

func cosine(a, b map[string]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	var dot float64
	av := make([]float64, 0, len(a))
	bv := make([]float64, 0, len(b))
	for t, x := range a {
		av = append(av, x)
		if y, ok := b[t]; ok {
			dot += x * y
		}
	}
	for _, y := range b {
		bv = append(bv, y)
	}
	norm := floats.Norm(av, 2) * floats.Norm(bv, 2)
	if norm == 0 {
		return 0
	}
	return dot / norm
}
