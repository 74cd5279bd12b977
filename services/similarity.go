package services

import (
	"fmt"
	"math"
	"sort"
)

// Similarity thresholds and result limits. The bulk listing paths default to
// 0.70 while the single best-match convenience path uses the stricter 0.80;
// the two are deliberately separate constants.
const (
	DefaultMatchThreshold = 0.70
	BestMatchThreshold    = 0.80
	DefaultMatchLimit     = 10
	MaxMatchLimit         = 100
)

// ValidateMatchParams checks caller-supplied ranking parameters:
// limit in [1, 100], threshold in [0.0, 1.0].
func ValidateMatchParams(threshold float64, limit int) error {
	if limit < 1 || limit > MaxMatchLimit {
		return fmt.Errorf("%w: limit %d out of range [1, %d]", ErrInvalidArgument, limit, MaxMatchLimit)
	}
	return ValidateThreshold(threshold)
}

// ValidateThreshold checks that a similarity threshold is in [0.0, 1.0].
func ValidateThreshold(threshold float64) error {
	if threshold < 0.0 || threshold > 1.0 {
		return fmt.Errorf("%w: threshold %v out of range [0.0, 1.0]", ErrInvalidArgument, threshold)
	}
	return nil
}

// CosineSimilarity returns 1 - cosine_distance of two vectors, in [-1, 1].
// A zero-norm or empty vector scores 0 against everything.
func CosineSimilarity(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// SimilarityHit points into the candidate pool handed to RankBySimilarity.
type SimilarityHit struct {
	Index      int
	Similarity float64
}

// RankBySimilarity scores every pool vector against the query, keeps the
// candidates strictly above threshold, orders them by descending similarity
// and truncates to limit. Candidates with a missing embedding are skipped
// rather than scored. Ties keep their pool order; no secondary sort key is
// defined.
func RankBySimilarity(query []float64, pool [][]float64, threshold float64, limit int) ([]SimilarityHit, error) {
	if err := ValidateMatchParams(threshold, limit); err != nil {
		return nil, err
	}

	hits := make([]SimilarityHit, 0, limit)
	for i, candidate := range pool {
		if len(candidate) == 0 {
			continue
		}
		similarity := CosineSimilarity(query, candidate)
		if similarity > threshold {
			hits = append(hits, SimilarityHit{Index: i, Similarity: similarity})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})

	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}
