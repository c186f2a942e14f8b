// Package diff implements duplicate/conflict detection for new content
// against the existing corpus: a hybrid of keyword and (optional) vector
// similarity feeding a negation-aware classifier.
package diff

import (
	"sort"
	"strings"

	"github.com/bissli/mnemon/internal/keyword"
	"github.com/bissli/mnemon/internal/model"
	"github.com/bissli/mnemon/internal/vector"
)

// Verdict is the classification of a candidate match against new content.
type Verdict string

const (
	Add       Verdict = "ADD"
	Conflict  Verdict = "CONFLICT"
	Duplicate Verdict = "DUPLICATE"
	Update    Verdict = "UPDATE"
)

var negationWords = []string{
	"not", "no longer", "don't", "doesn't", "never",
	"switched from", "instead of", "rather than", "replaced", "deprecated",
}

// Classify decides the relationship between new and existing content given
// their token/cosine-derived similarity.
func Classify(similarity float64, newText, existingText string) Verdict {
	if similarity < 0.5 {
		return Add
	}

	newLower := strings.ToLower(newText)
	existLower := strings.ToLower(existingText)
	for _, neg := range negationWords {
		if strings.Contains(newLower, neg) || strings.Contains(existLower, neg) {
			return Conflict
		}
	}

	if similarity > 0.9 {
		return Duplicate
	}
	return Update
}

// Match is one candidate compared against the new content.
type Match struct {
	ID               string
	Content          string
	TokenSimilarity  float64
	CosineSimilarity float64
	Similarity       float64
	Suggestion       Verdict
}

// Result is the overall diff outcome.
type Result struct {
	Suggestion Verdict
	Matches    []Match
}

// EmbeddingLookup resolves an insight id to its stored embedding.
type EmbeddingLookup func(id string) ([]float64, bool)

// Diff compares newContent against candidates (top keyword matches) and
// optionally against the full embedding corpus (existingEmbeds), returning
// an overall suggestion plus the individual match breakdown.
func Diff(insights []*model.Insight, newContent string, limit int, newEmbedding []float64, existingEmbeds []EmbeddingPair) Result {
	if limit <= 0 {
		limit = 5
	}

	candidates := keyword.KeywordSearch(insights, newContent, limit, nil)

	embedMap := make(map[string][]float64, len(existingEmbeds))
	for _, p := range existingEmbeds {
		embedMap[p.ID] = p.Vector
	}

	var matches []Match
	seen := make(map[string]bool)

	for _, c := range candidates {
		ins := c.Insight
		tokenSim := keyword.ContentSimilarity(newContent, ins.Content)

		cosineSim := 0.0
		if newEmbedding != nil {
			if existVec, ok := embedMap[ins.ID]; ok {
				cosineSim = vector.CosineSimilarity(newEmbedding, existVec)
			}
		}

		similarity := tokenSim
		if cosineSim >= 0.7 && cosineSim > similarity {
			similarity = cosineSim
		}

		matches = append(matches, Match{
			ID:               ins.ID,
			Content:          ins.Content,
			TokenSimilarity:  tokenSim,
			CosineSimilarity: cosineSim,
			Similarity:       similarity,
			Suggestion:       Classify(similarity, newContent, ins.Content),
		})
		seen[ins.ID] = true
	}

	if newEmbedding != nil && len(existingEmbeds) > 0 {
		insightByID := make(map[string]*model.Insight, len(insights))
		for _, ins := range insights {
			insightByID[ins.ID] = ins
		}

		type cosinePair struct {
			id  string
			sim float64
		}
		var pairs []cosinePair
		for _, p := range existingEmbeds {
			if seen[p.ID] {
				continue
			}
			cs := vector.CosineSimilarity(newEmbedding, p.Vector)
			if cs >= 0.7 {
				pairs = append(pairs, cosinePair{p.ID, cs})
			}
		}
		sort.Slice(pairs, func(i, j int) bool { return pairs[i].sim > pairs[j].sim })
		if len(pairs) > limit {
			pairs = pairs[:limit]
		}

		for _, pr := range pairs {
			ins, ok := insightByID[pr.id]
			if !ok {
				continue
			}
			tokenSim := keyword.ContentSimilarity(newContent, ins.Content)
			similarity := tokenSim
			if pr.sim >= 0.7 && pr.sim > similarity {
				similarity = pr.sim
			}
			suggestion := Classify(similarity, newContent, ins.Content)
			if suggestion != Add {
				matches = append(matches, Match{
					ID:               ins.ID,
					Content:          ins.Content,
					TokenSimilarity:  tokenSim,
					CosineSimilarity: pr.sim,
					Similarity:       similarity,
					Suggestion:       suggestion,
				})
			}
		}
	}

	overall := Add
	if len(matches) > 0 {
		overall = matches[0].Suggestion
		for _, m := range matches {
			if m.Suggestion == Duplicate {
				overall = Duplicate
				break
			}
		}
	}

	return Result{Suggestion: overall, Matches: matches}
}

// EmbeddingPair is an (insight id, embedding) tuple used by Diff's
// corpus-wide cosine scan.
type EmbeddingPair struct {
	ID     string
	Vector []float64
}
