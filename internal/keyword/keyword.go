// Package keyword implements tokenization and token-overlap scoring used
// for duplicate detection, keyword search anchors, and recall reranking.
package keyword

import (
	"container/heap"
	"regexp"
	"strings"

	"github.com/orsinium-labs/stopwords"

	"github.com/bissli/mnemon/internal/model"
)

var wordRe = regexp.MustCompile(`[a-zA-Z0-9]+`)

// legacyStopwords is the literal 80-word stopword set the original
// implementation hand-maintained; preserved verbatim so historical
// behavior (and the exact token sets it produces) never shifts, and
// merged with the library's broader English list below.
var legacyStopwords = map[string]bool{
	"a": true, "an": true, "the": true, "is": true, "are": true, "was": true,
	"were": true, "be": true, "been": true, "being": true, "have": true,
	"has": true, "had": true, "do": true, "does": true, "did": true,
	"will": true, "would": true, "could": true, "should": true, "may": true,
	"might": true, "shall": true, "can": true, "to": true, "of": true,
	"in": true, "for": true, "on": true, "with": true, "at": true,
	"by": true, "from": true, "as": true, "into": true, "about": true,
	"that": true, "this": true, "it": true, "its": true, "or": true,
	"and": true, "but": true, "if": true, "not": true, "no": true,
	"so": true, "up": true, "out": true, "than": true, "then": true,
	"too": true, "very": true, "just": true, "also": true, "more": true,
	"some": true, "any": true, "all": true, "each": true, "i": true,
	"me": true, "my": true, "we": true, "you": true, "your": true,
	"he": true, "she": true, "they": true, "them": true, "his": true,
	"her": true, "our": true, "their": true, "what": true, "which": true,
	"who": true, "how": true, "when": true, "where": true,
}

var englishStopwords = stopwords.MustGet("en")

func isStopword(w string) bool {
	if legacyStopwords[w] {
		return true
	}
	return englishStopwords.Contains(w)
}

// Tokenize splits text into lowercase alphanumeric tokens, dropping
// stopwords, and returns the deduplicated set.
func Tokenize(text string) map[string]bool {
	tokens := make(map[string]bool)
	for _, w := range wordRe.FindAllString(strings.ToLower(text), -1) {
		if !isStopword(w) {
			tokens[w] = true
		}
	}
	return tokens
}

// InsightTokens returns the combined token set over an insight's content,
// tags, and entities.
func InsightTokens(ins *model.Insight) map[string]bool {
	tokens := Tokenize(ins.Content)
	for _, tag := range ins.Tags {
		for t := range Tokenize(tag) {
			tokens[t] = true
		}
	}
	for _, ent := range ins.Entities {
		for t := range Tokenize(ent) {
			tokens[t] = true
		}
	}
	return tokens
}

func overlapCount(query, doc map[string]bool) int {
	n := 0
	for t := range query {
		if doc[t] {
			n++
		}
	}
	return n
}

// Scored pairs an insight with its keyword match score.
type Scored struct {
	Insight *model.Insight
	Score   float64
}

// scoreHeap is a min-heap over (score, importance) kept at size `limit`
// so KeywordSearch only needs O(n log limit) work.
type scoreHeap []Scored

func (h scoreHeap) Len() int { return len(h) }
func (h scoreHeap) Less(i, j int) bool {
	if h[i].Score != h[j].Score {
		return h[i].Score < h[j].Score
	}
	if h[i].Insight.Importance != h[j].Insight.Importance {
		return h[i].Insight.Importance < h[j].Insight.Importance
	}
	return h[i].Insight.ID < h[j].Insight.ID
}
func (h scoreHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *scoreHeap) Push(x any)        { *h = append(*h, x.(Scored)) }
func (h *scoreHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// KeywordSearch scores insights by token overlap with the query and
// returns the top `limit` matches sorted by score descending (ties
// broken by higher importance). If tokenCache is non-nil, each
// insight's computed token set is stored for reuse by the caller (the
// recall pipeline reuses this to avoid retokenizing every candidate).
func KeywordSearch(insights []*model.Insight, query string, limit int, tokenCache map[string]map[string]bool) []Scored {
	queryTokens := Tokenize(query)
	if len(queryTokens) == 0 {
		return nil
	}

	h := &scoreHeap{}
	heap.Init(h)

	for _, ins := range insights {
		contentTokens := InsightTokens(ins)
		if tokenCache != nil {
			tokenCache[ins.ID] = contentTokens
		}

		intersection := overlapCount(queryTokens, contentTokens)
		if intersection == 0 {
			continue
		}
		score := float64(intersection) / float64(len(queryTokens))

		entry := Scored{Insight: ins, Score: score}
		if limit <= 0 || h.Len() < limit {
			heap.Push(h, entry)
		} else {
			top := (*h)[0]
			if score > top.Score || (score == top.Score && ins.Importance > top.Insight.Importance) {
				(*h)[0] = entry
				heap.Fix(h, 0)
			}
		}
	}

	result := make([]Scored, h.Len())
	for i := len(result) - 1; i >= 0; i-- {
		result[i] = heap.Pop(h).(Scored)
	}
	return result
}

// ContentSimilarity computes the bidirectional token overlap between two
// texts: max(overlap/|a|, overlap/|b|), so a short string fully contained
// in a longer one scores 1.0.
func ContentSimilarity(a, b string) float64 {
	tokA := Tokenize(a)
	tokB := Tokenize(b)
	if len(tokA) == 0 || len(tokB) == 0 {
		return 0
	}

	intersection := overlapCount(tokA, tokB)
	scoreA := float64(intersection) / float64(len(tokA))
	scoreB := float64(intersection) / float64(len(tokB))
	if scoreA > scoreB {
		return scoreA
	}
	return scoreB
}
