package recall

import (
	"sort"

	"github.com/bissli/mnemon/internal/keyword"
	"github.com/bissli/mnemon/internal/model"
	"github.com/bissli/mnemon/internal/store"
	"github.com/bissli/mnemon/internal/vector"
)

// AnchorTopK bounds each individual anchor source (keyword, vector,
// recency) before RRF fusion.
const AnchorTopK = 20

// lambda1/lambda2 weight the structural and semantic terms of a beam
// search hop's incremental score against the score carried in from its
// parent.
const (
	lambda1 = 1.0
	lambda2 = 0.4
)

// rrfK is the reciprocal-rank-fusion damping constant; larger values
// flatten the contribution of low ranks.
const rrfK = 60.0

// VectorSearchMinSim discards vector anchors below this cosine floor.
const VectorSearchMinSim = 0.10

// TraversalParams bounds a single beam search: how many nodes survive
// pruning at each depth, how many hops it runs, and a hard visited-node
// ceiling.
type TraversalParams struct {
	BeamWidth  int
	MaxDepth   int
	MaxVisited int
}

var traversalParams = map[Intent]TraversalParams{
	IntentWhy:     {BeamWidth: 15, MaxDepth: 5, MaxVisited: 500},
	IntentWhen:    {BeamWidth: 10, MaxDepth: 5, MaxVisited: 400},
	IntentEntity:  {BeamWidth: 10, MaxDepth: 4, MaxVisited: 400},
	IntentGeneral: {BeamWidth: 10, MaxDepth: 4, MaxVisited: 500},
}

// GetTraversalParams returns the beam search budget for intent, falling
// back to GENERAL.
func GetTraversalParams(intent Intent) TraversalParams {
	if p, ok := traversalParams[intent]; ok {
		return p
	}
	return traversalParams[IntentGeneral]
}

// rerankWithEmbed and rerankNoEmbed weight (keyword, entity, similarity,
// graph) in the final score; the similarity term drops to zero and its
// weight redistributes to keyword/entity/graph when no embeddings exist
// for the store at all.
var (
	rerankWithEmbed = [4]float64{0.30, 0.15, 0.35, 0.20}
	rerankNoEmbed   = [4]float64{0.45, 0.25, 0.0, 0.30}
)

// Store is the persistence surface intent-aware recall reads from. It is
// satisfied by a thin adapter over internal/store bound to a single
// sqlite connection or transaction.
type Store interface {
	GetAllActiveInsights() ([]*model.Insight, error)
	GetAllEmbeddings() ([]store.EmbeddedInsight, error)
	GetEdgesForNode(id string) ([]*model.Edge, error)
	GetInsightByID(id string) (*model.Insight, error)
	GetOutgoingEdgesByType(id, edgeType string) ([]*model.Edge, error)
}

// VectorHit is one cosine-similarity match from a vector search.
type VectorHit struct {
	ID         string
	Similarity float64
}

// VectorSearchFromCache scores every cached embedding against queryVec and
// returns the top `limit` matches above VectorSearchMinSim, sorted by
// similarity descending.
func VectorSearchFromCache(cache map[string][]float64, queryVec []float64, limit int) []VectorHit {
	var hits []VectorHit
	for id, vec := range cache {
		sim := vector.CosineSimilarity(queryVec, vec)
		if sim <= VectorSearchMinSim {
			continue
		}
		hits = append(hits, VectorHit{ID: id, Similarity: sim})
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].Similarity > hits[j].Similarity })
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}

func buildEmbedCache(raw []store.EmbeddedInsight) map[string][]float64 {
	if len(raw) == 0 {
		return nil
	}
	cache := make(map[string][]float64, len(raw))
	for _, e := range raw {
		cache[e.ID] = e.Vector
	}
	return cache
}

type beamItem struct {
	id    string
	score float64
}

// beamSearchFromAnchor expands outward from a single anchor, updating
// scoreMap/viaMap/insightMap with the best score seen for every node it
// reaches (a node's score can improve on a later, shorter or
// higher-weight path from a different anchor, so callers share these
// maps across all anchors).
func beamSearchFromAnchor(
	s Store,
	startID string,
	startScore float64,
	queryVec []float64,
	weights map[string]float64,
	params TraversalParams,
	scoreMap map[string]float64,
	viaMap map[string]string,
	insightMap map[string]*model.Insight,
	embedCache map[string][]float64,
) {
	visited := map[string]bool{startID: true}
	totalVisited := 1
	current := []beamItem{{startID, startScore}}

	for depth := 0; depth < params.MaxDepth; depth++ {
		if len(current) == 0 || totalVisited >= params.MaxVisited {
			break
		}

		var next []beamItem
		for _, item := range current {
			edges, err := s.GetEdgesForNode(item.id)
			if err != nil {
				continue
			}

			for _, e := range edges {
				if totalVisited >= params.MaxVisited {
					break
				}

				neighborID := e.TargetID
				if neighborID == item.id {
					neighborID = e.SourceID
				}

				structural := weights[e.EdgeType] * e.Weight
				semantic := 0.0
				if queryVec != nil && embedCache != nil {
					if nv, ok := embedCache[neighborID]; ok {
						if cs := vector.CosineSimilarity(queryVec, nv); cs > 0 {
							semantic = cs
						}
					}
				}
				neighborScore := item.score + lambda1*structural + lambda2*semantic

				if existing, ok := scoreMap[neighborID]; !ok || neighborScore > existing {
					scoreMap[neighborID] = neighborScore
					viaMap[neighborID] = e.EdgeType
					if _, seen := insightMap[neighborID]; !seen {
						if ins, err := s.GetInsightByID(neighborID); err == nil && ins != nil {
							insightMap[neighborID] = ins
						}
					}
				}

				if !visited[neighborID] {
					visited[neighborID] = true
					totalVisited++
					next = append(next, beamItem{neighborID, neighborScore})
				}
			}
		}

		sort.Slice(next, func(i, j int) bool { return next[i].score > next[j].score })
		if len(next) > params.BeamWidth {
			next = next[:params.BeamWidth]
		}
		current = next
	}
}

// Result is one ranked recall hit.
type Result struct {
	Insight *model.Insight
	Score   float64
	Intent  Intent
	Via     string
	Signals Signals
}

// Signals breaks a Result's final score down into its four weighted
// components, surfaced for callers that want to explain a ranking.
type Signals struct {
	Keyword    float64
	Entity     float64
	Similarity float64
	Graph      float64
}

// Meta describes how a recall run arrived at its results.
type Meta struct {
	Intent       Intent
	IntentSource string // "override" or "auto"
	AnchorCount  int
	Traversed    int
	Hint         string // "sparse_results" when the result set looks thin
}

// Output is the full return value of IntentAwareRecall.
type Output struct {
	Results []Result
	Meta    Meta
}

type anchor struct {
	insight *model.Insight
	score   float64
	via     string
}

// IntentAwareRecall runs the full MAGMA-aligned retrieval pipeline: fuse
// keyword/vector/recency anchors via reciprocal rank fusion, beam search
// outward from every anchor over the typed edge graph, then rerank every
// node the search touched against the original query.
func IntentAwareRecall(
	s Store,
	query string,
	queryVec []float64,
	queryEntities []string,
	limit int,
	intentOverride string,
) (*Output, error) {
	var intent Intent
	intentSource := "auto"
	if intentOverride != "" {
		parsed, err := ParseIntent(intentOverride)
		if err != nil {
			return nil, err
		}
		intent = parsed
		intentSource = "override"
	} else {
		intent = DetectIntent(query)
	}

	weights := Weights(intent)
	params := GetTraversalParams(intent)

	allInsights, err := s.GetAllActiveInsights()
	if err != nil {
		return nil, err
	}

	var embedCache map[string][]float64
	if queryVec != nil {
		raw, err := s.GetAllEmbeddings()
		if err != nil {
			return nil, err
		}
		embedCache = buildEmbedCache(raw)
	}
	hasEmbeddings := len(embedCache) > 0

	anchorMap := make(map[string]*anchor)

	tokenCache := make(map[string]map[string]bool)
	keywordAnchors := keyword.KeywordSearch(allInsights, query, AnchorTopK, tokenCache)
	for rank, sc := range keywordAnchors {
		anchorMap[sc.Insight.ID] = &anchor{insight: sc.Insight, score: 1.0 / (rrfK + float64(rank) + 1), via: "keyword"}
	}

	if hasEmbeddings {
		vectorHits := VectorSearchFromCache(embedCache, queryVec, AnchorTopK)
		for rank, hit := range vectorHits {
			rrfScore := 1.0 / (rrfK + float64(rank) + 1)
			if a, ok := anchorMap[hit.ID]; ok {
				a.score += rrfScore
				a.via = "hybrid"
			} else if ins, err := s.GetInsightByID(hit.ID); err == nil && ins != nil {
				anchorMap[hit.ID] = &anchor{insight: ins, score: rrfScore, via: "vector"}
			}
		}
	}

	timeSorted := make([]*model.Insight, len(allInsights))
	copy(timeSorted, allInsights)
	sort.Slice(timeSorted, func(i, j int) bool { return timeSorted[i].CreatedAt.After(timeSorted[j].CreatedAt) })
	timeLimit := AnchorTopK
	if len(timeSorted) < timeLimit {
		timeLimit = len(timeSorted)
	}
	for rank := 0; rank < timeLimit; rank++ {
		ins := timeSorted[rank]
		rrfScore := 1.0 / (rrfK + float64(rank) + 1)
		if a, ok := anchorMap[ins.ID]; ok {
			a.score += rrfScore
			if a.via == "keyword" || a.via == "vector" {
				a.via = "hybrid"
			}
		} else {
			anchorMap[ins.ID] = &anchor{insight: ins, score: rrfScore, via: "time"}
		}
	}

	maxAnchorScore := 0.0
	for _, a := range anchorMap {
		if a.score > maxAnchorScore {
			maxAnchorScore = a.score
		}
	}
	if maxAnchorScore > 0 {
		for _, a := range anchorMap {
			a.score /= maxAnchorScore
		}
	}
	anchorCount := len(anchorMap)

	scoreMap := make(map[string]float64, anchorCount)
	viaMap := make(map[string]string, anchorCount)
	insightMap := make(map[string]*model.Insight, anchorCount)
	for id, a := range anchorMap {
		scoreMap[id] = a.score
		viaMap[id] = a.via
		insightMap[id] = a.insight
	}

	for id, a := range anchorMap {
		beamSearchFromAnchor(s, id, a.score, queryVec, weights, params, scoreMap, viaMap, insightMap, embedCache)
	}
	traversedCount := len(scoreMap)

	queryTokens := keyword.Tokenize(query)
	queryEntitySet := make(map[string]bool, len(queryEntities))
	for _, e := range queryEntities {
		queryEntitySet[lower(e)] = true
	}

	type candidate struct {
		id       string
		ins      *model.Insight
		via      string
		graphRaw float64
	}

	var candidates []candidate
	graphMin, graphMax := 0.0, 0.0
	first := true
	for id, raw := range scoreMap {
		ins, ok := insightMap[id]
		if !ok {
			continue
		}
		if first {
			graphMin, graphMax = raw, raw
			first = false
		} else {
			if raw < graphMin {
				graphMin = raw
			}
			if raw > graphMax {
				graphMax = raw
			}
		}
		candidates = append(candidates, candidate{id: id, ins: ins, via: viaMap[id], graphRaw: raw})
	}
	graphRange := graphMax - graphMin
	if graphRange == 0 {
		graphRange = 1.0
	}

	w := rerankNoEmbed
	if hasEmbeddings {
		w = rerankWithEmbed
	}

	results := make([]Result, 0, len(candidates))
	for _, c := range candidates {
		kwScore := 0.0
		if len(queryTokens) > 0 {
			ct := tokenCache[c.id]
			if ct == nil {
				ct = keyword.InsightTokens(c.ins)
			}
			matched := 0
			for t := range queryTokens {
				if ct[t] {
					matched++
				}
			}
			kwScore = float64(matched) / float64(len(queryTokens))
		}

		entScore := 0.0
		if len(queryEntitySet) > 0 {
			matched := 0
			for _, e := range c.ins.Entities {
				if queryEntitySet[lower(e)] {
					matched++
				}
			}
			entScore = float64(matched) / float64(max1(len(queryEntitySet)))
		}

		simScore := 0.0
		if hasEmbeddings {
			if nv, ok := embedCache[c.id]; ok {
				if sim := vector.CosineSimilarity(queryVec, nv); sim > 0 {
					simScore = sim
				}
			}
		}

		graphScore := (c.graphRaw - graphMin) / graphRange

		finalScore := w[0]*kwScore + w[1]*entScore + w[2]*simScore + w[3]*graphScore

		results = append(results, Result{
			Insight: c.ins,
			Score:   finalScore,
			Intent:  intent,
			Via:     c.via,
			Signals: Signals{Keyword: kwScore, Entity: entScore, Similarity: simScore, Graph: graphScore},
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Insight.Importance > results[j].Insight.Importance
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	if intent == IntentWhy {
		var err error
		results, err = causalTopologicalSort(s, results)
		if err != nil {
			return nil, err
		}
	}

	hint := ""
	if len(results) == 0 || (limit > 0 && len(results) < limit/2) {
		hint = "sparse_results"
	}

	return &Output{
		Results: results,
		Meta: Meta{
			Intent:       intent,
			IntentSource: intentSource,
			AnchorCount:  anchorCount,
			Traversed:    traversedCount,
			Hint:         hint,
		},
	}, nil
}

func lower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// causalTopologicalSort reorders results so causes appear before effects,
// restricted to the causal edges running between nodes already present in
// results. Kahn's algorithm processes each zero-indegree frontier in score
// order, so ties within a frontier keep the score-descending order the
// caller already established; any result left over after a cycle (causal
// edges should be acyclic, but a corrupted store might not be) is
// appended at the end in its original order.
func causalTopologicalSort(s Store, results []Result) ([]Result, error) {
	if len(results) <= 1 {
		return results, nil
	}

	idSet := make(map[string]bool, len(results))
	byID := make(map[string]Result, len(results))
	for _, r := range results {
		idSet[r.Insight.ID] = true
		byID[r.Insight.ID] = r
	}

	adj := make(map[string][]string)
	inDegree := make(map[string]int, len(results))
	for _, r := range results {
		inDegree[r.Insight.ID] = 0
	}
	for _, r := range results {
		edges, err := s.GetOutgoingEdgesByType(r.Insight.ID, "causal")
		if err != nil {
			return nil, err
		}
		for _, e := range edges {
			if idSet[e.TargetID] {
				adj[e.SourceID] = append(adj[e.SourceID], e.TargetID)
				inDegree[e.TargetID]++
			}
		}
	}

	var frontier []string
	for _, r := range results {
		if inDegree[r.Insight.ID] == 0 {
			frontier = append(frontier, r.Insight.ID)
		}
	}

	var ordered []Result
	for len(frontier) > 0 {
		sort.Slice(frontier, func(i, j int) bool { return byID[frontier[i]].Score > byID[frontier[j]].Score })
		id := frontier[0]
		frontier = frontier[1:]
		ordered = append(ordered, byID[id])

		for _, target := range adj[id] {
			inDegree[target]--
			if inDegree[target] == 0 {
				frontier = append(frontier, target)
			}
		}
	}

	if len(ordered) < len(results) {
		covered := make(map[string]bool, len(ordered))
		for _, r := range ordered {
			covered[r.Insight.ID] = true
		}
		for _, r := range results {
			if !covered[r.Insight.ID] {
				ordered = append(ordered, r)
			}
		}
	}

	return ordered, nil
}
