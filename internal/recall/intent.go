// Package recall implements intent-aware retrieval: RRF-fused anchor
// selection across keyword, vector, and recency signals, a weighted beam
// search outward from each anchor over the typed edge graph, and a final
// multi-signal rerank. Package bfs does unweighted traversal for
// candidate surfacing; this package's beam search is weighted and
// query-aware, and is recall's alone.
package recall

import (
	"fmt"
	"regexp"
	"strings"
)

// Intent classifies what a recall query is asking for, which in turn
// picks the edge-type weights and traversal budget used during beam
// search.
type Intent string

const (
	IntentWhy     Intent = "WHY"
	IntentWhen    Intent = "WHEN"
	IntentEntity  Intent = "ENTITY"
	IntentGeneral Intent = "GENERAL"
)

var (
	whyPattern    = regexp.MustCompile(`(?i)\b(why|reason|because|cause|motivation|rationale)\b`)
	whenPattern   = regexp.MustCompile(`(?i)\b(when|time|date|before|after|during|timeline|history|sequence)\b`)
	entityPattern = regexp.MustCompile(`(?i)\b(what is|who is|tell me about|describe|about)\b`)
)

// intentWeights gives each intent a distribution over edge types that the
// beam search's structural term uses to favor the kind of hop the query
// is asking for.
var intentWeights = map[Intent]map[string]float64{
	IntentWhy: {
		"causal": 0.70, "temporal": 0.20,
		"entity": 0.05, "semantic": 0.05,
	},
	IntentWhen: {
		"temporal": 0.65, "causal": 0.15,
		"entity": 0.10, "semantic": 0.10,
	},
	IntentEntity: {
		"entity": 0.55, "semantic": 0.30,
		"temporal": 0.05, "causal": 0.10,
	},
	IntentGeneral: {
		"temporal": 0.25, "semantic": 0.25,
		"causal": 0.25, "entity": 0.25,
	},
}

// ParseIntent validates a user-supplied intent override string.
func ParseIntent(s string) (Intent, error) {
	switch Intent(strings.ToUpper(strings.TrimSpace(s))) {
	case IntentWhy:
		return IntentWhy, nil
	case IntentWhen:
		return IntentWhen, nil
	case IntentEntity:
		return IntentEntity, nil
	case IntentGeneral:
		return IntentGeneral, nil
	default:
		return "", fmt.Errorf("unknown intent %q; valid: WHY, WHEN, ENTITY, GENERAL", s)
	}
}

// DetectIntent analyzes a query string's surface wording and returns the
// intent whose signal pattern matched most often. Ties and zero matches
// fall through to GENERAL.
func DetectIntent(query string) Intent {
	q := strings.ToLower(query)
	whyScore := len(whyPattern.FindAllString(q, -1))
	whenScore := len(whenPattern.FindAllString(q, -1))
	entityScore := len(entityPattern.FindAllString(q, -1))

	if whyScore > whenScore && whyScore > entityScore && whyScore > 0 {
		return IntentWhy
	}
	if whenScore > whyScore && whenScore > entityScore && whenScore > 0 {
		return IntentWhen
	}
	if entityScore > whyScore && entityScore > whenScore && entityScore > 0 {
		return IntentEntity
	}
	return IntentGeneral
}

// Weights returns the edge-type weight distribution for intent, falling
// back to GENERAL for an unrecognized value.
func Weights(intent Intent) map[string]float64 {
	if w, ok := intentWeights[intent]; ok {
		return w
	}
	return intentWeights[IntentGeneral]
}
