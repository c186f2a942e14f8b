// Package entity extracts named entities from insight content via ordered
// regex passes plus a technology dictionary, and computes IDF-style entity
// edge weights.
package entity

import (
	"math"
	"regexp"

	"github.com/coregx/ahocorasick"
)

var (
	camelCaseRe = regexp.MustCompile(`\b([A-Z][a-z]+(?:[A-Z][a-z]+)+)\b`)
	acronymRe   = regexp.MustCompile(`\b([A-Z]{2,6})\b`)
	filePathRe  = regexp.MustCompile(`(?:^|[\s"'(])([.\w/-]+\.\w{1,10})(?:[\s"'),.]|$)`)
	urlRe       = regexp.MustCompile(`https?://[^\s"'<>)]+`)
	mentionRe   = regexp.MustCompile(`@([a-zA-Z_]\w+)`)
	wordSplitRe = regexp.MustCompile(`[a-zA-Z0-9]+`)
)

// techDictionary is the fixed set of bare tech-brand tokens recognized as
// entities even without distinguishing casing or punctuation structure.
var techDictionary = []string{
	"Go", "Rust", "Python", "Java", "Kotlin", "Swift", "Ruby", "Elixir",
	"Zig", "Lua", "Dart", "Scala", "Perl", "Haskell", "OCaml", "Julia",
	"Clojure", "JavaScript", "TypeScript", "React", "Vue", "Angular",
	"Svelte", "Next", "Nuxt", "Node", "Deno", "Bun", "Vite", "Webpack",
	"SQLite", "PostgreSQL", "Postgres", "MySQL", "Redis", "MongoDB",
	"DynamoDB", "Cassandra", "Qdrant", "Milvus", "Chroma", "Pinecone",
	"Neo4j", "Weaviate", "Elasticsearch", "Docker", "Kubernetes",
	"Terraform", "Ansible", "Nginx", "Caddy", "Kafka", "RabbitMQ",
	"AWS", "GCP", "Azure", "Vercel", "Netlify", "Cloudflare", "Supabase",
	"Firebase", "Ollama", "OpenAI", "Claude", "Anthropic", "PyTorch",
	"TensorFlow", "LangChain", "LlamaIndex", "FAISS", "Hugging", "Git",
	"GitHub", "GitLab", "Cobra", "FastAPI", "Flask", "Django", "Rails",
	"Spring", "Express", "Gin", "Echo", "Fiber", "Pytest", "Jest",
	"Vitest", "gRPC", "GraphQL", "WebSocket", "OAuth", "JWT", "YAML",
	"TOML", "Protobuf", "MAGMA", "MCP", "RLM",
}

// acronymStopwords blocks common short uppercase English words that would
// otherwise be misclassified as acronyms by the acronym pattern.
var acronymStopwords = map[string]bool{
	"IN": true, "ON": true, "AT": true, "TO": true, "BY": true, "OR": true,
	"AN": true, "IF": true, "IS": true, "IT": true, "OF": true, "AS": true,
	"DO": true, "NO": true, "SO": true, "UP": true, "WE": true, "HE": true,
	"MY": true, "BE": true, "GO": true, "THE": true, "AND": true, "FOR": true,
	"ARE": true, "BUT": true, "NOT": true, "YOU": true, "ALL": true,
	"CAN": true, "HER": true, "WAS": true, "ONE": true, "OUR": true,
	"OUT": true, "HAS": true, "HAD": true, "HOW": true, "MAN": true,
	"NEW": true, "NOW": true, "OLD": true, "SEE": true, "WAY": true,
	"MAY": true, "SAY": true, "SHE": true, "TWO": true, "USE": true,
	"BOY": true, "DID": true, "GET": true, "HIM": true, "HIS": true,
	"LET": true, "PUT": true, "TOP": true, "TOO": true, "ANY": true,
}

// techMatcher is a package-level Aho-Corasick automaton over the
// technology dictionary, built once and reused for every extraction call
// (the teacher's pattern of building matchers up front and reusing them).
var techMatcher = mustBuildTechMatcher()

func mustBuildTechMatcher() *ahocorasick.Automaton {
	a, err := ahocorasick.NewBuilder().
		AddStrings(techDictionary).
		SetMatchKind(ahocorasick.LeftmostLongest).
		SetPrefilter(true).
		Build()
	if err != nil {
		panic(err)
	}
	return a
}

// SplitWords splits text into ASCII-alphanumeric words, preserving the
// original casing.
func SplitWords(text string) []string {
	return wordSplitRe.FindAllString(text, -1)
}

// Extract finds named entities in text using the ordered regex passes
// (CamelCase compounds, acronyms, file paths, URLs, @mentions) followed by
// a technology-dictionary pass, preserving first-seen order.
func Extract(text string) []string {
	seen := make(map[string]bool)
	var entities []string

	add := func(e string) {
		if e == "" || seen[e] || acronymStopwords[e] {
			return
		}
		seen[e] = true
		entities = append(entities, e)
	}

	for _, m := range camelCaseRe.FindAllString(text, -1) {
		add(m)
	}
	for _, m := range acronymRe.FindAllString(text, -1) {
		add(m)
	}
	for _, m := range filePathRe.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}
	for _, m := range urlRe.FindAllString(text, -1) {
		add(m)
	}
	for _, m := range mentionRe.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}

	// Technology dictionary pass: match whole words only, via Aho-Corasick
	// over the raw text, then confirm each hit is a standalone word so we
	// don't match "Golang" as containing "Go" mid-token.
	words := SplitWords(text)
	wordSet := make(map[string]bool, len(words))
	for _, w := range words {
		wordSet[w] = true
	}
	for _, m := range techMatcher.FindAllOverlapping([]byte(text)) {
		if m.Start >= m.End || m.End > len(text) {
			continue
		}
		name := text[m.Start:m.End]
		if wordSet[name] {
			add(name)
		}
	}

	return entities
}

// Merge deduplicates and concatenates provided entities with extracted
// ones, preserving provided-first order.
func Merge(provided, extracted []string) []string {
	seen := make(map[string]bool)
	var merged []string
	for _, e := range provided {
		if e != "" && !seen[e] {
			seen[e] = true
			merged = append(merged, e)
		}
	}
	for _, e := range extracted {
		if e != "" && !seen[e] {
			seen[e] = true
			merged = append(merged, e)
		}
	}
	return merged
}

// IDFWeight computes the IDF-based weight for an entity edge: 0 when the
// entity is in every document or the corpus has at most one document,
// 1.0 when the entity has never been seen before, otherwise
// max(ln(total/doc_freq)/ln(total), 0.1).
func IDFWeight(docFreq, totalDocs int) float64 {
	if totalDocs <= 1 || docFreq >= totalDocs {
		return 0.0
	}
	if docFreq <= 0 {
		return 1.0
	}
	raw := math.Log(float64(totalDocs)/float64(docFreq)) / math.Log(float64(totalDocs))
	return math.Max(raw, 0.1)
}
