package opensearch

import (
	"encoding/json"
	"sort"
)

// timestampField orders every log query. Fluent Bit stamps it on each
// document it forwards.
const timestampField = "@timestamp"

// matcherKind tags the two query shapes a Matcher can take.
type matcherKind int

const (
	matchNone matcherKind = iota
	matchSingle
	matchMulti
)

// Matcher selects the documents a log query returns. Exactly one shape is
// valid: a single field matched against the fetched id (MatchField), or a
// conjunction of field-to-value pairs (MatchAll). The zero Matcher is
// invalid and rejected by FetchLogs before any request is sent.
type Matcher struct {
	kind  matcherKind
	field string
	pairs map[string]string
}

// MatchField returns a Matcher matching field against the id passed to
// FetchLogs.
func MatchField(field string) Matcher {
	return Matcher{kind: matchSingle, field: field}
}

// MatchAll returns a Matcher requiring every field-to-value pair to match.
func MatchAll(pairs map[string]string) Matcher {
	return Matcher{kind: matchMulti, pairs: pairs}
}

// valid reports whether the matcher describes a usable query shape.
func (m Matcher) valid() bool {
	switch m.kind {
	case matchSingle:
		return m.field != ""
	case matchMulti:
		return len(m.pairs) > 0
	default:
		return false
	}
}

// searchBody builds the query document sent to the engine: the match
// clause(s) from the matcher plus a timestamp sort in the given order.
// Multi-field clauses are emitted in sorted field order so identical
// matchers always produce identical bodies.
func searchBody(id string, m Matcher, order string) ([]byte, error) {
	var query interface{}
	switch m.kind {
	case matchSingle:
		query = map[string]interface{}{
			"match": map[string]string{m.field: id},
		}
	case matchMulti:
		fields := make([]string, 0, len(m.pairs))
		for field := range m.pairs {
			fields = append(fields, field)
		}
		sort.Strings(fields)

		must := make([]interface{}, 0, len(fields))
		for _, field := range fields {
			must = append(must, map[string]interface{}{
				"match": map[string]string{field: m.pairs[field]},
			})
		}
		query = map[string]interface{}{
			"bool": map[string]interface{}{"must": must},
		}
	}

	return json.Marshal(map[string]interface{}{
		"query": query,
		"sort": []interface{}{
			map[string]interface{}{
				timestampField: map[string]string{"order": order},
			},
		},
	})
}

// searchHit is the slice of an engine hit the fetcher reads.
type searchHit struct {
	Source map[string]interface{} `json:"_source"`
}

// searchResponse is the slice of the engine's search reply the fetcher
// reads.
type searchResponse struct {
	Hits struct {
		Hits []searchHit `json:"hits"`
	} `json:"hits"`
}
