package protocol

import (
	"fmt"
	"sort"
	"strings"
)

// Match pairs a catalog entry with its relevance score for one query.
type Match struct {
	Entry Entry   `json:"entry"`
	Score float64 `json:"score"`
}

// fallbackScore is the relevance assigned to the default entry when no
// catalog entry matched the input at all.
const fallbackScore = 0.5

// Matcher ranks catalog entries against free-text input by keyword
// occurrence. It is a pure function of the catalog and the input.
type Matcher struct {
	catalog []Entry
}

func NewMatcher(catalog []Entry) *Matcher {
	return &Matcher{catalog: catalog}
}

// Match scores every catalog entry against freeText and returns up to
// limit results ordered by score descending. Ties keep catalog
// declaration order. When nothing matches, the default entry is returned
// at a fixed score so the result list is never empty.
func (m *Matcher) Match(freeText string, limit int) ([]Match, error) {
	if limit < 1 {
		return nil, fmt.Errorf("limit must be >= 1, got %d", limit)
	}

	input := strings.ToLower(freeText)
	var results []Match

	for _, entry := range m.catalog {
		hits := 0
		for _, keyword := range entry.Keywords {
			if strings.Contains(input, keyword) {
				hits++
			}
		}
		if hits == 0 {
			continue
		}
		score := float64(hits) / float64(len(entry.Keywords))
		if score > 1.0 {
			score = 1.0
		}
		results = append(results, Match{Entry: entry, Score: score})
	}

	// Stable keeps catalog order for equal scores.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) == 0 {
		if def, ok := m.defaultEntry(); ok {
			results = append(results, Match{Entry: def, Score: fallbackScore})
		}
	}

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (m *Matcher) defaultEntry() (Entry, bool) {
	for _, entry := range m.catalog {
		if entry.Default {
			return entry, true
		}
	}
	return Entry{}, false
}

// Catalog exposes the immutable entry list, e.g. for the listing endpoint.
func (m *Matcher) Catalog() []Entry {
	return m.catalog
}
