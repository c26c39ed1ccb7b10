package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// maxMatches caps how many agent IDs a query resolves. The listing layer
// applies its own pagination after SQL filtering, so this only bounds the
// candidate set.
const maxMatches = 500

// MatchAgents resolves a free-text query to the IDs of matching agents,
// best match first. An empty query returns an empty slice.
func (s *SearchIndex) MatchAgents(ctx context.Context, q string) ([]int64, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []int64{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	searchRequest := bleve.NewSearchRequestOptions(buildAgentQuery(q), maxMatches, 0, false)

	searchResult, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	ids := make([]int64, 0, len(searchResult.Hits))
	for _, hit := range searchResult.Hits {
		id, err := AgentID(hit.ID)
		if err != nil {
			// A non-numeric document ID means index corruption; skip it.
			s.logger.Warn("skipping malformed search hit", "doc_id", hit.ID)
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// buildAgentQuery constructs the Bleve query for a user's search text.
// Name matches are boosted over descriptions and tags, with a fuzzy
// fallback for typo tolerance.
func buildAgentQuery(q string) query.Query {
	var queries []query.Query

	nameMatch := bleve.NewMatchQuery(q)
	nameMatch.SetField("name")
	nameMatch.SetBoost(3.0)
	queries = append(queries, nameMatch)

	descMatch := bleve.NewMatchQuery(q)
	descMatch.SetField("description")
	queries = append(queries, descMatch)

	longDescMatch := bleve.NewMatchQuery(q)
	longDescMatch.SetField("long_description")
	longDescMatch.SetBoost(0.5)
	queries = append(queries, longDescMatch)

	authorMatch := bleve.NewMatchQuery(q)
	authorMatch.SetField("author")
	authorMatch.SetBoost(1.5)
	queries = append(queries, authorMatch)

	tagMatch := bleve.NewMatchQuery(q)
	tagMatch.SetField("tags")
	tagMatch.SetBoost(2.0)
	queries = append(queries, tagMatch)

	// Fuzzy matching for typo tolerance on name.
	fuzzyQuery := bleve.NewFuzzyQuery(q)
	fuzzyQuery.SetFuzziness(1)
	fuzzyQuery.SetField("name")
	fuzzyQuery.SetBoost(0.8)
	queries = append(queries, fuzzyQuery)

	// Prefix query for partial words (minimum 2 chars).
	if len(q) >= 2 {
		prefixQuery := bleve.NewPrefixQuery(strings.ToLower(q))
		prefixQuery.SetField("name")
		prefixQuery.SetBoost(0.5)
		queries = append(queries, prefixQuery)
	}

	return bleve.NewDisjunctionQuery(queries...)
}
