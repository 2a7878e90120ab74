package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/dreamnft/dreamnft-server/internal/util"
)

// Sort orders.
const (
	SortRelevance = "relevance"
	SortRarity    = "rarity"
	SortRecent    = "recent"
	SortLikes     = "likes"
)

// Facet fields.
const (
	FacetTags    = "tags"
	FacetThemes  = "themes"
	FacetTier    = "tier"
	FacetEmotion = "emotion"
)

const facetSize = 20

// SearchParams configures a dream search.
type SearchParams struct {
	Query string // Free text matched against title and narrative

	// Filters. Values within one filter are ORed; filters are ANDed.
	Tags       []string
	Themes     []string
	Tiers      []string
	UserID     string
	MinRarity  int
	PublicOnly bool

	Limit  int
	Offset int
	SortBy string

	IncludeFacets bool
	Highlight     bool
}

// DefaultSearchParams returns the first page by relevance with facets.
func DefaultSearchParams() SearchParams {
	return SearchParams{
		Limit:         20,
		SortBy:        SortRelevance,
		IncludeFacets: true,
		Highlight:     true,
	}
}

// SearchResult is one page of matches.
type SearchResult struct {
	Query  string       `json:"query"`
	Total  uint64       `json:"total"`
	TookMs int64        `json:"took_ms"`
	Hits   []SearchHit  `json:"hits"`
	Facets SearchFacets `json:"facets"`
}

// SearchHit is a matched dream.
type SearchHit struct {
	ID         string            `json:"id"`
	Score      float64           `json:"score"`
	Title      string            `json:"title"`
	UserID     string            `json:"user_id"`
	Tier       string            `json:"tier"`
	Rarity     int               `json:"rarity"`
	Tags       []string          `json:"tags,omitempty"`
	Themes     []string          `json:"themes,omitempty"`
	Highlights map[string]string `json:"highlights,omitempty"`
}

// SearchFacets holds value counts for the matched set.
type SearchFacets struct {
	Tags     []FacetCount `json:"tags,omitempty"`
	Themes   []FacetCount `json:"themes,omitempty"`
	Tiers    []FacetCount `json:"tiers,omitempty"`
	Emotions []FacetCount `json:"emotions,omitempty"`
}

// FacetCount is a facet value and its count.
type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Search executes a query.
func (s *SearchIndex) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	if params.Limit <= 0 {
		params.Limit = DefaultSearchParams().Limit
	}

	req := bleve.NewSearchRequestOptions(buildSearchQuery(params), params.Limit, params.Offset, false)
	if err := addSorting(req, params.SortBy); err != nil {
		return nil, err
	}
	if params.IncludeFacets {
		for _, field := range []string{FacetTags, FacetThemes, FacetTier, FacetEmotion} {
			req.AddFacet(field, bleve.NewFacetRequest(field, facetSize))
		}
	}
	if params.Highlight && params.Query != "" {
		req.Highlight = bleve.NewHighlight()
		req.Highlight.AddField("title")
		req.Highlight.AddField("text")
	}
	req.Fields = []string{"title", "user_id", "tier", "rarity", "tags", "themes"}

	s.mu.RLock()
	res, err := s.index.SearchInContext(ctx, req)
	s.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &SearchResult{
		Query:  params.Query,
		Total:  res.Total,
		TookMs: res.Took.Milliseconds(),
		Hits:   make([]SearchHit, 0, len(res.Hits)),
	}
	for _, hit := range res.Hits {
		h := SearchHit{
			ID:     hit.ID,
			Score:  hit.Score,
			Tags:   stringsField(hit.Fields["tags"]),
			Themes: stringsField(hit.Fields["themes"]),
		}
		h.Title, _ = hit.Fields["title"].(string)
		h.UserID, _ = hit.Fields["user_id"].(string)
		h.Tier, _ = hit.Fields["tier"].(string)
		if r, ok := hit.Fields["rarity"].(float64); ok {
			h.Rarity = int(r)
		}
		if len(hit.Fragments) > 0 {
			h.Highlights = make(map[string]string, len(hit.Fragments))
			for field, fragments := range hit.Fragments {
				if len(fragments) > 0 {
					h.Highlights[field] = fragments[0]
				}
			}
		}
		result.Hits = append(result.Hits, h)
	}

	if params.IncludeFacets {
		result.Facets = SearchFacets{
			Tags:     facetCounts(res, FacetTags),
			Themes:   facetCounts(res, FacetThemes),
			Tiers:    facetCounts(res, FacetTier),
			Emotions: facetCounts(res, FacetEmotion),
		}
	}
	return result, nil
}

// buildSearchQuery ANDs the text query with every filter present.
func buildSearchQuery(params SearchParams) query.Query {
	var queries []query.Query

	if q := strings.TrimSpace(params.Query); q != "" {
		title := bleve.NewMatchQuery(q)
		title.SetField("title")
		title.SetBoost(2.0)

		text := bleve.NewMatchQuery(q)
		text.SetField("text")

		fuzzy := bleve.NewFuzzyQuery(strings.ToLower(q))
		fuzzy.SetField("text")
		fuzzy.SetFuzziness(1)
		fuzzy.SetBoost(0.5)

		queries = append(queries, bleve.NewDisjunctionQuery(title, text, fuzzy))
	}

	tags := make([]string, 0, len(params.Tags))
	for _, t := range params.Tags {
		if slug := util.NormalizeTagSlug(t); slug != "" {
			tags = append(tags, slug)
		}
	}
	if q := anyTerm("tags", tags); q != nil {
		queries = append(queries, q)
	}
	if q := anyTerm("themes", params.Themes); q != nil {
		queries = append(queries, q)
	}
	if q := anyTerm("tier", params.Tiers); q != nil {
		queries = append(queries, q)
	}
	if params.UserID != "" {
		queries = append(queries, anyTerm("user_id", []string{params.UserID}))
	}
	if params.MinRarity > 0 {
		lo := float64(params.MinRarity)
		inclusive := true
		rq := bleve.NewNumericRangeInclusiveQuery(&lo, nil, &inclusive, nil)
		rq.SetField("rarity")
		queries = append(queries, rq)
	}
	if params.PublicOnly {
		bq := bleve.NewBoolFieldQuery(true)
		bq.SetField("is_public")
		queries = append(queries, bq)
	}

	switch len(queries) {
	case 0:
		return bleve.NewMatchAllQuery()
	case 1:
		return queries[0]
	default:
		return bleve.NewConjunctionQuery(queries...)
	}
}

// anyTerm matches documents whose field equals any of values.
func anyTerm(field string, values []string) query.Query {
	if len(values) == 0 {
		return nil
	}
	terms := make([]query.Query, len(values))
	for i, v := range values {
		tq := bleve.NewTermQuery(v)
		tq.SetField(field)
		terms[i] = tq
	}
	if len(terms) == 1 {
		return terms[0]
	}
	return bleve.NewDisjunctionQuery(terms...)
}

func addSorting(req *bleve.SearchRequest, sortBy string) error {
	switch sortBy {
	case "", SortRelevance:
		req.SortBy([]string{"-_score", "_id"})
	case SortRarity:
		req.SortBy([]string{"-rarity", "_id"})
	case SortRecent:
		req.SortBy([]string{"-created_at", "_id"})
	case SortLikes:
		req.SortBy([]string{"-likes", "_id"})
	default:
		return fmt.Errorf("unknown sort %q", sortBy)
	}
	return nil
}

func facetCounts(res *bleve.SearchResult, field string) []FacetCount {
	facet, ok := res.Facets[field]
	if !ok || facet.Terms == nil {
		return nil
	}
	var counts []FacetCount
	for _, term := range facet.Terms.Terms() {
		counts = append(counts, FacetCount{Value: term.Term, Count: term.Count})
	}
	return counts
}

// stringsField normalizes a stored field that Bleve returns as a string for
// one value and a slice for several.
func stringsField(v any) []string {
	switch v := v.(type) {
	case string:
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
