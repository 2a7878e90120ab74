package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/dreamnft/dreamnft-server/internal/search"
	"github.com/dreamnft/dreamnft-server/internal/service"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchDreams",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search dreams",
		Description: "Full-text dream search with tag, theme, tier and rarity filters and facet counts",
		Tags:        []string{"Search"},
	}, s.handleSearch)
}

// SearchInput holds search query parameters. List parameters are comma separated.
type SearchInput struct {
	Query      string   `query:"q" maxLength:"500" doc:"Search text"`
	Tags       []string `query:"tags" doc:"Require any of these tags"`
	Themes     []string `query:"themes" doc:"Require any of these themes"`
	Tiers      []string `query:"tiers" doc:"Require any of these rarity tiers"`
	UserID     string   `query:"user_id" doc:"Only dreams of this user"`
	MinRarity  int      `query:"min_rarity" doc:"Minimum rarity score"`
	PublicOnly bool     `query:"public_only" doc:"Only public dreams"`
	Sort       string   `query:"sort" doc:"relevance (default), rarity, recent or likes"`
	Limit      int      `query:"limit" doc:"Page size (default 20, max 100)"`
	Offset     int      `query:"offset" doc:"Results to skip"`
}

// SearchOutput wraps search results for Huma.
type SearchOutput struct {
	Body *search.SearchResult
}

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	result, err := s.dreams.Search(ctx, service.SearchRequest{
		Query:      input.Query,
		Tags:       input.Tags,
		Themes:     input.Themes,
		Tiers:      input.Tiers,
		UserID:     input.UserID,
		MinRarity:  input.MinRarity,
		PublicOnly: input.PublicOnly,
		Sort:       input.Sort,
		Limit:      input.Limit,
		Offset:     input.Offset,
	})
	if err != nil {
		return nil, err
	}
	return &SearchOutput{Body: result}, nil
}
