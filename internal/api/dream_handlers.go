package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/dreamnft/dreamnft-server/internal/collectible"
	"github.com/dreamnft/dreamnft-server/internal/domain"
	"github.com/dreamnft/dreamnft-server/internal/service"
)

func (s *Server) registerDreamRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "submitDream",
		Method:        http.MethodPost,
		Path:          "/api/v1/dreams",
		Summary:       "Submit a dream",
		Description:   "Evaluates, stores and indexes a dream. Short or duplicate narratives are rejected.",
		Tags:          []string{"Dreams"},
		DefaultStatus: http.StatusCreated,
		Middlewares:   s.rateLimited(),
	}, s.handleSubmitDream)

	huma.Register(s.api, huma.Operation{
		OperationID: "listDreams",
		Method:      http.MethodGet,
		Path:        "/api/v1/dreams",
		Summary:     "List dreams",
		Description: "Lists dreams newest first or by rarity, with cursor pagination",
		Tags:        []string{"Dreams"},
	}, s.handleListDreams)

	huma.Register(s.api, huma.Operation{
		OperationID: "getDream",
		Method:      http.MethodGet,
		Path:        "/api/v1/dreams/{id}",
		Summary:     "Get dream",
		Description: "Returns a dream with its scores",
		Tags:        []string{"Dreams"},
	}, s.handleGetDream)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateDreamText",
		Method:      http.MethodPatch,
		Path:        "/api/v1/dreams/{id}",
		Summary:     "Update dream text",
		Description: "Replaces the narrative and re-evaluates the dream",
		Tags:        []string{"Dreams"},
		Middlewares: s.rateLimited(),
	}, s.handleUpdateDream)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteDream",
		Method:        http.MethodDelete,
		Path:          "/api/v1/dreams/{id}",
		Summary:       "Delete dream",
		Description:   "Deletes a dream with its likes, comments, report and search entry",
		Tags:          []string{"Dreams"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteDream)

	huma.Register(s.api, huma.Operation{
		OperationID: "addDreamTag",
		Method:      http.MethodPost,
		Path:        "/api/v1/dreams/{id}/tags",
		Summary:     "Add user tag",
		Description: "Adds a normalized user tag. Adding an existing tag is a no-op.",
		Tags:        []string{"Dreams"},
	}, s.handleAddTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "getDreamReport",
		Method:      http.MethodGet,
		Path:        "/api/v1/dreams/{id}/report",
		Summary:     "Get validation report",
		Description: "Returns the archived authenticity validation report",
		Tags:        []string{"Dreams"},
	}, s.handleGetReport)

	huma.Register(s.api, huma.Operation{
		OperationID: "getDreamCollectible",
		Method:      http.MethodGet,
		Path:        "/api/v1/dreams/{id}/collectible",
		Summary:     "Get collectible metadata",
		Description: "Returns token metadata labelling the dream's tier, score, category, emotion and clarity",
		Tags:        []string{"Dreams"},
	}, s.handleGetCollectible)
}

// DreamIDInput identifies a dream by path.
type DreamIDInput struct {
	ID string `path:"id" maxLength:"64" doc:"Dream ID"`
}

// DreamOutput wraps a dream for Huma.
type DreamOutput struct {
	Body *domain.Dream
}

// SubmitDreamRequest is the body of a dream submission.
type SubmitDreamRequest struct {
	UserID   string   `json:"user_id" doc:"Submitting user"`
	Title    string   `json:"title,omitempty" doc:"Dream title"`
	Text     string   `json:"text" doc:"Dream narrative"`
	UserTags []string `json:"user_tags,omitempty" doc:"Tags supplied by the dreamer"`
	HasAudio bool     `json:"has_audio,omitempty" doc:"Dream has an audio recording"`
	HasImage bool     `json:"has_image,omitempty" doc:"Dream has an image"`
	IsPublic bool     `json:"is_public,omitempty" doc:"Visible in public listings and search"`
}

// SubmitDreamInput wraps the submission for Huma.
type SubmitDreamInput struct {
	Body SubmitDreamRequest
}

func (s *Server) handleSubmitDream(ctx context.Context, input *SubmitDreamInput) (*DreamOutput, error) {
	d, err := s.dreams.Submit(ctx, service.SubmitRequest{
		UserID:   input.Body.UserID,
		Title:    input.Body.Title,
		Text:     input.Body.Text,
		UserTags: input.Body.UserTags,
		HasAudio: input.Body.HasAudio,
		HasImage: input.Body.HasImage,
		IsPublic: input.Body.IsPublic,
	})
	if err != nil {
		return nil, err
	}
	return &DreamOutput{Body: d}, nil
}

// ListDreamsInput holds list filters and pagination.
type ListDreamsInput struct {
	UserID     string `query:"user_id" doc:"Only dreams of this user"`
	PublicOnly bool   `query:"public_only" doc:"Only public dreams"`
	MinRarity  int    `query:"min_rarity" doc:"Minimum rarity score"`
	Sort       string `query:"sort" enum:"recent,rarity" doc:"Ordering: recent (default) or rarity"`
	Limit      int    `query:"limit" doc:"Page size (default 20, max 100)"`
	Cursor     string `query:"cursor" doc:"Cursor from the previous page"`
}

// DreamListResponse is one page of dreams.
type DreamListResponse struct {
	Dreams     []*domain.Dream `json:"dreams"`
	NextCursor string          `json:"next_cursor,omitempty"`
	HasMore    bool            `json:"has_more"`
}

// ListDreamsOutput wraps a dream page for Huma.
type ListDreamsOutput struct {
	Body DreamListResponse
}

func (s *Server) handleListDreams(ctx context.Context, input *ListDreamsInput) (*ListDreamsOutput, error) {
	page, err := s.dreams.List(ctx, service.ListRequest{
		UserID:     input.UserID,
		PublicOnly: input.PublicOnly,
		MinRarity:  input.MinRarity,
		Sort:       input.Sort,
		Limit:      input.Limit,
		Cursor:     input.Cursor,
	})
	if err != nil {
		return nil, err
	}

	dreams := page.Items
	if dreams == nil {
		dreams = []*domain.Dream{}
	}
	return &ListDreamsOutput{Body: DreamListResponse{
		Dreams:     dreams,
		NextCursor: page.NextCursor,
		HasMore:    page.HasMore,
	}}, nil
}

func (s *Server) handleGetDream(ctx context.Context, input *DreamIDInput) (*DreamOutput, error) {
	d, err := s.dreams.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &DreamOutput{Body: d}, nil
}

// UpdateDreamInput replaces a dream's narrative.
type UpdateDreamInput struct {
	ID   string `path:"id" maxLength:"64" doc:"Dream ID"`
	Body struct {
		Text string `json:"text" doc:"New narrative"`
	}
}

func (s *Server) handleUpdateDream(ctx context.Context, input *UpdateDreamInput) (*DreamOutput, error) {
	d, err := s.dreams.UpdateText(ctx, input.ID, service.UpdateTextRequest{Text: input.Body.Text})
	if err != nil {
		return nil, err
	}
	return &DreamOutput{Body: d}, nil
}

func (s *Server) handleDeleteDream(ctx context.Context, input *DreamIDInput) (*struct{}, error) {
	if err := s.dreams.Delete(ctx, input.ID); err != nil {
		return nil, err
	}
	return nil, nil
}

// AddTagInput adds a user tag.
type AddTagInput struct {
	ID   string `path:"id" maxLength:"64" doc:"Dream ID"`
	Body struct {
		Tag string `json:"tag" minLength:"1" maxLength:"64" doc:"Tag to add"`
	}
}

// AddTagResponse reports whether the tag was new.
type AddTagResponse struct {
	Dream *domain.Dream `json:"dream"`
	Added bool          `json:"added"`
}

// AddTagOutput wraps the tag result for Huma.
type AddTagOutput struct {
	Body AddTagResponse
}

func (s *Server) handleAddTag(ctx context.Context, input *AddTagInput) (*AddTagOutput, error) {
	d, added, err := s.dreams.AddUserTag(ctx, input.ID, input.Body.Tag)
	if err != nil {
		return nil, err
	}
	return &AddTagOutput{Body: AddTagResponse{Dream: d, Added: added}}, nil
}

// ReportOutput wraps a validation report for Huma.
type ReportOutput struct {
	Body *domain.ValidationReport
}

func (s *Server) handleGetReport(ctx context.Context, input *DreamIDInput) (*ReportOutput, error) {
	report, err := s.dreams.Report(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &ReportOutput{Body: report}, nil
}

// CollectibleOutput wraps collectible metadata for Huma.
type CollectibleOutput struct {
	Body *collectible.Metadata
}

func (s *Server) handleGetCollectible(ctx context.Context, input *DreamIDInput) (*CollectibleOutput, error) {
	m, err := s.dreams.Collectible(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &CollectibleOutput{Body: m}, nil
}
