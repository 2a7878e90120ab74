package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/dreamnft/dreamnft-server/internal/domain"
	"github.com/dreamnft/dreamnft-server/internal/service"
)

func (s *Server) registerEngagementRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "likeDream",
		Method:      http.MethodPost,
		Path:        "/api/v1/dreams/{id}/likes",
		Summary:     "Like dream",
		Description: "Records a like and recomputes rarity. A user may like a dream once.",
		Tags:        []string{"Engagement"},
	}, s.handleLikeDream)

	huma.Register(s.api, huma.Operation{
		OperationID: "unlikeDream",
		Method:      http.MethodDelete,
		Path:        "/api/v1/dreams/{id}/likes",
		Summary:     "Unlike dream",
		Description: "Removes a like and recomputes rarity",
		Tags:        []string{"Engagement"},
	}, s.handleUnlikeDream)

	huma.Register(s.api, huma.Operation{
		OperationID:   "commentOnDream",
		Method:        http.MethodPost,
		Path:          "/api/v1/dreams/{id}/comments",
		Summary:       "Comment on dream",
		Description:   "Adds a comment and recomputes rarity",
		Tags:          []string{"Engagement"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateComment)

	huma.Register(s.api, huma.Operation{
		OperationID: "listDreamComments",
		Method:      http.MethodGet,
		Path:        "/api/v1/dreams/{id}/comments",
		Summary:     "List comments",
		Description: "Lists a dream's comments, oldest first",
		Tags:        []string{"Engagement"},
	}, s.handleListComments)
}

// LikeInput records a like.
type LikeInput struct {
	ID   string `path:"id" maxLength:"64" doc:"Dream ID"`
	Body struct {
		UserID string `json:"user_id" minLength:"1" maxLength:"64" doc:"Liking user"`
	}
}

func (s *Server) handleLikeDream(ctx context.Context, input *LikeInput) (*DreamOutput, error) {
	d, err := s.dreams.Like(ctx, input.ID, input.Body.UserID)
	if err != nil {
		return nil, err
	}
	return &DreamOutput{Body: d}, nil
}

// UnlikeInput removes a like.
type UnlikeInput struct {
	ID     string `path:"id" maxLength:"64" doc:"Dream ID"`
	UserID string `query:"user_id" required:"true" minLength:"1" maxLength:"64" doc:"User whose like is removed"`
}

func (s *Server) handleUnlikeDream(ctx context.Context, input *UnlikeInput) (*DreamOutput, error) {
	d, err := s.dreams.Unlike(ctx, input.ID, input.UserID)
	if err != nil {
		return nil, err
	}
	return &DreamOutput{Body: d}, nil
}

// CreateCommentInput adds a comment.
type CreateCommentInput struct {
	ID   string `path:"id" maxLength:"64" doc:"Dream ID"`
	Body struct {
		UserID string `json:"user_id" doc:"Commenting user"`
		Text   string `json:"text" doc:"Comment text"`
	}
}

// CommentResponse is a new comment and the dream it updated.
type CommentResponse struct {
	Comment *domain.Comment `json:"comment"`
	Dream   *domain.Dream   `json:"dream"`
}

// CommentOutput wraps a comment result for Huma.
type CommentOutput struct {
	Body CommentResponse
}

func (s *Server) handleCreateComment(ctx context.Context, input *CreateCommentInput) (*CommentOutput, error) {
	c, d, err := s.dreams.AddComment(ctx, input.ID, service.CommentRequest{
		UserID: input.Body.UserID,
		Text:   input.Body.Text,
	})
	if err != nil {
		return nil, err
	}
	return &CommentOutput{Body: CommentResponse{Comment: c, Dream: d}}, nil
}

// CommentListOutput wraps a dream's comments for Huma.
type CommentListOutput struct {
	Body struct {
		Comments []*domain.Comment `json:"comments"`
	}
}

func (s *Server) handleListComments(ctx context.Context, input *DreamIDInput) (*CommentListOutput, error) {
	comments, err := s.dreams.Comments(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	out := &CommentListOutput{}
	out.Body.Comments = comments
	return out, nil
}
