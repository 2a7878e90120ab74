// Package store defines the persistence interface for dream records.
package store

import (
	"context"

	"github.com/dreamnft/dreamnft-server/internal/domain"
)

// Dream list orderings.
const (
	SortRecent = "recent"
	SortRarity = "rarity"
)

// ListDreamsParams filters and pages a dream listing.
type ListDreamsParams struct {
	UserID     string // empty lists every user
	PublicOnly bool
	MinRarity  int
	Sort       string // SortRecent (default) or SortRarity
	PaginationParams
}

// Store defines the persistence operations for dreams and their engagement.
type Store interface {
	Close() error

	// Dreams
	CreateDream(ctx context.Context, d *domain.Dream) error
	GetDream(ctx context.Context, id string) (*domain.Dream, error)
	GetDreamByFingerprint(ctx context.Context, userID, fingerprint string) (*domain.Dream, error)
	UpdateDream(ctx context.Context, d *domain.Dream) error
	DeleteDream(ctx context.Context, id string) error
	ListDreams(ctx context.Context, params ListDreamsParams) (*PaginatedResult[*domain.Dream], error)
	CountDreams(ctx context.Context) (int, error)

	// Engagement. Each write persists the engagement row together with the
	// dream carrying its updated counters, in one transaction.
	AddLike(ctx context.Context, like *domain.Like, d *domain.Dream) error
	RemoveLike(ctx context.Context, userID string, d *domain.Dream) error
	HasLiked(ctx context.Context, dreamID, userID string) (bool, error)
	CreateComment(ctx context.Context, c *domain.Comment, d *domain.Dream) error
	ListComments(ctx context.Context, dreamID string) ([]*domain.Comment, error)
}
