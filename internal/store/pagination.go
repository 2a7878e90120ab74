package store

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// PaginationParams contains pagination request parameters.
type PaginationParams struct {
	Limit  int    // Items per page (defaults to 20, maximum 100)
	Cursor string // Opaque cursor for the next page (empty for the first page)
}

// PaginatedResult contains paginated data and metadata.
type PaginatedResult[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"next_cursor,omitempty"` // Empty if no more pages
	HasMore    bool   `json:"has_more"`
}

// Page size bounds.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// DefaultPaginationParams returns the first page at the default size.
func DefaultPaginationParams() PaginationParams {
	return PaginationParams{Limit: DefaultPageSize}
}

// Validate clamps the limit into range.
func (p *PaginationParams) Validate() {
	if p.Limit <= 0 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
}

// cursorSep cannot appear in an RFC 3339 timestamp, an integer, or a NanoID.
const cursorSep = "|"

// EncodeCursor creates an opaque keyset cursor from the sort key and ID of the
// last item on a page.
func EncodeCursor(sortKey, id string) string {
	if id == "" {
		return ""
	}
	return base64.URLEncoding.EncodeToString([]byte(sortKey + cursorSep + id))
}

// DecodeCursor decodes a cursor back to its sort key and ID. An empty cursor
// decodes to empty strings.
func DecodeCursor(cursor string) (sortKey, id string, err error) {
	if cursor == "" {
		return "", "", nil
	}

	decoded, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return "", "", ErrInvalidInput.WithMessage("invalid cursor").WithCause(err)
	}

	sortKey, id, ok := strings.Cut(string(decoded), cursorSep)
	if !ok || id == "" {
		return "", "", ErrInvalidInput.WithMessage("invalid cursor").WithCause(fmt.Errorf("malformed cursor %q", decoded))
	}
	return sortKey, id, nil
}
