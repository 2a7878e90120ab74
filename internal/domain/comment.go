package domain

import "time"

// Comment is a reader comment on a dream.
type Comment struct {
	CreatedAt time.Time `json:"created_at"`
	ID        string    `json:"id"`
	DreamID   string    `json:"dream_id"`
	UserID    string    `json:"user_id"`
	Text      string    `json:"text"`
}

// Like records that a user liked a dream.
type Like struct {
	CreatedAt time.Time `json:"created_at"`
	DreamID   string    `json:"dream_id"`
	UserID    string    `json:"user_id"`
}
