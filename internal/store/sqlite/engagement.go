package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dreamnft/dreamnft-server/internal/domain"
	"github.com/dreamnft/dreamnft-server/internal/store"
)

// AddLike records a like and persists d with its incremented counter.
// Returns store.ErrAlreadyExists if the user already liked the dream and
// store.ErrNotFound if the dream does not exist.
func (s *Store) AddLike(ctx context.Context, like *domain.Like, d *domain.Dream) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO dream_likes (dream_id, user_id, created_at)
			VALUES (?, ?, ?)`,
			like.DreamID, like.UserID, formatTime(like.CreatedAt),
		)
		switch {
		case isUniqueViolation(err):
			return store.ErrAlreadyExists.WithMessage("dream already liked")
		case isForeignKeyViolation(err):
			return store.ErrNotFound.WithMessage("dream not found")
		case err != nil:
			return err
		}
		return updateDream(ctx, tx, d)
	})
}

// RemoveLike deletes a user's like and persists d with its decremented counter.
// Returns store.ErrNotFound if there was no like.
func (s *Store) RemoveLike(ctx context.Context, userID string, d *domain.Dream) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`DELETE FROM dream_likes WHERE dream_id = ? AND user_id = ?`, d.ID, userID)
		if err != nil {
			return err
		}
		if err := requireAffected(res, "like not found"); err != nil {
			return err
		}
		return updateDream(ctx, tx, d)
	})
}

// HasLiked reports whether the user has liked the dream.
func (s *Store) HasLiked(ctx context.Context, dreamID, userID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM dream_likes WHERE dream_id = ? AND user_id = ?`, dreamID, userID).Scan(&n)
	return n > 0, err
}

// CreateComment inserts a comment and persists d with its incremented counter.
// Returns store.ErrNotFound if the dream does not exist.
func (s *Store) CreateComment(ctx context.Context, c *domain.Comment, d *domain.Dream) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO dream_comments (id, dream_id, user_id, text, created_at)
			VALUES (?, ?, ?, ?, ?)`,
			c.ID, c.DreamID, c.UserID, c.Text, formatTime(c.CreatedAt),
		)
		switch {
		case isForeignKeyViolation(err):
			return store.ErrNotFound.WithMessage("dream not found")
		case isUniqueViolation(err):
			return store.ErrAlreadyExists.WithMessage("comment already exists")
		case err != nil:
			return err
		}
		return updateDream(ctx, tx, d)
	})
}

// ListComments returns a dream's comments, oldest first.
func (s *Store) ListComments(ctx context.Context, dreamID string) ([]*domain.Comment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, dream_id, user_id, text, created_at
		FROM dream_comments WHERE dream_id = ?
		ORDER BY created_at ASC, id ASC`, dreamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []*domain.Comment{}
	for rows.Next() {
		var (
			c         domain.Comment
			createdAt string
		)
		if err := rows.Scan(&c.ID, &c.DreamID, &c.UserID, &c.Text, &createdAt); err != nil {
			return nil, err
		}
		if c.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		comments = append(comments, &c)
	}
	return comments, rows.Err()
}

// withTx runs fn in a transaction, committing on success.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
