package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dreamnft/dreamnft-server/internal/domain"
	"github.com/dreamnft/dreamnft-server/internal/rarity"
	"github.com/dreamnft/dreamnft-server/internal/store"
)

// dreamColumns is the ordered list of columns selected in dream queries.
// Must match the scan order in scanDream.
const dreamColumns = `id, user_id, title, text, interpretation, fingerprint, pattern_version,
	user_tags, user_tag_limit, ai_tags, ai_tag_limit, authenticity, emotions, themes,
	rarity, rarity_tier, mint_points, mint_tier, likes, comment_count,
	has_audio, has_image, is_public, created_at, updated_at`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// scanDream scans a sql.Row (or sql.Rows via its Scan method) into a domain.Dream.
func scanDream(scanner interface{ Scan(dest ...any) error }) (*domain.Dream, error) {
	var (
		d                                          domain.Dream
		userTags, aiTags, auth, emotions, themes   string
		userTagLimit, aiTagLimit                   int
		rarityTier, mintTier, createdAt, updatedAt string
		hasAudio, hasImage, isPublic               int
	)

	err := scanner.Scan(
		&d.ID, &d.UserID, &d.Title, &d.Text, &d.Interpretation, &d.Fingerprint, &d.PatternVersion,
		&userTags, &userTagLimit, &aiTags, &aiTagLimit, &auth, &emotions, &themes,
		&d.Rarity, &rarityTier, &d.MintPoints, &mintTier, &d.Likes, &d.CommentCount,
		&hasAudio, &hasImage, &isPublic, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	d.HasAudio = hasAudio != 0
	d.HasImage = hasImage != 0
	d.IsPublic = isPublic != 0

	d.UserTags = domain.NewTagSet(userTagLimit)
	d.AITags = domain.NewTagSet(aiTagLimit)
	for _, col := range []struct {
		name string
		raw  string
		dst  any
	}{
		{"user_tags", userTags, &d.UserTags},
		{"ai_tags", aiTags, &d.AITags},
		{"authenticity", auth, &d.Authenticity},
		{"emotions", emotions, &d.Emotions},
		{"themes", themes, &d.Themes},
	} {
		if err := json.Unmarshal([]byte(col.raw), col.dst); err != nil {
			return nil, fmt.Errorf("decode %s: %w", col.name, err)
		}
	}

	if d.RarityTier, err = rarity.ParseTier(rarityTier); err != nil {
		return nil, err
	}
	if d.MintTier, err = rarity.ParseTier(mintTier); err != nil {
		return nil, err
	}
	if d.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if d.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &d, nil
}

// dreamArgs returns the column values of d in dreamColumns order.
func dreamArgs(d *domain.Dream) ([]any, error) {
	encoded := make([]string, 0, 5)
	for _, v := range []any{d.UserTags, d.AITags, d.Authenticity, d.Emotions, d.Themes} {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		encoded = append(encoded, string(b))
	}
	emotions := encoded[3]
	if d.Emotions == nil {
		emotions = "[]"
	}
	themes := encoded[4]
	if d.Themes == nil {
		themes = "[]"
	}

	return []any{
		d.ID, d.UserID, d.Title, d.Text, d.Interpretation, d.Fingerprint, d.PatternVersion,
		encoded[0], d.UserTags.Limit(), encoded[1], d.AITags.Limit(), encoded[2], emotions, themes,
		d.Rarity, d.RarityTier.String(), d.MintPoints, d.MintTier.String(), d.Likes, d.CommentCount,
		boolInt(d.HasAudio), boolInt(d.HasImage), boolInt(d.IsPublic),
		formatTime(d.CreatedAt), formatTime(d.UpdatedAt),
	}, nil
}

// CreateDream inserts a new dream.
// Returns store.ErrAlreadyExists on a duplicate ID or a duplicate
// (user, fingerprint) pair.
func (s *Store) CreateDream(ctx context.Context, d *domain.Dream) error {
	args, err := dreamArgs(d)
	if err != nil {
		return fmt.Errorf("encode dream: %w", err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(args)), ", ")
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO dreams (`+dreamColumns+`) VALUES (`+placeholders+`)`, args...)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists.WithMessage("dream already exists")
	}
	return err
}

// GetDream retrieves a dream by ID.
// Returns store.ErrNotFound if the dream does not exist.
func (s *Store) GetDream(ctx context.Context, id string) (*domain.Dream, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+dreamColumns+` FROM dreams WHERE id = ?`, id)
	return getOne(row)
}

// GetDreamByFingerprint retrieves a user's dream by content fingerprint.
// Returns store.ErrNotFound if none matches.
func (s *Store) GetDreamByFingerprint(ctx context.Context, userID, fingerprint string) (*domain.Dream, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+dreamColumns+` FROM dreams WHERE user_id = ? AND fingerprint = ?`, userID, fingerprint)
	return getOne(row)
}

func getOne(row *sql.Row) (*domain.Dream, error) {
	d, err := scanDream(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessage("dream not found")
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

// UpdateDream overwrites every mutable column of an existing dream.
// Returns store.ErrNotFound if the dream does not exist.
func (s *Store) UpdateDream(ctx context.Context, d *domain.Dream) error {
	return updateDream(ctx, s.db, d)
}

func updateDream(ctx context.Context, db execer, d *domain.Dream) error {
	args, err := dreamArgs(d)
	if err != nil {
		return fmt.Errorf("encode dream: %w", err)
	}

	// Skip id and created_at; append id for the WHERE clause.
	cols := strings.Split(dreamColumns, ",")
	sets := make([]string, 0, len(cols))
	values := make([]any, 0, len(cols))
	for i, col := range cols {
		col = strings.TrimSpace(col)
		if col == "id" || col == "created_at" {
			continue
		}
		sets = append(sets, col+" = ?")
		values = append(values, args[i])
	}
	values = append(values, d.ID)

	res, err := db.ExecContext(ctx,
		`UPDATE dreams SET `+strings.Join(sets, ", ")+` WHERE id = ?`, values...)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists.WithMessage("an identical dream already exists")
	}
	if err != nil {
		return err
	}
	return requireAffected(res, "dream not found")
}

// DeleteDream removes a dream along with its likes and comments.
// Returns store.ErrNotFound if the dream does not exist.
func (s *Store) DeleteDream(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM dreams WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res, "dream not found")
}

// CountDreams returns the number of stored dreams.
func (s *Store) CountDreams(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM dreams`).Scan(&n)
	return n, err
}

// ListDreams returns one page of dreams, newest first or rarest first,
// using keyset pagination.
func (s *Store) ListDreams(ctx context.Context, params store.ListDreamsParams) (*store.PaginatedResult[*domain.Dream], error) {
	params.Validate()

	sortCol := "created_at"
	if params.Sort == store.SortRarity {
		sortCol = "rarity"
	} else if params.Sort != "" && params.Sort != store.SortRecent {
		return nil, store.ErrInvalidInput.WithMessage(fmt.Sprintf("unknown sort %q", params.Sort))
	}

	var (
		where []string
		args  []any
	)
	if params.UserID != "" {
		where = append(where, "user_id = ?")
		args = append(args, params.UserID)
	}
	if params.PublicOnly {
		where = append(where, "is_public = 1")
	}
	if params.MinRarity > 0 {
		where = append(where, "rarity >= ?")
		args = append(args, params.MinRarity)
	}

	key, lastID, err := store.DecodeCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if lastID != "" {
		var keyArg any = key
		if sortCol == "rarity" {
			n, err := strconv.Atoi(key)
			if err != nil {
				return nil, store.ErrInvalidInput.WithMessage("invalid cursor").WithCause(err)
			}
			keyArg = n
		}
		where = append(where, fmt.Sprintf("(%[1]s < ? OR (%[1]s = ? AND id < ?))", sortCol))
		args = append(args, keyArg, keyArg, lastID)
	}

	query := `SELECT ` + dreamColumns + ` FROM dreams`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += fmt.Sprintf(` ORDER BY %s DESC, id DESC LIMIT ?`, sortCol)
	args = append(args, params.Limit+1)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dreams := []*domain.Dream{}
	for rows.Next() {
		d, err := scanDream(rows)
		if err != nil {
			return nil, err
		}
		dreams = append(dreams, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := &store.PaginatedResult[*domain.Dream]{Items: dreams}
	if len(dreams) > params.Limit {
		result.Items = dreams[:params.Limit]
		result.HasMore = true
		last := result.Items[len(result.Items)-1]
		sortKey := formatTime(last.CreatedAt)
		if sortCol == "rarity" {
			sortKey = strconv.Itoa(last.Rarity)
		}
		result.NextCursor = store.EncodeCursor(sortKey, last.ID)
	}
	return result, nil
}

func requireAffected(res sql.Result, msg string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound.WithMessage(msg)
	}
	return nil
}
