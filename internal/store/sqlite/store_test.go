package sqlite

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dreamnft/dreamnft-server/internal/domain"
	"github.com/dreamnft/dreamnft-server/internal/id"
	"github.com/dreamnft/dreamnft-server/internal/pattern"
	"github.com/dreamnft/dreamnft-server/internal/scoring"
	"github.com/dreamnft/dreamnft-server/internal/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

var testEngine = scoring.New(pattern.NewDefault(), scoring.DefaultOptions())

// makeTestDream builds a scored dream for user with the given narrative.
func makeTestDream(t *testing.T, userID, text string) *domain.Dream {
	t.Helper()
	d := domain.NewDream(id.MustGenerate(id.PrefixDream), userID, "title", text, false, false, domain.DefaultUserTagCap)
	eval, err := testEngine.Evaluate(context.Background(), scoring.Request{Text: text, Metadata: d.Metadata()})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	d.ApplyEvaluation(eval)
	return d
}

func TestOpen(t *testing.T) {
	s := newTestStore(t)

	var journalMode string
	if err := s.db.QueryRow("PRAGMA journal_mode").Scan(&journalMode); err != nil {
		t.Fatalf("query journal_mode: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("expected wal, got %s", journalMode)
	}

	var fk int
	if err := s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatalf("query foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Errorf("expected foreign_keys=1, got %d", fk)
	}

	for _, table := range []string{"dreams", "dream_likes", "dream_comments"} {
		var name string
		err := s.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s not found: %v", table, err)
		}
	}
}

func TestOpenClose(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	s, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	// Re-open should work (schema is idempotent).
	s2, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("re-open store: %v", err)
	}
	s2.Close()
}

func TestCreateAndGetDream(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	d := makeTestDream(t, "user-1", "I was flying over the ocean at night and then I was falling.")
	d.UserTags.Add("Lucid")
	d.IsPublic = true
	d.Recompute()

	if err := s.CreateDream(ctx, d); err != nil {
		t.Fatalf("create dream: %v", err)
	}

	got, err := s.GetDream(ctx, d.ID)
	if err != nil {
		t.Fatalf("get dream: %v", err)
	}

	if got.Text != d.Text || got.UserID != d.UserID || got.Fingerprint != d.Fingerprint {
		t.Errorf("identity fields differ: got %+v", got)
	}
	if got.Rarity != d.Rarity || got.RarityTier != d.RarityTier {
		t.Errorf("rarity = %d/%s, want %d/%s", got.Rarity, got.RarityTier, d.Rarity, d.RarityTier)
	}
	if got.MintTier != d.MintTier || got.MintPoints != d.MintPoints {
		t.Errorf("mint = %d/%s, want %d/%s", got.MintPoints, got.MintTier, d.MintPoints, d.MintTier)
	}
	if got.UserTags.Limit() != domain.DefaultUserTagCap || !got.UserTags.Contains("lucid") {
		t.Errorf("user tags = %v (limit %d)", got.UserTags.Values(), got.UserTags.Limit())
	}
	if fmt.Sprint(got.AITags.Values()) != fmt.Sprint(d.AITags.Values()) {
		t.Errorf("ai tags = %v, want %v", got.AITags.Values(), d.AITags.Values())
	}
	if len(got.Emotions) != 6 || len(got.Themes) == 0 {
		t.Errorf("emotions=%d themes=%d", len(got.Emotions), len(got.Themes))
	}
	if got.Authenticity.Score != d.Authenticity.Score {
		t.Errorf("authenticity = %v, want %v", got.Authenticity.Score, d.Authenticity.Score)
	}
	if !got.IsPublic {
		t.Error("expected public dream")
	}
	if !got.CreatedAt.Equal(d.CreatedAt.UTC().Truncate(time.Nanosecond)) {
		t.Errorf("created_at = %v, want %v", got.CreatedAt, d.CreatedAt)
	}
}

func TestCreateDream_DuplicateFingerprint(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	text := "I was walking through a forest that kept changing."
	if err := s.CreateDream(ctx, makeTestDream(t, "user-1", text)); err != nil {
		t.Fatalf("create dream: %v", err)
	}

	err := s.CreateDream(ctx, makeTestDream(t, "user-1", text))
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}

	// Another user may submit the same text.
	if err := s.CreateDream(ctx, makeTestDream(t, "user-2", text)); err != nil {
		t.Errorf("create for other user: %v", err)
	}

	d, err := s.GetDreamByFingerprint(ctx, "user-2", id.Fingerprint(text))
	if err != nil {
		t.Fatalf("get by fingerprint: %v", err)
	}
	if d.UserID != "user-2" {
		t.Errorf("user = %s", d.UserID)
	}
}

func TestGetDream_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetDream(context.Background(), "dream-missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateDream(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	d := makeTestDream(t, "user-1", "I was in my childhood house and the rooms kept shifting.")
	if err := s.CreateDream(ctx, d); err != nil {
		t.Fatalf("create dream: %v", err)
	}

	d.Title = "The shifting house"
	d.Interpretation = "Based on your dream..."
	d.AddUserTag("home")
	if err := s.UpdateDream(ctx, d); err != nil {
		t.Fatalf("update dream: %v", err)
	}

	got, err := s.GetDream(ctx, d.ID)
	if err != nil {
		t.Fatalf("get dream: %v", err)
	}
	if got.Title != "The shifting house" || got.Interpretation == "" {
		t.Errorf("update not persisted: %+v", got)
	}
	if got.Rarity != d.Rarity {
		t.Errorf("rarity = %d, want %d", got.Rarity, d.Rarity)
	}

	missing := makeTestDream(t, "user-1", "I was never stored anywhere at all.")
	if err := s.UpdateDream(ctx, missing); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteDream_CascadesEngagement(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	d := makeTestDream(t, "user-1", "I was being chased through a maze of mirrors.")
	if err := s.CreateDream(ctx, d); err != nil {
		t.Fatalf("create dream: %v", err)
	}
	d.AddLike()
	if err := s.AddLike(ctx, &domain.Like{DreamID: d.ID, UserID: "user-2", CreatedAt: time.Now()}, d); err != nil {
		t.Fatalf("add like: %v", err)
	}

	if err := s.DeleteDream(ctx, d.ID); err != nil {
		t.Fatalf("delete dream: %v", err)
	}
	if err := s.DeleteDream(ctx, d.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second delete: expected ErrNotFound, got %v", err)
	}

	liked, err := s.HasLiked(ctx, d.ID, "user-2")
	if err != nil {
		t.Fatalf("has liked: %v", err)
	}
	if liked {
		t.Error("like survived dream deletion")
	}
}

func TestLikes(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	d := makeTestDream(t, "user-1", "I was swimming with whales in a sky full of water.")
	if err := s.CreateDream(ctx, d); err != nil {
		t.Fatalf("create dream: %v", err)
	}

	d.AddLike()
	like := &domain.Like{DreamID: d.ID, UserID: "user-2", CreatedAt: time.Now()}
	if err := s.AddLike(ctx, like, d); err != nil {
		t.Fatalf("add like: %v", err)
	}
	if err := s.AddLike(ctx, like, d); !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("duplicate like: expected ErrAlreadyExists, got %v", err)
	}

	got, _ := s.GetDream(ctx, d.ID)
	if got.Likes != 1 {
		t.Errorf("likes = %d, want 1", got.Likes)
	}

	d.RemoveLike()
	if err := s.RemoveLike(ctx, "user-2", d); err != nil {
		t.Fatalf("remove like: %v", err)
	}
	if err := s.RemoveLike(ctx, "user-2", d); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second remove: expected ErrNotFound, got %v", err)
	}

	got, _ = s.GetDream(ctx, d.ID)
	if got.Likes != 0 {
		t.Errorf("likes = %d, want 0", got.Likes)
	}
}

func TestAddLike_UnknownDream(t *testing.T) {
	s := newTestStore(t)

	d := makeTestDream(t, "user-1", "I was standing in a room without doors.")
	err := s.AddLike(context.Background(), &domain.Like{DreamID: d.ID, UserID: "user-2", CreatedAt: time.Now()}, d)
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestComments(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	d := makeTestDream(t, "user-1", "I was late for an exam in a school I never attended.")
	if err := s.CreateDream(ctx, d); err != nil {
		t.Fatalf("create dream: %v", err)
	}

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, text := range []string{"first", "second"} {
		d.AddComment()
		c := &domain.Comment{
			ID:        id.MustGenerate(id.PrefixComment),
			DreamID:   d.ID,
			UserID:    "user-2",
			Text:      text,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := s.CreateComment(ctx, c, d); err != nil {
			t.Fatalf("create comment: %v", err)
		}
	}

	comments, err := s.ListComments(ctx, d.ID)
	if err != nil {
		t.Fatalf("list comments: %v", err)
	}
	if len(comments) != 2 || comments[0].Text != "first" || comments[1].Text != "second" {
		t.Errorf("comments = %+v", comments)
	}

	got, _ := s.GetDream(ctx, d.ID)
	if got.CommentCount != 2 {
		t.Errorf("comment_count = %d, want 2", got.CommentCount)
	}

	empty, err := s.ListComments(ctx, "dream-none")
	if err != nil || empty == nil || len(empty) != 0 {
		t.Errorf("expected empty non-nil slice, got %v, %v", empty, err)
	}
}

func TestListDreams_PaginatesByRecency(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var ids []string
	for i := range 5 {
		d := makeTestDream(t, "user-1", fmt.Sprintf("I was dreaming of door number %d.", i))
		d.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		if err := s.CreateDream(ctx, d); err != nil {
			t.Fatalf("create dream: %v", err)
		}
		ids = append(ids, d.ID)
	}
	other := makeTestDream(t, "user-2", "I was someone else entirely.")
	if err := s.CreateDream(ctx, other); err != nil {
		t.Fatalf("create dream: %v", err)
	}

	var seen []string
	params := store.ListDreamsParams{UserID: "user-1", PaginationParams: store.PaginationParams{Limit: 2}}
	for pages := 0; ; pages++ {
		if pages > 5 {
			t.Fatal("pagination did not terminate")
		}
		page, err := s.ListDreams(ctx, params)
		if err != nil {
			t.Fatalf("list dreams: %v", err)
		}
		for _, d := range page.Items {
			seen = append(seen, d.ID)
		}
		if !page.HasMore {
			break
		}
		params.Cursor = page.NextCursor
	}

	want := []string{ids[4], ids[3], ids[2], ids[1], ids[0]}
	if fmt.Sprint(seen) != fmt.Sprint(want) {
		t.Errorf("order = %v, want %v", seen, want)
	}
}

func TestListDreams_RarityFilterAndSort(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i, likes := range []int{0, 400, 100} {
		d := makeTestDream(t, "user-1", fmt.Sprintf("I was flying above city %d.", i))
		d.Likes = likes
		d.Recompute()
		if err := s.CreateDream(ctx, d); err != nil {
			t.Fatalf("create dream: %v", err)
		}
	}

	page, err := s.ListDreams(ctx, store.ListDreamsParams{Sort: store.SortRarity})
	if err != nil {
		t.Fatalf("list dreams: %v", err)
	}
	if len(page.Items) != 3 {
		t.Fatalf("items = %d, want 3", len(page.Items))
	}
	for i := 1; i < len(page.Items); i++ {
		if page.Items[i-1].Rarity < page.Items[i].Rarity {
			t.Errorf("not sorted by rarity: %d before %d", page.Items[i-1].Rarity, page.Items[i].Rarity)
		}
	}

	minRarity := page.Items[0].Rarity
	filtered, err := s.ListDreams(ctx, store.ListDreamsParams{MinRarity: minRarity})
	if err != nil {
		t.Fatalf("list dreams: %v", err)
	}
	for _, d := range filtered.Items {
		if d.Rarity < minRarity {
			t.Errorf("rarity %d below filter %d", d.Rarity, minRarity)
		}
	}

	if _, err := s.ListDreams(ctx, store.ListDreamsParams{Sort: "oldest"}); !errors.Is(err, store.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestListDreams_PublicOnly(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	public := makeTestDream(t, "user-1", "I was on a stage in front of everyone.")
	public.IsPublic = true
	private := makeTestDream(t, "user-1", "I was hiding under the stairs.")
	for _, d := range []*domain.Dream{public, private} {
		if err := s.CreateDream(ctx, d); err != nil {
			t.Fatalf("create dream: %v", err)
		}
	}

	page, err := s.ListDreams(ctx, store.ListDreamsParams{PublicOnly: true})
	if err != nil {
		t.Fatalf("list dreams: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].ID != public.ID {
		t.Errorf("items = %v", page.Items)
	}

	n, err := s.CountDreams(ctx)
	if err != nil || n != 2 {
		t.Errorf("count = %d, %v", n, err)
	}
}
