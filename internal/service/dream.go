// Package service implements the dream workflows on top of the scoring
// engine, persistence, report archive and search index.
package service

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/dreamnft/dreamnft-server/internal/domain"
	"github.com/dreamnft/dreamnft-server/internal/errors"
	"github.com/dreamnft/dreamnft-server/internal/id"
	"github.com/dreamnft/dreamnft-server/internal/insight"
	"github.com/dreamnft/dreamnft-server/internal/scoring"
	"github.com/dreamnft/dreamnft-server/internal/search"
	"github.com/dreamnft/dreamnft-server/internal/store"
	"github.com/dreamnft/dreamnft-server/internal/util"
	"github.com/dreamnft/dreamnft-server/internal/validation"
)

// Near-duplicate detection compares a submission with the user's most recent
// dreams by word overlap.
const (
	nearDuplicateThreshold = 0.95
	nearDuplicateWindow    = 20
)

// ReportArchive stores validation reports by dream ID.
type ReportArchive interface {
	Save(ctx context.Context, r *domain.ValidationReport) error
	Get(ctx context.Context, dreamID string) (*domain.ValidationReport, error)
	Delete(ctx context.Context, dreamID string) error
}

// SearchIndexer keeps the dream search index current and queries it.
type SearchIndexer interface {
	IndexDream(d *domain.Dream) error
	IndexDocuments(docs []*search.DreamDocument) error
	DeleteDream(id string) error
	DocumentCount() (uint64, error)
	Rebuild(docs []*search.DreamDocument) error
	Search(ctx context.Context, params search.SearchParams) (*search.SearchResult, error)
}

// DreamService orchestrates dream submission, updates, engagement and search.
// Writes to one dream are serialized; the scoring engine itself holds no locks.
type DreamService struct {
	store      store.Store
	reports    ReportArchive
	index      SearchIndexer
	engine     *scoring.Engine
	validator  *validation.Validator
	locks      *keyedMutex
	patterns   *insight.PatternAnalyzer
	userTagCap int
	logger     *slog.Logger
	now        func() time.Time
}

// NewDreamService creates a dream service. A non-positive userTagCap uses
// domain.DefaultUserTagCap.
func NewDreamService(
	st store.Store,
	reports ReportArchive,
	index SearchIndexer,
	engine *scoring.Engine,
	validator *validation.Validator,
	userTagCap int,
	logger *slog.Logger,
) *DreamService {
	if userTagCap <= 0 {
		userTagCap = domain.DefaultUserTagCap
	}
	return &DreamService{
		store:      st,
		reports:    reports,
		index:      index,
		engine:     engine,
		validator:  validator,
		locks:      newKeyedMutex(),
		patterns:   insight.NewPatternAnalyzer(engine.Library()),
		userTagCap: userTagCap,
		logger:     logger,
		now:        time.Now,
	}
}

// Engine returns the scoring engine.
func (s *DreamService) Engine() *scoring.Engine { return s.engine }

// Submit scores and stores a new dream. Authenticity validation is always
// requested, so narratives below the minimum length are rejected with
// InputTooShort. Resubmitting the same narrative, or one whose words almost
// all match a recent dream of the same user, fails with AlreadyExists.
func (s *DreamService) Submit(ctx context.Context, req SubmitRequest) (*domain.Dream, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if len(req.UserTags) > s.userTagCap {
		return nil, errors.ValidationWithDetails("too many tags", map[string]string{
			"user_tags": "must not contain more than " + strconv.Itoa(s.userTagCap) + " items",
		})
	}

	dreamID, err := id.Generate(id.PrefixDream)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "generate dream id")
	}

	text := s.engine.Snapshot(req.Text)
	d := domain.NewDream(dreamID, req.UserID, strings.TrimSpace(req.Title), text, req.HasAudio, req.HasImage, s.userTagCap)
	d.IsPublic = req.IsPublic
	for _, tag := range req.UserTags {
		d.UserTags.Add(util.NormalizeTagSlug(tag))
	}

	eval, err := s.engine.Evaluate(ctx, scoring.Request{
		Text:                 text,
		Metadata:             d.Metadata(),
		ValidateAuthenticity: true,
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.store.GetDreamByFingerprint(ctx, req.UserID, eval.Fingerprint); err == nil {
		return nil, errors.AlreadyExists("this dream has already been submitted")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	if err := s.checkNearDuplicate(ctx, req.UserID, text); err != nil {
		return nil, err
	}

	d.ApplyEvaluation(eval)
	d.Interpretation = insight.Interpret(d.Emotions, d.Themes)
	if err := d.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.CreateDream(ctx, d); err != nil {
		return nil, mapStoreError(err)
	}
	s.archiveReport(ctx, d)
	s.reindex(d)

	s.logger.Info("dream submitted",
		"dream_id", d.ID,
		"user_id", d.UserID,
		"rarity", d.Rarity,
		"tier", d.RarityTier.String(),
		"authentic", d.Authenticity.IsAuthentic,
	)
	return d, nil
}

func (s *DreamService) checkNearDuplicate(ctx context.Context, userID, text string) error {
	recent, err := s.store.ListDreams(ctx, store.ListDreamsParams{
		UserID:           userID,
		Sort:             store.SortRecent,
		PaginationParams: store.PaginationParams{Limit: nearDuplicateWindow},
	})
	if err != nil {
		return mapStoreError(err)
	}
	for _, other := range recent.Items {
		if insight.Similarity(text, other.Text) >= nearDuplicateThreshold {
			return errors.AlreadyExists("a nearly identical dream has already been submitted").
				WithDetails(map[string]string{"dream_id": other.ID})
		}
	}
	return nil
}

// Get returns a dream.
func (s *DreamService) Get(ctx context.Context, dreamID string) (*domain.Dream, error) {
	d, err := s.store.GetDream(ctx, dreamID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return d, nil
}

// List returns one page of dreams.
func (s *DreamService) List(ctx context.Context, req ListRequest) (*store.PaginatedResult[*domain.Dream], error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	page, err := s.store.ListDreams(ctx, req.params())
	if err != nil {
		return nil, mapStoreError(err)
	}
	return page, nil
}

// Delete removes a dream, its engagement, report and index entry.
func (s *DreamService) Delete(ctx context.Context, dreamID string) error {
	unlock := s.locks.Lock(dreamID)
	defer unlock()

	if err := s.store.DeleteDream(ctx, dreamID); err != nil {
		return mapStoreError(err)
	}
	if err := s.reports.Delete(ctx, dreamID); err != nil {
		s.logger.Warn("failed to delete validation report", "dream_id", dreamID, "error", err)
	}
	if err := s.index.DeleteDream(dreamID); err != nil {
		s.logger.Warn("failed to remove dream from search index", "dream_id", dreamID, "error", err)
	}
	s.logger.Info("dream deleted", "dream_id", dreamID)
	return nil
}

// UpdateText replaces a dream's narrative and re-derives every score from it.
func (s *DreamService) UpdateText(ctx context.Context, dreamID string, req UpdateTextRequest) (*domain.Dream, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(dreamID)
	defer unlock()

	d, err := s.Get(ctx, dreamID)
	if err != nil {
		return nil, err
	}

	text := s.engine.Snapshot(req.Text)
	eval, err := s.engine.Evaluate(ctx, scoring.Request{
		Text:                 text,
		Metadata:             d.Metadata(),
		ValidateAuthenticity: true,
	})
	if err != nil {
		return nil, err
	}
	if eval.Fingerprint == d.Fingerprint {
		return d, nil
	}

	d.ReplaceText(text, eval)
	d.Interpretation = insight.Interpret(d.Emotions, d.Themes)
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.UpdateDream(ctx, d); err != nil {
		return nil, mapStoreError(err)
	}
	s.archiveReport(ctx, d)
	s.reindex(d)
	return d, nil
}

// AddUserTag adds a slug-normalized user tag and reports whether it was
// added. Duplicates and tags beyond the cap leave the dream unchanged.
func (s *DreamService) AddUserTag(ctx context.Context, dreamID, tag string) (*domain.Dream, bool, error) {
	slug := util.NormalizeTagSlug(tag)
	if slug == "" {
		return nil, false, errors.ValidationWithDetails("invalid tag", map[string]string{
			"tag": "must contain at least one letter or digit",
		})
	}

	unlock := s.locks.Lock(dreamID)
	defer unlock()

	d, err := s.Get(ctx, dreamID)
	if err != nil {
		return nil, false, err
	}
	if !d.AddUserTag(slug) {
		return d, false, nil
	}
	d.SetMint(s.engine.Mint(d.Text, d.AllTags()))

	if err := s.store.UpdateDream(ctx, d); err != nil {
		return nil, false, mapStoreError(err)
	}
	s.reindex(d)
	return d, true, nil
}

// Like records a user's like.
func (s *DreamService) Like(ctx context.Context, dreamID, userID string) (*domain.Dream, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, errors.Validation("user_id is required")
	}

	unlock := s.locks.Lock(dreamID)
	defer unlock()

	d, err := s.Get(ctx, dreamID)
	if err != nil {
		return nil, err
	}
	d.AddLike()

	like := &domain.Like{DreamID: dreamID, UserID: userID, CreatedAt: s.now()}
	if err := s.store.AddLike(ctx, like, d); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, errors.Conflict("dream already liked")
		}
		return nil, mapStoreError(err)
	}
	s.reindex(d)
	return d, nil
}

// Unlike removes a user's like.
func (s *DreamService) Unlike(ctx context.Context, dreamID, userID string) (*domain.Dream, error) {
	unlock := s.locks.Lock(dreamID)
	defer unlock()

	d, err := s.Get(ctx, dreamID)
	if err != nil {
		return nil, err
	}
	if !d.RemoveLike() {
		return nil, errors.NotFound("like not found")
	}
	if err := s.store.RemoveLike(ctx, userID, d); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFound("like not found")
		}
		return nil, mapStoreError(err)
	}
	s.reindex(d)
	return d, nil
}

// AddComment stores a comment and bumps the dream's comment count.
func (s *DreamService) AddComment(ctx context.Context, dreamID string, req CommentRequest) (*domain.Comment, *domain.Dream, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, nil, err
	}

	commentID, err := id.Generate(id.PrefixComment)
	if err != nil {
		return nil, nil, errors.Wrap(err, errors.CodeInternal, "generate comment id")
	}

	unlock := s.locks.Lock(dreamID)
	defer unlock()

	d, err := s.Get(ctx, dreamID)
	if err != nil {
		return nil, nil, err
	}
	d.AddComment()

	c := &domain.Comment{
		ID:        commentID,
		DreamID:   dreamID,
		UserID:    req.UserID,
		Text:      strings.TrimSpace(req.Text),
		CreatedAt: s.now(),
	}
	if err := s.store.CreateComment(ctx, c, d); err != nil {
		return nil, nil, mapStoreError(err)
	}
	s.reindex(d)
	return c, d, nil
}

// Comments lists a dream's comments, oldest first.
func (s *DreamService) Comments(ctx context.Context, dreamID string) ([]*domain.Comment, error) {
	if _, err := s.Get(ctx, dreamID); err != nil {
		return nil, err
	}
	comments, err := s.store.ListComments(ctx, dreamID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return comments, nil
}

// Report returns the archived validation report of a dream.
func (s *DreamService) Report(ctx context.Context, dreamID string) (*domain.ValidationReport, error) {
	r, err := s.reports.Get(ctx, dreamID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errors.NotFound("validation report not found")
	}
	return r, err
}

func (s *DreamService) archiveReport(ctx context.Context, d *domain.Dream) {
	if err := s.reports.Save(ctx, domain.NewValidationReport(d, s.now())); err != nil {
		s.logger.Warn("failed to archive validation report", "dream_id", d.ID, "error", err)
	}
}

func (s *DreamService) reindex(d *domain.Dream) {
	if err := s.index.IndexDream(d); err != nil {
		s.logger.Warn("failed to index dream", "dream_id", d.ID, "error", err)
	}
}

// mapStoreError converts persistence errors into domain errors.
func mapStoreError(err error) error {
	var se *store.Error
	if !errors.As(err, &se) {
		return err
	}
	switch {
	case errors.Is(se, store.ErrNotFound):
		return errors.Wrap(err, errors.CodeNotFound, se.Message)
	case errors.Is(se, store.ErrAlreadyExists):
		return errors.Wrap(err, errors.CodeAlreadyExists, se.Message)
	case errors.Is(se, store.ErrInvalidInput):
		return errors.Wrap(err, errors.CodeValidation, se.Message)
	default:
		return err
	}
}
