package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wordbook/internal/domain"
	"wordbook/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WordService handles vocabulary business logic
type WordService struct {
	wordRepo repository.WordRepository
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string
}

// WordOption configures a WordService
type WordOption func(*WordService)

// WithClock overrides the time source used for review scheduling
func WithClock(now func() time.Time) WordOption {
	return func(s *WordService) {
		s.now = now
	}
}

// WithIDGenerator overrides record id generation
func WithIDGenerator(newID func() string) WordOption {
	return func(s *WordService) {
		s.newID = newID
	}
}

// NewWordService creates a new word service
func NewWordService(wordRepo repository.WordRepository, logger *zap.Logger, opts ...WordOption) *WordService {
	s := &WordService{
		wordRepo: wordRepo,
		logger:   logger,
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns records newest first, filtered by query when it is non-empty
func (s *WordService) List(ctx context.Context, query string, take int) ([]domain.Word, error) {
	words, err := s.wordRepo.List(ctx, domain.SearchQuery{
		Query: query,
		Limit: NormalizeTake(take),
	})
	if err != nil {
		return nil, storeErr("list", err)
	}
	return words, nil
}

// Create validates and stores a new record
func (s *WordService) Create(ctx context.Context, in CreateWordInput) (*domain.Word, error) {
	nw, err := ValidateCreate(in)
	if err != nil {
		return nil, err
	}
	nw.ID = s.newID()

	word, err := s.wordRepo.Create(ctx, nw)
	if err != nil {
		return nil, storeErr("create", err)
	}

	s.logger.Info("Word created",
		zap.String("id", word.ID),
		zap.String("word", word.Word),
	)
	return word, nil
}

// Update applies a partial update to a record
func (s *WordService) Update(ctx context.Context, id string, updates []domain.FieldUpdate) (*domain.Word, error) {
	if err := ValidateUpdates(updates); err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, notFound(id)
	}

	word, err := s.wordRepo.Update(ctx, id, updates)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, storeErr("update", err)
	}
	return word, nil
}

// Delete removes a record
func (s *WordService) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return notFound(id)
	}

	err := s.wordRepo.Delete(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return notFound(id)
	}
	if err != nil {
		return storeErr("delete", err)
	}

	s.logger.Info("Word deleted", zap.String("id", id))
	return nil
}

// ScheduleReview grades a record and pushes its next review out by the grade's interval.
// A nil grade counts as domain.DefaultGrade.
func (s *WordService) ScheduleReview(ctx context.Context, id string, grade *int) (*domain.Word, error) {
	g := domain.DefaultGrade
	if grade != nil {
		g = *grade
	}
	if !validID(id) {
		return nil, notFound(id)
	}

	word, err := s.wordRepo.Schedule(ctx, id, domain.ScheduleReview(s.now(), g))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, storeErr("schedule", err)
	}
	return word, nil
}

// NextDue returns the record most overdue for review, or nil when nothing is due
func (s *WordService) NextDue(ctx context.Context) (*domain.Word, error) {
	words, err := s.wordRepo.ListDue(ctx, s.now(), 1)
	if err != nil {
		return nil, storeErr("list due", err)
	}
	if len(words) == 0 {
		return nil, nil
	}
	return &words[0], nil
}

// Health returns the data store's clock
func (s *WordService) Health(ctx context.Context) (time.Time, error) {
	now, err := s.wordRepo.Now(ctx)
	if err != nil {
		return time.Time{}, storeErr("health", err)
	}
	return now, nil
}

func notFound(id string) error {
	return fmt.Errorf("word %q: %w", id, domain.ErrNotFound)
}

func storeErr(op string, err error) error {
	return &domain.StoreError{Op: op, Err: err}
}
