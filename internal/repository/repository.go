package repository

import (
	"context"
	"time"

	"wordbook/internal/domain"
)

// WordRepository defines vocabulary data operations.
// Mutations on a missing id return domain.ErrNotFound.
type WordRepository interface {
	List(ctx context.Context, q domain.SearchQuery) ([]domain.Word, error)
	Create(ctx context.Context, w domain.NewWord) (*domain.Word, error)
	Update(ctx context.Context, id string, updates []domain.FieldUpdate) (*domain.Word, error)
	Delete(ctx context.Context, id string) error
	Schedule(ctx context.Context, id string, review domain.Review) (*domain.Word, error)
	ListDue(ctx context.Context, now time.Time, limit int) ([]domain.Word, error)
	Now(ctx context.Context) (time.Time, error)
}

// BotUserRepository defines chat login persistence
type BotUserRepository interface {
	GetBotUser(ctx context.Context, chatID int64) (*domain.BotUser, error)
	SaveBotUser(ctx context.Context, u domain.BotUser) error
	DeleteBotUser(ctx context.Context, chatID int64) error
}
