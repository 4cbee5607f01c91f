package testutil

import (
	"context"
	"time"

	"wordbook/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockWordRepository is a mock for WordRepository
type MockWordRepository struct {
	mock.Mock
}

func (m *MockWordRepository) List(ctx context.Context, q domain.SearchQuery) ([]domain.Word, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Word), args.Error(1)
}

func (m *MockWordRepository) Create(ctx context.Context, w domain.NewWord) (*domain.Word, error) {
	args := m.Called(ctx, w)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Word), args.Error(1)
}

func (m *MockWordRepository) Update(ctx context.Context, id string, updates []domain.FieldUpdate) (*domain.Word, error) {
	args := m.Called(ctx, id, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Word), args.Error(1)
}

func (m *MockWordRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockWordRepository) Schedule(ctx context.Context, id string, review domain.Review) (*domain.Word, error) {
	args := m.Called(ctx, id, review)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Word), args.Error(1)
}

func (m *MockWordRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]domain.Word, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Word), args.Error(1)
}

func (m *MockWordRepository) Now(ctx context.Context) (time.Time, error) {
	args := m.Called(ctx)
	return args.Get(0).(time.Time), args.Error(1)
}

// MockBotUserRepository is a mock for BotUserRepository
type MockBotUserRepository struct {
	mock.Mock
}

func (m *MockBotUserRepository) GetBotUser(ctx context.Context, chatID int64) (*domain.BotUser, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BotUser), args.Error(1)
}

func (m *MockBotUserRepository) SaveBotUser(ctx context.Context, u domain.BotUser) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockBotUserRepository) DeleteBotUser(ctx context.Context, chatID int64) error {
	args := m.Called(ctx, chatID)
	return args.Error(0)
}
