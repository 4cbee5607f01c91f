package testutil

import (
	"time"

	"wordbook/internal/domain"

	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestWord creates a test word
func NewTestWord(id, word, meaning string) *domain.Word {
	return &domain.Word{
		ID:        id,
		Word:      word,
		Meaning:   meaning,
		Tags:      []string{},
		CreatedAt: time.Now(),
	}
}

// Ptr returns a pointer to v
func Ptr[T any](v T) *T {
	return &v
}
