package postgres

import (
	"context"
	"database/sql"
	"errors"

	"wordbook/internal/domain"

	"github.com/jmoiron/sqlx"
)

// BotUserRepo implements repository.BotUserRepository
type BotUserRepo struct {
	db *sqlx.DB
}

// NewBotUserRepo creates a new bot user repository
func NewBotUserRepo(db *sqlx.DB) *BotUserRepo {
	return &BotUserRepo{db: db}
}

// GetBotUser returns the credentials stored for a chat, or nil if it never logged in
func (r *BotUserRepo) GetBotUser(ctx context.Context, chatID int64) (*domain.BotUser, error) {
	var u domain.BotUser
	query := `SELECT chat_id, email, token FROM bot_users WHERE chat_id = $1`
	err := r.db.GetContext(ctx, &u, query, chatID)
	if errors.Is(err, sql.ErrNoRows) {
		// Chat doesn't exist yet
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// SaveBotUser stores a chat's credentials, replacing earlier ones
func (r *BotUserRepo) SaveBotUser(ctx context.Context, u domain.BotUser) error {
	query := `
		INSERT INTO bot_users (chat_id, email, token)
		VALUES ($1, $2, $3)
		ON CONFLICT (chat_id)
		DO UPDATE SET email = EXCLUDED.email, token = EXCLUDED.token, updated_at = NOW()
	`
	_, err := r.db.ExecContext(ctx, query, u.ChatID, u.Email, u.Token)
	return err
}

// DeleteBotUser forgets a chat's credentials
func (r *BotUserRepo) DeleteBotUser(ctx context.Context, chatID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM bot_users WHERE chat_id = $1`, chatID)
	return err
}
