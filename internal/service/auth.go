package service

import (
	"context"
	"fmt"

	"wordbook/internal/domain"
	"wordbook/internal/repository"
	"wordbook/internal/session"

	"go.uber.org/zap"
)

// Authenticator performs a login against the auth service
type Authenticator interface {
	Login(ctx context.Context, sess *session.Session, identifier, password string) (*session.AuthResponse, error)
}

// AuthService links bot chats to auth service accounts
type AuthService struct {
	userRepo repository.BotUserRepository
	auth     Authenticator
	logger   *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repository.BotUserRepository, auth Authenticator, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		auth:     auth,
		logger:   logger,
	}
}

// IsLoggedIn checks if a chat has completed a login
func (s *AuthService) IsLoggedIn(ctx context.Context, chatID int64) (bool, error) {
	u, err := s.userRepo.GetBotUser(ctx, chatID)
	if err != nil {
		return false, err
	}
	return u != nil, nil
}

// Session restores the credentials of a chat into a session object.
// A chat that never logged in gets an empty session.
func (s *AuthService) Session(ctx context.Context, chatID int64) (*session.Session, error) {
	var creds session.Credentials

	u, err := s.userRepo.GetBotUser(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if u != nil {
		creds = session.Credentials{Token: u.Token, Email: u.Email}
	}

	sess := session.New(session.NewMemoryStorage(creds))
	if err := sess.Init(); err != nil {
		return nil, err
	}
	return sess, nil
}

// Login authenticates a chat and remembers the resulting credentials
func (s *AuthService) Login(ctx context.Context, chatID int64, identifier, password string) (*session.Session, error) {
	if err := session.ValidateLogin(identifier, password); err != nil {
		return nil, err
	}

	sess := session.New(session.NewMemoryStorage(session.Credentials{}))
	if _, err := s.auth.Login(ctx, sess, identifier, password); err != nil {
		return nil, err
	}

	err := s.userRepo.SaveBotUser(ctx, domain.BotUser{
		ChatID: chatID,
		Email:  sess.Email(),
		Token:  sess.Token(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save login: %w", err)
	}

	s.logger.Info("Chat logged in",
		zap.Int64("chat_id", chatID),
		zap.String("email", sess.Email()),
	)
	return sess, nil
}

// Logout forgets a chat's credentials
func (s *AuthService) Logout(ctx context.Context, chatID int64) error {
	if err := s.userRepo.DeleteBotUser(ctx, chatID); err != nil {
		return err
	}
	s.logger.Info("Chat logged out", zap.Int64("chat_id", chatID))
	return nil
}
