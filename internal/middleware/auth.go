package middleware

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// LoggedInKey is the context key holding the chat's login status
const LoggedInKey = "logged_in"

const LoginPrompt = "Hi! Log in by sending your username or email and password separated by a space:\n\nalice@example.com secret"

type loginChecker interface {
	IsLoggedIn(ctx context.Context, chatID int64) (bool, error)
}

// AuthMiddleware creates authentication middleware.
// Logged-out chats may only use /start or send plain text, which is treated as a login attempt.
func AuthMiddleware(auth loginChecker, logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			chatID := c.Sender().ID

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			loggedIn, err := auth.IsLoggedIn(ctx, chatID)
			if err != nil {
				logger.Error("Failed to check login in middleware",
					zap.Error(err),
					zap.Int64("chat_id", chatID),
				)
				return c.Send("Something went wrong. Try again later.")
			}
			c.Set(LoggedInKey, loggedIn)

			if loggedIn {
				return next(c)
			}

			if c.Callback() != nil {
				return c.Respond(&tele.CallbackResponse{Text: "Log in first", ShowAlert: true})
			}

			text := strings.TrimSpace(c.Text())
			if strings.HasPrefix(text, "/") && text != "/start" {
				return c.Send(LoginPrompt)
			}

			return next(c)
		}
	}
}

// LoggedIn reports the status stored by AuthMiddleware
func LoggedIn(c tele.Context) (loggedIn, ok bool) {
	loggedIn, ok = c.Get(LoggedInKey).(bool)
	return loggedIn, ok
}
