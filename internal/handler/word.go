package handler

import (
	"errors"
	"fmt"
	"strings"

	"wordbook/internal/domain"
	"wordbook/internal/middleware"
	"wordbook/internal/service"
	"wordbook/internal/session"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// parseLogin splits "<identifier> <password>". The password may contain spaces.
func parseLogin(text string) (identifier, password string, ok bool) {
	identifier, password, found := strings.Cut(strings.TrimSpace(text), " ")
	if !found {
		return "", "", false
	}
	password = strings.TrimSpace(password)
	if identifier == "" || password == "" {
		return "", "", false
	}
	return identifier, password, true
}

// handleText handles all text messages based on state
func (h *Handler) handleText(c tele.Context) error {
	chatID := c.Sender().ID
	text := strings.TrimSpace(c.Text())

	// Ignore commands (starting with /)
	if strings.HasPrefix(text, "/") {
		return nil
	}

	ctx, cancel := requestContext()
	defer cancel()

	loggedIn, err := h.isLoggedIn(ctx, c)
	if err != nil {
		h.logger.Error("Failed to check login", zap.Error(err))
		return c.Send(errorText)
	}

	if !loggedIn {
		return h.handleLogin(c, text)
	}

	state := h.GetState(chatID)

	switch state.State {
	case domain.StateWaitingMeaning:
		word, err := h.wordService.Create(ctx, service.CreateWordInput{
			Word:    state.CurrentWord,
			Meaning: text,
		})
		if err != nil {
			h.logger.Error("Failed to save word",
				zap.Error(err),
				zap.Int64("chat_id", chatID),
			)
			return c.Send("Could not save the word. Try again.", cancelMarkup())
		}

		// Ready for the next word
		h.SetState(chatID, &domain.StateData{State: domain.StateWaitingWord})

		return c.Send(fmt.Sprintf("✅ Saved: %s — %s\n\nSend the next word or go back with /start", word.Word, word.Meaning))

	default:
		// Any other state starts the add flow with this text as the word
		h.SetState(chatID, &domain.StateData{
			State:       domain.StateWaitingMeaning,
			CurrentWord: text,
		})

		return c.Send(fmt.Sprintf("📝 %s\n\nNow send its meaning", text), cancelMarkup())
	}
}

// handleLogin treats text from a logged-out chat as credentials
func (h *Handler) handleLogin(c tele.Context, text string) error {
	chatID := c.Sender().ID

	identifier, password, ok := parseLogin(text)
	if !ok {
		return c.Send(middleware.LoginPrompt)
	}

	// The message holds a password
	if err := c.Delete(); err != nil {
		h.logger.Debug("Failed to delete login message", zap.Error(err))
	}

	ctx, cancel := requestContext()
	defer cancel()

	sess, err := h.authService.Login(ctx, chatID, identifier, password)
	if err != nil {
		var authErr *session.AuthError
		if errors.As(err, &authErr) {
			h.logger.Info("Login rejected",
				zap.Int64("chat_id", chatID),
				zap.Int("status", authErr.Status),
			)
			return c.Send("❌ Login failed: " + authErr.Error())
		}

		h.logger.Error("Failed to log in", zap.Error(err), zap.Int64("chat_id", chatID))
		return c.Send(errorText)
	}

	h.ResetState(chatID)

	who := sess.Email()
	if who == "" {
		who = identifier
	}
	return c.Send(fmt.Sprintf("✅ Logged in as %s\n\n%s", who, mainMenuText), mainMenuMarkup())
}
