package handler

import (
	"wordbook/internal/middleware"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleStart handles /start and the menu buttons
func (h *Handler) handleStart(c tele.Context) error {
	chatID := c.Sender().ID

	h.logger.Info("Chat opened menu",
		zap.Int64("chat_id", chatID),
		zap.String("username", c.Sender().Username),
	)

	ctx, cancel := requestContext()
	defer cancel()

	loggedIn, err := h.isLoggedIn(ctx, c)
	if err != nil {
		h.logger.Error("Failed to check login", zap.Error(err))
		return c.Send(errorText)
	}

	h.ResetState(chatID)

	if !loggedIn {
		return c.Send(middleware.LoginPrompt)
	}

	if c.Callback() != nil {
		if err := c.Edit(mainMenuText, mainMenuMarkup()); err != nil {
			if handleErr := h.handleEditError(err, c, chatID); handleErr == nil {
				return nil
			}
			return c.Send(mainMenuText, mainMenuMarkup())
		}
		return c.Respond()
	}
	return c.Send(mainMenuText, mainMenuMarkup())
}

// handleLogout handles /logout
func (h *Handler) handleLogout(c tele.Context) error {
	chatID := c.Sender().ID

	ctx, cancel := requestContext()
	defer cancel()

	if err := h.authService.Logout(ctx, chatID); err != nil {
		h.logger.Error("Failed to log out", zap.Error(err), zap.Int64("chat_id", chatID))
		return c.Send(errorText)
	}

	h.ResetState(chatID)
	return c.Send("👋 Logged out. Send /start to log in again.")
}
