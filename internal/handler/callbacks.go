package handler

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"wordbook/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const gradePrefix = "grade_"

// cleanCallbackData removes all non-printable characters from callback data
func cleanCallbackData(data string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(data))
}

// gradeFromData parses "grade_<n>" callback data
func gradeFromData(data string) (int, bool) {
	s, found := strings.CutPrefix(data, gradePrefix)
	if !found {
		return 0, false
	}
	grade, err := strconv.Atoi(s)
	if err != nil || grade < domain.MinGrade || grade > domain.MaxGrade {
		return 0, false
	}
	return grade, true
}

// gradeMarkup returns grade buttons 0..5 in two rows, each labelled with its interval
func gradeMarkup() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	rows := []tele.Row{}

	row := tele.Row{}
	for g := domain.MinGrade; g <= domain.MaxGrade; g++ {
		row = append(row, markup.Data(domain.GradeLabel(g), fmt.Sprintf("%s%d", gradePrefix, g)))
		if len(row) == 3 {
			rows = append(rows, row)
			row = tele.Row{}
		}
	}
	rows = append(rows, markup.Row(btnCancel))

	markup.Inline(rows...)
	return markup
}

// revealText renders a record with its meaning
func revealText(w *domain.Word) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🧠 %s", w.Word)
	if w.PartOfSpeech != nil && *w.PartOfSpeech != "" {
		fmt.Fprintf(&b, " (%s)", *w.PartOfSpeech)
	}
	fmt.Fprintf(&b, "\n💡 %s", w.Meaning)
	if w.Example != nil && *w.Example != "" {
		fmt.Fprintf(&b, "\n\n“%s”", *w.Example)
	}
	b.WriteString("\n\nHow well did you remember it?")
	return b.String()
}

// handleEditError handles errors from c.Edit() - if message is not modified, just acknowledge callback
// Otherwise, acknowledge callback and return error so caller can send new message
func (h *Handler) handleEditError(err error, c tele.Context, chatID int64) error {
	if err == nil {
		return nil
	}

	// Already edited by another callback
	if strings.Contains(err.Error(), "message is not modified") {
		h.logger.Debug("Message already modified by another callback, acknowledging",
			zap.Int64("chat_id", chatID),
			zap.String("callback_id", c.Callback().ID),
		)
		_ = c.Respond()
		return nil
	}

	h.logger.Warn("Failed to edit message, sending new",
		zap.Error(err),
		zap.Int64("chat_id", chatID),
		zap.String("callback_id", c.Callback().ID),
	)
	if ackErr := c.Respond(); ackErr != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(ackErr))
	}
	return err
}

// editOrSend replaces the callback's message, falling back to a new one
func (h *Handler) editOrSend(c tele.Context, chatID int64, text string, markup *tele.ReplyMarkup) error {
	if c.Callback() != nil {
		if err := c.Edit(text, markup); err != nil {
			if handleErr := h.handleEditError(err, c, chatID); handleErr == nil {
				return nil
			}
			return c.Send(text, markup)
		}
		return c.Respond()
	}
	return c.Send(text, markup)
}

// handleCallback handles callbacks not matched by a registered button
func (h *Handler) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		h.logger.Warn("handleCallback: callback is nil")
		return nil
	}

	data := cleanCallbackData(callback.Data)
	h.logger.Debug("handleCallback: Processing callback",
		zap.String("data", data),
		zap.String("unique", callback.Unique),
		zap.Int64("chat_id", c.Sender().ID),
	)

	// Button uniques that arrived without routing
	key := callback.Unique
	if key == "" {
		key = data
	}
	switch key {
	case btnAddWord.Unique:
		return h.handleAddWord(c)
	case btnReview.Unique:
		return h.handleReview(c)
	case btnReveal.Unique:
		return h.handleReveal(c)
	case btnCancel.Unique:
		return h.handleCancel(c)
	case btnBack.Unique:
		return h.handleStart(c)
	}

	if strings.HasPrefix(data, gradePrefix) {
		return h.handleGrade(c, data)
	}

	h.logger.Warn("Unhandled callback",
		zap.String("data", data),
		zap.String("unique", callback.Unique),
	)
	return c.Respond()
}

// handleAddWord starts the add-word flow
func (h *Handler) handleAddWord(c tele.Context) error {
	chatID := c.Sender().ID

	h.SetState(chatID, &domain.StateData{State: domain.StateWaitingWord})
	return h.editOrSend(c, chatID, "📝 Send a word", cancelMarkup())
}

// handleReview shows the record most overdue for review
func (h *Handler) handleReview(c tele.Context) error {
	chatID := c.Sender().ID

	unlock := h.lockChat(chatID)
	defer unlock()

	ctx, cancel := requestContext()
	defer cancel()

	word, err := h.wordService.NextDue(ctx)
	if err != nil {
		h.logger.Error("Failed to get next review", zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: "Failed to load a word"})
	}

	if word == nil {
		h.ResetState(chatID)
		return c.Respond(&tele.CallbackResponse{
			Text:      "Nothing to review right now 🎉",
			ShowAlert: true,
		})
	}

	h.SetState(chatID, &domain.StateData{
		State:  domain.StateReviewing,
		Review: word,
	})

	markup := &tele.ReplyMarkup{}
	markup.Inline(
		markup.Row(btnReveal),
		markup.Row(btnCancel),
	)

	return h.editOrSend(c, chatID, fmt.Sprintf("🧠 %s\n\nTry to recall the meaning.", word.Word), markup)
}

// handleReveal shows the meaning and the grade buttons
func (h *Handler) handleReveal(c tele.Context) error {
	chatID := c.Sender().ID

	unlock := h.lockChat(chatID)
	defer unlock()

	state := h.GetState(chatID)
	if state.State != domain.StateReviewing || state.Review == nil {
		return c.Respond(&tele.CallbackResponse{Text: "Start a review first"})
	}

	return h.editOrSend(c, chatID, revealText(state.Review), gradeMarkup())
}

// handleGrade records the grade for the word under review
func (h *Handler) handleGrade(c tele.Context, data string) error {
	chatID := c.Sender().ID

	unlock := h.lockChat(chatID)
	defer unlock()

	grade, ok := gradeFromData(data)
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: "Unknown grade"})
	}

	state := h.GetState(chatID)
	if state.State != domain.StateReviewing || state.Review == nil {
		return c.Respond(&tele.CallbackResponse{Text: "Nothing to grade"})
	}

	ctx, cancel := requestContext()
	defer cancel()

	word, err := h.wordService.ScheduleReview(ctx, state.Review.ID, &grade)
	if err != nil {
		h.logger.Error("Failed to schedule review",
			zap.Error(err),
			zap.String("id", state.Review.ID),
			zap.Int("grade", grade),
		)
		h.ResetState(chatID)
		return c.Respond(&tele.CallbackResponse{Text: "Failed to save the grade"})
	}

	h.logger.Info("Review graded",
		zap.Int64("chat_id", chatID),
		zap.String("id", word.ID),
		zap.Int("grade", grade),
	)
	h.ResetState(chatID)

	markup := &tele.ReplyMarkup{}
	markup.Inline(
		markup.Row(btnNext),
		markup.Row(btnBack),
	)

	text := fmt.Sprintf("✅ %s graded %d\n📅 Next review: %s", word.Word, grade, domain.DueString(word.ReviewDue, h.now()))
	return h.editOrSend(c, chatID, text, markup)
}

// handleCancel cancels current operation and resets state
func (h *Handler) handleCancel(c tele.Context) error {
	chatID := c.Sender().ID

	h.ResetState(chatID)
	return h.editOrSend(c, chatID, mainMenuText, mainMenuMarkup())
}
