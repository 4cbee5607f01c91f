package handler

import (
	"context"
	"sync"
	"time"

	"wordbook/internal/domain"
	"wordbook/internal/middleware"
	"wordbook/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const requestTimeout = 10 * time.Second

// Handler manages all bot interactions
type Handler struct {
	bot         *tele.Bot
	authService *service.AuthService
	wordService *service.WordService
	logger      *zap.Logger
	now         func() time.Time

	// Chat states (in-memory state machine)
	states   map[int64]*domain.StateData
	stateMux sync.RWMutex

	// Per-chat locks serializing review callbacks
	callbackLocks map[int64]*sync.Mutex
	callbackMux   sync.Mutex
}

// NewHandler creates a new handler instance
func NewHandler(
	bot *tele.Bot,
	authService *service.AuthService,
	wordService *service.WordService,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		bot:           bot,
		authService:   authService,
		wordService:   wordService,
		logger:        logger,
		now:           time.Now,
		states:        make(map[int64]*domain.StateData),
		callbackLocks: make(map[int64]*sync.Mutex),
	}
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	h.bot.Use(middleware.AuthMiddleware(h.authService, h.logger))

	// Commands
	h.bot.Handle("/start", h.handleStart)
	h.bot.Handle("/logout", h.handleLogout)

	// Text messages
	h.bot.Handle(tele.OnText, h.handleText)

	// Callback queries (inline buttons)
	h.bot.Handle(&btnAddWord, h.handleAddWord)
	h.bot.Handle(&btnReview, h.handleReview)
	h.bot.Handle(&btnReveal, h.handleReveal)
	h.bot.Handle(&btnCancel, h.handleCancel)
	h.bot.Handle(&btnBack, h.handleStart)

	// Generic callback handler for dynamic data
	h.bot.Handle(tele.OnCallback, h.handleCallback)
}

// GetState returns a chat's current state
func (h *Handler) GetState(chatID int64) *domain.StateData {
	h.stateMux.RLock()
	defer h.stateMux.RUnlock()

	state, exists := h.states[chatID]
	if !exists {
		return &domain.StateData{State: domain.StateIdle}
	}
	return state
}

// SetState sets a chat's state
func (h *Handler) SetState(chatID int64, state *domain.StateData) {
	h.stateMux.Lock()
	defer h.stateMux.Unlock()
	h.states[chatID] = state
}

// ResetState resets a chat to idle state
func (h *Handler) ResetState(chatID int64) {
	h.SetState(chatID, &domain.StateData{State: domain.StateIdle})
}

// lockChat serializes callbacks of one chat; call the returned func to release
func (h *Handler) lockChat(chatID int64) func() {
	h.callbackMux.Lock()
	lock, exists := h.callbackLocks[chatID]
	if !exists {
		lock = &sync.Mutex{}
		h.callbackLocks[chatID] = lock
	}
	h.callbackMux.Unlock()

	lock.Lock()
	return lock.Unlock
}

// isLoggedIn reuses the status found by AuthMiddleware when present
func (h *Handler) isLoggedIn(ctx context.Context, c tele.Context) (bool, error) {
	if loggedIn, ok := middleware.LoggedIn(c); ok {
		return loggedIn, nil
	}
	return h.authService.IsLoggedIn(ctx, c.Sender().ID)
}

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

const errorText = "Something went wrong. Try again later."

// Inline keyboard buttons
var (
	btnAddWord = tele.Btn{
		Unique: "add_word",
		Text:   "➕ Add word",
	}
	btnReview = tele.Btn{
		Unique: "review",
		Text:   "🧠 Review",
	}
	btnReveal = tele.Btn{
		Unique: "reveal",
		Text:   "👀 Show meaning",
	}
	btnCancel = tele.Btn{
		Unique: "cancel",
		Text:   "❌ Cancel",
	}
	btnNext = tele.Btn{
		Unique: "review",
		Text:   "➡️ Next word",
	}
	btnBack = tele.Btn{
		Unique: "back",
		Text:   "🏠 Menu",
	}
)

const mainMenuText = "🏠 Main menu\n\nChoose an action:"

// mainMenuMarkup returns the main menu keyboard
func mainMenuMarkup() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(
		menu.Row(btnAddWord),
		menu.Row(btnReview),
	)
	return menu
}

func cancelMarkup() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(btnCancel))
	return markup
}
