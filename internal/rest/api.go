package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"wordbook/internal/domain"
	"wordbook/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type vocabService interface {
	List(ctx context.Context, query string, take int) ([]domain.Word, error)
	Create(ctx context.Context, in service.CreateWordInput) (*domain.Word, error)
	Update(ctx context.Context, id string, updates []domain.FieldUpdate) (*domain.Word, error)
	Delete(ctx context.Context, id string) error
	ScheduleReview(ctx context.Context, id string, grade *int) (*domain.Word, error)
	Health(ctx context.Context) (time.Time, error)
}

// API serves the vocabulary endpoints
type API struct {
	srv    vocabService
	logger *zap.Logger
	router chi.Router
}

// NewAPI creates the vocabulary HTTP API
func NewAPI(srv vocabService, logger *zap.Logger) *API {
	api := &API{
		srv:    srv,
		logger: logger,
		router: chi.NewRouter(),
	}

	api.mount()
	return api
}

func (api *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	api.router.ServeHTTP(w, r)
}

func (api *API) mount() {
	api.router.Get("/health", api.handleHealth)
	api.router.Get("/vocab", api.handleList)
	api.router.Post("/vocab", api.handleCreate)
	api.router.Patch("/vocab/{id}", api.handleUpdate)
	api.router.Delete("/vocab/{id}", api.handleDelete)
	api.router.Post("/vocab/{id}/schedule", api.handleSchedule)
}

type healthResponse struct {
	OK  bool      `json:"ok"`
	Now time.Time `json:"now"`
}

func (api *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	now, err := api.srv.Health(r.Context())
	if err != nil {
		api.handleErr(w, r, err)
		return
	}

	_ = writeJSON(w, http.StatusOK, healthResponse{OK: true, Now: now})
}

func (api *API) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	take := 0
	if s := q.Get("take"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			api.handleErr(w, r, domain.NewValidationError("take", "must be a number"))
			return
		}
		take = n
	}

	words, err := api.srv.List(r.Context(), q.Get("q"), take)
	if err != nil {
		api.handleErr(w, r, err)
		return
	}

	_ = writeJSON(w, http.StatusOK, words)
}

type createRequest struct {
	Word         string   `json:"word"`
	Meaning      string   `json:"meaning"`
	PartOfSpeech *string  `json:"part_of_speech"`
	Example      *string  `json:"example"`
	Tags         []string `json:"tags"`
	UserID       *string  `json:"user_id"`
}

func (api *API) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := readJSON(w, r, &req); err != nil {
		api.handleErr(w, r, err)
		return
	}

	word, err := api.srv.Create(r.Context(), service.CreateWordInput{
		Word:         req.Word,
		Meaning:      req.Meaning,
		PartOfSpeech: req.PartOfSpeech,
		Example:      req.Example,
		Tags:         req.Tags,
		UserID:       req.UserID,
	})
	if err != nil {
		api.handleErr(w, r, err)
		return
	}

	_ = writeJSON(w, http.StatusCreated, word)
}

func (api *API) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var body map[string]json.RawMessage
	if err := readJSON(w, r, &body); err != nil {
		api.handleErr(w, r, err)
		return
	}

	updates, err := parseUpdates(body)
	if err != nil {
		api.handleErr(w, r, err)
		return
	}

	word, err := api.srv.Update(r.Context(), chi.URLParam(r, "id"), updates)
	if err != nil {
		api.handleErr(w, r, err)
		return
	}

	_ = writeJSON(w, http.StatusOK, word)
}

func (api *API) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := api.srv.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		api.handleErr(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type scheduleRequest struct {
	Grade json.RawMessage `json:"grade"`
}

func (api *API) handleSchedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := readJSON(w, r, &req); err != nil {
		api.handleErr(w, r, err)
		return
	}

	var grade *int
	if len(req.Grade) > 0 {
		g, err := parseGrade(req.Grade)
		if err != nil {
			api.handleErr(w, r, domain.NewValidationError("grade", err.Error()))
			return
		}
		grade = g
	}

	word, err := api.srv.ScheduleReview(r.Context(), chi.URLParam(r, "id"), grade)
	if err != nil {
		api.handleErr(w, r, err)
		return
	}

	_ = writeJSON(w, http.StatusOK, word)
}
