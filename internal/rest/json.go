package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"wordbook/internal/domain"
	"wordbook/internal/middleware"

	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error any `json:"error"`
}

// readJSON decodes a request body into out. An empty body leaves out untouched.
func readJSON(w http.ResponseWriter, r *http.Request, out any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(out)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return &domain.ValidationError{Issues: []domain.Issue{{
			Path:    "body",
			Message: fmt.Sprintf("invalid JSON: %v", err),
		}}}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, resp any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(resp)
}

// handleErr maps service errors to status codes. Store failures are logged and
// reported without detail.
func (api *API) handleErr(w http.ResponseWriter, r *http.Request, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		api.logger.Debug("Rejected request",
			zap.String("method", r.Method),
			zap.String("url", r.URL.String()),
			zap.Error(err),
		)
		_ = writeJSON(w, http.StatusBadRequest, errorResponse{Error: ve.Issues})
	case errors.Is(err, domain.ErrNotFound):
		_ = writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	default:
		api.logger.Error("Request failed",
			zap.String("method", r.Method),
			zap.String("url", r.URL.String()),
			zap.String("remote_addr", r.RemoteAddr),
			zap.String("email", middleware.EmailFromContext(r.Context())),
			zap.Error(err),
		)
		_ = writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "server error"})
	}
}
