package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"drimer.pl/drimain/internal/apperr"
	"drimer.pl/drimain/internal/auth"
)

// errorBody is the envelope of every failed request.
type errorBody struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Path      string    `json:"path"`
	RequestID string    `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes the envelope. An empty reason uses the status text.
func writeError(w http.ResponseWriter, r *http.Request, code int, reason, msg string) {
	if reason == "" {
		reason = http.StatusText(code)
	}
	if msg == "" {
		msg = reason
	}
	writeJSON(w, code, errorBody{
		Timestamp: time.Now().UTC(),
		Status:    code,
		Error:     reason,
		Message:   msg,
		Path:      r.URL.Path,
		RequestID: RequestIDFromContext(r.Context()),
	})
}

// handleError maps domain errors onto HTTP statuses.
func (a *API) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrForbidden):
		writeError(w, r, http.StatusForbidden, "", "Access denied")
	case errors.Is(err, auth.ErrBadCredentials):
		writeError(w, r, http.StatusUnauthorized, "Bad credentials", "")
	case errors.Is(err, auth.ErrUnauthorized), errors.Is(err, auth.ErrNoToken):
		writeError(w, r, http.StatusUnauthorized, "", "")
	case errors.Is(err, apperr.ErrValidation):
		writeError(w, r, http.StatusBadRequest, "", err.Error())
	case errors.Is(err, apperr.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "", err.Error())
	case errors.Is(err, apperr.ErrConflict):
		writeError(w, r, http.StatusConflict, "", err.Error())
	default:
		a.log.Error("request failed",
			zap.String("request_id", RequestIDFromContext(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "", "An unexpected error occurred")
	}
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Validation("request body is required")
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperr.Validation("request body exceeds %d bytes", tooLarge.Limit)
		}
		return apperr.Validation("malformed JSON: %v", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return apperr.Validation("unexpected data after JSON body")
	}
	return nil
}

func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("invalid id %q", raw)
	}
	return id, nil
}
