package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/signup-api/internal/domain"
	"github.com/signup-api/internal/pkg/validate"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ResultEnvelope is returned by the verification and sign-up endpoints.
type ResultEnvelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Error   string            `json:"error,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
	Ticket  string            `json:"ticket,omitempty"`
}

// UserEnvelope wraps a single user. PasswordHash never serializes.
type UserEnvelope struct {
	Success bool         `json:"success"`
	User    *domain.User `json:"user,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ResultEnvelope{Error: msg})
}

// decode reads a JSON body into dst and runs its validate tags.
func decode(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", domain.ErrBadRequest)
	}
	return validate.Struct(dst)
}

// httpError maps domain sentinels to status codes. Unrecognised errors are logged and hidden.
func httpError(w http.ResponseWriter, err error) {
	var ve *validate.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, ResultEnvelope{Error: "missing or invalid fields", Fields: ve.Fields})
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, clientMessage(err, domain.ErrBadRequest))
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, clientMessage(err, domain.ErrUnauthorized))
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, clientMessage(err, domain.ErrNotFound))
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, clientMessage(err, domain.ErrConflict))
	case errors.Is(err, domain.ErrDispatch):
		writeError(w, http.StatusInternalServerError, "Error sending email")
	default:
		slog.Error("request failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// clientMessage drops the trailing ": <sentinel>" that services append when wrapping.
func clientMessage(err, sentinel error) string {
	return strings.TrimSuffix(err.Error(), ": "+sentinel.Error())
}
