package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ismyyear/lockin/internal/ctxkeys"
	"github.com/ismyyear/lockin/internal/repository"
	"github.com/ismyyear/lockin/internal/service"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg, details string) {
	writeJSON(w, status, errorResponse{Error: msg, Details: details})
}

// decodeJSON reads a single JSON object from the request body.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(dst)
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = fmt.Errorf("request body is empty")
		}
		writeError(w, http.StatusBadRequest, "Invalid JSON body", err.Error())
		return false
	}
	return true
}

// writeServiceError maps service and repository errors onto HTTP statuses.
// Anything unrecognised is logged and reported as a 500 with msg.
func writeServiceError(w http.ResponseWriter, err error, msg string, attrs ...any) {
	switch {
	case errors.Is(err, service.ErrValidation):
		writeError(w, http.StatusBadRequest, "Invalid request",
			strings.TrimPrefix(err.Error(), service.ErrValidation.Error()+": "))
	case errors.Is(err, repository.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "User not found", "")
	case errors.Is(err, repository.ErrDuplicateEmail):
		writeError(w, http.StatusConflict, "Email already registered", "")
	case errors.Is(err, service.ErrRegistrationClosed):
		writeError(w, http.StatusForbidden, "Registration closed", err.Error())
	default:
		slog.Error(strings.ToLower(msg), append([]any{"error", err}, attrs...)...)
		writeError(w, http.StatusInternalServerError, msg, err.Error())
	}
}

// authorize rejects the request when a verified token belongs to someone
// other than userID. Requests without a verified token pass; the auth
// middleware decides whether those are allowed at all.
func authorize(w http.ResponseWriter, r *http.Request, userID string) bool {
	sub, ok := ctxkeys.UserID(r.Context())
	if !ok || sub == userID {
		return true
	}
	writeError(w, http.StatusForbidden, "Forbidden", "token does not belong to this user")
	return false
}
