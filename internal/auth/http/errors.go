package http

import (
	"errors"
	"net/http"

	"github.com/website-kz/sentinel/internal/auth/service"
	"github.com/website-kz/sentinel/pkg/httpx"
	"github.com/website-kz/sentinel/pkg/slogx"
)

// ErrorResponse is the error body shape shared by all endpoints.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

func writeError(w http.ResponseWriter, status int, code, desc string) {
	httpx.WriteJSON(w, status, ErrorResponse{Error: code, ErrorDescription: desc})
}

// writeServiceError maps business outcomes to stable caller-visible error
// codes. Unexpected failures are logged and returned opaque, never with
// internal detail.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidEmail):
		writeError(w, http.StatusBadRequest, "invalid_request", "A valid email address is required")
	case errors.Is(err, service.ErrWeakPassword):
		writeError(w, http.StatusBadRequest, "invalid_request", "Password is too short")
	case errors.Is(err, service.ErrEmailTaken):
		writeError(w, http.StatusConflict, "email_taken", "An account with this email already exists")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password")
	case errors.Is(err, service.ErrDeliveryFailed):
		writeError(w, http.StatusBadGateway, "delivery_failed", "Could not deliver the login code")
	case errors.Is(err, service.ErrCodeNotFound):
		writeError(w, http.StatusBadRequest, "code_not_found", "No login code found")
	case errors.Is(err, service.ErrCodeAlreadyUsed):
		writeError(w, http.StatusBadRequest, "code_already_used", "Login code already used")
	case errors.Is(err, service.ErrCodeMismatch):
		writeError(w, http.StatusBadRequest, "code_mismatch", "Login code is incorrect")
	case errors.Is(err, service.ErrCodeExpired):
		writeError(w, http.StatusBadRequest, "code_expired", "Login code has expired")
	default:
		slogx.FromContext(r.Context()).Error("request failed", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "Internal server error")
	}
}
