package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/website-kz/sentinel/internal/auth/service"
	"github.com/website-kz/sentinel/pkg/httpx"
	"github.com/website-kz/sentinel/pkg/slogx"
)

// VerifyHandler handles POST /v1/auth/verify. It consumes a login code and
// returns the signed session token.
type VerifyHandler struct {
	AuthService *service.AuthService
}

type verifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type verifyResponse struct {
	Message   string    `json:"message"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (h *VerifyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("failed to parse request", "err", err)
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	session, err := h.AuthService.VerifyCode(ctx, req.Email, req.Code)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, verifyResponse{
		Message:   "Login successful",
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	})
}
