package http

import (
	"encoding/json"
	"net/http"

	"github.com/website-kz/sentinel/internal/auth/service"
	"github.com/website-kz/sentinel/pkg/httpx"
	"github.com/website-kz/sentinel/pkg/slogx"
)

// LoginHandler handles POST /v1/auth/login. A successful response only confirms
// that a code was sent; the session token comes from the verify endpoint.
type LoginHandler struct {
	AuthService *service.AuthService
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message string `json:"message"`
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("failed to parse request", "err", err)
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	if err := h.AuthService.Login(ctx, req.Email, req.Password); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, loginResponse{
		Message: "Login code sent",
	})
}
