package http

import (
	"encoding/json"
	"net/http"

	"github.com/website-kz/sentinel/internal/auth/service"
	"github.com/website-kz/sentinel/pkg/httpx"
	"github.com/website-kz/sentinel/pkg/slogx"
)

// RegisterHandler handles POST /v1/auth/register.
type RegisterHandler struct {
	AuthService *service.AuthService
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerResponse struct {
	Message string `json:"message"`
}

func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("failed to parse request", "err", err)
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	if err := h.AuthService.Register(ctx, req.Email, req.Password); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, registerResponse{
		Message: "Account created",
	})
}
