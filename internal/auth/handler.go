package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/GrytsenkoAndrey/ed-go-custom-response/internal/response"
)

// Handler holds HTTP handlers for auth endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a new auth Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type tokenRequest struct {
	APIKey string `json:"apiKey" example:"dev_api_key"`
	Client string `json:"client" example:"dashboard"`
}

// Token godoc
//
//	@Summary		Issue access token
//	@Description	Exchange the pre-shared API key for a JWT used on mutating endpoints.
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		tokenRequest	true	"API key and client name"
//	@Success		200		{object}	map[string]interface{}
//	@Failure		400		{object}	map[string]interface{}
//	@Failure		401		{object}	map[string]interface{}
//	@Router			/auth/token [post]
func (h *Handler) Token(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest("invalid request body").Render(w, r)
		return
	}
	if req.Client == "" {
		response.BadRequest("client is required").Render(w, r)
		return
	}

	token, err := h.svc.IssueToken(req.APIKey, req.Client)
	if errors.Is(err, ErrInvalidAPIKey) {
		response.Unauthorized("invalid API key").Render(w, r)
		return
	}
	if err != nil {
		response.InternalError().Render(w, r)
		return
	}

	response.OK(map[string]string{"token": token}).Render(w, r)
}
