package auth

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"gitlab.com/cfmirror.net/internal/config"
	"gitlab.com/cfmirror.net/internal/core/ports/primary"
	"gitlab.com/cfmirror.net/internal/handlers/response"
	"gitlab.com/cfmirror.net/internal/static/errs"
)

// Handler exchanges the deploy secret for a bearer token. The command API is
// operator-facing; there are no user accounts behind it.
type Handler struct {
	tokenService primary.TokenService
	authConfig   *config.AuthConfig
	logger       primary.Logger
}

func NewHandler(tokenService primary.TokenService, authConfig *config.AuthConfig, logger primary.Logger) *Handler {
	return &Handler{
		tokenService: tokenService,
		authConfig:   authConfig,
		logger:       logger,
	}
}

func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/auth/token", h.IssueToken).Methods("POST")
}

type tokenRequest struct {
	Secret string `json:"secret"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// IssueToken returns a signed token when the caller presents the deploy secret
func (h *Handler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteError(w, response.ErrorMessage{
			Message:    "Invalid request",
			StatusCode: http.StatusBadRequest,
		})
		return
	}

	if req.Secret == "" || req.Secret != h.authConfig.Secret {
		response.WriteError(w, response.ErrorMessage{
			Message:    errs.InvalidToken.Error(),
			StatusCode: http.StatusUnauthorized,
		})
		return
	}

	token, err := h.tokenService.GenerateTokenHMAC(r.Context(), "HS256", map[string]interface{}{
		"sub":        "operator",
		"permission": []string{"sync:control"},
	})
	if err != nil {
		h.logger.Error("Failed to generate token", "error", err)
		response.WriteError(w, response.ErrorMessage{
			Message:    errs.GeneratingToken.Error(),
			StatusCode: http.StatusInternalServerError,
		})
		return
	}

	response.WriteSuccess(w, tokenResponse{Token: token})
}
