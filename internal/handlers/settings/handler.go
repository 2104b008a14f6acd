package settings

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	redissettings "gitlab.com/cfmirror.net/internal/adapter/redis/settings"
	"gitlab.com/cfmirror.net/internal/core/ports/primary"
	"gitlab.com/cfmirror.net/internal/core/ports/secondary"
	"gitlab.com/cfmirror.net/internal/domain"
	"gitlab.com/cfmirror.net/internal/handlers/response"
)

// Handler manages the mirror configuration: the watched handle, the linked
// repository and the tokens
type Handler struct {
	store    secondary.SettingsStore
	accounts secondary.AccountSource
	logger   primary.Logger
}

func NewHandler(store secondary.SettingsStore, accounts secondary.AccountSource, logger primary.Logger) *Handler {
	return &Handler{
		store:    store,
		accounts: accounts,
		logger:   logger,
	}
}

// RegisterRoutes registers the API routes for Handler
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/settings", h.GetSettings).Methods("GET")
	router.HandleFunc("/settings", h.UpdateSettings).Methods("PUT")
	router.HandleFunc("/account", h.GetAccount).Methods("GET")
}

// SettingsPayload carries settings over the API. Pointer fields distinguish
// "leave unchanged" from "set to empty" on update.
type SettingsPayload struct {
	AccountHandle *string `json:"accountHandle,omitempty"`
	Repository    *string `json:"repository,omitempty"`
	AccessToken   *string `json:"accessToken,omitempty"`
	APIKey        *string `json:"apiKey,omitempty"`
	APISecret     *string `json:"apiSecret,omitempty"`
	DarkMode      *string `json:"darkMode,omitempty"`
}

// AccountResponse is the profile view returned by GetAccount
type AccountResponse struct {
	Handle    string `json:"handle"`
	Rating    string `json:"rating"`
	MaxRating string `json:"maxRating"`
	Rank      string `json:"rank"`
	Avatar    string `json:"avatar,omitempty"`
}

// secretKeys are never echoed back in clear text
var secretKeys = map[string]bool{
	redissettings.KeyAccessToken: true,
	redissettings.KeyAPIKey:      true,
	redissettings.KeyAPISecret:   true,
}

// GetSettings returns the stored settings. Secrets come back masked; the API
// never echoes a token it was given.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	payload := SettingsPayload{}
	fields := map[string]**string{
		redissettings.KeyAccountHandle: &payload.AccountHandle,
		redissettings.KeyRepository:    &payload.Repository,
		redissettings.KeyAccessToken:   &payload.AccessToken,
		redissettings.KeyAPIKey:        &payload.APIKey,
		redissettings.KeyAPISecret:     &payload.APISecret,
		redissettings.KeyTheme:         &payload.DarkMode,
	}

	for key, field := range fields {
		value, err := h.store.Get(r.Context(), key)
		if err != nil {
			h.logger.Error("Failed to read settings", "key", key, "error", err)
			response.WriteError(w, response.ErrorMessage{Message: "Failed to read settings", StatusCode: http.StatusInternalServerError})
			return
		}
		if secretKeys[key] {
			value = mask(value)
		}
		*field = &value
	}

	response.WriteSuccess(w, payload)
}

// UpdateSettings applies a partial update; absent fields are left unchanged
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var payload SettingsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.logger.Error("Failed to decode request", "error", err)
		response.WriteError(w, response.ErrorMessage{Message: "Invalid request", StatusCode: http.StatusBadRequest})
		return
	}

	updates := map[string]*string{
		redissettings.KeyAccountHandle: payload.AccountHandle,
		redissettings.KeyRepository:    payload.Repository,
		redissettings.KeyAccessToken:   payload.AccessToken,
		redissettings.KeyAPIKey:        payload.APIKey,
		redissettings.KeyAPISecret:     payload.APISecret,
		redissettings.KeyTheme:         payload.DarkMode,
	}

	for key, value := range updates {
		if value == nil {
			continue
		}
		if err := h.store.Set(r.Context(), key, *value); err != nil {
			h.logger.Error("Failed to save settings", "key", key, "error", err)
			response.WriteError(w, response.ErrorMessage{Message: "Failed to save settings", StatusCode: http.StatusInternalServerError})
			return
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetAccount returns the watched account's platform profile. With an API key
// pair configured the signed endpoint is used, otherwise the public one.
func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	handle, err := h.store.Get(r.Context(), redissettings.KeyAccountHandle)
	if err != nil {
		h.logger.Error("Failed to read settings", "error", err)
		response.WriteError(w, response.ErrorMessage{Message: "Failed to read settings", StatusCode: http.StatusInternalServerError})
		return
	}
	if handle == "" {
		response.WriteError(w, response.ErrorMessage{Message: "No account handle configured", StatusCode: http.StatusNotFound})
		return
	}

	apiKey, err := h.store.Get(r.Context(), redissettings.KeyAPIKey)
	if err != nil {
		h.logger.Error("Failed to read settings", "error", err)
		response.WriteError(w, response.ErrorMessage{Message: "Failed to read settings", StatusCode: http.StatusInternalServerError})
		return
	}
	apiSecret, err := h.store.Get(r.Context(), redissettings.KeyAPISecret)
	if err != nil {
		h.logger.Error("Failed to read settings", "error", err)
		response.WriteError(w, response.ErrorMessage{Message: "Failed to read settings", StatusCode: http.StatusInternalServerError})
		return
	}

	var account *domain.AccountInfo
	if apiKey != "" && apiSecret != "" {
		account, err = h.accounts.FetchUserInfoSigned(r.Context(), apiKey, apiSecret, handle)
	} else {
		account, err = h.accounts.FetchUserInfo(r.Context(), handle)
	}
	if err != nil {
		h.logger.Error("Failed to fetch account info", "handle", handle, "error", err)
		response.WriteError(w, response.ErrorMessage{Message: "Failed to fetch account info", StatusCode: http.StatusBadGateway})
		return
	}

	response.WriteSuccess(w, AccountResponse{
		Handle:    account.Handle,
		Rating:    account.Rating,
		MaxRating: account.MaxRating,
		Rank:      account.Rank,
		Avatar:    account.Avatar,
	})
}

func mask(value string) string {
	if value == "" {
		return ""
	}
	return "********"
}
