package syncctl

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"gitlab.com/cfmirror.net/internal/core/ports/primary"
	"gitlab.com/cfmirror.net/internal/core/services/sync"
)

// Handler exposes manual control over the sync engine
type Handler struct {
	syncService sync.ISyncService
	logger      primary.Logger
}

func NewHandler(syncService sync.ISyncService, logger primary.Logger) *Handler {
	return &Handler{
		syncService: syncService,
		logger:      logger,
	}
}

// RegisterRoutes registers the API routes for Handler
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/sync/run", h.RunCycle).Methods("POST")
	router.HandleFunc("/sync/clear-caches", h.ClearCachesAndRun).Methods("POST")
	router.HandleFunc("/sync/status", h.Status).Methods("GET")
}

type cycleResponse struct {
	Outcome sync.Outcome `json:"outcome"`
}

// RunCycle triggers one sync cycle. A cycle already in flight makes this a
// no-op reported through the outcome, not an error.
func (h *Handler) RunCycle(w http.ResponseWriter, r *http.Request) {
	outcome := h.syncService.RunCycle(r.Context())
	h.logger.Info("Manual cycle requested", "outcome", outcome)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(cycleResponse{Outcome: outcome})
}

// ClearCachesAndRun drops the content caches and runs a cycle
func (h *Handler) ClearCachesAndRun(w http.ResponseWriter, r *http.Request) {
	outcome := h.syncService.ClearCachesAndRun(r.Context())
	h.logger.Info("Cache clear requested", "outcome", outcome)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(cycleResponse{Outcome: outcome})
}

// Status reports the most recent cycle
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.syncService.Status())
}
