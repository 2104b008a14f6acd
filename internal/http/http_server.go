package http

// this is entry point of the http request handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"

	"gitlab.com/cfmirror.net/internal/config"
	"gitlab.com/cfmirror.net/internal/core/ports/primary"
	"gitlab.com/cfmirror.net/internal/core/ports/secondary"
	"gitlab.com/cfmirror.net/internal/core/services/sync"
	"gitlab.com/cfmirror.net/internal/handlers"
	"gitlab.com/cfmirror.net/internal/handlers/auth"
	"gitlab.com/cfmirror.net/internal/handlers/settings"
	"gitlab.com/cfmirror.net/internal/handlers/syncctl"
)

type ServiceProvider struct {
	syncService   sync.ISyncService
	settingsStore secondary.SettingsStore
	accountSource secondary.AccountSource
	tokenService  primary.TokenService
	authConfig    *config.AuthConfig
}

func NewServiceProvider(
	syncService sync.ISyncService,
	settingsStore secondary.SettingsStore,
	accountSource secondary.AccountSource,
	tokenService primary.TokenService,
	authConfig *config.AuthConfig,
) *ServiceProvider {
	return &ServiceProvider{
		syncService:   syncService,
		settingsStore: settingsStore,
		accountSource: accountSource,
		tokenService:  tokenService,
		authConfig:    authConfig,
	}
}

type Server struct {
	router          *mux.Router
	srv             *http.Server
	Port            int
	ServiceName     string
	ServiceProvider ServiceProvider
	logger          primary.Logger
}

func NewServer(port int, serviceName string, serviceProvider ServiceProvider, logger primary.Logger) *Server {
	return &Server{
		Port:            port,
		ServiceName:     serviceName,
		ServiceProvider: serviceProvider,
		logger:          logger,
	}
}

func (s *Server) Init() error {
	r := mux.NewRouter()

	auth.NewHandler(s.ServiceProvider.tokenService, s.ServiceProvider.authConfig, s.logger).
		RegisterRoutes(r)

	// Everything under /api requires a bearer token
	api := r.PathPrefix("/api").Subrouter()
	api.Use(handlers.New(s.ServiceProvider.authConfig).JWTMiddleware)

	syncctl.NewHandler(s.ServiceProvider.syncService, s.logger).RegisterRoutes(api)
	settings.NewHandler(s.ServiceProvider.settingsStore, s.ServiceProvider.accountSource, s.logger).
		RegisterRoutes(api)

	s.router = r
	return nil
}

func (s *Server) Start(ctx context.Context) {
	// Set up server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	s.srv = srv

	// Start the server in a goroutine
	go func() {
		s.logger.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

}

func (s *Server) Stop() {
	s.logger.Info("Shutting down http server...")
	if s.srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(ctx)
	}
}
