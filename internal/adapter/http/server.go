// Package adapthttp implements the HTTP adapter for the application.
package adapthttp

import (
	"net/http"

	"carelink/internal/app"

	"github.com/coreos/go-oidc/v3/oidc"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// OIDCConfig carries the wired SSO provider. Enabled is false when no
// provider is configured.
type OIDCConfig struct {
	Enabled      bool
	Provider     *oidc.Provider
	OAuth2Config oauth2.Config
}

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	health     *app.HealthService
	alerts     *app.AlertService
	checkins   *app.CheckinService
	reminders  *app.ReminderService
	thresholds *app.ThresholdService
	profiles   *app.ProfileService
	authSvc    *app.AuthService

	authEnabled bool
	oidcConfig  OIDCConfig
	logger      *zap.Logger
}

// New creates a Server wired to the given application services.
func New(
	health *app.HealthService,
	alerts *app.AlertService,
	checkins *app.CheckinService,
	reminders *app.ReminderService,
	thresholds *app.ThresholdService,
	profiles *app.ProfileService,
	authSvc *app.AuthService,
	authEnabled bool,
	oidcConfig OIDCConfig,
	logger *zap.Logger,
) *Server {
	return &Server{
		health:      health,
		alerts:      alerts,
		checkins:    checkins,
		reminders:   reminders,
		thresholds:  thresholds,
		profiles:    profiles,
		authSvc:     authSvc,
		authEnabled: authEnabled,
		oidcConfig:  oidcConfig,
		logger:      logger,
	}
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	api.HandleFunc("POST /health/data", s.handleIngestSample)
	api.HandleFunc("GET /health/data", s.handleListSamples)
	api.HandleFunc("POST /health/simulate", s.handleSimulate)
	api.HandleFunc("GET /status", s.handleStatus)

	api.HandleFunc("GET /alerts", s.handleListAlerts)
	api.HandleFunc("POST /alerts/create", s.handleCreateAlert)
	api.HandleFunc("POST /alerts/{id}/dismiss", s.handleDismissAlert)
	api.HandleFunc("POST /alerts/{id}/acknowledge", s.handleAcknowledgeAlert)
	api.HandleFunc("DELETE /alerts/{id}", s.handleDeleteAlert)

	api.HandleFunc("POST /questions/response", s.handleQuestionResponse)
	api.HandleFunc("GET /questions", s.handleListQuestions)

	api.HandleFunc("GET /user_profile/{user_id}", s.handleGetProfile)
	api.HandleFunc("PUT /user_profile/{user_id}", s.handleUpdateProfile)
	api.HandleFunc("GET /thresholds", s.handleGetThresholds)

	api.HandleFunc("GET /reminders", s.handleListReminders)
	api.HandleFunc("POST /reminders", s.handleCreateReminder)
	api.HandleFunc("PUT /reminders/{id}", s.handleUpdateReminder)
	api.HandleFunc("PUT /reminders/{id}/complete", s.handleCompleteReminder)
	api.HandleFunc("DELETE /reminders/{id}", s.handleDeleteReminder)

	protected := s.authMiddleware(api)

	// Auth endpoints stay outside the session check.
	root := http.NewServeMux()
	root.HandleFunc("POST /api/auth/login", s.handleLogin)
	root.HandleFunc("POST /api/auth/logout", s.handleLogout)
	root.HandleFunc("POST /api/auth/setup", s.handleSetup)
	root.HandleFunc("GET /api/auth/sso/login", s.handleSSOLogin)
	root.HandleFunc("GET /api/auth/sso/callback", s.handleSSOCallback)
	root.HandleFunc("GET /api/config", s.handleConfig)
	root.Handle("/api/", http.StripPrefix("/api", protected))

	return s.loggingMiddleware(withNoCache(root))
}
