package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"

	adapthttp "carelink/internal/adapter/http"
	"carelink/internal/adapter/postgres"
	credis "carelink/internal/adapter/redis"
	"carelink/internal/app"
	"carelink/internal/config"
	"carelink/internal/logger"
	"carelink/internal/notify"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if cfg.DatabaseURL == "" {
		zl.Fatal("DATABASE_URL is required")
	}

	db, err := postgres.Open(cfg.DatabaseURL)
	if err != nil {
		zl.Fatal("db open", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	var cache app.StatusCache
	if cfg.Redis.Addr != "" {
		rc, err := credis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			zl.Fatal("redis connect", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		defer func() { _ = rc.Close() }()
		cache = rc
		zl.Info("status cache enabled", zap.String("addr", cfg.Redis.Addr))
	}

	var notifier app.Notifier
	if url := cfg.Webhook.URL(); url != "" {
		notifier = notify.NewWebhook(url, zl)
		zl.Info("alert webhook enabled")
	}

	sessionRepo := postgres.NewSessionRepo(db)

	thresholdSvc := app.NewThresholdService(db, zl)
	healthSvc := app.NewHealthService(db, db, thresholdSvc, cache, notifier, cfg.Sim.Seed, zl)
	alertSvc := app.NewAlertService(db, cache, notifier)
	checkinSvc := app.NewCheckinService(db, cache, notifier)
	reminderSvc := app.NewReminderService(db)
	profileSvc := app.NewProfileService(db)
	authSvc := app.NewAuthService(db, sessionRepo)

	oidcConfig := adapthttp.OIDCConfig{}
	if cfg.OIDC.Enabled {
		provider, err := oidc.NewProvider(context.Background(), cfg.OIDC.Issuer)
		if err != nil {
			zl.Fatal("oidc provider", zap.String("issuer", cfg.OIDC.Issuer), zap.Error(err))
		}
		oidcConfig = adapthttp.OIDCConfig{
			Enabled:  true,
			Provider: provider,
			OAuth2Config: oauth2.Config{
				ClientID:     cfg.OIDC.ClientID,
				ClientSecret: cfg.OIDC.ClientSecret(),
				RedirectURL:  cfg.OIDC.RedirectURL,
				Endpoint:     provider.Endpoint(),
				Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
			},
		}
		zl.Info("sso enabled", zap.String("issuer", cfg.OIDC.Issuer))
	}

	h := adapthttp.New(healthSvc, alertSvc, checkinSvc, reminderSvc,
		thresholdSvc, profileSvc, authSvc, cfg.Auth.Enabled, oidcConfig, zl).Handler()

	zl.Info("listening", zap.String("addr", cfg.Addr))
	if err := http.ListenAndServe(cfg.Addr, h); err != nil && !errors.Is(err, http.ErrServerClosed) {
		zl.Fatal("server", zap.Error(err))
	}
}
