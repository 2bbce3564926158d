package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/yukikurage/org-management-api/internal/auth"
	"github.com/yukikurage/org-management-api/internal/config"
	"github.com/yukikurage/org-management-api/internal/constants"
	"github.com/yukikurage/org-management-api/internal/database"
	"github.com/yukikurage/org-management-api/internal/handlers"
	"github.com/yukikurage/org-management-api/internal/logger"
	"github.com/yukikurage/org-management-api/internal/repository"
	"github.com/yukikurage/org-management-api/internal/services"
	"github.com/yukikurage/org-management-api/internal/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	baseLogger := logger.Setup(!cfg.IsProduction())
	gin.SetMode(cfg.GinMode)

	tel, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("telemetry shutdown failed")
		}
	}()

	// Connect to database
	db, err := database.Connect(cfg.DB, !cfg.IsProduction())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	if err := handlers.RegisterValidators(); err != nil {
		log.Fatal().Err(err).Msg("failed to register validators")
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	r.Use(logger.Middleware(baseLogger))

	// Setup session middleware with Redis
	store, err := redisStore.NewStore(
		10,                             // Redis pool size
		"tcp",                          // network type
		cfg.Redis.Addr(),               // Redis address from config
		"",                             // username (empty for default user)
		cfg.Redis.Password,             // password (empty = no password)
		[]byte(cfg.Auth.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create Redis store")
	}
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	invitationRepo := repository.NewInvitationRepository(db)
	projectRepo := repository.NewProjectRepository(db)

	notifier := services.NewNotifier(cfg.Mail)
	if !cfg.Mail.Enabled() {
		log.Warn().Msg("mailgun is not configured; invitation links must be shared manually")
	}

	handlers.RegisterRoutes(r, handlers.Services{
		Auth:          services.NewAuthService(userRepo, auth.NewTokenIssuer(cfg.Auth)),
		Organizations: services.NewOrganizationService(orgRepo),
		Invitations:   services.NewInvitationService(invitationRepo, userRepo, orgRepo, notifier, cfg.FrontendBaseURL),
		Members:       services.NewMembershipService(userRepo, orgRepo),
		Projects:      services.NewProjectService(projectRepo, userRepo, orgRepo),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}
