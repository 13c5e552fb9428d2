package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/msomdec/wikitrail/internal/handler"
	"github.com/msomdec/wikitrail/internal/notify"
	"github.com/msomdec/wikitrail/internal/repository/sqlite"
	"github.com/msomdec/wikitrail/internal/service"
	"github.com/msomdec/wikitrail/internal/thumbnail"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logOpts := &slog.HandlerOptions{Level: slog.LevelInfo}
	logger := slog.New(slog.NewTextHandler(os.Stdout, logOpts))
	slog.SetDefault(logger)

	port := envOrDefault("PORT", "8080")
	dbPath := envOrDefault("DATABASE_PATH", "wikitrail.db")
	baseURL := envOrDefault("BASE_URL", "http://localhost:"+port)

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if len(jwtSecret) < 32 {
		slog.Error("JWT_SECRET must be at least 32 characters for HMAC-SHA256 security")
		os.Exit(1)
	}

	// Default to secure cookies; disable only for local development.
	cookieSecure := os.Getenv("COOKIE_SECURE") != "false"

	db, err := sqlite.New(dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database migrations applied")

	magicLinkService := service.NewMagicLinkService(db.MagicTokens())
	identityService := service.NewIdentityService(db.Users())
	sessionService := service.NewSessionService(jwtSecret)
	thumbnailClient := thumbnail.NewClient(thumbnail.DefaultTimeout)
	visitService := service.NewVisitService(db.Users(), db.Visits(), thumbnailClient)

	notifier := buildNotifier()

	authHandler := handler.NewAuthHandler(magicLinkService, identityService, sessionService, db.Users(), notifier, baseURL, cookieSecure)
	visitHandler := handler.NewVisitHandler(visitService)
	profileHandler := handler.NewProfileHandler(db.Users(), visitService)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, authHandler, visitHandler, profileHandler, visitService)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler.RequestLogger(handler.SecurityHeaders(mux)),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// buildNotifier returns an SMTP notifier when SMTP_HOST is configured and
// falls back to logging magic links otherwise.
func buildNotifier() notify.Notifier {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		slog.Info("SMTP not configured, magic links will be logged")
		return notify.LogNotifier{}
	}

	smtpPort := 587
	if v := os.Getenv("SMTP_PORT"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			slog.Error("invalid SMTP_PORT", "error", err)
			os.Exit(1)
		}
		smtpPort = parsed
	}

	return notify.NewSMTPNotifier(notify.SMTPConfig{
		Host:     host,
		Port:     smtpPort,
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     envOrDefault("SMTP_FROM", "onboarding@wikitrail.local"),
	})
}

func envOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
