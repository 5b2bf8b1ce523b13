package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	appconfig "procure-notify/internal/config"
	pgRepo "procure-notify/internal/infra/adapter/persistence/postgres"
	"procure-notify/internal/infra/db"
	"procure-notify/internal/infra/mailer"
	"procure-notify/internal/infra/push"
	"procure-notify/internal/infra/webhook"
	"procure-notify/internal/repository"

	"procure-notify/internal/usecase/dispatch"
	emailUC "procure-notify/internal/usecase/email"
	notifUC "procure-notify/internal/usecase/notification"
	"procure-notify/internal/usecase/resolve"
	"procure-notify/internal/usecase/webhookevent"

	hhttp "procure-notify/internal/handler/http"
	hauth "procure-notify/internal/handler/http/auth"
	hemail "procure-notify/internal/handler/http/email"
	hnotif "procure-notify/internal/handler/http/notification"
	hpush "procure-notify/internal/handler/http/push"
	hwebhook "procure-notify/internal/handler/http/webhook"
	"procure-notify/internal/handler/http/requestid"
)

const (
	minPasswordLength = 8
	shutdownTimeout   = 5 * time.Second
)

// weakPasswords are rejected for the env-provisioned accounts at login time.
var weakPasswords = []string{"password", "12345678", "admin123", "changeme"}

func main() {
	logger := initLogger()
	validateJWTSecret(logger)
	database := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	version := getVersion()
	components := setupServer(logger, database, version)

	runServer(logger, components, version)
}

// initLogger initializes and returns a structured logger based on environment configuration.
func initLogger() *slog.Logger {
	logLevel := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

// validateJWTSecret enforces a minimum strength for the token signing key.
// The server refuses to start with an empty or trivially guessable secret.
func validateJWTSecret(logger *slog.Logger) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		logger.Error("JWT_SECRET must be set")
		os.Exit(1)
	}
	if len(secret) < 32 {
		logger.Error("JWT_SECRET must be at least 32 characters (256 bits)")
		os.Exit(1)
	}
	weakSecrets := []string{"secret", "password", "test", "admin", "default"}
	for _, weak := range weakSecrets {
		if secret == weak || secret == weak+"123" {
			logger.Error("JWT_SECRET must not be a common weak value", slog.String("weak_value", weak))
			os.Exit(1)
		}
	}
}

// initDatabase opens the database connection and runs migrations.
func initDatabase(logger *slog.Logger) *sql.DB {
	database, err := db.Open(os.Getenv("DATABASE_URL"))
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	if err := db.MigrateUp(database); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}
	return database
}

// getVersion returns the application version from environment or default.
func getVersion() string {
	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	return version
}

// ServerComponents holds the wired handler and the background janitor so
// runServer can manage their lifecycles together.
type ServerComponents struct {
	Handler http.Handler
	Janitor *cron.Cron
}

// setupServer wires repositories, channel transports, use cases and routes.
func setupServer(logger *slog.Logger, database *sql.DB, version string) *ServerComponents {
	subscribers := pgRepo.NewSubscriberRepo(database)
	profiles := pgRepo.NewProfileRepo(database)
	logs := pgRepo.NewDeliveryLogRepo(database)

	resolver := &resolve.Resolver{Profiles: profiles, Subscribers: subscribers}
	dispatcher := &dispatch.Service{Logs: logs}

	// Push channel. A missing VAPID key pair disables the channel but the
	// engine keeps serving the others.
	pushCfg := appconfig.LoadPush()
	sender := push.NewSender(pushCfg)
	sender.OnStale(func(ctx context.Context, subscriberID int64) {
		if err := subscribers.Delete(ctx, subscriberID); err != nil {
			logger.Error("failed to prune stale subscription",
				slog.Int64("subscriber_id", subscriberID),
				slog.Any("error", err))
		}
	})
	if pushCfg.Enabled() {
		logger.Info("push channel enabled")
	} else {
		logger.Warn("push channel disabled: VAPID key pair not configured")
	}

	notifSvc := &notifUC.Service{
		Resolver:    resolver,
		Subscribers: subscribers,
		Sender:      sender,
		Dispatcher:  dispatcher,
	}

	// Email channel. The transport is selected per deployment; both may be
	// unconfigured, in which case email sends answer 503.
	transport := selectEmailTransport(logger)
	emailSvc := &emailUC.Service{
		Resolver:   resolver,
		Transport:  transport,
		Dispatcher: dispatcher,
	}

	// Webhook channel. An unconfigured endpoint is legal and degrades
	// notify calls to a skipped outcome.
	webhookCfg := appconfig.LoadWebhook()
	chatClient := webhook.NewClient(webhookCfg)
	webhookSvc := &webhookevent.Service{Poster: chatClient, Dispatcher: dispatcher}
	if webhookCfg.Configured() {
		logger.Info("webhook channel enabled")
	} else {
		logger.Warn("webhook channel disabled: CHAT_WEBHOOK_URL not set")
	}

	mux := http.NewServeMux()

	provider := hauth.NewEnvProvider(minPasswordLength, weakPasswords)
	mux.Handle("POST /auth/token", hauth.TokenHandler(provider))

	transportName := ""
	if transport != nil {
		transportName = transport.Name()
	}
	mux.Handle("GET /healthz", &hhttp.HealthHandler{
		DB:                database,
		Version:           version,
		PushEnabled:       pushCfg.Enabled(),
		EmailTransport:    transportName,
		WebhookConfigured: webhookCfg.Configured(),
	})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())

	hpush.Register(mux, notifSvc)
	hnotif.Register(mux, notifSvc, logs)
	hemail.Register(mux, emailSvc)
	hwebhook.Register(mux, webhookSvc)

	janitor := startRetentionJanitor(logger, logs)

	return &ServerComponents{
		Handler: applyMiddleware(logger, mux),
		Janitor: janitor,
	}
}

// selectEmailTransport picks the mail transport from EMAIL_TRANSPORT. The
// default "smtp" falls back to the hosted-mailbox transport when only that
// one is configured; nil means no transport at all.
func selectEmailTransport(logger *slog.Logger) mailer.Transport {
	smtpCfg := appconfig.LoadSMTP()
	graphCfg := appconfig.LoadGraph()

	var transport mailer.Transport
	switch mode := os.Getenv("EMAIL_TRANSPORT"); mode {
	case "graph":
		if graphCfg.Enabled() {
			transport = mailer.NewGraphTransport(graphCfg)
		}
	case "", "smtp":
		if smtpCfg.Enabled() {
			transport = mailer.NewSMTPTransport(smtpCfg)
		} else if mode == "" && graphCfg.Enabled() {
			transport = mailer.NewGraphTransport(graphCfg)
		}
	default:
		logger.Error("unknown EMAIL_TRANSPORT value", slog.String("value", mode))
		os.Exit(1)
	}

	if transport == nil {
		logger.Warn("email channel disabled: no transport configured")
	} else {
		logger.Info("email channel enabled", slog.String("transport", transport.Name()))
	}
	return transport
}

// startRetentionJanitor schedules the periodic delivery-log cleanup.
func startRetentionJanitor(logger *slog.Logger, logs repository.DeliveryLogRepository) *cron.Cron {
	retention := appconfig.LoadRetention()

	janitor := cron.New()
	_, err := janitor.AddFunc(retention.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		cutoff := time.Now().UTC().Add(-retention.MaxAge)
		removed, err := logs.DeleteOlderThan(ctx, cutoff)
		if err != nil {
			logger.Error("delivery log cleanup failed", slog.Any("error", err))
			return
		}
		logger.Info("delivery log cleanup finished",
			slog.Int64("removed", removed),
			slog.Time("cutoff", cutoff))
	})
	if err != nil {
		logger.Error("invalid DELIVERY_LOG_CLEANUP_SCHEDULE", slog.Any("error", err))
		os.Exit(1)
	}
	janitor.Start()
	logger.Info("delivery log retention janitor started",
		slog.String("schedule", retention.Schedule),
		slog.Duration("max_age", retention.MaxAge))
	return janitor
}

// applyMiddleware wraps the router with the shared middleware chain,
// applied in reverse order so the first listed runs outermost.
func applyMiddleware(logger *slog.Logger, handler http.Handler) http.Handler {
	chain := handler
	chain = hhttp.MetricsMiddleware(chain)
	chain = hhttp.LimitRequestBody(1 << 20)(chain) // 1MB limit
	chain = hhttp.Logging(logger)(chain)
	chain = hhttp.Recover(logger)(chain)
	chain = requestid.Middleware(chain)
	return chain
}

// runServer starts the HTTP server and handles graceful shutdown.
func runServer(logger *slog.Logger, components *ServerComponents, version string) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              ":8080",
		Handler:           components.Handler,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attacks
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server starting",
			slog.String("addr", srv.Addr),
			slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server...")

		if components.Janitor != nil {
			<-components.Janitor.Stop().Done()
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}
