package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"

	"github.com/dkravets/verichat/internal/email"
	"github.com/dkravets/verichat/internal/handlers"
	"github.com/dkravets/verichat/internal/logger"
	"github.com/dkravets/verichat/internal/middlewares"
	"github.com/dkravets/verichat/internal/repositories"
	"github.com/dkravets/verichat/internal/services"

	_ "github.com/jackc/pgx/v5/stdlib"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// @title verichat API
// @version 1.0.0
// @description Email-verified single-room chat with polling message delivery
// @host localhost:8080
// @BasePath /
// @schemes http
func main() {
	printBuildInfo()
	configPath := parseFlags()

	appHost, appPort, logLevel, baseURL,
		pgHost, pgPort, pgUser, pgPassword, pgDB,
		pgMaxOpenConns, pgMaxIdleConns,
		smtpHost, smtpPort, smtpFrom, smtpPassword,
		sessionTTLHour,
		err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(),
		appHost, appPort, logLevel, baseURL,
		pgHost, pgPort, pgUser, pgPassword, pgDB,
		pgMaxOpenConns, pgMaxIdleConns,
		smtpHost, smtpPort, smtpFrom, smtpPassword,
		sessionTTLHour,
	); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Starting service version %s, commit %s, build %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// parseConfig loads environment variables from a file and returns all
// application, database, SMTP, and session configuration.
func parseConfig(path string) (
	appHost, appPort, logLevel, baseURL string,
	pgHost string, pgPort int, pgUser, pgPassword, pgDB string,
	pgMaxOpenConns, pgMaxIdleConns int,
	smtpHost, smtpPort, smtpFrom, smtpPassword string,
	sessionTTLHour int,
	err error,
) {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}

	// Application config
	appHost = getEnv("APP_HOST", "localhost")
	appPort = getEnv("APP_PORT", "8080")
	logLevel = getEnv("APP_LOG_LEVEL", "info")
	baseURL = getEnv("APP_BASE_URL", "")

	// PostgreSQL config
	pgHost = getEnv("POSTGRES_HOST", "localhost")
	pgUser = getEnv("POSTGRES_USER", "user")
	pgPassword = getEnv("POSTGRES_PASSWORD", "password")
	pgDB = getEnv("POSTGRES_DB", "database")
	if pgPort, err = strconv.Atoi(getEnv("POSTGRES_PORT", "5432")); err != nil {
		return
	}
	if pgMaxOpenConns, err = strconv.Atoi(getEnv("POSTGRES_MAX_OPEN_CONNS", "16")); err != nil {
		return
	}
	if pgMaxIdleConns, err = strconv.Atoi(getEnv("POSTGRES_MAX_IDLE_CONNS", "8")); err != nil {
		return
	}

	// SMTP config; the password doubles as the "is dispatch configured" flag
	smtpHost = getEnv("SMTP_HOST", "")
	smtpPort = getEnv("SMTP_PORT", "587")
	smtpFrom = getEnv("SMTP_FROM", "")
	smtpPassword = getEnv("SMTP_PASSWORD", "")

	// Session config
	if sessionTTLHour, err = strconv.Atoi(getEnv("SESSION_TTL_HOUR", "720")); err != nil {
		return
	}

	return
}

// run initializes the logger and database, wires repositories, services and
// handlers onto the router, and serves HTTP with graceful shutdown.
func run(ctx context.Context,
	appHost, appPort, logLevel, baseURL string,
	pgHost string, pgPort int, pgUser, pgPassword, pgDB string,
	pgMaxOpenConns, pgMaxIdleConns int,
	smtpHost, smtpPort, smtpFrom, smtpPassword string,
	sessionTTLHour int,
) error {
	// Initialize logger
	if err := logger.Initialize(logLevel); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Sync()
	logger.Log.Infof("Logger initialized with level %s", logLevel)

	// Connect to PostgreSQL
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		pgUser, pgPassword, pgHost, pgPort, pgDB)
	logger.Log.Infof("Connecting to PostgreSQL at %s:%d/%s", pgHost, pgPort, pgDB)

	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		logger.Log.Errorw("PostgreSQL connection error", "err", err)
		return err
	}
	defer db.Close()
	db.SetMaxOpenConns(pgMaxOpenConns)
	db.SetMaxIdleConns(pgMaxIdleConns)
	if err := db.PingContext(ctx); err != nil {
		logger.Log.Errorw("PostgreSQL ping failed", "err", err)
		return err
	}

	// Initialize email dispatcher
	dispatcher := email.New(smtpHost, smtpPort, smtpFrom, smtpPassword, baseURL)

	// Initialize repositories
	userReadRepo := repositories.NewUserReadRepository(db)
	userWriteRepo := repositories.NewUserWriteRepository(db)
	tokenReadRepo := repositories.NewVerificationTokenReadRepository(db)
	tokenWriteRepo := repositories.NewVerificationTokenWriteRepository(db)
	sessionReadRepo := repositories.NewSessionReadRepository(db)
	sessionWriteRepo := repositories.NewSessionWriteRepository(db)
	messageReadRepo := repositories.NewMessageReadRepository(db)
	messageWriteRepo := repositories.NewMessageWriteRepository(db)

	// Initialize services
	sessionService := services.NewSessionService(sessionReadRepo, sessionWriteRepo,
		time.Duration(sessionTTLHour)*time.Hour)
	authService := services.NewAuthService(userReadRepo, userWriteRepo,
		tokenReadRepo, tokenWriteRepo, dispatcher)
	messageService := services.NewMessageService(messageReadRepo, messageWriteRepo)

	// Initialize handlers
	registerHandler := handlers.NewRegisterHandler(authService)
	verifyHandler := handlers.NewVerifyHandler(authService, sessionService)
	loginHandler := handlers.NewLoginHandler(authService, sessionService)
	logoutHandler := handlers.NewLogoutHandler(sessionService)
	userHandler := handlers.NewUserHandler()
	postMessageHandler := handlers.NewPostMessageHandler(messageService)
	listMessagesHandler := handlers.NewListMessagesHandler(messageService)

	// Setup router
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware(logger.Log))

	// Public routes
	r.Post("/api/register", registerHandler)
	r.Get("/verify", verifyHandler)
	r.Post("/api/login", loginHandler)
	r.Post("/api/logout", logoutHandler)
	r.Get("/api/messages", listMessagesHandler)

	// Protected routes behind the session middleware
	authMiddleware := middlewares.AuthMiddleware(sessionService)
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/api/user", userHandler)
		r.Post("/api/messages", postMessageHandler)
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://%s:%s/swagger/doc.json", appHost, appPort)),
	))

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", appHost, appPort),
		Handler: r,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		logger.Log.Infof("HTTP server listening on %s:%s", appHost, appPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		logger.Log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("HTTP server shutdown error", "error", err)
	}

	logger.Log.Info("HTTP server stopped gracefully")
	return nil
}
