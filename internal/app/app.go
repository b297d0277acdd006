package app

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"glimpse/internal/api"
	"glimpse/internal/artifact"
	"glimpse/internal/config"
	"glimpse/internal/database"
	"glimpse/internal/llm"
	"glimpse/internal/repository"
	"glimpse/internal/service"
)

// App bundles the wired application so tests can construct it without
// starting the listener.
type App struct {
	Server *http.Server
	DB     *sql.DB // nil unless the sqlite backend is selected
}

// NewApp wires repository, artifact store, provider, service, and router
// from the given configuration.
func NewApp(cfg *config.Config) (*App, error) {
	var repo repository.Repository
	var db *sql.DB

	switch cfg.Storage {
	case config.StorageSQLite:
		var err error
		db, err = database.InitDB(cfg.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		repo = repository.NewSQLiteRepository(db)
		slog.Info("Using SQLite session storage", "path", cfg.DatabasePath)
	case config.StorageFile:
		var err error
		repo, err = repository.NewFileRepository(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize session storage: %w", err)
		}
		slog.Info("Using file session storage", "dir", cfg.DataDir)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}

	if cfg.GeminiAPIKey == "" {
		// Not fatal: the key's absence is reported on each stream attempt
		// instead of preventing session management from working.
		slog.Warn("GEMINI_API_KEY is not set; generation requests will fail")
	}

	artifacts := artifact.NewStore(cfg.ArtifactsDir)
	provider := llm.NewGeminiProvider(cfg.GeminiAPIKey)
	chatService := service.NewChatService(repo, provider, artifacts, cfg.GeminiModel)

	sessionHandler := api.NewSessionHandler(chatService)
	router := api.NewRouter(sessionHandler)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.AppPort),
		Handler:           router,
		ReadHeaderTimeout: 20 * time.Second,
		WriteTimeout:      0, // Disabled for the streaming endpoint
		IdleTimeout:       120 * time.Second,
	}

	return &App{Server: server, DB: db}, nil
}

func Run() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		// slog is not yet configured, so use the default handler for this
		// critical error.
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	setupLogger(cfg.LogLevel)
	logConfigSource()

	app, err := NewApp(cfg)
	if err != nil {
		slog.Error("Failed to initialize application", "error", err)
		return 1
	}
	if app.DB != nil {
		defer func() {
			if err := app.DB.Close(); err != nil {
				slog.Error("Failed to close database connection", "error", err)
			}
		}()
	}

	slog.Info("Starting server", "port", cfg.AppPort, "model", cfg.GeminiModel)
	if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server failed", "error", err)
		return 1
	}

	return 0
}

func logConfigSource() {
	configFileUsed := viper.ConfigFileUsed()
	if configFileUsed != "" {
		slog.Info("Successfully loaded configuration from file.", "file", configFileUsed)
	} else {
		slog.Info("Configuration file not found. Using environment variables and defaults.")
	}
}

func setupLogger(logLevel string) {
	var level slog.Level
	switch strings.ToUpper(logLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}
