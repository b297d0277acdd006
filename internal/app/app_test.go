package app_test

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glimpse/internal/app"
	"glimpse/internal/config"
)

func baseConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		AppPort:      8081,
		Storage:      config.StorageFile,
		DataDir:      filepath.Join(dir, "sessions"),
		DatabasePath: filepath.Join(dir, "glimpse.db"),
		ArtifactsDir: filepath.Join(dir, "artifacts"),
		GeminiModel:  "gemini-2.0-flash-exp",
		LogLevel:     "ERROR",
	}
}

func TestNewApp_FileStorage(t *testing.T) {
	application, err := app.NewApp(baseConfig(t))
	require.NoError(t, err)
	require.NotNil(t, application.Server)
	assert.Equal(t, ":8081", application.Server.Addr)
	assert.Nil(t, application.DB)

	// The wired router serves requests end to end without the listener.
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	application.Server.Handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/sessions", nil)
	rr = httptest.NewRecorder()
	application.Server.Handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusCreated, rr.Code)
}

func TestNewApp_SQLiteStorage(t *testing.T) {
	cfg := baseConfig(t)
	cfg.Storage = config.StorageSQLite

	application, err := app.NewApp(cfg)
	require.NoError(t, err)
	require.NotNil(t, application.DB)
	t.Cleanup(func() { _ = application.DB.Close() })

	require.NoError(t, application.DB.Ping())

	// Migrations ran, so the sessions table is queryable.
	var count int
	require.NoError(t, application.DB.QueryRow("SELECT COUNT(*) FROM sessions").Scan(&count))
	assert.Equal(t, 0, count)
}

func TestNewApp_UnknownStorage(t *testing.T) {
	cfg := baseConfig(t)
	cfg.Storage = "redis"

	_, err := app.NewApp(cfg)
	assert.ErrorContains(t, err, "unknown storage backend")
}
