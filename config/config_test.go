package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "http://localhost:8080/api/v1", cfg.Remote.BaseURL)
	assert.Equal(t, 5, cfg.Remote.CircuitBreakerThreshold)
	assert.True(t, cfg.Redis.Disabled)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_DotEnvDoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(
		"HTTP_PORT=9000\nLOG_FORMAT=text\nGRADEPULSE_API_TIMEOUT=2s\n",
	), 0o600))
	t.Setenv("HTTP_PORT", "9100")

	// godotenv sets variables process-wide; undo what the file introduced.
	t.Cleanup(func() {
		os.Unsetenv("LOG_FORMAT")
		os.Unsetenv("GRADEPULSE_API_TIMEOUT")
	})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.HTTP.Port)
	assert.Equal(t, "text", cfg.Observability.LogFormat)
	assert.Equal(t, 2*time.Second, cfg.Remote.RequestTimeout)
}

func TestLoad_PostgresRequiresURL(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORAGE_DRIVER", "postgres")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")

	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "grades")
	t.Setenv("DB_PASSWORD", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://grades:secret@db:5432/gradepulse?sslmode=disable", cfg.Database.URL)
}

func TestValidate(t *testing.T) {
	t.Chdir(t.TempDir())

	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"unknown driver", map[string]string{"STORAGE_DRIVER": "sqlite"}, "STORAGE_DRIVER must be"},
		{"memory in production", map[string]string{"APP_ENV": "production"}, "not allowed in production"},
		{"bad port", map[string]string{"HTTP_PORT": "70000"}, "HTTP_PORT"},
		{"bad log format", map[string]string{"LOG_FORMAT": "xml"}, "LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestGetEnvSlice(t *testing.T) {
	t.Setenv("ORIGINS", " https://a.example , ,https://b.example")
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, getEnvSlice("ORIGINS", nil))
	assert.Equal(t, []string{"x"}, getEnvSlice("UNSET_ORIGINS", []string{"x"}))
}
