package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points ENV_FILE at a missing file and clears the variables Load reads.
func isolate(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	for _, k := range []string{"PORT", "DATABASE_URL", "SEED_FILE", "SCENARIO", "CORS_ORIGINS",
		"GEMINI_API_KEY", "GEMINI_MODEL", "ADVICE_ENDPOINT", "ADVICE_TIMEOUT"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(nil)

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "goals.db", cfg.DatabaseURL)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:8080"}, cfg.CORSOrigins)
	assert.Equal(t, 20*time.Second, cfg.AdviceTimeout)
	assert.False(t, cfg.UsesPostgres())
}

func TestLoad_EnvironmentThenFlags(t *testing.T) {
	isolate(t)
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/goals")
	t.Setenv("CORS_ORIGINS", " https://a.example , ,https://b.example")

	cfg, err := Load([]string{"-port", "7070", "-scenario", "demo"})

	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Port, "flag wins over environment")
	assert.Equal(t, "demo", cfg.Scenario)
	assert.True(t, cfg.UsesPostgres())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestLoad_DotEnvFile(t *testing.T) {
	isolate(t)
	envFile := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("GEMINI_API_KEY=from-file\nADVICE_TIMEOUT=5s\n"), 0o600))
	t.Setenv("ENV_FILE", envFile)

	cfg, err := Load(nil)

	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.AdviceAPIKey)
	assert.Equal(t, 5*time.Second, cfg.AdviceTimeout)

	// godotenv sets process variables; clean up for other tests
	os.Unsetenv("GEMINI_API_KEY")
	os.Unsetenv("ADVICE_TIMEOUT")
}

func TestLoad_InvalidPort(t *testing.T) {
	isolate(t)

	_, err := Load([]string{"-port", "70000"})

	assert.ErrorContains(t, err, "invalid port")
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"a", "b"}, splitList("a, b,"))
}
