package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(configPathEnv, "")
	t.Setenv(apiBaseEnv, "")
	t.Setenv(downloadDirEnv, "")
	t.Setenv(logLevelEnv, "")
	t.Setenv(ledgerDSNEnv, "")

	cfg := Load()
	require.Equal(t, "http://127.0.0.1:8000", cfg.API.BaseURL)
	require.Equal(t, "info", cfg.Logging.Level)
	require.Empty(t, cfg.Ledger.DSN)
	require.NotEmpty(t, cfg.Downloads.Dir)
}

func TestEnvOverridesWinOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gapdesk.yaml")
	file := `
api:
  baseUrl: http://file.example:9000
downloads:
  dir: /tmp/from-file
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(file), 0o644))

	t.Setenv(configPathEnv, path)
	t.Setenv(apiBaseEnv, "http://env.example:8001")
	t.Setenv(downloadDirEnv, "")
	t.Setenv(logLevelEnv, "")
	t.Setenv(ledgerDSNEnv, "")

	cfg := Load()
	require.Equal(t, "http://env.example:8001", cfg.API.BaseURL)
	require.Equal(t, "/tmp/from-file", cfg.Downloads.Dir)
	require.Equal(t, "debug", cfg.Logging.Level)
}

func TestUnreadableFileFallsBackToDefaults(t *testing.T) {
	t.Setenv(configPathEnv, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv(apiBaseEnv, "")
	t.Setenv(downloadDirEnv, "")
	t.Setenv(logLevelEnv, "")
	t.Setenv(ledgerDSNEnv, "")

	cfg := Load()
	require.Equal(t, "http://127.0.0.1:8000", cfg.API.BaseURL)
}
