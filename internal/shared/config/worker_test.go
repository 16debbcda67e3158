package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadWorker_Defaults(t *testing.T) {
	cfg, err := LoadWorker("")
	require.NoError(t, err)

	require.Equal(t, ":7070", cfg.Server.Addr)
	require.Equal(t, 30*time.Second, cfg.Server.KeepaliveMinTime)
	require.Equal(t, "info", cfg.Logging.Level)
	require.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadWorker_FromFile(t *testing.T) {
	content := `
server:
  addr: ":9090"
  keepalive_min_time: 10s
logging:
  level: debug
  format: text
`
	path := filepath.Join(t.TempDir(), "worker.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadWorker(path)
	require.NoError(t, err)

	require.Equal(t, ":9090", cfg.Server.Addr)
	require.Equal(t, 10*time.Second, cfg.Server.KeepaliveMinTime)
	require.Equal(t, "debug", cfg.Logging.Level)
	require.Equal(t, "text", cfg.Logging.Format)
}

func TestLoadWorker_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("GRIDEXEC_WORKER_SERVER_ADDR", ":8080")
	t.Setenv("GRIDEXEC_WORKER_LOGGING_LEVEL", "warn")

	cfg, err := LoadWorker("")
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.Server.Addr)
	require.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadWorker_MissingExplicitFile(t *testing.T) {
	_, err := LoadWorker(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
