package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillswap/signaling/internal/core"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.App.Address)
	assert.Equal(t, core.DevelopmentEnv, cfg.App.Env)
	assert.Equal(t, int64(64*1024), cfg.App.MaxMessageSize)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 5*time.Second, cfg.AuthService.Timeout)
}

func TestLoadFromFile(t *testing.T) {
	viper.Reset()

	content := []byte(`
app:
  address: ":9090"
  env: production
redis:
  addr: "redis:6379"
  db: 3
auth_service:
  addr: "auth:50051"
`)
	path := filepath.Join(t.TempDir(), "signaling.yml")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.App.Address)
	assert.True(t, cfg.App.Env.IsProduction())
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, "auth:50051", cfg.AuthService.Addr)
	// untouched keys keep their defaults
	assert.Equal(t, "nats://127.0.0.1:4222", cfg.Nats.Addr)
}
