package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalizeEnvKey_UsesExistingCamelCaseKeys(t *testing.T) {
	existing := map[string]any{
		"cache": map[string]any{
			"failOpen": false,
			"breaker": map[string]any{
				"minRequests": 10,
			},
		},
		"blob": map[string]any{
			"publicBaseURL": "",
		},
	}

	tests := []struct {
		envKey string
		want   string
	}{
		{envKey: "CACHE_FAILOPEN", want: "cache.failOpen"},
		{envKey: "CACHE_BREAKER_MINREQUESTS", want: "cache.breaker.minRequests"},
		{envKey: "BLOB_PUBLICBASEURL", want: "blob.publicBaseURL"},
		{envKey: "NEW_FEATURE_FLAG", want: "new.feature.flag"},
	}

	for _, tt := range tests {
		t.Run(tt.envKey, func(t *testing.T) {
			assert.Equal(t, tt.want, canonicalizeEnvKey(tt.envKey, existing))
		})
	}
}

func TestLoadWithEnv_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	data, err := os.ReadFile("config.yaml")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test.yaml"), data, 0o600))

	t.Setenv("CACHE_DRIVER", "redis")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("MYSQL_DSN", "user:pw@tcp(db:3306)/shop?parseTime=true")

	pwd, err := os.Getwd()
	require.NoError(t, err)
	rel, err := filepath.Rel(pwd, dir)
	require.NoError(t, err)

	cfg, err := LoadWithEnv[Config]("test", rel)
	require.NoError(t, err)
	require.NoError(t, cfg.normalize())

	assert.Equal(t, CacheDriverRedis, cfg.Cache.Driver)
	assert.Equal(t, 90*time.Second, cfg.Cache.TTL)
	assert.Equal(t, "user:pw@tcp(db:3306)/shop?parseTime=true", cfg.MySQL.DSN)
	assert.Equal(t, 8, cfg.Product.PerPage)
	assert.Equal(t, 10*time.Second, cfg.Cache.Breaker.Timeout)
}

func TestNormalize_RejectsUnknownDriver(t *testing.T) {
	cfg := &Config{}
	cfg.Cache.Driver = "memcached"
	assert.Error(t, cfg.normalize())

	cfg.Cache.Driver = ""
	require.NoError(t, cfg.normalize())
	assert.Equal(t, CacheDriverMemory, cfg.Cache.Driver)
	assert.Equal(t, StoreDriverMySQL, cfg.Store.Driver)

	cfg.Store.Driver = "mongo"
	assert.Error(t, cfg.normalize())
}
