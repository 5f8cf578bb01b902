package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("JWT_TTL", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	cfg := LoadConfig()
	require.Equal(t, "8080", cfg.Server.Port)
	require.Equal(t, "100-M", cfg.Server.RateLimit)
	require.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)
	require.Equal(t, 168*time.Hour, cfg.Auth.TokenTTL)
	require.Equal(t, "inventory-system", cfg.Auth.Issuer)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("REDIS_CLUSTER_ADDRS", "10.0.0.1:7000,10.0.0.2:7000")

	cfg := LoadConfig()
	require.Equal(t, "9090", cfg.Server.Port)
	require.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	require.Equal(t, 3, cfg.Redis.DB)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	require.Len(t, cfg.Redis.ClusterAddrs, 2)
}

func TestLoadConfigBadTTLFallsBack(t *testing.T) {
	t.Setenv("JWT_TTL", "forever")
	require.Equal(t, 7*24*time.Hour, LoadConfig().Auth.TokenTTL)
}
