package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseEnv() map[string]string {
	return map[string]string{
		"MASTER_DATABASE_URL": "postgres://pos@localhost:5432/pos_master",
		"TENANT_DATABASE_URL": "postgres://pos@localhost:5432/template1",
		"JWT_SECRET":          "secret",
	}
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := parse(env.Options{Environment: baseEnv()})

	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, []string{"*"}, cfg.CORSOrigin)
	assert.Equal(t, int32(10), cfg.TenantPoolMaxConns)
	assert.Equal(t, 5*time.Minute, cfg.TenantCacheTTL)
	assert.Equal(t, 12*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 30*time.Minute, cfg.LowStockInterval)
	assert.Equal(t, "pos-images", cfg.MinioBucket)
	assert.False(t, cfg.StrictStock)
	assert.Empty(t, cfg.DefaultTenantDB)
}

func TestParse_Overrides(t *testing.T) {
	vars := baseEnv()
	vars["PORT"] = "9090"
	vars["STRICT_STOCK"] = "true"
	vars["DEFAULT_TENANT_DB"] = "pos_default"
	vars["CORS_ORIGIN"] = "https://a.example,https://b.example"
	vars["LOW_STOCK_INTERVAL"] = "1m"

	cfg, err := parse(env.Options{Environment: vars})

	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr())
	assert.True(t, cfg.StrictStock)
	assert.Equal(t, "pos_default", cfg.DefaultTenantDB)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigin)
	assert.Equal(t, time.Minute, cfg.LowStockInterval)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]string)
	}{
		{"missing master url", func(m map[string]string) { delete(m, "MASTER_DATABASE_URL") }},
		{"missing tenant url", func(m map[string]string) { delete(m, "TENANT_DATABASE_URL") }},
		{"no token verifier", func(m map[string]string) { delete(m, "JWT_SECRET") }},
		{"bad duration", func(m map[string]string) { m["JWT_TTL"] = "soon" }},
		{"zero pool size", func(m map[string]string) { m["TENANT_POOL_MAX_CONNS"] = "0" }},
		{"minio without keys", func(m map[string]string) { m["MINIO_ENDPOINT"] = "localhost:9000" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vars := baseEnv()
			tt.mutate(vars)

			cfg, err := parse(env.Options{Environment: vars})

			assert.Nil(t, cfg)
			assert.Error(t, err)
		})
	}
}
