package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_1")
	t.Setenv("SUPABASE_JWT_SECRET", "secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.ValidateCheckout())
	require.NoError(t, cfg.ValidateOrders())
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Equal(t, CatalogPostgres, cfg.CatalogBackend)
	assert.Equal(t, 24*time.Hour, cfg.IdempotencyTTL)
	assert.False(t, cfg.Migrate)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("ALLOWED_ORIGINS", "https://kickoff.example, http://localhost:3000,")
	t.Setenv("KAFKA_ADDR", "k1:9092,k2:9092")
	t.Setenv("MIGRATE", "true")
	t.Setenv("RATE_LIMIT_BURST", "3")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://kickoff.example", "http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaAddr)
	assert.True(t, cfg.Migrate)
	assert.Equal(t, 3, cfg.RateLimitBurst)
}

func TestLoadRejectsBadValues(t *testing.T) {
	setRequired(t)
	t.Setenv("IDEMPOTENCY_TTL", "forever")
	_, err := Load()
	assert.Error(t, err)
}

func TestValidateRequiresSecrets(t *testing.T) {
	t.Setenv("STRIPE_SECRET_KEY", "")
	t.Setenv("SUPABASE_JWT_SECRET", "")
	cfg, err := Load()
	require.NoError(t, err)
	assert.ErrorContains(t, cfg.ValidateCheckout(), "STRIPE_SECRET_KEY")
	assert.ErrorContains(t, cfg.ValidateOrders(), "STRIPE_SECRET_KEY")

	t.Setenv("STRIPE_SECRET_KEY", "sk_test_1")
	cfg, err = Load()
	require.NoError(t, err)
	assert.NoError(t, cfg.ValidateCheckout())
	assert.ErrorContains(t, cfg.ValidateOrders(), "SUPABASE_JWT_SECRET")
}

func TestLoadSupabaseBackendNeedsCredentials(t *testing.T) {
	setRequired(t)
	t.Setenv("CATALOG_BACKEND", CatalogSupabase)
	t.Setenv("SUPABASE_URL", "")
	cfg, err := Load()
	require.NoError(t, err)
	assert.ErrorContains(t, cfg.ValidateCheckout(), "SUPABASE_URL")

	t.Setenv("SUPABASE_URL", "https://abc.supabase.co")
	t.Setenv("SUPABASE_ANON_KEY", "anon")
	cfg, err = Load()
	require.NoError(t, err)
	assert.NoError(t, cfg.ValidateCheckout())
}

func TestMigratesCatalog(t *testing.T) {
	assert.False(t, Config{CatalogBackend: CatalogPostgres}.MigratesCatalog())
	assert.True(t, Config{Migrate: true, CatalogBackend: CatalogPostgres}.MigratesCatalog())
	assert.False(t, Config{Migrate: true, CatalogBackend: CatalogSupabase}.MigratesCatalog())
}
