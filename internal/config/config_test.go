package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AUTH_SECRET", "s3cret")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, BackendMemory, cfg.StoreBackend)
	assert.Equal(t, uint64(5), cfg.StoreMaxRetries)
	assert.Equal(t, 5, cfg.Catalog.MaxImages)
	assert.Equal(t, 500, cfg.Catalog.MaxDescriptionLen)
	assert.Equal(t, 5*time.Minute, cfg.Auction.ExtensionWindow)
	assert.Equal(t, 5*time.Minute, cfg.Auction.MaxExtension)
	assert.Equal(t, uint32(500), cfg.Shipping.KmPerDay)
	assert.Equal(t, uint32(20000), cfg.Shipping.MaxDistanceKm)
	assert.Equal(t, "bazaar-ledger", cfg.Auth.Issuer)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TTL)
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("AUTH_SECRET", "")
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
}

func TestLoadFromDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(`
AUTH_SECRET=from-file
STORE_BACKEND=leveldb
LEVELDB_PATH=/var/lib/bazaar
AUCTION_EXTENSION_WINDOW=2m
SHIPPING_ALLOWED_ZONES=EU-WEST,US-EAST
RETURNS_RESTRICTED_ZONES=NK
`), 0o600))
	// godotenv never overrides variables that are already set.
	t.Setenv("APP_PORT", "9090")
	for _, key := range []string{"AUTH_SECRET", "STORE_BACKEND", "LEVELDB_PATH", "AUCTION_EXTENSION_WINDOW", "SHIPPING_ALLOWED_ZONES", "RETURNS_RESTRICTED_ZONES"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.AppPort)
	assert.Equal(t, "from-file", cfg.Auth.Secret)
	assert.Equal(t, BackendLevelDB, cfg.StoreBackend)
	assert.Equal(t, "/var/lib/bazaar", cfg.LevelDBPath)
	assert.Equal(t, 2*time.Minute, cfg.Auction.ExtensionWindow)
	assert.Equal(t, []string{"EU-WEST", "US-EAST"}, cfg.Shipping.AllowedZones)
	assert.Equal(t, []string{"NK"}, cfg.Returns.RestrictedZones)
}

func TestValidate(t *testing.T) {
	base := Config{StoreBackend: BackendMemory, LevelDBPath: "./data"}
	base.Catalog.MaxImages, base.Catalog.MaxDescriptionLen = 5, 500
	base.Shipping.KmPerDay = 500
	base.Auth.Secret = "s3cret"
	require.NoError(t, base.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty secret", func(c *Config) { c.Auth.Secret = "" }},
		{"unknown backend", func(c *Config) { c.StoreBackend = "redis" }},
		{"postgres without url", func(c *Config) { c.StoreBackend = BackendPostgres }},
		{"leveldb without path", func(c *Config) { c.StoreBackend = BackendLevelDB; c.LevelDBPath = "" }},
		{"no images", func(c *Config) { c.Catalog.MaxImages = 0 }},
		{"zero speed", func(c *Config) { c.Shipping.KmPerDay = 0 }},
		{"negative window", func(c *Config) { c.Auction.ExtensionWindow = -time.Second }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
