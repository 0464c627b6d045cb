package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/samber/lo"

	"github.com/georgemunganga/bazaar-ledger/internal/modules/auction"
	"github.com/georgemunganga/bazaar-ledger/internal/modules/auth"
	"github.com/georgemunganga/bazaar-ledger/internal/modules/catalog"
	"github.com/georgemunganga/bazaar-ledger/internal/modules/returns"
	"github.com/georgemunganga/bazaar-ledger/internal/modules/shipping"
)

// Store backends.
const (
	BackendMemory   = "memory"
	BackendLevelDB  = "leveldb"
	BackendPostgres = "postgres"
)

// Config is the process configuration, read from the environment.
type Config struct {
	AppPort         string        `envconfig:"APP_PORT" default:"8080"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat       string        `envconfig:"LOG_FORMAT" default:"text"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"15s"`

	StoreBackend    string `envconfig:"STORE_BACKEND" default:"memory"`
	DatabaseURL     string `envconfig:"DATABASE_URL"`
	LevelDBPath     string `envconfig:"LEVELDB_PATH" default:"./data/ledger"`
	StoreMaxRetries uint64 `envconfig:"STORE_MAX_RETRIES" default:"5"`

	Auth     auth.Config     `envconfig:"AUTH"`
	Catalog  catalog.Config  `envconfig:"CATALOG"`
	Auction  auction.Config  `envconfig:"AUCTION"`
	Shipping shipping.Config `envconfig:"SHIPPING"`
	Returns  returns.Config  `envconfig:"RETURNS"`
}

// Load reads the given .env files (or ./.env), then the environment. Missing
// .env files are ignored; variables already set in the environment win.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings envconfig cannot express.
func (c *Config) Validate() error {
	if c.Auth.Secret == "" {
		return errors.New("AUTH_SECRET must not be empty")
	}
	if !lo.Contains([]string{BackendMemory, BackendLevelDB, BackendPostgres}, c.StoreBackend) {
		return fmt.Errorf("STORE_BACKEND must be one of memory, leveldb, postgres; got %q", c.StoreBackend)
	}
	if c.StoreBackend == BackendPostgres && c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required for the postgres backend")
	}
	if c.StoreBackend == BackendLevelDB && c.LevelDBPath == "" {
		return errors.New("LEVELDB_PATH is required for the leveldb backend")
	}
	if c.Catalog.MaxImages <= 0 || c.Catalog.MaxDescriptionLen <= 0 {
		return errors.New("CATALOG_MAX_IMAGES and CATALOG_MAX_DESCRIPTION_LEN must be positive")
	}
	if c.Shipping.KmPerDay == 0 {
		return errors.New("SHIPPING_KM_PER_DAY must be positive")
	}
	if c.Auction.ExtensionWindow < 0 || c.Auction.ExtensionIncrement < 0 || c.Auction.MaxExtension < 0 {
		return errors.New("auction extension durations must not be negative")
	}
	return nil
}
