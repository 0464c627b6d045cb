// Package market wires every marketplace component over a single store.
package market

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/georgemunganga/bazaar-ledger/internal/config"
	"github.com/georgemunganga/bazaar-ledger/internal/ledger"
	"github.com/georgemunganga/bazaar-ledger/internal/modules/auction"
	"github.com/georgemunganga/bazaar-ledger/internal/modules/catalog"
	"github.com/georgemunganga/bazaar-ledger/internal/modules/dispute"
	"github.com/georgemunganga/bazaar-ledger/internal/modules/inventory"
	"github.com/georgemunganga/bazaar-ledger/internal/modules/registry"
	"github.com/georgemunganga/bazaar-ledger/internal/modules/returns"
	"github.com/georgemunganga/bazaar-ledger/internal/modules/shipping"
	"github.com/georgemunganga/bazaar-ledger/internal/store"
)

// Config carries the per-component policy.
type Config struct {
	Catalog  catalog.Config
	Auction  auction.Config
	Shipping shipping.Config
	Returns  returns.Config
}

// FromConfig extracts the component policy from the process configuration.
func FromConfig(cfg *config.Config) Config {
	return Config{
		Catalog:  cfg.Catalog,
		Auction:  cfg.Auction,
		Shipping: cfg.Shipping,
		Returns:  cfg.Returns,
	}
}

// Market is the marketplace contract: every component, sharing one store.
type Market struct {
	Registry  registry.Service
	Catalog   catalog.Service
	Inventory inventory.Service
	Auctions  auction.Service
	Shipping  shipping.Service
	Disputes  dispute.Service
	Returns   returns.Service
}

// New builds every component over st.
func New(st store.Store, env *ledger.Env, cfg Config, log logrus.FieldLogger) *Market {
	return &Market{
		Registry:  registry.NewService(st, env, log),
		Catalog:   catalog.NewService(st, env, cfg.Catalog, log),
		Inventory: inventory.NewService(st, env, log),
		Auctions:  auction.NewService(st, env, cfg.Auction, log),
		Shipping:  shipping.NewService(st, env, cfg.Shipping, log),
		Disputes:  dispute.NewService(st, env, log),
		Returns:   returns.NewService(st, env, cfg.Returns, log),
	}
}

// RegisterRoutes mounts every component's HTTP endpoints.
func (m *Market) RegisterRoutes(r *chi.Mux) {
	registry.NewHandler(m.Registry).RegisterRoutes(r)
	catalog.NewHandler(m.Catalog).RegisterRoutes(r)
	inventory.NewHandler(m.Inventory).RegisterRoutes(r)
	auction.NewHandler(m.Auctions).RegisterRoutes(r)
	shipping.NewHandler(m.Shipping).RegisterRoutes(r)
	dispute.NewHandler(m.Disputes).RegisterRoutes(r)
	returns.NewHandler(m.Returns).RegisterRoutes(r)
}

// OpenStore opens the backend named by cfg.StoreBackend.
func OpenStore(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (store.Store, error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		log.Warn("using in-memory store; state is lost on restart")
		return store.NewMemory(), nil
	case config.BackendLevelDB:
		st, err := store.OpenLevelDB(cfg.LevelDBPath)
		if err != nil {
			return nil, err
		}
		log.WithField("path", cfg.LevelDBPath).Info("opened leveldb store")
		return st, nil
	case config.BackendPostgres:
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("connecting to database: %w", err)
		}
		st, err := store.NewPostgresStore(ctx, db, cfg.StoreMaxRetries)
		if err != nil {
			db.Close()
			return nil, err
		}
		log.Info("connected to postgres store")
		return st, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
