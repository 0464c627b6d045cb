package catalog

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/georgemunganga/bazaar-ledger/internal/ledger"
	"github.com/georgemunganga/bazaar-ledger/internal/metrics"
	"github.com/georgemunganga/bazaar-ledger/internal/modules/registry"
	"github.com/georgemunganga/bazaar-ledger/internal/store"
)

const module = "catalog"

// Service defines catalog business logic.
type Service interface {
	// CreateProduct lists a product for a verified seller under the next id.
	CreateProduct(ctx context.Context, req CreateProductRequest) (*Product, error)
	GetProduct(ctx context.Context, seller ledger.Address, id uint64) (*Product, error)
	ListProducts(ctx context.Context, seller ledger.Address) ([]*Product, error)
	UpdatePrice(ctx context.Context, seller ledger.Address, id uint64, req UpdatePriceRequest) (*Product, error)
}

type service struct {
	store store.Store
	env   *ledger.Env
	cfg   Config
	log   logrus.FieldLogger
}

// NewService creates a new catalog service.
func NewService(st store.Store, env *ledger.Env, cfg Config, log logrus.FieldLogger) Service {
	return &service{store: st, env: env, cfg: cfg, log: log.WithField("module", module)}
}

func (s *service) validate(req CreateProductRequest) error {
	name := strings.TrimSpace(req.Name)
	if name == "" || utf8.RuneCountInString(name) > MaxNameLen {
		return ErrInvalidName
	}
	desc := strings.TrimSpace(req.Description)
	if desc == "" || utf8.RuneCountInString(desc) > s.cfg.MaxDescriptionLen {
		return ErrInvalidDescription
	}
	if req.Price == 0 {
		return ErrInvalidPrice
	}
	if req.WeightPounds == 0 {
		return ErrInvalidWeight
	}
	if !req.Condition.Valid() {
		return ErrInvalidCondition
	}
	if len(req.Images) == 0 || len(req.Images) > s.cfg.MaxImages {
		return ErrInvalidImageCount
	}
	return nil
}

func (s *service) CreateProduct(ctx context.Context, req CreateProductRequest) (p *Product, err error) {
	defer metrics.Observe(module, "create_product", time.Now(), &err)

	if err := ledger.RequireAuth(ctx, req.Seller); err != nil {
		return nil, err
	}
	if err := s.validate(req); err != nil {
		return nil, err
	}

	var committed logrus.Fields
	err = s.store.Update(ctx, func(tx store.Txn) error {
		verified, err := registry.IsVerified(tx, req.Seller)
		if err != nil {
			return err
		}
		if !verified {
			return ErrSellerNotVerified
		}

		ids, err := loadProductList(tx, req.Seller)
		if err != nil {
			return err
		}
		p = &Product{
			ID:           uint64(len(ids)) + 1,
			Seller:       req.Seller,
			Name:         strings.TrimSpace(req.Name),
			Description:  strings.TrimSpace(req.Description),
			Price:        req.Price,
			Condition:    req.Condition,
			Stock:        req.Stock,
			Images:       req.Images,
			WeightPounds: req.WeightPounds,
			Verified:     true,
			ListedAt:     s.env.Now(),
		}
		if err := SaveProduct(tx, p); err != nil {
			return err
		}
		if err := saveProductList(tx, req.Seller, append(ids, p.ID)); err != nil {
			return err
		}
		committed = logrus.Fields{
			"txn":        tx.ID(),
			"seller":     p.Seller,
			"product_id": p.ID,
			"stock":      p.Stock,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(committed).Info("product listed")
	return p, nil
}

func (s *service) GetProduct(ctx context.Context, seller ledger.Address, id uint64) (*Product, error) {
	var p *Product
	err := s.store.View(ctx, func(tx store.Txn) error {
		var err error
		p, err = LoadProduct(tx, seller, id)
		return err
	})
	return p, err
}

func (s *service) ListProducts(ctx context.Context, seller ledger.Address) ([]*Product, error) {
	products := []*Product{}
	err := s.store.View(ctx, func(tx store.Txn) error {
		ids, err := loadProductList(tx, seller)
		if err != nil {
			return err
		}
		for _, id := range ids {
			p, err := LoadProduct(tx, seller, id)
			if err != nil {
				return err
			}
			products = append(products, p)
		}
		return nil
	})
	return products, err
}

func (s *service) UpdatePrice(ctx context.Context, seller ledger.Address, id uint64, req UpdatePriceRequest) (p *Product, err error) {
	defer metrics.Observe(module, "update_price", time.Now(), &err)

	if err := ledger.RequireAuth(ctx, req.Caller); err != nil {
		return nil, err
	}
	if req.Caller != seller {
		return nil, ErrUnauthorized
	}
	if req.Price == 0 {
		return nil, ErrInvalidPrice
	}

	var committed logrus.Fields
	err = s.store.Update(ctx, func(tx store.Txn) error {
		p, err = LoadProduct(tx, seller, id)
		if err != nil {
			return err
		}
		p.Price = req.Price
		if err := SaveProduct(tx, p); err != nil {
			return err
		}
		committed = logrus.Fields{"txn": tx.ID(), "seller": p.Seller, "product_id": p.ID, "price": p.Price}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(committed).Info("product repriced")
	return p, nil
}
