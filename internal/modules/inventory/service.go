package inventory

import (
	"context"
	"math"
	"math/bits"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/georgemunganga/bazaar-ledger/internal/ledger"
	"github.com/georgemunganga/bazaar-ledger/internal/metrics"
	"github.com/georgemunganga/bazaar-ledger/internal/modules/catalog"
	"github.com/georgemunganga/bazaar-ledger/internal/store"
)

const module = "inventory"

// Service moves product stock.
type Service interface {
	// AdjustStock applies a signed delta. Stock never goes negative.
	AdjustStock(ctx context.Context, seller ledger.Address, productID uint64, req AdjustStockRequest) (*catalog.Product, error)
	Purchase(ctx context.Context, seller ledger.Address, productID uint64, req PurchaseRequest) (*Receipt, error)
}

type service struct {
	store store.Store
	env   *ledger.Env
	log   logrus.FieldLogger
}

// NewService creates a new inventory service.
func NewService(st store.Store, env *ledger.Env, log logrus.FieldLogger) Service {
	return &service{store: st, env: env, log: log.WithField("module", module)}
}

func (s *service) AdjustStock(ctx context.Context, seller ledger.Address, productID uint64, req AdjustStockRequest) (p *catalog.Product, err error) {
	defer metrics.Observe(module, "adjust_stock", time.Now(), &err)

	if err := ledger.RequireAuth(ctx, req.Caller); err != nil {
		return nil, err
	}
	if req.Caller != seller {
		return nil, ErrUnauthorized
	}

	var committed logrus.Fields
	err = s.store.Update(ctx, func(tx store.Txn) error {
		p, err = catalog.LoadProduct(tx, seller, productID)
		if err != nil {
			return err
		}
		if req.Delta > math.MaxUint32 {
			return ErrInvalidQuantity
		}
		next := int64(p.Stock) + req.Delta
		switch {
		case next < 0:
			return ErrOutOfStock
		case next > math.MaxUint32:
			return ErrInvalidQuantity
		}
		p.Stock = uint32(next)
		if err := catalog.SaveProduct(tx, p); err != nil {
			return err
		}
		committed = logrus.Fields{
			"txn":        tx.ID(),
			"seller":     seller,
			"product_id": productID,
			"delta":      req.Delta,
			"stock":      p.Stock,
		}
		return nil
	})
	if err != nil {
		s.log.WithError(err).WithField("product_id", productID).Debug("stock adjustment rejected")
		return nil, err
	}
	s.log.WithFields(committed).Info("stock adjusted")
	return p, nil
}

func (s *service) Purchase(ctx context.Context, seller ledger.Address, productID uint64, req PurchaseRequest) (r *Receipt, err error) {
	defer metrics.Observe(module, "purchase", time.Now(), &err)

	if err := ledger.RequireAuth(ctx, req.Buyer); err != nil {
		return nil, err
	}
	if req.Buyer == seller {
		return nil, ErrInvalidBuyer
	}
	if req.Quantity == 0 {
		return nil, ErrInvalidQuantity
	}

	var committed logrus.Fields
	err = s.store.Update(ctx, func(tx store.Txn) error {
		p, err := catalog.LoadProduct(tx, seller, productID)
		if err != nil {
			return err
		}
		if req.Quantity > p.Stock {
			return ErrOutOfStock
		}
		hi, total := bits.Mul64(p.Price, uint64(req.Quantity))
		if hi != 0 {
			return ErrInvalidQuantity
		}

		p.Stock -= req.Quantity
		if err := catalog.SaveProduct(tx, p); err != nil {
			return err
		}
		r = &Receipt{
			Buyer:       req.Buyer,
			Seller:      seller,
			ProductID:   productID,
			Quantity:    req.Quantity,
			UnitPrice:   p.Price,
			Total:       total,
			Remaining:   p.Stock,
			PurchasedAt: s.env.Now(),
		}
		committed = logrus.Fields{
			"txn":        tx.ID(),
			"seller":     seller,
			"buyer":      req.Buyer,
			"product_id": productID,
			"quantity":   req.Quantity,
			"total":      total,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(committed).Info("product purchased")
	return r, nil
}
