package shipping

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/georgemunganga/bazaar-ledger/internal/ledger"
	"github.com/georgemunganga/bazaar-ledger/internal/metrics"
	"github.com/georgemunganga/bazaar-ledger/internal/store"
)

const module = "shipping"

// Service costs and tracks shipments.
type Service interface {
	// QuoteShipment prices a delivery and records it as Pending.
	QuoteShipment(ctx context.Context, seller ledger.Address, req QuoteRequest) (*Shipment, error)
	UpdateStatus(ctx context.Context, seller ledger.Address, shipmentID string, req StatusRequest) (*Shipment, error)
	GetShipment(ctx context.Context, seller ledger.Address, shipmentID string) (*Shipment, error)
	ListShipments(ctx context.Context, seller ledger.Address) ([]*Shipment, error)
}

type service struct {
	store store.Store
	env   *ledger.Env
	cfg   Config
	log   logrus.FieldLogger
}

// NewService creates a new shipping service.
func NewService(st store.Store, env *ledger.Env, cfg Config, log logrus.FieldLogger) Service {
	return &service{store: st, env: env, cfg: cfg, log: log.WithField("module", module)}
}

func (s *service) QuoteShipment(ctx context.Context, seller ledger.Address, req QuoteRequest) (sh *Shipment, err error) {
	defer metrics.Observe(module, "quote_shipment", time.Now(), &err)

	if err := ledger.RequireAuth(ctx, seller); err != nil {
		return nil, err
	}
	if err := req.Buyer.Validate(); err != nil {
		return nil, err
	}
	if err := s.cfg.checkDestination(req.Zone, req.DistanceKm); err != nil {
		return nil, err
	}

	id := ShipmentID(req.Buyer, req.ProductID)
	quote := Calculate(req.WeightPounds, req.DistanceKm, s.cfg.KmPerDay)
	now := s.env.Now()

	var committed logrus.Fields
	err = s.store.Update(ctx, func(tx store.Txn) error {
		exists, err := tx.Has(store.ShipmentKey{Seller: seller, ShipmentID: id})
		if err != nil {
			return err
		}
		if exists {
			return ErrShipmentAlreadyExists
		}

		sh = &Shipment{
			ID:            id,
			Seller:        seller,
			Buyer:         req.Buyer,
			ProductID:     req.ProductID,
			WeightPounds:  req.WeightPounds,
			DistanceKm:    req.DistanceKm,
			Zone:          normalizeZone(req.Zone),
			Cost:          quote.Cost,
			EtaDays:       quote.EtaDays,
			Status:        StatusPending,
			TrackingToken: TrackingToken(seller, id),
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := saveShipment(tx, sh); err != nil {
			return err
		}
		ids, err := loadShipmentList(tx, seller)
		if err != nil {
			return err
		}
		if err := saveShipmentList(tx, seller, append(ids, id)); err != nil {
			return err
		}
		committed = logrus.Fields{
			"txn":      tx.ID(),
			"seller":   seller,
			"shipment": id,
			"cost":     sh.Cost,
			"eta_days": sh.EtaDays,
		}
		return nil
	})
	if err != nil {
		s.log.WithError(err).WithField("shipment", id).Debug("shipment rejected")
		return nil, err
	}
	s.log.WithFields(committed).Info("shipment quoted")
	return sh, nil
}

func (s *service) UpdateStatus(ctx context.Context, seller ledger.Address, shipmentID string, req StatusRequest) (sh *Shipment, err error) {
	defer metrics.Observe(module, "update_status", time.Now(), &err)

	if err := ledger.RequireAuth(ctx, req.Caller); err != nil {
		return nil, err
	}

	var committed logrus.Fields
	err = s.store.Update(ctx, func(tx store.Txn) error {
		if req.Caller != seller {
			isAdmin, err := store.IsAdmin(tx, req.Caller)
			if err != nil {
				return err
			}
			if !isAdmin {
				return ErrUnauthorized
			}
		}

		sh, err = loadShipment(tx, seller, shipmentID)
		if err != nil {
			return err
		}
		if req.Status.rank() <= sh.Status.rank() {
			return ErrInvalidStatusTransition
		}

		previous := sh.Status
		sh.Status = req.Status
		sh.UpdatedAt = s.env.Now()
		if err := saveShipment(tx, sh); err != nil {
			return err
		}
		committed = logrus.Fields{
			"txn":      tx.ID(),
			"seller":   seller,
			"shipment": shipmentID,
			"from":     previous,
			"to":       sh.Status,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(committed).Info("shipment status updated")
	return sh, nil
}

func (s *service) GetShipment(ctx context.Context, seller ledger.Address, shipmentID string) (*Shipment, error) {
	var sh *Shipment
	err := s.store.View(ctx, func(tx store.Txn) error {
		var err error
		sh, err = loadShipment(tx, seller, shipmentID)
		return err
	})
	return sh, err
}

func (s *service) ListShipments(ctx context.Context, seller ledger.Address) ([]*Shipment, error) {
	shipments := []*Shipment{}
	err := s.store.View(ctx, func(tx store.Txn) error {
		ids, err := loadShipmentList(tx, seller)
		if err != nil {
			return err
		}
		for _, id := range ids {
			sh, err := loadShipment(tx, seller, id)
			if err != nil {
				return err
			}
			shipments = append(shipments, sh)
		}
		return nil
	})
	return shipments, err
}
