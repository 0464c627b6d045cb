package dispute

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/georgemunganga/bazaar-ledger/internal/ledger"
	"github.com/georgemunganga/bazaar-ledger/internal/metrics"
	"github.com/georgemunganga/bazaar-ledger/internal/modules/catalog"
	"github.com/georgemunganga/bazaar-ledger/internal/store"
)

const module = "dispute"

// Service runs the buyer dispute workflow.
type Service interface {
	OpenDispute(ctx context.Context, req OpenRequest) (*Dispute, error)
	ResolveDispute(ctx context.Context, buyer, seller ledger.Address, productID uint64, req ResolveRequest) (*Dispute, error)
	GetDispute(ctx context.Context, buyer, seller ledger.Address, productID uint64) (*Dispute, error)
}

type service struct {
	store store.Store
	env   *ledger.Env
	log   logrus.FieldLogger
}

// NewService creates a new dispute service.
func NewService(st store.Store, env *ledger.Env, log logrus.FieldLogger) Service {
	return &service{store: st, env: env, log: log.WithField("module", module)}
}

func (s *service) OpenDispute(ctx context.Context, req OpenRequest) (d *Dispute, err error) {
	defer metrics.Observe(module, "open_dispute", time.Now(), &err)

	if err := ledger.RequireAuth(ctx, req.Buyer); err != nil {
		return nil, err
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" || utf8.RuneCountInString(reason) > MaxReasonLen {
		return nil, ErrInvalidReason
	}

	var committed logrus.Fields
	err = s.store.Update(ctx, func(tx store.Txn) error {
		if _, err := catalog.LoadProduct(tx, req.Seller, req.ProductID); err != nil {
			return err
		}
		existing, err := loadDispute(tx, req.Buyer, req.Seller, req.ProductID)
		switch {
		case err == nil && existing.Status == StatusPending:
			return ErrDisputeAlreadyExists
		case err != nil && !errors.Is(err, ErrDisputeNotFound):
			return err
		}

		d = &Dispute{
			Buyer:     req.Buyer,
			Seller:    req.Seller,
			ProductID: req.ProductID,
			Reason:    reason,
			Status:    StatusPending,
			OpenedAt:  s.env.Now(),
		}
		if err := saveDispute(tx, d); err != nil {
			return err
		}
		committed = logrus.Fields{
			"txn":        tx.ID(),
			"buyer":      req.Buyer,
			"seller":     req.Seller,
			"product_id": req.ProductID,
		}
		return nil
	})
	if err != nil {
		s.log.WithError(err).WithField("product_id", req.ProductID).Debug("dispute rejected")
		return nil, err
	}
	s.log.WithFields(committed).Info("dispute opened")
	return d, nil
}

func (s *service) ResolveDispute(ctx context.Context, buyer, seller ledger.Address, productID uint64, req ResolveRequest) (d *Dispute, err error) {
	defer metrics.Observe(module, "resolve_dispute", time.Now(), &err)

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

		d, err = loadDispute(tx, buyer, seller, productID)
		if err != nil {
			return err
		}
		if d.Status != StatusPending {
			return ErrDisputeAlreadyResolved
		}

		d.Status = StatusRejected
		if req.Approve {
			d.Status = StatusApproved
		}
		d.ResolvedAt = s.env.Now()
		caller := req.Caller
		d.ResolvedBy = &caller
		if err := saveDispute(tx, d); err != nil {
			return err
		}
		committed = logrus.Fields{
			"txn":        tx.ID(),
			"buyer":      buyer,
			"seller":     seller,
			"product_id": productID,
			"status":     d.Status,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(committed).Info("dispute resolved")
	return d, nil
}

func (s *service) GetDispute(ctx context.Context, buyer, seller ledger.Address, productID uint64) (*Dispute, error) {
	var d *Dispute
	err := s.store.View(ctx, func(tx store.Txn) error {
		var err error
		d, err = loadDispute(tx, buyer, seller, productID)
		return err
	})
	return d, err
}
