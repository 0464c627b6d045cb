package returns

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/georgemunganga/bazaar-ledger/internal/ledger"
	"github.com/georgemunganga/bazaar-ledger/internal/metrics"
	"github.com/georgemunganga/bazaar-ledger/internal/modules/catalog"
	"github.com/georgemunganga/bazaar-ledger/internal/store"
)

const module = "returns"

// Service runs return policies and the return request workflow.
type Service interface {
	SetReturnPolicy(ctx context.Context, seller ledger.Address, req PolicyRequest) (*Policy, error)
	GetReturnPolicy(ctx context.Context, seller ledger.Address) (*Policy, error)

	// RequestReturn opens a return under the seller's published policy.
	RequestReturn(ctx context.Context, req ReturnRequest) (*Request, error)
	ResolveReturn(ctx context.Context, seller ledger.Address, productID uint64, req ResolveRequest) (*Request, error)
	GetReturnRequest(ctx context.Context, seller ledger.Address, productID uint64) (*Request, error)
}

type service struct {
	store store.Store
	env   *ledger.Env
	cfg   Config
	log   logrus.FieldLogger
}

// NewService creates a new returns service.
func NewService(st store.Store, env *ledger.Env, cfg Config, log logrus.FieldLogger) Service {
	return &service{store: st, env: env, cfg: cfg, log: log.WithField("module", module)}
}

func normalizeZone(zone string) string {
	return strings.ToUpper(strings.TrimSpace(zone))
}

func normalizeZones(zones []string) []string {
	return lo.Uniq(lo.Compact(lo.Map(zones, func(z string, _ int) string { return normalizeZone(z) })))
}

func (s *service) SetReturnPolicy(ctx context.Context, seller ledger.Address, req PolicyRequest) (p *Policy, err error) {
	defer metrics.Observe(module, "set_return_policy", time.Now(), &err)

	if err := ledger.RequireAuth(ctx, seller); err != nil {
		return nil, err
	}
	terms := strings.TrimSpace(req.Terms)
	if req.WindowDays == 0 || terms == "" {
		return nil, ErrInvalidPolicy
	}

	var committed logrus.Fields
	err = s.store.Update(ctx, func(tx store.Txn) error {
		p = &Policy{
			Seller:          seller,
			WindowDays:      req.WindowDays,
			RestrictedZones: normalizeZones(req.RestrictedZones),
			Terms:           terms,
			UpdatedAt:       s.env.Now(),
		}
		if err := savePolicy(tx, p); err != nil {
			return err
		}
		committed = logrus.Fields{"txn": tx.ID(), "seller": seller, "window_days": p.WindowDays}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(committed).Info("return policy set")
	return p, nil
}

func (s *service) GetReturnPolicy(ctx context.Context, seller ledger.Address) (*Policy, error) {
	var p *Policy
	err := s.store.View(ctx, func(tx store.Txn) error {
		var err error
		p, err = loadPolicy(tx, seller)
		return err
	})
	return p, err
}

func (s *service) RequestReturn(ctx context.Context, req ReturnRequest) (r *Request, err error) {
	defer metrics.Observe(module, "request_return", time.Now(), &err)

	if err := ledger.RequireAuth(ctx, req.Buyer); err != nil {
		return nil, err
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" || utf8.RuneCountInString(reason) > MaxReasonLen {
		return nil, ErrInvalidReason
	}
	zone := normalizeZone(req.Zone)

	var committed logrus.Fields
	err = s.store.Update(ctx, func(tx store.Txn) error {
		policy, err := loadPolicy(tx, req.Seller)
		if err != nil {
			return err
		}
		if _, err := catalog.LoadProduct(tx, req.Seller, req.ProductID); err != nil {
			return err
		}
		restricted := append(normalizeZones(s.cfg.RestrictedZones), policy.RestrictedZones...)
		if zone == "" || lo.Contains(restricted, zone) {
			return ErrRestrictedLocation
		}

		existing, err := loadRequest(tx, req.Seller, req.ProductID)
		switch {
		case err == nil && existing.Status == StatusPending:
			return ErrReturnAlreadyRequested
		case err != nil && !errors.Is(err, ErrReturnRequestNotFound):
			return err
		}

		r = &Request{
			Buyer:       req.Buyer,
			Seller:      req.Seller,
			ProductID:   req.ProductID,
			Reason:      reason,
			Zone:        zone,
			Status:      StatusPending,
			RequestedAt: s.env.Now(),
		}
		if err := saveRequest(tx, r); err != nil {
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
		s.log.WithError(err).WithField("product_id", req.ProductID).Debug("return request rejected")
		return nil, err
	}
	s.log.WithFields(committed).Info("return requested")
	return r, nil
}

func (s *service) ResolveReturn(ctx context.Context, seller ledger.Address, productID uint64, req ResolveRequest) (r *Request, err error) {
	defer metrics.Observe(module, "resolve_return", time.Now(), &err)

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

		r, err = loadRequest(tx, seller, productID)
		if err != nil {
			return err
		}
		if r.Status != StatusPending {
			return ErrReturnAlreadyResolved
		}

		r.Status = StatusRejected
		if req.Approve {
			r.Status = StatusApproved
		}
		r.ResolvedAt = s.env.Now()
		caller := req.Caller
		r.ResolvedBy = &caller
		if err := saveRequest(tx, r); err != nil {
			return err
		}
		committed = logrus.Fields{
			"txn":        tx.ID(),
			"seller":     seller,
			"product_id": productID,
			"status":     r.Status,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(committed).Info("return resolved")
	return r, nil
}

func (s *service) GetReturnRequest(ctx context.Context, seller ledger.Address, productID uint64) (*Request, error) {
	var r *Request
	err := s.store.View(ctx, func(tx store.Txn) error {
		var err error
		r, err = loadRequest(tx, seller, productID)
		return err
	})
	return r, err
}
