package registry

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/georgemunganga/bazaar-ledger/internal/ledger"
	"github.com/georgemunganga/bazaar-ledger/internal/metrics"
	"github.com/georgemunganga/bazaar-ledger/internal/store"
)

const module = "registry"

// Service tracks the contract administrator and seller verification.
type Service interface {
	// SetAdmin installs newAdmin. The first call initializes the contract;
	// afterwards only the current admin may hand the role over.
	SetAdmin(ctx context.Context, req SetAdminRequest) error
	GetAdmin(ctx context.Context) (ledger.Address, error)

	RequestVerification(ctx context.Context, seller ledger.Address) (*SellerVerification, error)
	DecideVerification(ctx context.Context, seller ledger.Address, req DecisionRequest) (*SellerVerification, error)
	GetVerification(ctx context.Context, seller ledger.Address) (*SellerVerification, error)
}

type service struct {
	store store.Store
	env   *ledger.Env
	log   logrus.FieldLogger
}

// NewService creates a new registry service.
func NewService(st store.Store, env *ledger.Env, log logrus.FieldLogger) Service {
	return &service{store: st, env: env, log: log.WithField("module", module)}
}

func (s *service) SetAdmin(ctx context.Context, req SetAdminRequest) (err error) {
	defer metrics.Observe(module, "set_admin", time.Now(), &err)

	if err := ledger.RequireAuth(ctx, req.Caller); err != nil {
		return err
	}
	if err := req.NewAdmin.Validate(); err != nil {
		return err
	}

	var committed logrus.Fields
	err = s.store.Update(ctx, func(tx store.Txn) error {
		current, err := store.Admin(tx)
		if err != nil {
			return err
		}
		if current != "" && current != req.Caller {
			return ErrUnauthorizedAccess
		}
		if err := tx.Put(store.AdminKey{}, req.NewAdmin); err != nil {
			return err
		}
		committed = logrus.Fields{
			"txn":       tx.ID(),
			"previous":  current,
			"new_admin": req.NewAdmin,
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.log.WithFields(committed).Info("admin set")
	return nil
}

func (s *service) GetAdmin(ctx context.Context) (ledger.Address, error) {
	var admin ledger.Address
	err := s.store.View(ctx, func(tx store.Txn) error {
		var err error
		admin, err = store.Admin(tx)
		if err == nil && admin == "" {
			err = ErrAdminNotSet
		}
		return err
	})
	return admin, err
}

func (s *service) RequestVerification(ctx context.Context, seller ledger.Address) (v *SellerVerification, err error) {
	defer metrics.Observe(module, "request_verification", time.Now(), &err)

	if err := ledger.RequireAuth(ctx, seller); err != nil {
		return nil, err
	}

	var committed logrus.Fields
	err = s.store.Update(ctx, func(tx store.Txn) error {
		existing, err := loadVerification(tx, seller)
		switch {
		case err == nil && existing.Status != StatusRejected:
			return ErrAlreadyRequested
		case err != nil && !errors.Is(err, ErrNoVerificationRequest):
			return err
		}

		v = &SellerVerification{
			Seller:      seller,
			Status:      StatusPending,
			RequestedAt: s.env.Now(),
		}
		if err := saveVerification(tx, v); err != nil {
			return err
		}
		committed = logrus.Fields{"txn": tx.ID(), "seller": seller}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(committed).Info("verification requested")
	return v, nil
}

func (s *service) DecideVerification(ctx context.Context, seller ledger.Address, req DecisionRequest) (v *SellerVerification, err error) {
	defer metrics.Observe(module, "decide_verification", time.Now(), &err)

	if err := ledger.RequireAuth(ctx, req.Admin); err != nil {
		return nil, err
	}

	var committed logrus.Fields
	err = s.store.Update(ctx, func(tx store.Txn) error {
		isAdmin, err := store.IsAdmin(tx, req.Admin)
		if err != nil {
			return err
		}
		if !isAdmin {
			return ErrUnauthorizedAccess
		}

		v, err = loadVerification(tx, seller)
		if err != nil {
			return err
		}
		if v.Status == StatusVerified {
			return ErrAlreadyVerified
		}

		v.Status = StatusRejected
		if req.Approve {
			v.Status = StatusVerified
		}
		v.DecidedAt = s.env.Now()
		admin := req.Admin
		v.DecidedBy = &admin

		if err := saveVerification(tx, v); err != nil {
			return err
		}
		committed = logrus.Fields{
			"txn":    tx.ID(),
			"seller": seller,
			"status": v.Status,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(committed).Info("verification decided")
	return v, nil
}

func (s *service) GetVerification(ctx context.Context, seller ledger.Address) (*SellerVerification, error) {
	var v *SellerVerification
	err := s.store.View(ctx, func(tx store.Txn) error {
		var err error
		v, err = loadVerification(tx, seller)
		return err
	})
	return v, err
}
