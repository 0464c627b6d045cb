package auction

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/georgemunganga/bazaar-ledger/internal/ledger"
	"github.com/georgemunganga/bazaar-ledger/internal/metrics"
	"github.com/georgemunganga/bazaar-ledger/internal/modules/catalog"
	"github.com/georgemunganga/bazaar-ledger/internal/modules/registry"
	"github.com/georgemunganga/bazaar-ledger/internal/store"
)

const module = "auction"

// Service runs timed auctions over catalog products.
type Service interface {
	CreateAuction(ctx context.Context, seller ledger.Address, productID uint64, req CreateAuctionRequest) (*Snapshot, error)
	// PlaceBid admits a strictly higher bid. A bid inside the trailing
	// extension window pushes the end time back, up to the hard cutoff.
	PlaceBid(ctx context.Context, seller ledger.Address, productID uint64, req BidRequest) (*Snapshot, error)
	// ResolveAuction settles an ended auction: one unit of stock goes to the
	// highest bidder.
	ResolveAuction(ctx context.Context, seller ledger.Address, productID uint64, req ResolveRequest) (*Outcome, error)
	GetAuction(ctx context.Context, seller ledger.Address, productID uint64) (*Snapshot, error)
}

type service struct {
	store store.Store
	env   *ledger.Env
	cfg   Config
	log   logrus.FieldLogger
}

// NewService creates a new auction service.
func NewService(st store.Store, env *ledger.Env, cfg Config, log logrus.FieldLogger) Service {
	return &service{store: st, env: env, cfg: cfg, log: log.WithField("module", module)}
}

func (s *service) snapshot(a *Auction, now uint64) *Snapshot {
	return &Snapshot{Auction: *a, State: a.StateAt(now)}
}

func (s *service) CreateAuction(ctx context.Context, seller ledger.Address, productID uint64, req CreateAuctionRequest) (snap *Snapshot, err error) {
	defer metrics.Observe(module, "create_auction", time.Now(), &err)

	if err := ledger.RequireAuth(ctx, seller); err != nil {
		return nil, err
	}
	now := s.env.Now()
	if req.EndTime <= now {
		return nil, ErrInvalidAuctionEndTime
	}

	var committed logrus.Fields
	err = s.store.Update(ctx, func(tx store.Txn) error {
		verified, err := registry.IsVerified(tx, seller)
		if err != nil {
			return err
		}
		if !verified {
			return ErrSellerNotVerified
		}

		var history []Outcome
		existing, err := loadAuction(tx, seller, productID)
		switch {
		case err == nil && !existing.replaceable(now):
			return ErrAuctionAlreadyExists
		case err == nil:
			history = existing.history()
		case !errors.Is(err, ErrAuctionNotFound):
			return err
		}

		p, err := catalog.LoadProduct(tx, seller, productID)
		if err != nil {
			return err
		}
		if p.Stock == 0 {
			return ErrOutOfStock
		}

		a := &Auction{
			Seller:          seller,
			ProductID:       productID,
			ReservePrice:    req.ReservePrice,
			EndTime:         req.EndTime,
			OriginalEndTime: req.EndTime,
			CreatedAt:       now,
			History:         history,
		}
		if err := saveAuction(tx, a); err != nil {
			return err
		}
		snap = s.snapshot(a, now)
		committed = logrus.Fields{
			"txn":        tx.ID(),
			"seller":     seller,
			"product_id": productID,
			"reserve":    req.ReservePrice,
			"end_time":   req.EndTime,
		}
		return nil
	})
	if err != nil {
		s.log.WithError(err).WithField("product_id", productID).Debug("auction creation rejected")
		return nil, err
	}
	s.log.WithFields(committed).Info("auction created")
	return snap, nil
}

func (s *service) PlaceBid(ctx context.Context, seller ledger.Address, productID uint64, req BidRequest) (snap *Snapshot, err error) {
	defer metrics.Observe(module, "place_bid", time.Now(), &err)

	if err := ledger.RequireAuth(ctx, req.Bidder); err != nil {
		return nil, err
	}
	now := s.env.Now()

	var extended bool
	var committed logrus.Fields
	err = s.store.Update(ctx, func(tx store.Txn) error {
		extended = false
		a, err := loadAuction(tx, seller, productID)
		if err != nil {
			return err
		}
		if req.Bidder == a.Seller {
			return ErrInvalidBidder
		}
		if a.Resolved || now >= a.EndTime {
			return ErrAuctionEnded
		}
		if req.Amount <= max(a.HighestBid, a.ReservePrice) {
			return ErrBidTooLow
		}

		if a.EndTime-now <= seconds(s.cfg.ExtensionWindow) {
			next := a.EndTime + seconds(s.cfg.ExtensionIncrement)
			if next > a.OriginalEndTime+seconds(s.cfg.MaxExtension) {
				return ErrTooLateToExtend
			}
			a.EndTime = next
			a.Extensions++
			extended = true
		}

		bidder := req.Bidder
		a.HighestBid = req.Amount
		a.HighestBidder = &bidder
		a.Bids++
		if err := saveAuction(tx, a); err != nil {
			return err
		}
		snap = s.snapshot(a, now)
		committed = logrus.Fields{
			"txn":        tx.ID(),
			"seller":     seller,
			"product_id": productID,
			"bidder":     req.Bidder,
			"amount":     req.Amount,
			"end_time":   a.EndTime,
			"extended":   extended,
		}
		return nil
	})
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{"product_id": productID, "amount": req.Amount}).Debug("bid rejected")
		return nil, err
	}
	s.log.WithFields(committed).Info("bid accepted")

	metrics.BidsAccepted.Inc()
	if extended {
		metrics.AuctionExtensions.Inc()
	}
	return snap, nil
}

func (s *service) ResolveAuction(ctx context.Context, seller ledger.Address, productID uint64, req ResolveRequest) (out *Outcome, err error) {
	defer metrics.Observe(module, "resolve_auction", time.Now(), &err)

	if err := ledger.RequireAuth(ctx, req.Caller); err != nil {
		return nil, err
	}
	now := s.env.Now()

	var committed logrus.Fields
	err = s.store.Update(ctx, func(tx store.Txn) error {
		a, err := loadAuction(tx, seller, productID)
		if err != nil {
			return err
		}
		if err := s.authorizeResolve(tx, a, req.Caller); err != nil {
			return err
		}
		if a.Resolved {
			return ErrAuctionAlreadyResolved
		}
		if now < a.EndTime {
			return ErrAuctionNotYetEnded
		}
		if !a.hasBids() {
			return ErrNoBidsPlaced
		}

		p, err := catalog.LoadProduct(tx, seller, productID)
		if err != nil {
			return err
		}
		if p.Stock == 0 {
			return ErrOutOfStock
		}
		p.Stock--
		if err := catalog.SaveProduct(tx, p); err != nil {
			return err
		}

		out = &Outcome{Winner: *a.HighestBidder, Amount: a.HighestBid, ResolvedAt: now}
		a.Resolved = true
		a.Outcome = out
		if err := saveAuction(tx, a); err != nil {
			return err
		}
		committed = logrus.Fields{
			"txn":        tx.ID(),
			"seller":     seller,
			"product_id": productID,
			"winner":     out.Winner,
			"amount":     out.Amount,
			"stock":      p.Stock,
		}
		return nil
	})
	if err != nil {
		s.log.WithError(err).WithField("product_id", productID).Debug("auction resolution rejected")
		return nil, err
	}
	s.log.WithFields(committed).Info("auction resolved")
	return out, nil
}

// authorizeResolve admits the seller, the admin and the current highest bidder.
func (s *service) authorizeResolve(tx store.Txn, a *Auction, caller ledger.Address) error {
	if caller == a.Seller || (a.hasBids() && caller == *a.HighestBidder) {
		return nil
	}
	isAdmin, err := store.IsAdmin(tx, caller)
	if err != nil {
		return err
	}
	if !isAdmin {
		return ErrUnauthorized
	}
	return nil
}

func (s *service) GetAuction(ctx context.Context, seller ledger.Address, productID uint64) (*Snapshot, error) {
	var snap *Snapshot
	err := s.store.View(ctx, func(tx store.Txn) error {
		a, err := loadAuction(tx, seller, productID)
		if err != nil {
			return err
		}
		snap = s.snapshot(a, s.env.Now())
		return nil
	})
	return snap, err
}
