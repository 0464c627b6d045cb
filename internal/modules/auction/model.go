package auction

import (
	"time"

	"github.com/georgemunganga/bazaar-ledger/internal/ledger"
	"github.com/georgemunganga/bazaar-ledger/internal/modules/catalog"
)

// State is derived from the stored record and ledger time; it is never stored.
type State string

const (
	StateOpen     State = "Open"
	StateExtended State = "Extended"
	StateEnded    State = "Ended"
	StateResolved State = "Resolved"
)

// Auction is the auction a seller runs for one product.
type Auction struct {
	Seller          ledger.Address  `json:"seller"`
	ProductID       uint64          `json:"product_id"`
	ReservePrice    uint64          `json:"reserve_price"`
	HighestBid      uint64          `json:"highest_bid"`
	HighestBidder   *ledger.Address `json:"highest_bidder,omitempty"`
	EndTime         uint64          `json:"end_time"`
	OriginalEndTime uint64          `json:"original_end_time"`
	Extensions      uint32          `json:"extensions"`
	Bids            uint32          `json:"bids"`
	CreatedAt       uint64          `json:"created_at"`
	Resolved        bool            `json:"resolved"`
	Outcome         *Outcome        `json:"outcome,omitempty"`
	// Outcomes of earlier auctions this one replaced, oldest first.
	History         []Outcome       `json:"history,omitempty"`
}

// StateAt derives the lifecycle state at ledger time now.
func (a *Auction) StateAt(now uint64) State {
	switch {
	case a.Resolved:
		return StateResolved
	case now >= a.EndTime:
		return StateEnded
	case a.Extensions > 0:
		return StateExtended
	default:
		return StateOpen
	}
}

func (a *Auction) hasBids() bool { return a.HighestBidder != nil }

// replaceable reports whether a new auction may overwrite a.
func (a *Auction) replaceable(now uint64) bool {
	return a.Resolved || (now >= a.EndTime && !a.hasBids())
}

// history returns the outcomes a replacement of a must carry forward.
func (a *Auction) history() []Outcome {
	if a.Outcome == nil {
		return a.History
	}
	return append(append([]Outcome(nil), a.History...), *a.Outcome)
}

// Outcome is the settlement recorded when an auction resolves.
type Outcome struct {
	Winner     ledger.Address `json:"winner"`
	Amount     uint64         `json:"amount"`
	ResolvedAt uint64         `json:"resolved_at"`
}

// Snapshot is an auction together with its derived state.
type Snapshot struct {
	Auction
	State State `json:"state"`
}

// Config sets the anti-sniping extension policy.
type Config struct {
	// A bid arriving this close to the end pushes the end back.
	ExtensionWindow    time.Duration `envconfig:"EXTENSION_WINDOW" default:"5m"`
	ExtensionIncrement time.Duration `envconfig:"EXTENSION_INCREMENT" default:"5m"`
	// Hard cutoff, measured from the original end time.
	MaxExtension time.Duration `envconfig:"MAX_EXTENSION" default:"5m"`
}

// DefaultConfig mirrors the envconfig defaults.
func DefaultConfig() Config {
	return Config{
		ExtensionWindow:    5 * time.Minute,
		ExtensionIncrement: 5 * time.Minute,
		MaxExtension:       5 * time.Minute,
	}
}

func seconds(d time.Duration) uint64 { return uint64(d / time.Second) }

var (
	ErrBidTooLow              = ledger.NewError(ledger.CategoryValidation, "BidTooLow")
	ErrAuctionEnded           = ledger.NewError(ledger.CategoryTemporal, "AuctionEnded")
	ErrAuctionAlreadyExists   = ledger.NewError(ledger.CategoryConflict, "AuctionAlreadyExists")
	ErrInvalidBidder          = ledger.NewError(ledger.CategoryAuthorization, "InvalidBidder")
	ErrAuctionNotFound        = ledger.NewError(ledger.CategoryNotFound, "AuctionNotFound")
	ErrTooLateToExtend        = ledger.NewError(ledger.CategoryTemporal, "TooLateToExtend")
	ErrInvalidAuctionEndTime  = ledger.NewError(ledger.CategoryValidation, "InvalidAuctionEndTime")
	ErrAuctionNotYetEnded     = ledger.NewError(ledger.CategoryTemporal, "AuctionNotYetEnded")
	ErrNoBidsPlaced           = ledger.NewError(ledger.CategoryTemporal, "NoBidsPlaced")
	ErrOutOfStock             = ledger.NewError(ledger.CategoryValidation, "OutOfStock")
	ErrSellerNotVerified      = ledger.NewError(ledger.CategoryAuthorization, "SellerNotVerified")
	ErrUnauthorized           = ledger.NewError(ledger.CategoryAuthorization, "Unauthorized")
	ErrAuctionAlreadyResolved = ledger.NewError(ledger.CategoryConflict, "AuctionAlreadyResolved")
	ErrProductNotFound        = catalog.ErrProductNotFound
)

// CreateAuctionRequest opens an auction on an existing product.
type CreateAuctionRequest struct {
	ReservePrice uint64 `json:"reserve_price"`
	EndTime      uint64 `json:"end_time"`
}

// BidRequest offers Amount on behalf of Bidder.
type BidRequest struct {
	Bidder ledger.Address `json:"bidder"`
	Amount uint64         `json:"amount"`
}

// ResolveRequest settles an ended auction.
type ResolveRequest struct {
	Caller ledger.Address `json:"caller"`
}
