package shipping

import (
	"github.com/samber/lo"

	"github.com/georgemunganga/bazaar-ledger/internal/ledger"
)

// Per-unit shipping rates.
const (
	CostPerPound uint64 = 6
	CostPerKm    uint64 = 1
)

// Status is a shipment's position in the delivery pipeline.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusShipped   Status = "Shipped"
	StatusInTransit Status = "InTransit"
	StatusDelivered Status = "Delivered"
)

var pipeline = []Status{StatusPending, StatusShipped, StatusInTransit, StatusDelivered}

// rank returns the position of s in the pipeline, or -1 if s is unknown.
func (s Status) rank() int { return lo.IndexOf(pipeline, s) }

// Shipment is a costed delivery from a seller to a buyer.
type Shipment struct {
	ID            string         `json:"id"`
	Seller        ledger.Address `json:"seller"`
	Buyer         ledger.Address `json:"buyer"`
	ProductID     uint64         `json:"product_id"`
	WeightPounds  uint32         `json:"weight_pounds"`
	DistanceKm    uint32         `json:"distance_km"`
	Zone          string         `json:"zone"`
	Cost          uint64         `json:"shipping_cost"`
	EtaDays       uint32         `json:"delivery_estimate_days"`
	Status        Status         `json:"status"`
	TrackingToken string         `json:"tracking_number"`
	CreatedAt     uint64         `json:"created_at"`
	UpdatedAt     uint64         `json:"updated_at"`
}

// Quote is the pure price and delivery estimate for a shipment.
type Quote struct {
	Cost    uint64 `json:"shipping_cost"`
	EtaDays uint32 `json:"delivery_estimate_days"`
}

// Config holds the destination policy and delivery speed.
type Config struct {
	// Empty means every non-empty zone is served.
	AllowedZones    []string `envconfig:"ALLOWED_ZONES"`
	RestrictedZones []string `envconfig:"RESTRICTED_ZONES"`
	MaxDistanceKm   uint32   `envconfig:"MAX_DISTANCE_KM" default:"20000"`
	KmPerDay        uint32   `envconfig:"KM_PER_DAY" default:"500"`
}

// DefaultConfig mirrors the envconfig defaults.
func DefaultConfig() Config {
	return Config{MaxDistanceKm: 20000, KmPerDay: 500}
}

var (
	ErrRestrictedLocation      = ledger.NewError(ledger.CategoryValidation, "RestrictedLocation")
	ErrShipmentNotFound        = ledger.NewError(ledger.CategoryNotFound, "ShipmentNotFound")
	ErrShipmentAlreadyExists   = ledger.NewError(ledger.CategoryConflict, "ShipmentAlreadyExists")
	ErrInvalidBuyerZone        = ledger.NewError(ledger.CategoryValidation, "InvalidBuyerZone")
	ErrInvalidStatusTransition = ledger.NewError(ledger.CategoryValidation, "InvalidStatusTransition")
	ErrUnauthorized            = ledger.NewError(ledger.CategoryAuthorization, "Unauthorized")
)

// QuoteRequest asks the seller's calculator to cost and record a shipment.
type QuoteRequest struct {
	Buyer        ledger.Address `json:"buyer"`
	ProductID    uint64         `json:"product_id"`
	WeightPounds uint32         `json:"weight_pounds"`
	DistanceKm   uint32         `json:"distance_km"`
	Zone         string         `json:"zone"`
}

// StatusRequest advances a shipment.
type StatusRequest struct {
	Caller ledger.Address `json:"caller"`
	Status Status         `json:"status"`
}
