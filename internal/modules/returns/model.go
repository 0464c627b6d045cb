package returns

import (
	"github.com/georgemunganga/bazaar-ledger/internal/ledger"
	"github.com/georgemunganga/bazaar-ledger/internal/modules/catalog"
)

// Status of a return request. Approved and Rejected are terminal.
type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

// Policy is the return policy a seller publishes. Returns are only accepted
// once one exists.
type Policy struct {
	Seller          ledger.Address `json:"seller"`
	WindowDays      uint32         `json:"window_days"`
	RestrictedZones []string       `json:"restricted_zones"`
	Terms           string         `json:"terms"`
	UpdatedAt       uint64         `json:"updated_at"`
}

// Request is a buyer's request to send a product back.
type Request struct {
	Buyer       ledger.Address  `json:"buyer"`
	Seller      ledger.Address  `json:"seller"`
	ProductID   uint64          `json:"product_id"`
	Reason      string          `json:"reason"`
	Zone        string          `json:"zone"`
	Status      Status          `json:"status"`
	RequestedAt uint64          `json:"requested_at"`
	ResolvedAt  uint64          `json:"resolved_at,omitempty"`
	ResolvedBy  *ledger.Address `json:"resolved_by,omitempty"`
}

// Config holds destinations no seller accepts returns from.
type Config struct {
	RestrictedZones []string `envconfig:"RESTRICTED_ZONES"`
}

// MaxReasonLen bounds return reasons.
const MaxReasonLen = 500

var (
	ErrReturnPolicyNotFound   = ledger.NewError(ledger.CategoryNotFound, "ReturnPolicyNotFound")
	ErrReturnRequestNotFound  = ledger.NewError(ledger.CategoryNotFound, "ReturnRequestNotFound")
	ErrReturnAlreadyRequested = ledger.NewError(ledger.CategoryConflict, "ReturnAlreadyRequested")
	ErrReturnAlreadyResolved  = ledger.NewError(ledger.CategoryConflict, "ReturnAlreadyResolved")
	ErrRestrictedLocation     = ledger.NewError(ledger.CategoryValidation, "RestrictedLocation")
	ErrInvalidReason          = ledger.NewError(ledger.CategoryValidation, "InvalidReason")
	ErrInvalidPolicy          = ledger.NewError(ledger.CategoryValidation, "InvalidPolicy")
	ErrUnauthorized           = ledger.NewError(ledger.CategoryAuthorization, "Unauthorized")
	ErrProductNotFound        = catalog.ErrProductNotFound
)

// PolicyRequest publishes or replaces a seller's return policy.
type PolicyRequest struct {
	WindowDays      uint32   `json:"window_days"`
	RestrictedZones []string `json:"restricted_zones"`
	Terms           string   `json:"terms"`
}

// ReturnRequest asks to return a product on behalf of Buyer.
type ReturnRequest struct {
	Buyer     ledger.Address `json:"buyer"`
	Seller    ledger.Address `json:"seller"`
	ProductID uint64         `json:"product_id"`
	Reason    string         `json:"reason"`
	Zone      string         `json:"zone"`
}

// ResolveRequest settles a pending return.
type ResolveRequest struct {
	Caller  ledger.Address `json:"caller"`
	Approve bool           `json:"approve"`
}
