package dispute

import (
	"github.com/georgemunganga/bazaar-ledger/internal/ledger"
	"github.com/georgemunganga/bazaar-ledger/internal/modules/catalog"
)

// Status of a dispute. Approved and Rejected are terminal.
type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

// Dispute is a buyer's complaint about a seller's product.
type Dispute struct {
	Buyer      ledger.Address  `json:"buyer"`
	Seller     ledger.Address  `json:"seller"`
	ProductID  uint64          `json:"product_id"`
	Reason     string          `json:"reason"`
	Status     Status          `json:"status"`
	OpenedAt   uint64          `json:"opened_at"`
	ResolvedAt uint64          `json:"resolved_at,omitempty"`
	ResolvedBy *ledger.Address `json:"resolved_by,omitempty"`
}

// MaxReasonLen bounds dispute reasons.
const MaxReasonLen = 500

var (
	ErrInvalidReason          = ledger.NewError(ledger.CategoryValidation, "InvalidReason")
	ErrDisputeAlreadyExists   = ledger.NewError(ledger.CategoryConflict, "DisputeAlreadyExists")
	ErrDisputeNotFound        = ledger.NewError(ledger.CategoryNotFound, "DisputeNotFound")
	ErrDisputeAlreadyResolved = ledger.NewError(ledger.CategoryConflict, "DisputeAlreadyResolved")
	ErrUnauthorized           = ledger.NewError(ledger.CategoryAuthorization, "Unauthorized")
	ErrProductNotFound        = catalog.ErrProductNotFound
)

// OpenRequest raises a dispute on behalf of Buyer.
type OpenRequest struct {
	Buyer     ledger.Address `json:"buyer"`
	Seller    ledger.Address `json:"seller"`
	ProductID uint64         `json:"product_id"`
	Reason    string         `json:"reason"`
}

// ResolveRequest settles a pending dispute.
type ResolveRequest struct {
	Caller  ledger.Address `json:"caller"`
	Approve bool           `json:"approve"`
}
