package registry

import "github.com/georgemunganga/bazaar-ledger/internal/ledger"

// VerificationStatus is the state of a seller's verification workflow.
type VerificationStatus string

const (
	StatusPending  VerificationStatus = "Pending"
	StatusVerified VerificationStatus = "Verified"
	StatusRejected VerificationStatus = "Rejected"
)

// SellerVerification records where a seller stands with the administrator.
// Only Verified sellers may list or auction products.
type SellerVerification struct {
	Seller      ledger.Address     `json:"seller"`
	Status      VerificationStatus `json:"status"`
	RequestedAt uint64             `json:"requested_at"`
	DecidedAt   uint64             `json:"decided_at,omitempty"`
	DecidedBy   *ledger.Address    `json:"decided_by,omitempty"`
}

var (
	ErrAlreadyVerified       = ledger.NewError(ledger.CategoryConflict, "AlreadyVerified")
	ErrUnauthorizedAccess    = ledger.NewError(ledger.CategoryAuthorization, "UnauthorizedAccess")
	ErrAlreadyRequested      = ledger.NewError(ledger.CategoryConflict, "AlreadyRequested")
	ErrNoVerificationRequest = ledger.NewError(ledger.CategoryNotFound, "NoVerificationRequest")
	ErrAdminNotSet           = ledger.NewError(ledger.CategoryNotFound, "AdminNotSet")
)

// SetAdminRequest hands the administrator role to NewAdmin.
type SetAdminRequest struct {
	Caller   ledger.Address `json:"caller"`
	NewAdmin ledger.Address `json:"new_admin"`
}

// DecisionRequest approves or rejects a pending verification.
type DecisionRequest struct {
	Admin   ledger.Address `json:"admin"`
	Approve bool           `json:"approve"`
}
