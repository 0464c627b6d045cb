package registry

import (
	"errors"

	"github.com/georgemunganga/bazaar-ledger/internal/ledger"
	"github.com/georgemunganga/bazaar-ledger/internal/store"
)

func loadVerification(tx store.Txn, seller ledger.Address) (*SellerVerification, error) {
	v, err := store.Load[SellerVerification](tx, store.SellerVerificationKey{Seller: seller})
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNoVerificationRequest
	}
	return v, err
}

func saveVerification(tx store.Txn, v *SellerVerification) error {
	return tx.Put(store.SellerVerificationKey{Seller: v.Seller}, v)
}

// IsVerified reports whether seller currently holds Verified status. Other
// components call it from inside their own transaction.
func IsVerified(tx store.Txn, seller ledger.Address) (bool, error) {
	v, err := loadVerification(tx, seller)
	if errors.Is(err, ErrNoVerificationRequest) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return v.Status == StatusVerified, nil
}
