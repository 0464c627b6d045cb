package dispute

import (
	"errors"

	"github.com/georgemunganga/bazaar-ledger/internal/ledger"
	"github.com/georgemunganga/bazaar-ledger/internal/store"
)

func disputeKey(buyer, seller ledger.Address, productID uint64) store.DisputeKey {
	return store.DisputeKey{Buyer: buyer, Seller: seller, ProductID: productID}
}

func loadDispute(tx store.Txn, buyer, seller ledger.Address, productID uint64) (*Dispute, error) {
	d, err := store.Load[Dispute](tx, disputeKey(buyer, seller, productID))
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrDisputeNotFound
	}
	return d, err
}

func saveDispute(tx store.Txn, d *Dispute) error {
	return tx.Put(disputeKey(d.Buyer, d.Seller, d.ProductID), d)
}
