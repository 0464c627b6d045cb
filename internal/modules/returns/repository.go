package returns

import (
	"errors"

	"github.com/georgemunganga/bazaar-ledger/internal/ledger"
	"github.com/georgemunganga/bazaar-ledger/internal/store"
)

func loadPolicy(tx store.Txn, seller ledger.Address) (*Policy, error) {
	p, err := store.Load[Policy](tx, store.ReturnPolicyKey{Seller: seller})
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrReturnPolicyNotFound
	}
	return p, err
}

func savePolicy(tx store.Txn, p *Policy) error {
	return tx.Put(store.ReturnPolicyKey{Seller: p.Seller}, p)
}

func loadRequest(tx store.Txn, seller ledger.Address, productID uint64) (*Request, error) {
	r, err := store.Load[Request](tx, store.ReturnRequestKey{Seller: seller, ProductID: productID})
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrReturnRequestNotFound
	}
	return r, err
}

func saveRequest(tx store.Txn, r *Request) error {
	return tx.Put(store.ReturnRequestKey{Seller: r.Seller, ProductID: r.ProductID}, r)
}
