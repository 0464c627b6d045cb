package catalog

import (
	"errors"

	"github.com/georgemunganga/bazaar-ledger/internal/ledger"
	"github.com/georgemunganga/bazaar-ledger/internal/store"
)

// LoadProduct reads one product inside tx.
func LoadProduct(tx store.Txn, seller ledger.Address, id uint64) (*Product, error) {
	p, err := store.Load[Product](tx, store.ProductKey{Seller: seller, ProductID: id})
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	return p, err
}

// SaveProduct writes p inside tx.
func SaveProduct(tx store.Txn, p *Product) error {
	return tx.Put(store.ProductKey{Seller: p.Seller, ProductID: p.ID}, p)
}

func loadProductList(tx store.Txn, seller ledger.Address) ([]uint64, error) {
	return store.LoadOrZero[[]uint64](tx, store.ProductListKey{Seller: seller})
}

func saveProductList(tx store.Txn, seller ledger.Address, ids []uint64) error {
	return tx.Put(store.ProductListKey{Seller: seller}, ids)
}
