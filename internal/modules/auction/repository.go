package auction

import (
	"errors"

	"github.com/georgemunganga/bazaar-ledger/internal/ledger"
	"github.com/georgemunganga/bazaar-ledger/internal/store"
)

func loadAuction(tx store.Txn, seller ledger.Address, productID uint64) (*Auction, error) {
	a, err := store.Load[Auction](tx, store.AuctionKey{Seller: seller, ProductID: productID})
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrAuctionNotFound
	}
	return a, err
}

func saveAuction(tx store.Txn, a *Auction) error {
	return tx.Put(store.AuctionKey{Seller: a.Seller, ProductID: a.ProductID}, a)
}
