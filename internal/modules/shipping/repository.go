package shipping

import (
	"errors"

	"github.com/georgemunganga/bazaar-ledger/internal/ledger"
	"github.com/georgemunganga/bazaar-ledger/internal/store"
)

func loadShipment(tx store.Txn, seller ledger.Address, id string) (*Shipment, error) {
	sh, err := store.Load[Shipment](tx, store.ShipmentKey{Seller: seller, ShipmentID: id})
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrShipmentNotFound
	}
	return sh, err
}

func saveShipment(tx store.Txn, sh *Shipment) error {
	return tx.Put(store.ShipmentKey{Seller: sh.Seller, ShipmentID: sh.ID}, sh)
}

func loadShipmentList(tx store.Txn, seller ledger.Address) ([]string, error) {
	return store.LoadOrZero[[]string](tx, store.ShipmentListKey{Seller: seller})
}

func saveShipmentList(tx store.Txn, seller ledger.Address, ids []string) error {
	return tx.Put(store.ShipmentListKey{Seller: seller}, ids)
}
