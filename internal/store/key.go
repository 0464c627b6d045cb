package store

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/ipfs/go-datastore"

	"github.com/georgemunganga/bazaar-ledger/internal/ledger"
)

// Key addresses one record in the ledger store. The set of variants below is
// closed; every storage access goes through DatastoreKey, which matches them
// exhaustively.
type Key interface {
	isKey()
}

// AdminKey holds the contract administrator.
type AdminKey struct{}

// AuctionKey holds the auction a seller runs for one of their products.
type AuctionKey struct {
	Seller    ledger.Address
	ProductID uint64
}

// ProductListKey holds the ids of every product a seller has listed.
type ProductListKey struct {
	Seller ledger.Address
}

// ProductKey holds one product record.
type ProductKey struct {
	Seller    ledger.Address
	ProductID uint64
}

// ShipmentListKey holds the ids of every shipment a seller has quoted.
type ShipmentListKey struct {
	Seller ledger.Address
}

// ShipmentKey holds one shipment record.
type ShipmentKey struct {
	Seller     ledger.Address
	ShipmentID string
}

// SellerVerificationKey holds a seller's verification status.
type SellerVerificationKey struct {
	Seller ledger.Address
}

// DisputeKey holds the dispute a buyer raised against a seller's product.
type DisputeKey struct {
	Buyer     ledger.Address
	Seller    ledger.Address
	ProductID uint64
}

// ReturnPolicyKey holds a seller's return policy.
type ReturnPolicyKey struct {
	Seller ledger.Address
}

// ReturnRequestKey holds the return request open against a seller's product.
type ReturnRequestKey struct {
	Seller    ledger.Address
	ProductID uint64
}

func (AdminKey) isKey()              {}
func (AuctionKey) isKey()            {}
func (ProductListKey) isKey()        {}
func (ProductKey) isKey()            {}
func (ShipmentListKey) isKey()       {}
func (ShipmentKey) isKey()           {}
func (SellerVerificationKey) isKey() {}
func (DisputeKey) isKey()            {}
func (ReturnPolicyKey) isKey()       {}
func (ReturnRequestKey) isKey()      {}

// DatastoreKey encodes k into its hierarchical datastore form.
func DatastoreKey(k Key) datastore.Key {
	switch k := k.(type) {
	case AdminKey:
		return datastore.NewKey("/admin")
	case AuctionKey:
		return path("auction", k.Seller.String(), id(k.ProductID))
	case ProductListKey:
		return path("product-list", k.Seller.String())
	case ProductKey:
		return path("product", k.Seller.String(), id(k.ProductID))
	case ShipmentListKey:
		return path("shipment-list", k.Seller.String())
	case ShipmentKey:
		return path("shipment", k.Seller.String(), url.PathEscape(k.ShipmentID))
	case SellerVerificationKey:
		return path("seller-verification", k.Seller.String())
	case DisputeKey:
		return path("dispute", k.Buyer.String(), k.Seller.String(), id(k.ProductID))
	case ReturnPolicyKey:
		return path("return-policy", k.Seller.String())
	case ReturnRequestKey:
		return path("return-request", k.Seller.String(), id(k.ProductID))
	default:
		panic(fmt.Sprintf("store: unknown key variant %T", k))
	}
}

func path(parts ...string) datastore.Key {
	return datastore.KeyWithNamespaces(parts)
}

func id(n uint64) string {
	return strconv.FormatUint(n, 10)
}
