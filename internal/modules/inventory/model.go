package inventory

import (
	"github.com/georgemunganga/bazaar-ledger/internal/ledger"
	"github.com/georgemunganga/bazaar-ledger/internal/modules/catalog"
)

// Receipt records an outright purchase. Settlement happens off this ledger.
type Receipt struct {
	Buyer       ledger.Address `json:"buyer"`
	Seller      ledger.Address `json:"seller"`
	ProductID   uint64         `json:"product_id"`
	Quantity    uint32         `json:"quantity"`
	UnitPrice   uint64         `json:"unit_price"`
	Total       uint64         `json:"total"`
	Remaining   uint32         `json:"remaining_stock"`
	PurchasedAt uint64         `json:"purchased_at"`
}

var (
	ErrProductNotFound = catalog.ErrProductNotFound
	ErrUnauthorized    = ledger.NewError(ledger.CategoryAuthorization, "Unauthorized")
	ErrOutOfStock      = ledger.NewError(ledger.CategoryValidation, "OutOfStock")
	ErrInvalidBuyer    = ledger.NewError(ledger.CategoryAuthorization, "InvalidBuyer")
	ErrInvalidQuantity = ledger.NewError(ledger.CategoryValidation, "InvalidQuantity")
)

// AdjustStockRequest changes a product's stock by Delta.
type AdjustStockRequest struct {
	Caller ledger.Address `json:"caller"`
	Delta  int64          `json:"delta"`
}

// PurchaseRequest buys Quantity units at the listed price.
type PurchaseRequest struct {
	Buyer    ledger.Address `json:"buyer"`
	Quantity uint32         `json:"quantity"`
}
