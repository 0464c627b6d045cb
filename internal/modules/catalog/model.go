package catalog

import "github.com/georgemunganga/bazaar-ledger/internal/ledger"

// Condition describes the physical state of a listed item.
type Condition string

const (
	ConditionNew            Condition = "New"
	ConditionOpenBox        Condition = "OpenBox"
	ConditionUsedGood       Condition = "UsedGood"
	ConditionUsedAcceptable Condition = "UsedAcceptable"
	ConditionRefurbished    Condition = "Refurbished"
)

// Valid reports whether c is one of the known conditions.
func (c Condition) Valid() bool {
	switch c {
	case ConditionNew, ConditionOpenBox, ConditionUsedGood, ConditionUsedAcceptable, ConditionRefurbished:
		return true
	}
	return false
}

// Product is a seller's listing. Ids are assigned per seller, starting at 1.
type Product struct {
	ID           uint64         `json:"id"`
	Seller       ledger.Address `json:"seller"`
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	Price        uint64         `json:"price"`
	Condition    Condition      `json:"condition"`
	Stock        uint32         `json:"stock"`
	Images       []string       `json:"images"`
	WeightPounds uint64         `json:"weight_pounds"`
	Verified     bool           `json:"verified"`
	ListedAt     uint64         `json:"listed_at"`
}

// MaxNameLen bounds product names to the width of a ledger symbol.
const MaxNameLen = 32

// Config bounds listing inputs.
type Config struct {
	MaxImages         int `envconfig:"MAX_IMAGES" default:"5"`
	MaxDescriptionLen int `envconfig:"MAX_DESCRIPTION_LEN" default:"500"`
}

// DefaultConfig mirrors the envconfig defaults.
func DefaultConfig() Config {
	return Config{MaxImages: 5, MaxDescriptionLen: 500}
}

var (
	ErrInvalidName        = ledger.NewError(ledger.CategoryValidation, "InvalidName")
	ErrInvalidDescription = ledger.NewError(ledger.CategoryValidation, "InvalidDescription")
	ErrInvalidPrice       = ledger.NewError(ledger.CategoryValidation, "InvalidPrice")
	ErrInvalidWeight      = ledger.NewError(ledger.CategoryValidation, "InvalidWeight")
	ErrInvalidCondition   = ledger.NewError(ledger.CategoryValidation, "InvalidCondition")
	ErrInvalidImageCount  = ledger.NewError(ledger.CategoryValidation, "InvalidImageCount")
	ErrProductNotFound    = ledger.NewError(ledger.CategoryNotFound, "ProductNotFound")
	ErrUnauthorized       = ledger.NewError(ledger.CategoryAuthorization, "Unauthorized")
	ErrSellerNotVerified  = ledger.NewError(ledger.CategoryAuthorization, "SellerNotVerified")
)

// CreateProductRequest holds the data for listing a product.
type CreateProductRequest struct {
	Seller       ledger.Address `json:"seller"`
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	Price        uint64         `json:"price"`
	Condition    Condition      `json:"condition"`
	Stock        uint32         `json:"stock"`
	Images       []string       `json:"images"`
	WeightPounds uint64         `json:"weight_pounds"`
}

// UpdatePriceRequest reprices an existing listing.
type UpdatePriceRequest struct {
	Caller ledger.Address `json:"caller"`
	Price  uint64         `json:"price"`
}
