package ledger

import "errors"

// Category groups error kinds by the rule they violate.
type Category int

const (
	CategoryAuthorization Category = iota + 1
	CategoryNotFound
	CategoryConflict
	CategoryValidation
	CategoryTemporal
)

func (c Category) String() string {
	switch c {
	case CategoryAuthorization:
		return "authorization"
	case CategoryNotFound:
		return "not_found"
	case CategoryConflict:
		return "conflict"
	case CategoryValidation:
		return "validation"
	case CategoryTemporal:
		return "temporal"
	default:
		return "unknown"
	}
}

// Error is a typed failure returned by a ledger transition. Each module
// declares its own closed set of *Error values and callers compare them with
// errors.Is.
type Error struct {
	Code     string
	Category Category
}

// NewError declares an error kind.
func NewError(category Category, code string) *Error {
	return &Error{Code: code, Category: category}
}

func (e *Error) Error() string { return e.Code }

// ErrAuthRequired is returned when the invoking principal did not authorize
// the call on behalf of the claimed principal.
var ErrAuthRequired = NewError(CategoryAuthorization, "AuthRequired")

// AsError unwraps err into a ledger error, if it is one.
func AsError(err error) (*Error, bool) {
	var le *Error
	if errors.As(err, &le) {
		return le, true
	}
	return nil, false
}

// ErrInvalidAddress is returned when a principal argument is not a valid address.
var ErrInvalidAddress = NewError(CategoryValidation, "InvalidAddress")
