package store

import "github.com/georgemunganga/bazaar-ledger/internal/ledger"

// Admin returns the contract administrator, or "" before initialization.
func Admin(tx Txn) (ledger.Address, error) {
	return LoadOrZero[ledger.Address](tx, AdminKey{})
}

// IsAdmin reports whether addr is the contract administrator.
func IsAdmin(tx Txn, addr ledger.Address) (bool, error) {
	admin, err := Admin(tx)
	if err != nil {
		return false, err
	}
	return admin != "" && admin == addr, nil
}
