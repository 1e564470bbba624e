package handlers

import (
	"errors"
	"net/http"

	"github.com/iamafnaan/Library-Management-System/internal/ledger"
	"github.com/iamafnaan/Library-Management-System/internal/utils"
)

// writeLedgerError maps the ledger's error kinds onto HTTP statuses.
func writeLedgerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrBookNotFound),
		errors.Is(err, ledger.ErrUserNotFound):
		utils.JSONError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ledger.ErrForbidden):
		utils.JSONError(w, "You are not authorized to modify this book", http.StatusForbidden)
	case errors.Is(err, ledger.ErrConflict):
		utils.JSONError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ledger.ErrOutOfStock),
		errors.Is(err, ledger.ErrBorrowLimitExceeded),
		errors.Is(err, ledger.ErrAlreadyBorrowed),
		errors.Is(err, ledger.ErrNotBorrowedByUser),
		errors.Is(err, ledger.ErrInvalidStock):
		utils.JSONError(w, err.Error(), http.StatusBadRequest)
	default:
		utils.JSONError(w, "Internal error: "+err.Error(), http.StatusInternalServerError)
	}
}
