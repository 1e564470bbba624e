package ledger

import "errors"

var (
	ErrBookNotFound        = errors.New("book not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrOutOfStock          = errors.New("book is currently out of stock")
	ErrBorrowLimitExceeded = errors.New("maximum number of borrowed books reached")
	ErrAlreadyBorrowed     = errors.New("book already borrowed by this user")
	ErrNotBorrowedByUser   = errors.New("book was not borrowed by this user")
	ErrForbidden           = errors.New("not authorized for this book")
	ErrInvalidStock        = errors.New("total copies below outstanding borrows")

	// ErrConflict means a concurrent modification was detected (or a lock
	// could not be acquired in time); the caller may retry the request.
	ErrConflict = errors.New("conflicting concurrent modification")
)
