// Package ledger owns every state transition that touches book stock or a
// user's borrowed set. Each borrow or return treats its (book, user) pair as
// one transactional unit: per-key locks serialize in-process callers and the
// store's version checks catch everything else, so a half-applied effect is
// never left behind for a later read to observe.
package ledger

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/iamafnaan/Library-Management-System/internal/models"
)

type Config struct {
	MaxBorrowedBooks int
	ConflictRetries  int
	LockWait         time.Duration
}

type Ledger struct {
	store Store
	locks *lockTable
	cfg   Config
}

func New(store Store, cfg Config) *Ledger {
	if cfg.MaxBorrowedBooks == 0 {
		cfg.MaxBorrowedBooks = 5
	}
	if cfg.ConflictRetries == 0 {
		cfg.ConflictRetries = 3
	}
	if cfg.LockWait == 0 {
		cfg.LockWait = 2 * time.Second
	}
	return &Ledger{store: store, locks: newLockTable(), cfg: cfg}
}

func bookKey(id primitive.ObjectID) string { return "book:" + id.Hex() }
func userKey(id primitive.ObjectID) string { return "user:" + id.Hex() }

// Borrow moves the (user, book) pair from NotBorrowed to Borrowed.
// Preconditions are checked in order, first failure wins: book exists, stock
// available, borrow limit not reached, title not already held. On success it
// returns the updated book and the user's new borrowed set.
func (l *Ledger) Borrow(ctx context.Context, userID, bookID primitive.ObjectID) (*models.Book, []primitive.ObjectID, error) {
	unlock, err := l.locks.acquire(ctx, l.cfg.LockWait, bookKey(bookID), userKey(userID))
	if err != nil {
		return nil, nil, err
	}
	defer unlock()

	for attempt := 0; ; attempt++ {
		book, err := l.store.GetBook(ctx, bookID)
		if err != nil {
			return nil, nil, err
		}
		user, err := l.store.GetUser(ctx, userID)
		if err != nil {
			return nil, nil, err
		}

		if book.Stock <= 0 {
			return nil, nil, ErrOutOfStock
		}
		if len(user.BorrowedBooks) >= l.cfg.MaxBorrowedBooks {
			return nil, nil, ErrBorrowLimitExceeded
		}
		if user.HasBorrowed(bookID) {
			return nil, nil, ErrAlreadyBorrowed
		}

		book.Stock--
		user.BorrowedBooks = append(user.BorrowedBooks, bookID)

		err = l.commitPair(ctx, book, user, -1)
		if errors.Is(err, ErrConflict) && attempt < l.cfg.ConflictRetries {
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		return book, user.BorrowedBooks, nil
	}
}

// Return moves the (user, book) pair back to NotBorrowed. Stock is capped at
// the title's total copies; a return that would exceed it means the records
// are already inconsistent and is refused.
func (l *Ledger) Return(ctx context.Context, userID, bookID primitive.ObjectID) (*models.Book, []primitive.ObjectID, error) {
	unlock, err := l.locks.acquire(ctx, l.cfg.LockWait, bookKey(bookID), userKey(userID))
	if err != nil {
		return nil, nil, err
	}
	defer unlock()

	for attempt := 0; ; attempt++ {
		book, err := l.store.GetBook(ctx, bookID)
		if err != nil {
			return nil, nil, err
		}
		user, err := l.store.GetUser(ctx, userID)
		if err != nil {
			return nil, nil, err
		}

		idx := -1
		for i, id := range user.BorrowedBooks {
			if id == bookID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, nil, ErrNotBorrowedByUser
		}
		if book.Stock >= book.TotalCopies {
			return nil, nil, ErrConflict
		}

		book.Stock++
		user.BorrowedBooks = append(user.BorrowedBooks[:idx], user.BorrowedBooks[idx+1:]...)

		err = l.commitPair(ctx, book, user, +1)
		if errors.Is(err, ErrConflict) && attempt < l.cfg.ConflictRetries {
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		return book, user.BorrowedBooks, nil
	}
}

// BorrowedBooks resolves the user's borrowed set to full book records.
func (l *Ledger) BorrowedBooks(ctx context.Context, userID primitive.ObjectID) ([]models.Book, error) {
	user, err := l.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(user.BorrowedBooks) == 0 {
		return []models.Book{}, nil
	}
	return l.store.GetBooks(ctx, user.BorrowedBooks)
}

// commitPair writes the book and then the user. If the user write fails the
// stock change is compensated before the error surfaces; stockDelta is the
// change that was applied to book.Stock going in.
func (l *Ledger) commitPair(ctx context.Context, book *models.Book, user *models.User, stockDelta int) error {
	if err := l.store.UpdateBook(ctx, book); err != nil {
		return err
	}
	if err := l.store.UpdateUser(ctx, user); err != nil {
		l.applyStock(ctx, book.ID, -stockDelta)
		return err
	}
	return nil
}

func (l *Ledger) applyStock(ctx context.Context, bookID primitive.ObjectID, delta int) {
	for attempt := 0; attempt <= l.cfg.ConflictRetries; attempt++ {
		book, err := l.store.GetBook(ctx, bookID)
		if err != nil {
			return
		}
		book.Stock += delta
		if err := l.store.UpdateBook(ctx, book); !errors.Is(err, ErrConflict) {
			return
		}
	}
}
