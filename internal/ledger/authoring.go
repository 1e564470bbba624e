package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/iamafnaan/Library-Management-System/internal/models"
)

// BookUpdate carries the author-editable fields; nil means leave unchanged.
// Stock is never set directly: a new TotalCopies re-derives available stock
// from the outstanding borrows so the allocation invariant survives the edit.
type BookUpdate struct {
	Title       *string
	Genre       *string
	TotalCopies *int
}

func (l *Ledger) CreateBook(ctx context.Context, authorID primitive.ObjectID, title, genre string, totalCopies int) (*models.Book, error) {
	if totalCopies <= 0 {
		totalCopies = 1
	}

	unlock, err := l.locks.acquire(ctx, l.cfg.LockWait, userKey(authorID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	now := time.Now()
	book := &models.Book{
		ID:          primitive.NewObjectID(),
		Title:       title,
		Genre:       genre,
		AuthorID:    authorID,
		Stock:       totalCopies,
		TotalCopies: totalCopies,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := l.store.GetUser(ctx, authorID); err != nil {
		return nil, err
	}
	if err := l.store.InsertBook(ctx, book); err != nil {
		return nil, err
	}

	for attempt := 0; ; attempt++ {
		author, err := l.store.GetUser(ctx, authorID)
		if err == nil {
			author.WrittenBooks = append(author.WrittenBooks, book.ID)
			err = l.store.UpdateUser(ctx, author)
		}
		if errors.Is(err, ErrConflict) && attempt < l.cfg.ConflictRetries {
			continue
		}
		if err != nil {
			_ = l.store.DeleteBook(ctx, book.ID, book.Version)
			return nil, err
		}
		return book, nil
	}
}

func (l *Ledger) UpdateBook(ctx context.Context, bookID, actingUserID primitive.ObjectID, upd BookUpdate) (*models.Book, error) {
	unlock, err := l.locks.acquire(ctx, l.cfg.LockWait, bookKey(bookID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	for attempt := 0; ; attempt++ {
		book, err := l.store.GetBook(ctx, bookID)
		if err != nil {
			return nil, err
		}
		if book.AuthorID != actingUserID {
			return nil, ErrForbidden
		}

		if upd.Title != nil {
			book.Title = *upd.Title
		}
		if upd.Genre != nil {
			book.Genre = *upd.Genre
		}
		if upd.TotalCopies != nil {
			active := book.ActiveBorrows()
			if *upd.TotalCopies < active {
				return nil, fmt.Errorf("%w: %d copies still borrowed", ErrInvalidStock, active)
			}
			book.TotalCopies = *upd.TotalCopies
			book.Stock = *upd.TotalCopies - active
		}

		err = l.store.UpdateBook(ctx, book)
		if errors.Is(err, ErrConflict) && attempt < l.cfg.ConflictRetries {
			continue
		}
		if err != nil {
			return nil, err
		}
		return book, nil
	}
}

// DeleteBook removes a title. Deletion is refused while any reader still
// holds a copy, so a borrowed set can never point at a book that no longer
// exists.
func (l *Ledger) DeleteBook(ctx context.Context, bookID, actingUserID primitive.ObjectID) error {
	unlock, err := l.locks.acquire(ctx, l.cfg.LockWait, bookKey(bookID), userKey(actingUserID))
	if err != nil {
		return err
	}
	defer unlock()

	for attempt := 0; ; attempt++ {
		book, err := l.store.GetBook(ctx, bookID)
		if err != nil {
			return err
		}
		if book.AuthorID != actingUserID {
			return ErrForbidden
		}

		borrowers, err := l.store.CountBorrowers(ctx, bookID)
		if err != nil {
			return err
		}
		if borrowers > 0 {
			return fmt.Errorf("%w: book has outstanding borrows", ErrConflict)
		}

		err = l.store.DeleteBook(ctx, bookID, book.Version)
		if errors.Is(err, ErrConflict) && attempt < l.cfg.ConflictRetries {
			continue
		}
		if err != nil {
			return err
		}
		break
	}

	for attempt := 0; ; attempt++ {
		author, err := l.store.GetUser(ctx, actingUserID)
		if err != nil {
			return nil // book is gone; a vanished author has nothing to purge
		}
		kept := author.WrittenBooks[:0]
		for _, id := range author.WrittenBooks {
			if id != bookID {
				kept = append(kept, id)
			}
		}
		author.WrittenBooks = kept

		err = l.store.UpdateUser(ctx, author)
		if errors.Is(err, ErrConflict) && attempt < l.cfg.ConflictRetries {
			continue
		}
		return err
	}
}
