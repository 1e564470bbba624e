package store

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/iamafnaan/Library-Management-System/internal/ledger"
	"github.com/iamafnaan/Library-Management-System/internal/models"
)

// Memory is an in-process Store with the same version-check semantics as the
// Mongo implementation. Used by ledger tests, including the concurrent ones.
type Memory struct {
	mu    sync.RWMutex
	books map[primitive.ObjectID]models.Book
	users map[primitive.ObjectID]models.User
}

func NewMemory() *Memory {
	return &Memory{
		books: map[primitive.ObjectID]models.Book{},
		users: map[primitive.ObjectID]models.User{},
	}
}

func (m *Memory) SeedBook(book models.Book) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if book.Version == 0 {
		book.Version = 1
	}
	m.books[book.ID] = book
}

func (m *Memory) SeedUser(user models.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.Version == 0 {
		user.Version = 1
	}
	m.users[user.ID] = user
}

func (m *Memory) GetBook(_ context.Context, id primitive.ObjectID) (*models.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	book, ok := m.books[id]
	if !ok {
		return nil, ledger.ErrBookNotFound
	}
	return &book, nil
}

func (m *Memory) GetBooks(_ context.Context, ids []primitive.ObjectID) ([]models.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	books := make([]models.Book, 0, len(ids))
	for _, id := range ids {
		if book, ok := m.books[id]; ok {
			books = append(books, book)
		}
	}
	return books, nil
}

func (m *Memory) InsertBook(_ context.Context, book *models.Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	book.Version = 1
	m.books[book.ID] = *book
	return nil
}

func (m *Memory) UpdateBook(_ context.Context, book *models.Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.books[book.ID]
	if !ok || stored.Version != book.Version {
		return ledger.ErrConflict
	}
	book.Version++
	book.UpdatedAt = time.Now()
	m.books[book.ID] = *book
	return nil
}

func (m *Memory) DeleteBook(_ context.Context, id primitive.ObjectID, version int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.books[id]
	if !ok || stored.Version != version {
		return ledger.ErrConflict
	}
	delete(m.books, id)
	return nil
}

func (m *Memory) GetUser(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, ledger.ErrUserNotFound
	}
	user.BorrowedBooks = append([]primitive.ObjectID(nil), user.BorrowedBooks...)
	user.WrittenBooks = append([]primitive.ObjectID(nil), user.WrittenBooks...)
	return &user, nil
}

func (m *Memory) UpdateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.users[user.ID]
	if !ok || stored.Version != user.Version {
		return ledger.ErrConflict
	}
	user.Version++
	user.UpdatedAt = time.Now()
	copied := *user
	copied.BorrowedBooks = append([]primitive.ObjectID(nil), user.BorrowedBooks...)
	copied.WrittenBooks = append([]primitive.ObjectID(nil), user.WrittenBooks...)
	m.users[user.ID] = copied
	return nil
}

func (m *Memory) CountBorrowers(_ context.Context, bookID primitive.ObjectID) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for _, user := range m.users {
		for _, id := range user.BorrowedBooks {
			if id == bookID {
				n++
				break
			}
		}
	}
	return n, nil
}
