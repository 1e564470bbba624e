package ledger

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/iamafnaan/Library-Management-System/internal/models"
)

// Store is the durable record access the ledger runs against. Updates and
// deletes are version-checked: a write against a record whose version no
// longer matches the one that was read fails with ErrConflict, and the
// successful path bumps the stored version. Lookups of missing records fail
// with ErrBookNotFound / ErrUserNotFound.
type Store interface {
	GetBook(ctx context.Context, id primitive.ObjectID) (*models.Book, error)
	GetBooks(ctx context.Context, ids []primitive.ObjectID) ([]models.Book, error)
	InsertBook(ctx context.Context, book *models.Book) error
	UpdateBook(ctx context.Context, book *models.Book) error
	DeleteBook(ctx context.Context, id primitive.ObjectID, version int64) error

	GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error

	// CountBorrowers reports how many users currently hold the given book.
	CountBorrowers(ctx context.Context, bookID primitive.ObjectID) (int64, error)
}
