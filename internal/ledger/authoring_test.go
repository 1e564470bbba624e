package ledger_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/iamafnaan/Library-Management-System/internal/ledger"
	"github.com/iamafnaan/Library-Management-System/internal/models"
	"github.com/iamafnaan/Library-Management-System/internal/store"
)

func seedAuthor(mem *store.Memory) models.User {
	author := models.User{
		ID:    primitive.NewObjectID(),
		Name:  "Alan Donovan",
		Email: "alan@example.com",
		Role:  models.RoleAuthor,
	}
	mem.SeedUser(author)
	return author
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func TestCreateBook(t *testing.T) {
	ldg, mem := newTestLedger()
	author := seedAuthor(mem)

	book, err := ldg.CreateBook(context.Background(), author.ID, "Go in Practice", "reference", 4)
	require.NoError(t, err)

	assert.Equal(t, 4, book.Stock)
	assert.Equal(t, 4, book.TotalCopies)
	assert.Equal(t, author.ID, book.AuthorID)

	storedAuthor, err := mem.GetUser(context.Background(), author.ID)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{book.ID}, storedAuthor.WrittenBooks)
}

func TestCreateBook_DefaultsToSingleCopy(t *testing.T) {
	ldg, mem := newTestLedger()
	author := seedAuthor(mem)

	book, err := ldg.CreateBook(context.Background(), author.ID, "Novella", "fiction", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, book.Stock)
	assert.Equal(t, 1, book.TotalCopies)
}

func TestCreateBook_AuthorNotFound(t *testing.T) {
	ldg, _ := newTestLedger()

	_, err := ldg.CreateBook(context.Background(), primitive.NewObjectID(), "Orphan", "fiction", 1)
	assert.ErrorIs(t, err, ledger.ErrUserNotFound)
}

func TestUpdateBook_Forbidden(t *testing.T) {
	ldg, mem := newTestLedger()
	book := seedBook(mem, 2, 2)

	_, err := ldg.UpdateBook(context.Background(), book.ID, primitive.NewObjectID(), ledger.BookUpdate{
		Title: strPtr("Hijacked"),
	})
	assert.ErrorIs(t, err, ledger.ErrForbidden)

	stored, _ := mem.GetBook(context.Background(), book.ID)
	assert.Equal(t, book.Title, stored.Title)
}

func TestUpdateBook_Fields(t *testing.T) {
	ldg, mem := newTestLedger()
	book := seedBook(mem, 2, 2)

	updated, err := ldg.UpdateBook(context.Background(), book.ID, book.AuthorID, ledger.BookUpdate{
		Title: strPtr("Second Edition"),
		Genre: strPtr("textbook"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Second Edition", updated.Title)
	assert.Equal(t, "textbook", updated.Genre)
	assert.Equal(t, 2, updated.Stock)
}

func TestUpdateBook_StockRederivedFromBorrows(t *testing.T) {
	ldg, mem := newTestLedger()
	// 5 copies total, 2 out with readers.
	book := seedBook(mem, 3, 5)

	updated, err := ldg.UpdateBook(context.Background(), book.ID, book.AuthorID, ledger.BookUpdate{
		TotalCopies: intPtr(4),
	})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.TotalCopies)
	assert.Equal(t, 2, updated.Stock)
}

func TestUpdateBook_TotalBelowOutstandingBorrows(t *testing.T) {
	ldg, mem := newTestLedger()
	book := seedBook(mem, 3, 5)

	_, err := ldg.UpdateBook(context.Background(), book.ID, book.AuthorID, ledger.BookUpdate{
		TotalCopies: intPtr(1),
	})
	assert.ErrorIs(t, err, ledger.ErrInvalidStock)

	stored, _ := mem.GetBook(context.Background(), book.ID)
	assert.Equal(t, 5, stored.TotalCopies)
	assert.Equal(t, 3, stored.Stock)
}

func TestDeleteBook_BlockedWhileBorrowed(t *testing.T) {
	ldg, mem := newTestLedger()
	author := seedAuthor(mem)

	book, err := ldg.CreateBook(context.Background(), author.ID, "Popular", "fiction", 2)
	require.NoError(t, err)

	reader := seedReader(mem)
	_, _, err = ldg.Borrow(context.Background(), reader.ID, book.ID)
	require.NoError(t, err)

	err = ldg.DeleteBook(context.Background(), book.ID, author.ID)
	assert.ErrorIs(t, err, ledger.ErrConflict)

	// Nothing was deleted and the reader's reference is intact.
	_, err = mem.GetBook(context.Background(), book.ID)
	assert.NoError(t, err)
	storedReader, _ := mem.GetUser(context.Background(), reader.ID)
	assert.Equal(t, []primitive.ObjectID{book.ID}, storedReader.BorrowedBooks)
}

func TestDeleteBook_PurgesWrittenBooks(t *testing.T) {
	ldg, mem := newTestLedger()
	author := seedAuthor(mem)

	book, err := ldg.CreateBook(context.Background(), author.ID, "Unread", "fiction", 2)
	require.NoError(t, err)

	err = ldg.DeleteBook(context.Background(), book.ID, author.ID)
	require.NoError(t, err)

	_, err = mem.GetBook(context.Background(), book.ID)
	assert.ErrorIs(t, err, ledger.ErrBookNotFound)

	storedAuthor, _ := mem.GetUser(context.Background(), author.ID)
	assert.Empty(t, storedAuthor.WrittenBooks)
}

func TestDeleteBook_Forbidden(t *testing.T) {
	ldg, mem := newTestLedger()
	book := seedBook(mem, 1, 1)

	err := ldg.DeleteBook(context.Background(), book.ID, primitive.NewObjectID())
	assert.ErrorIs(t, err, ledger.ErrForbidden)
}

func TestDeleteBook_NotFound(t *testing.T) {
	ldg, mem := newTestLedger()
	author := seedAuthor(mem)

	err := ldg.DeleteBook(context.Background(), primitive.NewObjectID(), author.ID)
	assert.ErrorIs(t, err, ledger.ErrBookNotFound)
}
