package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/iamafnaan/Library-Management-System/internal/handlers"
	"github.com/iamafnaan/Library-Management-System/internal/ledger"
	"github.com/iamafnaan/Library-Management-System/internal/middleware"
	"github.com/iamafnaan/Library-Management-System/internal/models"
	"github.com/iamafnaan/Library-Management-System/internal/store"
	"github.com/iamafnaan/Library-Management-System/internal/utils"
)

type borrowFixture struct {
	router *mux.Router
	mem    *store.Memory
}

func newBorrowFixture() *borrowFixture {
	mem := store.NewMemory()
	ldg := ledger.New(mem, ledger.Config{})
	handler := handlers.NewBorrowHandler(ldg, utils.Logger{})

	router := mux.NewRouter()
	router.HandleFunc("/reader/books/borrow/{bookId}", handler.Borrow).Methods("POST")
	router.HandleFunc("/reader/books/return/{bookId}", handler.Return).Methods("POST")
	router.HandleFunc("/reader/books/{id}", handler.GetBorrowedBooks).Methods("GET")

	return &borrowFixture{router: router, mem: mem}
}

func (f *borrowFixture) seedBook(stock, total int) models.Book {
	book := models.Book{
		ID:          primitive.NewObjectID(),
		Title:       "Dune",
		Genre:       "sci-fi",
		AuthorID:    primitive.NewObjectID(),
		Stock:       stock,
		TotalCopies: total,
	}
	f.mem.SeedBook(book)
	return book
}

func (f *borrowFixture) seedReader(borrowed ...primitive.ObjectID) models.User {
	user := models.User{
		ID:            primitive.NewObjectID(),
		Name:          "Paul",
		Role:          models.RoleReader,
		BorrowedBooks: borrowed,
	}
	f.mem.SeedUser(user)
	return user
}

func (f *borrowFixture) do(method, path string, acting *models.User) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req = req.WithContext(middleware.WithActingUser(req.Context(), acting))
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestBorrowHandler_Borrow(t *testing.T) {
	f := newBorrowFixture()
	book := f.seedBook(2, 2)
	reader := f.seedReader()

	w := f.do(http.MethodPost, "/reader/books/borrow/"+book.ID.Hex(), &reader)

	res := w.Result()
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var body struct {
		Status string `json:"status"`
		Data   struct {
			Book models.Book `json:"book"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	assert.Equal(t, "success", body.Status)
	assert.Equal(t, 1, body.Data.Book.Stock)

	stored, err := f.mem.GetUser(context.Background(), reader.ID)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{book.ID}, stored.BorrowedBooks)
}

func TestBorrowHandler_BorrowOutOfStock(t *testing.T) {
	f := newBorrowFixture()
	book := f.seedBook(0, 1)
	reader := f.seedReader()

	w := f.do(http.MethodPost, "/reader/books/borrow/"+book.ID.Hex(), &reader)

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestBorrowHandler_BorrowUnknownBook(t *testing.T) {
	f := newBorrowFixture()
	reader := f.seedReader()

	w := f.do(http.MethodPost, "/reader/books/borrow/"+primitive.NewObjectID().Hex(), &reader)

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestBorrowHandler_BorrowInvalidID(t *testing.T) {
	f := newBorrowFixture()
	reader := f.seedReader()

	w := f.do(http.MethodPost, "/reader/books/borrow/not-an-id", &reader)

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestBorrowHandler_ReturnNotBorrowed(t *testing.T) {
	f := newBorrowFixture()
	book := f.seedBook(1, 2)
	reader := f.seedReader()

	w := f.do(http.MethodPost, "/reader/books/return/"+book.ID.Hex(), &reader)

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestBorrowHandler_RoundTrip(t *testing.T) {
	f := newBorrowFixture()
	book := f.seedBook(3, 3)
	reader := f.seedReader()

	w := f.do(http.MethodPost, "/reader/books/borrow/"+book.ID.Hex(), &reader)
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(http.MethodPost, "/reader/books/return/"+book.ID.Hex(), &reader)
	require.Equal(t, http.StatusOK, w.Code)

	stored, err := f.mem.GetBook(context.Background(), book.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.Stock)
}

func TestBorrowHandler_GetBorrowedBooks(t *testing.T) {
	f := newBorrowFixture()
	book := f.seedBook(2, 2)
	reader := f.seedReader()

	w := f.do(http.MethodPost, "/reader/books/borrow/"+book.ID.Hex(), &reader)
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(http.MethodGet, "/reader/books/"+reader.ID.Hex(), &reader)

	res := w.Result()
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var body struct {
		Status  string `json:"status"`
		Results int    `json:"results"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	assert.Equal(t, "success", body.Status)
	assert.Equal(t, 1, body.Results)
}
