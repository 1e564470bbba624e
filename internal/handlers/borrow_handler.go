package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/iamafnaan/Library-Management-System/internal/constants"
	"github.com/iamafnaan/Library-Management-System/internal/ledger"
	"github.com/iamafnaan/Library-Management-System/internal/metrics"
	"github.com/iamafnaan/Library-Management-System/internal/middleware"
	"github.com/iamafnaan/Library-Management-System/internal/models"
	"github.com/iamafnaan/Library-Management-System/internal/utils"
)

type BorrowHandler struct {
	Ledger      *ledger.Ledger
	AuditLogger utils.Logger
}

func NewBorrowHandler(ldg *ledger.Ledger, logger utils.Logger) *BorrowHandler {
	return &BorrowHandler{Ledger: ldg, AuditLogger: logger}
}

// POST /reader/books/borrow/{bookId}
func (h *BorrowHandler) Borrow(w http.ResponseWriter, r *http.Request) {
	acting := middleware.ActingUser(r.Context())

	bookID, err := primitive.ObjectIDFromHex(mux.Vars(r)["bookId"])
	if err != nil {
		utils.JSONError(w, "Invalid book ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	book, borrowed, err := h.Ledger.Borrow(ctx, acting.ID, bookID)
	if err != nil {
		metrics.ObserveBorrow(borrowResultLabel(err))
		writeLedgerError(w, err)
		return
	}
	metrics.ObserveBorrow("success")

	h.AuditLogger.Log(ctx, models.BookEntity, constants.Borrow, acting.ID.Hex(), bookID.Hex())

	utils.JSONSuccess(w, http.StatusOK, map[string]any{
		"book":           book,
		"borrowed_books": borrowed,
	})
}

// POST /reader/books/return/{bookId}
func (h *BorrowHandler) Return(w http.ResponseWriter, r *http.Request) {
	acting := middleware.ActingUser(r.Context())

	bookID, err := primitive.ObjectIDFromHex(mux.Vars(r)["bookId"])
	if err != nil {
		utils.JSONError(w, "Invalid book ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	book, borrowed, err := h.Ledger.Return(ctx, acting.ID, bookID)
	if err != nil {
		metrics.ObserveReturn(returnResultLabel(err))
		writeLedgerError(w, err)
		return
	}
	metrics.ObserveReturn("success")

	h.AuditLogger.Log(ctx, models.BookEntity, constants.Return, acting.ID.Hex(), bookID.Hex())

	utils.JSONSuccess(w, http.StatusOK, map[string]any{
		"book":           book,
		"borrowed_books": borrowed,
	})
}

// GET /reader/books/{id}
func (h *BorrowHandler) GetBorrowedBooks(w http.ResponseWriter, r *http.Request) {
	userID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.JSONError(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	books, err := h.Ledger.BorrowedBooks(ctx, userID)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	json.NewEncoder(w).Encode(map[string]any{
		"status":  "success",
		"results": len(books),
		"data":    map[string]any{"borrowed_books": books},
	})
}

func borrowResultLabel(err error) string {
	switch {
	case errors.Is(err, ledger.ErrOutOfStock):
		return "out_of_stock"
	case errors.Is(err, ledger.ErrBorrowLimitExceeded):
		return "limit_exceeded"
	case errors.Is(err, ledger.ErrAlreadyBorrowed):
		return "already_borrowed"
	case errors.Is(err, ledger.ErrConflict):
		metrics.ObserveConflict()
		return "conflict"
	default:
		return "error"
	}
}

func returnResultLabel(err error) string {
	switch {
	case errors.Is(err, ledger.ErrNotBorrowedByUser):
		return "not_borrowed"
	case errors.Is(err, ledger.ErrConflict):
		metrics.ObserveConflict()
		return "conflict"
	default:
		return "error"
	}
}
