package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/iamafnaan/Library-Management-System/internal/constants"
	"github.com/iamafnaan/Library-Management-System/internal/ledger"
	"github.com/iamafnaan/Library-Management-System/internal/middleware"
	"github.com/iamafnaan/Library-Management-System/internal/models"
	"github.com/iamafnaan/Library-Management-System/internal/utils"
)

type BookHandler struct {
	BookCollection *mongo.Collection
	UserCollection *mongo.Collection
	Ledger         *ledger.Ledger
	AuditLogger    utils.Logger
}

func NewBookHandler(bookColl, userColl *mongo.Collection, ldg *ledger.Ledger, logger utils.Logger) *BookHandler {
	return &BookHandler{
		BookCollection: bookColl,
		UserCollection: userColl,
		Ledger:         ldg,
		AuditLogger:    logger,
	}
}

type CreateBookRequest struct {
	Title string `json:"title"`
	Genre string `json:"genre"`
	Stock int    `json:"stock"`
}

type UpdateBookRequest struct {
	Title *string `json:"title"`
	Genre *string `json:"genre"`
	Stock *int    `json:"stock"`
}

// POST /books/create
func (h *BookHandler) CreateBook(w http.ResponseWriter, r *http.Request) {
	acting := middleware.ActingUser(r.Context())

	var req CreateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, "Invalid payload", http.StatusBadRequest)
		return
	}
	if req.Title == "" || req.Genre == "" {
		utils.JSONError(w, "A book must have a title and a genre", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	book, err := h.Ledger.CreateBook(ctx, acting.ID, req.Title, req.Genre, req.Stock)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	h.AuditLogger.Log(ctx, models.BookEntity, constants.Create, acting.ID.Hex(), book)

	utils.JSONSuccess(w, http.StatusCreated, map[string]any{"book": book})
}

// GET /books — public listing with case-insensitive title/genre/author filters.
func (h *BookHandler) GetBooks(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	filter := bson.M{}
	if title := r.URL.Query().Get("title"); title != "" {
		filter["title"] = bson.M{"$regex": title, "$options": "i"}
	}
	if genre := r.URL.Query().Get("genre"); genre != "" {
		filter["genre"] = bson.M{"$regex": genre, "$options": "i"}
	}
	if author := r.URL.Query().Get("author"); author != "" {
		cursor, err := h.UserCollection.Find(ctx, bson.M{
			"role": models.RoleAuthor,
			"name": bson.M{"$regex": author, "$options": "i"},
		})
		if err != nil {
			utils.JSONError(w, "Failed to search authors", http.StatusInternalServerError)
			return
		}
		var authors []models.User
		if err := cursor.All(ctx, &authors); err != nil {
			utils.JSONError(w, "Error decoding authors", http.StatusInternalServerError)
			return
		}
		ids := make([]primitive.ObjectID, 0, len(authors))
		for _, a := range authors {
			ids = append(ids, a.ID)
		}
		filter["author_id"] = bson.M{"$in": ids}
	}

	cursor, err := h.BookCollection.Find(ctx, filter)
	if err != nil {
		utils.JSONError(w, "Failed to fetch books", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var books []models.Book
	if err = cursor.All(ctx, &books); err != nil {
		utils.JSONError(w, "Error decoding books", http.StatusInternalServerError)
		return
	}
	if books == nil {
		books = []models.Book{}
	}

	json.NewEncoder(w).Encode(map[string]any{
		"status":  "success",
		"results": len(books),
		"data":    map[string]any{"books": books},
	})
}

// GET /books/author/{id}
func (h *BookHandler) GetAuthorBooks(w http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["id"]
	authorID, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		utils.JSONError(w, "Invalid author ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cursor, err := h.BookCollection.Find(ctx, bson.M{"author_id": authorID})
	if err != nil {
		utils.JSONError(w, "Failed to fetch books", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var books []models.Book
	if err = cursor.All(ctx, &books); err != nil {
		utils.JSONError(w, "Error decoding books", http.StatusInternalServerError)
		return
	}
	if books == nil {
		books = []models.Book{}
	}

	utils.JSONSuccess(w, http.StatusOK, map[string]any{"books": books})
}

// PUT /books/update/{id} — stock edits run through the ledger so available
// copies are re-derived from outstanding borrows.
func (h *BookHandler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["id"]
	bookID, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		utils.JSONError(w, "Invalid book ID", http.StatusBadRequest)
		return
	}

	acting := middleware.ActingUser(r.Context())

	var req UpdateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, "Invalid payload", http.StatusBadRequest)
		return
	}
	if req.Title == nil && req.Genre == nil && req.Stock == nil {
		utils.JSONError(w, "No update fields provided", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	book, err := h.Ledger.UpdateBook(ctx, bookID, acting.ID, ledger.BookUpdate{
		Title:       req.Title,
		Genre:       req.Genre,
		TotalCopies: req.Stock,
	})
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	h.AuditLogger.Log(ctx, models.BookEntity, constants.Update, acting.ID.Hex(), book)

	utils.JSONSuccess(w, http.StatusOK, map[string]any{"book": book})
}

// DELETE /books/delete/{id}
func (h *BookHandler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["id"]
	bookID, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		utils.JSONError(w, "Invalid book ID", http.StatusBadRequest)
		return
	}

	acting := middleware.ActingUser(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Ledger.DeleteBook(ctx, bookID, acting.ID); err != nil {
		writeLedgerError(w, err)
		return
	}

	h.AuditLogger.Log(ctx, models.BookEntity, constants.Delete, acting.ID.Hex(), idStr)

	w.WriteHeader(http.StatusNoContent)
}
