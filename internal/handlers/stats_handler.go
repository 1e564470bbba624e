package handlers

import (
	"encoding/json"
	"net/http"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/iamafnaan/Library-Management-System/internal/models"
	"github.com/iamafnaan/Library-Management-System/internal/utils"
)

type StatsHandler struct {
	BookCol *mongo.Collection
	UserCol *mongo.Collection
}

// GET /admin/stats
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// 1. Total titles
	totalTitles, _ := h.BookCol.CountDocuments(ctx, bson.M{})

	// 2. Registered readers and authors
	readers, _ := h.UserCol.CountDocuments(ctx, bson.M{"role": models.RoleReader})
	authors, _ := h.UserCol.CountDocuments(ctx, bson.M{"role": models.RoleAuthor})

	// 3. Titles with no copies left
	outOfStock, _ := h.BookCol.CountDocuments(ctx, bson.M{"stock": 0})

	// 4. Copies currently out with readers
	cursor, err := h.BookCol.Find(ctx, bson.M{})
	if err != nil {
		utils.JSONError(w, "Failed to fetch books", http.StatusInternalServerError)
		return
	}
	var books []models.Book
	_ = cursor.All(ctx, &books)

	var totalCopies, activeBorrows int
	for _, book := range books {
		totalCopies += book.TotalCopies
		activeBorrows += book.ActiveBorrows()
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"total_titles":   totalTitles,
		"total_copies":   totalCopies,
		"active_borrows": activeBorrows,
		"out_of_stock":   outOfStock,
		"readers":        readers,
		"authors":        authors,
	})
}
