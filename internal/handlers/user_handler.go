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
	"github.com/iamafnaan/Library-Management-System/internal/middleware"
	"github.com/iamafnaan/Library-Management-System/internal/models"
	"github.com/iamafnaan/Library-Management-System/internal/utils"
)

type UserHandler struct {
	Collection  *mongo.Collection
	AuditLogger utils.Logger
}

func NewUserHandler(coll *mongo.Collection, logger utils.Logger) *UserHandler {
	return &UserHandler{Collection: coll, AuditLogger: logger}
}

// PUT /users/update/{id} — profile fields only; role, borrow and written sets
// are never editable here.
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["id"]
	userID, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		utils.JSONError(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	acting := middleware.ActingUser(r.Context())
	if acting == nil || acting.ID != userID {
		utils.JSONError(w, "You do not have permission to perform this action", http.StatusForbidden)
		return
	}

	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, "Invalid payload", http.StatusBadRequest)
		return
	}

	updateData := bson.M{"updated_at": time.Now()}
	if req.Name != "" {
		updateData["name"] = req.Name
	}
	if req.Email != "" {
		updateData["email"] = req.Email
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := h.Collection.UpdateByID(ctx, userID, bson.M{"$set": updateData})
	if err != nil {
		utils.JSONError(w, "Update failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		utils.JSONError(w, "User not found", http.StatusNotFound)
		return
	}

	h.AuditLogger.Log(ctx, models.UserEntity, constants.Update, acting.ID.Hex(), updateData)

	utils.JSONSuccess(w, http.StatusOK, map[string]string{"message": "User updated"})
}

// DELETE /users/delete/{id}
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["id"]
	userID, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		utils.JSONError(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	acting := middleware.ActingUser(r.Context())
	if acting == nil || acting.ID != userID {
		utils.JSONError(w, "You do not have permission to perform this action", http.StatusForbidden)
		return
	}
	if len(acting.BorrowedBooks) > 0 {
		utils.JSONError(w, "Return all borrowed books before deleting the account", http.StatusConflict)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := h.Collection.DeleteOne(ctx, bson.M{"_id": userID})
	if err != nil {
		utils.JSONError(w, "Delete failed", http.StatusInternalServerError)
		return
	}
	if res.DeletedCount == 0 {
		utils.JSONError(w, "User not found", http.StatusNotFound)
		return
	}

	h.AuditLogger.Log(ctx, models.UserEntity, constants.Delete, acting.ID.Hex(), idStr)

	w.WriteHeader(http.StatusNoContent)
}
