package models_test

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/iamafnaan/Library-Management-System/internal/models"
)

func TestIsValidRole(t *testing.T) {
	tests := []struct {
		name    string
		role    string
		isValid bool
	}{
		{"Valid Author Role", string(models.RoleAuthor), true},
		{"Valid Reader Role", string(models.RoleReader), true},
		{"Invalid Role", "admin", false},
		{"Empty Role", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := models.IsValidRole(tt.role); got != tt.isValid {
				t.Errorf("IsValidRole() = %v, want %v", got, tt.isValid)
			}
		})
	}
}

func TestUserHasBorrowed(t *testing.T) {
	held := primitive.NewObjectID()
	other := primitive.NewObjectID()

	user := models.User{BorrowedBooks: []primitive.ObjectID{held}}

	if !user.HasBorrowed(held) {
		t.Errorf("HasBorrowed() = false for a held book")
	}
	if user.HasBorrowed(other) {
		t.Errorf("HasBorrowed() = true for a book never borrowed")
	}
}

func TestBookActiveBorrows(t *testing.T) {
	book := models.Book{Stock: 3, TotalCopies: 5}
	if got := book.ActiveBorrows(); got != 2 {
		t.Errorf("ActiveBorrows() = %v, want 2", got)
	}
}
