package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleAuthor Role = "author"
	RoleReader Role = "reader"

	UserEntity = "user"
)

type User struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name          string               `bson:"name" json:"name"`
	Email         string               `bson:"email" json:"email"`
	Password      string               `bson:"password" json:"-"`
	Role          Role                 `bson:"role" json:"role"`
	BorrowedBooks []primitive.ObjectID `bson:"borrowed_books" json:"borrowed_books"`
	WrittenBooks  []primitive.ObjectID `bson:"written_books" json:"written_books,omitempty"`
	Version       int64                `bson:"version" json:"-"`
	CreatedAt     time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time            `bson:"updated_at" json:"updated_at"`
}

func (u *User) HasBorrowed(bookID primitive.ObjectID) bool {
	for _, id := range u.BorrowedBooks {
		if id == bookID {
			return true
		}
	}
	return false
}

var ValidRoles = map[string]bool{
	string(RoleAuthor): true,
	string(RoleReader): true,
}

func IsValidRole(role string) bool {
	return ValidRoles[role]
}
