package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Book struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Genre       string             `bson:"genre" json:"genre"`
	AuthorID    primitive.ObjectID `bson:"author_id" json:"author_id"`
	Stock       int                `bson:"stock" json:"stock"`
	TotalCopies int                `bson:"total_copies" json:"total_copies"`
	Version     int64              `bson:"version" json:"-"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// ActiveBorrows is the number of copies currently out with readers.
func (b *Book) ActiveBorrows() int {
	return b.TotalCopies - b.Stock
}

const (
	BookEntity = "book"
)
