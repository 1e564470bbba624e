// Package store provides the ledger's durable record access: a Mongo-backed
// implementation for the service and an in-memory one for tests. Writes are
// optimistic: every update matches on the version read and bumps it, so a
// lost update surfaces as ledger.ErrConflict instead of silently clobbering.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/iamafnaan/Library-Management-System/internal/ledger"
	"github.com/iamafnaan/Library-Management-System/internal/models"
)

type Mongo struct {
	Books *mongo.Collection
	Users *mongo.Collection
}

func NewMongo(books, users *mongo.Collection) *Mongo {
	return &Mongo{Books: books, Users: users}
}

func (s *Mongo) GetBook(ctx context.Context, id primitive.ObjectID) (*models.Book, error) {
	var book models.Book
	err := s.Books.FindOne(ctx, bson.M{"_id": id}).Decode(&book)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ledger.ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}
	return &book, nil
}

func (s *Mongo) GetBooks(ctx context.Context, ids []primitive.ObjectID) ([]models.Book, error) {
	cursor, err := s.Books.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("find books: %w", err)
	}
	defer cursor.Close(ctx)

	var books []models.Book
	if err := cursor.All(ctx, &books); err != nil {
		return nil, fmt.Errorf("decode books: %w", err)
	}
	return books, nil
}

func (s *Mongo) InsertBook(ctx context.Context, book *models.Book) error {
	book.Version = 1
	if _, err := s.Books.InsertOne(ctx, book); err != nil {
		return fmt.Errorf("insert book: %w", err)
	}
	return nil
}

func (s *Mongo) UpdateBook(ctx context.Context, book *models.Book) error {
	now := time.Now()
	res, err := s.Books.UpdateOne(ctx,
		bson.M{"_id": book.ID, "version": book.Version},
		bson.M{
			"$set": bson.M{
				"title":        book.Title,
				"genre":        book.Genre,
				"stock":        book.Stock,
				"total_copies": book.TotalCopies,
				"updated_at":   now,
			},
			"$inc": bson.M{"version": 1},
		},
	)
	if err != nil {
		return fmt.Errorf("update book: %w", err)
	}
	if res.MatchedCount == 0 {
		return ledger.ErrConflict
	}
	book.Version++
	book.UpdatedAt = now
	return nil
}

func (s *Mongo) DeleteBook(ctx context.Context, id primitive.ObjectID, version int64) error {
	res, err := s.Books.DeleteOne(ctx, bson.M{"_id": id, "version": version})
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if res.DeletedCount == 0 {
		return ledger.ErrConflict
	}
	return nil
}

func (s *Mongo) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.Users.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ledger.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

func (s *Mongo) UpdateUser(ctx context.Context, user *models.User) error {
	if user.BorrowedBooks == nil {
		user.BorrowedBooks = []primitive.ObjectID{}
	}
	now := time.Now()
	res, err := s.Users.UpdateOne(ctx,
		bson.M{"_id": user.ID, "version": user.Version},
		bson.M{
			"$set": bson.M{
				"borrowed_books": user.BorrowedBooks,
				"written_books":  user.WrittenBooks,
				"updated_at":     now,
			},
			"$inc": bson.M{"version": 1},
		},
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return ledger.ErrConflict
	}
	user.Version++
	user.UpdatedAt = now
	return nil
}

func (s *Mongo) CountBorrowers(ctx context.Context, bookID primitive.ObjectID) (int64, error) {
	n, err := s.Users.CountDocuments(ctx, bson.M{"borrowed_books": bookID})
	if err != nil {
		return 0, fmt.Errorf("count borrowers: %w", err)
	}
	return n, nil
}
