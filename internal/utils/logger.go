package utils

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/iamafnaan/Library-Management-System/internal/models"
)

type Logger struct {
	Collection *mongo.Collection
}

func (l *Logger) Log(ctx context.Context, entity, action, performedBy string, data any) error {
	entry := models.AuditLog{
		Timestamp:   time.Now(),
		Entity:      entity,
		Action:      action,
		RequestID:   RequestIDFromContext(ctx),
		PerformedBy: performedBy,
		Data:        data,
	}
	if l.Collection == nil {
		return nil
	}
	_, err := l.Collection.InsertOne(ctx, entry)
	return err
}
