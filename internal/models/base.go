package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Base carries the identity and timestamps shared by every collection.
type Base struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// Stamp sets the identity and timestamps the store owns.
func (b *Base) Stamp(id primitive.ObjectID, created, updated time.Time) {
	b.ID = id
	b.CreatedAt = created
	b.UpdatedAt = updated
}

func (b *Base) DocumentID() primitive.ObjectID {
	return b.ID
}

func (b *Base) CreatedTime() time.Time {
	return b.CreatedAt
}

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
