package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrInvalidID = errors.New("invalid document ID")
)

const (
	writeTimeout = 5 * time.Second
	readTimeout  = 3 * time.Second
	listTimeout  = 10 * time.Second
)

// Document is implemented by *T for every stored model.
type Document[T any] interface {
	*T
	DocumentID() primitive.ObjectID
	CreatedTime() time.Time
	Stamp(id primitive.ObjectID, created, updated time.Time)
}

// ListQuery describes one page of a collection.
type ListQuery struct {
	Search       string
	SearchFields []string
	Filters      bson.M // equality matches
	Sort         bson.D
	Page         int
	PageSize     int // 0 returns every match
}

func (q ListQuery) skip() int64 {
	if q.PageSize <= 0 || q.Page <= 1 {
		return 0
	}
	return int64((q.Page - 1) * q.PageSize)
}

// Store is the persistence contract the handlers depend on.
type Store[T any] interface {
	Create(ctx context.Context, doc *T) error
	FindByID(ctx context.Context, id string) (*T, error)
	List(ctx context.Context, q ListQuery) ([]*T, int64, error)
	Replace(ctx context.Context, id string, doc *T) error
	Update(ctx context.Context, id string, fields bson.M) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, filter bson.M) (int64, error)
}

// Open returns a Mongo-backed store for the named collection, or an in-memory
// one when db is nil.
func Open[T any, P Document[T]](db *mongo.Database, collection string) Store[T] {
	if db == nil {
		return NewMemoryStore[T, P]()
	}
	return NewMongoStore[T, P](db.Collection(collection))
}

func parseID(id string) (primitive.ObjectID, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return objID, nil
}

// Fields flattens doc into the top-level fields a $set may carry. Store-owned
// fields are left out.
func Fields(doc any) (bson.M, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var fields bson.M
	if err := bson.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	delete(fields, "_id")
	delete(fields, "created_at")
	delete(fields, "updated_at")
	return fields, nil
}
