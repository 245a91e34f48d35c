package repository

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoStore[T any, P Document[T]] struct {
	collection *mongo.Collection
}

func NewMongoStore[T any, P Document[T]](collection *mongo.Collection) *MongoStore[T, P] {
	return &MongoStore[T, P]{collection: collection}
}

func (r *MongoStore[T, P]) Create(ctx context.Context, doc *T) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	now := time.Now().UTC()
	P(doc).Stamp(primitive.NewObjectID(), now, now)

	_, err := r.collection.InsertOne(ctx, doc)
	return err
}

func (r *MongoStore[T, P]) FindByID(ctx context.Context, id string) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	objID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var doc T
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

func (r *MongoStore[T, P]) List(ctx context.Context, q ListQuery) ([]*T, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	filter := mongoFilter(q)

	// Count in parallel with the page query.
	totalCh := make(chan int64, 1)
	errCh := make(chan error, 1)
	go func() {
		total, err := r.collection.CountDocuments(ctx, filter)
		if err != nil {
			errCh <- err
			return
		}
		totalCh <- total
	}()

	findOptions := options.Find()
	if q.PageSize > 0 {
		findOptions.SetSkip(q.skip())
		findOptions.SetLimit(int64(q.PageSize))
	}
	if len(q.Sort) > 0 {
		findOptions.SetSort(q.Sort)
	}

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	docs := make([]*T, 0)
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, err
	}

	var total int64
	select {
	case total = <-totalCh:
	case err := <-errCh:
		return docs, 0, err
	case <-ctx.Done():
		return docs, 0, ctx.Err()
	}
	return docs, total, nil
}

func (r *MongoStore[T, P]) Replace(ctx context.Context, id string, doc *T) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	objID, err := parseID(id)
	if err != nil {
		return err
	}

	var existing struct {
		CreatedAt time.Time `bson:"created_at"`
	}
	opts := options.FindOne().SetProjection(bson.M{"created_at": 1})
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}, opts).Decode(&existing); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return err
	}

	P(doc).Stamp(objID, existing.CreatedAt, time.Now().UTC())
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": objID}, doc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoStore[T, P]) Update(ctx context.Context, id string, fields bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	objID, err := parseID(id)
	if err != nil {
		return err
	}

	set := bson.M{}
	for k, v := range fields {
		set[k] = v
	}
	set["updated_at"] = time.Now().UTC()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoStore[T, P]) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	objID, err := parseID(id)
	if err != nil {
		return err
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoStore[T, P]) Count(ctx context.Context, filter bson.M) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	if filter == nil {
		filter = bson.M{}
	}
	return r.collection.CountDocuments(ctx, filter)
}

// mongoFilter turns a ListQuery into a find filter. Search terms are matched
// literally and case-insensitively against every search field.
func mongoFilter(q ListQuery) bson.M {
	filter := bson.M{}
	for k, v := range q.Filters {
		filter[k] = v
	}
	if q.Search != "" && len(q.SearchFields) > 0 {
		pattern := regexp.QuoteMeta(q.Search)
		or := make([]bson.M, 0, len(q.SearchFields))
		for _, field := range q.SearchFields {
			or = append(or, bson.M{field: bson.M{"$regex": pattern, "$options": "i"}})
		}
		filter["$or"] = or
	}
	return filter
}
