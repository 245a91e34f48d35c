package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"oils-admin/internal/models"
)

type note struct {
	models.Base `bson:",inline"`
	Title       string   `bson:"title"`
	Category    string   `bson:"category"`
	Rank        int      `bson:"rank"`
	Active      bool     `bson:"active"`
	Tags        []string `bson:"tags,omitempty"`
}

func newNoteStore(t *testing.T) *MemoryStore[note, *note] {
	t.Helper()
	s := NewMemoryStore[note, *note]()
	clock := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return s
}

func seed(t *testing.T, s *MemoryStore[note, *note], notes ...note) []*note {
	t.Helper()
	out := make([]*note, 0, len(notes))
	for i := range notes {
		n := notes[i]
		require.NoError(t, s.Create(context.Background(), &n))
		out = append(out, &n)
	}
	return out
}

func TestMemoryStore_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	s := newNoteStore(t)

	n := &note{Title: "Cold pressed", Tags: []string{"oil"}}
	require.NoError(t, s.Create(ctx, n))
	assert.False(t, n.ID.IsZero())
	assert.Equal(t, n.CreatedAt, n.UpdatedAt)

	got, err := s.FindByID(ctx, n.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Cold pressed", got.Title)
	assert.Equal(t, []string{"oil"}, got.Tags)
	assert.True(t, got.CreatedAt.Equal(n.CreatedAt))

	got.Title = "changed"
	again, err := s.FindByID(ctx, n.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Cold pressed", again.Title)
}

func TestMemoryStore_FindErrors(t *testing.T) {
	ctx := context.Background()
	s := newNoteStore(t)

	_, err := s.FindByID(ctx, "not-an-id")
	assert.ErrorIs(t, err, ErrInvalidID)

	_, err = s.FindByID(ctx, primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_List(t *testing.T) {
	ctx := context.Background()
	s := newNoteStore(t)
	seed(t, s,
		note{Title: "Mustard oil", Category: "oil", Rank: 3, Active: true},
		note{Title: "Coconut OIL", Category: "oil", Rank: 1, Active: false},
		note{Title: "Gift box", Category: "gift", Rank: 2, Active: true},
		note{Title: "C++ notes", Category: "misc", Rank: 4, Active: true},
	)

	t.Run("search is case-insensitive", func(t *testing.T) {
		docs, total, err := s.List(ctx, ListQuery{Search: "oil", SearchFields: []string{"title"}})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, docs, 2)
	})

	t.Run("search treats input literally", func(t *testing.T) {
		docs, _, err := s.List(ctx, ListQuery{Search: "c++", SearchFields: []string{"title"}})
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "C++ notes", docs[0].Title)
	})

	t.Run("filters and sorts", func(t *testing.T) {
		docs, total, err := s.List(ctx, ListQuery{
			Filters: bson.M{"active": true},
			Sort:    bson.D{{Key: "rank", Value: -1}},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, docs, 3)
		assert.Equal(t, []int{4, 3, 2}, []int{docs[0].Rank, docs[1].Rank, docs[2].Rank})
	})

	t.Run("numeric filter matches stored int", func(t *testing.T) {
		docs, _, err := s.List(ctx, ListQuery{Filters: bson.M{"rank": 2}})
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "Gift box", docs[0].Title)
	})

	t.Run("pages", func(t *testing.T) {
		q := ListQuery{Sort: bson.D{{Key: "rank", Value: 1}}, Page: 2, PageSize: 3}
		docs, total, err := s.List(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		require.Len(t, docs, 1)
		assert.Equal(t, 4, docs[0].Rank)

		q.Page = 5
		docs, total, err = s.List(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		assert.Empty(t, docs)
	})

	t.Run("default order is insertion order", func(t *testing.T) {
		docs, _, err := s.List(ctx, ListQuery{})
		require.NoError(t, err)
		require.Len(t, docs, 4)
		assert.Equal(t, "Mustard oil", docs[0].Title)
		assert.Equal(t, "C++ notes", docs[3].Title)
	})

	t.Run("sorts by created_at", func(t *testing.T) {
		docs, _, err := s.List(ctx, ListQuery{Sort: bson.D{{Key: "created_at", Value: -1}}})
		require.NoError(t, err)
		require.Len(t, docs, 4)
		assert.Equal(t, "C++ notes", docs[0].Title)
	})
}

func TestMemoryStore_UpdateReplaceDelete(t *testing.T) {
	ctx := context.Background()
	s := newNoteStore(t)
	n := seed(t, s, note{Title: "Sesame", Rank: 1})[0]
	id := n.ID.Hex()

	require.NoError(t, s.Update(ctx, id, bson.M{"rank": 9, "active": true}))
	got, err := s.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 9, got.Rank)
	assert.True(t, got.Active)
	assert.Equal(t, "Sesame", got.Title)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt))

	require.NoError(t, s.Replace(ctx, id, &note{Title: "Sesame gold"}))
	got, err = s.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Sesame gold", got.Title)
	assert.Equal(t, 0, got.Rank)
	assert.True(t, got.CreatedAt.Equal(n.CreatedAt))

	assert.ErrorIs(t, s.Update(ctx, primitive.NewObjectID().Hex(), bson.M{"rank": 1}), ErrNotFound)
	assert.ErrorIs(t, s.Replace(ctx, primitive.NewObjectID().Hex(), &note{}), ErrNotFound)

	require.NoError(t, s.Delete(ctx, id))
	assert.ErrorIs(t, s.Delete(ctx, id), ErrNotFound)
	_, err = s.FindByID(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_Count(t *testing.T) {
	ctx := context.Background()
	s := newNoteStore(t)
	seed(t, s, note{Active: true}, note{Active: false}, note{Active: true})

	n, err := s.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	n, err = s.Count(ctx, bson.M{"active": true})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestFields(t *testing.T) {
	n := note{Title: "Neem", Rank: 2}
	n.Stamp(primitive.NewObjectID(), time.Now(), time.Now())

	fields, err := Fields(n)
	require.NoError(t, err)
	assert.NotContains(t, fields, "_id")
	assert.NotContains(t, fields, "created_at")
	assert.NotContains(t, fields, "updated_at")
	assert.Equal(t, "Neem", fields["title"])
}

func TestMongoFilter(t *testing.T) {
	f := mongoFilter(ListQuery{
		Search:       "a.b",
		SearchFields: []string{"title", "author"},
		Filters:      bson.M{"category": "oil"},
	})

	assert.Equal(t, "oil", f["category"])
	or, ok := f["$or"].([]bson.M)
	require.True(t, ok)
	require.Len(t, or, 2)
	assert.Equal(t, bson.M{"$regex": `a\.b`, "$options": "i"}, or[0]["title"])
}

func TestMemoryStore_RangeFilter(t *testing.T) {
	s := newNoteStore(t)
	seed(t, s, note{Title: "a", Rank: 1}, note{Title: "b", Rank: 5}, note{Title: "c", Rank: 9})
	ctx := context.Background()

	titles := func(filter bson.M) []string {
		docs, _, err := s.List(ctx, ListQuery{Filters: filter, Sort: bson.D{{Key: "rank", Value: 1}}})
		require.NoError(t, err)
		out := make([]string, 0, len(docs))
		for _, d := range docs {
			out = append(out, d.Title)
		}
		return out
	}

	assert.Equal(t, []string{"b", "c"}, titles(bson.M{"rank": bson.M{"$gte": 5.0}}))
	assert.Equal(t, []string{"a", "b"}, titles(bson.M{"rank": bson.M{"$lte": 5}}))
	assert.Equal(t, []string{"b"}, titles(bson.M{"rank": bson.M{"$gt": 1, "$lt": 9.0}}))
	assert.Empty(t, titles(bson.M{"missing": bson.M{"$lte": 100}}))
}
