package repository

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore keeps documents as BSON-decoded maps so reads never share
// memory with callers. It backs local runs and tests.
type MemoryStore[T any, P Document[T]] struct {
	mu   sync.RWMutex
	docs map[primitive.ObjectID]bson.M
	now  func() time.Time
}

func NewMemoryStore[T any, P Document[T]]() *MemoryStore[T, P] {
	return &MemoryStore[T, P]{
		docs: make(map[primitive.ObjectID]bson.M),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore[T, P]) Create(ctx context.Context, doc *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	now := s.now()
	P(doc).Stamp(primitive.NewObjectID(), now, now)

	m, err := toMap(doc)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[P(doc).DocumentID()] = m
	return nil
}

func (s *MemoryStore[T, P]) FindByID(ctx context.Context, id string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	objID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	m, ok := s.docs[objID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return fromMap[T](m)
}

func (s *MemoryStore[T, P]) List(ctx context.Context, q ListQuery) ([]*T, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	s.mu.RLock()
	matched := make([]bson.M, 0, len(s.docs))
	for _, m := range s.docs {
		if matches(m, q) {
			matched = append(matched, m)
		}
	}
	s.mu.RUnlock()

	sortDocs(matched, q.Sort)
	total := int64(len(matched))

	start := int(q.skip())
	if start > len(matched) {
		start = len(matched)
	}
	end := len(matched)
	if q.PageSize > 0 && start+q.PageSize < end {
		end = start + q.PageSize
	}

	docs := make([]*T, 0, end-start)
	for _, m := range matched[start:end] {
		doc, err := fromMap[T](m)
		if err != nil {
			return nil, 0, err
		}
		docs = append(docs, doc)
	}
	return docs, total, nil
}

func (s *MemoryStore[T, P]) Replace(ctx context.Context, id string, doc *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	objID, err := parseID(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.docs[objID]
	if !ok {
		return ErrNotFound
	}
	created := s.now()
	if dt, ok := existing["created_at"].(primitive.DateTime); ok {
		created = dt.Time().UTC()
	}
	P(doc).Stamp(objID, created, s.now())

	m, err := toMap(doc)
	if err != nil {
		return err
	}
	s.docs[objID] = m
	return nil
}

func (s *MemoryStore[T, P]) Update(ctx context.Context, id string, fields bson.M) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	objID, err := parseID(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.docs[objID]
	if !ok {
		return ErrNotFound
	}
	merged := bson.M{}
	for k, v := range existing {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	merged["updated_at"] = s.now()

	// Re-encode so stored values have the same types a decode would produce.
	m, err := toMap(merged)
	if err != nil {
		return err
	}
	if _, err := fromMap[T](m); err != nil {
		return fmt.Errorf("update does not fit document: %w", err)
	}
	s.docs[objID] = m
	return nil
}

func (s *MemoryStore[T, P]) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	objID, err := parseID(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[objID]; !ok {
		return ErrNotFound
	}
	delete(s.docs, objID)
	return nil
}

func (s *MemoryStore[T, P]) Count(ctx context.Context, filter bson.M) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := ListQuery{Filters: filter}
	var n int64
	for _, m := range s.docs {
		if matches(m, q) {
			n++
		}
	}
	return n, nil
}

func toMap(v any) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func fromMap[T any](m bson.M) (*T, error) {
	raw, err := bson.Marshal(m)
	if err != nil {
		return nil, err
	}
	var doc T
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func matches(m bson.M, q ListQuery) bool {
	for field, want := range q.Filters {
		if !matchValue(m[field], want) {
			return false
		}
	}
	if q.Search == "" || len(q.SearchFields) == 0 {
		return true
	}
	needle := strings.ToLower(q.Search)
	for _, field := range q.SearchFields {
		if s, ok := m[field].(string); ok && strings.Contains(strings.ToLower(s), needle) {
			return true
		}
	}
	return false
}

// matchValue supports plain equality and the $gt/$gte/$lt/$lte range
// operators. A missing field never satisfies a range.
func matchValue(have, want any) bool {
	ops, ok := want.(bson.M)
	if !ok {
		return compare(have, normalize(want)) == 0
	}
	if have == nil {
		return false
	}
	for op, bound := range ops {
		c := compare(have, normalize(bound))
		var ok bool
		switch op {
		case "$gt":
			ok = c > 0
		case "$gte":
			ok = c >= 0
		case "$lt":
			ok = c < 0
		case "$lte":
			ok = c <= 0
		}
		if !ok || rank(normalize(have)) != rank(normalize(bound)) {
			return false
		}
	}
	return true
}

// sortDocs orders by the given keys. Ties fall back to _id, which follows
// insertion order, in the direction of the first key.
func sortDocs(docs []bson.M, keys bson.D) {
	tie := 1
	if len(keys) > 0 {
		if dir, _ := keys[0].Value.(int); dir < 0 {
			tie = -1
		}
	}
	sort.SliceStable(docs, func(i, j int) bool {
		for _, key := range keys {
			c := compare(docs[i][key.Key], docs[j][key.Key])
			if c == 0 {
				continue
			}
			if dir, _ := key.Value.(int); dir < 0 {
				return c > 0
			}
			return c < 0
		}
		a, _ := docs[i]["_id"].(primitive.ObjectID)
		b, _ := docs[j]["_id"].(primitive.ObjectID)
		return bytes.Compare(a[:], b[:])*tie < 0
	})
}

func normalize(v any) any {
	switch x := v.(type) {
	case int:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case float32:
		return float64(x)
	case time.Time:
		return primitive.NewDateTimeFromTime(x)
	}
	return v
}

// compare orders values the way Mongo does for the types stored here:
// missing values first, then numbers, strings, booleans and dates.
func compare(a, b any) int {
	a, b = normalize(a), normalize(b)
	ra, rb := rank(a), rank(b)
	if ra != rb {
		return ra - rb
	}
	switch x := a.(type) {
	case float64:
		y := b.(float64)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	case string:
		return strings.Compare(x, b.(string))
	case bool:
		y := b.(bool)
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		}
		return 1
	case primitive.DateTime:
		y := b.(primitive.DateTime)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	case primitive.ObjectID:
		y := b.(primitive.ObjectID)
		return bytes.Compare(x[:], y[:])
	}
	return 0
}

func rank(v any) int {
	switch v.(type) {
	case nil:
		return 0
	case float64:
		return 1
	case string:
		return 2
	case primitive.ObjectID:
		return 3
	case bool:
		return 4
	case primitive.DateTime:
		return 5
	}
	return 6
}
