package docstore

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Document is a single record in a collection. Values are plain Go
// values: strings, numbers, time.Time, []any and nested maps.
type Document map[string]any

// Range matches values between Gte and Lte inclusive. A nil bound is
// unbounded on that side.
type Range struct {
	Gte any
	Lte any
}

// Filter maps field names to expected values. A Range value turns the
// field into a range predicate; anything else is an equality check.
type Filter map[string]any

// Update describes a partial modification of a document.
type Update struct {
	Set      map[string]any
	Inc      map[string]int
	AddToSet map[string]any
	Pull     map[string]any
}

// Store holds named collections. Collections are created on first use
// and never removed.
type Store struct {
	mu          sync.Mutex
	collections map[string]*Collection
}

func New() *Store {
	return &Store{collections: make(map[string]*Collection)}
}

func (s *Store) Collection(name string) *Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[name]
	if !ok {
		c = &Collection{}
		s.collections[name] = c
	}
	return c
}

// Collection is an ordered set of documents. All operations are safe
// for concurrent use; UpdateOne applies read-modify-write atomically.
type Collection struct {
	mu   sync.RWMutex
	docs []Document
}

// Insert stores a copy of doc and returns its generated id. The id is
// also written back into the stored copy under "_id".
func (c *Collection) Insert(doc Document) string {
	id := uuid.NewString()
	stored := cloneDoc(doc)
	stored["_id"] = id

	c.mu.Lock()
	c.docs = append(c.docs, stored)
	c.mu.Unlock()
	return id
}

// FindOne returns a copy of the first document matching filter, in
// insertion order.
func (c *Collection) FindOne(filter Filter) (Document, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, d := range c.docs {
		if matches(d, filter) {
			return cloneDoc(d), true
		}
	}
	return nil, false
}

// Find returns all matching documents as a Query for further sorting
// and limiting. The result is a snapshot; later writes do not affect it.
func (c *Collection) Find(filter Filter) *Query {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []Document
	for _, d := range c.docs {
		if matches(d, filter) {
			out = append(out, cloneDoc(d))
		}
	}
	return &Query{docs: out}
}

// Count reports how many documents match filter.
func (c *Collection) Count(filter Filter) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, d := range c.docs {
		if matches(d, filter) {
			n++
		}
	}
	return n
}

// UpdateOne applies update to the first document matching filter. With
// no match and upsert false it is a silent no-op; with upsert true a new
// document is synthesized from the filter's equality fields plus the
// update's Set and Inc fields. Returns true when a document was
// modified or created.
func (c *Collection) UpdateOne(filter Filter, update Update, upsert bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, d := range c.docs {
		if matches(d, filter) {
			applyUpdate(d, update)
			return true
		}
	}
	if !upsert {
		return false
	}

	doc := Document{"_id": uuid.NewString()}
	for k, v := range filter {
		if _, isRange := v.(Range); !isRange {
			doc[k] = v
		}
	}
	for k, v := range update.Set {
		doc[k] = v
	}
	for k, v := range update.Inc {
		doc[k] = v
	}
	for k, v := range update.AddToSet {
		doc[k] = []any{v}
	}
	c.docs = append(c.docs, doc)
	return true
}

func applyUpdate(d Document, u Update) {
	for k, v := range u.Set {
		d[k] = v
	}
	for k, v := range u.Inc {
		cur, _ := asInt(d[k])
		d[k] = cur + v
	}
	for k, v := range u.AddToSet {
		list := asList(d[k])
		if !containsValue(list, v) {
			list = append(list, v)
		}
		d[k] = list
	}
	for k, v := range u.Pull {
		list := asList(d[k])
		var kept []any
		for _, item := range list {
			if !valuesEqual(item, v) {
				kept = append(kept, item)
			}
		}
		if kept == nil {
			kept = []any{}
		}
		d[k] = kept
	}
}

// Query is an in-memory result set.
type Query struct {
	docs []Document
}

// Sort orders the result by field. dir < 0 sorts descending. Documents
// missing the field sort first regardless of direction. The sort is
// stable, so equal keys keep insertion order.
func (q *Query) Sort(field string, dir int) *Query {
	sort.SliceStable(q.docs, func(i, j int) bool {
		ci, iok := compareKey(q.docs[i][field])
		cj, jok := compareKey(q.docs[j][field])
		if !iok || !jok {
			return !iok && jok
		}
		if dir < 0 {
			return cmpValues(ci, cj) > 0
		}
		return cmpValues(ci, cj) < 0
	})
	return q
}

// Limit truncates the result to at most n documents.
func (q *Query) Limit(n int) *Query {
	if n >= 0 && len(q.docs) > n {
		q.docs = q.docs[:n]
	}
	return q
}

// All returns the documents in the result.
func (q *Query) All() []Document {
	return q.docs
}

func matches(d Document, f Filter) bool {
	for k, want := range f {
		got, ok := d[k]
		if r, isRange := want.(Range); isRange {
			if !ok {
				return false
			}
			gv, gok := compareKey(got)
			if !gok {
				return false
			}
			if r.Gte != nil {
				lo, lok := compareKey(r.Gte)
				if !lok || cmpValues(gv, lo) < 0 {
					return false
				}
			}
			if r.Lte != nil {
				hi, hok := compareKey(r.Lte)
				if !hok || cmpValues(gv, hi) > 0 {
					return false
				}
			}
			continue
		}
		if !ok || !valuesEqual(got, want) {
			return false
		}
	}
	return true
}

// compareKey normalizes a value for ordering. Numbers collapse to
// float64, times to UnixNano, strings stay strings.
func compareKey(v any) (any, bool) {
	switch t := v.(type) {
	case time.Time:
		return t.UnixNano(), true
	case string:
		return t, true
	default:
		if f, ok := asFloat(v); ok {
			return f, true
		}
	}
	return nil, false
}

func cmpValues(a, b any) int {
	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return strings.Compare(av, bv)
		}
	case int64:
		if bv, ok := b.(int64); ok {
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			}
			return 0
		}
	case float64:
		if bv, ok := b.(float64); ok {
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			}
			return 0
		}
	}
	return 0
}

func valuesEqual(a, b any) bool {
	if at, ok := a.(time.Time); ok {
		if bt, ok := b.(time.Time); ok {
			return at.Equal(bt)
		}
		return false
	}
	av, aok := compareKey(a)
	bv, bok := compareKey(b)
	if aok && bok {
		switch av.(type) {
		case string:
			_, sok := bv.(string)
			if !sok {
				return false
			}
		case float64:
			_, fok := bv.(float64)
			if !fok {
				return false
			}
		case int64:
			_, iok := bv.(int64)
			if !iok {
				return false
			}
		}
		return cmpValues(av, bv) == 0
	}
	return a == b
}

func containsValue(list []any, v any) bool {
	for _, item := range list {
		if valuesEqual(item, v) {
			return true
		}
	}
	return false
}

func asList(v any) []any {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		return t
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out
	}
	return nil
}

func asInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		return int(t), true
	}
	return 0, false
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int8:
		return float64(t), true
	case int16:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint64:
		return float64(t), true
	case float32:
		return float64(t), true
	case float64:
		return t, true
	}
	return 0, false
}

func cloneDoc(d Document) Document {
	out := make(Document, len(d))
	for k, v := range d {
		if list, ok := v.([]any); ok {
			cp := make([]any, len(list))
			copy(cp, list)
			out[k] = cp
			continue
		}
		out[k] = v
	}
	return out
}
