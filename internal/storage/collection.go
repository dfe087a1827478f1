package storage

import (
	"encoding/json"
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"wastewatch/internal/models"
)

// Collection is an insertion-ordered dictionary keyed by integer id,
// serialized in the tagged Map form with stringified keys. It is the
// arena for one entity kind; no other component holds a writable alias of
// its contents.
type Collection[V any] struct {
	m *orderedmap.OrderedMap[string, V]
}

// NewCollection returns an empty collection.
func NewCollection[V any]() *Collection[V] {
	return &Collection[V]{m: orderedmap.New[string, V]()}
}

// Get looks up the value stored under id.
func (c *Collection[V]) Get(id int) (V, bool) {
	return c.m.Get(strconv.Itoa(id))
}

// Put inserts or replaces the value under id.
func (c *Collection[V]) Put(id int, v V) {
	c.m.Set(strconv.Itoa(id), v)
}

// Delete removes id, reporting whether it was present.
func (c *Collection[V]) Delete(id int) bool {
	_, present := c.m.Delete(strconv.Itoa(id))
	return present
}

// Len returns the entry count.
func (c *Collection[V]) Len() int {
	return c.m.Len()
}

// IDs returns the keys in insertion order.
func (c *Collection[V]) IDs() []int {
	ids := make([]int, 0, c.m.Len())
	for pair := c.m.Oldest(); pair != nil; pair = pair.Next() {
		id, err := strconv.Atoi(pair.Key)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// Values returns the stored values in insertion order.
func (c *Collection[V]) Values() []V {
	vs := make([]V, 0, c.m.Len())
	for pair := c.m.Oldest(); pair != nil; pair = pair.Next() {
		vs = append(vs, pair.Value)
	}
	return vs
}

// NextID returns max(existing ids) + 1, or 0 for an empty collection.
func (c *Collection[V]) NextID() int {
	next := 0
	for _, id := range c.IDs() {
		if id >= next {
			next = id + 1
		}
	}
	return next
}

// MarshalJSON encodes the collection in the tagged Map form.
func (c *Collection[V]) MarshalJSON() ([]byte, error) {
	pair := c.m.Oldest()
	return models.EncodeTaggedMap(func() (string, any, bool) {
		if pair == nil {
			return "", nil, false
		}
		key, value := pair.Key, pair.Value
		pair = pair.Next()
		return key, any(value), true
	})
}

// UnmarshalJSON decodes the tagged Map form, preserving key order.
func (c *Collection[V]) UnmarshalJSON(data []byte) error {
	c.m = orderedmap.New[string, V]()
	return models.DecodeTaggedMap(data, func(key string, value json.RawMessage) error {
		var v V
		if err := json.Unmarshal(value, &v); err != nil {
			return err
		}
		c.m.Set(key, v)
		return nil
	})
}
