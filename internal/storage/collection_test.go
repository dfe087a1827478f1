package storage

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollection_NextIDStartsAtZero(t *testing.T) {
	c := NewCollection[string]()
	assert.Equal(t, 0, c.NextID())

	c.Put(0, "first")
	assert.Equal(t, 1, c.NextID())

	c.Put(99999, "demo")
	assert.Equal(t, 100000, c.NextID())
}

func TestCollection_NextIDIgnoresDeletions(t *testing.T) {
	c := NewCollection[string]()
	c.Put(0, "a")
	c.Put(1, "b")
	c.Delete(1)

	// only surviving ids count, so a deleted maximum can be reissued
	assert.Equal(t, 1, c.NextID())
}

func TestCollection_ValuesKeepInsertionOrder(t *testing.T) {
	c := NewCollection[string]()
	c.Put(5, "five")
	c.Put(2, "two")
	c.Put(9, "nine")

	assert.Equal(t, []int{5, 2, 9}, c.IDs())
	assert.Equal(t, []string{"five", "two", "nine"}, c.Values())
}

func TestCollection_RoundTripKeepsOrder(t *testing.T) {
	c := NewCollection[int]()
	c.Put(3, 30)
	c.Put(1, 10)
	c.Put(2, 20)

	data, err := json.Marshal(c)
	require.NoError(t, err)

	decoded := NewCollection[int]()
	require.NoError(t, json.Unmarshal(data, decoded))
	assert.Equal(t, []int{3, 1, 2}, decoded.IDs())

	v, ok := decoded.Get(1)
	require.True(t, ok)
	assert.Equal(t, 10, v)
}
