package kv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreSetAndGet(t *testing.T) {
	s := New[int]()
	assert.Empty(t, s.Get())

	s.Set(map[string]int{"a": 1, "b": 2})
	assert.Equal(t, map[string]int{"a": 1, "b": 2}, s.Get())

	v, ok := s.GetKey("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = s.GetKey("missing")
	assert.False(t, ok)
}

func TestStoreSetKeyDoesNotDropOtherEntries(t *testing.T) {
	s := New[string]()
	s.Set(map[string]string{"a": "x"})
	s.SetKey("b", "y")

	assert.Equal(t, map[string]string{"a": "x", "b": "y"}, s.Get())
	assert.Equal(t, 2, s.Len())
}

func TestStoreGetReturnsCopy(t *testing.T) {
	s := New[int]()
	s.SetKey("a", 1)

	snapshot := s.Get()
	snapshot["a"] = 99

	v, _ := s.GetKey("a")
	assert.Equal(t, 1, v)
}

func TestStoreSubscribeNotifiedSynchronously(t *testing.T) {
	s := New[int]()

	var seen []map[string]int
	unsubscribe := s.Subscribe(func(m map[string]int) {
		seen = append(seen, m)
	})

	s.SetKey("a", 1)
	require.Len(t, seen, 1)
	assert.Equal(t, map[string]int{"a": 1}, seen[0])

	s.Set(map[string]int{"b": 2})
	require.Len(t, seen, 2)
	assert.Equal(t, map[string]int{"b": 2}, seen[1])

	s.DeleteKey("b")
	require.Len(t, seen, 3)
	assert.Empty(t, seen[2])

	unsubscribe()
	s.SetKey("c", 3)
	assert.Len(t, seen, 3)
}

func TestStoreUnsubscribeTwiceIsHarmless(t *testing.T) {
	s := New[int]()
	unsubscribe := s.Subscribe(func(map[string]int) {})

	unsubscribe()
	assert.NotPanics(t, func() { unsubscribe() })
}

func TestStoreSubscriberMayReadStore(t *testing.T) {
	s := New[int]()

	var lenInside int
	s.Subscribe(func(map[string]int) {
		lenInside = s.Len()
	})

	s.SetKey("a", 1)
	assert.Equal(t, 1, lenInside)
}

func TestAtomSetGetAndSubscribe(t *testing.T) {
	a := NewAtom(false)
	assert.False(t, a.Get())

	var seen []bool
	unsubscribe := a.Subscribe(func(v bool) { seen = append(seen, v) })

	a.Set(true)
	assert.True(t, a.Get())
	assert.Equal(t, []bool{true}, seen)

	unsubscribe()
	unsubscribe() // second call is a no-op
	a.Set(false)
	assert.Equal(t, []bool{true}, seen)
}
