package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestOrderedMapFirstWriteWins(t *testing.T) {
	m := newOrderedMap[string, string](0)
	assert.True(t, m.setIfAbsent("b", "one"))
	assert.True(t, m.setIfAbsent("a", "two"))
	assert.False(t, m.setIfAbsent("b", "three"))

	value, ok := m.get("b")
	assert.True(t, ok)
	assert.Equal(t, "one", value)
	assert.Equal(t, 2, m.len())

	var keys []string
	for key := range m.all() {
		keys = append(keys, key)
	}
	if diff := cmp.Diff([]string{"b", "a"}, keys); diff != "" {
		t.Fatalf("iteration order mismatch (-want +got):\n%s", diff)
	}
}

func TestOrderedMapStopsEarly(t *testing.T) {
	m := newOrderedMap[int, int](3)
	for i := range 3 {
		m.setIfAbsent(i, i*i)
	}
	seen := 0
	for range m.all() {
		seen++
		break
	}
	assert.Equal(t, 1, seen)
}
