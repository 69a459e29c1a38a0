package bmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmptyMap(t *testing.T) {
	m := New[int](1)

	en, found := m.Get([]byte{})
	assert.Equal(t, 0, en)
	assert.False(t, found)

	en, found = m.Get([]byte{1, 2, 3})
	assert.Equal(t, 0, en)
	assert.False(t, found)

	_, size, found := m.Prefix([]byte("abc"))
	assert.Equal(t, 0, size)
	assert.False(t, found)
}

func TestEmptyKey(t *testing.T) {
	m := New[int](1)
	empty := []byte{}

	m.Add("foo", 123)
	_, found := m.Get(empty)
	assert.False(t, found)

	assert.True(t, m.Add("", 345))
	en, found := m.Get(empty)
	assert.Equal(t, 345, en)
	assert.True(t, found)
}

func TestKey(t *testing.T) {
	m := New[int](2)
	key := []byte("abc")

	assert.True(t, m.Add("abc", 111))
	assert.True(t, m.Add("ab", 222))
	assert.False(t, m.Add("abc", 333))
	assert.Equal(t, 2, m.Len())

	en, found := m.Get(key)
	assert.Equal(t, 111, en)
	assert.True(t, found)

	en, found = m.Get(key[:2])
	assert.Equal(t, 222, en)
	assert.True(t, found)
}

func TestPrefix(t *testing.T) {
	m := New[string](4)
	for _, key := range []string{"<", "<=", "<<=", "if"} {
		m.Add(key, key)
	}

	samples := []struct {
		content, value string
		size           int
		found          bool
	}{
		{"<= x", "<=", 2, true},
		{"<<= x", "<<=", 3, true},
		{"<<", "<", 1, true},
		{"iffy", "if", 2, true},
		{"i", "", 0, false},
		{"", "", 0, false},
	}
	for _, s := range samples {
		value, size, found := m.Prefix([]byte(s.content))
		assert.Equal(t, s.value, value, s.content)
		assert.Equal(t, s.size, size, s.content)
		assert.Equal(t, s.found, found, s.content)
	}
}
