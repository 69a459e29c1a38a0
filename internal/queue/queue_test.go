package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmpty(t *testing.T) {
	q := New[int]()
	assert.True(t, q.IsEmpty())
	assert.Equal(t, 0, q.Len())
	_, ok := q.First()
	assert.False(t, ok)
}

func TestFifoOrder(t *testing.T) {
	q := New(1, 2, 3)
	q.Append(4).Append(5, 6)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, q.Items())

	for i := 1; i <= 6; i++ {
		item, ok := q.First()
		assert.True(t, ok)
		assert.Equal(t, i, item)
	}
	assert.True(t, q.IsEmpty())
}

func TestReuseAfterConsuming(t *testing.T) {
	q := New[string]()
	for i := 0; i < 100; i++ {
		q.Append("a", "b")
		item, _ := q.First()
		assert.Equal(t, "a", item)
		item, _ = q.First()
		assert.Equal(t, "b", item)
	}
	assert.LessOrEqual(t, cap(q.items), minCap)
}

func TestCompaction(t *testing.T) {
	q := New(1, 2, 3, 4)
	q.First()
	q.First()
	q.Append(5, 6)
	assert.Equal(t, 0, q.head)
	assert.Equal(t, []int{3, 4, 5, 6}, q.Items())
	assert.Equal(t, 4, q.Len())
}
