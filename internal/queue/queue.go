// Package queue defines FIFO queue used for breadth-first walks over rule graphs.
package queue

const minCap = 4

// Queue is a FIFO queue backed by a slice; consumed items are dropped when the slice is refilled.
type Queue[T any] struct {
	items []T
	head  int
	zero  T
}

func New[T any](items ...T) *Queue[T] {
	q := &Queue[T]{items: make([]T, 0, max(len(items), minCap))}
	q.items = append(q.items, items...)
	return q
}

func (q *Queue[T]) IsEmpty() bool {
	return q.head == len(q.items)
}

func (q *Queue[T]) Len() int {
	return len(q.items) - q.head
}

// Items returns pending items in queue order.
func (q *Queue[T]) Items() []T {
	return q.items[q.head:]
}

func (q *Queue[T]) Append(items ...T) *Queue[T] {
	if q.head > 0 && len(q.items)+len(items) > cap(q.items) {
		n := copy(q.items, q.items[q.head:])
		clear(q.items[n:])
		q.items = q.items[:n]
		q.head = 0
	}
	q.items = append(q.items, items...)
	return q
}

// First removes and returns the oldest item, false means the queue is empty.
func (q *Queue[T]) First() (T, bool) {
	if q.IsEmpty() {
		return q.zero, false
	}

	res := q.items[q.head]
	q.items[q.head] = q.zero
	q.head++
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
	}
	return res, true
}
