package util

import "sync"

// Latest is a coalescing hand-off cell: writers publish values without ever
// blocking, readers wake up on a notification channel and always observe
// only the most recent value. Intermediate values are dropped on purpose,
// since for a frame stream only the newest frame matters.
type Latest[T any] struct {
	mu     sync.Mutex // protects value
	value  T
	notify chan struct{} // capacity 1, a pending signal is never duplicated
}

// NewLatest creates an empty cell.
func NewLatest[T any]() *Latest[T] {
	return &Latest[T]{
		notify: make(chan struct{}, 1),
	}
}

// Publish stores the value and signals a waiting reader. Never blocks.
func (l *Latest[T]) Publish(value T) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.value = value

	select {
	case l.notify <- struct{}{}:
	default:
		// A notification is already pending; the reader will pick up the
		// newest value anyway.
	}
}

// Notify returns the channel to select on for new values.
func (l *Latest[T]) Notify() <-chan struct{} {
	return l.notify
}

// Value returns the most recently published value.
func (l *Latest[T]) Value() T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.value
}
