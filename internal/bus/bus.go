// Package bus is the unbounded queue carrying intents from input-handling
// components to the controller.
package bus

import (
	"errors"
	"sync"
)

var ErrClosed = errors.New("bus: receiver closed")

// Sender is the producer side handed to components.
type Sender[T any] interface {
	Send(v T) error
}

// Bus is a multi-producer, single-consumer FIFO. Send never blocks.
type Bus[T any] struct {
	mu     sync.Mutex
	queue  []T
	closed bool
}

func New[T any]() *Bus[T] {
	return &Bus[T]{}
}

func (b *Bus[T]) Send(v T) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}
	b.queue = append(b.queue, v)
	return nil
}

// TryRecv pops the oldest value, if any.
func (b *Bus[T]) TryRecv() (T, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var zero T
	if len(b.queue) == 0 {
		return zero, false
	}
	v := b.queue[0]
	b.queue[0] = zero
	b.queue = b.queue[1:]
	if len(b.queue) == 0 {
		b.queue = nil
	}
	return v, true
}

func (b *Bus[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queue)
}

// Close marks the receiver gone. Pending values are dropped and every later
// Send fails with ErrClosed.
func (b *Bus[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.queue = nil
}
