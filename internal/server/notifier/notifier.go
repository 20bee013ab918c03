// Package notifier broadcasts events to any number of subscribers.
package notifier

import "sync"

// Notifier delivers each broadcast value to every subscriber.
// Delivery never blocks: a subscriber whose buffer is full misses the value.
type Notifier[T any] struct {
	mu        sync.RWMutex
	listeners map[chan T]struct{}
	buffer    int
}

// New creates a Notifier whose subscriber channels buffer up to buffer values.
func New[T any](buffer int) *Notifier[T] {
	if buffer < 1 {
		buffer = 1
	}
	return &Notifier[T]{
		listeners: make(map[chan T]struct{}),
		buffer:    buffer,
	}
}

// Subscribe returns a channel that receives broadcast values.
// The caller must call Unsubscribe when done.
func (n *Notifier[T]) Subscribe() <-chan T {
	ch := make(chan T, n.buffer)
	n.mu.Lock()
	n.listeners[ch] = struct{}{}
	n.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (n *Notifier[T]) Unsubscribe(sub <-chan T) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for ch := range n.listeners {
		if ch == sub {
			delete(n.listeners, ch)
			close(ch)
			return
		}
	}
}

// Broadcast sends v to every subscriber.
func (n *Notifier[T]) Broadcast(v T) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for ch := range n.listeners {
		select {
		case ch <- v:
		default:
			// Full, the subscriber catches up on the next value.
		}
	}
}

// Len returns the number of subscribers.
func (n *Notifier[T]) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.listeners)
}
