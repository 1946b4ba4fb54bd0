// Package events provides an in-process publish/subscribe bus.
//
// A [Bus] is owned by the component tree that creates it and is closed with
// it. Hosts use it to fan out UI-level notifications, such as a mind-map node
// being activated, to whichever panels care, without a process-wide bus.
package events

import "sync"

// Bus delivers values of type T to subscribers synchronously, in the order
// they subscribed. It is safe for concurrent use.
type Bus[T any] struct {
	mu     sync.RWMutex
	subs   map[uint64]func(T)
	order  []uint64
	next   uint64
	closed bool
}

// NewBus creates an open bus.
func NewBus[T any]() *Bus[T] {
	return &Bus[T]{subs: make(map[uint64]func(T))}
}

// Subscribe registers fn and returns a function that removes it.
// Subscribing to a closed bus returns a no-op cancel.
func (b *Bus[T]) Subscribe(fn func(T)) (cancel func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed || fn == nil {
		return func() {}
	}
	id := b.next
	b.next++
	b.subs[id] = fn
	b.order = append(b.order, id)

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}
}

func (b *Bus[T]) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs, id)
	for i, v := range b.order {
		if v == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}

// Publish delivers v to every current subscriber and returns how many
// received it. Publishing on a closed bus delivers nothing.
//
// Subscribers run outside the bus lock, so they may subscribe or cancel.
func (b *Bus[T]) Publish(v T) int {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return 0
	}
	fns := make([]func(T), 0, len(b.order))
	for _, id := range b.order {
		fns = append(fns, b.subs[id])
	}
	b.mu.RUnlock()

	for _, fn := range fns {
		fn(v)
	}
	return len(fns)
}

// Len returns the number of subscribers.
func (b *Bus[T]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close drops all subscribers. Later publishes are no-ops.
func (b *Bus[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.subs = map[uint64]func(T){}
	b.order = nil
}
