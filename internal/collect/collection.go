// Package collect provides append-only output collections. Handlers
// push records and drop their reference; readers only see snapshots.
package collect

import "sync"

// Collection is a named, concurrency-safe, append-only sink. Ordering
// across concurrent pushers is not guaranteed.
type Collection[T any] struct {
	name  string
	mu    sync.Mutex
	items []T
}

// New creates an empty collection with the given name.
func New[T any](name string) *Collection[T] {
	return &Collection[T]{name: name}
}

// Name returns the collection's identifier.
func (c *Collection[T]) Name() string { return c.name }

// Push appends one item.
func (c *Collection[T]) Push(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, item)
}

// Count returns the number of items pushed so far.
func (c *Collection[T]) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Items returns a snapshot copy in insertion order.
func (c *Collection[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}
