// Package value provides small concurrency-safe holders used to share
// live configuration between goroutines.
package value

import "sync"

// Box holds one value behind a lock, so a reloaded configuration can be
// swapped in while readers keep calling Get.
type Box[T any] struct {
	mu sync.RWMutex
	v  T
	ok bool
}

// NewBox returns a box holding v.
func NewBox[T any](v T) *Box[T] {
	return &Box[T]{v: v, ok: true}
}

// Get returns the held value and whether one has been set.
func (b *Box[T]) Get() (T, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.v, b.ok
}

// Load returns the held value, zero when none has been set.
func (b *Box[T]) Load() T {
	v, _ := b.Get()
	return v
}

// Set replaces the held value.
func (b *Box[T]) Set(v T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.v = v
	b.ok = true
}

// Swap replaces the held value and returns the previous one.
func (b *Box[T]) Swap(v T) T {
	b.mu.Lock()
	defer b.mu.Unlock()
	prev := b.v
	b.v = v
	b.ok = true
	return prev
}
