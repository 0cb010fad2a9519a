package value

import "sync"

// List is a lock-guarded append-only slice, used for listener
// registrations.
type List[T any] struct {
	mu sync.RWMutex
	vs []T
}

// Append adds v to the end of the list.
func (l *List[T]) Append(v T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.vs = append(l.vs, v)
}

// Len returns the number of elements.
func (l *List[T]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.vs)
}

// Each calls f on a snapshot of the elements.
func (l *List[T]) Each(f func(T)) {
	l.mu.RLock()
	snap := append([]T(nil), l.vs...)
	l.mu.RUnlock()
	for _, v := range snap {
		f(v)
	}
}
