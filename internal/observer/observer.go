// Package observer implements a minimal typed subscriber list.
package observer

import (
	"slices"
	"sync"
)

// List holds callbacks interested in values of type T. The zero value is
// ready to use and safe for concurrent use.
type List[T any] struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[uint64]func(T)
}

// Subscribe registers fn and returns a function that removes it. Calling the
// returned function more than once is harmless.
func (l *List[T]) Subscribe(fn func(T)) (cancel func()) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.subs == nil {
		l.subs = make(map[uint64]func(T))
	}
	id := l.nextID
	l.nextID++
	l.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.subs, id)
			l.mu.Unlock()
		})
	}
}

// Notify calls every subscriber with v, in subscription order. Callbacks run
// on the caller's goroutine without the list locked, so they may subscribe or
// cancel.
func (l *List[T]) Notify(v T) {
	l.mu.Lock()
	ids := make([]uint64, 0, len(l.subs))
	for id := range l.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func(T), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, l.subs[id])
	}
	l.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}

// Len reports the number of live subscribers.
func (l *List[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.subs)
}
