// Package observable provides a single-value reactive container.
//
// An Observable holds one value and notifies its listeners synchronously when
// Set supplies a value that differs from the current one. Equality is Go's ==,
// so for pointer types the comparison is by identity: producers must publish
// a fresh value to trigger listeners. Mutating a previously published object
// in place never notifies anyone.
//
// Reentrancy: when a listener calls Set on the observable that is currently
// notifying, the value is replaced immediately and the notification is queued.
// Queued notifications run FIFO once the current pass completes, on the
// goroutine that was already notifying.
package observable

import (
	"log"
	"sync"
)

// Unsubscribe removes a registration. Calling it more than once is a no-op.
type Unsubscribe func()

// Source is the read side of an Observable.
type Source[T any] interface {
	Get() T
	Subscribe(fn func(T)) Unsubscribe
	SubscribeImmediate(fn func(T)) Unsubscribe
}

type listener[T any] struct {
	fn     func(T)
	active bool
}

// Observable wraps a value and notifies listeners when it changes.
type Observable[T comparable] struct {
	mu        sync.Mutex
	value     T
	listeners []*listener[T]
	notifying bool
	pending   []T
}

// New creates an observable holding initial.
func New[T comparable](initial T) *Observable[T] {
	return &Observable[T]{value: initial}
}

// Get returns the current value.
func (o *Observable[T]) Get() T {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.value
}

// Set replaces the value and notifies listeners in subscription order.
// Setting a value equal to the current one does nothing.
func (o *Observable[T]) Set(v T) {
	o.mu.Lock()
	if v == o.value {
		o.mu.Unlock()
		return
	}
	o.value = v
	if o.notifying {
		o.pending = append(o.pending, v)
		o.mu.Unlock()
		return
	}
	o.notifying = true
	o.mu.Unlock()

	for {
		o.notify(v)

		o.mu.Lock()
		if len(o.pending) == 0 {
			o.notifying = false
			o.mu.Unlock()
			return
		}
		v = o.pending[0]
		o.pending = o.pending[1:]
		o.mu.Unlock()
	}
}

// Subscribe registers fn for future changes.
func (o *Observable[T]) Subscribe(fn func(T)) Unsubscribe {
	l := &listener[T]{fn: fn, active: true}

	o.mu.Lock()
	o.listeners = append(o.listeners, l)
	o.mu.Unlock()

	return func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		if !l.active {
			return
		}
		l.active = false
		for i, cur := range o.listeners {
			if cur == l {
				o.listeners = append(o.listeners[:i:i], o.listeners[i+1:]...)
				break
			}
		}
	}
}

// SubscribeImmediate registers fn and calls it once with the current value
// before returning.
func (o *Observable[T]) SubscribeImmediate(fn func(T)) Unsubscribe {
	unsub := o.Subscribe(fn)
	call(fn, o.Get())
	return unsub
}

// ClearListeners drops every registration without notifying.
func (o *Observable[T]) ClearListeners() {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, l := range o.listeners {
		l.active = false
	}
	o.listeners = nil
}

// ListenerCount returns the number of live registrations.
func (o *Observable[T]) ListenerCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.listeners)
}

// notify runs every listener registered when the pass starts. A listener
// removed mid-pass is skipped.
func (o *Observable[T]) notify(v T) {
	o.mu.Lock()
	snapshot := make([]*listener[T], len(o.listeners))
	copy(snapshot, o.listeners)
	o.mu.Unlock()

	for _, l := range snapshot {
		o.mu.Lock()
		active := l.active
		o.mu.Unlock()
		if !active {
			continue
		}
		call(l.fn, v)
	}
}

func call[T any](fn func(T), v T) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("observable: listener panicked: %v", r)
		}
	}()
	fn(v)
}
