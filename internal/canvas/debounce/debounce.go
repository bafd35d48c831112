// Package debounce coalesces rapid edits per key and fires once the key has
// been quiet for a delay, skipping values equal to the last confirmed one.
package debounce

import (
	"time"

	"tessera/internal/canvas/clock"
)

// Keyed debounces values per key. Not safe for concurrent use; callbacks run
// on whatever goroutine the clock delivers them on.
type Keyed[K comparable, V comparable] struct {
	clock     clock.Clock
	delay     time.Duration
	fire      func(K, V)
	timers    map[K]clock.Timer
	confirmed map[K]V
}

// NewKeyed creates a debouncer that calls fire after delay of quiescence
func NewKeyed[K comparable, V comparable](c clock.Clock, delay time.Duration, fire func(K, V)) *Keyed[K, V] {
	return &Keyed[K, V]{
		clock:     c,
		delay:     delay,
		fire:      fire,
		timers:    make(map[K]clock.Timer),
		confirmed: make(map[K]V),
	}
}

// Push records a new value for key and restarts its quiet period
func (d *Keyed[K, V]) Push(key K, value V) {
	if t, ok := d.timers[key]; ok {
		t.Stop()
	}
	d.timers[key] = d.clock.AfterFunc(d.delay, func() {
		delete(d.timers, key)
		if last, ok := d.confirmed[key]; ok && last == value {
			return
		}
		d.fire(key, value)
	})
}

// Confirm records value as persisted for key
func (d *Keyed[K, V]) Confirm(key K, value V) {
	d.confirmed[key] = value
}

// Pending reports whether key has an unfired value
func (d *Keyed[K, V]) Pending(key K) bool {
	_, ok := d.timers[key]
	return ok
}

// Cancel drops any unfired value for key and forgets its confirmed value
func (d *Keyed[K, V]) Cancel(key K) {
	if t, ok := d.timers[key]; ok {
		t.Stop()
		delete(d.timers, key)
	}
	delete(d.confirmed, key)
}

// Stop cancels every pending timer
func (d *Keyed[K, V]) Stop() {
	for key, t := range d.timers {
		t.Stop()
		delete(d.timers, key)
	}
}
