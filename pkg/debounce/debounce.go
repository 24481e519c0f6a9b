// Package debounce delays propagation of a changing value until it has been stable for an interval.
package debounce

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

type options[T comparable] struct {
	clock   clockwork.Clock
	initial T
}

type Option[T comparable] func(*options[T])

// WithClock replaces the real clock, typically with clockwork.NewFakeClock in tests.
func WithClock[T comparable](clock clockwork.Clock) Option[T] {
	return func(o *options[T]) {
		o.clock = clock
	}
}

// WithInitial seeds both the input and the debounced value without emitting.
func WithInitial[T comparable](v T) Option[T] {
	return func(o *options[T]) {
		o.initial = v
	}
}

// Debouncer emits the latest input once no new input has arrived for the configured interval.
// A burst of changes produces a single emission carrying the final value.
type Debouncer[T comparable] struct {
	clock    clockwork.Clock
	interval time.Duration
	emit     func(T)

	mu       sync.Mutex
	input    T
	output   T
	gen      uint64
	timer    clockwork.Timer
	pending  bool
	disposed bool

	// held for the duration of emit so Dispose can wait for it
	emitMu sync.Mutex
}

func New[T comparable](interval time.Duration, emit func(T), opts ...Option[T]) *Debouncer[T] {
	o := options[T]{clock: clockwork.NewRealClock()}
	for _, opt := range opts {
		opt(&o)
	}
	if emit == nil {
		emit = func(T) {}
	}
	return &Debouncer[T]{
		clock:    o.clock,
		interval: interval,
		emit:     emit,
		input:    o.initial,
		output:   o.initial,
	}
}

// Set records a new input. Setting the current input again is not a change and keeps any
// pending emission on its original schedule.
func (d *Debouncer[T]) Set(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.disposed || v == d.input {
		return
	}
	d.input = v
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
	}
	gen := d.gen
	d.pending = true
	d.timer = d.clock.AfterFunc(d.interval, func() { d.fire(gen) })
}

// Input returns the most recent value passed to Set.
func (d *Debouncer[T]) Input() T {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.input
}

// Value returns the last emitted value.
func (d *Debouncer[T]) Value() T {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.output
}

func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Dispose cancels the pending emission and blocks until a running emission returns.
// It must not be called from inside the emit callback.
func (d *Debouncer[T]) Dispose() {
	d.mu.Lock()
	d.disposed = true
	d.gen++
	d.pending = false
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()

	d.emitMu.Lock()
	//nolint:staticcheck // empty critical section waits for an in-progress emit
	d.emitMu.Unlock()
}

func (d *Debouncer[T]) fire(gen uint64) {
	d.emitMu.Lock()
	defer d.emitMu.Unlock()

	d.mu.Lock()
	// a timer that lost the race with Stop still runs; its generation is stale
	if d.disposed || gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.pending = false
	d.timer = nil
	v := d.input
	d.output = v
	d.mu.Unlock()

	d.emit(v)
}
