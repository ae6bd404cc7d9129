// Package debounce stabilizes rapidly changing values. A value is published
// only after it has stayed unchanged for a full quiet period; the first value
// waits the full delay as well.
package debounce

// Holder tracks the latest value and its generation. It has no timer of its
// own: the caller schedules Settle(gen) after the delay on whatever clock it
// runs (a time.Timer, a tea.Tick, a test). Holder is not safe for concurrent
// use.
type Holder[T any] struct {
	latest     T
	stable     T
	gen        uint64
	settledGen uint64
	hasStable  bool
}

// NewHolder returns a holder whose stable value is initial.
func NewHolder[T any](initial T) *Holder[T] {
	return &Holder[T]{latest: initial, stable: initial, hasStable: true}
}

// Set records v as the latest value and returns its generation. Any earlier
// generation can no longer settle.
func (h *Holder[T]) Set(v T) uint64 {
	h.gen++
	h.latest = v
	return h.gen
}

// Settle publishes the latest value if gen is still the newest generation and
// has not been published yet.
func (h *Holder[T]) Settle(gen uint64) (T, bool) {
	if gen != h.gen || gen == h.settledGen {
		var zero T
		return zero, false
	}
	h.settledGen = gen
	h.stable = h.latest
	h.hasStable = true
	return h.stable, true
}

// Stable returns the last published value.
func (h *Holder[T]) Stable() (T, bool) {
	return h.stable, h.hasStable
}

// Latest returns the most recent value passed to Set, settled or not.
func (h *Holder[T]) Latest() T {
	return h.latest
}

// Pending reports whether a value is waiting for its quiet period.
func (h *Holder[T]) Pending() bool {
	return h.gen != h.settledGen
}
