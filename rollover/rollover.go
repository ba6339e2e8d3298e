// Package rollover implements the Rollover Stage of spec.md §4.4: a
// one-input/many-output fan-out primitive that routes the full input
// element-stream to exactly one active downstream consumer at a time,
// advancing to the next when the active consumer cancels.
//
// It is the primitive protocol-phase transitions are built on: an SSL
// negotiation handshake, an authentication exchange, and the steady-state
// query cycle can each be modeled as one output of a Rollover[pgproto.BackendMessage]
// over a single decode.Reader, with the caller cancelling the current
// phase's output once that phase is done so the next phase's output starts
// receiving the (still-shared) message stream.
package rollover

import "sync"

// Source is a pull-based upstream. Pull returns the next element; ok is
// false once the source is exhausted (not an error). A non-nil err is
// terminal.
type Source[T any] interface {
	Pull() (T, bool, error)
}

// SourceFunc adapts a plain function to a Source.
type SourceFunc[T any] func() (T, bool, error)

func (f SourceFunc[T]) Pull() (T, bool, error) { return f() }

// Cancellable is implemented by a Source that holds a resource (a
// decode.Reader over a live connection, say) that should be released once
// every output has cancelled.
type Cancellable interface {
	CancelUpstream()
}

// SliceSource replays a fixed slice, for tests and for scripted fixtures.
type SliceSource[T any] struct {
	items []T
	pos   int
}

// FromSlice returns a Source that yields items in order, then exhausts.
func FromSlice[T any](items []T) *SliceSource[T] {
	return &SliceSource[T]{items: items}
}

func (s *SliceSource[T]) Pull() (v T, ok bool, err error) {
	if s.pos >= len(s.items) {
		return v, false, nil
	}
	v = s.items[s.pos]
	s.pos++
	return v, true, nil
}

// Rollover fans a single Source[T] out to n outputs, delivering the whole
// element sequence to exactly one "active" output at a time, per the state
// machine in spec.md §4.4:
//
//   - states: active index plus a cancelled bitset.
//   - pull from active: only the active output's Pull calls reach upstream.
//   - cancel(i): if i is active, advance to the smallest non-cancelled
//     index greater than i; if none exists, cancel upstream and finish.
//   - upstream exhaustion: every non-cancelled output finishes.
//
// A Rollover's methods are safe for concurrent use by different output
// goroutines: they all serialize on one mutex, which is what "single active
// consumer" requires anyway — at most one Pull can be doing real work
// (calling upstream) at a time.
type Rollover[T any] struct {
	mu        sync.Mutex
	upstream  Source[T]
	n         int
	active    int
	cancelled []bool
	pending   []bool
	done      bool
	err       error
}

// New builds a Rollover with n outputs over upstream, output 0 active.
func New[T any](upstream Source[T], n int) *Rollover[T] {
	if n < 1 {
		panic("rollover: n must be at least 1")
	}
	return &Rollover[T]{
		upstream:  upstream,
		n:         n,
		cancelled: make([]bool, n),
		pending:   make([]bool, n),
	}
}

// Outputs returns the n Leg handles, in index order.
func (ro *Rollover[T]) Outputs() []*Leg[T] {
	legs := make([]*Leg[T], ro.n)
	for i := range legs {
		legs[i] = &Leg[T]{ro: ro, index: i}
	}
	return legs
}

// Output returns the single Leg handle for output i.
func (ro *Rollover[T]) Output(i int) *Leg[T] {
	if i < 0 || i >= ro.n {
		panic("rollover: output index out of range")
	}
	return &Leg[T]{ro: ro, index: i}
}

func (ro *Rollover[T]) pull(i int) (zero T, ok bool, err error) {
	ro.mu.Lock()
	defer ro.mu.Unlock()

	if ro.cancelled[i] || ro.done {
		return zero, false, ro.err
	}
	if i != ro.active {
		// Demand arriving before its turn is recorded in pending, but
		// nothing is pulled for it and becoming active does not deliver
		// an element by itself: this output receives one only on a Pull
		// call made while it is active.
		ro.pending[i] = true
		return zero, false, nil
	}
	ro.pending[i] = false

	v, upOK, err := ro.upstream.Pull()
	if err != nil {
		ro.err = err
		ro.done = true
		return zero, false, err
	}
	if !upOK {
		ro.done = true
		return zero, false, nil
	}
	return v, true, nil
}

func (ro *Rollover[T]) cancel(i int) {
	ro.mu.Lock()
	defer ro.mu.Unlock()

	if ro.cancelled[i] || ro.done {
		return
	}
	ro.cancelled[i] = true
	if i != ro.active {
		return
	}
	for j := i + 1; j < ro.n; j++ {
		if !ro.cancelled[j] {
			ro.active = j
			return
		}
	}
	// No non-cancelled output remains: the whole stage is finished.
	ro.done = true
	if c, ok := ro.upstream.(Cancellable); ok {
		c.CancelUpstream()
	}
}

// ActiveIndex reports the currently active output, or -1 if the stage has
// finished (upstream exhausted or every output cancelled).
func (ro *Rollover[T]) ActiveIndex() int {
	ro.mu.Lock()
	defer ro.mu.Unlock()
	if ro.done {
		return -1
	}
	return ro.active
}

// Leg is one output of a Rollover.
type Leg[T any] struct {
	ro    *Rollover[T]
	index int
}

// Pull requests the next element for this output. ok is false both when
// this output isn't currently active (demand is recorded for later) and
// when the stage has finished; callers that need to tell those apart
// should check IsActive or the Rollover's ActiveIndex, or rely on err being non-nil only for
// genuine upstream failure.
func (l *Leg[T]) Pull() (T, bool, error) {
	return l.ro.pull(l.index)
}

// Cancel marks this output done. If it was active, the stage advances to
// the next non-cancelled output; if none remains, upstream is cancelled.
func (l *Leg[T]) Cancel() {
	l.ro.cancel(l.index)
}

// IsActive reports whether this output is the one currently receiving
// upstream elements.
func (l *Leg[T]) IsActive() bool {
	l.ro.mu.Lock()
	defer l.ro.mu.Unlock()
	return !l.ro.done && l.ro.active == l.index
}
