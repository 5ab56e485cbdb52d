// Package debounce is a cancellable one-shot timer for the Bubble Tea
// event loop. Each Start bumps a generation id; a tick from an older
// generation is ignored when it arrives.
package debounce

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// State of a Timer
type State int

const (
	Idle State = iota
	Pending
	Fired
	Canceled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Fired:
		return "fired"
	case Canceled:
		return "canceled"
	}
	return "unknown"
}

var lastID int64

func nextID() int {
	return int(atomic.AddInt64(&lastID, 1))
}

// FiredMsg is delivered when a timer's delay elapses
type FiredMsg struct {
	ID  int
	gen int
}

// Timer is not safe for concurrent use; drive it from Update
type Timer struct {
	id    int
	gen   int
	delay time.Duration
	state State
}

// New returns an idle timer with the given delay
func New(delay time.Duration) *Timer {
	return &Timer{id: nextID(), delay: delay}
}

// ID identifies the timer in FiredMsg
func (t *Timer) ID() int { return t.id }

func (t *Timer) State() State { return t.state }

func (t *Timer) Delay() time.Duration { return t.delay }

// Start arms the timer, superseding any pending tick
func (t *Timer) Start() tea.Cmd {
	t.gen++
	t.state = Pending
	id, gen := t.id, t.gen
	return tea.Tick(t.delay, func(time.Time) tea.Msg {
		return FiredMsg{ID: id, gen: gen}
	})
}

// Cancel drops the pending tick, if any
func (t *Timer) Cancel() {
	if t.state == Pending {
		t.gen++
		t.state = Canceled
	}
}

// Fire reports whether msg is the live tick for this timer and, if so,
// moves the timer to Fired
func (t *Timer) Fire(msg FiredMsg) bool {
	if msg.ID != t.id || msg.gen != t.gen || t.state != Pending {
		return false
	}
	t.state = Fired
	return true
}
