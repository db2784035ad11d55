package widget

import (
	"sort"
	"time"
)

// Timer is a cancellable scheduled callback.
type Timer interface {
	// Stop cancels the callback. It reports false if the callback already
	// ran or was stopped before.
	Stop() bool
}

// Scheduler defers callbacks onto the host's event loop. Implementations must
// invoke fn from the same loop that delivers input events, never concurrently
// with them.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

// Delays used by the widgets.
const (
	// AdvanceDelay defers focus moving on after a segment fills, so the
	// completed segment is drawn before the jump.
	AdvanceDelay = 0
	// CloseGrace lets a pointer press on an option land before a blurred
	// selector closes its list.
	CloseGrace = 150 * time.Millisecond
)

// Immediate runs callbacks synchronously. It is the fallback when a widget is
// built without a scheduler.
var Immediate Scheduler = immediateScheduler{}

type immediateScheduler struct{}

func (immediateScheduler) AfterFunc(_ time.Duration, fn func()) Timer {
	fn()
	return doneTimer{}
}

type doneTimer struct{}

func (doneTimer) Stop() bool { return false }

// ManualScheduler is a deterministic Scheduler driven by Advance. Hosts that
// own their clock and tests use it.
type ManualScheduler struct {
	now   time.Duration
	seq   int
	tasks []*manualTask
}

type manualTask struct {
	due  time.Duration
	seq  int
	fn   func()
	done bool
	s    *ManualScheduler
}

func (t *manualTask) Stop() bool {
	if t.done {
		return false
	}
	t.done = true
	t.s.remove(t)
	return true
}

// NewManualScheduler returns a scheduler at time zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// AfterFunc queues fn to run once the clock has advanced by d.
func (m *ManualScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	m.seq++
	t := &manualTask{due: m.now + d, seq: m.seq, fn: fn, s: m}
	m.tasks = append(m.tasks, t)
	return t
}

// Advance moves the clock forward by d, running every due callback in due
// order. Callbacks scheduled while advancing run too if they fall due.
func (m *ManualScheduler) Advance(d time.Duration) {
	target := m.now + d
	for {
		t := m.next(target)
		if t == nil {
			break
		}
		m.now = t.due
		t.done = true
		m.remove(t)
		t.fn()
	}
	m.now = target
}

// Flush runs everything currently due without moving the clock.
func (m *ManualScheduler) Flush() { m.Advance(0) }

// Pending returns the number of queued callbacks.
func (m *ManualScheduler) Pending() int { return len(m.tasks) }

func (m *ManualScheduler) next(limit time.Duration) *manualTask {
	if len(m.tasks) == 0 {
		return nil
	}
	sort.SliceStable(m.tasks, func(i, j int) bool {
		if m.tasks[i].due != m.tasks[j].due {
			return m.tasks[i].due < m.tasks[j].due
		}
		return m.tasks[i].seq < m.tasks[j].seq
	})
	if m.tasks[0].due > limit {
		return nil
	}
	return m.tasks[0]
}

func (m *ManualScheduler) remove(t *manualTask) {
	for i, other := range m.tasks {
		if other == t {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return
		}
	}
}
