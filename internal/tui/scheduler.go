package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/energylog/internal/widget"
)

// tickMsg carries a widget timer back into Update.
type tickMsg struct{ id int }

// scheduler turns widget timers into tea.Tick commands so their callbacks
// run inside Update, on the same loop that delivers key presses.
type scheduler struct {
	seq   int
	tasks map[int]func()
	cmds  []tea.Cmd
}

func newScheduler() *scheduler {
	return &scheduler{tasks: make(map[int]func())}
}

func (s *scheduler) AfterFunc(d time.Duration, fn func()) widget.Timer {
	s.seq++
	id := s.seq
	s.tasks[id] = fn
	s.cmds = append(s.cmds, tea.Tick(d, func(time.Time) tea.Msg { return tickMsg{id: id} }))
	return teaTimer{s: s, id: id}
}

// fire runs the callback for id unless it was stopped.
func (s *scheduler) fire(id int) {
	fn, ok := s.tasks[id]
	if !ok {
		return
	}
	delete(s.tasks, id)
	fn()
}

// drain hands the ticks queued since the last call to bubbletea.
func (s *scheduler) drain() tea.Cmd {
	if len(s.cmds) == 0 {
		return nil
	}
	cmds := s.cmds
	s.cmds = nil
	if len(cmds) == 1 {
		return cmds[0]
	}
	return tea.Batch(cmds...)
}

func (s *scheduler) pending() int { return len(s.tasks) }

type teaTimer struct {
	s  *scheduler
	id int
}

func (t teaTimer) Stop() bool {
	if _, ok := t.s.tasks[t.id]; !ok {
		return false
	}
	delete(t.s.tasks, t.id)
	return true
}
