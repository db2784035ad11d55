package tui

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSchedulerFire(t *testing.T) {
	t.Parallel()
	s := newScheduler()
	ran := 0
	s.AfterFunc(0, func() { ran++ })
	require.Equal(t, 1, s.pending())
	require.NotNil(t, s.drain())
	require.Nil(t, s.drain())

	s.fire(1)
	s.fire(1)
	require.Equal(t, 1, ran)
	require.Zero(t, s.pending())
}

func TestSchedulerStop(t *testing.T) {
	t.Parallel()
	s := newScheduler()
	ran := false
	timer := s.AfterFunc(0, func() { ran = true })
	require.True(t, timer.Stop())
	require.False(t, timer.Stop())
	s.fire(1)
	require.False(t, ran)
}

func TestSchedulerTickMessage(t *testing.T) {
	t.Parallel()
	s := newScheduler()
	s.AfterFunc(0, func() {})
	msg := s.drain()()
	require.Equal(t, tickMsg{id: 1}, msg)
}

func TestFormatDate(t *testing.T) {
	t.Parallel()
	d := fixedNow
	require.Equal(t, "10.03.2024", formatDate(d, parse("dd.mm.yyyy")))
	require.Equal(t, "2024-03-10", formatDate(d, parse("yyyy-mm-dd")))
}
