package widget

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestDate(t *testing.T) (*DateEditor, *recorder, *ManualScheduler) {
	t.Helper()
	rec := &recorder{}
	sched := NewManualScheduler()
	d := NewDate("dd.mm.yyyy", Options{ID: "date", Handler: rec.handle, Scheduler: sched})
	return d, rec, sched
}

func TestDate_RoundTrip(t *testing.T) {
	t.Parallel()
	for _, v := range []string{"2024-02-29", "1999-12-31", "1000-01-01", "9999-06-15"} {
		d, _, _ := newTestDate(t)
		d.SetValue(v)
		require.Equal(t, v, d.Value())
		require.Equal(t, v, d.Baseline())
	}
}

func TestDate_SegmentsFromValue(t *testing.T) {
	t.Parallel()
	d, _, _ := newTestDate(t)
	d.SetValue("2024-03-05")
	require.Equal(t, "05", d.SegmentText(0))
	require.Equal(t, "03", d.SegmentText(1))
	require.Equal(t, "2024", d.SegmentText(2))

	views := d.Segments()
	require.Len(t, views, 5)
	require.Equal(t, ".", views[1].Literal)
	require.True(t, views[0].Tabbable)
	require.False(t, views[2].Tabbable)
	require.False(t, views[4].Tabbable)
}

func TestDate_UnparsableValueKeepsSegments(t *testing.T) {
	t.Parallel()
	d, _, _ := newTestDate(t)
	d.SetValue("2024-03-05")
	d.SetValue("garbage")
	require.Equal(t, "2024-03-05", d.Value())
}

func TestDate_DayClampOnTyping(t *testing.T) {
	t.Parallel()
	d, _, _ := newTestDate(t)
	d.SetValue("2023-02-01")
	d.Focus()
	d.Input("31", 2)
	require.Equal(t, "28", d.SegmentText(0))
	require.Equal(t, "2023-02-28", d.Value())

	d2, _, _ := newTestDate(t)
	d2.SetValue("2024-02-01")
	d2.Focus()
	d2.Input("31", 2)
	require.Equal(t, "29", d2.SegmentText(0))
}

func TestDate_CrossFieldRevalidation(t *testing.T) {
	t.Parallel()
	d, _, _ := newTestDate(t)
	d.SetValue("2024-01-31")
	d.FocusSegment(1)
	d.Input("02", 2)
	require.Equal(t, "29", d.SegmentText(0))

	d.FocusSegment(2)
	d.Input("2023", 4)
	require.Equal(t, "28", d.SegmentText(0))
	require.Equal(t, "2023-02-28", d.Value())
}

func TestDate_PartialYearAllowsLeapDay(t *testing.T) {
	t.Parallel()
	d, _, _ := newTestDate(t)
	d.SetValue("2023-02-01")
	d.FocusSegment(2)
	d.Input("20", 2)
	d.FocusSegment(0)
	d.Input("29", 2)
	require.Equal(t, "29", d.SegmentText(0))
	require.Equal(t, "", d.Value())
}

func TestDate_AutoAdvanceAtEnd(t *testing.T) {
	t.Parallel()
	d, _, sched := newTestDate(t)
	d.Focus()
	typeKeys(t, d, "1", "5")
	require.Equal(t, "15", d.SegmentText(0))
	require.Equal(t, 0, d.FocusIndex())
	require.Equal(t, 1, sched.Pending())

	sched.Flush()
	require.Equal(t, 1, d.FocusIndex())
	require.Equal(t, 0, d.Caret())
}

func TestDate_NoAutoAdvanceMidText(t *testing.T) {
	t.Parallel()
	d, _, sched := newTestDate(t)
	d.Focus()
	d.Input("1", 1)
	typeKeys(t, d, KeyHome, "2")
	require.Equal(t, "21", d.SegmentText(0))
	require.Equal(t, 1, d.Caret())
	require.Equal(t, 0, sched.Pending())

	sched.Flush()
	require.Equal(t, 0, d.FocusIndex())
}

func TestDate_NoAutoAdvanceFromLastSegment(t *testing.T) {
	t.Parallel()
	d, _, sched := newTestDate(t)
	d.FocusSegment(2)
	d.Input("2024", 4)
	require.Equal(t, 0, sched.Pending())
	require.Equal(t, 2, d.FocusIndex())
}

func TestDate_TypingLiteralMovesOn(t *testing.T) {
	t.Parallel()
	d, _, _ := newTestDate(t)
	d.Focus()
	typeKeys(t, d, "5", ".")
	require.Equal(t, "5", d.SegmentText(0))
	require.Equal(t, 1, d.FocusIndex())

	typeKeys(t, d, "3", ".", "2", "0", "2", "4")
	require.Equal(t, "2024-03-05", d.Value())
}

func TestDate_LiteralAfterAutoAdvanceIsAbsorbed(t *testing.T) {
	t.Parallel()
	d, _, sched := newTestDate(t)
	d.Focus()
	typeKeys(t, d, "1", "2", ".")
	require.Equal(t, 1, d.FocusIndex())
	require.Equal(t, "", d.SegmentText(1))
	require.Equal(t, 0, sched.Pending())
}

func TestDate_LiteralOnEmptySegmentIgnored(t *testing.T) {
	t.Parallel()
	d, rec, _ := newTestDate(t)
	d.Focus()
	typeKeys(t, d, ".")
	require.Equal(t, 0, d.FocusIndex())
	require.Empty(t, rec.events)
}

func TestDate_BoundaryDeletion(t *testing.T) {
	t.Parallel()
	d, rec, _ := newTestDate(t)
	d.SetValue("2024-03-15")
	d.FocusSegment(1)
	typeKeys(t, d, KeyLeft, KeyLeft)
	require.Equal(t, 0, d.Caret())

	d.HandleKey(KeyBackspace)
	require.Equal(t, 0, d.FocusIndex())
	require.Equal(t, "1", d.SegmentText(0))
	require.Equal(t, EventEdit, rec.last().Kind)
	require.Equal(t, "2024-03-01", rec.last().Value)

	d.HandleKey(KeyDelete)
	require.Equal(t, 1, d.FocusIndex())
	require.Equal(t, "3", d.SegmentText(1))
	require.Equal(t, 0, d.Caret())
	require.Equal(t, "2024-03-01", d.Value())
}

func TestDate_BackspaceAtStartOfFirstSegment(t *testing.T) {
	t.Parallel()
	d, rec, _ := newTestDate(t)
	d.SetValue("2024-03-15")
	d.Focus()
	typeKeys(t, d, KeyHome, KeyBackspace)
	require.Equal(t, "15", d.SegmentText(0))
	require.Empty(t, rec.events)
}

func TestDate_ArrowsCrossSegments(t *testing.T) {
	t.Parallel()
	d, _, _ := newTestDate(t)
	d.SetValue("2024-03-15")
	d.Focus()
	d.HandleKey(KeyRight)
	require.Equal(t, 1, d.FocusIndex())
	require.Equal(t, 0, d.Caret())
	d.HandleKey(KeyLeft)
	require.Equal(t, 0, d.FocusIndex())
	require.Equal(t, 2, d.Caret())
	d.HandleKey(KeyEnd)
	require.Equal(t, 2, d.FocusIndex())
	require.Equal(t, 4, d.Caret())
}

func TestDate_CommitOncePerBlur(t *testing.T) {
	t.Parallel()
	d, rec, _ := newTestDate(t)
	d.SetValue("2024-03-15")

	d.Focus()
	d.Blur()
	require.Empty(t, rec.events)

	d.Focus()
	typeKeys(t, d, KeyBackspace, "6", KeyEnter)
	require.Equal(t, []EventKind{EventEdit, EventEdit, EventCommit}, rec.kinds())
	require.Equal(t, "2024-03-16", rec.last().Value)
	require.Equal(t, "2024-03-16", d.Baseline())
	require.False(t, d.Focused())

	d.Blur()
	d.Focus()
	d.Blur()
	require.Equal(t, 1, rec.count(EventCommit))
}

func TestDate_EscapeRevertsAndBlurs(t *testing.T) {
	t.Parallel()
	d, rec, _ := newTestDate(t)
	d.SetValue("2024-03-15")
	d.Focus()
	d.HandleKey(KeyBackspace)
	require.Equal(t, "2024-03-01", d.Value())

	d.HandleKey(KeyEsc)
	require.Equal(t, "2024-03-15", d.Value())
	require.Equal(t, "15", d.SegmentText(0))
	require.False(t, d.Focused())
	require.Equal(t, 0, rec.count(EventCommit))
}

func TestDate_EscapeAtBaselineIsNoop(t *testing.T) {
	t.Parallel()
	d, rec, _ := newTestDate(t)
	d.SetValue("2024-03-15")
	d.HandleKey(KeyEsc)
	require.Empty(t, rec.events)
	require.Equal(t, "2024-03-15", d.Value())
}

func TestDate_ExternalWriteBaselineGatedByFocus(t *testing.T) {
	t.Parallel()
	d, rec, _ := newTestDate(t)
	d.SetValue("2024-03-15")
	d.SetValue("2024-04-01")
	require.Equal(t, "2024-04-01", d.Baseline())
	d.Focus()
	d.Blur()
	require.Empty(t, rec.events)

	d.Focus()
	d.SetValue("2025-01-01")
	require.Equal(t, "2025-01-01", d.Value())
	require.Equal(t, "2024-04-01", d.Baseline())
	d.Blur()
	require.Equal(t, []EventKind{EventCommit}, rec.kinds())
	require.Equal(t, "2025-01-01", rec.last().Value)
}

func TestDate_WriteFromHandlerIsQueued(t *testing.T) {
	t.Parallel()
	var d *DateEditor
	var seen []string
	d = NewDate("", Options{ID: "date", Scheduler: NewManualScheduler(), Handler: func(e Event) {
		seen = append(seen, e.Value+"|"+d.SegmentText(0))
		if e.Kind == EventEdit {
			d.SetValue("2000-01-01")
		}
	}})
	d.SetValue("2024-03-15")
	d.Focus()
	d.HandleKey(KeyBackspace)

	require.Equal(t, []string{"2024-03-01|1"}, seen)
	require.Equal(t, "2000-01-01", d.Value())
}

func TestDate_EmptySegmentsReadAsDefaults(t *testing.T) {
	t.Parallel()
	d, rec, _ := newTestDate(t)
	d.Focus()
	d.HandleKey("1")
	require.Equal(t, "1970-01-01", d.Value())
	require.Equal(t, Event{Kind: EventEdit, Widget: "date", Value: "1970-01-01"}, rec.last())

	d.Input("05", 2)
	d.FocusSegment(1)
	d.Input("03", 2)
	require.Equal(t, "", d.SegmentText(2))
	require.Equal(t, "1970-03-05", d.Value())
}

func TestDate_ClearedSegmentsAreEmpty(t *testing.T) {
	t.Parallel()
	d, rec, _ := newTestDate(t)
	d.SetValue("2024-03-05")
	d.Focus()
	typeKeys(t, d, KeyBackspace, KeyBackspace)
	require.Equal(t, "2024-03-01", d.Value())

	d.SetValue("")
	require.Equal(t, "", d.Value())
	require.Equal(t, "", d.SegmentText(1))
	require.Equal(t, "2024-03-01", rec.last().Value)
}

func TestDate_SetPatternKeepsValue(t *testing.T) {
	t.Parallel()
	d, _, _ := newTestDate(t)
	d.SetValue("2024-03-15")
	d.SetPattern("yyyy-mm-dd")
	require.Equal(t, "yyyy-mm-dd", d.Pattern())
	require.Equal(t, "2024", d.SegmentText(0))
	require.Equal(t, "15", d.SegmentText(2))
	require.Equal(t, "2024-03-15", d.Value())
}

func TestDate_PatternWithoutYear(t *testing.T) {
	t.Parallel()
	d := NewDate("dd.mm", Options{})
	d.Focus()
	d.Input("29", 2)
	d.FocusSegment(1)
	d.Input("02", 2)
	require.Equal(t, "29", d.SegmentText(0))
	require.Equal(t, "", d.Value())
}

func TestDate_PasteSanitizes(t *testing.T) {
	t.Parallel()
	d, _, sched := newTestDate(t)
	d.Focus()
	d.Paste("3a1")
	require.Equal(t, "31", d.SegmentText(0))
	require.Equal(t, 2, d.Caret())
	require.Equal(t, 1, sched.Pending())
}

func TestDate_UnmountCancelsAdvance(t *testing.T) {
	t.Parallel()
	d, _, sched := newTestDate(t)
	d.Focus()
	typeKeys(t, d, "1", "2")
	require.Equal(t, 1, sched.Pending())
	d.Unmount()
	require.Equal(t, 0, sched.Pending())
	require.False(t, d.HandleKey("3"))
}

func TestDate_DisabledIgnoresInput(t *testing.T) {
	t.Parallel()
	d, rec, _ := newTestDate(t)
	d.SetValue("2024-03-15")
	d.SetDisabled(true)
	d.Focus()
	require.False(t, d.Focused())
	require.False(t, d.HandleKey("1"))
	require.Empty(t, rec.events)
	require.Equal(t, "2024-03-15", d.Value())
	require.False(t, d.Segments()[0].Tabbable)
}

func TestDate_Placeholder(t *testing.T) {
	t.Parallel()
	d := NewDate("", Options{Placeholder: "dd.mm.yyyy"})
	require.True(t, d.PlaceholderVisible())
	d.SetValue("2024-03-15")
	require.False(t, d.PlaceholderVisible())
}

func TestDate_ImmediateSchedulerAdvancesSynchronously(t *testing.T) {
	t.Parallel()
	d := NewDate("", Options{})
	d.Focus()
	typeKeys(t, d, "1", "2")
	require.Equal(t, 1, d.FocusIndex())
}
