package tui

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/jask/energylog/internal/config"
	"github.com/jask/energylog/internal/energy"
	"github.com/jask/energylog/internal/prefs"
)

type fakeBackend struct {
	rows     []energy.Energy
	kinds    []energy.KindInfo
	kindsErr error
	saved    []energy.Energy
}

func (f *fakeBackend) LastRows(_ context.Context, n int) ([]energy.Energy, error) {
	if n < len(f.rows) {
		return f.rows[:n], nil
	}
	return f.rows, nil
}

func (f *fakeBackend) Kinds(context.Context) ([]energy.KindInfo, error) {
	return f.kinds, f.kindsErr
}

func (f *fakeBackend) Save(_ context.Context, e energy.Energy) (energy.Energy, error) {
	f.saved = append(f.saved, e)
	if e.ID == "" {
		e.ID = "new-id"
	}
	return e, nil
}

var fixedNow = time.Date(2024, 3, 10, 14, 30, 0, 0, time.UTC)

func testConfig() config.Config {
	var cfg config.Config
	cfg.UI.DateFormat = "dd.mm.yyyy"
	cfg.UI.LastRows = 5
	cfg.UI.Timezone = "UTC"
	return cfg
}

func newTestApp(t *testing.T, b *fakeBackend) *App {
	t.Helper()
	store := &prefs.Store{Dir: filepath.Join(t.TempDir(), "prefs")}
	a := New(context.Background(), testConfig(), b, store, newTestLogger())
	a.now = func() time.Time { return fixedNow }
	a.draft = a.form.load(a.blank())
	run(t, a, a.Init())
	return a
}

// run executes cmd and feeds every resulting message back into the app until
// nothing is left. Quit is swallowed.
func run(t *testing.T, a *App, cmd tea.Cmd) {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		require.Less(t, steps, 200, "command loop did not settle")
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case nil, tea.QuitMsg:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			_, next := a.Update(msg)
			queue = append(queue, next)
		}
	}
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(t *testing.T, a *App, keys ...string) {
	t.Helper()
	for _, k := range keys {
		_, cmd := a.Update(keyMsg(k))
		run(t, a, cmd)
	}
}

func typeText(t *testing.T, a *App, s string) {
	t.Helper()
	for _, r := range s {
		press(t, a, string(r))
	}
}

func sampleRows() []energy.Energy {
	return []energy.Energy{
		{ID: "r1", Kind: energy.Gas, Amount: 812, Info: "cellar", Created: time.Date(2024, 3, 1, 8, 15, 0, 0, time.UTC).Unix()},
		{ID: "r2", Kind: energy.Water, Amount: 95, Created: time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC).Unix()},
	}
}

func TestInitLoadsRowsAndKinds(t *testing.T) {
	t.Parallel()
	b := &fakeBackend{
		rows:  sampleRows(),
		kinds: []energy.KindInfo{{Kind: energy.Gas, Label: "Natural gas", Unit: "m3"}},
	}
	a := newTestApp(t, b)

	require.Len(t, a.rows, 2)
	rows := a.grid.Rows()
	require.Equal(t, "01.03.2024", rows[0][0])
	require.Equal(t, "Natural gas", rows[0][1])
	require.Equal(t, "812 m3", rows[0][2])
	require.Len(t, a.form.kind.Options(), 1)
}

func TestKindsFallbackOnError(t *testing.T) {
	t.Parallel()
	a := newTestApp(t, &fakeBackend{kindsErr: errors.New("offline")})
	require.Len(t, a.form.kind.Options(), len(energy.Kinds()))
	require.Empty(t, a.status)
}

func TestEnterNewReading(t *testing.T) {
	t.Parallel()
	b := &fakeBackend{}
	a := newTestApp(t, b)

	press(t, a, "n")
	require.True(t, a.form.date.Focused())

	press(t, a, "backspace", "backspace")
	typeText(t, a, "05")
	require.Equal(t, "2024-03-05", a.draft.Date)

	press(t, a, "tab")
	typeText(t, a, "gas")
	press(t, a, "down", "enter")
	require.Equal(t, "3", a.draft.Kind)

	press(t, a, "tab")
	typeText(t, a, "1234")
	press(t, a, "tab")
	typeText(t, a, "meter 2")
	press(t, a, "ctrl+s")

	require.Len(t, b.saved, 1)
	got := b.saved[0]
	require.Equal(t, energy.Gas, got.Kind)
	require.Equal(t, 1234.0, got.Amount)
	require.Equal(t, "meter 2", got.Info)
	require.Equal(t, time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC).Unix(), got.Created)
	require.Empty(t, got.ID)

	require.False(t, a.form.active())
	require.Contains(t, a.status, "saved")
	require.Equal(t, "3", a.draft.Kind, "last kind is preselected")

	p, err := a.prefs.Load()
	require.NoError(t, err)
	require.Equal(t, 3, p.LastKind)
}

func TestSaveButton(t *testing.T) {
	t.Parallel()
	b := &fakeBackend{}
	a := newTestApp(t, b)

	press(t, a, "n", "tab")
	typeText(t, a, "wat")
	press(t, a, "down", "enter", "enter")
	require.True(t, a.form.amount.Focused())
	typeText(t, a, "7")
	press(t, a, "enter", "enter")
	require.True(t, a.form.save.Focused())
	press(t, a, "enter")

	require.Len(t, b.saved, 1)
	require.Equal(t, energy.Water, b.saved[0].Kind)
}

func TestEditKeepsIDAndClock(t *testing.T) {
	t.Parallel()
	b := &fakeBackend{rows: sampleRows()}
	a := newTestApp(t, b)

	press(t, a, "e")
	require.Equal(t, "r1", a.draft.ID)
	require.Equal(t, "2024-03-01", a.form.date.Value())
	require.Equal(t, "812", a.form.amount.Value())
	require.Equal(t, "cellar", a.form.info.Value())

	press(t, a, "right", "right", "right", "backspace")
	typeText(t, a, "2")
	require.Equal(t, "2024-02-01", a.draft.Date)
	press(t, a, "ctrl+s")

	require.Len(t, b.saved, 1)
	require.Equal(t, "r1", b.saved[0].ID)
	require.Equal(t, time.Date(2024, 2, 1, 8, 15, 0, 0, time.UTC).Unix(), b.saved[0].Created)
}

func TestSaveRejectsIncompleteDraft(t *testing.T) {
	t.Parallel()
	b := &fakeBackend{}
	a := newTestApp(t, b)

	press(t, a, "n", "ctrl+s")
	require.Empty(t, b.saved)
	require.Contains(t, a.status, "choose a meter")
	require.True(t, a.form.active())
}

func TestEscapeReturnsToGrid(t *testing.T) {
	t.Parallel()
	a := newTestApp(t, &fakeBackend{})

	press(t, a, "n", "tab", "tab", "tab", "tab")
	require.True(t, a.form.save.Focused())
	press(t, a, "esc")
	require.False(t, a.form.active())
	require.False(t, a.form.save.Focused())
}

func TestTabClosesOpenList(t *testing.T) {
	t.Parallel()
	a := newTestApp(t, &fakeBackend{})

	press(t, a, "n", "tab", "down")
	require.True(t, a.form.kind.Open())
	require.Equal(t, 1, a.form.outside.Len())

	press(t, a, "tab")
	require.False(t, a.form.kind.Open())
	require.Zero(t, a.form.outside.Len())
	require.True(t, a.form.amount.Focused())
}

func TestShiftTabWraps(t *testing.T) {
	t.Parallel()
	a := newTestApp(t, &fakeBackend{})
	press(t, a, "n", "shift+tab")
	require.True(t, a.form.save.Focused())
}

func TestViewRendersForm(t *testing.T) {
	t.Parallel()
	a := newTestApp(t, &fakeBackend{rows: sampleRows()})
	out := a.View()
	require.Contains(t, out, "Energy readings")
	require.Contains(t, out, "cellar")
	require.Contains(t, out, "choose a meter")

	press(t, a, "n", "tab")
	typeText(t, a, "zzz")
	press(t, a, "down")
	require.Contains(t, a.View(), "no options found")
}

func TestPasteIntoAmountSanitizes(t *testing.T) {
	t.Parallel()
	a := newTestApp(t, &fakeBackend{})

	press(t, a, "n", "tab", "tab")
	require.True(t, a.form.amount.Focused())
	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("12a3"), Paste: true})
	run(t, a, cmd)
	require.Equal(t, "123", a.draft.Amount)
	require.True(t, a.form.amount.Focused())
}

func TestOpenListMarksSelectedKind(t *testing.T) {
	t.Parallel()
	a := newTestApp(t, &fakeBackend{rows: sampleRows()})

	press(t, a, "e", "tab", "down")
	require.True(t, a.form.kind.Open())
	require.Equal(t, -1, a.form.kind.Highlight())
	out := a.View()
	require.Contains(t, out, "* "+energy.Gas.Label())
	require.Contains(t, out, "  "+energy.Water.Label())
}
