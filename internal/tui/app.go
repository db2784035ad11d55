package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/energylog/internal/config"
	"github.com/jask/energylog/internal/energy"
	"github.com/jask/energylog/internal/prefs"
	"github.com/jask/energylog/internal/widget"
)

// Backend is the part of the HTTP API the terminal client uses.
type Backend interface {
	LastRows(ctx context.Context, n int) ([]energy.Energy, error)
	Kinds(ctx context.Context) ([]energy.KindInfo, error)
	Save(ctx context.Context, e energy.Energy) (energy.Energy, error)
}

// App is the bubbletea model: a grid of recent readings and an entry form.
type App struct {
	ctx     context.Context
	backend Backend
	prefs   *prefs.Store
	log     *slog.Logger

	loc       *time.Location
	pattern   widget.FormatSpec
	precision int
	lastRows  int
	now       func() time.Time

	keys  keyMap
	sched *scheduler
	form  *form
	draft draft

	grid  table.Model
	rows  []energy.Energy
	kinds map[energy.Kind]energy.KindInfo

	lastKind      int
	saveRequested bool
	status        string
	width         int
}

type (
	rowsMsg   []energy.Energy
	kindsMsg  []energy.KindInfo
	savedMsg  energy.Energy
	statusMsg string
	errMsg    struct{ error }
)

// New builds the client model. store may be nil, in which case the last used
// kind is not remembered.
func New(ctx context.Context, cfg config.Config, backend Backend, store *prefs.Store, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	lastRows := cfg.UI.LastRows
	if lastRows <= 0 {
		lastRows = 10
	}
	a := &App{
		ctx:       ctx,
		backend:   backend,
		prefs:     store,
		log:       logger,
		loc:       cfg.Location(),
		pattern:   widget.ParseDatePattern(cfg.UI.DateFormat),
		precision: cfg.UI.AmountPrecision,
		lastRows:  lastRows,
		now:       time.Now,
		keys:      defaultKeys(),
		sched:     newScheduler(),
		kinds:     make(map[energy.Kind]energy.KindInfo),
	}
	for _, k := range energy.KindInfos() {
		a.kinds[k.Kind] = k
	}
	if store != nil {
		if p, err := store.Load(); err == nil {
			a.lastKind = p.LastKind
		} else {
			logger.Warn("load prefs", "error", err)
		}
	}
	a.form = newForm(cfg.UI.DateFormat, cfg.UI.AmountPrecision, energy.KindOptions(), a.sched, a.onWidget)
	a.grid = table.New(
		table.WithColumns(a.columns()),
		table.WithFocused(true),
		table.WithHeight(lastRows+1),
		table.WithWidth(80),
	)
	a.draft = a.form.load(a.blank())
	return a
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.loadRows(), a.loadKinds())
}

func (a *App) loadRows() tea.Cmd {
	return func() tea.Msg {
		list, err := a.backend.LastRows(a.ctx, a.lastRows)
		if err != nil {
			return errMsg{fmt.Errorf("load readings: %w", err)}
		}
		return rowsMsg(list)
	}
}

func (a *App) loadKinds() tea.Cmd {
	return func() tea.Msg {
		list, err := a.backend.Kinds(a.ctx)
		if err != nil {
			// built-in kinds stay in place
			a.log.Warn("load kinds", "error", err)
			return nil
		}
		return kindsMsg(list)
	}
}

func (a *App) saveCmd(e energy.Energy) tea.Cmd {
	return func() tea.Msg {
		saved, err := a.backend.Save(a.ctx, e)
		if err != nil {
			return errMsg{fmt.Errorf("save reading: %w", err)}
		}
		if a.prefs != nil {
			if err := a.prefs.Save(prefs.Prefs{LastKind: int(saved.Kind)}); err != nil {
				a.log.Warn("save prefs", "error", err)
			}
		}
		return savedMsg(saved)
	}
}

// Update routes the message and then hands any widget timers scheduled while
// handling it to bubbletea.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := a.update(msg)
	if a.saveRequested {
		a.saveRequested = false
		cmd = tea.Batch(cmd, a.submit())
	}
	return a, tea.Batch(cmd, a.sched.drain())
}

func (a *App) update(msg tea.Msg) tea.Cmd {
	switch m := msg.(type) {
	case tea.KeyMsg:
		if a.form.active() {
			return a.handleFormKey(m)
		}
		return a.handleGridKey(m)
	case tea.WindowSizeMsg:
		a.width = m.Width
	case tickMsg:
		a.sched.fire(m.id)
	case rowsMsg:
		a.rows = []energy.Energy(m)
		a.grid.SetRows(a.tableRows())
		if a.grid.Cursor() >= len(a.rows) {
			a.grid.SetCursor(0)
		}
	case kindsMsg:
		if len(m) == 0 {
			return nil
		}
		for _, k := range m {
			a.kinds[k.Kind] = k
		}
		a.form.kind.SetOptions(energy.OptionsFor(m))
		a.grid.SetRows(a.tableRows())
	case savedMsg:
		a.lastKind = int(m.Kind)
		a.form.leave()
		a.draft = a.form.load(a.blank())
		a.status = fmt.Sprintf("saved %s %s", a.kindLabel(m.Kind), energy.FormatAmount(m.Amount, a.precision))
		a.log.Debug("reading saved", "id", m.ID, "kind", int(m.Kind))
		return a.loadRows()
	case statusMsg:
		a.status = string(m)
	case errMsg:
		a.status = "error: " + m.Error()
		a.log.Error("request failed", "error", m.error)
	}
	return nil
}

func (a *App) handleGridKey(m tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(m, a.keys.Quit):
		a.form.unmount()
		return tea.Quit
	case key.Matches(m, a.keys.New):
		a.draft = a.form.load(a.blank())
		a.status = "new reading"
		a.form.focusAt(0)
	case key.Matches(m, a.keys.Edit):
		i := a.grid.Cursor()
		if i < 0 || i >= len(a.rows) {
			return nil
		}
		a.draft = a.form.load(a.fromRecord(a.rows[i]))
		a.status = "editing reading"
		a.form.focusAt(0)
	case key.Matches(m, a.keys.Reload):
		a.status = "reloading..."
		return tea.Batch(a.loadRows(), a.loadKinds())
	case key.Matches(m, a.keys.Next):
		a.form.focusAt(0)
	default:
		var cmd tea.Cmd
		a.grid, cmd = a.grid.Update(m)
		return cmd
	}
	return nil
}

func (a *App) handleFormKey(m tea.KeyMsg) tea.Cmd {
	switch {
	case m.String() == "ctrl+c":
		a.form.unmount()
		return tea.Quit
	case key.Matches(m, a.keys.Save):
		a.saveRequested = true
		return nil
	case key.Matches(m, a.keys.Next):
		a.form.move(1)
		return nil
	case key.Matches(m, a.keys.Prev):
		a.form.move(-1)
		return nil
	}

	c := a.form.current()
	consumed := false
	if m.Paste {
		if p, ok := c.(paster); ok {
			p.Paste(string(m.Runes))
			consumed = true
		} else {
			for _, r := range m.Runes {
				consumed = c.HandleKey(string(r)) || consumed
			}
		}
	} else {
		consumed = c.HandleKey(m.String())
	}
	switch {
	case !c.Focused() && m.Type == tea.KeyEnter:
		// enter commits the field and moves on
		a.form.move(1)
	case !c.Focused():
		a.form.leave()
	case !consumed && key.Matches(m, a.keys.Cancel):
		a.form.leave()
	}
	return nil
}

// paster is implemented by the segmented editors, which sanitize a pasted
// string as one edit.
type paster interface {
	Paste(text string)
}

// onWidget receives every widget notification; it runs inside Update.
func (a *App) onWidget(ev widget.Event) {
	switch ev.Kind {
	case widget.EventEdit, widget.EventCommit:
		a.draft.set(ev.Widget, ev.Value)
	case widget.EventActivate:
		if ev.Widget == fieldSave {
			a.saveRequested = true
		}
	}
}

func (a *App) submit() tea.Cmd {
	e, err := a.record()
	if err != nil {
		a.status = "error: " + err.Error()
		return nil
	}
	a.status = "saving..."
	return a.saveCmd(e)
}

// record turns the draft into a reading. A new reading takes the current
// time of day; an edited one keeps its own.
func (a *App) record() (energy.Energy, error) {
	kind, err := energy.ParseKind(a.draft.Kind)
	if err != nil {
		if a.draft.Kind == "" {
			return energy.Energy{}, errors.New("choose a meter")
		}
		return energy.Energy{}, err
	}
	amount, err := energy.ParseAmount(a.draft.Amount)
	if err != nil {
		return energy.Energy{}, err
	}
	clock := a.now()
	if a.draft.Created > 0 {
		clock = time.Unix(a.draft.Created, 0)
	}
	created, err := energy.JoinDateAndClock(a.draft.Date, clock, a.loc)
	if err != nil {
		return energy.Energy{}, err
	}
	e := energy.Energy{ID: a.draft.ID, Kind: kind, Amount: amount, Info: a.draft.Info, Created: created}
	return e, e.Validate()
}

func (a *App) blank() draft {
	d := draft{Date: a.now().In(a.loc).Format(time.DateOnly)}
	if a.lastKind > 0 {
		d.Kind = strconv.Itoa(a.lastKind)
	}
	return d
}

func (a *App) fromRecord(e energy.Energy) draft {
	return draft{
		ID:      e.ID,
		Created: e.Created,
		Date:    e.CreatedAt(a.loc).Format(time.DateOnly),
		Kind:    strconv.Itoa(int(e.Kind)),
		Amount:  energy.FormatAmount(e.Amount, a.precision),
		Info:    e.Info,
	}
}

func (a *App) kindLabel(k energy.Kind) string {
	if info, ok := a.kinds[k]; ok && info.Label != "" {
		return info.Label
	}
	return k.Label()
}

func (a *App) kindUnit(k energy.Kind) string {
	if info, ok := a.kinds[k]; ok && info.Unit != "" {
		return info.Unit
	}
	return k.Unit()
}

func (a *App) columns() []table.Column {
	return []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Meter", Width: 16},
		{Title: "Reading", Width: 16},
		{Title: "Info", Width: 24},
	}
}

func (a *App) tableRows() []table.Row {
	out := make([]table.Row, 0, len(a.rows))
	for _, e := range a.rows {
		out = append(out, table.Row{
			formatDate(e.CreatedAt(a.loc), a.pattern),
			a.kindLabel(e.Kind),
			energy.FormatAmount(e.Amount, a.precision) + " " + a.kindUnit(e.Kind),
			e.Info,
		})
	}
	return out
}
