package tui

import (
	"github.com/jask/energylog/internal/widget"
)

// Widget ids double as form field names.
const (
	fieldDate   = "date"
	fieldKind   = "kind"
	fieldAmount = "amount"
	fieldInfo   = "info"
	fieldSave   = "save"
)

// control is what the form needs from every widget to move focus around.
type control interface {
	ID() string
	Key() string
	Focus()
	Blur()
	Focused() bool
	HandleKey(key string) bool
	Unmount()
}

// draft is the reading being entered, kept in sync from widget events.
type draft struct {
	ID string
	// Created is the stored time of an edited reading; its clock is kept
	// when the date changes.
	Created int64
	Date    string
	Kind    string
	Amount  string
	Info    string
}

func (d *draft) set(field, value string) {
	switch field {
	case fieldDate:
		d.Date = value
	case fieldKind:
		d.Kind = value
	case fieldAmount:
		d.Amount = value
	case fieldInfo:
		d.Info = value
	}
}

type form struct {
	date   *widget.DateEditor
	kind   *widget.Selector
	amount *widget.NumberEditor
	info   *widget.Text
	save   *widget.Button

	order   []control
	focus   int
	outside *widget.Dispatcher
}

func newForm(pattern string, precision int, options []widget.Option, sched widget.Scheduler, h widget.Handler) *form {
	outside := widget.NewDispatcher()
	base := func(id, placeholder string) widget.Options {
		return widget.Options{ID: id, Handler: h, Scheduler: sched, Dispatcher: outside, Placeholder: placeholder}
	}
	f := &form{
		date:    widget.NewDate(pattern, base(fieldDate, "")),
		kind:    widget.NewSelector(options, base(fieldKind, "choose a meter")),
		amount:  widget.NewNumber(precision, base(fieldAmount, "")),
		info:    widget.NewText(base(fieldInfo, "optional note")),
		save:    widget.NewButton("Save", base(fieldSave, "")),
		focus:   -1,
		outside: outside,
	}
	f.order = []control{f.date, f.kind, f.amount, f.info, f.save}
	return f
}

func (f *form) active() bool { return f.focus >= 0 }

func (f *form) current() control {
	if f.focus < 0 {
		return nil
	}
	return f.order[f.focus]
}

// focusAt moves focus to field i. The interaction is reported to the
// dispatcher so open lists elsewhere close.
func (f *form) focusAt(i int) {
	if c := f.current(); c != nil && c.Focused() {
		c.Blur()
	}
	f.focus = i
	c := f.order[i]
	f.outside.Interact(c.Key())
	c.Focus()
}

// move cycles focus by dir fields.
func (f *form) move(dir int) {
	n := len(f.order)
	i := 0
	if f.focus >= 0 {
		i = ((f.focus+dir)%n + n) % n
	}
	f.focusAt(i)
}

// leave blurs the form and hands focus back to the grid.
func (f *form) leave() {
	if c := f.current(); c != nil && c.Focused() {
		c.Blur()
	}
	f.focus = -1
	f.outside.Interact("")
}

// load writes d into the widgets and returns it as the widgets normalised it.
func (f *form) load(d draft) draft {
	f.date.SetValue(d.Date)
	f.kind.SetValue(d.Kind)
	f.amount.SetValue(d.Amount)
	f.info.SetValue(d.Info)
	d.Date = f.date.Value()
	d.Kind = f.kind.Value()
	d.Amount = f.amount.Value()
	d.Info = f.info.Value()
	return d
}

func (f *form) unmount() {
	for _, c := range f.order {
		c.Unmount()
	}
}
