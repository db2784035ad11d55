package widget

import "github.com/google/uuid"

// editor is the capability each widget kind provides to the shared contract.
type editor interface {
	// displayValue reads what the widget currently shows, in canonical form.
	displayValue() string
	// setDisplayValue overwrites what the widget shows.
	setDisplayValue(v string)
	hasFocus() bool
	setDisabled(disabled bool)
	// sanitize maps arbitrary text to the nearest valid canonical value.
	sanitize(v string) string
}

// Sync reconciles an externally owned canonical value with the value a widget
// displays, tracks the last committed baseline and emits Edit and Commit
// notifications. Every widget embeds one.
type Sync struct {
	id string
	// key identifies the widget in the dispatcher. It is the ID when one was
	// given and a generated one otherwise, so "" always means "outside".
	key         string
	ed          editor
	handler     Handler
	baseline    string
	placeholder string
	disabled    bool
	unmounted   bool

	// busy is set while a local edit is being processed; external writes that
	// arrive meanwhile are queued and applied afterwards.
	busy   bool
	queued []string
}

func newSync(id string, ed editor, h Handler) *Sync {
	key := id
	if key == "" {
		key = uuid.NewString()
	}
	return &Sync{id: id, key: key, ed: ed, handler: h}
}

// ID returns the widget identifier used in notifications.
func (s *Sync) ID() string { return s.id }

// Key returns the name the widget uses with a Dispatcher. Hosts pass it to
// Interact when an interaction lands on this widget.
func (s *Sync) Key() string { return s.key }

// Value returns the current canonical value, always in sanitized form.
func (s *Sync) Value() string {
	return s.ed.sanitize(s.ed.displayValue())
}

// Baseline returns the last committed value.
func (s *Sync) Baseline() string { return s.baseline }

// SetValue writes the canonical value from outside. The display is
// overwritten whenever it differs, even while the widget holds focus; the
// committed baseline only follows when the widget is not focused, so a later
// blur does not report the external write as a user change.
func (s *Sync) SetValue(v string) {
	if s.busy {
		s.queued = append(s.queued, v)
		return
	}
	s.apply(v)
}

func (s *Sync) apply(v string) {
	if s.ed.displayValue() == v {
		return
	}
	s.ed.setDisplayValue(v)
	if !s.ed.hasFocus() {
		s.baseline = s.Value()
	}
}

// SetDisabled blocks or restores interaction without touching the value.
func (s *Sync) SetDisabled(disabled bool) {
	s.disabled = disabled
	s.ed.setDisabled(disabled)
}

// Disabled reports whether interaction is blocked.
func (s *Sync) Disabled() bool { return s.disabled }

// SetPlaceholder sets the hint shown while the value is empty.
func (s *Sync) SetPlaceholder(p string) { s.placeholder = p }

// Placeholder returns the configured hint.
func (s *Sync) Placeholder() string { return s.placeholder }

// PlaceholderVisible reports whether the host should draw the placeholder.
func (s *Sync) PlaceholderVisible() bool {
	return s.placeholder != "" && s.ed.displayValue() == ""
}

// Focused reports whether the widget holds input focus.
func (s *Sync) Focused() bool { return s.ed.hasFocus() }

// inert reports whether input events must be ignored.
func (s *Sync) inert() bool { return s.disabled || s.unmounted }

// begin and end bracket the processing of one local event.
func (s *Sync) begin() { s.busy = true }

func (s *Sync) end() {
	s.busy = false
	for len(s.queued) > 0 {
		v := s.queued[0]
		s.queued = s.queued[1:]
		s.apply(v)
	}
}

// edit is one local change travelling through the shared pipeline.
type edit struct {
	raw string
	// caret is the caret offset in raw, in runes.
	caret int
	clean func(string) string
	// keep filters the text left of the caret the way clean does, without
	// clamping. Nil means clean.
	keep func(string) string
	// apply writes the clean text and restored caret back into the widget.
	apply func(text string, caret int)
}

// edited runs a local edit through the pipeline: sanitize, restore the caret
// when sanitizing rewrote the text, write back and emit an Edit notification.
func (s *Sync) edited(e edit) string {
	clean := e.clean(e.raw)
	caret := e.caret
	if clean != e.raw {
		keep := e.keep
		if keep == nil {
			keep = e.clean
		}
		runes := []rune(e.raw)
		caret = clampInt(caret, 0, len(runes))
		caret = len([]rune(keep(string(runes[:caret]))))
	}
	e.apply(clean, clampInt(caret, 0, len([]rune(clean))))
	s.emitEdit()
	return clean
}

func (s *Sync) emitEdit() {
	s.emit(EventEdit, s.Value())
}

// commit promotes the current value to the baseline when it changed.
func (s *Sync) commit() bool {
	v := s.Value()
	if v == s.baseline {
		return false
	}
	s.baseline = v
	s.emit(EventCommit, v)
	return true
}

// revert restores the last committed value without notifying.
func (s *Sync) revert() {
	if s.ed.displayValue() != s.baseline {
		s.ed.setDisplayValue(s.baseline)
	}
}

func (s *Sync) emit(kind EventKind, v string) {
	if s.handler == nil {
		return
	}
	s.handler(Event{Kind: kind, Widget: s.id, Value: v})
}
