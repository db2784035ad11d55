package widget

import (
	"encoding/json"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Option is one entry of a selector list.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// UnmarshalJSON accepts "text" as an alias for "label" and numeric values.
func (o *Option) UnmarshalJSON(data []byte) error {
	var raw struct {
		Value json.RawMessage `json:"value"`
		Label *string         `json:"label"`
		Text  *string         `json:"text"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	o.Value = rawScalar(raw.Value)
	switch {
	case raw.Label != nil:
		o.Label = *raw.Label
	case raw.Text != nil:
		o.Label = *raw.Text
	default:
		o.Label = o.Value
	}
	return nil
}

func rawScalar(m json.RawMessage) string {
	if len(m) == 0 || string(m) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(m, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(m))
}

// ParseOptions decodes a JSON option list. Malformed input yields no options.
func ParseOptions(raw string) []Option {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []Option
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}

// Selector is a filterable single-choice list. Its canonical value is the
// value of the chosen option.
type Selector struct {
	*Sync
	options  []Option
	filtered []Option
	// highlight indexes filtered, or is -1.
	highlight int
	open      bool
	text      string
	value     string
	focused   bool

	sched      Scheduler
	outside    *Dispatcher
	closeTimer Timer
}

// NewSelector mounts a selector over options.
func NewSelector(options []Option, opts Options) *Selector {
	s := &Selector{
		highlight: -1,
		sched:     opts.scheduler(),
		outside:   opts.dispatcher(),
	}
	s.Sync = newSync(opts.ID, s, opts.Handler)
	s.SetPlaceholder(opts.Placeholder)
	s.setOptions(options)
	return s
}

func (s *Selector) displayValue() string { return s.value }

func (s *Selector) setDisplayValue(v string) {
	s.value = v
	s.text = s.labelOf(v)
}

func (s *Selector) hasFocus() bool { return s.focused }

func (s *Selector) setDisabled(disabled bool) {
	if disabled {
		s.close()
	}
}

func (s *Selector) sanitize(v string) string { return strings.TrimSpace(v) }

// PlaceholderVisible reports whether the input box is empty and a placeholder
// is configured.
func (s *Selector) PlaceholderVisible() bool {
	return s.Placeholder() != "" && s.text == ""
}

func (s *Selector) labelOf(v string) string {
	for _, o := range s.options {
		if o.Value == v {
			return o.Label
		}
	}
	return ""
}

// SetOptions replaces the option list and re-syncs the displayed label of the
// current value.
func (s *Selector) SetOptions(options []Option) {
	s.setOptions(options)
	s.text = s.labelOf(s.value)
}

// SetOptionsJSON replaces the option list from JSON; see ParseOptions.
func (s *Selector) SetOptionsJSON(raw string) {
	s.SetOptions(ParseOptions(raw))
}

func (s *Selector) setOptions(options []Option) {
	s.options = append([]Option(nil), options...)
	s.filtered = append([]Option(nil), s.options...)
	s.highlight = -1
}

// Options returns the full option list.
func (s *Selector) Options() []Option { return s.options }

// Filtered returns the options matching the current filter text.
func (s *Selector) Filtered() []Option { return s.filtered }

// Highlight returns the highlighted index into Filtered, or -1.
func (s *Selector) Highlight() int { return s.highlight }

// FilterText returns the text shown in the input box.
func (s *Selector) FilterText() string { return s.text }

// Open reports whether the list is shown.
func (s *Selector) Open() bool { return s.open }

// SelectedIndex returns the index of the current value in Filtered, or -1.
func (s *Selector) SelectedIndex() int {
	for i, o := range s.filtered {
		if o.Value == s.value {
			return i
		}
	}
	return -1
}

// Suggestion returns the option label closest to the filter text when the
// filter matches nothing, or "".
func (s *Selector) Suggestion() string {
	if len(s.filtered) > 0 || s.text == "" || len(s.options) == 0 {
		return ""
	}
	needle := strings.ToLower(s.text)
	best, bestDist := "", -1
	for _, o := range s.options {
		d := levenshtein.ComputeDistance(needle, strings.ToLower(o.Label))
		if bestDist < 0 || d < bestDist {
			best, bestDist = o.Label, d
		}
	}
	return best
}

// Focus gives input focus to the selector and cancels a pending close.
func (s *Selector) Focus() {
	if s.inert() {
		return
	}
	s.cancelClose()
	s.focused = true
}

// Blur runs the commit check and closes the list after CloseGrace unless
// focus came back in the meantime.
func (s *Selector) Blur() {
	if !s.focused {
		return
	}
	s.focused = false
	s.begin()
	s.commit()
	s.end()
	if !s.open {
		return
	}
	s.cancelClose()
	ran := false
	t := s.sched.AfterFunc(CloseGrace, func() {
		ran = true
		s.closeTimer = nil
		if !s.focused {
			s.close()
		}
	})
	if !ran {
		s.closeTimer = t
	}
}

// Unmount closes the list, deregisters from the dispatcher and cancels
// timers.
func (s *Selector) Unmount() {
	s.cancelClose()
	s.close()
	s.focused = false
	s.unmounted = true
}

// Input replaces the filter text, as typing into the input box does. The
// list is filtered but neither opened nor committed.
func (s *Selector) Input(text string) {
	if s.inert() {
		return
	}
	s.text = text
	s.refilter()
}

func (s *Selector) refilter() {
	needle := strings.ToLower(s.text)
	s.filtered = s.filtered[:0:0]
	for _, o := range s.options {
		if strings.Contains(strings.ToLower(o.Label), needle) {
			s.filtered = append(s.filtered, o)
		}
	}
	s.autoHighlight()
}

func (s *Selector) autoHighlight() {
	if len(s.filtered) == 1 {
		s.highlight = 0
	} else {
		s.highlight = -1
	}
}

// ToggleButton is a press on the dropdown button: it focuses the selector
// and opens or closes the list.
func (s *Selector) ToggleButton() {
	if s.inert() {
		return
	}
	s.Focus()
	s.toggle()
}

// Click chooses the i-th filtered option, as a pointer press on it does.
func (s *Selector) Click(i int) {
	if s.inert() || i < 0 || i >= len(s.filtered) {
		return
	}
	s.choose(s.filtered[i])
}

// HandleKey processes one key press and reports whether it was consumed.
func (s *Selector) HandleKey(key string) bool {
	if s.inert() {
		return false
	}
	switch key {
	case KeyAltDown:
		s.toggle()
	case KeyDown:
		s.navigate(1)
	case KeyUp:
		s.navigate(-1)
	case KeyEnter:
		if s.open {
			if s.highlight >= 0 {
				s.choose(s.filtered[s.highlight])
			}
			return true
		}
		s.Blur()
	case KeyEsc:
		if s.open {
			s.close()
			return true
		}
		s.begin()
		s.revert()
		s.text = s.labelOf(s.value)
		s.filtered = append([]Option(nil), s.options...)
		s.highlight = -1
		s.end()
		s.Blur()
	case KeyBackspace:
		if s.text == "" {
			return true
		}
		r := []rune(s.text)
		s.Input(string(r[:len(r)-1]))
	default:
		r, ok := runeKey(key)
		if !ok {
			return false
		}
		s.Input(s.text + string(r))
	}
	return true
}

func (s *Selector) navigate(dir int) {
	if !s.open {
		s.show()
		return
	}
	n := len(s.filtered)
	if n == 0 {
		s.highlight = -1
		return
	}
	s.highlight += dir
	if s.highlight < 0 {
		s.highlight = n - 1
	} else if s.highlight >= n {
		s.highlight = 0
	}
}

func (s *Selector) toggle() {
	if s.open {
		s.close()
	} else {
		s.show()
	}
}

func (s *Selector) show() {
	s.open = true
	s.autoHighlight()
	s.outside.Register(s.key, s.close)
}

func (s *Selector) close() {
	s.highlight = -1
	if !s.open {
		return
	}
	s.open = false
	s.outside.Deregister(s.key)
}

func (s *Selector) cancelClose() {
	if s.closeTimer != nil {
		s.closeTimer.Stop()
		s.closeTimer = nil
	}
}

// choose makes o the value, resets the filter and closes the list, emitting
// edit and then the commit check.
func (s *Selector) choose(o Option) {
	s.begin()
	defer s.end()
	s.filtered = append([]Option(nil), s.options...)
	s.close()
	s.edited(edit{
		raw:   o.Value,
		clean: s.sanitize,
		apply: func(v string, _ int) {
			s.value = v
			s.text = o.Label
		},
	})
	s.commit()
}
