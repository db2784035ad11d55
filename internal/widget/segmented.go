package widget

import "strings"

// field is the live state of one editable segment. Text is always sanitized,
// which keeps it ASCII, so byte offsets double as caret positions.
type field struct {
	kind   SegmentKind
	maxLen int
	text   string
}

// segmentCodec supplies the per-kind rules of a segmented value.
type segmentCodec interface {
	// compose builds the canonical value from the segments, or "" when the
	// segments do not hold a complete value.
	compose(fs []*field) string
	// decompose writes v into the segments. Unparsable values leave them as
	// they are; "" clears them.
	decompose(v string, fs []*field)
	// sanitizeField cleans raw text typed into segment i.
	sanitizeField(fs []*field, i int, raw string) string
	// keep filters raw text the way sanitizeField does, without clamping,
	// and is used to restore the caret after a rewrite.
	keep(kind SegmentKind, raw string) string
	// revalidate re-clamps segments that depend on segment i.
	revalidate(fs []*field, i int)
	// normalize maps any text to the nearest canonical value.
	normalize(v string) string
}

// Segmented edits a value split into segments separated by literals, such as
// a date or a decimal number. Only the first segment is reachable by external
// focus; the others are reached through caret navigation, literal typing and
// auto-advance.
type Segmented struct {
	*Sync
	codec  segmentCodec
	spec   FormatSpec
	fields []*field
	focus  int
	caret  int

	sched       Scheduler
	advance     Timer
	advanceFrom int
}

func newSegmented(codec segmentCodec, spec FormatSpec, opts Options) *Segmented {
	s := &Segmented{codec: codec, focus: -1, sched: opts.scheduler()}
	s.Sync = newSync(opts.ID, s, opts.Handler)
	s.SetPlaceholder(opts.Placeholder)
	s.build(spec)
	return s
}

func (s *Segmented) build(spec FormatSpec) {
	s.spec = spec
	segs := spec.Segments()
	s.fields = make([]*field, 0, len(segs))
	for _, t := range segs {
		s.fields = append(s.fields, &field{kind: t.Kind, maxLen: t.MaxLength})
	}
}

// rebuild tears the segments down, lays out spec and re-applies prev.
func (s *Segmented) rebuild(spec FormatSpec, prev string) {
	focused := s.focus >= 0
	s.cancelAdvance()
	s.build(spec)
	s.focus, s.caret = -1, 0
	if prev != "" {
		s.codec.decompose(prev, s.fields)
	}
	if focused && len(s.fields) > 0 {
		s.focusField(0, len(s.fields[0].text))
	}
}

func (s *Segmented) displayValue() string { return s.codec.compose(s.fields) }

func (s *Segmented) setDisplayValue(v string) {
	s.codec.decompose(v, s.fields)
	if s.focus >= 0 {
		s.caret = min(s.caret, len(s.fields[s.focus].text))
	}
}

func (s *Segmented) hasFocus() bool { return s.focus >= 0 }

func (s *Segmented) setDisabled(disabled bool) {
	if disabled {
		s.cancelAdvance()
	}
}

func (s *Segmented) sanitize(v string) string { return s.codec.normalize(v) }

// PlaceholderVisible reports whether every segment is empty and a
// placeholder is configured.
func (s *Segmented) PlaceholderVisible() bool {
	if s.Placeholder() == "" {
		return false
	}
	for _, f := range s.fields {
		if f.text != "" {
			return false
		}
	}
	return true
}

// Format returns the current layout.
func (s *Segmented) Format() FormatSpec { return s.spec }

// FocusIndex returns the segment holding input focus, or -1.
func (s *Segmented) FocusIndex() int { return s.focus }

// Caret returns the caret offset inside the focused segment.
func (s *Segmented) Caret() int { return s.caret }

// SegmentText returns the text of segment i, or "" when out of range.
func (s *Segmented) SegmentText(i int) string {
	if i < 0 || i >= len(s.fields) {
		return ""
	}
	return s.fields[i].text
}

// SegmentView is the projection of one token for rendering.
type SegmentView struct {
	Literal   string
	Kind      SegmentKind
	MaxLength int
	Text      string
	Focused   bool
	Caret     int
	// Tabbable is true only for the first segment of an enabled editor.
	Tabbable bool
}

// Segments projects literals and segments in layout order.
func (s *Segmented) Segments() []SegmentView {
	out := make([]SegmentView, 0, len(s.spec))
	n := 0
	for _, t := range s.spec {
		if t.IsLiteral() {
			out = append(out, SegmentView{Literal: t.Literal})
			continue
		}
		f := s.fields[n]
		v := SegmentView{
			Kind:      f.kind,
			MaxLength: f.maxLen,
			Text:      f.text,
			Focused:   s.focus == n,
			Tabbable:  n == 0 && !s.Disabled(),
		}
		if v.Focused {
			v.Caret = s.caret
		}
		out = append(out, v)
		n++
	}
	return out
}

// Focus gives input focus to the first segment, the only external tab stop.
func (s *Segmented) Focus() {
	if s.inert() || len(s.fields) == 0 || s.focus >= 0 {
		return
	}
	s.focusField(0, len(s.fields[0].text))
}

// FocusSegment focuses segment i directly, as a pointer press on it does.
func (s *Segmented) FocusSegment(i int) {
	if s.inert() || i < 0 || i >= len(s.fields) {
		return
	}
	s.cancelAdvance()
	s.focusField(i, len(s.fields[i].text))
}

// Blur drops input focus and runs the commit check.
func (s *Segmented) Blur() {
	if s.focus < 0 {
		return
	}
	s.cancelAdvance()
	s.focus, s.caret = -1, 0
	s.begin()
	defer s.end()
	s.commit()
}

// Escape reverts to the committed baseline and drops focus.
func (s *Segmented) Escape() {
	if s.unmounted {
		return
	}
	s.cancelAdvance()
	s.begin()
	s.revert()
	s.end()
	s.Blur()
}

// Unmount cancels pending callbacks and stops accepting input.
func (s *Segmented) Unmount() {
	s.cancelAdvance()
	s.focus, s.caret = -1, 0
	s.unmounted = true
}

// Input applies a raw edit of the focused segment: text is its new content
// and caret the caret offset after the edit, in runes.
func (s *Segmented) Input(text string, caret int) {
	if s.inert() || s.focus < 0 {
		return
	}
	s.cancelAdvance()
	s.input(text, caret)
}

// Paste inserts text at the caret of the focused segment.
func (s *Segmented) Paste(text string) {
	if s.inert() || s.focus < 0 {
		return
	}
	s.cancelAdvance()
	cur := s.fields[s.focus].text
	s.input(cur[:s.caret]+text+cur[s.caret:], s.caret+len([]rune(text)))
}

// HandleKey processes one key press and reports whether it was consumed.
func (s *Segmented) HandleKey(key string) bool {
	if s.unmounted {
		return false
	}
	if key == KeyEsc {
		s.Escape()
		return true
	}
	if s.Disabled() || s.focus < 0 {
		return false
	}
	if r, ok := runeKey(key); ok {
		s.typeRune(r)
		return true
	}
	s.cancelAdvance()
	i := s.focus
	text := s.fields[i].text
	last := len(s.fields) - 1
	switch key {
	case KeyLeft:
		if s.caret > 0 {
			s.caret--
		} else if i > 0 {
			s.focusField(i-1, len(s.fields[i-1].text))
		}
	case KeyRight:
		if s.caret < len(text) {
			s.caret++
		} else if i < last {
			s.focusField(i+1, 0)
		}
	case KeyHome:
		s.focusField(0, 0)
	case KeyEnd:
		s.focusField(last, len(s.fields[last].text))
	case KeyBackspace:
		s.backspace()
	case KeyDelete:
		s.deleteForward()
	case KeyEnter:
		s.Blur()
	default:
		return false
	}
	return true
}

func (s *Segmented) typeRune(r rune) {
	if s.advance != nil {
		from := s.advanceFrom
		s.flushAdvance()
		// A literal typed right after a segment filled up is absorbed by
		// the jump it would have caused.
		if s.literalFollows(from, r) {
			return
		}
	}
	i := s.focus
	text := s.fields[i].text
	if text != "" && i < len(s.fields)-1 && s.literalFollows(i, r) {
		s.focusField(i+1, 0)
		return
	}
	next := text[:s.caret] + string(r) + text[s.caret:]
	if s.codec.sanitizeField(s.fields, i, next) == text {
		return
	}
	s.input(next, s.caret+1)
}

func (s *Segmented) literalFollows(i int, r rune) bool {
	lit := s.spec.literalAfter(i)
	return lit != "" && strings.HasPrefix(lit, string(r))
}

// backspace deletes before the caret; at the start of a segment it moves to
// the previous segment and deletes that segment's last character.
func (s *Segmented) backspace() {
	i := s.focus
	text := s.fields[i].text
	if s.caret > 0 {
		s.input(text[:s.caret-1]+text[s.caret:], s.caret-1)
		return
	}
	if i == 0 {
		return
	}
	prev := s.fields[i-1].text
	s.focusField(i-1, len(prev))
	if prev != "" {
		s.input(prev[:len(prev)-1], len(prev)-1)
	}
}

// deleteForward deletes after the caret; at the end of a segment it moves to
// the next segment and deletes that segment's first character.
func (s *Segmented) deleteForward() {
	i := s.focus
	text := s.fields[i].text
	if s.caret < len(text) {
		s.input(text[:s.caret]+text[s.caret+1:], s.caret)
		return
	}
	if i == len(s.fields)-1 {
		return
	}
	next := s.fields[i+1].text
	s.focusField(i+1, 0)
	if next != "" {
		s.input(next[1:], 0)
	}
}

// input runs an edit of the focused segment through the shared pipeline. The
// codec supplies the per-segment sanitizer; writing back re-clamps dependent
// segments and schedules auto-advance.
func (s *Segmented) input(text string, caret int) {
	s.begin()
	defer s.end()

	i := s.focus
	f := s.fields[i]
	s.edited(edit{
		raw:   text,
		caret: caret,
		clean: func(raw string) string { return s.codec.sanitizeField(s.fields, i, raw) },
		keep:  func(raw string) string { return s.codec.keep(f.kind, raw) },
		apply: func(clean string, caret int) {
			f.text = clean
			s.caret = caret
			s.codec.revalidate(s.fields, i)
			if f.maxLen > 0 && len(clean) == f.maxLen && caret == len(clean) && i < len(s.fields)-1 {
				s.scheduleAdvance(i)
			}
		},
	})
}

func (s *Segmented) scheduleAdvance(i int) {
	ran := false
	s.advanceFrom = i
	t := s.sched.AfterFunc(AdvanceDelay, func() {
		ran = true
		s.advance = nil
		s.advanceTo(i)
	})
	if !ran {
		s.advance = t
	}
}

func (s *Segmented) advanceTo(from int) {
	if s.unmounted || s.focus != from || from+1 >= len(s.fields) {
		return
	}
	s.focusField(from+1, 0)
}

func (s *Segmented) cancelAdvance() {
	if s.advance != nil {
		s.advance.Stop()
		s.advance = nil
	}
}

// flushAdvance runs a pending auto-advance now instead of waiting for it.
func (s *Segmented) flushAdvance() {
	t := s.advance
	s.advance = nil
	if t != nil && t.Stop() {
		s.advanceTo(s.advanceFrom)
	}
}

func (s *Segmented) focusField(i, caret int) {
	s.focus = i
	s.caret = clampInt(caret, 0, len(s.fields[i].text))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
