package widget

import (
	"strings"
	"unicode"
)

// Text is a single-line free text editor.
type Text struct {
	*Sync
	runes   []rune
	caret   int
	focused bool
}

// NewText mounts a text editor.
func NewText(opts Options) *Text {
	t := &Text{}
	t.Sync = newSync(opts.ID, t, opts.Handler)
	t.SetPlaceholder(opts.Placeholder)
	return t
}

func (t *Text) displayValue() string { return string(t.runes) }

func (t *Text) setDisplayValue(v string) {
	t.runes = []rune(v)
	t.caret = min(t.caret, len(t.runes))
}

func (t *Text) hasFocus() bool { return t.focused }

func (t *Text) setDisabled(bool) {}

// sanitize drops line breaks and other control characters.
func (t *Text) sanitize(v string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, v)
}

// Caret returns the caret offset in runes.
func (t *Text) Caret() int { return t.caret }

func (t *Text) Focus() {
	if t.inert() || t.focused {
		return
	}
	t.focused = true
	t.caret = len(t.runes)
}

// Blur drops focus and runs the commit check.
func (t *Text) Blur() {
	if !t.focused {
		return
	}
	t.focused = false
	t.begin()
	defer t.end()
	t.commit()
}

// Escape reverts to the baseline and drops focus.
func (t *Text) Escape() {
	if t.unmounted {
		return
	}
	t.begin()
	t.revert()
	t.end()
	t.Blur()
}

func (t *Text) Unmount() {
	t.focused = false
	t.unmounted = true
}

// Input replaces the content; caret is the caret offset after the edit.
func (t *Text) Input(text string, caret int) {
	if t.inert() || !t.focused {
		return
	}
	t.begin()
	defer t.end()
	t.edited(edit{
		raw:   text,
		caret: caret,
		clean: t.sanitize,
		apply: func(clean string, caret int) {
			t.runes = []rune(clean)
			t.caret = caret
		},
	})
}

// HandleKey applies one key press at the caret.
func (t *Text) HandleKey(key string) bool {
	if t.unmounted {
		return false
	}
	if key == KeyEsc {
		t.Escape()
		return true
	}
	if t.Disabled() || !t.focused {
		return false
	}
	cur := t.runes
	if r, ok := runeKey(key); ok {
		next := make([]rune, 0, len(cur)+1)
		next = append(next, cur[:t.caret]...)
		next = append(next, r)
		next = append(next, cur[t.caret:]...)
		t.Input(string(next), t.caret+1)
		return true
	}
	switch key {
	case KeyLeft:
		t.caret = max(t.caret-1, 0)
	case KeyRight:
		t.caret = min(t.caret+1, len(cur))
	case KeyHome:
		t.caret = 0
	case KeyEnd:
		t.caret = len(cur)
	case KeyBackspace:
		if t.caret > 0 {
			t.Input(string(cur[:t.caret-1])+string(cur[t.caret:]), t.caret-1)
		}
	case KeyDelete:
		if t.caret < len(cur) {
			t.Input(string(cur[:t.caret])+string(cur[t.caret+1:]), t.caret)
		}
	case KeyEnter:
		t.Blur()
	default:
		return false
	}
	return true
}
