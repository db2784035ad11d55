package widget

import (
	"unicode"
	"unicode/utf8"
)

// EventKind identifies a widget notification.
type EventKind int

const (
	// EventEdit fires on every accepted change of the displayed value.
	EventEdit EventKind = iota + 1
	// EventCommit fires at most once per blur/enter cycle, and only when the
	// value differs from the last committed baseline.
	EventCommit
	// EventActivate fires when a button is pressed.
	EventActivate
)

func (k EventKind) String() string {
	switch k {
	case EventEdit:
		return "edit"
	case EventCommit:
		return "commit"
	case EventActivate:
		return "activate"
	default:
		return "unknown"
	}
}

// Event is delivered to a Handler.
type Event struct {
	Kind   EventKind
	Widget string
	Value  string
}

// Handler receives widget notifications. It runs on the host's event loop and
// may call back into the widget; value writes made from inside a handler are
// applied after the current event has been fully processed.
type Handler func(Event)

// Key names, spelled the way bubbletea's KeyMsg.String reports them.
const (
	KeyEnter     = "enter"
	KeyEsc       = "esc"
	KeyUp        = "up"
	KeyDown      = "down"
	KeyAltDown   = "alt+down"
	KeyLeft      = "left"
	KeyRight     = "right"
	KeyHome      = "home"
	KeyEnd       = "end"
	KeyBackspace = "backspace"
	KeyDelete    = "delete"
	KeySpace     = " "
)

// runeKey reports the character typed by a key name, if the key is a single
// printable rune. "space" is accepted as an alias for " ".
func runeKey(key string) (rune, bool) {
	if key == "space" {
		return ' ', true
	}
	if utf8.RuneCountInString(key) != 1 {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(key)
	if !unicode.IsPrint(r) {
		return 0, false
	}
	return r, true
}

func isSpaceKey(key string) bool {
	return key == KeySpace || key == "space"
}
