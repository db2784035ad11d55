package widget

// Boolean is a two-state toggle with canonical value "true" or "false".
type Boolean struct {
	*Sync
	on      bool
	focused bool
}

// NewBoolean mounts a toggle reading its initial value loosely (ParseBool).
func NewBoolean(value string, opts Options) *Boolean {
	b := &Boolean{}
	b.Sync = newSync(opts.ID, b, opts.Handler)
	b.SetPlaceholder(opts.Placeholder)
	b.on = ParseBool(value)
	b.baseline = b.Value()
	return b
}

func (b *Boolean) displayValue() string { return FormatBool(b.on) }

func (b *Boolean) setDisplayValue(v string) { b.on = ParseBool(v) }

func (b *Boolean) hasFocus() bool { return b.focused }

func (b *Boolean) setDisabled(bool) {}

func (b *Boolean) sanitize(v string) string { return FormatBool(ParseBool(v)) }

// Checked reports the displayed state.
func (b *Boolean) Checked() bool { return b.on }

// Focus gives input focus to the toggle.
func (b *Boolean) Focus() {
	if !b.inert() {
		b.focused = true
	}
}

// Blur drops focus and runs the commit check.
func (b *Boolean) Blur() {
	if !b.focused {
		return
	}
	b.focused = false
	b.begin()
	defer b.end()
	b.commit()
}

// Click flips the value, as a pointer press does.
func (b *Boolean) Click() {
	if b.inert() {
		return
	}
	b.toggle()
}

// Unmount stops accepting input.
func (b *Boolean) Unmount() {
	b.focused = false
	b.unmounted = true
}

// HandleKey toggles on space, enter or any printable rune; esc reverts.
func (b *Boolean) HandleKey(key string) bool {
	if b.inert() {
		return false
	}
	if key == KeyEsc {
		b.begin()
		b.revert()
		b.end()
		b.Blur()
		return true
	}
	if _, ok := runeKey(key); ok || key == KeyEnter {
		b.toggle()
		return true
	}
	return false
}

func (b *Boolean) toggle() {
	b.begin()
	defer b.end()
	b.on = !b.on
	b.emitEdit()
}
