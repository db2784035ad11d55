package widget

// Button fires EventActivate when pressed. It holds no value; its label is
// exposed through Value so hosts can render it like the other widgets.
type Button struct {
	*Sync
	label   string
	focused bool
}

// NewButton mounts a button with the given label.
func NewButton(label string, opts Options) *Button {
	b := &Button{label: label}
	b.Sync = newSync(opts.ID, b, opts.Handler)
	b.baseline = label
	return b
}

func (b *Button) displayValue() string     { return b.label }
func (b *Button) setDisplayValue(v string) { b.label = v }
func (b *Button) hasFocus() bool           { return b.focused }
func (b *Button) setDisabled(bool)         {}
func (b *Button) sanitize(v string) string { return v }

// Label returns the button caption.
func (b *Button) Label() string { return b.label }

func (b *Button) Focus() {
	if !b.inert() {
		b.focused = true
	}
}

func (b *Button) Blur() { b.focused = false }

func (b *Button) Unmount() {
	b.focused = false
	b.unmounted = true
}

// Click activates the button.
func (b *Button) Click() { b.Activate() }

// Activate emits EventActivate unless the button is disabled.
func (b *Button) Activate() {
	if b.inert() {
		return
	}
	b.emit(EventActivate, b.label)
}

// HandleKey activates on space or enter.
func (b *Button) HandleKey(key string) bool {
	if b.inert() {
		return false
	}
	if isSpaceKey(key) || key == KeyEnter {
		b.Activate()
		return true
	}
	return false
}
