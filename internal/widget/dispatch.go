package widget

import "sync"

// Dispatcher fans "interaction happened elsewhere" signals out to the open
// selectors that registered for them. Selectors register when their list
// opens and deregister when it closes or the widget unmounts.
type Dispatcher struct {
	mu        sync.Mutex
	order     []string
	listeners map[string]func()
}

// Outside is the process-wide dispatcher used when a widget is built without
// one.
var Outside = NewDispatcher()

func NewDispatcher() *Dispatcher {
	return &Dispatcher{listeners: make(map[string]func())}
}

// Register installs fn under id, replacing any previous registration.
func (d *Dispatcher) Register(id string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.listeners[id]; !ok {
		d.order = append(d.order, id)
	}
	d.listeners[id] = fn
}

// Deregister removes id. Removing an unknown id is a no-op.
func (d *Dispatcher) Deregister(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.listeners[id]; !ok {
		return
	}
	delete(d.listeners, id)
	for i, other := range d.order {
		if other == id {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
}

// registered reports whether id currently listens.
func (d *Dispatcher) registered(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.listeners[id]
	return ok
}

// Len returns the number of registered listeners.
func (d *Dispatcher) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.listeners)
}

// Interact notifies every listener except owner, the widget the interaction
// landed on ("" when it landed outside all widgets). Listeners may deregister
// themselves while being notified.
func (d *Dispatcher) Interact(owner string) {
	d.mu.Lock()
	fns := make([]func(), 0, len(d.order))
	for _, id := range d.order {
		if id == owner {
			continue
		}
		fns = append(fns, d.listeners[id])
	}
	d.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}
