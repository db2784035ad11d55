package widget

// Options carries what the host supplies to every widget at mount time.
type Options struct {
	// ID names the widget in notifications and in the outside-interaction
	// dispatcher. It should be unique among mounted widgets.
	ID          string
	Handler     Handler
	Scheduler   Scheduler
	Dispatcher  *Dispatcher
	Placeholder string
}

func (o Options) scheduler() Scheduler {
	if o.Scheduler == nil {
		return Immediate
	}
	return o.Scheduler
}

func (o Options) dispatcher() *Dispatcher {
	if o.Dispatcher == nil {
		return Outside
	}
	return o.Dispatcher
}
