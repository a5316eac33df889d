package dom

// Event is a synthetic DOM event.
type Event struct {
	Type    string
	Detail  map[string]any
	Bubbles bool

	target  *Element
	current *Element
	stopped bool
}

// NewCustomEvent builds an event carrying detail.
func NewCustomEvent(typ string, detail map[string]any, bubbles bool) *Event {
	return &Event{Type: typ, Detail: detail, Bubbles: bubbles}
}

// Target is the element the event was dispatched on.
func (ev *Event) Target() *Element { return ev.target }

// CurrentTarget is the element whose listener is running.
func (ev *Event) CurrentTarget() *Element { return ev.current }

// StopPropagation prevents delivery to ancestors.
func (ev *Event) StopPropagation() { ev.stopped = true }

type listener struct {
	fn func(*Event)
}

// AddEventListener registers fn for events of typ on e. The returned
// function removes it.
func (e *Element) AddEventListener(typ string, fn func(*Event)) (remove func()) {
	if e.listeners == nil {
		e.listeners = make(map[string][]*listener)
	}
	l := &listener{fn: fn}
	e.listeners[typ] = append(e.listeners[typ], l)
	return func() {
		list := e.listeners[typ]
		for i, cand := range list {
			if cand == l {
				e.listeners[typ] = append(list[:i:i], list[i+1:]...)
				return
			}
		}
	}
}

// Dispatch delivers ev to e's listeners and, when ev bubbles, to each
// ancestor's in turn until propagation stops. Delivery is synchronous.
func (e *Element) Dispatch(ev *Event) {
	ev.target = e
	for cur := e; cur != nil; cur = cur.Parent() {
		ev.current = cur
		// Copy so listeners may remove themselves.
		list := append([]*listener(nil), cur.listeners[ev.Type]...)
		for _, l := range list {
			l.fn(ev)
		}
		if ev.stopped || !ev.Bubbles {
			break
		}
	}
	ev.current = nil
}
