package collection

import "sync"

// EventKind names a lifecycle notification.
type EventKind string

const (
	EventGroupRowAddStart    EventKind = "group_row_add_start"
	EventRowAdded            EventKind = "row_added"
	EventRemoveGroupRowStart EventKind = "remove_group_row_start"
	EventRowRemoved          EventKind = "row_removed"
	EventReorderEnter        EventKind = "reorder_enter"
	EventReorderStarted      EventKind = "reorder_started"
	EventReorderCompleted    EventKind = "reorder_completed"
)

// Event is delivered to listeners. Row is the added row, the row being
// removed or the shifted row; Target is the shift sibling.
type Event struct {
	Kind       EventKind
	Collection string
	Row        *Row
	Target     *Row
	Index      int
	Direction  Direction
}

// Listener receives events synchronously, in subscription order.
type Listener func(Event)

type subscription struct {
	id int
	fn Listener
}

// Bus dispatches events to listeners. The zero value is ready to use.
type Bus struct {
	mu        sync.RWMutex
	next      int
	listeners map[EventKind][]subscription
}

// On subscribes fn to kind and returns a function that unsubscribes it.
func (b *Bus) On(kind EventKind, fn Listener) func() {
	if b == nil || fn == nil {
		return func() {}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.listeners == nil {
		b.listeners = make(map[EventKind][]subscription)
	}
	b.next++
	id := b.next
	b.listeners[kind] = append(b.listeners[kind], subscription{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() { b.off(kind, id) })
	}
}

func (b *Bus) off(kind EventKind, id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.listeners[kind]
	for i, s := range subs {
		if s.id == id {
			b.listeners[kind] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Emit delivers ev to the listeners registered for ev.Kind. Listeners may
// subscribe or unsubscribe while being called.
func (b *Bus) Emit(ev Event) {
	if b == nil {
		return
	}
	b.mu.RLock()
	subs := append([]subscription(nil), b.listeners[ev.Kind]...)
	b.mu.RUnlock()
	for _, s := range subs {
		s.fn(ev)
	}
}
