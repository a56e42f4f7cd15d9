// Package event provides the synchronous publish/subscribe bus that
// decouples the map's view state from its dependents (tile grids,
// overlays). A Bus is confined to one goroutine: the core is
// frame-driven and never fires concurrently.
package event

import (
	"reflect"
	"slices"
	"strings"
)

// Event is the payload delivered to listeners.
type Event struct {
	// Type is the name the event was fired under.
	Type string
	// Target is the emitter that owns the bus.
	Target any
	// Data is whatever the firer attached, possibly nil.
	Data any
}

// Handler consumes one event.
type Handler func(Event)

// Bus dispatches events to listeners registered by type name. Firing
// is synchronous and in registration order; all listeners have run by
// the time Fire returns.
type Bus struct {
	target    any
	listeners map[string][]listener
}

// Listeners are identified by the handler's code pointer plus the
// owner value, so the same method registered by two owners can be
// removed independently.
type listener struct {
	fn    Handler
	key   uintptr
	owner any
}

// NewBus returns a bus whose events carry target as their Target.
func NewBus(target any) *Bus {
	return &Bus{target: target}
}

// On registers fn for each space-separated type name in types.
func (b *Bus) On(types string, fn Handler) {
	b.OnWith(types, fn, nil)
}

// OnWith registers fn under an owner. The (fn, owner) pair is the
// listener's identity for later removal.
func (b *Bus) OnWith(types string, fn Handler, owner any) {
	if fn == nil {
		return
	}
	if b.listeners == nil {
		b.listeners = make(map[string][]listener)
	}
	l := listener{fn: fn, key: reflect.ValueOf(fn).Pointer(), owner: owner}
	for _, typ := range strings.Fields(types) {
		b.listeners[typ] = append(b.listeners[typ], l)
	}
}

// Off removes the listeners registered for the given types with the
// same fn and no owner. A nil fn removes every listener for each type.
func (b *Bus) Off(types string, fn Handler) {
	b.OffWith(types, fn, nil)
}

// OffWith removes the listeners matching (fn, owner) for each type.
func (b *Bus) OffWith(types string, fn Handler, owner any) {
	for _, typ := range strings.Fields(types) {
		if fn == nil {
			delete(b.listeners, typ)
			continue
		}
		key := reflect.ValueOf(fn).Pointer()
		kept := slices.DeleteFunc(b.listeners[typ], func(l listener) bool {
			return l.key == key && l.owner == owner
		})
		if len(kept) == 0 {
			delete(b.listeners, typ)
		} else {
			b.listeners[typ] = kept
		}
	}
}

// OffAll removes every listener for every type.
func (b *Bus) OffAll() {
	b.listeners = nil
}

// Fire invokes the listeners currently registered for typ, in
// registration order. Delivery iterates a snapshot taken when Fire
// starts: listeners added mid-delivery wait for the next firing, and
// listeners removed mid-delivery still see this one.
func (b *Bus) Fire(typ string, data any) {
	current := b.listeners[typ]
	if len(current) == 0 {
		return
	}
	snapshot := slices.Clone(current)

	ev := Event{Type: typ, Target: b.target, Data: data}
	for _, l := range snapshot {
		l.fn(ev)
	}
}

// Listens reports whether any listener is registered for typ.
func (b *Bus) Listens(typ string) bool {
	return len(b.listeners[typ]) > 0
}
