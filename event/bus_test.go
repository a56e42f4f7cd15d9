package event_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ElWali/waw/event"
)

func TestFireDeliversEvent(t *testing.T) {
	target := "the-map"
	b := event.NewBus(target)

	var got event.Event
	b.On("moveend", func(ev event.Event) { got = ev })
	b.Fire("moveend", 42)

	want := event.Event{Type: "moveend", Target: target, Data: 42}
	if got != want {
		t.Errorf("Fire delivered %+v, want %+v", got, want)
	}
}

func TestOnSpaceSeparatedTypes(t *testing.T) {
	b := event.NewBus(nil)

	var got []string
	b.On("movestart move moveend", func(ev event.Event) {
		got = append(got, ev.Type)
	})
	b.Fire("movestart", nil)
	b.Fire("move", nil)
	b.Fire("moveend", nil)
	b.Fire("zoomend", nil) // not registered

	want := []string{"movestart", "move", "moveend"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("fired types mismatch (-want+got):\n%s", diff)
	}
}

func TestFireRegistrationOrder(t *testing.T) {
	b := event.NewBus(nil)

	var got []string
	for _, name := range []string{"a", "b", "c"} {
		b.On("tick", func(event.Event) { got = append(got, name) })
	}
	b.Fire("tick", nil)

	want := []string{"a", "b", "c"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("delivery order mismatch (-want+got):\n%s", diff)
	}
}

type recorder struct {
	fired int
}

func (r *recorder) record(event.Event) { r.fired++ }

func TestOffWithDistinguishesOwners(t *testing.T) {
	// Method values of the same method share a code pointer, so the
	// owner is what tells two registrations apart.
	b := event.NewBus(nil)
	r1, r2 := &recorder{}, &recorder{}
	b.OnWith("load", r1.record, r1)
	b.OnWith("load", r2.record, r2)

	b.OffWith("load", r1.record, r1)
	b.Fire("load", nil)

	if r1.fired != 0 {
		t.Errorf("removed listener fired %d times, want 0", r1.fired)
	}
	if r2.fired != 1 {
		t.Errorf("remaining listener fired %d times, want 1", r2.fired)
	}
}

func TestOffNilHandlerClearsType(t *testing.T) {
	b := event.NewBus(nil)
	r1, r2 := &recorder{}, &recorder{}
	b.OnWith("load tileload", r1.record, r1)
	b.OnWith("load", r2.record, r2)

	b.Off("load", nil)

	if b.Listens("load") {
		t.Error("Listens(load) = true after Off with nil handler, want false")
	}
	if !b.Listens("tileload") {
		t.Error("Listens(tileload) = false, want true")
	}
}

func TestOffAll(t *testing.T) {
	b := event.NewBus(nil)
	r := &recorder{}
	b.OnWith("load move zoom", r.record, r)

	b.OffAll()
	b.Fire("load", nil)
	b.Fire("move", nil)

	if r.fired != 0 {
		t.Errorf("listener fired %d times after OffAll, want 0", r.fired)
	}
}

func TestFireIteratesSnapshot(t *testing.T) {
	b := event.NewBus(nil)

	// A listener that unregisters itself mid-delivery is still
	// invoked for the firing that removed it.
	var got []string
	var first event.Handler
	first = func(event.Event) {
		got = append(got, "first")
		b.Off("tick", first)
	}
	b.On("tick", first)
	b.On("tick", func(event.Event) { got = append(got, "second") })

	b.Fire("tick", nil)
	b.Fire("tick", nil)

	want := []string{"first", "second", "second"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("delivery mismatch (-want+got):\n%s", diff)
	}
}

func TestListenerAddedDuringFireWaits(t *testing.T) {
	b := event.NewBus(nil)

	var got []string
	b.On("tick", func(event.Event) {
		got = append(got, "outer")
		b.On("tick", func(event.Event) { got = append(got, "inner") })
	})

	b.Fire("tick", nil)
	if diff := cmp.Diff([]string{"outer"}, got); diff != "" {
		t.Errorf("first firing mismatch (-want+got):\n%s", diff)
	}

	b.Fire("tick", nil)
	want := []string{"outer", "outer", "inner"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("second firing mismatch (-want+got):\n%s", diff)
	}
}

func TestListens(t *testing.T) {
	b := event.NewBus(nil)
	if b.Listens("move") {
		t.Error("Listens(move) = true on empty bus, want false")
	}
	r := &recorder{}
	b.OnWith("move", r.record, r)
	if !b.Listens("move") {
		t.Error("Listens(move) = false after On, want true")
	}
	b.OffWith("move", r.record, r)
	if b.Listens("move") {
		t.Error("Listens(move) = true after Off, want false")
	}
}
