package view

import "time"

// Scheduler arms a single callback for the host's next frame. Pan
// animations re-arm themselves tick by tick, so at any moment at most
// one callback is outstanding per State.
type Scheduler interface {
	// Schedule runs fn once, passing the frame's timestamp. The
	// returned cancel drops the callback if it has not run yet.
	Schedule(fn func(now time.Time)) (cancel func())
}

// TickerScheduler schedules frames on wall-clock timers, roughly 60 Hz
// by default. Callbacks run on the timer's goroutine; a host that
// confines its State to one goroutine must provide its own Scheduler.
// The zero value is ready to use.
type TickerScheduler struct {
	// Interval between frames. Zero means 16ms.
	Interval time.Duration
}

func (s TickerScheduler) Schedule(fn func(now time.Time)) (cancel func()) {
	interval := s.Interval
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}
	t := time.AfterFunc(interval, func() { fn(time.Now()) })
	return func() { t.Stop() }
}
