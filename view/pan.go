package view

import (
	"time"

	"github.com/ElWali/waw/geo"
	"github.com/ElWali/waw/mercator"
)

// PanOptions controls a single pan.
type PanOptions struct {
	// Animate interpolates the pane to its target over Duration
	// instead of jumping there.
	Animate bool
	// Duration of the animation. Zero means the state's default.
	Duration time.Duration
}

// A panAnimation is the one in-flight pan a State may own. Its start
// position is snapshotted from the pane's current rendered position,
// mid-animation included, when a pan replaces another.
type panAnimation struct {
	start     geo.Point
	offset    geo.Point
	duration  time.Duration
	startedAt time.Time
}

// PanBy shifts the view by offset pixels: the pane moves by -offset,
// opposite to the requested viewport shift. Center, zoom and pixel
// origin stay untouched; panning is purely a visual pane transform, and
// the host calls SetView once the interaction settles.
//
// An immediate pan fires MoveEnd before returning. An animated pan
// fires it when the animation reaches its target. Either way a pan
// cancels any animation already in flight: at most one is active,
// last call wins, nothing queues. A cancelled pan fires no MoveEnd.
func (s *State) PanBy(offset geo.Point, opts PanOptions) {
	s.stopPan()

	if !opts.Animate {
		s.pane = s.pane.Sub(offset)
		s.Fire(MoveEnd, nil)
		return
	}

	duration := opts.Duration
	if duration <= 0 {
		duration = s.panDuration
	}
	s.anim = &panAnimation{start: s.pane, offset: offset, duration: duration}
	s.cancelFrame = s.sched.Schedule(s.stepPan)
}

// PanTo pans the view so ll lands on the viewport center.
func (s *State) PanTo(ll geo.LatLng, opts PanOptions) {
	offset := mercator.Project(ll, s.zoom).Sub(mercator.Project(s.center, s.zoom)).Round()
	s.PanBy(offset, opts)
}

// stepPan advances the active animation by one frame. The clock starts
// at the first frame's timestamp, so schedulers with manual clocks
// behave the same as wall-clock ones.
func (s *State) stepPan(now time.Time) {
	a := s.anim
	if a == nil {
		return
	}
	if a.startedAt.IsZero() {
		a.startedAt = now
	}

	t := now.Sub(a.startedAt).Seconds() / a.duration.Seconds()
	t = max(0, min(1, t))
	s.pane = a.start.Sub(a.offset.MulBy(easeOutQuad(t)))

	if t >= 1 {
		s.anim = nil
		s.cancelFrame = nil
		s.Fire(MoveEnd, nil)
		return
	}
	s.cancelFrame = s.sched.Schedule(s.stepPan)
}

func (s *State) stopPan() {
	if s.cancelFrame != nil {
		s.cancelFrame()
		s.cancelFrame = nil
	}
	s.anim = nil
}

// easeOutQuad maps linear time t in [0,1] onto a curve that starts
// fast and settles smoothly.
func easeOutQuad(t float64) float64 {
	return 1 - (1-t)*(1-t)
}
