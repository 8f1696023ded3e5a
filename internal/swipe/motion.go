package swipe

import (
	"math"
	"time"
)

// MotionKind selects the easing curve of a transition
type MotionKind int

const (
	// Timing moves with an ease-in-out curve over a fixed duration
	Timing MotionKind = iota
	// Spring settles with a damped oscillation
	Spring
)

// Motion describes how an offset travels from one value to another
type Motion struct {
	Kind       MotionKind
	Duration   time.Duration
	Bounciness float64
}

const defaultSpringDuration = 500 * time.Millisecond

// ExitMotion carries a decided card off screen
var ExitMotion = Motion{Kind: Timing, Duration: 300 * time.Millisecond}

// RestMotion snaps an undecided card back to its rest pose
var RestMotion = Motion{Kind: Spring, Bounciness: 10}

func (m Motion) duration() time.Duration {
	if m.Duration > 0 {
		return m.Duration
	}
	if m.Kind == Spring {
		return defaultSpringDuration
	}
	return ExitMotion.Duration
}

// Progress returns the eased fraction of the transition after elapsed time
// and whether the transition is finished. A finished transition always
// reports exactly 1.
func (m Motion) Progress(elapsed time.Duration) (float64, bool) {
	total := m.duration()
	if elapsed >= total {
		return 1, true
	}
	if elapsed <= 0 {
		return 0, false
	}

	t := float64(elapsed) / float64(total)
	switch m.Kind {
	case Spring:
		omega := math.Pi * (1.5 + m.Bounciness/10)
		return 1 - math.Exp(-6*t)*math.Cos(omega*t), false
	default:
		return t * t * (3 - 2*t), false
	}
}

// Animator plays offset transitions for the controller.
//
// frame receives intermediate offsets; done is called once when the
// transition reaches its target. Both must be invoked on the host's event
// loop, never concurrently with other controller calls. Starting a new
// transition or calling Cancel drops the previous one without calling its
// done.
type Animator interface {
	Animate(from, to Offset, m Motion, frame func(Offset), done func())
	Cancel()
}

// ImmediateAnimator completes every transition synchronously at its target
type ImmediateAnimator struct{}

func (ImmediateAnimator) Animate(_, to Offset, _ Motion, frame func(Offset), done func()) {
	frame(to)
	done()
}

func (ImmediateAnimator) Cancel() {}

// FrameAnimator advances transitions when the host calls Tick
type FrameAnimator struct {
	now    func() time.Time
	active *animation
}

type animation struct {
	from, to Offset
	motion   Motion
	start    time.Time
	frame    func(Offset)
	done     func()
}

// NewFrameAnimator returns an animator reading time from now.
// A nil now uses time.Now.
func NewFrameAnimator(now func() time.Time) *FrameAnimator {
	if now == nil {
		now = time.Now
	}
	return &FrameAnimator{now: now}
}

func (a *FrameAnimator) Animate(from, to Offset, m Motion, frame func(Offset), done func()) {
	a.active = &animation{
		from:   from,
		to:     to,
		motion: m,
		start:  a.now(),
		frame:  frame,
		done:   done,
	}
}

func (a *FrameAnimator) Cancel() {
	a.active = nil
}

// Busy reports whether a transition is in progress
func (a *FrameAnimator) Busy() bool {
	return a.active != nil
}

// Tick emits the frame for the current time and completes the transition
// once it is finished. It returns true while a transition remains active.
func (a *FrameAnimator) Tick() bool {
	anim := a.active
	if anim == nil {
		return false
	}

	p, finished := anim.motion.Progress(a.now().Sub(anim.start))
	anim.frame(anim.from.Lerp(anim.to, p))
	if !finished {
		return true
	}

	a.active = nil
	anim.done()
	return a.active != nil
}
