package swipe

import (
	"errors"
)

// ErrInvalidViewport is returned when the injected viewport has no area
var ErrInvalidViewport = errors.New("swipe: viewport width and height must be positive")

// Viewport is the host screen size used to size exit vectors
type Viewport struct {
	Width  float64
	Height float64
}

func (v Viewport) validate() error {
	if v.Width <= 0 || v.Height <= 0 {
		return ErrInvalidViewport
	}
	return nil
}

// ExitVector returns the off-screen offset a card travels to for d
func (v Viewport) ExitVector(d Decision) Offset {
	switch d {
	case Reject:
		return Offset{DX: -v.Width}
	case Accept:
		return Offset{DX: v.Width}
	case SuperAccept:
		return Offset{DY: -v.Height}
	}
	return Rest
}

// Advancer runs exit and snap-back transitions over a deck and its tracker.
// At most one transition is in flight; a generation counter turns the
// completion of an abandoned transition into a no-op.
type Advancer struct {
	deck     *Deck
	tracker  *OffsetTracker
	animator Animator
	viewport Viewport

	inFlight bool
	gen      uint64

	// settled is called after a transition completes with the index of
	// the card the transition started on
	settled func(d Decision, advanced bool, index int)
}

// NewAdvancer wires an advancer to a deck and its offset tracker.
// A nil animator completes transitions immediately.
func NewAdvancer(deck *Deck, tracker *OffsetTracker, animator Animator, vp Viewport) (*Advancer, error) {
	if deck == nil {
		return nil, ErrEmptyDeck
	}
	if err := vp.validate(); err != nil {
		return nil, err
	}
	if tracker == nil {
		tracker = &OffsetTracker{}
	}
	if animator == nil {
		animator = ImmediateAnimator{}
	}
	return &Advancer{
		deck:     deck,
		tracker:  tracker,
		animator: animator,
		viewport: vp,
	}, nil
}

// Tracker returns the offset tracker the advancer drives
func (a *Advancer) Tracker() *OffsetTracker {
	return a.tracker
}

// Busy reports whether an exit or snap-back transition is in flight
func (a *Advancer) Busy() bool {
	return a.inFlight
}

// Advance plays the exit transition for d and, once it completes, resets
// the offset and moves the deck to the next card. It returns false without
// doing anything if a transition is already in flight.
func (a *Advancer) Advance(d Decision) bool {
	if a.inFlight || !d.Valid() {
		return false
	}
	from := a.tracker.Current()
	to := a.viewport.ExitVector(d)
	decided := a.deck.Index()

	a.start(from, to, ExitMotion, func() {
		a.tracker.Reset()
		a.deck.Advance()
		a.finish(d, true, decided)
	})
	return true
}

// ResetToRest springs the offset back to rest without touching the deck.
// It returns false if a transition is already in flight.
func (a *Advancer) ResetToRest() bool {
	if a.inFlight {
		return false
	}
	decided := a.deck.Index()

	a.start(a.tracker.Current(), Rest, RestMotion, func() {
		a.tracker.Reset()
		a.finish(0, false, decided)
	})
	return true
}

// Abandon drops any in-flight transition and forces the offset to rest.
// The deck index is left where it is.
func (a *Advancer) Abandon() {
	a.gen++
	a.animator.Cancel()
	a.inFlight = false
	a.tracker.Reset()
}

func (a *Advancer) start(from, to Offset, m Motion, complete func()) {
	a.inFlight = true
	a.gen++
	gen := a.gen

	a.animator.Animate(from, to, m,
		func(o Offset) {
			if gen == a.gen {
				a.tracker.Update(o.DX, o.DY)
			}
		},
		func() {
			if gen != a.gen {
				return
			}
			a.inFlight = false
			complete()
		},
	)
}

func (a *Advancer) finish(d Decision, advanced bool, decided int) {
	if a.settled != nil {
		a.settled(d, advanced, decided)
	}
}
