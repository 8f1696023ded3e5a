package swipe

import (
	"github.com/sirupsen/logrus"

	"github.com/devmatch/devmatch/internal/card"
)

// EventKind tells subscribers which transition settled
type EventKind int

const (
	// Advanced follows a completed exit transition
	Advanced EventKind = iota + 1
	// Rested follows a completed snap-back
	Rested
	// Replaced follows a card sequence replacement
	Replaced
)

func (k EventKind) String() string {
	switch k {
	case Advanced:
		return "advanced"
	case Rested:
		return "rested"
	case Replaced:
		return "replaced"
	}
	return "unknown"
}

// Event is delivered to subscribers after a state change settles
type Event struct {
	Kind     EventKind
	Decision Decision  // set for Advanced
	Card     card.Card // decided card for Advanced, current card otherwise
	Index    int       // deck index after the event
}

// State is a snapshot of everything a host needs to draw the deck
type State struct {
	Card   card.Card
	Index  int
	Len    int
	Offset Offset
	Busy   bool
	Like   float64
	Nope   float64
	Super  float64
}

// Controller owns the swipe deck, its drag offset and the decision logic.
// It is not safe for concurrent use; drive it from a single event loop.
type Controller struct {
	deck     *Deck
	tracker  OffsetTracker
	advancer *Advancer
	animator Animator
	log      logrus.FieldLogger

	subs   []subscriber
	nextID int
}

type subscriber struct {
	id int
	fn func(Event)
}

// Option configures a Controller
type Option func(*Controller)

// WithAnimator sets the animator used for exit and snap-back transitions.
// The default completes transitions immediately.
func WithAnimator(a Animator) Option {
	return func(c *Controller) {
		if a != nil {
			c.animator = a
		}
	}
}

// WithLogger sets the logger for decision and dropped-event diagnostics
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// NewController builds a controller positioned at the first card.
// It fails with ErrEmptyDeck for an empty card sequence and with
// ErrInvalidViewport for a viewport without area.
func NewController(cards []card.Card, vp Viewport, opts ...Option) (*Controller, error) {
	deck, err := NewDeck(cards)
	if err != nil {
		return nil, err
	}

	c := &Controller{
		deck:     deck,
		animator: ImmediateAnimator{},
		log:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}

	adv, err := NewAdvancer(deck, &c.tracker, c.animator, vp)
	if err != nil {
		return nil, err
	}
	adv.settled = c.settled
	c.advancer = adv

	return c, nil
}

// CurrentCard returns the card on top of the deck
func (c *Controller) CurrentCard() card.Card {
	return c.deck.Current()
}

// Index returns the deck position of the current card
func (c *Controller) Index() int {
	return c.deck.Index()
}

// Len returns the number of cards in the deck
func (c *Controller) Len() int {
	return c.deck.Len()
}

// Offset returns the live offset of the top card
func (c *Controller) Offset() Offset {
	return c.tracker.Current()
}

// Busy reports whether a transition is in flight
func (c *Controller) Busy() bool {
	return c.advancer.Busy()
}

// OnDragUpdate records the live drag offset. Updates arriving while a
// transition is in flight belong to a card that is leaving and are dropped;
// the return value reports whether the update was applied.
func (c *Controller) OnDragUpdate(dx, dy float64) bool {
	if c.advancer.Busy() {
		c.log.WithFields(logrus.Fields{"dx": dx, "dy": dy}).Debug("drag update dropped during transition")
		return false
	}
	c.tracker.Update(dx, dy)
	return true
}

// OnDragEnd classifies the final offset of a gesture and starts either the
// exit transition for the decision or a snap-back. It returns the decision
// and true when a threshold was crossed; false means the card snaps back
// or the event was dropped because a transition is in flight.
func (c *Controller) OnDragEnd(dx, dy float64) (Decision, bool) {
	if c.advancer.Busy() {
		c.log.Debug("drag end dropped during transition")
		return 0, false
	}
	c.tracker.Update(dx, dy)

	d, ok := Classify(dx, dy)
	if !ok {
		c.advancer.ResetToRest()
		return 0, false
	}
	c.advancer.Advance(d)
	return d, true
}

// OnDecisionButton applies d as if its button was pressed. Any partial
// drag is discarded and the card always exits by the full exit vector.
// It returns false for an unknown decision or while a transition is in
// flight.
func (c *Controller) OnDecisionButton(d Decision) bool {
	if !d.Valid() {
		c.log.WithField("decision", int(d)).Warn("unknown decision button ignored")
		return false
	}
	if c.advancer.Busy() {
		c.log.WithField("decision", d).Debug("decision button dropped during transition")
		return false
	}
	c.tracker.Reset()
	return c.advancer.Advance(d)
}

// IndicatorOpacity returns how visible the label for d should be, from 0
// at rest to 1 once the drag reaches IndicatorRange toward d.
func (c *Controller) IndicatorOpacity(d Decision) float64 {
	return indicatorOpacity(c.tracker.Current(), d)
}

func indicatorOpacity(o Offset, d Decision) float64 {
	var v float64
	switch d {
	case Accept:
		v = o.DX
	case Reject:
		v = -o.DX
	case SuperAccept:
		v = -o.DY
	default:
		return 0
	}
	return clamp(v/IndicatorRange, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// State returns a snapshot of the controller
func (c *Controller) State() State {
	o := c.tracker.Current()
	return State{
		Card:   c.deck.Current(),
		Index:  c.deck.Index(),
		Len:    c.deck.Len(),
		Offset: o,
		Busy:   c.advancer.Busy(),
		Like:   indicatorOpacity(o, Accept),
		Nope:   indicatorOpacity(o, Reject),
		Super:  indicatorOpacity(o, SuperAccept),
	}
}

// Replace swaps in a new card sequence. A transition in flight is
// abandoned without deciding its card, the offset is forced to rest and
// the index is kept modulo the new length. An empty sequence is rejected
// and leaves the controller unchanged.
func (c *Controller) Replace(cards []card.Card) error {
	next, err := NewDeck(cards)
	if err != nil {
		return err
	}

	if c.advancer.Busy() {
		c.log.WithField("index", c.deck.Index()).Info("transition abandoned by deck replacement")
	}
	c.advancer.Abandon()

	next.index = c.deck.index % next.Len()
	*c.deck = *next

	c.publish(Event{Kind: Replaced, Card: c.deck.Current(), Index: c.deck.Index()})
	return nil
}

// Subscribe registers fn for settled events and returns a func that
// removes it.
func (c *Controller) Subscribe(fn func(Event)) func() {
	c.nextID++
	id := c.nextID
	c.subs = append(c.subs, subscriber{id: id, fn: fn})

	return func() {
		for i, s := range c.subs {
			if s.id == id {
				c.subs = append(c.subs[:i], c.subs[i+1:]...)
				return
			}
		}
	}
}

func (c *Controller) settled(d Decision, advanced bool, index int) {
	if !advanced {
		c.publish(Event{Kind: Rested, Card: c.deck.Current(), Index: c.deck.Index()})
		return
	}

	decided := c.deck.cards[index]
	c.log.WithFields(logrus.Fields{
		"decision": d.String(),
		"profile":  decided.ID,
		"next":     c.deck.Index(),
	}).Debug("card decided")

	c.publish(Event{Kind: Advanced, Decision: d, Card: decided, Index: c.deck.Index()})
}

func (c *Controller) publish(e Event) {
	for _, s := range append([]subscriber(nil), c.subs...) {
		s.fn(e)
	}
}
