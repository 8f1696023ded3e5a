package swipe

import (
	"fmt"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devmatch/devmatch/internal/card"
)

var phone = Viewport{Width: 390, Height: 844}

func cards(names ...string) []card.Card {
	out := make([]card.Card, 0, len(names))
	for _, n := range names {
		out = append(out, card.Card{ID: n, Name: n})
	}
	return out
}

func quietLogger() logrus.FieldLogger {
	l, _ := test.NewNullLogger()
	return l
}

// fakeClock is advanced by hand in animation tests
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time           { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestClassify(t *testing.T) {
	tests := []struct {
		dx, dy float64
		want   Decision
		ok     bool
	}{
		{121, 0, Accept, true},
		{-121, 0, Reject, true},
		{0, -121, SuperAccept, true},
		{120, 0, 0, false},
		{-120, 0, 0, false},
		{0, -120, 0, false},
		{0, 0, 0, false},
		{0, 500, 0, false},
		{121, -121, Accept, true},
		{-121, -400, Reject, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%g,%g", tt.dx, tt.dy), func(t *testing.T) {
			got, ok := Classify(tt.dx, tt.dy)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDecision(t *testing.T) {
	for in, want := range map[string]Decision{
		"reject": Reject, "NOPE": Reject,
		"accept": Accept, "like": Accept,
		"super-accept": SuperAccept, "super": SuperAccept,
	} {
		got, err := ParseDecision(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseDecision("maybe")
	assert.Error(t, err)
	assert.Equal(t, "SUPER LIKE", SuperAccept.Label())
	assert.False(t, Decision(0).Valid())
}

func TestDeckCycles(t *testing.T) {
	for n := 1; n <= 5; n++ {
		names := make([]string, n)
		for i := range names {
			names[i] = fmt.Sprintf("c%d", i)
		}
		d, err := NewDeck(cards(names...))
		require.NoError(t, err)

		for i := 0; i < n; i++ {
			d.Advance()
		}
		assert.Equal(t, 0, d.Index(), "deck of %d", n)
	}
}

func TestDeckCopiesInput(t *testing.T) {
	in := cards("a", "b")
	d, err := NewDeck(in)
	require.NoError(t, err)

	in[0].Name = "changed"
	assert.Equal(t, "a", d.Current().Name)
}

func TestNewControllerRejectsEmptyDeck(t *testing.T) {
	c, err := NewController(nil, phone)
	assert.ErrorIs(t, err, ErrEmptyDeck)
	assert.Nil(t, c)

	c, err = NewController([]card.Card{}, phone)
	assert.ErrorIs(t, err, ErrEmptyDeck)
	assert.Nil(t, c)
}

func TestNewControllerRejectsBadViewport(t *testing.T) {
	_, err := NewController(cards("a"), Viewport{Width: 0, Height: 800})
	assert.ErrorIs(t, err, ErrInvalidViewport)
}

func TestIndicatorOpacity(t *testing.T) {
	c, err := NewController(cards("a"), phone, WithLogger(quietLogger()))
	require.NoError(t, err)

	c.OnDragUpdate(0, 0)
	assert.Equal(t, 0.0, c.IndicatorOpacity(Accept))

	c.OnDragUpdate(75, 0)
	assert.InDelta(t, 0.5, c.IndicatorOpacity(Accept), 1e-9)
	assert.Equal(t, 0.0, c.IndicatorOpacity(Reject))

	c.OnDragUpdate(150, 0)
	assert.Equal(t, 1.0, c.IndicatorOpacity(Accept))

	c.OnDragUpdate(400, 0)
	assert.Equal(t, 1.0, c.IndicatorOpacity(Accept))

	for _, dx := range []float64{0, -1, -75, -500} {
		c.OnDragUpdate(dx, 0)
		assert.Equal(t, 0.0, c.IndicatorOpacity(Accept), "dx=%g", dx)
	}

	c.OnDragUpdate(-30, 0)
	assert.InDelta(t, 0.2, c.IndicatorOpacity(Reject), 1e-9)

	c.OnDragUpdate(0, -120)
	assert.InDelta(t, 0.8, c.IndicatorOpacity(SuperAccept), 1e-9)
	assert.Equal(t, 0.0, c.IndicatorOpacity(Decision(42)))
}

func TestAdvanceSuperAccept(t *testing.T) {
	deck, err := NewDeck(cards("a", "b", "c"))
	require.NoError(t, err)
	tracker := &OffsetTracker{}
	tracker.Update(10, -60)

	adv, err := NewAdvancer(deck, tracker, nil, phone)
	require.NoError(t, err)

	assert.True(t, adv.Advance(SuperAccept))
	assert.Equal(t, Rest, tracker.Current())
	assert.Equal(t, 1, deck.Index())
	assert.False(t, adv.Busy())
}

func TestResetToRestKeepsIndex(t *testing.T) {
	deck, err := NewDeck(cards("a", "b"))
	require.NoError(t, err)
	tracker := &OffsetTracker{}
	adv, err := NewAdvancer(deck, tracker, nil, phone)
	require.NoError(t, err)

	for _, o := range []Offset{{50, 50}, {-119, 0}, {0, -30}} {
		tracker.Update(o.DX, o.DY)
		assert.True(t, adv.ResetToRest())
		assert.Equal(t, 0, deck.Index())
		assert.Equal(t, Rest, tracker.Current())
	}
}

func TestExitVector(t *testing.T) {
	assert.Equal(t, Offset{DX: -390}, phone.ExitVector(Reject))
	assert.Equal(t, Offset{DX: 390}, phone.ExitVector(Accept))
	assert.Equal(t, Offset{DY: -844}, phone.ExitVector(SuperAccept))
}

func TestEndToEndScenario(t *testing.T) {
	c, err := NewController(cards("A", "B", "C"), phone, WithLogger(quietLogger()))
	require.NoError(t, err)

	var events []Event
	c.Subscribe(func(e Event) { events = append(events, e) })

	assert.True(t, c.OnDragUpdate(200, 0))
	d, ok := c.OnDragEnd(200, 0)
	require.True(t, ok)
	assert.Equal(t, Accept, d)
	assert.Equal(t, "B", c.CurrentCard().Name)
	assert.Equal(t, 1, c.Index())

	assert.True(t, c.OnDecisionButton(Reject))
	assert.Equal(t, "C", c.CurrentCard().Name)
	assert.Equal(t, 2, c.Index())

	assert.True(t, c.OnDragUpdate(50, 50))
	_, ok = c.OnDragEnd(50, 50)
	assert.False(t, ok)
	assert.Equal(t, "C", c.CurrentCard().Name)
	assert.Equal(t, 2, c.Index())
	assert.Equal(t, Rest, c.Offset())

	require.Len(t, events, 3)
	assert.Equal(t, Event{Kind: Advanced, Decision: Accept, Card: card.Card{ID: "A", Name: "A"}, Index: 1}, events[0])
	assert.Equal(t, Event{Kind: Advanced, Decision: Reject, Card: card.Card{ID: "B", Name: "B"}, Index: 2}, events[1])
	assert.Equal(t, Rested, events[2].Kind)
	assert.Equal(t, 2, events[2].Index)
}

func TestFullCycleReturnsToStart(t *testing.T) {
	c, err := NewController(cards("a", "b", "c", "d"), phone, WithLogger(quietLogger()))
	require.NoError(t, err)

	c.OnDragEnd(130, 0)
	c.OnDecisionButton(SuperAccept)
	c.OnDragEnd(0, -200)
	c.OnDragEnd(-300, 10)
	assert.Equal(t, 0, c.Index())
}

func TestButtonUsesFullExitVector(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	anim := NewFrameAnimator(clock.now)
	c, err := NewController(cards("a", "b"), phone, WithAnimator(anim), WithLogger(quietLogger()))
	require.NoError(t, err)

	c.OnDragUpdate(-40, 25)
	require.True(t, c.OnDecisionButton(Accept))

	// partial drag discarded before the exit starts
	assert.Equal(t, Rest, c.Offset())

	clock.advance(150 * time.Millisecond)
	anim.Tick()
	assert.InDelta(t, 195, c.Offset().DX, 1e-9)
	assert.Equal(t, 0.0, c.Offset().DY)

	clock.advance(150 * time.Millisecond)
	assert.False(t, anim.Tick())
	assert.Equal(t, 1, c.Index())
	assert.Equal(t, Rest, c.Offset())
}

func TestEventsDroppedDuringTransition(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	anim := NewFrameAnimator(clock.now)
	c, err := NewController(cards("a", "b", "c"), phone, WithAnimator(anim), WithLogger(quietLogger()))
	require.NoError(t, err)

	c.OnDragUpdate(200, 0)
	_, ok := c.OnDragEnd(200, 0)
	require.True(t, ok)
	require.True(t, c.Busy())

	clock.advance(100 * time.Millisecond)
	anim.Tick()
	mid := c.Offset()

	assert.False(t, c.OnDragUpdate(-10, -10))
	_, ok = c.OnDragEnd(300, 0)
	assert.False(t, ok)
	assert.False(t, c.OnDecisionButton(Reject))
	assert.Equal(t, mid, c.Offset())
	assert.Equal(t, 0, c.Index())

	clock.advance(300 * time.Millisecond)
	anim.Tick()
	assert.False(t, c.Busy())
	assert.Equal(t, 1, c.Index(), "one gesture advances exactly once")
	assert.True(t, c.OnDragUpdate(5, 5))
}

func TestSnapBackAnimates(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	anim := NewFrameAnimator(clock.now)
	c, err := NewController(cards("a", "b"), phone, WithAnimator(anim), WithLogger(quietLogger()))
	require.NoError(t, err)

	c.OnDragUpdate(100, 0)
	_, ok := c.OnDragEnd(100, 0)
	require.False(t, ok)
	assert.True(t, c.Busy())

	for i := 0; i < 40 && anim.Tick(); i++ {
		clock.advance(16 * time.Millisecond)
	}
	assert.False(t, c.Busy())
	assert.Equal(t, Rest, c.Offset())
	assert.Equal(t, 0, c.Index())
}

func TestReplaceAbandonsTransition(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	anim := NewFrameAnimator(clock.now)
	c, err := NewController(cards("a", "b", "c"), phone, WithAnimator(anim), WithLogger(quietLogger()))
	require.NoError(t, err)

	c.OnDecisionButton(Accept)
	c.OnDecisionButton(Accept)
	clock.advance(time.Second)
	anim.Tick()
	require.Equal(t, 1, c.Index())

	c.OnDragEnd(-200, 0)
	clock.advance(100 * time.Millisecond)
	anim.Tick()
	require.True(t, c.Busy())

	var events []Event
	c.Subscribe(func(e Event) { events = append(events, e) })

	require.NoError(t, c.Replace(cards("x", "y")))
	assert.False(t, c.Busy())
	assert.Equal(t, Rest, c.Offset())
	assert.Equal(t, 1, c.Index())
	assert.Equal(t, "y", c.CurrentCard().Name)

	// the abandoned exit never completes
	clock.advance(time.Second)
	assert.False(t, anim.Tick())
	assert.Equal(t, 1, c.Index())
	require.Len(t, events, 1)
	assert.Equal(t, Replaced, events[0].Kind)
}

func TestReplaceRejectsEmpty(t *testing.T) {
	c, err := NewController(cards("a", "b"), phone, WithLogger(quietLogger()))
	require.NoError(t, err)
	c.OnDecisionButton(Accept)

	assert.ErrorIs(t, c.Replace(nil), ErrEmptyDeck)
	assert.Equal(t, 1, c.Index())
	assert.Equal(t, 2, c.Len())
}

func TestUnsubscribe(t *testing.T) {
	c, err := NewController(cards("a", "b"), phone, WithLogger(quietLogger()))
	require.NoError(t, err)

	calls := 0
	cancel := c.Subscribe(func(Event) { calls++ })
	c.OnDecisionButton(Accept)
	cancel()
	c.OnDecisionButton(Accept)
	assert.Equal(t, 1, calls)
}

func TestInvalidButtonIgnored(t *testing.T) {
	c, err := NewController(cards("a", "b"), phone, WithLogger(quietLogger()))
	require.NoError(t, err)
	assert.False(t, c.OnDecisionButton(Decision(9)))
	assert.Equal(t, 0, c.Index())
}

func TestState(t *testing.T) {
	c, err := NewController(cards("a", "b"), phone, WithLogger(quietLogger()))
	require.NoError(t, err)
	c.OnDragUpdate(-150, -75)

	st := c.State()
	assert.Equal(t, "a", st.Card.Name)
	assert.Equal(t, 2, st.Len)
	assert.Equal(t, 1.0, st.Nope)
	assert.Equal(t, 0.0, st.Like)
	assert.InDelta(t, 0.5, st.Super, 1e-9)
	assert.False(t, st.Busy)
}

func TestMotionProgress(t *testing.T) {
	p, done := ExitMotion.Progress(0)
	assert.Equal(t, 0.0, p)
	assert.False(t, done)

	p, _ = ExitMotion.Progress(150 * time.Millisecond)
	assert.InDelta(t, 0.5, p, 1e-9)

	p, done = ExitMotion.Progress(300 * time.Millisecond)
	assert.Equal(t, 1.0, p)
	assert.True(t, done)

	p, done = RestMotion.Progress(10 * time.Second)
	assert.Equal(t, 1.0, p)
	assert.True(t, done)
}
