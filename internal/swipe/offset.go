package swipe

// Offset is the displacement of the top card from its rest pose
type Offset struct {
	DX float64
	DY float64
}

// Rest is the zero offset
var Rest = Offset{}

// Lerp interpolates between o and to by fraction t. t is not clamped so
// spring overshoot can be expressed.
func (o Offset) Lerp(to Offset, t float64) Offset {
	return Offset{
		DX: o.DX + (to.DX-o.DX)*t,
		DY: o.DY + (to.DY-o.DY)*t,
	}
}

// OffsetTracker holds the live drag offset of the current card
type OffsetTracker struct {
	cur Offset
}

// Update overwrites the current offset
func (t *OffsetTracker) Update(dx, dy float64) {
	t.cur = Offset{DX: dx, DY: dy}
}

// Reset returns the offset to rest
func (t *OffsetTracker) Reset() {
	t.cur = Rest
}

// Current returns the latest offset
func (t *OffsetTracker) Current() Offset {
	return t.cur
}
