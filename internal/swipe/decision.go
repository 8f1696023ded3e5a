package swipe

import (
	"fmt"
	"strings"
)

// Decision is the outcome of a swipe gesture or a decision button
type Decision int

const (
	Reject Decision = iota + 1
	Accept
	SuperAccept
)

// Threshold is the drag distance a gesture must strictly exceed to count as a decision
const Threshold = 120.0

// IndicatorRange is the drag distance at which a decision label is fully opaque
const IndicatorRange = 150.0

// Decisions lists every decision in button order (left to right)
var Decisions = []Decision{Reject, SuperAccept, Accept}

func (d Decision) String() string {
	switch d {
	case Reject:
		return "reject"
	case Accept:
		return "accept"
	case SuperAccept:
		return "super-accept"
	default:
		return fmt.Sprintf("Decision(%d)", int(d))
	}
}

// Label returns the text shown on the card while dragging toward d
func (d Decision) Label() string {
	switch d {
	case Reject:
		return "NOPE"
	case Accept:
		return "LIKE"
	case SuperAccept:
		return "SUPER LIKE"
	default:
		return ""
	}
}

// Valid reports whether d is one of the three known decisions
func (d Decision) Valid() bool {
	return d >= Reject && d <= SuperAccept
}

// ParseDecision accepts the decision names plus the label-style aliases
func ParseDecision(s string) (Decision, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "reject", "nope", "left":
		return Reject, nil
	case "accept", "like", "right":
		return Accept, nil
	case "super-accept", "superaccept", "super", "super-like", "up":
		return SuperAccept, nil
	}
	return 0, fmt.Errorf("unknown decision: %q", s)
}

// Classify maps the final drag offset of a gesture to a decision.
// Horizontal thresholds win over the vertical one. The bool is false when
// no threshold was crossed and the card should snap back.
func Classify(dx, dy float64) (Decision, bool) {
	switch {
	case dx > Threshold:
		return Accept, true
	case dx < -Threshold:
		return Reject, true
	case dy < -Threshold:
		return SuperAccept, true
	}
	return 0, false
}
