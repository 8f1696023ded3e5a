package swipe

import (
	"fmt"
	"strconv"
	"strings"
)

// StepKind is the kind of a scripted UI event
type StepKind int

const (
	StepDrag StepKind = iota + 1
	StepEnd
	StepButton
)

// Step is one scripted UI event
type Step struct {
	Kind     StepKind
	DX, DY   float64
	Decision Decision

	// End steps without coordinates release at the live offset
	atOffset bool
}

func (s Step) String() string {
	switch s.Kind {
	case StepDrag:
		return fmt.Sprintf("drag %g %g", s.DX, s.DY)
	case StepEnd:
		if s.atOffset {
			return "end"
		}
		return fmt.Sprintf("end %g %g", s.DX, s.DY)
	case StepButton:
		return "button " + s.Decision.String()
	}
	return "?"
}

// ParseScript parses steps separated by ';' or newlines:
//
//	drag <dx> <dy>    move the card
//	end [<dx> <dy>]   release, at the given offset or where the card is
//	button <decision> press reject, accept or super-accept
func ParseScript(script string) ([]Step, error) {
	var steps []Step

	fields := strings.FieldsFunc(script, func(r rune) bool { return r == ';' || r == '\n' })
	for i, raw := range fields {
		words := strings.Fields(raw)
		if len(words) == 0 {
			continue
		}

		step, err := parseStep(words)
		if err != nil {
			return nil, fmt.Errorf("step %d (%q): %w", i+1, strings.TrimSpace(raw), err)
		}
		steps = append(steps, step)
	}
	return steps, nil
}

func parseStep(words []string) (Step, error) {
	switch strings.ToLower(words[0]) {
	case "drag":
		if len(words) != 3 {
			return Step{}, fmt.Errorf("drag needs dx and dy")
		}
		dx, dy, err := parsePair(words[1], words[2])
		if err != nil {
			return Step{}, err
		}
		return Step{Kind: StepDrag, DX: dx, DY: dy}, nil

	case "end", "release":
		switch len(words) {
		case 1:
			return Step{Kind: StepEnd, atOffset: true}, nil
		case 3:
			dx, dy, err := parsePair(words[1], words[2])
			if err != nil {
				return Step{}, err
			}
			return Step{Kind: StepEnd, DX: dx, DY: dy}, nil
		}
		return Step{}, fmt.Errorf("end takes no arguments or dx and dy")

	case "button", "press":
		if len(words) != 2 {
			return Step{}, fmt.Errorf("button needs a decision")
		}
		d, err := ParseDecision(words[1])
		if err != nil {
			return Step{}, err
		}
		return Step{Kind: StepButton, Decision: d}, nil
	}
	return Step{}, fmt.Errorf("unknown step %q", words[0])
}

func parsePair(a, b string) (float64, float64, error) {
	x, err := strconv.ParseFloat(a, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid number %q", a)
	}
	y, err := strconv.ParseFloat(b, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid number %q", b)
	}
	return x, y, nil
}

// Apply feeds one step through the controller's public event methods and
// reports whether it was accepted. An end step that snaps back counts as
// accepted.
func (c *Controller) Apply(s Step) bool {
	switch s.Kind {
	case StepDrag:
		return c.OnDragUpdate(s.DX, s.DY)
	case StepEnd:
		if c.Busy() {
			return false
		}
		dx, dy := s.DX, s.DY
		if s.atOffset {
			o := c.Offset()
			dx, dy = o.DX, o.DY
		}
		c.OnDragEnd(dx, dy)
		return true
	case StepButton:
		return c.OnDecisionButton(s.Decision)
	}
	return false
}

// Run applies steps in order and returns how many were accepted
func (c *Controller) Run(steps []Step) int {
	applied := 0
	for _, s := range steps {
		if c.Apply(s) {
			applied++
		}
	}
	return applied
}
