package render

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/fatih/color"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/devmatch/devmatch/internal/swipe"
)

const (
	boxWidth = 36
	// rows above the card at rest; dragging up or down moves it within [0, 2*restTop]
	restTop = 4
)

var (
	dim    = colorful.Color{R: 0.23, G: 0.23, B: 0.23}
	tints  = map[swipe.Decision]string{swipe.Reject: "#f44336", swipe.Accept: "#4caf50", swipe.SuperAccept: "#2196f3"}
	border = color.New(color.FgHiBlack).SprintFunc()
	help   = color.New(color.FgHiBlack).SprintFunc()
)

// FrameOptions controls how SwipeFrame lays out the deck
type FrameOptions struct {
	Width     int            // terminal columns
	Viewport  swipe.Viewport // logical screen the offset is measured against
	Portfolio bool           // show the portfolio under the card
	EOL       string         // line terminator, "\r\n" in raw mode
}

// Indicator returns a decision label faded in by opacity. A zero opacity
// yields blanks of the same width so the layout does not move.
func Indicator(d swipe.Decision, opacity float64) string {
	text := "[ " + d.Label() + " ]"
	if opacity <= 0 {
		return strings.Repeat(" ", len(text))
	}
	if color.NoColor {
		return text
	}

	tint, err := colorful.Hex(tints[d])
	if err != nil {
		return text
	}
	r, g, b := dim.BlendRgb(tint, math.Min(opacity, 1)).Clamped().RGB255()
	return fmt.Sprintf("\x1b[1;38;2;%d;%d;%dm%s\x1b[0m", r, g, b, text)
}

// SwipeFrame draws one frame of the deck: the decision indicators, the top
// card displaced by the drag offset and a status line
func SwipeFrame(w io.Writer, st swipe.State, opts FrameOptions) error {
	eol := opts.EOL
	if eol == "" {
		eol = "\n"
	}
	width := opts.Width
	if width <= 0 {
		width = 80
	}

	var lines []string

	// indicators
	lines = append(lines, center(Indicator(swipe.SuperAccept, st.Super), width))
	nope := Indicator(swipe.Reject, st.Nope)
	like := Indicator(swipe.Accept, st.Like)
	gap := max(width-VisibleWidth(nope)-VisibleWidth(like)-4, 1)
	lines = append(lines, "  "+nope+strings.Repeat(" ", gap)+like)

	// card position
	left, top := placement(st.Offset, opts.Viewport, width)
	for i := 0; i < top; i++ {
		lines = append(lines, "")
	}
	pad := strings.Repeat(" ", left)
	for _, l := range cardBox(st) {
		lines = append(lines, pad+l)
	}
	for i := top; i < 2*restTop; i++ {
		lines = append(lines, "")
	}

	lines = append(lines, help(fmt.Sprintf(" %d/%d  ←↑→ drag  enter release  n nope  y like  s super  p portfolio  q quit",
		st.Index+1, st.Len)))

	if opts.Portfolio {
		lines = append(lines, "")
		if st.Card.HasDetails() {
			lines = append(lines, PortfolioLines(st.Card.Details, min(width-2, 72))...)
		} else {
			lines = append(lines, help("No portfolio for this profile."))
		}
	}

	_, err := io.WriteString(w, strings.Join(lines, eol)+eol)
	return err
}

// placement converts an offset into the card's left column and the number
// of blank rows above it
func placement(o swipe.Offset, vp swipe.Viewport, width int) (int, int) {
	rest := max((width-boxWidth)/2, 0)
	dx, dy := 0, 0
	if vp.Width > 0 {
		dx = int(math.Round(o.DX / vp.Width * float64(width) / 2))
	}
	if vp.Height > 0 {
		dy = int(math.Round(o.DY / vp.Height * restTop * 2))
	}

	left := min(max(rest+dx, 0), max(width-boxWidth, 0))
	top := min(max(restTop+dy, 0), 2*restTop)
	return left, top
}

func cardBox(st swipe.State) []string {
	c := st.Card
	inner := boxWidth - 4

	rows := []string{
		title(truncate(c.Name, inner)),
		value(truncate(c.Job, inner)),
		"",
		Skills(c.Skills),
		"",
		fmt.Sprintf("%s %.1f (%d)", Stars(c.Rating), c.Rating, c.Reviews),
	}
	if c.HasDetails() {
		rows = append(rows, help("p: view portfolio"))
	}

	out := []string{border("┌" + strings.Repeat("─", boxWidth-2) + "┐")}
	for _, r := range rows {
		fill := max(inner-VisibleWidth(r), 0)
		out = append(out, border("│")+" "+r+strings.Repeat(" ", fill)+" "+border("│"))
	}
	out = append(out, border("└"+strings.Repeat("─", boxWidth-2)+"┘"))
	return out
}

func center(s string, width int) string {
	return strings.Repeat(" ", max((width-VisibleWidth(s))/2, 0)) + s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
