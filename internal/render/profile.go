package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/devmatch/devmatch/internal/card"
)

var (
	label = color.New(color.FgCyan).SprintFunc()
	value = color.New(color.FgHiWhite).SprintFunc()
	title = color.New(color.FgHiWhite, color.Bold).SprintFunc()
	skill = color.New(color.FgBlack, color.BgHiYellow).SprintFunc()
)

// TerminalWidth returns the width of stdout, or 80 when it is not a terminal
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// Stars draws a rating out of five, rounding to the nearest half
func Stars(rating float64) string {
	halves := int(rating*2 + 0.5)
	if halves < 0 {
		halves = 0
	}
	if halves > 10 {
		halves = 10
	}
	full, half := halves/2, halves%2
	return strings.Repeat("★", full) + strings.Repeat("⯪", half) + strings.Repeat("☆", 5-full-half)
}

// Skills renders skill tags as chips
func Skills(skills []string) string {
	chips := make([]string, 0, len(skills))
	for _, s := range skills {
		chips = append(chips, skill(" "+s+" "))
	}
	return strings.Join(chips, " ")
}

// ProfileLines describes a card, wrapping long text to width
func ProfileLines(c *card.Card, deckName string, width int) []string {
	lines := []string{
		title(c.Name),
		label("Role:    ") + value(c.Job),
		label("Rating:  ") + value(fmt.Sprintf("%s %.1f (%d reviews)", Stars(c.Rating), c.Rating, c.Reviews)),
	}
	if len(c.Skills) > 0 {
		lines = append(lines, label("Skills:  ")+Skills(c.Skills))
	}
	if deckName != "" {
		lines = append(lines, label("Deck:    ")+value(deckName))
	}
	lines = append(lines, label("ID:      ")+value(c.ID))

	if c.HasDetails() {
		lines = append(lines, "")
		lines = append(lines, PortfolioLines(c.Details, width)...)
	}
	return lines
}

// PortfolioLines renders the long-form details of a profile
func PortfolioLines(p *card.Portfolio, width int) []string {
	var lines []string
	section := func(name, text string) {
		if text == "" {
			return
		}
		lines = append(lines, label(name))
		for _, l := range Wrap(text, width) {
			lines = append(lines, "  "+l)
		}
	}

	section("Experience", p.Experience)
	section("Education", p.Education)
	section("Technologies", strings.Join(p.Technologies, ", "))

	if len(p.Projects) > 0 {
		lines = append(lines, label("Projects"))
		for _, proj := range p.Projects {
			lines = append(lines, "  • "+value(proj.Name))
			if proj.Description != "" {
				for _, l := range Wrap(proj.Description, width-4) {
					lines = append(lines, "    "+l)
				}
			}
		}
	}
	return lines
}

// DisplayCard prints a profile with its photo on the left and the
// details on the right
func DisplayCard(w io.Writer, c *card.Card, art, deckName string, width int) {
	artLines := strings.Split(strings.TrimRight(art, "\n"), "\n")
	artWidth := 0
	for _, line := range artLines {
		artWidth = max(artWidth, VisibleWidth(line))
	}

	const spacing = 4
	infoCol := artWidth + spacing
	infoWidth := max(width-infoCol-2, 20)

	info := ProfileLines(c, deckName, infoWidth)

	fmt.Fprintln(w)
	for i := 0; i < max(len(artLines), len(info)); i++ {
		fmt.Fprint(w, "  ")
		if i < len(artLines) {
			fmt.Fprint(w, artLines[i])
			fmt.Fprint(w, strings.Repeat(" ", infoCol-VisibleWidth(artLines[i])))
		} else {
			fmt.Fprint(w, strings.Repeat(" ", infoCol))
		}
		if i < len(info) {
			fmt.Fprint(w, info[i])
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)
}
