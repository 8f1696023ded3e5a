package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	colorize "github.com/fatih/color"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/devmatch/devmatch/internal/card"
	"github.com/devmatch/devmatch/internal/config"
	"github.com/devmatch/devmatch/internal/deck"
	"github.com/devmatch/devmatch/internal/render"
	"github.com/devmatch/devmatch/internal/swipe"
)

const (
	// dragStep is how far one key press moves the card, in viewport units
	dragStep  = 30.0
	frameRate = 16 * time.Millisecond

	hideCursor  = "\x1b[?25l"
	showCursor  = "\x1b[?25h"
	clearScreen = "\x1b[H\x1b[2J"
)

var swipeCmd = &cobra.Command{
	Use:   "swipe",
	Short: "Swipe through the profiles of a deck",
	Long: `Swipe shows the profiles of a deck one at a time.

Keys:
  ←/h →/l ↑/k ↓/j   drag the card
  enter             release the card (past 120 units it is decided)
  n / y / s         nope / like / super like
  p                 toggle the portfolio
  r                 reload the deck from disk
  q                 quit

With --script the deck is driven by a list of steps instead of the keyboard,
separated by ';' or newlines ('@file' reads them from a file):
  drag <dx> <dy>    move the card to an offset
  end [<dx> <dy>]   release the card, at the current offset by default
  button <name>     press nope, like or super`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		d, err := loadDeck(cmd)
		if err != nil {
			return err
		}
		vp := swipe.Viewport{Width: cfg.Viewport.Width, Height: cfg.Viewport.Height}

		script, _ := cmd.Flags().GetString("script")
		if script != "" {
			steps, err := readScript(script)
			if err != nil {
				return err
			}
			t, err := runScript(os.Stdout, d.Cards, vp, steps)
			if err != nil {
				return err
			}
			t.print(os.Stdout)
			return nil
		}

		reload := func() ([]card.Card, error) {
			fresh, err := deck.LoadDeck(d.Path)
			if err != nil {
				return nil, err
			}
			return fresh.Cards, nil
		}

		t, err := runInteractive(d.Cards, vp, reload)
		if err != nil {
			return err
		}
		t.print(os.Stdout)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(swipeCmd)

	swipeCmd.Flags().StringP("deck", "d", "", "Specify a deck from your deck library or a path to a deck")
	swipeCmd.Flags().String("script", "", "Drive the deck with scripted steps instead of the keyboard")
}

// tally collects the decided profiles for the exit summary
type tally struct {
	liked, superLiked, rejected []string
}

func (t *tally) record(e swipe.Event) {
	if e.Kind != swipe.Advanced {
		return
	}
	switch e.Decision {
	case swipe.Accept:
		t.liked = append(t.liked, e.Card.Name)
	case swipe.SuperAccept:
		t.superLiked = append(t.superLiked, e.Card.Name)
	case swipe.Reject:
		t.rejected = append(t.rejected, e.Card.Name)
	}
}

func (t *tally) print(w io.Writer) {
	if len(t.liked)+len(t.superLiked)+len(t.rejected) == 0 {
		fmt.Fprintln(w, "No profiles decided.")
		return
	}

	section := func(name string, c *colorize.Color, names []string) {
		if len(names) == 0 {
			return
		}
		fmt.Fprintf(w, "%s (%d): %s\n", c.Sprint(name), len(names), strings.Join(names, ", "))
	}
	section("Super liked", colorize.New(colorize.FgBlue, colorize.Bold), t.superLiked)
	section("Liked", colorize.New(colorize.FgGreen, colorize.Bold), t.liked)
	section("Rejected", colorize.New(colorize.FgRed), t.rejected)
}

func readScript(arg string) ([]swipe.Step, error) {
	if path, ok := strings.CutPrefix(arg, "@"); ok {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("error reading script: %w", err)
		}
		arg = string(data)
	}
	return swipe.ParseScript(arg)
}

// runScript applies steps to a fresh controller, printing each step and
// every settled transition
func runScript(w io.Writer, cards []card.Card, vp swipe.Viewport, steps []swipe.Step) (*tally, error) {
	ctrl, err := swipe.NewController(cards, vp, swipe.WithLogger(log.StandardLogger()))
	if err != nil {
		return nil, err
	}

	t := &tally{}
	ctrl.Subscribe(t.record)
	ctrl.Subscribe(func(e swipe.Event) {
		if e.Kind == swipe.Advanced {
			fmt.Fprintf(w, "  %s %s -> next %s\n", e.Decision.Label(), e.Card.Name, ctrl.CurrentCard().Name)
		}
	})

	fmt.Fprintf(w, "Showing %s (1/%d)\n", ctrl.CurrentCard().Name, ctrl.Len())
	for _, s := range steps {
		if !ctrl.Apply(s) {
			fmt.Fprintf(w, "%s: ignored\n", s)
			continue
		}
		fmt.Fprintf(w, "%s\n", s)
	}

	st := ctrl.State()
	fmt.Fprintf(w, "Now showing %s (%d/%d)\n\n", st.Card.Name, st.Index+1, st.Len)
	return t, nil
}

// runInteractive drives the deck from the keyboard in raw mode until the
// user quits or stdin closes. reload supplies fresh cards for the r key.
func runInteractive(cards []card.Card, vp swipe.Viewport, reload func() ([]card.Card, error)) (*tally, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("interactive mode needs a terminal; use --script")
	}

	anim := swipe.NewFrameAnimator(nil)
	ctrl, err := swipe.NewController(cards, vp, swipe.WithAnimator(anim), swipe.WithLogger(log.StandardLogger()))
	if err != nil {
		return nil, err
	}
	t := &tally{}
	ctrl.Subscribe(t.record)

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("error switching the terminal to raw mode: %w", err)
	}
	out := bufio.NewWriter(os.Stdout)
	defer func() {
		fmt.Fprint(out, clearScreen, showCursor)
		out.Flush()
		term.Restore(fd, oldState)
	}()
	fmt.Fprint(out, hideCursor)

	keys := make(chan []key)
	go readKeys(os.Stdin, keys)

	ticker := time.NewTicker(frameRate)
	defer ticker.Stop()

	portfolio := false
	dirty := true
	for {
		if dirty {
			width, _, err := term.GetSize(int(os.Stdout.Fd()))
			if err != nil {
				width = 80
			}
			fmt.Fprint(out, clearScreen)
			render.SwipeFrame(out, ctrl.State(), render.FrameOptions{
				Width:     width,
				Viewport:  vp,
				Portfolio: portfolio,
				EOL:       "\r\n",
			})
			out.Flush()
			dirty = false
		}

		select {
		case ks, ok := <-keys:
			if !ok {
				return t, nil
			}
			for _, k := range ks {
				if k == keyQuit {
					return t, nil
				}
				switch k {
				case keyPortfolio:
					portfolio = !portfolio
				case keyReload:
					replaceCards(ctrl, reload)
				default:
					press(ctrl, k)
				}
			}
			dirty = true
		case <-ticker.C:
			if anim.Busy() {
				anim.Tick()
				dirty = true
			}
		}
	}
}

// replaceCards swaps in freshly loaded cards, keeping the current ones on failure
func replaceCards(ctrl *swipe.Controller, reload func() ([]card.Card, error)) {
	cards, err := reload()
	if err == nil {
		err = ctrl.Replace(cards)
	}
	if err != nil {
		log.WithError(err).Warn("deck reload failed")
		return
	}
	log.WithField("profiles", ctrl.Len()).Info("deck reloaded")
}

// press maps a key to a controller event
func press(ctrl *swipe.Controller, k key) {
	o := ctrl.Offset()
	switch k {
	case keyLeft:
		ctrl.OnDragUpdate(o.DX-dragStep, o.DY)
	case keyRight:
		ctrl.OnDragUpdate(o.DX+dragStep, o.DY)
	case keyUp:
		ctrl.OnDragUpdate(o.DX, o.DY-dragStep)
	case keyDown:
		ctrl.OnDragUpdate(o.DX, o.DY+dragStep)
	case keyEnter:
		ctrl.OnDragEnd(o.DX, o.DY)
	case keyNope:
		ctrl.OnDecisionButton(swipe.Reject)
	case keyLike:
		ctrl.OnDecisionButton(swipe.Accept)
	case keySuper:
		ctrl.OnDecisionButton(swipe.SuperAccept)
	}
}

type key int

const (
	keyLeft key = iota + 1
	keyRight
	keyUp
	keyDown
	keyEnter
	keyNope
	keyLike
	keySuper
	keyPortfolio
	keyReload
	keyQuit
)

func readKeys(r io.Reader, keys chan<- []key) {
	defer close(keys)
	buf := make([]byte, 64)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if ks := parseKeys(buf[:n]); len(ks) > 0 {
				keys <- ks
			}
		}
		if err != nil {
			return
		}
	}
}

// parseKeys decodes raw terminal input. Unknown bytes are skipped.
func parseKeys(b []byte) []key {
	var keys []key
	for i := 0; i < len(b); i++ {
		switch c := b[i]; c {
		case 0x1b:
			// CSI or SS3 arrow: ESC [ A or ESC O A
			if i+2 < len(b) && (b[i+1] == '[' || b[i+1] == 'O') {
				if k, ok := arrows[b[i+2]]; ok {
					keys = append(keys, k)
				}
				i += 2
				continue
			}
			// a lone escape quits
			if i+1 == len(b) {
				keys = append(keys, keyQuit)
			}
		case '\r', '\n':
			keys = append(keys, keyEnter)
		case 3: // ctrl-c
			keys = append(keys, keyQuit)
		default:
			if k, ok := letters[c]; ok {
				keys = append(keys, k)
			}
		}
	}
	return keys
}

var arrows = map[byte]key{'A': keyUp, 'B': keyDown, 'C': keyRight, 'D': keyLeft}

var letters = map[byte]key{
	'h': keyLeft, 'l': keyRight, 'k': keyUp, 'j': keyDown,
	'n': keyNope, 'y': keyLike, 's': keySuper,
	'p': keyPortfolio, 'r': keyReload, 'q': keyQuit,
}
