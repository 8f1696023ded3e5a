package cmd

import (
	"fmt"
	"image/color"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/devmatch/devmatch/internal/config"
	"github.com/devmatch/devmatch/internal/render"
)

// placeholder shown when a profile photo is missing or unreadable
var placeholder = color.RGBA{R: 0x3b, G: 0x3b, B: 0x98, A: 0xff}

var showCmd = &cobra.Command{
	Use:   "show [profile_id]",
	Short: "Display a developer profile with its photo as ANSI art",
	Long: `Show prints a developer profile: name, role, rating, skills and
portfolio, next to the profile photo rendered as ANSI art.

You can specify a deck using the --deck flag, which will look for the deck
in your deck library (XDG_DATA_HOME/devmatch/decks) or as a relative path.
If no deck is specified, the default deck from your config will be used.

Examples:
  devmatch show alexandre
  devmatch show --deck ./examples/featured-devs carlos`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := loadDeck(cmd)
		if err != nil {
			return err
		}

		c, err := d.GetCard(args[0])
		if err != nil {
			return err
		}

		art, err := render.LoadArt(d.ImagePath(c), config.GetCacheDir())
		if err != nil {
			log.WithError(err).WithField("profile", c.ID).Warn("using placeholder photo")
			art = render.Solid(placeholder, render.ArtWidth, render.ArtHeight)
		}

		render.DisplayCard(os.Stdout, c, art, d.Name, render.TerminalWidth())
		return nil
	},
}

func init() {
	RootCmd.AddCommand(showCmd)

	showCmd.Flags().StringP("deck", "d", "", "Specify a deck from your deck library or a path to a deck")
}

// listCmd prints every profile of a deck in order
var listCmd = &cobra.Command{
	Use:   "ls",
	Short: "List the profiles of a deck",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := loadDeck(cmd)
		if err != nil {
			return err
		}

		fmt.Printf("%s (%d profiles)\n", d.Name, len(d.Cards))
		for i, c := range d.Cards {
			fmt.Printf("%3d. %-14s %-20s %s %.1f\n", i+1, c.ID, c.Name, render.Stars(c.Rating), c.Rating)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(listCmd)

	listCmd.Flags().StringP("deck", "d", "", "Specify a deck from your deck library or a path to a deck")
}
