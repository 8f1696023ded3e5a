package cmd

import (
	"fmt"
	"strings"
	"time"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/devmatch/devmatch/internal/config"
	"github.com/devmatch/devmatch/internal/pokedex"
	"github.com/devmatch/devmatch/internal/render"
)

var pokedexCmd = &cobra.Command{
	Use:   "pokedex",
	Short: "Browse Pokémon from PokeAPI",
}

var pokedexShowCmd = &cobra.Command{
	Use:   "show [name|id]",
	Short: "Show a Pokémon with its stats and evolutions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		shiny, _ := cmd.Flags().GetBool("shiny")

		entry, err := pokedex.New(cfg.PokeAPIURL, cfg.RequestTimeout()).Lookup(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		p, s := entry.Pokemon, entry.Species
		fmt.Println(colorize.New(colorize.FgHiWhite, colorize.Bold).Sprintf("#%d - %s", p.ID, strings.ToUpper(p.Name)))
		fmt.Println(colorize.CyanString("Sprite:      ") + p.Sprite(shiny))
		fmt.Println(colorize.CyanString("Type:        ") + strings.Join(p.TypeNames(), ", "))
		fmt.Println(colorize.CyanString("Generation:  ") + s.Generation.Name)

		gender := "male/female"
		if s.Genderless() {
			gender = "genderless"
		}
		fmt.Println(colorize.CyanString("Gender:      ") + gender)

		if desc := s.Description(); desc != "" {
			fmt.Println(colorize.CyanString("\nDescription"))
			for _, l := range render.Wrap(desc, min(render.TerminalWidth()-2, 72)) {
				fmt.Println("  " + l)
			}
		}

		fmt.Println(colorize.CyanString("\nStats"))
		for _, st := range p.Stats {
			fmt.Printf("  %-16s %3d %s\n", strings.ToUpper(st.Stat.Name)+":", st.BaseStat, strings.Repeat("▇", st.BaseStat/10))
		}

		fmt.Println(colorize.CyanString("\nEvolutions"))
		if len(entry.Evolutions) == 0 {
			fmt.Println("  none could be loaded")
		}
		for _, evo := range entry.Evolutions {
			fmt.Printf("  #%-4d %s\n", evo.ID, evo.Name)
		}
		return nil
	},
}

var pokedexListCmd = &cobra.Command{
	Use:   "ls",
	Short: "List Pokémon with their ids",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")

		client := pokedex.New(cfg.PokeAPIURL, cfg.RequestTimeout())
		start := time.Now()
		list, err := client.List(cmd.Context(), limit)
		if err != nil {
			return err
		}

		const columns = 3
		for i, p := range list {
			fmt.Printf("%4d - %-18s", p.ID, p.Name)
			if (i+1)%columns == 0 || i == len(list)-1 {
				fmt.Println()
			}
		}
		fmt.Println(colorize.HiBlackString("%d loaded in %s", len(list), time.Since(start).Round(time.Millisecond)))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(pokedexCmd)
	pokedexCmd.AddCommand(pokedexShowCmd, pokedexListCmd)

	pokedexShowCmd.Flags().Bool("shiny", false, "Show the shiny sprite")
	pokedexListCmd.Flags().Int("limit", pokedex.DefaultListLimit, "How many Pokémon to list")
}
