package cmd

import (
	"fmt"
	"os"

	"github.com/devmatch/devmatch/internal/validator"
	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Validate a profile deck directory",
	Long: `Validate checks that a deck directory holds a readable deck.toml with
well-formed profiles: required fields, unique ids, ratings between 0 and 5,
at most three skills and existing photos.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deckPath := args[0]

		if _, err := os.Stat(deckPath); os.IsNotExist(err) {
			return fmt.Errorf("deck directory not found: %s", deckPath)
		}

		v := validator.NewValidator(deckPath)
		results, err := v.Validate()
		if err != nil {
			return fmt.Errorf("validation error: %w", err)
		}

		fmt.Println("Validation Results:")
		fmt.Println("-------------------")

		if len(results.Errors) == 0 {
			fmt.Println(colorize.GreenString("✅ Deck '%s' is valid.", deckPath))
		} else {
			fmt.Println(colorize.RedString("❌ Deck '%s' has %d validation errors:", deckPath, len(results.Errors)))
			for i, err := range results.Errors {
				fmt.Printf("%d. %s\n", i+1, err)
			}
		}

		if len(results.Warnings) > 0 {
			fmt.Println(colorize.YellowString("\nWarnings:"))
			for i, warn := range results.Warnings {
				fmt.Printf("%d. %s\n", i+1, warn)
			}
		}

		if len(results.Errors) > 0 {
			return fmt.Errorf("validation failed")
		}
		return nil
	},
}
