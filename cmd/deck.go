package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/devmatch/devmatch/internal/config"
	"github.com/devmatch/devmatch/internal/deck"
	"github.com/spf13/cobra"
)

// deckCmd represents the deck command group
var deckCmd = &cobra.Command{
	Use:   "deck",
	Short: "Manage profile decks in your deck library",
	Long:  `Commands for managing the developer profile decks in your deck library.`,
}

// deckListCmd represents the deck list command
var deckListCmd = &cobra.Command{
	Use:   "ls",
	Short: "List available decks in your deck library",
	Run: func(cmd *cobra.Command, args []string) {
		libraryPath := config.GetDeckLibraryPath()

		// Check if deck library exists
		if _, err := os.Stat(libraryPath); os.IsNotExist(err) {
			fmt.Printf("Deck library at %s does not exist.\n", libraryPath)
			fmt.Println("Run 'devmatch deck init' to create it.")
			return
		}

		libraryPath, err := filepath.EvalSymlinks(libraryPath)
		if err != nil {
			fmt.Printf("Error resolving symbolic link: %v\n", err)
			return
		}

		defaultDeck, err := config.GetDefaultDeck()
		if err != nil {
			fmt.Printf("Error getting default deck: %v\n", err)
			return
		}

		entries, err := os.ReadDir(libraryPath)
		if err != nil {
			fmt.Printf("Error reading deck library: %v\n", err)
			return
		}

		if len(entries) == 0 {
			fmt.Println("No decks found in your deck library.")
			fmt.Println("You can add decks by copying them to:", libraryPath)
			return
		}

		for _, entry := range entries {
			// Follow symlinked decks
			entryPath := filepath.Join(libraryPath, entry.Name())
			fileInfo, err := os.Stat(entryPath)
			if err != nil {
				fmt.Printf("Error resolving entry %s: %v\n", entry.Name(), err)
				continue
			}
			if !fileInfo.IsDir() {
				continue
			}

			d, err := deck.LoadDeck(entryPath)
			if err != nil {
				// Not a valid deck, skip
				continue
			}

			marker, suffix := " ", ""
			if entry.Name() == defaultDeck {
				marker, suffix = "*", " [DEFAULT]"
			}
			fmt.Printf("%s %s (%s, %d profiles)%s\n", marker, entry.Name(), d.Name, len(d.Cards), suffix)
		}
	},
}

// deckSetDefaultCmd represents the deck set-default command
var deckSetDefaultCmd = &cobra.Command{
	Use:   "set-default [deck_name]",
	Short: "Set the default deck",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deckName := args[0]

		deckPath, err := config.GetDeckPath(deckName)
		if err != nil {
			return err
		}

		// Make sure it loads before pointing the config at it
		if _, err := deck.LoadDeck(deckPath); err != nil {
			return fmt.Errorf("not a valid deck: %w", err)
		}

		if err := config.SetDefaultDeck(deckName); err != nil {
			return fmt.Errorf("error setting default deck: %w", err)
		}

		fmt.Printf("Default deck set to: %s\n", deckName)
		return nil
	},
}

// deckInitCmd represents the deck init command
var deckInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the deck library and the config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		libraryPath := config.GetDeckLibraryPath()

		if err := os.MkdirAll(libraryPath, 0755); err != nil {
			return fmt.Errorf("error creating deck library: %w", err)
		}

		fmt.Println("Deck library initialized at:", libraryPath)
		fmt.Println("You can now add decks by copying them to this directory.")

		if _, err := config.LoadConfig(); err != nil {
			return fmt.Errorf("error initializing config: %w", err)
		}

		fmt.Println("Config file initialized at:", config.GetConfigFilePath())
		return nil
	},
}

func init() {
	RootCmd.AddCommand(deckCmd)
	deckCmd.AddCommand(deckListCmd)
	deckCmd.AddCommand(deckSetDefaultCmd)
	deckCmd.AddCommand(deckInitCmd)
}
