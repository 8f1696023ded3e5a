package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/devmatch/devmatch/internal/api"
	"github.com/devmatch/devmatch/internal/config"
	"github.com/devmatch/devmatch/internal/deck"
	"github.com/devmatch/devmatch/internal/session"

	log "github.com/sirupsen/logrus"
)

// loadDeck resolves the --deck flag, falling back to the configured default deck
func loadDeck(cmd *cobra.Command) (*deck.Deck, error) {
	deckFlag, _ := cmd.Flags().GetString("deck")

	var deckPath string
	var err error

	if deckFlag != "" {
		deckPath, err = config.GetDeckPath(deckFlag)
		if err != nil {
			return nil, err
		}
	} else {
		defaultDeck, err := config.GetDefaultDeck()
		if err != nil {
			return nil, fmt.Errorf("error getting default deck: %w", err)
		}

		deckPath, err = config.GetDeckPath(defaultDeck)
		if err != nil {
			return nil, fmt.Errorf("error loading default deck: %w (use --deck or 'devmatch deck set-default')", err)
		}
	}

	if _, err := os.Stat(deckPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("deck directory not found: %s", deckPath)
	}

	d, err := deck.LoadDeck(deckPath)
	if err != nil {
		return nil, fmt.Errorf("error loading deck: %w", err)
	}
	log.WithFields(log.Fields{"deck": d.ID, "profiles": len(d.Cards)}).Debug("deck loaded")
	return d, nil
}

func sessionStore() *session.Store {
	return session.NewStore(config.GetStateDir())
}

// newClient builds a backend client. Authenticated clients carry the stored
// session token and fail when there is none.
func newClient(cfg *config.Config, authenticated bool) (*api.Client, error) {
	opts := []api.Option{
		api.WithTimeout(cfg.RequestTimeout()),
		api.WithLogger(log.StandardLogger()),
	}

	if authenticated {
		token, err := sessionStore().Token()
		if err != nil {
			return nil, err
		}
		opts = append(opts, api.WithToken(token))
	}

	return api.New(cfg.APIURL, opts...), nil
}
