package deck

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"

	"github.com/devmatch/devmatch/internal/card"
)

// SchemaVersion is the only deck.toml schema this tool understands
const SchemaVersion = "1.0"

// Deck represents a profile deck loaded from disk
type Deck struct {
	ID          string
	Name        string
	Version     string
	Author      string
	Description string
	Path        string

	// Cards in the order they appear in deck.toml
	Cards []card.Card

	// Raw config data
	config *DeckConfig
}

// LoadDeck loads a profile deck from a directory
func LoadDeck(deckPath string) (*Deck, error) {
	config, err := ReadConfig(deckPath)
	if err != nil {
		return nil, err
	}

	deck := &Deck{
		ID:          config.Deck.ID,
		Name:        config.Deck.Name,
		Version:     config.Deck.Version,
		Author:      config.Deck.Author,
		Description: config.Deck.Description,
		Path:        deckPath,
		config:      config,
	}

	deck.loadCards()

	if len(deck.Cards) == 0 {
		return nil, fmt.Errorf("deck %s has no profiles", deckPath)
	}

	return deck, nil
}

// ReadConfig decodes deck.toml from a deck directory
func ReadConfig(deckPath string) (*DeckConfig, error) {
	deckTomlPath := filepath.Join(deckPath, "deck.toml")
	if _, err := os.Stat(deckTomlPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("deck.toml not found in %s", deckPath)
	}

	var config DeckConfig
	if _, err := toml.DecodeFile(deckTomlPath, &config); err != nil {
		return nil, fmt.Errorf("error parsing deck.toml: %w", err)
	}
	return &config, nil
}

// loadCards converts the profile sections into cards
func (d *Deck) loadCards() {
	d.Cards = make([]card.Card, 0, len(d.config.Profiles))

	for _, p := range d.config.Profiles {
		c := card.Card{
			ID:      p.ID,
			Image:   p.Image,
			Name:    p.Name,
			Job:     p.Job,
			Skills:  append([]string(nil), p.Skills...),
			Reviews: p.Reviews,
			Rating:  p.Rating,
		}

		// Profiles without an id still need a stable handle for this run
		if c.ID == "" {
			c.ID = uuid.NewString()
		}

		if p.Portfolio != nil {
			details := &card.Portfolio{
				Experience:   p.Portfolio.Experience,
				Education:    p.Portfolio.Education,
				Technologies: append([]string(nil), p.Portfolio.Technologies...),
			}
			for _, proj := range p.Portfolio.Projects {
				details.Projects = append(details.Projects, card.Project{
					Name:        proj.Name,
					Description: proj.Description,
				})
			}
			c.Details = details
		}

		d.Cards = append(d.Cards, c)
	}
}

// GetCard gets a card by its id
func (d *Deck) GetCard(cardID string) (*card.Card, error) {
	for i := range d.Cards {
		if d.Cards[i].ID == cardID {
			return &d.Cards[i], nil
		}
	}
	return nil, fmt.Errorf("profile not found: %s", cardID)
}

// ImagePath resolves a card's image against the deck directory.
// It returns "" when the card has no image.
func (d *Deck) ImagePath(c *card.Card) string {
	if c.Image == "" {
		return ""
	}
	if filepath.IsAbs(c.Image) {
		return c.Image
	}
	return filepath.Join(d.Path, c.Image)
}

// Deck configuration structures
type DeckConfig struct {
	Deck     DeckSection      `toml:"deck"`
	Profiles []ProfileSection `toml:"profiles"`
}

type DeckSection struct {
	ID            string   `toml:"id"`
	Name          string   `toml:"name"`
	Version       string   `toml:"version"`
	SchemaVersion string   `toml:"schema_version"`
	Author        string   `toml:"author"`
	Description   string   `toml:"description"`
	Tags          []string `toml:"tags"`
}

type ProfileSection struct {
	ID        string            `toml:"id"`
	Name      string            `toml:"name"`
	Job       string            `toml:"job"`
	Image     string            `toml:"image"`
	Skills    []string          `toml:"skills"`
	Reviews   int               `toml:"reviews"`
	Rating    float64           `toml:"rating"`
	Portfolio *PortfolioSection `toml:"portfolio"`
}

type PortfolioSection struct {
	Experience   string           `toml:"experience"`
	Education    string           `toml:"education"`
	Technologies []string         `toml:"technologies"`
	Projects     []ProjectSection `toml:"projects"`
}

type ProjectSection struct {
	Name        string `toml:"name"`
	Description string `toml:"description"`
}
