// Package pokedex is a small PokeAPI client.
package pokedex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// DefaultListLimit is the size of the first generation
const DefaultListLimit = 151

// ErrNotFound is returned when PokeAPI has no such pokemon
var ErrNotFound = errors.New("pokemon not found")

type NamedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type Sprites struct {
	FrontDefault string `json:"front_default"`
	FrontShiny   string `json:"front_shiny"`
}

type Stat struct {
	BaseStat int           `json:"base_stat"`
	Stat     NamedResource `json:"stat"`
}

type TypeSlot struct {
	Slot int           `json:"slot"`
	Type NamedResource `json:"type"`
}

// Pokemon is the subset of /pokemon/{id} the CLI shows
type Pokemon struct {
	ID      int           `json:"id"`
	Name    string        `json:"name"`
	Sprites Sprites       `json:"sprites"`
	Stats   []Stat        `json:"stats"`
	Types   []TypeSlot    `json:"types"`
	Species NamedResource `json:"species"`
}

// Sprite returns the default or shiny front sprite URL
func (p *Pokemon) Sprite(shiny bool) string {
	if shiny {
		return p.Sprites.FrontShiny
	}
	return p.Sprites.FrontDefault
}

// TypeNames returns the type names in slot order
func (p *Pokemon) TypeNames() []string {
	names := make([]string, 0, len(p.Types))
	for _, t := range p.Types {
		names = append(names, t.Type.Name)
	}
	return names
}

type FlavorText struct {
	FlavorText string        `json:"flavor_text"`
	Language   NamedResource `json:"language"`
}

type Species struct {
	Name              string        `json:"name"`
	GenderRate        int           `json:"gender_rate"`
	Generation        NamedResource `json:"generation"`
	FlavorTextEntries []FlavorText  `json:"flavor_text_entries"`
	EvolutionChain    struct {
		URL string `json:"url"`
	} `json:"evolution_chain"`
}

// Genderless reports a gender rate of -1
func (s *Species) Genderless() bool {
	return s.GenderRate == -1
}

// Description returns the first English flavor text with line breaks flattened
func (s *Species) Description() string {
	for _, e := range s.FlavorTextEntries {
		if e.Language.Name == "en" {
			return strings.Join(strings.FieldsFunc(e.FlavorText, func(r rune) bool {
				return r == '\n' || r == '\f'
			}), " ")
		}
	}
	return ""
}

// ChainLink is one node of an evolution tree
type ChainLink struct {
	Species   NamedResource `json:"species"`
	EvolvesTo []ChainLink   `json:"evolves_to"`
}

type EvolutionChain struct {
	ID    int       `json:"id"`
	Chain ChainLink `json:"chain"`
}

// Evolutions flattens a chain into species names, depth-first pre-order
func Evolutions(link ChainLink) []string {
	var names []string
	var walk func(ChainLink)
	walk = func(l ChainLink) {
		names = append(names, l.Species.Name)
		for _, next := range l.EvolvesTo {
			walk(next)
		}
	}
	walk(link)
	return names
}

// Entry is a pokemon with its species and the evolutions that could be fetched
type Entry struct {
	Pokemon    *Pokemon
	Species    *Species
	Evolutions []*Pokemon
}

type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for the API at baseURL (e.g. https://pokeapi.co/api/v2)
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("error decoding %s: %w", url, err)
	}
	return nil
}

// Pokemon fetches a pokemon by name or id
func (c *Client) Pokemon(ctx context.Context, nameOrID string) (*Pokemon, error) {
	key := strings.ToLower(strings.TrimSpace(nameOrID))
	if key == "" {
		return nil, ErrNotFound
	}

	var p Pokemon
	if err := c.getJSON(ctx, c.baseURL+"/pokemon/"+key, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Lookup fetches a pokemon, its species and every member of its evolution
// chain. Evolutions that fail to load are left out.
func (c *Client) Lookup(ctx context.Context, nameOrID string) (*Entry, error) {
	p, err := c.Pokemon(ctx, nameOrID)
	if err != nil {
		return nil, err
	}

	var species Species
	if err := c.getJSON(ctx, p.Species.URL, &species); err != nil {
		return nil, fmt.Errorf("error loading species: %w", err)
	}

	var chain EvolutionChain
	if err := c.getJSON(ctx, species.EvolutionChain.URL, &chain); err != nil {
		return nil, fmt.Errorf("error loading evolution chain: %w", err)
	}

	names := Evolutions(chain.Chain)
	evolutions := make([]*Pokemon, len(names))

	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			evo, err := c.Pokemon(gctx, name)
			if err != nil {
				log.WithError(err).Debugf("skipping evolution %s", name)
				return nil
			}
			evolutions[i] = evo
			return nil
		})
	}
	_ = g.Wait()

	entry := &Entry{Pokemon: p, Species: &species}
	for _, evo := range evolutions {
		if evo != nil {
			entry.Evolutions = append(entry.Evolutions, evo)
		}
	}
	return entry, nil
}

// List fetches the first limit pokemon with their details. Any failed
// fetch fails the whole listing.
func (c *Client) List(ctx context.Context, limit int) ([]*Pokemon, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	var page struct {
		Results []NamedResource `json:"results"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("%s/pokemon?limit=%d", c.baseURL, limit), &page); err != nil {
		return nil, err
	}

	out := make([]*Pokemon, len(page.Results))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(16)
	for i, r := range page.Results {
		i, r := i, r
		g.Go(func() error {
			var p Pokemon
			if err := c.getJSON(gctx, r.URL, &p); err != nil {
				return fmt.Errorf("error loading %s: %w", r.Name, err)
			}
			out[i] = &p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
