package swipe

import (
	"errors"

	"github.com/devmatch/devmatch/internal/card"
)

// ErrEmptyDeck is returned when a controller or deck is built from no cards
var ErrEmptyDeck = errors.New("swipe: card sequence is empty")

// Deck is a cyclic cursor over an ordered card sequence
type Deck struct {
	cards []card.Card
	index int
}

// NewDeck copies cards into a new deck positioned at the first card
func NewDeck(cards []card.Card) (*Deck, error) {
	if len(cards) == 0 {
		return nil, ErrEmptyDeck
	}
	return &Deck{cards: append([]card.Card(nil), cards...)}, nil
}

// Current returns the card at the cursor
func (d *Deck) Current() card.Card {
	return d.cards[d.index]
}

// Index returns the cursor position
func (d *Deck) Index() int {
	return d.index
}

// Len returns the number of cards
func (d *Deck) Len() int {
	return len(d.cards)
}

// Advance moves the cursor to the next card, wrapping after the last one,
// and returns the new index.
func (d *Deck) Advance() int {
	d.index = (d.index + 1) % len(d.cards)
	return d.index
}
