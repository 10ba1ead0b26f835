package deck

import (
	"errors"
	rand "math/rand/v2"
)

// ErrEmpty is returned by Draw when no cards remain.
var ErrEmpty = errors.New("deck is empty")

// Deck represents an ordered stack of playing cards. The top of the deck
// is the end of the slice.
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// New creates a full 52-card deck in canonical order. The provided rng is
// used for shuffling; it must not be nil.
func New(rng *rand.Rand) *Deck {
	d := &Deck{
		cards: make([]Card, 0, 52),
		rng:   rng,
	}
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Ace; rank <= King; rank++ {
			d.cards = append(d.cards, NewCard(rank, suit))
		}
	}
	return d
}

// NewFromCards creates a deck with exactly the given cards in order, the
// last card being the top. Used for scripted tests.
func NewFromCards(cards []Card) *Deck {
	d := &Deck{cards: make([]Card, len(cards))}
	copy(d.cards, cards)
	return d
}

// Shuffle randomizes the order of cards in the deck
func (d *Deck) Shuffle() {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw removes and returns the top card from the deck
func (d *Deck) Draw() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, ErrEmpty
	}
	card := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return card, nil
}

// Peek returns the top card without removing it from the deck
func (d *Deck) Peek() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	return d.cards[len(d.cards)-1], true
}

// Size returns the number of cards left in the deck
func (d *Deck) Size() int {
	return len(d.cards)
}

// IsEmpty returns true if the deck has no cards left
func (d *Deck) IsEmpty() bool {
	return len(d.cards) == 0
}

// RemainingCounts returns a rank -> count mapping for the cards still in
// the deck. The counts always sum to Size().
func (d *Deck) RemainingCounts() map[Rank]int {
	counts := make(map[Rank]int)
	for _, c := range d.cards {
		counts[c.Rank]++
	}
	return counts
}

// Cards returns a copy of the remaining cards, bottom first.
func (d *Deck) Cards() []Card {
	cards := make([]Card, len(d.cards))
	copy(cards, d.cards)
	return cards
}
