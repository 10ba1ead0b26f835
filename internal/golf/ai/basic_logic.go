package ai

import (
	"github.com/lox/cardgolf/internal/deck"
	"github.com/lox/cardgolf/internal/golf"
)

// BasicLogic plays from its full self-knowledge: it knows every card in
// its own grid, so swaps are evaluated by their true score change while
// drawn cards are valued by expectation over the remaining deck. Fully
// deterministic; ties resolve to the lowest slot index.
type BasicLogic struct{}

// Decide compares the best discard placement against the best expected
// draw placement and falls back to a cost-free flip when neither is
// expected to improve the score.
func (a *BasicLogic) Decide(view golf.View) (golf.Action, error) {
	hidden := view.Player.HiddenPositions()
	if len(hidden) == 0 {
		return golf.Action{}, golf.ErrNoLegalAction
	}

	grid := view.Player.AllCards()
	current := golf.ScoreCards(grid)

	// Known gain of taking the discard at each legal position.
	discardGain, discardPos := bestSwap(grid, hidden, view.DiscardTop, current)

	// Expected gain of a blind draw committed to each legal position.
	drawGain, drawPos := 0.0, hidden[0]
	if view.DeckSize > 0 {
		for _, pos := range hidden {
			gain := 0.0
			for rank, count := range view.DeckCounts {
				g, _ := bestSwap(grid, []int{pos}, deck.Card{Rank: rank, Suit: deck.Spades}, current)
				gain += float64(count) / float64(view.DeckSize) * g
			}
			if gain > drawGain {
				drawGain, drawPos = gain, pos
			}
		}
	}

	switch {
	case discardGain > 0 && discardGain >= drawGain:
		return golf.TakeDiscard(discardPos), nil
	case drawGain > 0:
		return golf.DrawKeep(drawPos), nil
	case view.DeckSize == 0:
		// The deck is exhausted, so drawing is off the table. Take the
		// discard wherever it costs the least.
		return golf.TakeDiscard(cheapestSwap(grid, hidden, view.DiscardTop, current)), nil
	default:
		// Nothing improves the hand: draw, discard the card and flip the
		// lowest-value hidden slot to move toward going out.
		return golf.DrawDiscard(lowestHidden(grid, hidden)), nil
	}
}

// bestSwap returns the highest true score improvement from replacing one
// of the candidate positions with card, and the position achieving it.
func bestSwap(grid []*deck.Card, positions []int, card deck.Card, current int) (float64, int) {
	best, bestPos := 0.0, positions[0]
	scratch := make([]*deck.Card, len(grid))
	for _, pos := range positions {
		copy(scratch, grid)
		c := card
		scratch[pos] = &c
		if gain := float64(current - golf.ScoreCards(scratch)); gain > best {
			best, bestPos = gain, pos
		}
	}
	return best, bestPos
}

// cheapestSwap returns the candidate position where replacing the slot
// with card changes the true score the least. Unlike bestSwap it accepts
// losing placements, for turns where every legal action costs points.
func cheapestSwap(grid []*deck.Card, positions []int, card deck.Card, current int) int {
	var best float64
	bestPos := -1
	scratch := make([]*deck.Card, len(grid))
	for _, pos := range positions {
		copy(scratch, grid)
		c := card
		scratch[pos] = &c
		if gain := float64(current - golf.ScoreCards(scratch)); bestPos < 0 || gain > best {
			best, bestPos = gain, pos
		}
	}
	return bestPos
}

// lowestHidden picks the hidden position holding the lowest-value card,
// the safest slot to reveal.
func lowestHidden(grid []*deck.Card, hidden []int) int {
	best := hidden[0]
	for _, pos := range hidden[1:] {
		if grid[pos] != nil && grid[best] != nil && grid[pos].Points() < grid[best].Points() {
			best = pos
		}
	}
	return best
}
