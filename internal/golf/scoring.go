package golf

import (
	"fmt"

	"github.com/lox/cardgolf/internal/deck"
)

// Golf scoring: sum the point values of the visible cards, then cancel
// pairs. Any two slots of equal rank form a pair and contribute zero;
// pairing is greedy in slot order and each slot joins at most one pair.
// Unknown (nil) slots contribute nothing, which lets the same scorer
// produce full, public and owner-visible scores from masked grids.

// ScoreCards scores a masked grid. Nil entries count as zero and never
// pair.
func ScoreCards(cards []*deck.Card) int {
	total := 0
	for _, c := range cards {
		if c != nil {
			total += c.Points()
		}
	}

	used := make([]bool, len(cards))
	for i := 0; i < len(cards); i++ {
		for j := i + 1; j < len(cards); j++ {
			if used[i] {
				break
			}
			if used[j] || cards[i] == nil || cards[j] == nil {
				continue
			}
			if cards[i].Rank == cards[j].Rank {
				total -= cards[i].Points() + cards[j].Points()
				used[i], used[j] = true, true
			}
		}
	}
	return total
}

// PairsIn returns the slot-index pairs of equal rank in a masked grid,
// using the same greedy matching as ScoreCards.
func PairsIn(cards []*deck.Card) [][2]int {
	var pairs [][2]int
	used := make([]bool, len(cards))
	for i := 0; i < len(cards); i++ {
		for j := i + 1; j < len(cards); j++ {
			if used[i] {
				break
			}
			if used[j] || cards[i] == nil || cards[j] == nil {
				continue
			}
			if cards[i].Rank == cards[j].Rank {
				pairs = append(pairs, [2]int{i, j})
				used[i], used[j] = true, true
			}
		}
	}
	return pairs
}

// ScoreGrid scores a player's complete grid. Scoring an incomplete grid
// is a precondition violation, not a recoverable error.
func ScoreGrid(p *Player) int {
	for i := range p.Grid {
		if !p.Grid[i].Filled {
			panic(fmt.Sprintf("golf: scoring incomplete grid for %s (slot %d unfilled)", p.Name, i))
		}
	}
	return ScoreCards(p.AllCards())
}
