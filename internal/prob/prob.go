// Package prob computes deck composition and expected-value statistics
// for Golf decisions. Everything here is pure: given the same masked grid
// and deck composition the results are identical, and unseen cards are
// treated as uniformly distributed over the deck's remaining composition.
package prob

import (
	"fmt"

	"github.com/lox/cardgolf/internal/deck"
	"github.com/lox/cardgolf/internal/golf"
)

// FormatPercent renders a probability as the client's percent string,
// one decimal place ("23.1%").
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p*100)
}

// AverageDeckScore returns the mean point value of the remaining deck,
// which is also the expected value of any single unseen slot.
func AverageDeckScore(counts map[deck.Rank]int) float64 {
	total, n := 0, 0
	for rank, count := range counts {
		total += rank.Points() * count
		n += count
	}
	if n == 0 {
		return 0
	}
	return float64(total) / float64(n)
}

// DrawPair returns the probability that the next drawn card matches the
// rank of any visible card in the grid.
func DrawPair(grid []*deck.Card, counts map[deck.Rank]int, size int) float64 {
	if size == 0 {
		return 0
	}
	ranks := gridRanks(grid)
	matching := 0
	for rank, count := range counts {
		if ranks[rank] {
			matching += count
		}
	}
	return float64(matching) / float64(size)
}

// ImproveHand returns the probability that the next drawn card improves
// the hand, either by pairing a visible rank or by scoring lower than
// some visible card.
func ImproveHand(grid []*deck.Card, counts map[deck.Rank]int, size int) float64 {
	if size == 0 {
		return 0
	}
	ranks := gridRanks(grid)
	max, any := maxPoints(grid)
	if !any {
		return 0
	}
	improving := 0
	for rank, count := range counts {
		if ranks[rank] || rank.Points() < max {
			improving += count
		}
	}
	return float64(improving) / float64(size)
}

// DrawLower returns the probability that the next drawn card scores
// strictly lower than every visible card in the grid.
func DrawLower(grid []*deck.Card, counts map[deck.Rank]int, size int) float64 {
	if size == 0 {
		return 0
	}
	min, any := minPoints(grid)
	if !any {
		return 0
	}
	lower := 0
	for rank, count := range counts {
		if rank.Points() < min {
			lower += count
		}
	}
	return float64(lower) / float64(size)
}

// ExpectedValue compares the expected score improvement of drawing from
// the deck against taking the known discard card. Positive values mean
// the action is expected to lower (improve) the final score.
type ExpectedValue struct {
	DrawEV         float64 `json:"draw_ev"`
	DiscardEV      float64 `json:"discard_ev"`
	Recommendation string  `json:"recommendation"`
}

// Recommendation values.
const (
	RecommendDraw        = "draw"
	RecommendTakeDiscard = "take_discard"
)

// EvalDrawVsDiscard computes draw-vs-discard expected values for a masked
// grid. Ties recommend taking the discard, since its value is certain.
func EvalDrawVsDiscard(grid []*deck.Card, counts map[deck.Rank]int, size int, discardTop deck.Card) ExpectedValue {
	ev := ExpectedValue{}
	ev.DiscardEV = PlacementGain(grid, counts, discardTop)

	// A drawn card can always be discarded, so its gain is never negative.
	if size > 0 {
		for rank, count := range counts {
			if count == 0 {
				continue
			}
			gain := PlacementGain(grid, counts, deck.Card{Rank: rank, Suit: deck.Spades})
			if gain > 0 {
				ev.DrawEV += float64(count) / float64(size) * gain
			}
		}
	}

	if ev.DrawEV > ev.DiscardEV {
		ev.Recommendation = RecommendDraw
	} else {
		ev.Recommendation = RecommendTakeDiscard
	}
	return ev
}

// PlacementGain returns the best expected score improvement from placing
// card at one of the grid's unknown positions, relative to leaving the
// grid alone. Unknown slots are valued at the deck average. Negative
// means every placement is expected to worsen the score.
func PlacementGain(grid []*deck.Card, counts map[deck.Rank]int, card deck.Card) float64 {
	unknown := unknownPositions(grid)
	if len(unknown) == 0 {
		return 0
	}

	slotEV := AverageDeckScore(counts)
	baseline := float64(golf.ScoreCards(grid)) + float64(len(unknown))*slotEV

	var best float64
	scratch := make([]*deck.Card, len(grid))
	for i, pos := range unknown {
		copy(scratch, grid)
		c := card
		scratch[pos] = &c
		after := float64(golf.ScoreCards(scratch)) + float64(len(unknown)-1)*slotEV
		if gain := baseline - after; i == 0 || gain > best {
			best = gain
		}
	}
	return best
}

func gridRanks(grid []*deck.Card) map[deck.Rank]bool {
	ranks := make(map[deck.Rank]bool)
	for _, c := range grid {
		if c != nil {
			ranks[c.Rank] = true
		}
	}
	return ranks
}

func unknownPositions(grid []*deck.Card) []int {
	var out []int
	for i, c := range grid {
		if c == nil {
			out = append(out, i)
		}
	}
	return out
}

func maxPoints(grid []*deck.Card) (int, bool) {
	max, any := 0, false
	for _, c := range grid {
		if c == nil {
			continue
		}
		if !any || c.Points() > max {
			max = c.Points()
		}
		any = true
	}
	return max, any
}

func minPoints(grid []*deck.Card) (int, bool) {
	min, any := 0, false
	for _, c := range grid {
		if c == nil {
			continue
		}
		if !any || c.Points() < min {
			min = c.Points()
		}
		any = true
	}
	return min, any
}
