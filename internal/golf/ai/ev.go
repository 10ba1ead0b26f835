package ai

import (
	"github.com/lox/cardgolf/internal/golf"
	"github.com/lox/cardgolf/internal/prob"
)

// EV plays strictly from table-visible information: its grid is masked
// to publicly revealed slots and decisions follow the probability
// engine's draw-vs-discard expected values. Deterministic; equal EVs
// take the discard, whose value is certain.
type EV struct{}

// Decide asks prob.EvalDrawVsDiscard which side of the decision carries
// the higher expected improvement and commits to the first legal slot.
func (a *EV) Decide(view golf.View) (golf.Action, error) {
	hidden := view.Player.HiddenPositions()
	if len(hidden) == 0 {
		return golf.Action{}, golf.ErrNoLegalAction
	}

	masked := view.Player.PublicCards()
	ev := prob.EvalDrawVsDiscard(masked, view.DeckCounts, view.DeckSize, view.DiscardTop)

	// Pair cancellation is position-independent, so under the masked
	// model every hidden slot is equivalent; the first is as good as any.
	if ev.Recommendation == prob.RecommendDraw && view.DeckSize > 0 {
		return golf.DrawKeep(hidden[0]), nil
	}
	return golf.TakeDiscard(hidden[0]), nil
}
