package ai

import (
	rand "math/rand/v2"

	"github.com/lox/cardgolf/internal/golf"
)

// Random makes uniformly random legal moves. Useful as a baseline
// opponent and for exercising the state machine in simulation.
type Random struct {
	rng *rand.Rand
}

// Decide picks a random hidden position and a random action kind.
func (a *Random) Decide(view golf.View) (golf.Action, error) {
	hidden := view.Player.HiddenPositions()
	if len(hidden) == 0 {
		return golf.Action{}, golf.ErrNoLegalAction
	}

	pos := hidden[a.rng.IntN(len(hidden))]
	if view.DeckSize == 0 {
		// Only the discard pile is playable once the deck runs dry.
		return golf.TakeDiscard(pos), nil
	}
	switch a.rng.IntN(3) {
	case 0:
		return golf.TakeDiscard(pos), nil
	case 1:
		return golf.DrawKeep(pos), nil
	default:
		return golf.DrawDiscard(pos), nil
	}
}
