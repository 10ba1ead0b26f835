// Package ai implements the pluggable turn-decision policies for Golf
// seats. Agents decide from a golf.View: their own grid (an agent may see
// its own hidden cards, never an opponent's), the discard top and the
// remaining deck composition.
package ai

import (
	"fmt"
	rand "math/rand/v2"

	"github.com/lox/cardgolf/internal/golf"
)

// Agent decides one turn for a seat.
type Agent interface {
	// Decide returns the action to take for the given view. Given the
	// same view and RNG state the result is reproducible.
	Decide(view golf.View) (golf.Action, error)
}

// New builds the agent for an AI seat type. The rng is only consulted by
// stochastic policies.
func New(t golf.AgentType, rng *rand.Rand) (Agent, error) {
	switch t {
	case golf.AgentRandom:
		return &Random{rng: rng}, nil
	case golf.AgentBasicLogic:
		return &BasicLogic{}, nil
	case golf.AgentEV:
		return &EV{}, nil
	default:
		return nil, fmt.Errorf("no agent for type %q", t)
	}
}

// ForPlayers builds one agent per AI seat, keyed by seat index.
func ForPlayers(players []*golf.Player, rng *rand.Rand) (map[int]Agent, error) {
	agents := make(map[int]Agent)
	for i, p := range players {
		if p.Agent == golf.AgentHuman {
			continue
		}
		agent, err := New(p.Agent, rng)
		if err != nil {
			return nil, err
		}
		agents[i] = agent
	}
	return agents, nil
}
