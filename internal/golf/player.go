package golf

import "github.com/lox/cardgolf/internal/deck"

// AgentType identifies who (or what) plays a seat.
type AgentType string

const (
	AgentHuman      AgentType = "human"
	AgentRandom     AgentType = "random"
	AgentBasicLogic AgentType = "basic_logic"
	AgentEV         AgentType = "ev_ai"
)

// Valid reports whether t is a known agent type.
func (t AgentType) Valid() bool {
	switch t {
	case AgentHuman, AgentRandom, AgentBasicLogic, AgentEV:
		return true
	}
	return false
}

// DisplayName returns the default seat name for an AI agent type.
func (t AgentType) DisplayName() string {
	switch t {
	case AgentRandom:
		return "Random AI"
	case AgentBasicLogic:
		return "Basic Logic AI"
	case AgentEV:
		return "EV AI"
	default:
		return string(t)
	}
}

// GridSize is the number of slots in a player's grid (2x2, row-major:
// top-left, top-right, bottom-left, bottom-right).
const GridSize = 4

// Slot is one position in a player's grid. Public means the card value is
// known to all players; once set it never reverts.
type Slot struct {
	Card   deck.Card
	Filled bool
	Public bool
}

// Player is one seat in a match. Identity is stable across rounds; the
// grid is reset each round.
type Player struct {
	Name  string
	Agent AgentType
	Grid  [GridSize]Slot

	// peeked marks slots whose values the owner saw during the setup peek
	// window (the bottom row). It never changes after the deal, never
	// gates action legality, and only affects what the owner can see.
	peeked [GridSize]bool
}

// NewPlayer creates a player with an empty grid.
func NewPlayer(name string, agent AgentType) *Player {
	return &Player{Name: name, Agent: agent}
}

// dealGrid fills the grid with fresh cards, all face down, bottom row
// peeked by the owner.
func (p *Player) dealGrid(cards [GridSize]deck.Card) {
	for i := range p.Grid {
		p.Grid[i] = Slot{Card: cards[i], Filled: true}
	}
	p.peeked = [GridSize]bool{2: true, 3: true}
}

// HiddenPositions returns the indices of slots that are not yet public.
func (p *Player) HiddenPositions() []int {
	var out []int
	for i, s := range p.Grid {
		if !s.Public {
			out = append(out, i)
		}
	}
	return out
}

// AllPublic reports whether every slot has been revealed.
func (p *Player) AllPublic() bool {
	for _, s := range p.Grid {
		if !s.Public {
			return false
		}
	}
	return true
}

// RevealAll marks every slot public. Called at round end for scoring
// transparency.
func (p *Player) RevealAll() {
	for i := range p.Grid {
		p.Grid[i].Public = true
	}
}

// Peeked reports whether the owner privately saw the slot at the deal.
func (p *Player) Peeked(pos int) bool {
	return p.peeked[pos]
}

// PublicCards returns the grid masked down to publicly revealed slots,
// nil where hidden.
func (p *Player) PublicCards() []*deck.Card {
	out := make([]*deck.Card, GridSize)
	for i := range p.Grid {
		if p.Grid[i].Public && p.Grid[i].Filled {
			c := p.Grid[i].Card
			out[i] = &c
		}
	}
	return out
}

// OwnerVisibleCards returns the grid masked to what the owner can see:
// public slots plus the setup peek.
func (p *Player) OwnerVisibleCards() []*deck.Card {
	out := make([]*deck.Card, GridSize)
	for i := range p.Grid {
		if (p.Grid[i].Public || p.peeked[i]) && p.Grid[i].Filled {
			c := p.Grid[i].Card
			out[i] = &c
		}
	}
	return out
}

// AllCards returns the full grid. The engine and the seat's own agent may
// use this; it must never be marshalled for other players.
func (p *Player) AllCards() []*deck.Card {
	out := make([]*deck.Card, GridSize)
	for i := range p.Grid {
		if p.Grid[i].Filled {
			c := p.Grid[i].Card
			out[i] = &c
		}
	}
	return out
}
