package golf

import (
	"fmt"
	rand "math/rand/v2"

	"github.com/lox/cardgolf/internal/deck"
)

// DefaultMaxRounds caps the number of full turn cycles in a round. Eight
// cycles cannot exhaust a 52-card deck at two or four players, so a
// draw_deck action never fails for lack of cards under the default setup.
const DefaultMaxRounds = 8

// Round drives one deal-to-scoring cycle: setup, turn sequencing,
// draw/discard resolution and round-over detection. Terminology follows
// the client: a "round" number here counts full turn cycles within one
// game.
type Round struct {
	deck      *deck.Deck
	discard   []deck.Card
	players   []*Player
	turn      int
	round     int
	maxRounds int
	goingOut  int
	over      bool
	winner    int
	scores    []int
	history   []string
}

// NewRound deals a fresh round for the given players. Grids are reset,
// the deck is shuffled with rng, and one card is turned up to start the
// discard pile.
func NewRound(players []*Player, rng *rand.Rand, maxRounds int) *Round {
	if len(players) < 2 {
		panic("golf: a round needs at least two players")
	}
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}

	r := &Round{
		deck:      deck.New(rng),
		players:   players,
		round:     1,
		maxRounds: maxRounds,
		goingOut:  -1,
		winner:    -1,
	}
	r.deck.Shuffle()
	r.deal()
	return r
}

// NewRoundWithDeck deals a round from a pre-ordered deck. Scripted tests
// use this to pin the exact card sequence.
func NewRoundWithDeck(players []*Player, d *deck.Deck, maxRounds int) *Round {
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}
	r := &Round{
		deck:      d,
		players:   players,
		round:     1,
		maxRounds: maxRounds,
		goingOut:  -1,
		winner:    -1,
	}
	r.deal()
	return r
}

func (r *Round) deal() {
	for _, p := range r.players {
		var cards [GridSize]deck.Card
		for i := range cards {
			c, err := r.deck.Draw()
			if err != nil {
				panic("golf: deck too small to deal")
			}
			cards[i] = c
		}
		p.dealGrid(cards)
	}

	// Seed the discard pile.
	c, err := r.deck.Draw()
	if err != nil {
		panic("golf: deck too small to deal")
	}
	r.discard = append(r.discard, c)
}

// Turn returns the index of the player to move.
func (r *Round) Turn() int { return r.turn }

// RoundNum returns the 1-based turn cycle number.
func (r *Round) RoundNum() int { return r.round }

// MaxRounds returns the turn cycle cap.
func (r *Round) MaxRounds() int { return r.maxRounds }

// Players returns the seats in turn order.
func (r *Round) Players() []*Player { return r.players }

// Over reports whether the round has finished.
func (r *Round) Over() bool { return r.over }

// Winner returns the winning seat index, or -1 while the round runs.
// Ties go to the earliest seat.
func (r *Round) Winner() int { return r.winner }

// Scores returns per-seat scores, computed once when the round ends.
func (r *Round) Scores() []int { return r.scores }

// History returns the human-readable action log.
func (r *Round) History() []string { return r.history }

// Deck exposes the remaining undealt cards.
func (r *Round) Deck() *deck.Deck { return r.deck }

// DiscardTop returns the face-up discard card. It is always present
// after the deal.
func (r *Round) DiscardTop() (deck.Card, bool) {
	if len(r.discard) == 0 {
		return deck.Card{}, false
	}
	return r.discard[len(r.discard)-1], true
}

// DiscardSize returns the number of cards in the discard pile.
func (r *Round) DiscardSize() int { return len(r.discard) }

// CardsInPlay returns deck + discard + dealt cards. Constant for the
// lifetime of a round (conservation of cards).
func (r *Round) CardsInPlay() int {
	n := r.deck.Size() + len(r.discard)
	for _, p := range r.players {
		for _, s := range p.Grid {
			if s.Filled {
				n++
			}
		}
	}
	return n
}

// ViewFor builds the decision view for the seat at index i: the seat's
// own full grid, the discard top and the remaining deck composition.
// Opponents' hidden cards are never part of a view.
type View struct {
	Player     *Player
	Seat       int
	DiscardTop deck.Card
	DeckSize   int
	DeckCounts map[deck.Rank]int
	Round      int
	MaxRounds  int
}

// ViewFor returns the View for seat i.
func (r *Round) ViewFor(i int) View {
	top, _ := r.DiscardTop()
	return View{
		Player:     r.players[i],
		Seat:       i,
		DiscardTop: top,
		DeckSize:   r.deck.Size(),
		DeckCounts: r.deck.RemainingCounts(),
		Round:      r.round,
		MaxRounds:  r.maxRounds,
	}
}

// Apply resolves one turn for the seat at index seat. The action is
// validated against the current state; on success the turn advances and
// round-over detection runs. Each call is atomic: on error no state has
// changed.
func (r *Round) Apply(seat int, action Action) error {
	if r.over {
		return ErrGameOver
	}
	if seat != r.turn {
		return ErrNotYourTurn
	}

	p := r.players[seat]
	hidden := p.HiddenPositions()
	if len(hidden) == 0 {
		// All cards face up: the turn is a forced pass but still counts.
		r.logf("%s has no moves available (all cards face up)", p.Name)
		r.advance()
		return nil
	}

	switch action.Type {
	case ActionTakeDiscard:
		if err := r.checkPosition(p, action.Position); err != nil {
			return err
		}
		taken := r.popDiscard()
		old := p.Grid[action.Position].Card
		p.Grid[action.Position] = Slot{Card: taken, Filled: true, Public: true}
		r.discard = append(r.discard, old)
		r.logf("%s took %s from the discard pile, placing it at position %d and discarding %s",
			p.Name, taken, action.Position+1, old)

	case ActionDrawDeck:
		if action.Keep {
			if err := r.checkPosition(p, action.Position); err != nil {
				return err
			}
			drawn, err := r.deck.Draw()
			if err != nil {
				return ErrEmptyDeck
			}
			old := p.Grid[action.Position].Card
			p.Grid[action.Position] = Slot{Card: drawn, Filled: true, Public: true}
			r.discard = append(r.discard, old)
			r.logf("%s drew %s from the deck, placing it at position %d and discarding %s",
				p.Name, drawn, action.Position+1, old)
		} else {
			if action.FlipPosition != NoFlip {
				if err := r.checkPosition(p, action.FlipPosition); err != nil {
					return err
				}
			}
			drawn, err := r.deck.Draw()
			if err != nil {
				return ErrEmptyDeck
			}
			r.discard = append(r.discard, drawn)
			if action.FlipPosition != NoFlip {
				p.Grid[action.FlipPosition].Public = true
				r.logf("%s drew %s from the deck and discarded it, flipping position %d face up",
					p.Name, drawn, action.FlipPosition+1)
			} else {
				r.logf("%s drew %s from the deck and discarded it", p.Name, drawn)
			}
		}

	default:
		return fmt.Errorf("%w: unknown action type %q", ErrInvalidAction, action.Type)
	}

	if p.AllPublic() && r.goingOut < 0 {
		r.goingOut = seat
		r.logf("%s has revealed every card and goes out", p.Name)
	}

	r.advance()
	return nil
}

// checkPosition validates a grid index for mutation: it must be in range
// and not already public.
func (r *Round) checkPosition(p *Player, pos int) error {
	if pos < 0 || pos >= GridSize {
		return fmt.Errorf("%w: position %d out of range", ErrInvalidPosition, pos)
	}
	if p.Grid[pos].Public {
		return fmt.Errorf("%w: position %d already revealed", ErrInvalidPosition, pos)
	}
	return nil
}

func (r *Round) popDiscard() deck.Card {
	c := r.discard[len(r.discard)-1]
	r.discard = r.discard[:len(r.discard)-1]
	return c
}

// advance moves to the next seat and runs round-over detection: either
// the turn has cycled back to the player who went out (everyone else had
// exactly one final turn), or the cycle cap was reached.
func (r *Round) advance() {
	r.turn = (r.turn + 1) % len(r.players)
	if r.turn == 0 {
		r.round++
	}

	if r.goingOut >= 0 && r.turn == r.goingOut {
		r.finish()
		return
	}
	if r.round > r.maxRounds {
		r.finish()
	}
}

// finish reveals all grids, computes scores and marks the round over.
func (r *Round) finish() {
	r.over = true
	r.scores = make([]int, len(r.players))
	best := 0
	for i, p := range r.players {
		p.RevealAll()
		r.scores[i] = ScoreGrid(p)
		if r.scores[i] < r.scores[best] {
			best = i
		}
	}
	r.winner = best
	r.logf("Round over: %s wins with %d points", r.players[best].Name, r.scores[best])
}

func (r *Round) logf(format string, args ...any) {
	r.history = append(r.history, fmt.Sprintf(format, args...))
}
