package ai

import (
	"errors"
	"testing"

	"github.com/lox/cardgolf/internal/deck"
	"github.com/lox/cardgolf/internal/golf"
	"github.com/lox/cardgolf/internal/randutil"
)

// scriptedView builds a View around a player dealt the given four cards,
// with a chosen discard top and deck composition.
func scriptedView(t *testing.T, gridCards, discardTop string, counts map[deck.Rank]int) golf.View {
	t.Helper()
	p := golf.NewPlayer("Bot", golf.AgentBasicLogic)
	dealOrder := gridCards + "KsKh5c5d" + discardTop
	r := scriptedRound(t, []*golf.Player{p, golf.NewPlayer("Other", golf.AgentRandom)}, dealOrder)

	v := r.ViewFor(0)
	if counts != nil {
		v.DeckCounts = counts
		v.DeckSize = 0
		for _, n := range counts {
			v.DeckSize += n
		}
	}
	return v
}

func scriptedRound(t *testing.T, players []*golf.Player, dealOrder string) *golf.Round {
	t.Helper()
	cards := deck.MustParseCards(dealOrder)
	stack := make([]deck.Card, len(cards))
	for i, c := range cards {
		stack[len(cards)-1-i] = c
	}
	return golf.NewRoundWithDeck(players, deck.NewFromCards(stack), 0)
}

func TestNewCoversAllAITypes(t *testing.T) {
	t.Parallel()
	rng := randutil.New(1)
	for _, at := range []golf.AgentType{golf.AgentRandom, golf.AgentBasicLogic, golf.AgentEV} {
		agent, err := New(at, rng)
		if err != nil {
			t.Errorf("New(%s) failed: %v", at, err)
		}
		if agent == nil {
			t.Errorf("New(%s) returned nil agent", at)
		}
	}

	if _, err := New(golf.AgentHuman, rng); err == nil {
		t.Error("Expected error for the human seat type")
	}
	if _, err := New("chess_engine", rng); err == nil {
		t.Error("Expected error for an unknown type")
	}
}

func TestForPlayersSkipsHumans(t *testing.T) {
	t.Parallel()
	players := []*golf.Player{
		golf.NewPlayer("Human", golf.AgentHuman),
		golf.NewPlayer("R", golf.AgentRandom),
		golf.NewPlayer("E", golf.AgentEV),
	}
	agents, err := ForPlayers(players, randutil.New(1))
	if err != nil {
		t.Fatalf("ForPlayers failed: %v", err)
	}
	if _, ok := agents[0]; ok {
		t.Error("Human seat should have no agent")
	}
	if len(agents) != 2 {
		t.Errorf("Expected 2 agents, got %d", len(agents))
	}
}

func TestRandomProducesLegalActions(t *testing.T) {
	t.Parallel()
	players := []*golf.Player{
		golf.NewPlayer("R1", golf.AgentRandom),
		golf.NewPlayer("R2", golf.AgentRandom),
	}
	r := golf.NewRound(players, randutil.New(3), 0)
	agent := &Random{rng: randutil.New(99)}

	// Every decision must be accepted by the engine as-is.
	for i := 0; !r.Over() && i < 100; i++ {
		seat := r.Turn()
		hidden := players[seat].HiddenPositions()
		if len(hidden) == 0 {
			if err := r.Apply(seat, golf.Action{}); err != nil {
				t.Fatalf("Forced pass failed: %v", err)
			}
			continue
		}
		action, err := agent.Decide(r.ViewFor(seat))
		if err != nil {
			t.Fatalf("Decide failed: %v", err)
		}
		if err := r.Apply(seat, action); err != nil {
			t.Fatalf("Engine rejected %+v: %v", action, err)
		}
	}
	if !r.Over() {
		t.Error("Round did not finish within 100 random turns")
	}
}

func TestRandomNoLegalAction(t *testing.T) {
	t.Parallel()
	v := scriptedView(t, "As2h3c4d", "9s", nil)
	v.Player.RevealAll()

	agent := &Random{rng: randutil.New(1)}
	if _, err := agent.Decide(v); !errors.Is(err, golf.ErrNoLegalAction) {
		t.Errorf("Decide = %v, want ErrNoLegalAction", err)
	}
}

func TestAgentsAvoidDrawingFromEmptyDeck(t *testing.T) {
	t.Parallel()
	// A nine-card script deals both grids and the discard with nothing
	// left to draw, so take_discard is the only playable opener.
	agents := map[string]Agent{
		"random":      &Random{rng: randutil.New(7)},
		"basic_logic": &BasicLogic{},
		"ev_ai":       &EV{},
	}
	for name, agent := range agents {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < 20; i++ {
				players := []*golf.Player{
					golf.NewPlayer("Bot", golf.AgentBasicLogic),
					golf.NewPlayer("Other", golf.AgentRandom),
				}
				r := scriptedRound(t, players, "AsAhAcJd"+"KsKh5c5d"+"Kd")
				v := r.ViewFor(0)
				if v.DeckSize != 0 {
					t.Fatalf("DeckSize = %d, want an exhausted deck", v.DeckSize)
				}
				action, err := agent.Decide(v)
				if err != nil {
					t.Fatalf("Decide failed: %v", err)
				}
				if action.Type != golf.ActionTakeDiscard {
					t.Fatalf("Action = %+v, want take_discard", action)
				}
				if err := r.Apply(0, action); err != nil {
					t.Fatalf("Engine rejected %+v: %v", action, err)
				}
			}
		})
	}
}

func TestBasicLogicTakesPairingDiscard(t *testing.T) {
	t.Parallel()
	// Grid holds a nine; the discard top is another nine. Taking it at
	// the nine's twin slot cancels 18 points, far above any draw EV.
	v := scriptedView(t, "9hKc7d8s", "9s", map[deck.Rank]int{deck.King: 4})

	agent := &BasicLogic{}
	action, err := agent.Decide(v)
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}
	if action.Type != golf.ActionTakeDiscard {
		t.Fatalf("Action = %+v, want take_discard", action)
	}
	if action.Position != 1 {
		t.Errorf("Position = %d, want 1 (replacing the king pairs the nines)", action.Position)
	}
}

func TestBasicLogicFlipsWhenNothingImproves(t *testing.T) {
	t.Parallel()
	// Grid of aces and a jack scores 3; the discard is a king and the
	// deck holds only kings, so no swap helps. The fallback flips the
	// lowest hidden card (the jack).
	v := scriptedView(t, "AsAhAcJd", "Kd", map[deck.Rank]int{deck.King: 4})

	agent := &BasicLogic{}
	action, err := agent.Decide(v)
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}
	if action.Type != golf.ActionDrawDeck || action.Keep {
		t.Fatalf("Action = %+v, want draw-and-discard", action)
	}
	if action.FlipPosition != 3 {
		t.Errorf("FlipPosition = %d, want 3 (the jack is the cheapest reveal)", action.FlipPosition)
	}
}

func TestBasicLogicIsDeterministic(t *testing.T) {
	t.Parallel()
	agent := &BasicLogic{}
	v := scriptedView(t, "9hKc7d8s", "2s", map[deck.Rank]int{deck.Ace: 2, deck.Queen: 2})

	first, err := agent.Decide(v)
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := agent.Decide(v)
		if err != nil {
			t.Fatalf("Decide failed: %v", err)
		}
		if again != first {
			t.Fatalf("Decision changed between calls: %+v vs %+v", first, again)
		}
	}
}

func TestEVPrefersCertainDiscard(t *testing.T) {
	t.Parallel()
	// Nothing is public, the discard is an ace and the deck holds only
	// kings: the certain ace beats any draw.
	v := scriptedView(t, "9hKc7d8s", "As", map[deck.Rank]int{deck.King: 4})

	agent := &EV{}
	action, err := agent.Decide(v)
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}
	if action.Type != golf.ActionTakeDiscard {
		t.Errorf("Action = %+v, want take_discard", action)
	}
}

func TestEVDrawsWhenDeckIsRich(t *testing.T) {
	t.Parallel()
	// The discard is a king and the deck is half aces: drawing carries
	// the higher expected improvement.
	v := scriptedView(t, "9hKc7d8s", "Ks", map[deck.Rank]int{deck.Ace: 2, deck.King: 2})

	agent := &EV{}
	action, err := agent.Decide(v)
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}
	if action.Type != golf.ActionDrawDeck || !action.Keep {
		t.Errorf("Action = %+v, want draw-and-keep", action)
	}
}

func TestEVIgnoresOwnHiddenCards(t *testing.T) {
	t.Parallel()
	// Two grids with different hidden cards but identical public state
	// must produce identical decisions.
	v1 := scriptedView(t, "9hKc7d8s", "As", map[deck.Rank]int{deck.King: 4})
	v2 := scriptedView(t, "2h3c4d5s", "As", map[deck.Rank]int{deck.King: 4})

	agent := &EV{}
	a1, err := agent.Decide(v1)
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}
	a2, err := agent.Decide(v2)
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}
	if a1 != a2 {
		t.Errorf("Hidden cards leaked into the decision: %+v vs %+v", a1, a2)
	}
}
