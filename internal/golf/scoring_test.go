package golf

import (
	"strings"
	"testing"

	"github.com/lox/cardgolf/internal/deck"
)

func cardPtrs(s string) []*deck.Card {
	cards := deck.MustParseCards(s)
	out := make([]*deck.Card, len(cards))
	for i := range cards {
		out[i] = &cards[i]
	}
	return out
}

func TestScoreCards(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		cards string
		want  int
	}{
		{"no pairs", "As2h5cKd", 1 + 2 + 5 + 10},
		{"jacks are zero", "JsJdQcKh", 20},
		{"one pair cancels", "5s5h2cAd", 3},
		{"two pairs cancel everything", "5s5h7c7d", 0},
		{"four of a kind", "9s9h9c9d", 0},
		{"three of a kind pairs greedily", "4s4h4cKd", 4 + 10},
		{"queen king do not pair", "QsKh2c3d", 10 + 10 + 2 + 3},
		{"aces pair", "AsAh9c8d", 9 + 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScoreCards(cardPtrs(tt.cards)); got != tt.want {
				t.Errorf("ScoreCards(%s) = %d, want %d", tt.cards, got, tt.want)
			}
		})
	}
}

func TestScoreCardsMasked(t *testing.T) {
	t.Parallel()
	// Hidden slots contribute nothing and never pair.
	cards := cardPtrs("5s5h2cAd")
	cards[1] = nil
	if got := ScoreCards(cards); got != 5+2+1 {
		t.Errorf("Masked score = %d, want 8", got)
	}

	if got := ScoreCards([]*deck.Card{nil, nil, nil, nil}); got != 0 {
		t.Errorf("All-hidden score = %d, want 0", got)
	}
}

func TestPairsIn(t *testing.T) {
	t.Parallel()
	pairs := PairsIn(cardPtrs("9s9h9c9d"))
	if len(pairs) != 2 {
		t.Fatalf("Expected 2 pairs, got %v", pairs)
	}
	if pairs[0] != [2]int{0, 1} || pairs[1] != [2]int{2, 3} {
		t.Errorf("Greedy matching produced %v", pairs)
	}

	if pairs := PairsIn(cardPtrs("As2h3c4d")); len(pairs) != 0 {
		t.Errorf("Expected no pairs, got %v", pairs)
	}
}

func TestScoreGridPanicsOnIncompleteGrid(t *testing.T) {
	t.Parallel()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("Expected panic for unfilled slot")
		}
		if !strings.Contains(r.(string), "incomplete grid") {
			t.Errorf("Unexpected panic message: %v", r)
		}
	}()
	ScoreGrid(NewPlayer("Empty", AgentHuman))
}
