package deck

import (
	"testing"
)

func TestRankPoints(t *testing.T) {
	t.Parallel()
	tests := []struct {
		rank Rank
		want int
	}{
		{Ace, 1},
		{Two, 2},
		{Five, 5},
		{Nine, 9},
		{Ten, 10},
		{Jack, 0},
		{Queen, 10},
		{King, 10},
	}

	for _, tt := range tests {
		if got := tt.rank.Points(); got != tt.want {
			t.Errorf("%s.Points() = %d, want %d", tt.rank, got, tt.want)
		}
	}
}

func TestCardString(t *testing.T) {
	t.Parallel()
	if got := NewCard(Ace, Spades).String(); got != "A♠" {
		t.Errorf("Expected 'A♠', got %s", got)
	}
	if got := NewCard(Ten, Hearts).String(); got != "10♥" {
		t.Errorf("Expected '10♥', got %s", got)
	}
	if got := NewCard(Jack, Clubs).String(); got != "J♣" {
		t.Errorf("Expected 'J♣', got %s", got)
	}
}

func TestParseCard(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input   string
		want    Card
		wantErr bool
	}{
		{"As", NewCard(Ace, Spades), false},
		{"Th", NewCard(Ten, Hearts), false},
		{"2c", NewCard(Two, Clubs), false},
		{"Kd", NewCard(King, Diamonds), false},
		{"qs", NewCard(Queen, Spades), false},
		{"Xs", Card{}, true},
		{"Ax", Card{}, true},
		{"A", Card{}, true},
		{"", Card{}, true},
	}

	for _, tt := range tests {
		got, err := ParseCard(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseCard(%q) expected error, got %v", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseCard(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCard(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseCards(t *testing.T) {
	t.Parallel()
	cards, err := ParseCards("AsKh2c")
	if err != nil {
		t.Fatalf("ParseCards failed: %v", err)
	}
	if len(cards) != 3 {
		t.Fatalf("Expected 3 cards, got %d", len(cards))
	}
	if cards[0] != NewCard(Ace, Spades) || cards[2] != NewCard(Two, Clubs) {
		t.Errorf("Unexpected cards: %v", cards)
	}

	if _, err := ParseCards("AsK"); err == nil {
		t.Error("Expected error for odd-length string")
	}
}

func TestRanksCoverAllThirteen(t *testing.T) {
	t.Parallel()
	ranks := Ranks()
	if len(ranks) != 13 {
		t.Fatalf("Expected 13 ranks, got %d", len(ranks))
	}
	if ranks[0] != Ace || ranks[12] != King {
		t.Errorf("Ranks out of order: first %s, last %s", ranks[0], ranks[12])
	}
}
