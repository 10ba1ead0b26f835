package server

import (
	"github.com/lox/cardgolf/internal/deck"
	"github.com/lox/cardgolf/internal/golf"
	"github.com/lox/cardgolf/internal/prob"
)

// buildGameState renders a match snapshot from the human player's
// perspective (seat 0): the human sees their public and peeked slots,
// opponents only their public slots, and everything once the round ends.
func buildGameState(m *golf.Match) *GameState {
	round := m.Round()
	over := round.Over()

	players := make([]PlayerJSON, len(m.Players()))
	publicScores := make([]int, len(m.Players()))
	for i, p := range m.Players() {
		visible := p.PublicCards()
		if i == 0 {
			visible = p.OwnerVisibleCards()
		}
		if over {
			visible = p.AllCards()
		}

		grid := make([]*GridCardJSON, golf.GridSize)
		for j := range p.Grid {
			slot := &GridCardJSON{Public: p.Grid[j].Public}
			if visible[j] != nil {
				rank := visible[j].Rank.String()
				suit := visible[j].Suit.String()
				score := visible[j].Points()
				slot.Rank, slot.Suit, slot.Score = &rank, &suit, &score
				slot.Visible = true
			}
			grid[j] = slot
		}

		publicScores[i] = golf.ScoreCards(p.PublicCards())
		players[i] = PlayerJSON{
			Name:      p.Name,
			AgentType: string(p.Agent),
			Grid:      grid,
			Pairs:     pairsOrEmpty(p.PublicCards()),
			IsHuman:   p.Agent == golf.AgentHuman,
		}
	}

	state := &GameState{
		Players:            players,
		CurrentTurn:        round.Turn(),
		Round:              round.RoundNum(),
		MaxRounds:          round.MaxRounds(),
		CurrentGame:        m.CurrentGame(),
		NumGames:           m.NumGames(),
		Mode:               m.Mode(),
		DeckSize:           round.Deck().Size(),
		GameOver:           over,
		MatchWinner:        m.MatchWinner(),
		PublicScores:       publicScores,
		CumulativeScores:   m.CumulativeScores(),
		ActionHistory:      round.History(),
		Probabilities:      buildProbabilities(m),
		WaitingForNextGame: m.WaitingForNextGame(),
	}

	if top, ok := round.DiscardTop(); ok {
		state.DiscardTop = cardJSON(top)
	}
	if over {
		winner := round.Winner()
		state.Winner = &winner
	}
	return state
}

// buildProbabilities computes the client-facing statistics. Per-player
// probabilities use only the cards the human can see of that grid, so
// the numbers never leak hidden ranks; the draw-vs-discard EV is for the
// human's own decision.
func buildProbabilities(m *golf.Match) ProbabilitiesJSON {
	round := m.Round()
	counts := round.Deck().RemainingCounts()
	size := round.Deck().Size()

	deckCounts := make(map[string]int, len(counts))
	for rank, count := range counts {
		deckCounts[rank.String()] = count
	}

	out := ProbabilitiesJSON{
		DeckCounts:       deckCounts,
		AverageDeckScore: prob.AverageDeckScore(counts),
	}

	for i, p := range m.Players() {
		visible := p.PublicCards()
		if i == 0 {
			visible = p.OwnerVisibleCards()
		}
		out.ProbDrawPair = append(out.ProbDrawPair, prob.FormatPercent(prob.DrawPair(visible, counts, size)))
		out.ProbImproveHand = append(out.ProbImproveHand, prob.FormatPercent(prob.ImproveHand(visible, counts, size)))
		out.ProbDrawLower = append(out.ProbDrawLower, prob.FormatPercent(prob.DrawLower(visible, counts, size)))
	}

	if top, ok := round.DiscardTop(); ok {
		human := m.Players()[0]
		out.ExpectedValueDrawVsDiscard = prob.EvalDrawVsDiscard(human.OwnerVisibleCards(), counts, size, top)
	}
	return out
}

func cardJSON(c deck.Card) *CardJSON {
	return &CardJSON{
		Rank:  c.Rank.String(),
		Suit:  c.Suit.String(),
		Score: c.Points(),
	}
}

func pairsOrEmpty(cards []*deck.Card) [][2]int {
	pairs := golf.PairsIn(cards)
	if pairs == nil {
		return [][2]int{}
	}
	return pairs
}
