package golf

import (
	"fmt"
	rand "math/rand/v2"

	"github.com/lox/cardgolf/internal/randutil"
)

// Match modes supported by the client.
const (
	Mode1v1 = "1v1"
	Mode1v3 = "1v3"
)

// MatchOptions configures a new match.
type MatchOptions struct {
	Mode       string
	PlayerName string
	// Opponent selects the AI type for the single opponent in 1v1 mode.
	Opponent AgentType
	// BotName overrides the opponent's display name in 1v1 mode.
	BotName   string
	NumGames  int
	MaxRounds int
	// Seed fixes the shuffle RNG; zero draws a fresh seed.
	Seed int64
}

// Match sequences NumGames rounds over a stable set of players,
// accumulating per-seat scores and determining a match winner.
type Match struct {
	mode        string
	players     []*Player
	round       *Round
	rng         *rand.Rand
	numGames    int
	currentGame int
	maxRounds   int
	cumulative  []int
	roundScores [][]int
	matchWinner []int
	waitingNext bool
	settled     bool
}

// NewMatch creates a match and deals its first round. The human always
// sits at seat 0, matching the client contract.
func NewMatch(opts MatchOptions) (*Match, error) {
	if opts.Mode == "" {
		opts.Mode = Mode1v1
	}
	if opts.Mode != Mode1v1 && opts.Mode != Mode1v3 {
		return nil, fmt.Errorf("unknown mode %q", opts.Mode)
	}
	if opts.NumGames <= 0 {
		opts.NumGames = 1
	}
	if opts.PlayerName == "" {
		opts.PlayerName = "Human"
	}
	if opts.Seed == 0 {
		opts.Seed = randutil.NewSeed()
	}

	var players []*Player
	switch opts.Mode {
	case Mode1v1:
		opponent := opts.Opponent
		if opponent == "" {
			opponent = AgentRandom
		}
		if !opponent.Valid() || opponent == AgentHuman {
			return nil, fmt.Errorf("unknown opponent type %q", opts.Opponent)
		}
		botName := opts.BotName
		if botName == "" {
			botName = opponent.DisplayName()
		}
		players = []*Player{
			NewPlayer(opts.PlayerName, AgentHuman),
			NewPlayer(botName, opponent),
		}
	case Mode1v3:
		players = []*Player{
			NewPlayer(opts.PlayerName, AgentHuman),
			NewPlayer(AgentRandom.DisplayName(), AgentRandom),
			NewPlayer(AgentBasicLogic.DisplayName(), AgentBasicLogic),
			NewPlayer(AgentEV.DisplayName(), AgentEV),
		}
	}

	m := &Match{
		mode:        opts.Mode,
		players:     players,
		rng:         randutil.New(opts.Seed),
		numGames:    opts.NumGames,
		currentGame: 1,
		maxRounds:   opts.MaxRounds,
		cumulative:  make([]int, len(players)),
	}
	m.round = NewRound(m.players, m.rng, m.maxRounds)
	return m, nil
}

// NewMatchWithPlayers creates a match over custom seats, for headless
// simulation where no seat is human.
func NewMatchWithPlayers(players []*Player, numGames, maxRounds int, seed int64) *Match {
	if numGames <= 0 {
		numGames = 1
	}
	if seed == 0 {
		seed = randutil.NewSeed()
	}
	m := &Match{
		mode:        Mode1v1,
		players:     players,
		rng:         randutil.New(seed),
		numGames:    numGames,
		currentGame: 1,
		maxRounds:   maxRounds,
		cumulative:  make([]int, len(players)),
	}
	m.round = NewRound(m.players, m.rng, m.maxRounds)
	return m
}

// Round returns the round in progress (or the just-finished one while
// waiting for the next game).
func (m *Match) Round() *Round { return m.round }

// Players returns the seats in turn order.
func (m *Match) Players() []*Player { return m.players }

// Mode returns the match mode.
func (m *Match) Mode() string { return m.mode }

// NumGames returns the total rounds in the match.
func (m *Match) NumGames() int { return m.numGames }

// CurrentGame returns the 1-based index of the round in play.
func (m *Match) CurrentGame() int { return m.currentGame }

// CumulativeScores returns each seat's total over completed rounds.
func (m *Match) CumulativeScores() []int {
	out := make([]int, len(m.cumulative))
	copy(out, m.cumulative)
	return out
}

// RoundScores returns the per-round score history.
func (m *Match) RoundScores() [][]int { return m.roundScores }

// MatchWinner returns the seat indices sharing the minimum cumulative
// score, or nil while the match is unfinished. Ties produce multiple
// winners.
func (m *Match) MatchWinner() []int { return m.matchWinner }

// WaitingForNextGame reports whether the current round has ended with
// more rounds left to play.
func (m *Match) WaitingForNextGame() bool { return m.waitingNext }

// Apply resolves one turn and, if it ends the round, settles scores into
// the match totals.
func (m *Match) Apply(seat int, action Action) error {
	if err := m.round.Apply(seat, action); err != nil {
		return err
	}
	if m.round.Over() {
		m.settle()
	}
	return nil
}

// settle folds the finished round's scores into the cumulative totals,
// exactly once per round.
func (m *Match) settle() {
	if m.settled {
		return
	}
	m.settled = true

	scores := m.round.Scores()
	m.roundScores = append(m.roundScores, scores)
	for i, s := range scores {
		m.cumulative[i] += s
	}

	if m.currentGame >= m.numGames {
		min := m.cumulative[0]
		for _, s := range m.cumulative[1:] {
			if s < min {
				min = s
			}
		}
		for i, s := range m.cumulative {
			if s == min {
				m.matchWinner = append(m.matchWinner, i)
			}
		}
	} else {
		m.waitingNext = true
	}
}

// NextGame deals the next round of the match, preserving seats but
// resetting grids and deck.
func (m *Match) NextGame() error {
	if !m.waitingNext {
		if m.matchWinner != nil {
			return ErrMatchComplete
		}
		return ErrNotWaitingForNextGame
	}

	m.currentGame++
	m.waitingNext = false
	m.settled = false
	m.round = NewRound(m.players, m.rng, m.maxRounds)
	return nil
}
