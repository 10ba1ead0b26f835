// Command simulate plays headless AI-vs-AI Golf matches and reports
// per-policy scoring statistics, for comparing decision policies.
package main

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/cardgolf/internal/golf"
	"github.com/lox/cardgolf/internal/golf/ai"
	"github.com/lox/cardgolf/internal/randutil"
)

var CLI struct {
	Games   int    `default:"1000" help:"Number of rounds to simulate"`
	Seats   string `default:"random,basic_logic,ev_ai" help:"Comma-separated agent types"`
	Seed    int64  `default:"0" help:"RNG seed (0 for random)"`
	Verbose bool   `short:"v" help:"Verbose logging"`
}

// SeatStats accumulates per-seat results across simulated rounds.
type SeatStats struct {
	Name      string
	Wins      int
	SumScore  float64
	SumScore2 float64
	Rounds    int
}

func (s *SeatStats) Record(score int, won bool) {
	s.Rounds++
	s.SumScore += float64(score)
	s.SumScore2 += float64(score) * float64(score)
	if won {
		s.Wins++
	}
}

func (s *SeatStats) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.SumScore / float64(s.Rounds)
}

func (s *SeatStats) StdDev() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	return math.Sqrt((s.SumScore2 - float64(s.Rounds)*mean*mean) / float64(s.Rounds-1))
}

func main() {
	kctx := kong.Parse(&CLI)

	logger := log.New(os.Stderr)
	if CLI.Verbose {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.WarnLevel)
	}

	seed := CLI.Seed
	if seed == 0 {
		seed = randutil.NewSeed()
	}
	logger.Info("Simulating", "games", CLI.Games, "seats", CLI.Seats, "seed", seed)

	var seats []golf.AgentType
	for _, s := range strings.Split(CLI.Seats, ",") {
		t := golf.AgentType(strings.TrimSpace(s))
		if !t.Valid() || t == golf.AgentHuman {
			fmt.Printf("Error: unknown agent type %q\n", s)
			kctx.Exit(1)
		}
		seats = append(seats, t)
	}
	if len(seats) < 2 {
		fmt.Println("Error: at least two seats required")
		kctx.Exit(1)
	}

	stats := make([]*SeatStats, len(seats))
	for i, t := range seats {
		stats[i] = &SeatStats{Name: fmt.Sprintf("%s #%d", t, i+1)}
	}

	for game := 0; game < CLI.Games; game++ {
		scores, winner, err := playRound(seats, seed+int64(game))
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			kctx.Exit(1)
		}
		for i, score := range scores {
			stats[i].Record(score, i == winner)
		}
		logger.Debug("Round finished", "game", game, "scores", scores, "winner", winner)
	}

	printReport(stats, CLI.Games)
}

// playRound runs one seeded round to completion and returns scores and
// the winning seat.
func playRound(seats []golf.AgentType, seed int64) ([]int, int, error) {
	players := make([]*golf.Player, len(seats))
	for i, t := range seats {
		players[i] = golf.NewPlayer(fmt.Sprintf("%s #%d", t, i+1), t)
	}

	match := golf.NewMatchWithPlayers(players, 1, 0, seed)
	agents, err := ai.ForPlayers(players, randutil.New(seed))
	if err != nil {
		return nil, 0, err
	}

	round := match.Round()
	for !round.Over() {
		seat := round.Turn()
		if len(players[seat].HiddenPositions()) == 0 {
			if err := match.Apply(seat, golf.Action{}); err != nil {
				return nil, 0, err
			}
			continue
		}
		action, err := agents[seat].Decide(round.ViewFor(seat))
		if err != nil {
			return nil, 0, fmt.Errorf("agent for seat %d: %w", seat, err)
		}
		if err := match.Apply(seat, action); err != nil {
			return nil, 0, fmt.Errorf("seat %d action rejected: %w", seat, err)
		}
	}
	return round.Scores(), round.Winner(), nil
}

func printReport(stats []*SeatStats, games int) {
	header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#04B575"))
	fmt.Println(header.Render(fmt.Sprintf("Results over %d rounds", games)))
	fmt.Printf("%-22s %8s %10s %10s %8s\n", "seat", "wins", "win %", "avg score", "stddev")
	for _, s := range stats {
		fmt.Printf("%-22s %8d %9.1f%% %10.2f %8.2f\n",
			s.Name, s.Wins, float64(s.Wins)/float64(games)*100, s.Mean(), s.StdDev())
	}
}
