package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/lox/cardgolf/internal/golf"
	"github.com/lox/cardgolf/internal/golf/ai"
	"github.com/lox/cardgolf/internal/randutil"
)

var CLI struct {
	Mode     string `default:"1v1" enum:"1v1,1v3" help:"Match mode"`
	Opponent string `default:"basic_logic" enum:"random,basic_logic,ev_ai" help:"Opponent type in 1v1 mode"`
	Name     string `default:"You" help:"Your player name"`
	Games    int    `default:"1" help:"Number of games in the match"`
	Seed     int64  `default:"0" help:"RNG seed (0 for random)"`
	Verbose  bool   `short:"v" help:"Verbose logging"`
}

func main() {
	kctx := kong.Parse(&CLI)

	logger := log.New(os.Stderr)
	if CLI.Verbose {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.WarnLevel)
	}

	match, err := golf.NewMatch(golf.MatchOptions{
		Mode:       CLI.Mode,
		PlayerName: CLI.Name,
		Opponent:   golf.AgentType(CLI.Opponent),
		NumGames:   CLI.Games,
		Seed:       CLI.Seed,
	})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		kctx.Exit(1)
	}

	agents, err := ai.ForPlayers(match.Players(), randutil.New(randutil.NewSeed()))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		kctx.Exit(1)
	}

	game := &cliGame{
		match:  match,
		agents: agents,
		styles: NewStyles(),
		in:     bufio.NewScanner(os.Stdin),
		logger: logger,
	}
	if err := game.run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		kctx.Exit(1)
	}
}

type cliGame struct {
	match  *golf.Match
	agents map[int]ai.Agent
	styles *Styles
	in     *bufio.Scanner
	logger *log.Logger
}

func (g *cliGame) run() error {
	for {
		round := g.match.Round()
		fmt.Println(g.styles.Header.Render(fmt.Sprintf(" GOLF — game %d of %d ", g.match.CurrentGame(), g.match.NumGames())))
		fmt.Println()

		for !round.Over() {
			if err := g.playTurn(round); err != nil {
				return err
			}
		}

		fmt.Println(g.styles.Scoreboard(round, g.match.CumulativeScores()))

		if g.match.MatchWinner() != nil {
			for _, i := range g.match.MatchWinner() {
				fmt.Println(g.styles.Winner.Render(fmt.Sprintf("Match winner: %s", g.match.Players()[i].Name)))
			}
			return nil
		}

		if !g.prompt("Play the next game? (y/n): ").yes() {
			return nil
		}
		if err := g.match.NextGame(); err != nil {
			return err
		}
	}
}

func (g *cliGame) playTurn(round *golf.Round) error {
	seat := round.Turn()
	player := g.match.Players()[seat]

	if player.Agent != golf.AgentHuman {
		before := len(round.History())
		if err := g.runAISeat(round, seat); err != nil {
			return err
		}
		for _, entry := range round.History()[before:] {
			fmt.Println(g.styles.Action.Render("  " + entry))
		}
		return nil
	}

	fmt.Println(g.styles.SubHeader.Render("— Your turn —"))
	fmt.Println(g.styles.Table(round))

	hidden := player.HiddenPositions()
	if len(hidden) == 0 {
		fmt.Println("All your cards are face up; passing.")
		return g.match.Apply(seat, golf.Action{})
	}

	for {
		action, quit, err := g.promptAction(round, player, hidden)
		if err != nil {
			fmt.Println(err)
			continue
		}
		if quit {
			fmt.Println("Game quit.")
			os.Exit(0)
		}
		if err := g.match.Apply(seat, action); err != nil {
			fmt.Println(err)
			continue
		}
		return nil
	}
}

func (g *cliGame) runAISeat(round *golf.Round, seat int) error {
	player := g.match.Players()[seat]
	if len(player.HiddenPositions()) == 0 {
		return g.match.Apply(seat, golf.Action{})
	}
	agent := g.agents[seat]
	action, err := agent.Decide(round.ViewFor(seat))
	if err != nil {
		return fmt.Errorf("agent for %s failed: %w", player.Name, err)
	}
	g.logger.Debug("AI action", "player", player.Name, "type", action.Type, "position", action.Position)
	return g.match.Apply(seat, action)
}

func (g *cliGame) promptAction(round *golf.Round, player *golf.Player, hidden []int) (golf.Action, bool, error) {
	choices := make([]string, len(hidden))
	for i, pos := range hidden {
		choices[i] = strconv.Itoa(pos + 1)
	}
	positions := strings.Join(choices, ",")

	in := g.prompt("1: take discard, 2: draw from deck, q: quit > ")
	switch in.text {
	case "q":
		return golf.Action{}, true, nil
	case "1":
		pos, err := g.promptPosition("Place at position ("+positions+"): ", hidden)
		if err != nil {
			return golf.Action{}, false, err
		}
		return golf.TakeDiscard(pos), false, nil
	case "2":
		top, ok := round.Deck().Peek()
		if !ok {
			return golf.Action{}, false, fmt.Errorf("no cards left in deck")
		}
		fmt.Printf("You drew: %s\n", g.styles.Card(top))
		if g.prompt("Keep it? (y/n): ").yes() {
			pos, err := g.promptPosition("Place at position ("+positions+"): ", hidden)
			if err != nil {
				return golf.Action{}, false, err
			}
			return golf.DrawKeep(pos), false, nil
		}
		if len(hidden) == 1 {
			fmt.Printf("Flipping position %d (only option).\n", hidden[0]+1)
			return golf.DrawDiscard(hidden[0]), false, nil
		}
		pos, err := g.promptPosition("Flip position ("+positions+"): ", hidden)
		if err != nil {
			return golf.Action{}, false, err
		}
		return golf.DrawDiscard(pos), false, nil
	default:
		return golf.Action{}, false, fmt.Errorf("invalid choice %q", in.text)
	}
}

func (g *cliGame) promptPosition(msg string, legal []int) (int, error) {
	in := g.prompt(msg)
	n, err := strconv.Atoi(in.text)
	if err != nil {
		return 0, fmt.Errorf("invalid position %q", in.text)
	}
	pos := n - 1
	for _, l := range legal {
		if pos == l {
			return pos, nil
		}
	}
	return 0, fmt.Errorf("position %d is not available", n)
}

type input struct{ text string }

func (i input) yes() bool {
	return i.text == "y" || i.text == "yes"
}

func (g *cliGame) prompt(msg string) input {
	fmt.Print(msg)
	if !g.in.Scan() {
		os.Exit(0)
	}
	return input{text: strings.ToLower(strings.TrimSpace(g.in.Text()))}
}
