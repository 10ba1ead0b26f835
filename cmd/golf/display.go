package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/cardgolf/internal/deck"
	"github.com/lox/cardgolf/internal/golf"
)

// Styles contains the lipgloss styling for terminal play.
type Styles struct {
	Header    lipgloss.Style
	SubHeader lipgloss.Style
	CardRed   lipgloss.Style
	CardBlack lipgloss.Style
	Hidden    lipgloss.Style
	Action    lipgloss.Style
	Winner    lipgloss.Style
	Separator lipgloss.Style
}

// NewStyles creates the default style set.
func NewStyles() *Styles {
	return &Styles{
		Header: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#04B575")).
			Padding(0, 2).
			Bold(true),
		SubHeader: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true),
		CardRed: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true),
		CardBlack: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA")).
			Bold(true),
		Hidden: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")),
		Action: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#74B9FF")),
		Winner: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true),
		Separator: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")),
	}
}

// Card renders a card with suit coloring.
func (s *Styles) Card(c deck.Card) string {
	if c.IsRed() {
		return s.CardRed.Render(c.String())
	}
	return s.CardBlack.Render(c.String())
}

// Grid renders a player's 2x2 grid. For the viewer's own grid the setup
// peek is visible; opponents show only public cards.
func (s *Styles) Grid(p *golf.Player, own bool) string {
	cards := p.PublicCards()
	if own {
		cards = p.OwnerVisibleCards()
	}

	cell := func(i int) string {
		if cards[i] == nil {
			return s.Hidden.Render(" ? ")
		}
		return fmt.Sprintf("%3s", s.Card(*cards[i]))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[ %s | %s ]\n", cell(0), cell(1))
	fmt.Fprintf(&b, "[ %s | %s ]", cell(2), cell(3))
	return b.String()
}

// Table renders the full table state for the human at seat 0.
func (s *Styles) Table(r *golf.Round) string {
	var b strings.Builder
	for i, p := range r.Players() {
		label := p.Name
		if i == 0 {
			label += " (You)"
		} else {
			label += fmt.Sprintf(" (%s)", p.Agent)
		}
		b.WriteString(s.SubHeader.Render(label))
		b.WriteString("\n")
		b.WriteString(s.Grid(p, i == 0))
		b.WriteString("\n\n")
	}

	if top, ok := r.DiscardTop(); ok {
		fmt.Fprintf(&b, "Discard: %s   Deck: %d cards   Cycle %d/%d\n",
			s.Card(top), r.Deck().Size(), r.RoundNum(), r.MaxRounds())
	}
	return b.String()
}

// Scoreboard renders end-of-round scores.
func (s *Styles) Scoreboard(r *golf.Round, cumulative []int) string {
	var b strings.Builder
	b.WriteString(s.Header.Render("ROUND OVER"))
	b.WriteString("\n")
	for i, p := range r.Players() {
		line := fmt.Sprintf("%-20s %3d points (total %d)", p.Name, r.Scores()[i], cumulative[i])
		if i == r.Winner() {
			line = s.Winner.Render(line + "  ← winner")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
