package server

import "github.com/lox/cardgolf/internal/prob"

// Client → Server requests

type CreateGameRequest struct {
	Mode       string `json:"mode"`
	Opponent   string `json:"opponent"`
	BotName    string `json:"bot_name,omitempty"`
	PlayerName string `json:"player_name"`
	NumGames   int    `json:"num_games"`
}

type ActionRequest struct {
	Type         string `json:"type"`
	Position     int    `json:"position"`
	Keep         bool   `json:"keep,omitempty"`
	FlipPosition *int   `json:"flip_position,omitempty"`
}

type MakeMoveRequest struct {
	GameID string        `json:"game_id"`
	Action ActionRequest `json:"action"`
}

type GameIDRequest struct {
	GameID string `json:"game_id"`
}

// Server → Client responses

type CreateGameResponse struct {
	Success   bool       `json:"success"`
	GameID    string     `json:"game_id"`
	GameState *GameState `json:"game_state"`
}

type GameStateResponse struct {
	Success   bool       `json:"success"`
	GameState *GameState `json:"game_state"`
}

type DrawCardResponse struct {
	Success   bool      `json:"success"`
	DrawnCard *CardJSON `json:"drawn_card"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type AvailableAction struct {
	Type        string `json:"type"`
	Position    int    `json:"position,omitempty"`
	Description string `json:"description"`
}

type AvailableActionsResponse struct {
	Actions []AvailableAction `json:"actions"`
}

// game_state payload

type CardJSON struct {
	Rank  string `json:"rank"`
	Suit  string `json:"suit"`
	Score int    `json:"score"`
}

// GridCardJSON is one grid slot as the human client sees it. Hidden
// slots carry no rank, suit or score.
type GridCardJSON struct {
	Rank    *string `json:"rank"`
	Suit    *string `json:"suit"`
	Score   *int    `json:"score"`
	Visible bool    `json:"visible"`
	Public  bool    `json:"public"`
}

type PlayerJSON struct {
	Name      string          `json:"name"`
	AgentType string          `json:"agent_type"`
	Grid      []*GridCardJSON `json:"grid"`
	Pairs     [][2]int        `json:"pairs"`
	IsHuman   bool            `json:"is_human"`
}

type ProbabilitiesJSON struct {
	DeckCounts                 map[string]int     `json:"deck_counts"`
	ProbDrawPair               []string           `json:"prob_draw_pair"`
	ProbImproveHand            []string           `json:"prob_improve_hand"`
	ProbDrawLower              []string           `json:"prob_draw_lower"`
	ExpectedValueDrawVsDiscard prob.ExpectedValue `json:"expected_value_draw_vs_discard"`
	AverageDeckScore           float64            `json:"average_deck_score"`
}

type GameState struct {
	Players            []PlayerJSON      `json:"players"`
	CurrentTurn        int               `json:"current_turn"`
	Round              int               `json:"round"`
	MaxRounds          int               `json:"max_rounds"`
	CurrentGame        int               `json:"current_game"`
	NumGames           int               `json:"num_games"`
	Mode               string            `json:"mode"`
	DeckSize           int               `json:"deck_size"`
	DiscardTop         *CardJSON         `json:"discard_top"`
	GameOver           bool              `json:"game_over"`
	Winner             *int              `json:"winner"`
	MatchWinner        []int             `json:"match_winner"`
	PublicScores       []int             `json:"public_scores"`
	CumulativeScores   []int             `json:"cumulative_scores"`
	ActionHistory      []string          `json:"action_history"`
	Probabilities      ProbabilitiesJSON `json:"probabilities"`
	WaitingForNextGame bool              `json:"waiting_for_next_game"`
}
