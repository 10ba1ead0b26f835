package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/cardgolf/internal/golf"
	"github.com/lox/cardgolf/internal/golf/ai"
	"github.com/lox/cardgolf/internal/randutil"
)

// Server is the HTTP/JSON game server the browser client talks to.
type Server struct {
	cfg      *Config
	logger   *log.Logger
	store    *Store
	upgrader websocket.Upgrader
	handler  http.Handler
}

// NewServer wires the routes for the game API.
func NewServer(cfg *Config, logger *log.Logger, store *Store) *Server {
	s := &Server{
		cfg:    cfg,
		logger: logger.WithPrefix("server"),
		store:  store,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /create_game", s.handleCreateGame)
	mux.HandleFunc("GET /game_state/{game_id}", s.handleGameState)
	mux.HandleFunc("GET /draw_card/{game_id}", s.handleDrawCard)
	mux.HandleFunc("GET /get_available_actions/{game_id}", s.handleAvailableActions)
	mux.HandleFunc("POST /make_move", s.handleMakeMove)
	mux.HandleFunc("POST /run_ai_turn", s.handleRunAITurn)
	mux.HandleFunc("POST /next_game", s.handleNextGame)
	mux.HandleFunc("GET /ws", s.handleWS)
	mux.HandleFunc("GET /health", s.handleHealth)

	s.handler = s.recoverPanics(mux)
	return s
}

// ServeHTTP serves http
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Start blocks serving the API on the configured address.
func (s *Server) Start() error {
	s.logger.Info("Starting game server", "addr", s.cfg.ListenAddress())
	return http.ListenAndServe(s.cfg.ListenAddress(), s.handler)
}

// recoverPanics converts invariant violations into 500 responses instead
// of taking the process down mid-request.
func (s *Server) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				s.logger.Error("Panic handling request", "path", r.URL.Path, "panic", v, "stack", string(debug.Stack()))
				s.writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, "OK")
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	defer r.Body.Close()

	match, err := golf.NewMatch(golf.MatchOptions{
		Mode:       req.Mode,
		PlayerName: req.PlayerName,
		Opponent:   golf.AgentType(req.Opponent),
		BotName:    req.BotName,
		NumGames:   req.NumGames,
		MaxRounds:  s.cfg.Game.MaxRounds,
	})
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	agents, err := ai.ForPlayers(match.Players(), randutil.New(randutil.NewSeed()))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	session, err := s.store.Create(match, agents)
	if err != nil {
		s.writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	var state *GameState
	_ = session.Do(func(m *golf.Match, _ map[int]ai.Agent) error {
		state = buildGameState(m)
		return nil
	})

	s.logger.Info("Created game", "game_id", session.ID, "mode", match.Mode(), "num_games", match.NumGames())
	s.writeJSON(w, http.StatusOK, CreateGameResponse{Success: true, GameID: session.ID, GameState: state})
}

func (s *Server) handleGameState(w http.ResponseWriter, r *http.Request) {
	session, ok := s.store.Get(r.PathValue("game_id"))
	if !ok {
		s.writeError(w, http.StatusNotFound, "Game not found")
		return
	}

	var state *GameState
	_ = session.Do(func(m *golf.Match, _ map[int]ai.Agent) error {
		state = buildGameState(m)
		return nil
	})
	s.writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleDrawCard(w http.ResponseWriter, r *http.Request) {
	session, ok := s.store.Get(r.PathValue("game_id"))
	if !ok {
		s.writeError(w, http.StatusNotFound, "Game not found")
		return
	}

	var card *CardJSON
	err := session.Do(func(m *golf.Match, _ map[int]ai.Agent) error {
		round := m.Round()
		if round.Over() || round.Turn() != 0 {
			return fmt.Errorf("%w: not your turn or game is over", golf.ErrNotYourTurn)
		}
		top, ok := round.Deck().Peek()
		if !ok {
			return golf.ErrEmptyDeck
		}
		card = cardJSON(top)
		return nil
	})
	if err != nil {
		s.writeGameError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, DrawCardResponse{Success: true, DrawnCard: card})
}

func (s *Server) handleAvailableActions(w http.ResponseWriter, r *http.Request) {
	session, ok := s.store.Get(r.PathValue("game_id"))
	if !ok {
		s.writeError(w, http.StatusNotFound, "Game not found")
		return
	}

	actions := []AvailableAction{}
	_ = session.Do(func(m *golf.Match, _ map[int]ai.Agent) error {
		round := m.Round()
		if round.Over() || round.Turn() != 0 {
			return nil
		}
		human := m.Players()[0]
		hidden := human.HiddenPositions()
		if len(hidden) == 0 {
			return nil
		}
		if top, ok := round.DiscardTop(); ok {
			for _, pos := range hidden {
				actions = append(actions, AvailableAction{
					Type:        string(golf.ActionTakeDiscard),
					Position:    pos,
					Description: fmt.Sprintf("Take %s from discard and place at position %d", top, pos+1),
				})
			}
		}
		if !round.Deck().IsEmpty() {
			actions = append(actions, AvailableAction{
				Type:        string(golf.ActionDrawDeck),
				Description: "Draw from deck",
			})
		}
		return nil
	})

	s.writeJSON(w, http.StatusOK, AvailableActionsResponse{Actions: actions})
}

func (s *Server) handleMakeMove(w http.ResponseWriter, r *http.Request) {
	var req MakeMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	defer r.Body.Close()

	session, ok := s.store.Get(req.GameID)
	if !ok {
		s.writeError(w, http.StatusNotFound, "Game not found")
		return
	}

	action, err := parseAction(req.Action)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var state *GameState
	err = session.Do(func(m *golf.Match, _ map[int]ai.Agent) error {
		// The browser client always plays seat 0.
		if err := m.Apply(0, action); err != nil {
			return err
		}
		state = buildGameState(m)
		return nil
	})
	if err != nil {
		s.writeGameError(w, err)
		return
	}

	s.publishState(session, state)
	s.writeJSON(w, http.StatusOK, GameStateResponse{Success: true, GameState: state})
}

func (s *Server) handleRunAITurn(w http.ResponseWriter, r *http.Request) {
	var req GameIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	defer r.Body.Close()

	session, ok := s.store.Get(req.GameID)
	if !ok {
		s.writeError(w, http.StatusNotFound, "Game not found")
		return
	}

	var state *GameState
	mutated := false
	err := session.Do(func(m *golf.Match, agents map[int]ai.Agent) error {
		round := m.Round()
		seat := round.Turn()

		// No-op on the human's turn or a finished round: the client polls
		// defensively and expects the current state back.
		if round.Over() || m.Players()[seat].Agent == golf.AgentHuman {
			state = buildGameState(m)
			return nil
		}

		if len(m.Players()[seat].HiddenPositions()) == 0 {
			// Forced pass: the seat has every card face up.
			if err := m.Apply(seat, golf.Action{}); err != nil {
				return err
			}
		} else {
			agent, ok := agents[seat]
			if !ok {
				return fmt.Errorf("no agent for seat %d", seat)
			}
			action, err := agent.Decide(round.ViewFor(seat))
			if err != nil {
				return fmt.Errorf("agent for seat %d failed: %w", seat, err)
			}
			if err := m.Apply(seat, action); err != nil {
				return fmt.Errorf("agent for seat %d chose an illegal action: %w", seat, err)
			}
		}

		mutated = true
		state = buildGameState(m)
		return nil
	})
	if err != nil {
		// Agent failures indicate a state-machine bug and must not be
		// masked as successful no-ops.
		s.logger.Error("AI turn failed", "game_id", req.GameID, "error", err)
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if mutated {
		s.publishState(session, state)
	}
	s.writeJSON(w, http.StatusOK, GameStateResponse{Success: true, GameState: state})
}

func (s *Server) handleNextGame(w http.ResponseWriter, r *http.Request) {
	var req GameIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	defer r.Body.Close()

	session, ok := s.store.Get(req.GameID)
	if !ok {
		s.writeError(w, http.StatusNotFound, "Game not found")
		return
	}

	var state *GameState
	err := session.Do(func(m *golf.Match, _ map[int]ai.Agent) error {
		if err := m.NextGame(); err != nil {
			return err
		}
		state = buildGameState(m)
		return nil
	})
	if err != nil {
		s.writeGameError(w, err)
		return
	}

	s.logger.Info("Advanced to next game", "game_id", req.GameID)
	s.publishState(session, state)
	s.writeJSON(w, http.StatusOK, GameStateResponse{Success: true, GameState: state})
}

// handleWS streams game_state snapshots to a read-only websocket
// listener, pushing a fresh snapshot after every mutation.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("game_id")
	session, ok := s.store.Get(gameID)
	if !ok {
		s.writeError(w, http.StatusNotFound, "Game not found")
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	ch := session.Subscribe()
	s.logger.Info("State stream connected", "game_id", gameID)

	// Snapshot on connect so the listener starts consistent.
	var initial *GameState
	_ = session.Do(func(m *golf.Match, _ map[int]ai.Agent) error {
		initial = buildGameState(m)
		return nil
	})
	if payload, err := json.Marshal(initial); err == nil {
		_ = conn.WriteMessage(websocket.TextMessage, payload)
	}

	// Reader goroutine only watches for close.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case payload, ok := <-ch:
			if !ok {
				_ = conn.Close()
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				session.Unsubscribe(ch)
				_ = conn.Close()
				return
			}
		case <-done:
			session.Unsubscribe(ch)
			_ = conn.Close()
			s.logger.Info("State stream disconnected", "game_id", gameID)
			return
		}
	}
}

func (s *Server) publishState(session *Session, state *GameState) {
	payload, err := json.Marshal(state)
	if err != nil {
		s.logger.Error("Failed to marshal state for stream", "game_id", session.ID, "error", err)
		return
	}
	session.publish(payload)
}

// parseAction converts the wire action into an engine action.
func parseAction(req ActionRequest) (golf.Action, error) {
	switch golf.ActionType(req.Type) {
	case golf.ActionTakeDiscard:
		return golf.TakeDiscard(req.Position), nil
	case golf.ActionDrawDeck:
		if req.Keep {
			return golf.DrawKeep(req.Position), nil
		}
		flip := golf.NoFlip
		if req.FlipPosition != nil {
			flip = *req.FlipPosition
		}
		return golf.DrawDiscard(flip), nil
	default:
		return golf.Action{}, fmt.Errorf("invalid action type %q", req.Type)
	}
}

// writeGameError maps engine errors onto the uniform error shape.
func (s *Server) writeGameError(w http.ResponseWriter, err error) {
	if golf.IsStateError(err) {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if errors.Is(err, ErrStoreFull) {
		s.writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	s.logger.Error("Internal error", "error", err)
	s.writeError(w, http.StatusInternalServerError, "internal server error")
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, ErrorResponse{Success: false, Error: msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("Failed to encode response", "error", err)
	}
}
