package golf

import "errors"

// Engine error taxonomy. State errors are user-correctable and map to 4xx
// responses at the HTTP layer; anything else surfacing from the engine is
// a programming defect.
var (
	// ErrNotYourTurn is returned when a player acts out of turn.
	ErrNotYourTurn = errors.New("not your turn")

	// ErrInvalidPosition is returned for actions targeting a slot that is
	// out of range or already public.
	ErrInvalidPosition = errors.New("invalid position")

	// ErrEmptyDeck is returned for a draw action when no cards remain.
	ErrEmptyDeck = errors.New("no cards left in deck")

	// ErrGameOver is returned for actions on a finished round.
	ErrGameOver = errors.New("game is already over")

	// ErrNotWaitingForNextGame is returned by NextGame outside the
	// between-rounds window.
	ErrNotWaitingForNextGame = errors.New("not waiting for next game")

	// ErrMatchComplete is returned by NextGame once all games are played.
	ErrMatchComplete = errors.New("no more games in this match")

	// ErrNoLegalAction indicates an agent was asked to move with no legal
	// action available. Unreachable with a correct state machine.
	ErrNoLegalAction = errors.New("no legal action available")

	// ErrInvalidAction is returned for malformed or unknown action types.
	ErrInvalidAction = errors.New("invalid action")
)

// IsStateError reports whether err belongs to the user-correctable part
// of the taxonomy.
func IsStateError(err error) bool {
	return errors.Is(err, ErrNotYourTurn) ||
		errors.Is(err, ErrInvalidPosition) ||
		errors.Is(err, ErrEmptyDeck) ||
		errors.Is(err, ErrGameOver) ||
		errors.Is(err, ErrNotWaitingForNextGame) ||
		errors.Is(err, ErrMatchComplete) ||
		errors.Is(err, ErrInvalidAction)
}
