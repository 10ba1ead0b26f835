package golf

// ActionType is the kind of turn a player takes.
type ActionType string

const (
	// ActionTakeDiscard takes the face-up discard card and places it at a
	// hidden grid position, discarding the slot's previous card.
	ActionTakeDiscard ActionType = "take_discard"

	// ActionDrawDeck draws the top deck card. With Keep it replaces the
	// card at Position; without Keep the draw is discarded and one of the
	// player's own hidden slots may be flipped face up.
	ActionDrawDeck ActionType = "draw_deck"
)

// NoFlip marks an absent flip position.
const NoFlip = -1

// Action is one turn's worth of intent. Position and FlipPosition are
// grid indices; FlipPosition is NoFlip unless a draw-and-discard turn
// flips a slot.
type Action struct {
	Type         ActionType
	Position     int
	Keep         bool
	FlipPosition int
}

// TakeDiscard builds a take_discard action.
func TakeDiscard(position int) Action {
	return Action{Type: ActionTakeDiscard, Position: position, FlipPosition: NoFlip}
}

// DrawKeep builds a draw_deck action that keeps the drawn card.
func DrawKeep(position int) Action {
	return Action{Type: ActionDrawDeck, Position: position, Keep: true, FlipPosition: NoFlip}
}

// DrawDiscard builds a draw_deck action that discards the drawn card and
// flips the slot at flipPosition (NoFlip for no flip).
func DrawDiscard(flipPosition int) Action {
	return Action{Type: ActionDrawDeck, Position: NoFlip, Keep: false, FlipPosition: flipPosition}
}
