// Package game holds the live position and drives one decision cycle per
// host frame: engine moves on its side, player gestures on the other.
package game

import (
	"github.com/google/uuid"
	"github.com/notnil/chess"

	"minichess/rules"
)

// State is the live game: the current position, the last position handed
// to the renderer, and the moves played so far.
type State struct {
	ID       uuid.UUID
	Position *chess.Position
	History  []*chess.Move

	rendered *chess.Position
}

// NewState starts a game from pos.
func NewState(pos *chess.Position) *State {
	return &State{ID: uuid.New(), Position: pos}
}

// Apply replaces the position with its successor under m. m must already be
// legal; on error the state is left unchanged. Positions are never modified
// in place, so a new pointer means a new position.
func (s *State) Apply(r rules.Engine, m *chess.Move) error {
	next, err := r.Apply(s.Position, m)
	if err != nil {
		return err
	}
	s.Position = next
	s.History = append(s.History, m)
	return nil
}

// Changed reports whether the position differs from the last rendered one.
func (s *State) Changed() bool {
	return s.rendered != s.Position
}

// MarkRendered records the current position as rendered and returns its
// placement field for the renderer to rebuild the board from.
func (s *State) MarkRendered() string {
	s.rendered = s.Position
	return s.Position.Board().String()
}

// Gesture is a half-entered player move.
type Gesture struct {
	PendingOrigin       chess.Square
	AwaitingDestination bool
}

// Reset clears the gesture.
func (g *Gesture) Reset() {
	*g = Gesture{PendingOrigin: chess.NoSquare}
}
