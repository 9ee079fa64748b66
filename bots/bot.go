// bot.go
package bots

import (
	"errors"

	"github.com/notnil/chess"
)

// ErrNoLegalMoves is returned when a bot is asked to move in a position with
// no legal moves. Callers are expected to detect game end first.
var ErrNoLegalMoves = errors.New("no legal moves")

// ChessBot is implemented by every move-picking policy. moves is the legal
// move set for pos as produced by the rules engine.
type ChessBot interface {
	BestMove(pos *chess.Position, moves []*chess.Move) (*chess.Move, error)
	Name() string
}

// PositionEvaluator scores a position; positive favours White.
type PositionEvaluator interface {
	Evaluate(pos *chess.Position) int
}

// ScoredMove is a candidate first move with the score of its subtree.
type ScoredMove struct {
	Move  *chess.Move
	Score int
}
