package bots

import (
	"fmt"
	"log"

	"github.com/notnil/chess"

	"minichess/rules"
)

// SearchMode selects how plies below the root are explored.
type SearchMode int

const (
	// FullMinimax branches over every legal move at every ply; White plies
	// take the maximum and Black plies the minimum.
	FullMinimax SearchMode = iota
	// SingleLine follows only the first legal move below the root. A node
	// without legal moves scores 0.
	SingleLine
)

func (m SearchMode) String() string {
	if m == SingleLine {
		return "single-line"
	}
	return "minimax"
}

// MinimaxBot searches a fixed number of plies and scores the leaves with
// Evaluator. It never changes the position it is given.
type MinimaxBot struct {
	Depth     int
	Mode      SearchMode
	Rules     rules.Engine
	Evaluator PositionEvaluator
	Logger    *log.Logger
}

func NewMinimaxBot(r rules.Engine, depth int) *MinimaxBot {
	return &MinimaxBot{
		Depth:     depth,
		Rules:     r,
		Evaluator: NewPieceSquareEvaluator(),
	}
}

func (b *MinimaxBot) Name() string {
	return fmt.Sprintf("Minimax Bot (depth %d, %s)", b.Depth, b.Mode)
}

func (b *MinimaxBot) BestMove(pos *chess.Position, moves []*chess.Move) (*chess.Move, error) {
	best, err := b.ChooseMove(pos, moves, b.Depth)
	if err != nil {
		return nil, err
	}
	return best.Move, nil
}

// ChooseMove picks among moves for the side to move in pos. depth counts
// plies including the candidate move itself; values below 1 are treated as
// 1. White keeps the highest score, Black the lowest, and the first move
// reaching the best score wins ties.
func (b *MinimaxBot) ChooseMove(pos *chess.Position, moves []*chess.Move, depth int) (ScoredMove, error) {
	if len(moves) == 0 {
		return ScoredMove{}, ErrNoLegalMoves
	}
	if depth < 1 {
		depth = 1
	}
	maximizing := b.Rules.SideToMove(pos) == chess.White

	var best ScoredMove
	for i, move := range moves {
		child, err := b.Rules.Apply(pos, move)
		if err != nil {
			return ScoredMove{}, err
		}
		score, err := b.value(child, depth-1)
		if err != nil {
			return ScoredMove{}, err
		}
		if b.Logger != nil {
			b.Logger.Printf("%s, eval: %d", move, score)
		}
		if i == 0 || (maximizing && score > best.Score) || (!maximizing && score < best.Score) {
			best = ScoredMove{move, score}
		}
	}
	return best, nil
}

func (b *MinimaxBot) value(pos *chess.Position, depth int) (int, error) {
	if depth == 0 {
		return b.Evaluator.Evaluate(pos), nil
	}
	moves, err := b.Rules.LegalMoves(pos)
	if err != nil {
		return 0, err
	}
	if b.Mode == SingleLine {
		if len(moves) == 0 {
			return 0, nil
		}
		moves = moves[:1]
	} else if len(moves) == 0 {
		return b.Evaluator.Evaluate(pos), nil
	}

	maximizing := b.Rules.SideToMove(pos) == chess.White
	var best int
	for i, move := range moves {
		child, err := b.Rules.Apply(pos, move)
		if err != nil {
			return 0, err
		}
		score, err := b.value(child, depth-1)
		if err != nil {
			return 0, err
		}
		if i == 0 || (maximizing && score > best) || (!maximizing && score < best) {
			best = score
		}
	}
	return best, nil
}
