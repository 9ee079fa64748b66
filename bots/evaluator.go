package bots

import "github.com/notnil/chess"

// evaluationTable holds per-square weights for one piece type, written from
// White's side: row 0 is rank 8, column 0 is the a-file.
type evaluationTable [8][8]int

// at returns the weight for a piece of colour c standing on sq. Black reads
// the table mirrored across the middle rank.
func (t *evaluationTable) at(sq chess.Square, c chess.Color) int {
	row := 7 - int(sq.Rank())
	if c == chess.Black {
		row = int(sq.Rank())
	}
	return t[row][sq.File()]
}

var (
	pawnTable = evaluationTable{
		{0, 0, 0, 0, 0, 0, 0, 0},
		{50, 50, 50, 50, 50, 50, 50, 50},
		{10, 10, 20, 30, 30, 20, 10, 10},
		{5, 5, 10, 25, 25, 10, 5, 5},
		{0, 0, 0, 20, 20, 0, 0, 0},
		{5, -5, -10, 0, 0, -10, -5, 5},
		{5, 10, 10, -20, -20, 10, 10, 5},
		{0, 0, 0, 0, 0, 0, 0, 0},
	}

	knightTable = evaluationTable{
		{-50, -40, -30, -30, -30, -30, -40, -50},
		{-40, -20, 0, 0, 0, 0, -20, -40},
		{-30, 0, 10, 15, 15, 10, 0, -30},
		{-30, 5, 15, 20, 20, 15, 5, -30},
		{-30, 0, 15, 20, 20, 15, 0, -30},
		{-30, 5, 10, 15, 15, 10, 5, -30},
		{-40, -20, 0, 5, 5, 0, -20, -40},
		{-50, -40, -30, -30, -30, -30, -40, -50},
	}

	bishopTable = evaluationTable{
		{-20, -10, -10, -10, -10, -10, -10, -20},
		{-10, 0, 0, 0, 0, 0, 0, -10},
		{-10, 0, 5, 10, 10, 5, 0, -10},
		{-10, 5, 5, 10, 10, 5, 5, -10},
		{-10, 0, 10, 10, 10, 10, 0, -10},
		{-10, 10, 10, 10, 10, 10, 10, -10},
		{-10, 5, 0, 0, 0, 0, 5, -10},
		{-20, -10, -10, -10, -10, -10, -10, -20},
	}

	rookTable = evaluationTable{
		{0, 0, 0, 0, 0, 0, 0, 0},
		{5, 10, 10, 10, 10, 10, 10, 5},
		{-5, 0, 0, 0, 0, 0, 0, -5},
		{-5, 0, 0, 0, 0, 0, 0, -5},
		{-5, 0, 0, 0, 0, 0, 0, -5},
		{-5, 0, 0, 0, 0, 0, 0, -5},
		{-5, 0, 0, 0, 0, 0, 0, -5},
		{0, 0, 0, 5, 5, 0, 0, 0},
	}

	queenTable = evaluationTable{
		{-20, -10, -10, -5, -5, -10, -10, -20},
		{-10, 0, 0, 0, 0, 0, 0, -10},
		{-10, 0, 5, 5, 5, 5, 0, -10},
		{-5, 0, 5, 5, 5, 5, 0, -5},
		{0, 0, 5, 5, 5, 5, 0, -5},
		{-10, 5, 5, 5, 5, 5, 0, -10},
		{-10, 0, 5, 0, 0, 0, 0, -10},
		{-20, -10, -10, -5, -5, -10, -10, -20},
	}

	kingTable = evaluationTable{
		{-30, -40, -40, -50, -50, -40, -40, -30},
		{-30, -40, -40, -50, -50, -40, -40, -30},
		{-30, -40, -40, -50, -50, -40, -40, -30},
		{-30, -40, -40, -50, -50, -40, -40, -30},
		{-20, -30, -30, -40, -40, -30, -30, -20},
		{-10, -20, -20, -20, -20, -20, -20, -10},
		{20, 20, 0, 0, 0, 0, 20, 20},
		{20, 30, 10, 0, 0, 10, 30, 20},
	}
)

// PieceSquareEvaluator scores positions purely from piece-square tables.
// There is no separate material term; the table magnitudes stand in for it.
// Each evaluator holds its own copy of the tables.
type PieceSquareEvaluator struct {
	tables [chess.Pawn + 1]evaluationTable
}

// NewPieceSquareEvaluator returns an evaluator over the default tables.
func NewPieceSquareEvaluator() *PieceSquareEvaluator {
	e := &PieceSquareEvaluator{}
	e.tables[chess.Pawn] = pawnTable
	e.tables[chess.Knight] = knightTable
	e.tables[chess.Bishop] = bishopTable
	e.tables[chess.Rook] = rookTable
	e.tables[chess.Queen] = queenTable
	e.tables[chess.King] = kingTable
	return e
}

func (e *PieceSquareEvaluator) Evaluate(pos *chess.Position) int {
	board := pos.Board()
	score := 0
	for sq := chess.A1; sq <= chess.H8; sq++ {
		piece := board.Piece(sq)
		if piece == chess.NoPiece {
			continue
		}
		table := &e.tables[piece.Type()]
		if piece.Color() == chess.White {
			score += table.at(sq, chess.White)
		} else {
			score -= table.at(sq, chess.Black)
		}
	}
	return score
}
