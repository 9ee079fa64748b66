package rules

import (
	"fmt"

	"github.com/dylhunn/dragontoothmg"
	"github.com/notnil/chess"

	"minichess/board"
)

// DragontoothEngine is backed by github.com/dylhunn/dragontoothmg, a
// bitboard generator that is considerably faster than notnil for deep
// searches. Positions cross over as FEN text.
type DragontoothEngine struct{}

func (DragontoothEngine) Name() string { return "dragontooth" }

func (DragontoothEngine) SideToMove(pos *chess.Position) chess.Color { return pos.Turn() }

func (DragontoothEngine) LegalMoves(pos *chess.Position) ([]*chess.Move, error) {
	b, err := toDragon(pos)
	if err != nil {
		return nil, err
	}
	legal := b.GenerateLegalMoves()
	moves := make([]*chess.Move, 0, len(legal))
	for i := range legal {
		m, err := fromDragonMove(&legal[i])
		if err != nil {
			return nil, err
		}
		moves = append(moves, m)
	}
	return moves, nil
}

func (DragontoothEngine) IsLegal(pos *chess.Position, m *chess.Move) bool {
	b, err := toDragon(pos)
	if err != nil {
		return false
	}
	_, ok := findDragonMove(&b, m)
	return ok
}

func (DragontoothEngine) Apply(pos *chess.Position, m *chess.Move) (*chess.Position, error) {
	b, err := toDragon(pos)
	if err != nil {
		return nil, err
	}
	move, ok := findDragonMove(&b, m)
	if !ok {
		return nil, illegal(pos, m)
	}
	b.Apply(move)
	next, err := board.ReadFEN(b.ToFen())
	if err != nil {
		return nil, fmt.Errorf("dragontooth: reading back position: %w", err)
	}
	return next, nil
}

func (DragontoothEngine) Status(pos *chess.Position) (Status, error) {
	b, err := toDragon(pos)
	if err != nil {
		return Ongoing, err
	}
	if len(b.GenerateLegalMoves()) > 0 {
		return Ongoing, nil
	}
	if b.OurKingInCheck() {
		return Checkmate, nil
	}
	return Stalemate, nil
}

// toDragon hands pos to dragontoothmg, which indexes past its bitboards
// on positions without both kings.
func toDragon(pos *chess.Position) (dragontoothmg.Board, error) {
	if err := board.Playable(pos); err != nil {
		return dragontoothmg.Board{}, fmt.Errorf("dragontooth: %w", err)
	}
	return dragontoothmg.ParseFen(pos.String()), nil
}

func findDragonMove(b *dragontoothmg.Board, m *chess.Move) (dragontoothmg.Move, bool) {
	legal := b.GenerateLegalMoves()
	for i := range legal {
		mv := &legal[i]
		if chess.Square(mv.From()) == m.S1() && chess.Square(mv.To()) == m.S2() && dragonKinds[mv.Promote()] == m.Promo() {
			return legal[i], true
		}
	}
	return 0, false
}

var dragonKinds = map[dragontoothmg.Piece]chess.PieceType{
	dragontoothmg.Knight: chess.Knight,
	dragontoothmg.Bishop: chess.Bishop,
	dragontoothmg.Rook:   chess.Rook,
	dragontoothmg.Queen:  chess.Queen,
}

func fromDragonMove(m *dragontoothmg.Move) (*chess.Move, error) {
	uci := chess.Square(m.From()).String() + chess.Square(m.To()).String() + dragonKinds[m.Promote()].String()
	return board.ParseMove(nil, uci)
}
