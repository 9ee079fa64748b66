package rules

import "github.com/notnil/chess"

// NotnilEngine is backed by github.com/notnil/chess directly: moves are the
// position's ValidMoves and successors come from Position.Update.
type NotnilEngine struct{}

func (NotnilEngine) Name() string { return "notnil" }

func (NotnilEngine) SideToMove(pos *chess.Position) chess.Color { return pos.Turn() }

func (NotnilEngine) LegalMoves(pos *chess.Position) ([]*chess.Move, error) {
	return pos.ValidMoves(), nil
}

func (NotnilEngine) IsLegal(pos *chess.Position, m *chess.Move) bool {
	return findValid(pos, m) != nil
}

func (NotnilEngine) Apply(pos *chess.Position, m *chess.Move) (*chess.Position, error) {
	valid := findValid(pos, m)
	if valid == nil {
		return nil, illegal(pos, m)
	}
	return pos.Update(valid), nil
}

func (NotnilEngine) Status(pos *chess.Position) (Status, error) {
	switch pos.Status() {
	case chess.Checkmate:
		return Checkmate, nil
	case chess.Stalemate:
		return Stalemate, nil
	default:
		return Ongoing, nil
	}
}

// findValid returns the tagged move of pos matching m, or nil.
func findValid(pos *chess.Position, m *chess.Move) *chess.Move {
	for _, v := range pos.ValidMoves() {
		if SameMove(v, m) {
			return v
		}
	}
	return nil
}
