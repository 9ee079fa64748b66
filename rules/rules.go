// Package rules puts move generators behind one interface. The bots and
// the game controller only see Engine; positions and moves are the
// github.com/notnil/chess types throughout.
package rules

import (
	"errors"
	"fmt"
	"strings"

	"github.com/notnil/chess"
)

// ErrIllegalMove indicates a move that the rules engine rejects.
var ErrIllegalMove = errors.New("illegal move")

// Status reports whether the side to move can still play.
type Status int

const (
	Ongoing Status = iota
	Checkmate
	Stalemate
)

func (s Status) String() string {
	switch s {
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	default:
		return "ongoing"
	}
}

// Engine owns chess legality. Implementations must be pure: no method
// changes the position it is given, and LegalMoves returns the same order
// for the same position.
type Engine interface {
	LegalMoves(pos *chess.Position) ([]*chess.Move, error)
	IsLegal(pos *chess.Position, m *chess.Move) bool
	Apply(pos *chess.Position, m *chess.Move) (*chess.Position, error)
	SideToMove(pos *chess.Position) chess.Color
	Status(pos *chess.Position) (Status, error)
	Name() string
}

// New returns the engine registered under name.
func New(name string) (Engine, error) {
	switch strings.ToLower(name) {
	case "", "notnil":
		return NotnilEngine{}, nil
	case "dragontooth":
		return DragontoothEngine{}, nil
	default:
		return nil, fmt.Errorf("unknown rules engine %q", name)
	}
}

// Names lists the registered engines.
func Names() []string { return []string{"notnil", "dragontooth"} }

// SameMove reports whether a and b move the same squares with the same
// promotion. Tags are ignored.
func SameMove(a, b *chess.Move) bool {
	return a.S1() == b.S1() && a.S2() == b.S2() && a.Promo() == b.Promo()
}

func illegal(pos *chess.Position, m *chess.Move) error {
	return fmt.Errorf("%w: %s in %s", ErrIllegalMove, m, pos)
}
