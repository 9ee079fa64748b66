// Package board adds what the engine needs on top of github.com/notnil/chess
// positions: FEN reading with defaults, a playability check strict enough
// for every rules engine, square validation and the colour mirror.
package board

import (
	"errors"
	"fmt"
	"strings"

	"github.com/notnil/chess"
)

var (
	// ErrMalformedSquare indicates a coordinate or square name off the board.
	ErrMalformedSquare = errors.New("malformed square")
	// ErrInvalidFEN indicates FEN text that does not describe a playable position.
	ErrInvalidFEN = errors.New("invalid FEN")
)

// StartFEN is the standard initial position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var fenDefaults = []string{"w", "-", "-", "0", "1"}

// StartPosition returns the standard initial position.
func StartPosition() *chess.Position {
	return chess.StartingPosition()
}

// ReadFEN decodes a FEN record without checking that the position can be
// played. Only the placement field is required; missing trailing fields
// default to "w - - 0 1".
func ReadFEN(fen string) (*chess.Position, error) {
	fields := strings.Fields(fen)
	if len(fields) == 0 || len(fields) > 6 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFEN, fen)
	}
	fields = append(fields, fenDefaults[len(fields)-1:]...)
	pos := &chess.Position{}
	if err := pos.UnmarshalText([]byte(strings.Join(fields, " "))); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFEN, err)
	}
	return pos, nil
}

// ParseFEN is ReadFEN followed by Playable and a check that the side not
// to move is not in check.
func ParseFEN(fen string) (*chess.Position, error) {
	pos, err := ReadFEN(fen)
	if err != nil {
		return nil, err
	}
	if err := Playable(pos); err != nil {
		return nil, err
	}
	if sq, ok := kingCapture(pos); ok {
		return nil, fmt.Errorf("%w: %q: the king on %s can be captured", ErrInvalidFEN, fen, sq)
	}
	return pos, nil
}

type castling struct {
	color      chess.Color
	side       chess.Side
	char       string
	king, rook chess.Square
}

var castlings = []castling{
	{chess.White, chess.KingSide, "K", chess.E1, chess.H1},
	{chess.White, chess.QueenSide, "Q", chess.E1, chess.A1},
	{chess.Black, chess.KingSide, "k", chess.E8, chess.H8},
	{chess.Black, chess.QueenSide, "q", chess.E8, chess.A8},
}

// Playable reports the structural defects that move generators cannot cope
// with: a missing or extra king, pawns on the first or last rank, castling
// rights without the king and rook at home, and an en-passant target on the
// wrong rank for the side to move.
func Playable(pos *chess.Position) error {
	b := pos.Board()
	kings := map[chess.Color]int{}
	for sq := chess.A1; sq <= chess.H8; sq++ {
		p := b.Piece(sq)
		switch p.Type() {
		case chess.King:
			kings[p.Color()]++
		case chess.Pawn:
			if r := sq.Rank(); r == chess.Rank1 || r == chess.Rank8 {
				return fmt.Errorf("%w: pawn on %s", ErrInvalidFEN, sq)
			}
		}
	}
	if kings[chess.White] != 1 || kings[chess.Black] != 1 {
		return fmt.Errorf("%w: %d white and %d black kings", ErrInvalidFEN, kings[chess.White], kings[chess.Black])
	}

	rights := pos.CastleRights()
	if s := rights.String(); s != "-" && strings.Contains(s, "-") {
		return fmt.Errorf("%w: castling rights %q", ErrInvalidFEN, s)
	}
	for _, c := range castlings {
		if !rights.CanCastle(c.color, c.side) {
			continue
		}
		if b.Piece(c.king) != chess.NewPiece(chess.King, c.color) || b.Piece(c.rook) != chess.NewPiece(chess.Rook, c.color) {
			return fmt.Errorf("%w: castling right %s without king and rook at home", ErrInvalidFEN, c.char)
		}
	}

	if ep := pos.EnPassantSquare(); ep != chess.NoSquare {
		want := chess.Rank6
		if pos.Turn() == chess.Black {
			want = chess.Rank3
		}
		if ep.Rank() != want {
			return fmt.Errorf("%w: en-passant square %s with %s to move", ErrInvalidFEN, ep, pos.Turn().Name())
		}
	}
	return nil
}

// kingCapture reports whether the side to move has a move landing on the
// opposing king.
func kingCapture(pos *chess.Position) (chess.Square, bool) {
	king := chess.NewPiece(chess.King, pos.Turn().Other())
	for _, m := range pos.ValidMoves() {
		if pos.Board().Piece(m.S2()) == king {
			return m.S2(), true
		}
	}
	return chess.NoSquare, false
}

// Mirror swaps the colour of every piece and reflects the board across the
// middle rank, so the result is the same game seen from the other side.
func Mirror(pos *chess.Position) (*chess.Position, error) {
	flipped := pos.Board().Flip(chess.UpDown).SquareMap()
	swapped := make(map[chess.Square]chess.Piece, len(flipped))
	for sq, p := range flipped {
		swapped[sq] = chess.NewPiece(p.Type(), p.Color().Other())
	}

	rights := ""
	for _, c := range castlings {
		if pos.CastleRights().CanCastle(c.color.Other(), c.side) {
			rights += c.char
		}
	}
	if rights == "" {
		rights = "-"
	}
	ep := "-"
	if sq := pos.EnPassantSquare(); sq != chess.NoSquare {
		ep = chess.NewSquare(sq.File(), chess.Rank8-sq.Rank()).String()
	}

	fields := strings.Fields(pos.String())
	fields[0] = chess.NewBoard(swapped).String()
	fields[1] = pos.Turn().Other().String()
	fields[2] = rights
	fields[3] = ep
	return ReadFEN(strings.Join(fields, " "))
}

// NewSquare returns the square at zero-based file and rank.
func NewSquare(file, rank int) (chess.Square, error) {
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return chess.NoSquare, fmt.Errorf("%w: file %d rank %d", ErrMalformedSquare, file, rank)
	}
	return chess.NewSquare(chess.File(file), chess.Rank(rank)), nil
}

// ParseSquare reads a square name such as "e4".
func ParseSquare(s string) (chess.Square, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return chess.NoSquare, fmt.Errorf("%w: %q", ErrMalformedSquare, s)
	}
	return chess.NewSquare(chess.File(s[0]-'a'), chess.Rank(s[1]-'1')), nil
}

// OnBoard reports whether sq is one of the 64 squares.
func OnBoard(sq chess.Square) bool {
	return sq >= chess.A1 && sq <= chess.H8
}

// ParseMove decodes a move in UCI form ("e2e4", "a7a8q"). With a non-nil
// pos the move carries the castling, capture and en-passant tags it has
// in that position.
func ParseMove(pos *chess.Position, s string) (*chess.Move, error) {
	m, err := chess.UCINotation{}.Decode(pos, s)
	if err != nil {
		return nil, fmt.Errorf("%w: move %q", ErrMalformedSquare, s)
	}
	return m, nil
}

// NewMove builds the move from one square to another in pos. promo is
// chess.NoPieceType for non-promotions.
func NewMove(pos *chess.Position, from, to chess.Square, promo chess.PieceType) (*chess.Move, error) {
	if !OnBoard(from) || !OnBoard(to) {
		return nil, fmt.Errorf("%w: %d to %d", ErrMalformedSquare, from, to)
	}
	return ParseMove(pos, from.String()+to.String()+promo.String())
}
