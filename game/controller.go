package game

import (
	"fmt"
	"log"

	"github.com/notnil/chess"

	"minichess/board"
	"minichess/bots"
	"minichess/rules"
)

// Outcome is what a single Tick did.
type Outcome int

const (
	// Idle: not the engine's turn.
	Idle Outcome = iota
	// Skipped: the trigger did not fire this cycle.
	Skipped
	// Moved: the engine played a move.
	Moved
	// GameOver: the side to move has no legal moves.
	GameOver
)

func (o Outcome) String() string {
	switch o {
	case Skipped:
		return "skipped"
	case Moved:
		return "moved"
	case GameOver:
		return "game over"
	default:
		return "idle"
	}
}

// Controller runs decision cycles against a State. It is not safe for
// concurrent use; the host calls it from its update loop only.
type Controller struct {
	State      *State
	Gesture    Gesture
	Rules      rules.Engine
	Bot        bots.ChessBot
	Trigger    bots.Trigger
	EngineSide chess.Color
	Logger     *log.Logger

	statusOf *chess.Position
	status   rules.Status
}

func NewController(st *State, r rules.Engine, bot bots.ChessBot, trigger bots.Trigger, side chess.Color) *Controller {
	return &Controller{
		State:      st,
		Gesture:    Gesture{PendingOrigin: chess.NoSquare},
		Rules:      r,
		Bot:        bot,
		Trigger:    trigger,
		EngineSide: side,
	}
}

func (c *Controller) logf(format string, args ...interface{}) {
	if c.Logger != nil {
		c.Logger.Printf(format, args...)
	}
}

// Tick runs one decision cycle. The bot is only consulted when it is the
// engine's turn, the trigger fires, and there is at least one legal move.
func (c *Controller) Tick() (Outcome, error) {
	pos := c.State.Position
	if c.Rules.SideToMove(pos) != c.EngineSide {
		return Idle, nil
	}
	if !c.Trigger.Fire() {
		return Skipped, nil
	}
	moves, err := c.Rules.LegalMoves(pos)
	if err != nil {
		return Idle, fmt.Errorf("generating moves: %w", err)
	}
	if len(moves) == 0 {
		return GameOver, nil
	}
	m, err := c.Bot.BestMove(pos, moves)
	if err != nil {
		return Idle, fmt.Errorf("%s: %w", c.Bot.Name(), err)
	}
	if err := c.State.Apply(c.Rules, m); err != nil {
		return Idle, err
	}
	c.logf("game %s: %s plays %s", c.State.ID, pos.Turn().Name(), m)
	return Moved, nil
}

// Status reports whether the current position is still playable. The result
// is cached until the position changes.
func (c *Controller) Status() (rules.Status, error) {
	if c.statusOf == c.State.Position {
		return c.status, nil
	}
	st, err := c.Rules.Status(c.State.Position)
	if err != nil {
		return rules.Ongoing, err
	}
	c.statusOf, c.status = c.State.Position, st
	return st, nil
}

// SelectAt is Select for zero-based board coordinates, as reported by the
// host's mouse mapping.
func (c *Controller) SelectAt(file, rank int) (bool, error) {
	sq, err := board.NewSquare(file, rank)
	if err != nil {
		return false, err
	}
	return c.Select(sq)
}

// Select feeds one square of a player gesture. The first call records the
// origin; the second builds the move, checks it with the rules engine and
// applies it when legal. It reports whether a move was applied. The gesture
// is cleared after every second selection, legal or not.
func (c *Controller) Select(sq chess.Square) (bool, error) {
	if !board.OnBoard(sq) {
		return false, fmt.Errorf("%w: %d", board.ErrMalformedSquare, sq)
	}
	if !c.Gesture.AwaitingDestination {
		c.Gesture = Gesture{PendingOrigin: sq, AwaitingDestination: true}
		return false, nil
	}
	from := c.Gesture.PendingOrigin
	c.Gesture.Reset()

	pos := c.State.Position
	m, err := board.NewMove(pos, from, sq, inferPromotion(pos, from, sq))
	if err != nil {
		return false, err
	}
	if c.Rules.SideToMove(pos) == c.EngineSide {
		return false, fmt.Errorf("%w: %s on the engine's turn", rules.ErrIllegalMove, m)
	}
	if !c.Rules.IsLegal(pos, m) {
		return false, fmt.Errorf("%w: %s", rules.ErrIllegalMove, m)
	}
	if err := c.State.Apply(c.Rules, m); err != nil {
		return false, err
	}
	c.logf("game %s: %s plays %s", c.State.ID, pos.Turn().Name(), m)
	return true, nil
}

// inferPromotion promotes to a queen when a pawn reaches its far rank.
func inferPromotion(pos *chess.Position, from, to chess.Square) chess.PieceType {
	p := pos.Board().Piece(from)
	if p.Type() != chess.Pawn {
		return chess.NoPieceType
	}
	if (p.Color() == chess.White && to.Rank() == chess.Rank8) || (p.Color() == chess.Black && to.Rank() == chess.Rank1) {
		return chess.Queen
	}
	return chess.NoPieceType
}
