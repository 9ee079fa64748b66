package game

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/notnil/chess"
	"golang.org/x/exp/rand"

	"minichess/board"
	"minichess/bots"
	"minichess/rules"
)

type countingBot struct {
	inner bots.ChessBot
	calls int
}

func (b *countingBot) BestMove(pos *chess.Position, moves []*chess.Move) (*chess.Move, error) {
	b.calls++
	return b.inner.BestMove(pos, moves)
}

func (b *countingBot) Name() string { return "counting" }

type never struct{}

func (never) Fire() bool { return false }

func mustFEN(t *testing.T, fen string) *chess.Position {
	t.Helper()
	pos, err := board.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return pos
}

func newController(t *testing.T, fen string, trigger bots.Trigger, side chess.Color) (*Controller, *countingBot) {
	t.Helper()
	r := rules.NotnilEngine{}
	bot := &countingBot{inner: bots.NewMinimaxBot(r, 1)}
	return NewController(NewState(mustFEN(t, fen)), r, bot, trigger, side), bot
}

func TestTickIdleOnPlayerTurn(t *testing.T) {
	c, bot := newController(t, board.StartFEN, bots.Always{}, chess.Black)
	got, err := c.Tick()
	if err != nil || got != Idle {
		t.Errorf("Tick() = %v, %v; want idle", got, err)
	}
	if bot.calls != 0 {
		t.Errorf("bot called %d times", bot.calls)
	}
}

func TestTickSkippedWhenTriggerHolds(t *testing.T) {
	c, bot := newController(t, board.StartFEN, never{}, chess.White)
	for i := 0; i < 10; i++ {
		if got, err := c.Tick(); err != nil || got != Skipped {
			t.Fatalf("Tick() = %v, %v; want skipped", got, err)
		}
	}
	if bot.calls != 0 || c.State.Position.String() != board.StartFEN {
		t.Errorf("skipped cycles touched the game: %d calls, %s", bot.calls, c.State.Position.String())
	}
}

func TestTickMoves(t *testing.T) {
	c, bot := newController(t, "4k3/P7/8/8/8/8/8/4K3 w - - 0 1", bots.Always{}, chess.White)
	got, err := c.Tick()
	if err != nil || got != Moved {
		t.Fatalf("Tick() = %v, %v; want moved", got, err)
	}
	if bot.calls != 1 {
		t.Errorf("bot called %d times, want 1", bot.calls)
	}
	if want := "4k3/P7/8/8/8/8/8/5K2"; c.State.Position.Board().String() != want {
		t.Errorf("board = %s, want %s", c.State.Position.Board().String(), want)
	}
	if len(c.State.History) != 1 || c.State.History[0].String() != "e1f1" {
		t.Errorf("history = %v", c.State.History)
	}

	// Black's turn now: the engine waits.
	if got, _ := c.Tick(); got != Idle {
		t.Errorf("second Tick() = %v, want idle", got)
	}
}

func TestTickGameOverSkipsSearch(t *testing.T) {
	mated := "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3"
	c, bot := newController(t, mated, bots.Always{}, chess.White)
	got, err := c.Tick()
	if err != nil || got != GameOver {
		t.Errorf("Tick() = %v, %v; want game over", got, err)
	}
	if bot.calls != 0 {
		t.Errorf("bot called %d times on a finished game", bot.calls)
	}
	st, err := c.Status()
	if err != nil || st != rules.Checkmate {
		t.Errorf("Status() = %v, %v; want checkmate", st, err)
	}
}

func TestStatusFollowsPosition(t *testing.T) {
	c, _ := newController(t, "7k/5Q2/8/6K1/8/8/8/8 w - - 0 1", bots.Always{}, chess.Black)
	if st, _ := c.Status(); st != rules.Ongoing {
		t.Fatalf("Status() = %v, want ongoing", st)
	}
	if _, err := c.Select(mustSquare(t, "g5")); err != nil {
		t.Fatal(err)
	}
	if ok, err := c.Select(mustSquare(t, "g6")); !ok || err != nil {
		t.Fatalf("Select(g6) = %v, %v", ok, err)
	}
	if st, _ := c.Status(); st != rules.Stalemate {
		t.Errorf("Status() after Kg6 = %v, want stalemate", st)
	}
}

func mustSquare(t *testing.T, s string) chess.Square {
	t.Helper()
	sq, err := board.ParseSquare(s)
	if err != nil {
		t.Fatal(err)
	}
	return sq
}

func TestSelectPlaysLegalMove(t *testing.T) {
	c, _ := newController(t, board.StartFEN, bots.Always{}, chess.Black)

	ok, err := c.Select(mustSquare(t, "e2"))
	if ok || err != nil {
		t.Fatalf("first Select = %v, %v", ok, err)
	}
	want := Gesture{PendingOrigin: mustSquare(t, "e2"), AwaitingDestination: true}
	if diff := cmp.Diff(want, c.Gesture); diff != "" {
		t.Errorf("gesture mismatch (-want +got):\n%s", diff)
	}

	ok, err = c.Select(mustSquare(t, "e4"))
	if !ok || err != nil {
		t.Fatalf("second Select = %v, %v", ok, err)
	}
	if want := "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR"; c.State.Position.Board().String() != want {
		t.Errorf("board = %s, want %s", c.State.Position.Board().String(), want)
	}
	if c.Gesture.AwaitingDestination || c.Gesture.PendingOrigin != chess.NoSquare {
		t.Errorf("gesture not cleared: %+v", c.Gesture)
	}
}

func TestSelectIllegalLeavesStateUnchanged(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
		side     chess.Color
	}{
		{"pawn jumps three", "e2", "e5", chess.Black},
		{"moving the opponent's piece", "e7", "e5", chess.Black},
		{"moving on the engine's turn", "e2", "e4", chess.White},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newController(t, board.StartFEN, bots.Always{}, tt.side)
			if _, err := c.Select(mustSquare(t, tt.from)); err != nil {
				t.Fatal(err)
			}
			ok, err := c.Select(mustSquare(t, tt.to))
			if ok || !errors.Is(err, rules.ErrIllegalMove) {
				t.Errorf("Select = %v, %v; want ErrIllegalMove", ok, err)
			}
			if c.State.Position.String() != board.StartFEN || len(c.State.History) != 0 {
				t.Errorf("state changed to %s", c.State.Position.String())
			}
			if c.Gesture.AwaitingDestination {
				t.Error("gesture still awaiting a destination")
			}
		})
	}
}

func TestSelectAtRejectsOffBoard(t *testing.T) {
	c, _ := newController(t, board.StartFEN, bots.Always{}, chess.Black)
	for _, xy := range [][2]int{{-1, 0}, {8, 3}, {2, 8}, {0, -4}} {
		if _, err := c.SelectAt(xy[0], xy[1]); !errors.Is(err, board.ErrMalformedSquare) {
			t.Errorf("SelectAt(%d, %d) error = %v, want ErrMalformedSquare", xy[0], xy[1], err)
		}
	}
	if c.Gesture.AwaitingDestination {
		t.Error("off-board selection started a gesture")
	}
	for _, sq := range []chess.Square{chess.NoSquare, chess.H8 + 1} {
		if _, err := c.Select(sq); !errors.Is(err, board.ErrMalformedSquare) {
			t.Errorf("Select(%d) error = %v", sq, err)
		}
	}
}

func TestSelectInfersPromotion(t *testing.T) {
	tests := []struct {
		fen, from, to string
		side          chess.Color
		sq            string
		want          chess.Piece
	}{
		{"4k3/P7/8/8/8/8/8/4K3 w - - 0 1", "a7", "a8", chess.Black, "a8", chess.WhiteQueen},
		{"4k3/8/8/8/8/8/p7/4K3 b - - 0 1", "a2", "a1", chess.White, "a1", chess.BlackQueen},
	}
	for _, tt := range tests {
		c, _ := newController(t, tt.fen, bots.Always{}, tt.side)
		from, to := mustSquare(t, tt.from), mustSquare(t, tt.to)
		if _, err := c.SelectAt(int(from.File()), int(from.Rank())); err != nil {
			t.Fatal(err)
		}
		ok, err := c.SelectAt(int(to.File()), int(to.Rank()))
		if !ok || err != nil {
			t.Fatalf("%s: promotion Select = %v, %v", tt.fen, ok, err)
		}
		if got := c.State.Position.Board().Piece(mustSquare(t, tt.sq)); got != tt.want {
			t.Errorf("%s: %s holds %v, want %v", tt.fen, tt.sq, got, tt.want)
		}
		if got := c.State.History[0].Promo(); got != chess.Queen {
			t.Errorf("recorded promotion = %v, want queen", got)
		}
	}
}

func TestStateChangeDetection(t *testing.T) {
	st := NewState(board.StartPosition())
	if !st.Changed() {
		t.Error("fresh state should need rendering")
	}
	placement := st.MarkRendered()
	if st.Changed() {
		t.Error("Changed() after MarkRendered")
	}
	var rebuilt chess.Board
	if err := rebuilt.UnmarshalText([]byte(placement)); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(st.Position.Board().SquareMap(), rebuilt.SquareMap()); diff != "" {
		t.Errorf("rendered placement does not rebuild the board (-want +got):\n%s", diff)
	}

	m, _ := board.ParseMove(nil, "g1f3")
	if err := st.Apply(rules.NotnilEngine{}, m); err != nil {
		t.Fatal(err)
	}
	if !st.Changed() {
		t.Error("Changed() = false after a move")
	}
	if err := st.Apply(rules.NotnilEngine{}, m); !errors.Is(err, rules.ErrIllegalMove) {
		t.Errorf("replaying g1f3 error = %v, want ErrIllegalMove", err)
	}
	if len(st.History) != 1 {
		t.Errorf("history = %v", st.History)
	}
}

// Two engine controllers share one state and play each other.
func TestSelfPlay(t *testing.T) {
	r := rules.DragontoothEngine{}
	st := NewState(board.StartPosition())
	white := NewController(st, r, bots.NewMinimaxBot(r, 1), bots.Always{}, chess.White)
	rng := rand.New(rand.NewSource(11))
	black := NewController(st, r, bots.NewRandomBot(rng), bots.NewProbabilityTrigger(0.5, rng), chess.Black)

	for cycle := 0; cycle < 400; cycle++ {
		ow, err := white.Tick()
		if err != nil {
			t.Fatalf("white Tick: %v", err)
		}
		ob, err := black.Tick()
		if err != nil {
			t.Fatalf("black Tick: %v", err)
		}
		if ow == GameOver || ob == GameOver {
			break
		}
	}
	if len(st.History) == 0 {
		t.Fatal("no moves were played")
	}

	// Replaying the history from the start reaches the same position.
	replay := board.StartPosition()
	for _, m := range st.History {
		next, err := r.Apply(replay, m)
		if err != nil {
			t.Fatalf("replay %s: %v", m, err)
		}
		replay = next
	}
	if replay.Board().String() != st.Position.Board().String() {
		t.Errorf("replay reached %s, state holds %s", replay.Board(), st.Position.Board())
	}
}
