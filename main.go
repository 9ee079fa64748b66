package main

import (
	"fmt"
	"image/color"
	"log"
	"os"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/notnil/chess"

	"minichess/board"
	"minichess/bots"
	"minichess/config"
	"minichess/game"
	"minichess/rules"
)

// Glyphs are drawn with the debug font, whose cells are 6x16 pixels.
const (
	glyphW = 6
	glyphH = 16
)

var (
	lightSquare = color.RGBA{240, 217, 181, 255}
	darkSquare  = color.RGBA{181, 136, 99, 255}
	highlight   = color.RGBA{246, 246, 105, 255}
)

type Game struct {
	ctrl       *game.Controller
	logger     *log.Logger
	size       int
	squareSize int

	// layout is the board as last rebuilt from the state's placement FEN.
	layout  chess.Board
	pieces  map[chess.Piece]*ebiten.Image
	squares [2]*ebiten.Image
	marker  *ebiten.Image
	status  string
}

func NewGame(cfg config.Config, logger *log.Logger) (*Game, error) {
	r, err := rules.New(cfg.Rules)
	if err != nil {
		return nil, err
	}
	start, err := board.ParseFEN(cfg.FEN)
	if err != nil {
		return nil, err
	}
	side, err := cfg.Side()
	if err != nil {
		return nil, err
	}
	rng := cfg.Rand()
	bot, err := cfg.NewBot(r, rng)
	if err != nil {
		return nil, err
	}

	ctrl := game.NewController(game.NewState(start), r, bot, cfg.NewTrigger(rng), side)
	ctrl.Logger = logger
	if mm, ok := bot.(*bots.MinimaxBot); ok && cfg.Verbose {
		mm.Logger = logger
	}

	g := &Game{
		ctrl:       ctrl,
		logger:     logger,
		size:       cfg.Size,
		squareSize: cfg.Size / 8,
		pieces:     make(map[chess.Piece]*ebiten.Image),
	}
	g.loadPieceImages()
	logger.Printf("game %s: %s vs player, engine plays %s, rules %s", ctrl.State.ID, bot.Name(), side.Name(), r.Name())
	return g, nil
}

// loadPieceImages renders each piece letter once and scales it to a square.
func (g *Game) loadPieceImages() {
	for i, c := range []color.Color{lightSquare, darkSquare} {
		g.squares[i] = ebiten.NewImage(g.squareSize, g.squareSize)
		g.squares[i].Fill(c)
	}
	g.marker = ebiten.NewImage(g.squareSize, g.squareSize)
	g.marker.Fill(highlight)

	for p := chess.WhiteKing; p <= chess.BlackPawn; p++ {
		glyph := ebiten.NewImage(glyphW, glyphH)
		ebitenutil.DebugPrint(glyph, pieceLetter(p))

		scaled := ebiten.NewImage(g.squareSize, g.squareSize)
		op := &ebiten.DrawImageOptions{}
		scale := float64(g.squareSize) / float64(glyphH)
		op.GeoM.Scale(scale, scale)
		op.GeoM.Translate((float64(g.squareSize)-glyphW*scale)/2, 0)
		if p.Color() == chess.Black {
			op.ColorScale.Scale(0.1, 0.1, 0.1, 1)
		}
		scaled.DrawImage(glyph, op)
		g.pieces[p] = scaled
	}
}

// pieceLetter is the FEN letter of p: upper case for White.
func pieceLetter(p chess.Piece) string {
	letter := p.Type().String()
	if p.Color() == chess.White {
		return strings.ToUpper(letter)
	}
	return letter
}

func (g *Game) Update() error {
	st := g.ctrl.State
	if st.Changed() {
		// Rebuild the drawn layout from the serialized placement.
		if err := g.layout.UnmarshalText([]byte(st.MarkRendered())); err != nil {
			return fmt.Errorf("rebuilding board: %w", err)
		}
		g.status = g.describe()
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		file := x / g.squareSize
		rank := 7 - y/g.squareSize
		if x < 0 || y < 0 {
			file, rank = -1, -1
		}
		if _, err := g.ctrl.SelectAt(file, rank); err != nil {
			g.logger.Printf("input: %v", err)
		}
	}

	outcome, err := g.ctrl.Tick()
	if err != nil {
		g.logger.Printf("cycle: %v", err)
	} else if outcome == game.GameOver {
		g.status = g.describe()
	}
	return nil
}

func (g *Game) describe() string {
	st, err := g.ctrl.Status()
	if err != nil {
		return err.Error()
	}
	pos := g.ctrl.State.Position
	switch st {
	case rules.Checkmate:
		return fmt.Sprintf("Checkmate, %s wins", pos.Turn().Other().Name())
	case rules.Stalemate:
		return "Stalemate"
	}
	if pos.Turn() == g.ctrl.EngineSide {
		return "Engine to move"
	}
	return "Your move"
}

func (g *Game) Draw(screen *ebiten.Image) {
	gesture := g.ctrl.Gesture
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			sq := chess.NewSquare(chess.File(x), chess.Rank(7-y))
			img := g.squares[(x+y)%2]
			if gesture.AwaitingDestination && gesture.PendingOrigin == sq {
				img = g.marker
			}
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Translate(float64(x*g.squareSize), float64(y*g.squareSize))
			screen.DrawImage(img, op)

			if piece := g.layout.Piece(sq); piece != chess.NoPiece {
				screen.DrawImage(g.pieces[piece], op)
			}
		}
	}
	ebitenutil.DebugPrintAt(screen, g.status, 4, 4)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.size, g.size
}

func main() {
	logger := log.New(os.Stderr, "minichess: ", log.LstdFlags)
	cfg, err := config.Parse(os.Args[1:], os.Stderr)
	if err != nil {
		logger.Fatal(err)
	}
	g, err := NewGame(cfg, logger)
	if err != nil {
		logger.Fatal(err)
	}
	ebiten.SetWindowSize(cfg.Size, cfg.Size)
	ebiten.SetWindowTitle("Chess Engine")
	if err := ebiten.RunGame(g); err != nil {
		logger.Fatal(err)
	}
}
