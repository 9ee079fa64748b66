// Package config parses the host's command line.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/notnil/chess"
	"golang.org/x/exp/rand"

	"minichess/board"
	"minichess/bots"
	"minichess/rules"
)

// ErrInvalidConfig indicates a flag value out of range.
var ErrInvalidConfig = errors.New("invalid configuration")

// Trigger kinds accepted by -trigger.
const (
	TriggerProbability = "probability"
	TriggerMatch       = "match"
	TriggerAlways      = "always"
)

// maxDepth caps -depth for full minimax per rules engine. The search runs
// inside one host frame, so the window stalls while the engine thinks.
var maxDepth = map[string]int{
	"dragontooth": 4,
	"notnil":      3,
}

// A single-line search visits depth positions per candidate.
const maxSingleLineDepth = 8

// Config holds everything the host needs to build a game.
type Config struct {
	Bot        string  // minimax or random
	Depth      int     // plies searched by the minimax bot
	Mode       string  // minimax or single-line
	Trigger    string  // probability, match or always
	TriggerP   float64 // per-cycle probability for the probability trigger
	TriggerN   int     // range of the two draws for the match trigger
	EngineSide string  // white or black
	Rules      string  // notnil or dragontooth
	FEN        string  // starting position
	Seed       uint64  // 0 picks a time-based seed
	Verbose    bool
	Size       int // window edge in pixels
}

// Default returns the configuration used when no flags are given.
func Default() Config {
	return Config{
		Bot:        "minimax",
		Depth:      3,
		Mode:       "minimax",
		Trigger:    TriggerProbability,
		TriggerP:   1.0 / 24,
		TriggerN:   24,
		EngineSide: "white",
		Rules:      "dragontooth",
		FEN:        board.StartFEN,
		Size:       600,
	}
}

// Parse reads flags from args (without the program name) and validates them.
func Parse(args []string, output io.Writer) (Config, error) {
	cfg := Default()
	fs := flag.NewFlagSet("minichess", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&cfg.Bot, "bot", cfg.Bot, "Engine policy: minimax or random")
	fs.IntVar(&cfg.Depth, "depth", cfg.Depth, "Search depth in plies, including the move itself. With -mode minimax each ply multiplies the pause per engine move by about 30; at most 4 with dragontooth, 3 with notnil")
	fs.StringVar(&cfg.Mode, "mode", cfg.Mode, "Search below the root: minimax or single-line")
	fs.StringVar(&cfg.Trigger, "trigger", cfg.Trigger, "When the engine acts: probability, match or always")
	fs.Float64Var(&cfg.TriggerP, "trigger-p", cfg.TriggerP, "Per-cycle probability for -trigger probability")
	fs.IntVar(&cfg.TriggerN, "trigger-n", cfg.TriggerN, "Draw range for -trigger match (fires with probability 1/N)")
	fs.StringVar(&cfg.EngineSide, "engine-side", cfg.EngineSide, "Side the engine plays: white or black")
	fs.StringVar(&cfg.Rules, "rules", cfg.Rules, "Rules engine: dragontooth or notnil (notnil searches several times slower)")
	fs.StringVar(&cfg.FEN, "fen", cfg.FEN, "Starting position")
	fs.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed (0 = time based)")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "Log every searched candidate")
	fs.IntVar(&cfg.Size, "size", cfg.Size, "Window size in pixels")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if fs.NArg() > 0 {
		return Config{}, fmt.Errorf("%w: unexpected arguments %v", ErrInvalidConfig, fs.Args())
	}
	return cfg, cfg.Validate()
}

// Validate checks every field.
func (c Config) Validate() error {
	if c.Bot != "minimax" && c.Bot != "random" {
		return fmt.Errorf("%w: bot %q", ErrInvalidConfig, c.Bot)
	}
	mode, err := bots.ParseSearchMode(c.Mode)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	switch c.Trigger {
	case TriggerProbability:
		if c.TriggerP < 0 || c.TriggerP > 1 {
			return fmt.Errorf("%w: trigger probability %v not in [0, 1]", ErrInvalidConfig, c.TriggerP)
		}
	case TriggerMatch:
		if c.TriggerN < 1 {
			return fmt.Errorf("%w: trigger range %d", ErrInvalidConfig, c.TriggerN)
		}
	case TriggerAlways:
	default:
		return fmt.Errorf("%w: trigger %q", ErrInvalidConfig, c.Trigger)
	}
	if _, err := c.Side(); err != nil {
		return err
	}
	r, err := rules.New(c.Rules)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	limit := maxDepth[r.Name()]
	if mode == bots.SingleLine {
		limit = maxSingleLineDepth
	}
	if c.Depth < 1 || c.Depth > limit {
		return fmt.Errorf("%w: depth %d not in [1, %d] for %s", ErrInvalidConfig, c.Depth, limit, r.Name())
	}
	if _, err := board.ParseFEN(c.FEN); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Size < 160 {
		return fmt.Errorf("%w: window size %d too small", ErrInvalidConfig, c.Size)
	}
	return nil
}

// Side returns the engine's side.
func (c Config) Side() (chess.Color, error) {
	switch c.EngineSide {
	case "white":
		return chess.White, nil
	case "black":
		return chess.Black, nil
	default:
		return chess.White, fmt.Errorf("%w: engine side %q", ErrInvalidConfig, c.EngineSide)
	}
}

// Rand returns the random source for this run.
func (c Config) Rand() *rand.Rand {
	seed := c.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewSource(seed))
}

// NewTrigger builds the configured trigger over rng.
func (c Config) NewTrigger(rng *rand.Rand) bots.Trigger {
	switch c.Trigger {
	case TriggerMatch:
		return bots.NewMatchTrigger(c.TriggerN, rng)
	case TriggerAlways:
		return bots.Always{}
	default:
		return bots.NewProbabilityTrigger(c.TriggerP, rng)
	}
}

// NewBot builds the configured policy over r and rng.
func (c Config) NewBot(r rules.Engine, rng *rand.Rand) (bots.ChessBot, error) {
	mode, err := bots.ParseSearchMode(c.Mode)
	if err != nil {
		return nil, err
	}
	return bots.New(c.Bot, r, bots.Options{Depth: c.Depth, Mode: mode, Rng: rng})
}
