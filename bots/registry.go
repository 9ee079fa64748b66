package bots

import (
	"fmt"

	"golang.org/x/exp/rand"

	"minichess/rules"
)

// Options configures the policy built by New.
type Options struct {
	Depth int
	Mode  SearchMode
	Rng   *rand.Rand
}

// New builds the policy registered under name: "minimax" or "random".
func New(name string, r rules.Engine, opts Options) (ChessBot, error) {
	switch name {
	case "minimax":
		b := NewMinimaxBot(r, opts.Depth)
		b.Mode = opts.Mode
		return b, nil
	case "random":
		if opts.Rng == nil {
			return nil, fmt.Errorf("random bot needs a random source")
		}
		return NewRandomBot(opts.Rng), nil
	default:
		return nil, fmt.Errorf("unknown bot %q", name)
	}
}

// ParseSearchMode maps "minimax" and "single-line" to a SearchMode.
func ParseSearchMode(s string) (SearchMode, error) {
	switch s {
	case "", "minimax":
		return FullMinimax, nil
	case "single-line":
		return SingleLine, nil
	default:
		return FullMinimax, fmt.Errorf("unknown search mode %q", s)
	}
}
