package bots

import (
	"github.com/notnil/chess"
	"golang.org/x/exp/rand"
)

// RandomBot plays a uniformly random legal move without scoring anything.
type RandomBot struct {
	rng *rand.Rand
}

func NewRandomBot(rng *rand.Rand) *RandomBot {
	return &RandomBot{rng: rng}
}

func (b *RandomBot) BestMove(pos *chess.Position, moves []*chess.Move) (*chess.Move, error) {
	if len(moves) == 0 {
		return nil, ErrNoLegalMoves
	}
	return moves[b.rng.Intn(len(moves))], nil
}

func (b *RandomBot) Name() string {
	return "Random Bot"
}
