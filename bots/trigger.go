package bots

import "golang.org/x/exp/rand"

// Trigger decides, once per decision cycle, whether the bot acts.
type Trigger interface {
	Fire() bool
}

// ProbabilityTrigger fires when a single uniform draw in [0, 1) is below P.
type ProbabilityTrigger struct {
	P   float64
	rng *rand.Rand
}

func NewProbabilityTrigger(p float64, rng *rand.Rand) *ProbabilityTrigger {
	return &ProbabilityTrigger{P: p, rng: rng}
}

func (t *ProbabilityTrigger) Fire() bool {
	return t.rng.Float64() < t.P
}

// MatchTrigger draws two integers in [0, N) and fires when they are equal,
// which happens with probability 1/N.
type MatchTrigger struct {
	N   int
	rng *rand.Rand
}

func NewMatchTrigger(n int, rng *rand.Rand) *MatchTrigger {
	return &MatchTrigger{N: n, rng: rng}
}

func (t *MatchTrigger) Fire() bool {
	if t.N <= 1 {
		return true
	}
	return t.rng.Intn(t.N) == t.rng.Intn(t.N)
}

// Always fires every cycle.
type Always struct{}

func (Always) Fire() bool { return true }
