package epr

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// A SingletSource simulates measurements on the two-qubit singlet state with
// a closed-form probability model: Alice's bit is uniform, and the two bits
// agree with probability sin²((a−b)/2). Matched bases therefore
// anti-correlate perfectly, and the CHSH correlations reach 2√2 in the
// noiseless case.
type SingletSource struct {
	noise float64
	rng   *rand.Rand
}

// NewSingletSource returns a SingletSource drawing its randomness from rng.
// noise is the probability that Bob's bit is independently flipped per pair,
// which raises the matched-basis error rate by noise and scales every
// correlation by (1 − 2·noise).
func NewSingletSource(noise float64, rng *rand.Rand) (*SingletSource, error) {
	if noise < 0 || noise > 1 {
		return nil, fmt.Errorf("noise must be in [0, 1], got %v", noise)
	}
	if rng == nil {
		return nil, fmt.Errorf("must provide a random source")
	}
	return &SingletSource{noise: noise, rng: rng}, nil
}

// Measure implements the Source interface.
func (s *SingletSource) Measure(aliceAngle, bobAngle float64) (Outcome, error) {
	half := math.Sin((aliceAngle - bobAngle) / 2)
	pAgree := half * half

	out := Outcome{Alice: s.flip(0.5)}
	out.Bob = out.Alice ^ 1 ^ s.flip(pAgree) ^ s.flip(s.noise)
	return out, nil
}

// flip draws a single bit that is 1 with probability p.
func (s *SingletSource) flip(p float64) byte {
	b := distuv.Bernoulli{P: p, Src: s.rng}
	return byte(b.Rand())
}
