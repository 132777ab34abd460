// Package e91 implements the orchestration and statistics engine of the E91
// entanglement-based quantum key distribution protocol: random basis
// selection, per-pair outcome bookkeeping, CHSH correlation analysis, key
// sifting with error-rate estimation, and a structured run report.
package e91

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"github.com/entanglab/e91/e91/epr"
)

// CHSH bounds for the statistic S. A local hidden-variable model cannot
// exceed ClassicalBound; a singlet state saturates QuantumBound.
const (
	ClassicalBound = 2.0
	QuantumBound   = 2 * math.Sqrt2
)

// DefaultQBERThreshold is the conventional error-rate ceiling below which the
// channel is accepted as secure.
const DefaultQBERThreshold = 0.11

// ErrLengthMismatch indicates that the two sifted key sequences have
// different lengths, which can only result from a sifting bug.
var ErrLengthMismatch = errors.New("sifted key lengths differ")

// A BasisPair names one (Alice basis, Bob basis) combination by index into
// the parties' basis sets.
type BasisPair struct {
	Alice int
	Bob   int
}

// A PairRecord captures everything known about one simulated entangled pair.
// Records are created once by the run engine and never mutated.
type PairRecord struct {
	Index      int
	AliceBasis int
	BobBasis   int
	AliceBit   byte
	BobBit     byte
}

// A RunLog is the ordered sequence of pair records from one protocol run.
type RunLog []PairRecord

// Params fixes the protocol parameter set: each party's measurement angles
// and display labels, which basis pairs feed the key, which four feed the
// CHSH statistic, the Bob bit-flip convention, and the QBER acceptance
// threshold. The CHSH sign pattern is fixed as S = |E1 + E2 + E3 − E4| over
// CHSHPairs in order.
type Params struct {
	AliceAngles []float64
	AliceLabels []string
	BobAngles   []float64
	BobLabels   []string

	// KeyPairs designates the basis combinations whose outcomes become key
	// bits; for the singlet parameterization these are the matched-angle
	// combinations.
	KeyPairs []BasisPair

	// CHSHPairs designates the four basis combinations entering the CHSH
	// statistic, ordered so that the fourth carries the minus sign.
	CHSHPairs [4]BasisPair

	// FlipBobBits inverts Bob's sifted bits. The singlet state
	// anti-correlates matched-basis outcomes, so its convention requires the
	// flip; a Bell Φ+ parameterization would not. This is a protocol
	// parameter: getting it wrong halves apparent key agreement without any
	// error being raised.
	FlipBobBits bool

	// QBERThreshold is the error rate at or above which the run is rejected
	// as potentially eavesdropped.
	QBERThreshold float64
}

// SingletParams returns the standard E91 parameterization for a singlet
// state: Alice measures at {0, π/4, π/2}, Bob at {π/4, π/2, 3π/4}, the two
// matched-angle combinations generate key, and the remaining four oblique
// combinations form the CHSH test with ideal S = 2√2.
func SingletParams() Params {
	return Params{
		AliceAngles: []float64{0, math.Pi / 4, math.Pi / 2},
		AliceLabels: []string{"A1", "A2", "A3"},
		BobAngles:   []float64{math.Pi / 4, math.Pi / 2, 3 * math.Pi / 4},
		BobLabels:   []string{"B1", "B2", "B3"},
		KeyPairs:    []BasisPair{{Alice: 1, Bob: 0}, {Alice: 2, Bob: 1}},
		CHSHPairs: [4]BasisPair{
			{Alice: 0, Bob: 0},
			{Alice: 2, Bob: 0},
			{Alice: 2, Bob: 2},
			{Alice: 0, Bob: 2},
		},
		FlipBobBits:   true,
		QBERThreshold: DefaultQBERThreshold,
	}
}

// An Options packages together the arguments necessary to construct a new
// Protocol. Source and Rand have no reasonable defaults and must be set.
type Options struct {
	// Source produces one correlated outcome per entangled pair. Must be
	// non-nil.
	Source epr.Source

	// Rand drives basis selection. This may use pRNG for experiments and
	// testing; runs are reproducible given a seeded source. Must be non-nil.
	Rand *rand.Rand

	// Params fixes the protocol parameter set. Defaults to SingletParams().
	Params *Params
}

// A Protocol runs the E91 orchestration against a fixed parameter set.
type Protocol struct {
	source epr.Source
	rand   *rand.Rand
	params Params
}

// New returns a new Protocol, configured in accordance with opts, or an
// error if the options are nonsensical.
func New(opts Options) (*Protocol, error) {
	if opts.Source == nil {
		return nil, errors.New("must provide Source")
	}
	if opts.Rand == nil {
		return nil, errors.New("must provide Rand")
	}
	params := SingletParams()
	if opts.Params != nil {
		params = *opts.Params
	}
	if err := validateParams(params); err != nil {
		return nil, err
	}
	return &Protocol{
		source: opts.Source,
		rand:   opts.Rand,
		params: params,
	}, nil
}

// Params returns the protocol parameter set in use.
func (p *Protocol) Params() Params {
	return p.params
}

func validateParams(params Params) error {
	if len(params.AliceAngles) == 0 || len(params.BobAngles) == 0 {
		return errors.New("each party needs at least one basis")
	}
	if len(params.AliceAngles) != len(params.AliceLabels) {
		return fmt.Errorf("alice has %d angles but %d labels",
			len(params.AliceAngles), len(params.AliceLabels))
	}
	if len(params.BobAngles) != len(params.BobLabels) {
		return fmt.Errorf("bob has %d angles but %d labels",
			len(params.BobAngles), len(params.BobLabels))
	}
	if len(params.KeyPairs) == 0 {
		return errors.New("must designate at least one key basis pair")
	}
	pairs := append([]BasisPair{}, params.KeyPairs...)
	pairs = append(pairs, params.CHSHPairs[:]...)
	for _, bp := range pairs {
		if bp.Alice < 0 || bp.Alice >= len(params.AliceAngles) {
			return fmt.Errorf("basis pair %+v: alice index out of range", bp)
		}
		if bp.Bob < 0 || bp.Bob >= len(params.BobAngles) {
			return fmt.Errorf("basis pair %+v: bob index out of range", bp)
		}
	}
	if params.QBERThreshold <= 0 || params.QBERThreshold >= 1 {
		return fmt.Errorf("QBER threshold must be in (0, 1), got %v", params.QBERThreshold)
	}
	return nil
}
