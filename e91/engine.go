package e91

import "fmt"

// SelectBases draws numPairs basis choices for each party, independently and
// uniformly at random with replacement from the party's basis set. The two
// sequences are uncorrelated with each other.
func (p *Protocol) SelectBases(numPairs int) (alice, bob []int) {
	alice = make([]int, numPairs)
	bob = make([]int, numPairs)
	for i := 0; i < numPairs; i++ {
		alice[i] = p.rand.Intn(len(p.params.AliceAngles))
		bob[i] = p.rand.Intn(len(p.params.BobAngles))
	}
	return alice, bob
}

// RunPairs measures one entangled pair per index, in index order, and
// returns the resulting run log. alice and bob give each party's basis
// choice per pair and must have equal length.
//
// If the source fails, RunPairs returns the records accumulated so far
// alongside the error; the truncated log is valid input to downstream
// analysis for callers that choose to accept it.
func (p *Protocol) RunPairs(alice, bob []int) (RunLog, error) {
	if len(alice) != len(bob) {
		return nil, fmt.Errorf("basis choice lengths differ: %d != %d", len(alice), len(bob))
	}
	log := make(RunLog, 0, len(alice))
	for i := range alice {
		out, err := p.source.Measure(
			p.params.AliceAngles[alice[i]],
			p.params.BobAngles[bob[i]],
		)
		if err != nil {
			return log, fmt.Errorf("measuring pair %d: %w", i, err)
		}
		if out.Alice > 1 || out.Bob > 1 {
			return log, fmt.Errorf("measuring pair %d: source returned non-bit outcome (%d, %d)",
				i, out.Alice, out.Bob)
		}
		log = append(log, PairRecord{
			Index:      i,
			AliceBasis: alice[i],
			BobBasis:   bob[i],
			AliceBit:   out.Alice,
			BobBit:     out.Bob,
		})
	}
	return log, nil
}

// Run selects bases for numPairs entangled pairs and measures them all.
func (p *Protocol) Run(numPairs int) (RunLog, error) {
	alice, bob := p.SelectBases(numPairs)
	return p.RunPairs(alice, bob)
}
