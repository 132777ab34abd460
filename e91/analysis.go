package e91

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Partitions indexes a run log by basis pair. Every record belongs to
// exactly one partition; the index is built once per log and shared by the
// correlation analyzer, the key sifter, and reporting.
type Partitions struct {
	log    RunLog
	byPair map[BasisPair][]int
}

// Partitions builds the basis-pair index for l.
func (l RunLog) Partitions() *Partitions {
	byPair := make(map[BasisPair][]int)
	for i, rec := range l {
		bp := BasisPair{Alice: rec.AliceBasis, Bob: rec.BobBasis}
		byPair[bp] = append(byPair[bp], i)
	}
	return &Partitions{log: l, byPair: byPair}
}

// Count returns the number of records in the bp partition.
func (p *Partitions) Count(bp BasisPair) int {
	return len(p.byPair[bp])
}

// Indices returns the log indices of the bp partition, in original order.
func (p *Partitions) Indices(bp BasisPair) []int {
	return p.byPair[bp]
}

// Total returns the number of records across all partitions.
func (p *Partitions) Total() int {
	return len(p.log)
}

// Correlation returns the average agreement of the bp partition: each record
// contributes +1 if the two bits agree and -1 otherwise. An empty partition
// has correlation 0 by definition.
func (p *Partitions) Correlation(bp BasisPair) float64 {
	idxs := p.byPair[bp]
	if len(idxs) == 0 {
		return 0
	}
	terms := make([]float64, 0, len(idxs))
	for _, i := range idxs {
		if p.log[i].AliceBit == p.log[i].BobBit {
			terms = append(terms, 1)
		} else {
			terms = append(terms, -1)
		}
	}
	return stat.Mean(terms, nil)
}

// A CHSHResult packages the CHSH statistic together with the per-pair
// correlations and sample counts that produced it.
type CHSHResult struct {
	Pairs        [4]BasisPair
	Counts       [4]int
	Correlations [4]float64

	// S = |E1 + E2 + E3 - E4| over Correlations. Values above
	// ClassicalBound indicate entanglement; QuantumBound is the ceiling for
	// a singlet state.
	S float64
}

// Violated reports whether S exceeds the classical CHSH bound.
func (r CHSHResult) Violated() bool {
	return r.S > ClassicalBound
}

// CHSH computes the CHSH statistic from the protocol's designated basis
// quadruple, with the fixed sign pattern S = |E1 + E2 + E3 - E4|.
func (p *Protocol) CHSH(parts *Partitions) CHSHResult {
	r := CHSHResult{Pairs: p.params.CHSHPairs}
	for i, bp := range r.Pairs {
		r.Counts[i] = parts.Count(bp)
		r.Correlations[i] = parts.Correlation(bp)
	}
	e := r.Correlations
	r.S = math.Abs(e[0] + e[1] + e[2] - e[3])
	return r
}
