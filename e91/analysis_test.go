package e91

import (
	"math"
	"testing"
)

// logFromBits builds a run log where every record uses basis pair bp and the
// i-th record's bits are bits[i] = {aliceBit, bobBit}.
func logFromBits(bp BasisPair, bits [][2]byte) RunLog {
	log := make(RunLog, 0, len(bits))
	for i, b := range bits {
		log = append(log, PairRecord{
			Index:      i,
			AliceBasis: bp.Alice,
			BobBasis:   bp.Bob,
			AliceBit:   b[0],
			BobBit:     b[1],
		})
	}
	return log
}

func TestCorrelation(t *testing.T) {
	bp := BasisPair{Alice: 0, Bob: 0}
	tcs := []struct {
		name  string
		bits  [][2]byte
		ecorr float64
	}{
		{
			name:  "empty partition",
			ecorr: 0,
		}, {
			name:  "all agree",
			bits:  [][2]byte{{0, 0}, {1, 1}, {0, 0}},
			ecorr: 1,
		}, {
			name:  "all disagree",
			bits:  [][2]byte{{0, 1}, {1, 0}},
			ecorr: -1,
		}, {
			name:  "half and half",
			bits:  [][2]byte{{0, 0}, {0, 1}},
			ecorr: 0,
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			parts := logFromBits(bp, tc.bits).Partitions()
			if got := parts.Correlation(bp); got != tc.ecorr {
				t.Errorf("correlation == %v, want %v", got, tc.ecorr)
			}
		})
	}
}

func TestPartitionsCoverLog(t *testing.T) {
	log := RunLog{
		{Index: 0, AliceBasis: 0, BobBasis: 0, AliceBit: 0, BobBit: 1},
		{Index: 1, AliceBasis: 0, BobBasis: 0, AliceBit: 1, BobBit: 0},
		{Index: 2, AliceBasis: 1, BobBasis: 2, AliceBit: 0, BobBit: 0},
		{Index: 3, AliceBasis: 2, BobBasis: 1, AliceBit: 1, BobBit: 1},
	}
	parts := log.Partitions()
	var total int
	for a := 0; a < 3; a++ {
		for b := 0; b < 3; b++ {
			total += parts.Count(BasisPair{Alice: a, Bob: b})
		}
	}
	if total != parts.Total() || total != len(log) {
		t.Errorf("partition counts sum to %d, want %d", total, len(log))
	}
	if got := parts.Count(BasisPair{Alice: 0, Bob: 0}); got != 2 {
		t.Errorf("partition (0,0) has %d records, want 2", got)
	}
	if got := parts.Indices(BasisPair{Alice: 1, Bob: 2}); len(got) != 1 || got[0] != 2 {
		t.Errorf("partition (1,2) indices == %v, want [2]", got)
	}
}

func TestCHSHExtremal(t *testing.T) {
	p := newTestProtocol(t, agreeSource, 1)
	quad := p.Params().CHSHPairs

	// Three perfectly agreeing partitions and one perfectly disagreeing
	// fourth: S = |1 + 1 + 1 - (-1)| = 4.
	var log RunLog
	for _, bp := range quad[:3] {
		for _, rec := range logFromBits(bp, [][2]byte{{0, 0}, {1, 1}}) {
			rec.Index = len(log)
			log = append(log, rec)
		}
	}
	for _, rec := range logFromBits(quad[3], [][2]byte{{0, 1}, {1, 0}}) {
		rec.Index = len(log)
		log = append(log, rec)
	}

	res := p.CHSH(log.Partitions())
	if res.S != 4 {
		t.Errorf("S == %v, want 4", res.S)
	}
	if !res.Violated() {
		t.Errorf("S == 4 must violate the classical bound")
	}
	for i, n := range res.Counts {
		if n != 2 {
			t.Errorf("CHSH partition %d has %d records, want 2", i, n)
		}
	}
}

func TestCHSHEmptyLog(t *testing.T) {
	p := newTestProtocol(t, agreeSource, 1)
	res := p.CHSH(RunLog{}.Partitions())
	if res.S != 0 {
		t.Errorf("S == %v on empty log, want 0", res.S)
	}
	if res.Violated() {
		t.Errorf("empty log cannot violate the classical bound")
	}
}

func TestBounds(t *testing.T) {
	if got := QuantumBound; math.Abs(got-2.8284271) > 1e-6 {
		t.Errorf("quantum bound == %v, want 2*sqrt(2)", got)
	}
}
