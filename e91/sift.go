package e91

import (
	"fmt"
	"sort"

	"github.com/entanglab/e91/e91/bitseq"
)

// Sift extracts the raw key material from the key-generation partitions: for
// every record whose basis pair is designated for key generation, in
// original index order, Alice's bit joins her key and Bob's bit joins his,
// inverted when the protocol's flip convention says so. The two outputs
// always have equal length.
func (p *Protocol) Sift(parts *Partitions) (alice, bob bitseq.Dense) {
	var idxs []int
	for _, bp := range p.params.KeyPairs {
		idxs = append(idxs, parts.Indices(bp)...)
	}
	sort.Ints(idxs)

	for _, i := range idxs {
		rec := parts.log[i]
		alice.AppendBit(rec.AliceBit == 1)
		bobBit := rec.BobBit
		if p.params.FlipBobBits {
			bobBit ^= 1
		}
		bob.AppendBit(bobBit == 1)
	}
	return alice, bob
}

// An Estimate summarizes the error rate between the two sifted keys.
// Compared == 0 means no key bits existed to compare, which callers must
// treat as distinct from perfect agreement.
type Estimate struct {
	Compared   int
	Mismatches int
	QBER       float64
}

// EstimateQBER computes the quantum bit error rate between the two sifted
// keys: the fraction of positions where they differ. A length mismatch
// indicates a sifting bug and fails with ErrLengthMismatch.
func EstimateQBER(alice, bob bitseq.Dense) (Estimate, error) {
	if alice.Size() != bob.Size() {
		return Estimate{}, fmt.Errorf("%w: %d != %d", ErrLengthMismatch, alice.Size(), bob.Size())
	}
	e := Estimate{Compared: alice.Size()}
	if e.Compared == 0 {
		return e, nil
	}
	e.Mismatches = alice.XOr(bob).CountOnes()
	e.QBER = float64(e.Mismatches) / float64(e.Compared)
	return e, nil
}

// Secure reports whether est clears the protocol's QBER threshold. An
// estimate with no compared bits is never secure: there is no evidence
// either way.
func (p *Protocol) Secure(est Estimate) bool {
	return est.Compared > 0 && est.QBER < p.params.QBERThreshold
}
