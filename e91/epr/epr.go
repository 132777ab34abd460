// Package epr provides sources of correlated measurement outcomes on
// entangled particle pairs.
package epr

// An Outcome is the result of measuring both halves of one entangled pair.
// Bit values are 0 or 1.
type Outcome struct {
	Alice byte
	Bob   byte
}

// A Source produces one correlated outcome per call, consistent with
// measuring a fixed maximally-entangled two-particle state. Angles give each
// party's measurement-basis rotation in radians. Implementations must treat
// every call as independent: no state may be shared between invocations
// beyond the source's own randomness.
type Source interface {
	Measure(aliceAngle, bobAngle float64) (Outcome, error)
}

// SourceFunc adapts a function to the Source interface, e.g. to delegate
// measurements to an external backend.
type SourceFunc func(aliceAngle, bobAngle float64) (Outcome, error)

// Measure implements the Source interface.
func (f SourceFunc) Measure(aliceAngle, bobAngle float64) (Outcome, error) {
	return f(aliceAngle, bobAngle)
}
