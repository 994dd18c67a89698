package circuit

import (
	"fmt"

	"qpegrover/quantum"
)

// Sequence is an ordered list of gates, applied first to last.
type Sequence []quantum.Gate

// Compose concatenates sequences, preserving order.
func Compose(seqs ...Sequence) Sequence {
	total := 0
	for _, s := range seqs {
		total += len(s)
	}
	out := make(Sequence, 0, total)
	for _, s := range seqs {
		out = append(out, s...)
	}
	return out
}

// Repeat concatenates r copies of seq. r = 0 yields an empty sequence.
func Repeat(seq Sequence, r int) (Sequence, error) {
	if r < 0 {
		return nil, fmt.Errorf("%w: negative repetition count %d", quantum.ErrInvalidDimension, r)
	}
	out := make(Sequence, 0, len(seq)*r)
	for range r {
		out = append(out, seq...)
	}
	return out, nil
}

// Counts tallies gates by kind.
func (s Sequence) Counts() map[quantum.Kind]int {
	counts := make(map[quantum.Kind]int)
	for _, g := range s {
		counts[g.Kind]++
	}
	return counts
}

// BuildGroverIteration returns oracle ++ diffuser on the ancilla register.
func BuildGroverIteration(layout Layout, target string) (Sequence, error) {
	oracle, err := BuildOracle(layout, target)
	if err != nil {
		return nil, err
	}
	diffuser, err := BuildDiffuser(layout.AncillaQubits())
	if err != nil {
		return nil, err
	}
	return Compose(oracle, diffuser), nil
}

// BuildGrover returns r Grover iterations.
func BuildGrover(layout Layout, target string, r int) (Sequence, error) {
	iteration, err := BuildGroverIteration(layout, target)
	if err != nil {
		return nil, err
	}
	return Repeat(iteration, r)
}
