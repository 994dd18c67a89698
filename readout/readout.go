// Package readout turns a state vector into probability mass functions over
// the full register or over a subset of its qubits.
//
// Bit-strings are written MSB first: the leftmost character is the highest
// qubit of the set, matching the usual ket notation |q_{k-1} … q_0⟩.
package readout

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"qpegrover/quantum"
)

// DefaultThreshold drops full-register entries that carry no visible mass.
const DefaultThreshold = 1e-6

// Entry is one outcome of a distribution.
type Entry struct {
	Bits        string
	Value       int
	Probability float64
}

// Distribution is a probability mass function sorted by descending
// probability, ties broken by ascending value.
type Distribution []Entry

// Full returns every basis state whose probability exceeds threshold.
func Full(v *quantum.Vector, threshold float64) Distribution {
	width := v.NumQubits()
	var dist Distribution
	for i, p := range v.Probabilities() {
		if p > threshold {
			dist = append(dist, Entry{Bits: FormatBits(i, width), Value: i, Probability: p})
		}
	}
	dist.sort()
	return dist
}

// Marginal sums the probabilities of all basis states that agree on qubits.
// The outcome value carries qubits[j] as bit j. Outcomes with zero mass are
// omitted.
func Marginal(v *quantum.Vector, qubits []int) (Distribution, error) {
	if len(qubits) == 0 {
		return nil, fmt.Errorf("%w: marginal over an empty qubit set", quantum.ErrInvalidDimension)
	}
	seen := make(map[int]bool, len(qubits))
	for _, q := range qubits {
		if q < 0 || q >= v.NumQubits() {
			return nil, fmt.Errorf("%w: qubit %d not in [0, %d)", quantum.ErrOutOfRange, q, v.NumQubits())
		}
		if seen[q] {
			return nil, fmt.Errorf("%w: qubit %d listed twice", quantum.ErrInvalidDimension, q)
		}
		seen[q] = true
	}

	sums := make([]float64, 1<<len(qubits))
	for i, p := range v.Probabilities() {
		sums[subValue(i, qubits)] += p
	}

	var dist Distribution
	for val, p := range sums {
		if p > 0 {
			dist = append(dist, Entry{Bits: FormatBits(val, len(qubits)), Value: val, Probability: p})
		}
	}
	dist.sort()
	return dist, nil
}

// Total returns Σp.
func (d Distribution) Total() float64 {
	total := 0.0
	for _, e := range d {
		total += e.Probability
	}
	return total
}

// Probability returns the mass on bits, zero when absent.
func (d Distribution) Probability(bits string) float64 {
	for _, e := range d {
		if e.Bits == bits {
			return e.Probability
		}
	}
	return 0
}

// Map returns the distribution keyed by bit-string.
func (d Distribution) Map() map[string]float64 {
	out := make(map[string]float64, len(d))
	for _, e := range d {
		out[e.Bits] = e.Probability
	}
	return out
}

// Top returns the k most probable entries.
func (d Distribution) Top(k int) Distribution {
	if k < len(d) {
		return d[:k]
	}
	return d
}

// Above keeps entries whose probability exceeds threshold.
func (d Distribution) Above(threshold float64) Distribution {
	out := make(Distribution, 0, len(d))
	for _, e := range d {
		if e.Probability > threshold {
			out = append(out, e)
		}
	}
	return out
}

func (d Distribution) sort() {
	slices.SortFunc(d, func(a, b Entry) int {
		if c := cmp.Compare(b.Probability, a.Probability); c != 0 {
			return c
		}
		return cmp.Compare(a.Value, b.Value)
	})
}

// FormatBits renders value as a zero-padded width-character binary string.
func FormatBits(value, width int) string {
	s := strconv.FormatInt(int64(value), 2)
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}

func subValue(index int, qubits []int) int {
	v := 0
	for j, q := range qubits {
		v |= ((index >> q) & 1) << j
	}
	return v
}
