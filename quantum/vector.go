package quantum

import (
	"fmt"
	"math/cmplx"
)

// MaxQubits bounds a single register so that 2^q stays addressable.
const MaxQubits = 30

// Vector holds the 2^q complex amplitudes of a q-qubit register.
// Basis index bit i is qubit i. Only Engine mutates the amplitudes.
type Vector struct {
	amps      []complex128
	numQubits int
}

// NewVector returns the all-zero basis state |0…0⟩ over numQubits qubits.
func NewVector(numQubits int) (*Vector, error) {
	if numQubits < 1 || numQubits > MaxQubits {
		return nil, fmt.Errorf("%w: register of %d qubits, want 1..%d", ErrInvalidDimension, numQubits, MaxQubits)
	}
	amps := make([]complex128, 1<<numQubits)
	amps[0] = 1
	return &Vector{amps: amps, numQubits: numQubits}, nil
}

// NumQubits returns q.
func (v *Vector) NumQubits() int {
	return v.numQubits
}

// Size returns 2^q.
func (v *Vector) Size() int {
	return len(v.amps)
}

// Amplitude returns the amplitude at a basis index.
func (v *Vector) Amplitude(index int) (complex128, error) {
	if index < 0 || index >= len(v.amps) {
		return 0, fmt.Errorf("%w: basis index %d not in [0, %d)", ErrOutOfRange, index, len(v.amps))
	}
	return v.amps[index], nil
}

// Probability returns |amplitude(index)|².
func (v *Vector) Probability(index int) (float64, error) {
	amp, err := v.Amplitude(index)
	if err != nil {
		return 0, err
	}
	return probability(amp), nil
}

// Amplitudes returns a copy of the amplitude array.
func (v *Vector) Amplitudes() []complex128 {
	out := make([]complex128, len(v.amps))
	copy(out, v.amps)
	return out
}

// Probabilities returns |a_i|² for every basis index.
func (v *Vector) Probabilities() []float64 {
	probs := make([]float64, len(v.amps))
	for i, amp := range v.amps {
		probs[i] = probability(amp)
	}
	return probs
}

// Norm returns Σ|a_i|², summed in index order.
func (v *Vector) Norm() float64 {
	total := 0.0
	for _, amp := range v.amps {
		total += probability(amp)
	}
	return total
}

// Clone returns an independent copy.
func (v *Vector) Clone() *Vector {
	return &Vector{amps: v.Amplitudes(), numQubits: v.numQubits}
}

func probability(amp complex128) float64 {
	return real(amp * cmplx.Conj(amp))
}
