package circuit

import (
	"fmt"

	"qpegrover/quantum"
)

// Layout fixes the register order: ancilla qubits occupy [0, d), system
// qubits occupy [d, d+n). Every builder in this package honours it; swapping
// the two silently corrupts the phase-to-bit mapping.
type Layout struct {
	System  int // n
	Ancilla int // d
}

// NewLayout validates n and d and returns the layout.
func NewLayout(system, ancilla int) (Layout, error) {
	l := Layout{System: system, Ancilla: ancilla}
	return l, l.Validate()
}

// Validate reports ErrInvalidDimension for unusable qubit counts.
func (l Layout) Validate() error {
	switch {
	case l.System < 1:
		return fmt.Errorf("%w: system register needs at least 1 qubit, got %d", quantum.ErrInvalidDimension, l.System)
	case l.Ancilla < 1:
		return fmt.Errorf("%w: ancilla register needs at least 1 qubit, got %d", quantum.ErrInvalidDimension, l.Ancilla)
	case l.Ancilla > MaxFourierQubits:
		return fmt.Errorf("%w: ancilla register of %d qubits exceeds the dense Fourier limit of %d",
			quantum.ErrInvalidDimension, l.Ancilla, MaxFourierQubits)
	case l.Total() > quantum.MaxQubits:
		return fmt.Errorf("%w: %d+%d qubits exceeds %d", quantum.ErrInvalidDimension, l.System, l.Ancilla, quantum.MaxQubits)
	}
	return nil
}

// Total returns n+d.
func (l Layout) Total() int {
	return l.System + l.Ancilla
}

// AncillaQubits returns [0, d).
func (l Layout) AncillaQubits() []int {
	return qubitRange(0, l.Ancilla)
}

// SystemQubits returns [d, d+n).
func (l Layout) SystemQubits() []int {
	return qubitRange(l.Ancilla, l.System)
}

func qubitRange(start, count int) []int {
	out := make([]int, count)
	for i := range out {
		out[i] = start + i
	}
	return out
}
