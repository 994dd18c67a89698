package circuit

import (
	"fmt"

	"qpegrover/quantum"
)

// ParseTarget reads a width-character MSB-first bit-string. The leftmost
// character is bit width-1, which marks ancilla qubit width-1.
func ParseTarget(bits string, width int) (int, error) {
	if len(bits) != width {
		return 0, fmt.Errorf("%w: %q has %d characters, want %d", quantum.ErrInvalidTarget, bits, len(bits), width)
	}
	value := 0
	for _, ch := range bits {
		switch ch {
		case '0':
			value <<= 1
		case '1':
			value = value<<1 | 1
		default:
			return 0, fmt.Errorf("%w: %q contains %q, want only 0 and 1", quantum.ErrInvalidTarget, bits, ch)
		}
	}
	return value, nil
}

// BuildOracle returns the phase oracle that negates exactly the amplitudes
// whose ancilla register equals target, whatever the system register holds.
// Ancilla qubits whose target bit is 0 are conjugated by X so the phase flip
// fires on the all-ones pattern.
func BuildOracle(layout Layout, target string) (Sequence, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	value, err := ParseTarget(target, layout.Ancilla)
	if err != nil {
		return nil, err
	}

	ancilla := layout.AncillaQubits()
	var flips Sequence
	for k, q := range ancilla {
		if value&(1<<k) == 0 {
			flips = append(flips, quantum.PauliX(q))
		}
	}
	return Compose(flips, phaseFlip(ancilla), flips), nil
}

// phaseFlip negates the amplitude where every qubit reads 1, as H·MCX·H on the
// last qubit controlled by the rest. On a single qubit this is H·X·H = Z.
func phaseFlip(qubits []int) Sequence {
	last := len(qubits) - 1
	anchor := qubits[last]
	return Sequence{
		quantum.Hadamard(anchor),
		quantum.MCX(qubits[:last], anchor),
		quantum.Hadamard(anchor),
	}
}
