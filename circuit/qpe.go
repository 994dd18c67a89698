package circuit

import (
	"fmt"

	"qpegrover/quantum"
)

// Preparation selects how the system register is initialised before the
// controlled powers. The zero value is Superposition.
type Preparation struct {
	fixed bool
	index int
}

// Superposition puts every system qubit through H. It stands in for an
// unknown eigenvector: each basis state is an eigenvector of the diagonal
// unitary, so QPE runs on all of them at once.
func Superposition() Preparation {
	return Preparation{}
}

// FixedEigenstate prepares the system register in basis state x.
func FixedEigenstate(x int) Preparation {
	return Preparation{fixed: true, index: x}
}

// Fixed reports whether a single eigenstate is prepared, and which one.
func (p Preparation) Fixed() (int, bool) {
	return p.index, p.fixed
}

func (p Preparation) String() string {
	if p.fixed {
		return fmt.Sprintf("eigenstate(%d)", p.index)
	}
	return "superposition"
}

func (p Preparation) gates(layout Layout) (Sequence, error) {
	system := layout.SystemQubits()
	if !p.fixed {
		seq := make(Sequence, 0, len(system))
		for _, q := range system {
			seq = append(seq, quantum.Hadamard(q))
		}
		return seq, nil
	}

	if p.index < 0 || p.index >= 1<<layout.System {
		return nil, fmt.Errorf("%w: eigenstate %d not in [0, %d)", quantum.ErrInvalidDimension, p.index, 1<<layout.System)
	}
	var seq Sequence
	for j, q := range system {
		if p.index&(1<<j) != 0 {
			seq = append(seq, quantum.PauliX(q))
		}
	}
	return seq, nil
}

// BuildQPE returns the phase-estimation circuit:
//
//	H on every ancilla qubit
//	system preparation (H on every system qubit, or X gates for a fixed eigenstate)
//	for k = 0..d-1: U^{2^k} controlled by ancilla k, targeting the system register
//	F† on the ancilla register
//
// For an eigenstate with phase θ = m/2^d the ancilla register reads m exactly.
func BuildQPE(layout Layout, eigenvalues []complex128, prep Preparation) (Sequence, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	if want := 1 << layout.System; len(eigenvalues) != want {
		return nil, fmt.Errorf("%w: %d eigenvalues for a %d-qubit system register, want %d",
			quantum.ErrInvalidDimension, len(eigenvalues), layout.System, want)
	}

	ancilla := layout.AncillaQubits()
	system := layout.SystemQubits()

	var seq Sequence
	for _, q := range ancilla {
		seq = append(seq, quantum.Hadamard(q))
	}

	prepared, err := prep.gates(layout)
	if err != nil {
		return nil, err
	}
	seq = append(seq, prepared...)

	for k, control := range ancilla {
		u, err := NewDiagonalUnitary(eigenvalues, k)
		if err != nil {
			return nil, err
		}
		seq = append(seq, u.Controlled().On(control, system))
	}

	iqft, err := InverseFourierGate(ancilla)
	if err != nil {
		return nil, err
	}
	return append(seq, iqft), nil
}
