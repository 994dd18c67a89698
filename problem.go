// Package qpegrover simulates quantum phase estimation of a diagonal unitary
// followed by Grover-style amplification of one ancilla pattern, on an exact
// state vector.
//
// The register layout is fixed: ancilla (estimate) qubits occupy [0, d) and
// system qubits occupy [d, d+n). A run costs O(r·d·2^(n+d)) amplitude updates;
// callers bound it by choosing n, d and r.
package qpegrover

import (
	"fmt"

	"qpegrover/circuit"
	"qpegrover/quantum"
)

// Problem is one request to the simulator.
type Problem struct {
	SystemQubits  int          // n ≥ 1
	AncillaQubits int          // d ≥ 1
	Eigenvalues   []complex128 // 2^n unit-modulus values, one per system basis state
	Target        string       // d-character MSB-first ancilla pattern to amplify
	Iterations    int          // Grover iterations r ≥ 0
	Preparation   circuit.Preparation
}

// Layout returns the register layout of the problem.
func (p Problem) Layout() circuit.Layout {
	return circuit.Layout{System: p.SystemQubits, Ancilla: p.AncillaQubits}
}

// Validate checks every input before any amplitude is touched.
func (p Problem) Validate() error {
	layout := p.Layout()
	if err := layout.Validate(); err != nil {
		return err
	}
	if want := 1 << p.SystemQubits; len(p.Eigenvalues) != want {
		return fmt.Errorf("%w: %d eigenvalues for %d system qubits, want %d",
			quantum.ErrInvalidDimension, len(p.Eigenvalues), p.SystemQubits, want)
	}
	if err := circuit.CheckEigenvalues(p.Eigenvalues); err != nil {
		return err
	}
	if _, err := circuit.ParseTarget(p.Target, p.AncillaQubits); err != nil {
		return err
	}
	if p.Iterations < 0 {
		return fmt.Errorf("%w: negative iteration count %d", quantum.ErrInvalidDimension, p.Iterations)
	}
	if x, fixed := p.Preparation.Fixed(); fixed && (x < 0 || x >= 1<<p.SystemQubits) {
		return fmt.Errorf("%w: eigenstate %d not in [0, %d)", quantum.ErrInvalidDimension, x, 1<<p.SystemQubits)
	}
	return nil
}

// BuildQPE returns the phase-estimation sub-circuit.
func (p Problem) BuildQPE() (circuit.Sequence, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return circuit.BuildQPE(p.Layout(), p.Eigenvalues, p.Preparation)
}

// Build returns QPE ++ repeat(oracle ++ diffuser, r).
func (p Problem) Build() (circuit.Sequence, error) {
	qpe, err := p.BuildQPE()
	if err != nil {
		return nil, err
	}
	grover, err := circuit.BuildGrover(p.Layout(), p.Target, p.Iterations)
	if err != nil {
		return nil, err
	}
	return circuit.Compose(qpe, grover), nil
}
