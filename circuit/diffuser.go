package circuit

import (
	"fmt"

	"qpegrover/quantum"
)

// BuildDiffuser returns H, X, phase flip, X, H over qubits: the inversion
// about the mean restricted to that subset. The phase flip is anchored on the
// last listed qubit. The operator equals −(2|s⟩⟨s| − I), the usual diffuser up
// to a global sign.
func BuildDiffuser(qubits []int) (Sequence, error) {
	if len(qubits) == 0 {
		return nil, fmt.Errorf("%w: diffuser needs at least one qubit", quantum.ErrInvalidDimension)
	}
	seen := make(map[int]bool, len(qubits))
	for _, q := range qubits {
		if q < 0 {
			return nil, fmt.Errorf("%w: diffuser qubit %d", quantum.ErrOutOfRange, q)
		}
		if seen[q] {
			return nil, fmt.Errorf("%w: diffuser lists qubit %d twice", quantum.ErrInvalidDimension, q)
		}
		seen[q] = true
	}

	layer := func(gate func(int) quantum.Gate) Sequence {
		seq := make(Sequence, len(qubits))
		for i, q := range qubits {
			seq[i] = gate(q)
		}
		return seq
	}
	hadamards := layer(quantum.Hadamard)
	flips := layer(quantum.PauliX)
	return Compose(hadamards, flips, phaseFlip(qubits), flips, hadamards), nil
}
