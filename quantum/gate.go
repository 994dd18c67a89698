package quantum

import (
	"fmt"
	"math/bits"
)

// Kind tags the unitary a Gate carries.
type Kind int

const (
	KindHadamard Kind = iota
	KindPauliX
	KindMCX
	KindDiagonal
	KindBlock
)

func (k Kind) String() string {
	switch k {
	case KindHadamard:
		return "H"
	case KindPauliX:
		return "X"
	case KindMCX:
		return "MCX"
	case KindDiagonal:
		return "DIAG"
	case KindBlock:
		return "BLOCK"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Gate describes one unitary and the qubits it acts on. Controls are listed
// before targets. Gates are immutable once built; the constructors copy their
// slice arguments and the engine never writes to them.
type Gate struct {
	Kind     Kind
	Controls []int
	Targets  []int

	// Diagonal holds 2^len(Targets) entries for KindDiagonal, indexed by the
	// integer value of the target qubits (Targets[j] carries weight 2^j).
	Diagonal []complex128

	// Matrix is the row-major 2^m × 2^m unitary for KindBlock, m = len(Targets).
	Matrix []complex128

	// Label names the unitary in logs and QASM output, e.g. "U^4" or "IQFT".
	Label string
}

// Hadamard returns H on qubit q.
func Hadamard(q int) Gate {
	return Gate{Kind: KindHadamard, Targets: []int{q}, Label: "H"}
}

// PauliX returns X on qubit q.
func PauliX(q int) Gate {
	return Gate{Kind: KindPauliX, Targets: []int{q}, Label: "X"}
}

// MCX flips target where every control reads 1. With no controls it is X.
func MCX(controls []int, target int) Gate {
	return Gate{
		Kind:     KindMCX,
		Controls: clone(controls),
		Targets:  []int{target},
		Label:    "MCX",
	}
}

// DiagonalGate multiplies each amplitude whose controls all read 1 by
// entries[value(targets)].
func DiagonalGate(label string, targets []int, entries []complex128, controls ...int) Gate {
	return Gate{
		Kind:     KindDiagonal,
		Controls: clone(controls),
		Targets:  clone(targets),
		Diagonal: clone(entries),
		Label:    label,
	}
}

// BlockGate applies a dense 2^m × 2^m row-major matrix to the targets.
func BlockGate(label string, targets []int, matrix []complex128) Gate {
	return Gate{
		Kind:    KindBlock,
		Targets: clone(targets),
		Matrix:  clone(matrix),
		Label:   label,
	}
}

// Qubits returns controls followed by targets.
func (g Gate) Qubits() []int {
	out := make([]int, 0, len(g.Controls)+len(g.Targets))
	out = append(out, g.Controls...)
	return append(out, g.Targets...)
}

// Validate checks the gate against a register of numQubits qubits.
func (g Gate) Validate(numQubits int) error {
	if len(g.Targets) == 0 {
		return fmt.Errorf("%w: %s gate has no target", ErrInvalidDimension, g.Kind)
	}
	var seen uint64
	for _, q := range g.Qubits() {
		if q < 0 || q >= numQubits {
			return fmt.Errorf("%w: %s gate qubit %d not in [0, %d)", ErrOutOfRange, g.Kind, q, numQubits)
		}
		if seen&(1<<q) != 0 {
			return fmt.Errorf("%w: %s gate lists qubit %d twice", ErrInvalidDimension, g.Kind, q)
		}
		seen |= 1 << q
	}

	switch g.Kind {
	case KindHadamard, KindPauliX:
		if len(g.Targets) != 1 || len(g.Controls) != 0 {
			return fmt.Errorf("%w: %s is a single-qubit gate", ErrInvalidDimension, g.Kind)
		}
	case KindMCX:
		if len(g.Targets) != 1 {
			return fmt.Errorf("%w: MCX has exactly one target", ErrInvalidDimension)
		}
	case KindDiagonal:
		if want := 1 << len(g.Targets); len(g.Diagonal) != want {
			return fmt.Errorf("%w: diagonal over %d qubits needs %d entries, got %d",
				ErrInvalidDimension, len(g.Targets), want, len(g.Diagonal))
		}
	case KindBlock:
		if len(g.Controls) != 0 {
			return fmt.Errorf("%w: block gates take no controls", ErrInvalidDimension)
		}
		dim := 1 << len(g.Targets)
		if len(g.Matrix) != dim*dim {
			return fmt.Errorf("%w: block over %d qubits needs %d×%d matrix, got %d entries",
				ErrInvalidDimension, len(g.Targets), dim, dim, len(g.Matrix))
		}
	default:
		return fmt.Errorf("%w: unknown gate kind %d", ErrInvalidDimension, int(g.Kind))
	}
	return nil
}

// Cost returns the number of amplitude updates a sequence of gates performs on
// a numQubits register. Total circuit cost grows as gates·2^q, which callers
// use to set their own guardrails.
func Cost(numQubits, gates int) uint64 {
	hi, lo := bits.Mul64(uint64(gates), 1<<uint(numQubits))
	if hi != 0 {
		return ^uint64(0)
	}
	return lo
}

// mask returns the bit mask of a qubit list.
func mask(qubits []int) int {
	m := 0
	for _, q := range qubits {
		m |= 1 << q
	}
	return m
}

// gather extracts the integer value of qubits from a basis index,
// qubits[j] contributing bit j.
func gather(index int, qubits []int) int {
	v := 0
	for j, q := range qubits {
		v |= ((index >> q) & 1) << j
	}
	return v
}

// scatter places the bits of value onto qubits, inverse of gather.
func scatter(value int, qubits []int) int {
	idx := 0
	for j, q := range qubits {
		idx |= ((value >> j) & 1) << q
	}
	return idx
}

func clone[T any](s []T) []T {
	if len(s) == 0 {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}
