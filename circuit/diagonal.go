package circuit

import (
	"fmt"
	"math"
	"math/cmplx"

	"qpegrover/quantum"
)

// UnitTolerance is the largest ||λ| − 1| accepted for an eigenvalue.
const UnitTolerance = 1e-9

// DiagonalUnitary is diag(λ_i^{2^k}) over the system register.
type DiagonalUnitary struct {
	entries []complex128
	power   int
}

// NewDiagonalUnitary raises every eigenvalue to the 2^k-th power.
//
// The power is taken on the phase expressed in turns: t ↦ 2t mod 1 is exact in
// floating point, so the entries keep unit modulus for any k, where repeated
// complex squaring would drift.
func NewDiagonalUnitary(eigenvalues []complex128, k int) (DiagonalUnitary, error) {
	if k < 0 {
		return DiagonalUnitary{}, fmt.Errorf("%w: negative power exponent %d", quantum.ErrInvalidDimension, k)
	}
	if err := CheckEigenvalues(eigenvalues); err != nil {
		return DiagonalUnitary{}, err
	}

	entries := make([]complex128, len(eigenvalues))
	for i, lambda := range eigenvalues {
		entries[i] = unitPhase(doubleTurns(Turns(lambda), k))
	}
	return DiagonalUnitary{entries: entries, power: k}, nil
}

// Entries returns a copy of the diagonal.
func (u DiagonalUnitary) Entries() []complex128 {
	out := make([]complex128, len(u.entries))
	copy(out, u.entries)
	return out
}

// Label names the operator by its power, e.g. "U^4" for k = 2.
func (u DiagonalUnitary) Label() string {
	return fmt.Sprintf("U^%d", 1<<u.power)
}

// Controlled returns the controlled form. The control qubit is chosen when
// the gate is placed.
func (u DiagonalUnitary) Controlled() ControlledDiagonal {
	return ControlledDiagonal{u: u}
}

// ControlledDiagonal is a DiagonalUnitary waiting for its control qubit.
type ControlledDiagonal struct {
	u DiagonalUnitary
}

// On places the operator with control on targets, targets[j] carrying bit j of
// the diagonal index.
func (c ControlledDiagonal) On(control int, targets []int) quantum.Gate {
	return quantum.DiagonalGate("c-"+c.u.Label(), targets, c.u.entries, control)
}

// Turns returns arg(λ)/2π in [0, 1).
func Turns(lambda complex128) float64 {
	t := cmplx.Phase(lambda) / (2 * math.Pi)
	if t < 0 {
		t++
	}
	if t >= 1 {
		t = 0
	}
	return t
}

// Eigenvalue maps a phase θ in turns to exp(2πiθ).
func Eigenvalue(theta float64) complex128 {
	return unitPhase(theta - math.Floor(theta))
}

func doubleTurns(t float64, k int) float64 {
	for range k {
		t = math.Mod(2*t, 1)
	}
	return t
}

func unitPhase(turns float64) complex128 {
	sin, cos := math.Sincos(2 * math.Pi * turns)
	return complex(cos, sin)
}

// CheckEigenvalues reports ErrInvalidDimension unless there are 2^n ≥ 2
// eigenvalues, all of unit modulus.
func CheckEigenvalues(eigenvalues []complex128) error {
	n := len(eigenvalues)
	if n < 2 || n&(n-1) != 0 {
		return fmt.Errorf("%w: %d eigenvalues is not a power of two ≥ 2", quantum.ErrInvalidDimension, n)
	}
	for i, lambda := range eigenvalues {
		if d := math.Abs(cmplx.Abs(lambda) - 1); d > UnitTolerance || math.IsNaN(d) {
			return fmt.Errorf("%w: eigenvalue %d has modulus %g", quantum.ErrInvalidDimension, i, cmplx.Abs(lambda))
		}
	}
	return nil
}
