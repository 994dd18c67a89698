package circuit

import (
	"fmt"
	"math"

	"qpegrover/quantum"
)

// MaxFourierQubits bounds the dense Fourier block: its matrix holds 4^m entries.
const MaxFourierQubits = 12

// Fourier returns the row-major 2^m × 2^m matrix F[r][c] = ω^{rc}/√2^m with
// ω = exp(2πi/2^m).
func Fourier(m int) ([]complex128, error) {
	return fourier(m, 1)
}

// InverseFourier returns F†, the conjugate of Fourier(m). On the ancilla
// register it maps Σ_j e^{2πiθj}|j⟩ to |θ·2^m⟩ for dyadic θ.
func InverseFourier(m int) ([]complex128, error) {
	return fourier(m, -1)
}

func fourier(m int, sign float64) ([]complex128, error) {
	if m < 1 || m > MaxFourierQubits {
		return nil, fmt.Errorf("%w: Fourier block over %d qubits, want 1..%d", quantum.ErrInvalidDimension, m, MaxFourierQubits)
	}
	dim := 1 << m
	scale := 1 / math.Sqrt(float64(dim))

	// twiddles[k] = ω^k; rc is reduced mod dim so every entry comes from the table
	twiddles := make([]complex128, dim)
	for k := range dim {
		sin, cos := math.Sincos(sign * 2 * math.Pi * float64(k) / float64(dim))
		twiddles[k] = complex(cos*scale, sin*scale)
	}

	matrix := make([]complex128, dim*dim)
	for r := range dim {
		for c := range dim {
			matrix[r*dim+c] = twiddles[(r*c)&(dim-1)]
		}
	}
	return matrix, nil
}

// InverseFourierGate places F† on qubits, qubits[j] carrying bit j.
func InverseFourierGate(qubits []int) (quantum.Gate, error) {
	matrix, err := InverseFourier(len(qubits))
	if err != nil {
		return quantum.Gate{}, err
	}
	return quantum.BlockGate("IQFT", qubits, matrix), nil
}
