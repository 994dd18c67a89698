package qpegrover

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qpegrover/circuit"
	"qpegrover/quantum"
)

// eighthsProblem is three system qubits carrying phases k/8, a three-qubit
// estimate register and target 010.
func eighthsProblem(iterations int) Problem {
	phases := make([]float64, 8)
	for k := range phases {
		phases[k] = float64(k) / 8
	}
	return Problem{
		SystemQubits:  3,
		AncillaQubits: 3,
		Eigenvalues:   Eigenvalues(phases),
		Target:        "010",
		Iterations:    iterations,
	}
}

func TestProblemValidate(t *testing.T) {
	valid := eighthsProblem(2)
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Problem)
		want   error
	}{
		{"no system qubits", func(p *Problem) { p.SystemQubits = 0 }, quantum.ErrInvalidDimension},
		{"no ancilla qubits", func(p *Problem) { p.AncillaQubits = 0; p.Target = "" }, quantum.ErrInvalidDimension},
		{"too few eigenvalues", func(p *Problem) { p.Eigenvalues = p.Eigenvalues[:4] }, quantum.ErrInvalidDimension},
		{"non-unit eigenvalue", func(p *Problem) {
			p.Eigenvalues = append([]complex128(nil), p.Eigenvalues...)
			p.Eigenvalues[3] = 1.5
		}, quantum.ErrInvalidDimension},
		{"short target", func(p *Problem) { p.Target = "01" }, quantum.ErrInvalidTarget},
		{"non-binary target", func(p *Problem) { p.Target = "0a1" }, quantum.ErrInvalidTarget},
		{"negative iterations", func(p *Problem) { p.Iterations = -1 }, quantum.ErrInvalidDimension},
		{"eigenstate out of range", func(p *Problem) { p.Preparation = circuit.FixedEigenstate(8) }, quantum.ErrInvalidDimension},
		{"oversized register", func(p *Problem) {
			p.SystemQubits = 20
			p.AncillaQubits = 11
			p.Target = "00000000000"
		}, quantum.ErrInvalidDimension},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := eighthsProblem(2)
			tt.mutate(&p)
			err := p.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			_, err = p.Build()
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestProblemBuild(t *testing.T) {
	p := eighthsProblem(2)
	qpe, err := p.BuildQPE()
	require.NoError(t, err)
	iteration, err := circuit.BuildGroverIteration(p.Layout(), p.Target)
	require.NoError(t, err)

	seq, err := p.Build()
	require.NoError(t, err)
	assert.Len(t, seq, len(qpe)+2*len(iteration))

	// QPE opens with H on every ancilla qubit and closes with the IQFT block.
	for q := range 3 {
		assert.Equal(t, quantum.KindHadamard, seq[q].Kind)
		assert.Equal(t, []int{q}, seq[q].Targets)
	}
	last := seq[len(qpe)-1]
	assert.Equal(t, quantum.KindBlock, last.Kind)
	assert.Equal(t, "IQFT", last.Label)

	p.Iterations = 0
	seq, err = p.Build()
	require.NoError(t, err)
	assert.Len(t, seq, len(qpe))
}

func TestProblemLayout(t *testing.T) {
	layout := eighthsProblem(0).Layout()
	assert.Equal(t, 6, layout.Total())
	assert.Equal(t, []int{0, 1, 2}, layout.AncillaQubits())
	assert.Equal(t, []int{3, 4, 5}, layout.SystemQubits())
}
