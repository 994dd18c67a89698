package readout

import (
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qpegrover/quantum"
)

func prepared(t *testing.T, numQubits int, gates ...quantum.Gate) *quantum.Vector {
	t.Helper()
	v, err := quantum.NewVector(numQubits)
	require.NoError(t, err)
	require.NoError(t, quantum.NewEngine().Run(v, gates))
	return v
}

func TestFullOnBasisState(t *testing.T) {
	v := prepared(t, 3, quantum.PauliX(1))
	dist := Full(v, DefaultThreshold)

	require.Len(t, dist, 1)
	assert.Equal(t, Entry{Bits: "010", Value: 2, Probability: 1}, dist[0])
}

func TestFullSortsAndFilters(t *testing.T) {
	v := prepared(t, 3, quantum.Hadamard(0), quantum.Hadamard(2))
	dist := Full(v, DefaultThreshold)

	bits := make([]string, len(dist))
	for i, e := range dist {
		bits[i] = e.Bits
		assert.InDelta(t, 0.25, e.Probability, 1e-12)
	}
	assert.Equal(t, []string{"000", "001", "100", "101"}, bits)
	assert.InDelta(t, 1.0, dist.Total(), 1e-12)

	assert.Empty(t, Full(v, 0.3))
}

func TestFullOrdersByProbability(t *testing.T) {
	// rotation leaving 0.1 on |0⟩ and 0.9 on |1⟩
	c := complex(0.9486832980505138, 0)
	s := complex(0.31622776601683794, 0)
	v := prepared(t, 1, quantum.BlockGate("R", []int{0}, []complex128{s, -c, c, s}))

	dist := Full(v, DefaultThreshold)
	require.Len(t, dist, 2)
	assert.Equal(t, "1", dist[0].Bits)
	assert.InDelta(t, 0.9, dist[0].Probability, 1e-12)
	assert.Equal(t, "0", dist[1].Bits)
}

func TestMarginal(t *testing.T) {
	v := prepared(t, 3, quantum.Hadamard(0), quantum.PauliX(2))

	dist, err := Marginal(v, []int{0})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, dist.Probability("0"), 1e-12)
	assert.InDelta(t, 0.5, dist.Probability("1"), 1e-12)

	// qubits[j] is bit j: qubit 1 (always 0) is the high bit, qubit 2 (always 1) the low bit
	dist, err = Marginal(v, []int{2, 1})
	require.NoError(t, err)
	require.Len(t, dist, 1)
	assert.Equal(t, "01", dist[0].Bits)
	assert.InDelta(t, 1.0, dist[0].Probability, 1e-12)
}

func TestMarginalsSumToOne(t *testing.T) {
	phases := make([]complex128, 8)
	for i := range phases {
		phases[i] = cmplx.Exp(complex(0, 0.37*float64(i*i)))
	}
	v := prepared(t, 5,
		quantum.Hadamard(0), quantum.Hadamard(1), quantum.Hadamard(3),
		quantum.DiagonalGate("P", []int{0, 1, 3}, phases),
		quantum.Hadamard(1), quantum.MCX([]int{0, 1}, 4), quantum.Hadamard(0),
	)

	for _, qubits := range [][]int{{0, 1}, {2, 3, 4}, {4}, {0, 1, 2, 3, 4}} {
		dist, err := Marginal(v, qubits)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, dist.Total(), 1e-9, "qubits %v", qubits)
	}
}

func TestMarginalErrors(t *testing.T) {
	v := prepared(t, 2)

	_, err := Marginal(v, nil)
	assert.ErrorIs(t, err, quantum.ErrInvalidDimension)
	_, err = Marginal(v, []int{0, 0})
	assert.ErrorIs(t, err, quantum.ErrInvalidDimension)
	_, err = Marginal(v, []int{2})
	assert.ErrorIs(t, err, quantum.ErrOutOfRange)
}

func TestDistributionHelpers(t *testing.T) {
	dist := Distribution{
		{Bits: "10", Value: 2, Probability: 0.6},
		{Bits: "01", Value: 1, Probability: 0.3},
		{Bits: "00", Value: 0, Probability: 0.1},
	}

	assert.Len(t, dist.Top(2), 2)
	assert.Len(t, dist.Top(10), 3)
	assert.Equal(t, map[string]float64{"10": 0.6, "01": 0.3, "00": 0.1}, dist.Map())
	assert.Len(t, dist.Above(0.2), 2)
	assert.Zero(t, dist.Probability("11"))
}

func TestFormatBits(t *testing.T) {
	assert.Equal(t, "010", FormatBits(2, 3))
	assert.Equal(t, "000000", FormatBits(0, 6))
	assert.Equal(t, "101", FormatBits(5, 1))
}
