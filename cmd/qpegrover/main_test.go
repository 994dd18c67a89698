package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"qpegrover"
	"qpegrover/quantum"
	"qpegrover/readout"
)

func TestVisibleLen(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"", 0},
		{"abc", 3},
		{"\x1b[1;38;2;255;158;100mabc\x1b[0m", 3},
		{"██░░", 4},
		{"\x1b[32m█\x1b[0m░", 2},
	}
	for _, tt := range tests {
		if got := visibleLen(tt.input); got != tt.want {
			t.Errorf("visibleLen(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestPadding(t *testing.T) {
	if got := padCenter("ab", 6); got != "  ab  " {
		t.Errorf("padCenter = %q", got)
	}
	if got := padCenter("abc", 6); got != " abc  " {
		t.Errorf("padCenter = %q", got)
	}
	if got := padCenter("abcdefg", 3); got != "abcdefg" {
		t.Errorf("padCenter should not truncate, got %q", got)
	}
	styled := "\x1b[1mab\x1b[0m"
	if got := visibleLen(padRight(styled, 5)); got != 5 {
		t.Errorf("padRight visible width = %d, want 5", got)
	}
}

func TestBar(t *testing.T) {
	for _, p := range []float64{0, 0.001, 0.5, 1, 1.5} {
		if got := visibleLen(bar(p, 10)); got != 10 {
			t.Errorf("bar(%g) width = %d, want 10", p, got)
		}
	}
	if !strings.Contains(bar(0.001, 10), "█") {
		t.Error("non-zero mass should show at least one block")
	}
}

func TestRenderDistribution(t *testing.T) {
	dist := readout.Distribution{
		{Bits: "010", Value: 2, Probability: 0.5},
		{Bits: "000", Value: 0, Probability: 0.25},
		{Bits: "001", Value: 1, Probability: 0.25},
	}
	out := renderDistribution("Ancilla", dist, "010", 2)
	assert.Contains(t, out, "Ancilla")
	assert.Contains(t, out, "010 ◂")
	assert.Contains(t, out, "0.500000")
	assert.Contains(t, out, "… 1 more outcomes")
	assert.NotContains(t, out, "001")

	assert.Contains(t, renderDistribution("Empty", nil, "", 0), "no outcome above threshold")
}

func eighthsResult(t *testing.T) *qpegrover.Result {
	t.Helper()
	cfg, err := qpegrover.ParseConfig([]byte(`
system_qubits: 3
ancilla_qubits: 3
phases: ["0", "1/8", "1/4", "3/8", "1/2", "5/8", "3/4", "7/8"]
target: "010"
iterations: 2
`))
	require.NoError(t, err)
	p, err := cfg.Problem()
	require.NoError(t, err)
	res, err := qpegrover.NewRunner().Run(p)
	require.NoError(t, err)
	return res
}

func TestRenderReport(t *testing.T) {
	res := eighthsResult(t)
	out := renderReport(res, 4)
	assert.Contains(t, out, res.ID.String())
	assert.Contains(t, out, "System register")
	assert.Contains(t, out, "Joint (system|ancilla)")
	assert.Contains(t, out, "0.095703")
	assert.Contains(t, out, "… 60 more outcomes")
}

func TestRenderTrace(t *testing.T) {
	points := []qpegrover.TracePoint{
		{Iterations: 0, TargetProbability: 0.125, SystemPeak: readout.Entry{Bits: "000", Probability: 0.125}, Norm: 1},
		{Iterations: 1, TargetProbability: 0.78125, SystemPeak: readout.Entry{Bits: "000", Probability: 0.125}, Norm: 1},
	}
	out := renderTrace("101", points)
	assert.Contains(t, out, "target 101")
	assert.Contains(t, out, "0.781250")
	assert.Equal(t, 4, strings.Count(out, "\n")+1, "title, header and one row per point")
}

func TestReportMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := quantum.NewMetrics(reg)
	require.NoError(t, err)

	v, err := quantum.NewVector(2)
	require.NoError(t, err)
	engine := quantum.NewEngine(quantum.WithMetrics(metrics))
	require.NoError(t, engine.Run(v, []quantum.Gate{quantum.Hadamard(0), quantum.PauliX(1)}))

	core, logs := observer.New(zapcore.InfoLevel)
	require.NoError(t, reportMetrics(zap.New(core), reg))

	counters := logs.FilterField(zap.String("metric", "qpegrover_engine_gates_applied_total"))
	assert.Equal(t, 2, counters.Len())
	assert.Equal(t, 1, logs.FilterField(zap.String("metric", "qpegrover_engine_invariant_violations_total")).Len())
}

func TestViewerNavigation(t *testing.T) {
	res := eighthsResult(t)
	var m tea.Model = newViewer(res, nil, "OPENQASM 2.0;")

	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	assert.Equal(t, tabAncilla, m.(viewer).active)
	assert.Contains(t, m.View(), "Ancilla")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, tabSystem, m.(viewer).active)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, tabQASM, m.(viewer).active)
	assert.Contains(t, m.View(), "OPENQASM 2.0;")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestQASMCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"qasm", "-n", "1", "-d", "2", "--phases", "0,1/4", "-t", "01", "-r", "1"})
	t.Cleanup(func() { rootCmd.SetArgs(nil); rootCmd.SetOut(nil) })

	require.NoError(t, rootCmd.Execute())
	qasm := out.String()
	assert.True(t, strings.HasPrefix(qasm, "OPENQASM 2.0;"))
	assert.Contains(t, qasm, "qreg q[3];")
	assert.Contains(t, qasm, "// diag c-U^1 ctrl q[0] -> q[2]")
	assert.Contains(t, qasm, "// block IQFT q[0], q[1]")
	assert.Contains(t, qasm, "cx q[0], q[1];")
	assert.Contains(t, qasm, "measure q[2] -> c[2];")
}

func TestRunCommandFlagsOverrideConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "problem.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
system_qubits: 1
ancilla_qubits: 3
phases: ["0", "0.3"]
prepare: eigenstate
eigenstate: 1
`), 0o644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"run", "--config", path, "--target", "010", "--top", "3"})
	t.Cleanup(func() { rootCmd.SetArgs(nil); rootCmd.SetOut(nil) })

	require.NoError(t, rootCmd.Execute())
	report := out.String()
	assert.Contains(t, report, "0.577521")
	assert.Contains(t, report, "010 ◂")
}
