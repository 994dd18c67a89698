package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"qpegrover"
	"qpegrover/quantum"
)

var (
	// Global flags
	verbose bool
	logger  *zap.Logger

	// Problem flags
	configPath    string
	systemQubits  int
	ancillaQubits int
	phases        []string
	target        string
	targetPhase   string
	iterations    int
	eigenstate    int
	threshold     float64

	// Engine flags
	workers           int
	parallelThreshold int

	// Output flags
	top         int
	interactive bool
	showMetrics bool
	maxTrace    int
)

var rootCmd = &cobra.Command{
	Use:   "qpegrover",
	Short: "State-vector simulator for phase estimation followed by Grover amplification",
	Long: `qpegrover estimates the eigenphases of a diagonal unitary with quantum phase
estimation, then amplifies one pattern of the estimate register with Grover
iterations, and prints the resulting probability distributions.

Phases are given in turns: 0.125, 1/8 and pi/4 all denote the same eigenvalue.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run QPE followed by r Grover iterations and print the distributions",
	Example: `  qpegrover run -n 3 -d 3 --phases 0,1/8,1/4,3/8,1/2,5/8,3/4,7/8 --target 010 -r 2
  qpegrover run --config problem.yaml --interactive`,
	RunE: runProblem,
}

var traceCmd = &cobra.Command{
	Use:   "trace",
	Short: "Record the target probability after each Grover iteration",
	RunE:  traceProblem,
}

var qasmCmd = &cobra.Command{
	Use:   "qasm",
	Short: "Print the full circuit as OpenQASM 2.0",
	RunE:  exportQASM,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging (one line per gate)")

	for _, cmd := range []*cobra.Command{runCmd, traceCmd, qasmCmd} {
		f := cmd.Flags()
		f.StringVarP(&configPath, "config", "c", "", "YAML problem file; flags override its values")
		f.IntVarP(&systemQubits, "system", "n", 0, "Number of system qubits")
		f.IntVarP(&ancillaQubits, "ancilla", "d", 0, "Number of ancilla (estimate) qubits")
		f.StringSliceVarP(&phases, "phases", "p", nil, "Eigenphases in turns, one per system basis state")
		f.StringVarP(&target, "target", "t", "", "Ancilla pattern to amplify, MSB first")
		f.StringVar(&targetPhase, "target-phase", "", "Phase whose d-bit truncation is the target")
		f.IntVarP(&iterations, "iterations", "r", 0, "Number of Grover iterations")
		f.IntVar(&eigenstate, "eigenstate", 0, "Prepare this system basis state instead of the uniform superposition")
		f.IntVar(&workers, "workers", 0, "Parallel workers for large registers (default GOMAXPROCS)")
		f.IntVar(&parallelThreshold, "parallel-threshold", quantum.DefaultParallelThreshold, "Register size from which gates run in parallel")
	}

	runCmd.Flags().Float64Var(&threshold, "threshold", 0, "Hide joint outcomes at or below this probability")
	runCmd.Flags().IntVar(&top, "top", 16, "Rows shown per distribution (0 for all)")
	runCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Browse the result in a terminal UI")
	runCmd.Flags().BoolVar(&showMetrics, "metrics", false, "Log engine metrics after the run")
	traceCmd.Flags().IntVar(&maxTrace, "max", 8, "Largest iteration count to record")
	traceCmd.Flags().BoolVar(&showMetrics, "metrics", false, "Log engine metrics after the trace")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(traceCmd)
	rootCmd.AddCommand(qasmCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		os.Exit(1)
	}
}

// loadConfig reads --config when given and applies every flag the user set.
func loadConfig(cmd *cobra.Command) (*qpegrover.Config, error) {
	cfg := &qpegrover.Config{}
	if configPath != "" {
		var err error
		if cfg, err = qpegrover.ReadConfig(configPath); err != nil {
			return nil, err
		}
	}

	f := cmd.Flags()
	if f.Changed("system") {
		cfg.SystemQubits = systemQubits
	}
	if f.Changed("ancilla") {
		cfg.AncillaQubits = ancillaQubits
	}
	if f.Changed("phases") {
		cfg.Phases = phases
	}
	if f.Changed("target") {
		cfg.Target = target
		cfg.TargetPhase = ""
	}
	if f.Changed("target-phase") {
		cfg.TargetPhase = targetPhase
		cfg.Target = ""
	}
	if f.Changed("iterations") {
		cfg.Iterations = iterations
	}
	if f.Changed("eigenstate") {
		cfg.Prepare = qpegrover.PrepareEigenstate
		cfg.Eigenstate = eigenstate
	}
	if f.Lookup("threshold") != nil && f.Changed("threshold") {
		cfg.Threshold = threshold
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newRunner wires the engine, its metrics and the logger.
func newRunner(cfg *qpegrover.Config, reg prometheus.Registerer) (*qpegrover.Runner, error) {
	metrics, err := quantum.NewMetrics(reg)
	if err != nil {
		return nil, err
	}
	opts := []quantum.Option{
		quantum.WithLogger(logger),
		quantum.WithMetrics(metrics),
		quantum.WithParallelThreshold(parallelThreshold),
	}
	if workers > 0 {
		opts = append(opts, quantum.WithWorkers(workers))
	}
	return qpegrover.NewRunner(
		qpegrover.WithEngine(quantum.NewEngine(opts...)),
		qpegrover.WithLogger(logger),
		qpegrover.WithThreshold(cfg.ReadoutThreshold()),
	), nil
}

func runProblem(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	p, err := cfg.Problem()
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	runner, err := newRunner(cfg, reg)
	if err != nil {
		return err
	}
	res, err := runner.Run(p)
	if err != nil {
		return err
	}
	if showMetrics {
		if err := reportMetrics(logger, reg); err != nil {
			return err
		}
	}

	if !interactive {
		fmt.Fprintln(cmd.OutOrStdout(), renderReport(res, top))
		return nil
	}

	trace, err := runner.Trace(p, p.Iterations)
	if err != nil {
		return err
	}
	seq, err := p.Build()
	if err != nil {
		return err
	}
	qasm := seq.ToQASM(p.Layout().Total())

	_, err = tea.NewProgram(newViewer(res, trace, qasm), tea.WithAltScreen()).Run()
	return err
}

func traceProblem(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	p, err := cfg.Problem()
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	runner, err := newRunner(cfg, reg)
	if err != nil {
		return err
	}
	points, err := runner.Trace(p, maxTrace)
	if err != nil {
		return err
	}
	if showMetrics {
		if err := reportMetrics(logger, reg); err != nil {
			return err
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), panelStyle.Render(renderTrace(p.Target, points)))
	return nil
}

func exportQASM(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	p, err := cfg.Problem()
	if err != nil {
		return err
	}
	seq, err := p.Build()
	if err != nil {
		return err
	}
	_, err = io.WriteString(cmd.OutOrStdout(), seq.ToQASM(p.Layout().Total()))
	return err
}

// reportMetrics logs every counter and histogram sample in reg.
func reportMetrics(logger *zap.Logger, reg prometheus.Gatherer) error {
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			fields := []zap.Field{zap.String("metric", mf.GetName())}
			for _, lp := range m.GetLabel() {
				fields = append(fields, zap.String(lp.GetName(), lp.GetValue()))
			}
			switch {
			case m.GetCounter() != nil:
				fields = append(fields, zap.Float64("value", m.GetCounter().GetValue()))
			case m.GetHistogram() != nil:
				h := m.GetHistogram()
				fields = append(fields,
					zap.Uint64("count", h.GetSampleCount()),
					zap.Float64("sum_seconds", h.GetSampleSum()),
				)
			}
			logger.Info("engine metric", fields...)
		}
	}
	return nil
}
