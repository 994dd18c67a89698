package qpegrover

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"qpegrover/circuit"
	"qpegrover/quantum"
	"qpegrover/readout"
)

// Result is the readout of one run.
type Result struct {
	ID         uuid.UUID
	Layout     circuit.Layout
	Target     string
	Iterations int
	Gates      int

	Joint   readout.Distribution // full register, entries above the threshold
	System  readout.Distribution // marginal over [d, d+n)
	Ancilla readout.Distribution // marginal over [0, d)

	// TargetProbability is the ancilla-marginal mass on Target.
	TargetProbability float64
	Elapsed           time.Duration
}

// TracePoint records the state after a given number of Grover iterations.
type TracePoint struct {
	Iterations        int
	TargetProbability float64
	SystemPeak        readout.Entry
	Norm              float64
}

// Runner executes problems against a fresh state vector each time.
type Runner struct {
	engine    *quantum.Engine
	logger    *zap.Logger
	threshold float64
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithEngine replaces the default engine.
func WithEngine(e *quantum.Engine) RunnerOption {
	return func(r *Runner) {
		if e != nil {
			r.engine = e
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) RunnerOption {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithThreshold sets the cut-off for the joint distribution.
func WithThreshold(threshold float64) RunnerOption {
	return func(r *Runner) {
		if threshold >= 0 {
			r.threshold = threshold
		}
	}
}

// NewRunner returns a runner with a default engine and no logging.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		engine:    quantum.NewEngine(),
		logger:    zap.NewNop(),
		threshold: readout.DefaultThreshold,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Execute builds the full circuit, applies it and returns the final vector.
func (r *Runner) Execute(p Problem) (*quantum.Vector, circuit.Sequence, error) {
	seq, err := p.Build()
	if err != nil {
		return nil, nil, err
	}
	v, err := quantum.NewVector(p.Layout().Total())
	if err != nil {
		return nil, nil, err
	}
	r.logger.Debug("executing circuit",
		zap.Int("gates", len(seq)),
		zap.Uint64("amplitude_updates", quantum.Cost(v.NumQubits(), len(seq))),
	)
	if err := r.engine.Run(v, seq); err != nil {
		return nil, nil, err
	}
	return v, seq, nil
}

// Run executes p and reads out the joint and both marginal distributions.
func (r *Runner) Run(p Problem) (*Result, error) {
	id := uuid.New()
	start := time.Now()

	v, seq, err := r.Execute(p)
	if err != nil {
		r.logger.Error("run failed", zap.Stringer("run", id), zap.Error(err))
		return nil, err
	}

	layout := p.Layout()
	res := &Result{
		ID:         id,
		Layout:     layout,
		Target:     p.Target,
		Iterations: p.Iterations,
		Gates:      len(seq),
		Joint:      readout.Full(v, r.threshold),
	}
	if res.System, err = readout.Marginal(v, layout.SystemQubits()); err != nil {
		return nil, err
	}
	if res.Ancilla, err = readout.Marginal(v, layout.AncillaQubits()); err != nil {
		return nil, err
	}
	res.TargetProbability = res.Ancilla.Probability(p.Target)
	res.Elapsed = time.Since(start)

	r.logger.Info("run complete",
		zap.Stringer("run", id),
		zap.Int("system_qubits", layout.System),
		zap.Int("ancilla_qubits", layout.Ancilla),
		zap.Stringer("preparation", p.Preparation),
		zap.Int("iterations", p.Iterations),
		zap.Int("gates", res.Gates),
		zap.Float64("target_probability", res.TargetProbability),
		zap.Duration("elapsed", res.Elapsed),
	)
	return res, nil
}

// Trace runs QPE once and then records one point per iteration count from 0
// to maxIterations, applying a single Grover iteration between points. It is
// the convergence diagnostic for amplitude amplification; p.Iterations is
// ignored.
func (r *Runner) Trace(p Problem, maxIterations int) ([]TracePoint, error) {
	p.Iterations = maxIterations
	if err := p.Validate(); err != nil {
		return nil, err
	}
	qpe, err := p.BuildQPE()
	if err != nil {
		return nil, err
	}
	iteration, err := circuit.BuildGroverIteration(p.Layout(), p.Target)
	if err != nil {
		return nil, err
	}

	layout := p.Layout()
	v, err := quantum.NewVector(layout.Total())
	if err != nil {
		return nil, err
	}
	if err := r.engine.Run(v, qpe); err != nil {
		return nil, err
	}

	points := make([]TracePoint, 0, maxIterations+1)
	for it := 0; ; it++ {
		ancilla, err := readout.Marginal(v, layout.AncillaQubits())
		if err != nil {
			return nil, err
		}
		system, err := readout.Marginal(v, layout.SystemQubits())
		if err != nil {
			return nil, err
		}
		points = append(points, TracePoint{
			Iterations:        it,
			TargetProbability: ancilla.Probability(p.Target),
			SystemPeak:        system[0],
			Norm:              v.Norm(),
		})
		if it == maxIterations {
			break
		}
		if err := r.engine.Run(v, iteration); err != nil {
			return nil, err
		}
	}

	r.logger.Info("trace complete",
		zap.Int("system_qubits", layout.System),
		zap.Int("ancilla_qubits", layout.Ancilla),
		zap.Int("max_iterations", maxIterations),
	)
	return points, nil
}
