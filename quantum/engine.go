package quantum

import (
	"fmt"
	"math"
	"runtime"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

// DefaultTolerance is the largest |Σp − 1| accepted after a gate.
const DefaultTolerance = 1e-9

// DefaultParallelThreshold is the smallest register, in qubits, whose gate
// loops are split across workers.
const DefaultParallelThreshold = 14

// Engine applies gates to a Vector in place. Every application is followed by
// a norm check; drift beyond the tolerance is reported as ErrInvariantViolation
// and never renormalised.
//
// An Engine holds no per-vector state and may be shared, but a Vector must not
// be handed to two engines (or two goroutines) at once.
type Engine struct {
	logger            *zap.Logger
	metrics           *Metrics
	tolerance         float64
	workers           int
	parallelThreshold int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. Gates are logged at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics records gate counts and timings.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithTolerance sets the norm tolerance.
func WithTolerance(tol float64) Option {
	return func(e *Engine) {
		if tol > 0 {
			e.tolerance = tol
		}
	}
}

// WithWorkers bounds the goroutines used per gate. One disables parallelism.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithParallelThreshold sets the qubit count from which gate loops run in parallel.
func WithParallelThreshold(numQubits int) Option {
	return func(e *Engine) {
		if numQubits > 0 {
			e.parallelThreshold = numQubits
		}
	}
}

// NewEngine returns an engine with the given options applied over the defaults.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		logger:            zap.NewNop(),
		tolerance:         DefaultTolerance,
		workers:           runtime.GOMAXPROCS(0),
		parallelThreshold: DefaultParallelThreshold,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Apply validates g against v and applies it.
func (e *Engine) Apply(v *Vector, g Gate) error {
	if err := g.Validate(v.numQubits); err != nil {
		return err
	}
	return e.apply(v, g)
}

// Run applies gates in order. Every descriptor is validated before the first
// amplitude changes. An invariant violation aborts the run at the offending gate.
func (e *Engine) Run(v *Vector, gates []Gate) error {
	for i, g := range gates {
		if err := g.Validate(v.numQubits); err != nil {
			return fmt.Errorf("gate %d: %w", i, err)
		}
	}
	for i, g := range gates {
		if err := e.apply(v, g); err != nil {
			return fmt.Errorf("gate %d (%s): %w", i, g.Label, err)
		}
	}
	return nil
}

func (e *Engine) apply(v *Vector, g Gate) error {
	start := time.Now()

	var err error
	switch g.Kind {
	case KindHadamard:
		err = e.applyH(v, g.Targets[0])
	case KindPauliX:
		err = e.applyMCX(v, nil, g.Targets[0])
	case KindMCX:
		err = e.applyMCX(v, g.Controls, g.Targets[0])
	case KindDiagonal:
		err = e.applyDiagonal(v, g.Controls, g.Targets, g.Diagonal)
	case KindBlock:
		err = e.applyBlock(v, g.Targets, g.Matrix)
	default:
		err = fmt.Errorf("%w: unknown gate kind %d", ErrInvalidDimension, int(g.Kind))
	}
	if err != nil {
		return err
	}
	e.metrics.observe(g.Kind, time.Since(start))

	norm := v.Norm()
	if drift := math.Abs(norm - 1); drift > e.tolerance || math.IsNaN(norm) {
		e.metrics.violation()
		return fmt.Errorf("%w: norm %.12f after %s on %v (tolerance %g)",
			ErrInvariantViolation, norm, g.Label, g.Qubits(), e.tolerance)
	}

	if ce := e.logger.Check(zapcore.DebugLevel, "applied gate"); ce != nil {
		ce.Write(
			zap.Stringer("kind", g.Kind),
			zap.String("label", g.Label),
			zap.Ints("qubits", g.Qubits()),
			zap.Float64("norm", norm),
		)
	}
	return nil
}

// applyH visits each (i, i|bit) pair once, from the index whose bit is clear.
func (e *Engine) applyH(v *Vector, q int) error {
	hFactor := complex(1.0/math.Sqrt2, 0)
	bit := 1 << q
	amps := v.amps
	return e.forRange(v, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			if i&bit == 0 {
				j := i | bit
				a, b := amps[i], amps[j]
				amps[i] = hFactor * (a + b)
				amps[j] = hFactor * (a - b)
			}
		}
	})
}

func (e *Engine) applyMCX(v *Vector, controls []int, target int) error {
	cMask := mask(controls)
	tBit := 1 << target
	amps := v.amps
	return e.forRange(v, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			if i&cMask == cMask && i&tBit == 0 {
				j := i | tBit
				amps[i], amps[j] = amps[j], amps[i]
			}
		}
	})
}

func (e *Engine) applyDiagonal(v *Vector, controls, targets []int, entries []complex128) error {
	cMask := mask(controls)
	amps := v.amps
	return e.forRange(v, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			if i&cMask == cMask {
				amps[i] *= entries[gather(i, targets)]
			}
		}
	})
}

// applyBlock treats every index with all target bits clear as the base of one
// sub-vector and multiplies that sub-vector by the matrix.
func (e *Engine) applyBlock(v *Vector, targets []int, matrix []complex128) error {
	dim := 1 << len(targets)
	tMask := mask(targets)
	offsets := make([]int, dim)
	for val := range dim {
		offsets[val] = scatter(val, targets)
	}
	amps := v.amps
	return e.forRange(v, func(lo, hi int) {
		sub := make([]complex128, dim)
		for base := lo; base < hi; base++ {
			if base&tMask != 0 {
				continue
			}
			for c, off := range offsets {
				sub[c] = amps[base|off]
			}
			for r, off := range offsets {
				row := matrix[r*dim : (r+1)*dim]
				var acc complex128
				for c, m := range row {
					acc += m * sub[c]
				}
				amps[base|off] = acc
			}
		}
	})
}

// forRange runs fn over the basis indices of v, split into contiguous chunks
// when the register is large enough. Each kernel writes only the indices owned
// by the chunk's loop variable, so chunks never race and the result matches
// the sequential pass exactly.
func (e *Engine) forRange(v *Vector, fn func(lo, hi int)) error {
	n := len(v.amps)
	if e.workers <= 1 || v.numQubits < e.parallelThreshold {
		fn(0, n)
		return nil
	}

	chunk := (n + e.workers - 1) / e.workers
	var g errgroup.Group
	g.SetLimit(e.workers)
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		g.Go(func() error {
			fn(lo, hi)
			return nil
		})
	}
	return g.Wait()
}
