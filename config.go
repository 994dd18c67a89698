package qpegrover

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"qpegrover/circuit"
	"qpegrover/readout"
)

// Preparation modes accepted in Config.Prepare.
const (
	PrepareSuperposition = "superposition"
	PrepareEigenstate    = "eigenstate"
)

// Config is the YAML form of a Problem.
//
//	system_qubits: 3
//	ancilla_qubits: 3
//	phases: ["0", "1/8", "1/4", "3/8", "1/2", "5/8", "3/4", "7/8"]
//	target: "010"
//	iterations: 2
type Config struct {
	SystemQubits  int      `yaml:"system_qubits" validate:"required,gte=1"`
	AncillaQubits int      `yaml:"ancilla_qubits" validate:"required,gte=1"`
	Phases        []string `yaml:"phases" validate:"required,min=2,dive,required"`
	Target        string   `yaml:"target" validate:"required_without=TargetPhase,excluded_with=TargetPhase"`
	TargetPhase   string   `yaml:"target_phase" validate:"required_without=Target"`
	Iterations    int      `yaml:"iterations" validate:"gte=0"`
	Prepare       string   `yaml:"prepare" validate:"omitempty,oneof=superposition eigenstate"`
	Eigenstate    int      `yaml:"eigenstate" validate:"gte=0"`
	Threshold     float64  `yaml:"threshold" validate:"gte=0"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadConfig reads and validates a YAML problem file.
func LoadConfig(path string) (*Config, error) {
	cfg, err := ReadConfig(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ReadConfig decodes a YAML problem file without validating it, for callers
// that overlay further values first.
func ReadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := decodeConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes YAML, rejecting unknown fields, and validates the result.
func ParseConfig(data []byte) (*Config, error) {
	cfg, err := decodeConfig(data)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeConfig(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the struct tags.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ReadoutThreshold returns the configured joint-distribution cut-off.
func (c *Config) ReadoutThreshold() float64 {
	if c.Threshold > 0 {
		return c.Threshold
	}
	return readout.DefaultThreshold
}

// Problem converts the config into a validated Problem.
func (c *Config) Problem() (Problem, error) {
	phases, err := ParsePhases(c.Phases)
	if err != nil {
		return Problem{}, err
	}

	target := c.Target
	if target == "" {
		theta, err := ParsePhase(c.TargetPhase)
		if err != nil {
			return Problem{}, fmt.Errorf("target_phase: %w", err)
		}
		target = TargetFromPhase(theta, c.AncillaQubits)
	}

	prep := circuit.Superposition()
	if c.Prepare == PrepareEigenstate {
		prep = circuit.FixedEigenstate(c.Eigenstate)
	}

	p := Problem{
		SystemQubits:  c.SystemQubits,
		AncillaQubits: c.AncillaQubits,
		Eigenvalues:   Eigenvalues(phases),
		Target:        target,
		Iterations:    c.Iterations,
		Preparation:   prep,
	}
	if err := p.Validate(); err != nil {
		return Problem{}, err
	}
	return p, nil
}
