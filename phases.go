package qpegrover

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"qpegrover/circuit"
	"qpegrover/quantum"
	"qpegrover/readout"
)

// piExprRegex matches radian expressions like: pi, 2pi, 2*pi, pi/2, 3pi/4, 3*pi/4, -pi/2
var piExprRegex = regexp.MustCompile(`^(-?)(\d*\.?\d*)\s*\*?\s*pi(?:\s*/\s*(\d+\.?\d*))?$`)

// fractionRegex matches fractions of a turn like: 1/8, 3 / 16, -1/4
var fractionRegex = regexp.MustCompile(`^(-?\d+)\s*/\s*(\d+)$`)

// maxDyadicExponent bounds the k/2^m search in FormatPhase.
const maxDyadicExponent = 16

// ParsePhase parses one eigenphase and returns it in turns, normalised to [0, 1).
//
// Supported formats:
//   - Decimals, in turns: "0.125", "0.3"
//   - Fractions of a turn: "1/8", "3/16"
//   - Radian expressions with pi: "pi/4" (= 1/8 turn), "3*pi/2", "-pi/2"
func ParsePhase(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty phase", quantum.ErrInvalidDimension)
	}

	if val, err := strconv.ParseFloat(s, 64); err == nil {
		return normalizeTurns(val)
	}

	if matches := fractionRegex.FindStringSubmatch(s); matches != nil {
		num, err := strconv.ParseFloat(matches[1], 64)
		if err != nil {
			return 0, fmt.Errorf("%w: phase %q: %v", quantum.ErrInvalidDimension, s, err)
		}
		denom, err := strconv.ParseFloat(matches[2], 64)
		if err != nil || denom == 0 {
			return 0, fmt.Errorf("%w: phase %q has a zero or malformed denominator", quantum.ErrInvalidDimension, s)
		}
		return normalizeTurns(num / denom)
	}

	lower := strings.ToLower(s)
	if matches := piExprRegex.FindStringSubmatch(lower); matches != nil {
		negative := matches[1] == "-"
		coeffStr := matches[2]
		denomStr := matches[3]

		coeff := 1.0
		if coeffStr != "" {
			var err error
			coeff, err = strconv.ParseFloat(coeffStr, 64)
			if err != nil {
				return 0, fmt.Errorf("%w: phase %q: %v", quantum.ErrInvalidDimension, s, err)
			}
		}

		radians := coeff * math.Pi
		if denomStr != "" {
			denom, err := strconv.ParseFloat(denomStr, 64)
			if err != nil || denom == 0 {
				return 0, fmt.Errorf("%w: phase %q has a zero or malformed denominator", quantum.ErrInvalidDimension, s)
			}
			radians /= denom
		}
		if negative {
			radians = -radians
		}
		return normalizeTurns(radians / (2 * math.Pi))
	}

	return 0, fmt.Errorf("%w: cannot parse phase %q", quantum.ErrInvalidDimension, s)
}

// ParsePhases parses a phase table.
func ParsePhases(exprs []string) ([]float64, error) {
	phases := make([]float64, len(exprs))
	for i, expr := range exprs {
		p, err := ParsePhase(expr)
		if err != nil {
			return nil, fmt.Errorf("phase %d: %w", i, err)
		}
		phases[i] = p
	}
	return phases, nil
}

// FormatPhase renders a phase in turns, as k/2^m when it is dyadic.
func FormatPhase(turns float64) string {
	if turns == 0 {
		return "0"
	}
	for m := 1; m <= maxDyadicExponent; m++ {
		denom := float64(int(1) << m)
		k := math.Round(turns * denom)
		if math.Abs(turns*denom-k) < 1e-9 {
			if int(k)%2 == 0 {
				continue
			}
			return fmt.Sprintf("%d/%d", int(k), int(denom))
		}
	}
	return fmt.Sprintf("%g", turns)
}

// Eigenvalues maps phases in turns to exp(2πiθ).
func Eigenvalues(phases []float64) []complex128 {
	eig := make([]complex128, len(phases))
	for i, theta := range phases {
		eig[i] = circuit.Eigenvalue(theta)
	}
	return eig
}

// TargetFromPhase returns floor(θ·2^d) as a zero-padded d-bit string.
func TargetFromPhase(theta float64, d int) string {
	theta -= math.Floor(theta)
	m := int(math.Floor(theta * float64(int(1)<<d)))
	return readout.FormatBits(m, d)
}

func normalizeTurns(t float64) (float64, error) {
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return 0, fmt.Errorf("%w: phase %g is not finite", quantum.ErrInvalidDimension, t)
	}
	t -= math.Floor(t)
	if t >= 1 {
		t = 0
	}
	return t, nil
}
