package qpegrover

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"qpegrover/quantum"
)

func TestParsePhase(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"0", 0},
		{"0.125", 0.125},
		{"0.3", 0.3},
		{"1/8", 0.125},
		{"3 / 16", 0.1875},
		{"-1/4", 0.75},
		{"5/4", 0.25},
		{"pi", 0.5},
		{"pi/4", 0.125},
		{"3*pi/4", 0.375},
		{"3pi/4", 0.375},
		{"-pi/2", 0.75},
		{"2*pi", 0},
		{"PI/2", 0.25},
		{"  1.5  ", 0.5},
		{"-0.25", 0.75},
	}

	for _, tt := range tests {
		got, err := ParsePhase(tt.input)
		if err != nil {
			t.Errorf("ParsePhase(%q) returned error: %v", tt.input, err)
			continue
		}
		if math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("ParsePhase(%q) = %g, want %g", tt.input, got, tt.want)
		}
		if got < 0 || got >= 1 {
			t.Errorf("ParsePhase(%q) = %g, not in [0, 1)", tt.input, got)
		}
	}
}

func TestParsePhaseInvalid(t *testing.T) {
	for _, input := range []string{"", "abc", "1/0", "pi/0", "pi/2/3", "inf", "NaN", "1/8x"} {
		_, err := ParsePhase(input)
		if err == nil {
			t.Errorf("ParsePhase(%q) should fail", input)
			continue
		}
		if !errors.Is(err, quantum.ErrInvalidDimension) {
			t.Errorf("ParsePhase(%q) error %v does not wrap ErrInvalidDimension", input, err)
		}
	}
}

func TestParsePhases(t *testing.T) {
	got, err := ParsePhases([]string{"0", "1/4", "pi"})
	if err != nil {
		t.Fatalf("ParsePhases: %v", err)
	}
	want := []float64{0, 0.25, 0.5}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("phase %d = %g, want %g", i, got[i], want[i])
		}
	}

	if _, err := ParsePhases([]string{"0", "oops"}); err == nil {
		t.Error("ParsePhases should report the bad entry")
	}
}

func TestFormatPhase(t *testing.T) {
	tests := []struct {
		input float64
		want  string
	}{
		{0, "0"},
		{0.5, "1/2"},
		{0.25, "1/4"},
		{0.75, "3/4"},
		{0.125, "1/8"},
		{0.875, "7/8"},
		{3.0 / 16, "3/16"},
		{0.3, "0.3"},
	}

	for _, tt := range tests {
		got := FormatPhase(tt.input)
		if got != tt.want {
			t.Errorf("FormatPhase(%g) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFormatPhaseRoundTrip(t *testing.T) {
	for k := range 16 {
		theta := float64(k) / 16
		got, err := ParsePhase(FormatPhase(theta))
		if err != nil {
			t.Fatalf("round trip of %g: %v", theta, err)
		}
		if math.Abs(got-theta) > 1e-12 {
			t.Errorf("round trip of %g gave %g", theta, got)
		}
	}
}

func TestEigenvalues(t *testing.T) {
	eig := Eigenvalues([]float64{0, 0.25, 0.5, 0.75})
	want := []complex128{1, 1i, -1, -1i}
	for i := range want {
		if cmplx.Abs(eig[i]-want[i]) > 1e-12 {
			t.Errorf("eigenvalue %d = %v, want %v", i, eig[i], want[i])
		}
	}
}

func TestTargetFromPhase(t *testing.T) {
	tests := []struct {
		theta float64
		d     int
		want  string
	}{
		{0, 3, "000"},
		{0.25, 3, "010"},
		{0.3, 3, "010"},
		{0.875, 3, "111"},
		{0.5, 1, "1"},
		{0.49, 1, "0"},
		{1.25, 2, "01"},
	}

	for _, tt := range tests {
		got := TargetFromPhase(tt.theta, tt.d)
		if got != tt.want {
			t.Errorf("TargetFromPhase(%g, %d) = %q, want %q", tt.theta, tt.d, got, tt.want)
		}
	}
}
