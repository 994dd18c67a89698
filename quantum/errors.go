package quantum

import "errors"

// Error taxonomy shared by the simulator packages. Callers match with errors.Is.
var (
	// ErrInvalidDimension reports a malformed eigenvalue table, a qubit-count
	// mismatch or a mis-sized gate payload.
	ErrInvalidDimension = errors.New("invalid dimension")

	// ErrInvalidTarget reports a malformed target bit-string.
	ErrInvalidTarget = errors.New("invalid target")

	// ErrOutOfRange reports a basis index or qubit index outside the register.
	ErrOutOfRange = errors.New("out of range")

	// ErrInvariantViolation reports norm drift after a gate application.
	// It indicates an engine defect, never user misuse.
	ErrInvariantViolation = errors.New("invariant violation")
)
