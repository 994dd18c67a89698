package circuit

import (
	"fmt"
	"strings"

	"qpegrover/quantum"
)

// ToQASM generates OpenQASM 2.0 for the sequence on a numQubits register,
// ending with a measurement of every qubit. Diagonal and block unitaries have
// no qelib1 equivalent and are written as comment lines.
func (s Sequence) ToQASM(numQubits int) string {
	var sb strings.Builder
	sb.WriteString("OPENQASM 2.0;\n")
	sb.WriteString("include \"qelib1.inc\";\n\n")
	fmt.Fprintf(&sb, "qreg q[%d];\n", numQubits)
	fmt.Fprintf(&sb, "creg c[%d];\n\n", numQubits)

	for _, gate := range s {
		switch gate.Kind {
		case quantum.KindHadamard:
			fmt.Fprintf(&sb, "h q[%d];\n", gate.Targets[0])
		case quantum.KindPauliX:
			fmt.Fprintf(&sb, "x q[%d];\n", gate.Targets[0])
		case quantum.KindMCX:
			fmt.Fprintf(&sb, "%s %s;\n", mcxName(len(gate.Controls)), qubitList(gate.Qubits()))
		case quantum.KindDiagonal:
			if len(gate.Controls) > 0 {
				fmt.Fprintf(&sb, "// diag %s ctrl %s -> %s\n", gate.Label, qubitList(gate.Controls), qubitList(gate.Targets))
			} else {
				fmt.Fprintf(&sb, "// diag %s %s\n", gate.Label, qubitList(gate.Targets))
			}
		case quantum.KindBlock:
			fmt.Fprintf(&sb, "// block %s %s\n", gate.Label, qubitList(gate.Targets))
		}
	}

	sb.WriteString("\n")
	for q := range numQubits {
		fmt.Fprintf(&sb, "measure q[%d] -> c[%d];\n", q, q)
	}
	return sb.String()
}

// mcxName picks the qelib1 name for an X with the given number of controls.
func mcxName(controls int) string {
	switch controls {
	case 0:
		return "x"
	case 1:
		return "cx"
	case 2:
		return "ccx"
	case 3:
		return "c3x"
	case 4:
		return "c4x"
	default:
		return "mcx"
	}
}

func qubitList(qubits []int) string {
	parts := make([]string, len(qubits))
	for i, q := range qubits {
		parts[i] = fmt.Sprintf("q[%d]", q)
	}
	return strings.Join(parts, ", ")
}
