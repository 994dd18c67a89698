package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"qpegrover"
	"qpegrover/readout"
)

// ──────────────────────────── Rendering helpers ────────────────────────────

// padCenter centres a string within the given width.
func padCenter(s string, width int) string {
	n := visibleLen(s)
	if n >= width {
		return s
	}
	total := width - n
	left := total / 2
	right := total - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}

// padRight pads a possibly styled string to the given visible width.
func padRight(s string, width int) string {
	n := visibleLen(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// bar draws p ∈ [0, 1] as a fixed-width gauge.
func bar(p float64, width int) string {
	filled := int(math.Round(math.Max(0, math.Min(1, p)) * float64(width)))
	if filled == 0 && p > 0 {
		filled = 1
	}
	return barStyle.Render(strings.Repeat("█", filled)) + dimStyle.Render(strings.Repeat("░", width-filled))
}

// ──────────────────────────── Report sections ────────────────────────────

// renderDistribution renders up to top entries of dist (all when top ≤ 0),
// highlighting the entry whose bits equal target.
func renderDistribution(title string, dist readout.Distribution, target string, top int) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(padRight("outcome", bitsW) + padRight("probability", probW) + "mass"))
	sb.WriteString("\n")

	shown := dist
	if top > 0 {
		shown = dist.Top(top)
	}
	for _, e := range shown {
		bits := bitsStyle.Render(e.Bits)
		if target != "" && e.Bits == target {
			bits = targetStyle.Render(e.Bits + " ◂")
		}
		sb.WriteString(padRight(bits, bitsW))
		sb.WriteString(padRight(fmt.Sprintf("%.6f", e.Probability), probW))
		sb.WriteString(bar(e.Probability, barW))
		sb.WriteString("\n")
	}
	if hidden := len(dist) - len(shown); hidden > 0 {
		fmt.Fprintf(&sb, "%s\n", dimStyle.Render(fmt.Sprintf("… %d more outcomes", hidden)))
	}
	if len(dist) == 0 {
		sb.WriteString(dimStyle.Render("no outcome above threshold"))
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}

// renderSummary renders the run header.
func renderSummary(res *qpegrover.Result) string {
	rows := [][2]string{
		{"run", res.ID.String()},
		{"system qubits", fmt.Sprintf("%d", res.Layout.System)},
		{"ancilla qubits", fmt.Sprintf("%d", res.Layout.Ancilla)},
		{"target", res.Target},
		{"iterations", fmt.Sprintf("%d", res.Iterations)},
		{"gates", fmt.Sprintf("%d", res.Gates)},
		{"P(target)", fmt.Sprintf("%.6f", res.TargetProbability)},
		{"elapsed", res.Elapsed.String()},
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("QPE + Grover"))
	for _, row := range rows {
		sb.WriteString("\n")
		sb.WriteString(labelStyle.Render(padRight(row[0], labelW)))
		sb.WriteString(row[1])
	}
	return sb.String()
}

// renderTrace renders one row per iteration count.
func renderTrace(target string, points []qpegrover.TracePoint) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Amplification trace"))
	sb.WriteString(dimStyle.Render("  target " + target))
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(padCenter("r", 5) + padRight("P(target)", probW) + padRight("system peak", bitsW+probW) + padRight("norm", probW)))
	sb.WriteString("\n")

	for _, pt := range points {
		sb.WriteString(labelStyle.Render(padCenter(fmt.Sprintf("%d", pt.Iterations), 5)))
		sb.WriteString(padRight(fmt.Sprintf("%.6f", pt.TargetProbability), probW))
		peak := fmt.Sprintf("%s %.4f", pt.SystemPeak.Bits, pt.SystemPeak.Probability)
		sb.WriteString(padRight(peak, bitsW+probW))
		sb.WriteString(padRight(fmt.Sprintf("%.9f", pt.Norm), probW))
		sb.WriteString(bar(pt.TargetProbability, barW/2))
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}

// renderReport lays out the summary and the three distributions.
func renderReport(res *qpegrover.Result, top int) string {
	summary := panelStyle.Render(renderSummary(res))
	ancilla := panelStyle.Render(renderDistribution("Ancilla register", res.Ancilla, res.Target, top))
	system := panelStyle.Render(renderDistribution("System register", res.System, "", top))
	joint := panelStyle.Render(renderDistribution("Joint (system|ancilla)", res.Joint, "", top))

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, summary, ancilla)
	return lipgloss.JoinVertical(lipgloss.Left, topRow, system, joint)
}

// visibleLen returns the number of visible (non-ANSI-escape) characters in a string.
func visibleLen(s string) int {
	n := 0
	inEsc := false
	for _, r := range s {
		if r == '\x1b' {
			inEsc = true
			continue
		}
		if inEsc {
			if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
				inEsc = false
			}
			continue
		}
		n++
	}
	return n
}
