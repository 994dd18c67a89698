package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"qpegrover"
	"qpegrover/readout"
)

// tab identifies the panel shown by the viewer.
type tab int

const (
	tabAncilla tab = iota
	tabSystem
	tabJoint
	tabTrace
	tabQASM
	numTabs
)

func (t tab) String() string {
	switch t {
	case tabAncilla:
		return "Ancilla"
	case tabSystem:
		return "System"
	case tabJoint:
		return "Joint"
	case tabTrace:
		return "Trace"
	case tabQASM:
		return "QASM"
	default:
		return "?"
	}
}

// keyMap lists the viewer bindings; it satisfies help.KeyMap.
type keyMap struct {
	Next key.Binding
	Prev key.Binding
	Up   key.Binding
	Down key.Binding
	Help key.Binding
	Quit key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev},
		{k.Up, k.Down},
		{k.Help, k.Quit},
	}
}

var keys = keyMap{
	Next: key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab/→", "next panel")),
	Prev: key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("⇧tab/←", "previous panel")),
	Up:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll up")),
	Down: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll down")),
	Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
	Quit: key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

// viewer is the read-only result browser behind run --interactive.
type viewer struct {
	result *qpegrover.Result
	trace  []qpegrover.TracePoint

	tables [tabQASM]table.Model
	qasm   viewport.Model
	help   help.Model
	active tab
	width  int
	height int
}

func newViewer(res *qpegrover.Result, trace []qpegrover.TracePoint, qasm string) viewer {
	v := viewer{
		result: res,
		trace:  trace,
		help:   help.New(),
		qasm:   viewport.New(80, 20),
	}
	v.qasm.SetContent(qasm)

	v.tables[tabAncilla] = distributionTable(res.Ancilla)
	v.tables[tabSystem] = distributionTable(res.System)
	v.tables[tabJoint] = distributionTable(res.Joint)
	v.tables[tabTrace] = traceTable(trace)
	v.focus()
	return v
}

func distributionTable(dist readout.Distribution) table.Model {
	rows := make([]table.Row, len(dist))
	for i, e := range dist {
		rows[i] = table.Row{e.Bits, fmt.Sprintf("%.6f", e.Probability), strings.Repeat("█", int(e.Probability*barW+0.5))}
	}
	return table.New(
		table.WithColumns([]table.Column{
			{Title: "Outcome", Width: 16},
			{Title: "Probability", Width: probW},
			{Title: "Mass", Width: barW},
		}),
		table.WithRows(rows),
		table.WithHeight(15),
	)
}

func traceTable(points []qpegrover.TracePoint) table.Model {
	rows := make([]table.Row, len(points))
	for i, pt := range points {
		rows[i] = table.Row{
			fmt.Sprintf("%d", pt.Iterations),
			fmt.Sprintf("%.6f", pt.TargetProbability),
			fmt.Sprintf("%s %.4f", pt.SystemPeak.Bits, pt.SystemPeak.Probability),
			fmt.Sprintf("%.9f", pt.Norm),
		}
	}
	return table.New(
		table.WithColumns([]table.Column{
			{Title: "r", Width: 4},
			{Title: "P(target)", Width: probW},
			{Title: "System peak", Width: 20},
			{Title: "Norm", Width: probW},
		}),
		table.WithRows(rows),
		table.WithHeight(15),
	)
}

// focus gives keyboard input to the active table only.
func (v *viewer) focus() {
	for i := range v.tables {
		if tab(i) == v.active {
			v.tables[i].Focus()
		} else {
			v.tables[i].Blur()
		}
	}
}

func (v viewer) Init() tea.Cmd {
	return nil
}

func (v viewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.help.Width = msg.Width
		bodyH := max(msg.Height-10, 4)
		for i := range v.tables {
			v.tables[i].SetHeight(bodyH)
		}
		v.qasm.Width = max(msg.Width-6, 20)
		v.qasm.Height = bodyH
		return v, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return v, tea.Quit
		case key.Matches(msg, keys.Help):
			v.help.ShowAll = !v.help.ShowAll
			return v, nil
		case key.Matches(msg, keys.Next):
			v.active = (v.active + 1) % numTabs
			v.focus()
			return v, nil
		case key.Matches(msg, keys.Prev):
			v.active = (v.active + numTabs - 1) % numTabs
			v.focus()
			return v, nil
		}
	}

	var cmd tea.Cmd
	if v.active == tabQASM {
		v.qasm, cmd = v.qasm.Update(msg)
	} else {
		v.tables[v.active], cmd = v.tables[v.active].Update(msg)
	}
	return v, cmd
}

func (v viewer) View() string {
	var sb strings.Builder

	for t := range numTabs {
		name := " " + t.String() + " "
		if t == v.active {
			sb.WriteString(activeTabStyle.Render(name))
		} else {
			sb.WriteString(dimStyle.Render(name))
		}
		if t < numTabs-1 {
			sb.WriteString(dimStyle.Render("│"))
		}
	}
	header := titleStyle.Render("QPE + Grover") + "  " + sb.String()
	status := dimStyle.Render(fmt.Sprintf("target %s  r=%d  P(target)=%.6f  run %s",
		v.result.Target, v.result.Iterations, v.result.TargetProbability, v.result.ID))

	var body string
	if v.active == tabQASM {
		body = qasmStyle.Render(v.qasm.View())
	} else {
		body = panelStyle.Render(v.tables[v.active].View())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		status,
		body,
		controlsStyle.Render(v.help.View(keys)),
	)
}
