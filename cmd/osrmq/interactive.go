package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	osrmruntime "github.com/wippyai/osrm-runtime"
	"github.com/wippyai/osrm-runtime/runtime"
)

type field struct {
	name        string
	placeholder string
}

var capabilityFields = map[osrmruntime.Capability][]field{
	osrmruntime.CapabilityTable: {
		{"coords", "6.1319,49.6116;6.1063,49.7508"},
		{"sources", "all"},
		{"destinations", "all"},
	},
	osrmruntime.CapabilityRoute: {{"coords", "6.1319,49.6116;6.1063,49.7508"}},
	osrmruntime.CapabilityTrip:  {{"coords", "6.1319,49.6116;6.1063,49.7508;5.9675,49.5009"}},
	osrmruntime.CapabilityMatch: {{"coords", "6.1319,49.6116;6.1063,49.7508"}},
	osrmruntime.CapabilityNearest: {
		{"coords", "6.1319,49.6116"},
		{"number", "1"},
	},
}

type modelState int

const (
	stateSelect modelState = iota
	stateInput
	stateResult
)

type interactiveModel struct {
	err      error
	rt       *runtime.Runtime
	dataset  string
	result   string
	inputs   []textinput.Model
	selected int
	focusIdx int
	state    modelState
	printer  printer
}

type callResultMsg struct {
	err    error
	result string
}

func newInteractiveModel(rt *runtime.Runtime, dataset string) *interactiveModel {
	if dataset == "" {
		dataset = "(shared memory)"
	}
	return &interactiveModel{
		rt:      rt,
		dataset: dataset,
		state:   stateSelect,
		printer: printer{styled: true},
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) capability() osrmruntime.Capability {
	return osrmruntime.Capabilities[m.selected]
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state != stateInput {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelect && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelect && m.selected < len(osrmruntime.Capabilities)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelect:
				m.prepareInputs()
				m.state = stateInput
				return m, textinput.Blink

			case stateInput:
				return m, m.call

			case stateResult:
				m.state = stateSelect
				m.result = ""
				m.err = nil
			}

		case "tab":
			if m.state == stateInput && len(m.inputs) > 1 {
				m.inputs[m.focusIdx].Blur()
				m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
				m.inputs[m.focusIdx].Focus()
			}

		case "esc":
			switch m.state {
			case stateInput:
				m.state = stateSelect
				m.inputs = nil
			case stateResult:
				m.state = stateSelect
				m.result = ""
				m.err = nil
			}
		}

	case callResultMsg:
		m.result = msg.result
		m.err = msg.err
		m.state = stateResult
	}

	if m.state == stateInput {
		var cmds []tea.Cmd
		for i := range m.inputs {
			var cmd tea.Cmd
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m *interactiveModel) prepareInputs() {
	fields := capabilityFields[m.capability()]
	m.inputs = make([]textinput.Model, len(fields))
	for i, f := range fields {
		ti := textinput.New()
		ti.Placeholder = f.placeholder
		ti.Prompt = f.name + ": "
		ti.Width = 60
		if i == 0 {
			ti.Focus()
		}
		m.inputs[i] = ti
	}
	m.focusIdx = 0
}

func (m *interactiveModel) request() (request, error) {
	req := request{capability: m.capability(), number: 1}
	for i, f := range capabilityFields[req.capability] {
		v := strings.TrimSpace(m.inputs[i].Value())
		switch f.name {
		case "coords":
			req.coords = v
		case "sources":
			req.sources = v
		case "destinations":
			req.destinations = v
		case "number":
			if v == "" {
				continue
			}
			n, err := strconv.Atoi(v)
			if err != nil {
				return req, fmt.Errorf("number: %w", err)
			}
			req.number = n
		}
	}
	return req, nil
}

func (m *interactiveModel) call() tea.Msg {
	req, err := m.request()
	if err != nil {
		return callResultMsg{err: err}
	}
	q, err := req.build()
	if err != nil {
		return callResultMsg{err: err}
	}
	v, err := m.rt.Do(context.Background(), q)
	if err != nil {
		return callResultMsg{err: err}
	}
	return callResultMsg{result: m.printer.summary(v)}
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("OSRM Query"))
	b.WriteString(" ")
	b.WriteString(m.dataset)
	b.WriteString("\n\n")

	switch m.state {
	case stateSelect:
		b.WriteString("Select a service:\n\n")
		for i, c := range osrmruntime.Capabilities {
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + c.String()))
			} else {
				b.WriteString("  " + c.String())
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter choose • q quit"))

	case stateInput:
		fmt.Fprintf(&b, "Query %s\n\n", valueStyle.Render(m.capability().String()))
		for _, input := range m.inputs {
			b.WriteString(input.View())
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab next field • enter run • esc back"))

	case stateResult:
		fmt.Fprintf(&b, "Result of %s:\n\n", valueStyle.Render(m.capability().String()))
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(m.result)
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func runInteractive(rt *runtime.Runtime, dataset string) error {
	p := tea.NewProgram(newInteractiveModel(rt, dataset), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
