// Package tui is the equation selection interface: a Bubble Tea menu and a
// plain line prompt for terminals without cursor support.
package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/odecmp/internal/config"
	"github.com/san-kum/odecmp/internal/dynamo"
)

var (
	ErrNoSelection   = errors.New("tui: no equation selected")
	ErrInvalidChoice = errors.New("tui: invalid choice")
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
	red     = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

var familyInfo = map[dynamo.Family]string{
	dynamo.FirstOrder:  "falling body with drag",
	dynamo.SecondOrder: "harmonic oscillator",
	dynamo.System:      "coupled linear system",
}

type state int

const (
	stateMenu state = iota
	stateConfig
)

// param is an editable float inside the config being built.
type param struct {
	name string
	ptr  *float64
}

type model struct {
	state   state
	cursor  int
	cfg     *config.Config
	chosen  dynamo.Family
	done    bool
	errLine string

	params      []param
	paramCursor int
	editing     bool
	editBuf     string
}

func newModel(cfg *config.Config) model {
	return model{state: stateMenu, cfg: cfg}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch m.state {
		case stateMenu:
			return m.menuKey(msg)
		case stateConfig:
			return m.configKey(msg)
		}
	}
	return m, nil
}

func (m model) menuKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch key := msg.String(); key {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(dynamo.Families)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.selectFamily(dynamo.Families[m.cursor])
	case "1", "2", "3":
		f, _ := dynamo.ParseFamily(key)
		m.selectFamily(f)
	}
	return m, nil
}

func (m *model) selectFamily(f dynamo.Family) {
	m.chosen = f
	m.state = stateConfig
	m.paramCursor = 0
	m.errLine = ""
	m.params = paramsFor(m.cfg, f)
}

func paramsFor(cfg *config.Config, f dynamo.Family) []param {
	ps := []param{{"t0", &cfg.T0}, {"tf", &cfg.Tf}, {"h", &cfg.H}}
	switch f {
	case dynamo.FirstOrder:
		ps = append(ps,
			param{"mass", &cfg.Drag.Mass},
			param{"gravity", &cfg.Drag.Gravity},
			param{"drag", &cfg.Drag.K},
			param{"v0", &cfg.Drag.V0})
	case dynamo.SecondOrder:
		ps = append(ps,
			param{"spring", &cfg.Oscillator.K},
			param{"mass", &cfg.Oscillator.M},
			param{"x0", &cfg.Oscillator.X0},
			param{"v0", &cfg.Oscillator.V0})
	case dynamo.System:
		ps = append(ps,
			param{"a", &cfg.System.A},
			param{"b", &cfg.System.B},
			param{"c", &cfg.System.C},
			param{"d", &cfg.System.D},
			param{"x0", &cfg.System.X0},
			param{"y0", &cfg.System.Y0})
	}
	return ps
}

func (m model) configKey(msg tea.KeyMsg) (model, tea.Cmd) {
	if m.editing {
		switch msg.String() {
		case "enter":
			if val, err := strconv.ParseFloat(m.editBuf, 64); err == nil {
				*m.params[m.paramCursor].ptr = val
			} else {
				m.errLine = fmt.Sprintf("not a number: %q", m.editBuf)
			}
			m.editing = false
			m.editBuf = ""
		case "esc":
			m.editing = false
			m.editBuf = ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if s := msg.String(); len(s) == 1 && strings.ContainsAny(s, "0123456789.-e") {
				m.editBuf += s
			}
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c":
		m.chosen = ""
		return m, tea.Quit
	case "q", "esc":
		m.state = stateMenu
		m.chosen = ""
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(m.params)-1 {
			m.paramCursor++
		}
	case "enter", " ":
		m.editing = true
		m.editBuf = strconv.FormatFloat(*m.params[m.paramCursor].ptr, 'g', -1, 64)
	case "left", "h":
		*m.params[m.paramCursor].ptr -= step(*m.params[m.paramCursor].ptr)
	case "right", "l":
		*m.params[m.paramCursor].ptr += step(*m.params[m.paramCursor].ptr)
	case "s":
		m.cfg.Family = string(m.chosen)
		if err := m.cfg.Validate(); err != nil {
			m.errLine = err.Error()
			return m, nil
		}
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

// step is a tenth of the value, or 0.1 near zero.
func step(v float64) float64 {
	if s := 0.1 * v; s > 0.1 || s < -0.1 {
		if s < 0 {
			return -s
		}
		return s
	}
	return 0.1
}

func (m model) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateConfig:
		return m.viewConfig()
	}
	return ""
}

func (m model) viewMenu() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("            " + cyan.Render("o d e c m p") + "\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("\n")

	for i, f := range dynamo.Families {
		name := fmt.Sprintf("%d. %-18s", i+1, f.Title())
		if i == m.cursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(name) + dim.Render(familyInfo[f]) + "\n")
		} else {
			b.WriteString("        " + dim.Render(name) + dimmer.Render(familyInfo[f]) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dim.Render("      ↑↓ select   enter/1-3 choose   q quit") + "\n")
	return b.String()
}

func (m model) viewConfig() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("      " + cyan.Render(m.chosen.Title()) + "  " + dim.Render(familyInfo[m.chosen]) + "\n")
	b.WriteString(dimmer.Render("      "+strings.Repeat("─", 30)) + "\n\n")

	for i, p := range m.params {
		val := fmt.Sprintf("%10.4g", *p.ptr)
		if m.editing && i == m.paramCursor {
			val = fmt.Sprintf("%10s", m.editBuf+"▋")
		}
		if i == m.paramCursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-10s", p.name)) + magenta.Render(val) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-10s", p.name)) + dim.Render(val) + "\n")
		}
	}

	if m.errLine != "" {
		b.WriteString("\n      " + red.Render(m.errLine) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(dim.Render("      ↑↓ select  ←→ adjust  enter edit  s start  esc back") + "\n")
	return b.String()
}

// Choose runs the menu. On success cfg holds the edited parameters and the
// chosen family.
func Choose(cfg *config.Config, opts ...tea.ProgramOption) (dynamo.Family, error) {
	p := tea.NewProgram(newModel(cfg), opts...)
	final, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("menu: %w", err)
	}
	m, ok := final.(model)
	if !ok || !m.done || m.chosen == "" {
		return "", ErrNoSelection
	}
	return m.chosen, nil
}
