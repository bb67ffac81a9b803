package main

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/surtarso/vpxinfo/extract"
	"github.com/surtarso/vpxinfo/vpx"
)

var (
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type browseState int

const (
	stateBrowse browseState = iota
	stateScript
)

type row struct {
	key   string
	value string
}

type browserModel struct {
	err      error
	filename string
	filter   textinput.Model
	rows     []row
	script   []string
	selected int
	offset   int
	height   int
	state    browseState
	loaded   bool
}

type tableLoadedMsg struct {
	err    error
	rows   []row
	script []string
}

func runInteractive(path string) error {
	m := newBrowserModel(path)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func newBrowserModel(path string) *browserModel {
	ti := textinput.New()
	ti.Placeholder = "filter"
	ti.Prompt = "/"
	ti.Width = 30
	return &browserModel{
		filename: path,
		filter:   ti,
		height:   24,
	}
}

func (m *browserModel) Init() tea.Cmd {
	return m.loadTable
}

func (m *browserModel) loadTable() tea.Msg {
	f, err := vpx.Open(m.filename)
	if err != nil {
		return tableLoadedMsg{err: err}
	}
	defer f.Close()

	info, err := f.ReadTableInfo()
	if err != nil {
		return tableLoadedMsg{err: err}
	}

	rows := make([]row, 0, 11+len(info.Properties))
	for _, r := range infoRows(info) {
		rows = append(rows, row{key: r[0], value: r[1]})
	}
	for _, k := range sortedKeys(info.Properties) {
		rows = append(rows, row{key: k, value: info.Properties[k]})
	}

	var script []string
	if code, err := extract.New().GameDataCode(m.filename); err == nil {
		script = strings.Split(code, "\n")
	}

	return tableLoadedMsg{rows: rows, script: script}
}

func (m *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.filter.Focused() {
				break
			}
			return m, tea.Quit

		case "up", "k":
			if m.state == stateScript {
				if m.offset > 0 {
					m.offset--
				}
			} else if m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateScript {
				if m.offset < len(m.script)-1 {
					m.offset++
				}
			} else if m.selected < len(m.visibleRows())-1 {
				m.selected++
			}

		case "s":
			if m.state == stateBrowse && !m.filter.Focused() && len(m.script) > 0 {
				m.state = stateScript
				m.offset = 0
			}

		case "/":
			if m.state == stateBrowse && !m.filter.Focused() {
				m.filter.Focus()
				return m, textinput.Blink
			}

		case "enter":
			if m.filter.Focused() {
				m.filter.Blur()
			}

		case "esc":
			switch {
			case m.filter.Focused():
				m.filter.Blur()
			case m.filter.Value() != "":
				m.filter.SetValue("")
				m.selected = 0
			case m.state == stateScript:
				m.state = stateBrowse
			}
		}

	case tableLoadedMsg:
		m.err = msg.err
		m.rows = msg.rows
		m.script = msg.script
		m.loaded = true
	}

	if m.filter.Focused() {
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		if m.selected >= len(m.visibleRows()) {
			m.selected = 0
		}
		return m, cmd
	}

	return m, nil
}

func (m *browserModel) visibleRows() []row {
	q := strings.ToLower(m.filter.Value())
	if q == "" {
		return m.rows
	}
	var out []row
	for _, r := range m.rows {
		if strings.Contains(strings.ToLower(r.key), q) ||
			strings.Contains(strings.ToLower(r.value), q) {
			out = append(out, r)
		}
	}
	return out
}

func (m *browserModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}
	if !m.loaded {
		return "Loading table..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("VPX Table"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n\n")

	switch m.state {
	case stateBrowse:
		rows := m.visibleRows()
		for i, r := range rows {
			line := fmt.Sprintf("%-17s %s", r.key, truncate(r.value, 60))
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + keyStyle.Render(fmt.Sprintf("%-17s", r.key)) + " " + truncate(r.value, 60))
			}
			b.WriteString("\n")
		}
		if len(rows) == 0 {
			b.WriteString(helpStyle.Render("no matching rows"))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(m.filter.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("↑/↓ select • / filter • s script • q quit"))

	case stateScript:
		b.WriteString(sectionStyle.Render("Script"))
		b.WriteString("\n\n")
		end := m.offset + m.height - 8
		if end > len(m.script) {
			end = len(m.script)
		}
		for _, line := range m.script[m.offset:end] {
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render(fmt.Sprintf("line %d/%d • ↑/↓ scroll • esc back • q quit",
			m.offset+1, len(m.script))))
	}

	return b.String()
}

// truncate shortens s to at most n runes, never splitting a multibyte rune.
func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-1]) + "…"
}
