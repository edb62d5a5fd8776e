package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/wasm-linker/wasm"
)

var (
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type interactiveModel struct {
	err      error
	filename string
	data     []byte
	infos    []wasm.SectionInfo
	viewport viewport.Model
	selected int
	width    int
	height   int
	state    modelState
}

type modelState int

const (
	stateSelectSection modelState = iota
	stateViewHex
)

func newInteractiveModel(filename string) *interactiveModel {
	return &interactiveModel{
		filename: filename,
		state:    stateSelectSection,
		width:    80,
		height:   24,
	}
}

type loadedMsg struct {
	err   error
	data  []byte
	infos []wasm.SectionInfo
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.loadModule
}

func (m *interactiveModel) loadModule() tea.Msg {
	data, err := os.ReadFile(m.filename)
	if err != nil {
		return loadedMsg{err: err}
	}

	infos, err := wasm.ScanSections(data)
	if err != nil {
		return loadedMsg{err: err}
	}

	return loadedMsg{data: data, infos: infos}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.state == stateSelectSection && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectSection && m.selected < len(m.infos)-1 {
				m.selected++
			}

		case "enter":
			if m.state == stateSelectSection && len(m.infos) > 0 {
				m.openHexView()
				m.state = stateViewHex
			}

		case "esc":
			if m.state == stateViewHex {
				m.state = stateSelectSection
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.state == stateViewHex {
			m.viewport.Width = m.width
			m.viewport.Height = m.height - 4
		}

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.data = msg.data
		m.infos = msg.infos
	}

	if m.state == stateViewHex {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *interactiveModel) openHexView() {
	info := m.infos[m.selected]
	body := m.data[info.BodyOff : info.BodyOff+info.BodySize]

	m.viewport = viewport.New(m.width, m.height-4)
	m.viewport.SetContent(hexDump(body, int64(info.BodyOff)))
}

// hexDump renders 16 bytes per line with a file offset column
// and an ASCII gutter.
func hexDump(data []byte, base int64) string {
	var b strings.Builder
	for off := 0; off < len(data); off += 16 {
		end := off + 16
		if end > len(data) {
			end = len(data)
		}
		line := data[off:end]

		b.WriteString(offsetStyle.Render(fmt.Sprintf("%08x", base+int64(off))))
		b.WriteString("  ")
		for i := 0; i < 16; i++ {
			if i < len(line) {
				b.WriteString(fmt.Sprintf("%02x ", line[i]))
			} else {
				b.WriteString("   ")
			}
			if i == 7 {
				b.WriteString(" ")
			}
		}
		b.WriteString(" |")
		for _, c := range line {
			if c >= 0x20 && c < 0x7F {
				b.WriteByte(c)
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteString("|\n")
	}
	return b.String()
}

func (m *interactiveModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	if len(m.infos) == 0 {
		return "Loading module..."
	}

	var b strings.Builder

	b.WriteString(headerStyle.Render("Section Browser"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectSection:
		for i, info := range m.infos {
			row := fmt.Sprintf("%-24s offset=%#08x body=%d", info.TypeName(), info.Offset, info.BodySize)
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + row))
			} else {
				b.WriteString("  " + row)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter hex view • q quit"))

	case stateViewHex:
		info := m.infos[m.selected]
		b.WriteString(sectionStyle.Render(info.TypeName()))
		b.WriteString(fmt.Sprintf(" — %d bytes\n", info.BodySize))
		b.WriteString(m.viewport.View())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ scroll • esc back • q quit"))
	}

	return b.String()
}

func runInteractive(filename string) error {
	p := tea.NewProgram(newInteractiveModel(filename), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
