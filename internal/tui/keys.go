package tui

import (
	"strings"

	"github.com/JonMunkholm/tidyflow/internal/core"
	tea "github.com/charmbracelet/bubbletea"
)

// handleUploadKeys: enter loads the typed path, ctrl+a analyzes, esc quits.
func (m Model) handleUploadKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, tea.Quit
	case "enter":
		path := strings.TrimSpace(m.path.Value())
		if path == "" {
			m.notice = "Enter the path of a file to upload"
			return m, nil
		}
		return m, loadFile(path)
	case "ctrl+a":
		return m.apply(m.wizard.Analyze())
	}

	var cmd tea.Cmd
	m.path, cmd = m.path.Update(msg)
	return m, cmd
}

// handleOptionsKeys: up/down pick a field, left/right cycle its value,
// enter submits, esc goes back.
func (m Model) handleOptionsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	field := core.Choices[m.cursor].Field

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		m.cursor = (m.cursor - 1 + len(core.Choices)) % len(core.Choices)
	case "down", "j", "tab":
		m.cursor = (m.cursor + 1) % len(core.Choices)
	case "left", "h":
		m.form = m.form.Cycle(field, -1)
	case "right", "l", " ":
		m.form = m.form.Cycle(field, 1)
	case "enter":
		return m.apply(m.wizard.SubmitOptions(m.form))
	case "esc", "backspace":
		return m.apply(m.wizard.GoBack())
	}
	return m, nil
}

// handleResultsKeys: s saves the processed file, n starts over, arrows
// scroll the preview.
func (m Model) handleResultsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "s":
		return m.apply(m.wizard.RequestDownload())
	case "n":
		return m.apply(m.wizard.Reset())
	}

	var cmd tea.Cmd
	m.preview, cmd = m.preview.Update(msg)
	return m, cmd
}
