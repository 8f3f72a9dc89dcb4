// Package tui renders the wizard as a bubbletea program.
//
// The model owns no workflow state of its own: it forwards intents to a
// workflow.Wizard, feeds completion messages back through Wizard.Update and
// renders Wizard.Snapshot. The only local state is the path input, the
// options form being edited and the preview table widget.
package tui

import (
	"context"
	"errors"
	"time"

	"github.com/JonMunkholm/tidyflow/internal/core"
	"github.com/JonMunkholm/tidyflow/internal/selection"
	"github.com/JonMunkholm/tidyflow/internal/workflow"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// StatusTimeout bounds the startup service status probe.
const StatusTimeout = 10 * time.Second

// StatusSource reports remote service health. *client.Client satisfies it.
type StatusSource interface {
	Status(ctx context.Context) (core.ServiceStatus, error)
}

type fileLoadedMsg struct {
	sel selection.Selection
	err error
}

type statusMsg struct {
	status core.ServiceStatus
	err    error
}

// Model is the root bubbletea model.
type Model struct {
	wizard workflow.Wizard
	status StatusSource

	formats   []string
	serviceUp bool

	path    textinput.Model
	spin    spinner.Model
	preview table.Model

	form   core.ProcessingOptions
	cursor int
	notice string

	step  workflow.Step
	width int
}

// New returns a model driving w. status may be nil.
func New(w workflow.Wizard, status StatusSource) Model {
	ti := textinput.New()
	ti.Placeholder = "path/to/data.csv"
	ti.Prompt = "File: "
	ti.CharLimit = 4096
	ti.Width = 60
	ti.Focus()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = cursorStyle

	return Model{
		wizard:  w,
		status:  status,
		formats: selection.SupportedFormats,
		path:    ti,
		spin:    sp,
		preview: newPreviewTable(),
		form:    core.DefaultOptions(),
		step:    w.Step(),
	}
}

// Init starts the cursor blink, the spinner and the status probe.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spin.Tick, m.fetchStatus())
}

func (m Model) fetchStatus() tea.Cmd {
	if m.status == nil {
		return nil
	}
	src := m.status
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), StatusTimeout)
		defer cancel()

		st, err := src.Status(ctx)
		return statusMsg{status: st, err: err}
	}
}

func loadFile(path string) tea.Cmd {
	return func() tea.Msg {
		raw, err := selection.Load(path)
		if err != nil {
			return fileLoadedMsg{err: err}
		}
		sel, err := selection.Validate(raw)
		return fileLoadedMsg{sel: sel, err: err}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.path.Width = max(20, msg.Width-10)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.wizard.Step() {
		case workflow.StepUpload:
			return m.handleUploadKeys(msg)
		case workflow.StepOptions:
			return m.handleOptionsKeys(msg)
		case workflow.StepResults:
			return m.handleResultsKeys(msg)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case statusMsg:
		if msg.err == nil {
			m.serviceUp = true
			if len(msg.status.SupportedFormats) > 0 {
				m.formats = msg.status.SupportedFormats
			}
		}
		return m, nil

	case fileLoadedMsg:
		if msg.err != nil {
			m.notice = msg.err.Error()
			return m, nil
		}
		m.notice = ""
		return m.apply(m.wizard.SelectFile(msg.sel))

	case workflow.PreviewMsg:
		var cmd tea.Cmd
		m.wizard, cmd = m.wizard.Update(msg)
		m.refreshPreview()
		return m.afterStep(), cmd
	}

	var cmd tea.Cmd
	m.wizard, cmd = m.wizard.Update(msg)
	return m.afterStep(), cmd
}

// apply records the outcome of a wizard intent. Duplicate triggers are
// ignored silently.
func (m Model) apply(w workflow.Wizard, cmd tea.Cmd, err error) (tea.Model, tea.Cmd) {
	m.wizard = w
	switch {
	case err == nil:
		m.notice = ""
	case errors.Is(err, workflow.ErrBusy):
	case errors.Is(err, core.ErrInvalidOptions):
		// Shown through the wizard's own error
	default:
		m.notice = err.Error()
	}
	return m.afterStep(), cmd
}

// afterStep resets step-local widgets when the wizard changed step.
func (m Model) afterStep() Model {
	step := m.wizard.Step()
	if step == m.step {
		return m
	}
	m.step = step
	m.notice = ""

	switch step {
	case workflow.StepUpload:
		m.path.SetValue("")
		m.path.Focus()
	case workflow.StepOptions:
		m.path.Blur()
		m.form = m.wizard.Snapshot().Options
		m.cursor = 0
	case workflow.StepResults:
		m.path.Blur()
	}
	m.refreshPreview()
	return m
}

// refreshPreview loads the pane for the current step into the table widget.
func (m *Model) refreshPreview() {
	v := m.wizard.Snapshot()
	pane := v.UploadPreview
	if v.Step == workflow.StepResults {
		pane = v.ResultPreview
	}
	setPreview(&m.preview, pane.Table)
	m.preview.SetCursor(0)
	if v.Step == workflow.StepResults {
		m.preview.Focus()
	} else {
		m.preview.Blur()
	}
}
