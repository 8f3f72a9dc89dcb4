package tui

import (
	"fmt"
	"strings"

	"github.com/JonMunkholm/tidyflow/internal/core"
	"github.com/JonMunkholm/tidyflow/internal/selection"
	"github.com/JonMunkholm/tidyflow/internal/workflow"
	"github.com/charmbracelet/lipgloss"
)

// View implements tea.Model.
func (m Model) View() string {
	v := m.wizard.Snapshot()

	var body string
	switch v.Step {
	case workflow.StepUpload:
		body = m.renderUpload(v)
	case workflow.StepOptions:
		body = m.renderOptions(v)
	case workflow.StepResults:
		body = m.renderResults(v)
	}

	sections := []string{m.renderHeader(v.Step), body}
	if v.Err != "" {
		sections = append(sections, errorStyle.Render("✗ "+v.Err))
	}
	if m.notice != "" {
		sections = append(sections, errorStyle.Render("✗ "+m.notice))
	}
	sections = append(sections, helpStyle.Render(helpText(v.Step)))
	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}

func (m Model) renderHeader(current workflow.Step) string {
	steps := []string{"1 Upload", "2 Options", "3 Results"}
	parts := make([]string, len(steps))
	for i, s := range steps {
		if workflow.Step(i) == current {
			parts[i] = stepActiveStyle.Render(s)
		} else {
			parts[i] = stepStyle.Render(s)
		}
	}
	return titleStyle.Render("tidyflow") + "  " + strings.Join(parts, stepStyle.Render(" › ")) + "\n"
}

func (m Model) renderUpload(v workflow.View) string {
	lines := []string{
		labelStyle.Render("Supported formats: " + strings.Join(m.formats, ", ")),
		"",
		m.path.View(),
	}

	if v.Selection != nil {
		lines = append(lines, "",
			field("Selected", v.Selection.Name),
			field("Size", selection.FormatSize(*v.Selection)),
			field("Type", v.Selection.MimeType),
		)
	}
	if v.Analyzing {
		lines = append(lines, "", m.spin.View()+" Analyzing…")
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderOptions(v workflow.View) string {
	var b strings.Builder

	if a := v.Analysis; a != nil {
		b.WriteString(titleStyle.Render("Analysis") + "\n")
		b.WriteString(field("File", v.Selection.Name) + "\n")
		b.WriteString(field("Rows", fmt.Sprint(a.TotalRows)) + "   " + field("Columns", fmt.Sprint(a.TotalColumns)) + "\n")
		b.WriteString(field("Missing values", fmt.Sprint(core.TotalMissing(a.MissingValues))) + "   " +
			field("Duplicates", fmt.Sprint(a.Duplicates)) + "   " +
			field("Problems", fmt.Sprint(core.TotalProblems(a))) + "\n")
		b.WriteString(renderItems("Missing by column", core.MissingItems(a.MissingValues)))
	}

	b.WriteString(sectionStyle.Render(titleStyle.Render("Cleaning options")) + "\n")
	for i, c := range core.Choices {
		pointer := "  "
		if i == m.cursor {
			pointer = cursorStyle.Render("› ")
		}
		current := m.form.Get(c.Field)
		vals := make([]string, len(c.Values))
		for j, val := range c.Values {
			if val == current {
				vals[j] = chosenStyle.Render("[" + val + "]")
			} else {
				vals[j] = choiceStyle.Render(" " + val + " ")
			}
		}
		fmt.Fprintf(&b, "%s%-20s %s\n", pointer, c.Label, strings.Join(vals, " "))
	}
	if v.Processing {
		b.WriteString("\n" + m.spin.View() + " Processing…\n")
	}

	if v.UploadPreview.Enabled {
		b.WriteString(sectionStyle.Render(titleStyle.Render("Upload preview")) + "\n")
		b.WriteString(m.renderPane(v.UploadPreview))
	}
	return b.String()
}

func (m Model) renderResults(v workflow.View) string {
	var b strings.Builder

	if s := v.Stats; s != nil {
		b.WriteString(titleStyle.Render("Results") + "\n")
		b.WriteString(field("Rows", fmt.Sprintf("%d → %d", s.InitialRows, s.FinalRows)) + "   " +
			field("Removed", fmt.Sprint(s.RowsRemoved)) + "   " +
			field("Columns", fmt.Sprint(s.FinalColumns)) + "\n")
		b.WriteString(field("Duplicates", fmt.Sprintf("%d found, %d removed", s.DuplicatesFound, s.DuplicatesRemoved)) + "\n")
		b.WriteString(field("Missing values", fmt.Sprint(core.TotalMissing(s.MissingValues))) + "   " +
			field("Outliers", fmt.Sprint(core.TotalOutliers(s.Outliers))) + "\n")
		b.WriteString(field("Normalization", core.NormalizationLabel(s.NormalizationMethod)) + "\n")
		b.WriteString(renderItems("Outliers by column", core.OutlierItems(s.Outliers)))
	}

	b.WriteString(field("Output", v.ProcessedFile) + "\n")
	switch {
	case v.Downloading:
		b.WriteString(m.spin.View() + " Downloading…\n")
	case v.SavedTo != "":
		b.WriteString(successStyle.Render("✓ Saved to "+v.SavedTo) + "\n")
	}

	b.WriteString(sectionStyle.Render(titleStyle.Render("Preview")) + "\n")
	b.WriteString(m.renderPane(v.ResultPreview))
	return b.String()
}

func (m Model) renderPane(p workflow.Pane) string {
	switch {
	case p.Loading:
		return m.spin.View() + " Loading preview…\n"
	case p.Err != "":
		return labelStyle.Render(p.Err) + "\n"
	case p.Table == nil:
		return ""
	case len(p.Table.Rows) == 0:
		return labelStyle.Render("No rows to preview") + "\n"
	}
	return panelStyle.Render(m.preview.View()) + "\n" +
		labelStyle.Render(fmt.Sprintf("Showing %d rows", len(p.Table.Rows))) + "\n"
}

func renderItems(title string, items []core.Item) string {
	if len(items) == 0 {
		return ""
	}
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = fmt.Sprintf("%s: %d", it.Name, it.Count)
	}
	return labelStyle.Render(title+": ") + strings.Join(parts, ", ") + "\n"
}

func field(label, value string) string {
	return labelStyle.Render(label+": ") + valueStyle.Render(value)
}

func helpText(step workflow.Step) string {
	switch step {
	case workflow.StepUpload:
		return "enter: select file • ctrl+a: analyze • esc: quit"
	case workflow.StepOptions:
		return "↑/↓: option • ←/→: change • enter: process • esc: back • q: quit"
	case workflow.StepResults:
		return "s: save file • n: new file • ↑/↓: scroll preview • q: quit"
	}
	return ""
}
