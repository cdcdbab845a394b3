package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"otterWizard/internal/notify"

	"github.com/charmbracelet/lipgloss"
)

const helpText = `1. Select the Station Import File (CSV format).
2. Select the Glossary Template (Excel format).
3. Choose the output location and filename for the processed Excel file (A named folder is recommended).
4. Press ctrl+r to start the process. Progress bar indicates run stage.

Ensure all fields are filled before running the process.

O.T.T.E.R - Optimized Template-based Transformation for Excel Reports.`

var fieldLabels = [fieldCount]string{
	fieldStation:   "Station Import File:",
	fieldTemplate:  "Glossary Template:",
	fieldOutput:    "Output Location and Name:",
	fieldUser:      "User:",
	fieldSound:     "Complete Sound File Name:",
	fieldPlaySound: "Play Complete Sound on Success",
}

func (m model) View() string {
	switch m.state {
	case stateNotice:
		return m.viewNotice()
	case stateHelp:
		return m.viewHelp()
	}
	return m.viewForm()
}

func (m model) viewForm() string {
	var b strings.Builder

	b.WriteString(m.titleStyle.Render("Otter Wizard"))
	b.WriteString("\n\n")

	for f := field(0); f < fieldCount; f++ {
		b.WriteString(m.renderField(f))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.state == statePrompt {
		title := "Enter new user name:"
		if m.prompt == promptRemoveUser {
			title = "Enter user name to remove:"
		}
		b.WriteString(m.progressStyle.Render(title))
		b.WriteString(" ")
		b.WriteString(m.promptInput.View())
		b.WriteString("\n")
		b.WriteString(m.helpStyle.Render("Enter: confirm | Esc: cancel"))
		b.WriteString("\n\n")
	}

	b.WriteString(m.labelStyle.Render("Progress:"))
	b.WriteString(m.bar.ViewAs(float64(m.percent) / 100))
	b.WriteString("\n\n")

	if m.status != "" {
		b.WriteString(m.progressStyle.Render(m.status))
		b.WriteString("\n\n")
	}

	var help string
	if m.state == stateRunning {
		help = "Esc: cancel | ctrl+c: quit"
	} else {
		help = "Tab/↑↓: move | ←→: change user | ctrl+r: run | ctrl+a: add user | ctrl+d: remove user | ctrl+s: set default | F1: help | ctrl+c: quit"
	}
	b.WriteString(m.helpStyle.Render(help))
	b.WriteString("\n")

	version := fmt.Sprintf("Version %s", m.version)
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Right, m.helpStyle.Render(version)))

	return b.String()
}

func (m model) renderField(f field) string {
	focused := m.focus == f && m.state == stateForm

	label := m.labelStyle.Render(fieldLabels[f])
	if focused {
		label = m.labelStyle.Inherit(m.focusedStyle).Render(fieldLabels[f])
	}

	var value string
	switch f {
	case fieldUser:
		value = m.renderUsers(focused)
	case fieldPlaySound:
		box := "[ ]"
		if m.dir.Preferences().PlayCompleteSoundOnSuccess {
			box = "[x]"
		}
		style := m.normalStyle
		if focused {
			style = m.focusedStyle
		}
		// the checkbox label reads as its own field
		return style.Render(box + " " + fieldLabels[f])
	case fieldSound:
		if focused {
			value = m.inputs[f].View()
		} else if path := m.inputs[f].Value(); path != "" {
			value = m.normalStyle.Render(filepath.Base(path))
		} else {
			value = m.helpStyle.Render("(none)")
		}
	default:
		value = m.inputs[f].View()
	}

	return label + value
}

func (m model) renderUsers(focused bool) string {
	selected := m.dir.Selected()
	name := selected
	if name == "" {
		name = "(no user)"
	}
	if selected != "" && selected == m.dir.Default() {
		name += " (default)"
	}

	if !focused {
		return m.normalStyle.Render(name)
	}
	return m.focusedStyle.Render("◀ " + name + " ▶")
}

func (m model) viewNotice() string {
	var b strings.Builder
	b.WriteString(m.titleStyle.Render(m.notice.Title))
	b.WriteString("\n\n")
	b.WriteString(m.notice.Message)
	b.WriteString("\n\n")

	var style lipgloss.Style
	switch m.notice.Kind {
	case notify.KindSuccess:
		style = m.successStyle
		b.WriteString(m.helpStyle.Render("Press any key to close"))
	case notify.KindInfo:
		style = m.infoStyle
		b.WriteString(m.helpStyle.Render("Enter: OK"))
	default:
		style = m.errorStyle
		b.WriteString(m.helpStyle.Render("Enter: OK"))
	}

	return style.Render(b.String())
}

func (m model) viewHelp() string {
	var b strings.Builder
	b.WriteString(m.titleStyle.Render("Help"))
	b.WriteString("\n\n")
	b.WriteString(helpText)
	b.WriteString("\n\n")
	b.WriteString(m.helpStyle.Render("Press any key to return"))
	return m.infoStyle.Render(b.String())
}
