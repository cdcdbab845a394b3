package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"otterWizard/internal/importer"
	"otterWizard/internal/logger"
	"otterWizard/internal/notify"
	"otterWizard/internal/users"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// UI States
type state int

const (
	stateForm state = iota
	stateRunning
	stateNotice
	statePrompt
	stateHelp
)

// Form fields in tab order
type field int

const (
	fieldStation field = iota
	fieldTemplate
	fieldOutput
	fieldUser
	fieldSound
	fieldPlaySound
	fieldCount
)

type promptKind int

const (
	promptAddUser promptKind = iota
	promptRemoveUser
)

// Runner executes one import job.
type Runner interface {
	Run(ctx context.Context, job importer.Job, progress importer.ProgressFunc) error
}

// Deps are the collaborators the form drives.
type Deps struct {
	Directory *users.Directory
	Runner    Runner
	Notifier  *notify.Notifier
	Version   string
	// StartupNotice is shown before the form, e.g. for a corrupt preferences file.
	StartupNotice *notify.Notice
}

// Messages
type progressMsg int

type jobDoneMsg struct {
	job importer.Job
	err error
}

type soundDoneMsg struct {
	notice *notify.Notice
}

type dismissMsg struct {
	seq int
}

type model struct {
	dir      *users.Directory
	runner   Runner
	notifier *notify.Notifier
	version  string

	state  state
	focus  field
	inputs [fieldCount]textinput.Model

	// Running job
	percent int
	cancel  context.CancelFunc
	events  <-chan tea.Msg

	// Modal notice; noticeSeq invalidates stale auto-dismiss ticks
	notice      notify.Notice
	noticeSeq   int
	queued      []notify.Notice
	returnState state

	prompt      promptKind
	promptInput textinput.Model

	status string
	width  int
	bar    progress.Model

	// Styling
	titleStyle    lipgloss.Style
	labelStyle    lipgloss.Style
	focusedStyle  lipgloss.Style
	normalStyle   lipgloss.Style
	helpStyle     lipgloss.Style
	progressStyle lipgloss.Style
	successStyle  lipgloss.Style
	errorStyle    lipgloss.Style
	infoStyle     lipgloss.Style
}

func newTextInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 1024
	ti.Width = 50
	ti.Prompt = ""
	return ti
}

func initialModel(deps Deps) model {
	m := model{
		dir:      deps.Directory,
		runner:   deps.Runner,
		notifier: deps.Notifier,
		version:  deps.Version,
		state:    stateForm,
		focus:    fieldStation,
		width:    80,
		bar: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(60),
		),

		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")),
		labelStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Width(28),
		focusedStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")),
		normalStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),
		helpStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		progressStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true),
		successStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("40")).
			Padding(1, 2),
		errorStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("196")).
			Padding(1, 2),
		infoStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("33")).
			Padding(1, 2),
	}

	m.inputs[fieldStation] = newTextInput("path to station import .csv")
	m.inputs[fieldTemplate] = newTextInput("path to glossary template .xlsx")
	m.inputs[fieldOutput] = newTextInput("path of the output .xlsx")
	m.inputs[fieldSound] = newTextInput("path to an .mp3 or .wav file")
	m.inputs[fieldSound].SetValue(m.dir.Preferences().CompleteSoundPath)
	m.inputs[fieldStation].Focus()

	m.promptInput = newTextInput("user name")
	m.promptInput.Width = 30

	if deps.StartupNotice != nil {
		m.showNotice(*deps.StartupNotice, stateForm)
	}
	return m
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		barWidth := msg.Width - 20
		if barWidth < 20 {
			barWidth = 20
		}
		if barWidth > 80 {
			barWidth = 80
		}
		m.bar.Width = barWidth
		return m, nil

	case progressMsg:
		m.percent = int(msg)
		return m, waitForEvent(m.events)

	case jobDoneMsg:
		return m.finishJob(msg)

	case soundDoneMsg:
		if msg.notice != nil {
			m.enqueueNotice(*msg.notice)
		}
		return m, nil

	case dismissMsg:
		if m.state == stateNotice && msg.seq == m.noticeSeq {
			return m.dismissNotice()
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}

		switch m.state {
		case stateForm:
			return m.updateForm(msg)
		case stateRunning:
			return m.updateRunning(msg)
		case stateNotice:
			return m.updateNotice(msg)
		case statePrompt:
			return m.updatePrompt(msg)
		case stateHelp:
			m.state = stateForm
			return m, nil
		}
	}

	if m.state == stateForm {
		return m.updateFocusedInput(msg)
	}
	return m, nil
}

func (m model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""

	switch msg.String() {
	case "tab", "down":
		return m.moveFocus(1)
	case "shift+tab", "up":
		return m.moveFocus(-1)
	case "enter":
		if m.focus == fieldPlaySound {
			return m.togglePlaySound()
		}
		return m.moveFocus(1)
	case "ctrl+r":
		return m.startRun()
	case "ctrl+a":
		return m.openPrompt(promptAddUser)
	case "ctrl+d":
		return m.openPrompt(promptRemoveUser)
	case "ctrl+s":
		return m.setDefaultUser()
	case "f1":
		m.state = stateHelp
		return m, nil
	}

	switch m.focus {
	case fieldUser:
		switch msg.String() {
		case "left", "h":
			m.cycleUser(-1)
		case "right", "l":
			m.cycleUser(1)
		}
		return m, nil
	case fieldPlaySound:
		if msg.String() == " " {
			return m.togglePlaySound()
		}
		return m, nil
	}

	return m.updateFocusedInput(msg)
}

func (m model) updateFocusedInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.focus == fieldUser || m.focus == fieldPlaySound {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m model) moveFocus(delta int) (tea.Model, tea.Cmd) {
	if m.focus == fieldSound {
		m.commitSoundPath()
	}

	m.inputs[m.focus].Blur()
	m.focus = field((int(m.focus) + delta + int(fieldCount)) % int(fieldCount))

	if m.focus == fieldUser || m.focus == fieldPlaySound {
		return m, nil
	}
	cmd := m.inputs[m.focus].Focus()
	return m, cmd
}

func (m *model) commitSoundPath() {
	path := strings.TrimSpace(m.inputs[fieldSound].Value())
	if path == m.dir.Preferences().CompleteSoundPath {
		return
	}
	if err := m.dir.SetSound(path); err != nil {
		m.enqueueNotice(notify.Notice{Kind: notify.KindError, Title: "Error", Message: fmt.Sprintf("Failed to save preferences: %v", err)})
		return
	}
	if path != "" {
		m.status = fmt.Sprintf("Complete sound set to %s", filepath.Base(path))
	}
}

func (m model) togglePlaySound() (tea.Model, tea.Cmd) {
	enabled := !m.dir.Preferences().PlayCompleteSoundOnSuccess
	if err := m.dir.SetPlaySound(enabled); err != nil {
		m.enqueueNotice(notify.Notice{Kind: notify.KindError, Title: "Error", Message: fmt.Sprintf("Failed to save preferences: %v", err)})
	}
	return m, nil
}

func (m *model) cycleUser(delta int) {
	list := m.dir.Users()
	if len(list) == 0 {
		return
	}
	idx := slices.Index(list, m.dir.Selected())
	if idx < 0 {
		idx = 0
	} else {
		idx = (idx + delta + len(list)) % len(list)
	}
	m.dir.Select(list[idx])
}

func (m model) setDefaultUser() (tea.Model, tea.Cmd) {
	if err := m.dir.SetDefault(); err != nil {
		m.enqueueNotice(notify.Notice{Kind: notify.KindError, Title: "Error", Message: err.Error()})
		return m, nil
	}
	m.status = fmt.Sprintf("Default user set to %s", m.dir.Default())
	return m, nil
}

func (m model) openPrompt(kind promptKind) (tea.Model, tea.Cmd) {
	m.inputs[m.focus].Blur()
	m.prompt = kind
	m.promptInput.SetValue("")
	m.state = statePrompt
	cmd := m.promptInput.Focus()
	return m, cmd
}

func (m model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m.closePrompt()
	case "enter":
		name := strings.TrimSpace(m.promptInput.Value())
		next, cmd := m.closePrompt()
		nm := next.(model)
		if m.prompt == promptAddUser {
			nm.addUser(name)
		} else {
			nm.removeUser(name)
		}
		return nm, cmd
	}

	var cmd tea.Cmd
	m.promptInput, cmd = m.promptInput.Update(msg)
	return m, cmd
}

func (m model) closePrompt() (tea.Model, tea.Cmd) {
	m.promptInput.Blur()
	m.state = stateForm
	if m.focus == fieldUser || m.focus == fieldPlaySound {
		return m, nil
	}
	cmd := m.inputs[m.focus].Focus()
	return m, cmd
}

func (m *model) addUser(name string) {
	added, err := m.dir.Add(name)
	if err != nil {
		m.enqueueNotice(notify.Notice{Kind: notify.KindError, Title: "Error", Message: fmt.Sprintf("Failed to save preferences: %v", err)})
		return
	}
	if added {
		m.status = fmt.Sprintf("User '%s' added", name)
	}
}

func (m *model) removeUser(name string) {
	err := m.dir.Remove(name)
	switch {
	case err == nil:
		m.status = fmt.Sprintf("User '%s' removed", name)
	case errors.Is(err, users.ErrDefaultUser):
		m.enqueueNotice(notify.Info("Cannot Remove", "Cannot remove default user."))
	case errors.Is(err, users.ErrNotFound):
		m.enqueueNotice(notify.Info("User Not Found", fmt.Sprintf("User '%s' not found.", name)))
	default:
		m.enqueueNotice(notify.Notice{Kind: notify.KindError, Title: "Error", Message: fmt.Sprintf("Failed to save preferences: %v", err)})
	}
}

func (m model) startRun() (tea.Model, tea.Cmd) {
	if m.cancel != nil {
		return m, nil
	}
	if m.focus == fieldSound {
		m.commitSoundPath()
		if m.state == stateNotice {
			return m, nil
		}
	}

	job := importer.NewJob(
		m.inputs[fieldStation].Value(),
		m.inputs[fieldTemplate].Value(),
		m.inputs[fieldOutput].Value(),
		m.dir.Selected(),
	)

	if err := job.Validate(); err != nil {
		m.enqueueNotice(m.notifier.Failure(job, err))
		return m, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan tea.Msg, 8)
	runner := m.runner
	go func() {
		defer close(events)
		err := runner.Run(ctx, job, func(p int) { events <- progressMsg(p) })
		events <- jobDoneMsg{job: job, err: err}
	}()

	m.inputs[m.focus].Blur()
	m.state = stateRunning
	m.percent = 0
	m.cancel = cancel
	m.events = events
	return m, waitForEvent(events)
}

func waitForEvent(events <-chan tea.Msg) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return nil
		}
		return msg
	}
}

func (m model) updateRunning(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" && m.cancel != nil {
		m.cancel()
		m.status = "Cancelling..."
	}
	return m, nil
}

func (m model) finishJob(msg jobDoneMsg) (tea.Model, tea.Cmd) {
	if m.cancel != nil {
		m.cancel()
	}
	m.cancel = nil
	m.events = nil
	m.state = stateForm

	// notices that arrived during the run come first
	var cmds []tea.Cmd
	if len(m.queued) > 0 {
		cmds = append(cmds, m.showNext())
	}

	switch {
	case errors.Is(msg.err, context.Canceled):
		logger.Warn("Import cancelled", "job", msg.job.ID, "user", msg.job.User)
		m.status = "Import cancelled"
		cmds = append(cmds, m.refocus())
	case msg.err != nil:
		cmds = append(cmds, m.enqueueNotice(m.notifier.Failure(msg.job, msg.err)))
	default:
		notice, playSound := m.notifier.Success(msg.job, m.dir.Preferences())
		cmds = append(cmds, m.enqueueNotice(notice))
		if playSound {
			cmds = append(cmds, m.playSound(m.dir.Preferences().CompleteSoundPath))
		}
	}
	return m, tea.Batch(cmds...)
}

func (m model) playSound(path string) tea.Cmd {
	notifier := m.notifier
	return func() tea.Msg {
		return soundDoneMsg{notice: notifier.PlaySound(context.Background(), path)}
	}
}

// enqueueNotice shows n now if the form is idle, otherwise after the
// current notice is dismissed or the running job finishes.
func (m *model) enqueueNotice(n notify.Notice) tea.Cmd {
	if m.state == stateNotice || m.state == stateRunning {
		m.queued = append(m.queued, n)
		return nil
	}
	return m.showNotice(n, m.state)
}

func (m *model) showNotice(n notify.Notice, back state) tea.Cmd {
	if back == stateNotice {
		back = stateForm
	}
	m.inputs[m.focus].Blur()
	m.notice = n
	m.noticeSeq++
	m.returnState = back
	m.state = stateNotice

	if n.Timeout > 0 {
		seq := m.noticeSeq
		return tea.Tick(n.Timeout, func(time.Time) tea.Msg { return dismissMsg{seq: seq} })
	}
	return nil
}

func (m model) updateNotice(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Errors and info need an explicit acknowledgement.
	if m.notice.Kind != notify.KindSuccess {
		switch msg.String() {
		case "enter", "esc", " ":
		default:
			return m, nil
		}
	}
	return m.dismissNotice()
}

func (m model) dismissNotice() (tea.Model, tea.Cmd) {
	m.state = m.returnState
	m.noticeSeq++

	if len(m.queued) > 0 {
		cmd := m.showNext()
		return m, cmd
	}
	cmd := m.refocus()
	return m, cmd
}

func (m *model) showNext() tea.Cmd {
	next := m.queued[0]
	m.queued = m.queued[1:]
	return m.showNotice(next, m.state)
}

func (m *model) refocus() tea.Cmd {
	if m.state != stateForm || m.focus == fieldUser || m.focus == fieldPlaySound {
		return nil
	}
	return m.inputs[m.focus].Focus()
}
