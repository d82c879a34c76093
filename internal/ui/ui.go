package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"tood/internal/app"
	"tood/internal/config"
)

// pollMsg wakes the loop when no key arrives, so flash expiry and queued
// intents are processed.
type pollMsg time.Time

// drainMsg asks for one more tick while intents are still queued.
type drainMsg struct{}

type Model struct {
	ctrl *app.Controller
	cfg  config.Config
	log  *log.Logger

	help   help.Model
	width  int
	height int
	md     *markdown
	editor editorLauncher
	err    error
}

func New(ctrl *app.Controller, cfg config.Config, logger *log.Logger) Model {
	h := help.New()
	h.ShortSeparator = " • "
	return Model{
		ctrl:   ctrl,
		cfg:    cfg,
		log:    logger,
		help:   h,
		width:  80,
		md:     &markdown{},
		editor: defaultEditor,
	}
}

// Run drives the controller until the user quits. An error from the
// controller ends the program and is returned once the terminal has been
// restored.
func Run(ctrl *app.Controller, cfg config.Config, logger *log.Logger) error {
	program := tea.NewProgram(New(ctrl, cfg, logger), tea.WithAltScreen())
	final, err := program.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok && m.err != nil {
		return m.err
	}
	return nil
}

func (m Model) Init() tea.Cmd {
	return m.poll()
}

func (m Model) poll() tea.Cmd {
	return tea.Tick(m.cfg.PollInterval(), func(t time.Time) tea.Msg {
		return pollMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.step(&msg)
	case pollMsg:
		next, cmd := m.step(nil)
		if next.err != nil {
			return next, cmd
		}
		return next, tea.Batch(cmd, m.poll())
	case drainMsg:
		return m.step(nil)
	case editorFinishedMsg:
		m.finishEditor(msg)
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	}
	return m, nil
}

func (m Model) step(ev *tea.KeyMsg) (Model, tea.Cmd) {
	out, err := m.ctrl.Tick(ev)
	if err != nil {
		m.log.Error("tick", "err", err)
		m.err = err
		return m, tea.Quit
	}
	switch out {
	case app.OutcomeQuit:
		return m, tea.Quit
	case app.OutcomeEditDescription:
		return m, m.openEditor()
	}
	if m.ctrl.Pending() > 0 {
		return m, func() tea.Msg { return drainMsg{} }
	}
	return m, nil
}

// Err is the error that stopped the loop, if any.
func (m Model) Err() error {
	return m.err
}
