package ui

import (
	"os"
	"os/exec"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"tood/internal/notify"
)

type editorFinishedMsg struct {
	path string
	err  error
}

// editorLauncher builds the command that edits the file at path.
type editorLauncher func(path string) *exec.Cmd

func defaultEditor(path string) *exec.Cmd {
	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		editor = "vi"
	}
	args := strings.Fields(editor)
	return exec.Command(args[0], append(args[1:], path)...)
}

// openEditor writes the pending description to a temp file and suspends
// the program while the user edits it.
func (m Model) openEditor() tea.Cmd {
	tmp, err := os.CreateTemp("", "tood-*.md")
	if err != nil {
		m.log.Error("create description file", "err", err)
		m.ctrl.Notify(notify.Error("Could not open editor"))
		return nil
	}
	path := tmp.Name()
	if _, err := tmp.WriteString(m.ctrl.Editor().Description); err != nil {
		tmp.Close()
		os.Remove(path)
		m.log.Error("write description file", "err", err)
		m.ctrl.Notify(notify.Error("Could not open editor"))
		return nil
	}
	tmp.Close()

	return tea.ExecProcess(m.editor(path), func(err error) tea.Msg {
		return editorFinishedMsg{path: path, err: err}
	})
}

func (m Model) finishEditor(msg editorFinishedMsg) {
	defer os.Remove(msg.path)
	if msg.err != nil {
		m.log.Error("external editor", "err", msg.err)
		m.ctrl.Notify(notify.Error("Editor exited with an error"))
		return
	}
	data, err := os.ReadFile(msg.path)
	if err != nil {
		m.log.Error("read description file", "err", err)
		m.ctrl.Notify(notify.Error("Could not read description"))
		return
	}
	m.ctrl.SetDescription(strings.TrimRight(string(data), "\n"))
}
