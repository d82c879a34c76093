package app

import (
	"time"

	textcursor "github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tood/internal/bus"
	"tood/internal/config"
	"tood/internal/notify"
	"tood/internal/task"
)

// editor holds the pending task while adding or editing. Only the name is
// typed here; the description comes from an external editor and the due
// date from the picker.
type editor struct {
	name        textinput.Model
	description string
	recurring   bool
	due         *time.Time
}

func newEditor() editor {
	ti := textinput.New()
	ti.Placeholder = "Todo name"
	ti.Prompt = ""
	ti.CharLimit = 256
	ti.Width = 40
	// The controller runs outside the bubbletea command loop, so the
	// cursor cannot blink.
	ti.Cursor.SetMode(textcursor.CursorStatic)
	return editor{name: ti}
}

func (e *editor) reset() {
	e.name.SetValue("")
	e.name.Blur()
	e.description = ""
	e.recurring = false
	e.due = nil
}

func (e *editor) load(t task.Task) {
	e.reset()
	e.name.SetValue(t.Name)
	e.name.CursorEnd()
	e.description = t.Description
	e.recurring = t.Recurring
	if t.Due != nil {
		due := *t.Due
		e.due = &due
	}
}

func (e *editor) focus() {
	// A static cursor returns no blink command.
	_ = e.name.Focus()
}

// task builds a task from the pending fields. Timestamps and completion are
// left to the caller.
func (e editor) task() task.Task {
	t := task.Task{
		Name:        e.name.Value(),
		Description: e.description,
		Recurring:   e.recurring,
	}
	if e.due != nil {
		due := *e.due
		t.Due = &due
	}
	return t
}

func (e *editor) handle(ev tea.KeyMsg, keys config.Bindings, out bus.Sender[Intent]) error {
	switch {
	case key.Matches(ev, keys.Submit):
		return out.Send(SubmitTask{})
	case key.Matches(ev, keys.Back):
		return out.Send(EnterMode{ModeNormal})
	case key.Matches(ev, keys.MarkRecurring):
		e.recurring = !e.recurring
		if e.recurring {
			return out.Send(ShowFlash{notify.Info(msgRecurringOn)})
		}
		return out.Send(ShowFlash{notify.Info(msgRecurringOff)})
	case key.Matches(ev, keys.OpenCalendar):
		return out.Send(EnterMode{ModeDueDate})
	case key.Matches(ev, keys.ClearDueDate):
		e.due = nil
	case key.Matches(ev, keys.EditDescription):
		return out.Send(EditDescription{})
	default:
		e.name, _ = e.name.Update(ev) // static cursor: no command
	}
	return nil
}
