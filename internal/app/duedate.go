package app

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"tood/internal/bus"
	"tood/internal/config"
	"tood/internal/picker"
)

// dueDate drives the picker. The alternate up/down keys switch between the
// calendar and the clock; the alternate left/right keys page months.
type dueDate struct {
	picker picker.Picker
}

func (d *dueDate) handle(ev tea.KeyMsg, keys config.Bindings, out bus.Sender[Intent]) error {
	switch {
	case key.Matches(ev, keys.Submit):
		return out.Send(SetDueDate{Due: d.picker.Time()})
	case key.Matches(ev, keys.Back):
		return out.Send(CancelDueDate{})
	case key.Matches(ev, keys.AltMoveUp, keys.AltMoveDown):
		d.picker.SwitchPane()
	case key.Matches(ev, keys.AltMoveLeft):
		d.picker.Calendar.PrevMonth()
	case key.Matches(ev, keys.AltMoveRight):
		d.picker.Calendar.NextMonth()
	case d.picker.Focus() == picker.PaneCalendar:
		d.moveDay(ev, keys)
	default:
		d.moveClock(ev, keys)
	}
	return nil
}

func (d *dueDate) moveDay(ev tea.KeyMsg, keys config.Bindings) {
	days := &d.picker.Calendar.Days
	switch {
	case key.Matches(ev, keys.MoveLeft):
		days.Left()
	case key.Matches(ev, keys.MoveRight):
		days.Right()
	case key.Matches(ev, keys.MoveUp):
		days.Up()
	case key.Matches(ev, keys.MoveDown):
		days.Down()
	}
}

func (d *dueDate) moveClock(ev tea.KeyMsg, keys config.Bindings) {
	clock := &d.picker.Clock
	switch {
	case key.Matches(ev, keys.MoveLeft, keys.MoveRight):
		clock.ToggleFocus()
	case key.Matches(ev, keys.MoveUp):
		clock.Next()
	case key.Matches(ev, keys.MoveDown):
		clock.Prev()
	}
}
