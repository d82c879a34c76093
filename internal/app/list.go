package app

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"tood/internal/bus"
	"tood/internal/config"
	"tood/internal/cursor"
	"tood/internal/notify"
)

const (
	msgNoSelection = "No todo selected"
	msgRecurring   = "Cannot mark recurring todos as completed"
	msgAdded       = "Added todo"
	msgEdited      = "Edited todo"
	msgRemoved     = "Removed todo"
	msgNoMatches   = "No matching todos"
	msgSaveFailed  = "Failed to save todos"

	msgCompleted    = "Marked todo completed"
	msgNotCompleted = "Marked todo not completed"
	msgRecurringOn  = "Marked todo recurring"
	msgRecurringOff = "Marked todo nonrecurring"
	msgBadDate      = "Could not show that date, starting from now"
)

// listView is the task list. In move mode up and down swap the selected
// task with its neighbour instead of moving the cursor.
type listView struct {
	cursor cursor.Cursor
	moving bool
}

func newListView(n int) listView {
	l := listView{cursor: cursor.New(n, cursor.Wrap)}
	l.cursor.First()
	return l
}

func (l *listView) handle(ev tea.KeyMsg, keys config.Bindings, out bus.Sender[Intent]) error {
	if l.moving {
		return l.handleMove(ev, keys, out)
	}
	sel, ok := l.cursor.Selected()
	switch {
	case key.Matches(ev, keys.MoveUp, keys.AltMoveUp):
		l.cursor.Prev()
	case key.Matches(ev, keys.MoveDown, keys.AltMoveDown):
		l.cursor.Next()
	case key.Matches(ev, keys.ToggleCompleted):
		if !ok {
			return out.Send(ShowFlash{notify.Error(msgNoSelection)})
		}
		return out.Send(ToggleCompleted{Index: sel})
	case key.Matches(ev, keys.RemoveTodo):
		if !ok {
			return out.Send(ShowFlash{notify.Error(msgNoSelection)})
		}
		return out.Send(RemoveTask{Index: sel})
	case key.Matches(ev, keys.AddTodo):
		return out.Send(EnterMode{ModeAddTask})
	case key.Matches(ev, keys.EditTodo):
		return out.Send(EnterMode{ModeEditTask})
	case key.Matches(ev, keys.FindMode):
		return out.Send(EnterMode{ModeFind})
	case key.Matches(ev, keys.MoveMode):
		if !ok {
			return out.Send(ShowFlash{notify.Error(msgNoSelection)})
		}
		return out.Send(EnterMode{ModeMove})
	case key.Matches(ev, keys.Quit):
		return out.Send(Quit{})
	}
	return nil
}

func (l *listView) handleMove(ev tea.KeyMsg, keys config.Bindings, out bus.Sender[Intent]) error {
	switch {
	case key.Matches(ev, keys.MoveUp, keys.AltMoveUp):
		if i, ok := l.cursor.Selected(); ok && i > 0 {
			return out.Send(SwapTasks{From: i, To: i - 1})
		}
	case key.Matches(ev, keys.MoveDown, keys.AltMoveDown):
		if i, ok := l.cursor.Selected(); ok && i < l.cursor.Bound()-1 {
			return out.Send(SwapTasks{From: i, To: i + 1})
		}
	case key.Matches(ev, keys.Submit, keys.Back, keys.MoveMode):
		return out.Send(EnterMode{ModeNormal})
	}
	return nil
}
