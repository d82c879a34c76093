package app

import (
	"time"

	"github.com/charmbracelet/bubbles/key"

	"tood/internal/config"
	"tood/internal/notify"
	"tood/internal/picker"
	"tood/internal/search"
	"tood/internal/task"
)

// Surface is a set of drawable components.
type Surface uint8

const (
	SurfaceList Surface = 1 << iota
	SurfaceEditor
	SurfaceFinder
	SurfacePicker
	// SurfaceDetail is the description and metadata of the selected task.
	SurfaceDetail
)

func (s Surface) Has(o Surface) bool { return s&o != 0 }

// Layout says what to draw for a mode. DimList renders the task list
// de-emphasised behind an overlay.
type Layout struct {
	Surfaces Surface
	DimList  bool
}

func LayoutFor(m Mode) Layout {
	switch m {
	case ModeAddTask, ModeEditTask:
		return Layout{Surfaces: SurfaceList | SurfaceEditor, DimList: true}
	case ModeFind:
		return Layout{Surfaces: SurfaceList | SurfaceFinder, DimList: true}
	case ModeDueDate:
		return Layout{Surfaces: SurfaceList | SurfaceEditor | SurfacePicker, DimList: true}
	default:
		return Layout{Surfaces: SurfaceList | SurfaceDetail}
	}
}

// HintsFor lists the bindings worth showing in the help bar for m.
func HintsFor(keys config.Bindings, m Mode) []key.Binding {
	switch m {
	case ModeAddTask, ModeEditTask:
		return []key.Binding{keys.Submit, keys.Back, keys.MarkRecurring, keys.OpenCalendar, keys.ClearDueDate, keys.EditDescription}
	case ModeFind:
		return []key.Binding{keys.Submit, keys.Back, keys.AltMoveDown, keys.AltMoveUp}
	case ModeMove:
		return []key.Binding{keys.MoveUp, keys.MoveDown, keys.Submit}
	case ModeDueDate:
		return []key.Binding{keys.Submit, keys.Back, keys.AltMoveDown, keys.AltMoveLeft, keys.AltMoveRight}
	default:
		return []key.Binding{keys.AddTodo, keys.EditTodo, keys.RemoveTodo, keys.ToggleCompleted, keys.FindMode, keys.MoveMode, keys.Quit}
	}
}

// EditorView is a read-only copy of the pending task.
type EditorView struct {
	Name        string
	NameView    string
	Description string
	Recurring   bool
	Due         *time.Time
}

// FinderView is the fuzzy session as drawn.
type FinderView struct {
	QueryView string
	Matches   []search.Match
	Selected  int
}

func (c *Controller) Mode() Mode { return c.mode }

func (c *Controller) Keys() config.Bindings { return c.keys }

func (c *Controller) Hints() []key.Binding { return HintsFor(c.keys, c.mode) }

func (c *Controller) Layout() Layout { return LayoutFor(c.mode) }

func (c *Controller) Tasks() []task.Task { return c.tasks.All() }

// Selected is the task list cursor, -1 when nothing is selected.
func (c *Controller) Selected() int { return c.list.cursor.Index() }

// Current is the selected task, if any.
func (c *Controller) Current() (task.Task, bool) {
	return c.tasks.At(c.list.cursor.Index())
}

func (c *Controller) Moving() bool { return c.list.moving }

func (c *Controller) Editor() EditorView {
	return EditorView{
		Name:        c.editor.name.Value(),
		NameView:    c.editor.name.View(),
		Description: c.editor.description,
		Recurring:   c.editor.recurring,
		Due:         c.editor.due,
	}
}

func (c *Controller) Finder() FinderView {
	return FinderView{
		QueryView: c.finder.query.View(),
		Matches:   c.finder.results.Matches,
		Selected:  c.finder.results.Cursor.Index(),
	}
}

func (c *Controller) Picker() picker.Picker { return c.due.picker }

func (c *Controller) Flash() (notify.Flash, bool) { return c.flash.Current() }
