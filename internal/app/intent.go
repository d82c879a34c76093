package app

import (
	"time"

	"tood/internal/notify"
)

// Intent is a request placed on the bus by a component. The set is closed:
// only types in this package implement it.
type Intent interface {
	intent()
}

// EnterMode requests a transition. Transitions missing from the table are
// ignored.
type EnterMode struct{ Mode Mode }

// SubmitTask commits the editor as a new or replaced task.
type SubmitTask struct{}

type FindQuery struct{ Query string }

// FindSelect moves the task cursor to Index, a position in the task list.
type FindSelect struct{ Index int }

type SetDueDate struct{ Due time.Time }

type CancelDueDate struct{}

type ToggleCompleted struct{ Index int }

type RemoveTask struct{ Index int }

// SwapTasks exchanges two tasks and keeps the cursor on the moved one.
type SwapTasks struct{ From, To int }

type ShowFlash struct{ Flash notify.Flash }

type EditDescription struct{}

type Quit struct{}

func (EnterMode) intent()       {}
func (SubmitTask) intent()      {}
func (FindQuery) intent()       {}
func (FindSelect) intent()      {}
func (SetDueDate) intent()      {}
func (CancelDueDate) intent()   {}
func (ToggleCompleted) intent() {}
func (RemoveTask) intent()      {}
func (SwapTasks) intent()       {}
func (ShowFlash) intent()       {}
func (EditDescription) intent() {}
func (Quit) intent()            {}
