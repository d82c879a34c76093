package app

type Mode int

const (
	ModeNormal Mode = iota
	ModeAddTask
	ModeEditTask
	ModeFind
	ModeMove
	ModeDueDate
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeAddTask:
		return "add"
	case ModeEditTask:
		return "edit"
	case ModeFind:
		return "find"
	case ModeMove:
		return "move"
	case ModeDueDate:
		return "due date"
	default:
		return "unknown"
	}
}

// editing reports whether the editor owns input in m.
func (m Mode) editing() bool {
	return m == ModeAddTask || m == ModeEditTask
}

// Outcome tells the shell what to do after a tick.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeQuit
	// OutcomeEditDescription asks the shell to open the editor's description
	// in an external editor and hand the result to SetDescription.
	OutcomeEditDescription
)
