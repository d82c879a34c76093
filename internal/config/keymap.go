package config

import "github.com/charmbracelet/bubbles/key"

// Keymap lists the keys bound to each logical action, as written in the
// config file. Keys use bubbletea's names ("enter", "ctrl+r", " ").
type Keymap struct {
	MoveUp          []string `toml:"move_up"`
	MoveDown        []string `toml:"move_down"`
	MoveLeft        []string `toml:"move_left"`
	MoveRight       []string `toml:"move_right"`
	AltMoveUp       []string `toml:"alt_move_up"`
	AltMoveDown     []string `toml:"alt_move_down"`
	AltMoveLeft     []string `toml:"alt_move_left"`
	AltMoveRight    []string `toml:"alt_move_right"`
	ToggleCompleted []string `toml:"toggle_completed"`
	AddTodo         []string `toml:"add_todo"`
	EditTodo        []string `toml:"edit_todo"`
	RemoveTodo      []string `toml:"remove_todo"`
	EditDescription []string `toml:"edit_description"`
	MarkRecurring   []string `toml:"mark_recurring"`
	OpenCalendar    []string `toml:"open_calendar"`
	ClearDueDate    []string `toml:"clear_due_date"`
	Submit          []string `toml:"submit"`
	FindMode        []string `toml:"find_mode"`
	MoveMode        []string `toml:"move_mode"`
	Back            []string `toml:"back"`
	Quit            []string `toml:"quit"`
}

func defaultKeymap() Keymap {
	return Keymap{
		MoveUp:          []string{"k", "up"},
		MoveDown:        []string{"j", "down"},
		MoveLeft:        []string{"h", "left"},
		MoveRight:       []string{"l", "right"},
		AltMoveUp:       []string{"shift+tab"},
		AltMoveDown:     []string{"tab"},
		AltMoveLeft:     []string{"H"},
		AltMoveRight:    []string{"L"},
		ToggleCompleted: []string{" "},
		AddTodo:         []string{"a"},
		EditTodo:        []string{"e"},
		RemoveTodo:      []string{"d"},
		EditDescription: []string{"ctrl+e"},
		MarkRecurring:   []string{"ctrl+r"},
		OpenCalendar:    []string{"ctrl+d"},
		ClearDueDate:    []string{"ctrl+x"},
		Submit:          []string{"enter"},
		FindMode:        []string{"f", "/"},
		MoveMode:        []string{"m"},
		Back:            []string{"esc"},
		Quit:            []string{"q", "ctrl+c"},
	}
}

// DefaultBindings is the default keymap compiled to bindings.
func DefaultBindings() Bindings {
	return defaultKeymap().Bindings()
}

func (k Keymap) withDefaults(d Keymap) Keymap {
	pick := func(v, def []string) []string {
		if len(v) == 0 {
			return def
		}
		return v
	}
	return Keymap{
		MoveUp:          pick(k.MoveUp, d.MoveUp),
		MoveDown:        pick(k.MoveDown, d.MoveDown),
		MoveLeft:        pick(k.MoveLeft, d.MoveLeft),
		MoveRight:       pick(k.MoveRight, d.MoveRight),
		AltMoveUp:       pick(k.AltMoveUp, d.AltMoveUp),
		AltMoveDown:     pick(k.AltMoveDown, d.AltMoveDown),
		AltMoveLeft:     pick(k.AltMoveLeft, d.AltMoveLeft),
		AltMoveRight:    pick(k.AltMoveRight, d.AltMoveRight),
		ToggleCompleted: pick(k.ToggleCompleted, d.ToggleCompleted),
		AddTodo:         pick(k.AddTodo, d.AddTodo),
		EditTodo:        pick(k.EditTodo, d.EditTodo),
		RemoveTodo:      pick(k.RemoveTodo, d.RemoveTodo),
		EditDescription: pick(k.EditDescription, d.EditDescription),
		MarkRecurring:   pick(k.MarkRecurring, d.MarkRecurring),
		OpenCalendar:    pick(k.OpenCalendar, d.OpenCalendar),
		ClearDueDate:    pick(k.ClearDueDate, d.ClearDueDate),
		Submit:          pick(k.Submit, d.Submit),
		FindMode:        pick(k.FindMode, d.FindMode),
		MoveMode:        pick(k.MoveMode, d.MoveMode),
		Back:            pick(k.Back, d.Back),
		Quit:            pick(k.Quit, d.Quit),
	}
}

// Bindings are the compiled key bindings. Components only ask whether a
// key event matches one of them.
type Bindings struct {
	MoveUp          key.Binding
	MoveDown        key.Binding
	MoveLeft        key.Binding
	MoveRight       key.Binding
	AltMoveUp       key.Binding
	AltMoveDown     key.Binding
	AltMoveLeft     key.Binding
	AltMoveRight    key.Binding
	ToggleCompleted key.Binding
	AddTodo         key.Binding
	EditTodo        key.Binding
	RemoveTodo      key.Binding
	EditDescription key.Binding
	MarkRecurring   key.Binding
	OpenCalendar    key.Binding
	ClearDueDate    key.Binding
	Submit          key.Binding
	FindMode        key.Binding
	MoveMode        key.Binding
	Back            key.Binding
	Quit            key.Binding
}

func (k Keymap) Bindings() Bindings {
	b := func(keys []string, desc string) key.Binding {
		return key.NewBinding(key.WithKeys(keys...), key.WithHelp(label(keys), desc))
	}
	return Bindings{
		MoveUp:          b(k.MoveUp, "up"),
		MoveDown:        b(k.MoveDown, "down"),
		MoveLeft:        b(k.MoveLeft, "left"),
		MoveRight:       b(k.MoveRight, "right"),
		AltMoveUp:       b(k.AltMoveUp, "prev"),
		AltMoveDown:     b(k.AltMoveDown, "next"),
		AltMoveLeft:     b(k.AltMoveLeft, "prev month"),
		AltMoveRight:    b(k.AltMoveRight, "next month"),
		ToggleCompleted: b(k.ToggleCompleted, "toggle done"),
		AddTodo:         b(k.AddTodo, "add"),
		EditTodo:        b(k.EditTodo, "edit"),
		RemoveTodo:      b(k.RemoveTodo, "remove"),
		EditDescription: b(k.EditDescription, "description"),
		MarkRecurring:   b(k.MarkRecurring, "recurring"),
		OpenCalendar:    b(k.OpenCalendar, "due date"),
		ClearDueDate:    b(k.ClearDueDate, "clear due"),
		Submit:          b(k.Submit, "submit"),
		FindMode:        b(k.FindMode, "find"),
		MoveMode:        b(k.MoveMode, "move"),
		Back:            b(k.Back, "back"),
		Quit:            b(k.Quit, "quit"),
	}
}

// label is the help text for the first key of a binding.
func label(keys []string) string {
	if len(keys) == 0 {
		return ""
	}
	switch keys[0] {
	case " ":
		return "space"
	case "enter":
		return "⏎"
	case "esc":
		return "⎋"
	case "tab":
		return "⇥"
	case "shift+tab":
		return "⇤"
	}
	return keys[0]
}
