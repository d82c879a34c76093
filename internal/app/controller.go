// Package app is the control core: a mode state machine that routes key
// events to the active component and applies the intents components put on
// the bus, one per tick.
package app

import (
	"errors"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"tood/internal/bus"
	"tood/internal/config"
	"tood/internal/notify"
	"tood/internal/picker"
	"tood/internal/search"
	"tood/internal/task"
)

// Store persists the task list.
type Store interface {
	Load() ([]task.Task, error)
	Save([]task.Task) error
}

type Options struct {
	Keys          config.Bindings
	FlashInterval time.Duration
	Logger        *log.Logger
	Now           func() time.Time
}

type Controller struct {
	mode Mode
	// back is the editor mode to return to from the picker.
	back Mode

	tasks *task.List
	list  listView

	editor editor
	// editing is the position of the task being edited.
	editing int

	finder finder
	due    dueDate

	flash *notify.Timer
	bus   *bus.Bus[Intent]
	store Store
	keys  config.Bindings
	log   *log.Logger
	now   func() time.Time
}

// New loads the task list from store. A load failure is returned; there is
// nothing to show without it.
func New(store Store, opts Options) (*Controller, error) {
	items, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load todos: %w", err)
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Keys.Quit.Keys() == nil {
		opts.Keys = config.DefaultBindings()
	}
	tasks := task.NewList(items)
	return &Controller{
		mode:    ModeNormal,
		tasks:   tasks,
		list:    newListView(tasks.Len()),
		editor:  newEditor(),
		editing: -1,
		finder:  newFinder(),
		due:     dueDate{picker: picker.New(opts.Now())},
		flash:   notify.NewTimer(opts.FlashInterval),
		bus:     bus.New[Intent](),
		store:   store,
		keys:    opts.Keys,
		log:     opts.Logger,
		now:     opts.Now,
	}, nil
}

// Sender exposes the bus to producers outside the controller.
func (c *Controller) Sender() bus.Sender[Intent] {
	return c.bus
}

// Pending is the number of intents waiting on the bus.
func (c *Controller) Pending() int {
	return c.bus.Len()
}

// Close shuts the bus. Later sends fail with bus.ErrClosed.
func (c *Controller) Close() {
	c.bus.Close()
	c.flash.Clear()
}

// Tick runs one loop iteration: route ev (nil on a poll tick) to the
// component that owns the current mode, expire the flash if its timer
// fired, then apply at most one pending intent.
func (c *Controller) Tick(ev *tea.KeyMsg) (Outcome, error) {
	if ev != nil {
		if err := c.route(*ev); err != nil {
			return OutcomeNone, fmt.Errorf("send intent: %w", err)
		}
	}
	c.flash.Poll()
	in, ok := c.bus.TryRecv()
	if !ok {
		return OutcomeNone, nil
	}
	return c.apply(in), nil
}

func (c *Controller) route(ev tea.KeyMsg) error {
	switch c.mode {
	case ModeNormal, ModeMove:
		return c.list.handle(ev, c.keys, c.bus)
	case ModeAddTask, ModeEditTask:
		return c.editor.handle(ev, c.keys, c.bus)
	case ModeFind:
		return c.finder.handle(ev, c.keys, c.bus)
	case ModeDueDate:
		return c.due.handle(ev, c.keys, c.bus)
	}
	return nil
}

func (c *Controller) apply(in Intent) Outcome {
	switch in := in.(type) {
	case EnterMode:
		c.transition(in.Mode)
	case SubmitTask:
		if c.mode.editing() {
			c.submit()
			return OutcomeNone
		}
		c.ignore(in)
	case FindQuery:
		if c.mode == ModeFind {
			c.finder.results.Update(in.Query, c.candidates())
			return OutcomeNone
		}
		c.ignore(in)
	case FindSelect:
		if c.mode != ModeFind {
			c.ignore(in)
			return OutcomeNone
		}
		if err := c.list.cursor.Select(in.Index); err != nil {
			c.flash.Set(notify.Error(msgNoSelection))
		}
		c.finder.reset()
		c.setMode(ModeNormal)
	case SetDueDate:
		if c.mode != ModeDueDate {
			c.ignore(in)
			return OutcomeNone
		}
		due := in.Due
		c.editor.due = &due
		c.setMode(c.back)
	case CancelDueDate:
		if c.mode != ModeDueDate {
			c.ignore(in)
			return OutcomeNone
		}
		c.setMode(c.back)
	case ToggleCompleted:
		if c.mode == ModeNormal {
			c.toggle(in.Index)
			return OutcomeNone
		}
		c.ignore(in)
	case RemoveTask:
		if c.mode == ModeNormal {
			c.remove(in.Index)
			return OutcomeNone
		}
		c.ignore(in)
	case SwapTasks:
		if c.mode == ModeMove {
			c.swap(in.From, in.To)
			return OutcomeNone
		}
		c.ignore(in)
	case ShowFlash:
		c.flash.Set(in.Flash)
	case EditDescription:
		if c.mode.editing() {
			return OutcomeEditDescription
		}
		c.ignore(in)
	case Quit:
		return OutcomeQuit
	}
	return OutcomeNone
}

func (c *Controller) ignore(in Intent) {
	c.log.Debug("ignored intent", "intent", fmt.Sprintf("%T", in), "mode", c.mode)
}

// transition applies an EnterMode request following the transition table.
// Pairs not in the table are logged and dropped.
func (c *Controller) transition(to Mode) {
	from := c.mode
	switch {
	case from == ModeNormal && to == ModeAddTask:
		c.editor.reset()
		c.editor.focus()
		c.editing = -1
	case from == ModeNormal && to == ModeEditTask:
		i, ok := c.list.cursor.Selected()
		if !ok {
			c.flash.Set(notify.Error(msgNoSelection))
			return
		}
		t, _ := c.tasks.At(i)
		c.editor.load(t)
		c.editor.focus()
		c.editing = i
	case from == ModeNormal && to == ModeFind:
		c.finder.start(c.candidates())
	case from == ModeNormal && to == ModeMove:
		c.list.moving = true
	case from.editing() && to == ModeDueDate:
		start := c.now()
		if c.editor.due != nil {
			start = *c.editor.due
		}
		if err := c.due.picker.Set(start); err != nil {
			c.log.Warn("picker reset", "err", err)
			c.flash.Set(notify.Warn(msgBadDate))
			c.due.picker = picker.New(c.now())
		}
		c.back = from
	case from.editing() && to == ModeNormal:
		c.editor.reset()
		c.editing = -1
	case from == ModeFind && to == ModeNormal:
		c.finder.reset()
	case from == ModeMove && to == ModeNormal:
		c.list.moving = false
	case from == ModeDueDate && to == c.back:
	default:
		c.log.Debug("ignored transition", "from", from, "to", to)
		return
	}
	c.setMode(to)
}

func (c *Controller) setMode(to Mode) {
	c.log.Debug("mode", "from", c.mode, "to", to)
	c.mode = to
}

func (c *Controller) submit() {
	now := c.now()
	t := c.editor.task()
	if c.mode == ModeEditTask {
		old, ok := c.tasks.At(c.editing)
		if !ok {
			c.flash.Set(notify.Error(msgNoSelection))
			c.transition(ModeNormal)
			return
		}
		t.CreatedAt = old.CreatedAt
		t.Completed = old.Completed
		t.EditedAt = &now
		_ = c.tasks.Replace(c.editing, t)
		_ = c.list.cursor.Select(c.editing)
		c.flash.Set(notify.Info(msgEdited))
	} else {
		t.CreatedAt = now
		i := c.tasks.Add(t)
		c.list.cursor.UpdateBoundary(c.tasks.Len())
		_ = c.list.cursor.Select(i)
		c.flash.Set(notify.Info(msgAdded))
	}
	c.save()
	c.editor.reset()
	c.editing = -1
	c.setMode(ModeNormal)
}

func (c *Controller) toggle(i int) {
	done, err := c.tasks.ToggleCompleted(i)
	if err != nil {
		if errors.Is(err, task.ErrRecurring) {
			c.flash.Set(notify.Warn(msgRecurring))
		} else {
			c.flash.Set(notify.Error(msgNoSelection))
		}
		return
	}
	if done {
		c.flash.Set(notify.Info(msgCompleted))
	} else {
		c.flash.Set(notify.Info(msgNotCompleted))
	}
	c.save()
}

func (c *Controller) remove(i int) {
	if _, err := c.tasks.Remove(i); err != nil {
		c.flash.Set(notify.Error(msgNoSelection))
		return
	}
	c.list.cursor.UpdateBoundary(c.tasks.Len())
	c.flash.Set(notify.Warn(msgRemoved))
	c.save()
}

func (c *Controller) swap(from, to int) {
	if err := c.tasks.Swap(from, to); err != nil {
		return
	}
	_ = c.list.cursor.Select(to)
	c.save()
}

// save writes the list. A failure leaves the in-memory list authoritative;
// the next successful save catches up.
func (c *Controller) save() {
	if err := c.store.Save(c.tasks.All()); err != nil {
		c.log.Error("save todos", "err", err)
		c.flash.Set(notify.Error(msgSaveFailed))
		return
	}
	c.log.Debug("saved todos", "count", c.tasks.Len())
}

func (c *Controller) candidates() []search.Candidate {
	names := c.tasks.Names()
	cands := make([]search.Candidate, len(names))
	for i, n := range names {
		cands[i] = search.Candidate{Index: i, Text: n}
	}
	return cands
}

// SetDescription stores text from the external editor in the pending task.
func (c *Controller) SetDescription(text string) {
	if !c.mode.editing() {
		return
	}
	c.editor.description = text
}

// Notify shows f. Used by the shell for failures outside the core, such
// as an external editor that could not be started.
func (c *Controller) Notify(f notify.Flash) {
	c.flash.Set(f)
}
