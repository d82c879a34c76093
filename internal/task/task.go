// Package task defines a task and the ordered list the controller owns.
// Tasks have no ID: a task is identified by its position in the list.
package task

import (
	"errors"
	"time"
)

var (
	ErrRecurring = errors.New("task: recurring tasks cannot be completed")
	ErrIndex     = errors.New("task: index out of range")
)

type Task struct {
	Name        string
	Description string
	Completed   bool
	Recurring   bool
	CreatedAt   time.Time
	EditedAt    *time.Time
	Due         *time.Time
}

type List struct {
	items []Task
}

func NewList(items []Task) *List {
	return &List{items: append([]Task(nil), items...)}
}

func (l *List) Len() int {
	return len(l.items)
}

func (l *List) At(i int) (Task, bool) {
	if i < 0 || i >= len(l.items) {
		return Task{}, false
	}
	return l.items[i], true
}

// All returns a copy of the tasks in order.
func (l *List) All() []Task {
	return append([]Task(nil), l.items...)
}

func (l *List) Names() []string {
	names := make([]string, len(l.items))
	for i, t := range l.items {
		names[i] = t.Name
	}
	return names
}

func (l *List) Add(t Task) int {
	if t.Recurring {
		t.Completed = false
	}
	l.items = append(l.items, t)
	return len(l.items) - 1
}

func (l *List) Replace(i int, t Task) error {
	if i < 0 || i >= len(l.items) {
		return ErrIndex
	}
	if t.Recurring {
		t.Completed = false
	}
	l.items[i] = t
	return nil
}

func (l *List) Remove(i int) (Task, error) {
	if i < 0 || i >= len(l.items) {
		return Task{}, ErrIndex
	}
	t := l.items[i]
	l.items = append(l.items[:i], l.items[i+1:]...)
	return t, nil
}

func (l *List) Swap(i, j int) error {
	if i < 0 || i >= len(l.items) || j < 0 || j >= len(l.items) {
		return ErrIndex
	}
	l.items[i], l.items[j] = l.items[j], l.items[i]
	return nil
}

// ToggleCompleted flips the completion flag and returns the new value.
// Recurring tasks are refused with ErrRecurring and left untouched.
func (l *List) ToggleCompleted(i int) (bool, error) {
	if i < 0 || i >= len(l.items) {
		return false, ErrIndex
	}
	if l.items[i].Recurring {
		return l.items[i].Completed, ErrRecurring
	}
	l.items[i].Completed = !l.items[i].Completed
	return l.items[i].Completed, nil
}
