// Package picker is the due-date chooser: a month calendar and an
// hour/minute clock, both driven by bounded cursors.
package picker

import (
	"fmt"
	"time"

	"tood/internal/cursor"
)

// Calendar selects a day within one month. Days are a 7-column grid whose
// cells are the days of the month, 0-based.
type Calendar struct {
	year  int
	month time.Month
	loc   *time.Location
	Days  cursor.Grid
}

func NewCalendar(t time.Time) Calendar {
	c := Calendar{year: t.Year(), month: t.Month(), loc: t.Location()}
	c.Days = cursor.NewGrid(DaysIn(c.year, c.month), cursor.Week)
	_ = c.Days.Select(t.Day() - 1)
	return c
}

// DaysIn returns the number of days in the month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func (c *Calendar) SetDate(t time.Time) error {
	c.year, c.month, c.loc = t.Year(), t.Month(), t.Location()
	c.Days.UpdateBoundary(DaysIn(c.year, c.month))
	if err := c.Days.Select(t.Day() - 1); err != nil {
		return fmt.Errorf("set date %s: %w", t.Format("2006-01-02"), err)
	}
	return nil
}

func (c *Calendar) NextMonth() { c.shiftMonth(1) }
func (c *Calendar) PrevMonth() { c.shiftMonth(-1) }

func (c *Calendar) shiftMonth(delta int) {
	first := time.Date(c.year, c.month+time.Month(delta), 1, 0, 0, 0, 0, c.location())
	c.year, c.month = first.Year(), first.Month()
	c.Days.UpdateBoundary(DaysIn(c.year, c.month))
	if _, ok := c.Days.Selected(); !ok {
		c.Days.First()
	}
}

func (c Calendar) location() *time.Location {
	if c.loc == nil {
		return time.Local
	}
	return c.loc
}

// Month returns midnight on the first of the shown month.
func (c Calendar) Month() time.Time {
	return time.Date(c.year, c.month, 1, 0, 0, 0, 0, c.location())
}

// Day is the selected day of the month, 1-based.
func (c Calendar) Day() int {
	i, ok := c.Days.Selected()
	if !ok {
		return 1
	}
	return i + 1
}

// Offset is the weekday column of the first of the month, Sunday first.
func (c Calendar) Offset() int {
	return int(c.Month().Weekday())
}

type Field int

const (
	FieldHour Field = iota
	FieldMinute
)

// Clock picks a time of day. Hours wrap at 24 and minutes at 60; only the
// focused field moves.
type Clock struct {
	Hour   cursor.Cursor
	Minute cursor.Cursor
	focus  Field
}

func NewClock(hour, minute int) Clock {
	c := Clock{Hour: cursor.New(24, cursor.Wrap), Minute: cursor.New(60, cursor.Wrap)}
	if c.Hour.Select(hour) != nil {
		c.Hour.First()
	}
	if c.Minute.Select(minute) != nil {
		c.Minute.First()
	}
	return c
}

func (c *Clock) Set(hour, minute int) error {
	if err := c.Hour.Select(hour); err != nil {
		return fmt.Errorf("set hour %d: %w", hour, err)
	}
	if err := c.Minute.Select(minute); err != nil {
		return fmt.Errorf("set minute %d: %w", minute, err)
	}
	return nil
}

func (c *Clock) field() *cursor.Cursor {
	if c.focus == FieldMinute {
		return &c.Minute
	}
	return &c.Hour
}

func (c *Clock) Next() { c.field().Next() }
func (c *Clock) Prev() { c.field().Prev() }

func (c *Clock) ToggleFocus() {
	if c.focus == FieldHour {
		c.focus = FieldMinute
	} else {
		c.focus = FieldHour
	}
}

func (c Clock) Focus() Field { return c.focus }

func (c Clock) HourMinute() (int, int) {
	h, _ := c.Hour.Selected()
	m, _ := c.Minute.Selected()
	return h, m
}

type Pane int

const (
	PaneCalendar Pane = iota
	PaneClock
)

// Picker combines the calendar and the clock. Exactly one has focus.
type Picker struct {
	Calendar Calendar
	Clock    Clock
	focus    Pane
}

func New(t time.Time) Picker {
	return Picker{Calendar: NewCalendar(t), Clock: NewClock(t.Hour(), t.Minute())}
}

// Set moves both widgets to t and focuses the calendar.
func (p *Picker) Set(t time.Time) error {
	p.focus = PaneCalendar
	if err := p.Calendar.SetDate(t); err != nil {
		return err
	}
	return p.Clock.Set(t.Hour(), t.Minute())
}

func (p *Picker) SwitchPane() {
	if p.focus == PaneCalendar {
		p.focus = PaneClock
	} else {
		p.focus = PaneCalendar
	}
}

func (p Picker) Focus() Pane { return p.focus }

// Time is the picked moment, to the minute.
func (p Picker) Time() time.Time {
	h, m := p.Clock.HourMinute()
	month := p.Calendar.Month()
	return time.Date(month.Year(), month.Month(), p.Calendar.Day(), h, m, 0, 0, month.Location())
}
