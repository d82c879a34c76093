// Package cursor implements the bounded selection shared by every list-like
// widget: the task list, fuzzy results, the calendar day grid and the
// time-picker fields.
package cursor

import "errors"

var ErrOutOfBounds = errors.New("cursor: index out of bounds")

// Policy decides what Next and Prev do at the ends of the bound.
type Policy int

const (
	// Wrap moves past the last item to the first and before the first to the last.
	Wrap Policy = iota
	// Clamp stops at the first and last item.
	Clamp
)

// Cursor is an optional selected index below an upper bound.
// The zero value is an empty, wrapping cursor with no selection.
type Cursor struct {
	selected int
	has      bool
	bound    int
	policy   Policy
}

func New(bound int, policy Policy) Cursor {
	if bound < 0 {
		bound = 0
	}
	return Cursor{bound: bound, policy: policy}
}

func (c Cursor) Bound() int {
	return c.bound
}

func (c Cursor) Policy() Policy {
	return c.policy
}

func (c Cursor) Selected() (int, bool) {
	if !c.has {
		return 0, false
	}
	return c.selected, true
}

// Index returns the selection or -1.
func (c Cursor) Index() int {
	if !c.has {
		return -1
	}
	return c.selected
}

func (c *Cursor) Select(i int) error {
	if i < 0 || i >= c.bound {
		return ErrOutOfBounds
	}
	c.selected = i
	c.has = true
	return nil
}

func (c *Cursor) Deselect() {
	c.selected = 0
	c.has = false
}

func (c *Cursor) First() {
	if c.bound == 0 {
		c.Deselect()
		return
	}
	c.selected = 0
	c.has = true
}

func (c *Cursor) Last() {
	if c.bound == 0 {
		c.Deselect()
		return
	}
	c.selected = c.bound - 1
	c.has = true
}

func (c *Cursor) Next() {
	if c.bound == 0 {
		return
	}
	if !c.has {
		c.First()
		return
	}
	switch {
	case c.selected+1 < c.bound:
		c.selected++
	case c.policy == Wrap:
		c.selected = 0
	}
}

func (c *Cursor) Prev() {
	if c.bound == 0 {
		return
	}
	if !c.has {
		if c.policy == Wrap {
			c.Last()
		} else {
			c.First()
		}
		return
	}
	switch {
	case c.selected > 0:
		c.selected--
	case c.policy == Wrap:
		c.selected = c.bound - 1
	}
}

// Shift moves the selection by delta, stopping at either end regardless of
// the policy.
func (c *Cursor) Shift(delta int) {
	if c.bound == 0 {
		return
	}
	if !c.has {
		c.First()
		return
	}
	c.selected = clamp(c.selected+delta, c.bound)
	c.has = true
}

// UpdateBoundary re-bounds the cursor after its backing collection changed
// size. A selection beyond the new bound is clamped to the last item; an
// empty bound clears it.
func (c *Cursor) UpdateBoundary(n int) {
	if n < 0 {
		n = 0
	}
	c.bound = n
	if n == 0 {
		c.Deselect()
		return
	}
	if c.has && c.selected >= n {
		c.selected = n - 1
	}
}

func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
