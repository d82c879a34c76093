package app

import (
	textcursor "github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tood/internal/bus"
	"tood/internal/config"
	"tood/internal/notify"
	"tood/internal/search"
)

// finder is the fuzzy search session: a query line over ranked results.
// Letters always go to the query, so only arrows and the alternate bindings
// move through the results.
type finder struct {
	query   textinput.Model
	results search.Results
}

func newFinder() finder {
	ti := textinput.New()
	ti.Placeholder = "Find"
	ti.Prompt = "/ "
	ti.CharLimit = 256
	ti.Width = 40
	ti.Cursor.SetMode(textcursor.CursorStatic)
	return finder{query: ti, results: search.NewResults()}
}

func (f *finder) reset() {
	f.query.SetValue("")
	f.query.Blur()
	f.results.Reset()
}

func (f *finder) start(cands []search.Candidate) {
	f.reset()
	_ = f.query.Focus()
	f.results.Update("", cands)
}

func (f *finder) handle(ev tea.KeyMsg, keys config.Bindings, out bus.Sender[Intent]) error {
	switch {
	case key.Matches(ev, keys.Back):
		return out.Send(EnterMode{ModeNormal})
	case key.Matches(ev, keys.Submit):
		m, ok := f.results.Selected()
		if !ok {
			return out.Send(ShowFlash{notify.Warn(msgNoMatches)})
		}
		return out.Send(FindSelect{Index: m.Index})
	case ev.Type == tea.KeyUp || key.Matches(ev, keys.AltMoveUp):
		f.results.Cursor.Prev()
	case ev.Type == tea.KeyDown || key.Matches(ev, keys.AltMoveDown):
		f.results.Cursor.Next()
	default:
		before := f.query.Value()
		f.query, _ = f.query.Update(ev) // static cursor: no command
		if q := f.query.Value(); q != before {
			return out.Send(FindQuery{Query: q})
		}
	}
	return nil
}
