package app

import (
	"errors"
	"testing"
	"time"

	textcursor "github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tood/internal/bus"
	"tood/internal/notify"
	"tood/internal/picker"
	"tood/internal/task"
)

var fixedNow = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

type memStore struct {
	tasks   []task.Task
	saves   int
	loadErr error
	saveErr error
}

func (s *memStore) Load() ([]task.Task, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return append([]task.Task(nil), s.tasks...), nil
}

func (s *memStore) Save(tasks []task.Task) error {
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.tasks = append([]task.Task(nil), tasks...)
	return nil
}

func newTestController(t *testing.T, tasks ...task.Task) (*Controller, *memStore) {
	t.Helper()
	store := &memStore{tasks: tasks}
	c, err := New(store, Options{FlashInterval: time.Hour, Now: func() time.Time { return fixedNow }})
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c, store
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+d":
		return tea.KeyMsg{Type: tea.KeyCtrlD}
	case "ctrl+e":
		return tea.KeyMsg{Type: tea.KeyCtrlE}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	case "ctrl+x":
		return tea.KeyMsg{Type: tea.KeyCtrlX}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press feeds each key through Tick and then drains the bus, returning the
// last non-empty outcome.
func press(t *testing.T, c *Controller, keys ...string) Outcome {
	t.Helper()
	out := OutcomeNone
	record := func(o Outcome, err error) {
		require.NoError(t, err)
		if o != OutcomeNone {
			out = o
		}
	}
	for _, k := range keys {
		ev := keyMsg(k)
		record(c.Tick(&ev))
	}
	for c.bus.Len() > 0 {
		record(c.Tick(nil))
	}
	return out
}

func typeText(t *testing.T, c *Controller, text string) {
	t.Helper()
	for _, r := range text {
		press(t, c, string(r))
	}
}

func flashOf(t *testing.T, c *Controller) notify.Flash {
	t.Helper()
	f, ok := c.Flash()
	require.True(t, ok, "expected a flash")
	return f
}

func TestNewFailsOnLoadError(t *testing.T) {
	_, err := New(&memStore{loadErr: errors.New("disk gone")}, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk gone")
}

func TestInitialState(t *testing.T) {
	c, _ := newTestController(t, task.Task{Name: "a"}, task.Task{Name: "b"})
	assert.Equal(t, ModeNormal, c.Mode())
	assert.Equal(t, 0, c.Selected())

	empty, _ := newTestController(t)
	assert.Equal(t, -1, empty.Selected())
}

func TestAddTask(t *testing.T) {
	c, store := newTestController(t)

	press(t, c, "a")
	require.Equal(t, ModeAddTask, c.Mode())
	typeText(t, c, "Buy milk")
	press(t, c, "enter")

	assert.Equal(t, ModeNormal, c.Mode())
	tasks := c.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "Buy milk", tasks[0].Name)
	assert.Empty(t, tasks[0].Description)
	assert.False(t, tasks[0].Completed)
	assert.False(t, tasks[0].Recurring)
	assert.Nil(t, tasks[0].Due)
	assert.Equal(t, fixedNow, tasks[0].CreatedAt)
	assert.Equal(t, 0, c.Selected())

	assert.Equal(t, 1, store.saves)
	assert.Equal(t, tasks, store.tasks)
	assert.Equal(t, msgAdded, flashOf(t, c).Message)
	assert.Empty(t, c.Editor().Name, "editor is cleared after submit")
}

func TestAddEmptyNameAccepted(t *testing.T) {
	c, _ := newTestController(t, task.Task{Name: "first"})
	press(t, c, "a", "enter")
	require.Len(t, c.Tasks(), 2)
	assert.Equal(t, "", c.Tasks()[1].Name)
	assert.Equal(t, 1, c.Selected(), "new task is selected")
}

func TestAddCancelDiscards(t *testing.T) {
	c, store := newTestController(t)
	press(t, c, "a")
	typeText(t, c, "never")
	press(t, c, "esc")

	assert.Equal(t, ModeNormal, c.Mode())
	assert.Empty(t, c.Tasks())
	assert.Zero(t, store.saves)

	press(t, c, "a")
	assert.Empty(t, c.Editor().Name)
}

func TestEditorTypesBoundLetters(t *testing.T) {
	c, _ := newTestController(t)
	press(t, c, "a")
	typeText(t, c, "quit")
	assert.Equal(t, "quit", c.Editor().Name)
	assert.Equal(t, ModeAddTask, c.Mode())
}

func TestEditWithNothingSelected(t *testing.T) {
	c, store := newTestController(t)
	press(t, c, "e")

	assert.Equal(t, ModeNormal, c.Mode())
	f := flashOf(t, c)
	assert.Equal(t, msgNoSelection, f.Message)
	assert.Equal(t, notify.LevelError, f.Level)
	assert.Zero(t, store.saves)
}

func TestEditTask(t *testing.T) {
	created := fixedNow.Add(-48 * time.Hour)
	c, store := newTestController(t,
		task.Task{Name: "a", CreatedAt: created},
		task.Task{Name: "walk", Description: "park", Completed: true, CreatedAt: created},
	)
	press(t, c, "j", "e")
	require.Equal(t, ModeEditTask, c.Mode())
	assert.Equal(t, "walk", c.Editor().Name)
	assert.Equal(t, "park", c.Editor().Description)

	typeText(t, c, " dog")
	press(t, c, "enter")

	assert.Equal(t, ModeNormal, c.Mode())
	got := c.Tasks()[1]
	assert.Equal(t, "walk dog", got.Name)
	assert.Equal(t, "park", got.Description)
	assert.True(t, got.Completed)
	assert.Equal(t, created, got.CreatedAt)
	require.NotNil(t, got.EditedAt)
	assert.Equal(t, fixedNow, *got.EditedAt)
	assert.Equal(t, 1, c.Selected())
	assert.Equal(t, 1, store.saves)
	assert.Equal(t, msgEdited, flashOf(t, c).Message)
}

func TestEditMakingRecurringClearsCompleted(t *testing.T) {
	c, _ := newTestController(t, task.Task{Name: "gym", Completed: true})
	press(t, c, "e", "ctrl+r")
	assert.True(t, c.Editor().Recurring)
	assert.Equal(t, msgRecurringOn, flashOf(t, c).Message)
	press(t, c, "enter")

	got := c.Tasks()[0]
	assert.True(t, got.Recurring)
	assert.False(t, got.Completed)
}

func TestToggleRoundTrip(t *testing.T) {
	c, store := newTestController(t, task.Task{Name: "a"})
	press(t, c, " ")
	assert.True(t, c.Tasks()[0].Completed)
	f := flashOf(t, c)
	assert.Equal(t, msgCompleted, f.Message)
	assert.Equal(t, notify.LevelInfo, f.Level)
	press(t, c, " ")
	assert.False(t, c.Tasks()[0].Completed)
	assert.Equal(t, msgNotCompleted, flashOf(t, c).Message)
	assert.Equal(t, 2, store.saves)
}

func TestToggleRecurringRefused(t *testing.T) {
	c, store := newTestController(t, task.Task{Name: "daily", Recurring: true})
	press(t, c, " ")
	assert.False(t, c.Tasks()[0].Completed)
	f := flashOf(t, c)
	assert.Equal(t, msgRecurring, f.Message)
	assert.Equal(t, notify.LevelWarn, f.Level)
	press(t, c, " ")
	assert.False(t, c.Tasks()[0].Completed)
	assert.Zero(t, store.saves)
}

func TestToggleWithNothingSelected(t *testing.T) {
	c, _ := newTestController(t)
	press(t, c, " ")
	assert.Equal(t, msgNoSelection, flashOf(t, c).Message)
}

func TestRemoveOnlyTask(t *testing.T) {
	c, store := newTestController(t, task.Task{Name: "only"})
	press(t, c, "d")

	assert.Empty(t, c.Tasks())
	assert.Equal(t, -1, c.Selected())
	f := flashOf(t, c)
	assert.Equal(t, msgRemoved, f.Message)
	assert.Equal(t, notify.LevelWarn, f.Level)
	assert.Equal(t, 1, store.saves)

	press(t, c, "d")
	assert.Equal(t, msgNoSelection, flashOf(t, c).Message)
}

func TestRemoveLastClampsCursor(t *testing.T) {
	c, _ := newTestController(t, task.Task{Name: "a"}, task.Task{Name: "b"})
	press(t, c, "j", "d")
	require.Len(t, c.Tasks(), 1)
	assert.Equal(t, 0, c.Selected())
}

func TestListCursorWraps(t *testing.T) {
	c, _ := newTestController(t, task.Task{Name: "a"}, task.Task{Name: "b"})
	press(t, c, "k")
	assert.Equal(t, 1, c.Selected())
	press(t, c, "j")
	assert.Equal(t, 0, c.Selected())
}

func TestFindCancelLeavesStateUnchanged(t *testing.T) {
	c, store := newTestController(t, task.Task{Name: "a"}, task.Task{Name: "b"}, task.Task{Name: "c"})
	press(t, c, "j")
	before := c.Tasks()

	press(t, c, "/")
	require.Equal(t, ModeFind, c.Mode())
	assert.Len(t, c.Finder().Matches, 3, "find starts unfiltered")
	typeText(t, c, "c")
	assert.Len(t, c.Finder().Matches, 1)
	press(t, c, "esc")

	assert.Equal(t, ModeNormal, c.Mode())
	assert.Equal(t, before, c.Tasks())
	assert.Equal(t, 1, c.Selected())
	assert.Empty(t, c.Finder().Matches)
	assert.Zero(t, store.saves)
}

func TestFindSelect(t *testing.T) {
	c, _ := newTestController(t, task.Task{Name: "Buy milk"}, task.Task{Name: "Walk dog"}, task.Task{Name: "Call mom"})
	press(t, c, "f")
	typeText(t, c, "dog")
	f := c.Finder()
	require.Len(t, f.Matches, 1)
	assert.Equal(t, 1, f.Matches[0].Index)

	press(t, c, "enter")
	assert.Equal(t, ModeNormal, c.Mode())
	assert.Equal(t, 1, c.Selected())
}

func TestFindNavigatesResults(t *testing.T) {
	c, _ := newTestController(t, task.Task{Name: "a"}, task.Task{Name: "b"}, task.Task{Name: "c"})
	press(t, c, "/", "down", "down")
	assert.Equal(t, 2, c.Finder().Selected)
	press(t, c, "tab")
	assert.Equal(t, 0, c.Finder().Selected)
	press(t, c, "enter")
	assert.Equal(t, 0, c.Selected())
}

func TestFindNoMatches(t *testing.T) {
	c, _ := newTestController(t, task.Task{Name: "a"})
	press(t, c, "/")
	typeText(t, c, "zzz")
	press(t, c, "enter")

	assert.Equal(t, ModeFind, c.Mode())
	assert.Equal(t, msgNoMatches, flashOf(t, c).Message)
}

func TestMoveModeSwaps(t *testing.T) {
	c, store := newTestController(t, task.Task{Name: "a"}, task.Task{Name: "b"}, task.Task{Name: "c"})
	press(t, c, "m")
	require.Equal(t, ModeMove, c.Mode())
	assert.True(t, c.Moving())

	press(t, c, "j")
	assert.Equal(t, []string{"b", "a", "c"}, names(c.Tasks()))
	assert.Equal(t, 1, c.Selected())
	press(t, c, "j", "j")
	assert.Equal(t, []string{"b", "c", "a"}, names(c.Tasks()))
	assert.Equal(t, 2, c.Selected())
	assert.Equal(t, 2, store.saves, "swap past the end is a no-op")

	press(t, c, "enter")
	assert.Equal(t, ModeNormal, c.Mode())
	assert.False(t, c.Moving())
	press(t, c, "k")
	assert.Equal(t, 1, c.Selected(), "up moves the cursor again")
}

func TestDueDatePickAndCancel(t *testing.T) {
	c, _ := newTestController(t)
	press(t, c, "a", "ctrl+d")
	require.Equal(t, ModeDueDate, c.Mode())
	assert.Equal(t, fixedNow, c.Picker().Time())

	press(t, c, "l", "enter")
	assert.Equal(t, ModeAddTask, c.Mode())
	want := fixedNow.AddDate(0, 0, 1)
	require.NotNil(t, c.Editor().Due)
	assert.Equal(t, want, *c.Editor().Due)

	press(t, c, "ctrl+d")
	assert.Equal(t, want, c.Picker().Time(), "picker starts from the pending due date")
	press(t, c, "l", "esc")
	assert.Equal(t, ModeAddTask, c.Mode())
	assert.Equal(t, want, *c.Editor().Due)

	press(t, c, "enter")
	require.Len(t, c.Tasks(), 1)
	require.NotNil(t, c.Tasks()[0].Due)
	assert.Equal(t, want, *c.Tasks()[0].Due)
}

func TestDueDateClock(t *testing.T) {
	c, _ := newTestController(t)
	press(t, c, "a", "ctrl+d", "tab", "k", "l", "j", "enter")
	require.NotNil(t, c.Editor().Due)
	assert.Equal(t, time.Date(2024, 3, 15, 11, 29, 0, 0, time.UTC), *c.Editor().Due)
}

func TestClearDueDate(t *testing.T) {
	due := fixedNow.Add(time.Hour)
	c, _ := newTestController(t, task.Task{Name: "a", Due: &due})
	press(t, c, "e")
	require.NotNil(t, c.Editor().Due)
	press(t, c, "ctrl+x", "enter")
	assert.Nil(t, c.Tasks()[0].Due)
}

func TestEditDescriptionOutcome(t *testing.T) {
	c, _ := newTestController(t)
	press(t, c, "a")
	assert.Equal(t, OutcomeEditDescription, press(t, c, "ctrl+e"))
	c.SetDescription("# groceries")
	press(t, c, "enter")
	assert.Equal(t, "# groceries", c.Tasks()[0].Description)
}

func TestQuit(t *testing.T) {
	c, _ := newTestController(t)
	assert.Equal(t, OutcomeQuit, press(t, c, "q"))
}

func TestSaveFailureKeepsMemoryState(t *testing.T) {
	c, store := newTestController(t)
	store.saveErr = errors.New("read-only")
	press(t, c, "a")
	typeText(t, c, "x")
	press(t, c, "enter")

	require.Len(t, c.Tasks(), 1)
	f := flashOf(t, c)
	assert.Equal(t, msgSaveFailed, f.Message)
	assert.Equal(t, notify.LevelError, f.Level)

	store.saveErr = nil
	press(t, c, " ")
	require.Len(t, store.tasks, 1, "next save catches up")
	assert.True(t, store.tasks[0].Completed)
}

func TestInvalidTransitionIgnored(t *testing.T) {
	c, _ := newTestController(t, task.Task{Name: "a"})
	press(t, c, "a")
	require.NoError(t, c.Sender().Send(EnterMode{ModeFind}))
	press(t, c)
	assert.Equal(t, ModeAddTask, c.Mode())

	require.NoError(t, c.Sender().Send(RemoveTask{Index: 0}))
	press(t, c)
	assert.Len(t, c.Tasks(), 1)
}

func TestOneIntentPerTick(t *testing.T) {
	c, _ := newTestController(t)
	require.NoError(t, c.Sender().Send(ShowFlash{notify.Info("first")}))
	require.NoError(t, c.Sender().Send(ShowFlash{notify.Info("second")}))

	_, err := c.Tick(nil)
	require.NoError(t, err)
	assert.Equal(t, "first", flashOf(t, c).Message)
	assert.Equal(t, 1, c.bus.Len())

	_, err = c.Tick(nil)
	require.NoError(t, err)
	assert.Equal(t, "second", flashOf(t, c).Message)
}

func TestTickAfterCloseFails(t *testing.T) {
	c, _ := newTestController(t)
	c.Close()
	ev := keyMsg("a")
	_, err := c.Tick(&ev)
	assert.ErrorIs(t, err, bus.ErrClosed)
}

func TestFlashExpiresThroughTick(t *testing.T) {
	store := &memStore{}
	c, err := New(store, Options{FlashInterval: 20 * time.Millisecond})
	require.NoError(t, err)
	defer c.Close()

	press(t, c, "e")
	_, ok := c.Flash()
	require.True(t, ok)
	require.Eventually(t, func() bool {
		if _, err := c.Tick(nil); err != nil {
			return false
		}
		_, ok := c.Flash()
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestToggleRecurringInEditorFlashes(t *testing.T) {
	c, _ := newTestController(t)
	press(t, c, "a", "ctrl+r")
	assert.Equal(t, msgRecurringOn, flashOf(t, c).Message)
	press(t, c, "ctrl+r")
	assert.False(t, c.Editor().Recurring)
	f := flashOf(t, c)
	assert.Equal(t, msgRecurringOff, f.Message)
	assert.Equal(t, notify.LevelInfo, f.Level)
}

func TestBrokenPickerFallsBackToNow(t *testing.T) {
	c, _ := newTestController(t)
	c.due.picker = picker.Picker{}
	press(t, c, "a", "ctrl+d")

	assert.Equal(t, ModeDueDate, c.Mode())
	f := flashOf(t, c)
	assert.Equal(t, msgBadDate, f.Message)
	assert.Equal(t, notify.LevelWarn, f.Level)
	assert.Equal(t, fixedNow, c.Picker().Time())
}

func TestInputsUseStaticCursor(t *testing.T) {
	c, _ := newTestController(t)
	press(t, c, "a")
	assert.Equal(t, textcursor.CursorStatic, c.editor.name.Cursor.Mode())
	press(t, c, "esc", "/")
	assert.Equal(t, textcursor.CursorStatic, c.finder.query.Cursor.Mode())
}

func names(tasks []task.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Name
	}
	return out
}
