package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"tood/internal/app"
	"tood/internal/notify"
	"tood/internal/picker"
	"tood/internal/search"
	"tood/internal/task"
)

const dueLayout = "Mon Jan 2 15:04"

func (m Model) View() string {
	layout := m.ctrl.Layout()
	var b strings.Builder
	b.WriteString(titleStyle.Render("tood"))
	b.WriteString(" ")
	b.WriteString(mutedStyle.Render(m.ctrl.Mode().String()))
	b.WriteString("\n\n")

	var panels []string
	if layout.Surfaces.Has(app.SurfaceList) {
		list := m.renderList()
		if layout.DimList {
			list = dimStyle.Render(list)
		}
		panels = append(panels, list)
	}
	if layout.Surfaces.Has(app.SurfaceDetail) {
		panels = append(panels, panelStyle.Render(m.renderDetail()))
	}
	if layout.Surfaces.Has(app.SurfaceFinder) {
		panels = append(panels, panelStyle.Render(m.renderFinder()))
	}
	if layout.Surfaces.Has(app.SurfaceEditor) {
		panels = append(panels, panelStyle.Render(m.renderEditor()))
	}
	if layout.Surfaces.Has(app.SurfacePicker) {
		panels = append(panels, panelStyle.Render(renderPicker(m.ctrl.Picker())))
	}
	b.WriteString(lipgloss.JoinVertical(lipgloss.Left, panels...))
	b.WriteString("\n\n")

	if f, ok := m.ctrl.Flash(); ok {
		b.WriteString(renderFlash(f))
	}
	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView(m.ctrl.Hints()))
	return b.String()
}

func (m Model) renderList() string {
	tasks := m.ctrl.Tasks()
	if len(tasks) == 0 {
		return mutedStyle.Render("No todos. Press 'a' to add one.")
	}
	selected := m.ctrl.Selected()
	var b strings.Builder
	for i, t := range tasks {
		line := taskLine(t)
		switch {
		case i == selected && m.ctrl.Moving():
			line = movingStyle.Render("↕ " + line)
		case i == selected:
			line = selectedStyle.Render("> " + line)
		case t.Completed:
			line = "  " + doneStyle.Render(line)
		default:
			line = "  " + line
		}
		b.WriteString(line)
		if i < len(tasks)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func taskLine(t task.Task) string {
	box := "[ ]"
	switch {
	case t.Recurring:
		box = "[↻]"
	case t.Completed:
		box = "[x]"
	}
	line := fmt.Sprintf("%s %s", box, t.Name)
	if t.Due != nil {
		line += mutedStyle.Render("  due " + t.Due.Format(dueLayout))
	}
	return line
}

// renderDetail shows the selected task: its metadata and the rendered
// description.
func (m Model) renderDetail() string {
	t, ok := m.ctrl.Current()
	if !ok {
		return mutedStyle.Render("No todo selected")
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Added     : %s\n", formatStamp(&t.CreatedAt)))
	b.WriteString(fmt.Sprintf("Edited    : %s\n", formatStamp(t.EditedAt)))
	b.WriteString(fmt.Sprintf("Due       : %s\n", formatStamp(t.Due)))
	b.WriteString(fmt.Sprintf("Recurring : %s", yesNo(t.Recurring)))
	if strings.TrimSpace(t.Description) != "" {
		b.WriteString("\n\n")
		b.WriteString(m.renderMarkdown(t.Description))
	}
	return b.String()
}

func formatStamp(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "(empty)"
	}
	return t.Format(dueLayout)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func (m Model) renderEditor() string {
	e := m.ctrl.Editor()
	var b strings.Builder
	if m.ctrl.Mode() == app.ModeEditTask {
		b.WriteString("Edit todo\n")
	} else {
		b.WriteString("New todo\n")
	}
	b.WriteString(e.NameView)
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Recurring : %t\n", e.Recurring))
	due := "(none)"
	if e.Due != nil {
		due = e.Due.Format(dueLayout)
	}
	b.WriteString(fmt.Sprintf("Due       : %s", due))
	if strings.TrimSpace(e.Description) != "" {
		b.WriteString("\n")
		b.WriteString(m.renderMarkdown(e.Description))
	}
	return b.String()
}

// markdown caches a glamour renderer for the current wrap width.
type markdown struct {
	renderer *glamour.TermRenderer
	width    int
}

// renderMarkdown renders the description, falling back to the raw text when
// glamour fails.
func (m Model) renderMarkdown(md string) string {
	width := m.width - 8
	if width < 20 {
		width = 20
	}
	if m.md.renderer == nil || m.md.width != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(markdownStyle()),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			m.log.Debug("markdown renderer", "err", err)
			return md
		}
		m.md.renderer, m.md.width = r, width
	}
	out, err := m.md.renderer.Render(md)
	if err != nil {
		m.log.Debug("render description", "err", err)
		return md
	}
	return strings.Trim(out, "\n")
}

// markdownStyle drops ANSI styling when the output has no colour support.
func markdownStyle() string {
	if lipgloss.ColorProfile() == termenv.Ascii {
		return "notty"
	}
	return "dark"
}

func (m Model) renderFinder() string {
	f := m.ctrl.Finder()
	var b strings.Builder
	b.WriteString(f.QueryView)
	if len(f.Matches) == 0 {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("no matches"))
		return b.String()
	}
	for i, match := range f.Matches {
		b.WriteString("\n")
		line := highlight(match)
		if i == f.Selected {
			b.WriteString(selectedStyle.Render("> ") + line)
		} else {
			b.WriteString("  " + line)
		}
	}
	return b.String()
}

// highlight marks the matched characters of a fuzzy match.
func highlight(match search.Match) string {
	if len(match.Positions) == 0 {
		return match.Text
	}
	hit := make(map[int]bool, len(match.Positions))
	for _, p := range match.Positions {
		hit[p] = true
	}
	var b strings.Builder
	for i, r := range match.Text {
		if hit[i] {
			b.WriteString(matchStyle.Render(string(r)))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func renderPicker(p picker.Picker) string {
	cal := renderCalendar(p.Calendar, p.Focus() == picker.PaneCalendar)
	clock := renderClock(p.Clock, p.Focus() == picker.PaneClock)
	return lipgloss.JoinHorizontal(lipgloss.Top, cal, "   ", clock)
}

func renderCalendar(c picker.Calendar, focused bool) string {
	month := c.Month()
	var b strings.Builder
	header := month.Format("January 2006")
	if focused {
		header = selectedStyle.Render(header)
	}
	b.WriteString(header)
	b.WriteString("\nSu Mo Tu We Th Fr Sa\n")

	offset := c.Offset()
	b.WriteString(strings.Repeat("   ", offset))
	days := picker.DaysIn(month.Year(), month.Month())
	for day := 1; day <= days; day++ {
		cell := fmt.Sprintf("%2d", day)
		if day == c.Day() {
			if focused {
				cell = focusStyle.Render(cell)
			} else {
				cell = selectedStyle.Render(cell)
			}
		}
		b.WriteString(cell)
		switch {
		case (offset+day)%7 == 0 && day < days:
			b.WriteString("\n")
		case day < days:
			b.WriteString(" ")
		}
	}
	return b.String()
}

func renderClock(c picker.Clock, focused bool) string {
	h, mi := c.HourMinute()
	hour, minute := fmt.Sprintf("%02d", h), fmt.Sprintf("%02d", mi)
	if focused {
		if c.Focus() == picker.FieldHour {
			hour = focusStyle.Render(hour)
		} else {
			minute = focusStyle.Render(minute)
		}
	}
	title := "Time"
	if focused {
		title = selectedStyle.Render(title)
	}
	return title + "\n" + hour + ":" + minute
}

func renderFlash(f notify.Flash) string {
	switch f.Level {
	case notify.LevelError:
		return errorStyle.Render(f.Message)
	case notify.LevelWarn:
		return warnStyle.Render(f.Message)
	default:
		return infoStyle.Render(f.Message)
	}
}

// FormatDue is the short due label used by the list subcommand.
func FormatDue(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dueLayout)
}
