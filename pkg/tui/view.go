package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/taskodos/pkg/api"
	"tableflip.dev/taskodos/pkg/views"
)

// View renders the header, tabs, the current tab and any overlay. Once the
// terminal size is known the tab body scrolls inside a viewport.
func (m *Model) View() string {
	top := m.viewHeader() + "\n\n" + m.viewTabs()
	footer := m.viewFooter()

	var overlay string
	switch {
	case m.mode == modeForm && m.form != nil:
		overlay = m.form.view(m.theme, m.width)
	case m.mode == modeConfirm && m.confirm != nil:
		overlay = m.viewConfirm()
	}

	var body string
	switch {
	case m.loading && !m.snap.Loaded():
		body = m.theme.Section.Empty.Render("Loading…")
	case m.tab == tabGoals:
		body = m.viewGoals()
	case m.tab == tabCalendar:
		body = m.viewCalendar()
	default:
		body = m.viewTodos()
	}

	// Blank separator lines around the body and the overlay.
	chrome := lipgloss.Height(top) + 1 + 1 + lipgloss.Height(footer)
	if overlay != "" {
		chrome += lipgloss.Height(overlay) + 1
	}
	body = m.scroll(body, m.height-chrome)

	var b strings.Builder
	b.WriteString(top)
	b.WriteString("\n\n")
	b.WriteString(body)
	if overlay != "" {
		b.WriteString("\n\n")
		b.WriteString(overlay)
	}
	b.WriteString("\n\n")
	b.WriteString(footer)
	return b.String()
}

// scroll fits body into height lines, moving the window only as far as
// needed to keep the cursor row on screen.
func (m *Model) scroll(body string, height int) string {
	if m.height <= 0 {
		return body
	}
	height = max(height, 1)
	lines := strings.Split(body, "\n")
	if len(lines) <= height {
		m.offset[m.tab] = 0
		return body
	}
	off := m.offset[m.tab]
	if cur := cursorLine(lines); cur >= 0 {
		switch {
		case m.cursor[m.tab] == 0:
			off = 0
		case cur < off:
			off = cur
		case cur >= off+height:
			off = cur - height + 1
		}
	}
	off = min(max(off, 0), len(lines)-height)
	m.offset[m.tab] = off

	m.viewport.SetWidth(max(m.width, 1))
	m.viewport.SetHeight(height)
	m.viewport.SetContent(body)
	m.viewport.SetYOffset(off)
	return m.viewport.View()
}

func cursorLine(lines []string) int {
	for i, l := range lines {
		if strings.HasPrefix(l, cursorMarker) {
			return i
		}
	}
	return -1
}

func (m *Model) viewHeader() string {
	th := m.theme.Header
	lines := []string{
		th.Title.Render("📝 Taskodos"),
		th.Subtitle.Render("Goals, todos and a calendar that keeps track of both"),
	}
	if s := m.snap.Stats; s != nil {
		stat := func(icon string, n int, label string) string {
			return th.Stat.Render(icon+" ") + th.StatNum.Render(fmt.Sprint(n)) + th.Stat.Render(" "+label)
		}
		lines = append(lines, "", strings.Join([]string{
			stat("🎯", s.Goals.Active, "Active Goals"),
			stat("⏳", s.Todos.Pending, "Pending Todos"),
			stat("✅", s.Todos.Completed, "Completed Todos"),
			stat("📅", s.CalendarEvents, "Calendar Events"),
		}, "   "))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) viewTabs() string {
	parts := make([]string, 0, len(tabs))
	for i, t := range tabs {
		label := fmt.Sprintf("%d %s", i+1, t)
		if t == m.tab {
			parts = append(parts, m.theme.Tabs.Active.Render(label))
		} else {
			parts = append(parts, m.theme.Tabs.Inactive.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

const cursorMarker = "→ "

// line renders one row; index is its position in rows(), or -1 for a row
// that cannot be selected.
func (m *Model) line(index int, text string, done bool) string {
	marker := "  "
	style := m.theme.Row.Normal
	if done {
		style = m.theme.Row.Done
	}
	if index >= 0 && index == m.cursor[m.tab] && m.mode == modeNormal {
		marker = cursorMarker
		style = m.theme.Row.Selected
	}
	if m.width > 4 {
		text = truncate.StringWithTail(text, uint(m.width-2), "…")
	}
	return marker + style.Render(text)
}

func (m *Model) section(title string, n int) string {
	return m.theme.Section.Title.Render(fmt.Sprintf("%s (%d)", title, n))
}

func (m *Model) meta(parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return ""
	}
	return "\n    " + m.theme.Row.Meta.Render(strings.Join(kept, " · "))
}

func (m *Model) viewTodos() string {
	p := views.PartitionTodos(m.snap.Todos)
	var b strings.Builder
	idx := 0

	b.WriteString(m.section("Pending", len(p.Pending)))
	b.WriteString("\n")
	if len(p.Pending) == 0 {
		b.WriteString(m.theme.Section.Empty.Render("No pending todos. Great job!"))
		b.WriteString("\n")
	}
	write := func(t api.Todo) {
		box := "☐"
		if t.Completed {
			box = "☑"
		}
		b.WriteString(m.line(idx, box+" "+t.Title, t.Completed))
		var due, goal string
		if t.DueDate != nil {
			due = "Due: " + t.DueDate.Date().Label()
		}
		if title, ok := views.GoalTitle(t, m.snap.Goals); ok {
			goal = m.theme.Row.Badge.Render("🎯 " + title)
		}
		b.WriteString(m.meta(api.Text(t.Description), due, goal))
		b.WriteString("\n")
		idx++
	}
	for _, t := range p.Pending {
		write(t)
	}
	if len(p.Completed) > 0 {
		b.WriteString("\n")
		b.WriteString(m.section("Completed", len(p.Completed)))
		b.WriteString("\n")
		for _, t := range p.Completed {
			write(t)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) viewGoals() string {
	p := views.PartitionGoals(m.snap.Goals)
	var b strings.Builder
	idx := 0

	b.WriteString(m.section("Active Goals", len(p.Active)))
	b.WriteString("\n")
	if len(p.Active) == 0 {
		b.WriteString(m.theme.Section.Empty.Render("No active goals. Create one to get started!"))
		b.WriteString("\n")
	}
	for _, g := range p.Active {
		b.WriteString(m.line(idx, "🎯 "+g.Title, false))
		var target string
		if g.TargetDate != nil {
			target = "Target: " + g.TargetDate.Date().Label()
		}
		b.WriteString(m.meta(api.Text(g.Description), target))
		b.WriteString("\n")
		idx++
	}
	if len(p.Completed) > 0 {
		b.WriteString("\n")
		b.WriteString(m.section("Completed Goals", len(p.Completed)))
		b.WriteString("\n")
		for _, g := range p.Completed {
			b.WriteString(m.line(idx, "✅ "+g.Title, true))
			b.WriteString(m.meta(api.Text(g.Description)))
			b.WriteString("\n")
			idx++
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) eventLine(idx int, e api.CalendarEvent, withDate bool) string {
	text := e.Title
	if withDate {
		text = e.EventDate.Date().Label() + "  " + text
	}
	out := m.line(idx, text, false)
	var badges []string
	for _, badge := range views.Badges(e) {
		badges = append(badges, m.theme.Row.Badge.Render(badge))
	}
	if e.AutoGenerated() {
		badges = append(badges, m.theme.Row.Auto.Render(views.AutoLabel))
	}
	return out + m.meta(api.Text(e.Description), strings.Join(badges, " "))
}

func (m *Model) viewCalendar() string {
	var b strings.Builder
	mode := "List View"
	if m.upcoming {
		mode = "Upcoming"
	}
	b.WriteString(m.theme.Row.Meta.Render(mode + " · v to switch"))
	b.WriteString("\n\n")

	idx := 0
	if m.upcoming {
		tl := views.SplitTimeline(m.snap.Events, m.clock())
		b.WriteString(m.section("Upcoming Events", len(tl.Upcoming)))
		b.WriteString("\n")
		if len(tl.Upcoming) == 0 {
			b.WriteString(m.theme.Section.Empty.Render("No upcoming events."))
			b.WriteString("\n")
		}
		for _, e := range tl.Upcoming {
			b.WriteString(m.eventLine(idx, e, true))
			b.WriteString("\n")
			idx++
		}
		if tl.PastTotal == 0 {
			return strings.TrimRight(b.String(), "\n")
		}
		b.WriteString("\n")
		b.WriteString(m.section("Past Events", tl.PastTotal))
		b.WriteString("\n")
		for _, e := range tl.Past {
			b.WriteString(m.eventLine(-1, e, true))
			b.WriteString("\n")
		}
		if hidden := tl.PastTotal - len(tl.Past); hidden > 0 {
			b.WriteString(m.theme.Section.Empty.Render(fmt.Sprintf("%d older events not shown", hidden)))
			b.WriteString("\n")
		}
		return strings.TrimRight(b.String(), "\n")
	}

	groups := views.GroupByDay(m.snap.Events)
	if len(groups) == 0 {
		b.WriteString(m.theme.Section.Empty.Render("No events scheduled."))
		return b.String()
	}
	for _, g := range groups {
		b.WriteString(m.theme.Row.DayHeader.Render(g.Label))
		b.WriteString("\n")
		for _, e := range g.Events {
			b.WriteString(m.eventLine(idx, e, false))
			b.WriteString("\n")
			idx++
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) viewConfirm() string {
	th := m.theme.Modal
	body := th.Title.Render(m.confirm.prompt) + "\n\n" + th.Help.Render("y delete · n cancel")
	return th.Frame.Render(body)
}

func (m *Model) viewFooter() string {
	help := "1/2/3 tabs · j/k move · n new · e edit · d delete · r refresh · q quit"
	switch {
	case m.mode == modeForm:
		help = "tab next field · enter save · esc cancel"
	case m.mode == modeConfirm:
		help = "y confirm · n cancel"
	case m.tab == tabTodos:
		help = "1/2/3 tabs · j/k move · space toggle · n new · e edit · d delete · r refresh · q quit"
	case m.tab == tabCalendar:
		help = "1/2/3 tabs · j/k move · v view · n new · e edit · d delete · r refresh · q quit"
	}
	status := m.theme.Footer.Status.Render(m.status)
	if m.statusErr {
		status = m.theme.Footer.Error.Render(m.status)
	}
	return status + "\n" + m.theme.Footer.Help.Render(help)
}
