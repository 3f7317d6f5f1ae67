package printers

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/taskodos/pkg/api"
	"tableflip.dev/taskodos/pkg/views"
)

// Calendar prints every event grouped by day, earliest day first.
func (pp *PrettyPrint) Calendar(events []api.CalendarEvent) {
	groups := views.GroupByDay(events)
	if len(groups) == 0 {
		pp.none("No events scheduled.")
		return
	}
	for _, g := range groups {
		_, _ = color.New(color.Bold, color.FgCyan).Fprintln(pp.out(), g.Label)
		pp.eventTable(g.Events, false)
	}
}

// Upcoming prints events from now on, then the most recent past events.
func (pp *PrettyPrint) Upcoming(events []api.CalendarEvent, now time.Time) {
	tl := views.SplitTimeline(events, now)

	pp.TitleWithCount("Upcoming Events", len(tl.Upcoming))
	if len(tl.Upcoming) == 0 {
		pp.none("No upcoming events.")
	} else {
		pp.eventTable(tl.Upcoming, true)
	}

	if len(tl.Past) > 0 {
		pp.TitleWithCount("Past Events", tl.PastTotal)
		pp.eventTable(tl.Past, true)
		if tl.PastTotal > len(tl.Past) {
			pp.none(fmt.Sprintf("%d older events not shown", tl.PastTotal-len(tl.Past)))
		}
	}
}

func (pp *PrettyPrint) eventTable(events []api.CalendarEvent, withDate bool) {
	y := color.New(color.FgHiYellow, color.Faint)
	f := color.New(color.Faint, color.Italic)
	b := color.New(color.FgMagenta)

	tbl := uitable.New()
	tbl.Separator = "  "
	for _, e := range events {
		row := make([]interface{}, 0, 5)
		if pp.ShowID {
			row = append(row, y.Sprint(e.ID))
		}
		if withDate {
			row = append(row, e.EventDate.Date().Label())
		}
		row = append(row, truncate.StringWithTail(e.Title, titleWidth, "…"))

		badges := views.Badges(e)
		if len(badges) > 0 {
			row = append(row, b.Sprint(strings.Join(badges, " ")), f.Sprint(views.AutoLabel))
		} else {
			row = append(row, "", "")
		}
		tbl.AddRow(row...)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	for _, e := range events {
		pp.description(e.Title, e.Description)
	}
	pp.NewLine()
}
