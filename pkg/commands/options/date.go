package options

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/taskodos/pkg/api"
	"tableflip.dev/taskodos/pkg/timeutil"
)

// DateOptions holds a YYYY-MM-DD flag value.
type DateOptions struct {
	Raw string
}

// AddDateArg registers a date flag under name.
func AddDateArg(cmd *cobra.Command, o *DateOptions, name, usage string) {
	cmd.Flags().StringVar(&o.Raw, name, "",
		fmt.Sprintf(`%s, example: --%s="2024-12-31".`, usage, name))
}

// Date parses the flag. An empty flag is the zero date.
func (o *DateOptions) Date() (api.Date, error) {
	raw := strings.TrimSpace(o.Raw)
	if raw == "" {
		return api.Date{}, nil
	}
	return api.ParseDate(raw)
}

// RangeOptions selects a slice of the calendar.
type RangeOptions struct {
	From     DateOptions
	To       DateOptions
	Upcoming bool
	Within   string
}

// AddRangeArgs registers the calendar range flags.
func AddRangeArgs(cmd *cobra.Command, o *RangeOptions) {
	AddDateArg(cmd, &o.From, "from", "Only show events on or after this day")
	AddDateArg(cmd, &o.To, "to", "Only show events on or before this day")
	cmd.Flags().BoolVarP(&o.Upcoming, "upcoming", "u", false,
		"Split the calendar into upcoming and recent past events.")
	cmd.Flags().StringVarP(&o.Within, "within", "w", "",
		`Only show events from today through this window, example: --within="2w". Alone it means one week.`)
	cmd.Flags().Lookup("within").NoOptDefVal = timeutil.DefaultWindow
}

// Bounds resolves the flags to an inclusive day range. --within counts from
// --from when it is set, otherwise from today, and can not be combined with --to.
func (o *RangeOptions) Bounds(today api.Date) (from, to api.Date, err error) {
	if from, err = o.From.Date(); err != nil {
		return
	}
	if to, err = o.To.Date(); err != nil {
		return
	}
	if strings.TrimSpace(o.Within) == "" {
		return
	}
	if !to.IsZero() {
		return from, to, fmt.Errorf("--within and --to can not be used together")
	}
	window, err := timeutil.ParseWindow(o.Within)
	if err != nil {
		return from, to, err
	}
	if from.IsZero() {
		from = today
	}
	to = api.DateOf(from.Time().AddDate(0, 0, timeutil.Days(window)))
	return from, to, nil
}
