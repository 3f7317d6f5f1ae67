package commands

import (
	"fmt"
	"strings"
	"time"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/taskodos/pkg/api"
	"tableflip.dev/taskodos/pkg/commands/options"
	"tableflip.dev/taskodos/pkg/runner/get"
)

func addGet(topLevel *cobra.Command) {
	io := &options.IDOptions{}
	ro := &options.RangeOptions{}
	var (
		resource get.Resource
		cached   bool
	)

	validArgs := make([]string, 0, len(get.Resources()))
	for _, r := range get.Resources() {
		validArgs = append(validArgs, string(r))
	}

	cmd := &cobra.Command{
		Use:   "get [goals|todos|calendar|stats]",
		Short: "Print goals, todos, the calendar or stats",
		Long: base.Wrap80("Get everything, or one of " + strings.Join(validArgs, ", ") +
			". Reads the backend unless --cached is set, which prints the last archived snapshot instead."),
		Example: `
taskodos get
taskodos get todos
taskodos get calendar --upcoming
taskodos get calendar --from 2024-05-01 --to 2024-05-31
taskodos get calendar --within 2w
taskodos get goals --json
`,
		ValidArgs: validArgs,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return fmt.Errorf("expected at most one resource, got %d", len(args))
			}
			var err error
			if len(args) == 1 {
				resource, err = get.ParseResource(args[0])
			}
			return err
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			s, err := newSession(nil)
			if err != nil {
				return output.HandleError(err)
			}
			defer s.Close()

			from, to, err := ro.Bounds(api.DateOf(api.WallClock(time.Now(), s.loc)))
			if err != nil {
				return output.HandleError(err)
			}

			g := get.Get{
				Resource: resource,
				Upcoming: ro.Upcoming,
				From:     from,
				To:       to,
				JSON:     output.JSON,
				ShowID:   io.ShowID,
				Cached:   cached,
				State:    s.state,
				Ranger:   s.client,
				Location: s.loc,
				Out:      cmd.OutOrStdout(),
			}
			if s.archive != nil {
				g.Archive = s.archive
			}
			err = g.Do(cmd.Context())
			return output.HandleError(err)
		},
	}

	options.AddShowIDArgs(cmd, io)
	options.AddRangeArgs(cmd, ro)
	cmd.Flags().BoolVar(&cached, "cached", false,
		"Print the last archived snapshot without contacting the backend.")
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
