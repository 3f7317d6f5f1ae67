package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/taskodos/pkg/app"
	"tableflip.dev/taskodos/pkg/runner/ui"
)

func addUI(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the text-based user interface",
		Example: `
taskodos ui
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			// The delete overlay asks before the service is called.
			s, err := newSession(app.AlwaysConfirm)
			if err != nil {
				return err
			}
			defer s.Close()

			i := ui.UI{
				Service:  s.svc,
				State:    s.state,
				Location: s.loc,
				Log:      s.log,
				In:       cmd.InOrStdin(),
				Out:      cmd.OutOrStdout(),
			}
			if s.archive != nil {
				i.Archive = s.archive
			}
			return i.Do(cmd.Context())
		},
	}

	topLevel.AddCommand(cmd)
}
