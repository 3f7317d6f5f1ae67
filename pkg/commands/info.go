package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/taskodos/pkg/config"
	"tableflip.dev/taskodos/pkg/runner/info"
	"tableflip.dev/taskodos/pkg/store"
)

func addInfo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Where taskodos reads its settings and keeps its snapshot.",
		Example: `
taskodos info
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			cfg, err := config.Load()
			if err != nil {
				return output.HandleError(err)
			}
			s := info.Info{
				Config: cfg,
				Out:    cmd.OutOrStdout(),
			}
			if cfg.DataPath != "" {
				if archive, err := store.Open(cfg.DataPath); err == nil {
					s.Archive = archive
				}
			}
			err = s.Do(cmd.Context())
			return output.HandleError(err)
		},
	}

	topLevel.AddCommand(cmd)
}
