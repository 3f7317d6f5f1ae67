package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/taskodos/pkg/commands/options"
)

var (
	output = &options.OutputOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "taskodos",
		Short: base.Wrap80("Goals, todos and a calendar on the command line."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addUI(topLevel)
	addGet(topLevel)
	addGoal(topLevel)
	addTodo(topLevel)
	addEvent(topLevel)
	addMCP(topLevel)
	addInfo(topLevel)
	addVersion(topLevel)
}
