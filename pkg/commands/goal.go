package commands

import (
	"errors"
	"strings"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/taskodos/pkg/api"
	"tableflip.dev/taskodos/pkg/commands/options"
	"tableflip.dev/taskodos/pkg/runner/goal"
)

func addGoal(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "goal",
		Aliases: []string{"goals"},
		Short:   "Add, edit or delete goals",
		Long: base.Wrap80("Manage goals. A goal's target date shows up on the calendar, and deleting a goal " +
			"also deletes every todo attached to it."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addGoalAdd(cmd)
	addGoalEdit(cmd)
	addGoalDelete(cmd)

	topLevel.AddCommand(cmd)
}

func addGoalAdd(topLevel *cobra.Command) {
	do := &options.DateOptions{}
	var (
		title       string
		description string
		status      string
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a goal",
		Example: `
taskodos goal add Run a marathon --target 2024-10-13
`,
		Args: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if len(args) < 1 {
				return errors.New("requires a title")
			}
			title = strings.Join(args, " ")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := api.ParseGoalStatus(status)
			if err != nil {
				return output.HandleError(err)
			}
			s, err := newSession(nil)
			if err != nil {
				return output.HandleError(err)
			}
			defer s.Close()

			a := goal.Add{
				Service:     s.svc,
				Title:       title,
				Description: description,
				TargetDate:  do.Raw,
				Status:      st,
				Out:         cmd.OutOrStdout(),
			}
			err = a.Do(cmd.Context())
			return output.HandleError(err)
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Describe the goal.")
	cmd.Flags().StringVar(&status, "status", string(api.GoalActive), "One of active, completed or archived.")
	options.AddDateArg(cmd, do, "target", "Target date")
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}

func addGoalEdit(topLevel *cobra.Command) {
	do := &options.DateOptions{}
	var (
		title       string
		description string
		status      string
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a goal; only the flags given are changed",
		Example: `
taskodos goal edit 3 --status completed
taskodos goal edit 3 --target ""
`,
		Args: options.ExactID,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := options.ParseID(args[0])
			s, err := newSession(nil)
			if err != nil {
				return output.HandleError(err)
			}
			defer s.Close()

			e := goal.Edit{Service: s.svc, ID: id, Out: cmd.OutOrStdout()}
			if cmd.Flags().Changed("title") {
				e.Title = &title
			}
			if cmd.Flags().Changed("description") {
				e.Description = &description
			}
			if cmd.Flags().Changed("target") {
				e.TargetDate = &do.Raw
			}
			if cmd.Flags().Changed("status") {
				st, err := api.ParseGoalStatus(status)
				if err != nil {
					return output.HandleError(err)
				}
				e.Status = &st
			}
			err = e.Do(cmd.Context())
			return output.HandleError(err)
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "New title.")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description.")
	cmd.Flags().StringVar(&status, "status", "", "One of active, completed or archived.")
	options.AddDateArg(cmd, do, "target", "Target date, empty to clear")
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}

func addGoalDelete(topLevel *cobra.Command) {
	co := &options.ConfirmOptions{}

	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a goal and its todos",
		Example: `
taskodos goal delete 3
taskodos goal delete 3 --yes
`,
		Args: options.ExactID,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := options.ParseID(args[0])
			s, err := newSession(co.Confirmer(cmd.InOrStdin(), cmd.OutOrStdout()))
			if err != nil {
				return output.HandleError(err)
			}
			defer s.Close()

			d := goal.Delete{Service: s.svc, ID: id, Out: cmd.OutOrStdout()}
			err = d.Do(cmd.Context())
			return output.HandleError(err)
		},
	}

	options.AddConfirmArg(cmd, co)
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
