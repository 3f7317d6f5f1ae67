package commands

import (
	"errors"
	"strings"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/taskodos/pkg/app"
	"tableflip.dev/taskodos/pkg/commands/options"
	"tableflip.dev/taskodos/pkg/runner/todo"
	"tableflip.dev/taskodos/pkg/views"
)

func addTodo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "todo",
		Aliases: []string{"todos"},
		Short:   "Add, edit, toggle or delete todos",
		Long: base.Wrap80("Manage todos. A todo may belong to one active goal, and its due date " +
			"shows up on the calendar until the todo is deleted."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addTodoAdd(cmd)
	addTodoEdit(cmd)
	addTodoToggle(cmd)
	addTodoDelete(cmd)

	topLevel.AddCommand(cmd)
}

func addTodoAdd(topLevel *cobra.Command) {
	do := &options.DateOptions{}
	i := &options.InteractiveOptions{}
	var (
		title       string
		description string
		goalID      string
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a todo",
		Example: `
taskodos todo add Learn React --due 2024-12-31
taskodos todo add Long run --goal 3
taskodos todo add Long run -i
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
			s, err := newSession(nil)
			if err != nil {
				return output.HandleError(err)
			}
			defer s.Close()

			if i.Interactive {
				if err := s.svc.Refresh(cmd.Context()); err != nil {
					return output.HandleError(err)
				}
				opts := app.GoalOptions(views.AssignableGoals(s.svc.Snapshot().Goals))
				if goalID, err = options.PickGoal(opts, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
					return output.HandleError(err)
				}
			}

			a := todo.Add{
				Service:     s.svc,
				Title:       title,
				Description: description,
				DueDate:     do.Raw,
				GoalID:      goalID,
				Out:         cmd.OutOrStdout(),
			}
			err = a.Do(cmd.Context())
			return output.HandleError(err)
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Describe the todo.")
	cmd.Flags().StringVarP(&goalID, "goal", "g", "", "Attach the todo to this goal id.")
	options.AddDateArg(cmd, do, "due", "Due date")
	options.InteractiveArgs(cmd, i)
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}

func addTodoEdit(topLevel *cobra.Command) {
	do := &options.DateOptions{}
	var (
		title       string
		description string
		goalID      string
		completed   bool
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a todo; only the flags given are changed",
		Example: `
taskodos todo edit 7 --due 2025-01-15
taskodos todo edit 7 --goal ""
`,
		Args: options.ExactID,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := options.ParseID(args[0])
			s, err := newSession(nil)
			if err != nil {
				return output.HandleError(err)
			}
			defer s.Close()

			e := todo.Edit{Service: s.svc, ID: id, Out: cmd.OutOrStdout()}
			if cmd.Flags().Changed("title") {
				e.Title = &title
			}
			if cmd.Flags().Changed("description") {
				e.Description = &description
			}
			if cmd.Flags().Changed("due") {
				e.DueDate = &do.Raw
			}
			if cmd.Flags().Changed("goal") {
				e.GoalID = &goalID
			}
			if cmd.Flags().Changed("completed") {
				e.Completed = &completed
			}
			err = e.Do(cmd.Context())
			return output.HandleError(err)
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "New title.")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description.")
	cmd.Flags().StringVarP(&goalID, "goal", "g", "", "Goal id, empty to detach.")
	cmd.Flags().BoolVar(&completed, "completed", false, "Mark completed or, with =false, pending.")
	options.AddDateArg(cmd, do, "due", "Due date, empty to clear")
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}

func addTodoToggle(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "toggle <id>",
		Aliases: []string{"done", "complete"},
		Short:   "Flip a todo between pending and completed",
		Example: `
taskodos todo toggle 7
`,
		Args: options.ExactID,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := options.ParseID(args[0])
			s, err := newSession(nil)
			if err != nil {
				return output.HandleError(err)
			}
			defer s.Close()

			t := todo.Toggle{Service: s.svc, ID: id, Out: cmd.OutOrStdout()}
			err = t.Do(cmd.Context())
			return output.HandleError(err)
		},
	}

	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}

func addTodoDelete(topLevel *cobra.Command) {
	co := &options.ConfirmOptions{}

	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a todo",
		Example: `
taskodos todo delete 7
`,
		Args: options.ExactID,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := options.ParseID(args[0])
			s, err := newSession(co.Confirmer(cmd.InOrStdin(), cmd.OutOrStdout()))
			if err != nil {
				return output.HandleError(err)
			}
			defer s.Close()

			d := todo.Delete{Service: s.svc, ID: id, Out: cmd.OutOrStdout()}
			err = d.Do(cmd.Context())
			return output.HandleError(err)
		},
	}

	options.AddConfirmArg(cmd, co)
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
