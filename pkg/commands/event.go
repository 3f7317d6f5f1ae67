package commands

import (
	"errors"
	"strings"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/taskodos/pkg/commands/options"
	"tableflip.dev/taskodos/pkg/runner/event"
)

func addEvent(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "event",
		Aliases: []string{"events"},
		Short:   "Add, edit or delete manual calendar events",
		Long: base.Wrap80("Manage calendar events. Events created from a todo's due date or a goal's " +
			"target date are maintained by the backend and can not be edited or deleted here."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addEventAdd(cmd)
	addEventEdit(cmd)
	addEventDelete(cmd)

	topLevel.AddCommand(cmd)
}

func addEventAdd(topLevel *cobra.Command) {
	do := &options.DateOptions{}
	var (
		title       string
		description string
	)

	cmd := &cobra.Command{
		Use:   "add <title> --on <date>",
		Short: "Add a calendar event",
		Example: `
taskodos event add Dentist --on 2024-07-04
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

			a := event.Add{
				Service:     s.svc,
				Title:       title,
				Description: description,
				Date:        do.Raw,
				Out:         cmd.OutOrStdout(),
			}
			err = a.Do(cmd.Context())
			return output.HandleError(err)
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Describe the event.")
	options.AddDateArg(cmd, do, "on", "Event date")
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}

func addEventEdit(topLevel *cobra.Command) {
	do := &options.DateOptions{}
	var (
		title       string
		description string
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a manual event; only the flags given are changed",
		Example: `
taskodos event edit 4 --on 2024-07-05
`,
		Args: options.ExactID,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := options.ParseID(args[0])
			s, err := newSession(nil)
			if err != nil {
				return output.HandleError(err)
			}
			defer s.Close()

			e := event.Edit{Service: s.svc, ID: id, Out: cmd.OutOrStdout()}
			if cmd.Flags().Changed("title") {
				e.Title = &title
			}
			if cmd.Flags().Changed("description") {
				e.Description = &description
			}
			if cmd.Flags().Changed("on") {
				e.Date = &do.Raw
			}
			err = e.Do(cmd.Context())
			return output.HandleError(err)
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "New title.")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description.")
	options.AddDateArg(cmd, do, "on", "Event date")
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}

func addEventDelete(topLevel *cobra.Command) {
	co := &options.ConfirmOptions{}

	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a manual calendar event",
		Example: `
taskodos event delete 4 --yes
`,
		Args: options.ExactID,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := options.ParseID(args[0])
			s, err := newSession(co.Confirmer(cmd.InOrStdin(), cmd.OutOrStdout()))
			if err != nil {
				return output.HandleError(err)
			}
			defer s.Close()

			d := event.Delete{Service: s.svc, ID: id, Out: cmd.OutOrStdout()}
			err = d.Do(cmd.Context())
			return output.HandleError(err)
		},
	}

	options.AddConfirmArg(cmd, co)
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
