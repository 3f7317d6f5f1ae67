package options

import (
	"io"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"tableflip.dev/taskodos/pkg/app"
)

// InteractiveOptions
type InteractiveOptions struct {
	Interactive bool
}

func InteractiveArgs(cmd *cobra.Command, o *InteractiveOptions) {
	cmd.Flags().BoolVarP(&o.Interactive, "interactive", "i", false,
		`Pick the goal from a list instead of passing --goal.`)
}

// PickGoal lets the user choose among opts. The returned value is the goal
// id as text, or empty for a standalone todo.
func PickGoal(opts []app.GoalOption, in io.Reader, out io.Writer) (string, error) {
	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}?",
		Active:   "➜  {{ .Label | bold }}",
		Inactive: "   {{ .Label }}",
		Selected: "{{ .Label | green }}",
	}

	searcher := func(input string, index int) bool {
		label := strings.ReplaceAll(strings.ToLower(opts[index].Label), " ", "")
		input = strings.ReplaceAll(strings.ToLower(input), " ", "")
		return strings.Contains(label, input)
	}

	prompt := promptui.Select{
		HideHelp:  true,
		Label:     "Goal",
		Items:     opts,
		Templates: templates,
		Size:      10,
		Searcher:  searcher,
		Stdin:     io.NopCloser(in),
		Stdout:    nopWriteCloser{out},
	}

	i, _, err := prompt.Run()
	if err != nil {
		return "", err
	}
	return opts[i].Value, nil
}
