package options

import (
	"errors"
	"io"
	"strconv"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"tableflip.dev/taskodos/pkg/app"
)

// ConfirmOptions
type ConfirmOptions struct {
	Yes bool
}

func AddConfirmArg(cmd *cobra.Command, o *ConfirmOptions) {
	cmd.Flags().BoolVarP(&o.Yes, "yes", "y", false,
		"Skip the confirmation prompt.")
}

// Confirmer returns the prompt used before destructive commands.
func (o *ConfirmOptions) Confirmer(in io.Reader, out io.Writer) app.Confirmer {
	if o.Yes {
		return app.AlwaysConfirm
	}
	return PromptConfirm(in, out)
}

// PromptConfirm asks a yes/no question on the terminal. Anything but an
// explicit yes declines.
func PromptConfirm(in io.Reader, out io.Writer) app.Confirmer {
	return func(question string) (bool, error) {
		validate := func(input string) error {
			if input == "" {
				return nil
			}
			_, err := ParseBool(input)
			return err
		}

		templates := &promptui.PromptTemplates{
			Prompt:  "{{ . }} [y/N] ",
			Valid:   "{{ . | green }} [y/N] ",
			Invalid: "{{ . | red }} [y/N] ",
			Success: "{{ . | bold }} ",
		}

		prompt := promptui.Prompt{
			Label:     question,
			Templates: templates,
			Validate:  validate,
			Stdin:     io.NopCloser(in),
			Stdout:    nopWriteCloser{out},
		}

		result, err := prompt.Run()
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		yes, _ := ParseBool(result)
		return yes, nil
	}
}

// ParseBool is strconv.ParseBool with the addition of Yes/No parsing.
func ParseBool(str string) (bool, error) {
	switch str {
	case "1", "t", "T", "true", "TRUE", "True", "y", "Y", "yes", "YES", "Yes":
		return true, nil
	case "0", "f", "F", "false", "FALSE", "False", "n", "N", "no", "NO", "No":
		return false, nil
	}
	return false, &strconv.NumError{Func: "ParseBool", Num: str, Err: strconv.ErrSyntax}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
