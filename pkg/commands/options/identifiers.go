package options

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// IDOptions
type IDOptions struct {
	ShowID bool
}

func AddShowIDArgs(cmd *cobra.Command, o *IDOptions) {
	cmd.Flags().BoolVarP(&o.ShowID, "show-id", "k", false,
		"Show the ID of each goal, todo and event.")
}

// ParseID reads a positive numeric identifier.
func ParseID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

// ExactID is a cobra.PositionalArgs requiring a single id argument.
func ExactID(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	if len(args) != 1 {
		return fmt.Errorf("requires exactly one id")
	}
	_, err := ParseID(args[0])
	return err
}
