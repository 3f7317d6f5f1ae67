package options

import (
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// OutputOptions selects machine readable output.
type OutputOptions struct {
	JSON bool
}

func AddOutputArg(cmd *cobra.Command, po *OutputOptions) {
	cmd.Flags().BoolVar(&po.JSON, "json", false,
		"Output as JSON.")
}

// HandleError prints err as {"error": "..."} when JSON output is on and
// swallows it, otherwise it returns err unchanged.
func (o *OutputOptions) HandleError(err error) error {
	if o.JSON && err != nil {
		b, merr := sonic.ConfigDefault.Marshal(map[string]string{"error": err.Error()})
		if merr != nil {
			return merr
		}
		_, _ = fmt.Fprintln(color.Output, string(b))
		return nil
	}
	return err
}
