package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Yaksh36/mcp-server-bedrock-image/pkg/dispatch"
)

// needsBackend reports whether the named operation calls Bedrock.
// Unknown names return false so dispatch can report them as not found.
func needsBackend(name string) bool {
	for _, op := range dispatch.NewService(dispatch.Options{}).Operations() {
		if op.Name == name {
			return op.Backend
		}
	}
	return false
}

func newToolsCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List available operations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd.Context(), false)
			if err != nil {
				return err
			}
			ops := svc.Operations()

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), ops)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tBACKEND\tDESCRIPTION")
			for _, op := range ops {
				backend := "local"
				if op.Backend {
					backend = "bedrock"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", op.Name, backend, op.Description)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print operations as JSON")

	return cmd
}
