package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/llehouerou/go-saleor-catalog/catalog"
)

func newPrintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "print <operation>",
		Short: "Print the document sent for an operation, fragments included",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			op, err := lookup(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(dedent(op.Document)))
			return err
		},
	}
}

func lookup(name string) (catalog.Operation, error) {
	op, ok := catalog.Lookup(name)
	if !ok {
		return catalog.Operation{}, fmt.Errorf("unknown operation %q, see 'saleor-catalog list'", name)
	}
	return op, nil
}

// dedent strips the two-space indentation the documents are written with.
func dedent(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, "  ")
	}
	return strings.Join(lines, "\n")
}
