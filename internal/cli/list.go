package cli

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/llehouerou/go-saleor-catalog/catalog"
	"github.com/llehouerou/go-saleor-catalog/internal/document"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the catalog operations and their variables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "OPERATION\tVARIABLES")
			for _, op := range catalog.Operations() {
				doc, err := document.Parse(op.Name, op.Document)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%s\n", op.Name, signature(doc.DeclaredVariables()))
			}
			return w.Flush()
		},
	}
}

// signature renders declared variables as "$id: ID!, $first: Int", sorted.
func signature(vars map[string]string) string {
	if len(vars) == 0 {
		return "-"
	}
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, "$"+name+": "+vars[name])
	}
	return strings.Join(parts, ", ")
}
