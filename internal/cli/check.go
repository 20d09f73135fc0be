package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/llehouerou/go-saleor-catalog/catalog"
	"github.com/llehouerou/go-saleor-catalog/schema"
)

func newCheckCmd() *cobra.Command {
	var schemaFile string
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify the catalog documents and validate them against a schema",
		Long: `Verify the structure of every document (fragments, variables, result
types) and validate each one against a GraphQL schema. The embedded product
schema is used unless --schema points at an SDL file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSchema(schemaFile)
			if err != nil {
				return err
			}
			err = errors.Join(catalog.Verify(), catalog.Validate(s))
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
				return errors.New("catalog check failed")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d operations ok\n", len(catalog.Operations()))
			return nil
		},
	}
	cmd.Flags().StringVar(&schemaFile, "schema", "", "SDL file to validate against")
	return cmd
}

func loadSchema(path string) (*ast.Schema, error) {
	if path == "" {
		return schema.Load()
	}
	sdl, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return schema.Parse(path, string(sdl))
}
