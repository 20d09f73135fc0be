package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	graphql "github.com/llehouerou/go-saleor-catalog"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		variables string
		output    string
	)
	cmd := &cobra.Command{
		Use:   "run <operation>",
		Short: "Execute an operation against the configured endpoint",
		Example: `  saleor-catalog run ProductList --variables '{"first": 5}'
  saleor-catalog run ProductDetails --variables @vars.json --output yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			op, err := lookup(args[0])
			if err != nil {
				return err
			}
			raw, err := readVariables(variables)
			if err != nil {
				return err
			}
			encode, err := encoder(output)
			if err != nil {
				return err
			}

			log := a.logger.WithFields(logrus.Fields{
				"operation": op.Name,
				"endpoint":  a.v.GetString(keyEndpoint),
			})
			log.Debug("running operation")

			res, runErr := op.Run(cmd.Context(), a.client(), raw)
			if res != nil {
				if err := encode(cmd.OutOrStdout(), res); err != nil {
					return err
				}
			}
			if runErr != nil {
				var gqlErrs graphql.Errors
				if errors.As(runErr, &gqlErrs) {
					for _, e := range gqlErrs {
						log.WithFields(logrus.Fields{
							"path": e.PathString(),
							"code": e.GetCode(),
						}).Error(e.Message)
					}
				}
				return fmt.Errorf("%s failed: %w", op.Name, runErr)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&variables, "variables", "V", "", "variables as a JSON object, or @file to read them from a file")
	cmd.Flags().StringVarP(&output, "output", "o", "json", "output format: json|yaml")
	return cmd
}

func readVariables(s string) (json.RawMessage, error) {
	if path, ok := strings.CutPrefix(s, "@"); ok {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read variables: %w", err)
		}
		s = string(b)
	}
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	if !json.Valid([]byte(s)) {
		return nil, errors.New("variables must be a JSON object")
	}
	return json.RawMessage(s), nil
}

type encodeFunc func(w io.Writer, v any) error

func encoder(format string) (encodeFunc, error) {
	switch format {
	case "json":
		return encodeJSON, nil
	case "yaml":
		return encodeYAML, nil
	}
	return nil, fmt.Errorf("unknown output format %q, use json or yaml", format)
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// encodeYAML goes through the JSON encoding so the json tags name the keys
// and the selection order of the document is kept.
func encodeYAML(w io.Writer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var node yaml.Node
	if err := yaml.Unmarshal(b, &node); err != nil {
		return err
	}
	blockStyle(&node)
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return err
	}
	return enc.Close()
}

// blockStyle drops the flow and quoting styles the JSON input carried.
// Strings that would read back as another type stay quoted.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}
