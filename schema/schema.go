// Package schema embeds the product catalog subset of the Saleor GraphQL
// schema. The fake backend serves it and the catalog documents are validated
// against it.
package schema

import (
	_ "embed"
	"fmt"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

// ProductsSDL is the schema definition served by the fake backend.
//
//go:embed products.graphql
var ProductsSDL string

// Load parses ProductsSDL.
func Load() (*ast.Schema, error) {
	return Parse("products.graphql", ProductsSDL)
}

// Parse parses an SDL document into a schema, e.g. one dumped from a live
// Saleor instance.
func Parse(name, sdl string) (*ast.Schema, error) {
	s, err := gqlparser.LoadSchema(&ast.Source{Name: name, Input: sdl})
	if err != nil {
		return nil, fmt.Errorf("load schema %s: %w", name, err)
	}
	return s, nil
}
