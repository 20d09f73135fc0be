// Package catalog declares the GraphQL documents the Saleor dashboard uses for
// its product views, and binds each one to the Go types of its response and
// variables.
//
//	client := graphql.NewClient("https://demo.saleor.io/graphql/", nil)
//	data, err := catalog.ProductDetails.Execute(ctx, client, catalog.ProductDetailsVariables{ID: id})
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	graphql "github.com/llehouerou/go-saleor-catalog"
)

// Operation describes one catalog operation for tooling that handles them
// generically.
type Operation struct {
	Name          string
	Document      string
	ResultType    reflect.Type
	VariablesType reflect.Type

	// Run decodes variables, a JSON object, into the operation's variables
	// type, executes it and returns a pointer to the decoded result. Unknown
	// variables are rejected.
	Run func(ctx context.Context, exec graphql.Executor, variables json.RawMessage) (any, error)
}

// Variables maps each variable of the operation to the GraphQL type its Go
// field stands for.
func (o Operation) Variables() (map[string]string, error) {
	return graphql.VariableDefinitions(reflect.New(o.VariablesType).Elem().Interface())
}

func newOperation[R any, V any](q graphql.TypedQuery[R, V]) Operation {
	return Operation{
		Name:          q.OperationName(),
		Document:      q.Document(),
		ResultType:    q.ResultType(),
		VariablesType: q.VariablesType(),
		Run: func(ctx context.Context, exec graphql.Executor, raw json.RawMessage) (any, error) {
			var variables V
			if len(bytes.TrimSpace(raw)) > 0 {
				dec := json.NewDecoder(bytes.NewReader(raw))
				dec.DisallowUnknownFields()
				if err := dec.Decode(&variables); err != nil {
					return nil, fmt.Errorf("%s: decode variables: %w", q.OperationName(), err)
				}
			}
			res, err := q.Execute(ctx, exec, variables)
			if res == nil {
				return nil, err
			}
			return res, err
		},
	}
}

// Operations lists the catalog in dependency order.
func Operations() []Operation {
	return []Operation{
		newOperation(ProductList),
		newOperation(ProductDetails),
		newOperation(ProductVariantDetails),
		newOperation(ProductCreateData),
		newOperation(ProductVariantCreateData),
		newOperation(ProductImageByID),
	}
}

// Lookup finds an operation by its GraphQL name, ignoring case.
func Lookup(name string) (Operation, bool) {
	for _, op := range Operations() {
		if strings.EqualFold(op.Name, name) {
			return op, true
		}
	}
	return Operation{}, false
}
