package graphql

import (
	"context"
	"errors"
	"reflect"
)

// TypedQuery binds a prepared document to the Go types of its response (R)
// and of its variables (V). It carries no state besides the document, so a
// single value can be shared by every caller.
//
//	var ProductDetails = graphql.NewTypedQuery[ProductDetailsData, ProductDetailsVariables](
//		"ProductDetails", ProductDetailsQuery,
//	)
//
//	data, err := ProductDetails.Execute(ctx, client, ProductDetailsVariables{ID: id})
type TypedQuery[R any, V any] struct {
	operationName string
	document      string
}

// NewTypedQuery binds document, whose operation is named operationName.
func NewTypedQuery[R any, V any](operationName, document string) TypedQuery[R, V] {
	return TypedQuery[R, V]{operationName: operationName, document: document}
}

// OperationName returns the name of the bound operation.
func (q TypedQuery[R, V]) OperationName() string { return q.operationName }

// Document returns the full document sent to the server, fragments included.
func (q TypedQuery[R, V]) Document() string { return q.document }

// ResultType returns the reflect.Type of R.
func (q TypedQuery[R, V]) ResultType() reflect.Type { return reflect.TypeOf((*R)(nil)).Elem() }

// VariablesType returns the reflect.Type of V.
func (q TypedQuery[R, V]) VariablesType() reflect.Type { return reflect.TypeOf((*V)(nil)).Elem() }

// Execute runs the query through exec. When the server answers with a
// GraphQL error list the result is still returned, holding whatever partial
// data came with it (e.g. a null product next to a "not found" error).
// Transport and decoding failures return a nil result.
func (q TypedQuery[R, V]) Execute(ctx context.Context, exec Executor, variables V) (*R, error) {
	var out R
	err := exec.Exec(ctx, q.document, &out, variables, OperationName(q.operationName))
	if err != nil {
		var gqlErrs Errors
		if errors.As(err, &gqlErrs) && hasPartialData(gqlErrs) {
			return &out, err
		}
		return nil, err
	}
	return &out, nil
}

// ExecuteRaw runs the query and returns the undecoded response data.
func (q TypedQuery[R, V]) ExecuteRaw(ctx context.Context, exec RawExecutor, variables V) ([]byte, error) {
	return exec.ExecRaw(ctx, q.document, variables, OperationName(q.operationName))
}

// hasPartialData reports whether the errors came from the server's error
// list rather than from the transport, in which case data may have been
// decoded alongside them.
func hasPartialData(errs Errors) bool {
	for _, e := range errs {
		switch e.GetCode() {
		case ErrRequestError, ErrJsonDecode, ErrJsonEncode, ErrGraphQLEncode, ErrGraphQLDecode:
			return false
		}
	}
	return true
}
