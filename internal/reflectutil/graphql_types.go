package reflectutil

import (
	"reflect"

	"github.com/llehouerou/go-saleor-catalog/types"
)

// ImplementsGraphQLType reports whether the given type implements the GraphQLType interface.
func ImplementsGraphQLType(t reflect.Type) bool {
	return t.Implements(types.GraphqlTypeInterface)
}

// GetGraphQLType extracts the GraphQL type name from a value that implements GraphQLType.
// Nil pointers and nil interfaces are rejected.
func GetGraphQLType(v reflect.Value, t reflect.Type) (string, bool) {
	if !ImplementsGraphQLType(t) || IsNilValue(v) {
		return "", false
	}

	graphqlType, ok := v.Interface().(types.GraphQLType)
	if !ok {
		return "", false
	}
	return graphqlType.GetGraphQLType(), true
}

// GetGraphQLTypeFromType extracts the GraphQL type name from a type (not value).
// This creates a zero value or pointer to call GetGraphQLType().
func GetGraphQLTypeFromType(t reflect.Type) (string, bool) {
	if !ImplementsGraphQLType(t) {
		return "", false
	}

	var graphqlType types.GraphQLType
	var ok bool

	if t.Kind() == reflect.Ptr {
		graphqlType, ok = reflect.New(t.Elem()).Interface().(types.GraphQLType)
	} else {
		graphqlType, ok = reflect.Zero(t).Interface().(types.GraphQLType)
	}

	if !ok {
		return "", false
	}

	return graphqlType.GetGraphQLType(), true
}
