package types

import "reflect"

// GraphQLType is implemented by Go types that name their own GraphQL input
// type when a variables signature is derived from them.
type GraphQLType interface {
	GetGraphQLType() string
}

// GraphqlTypeInterface is the reflect.Type of GraphQLType.
var GraphqlTypeInterface = reflect.TypeOf((*GraphQLType)(nil)).Elem()
