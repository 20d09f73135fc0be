package graphql

// ID is the GraphQL ID scalar. Saleor IDs are opaque base64 global ids.
type ID string

// GetGraphQLType names the variable type derived for ID values.
func (ID) GetGraphQLType() string { return "ID" }
