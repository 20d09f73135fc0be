package types

// GraphQL-related constants shared by the client, the document analysis and
// the response-shape walker.
const (
	// JSONTag is the struct tag carrying the response key of a field.
	JSONTag = "json"

	// ScalarTag marks a struct-typed field as a GraphQL scalar so the
	// shape walker does not descend into it.
	ScalarTag = "scalar"

	// TypenameField is the introspection field used for type
	// discrimination. It never needs a Go counterpart.
	TypenameField = "__typename"

	// FragmentPrefix prefixes a fragment spread in a document.
	FragmentPrefix = "..."
)
