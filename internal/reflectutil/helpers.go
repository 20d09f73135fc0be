package reflectutil

import (
	"reflect"
	"strconv"
)

// IsTrue parses a string as a boolean value.
// Ignores parsing errors and returns false as the default.
func IsTrue(s string) bool {
	b, _ := strconv.ParseBool(s)
	return b
}

// IsIntegerKind reports whether kind maps to the GraphQL Int scalar.
func IsIntegerKind(kind reflect.Kind) bool {
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	default:
		return false
	}
}

// IsFloatKind reports whether kind maps to the GraphQL Float scalar.
func IsFloatKind(kind reflect.Kind) bool {
	return kind == reflect.Float32 || kind == reflect.Float64
}
