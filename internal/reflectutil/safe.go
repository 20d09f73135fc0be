package reflectutil

import (
	"encoding/json"
	"reflect"
)

var jsonUnmarshaler = reflect.TypeOf((*json.Unmarshaler)(nil)).Elem()

// IsNillable returns true if the given kind can hold a nil value.
func IsNillable(kind reflect.Kind) bool {
	switch kind {
	case reflect.Ptr,
		reflect.Interface,
		reflect.Slice,
		reflect.Map,
		reflect.Chan,
		reflect.Func:
		return true
	default:
		return false
	}
}

// IsNilValue safely checks if a reflect.Value is nil.
// Invalid values count as nil; non-nillable kinds never do.
func IsNilValue(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	return IsNillable(v.Kind()) && v.IsNil()
}

// UnwrapToConcreteValue unwraps pointers and interfaces to get to the concrete value.
// Returns an invalid reflect.Value if a nil is met on the way.
func UnwrapToConcreteValue(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

// Indirect strips every pointer level from t.
//
//	Indirect(reflect.TypeOf((**int)(nil))) // int
func Indirect(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

// IsOpaqueScalar reports whether a struct type decodes itself from JSON and
// must therefore be treated as a leaf, not expanded field by field.
func IsOpaqueScalar(t reflect.Type) bool {
	return t.Implements(jsonUnmarshaler) || reflect.PointerTo(t).Implements(jsonUnmarshaler)
}
