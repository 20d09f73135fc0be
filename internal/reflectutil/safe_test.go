package reflectutil

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

func TestIsNilValue(t *testing.T) {
	var nilPtr *int
	var nilSlice []int
	x := 1

	tests := []struct {
		name     string
		value    reflect.Value
		expected bool
	}{
		{"invalid", reflect.Value{}, true},
		{"nil pointer", reflect.ValueOf(nilPtr), true},
		{"nil slice", reflect.ValueOf(nilSlice), true},
		{"non-nil pointer", reflect.ValueOf(&x), false},
		{"int", reflect.ValueOf(3), false},
		{"struct", reflect.ValueOf(struct{}{}), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNilValue(tt.value); got != tt.expected {
				t.Errorf("IsNilValue() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestUnwrapToConcreteValue(t *testing.T) {
	x := 42
	px := &x
	ppx := &px

	v := UnwrapToConcreteValue(reflect.ValueOf(ppx))
	if !v.IsValid() || v.Int() != 42 {
		t.Fatalf("expected 42, got %v", v)
	}

	var nilPtr *int
	if UnwrapToConcreteValue(reflect.ValueOf(&nilPtr)).IsValid() {
		t.Error("expected invalid value when a nil pointer is met")
	}
}

func TestIndirect(t *testing.T) {
	if got := Indirect(reflect.TypeOf((**string)(nil))); got.Kind() != reflect.String {
		t.Errorf("Indirect(**string) = %v, expected string", got)
	}
	if got := Indirect(reflect.TypeOf(0)); got.Kind() != reflect.Int {
		t.Errorf("Indirect(int) = %v, expected int", got)
	}
}

func TestIsOpaqueScalar(t *testing.T) {
	tests := []struct {
		name     string
		typ      reflect.Type
		expected bool
	}{
		{"raw message", reflect.TypeOf(json.RawMessage{}), true},
		{"time", reflect.TypeOf(time.Time{}), true},
		{"plain struct", reflect.TypeOf(struct{ A int }{}), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsOpaqueScalar(tt.typ); got != tt.expected {
				t.Errorf("IsOpaqueScalar(%v) = %v, expected %v", tt.typ, got, tt.expected)
			}
		})
	}
}
