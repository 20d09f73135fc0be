package graphql

import (
	"bytes"
	"fmt"
	"io"
	"reflect"
	"sort"

	"github.com/llehouerou/go-saleor-catalog/internal/reflectutil"
	"github.com/llehouerou/go-saleor-catalog/internal/tagparser"
	"github.com/llehouerou/go-saleor-catalog/types"
)

// VariableDefinitions maps every variable a Go value provides to the GraphQL
// type it stands for. Pointers are nullable, values are non-null, and types
// implementing types.GraphQLType name themselves.
//
// E.g., struct{ID ID `json:"id"`; First *int `json:"first,omitempty"`} ->
// {"id": "ID!", "first": "Int"}.
func VariableDefinitions(variables any) (map[string]string, error) {
	out := map[string]string{}
	switch v := variables.(type) {
	case nil:
		return out, nil
	case map[string]any:
		for k, val := range v {
			var buf bytes.Buffer
			writeArgumentType(&buf, reflect.TypeOf(val), val, true)
			out[k] = buf.String()
		}
		return out, nil
	}

	t := reflectutil.Indirect(reflect.TypeOf(variables))
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("variables must be a struct or a map; got %T", variables)
	}
	for _, f := range collectArgumentFields(t) {
		var buf bytes.Buffer
		writeArgumentType(&buf, f.fieldType, nil, true)
		out[f.jsonName] = buf.String()
	}
	return out, nil
}

// VariableSignature renders the minified variables signature of a Go value,
// sorted by name.
//
// E.g., map[string]any{"a": int(123), "b": true} -> "$a:Int!$b:Boolean!".
func VariableSignature(variables any) (string, error) {
	defs, err := VariableDefinitions(variables)
	if err != nil {
		return "", err
	}
	names := make([]string, 0, len(defs))
	for k := range defs {
		names = append(names, k)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	for _, k := range names {
		_, _ = io.WriteString(&buf, "$")
		_, _ = io.WriteString(&buf, k)
		_, _ = io.WriteString(&buf, ":")
		_, _ = io.WriteString(&buf, defs[k])
	}
	return buf.String(), nil
}

// argumentFieldInfo holds information about a struct field used as a variable.
type argumentFieldInfo struct {
	jsonName  string
	fieldType reflect.Type
}

// collectArgumentFields returns the exported, json-tagged fields of t sorted
// by json name. Embedded structs contribute their own fields.
func collectArgumentFields(t reflect.Type) []argumentFieldInfo {
	var fields []argumentFieldInfo

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := tagparser.ParseJSONTag(field.Tag.Get(types.JSONTag))
		if tag.Skip {
			continue
		}

		if field.Anonymous && tag.Name == "" {
			inner := reflectutil.Indirect(field.Type)
			if inner.Kind() == reflect.Struct {
				fields = append(fields, collectArgumentFields(inner)...)
				continue
			}
		}

		// Unexported fields and fields without a json name are not variables.
		if !field.IsExported() || tag.Name == "" {
			continue
		}

		fields = append(fields, argumentFieldInfo{
			jsonName:  tag.Name,
			fieldType: field.Type,
		})
	}

	sort.Slice(fields, func(i, j int) bool {
		return fields[i].jsonName < fields[j].jsonName
	})

	return fields
}

// writeArgumentType writes a minified GraphQL type for t to w.
// value indicates whether t is a value (required) type or pointer (optional) type.
// If value is true, then "!" is written at the end of t.
func writeArgumentType(w io.Writer, t reflect.Type, v any, value bool) {
	if t == nil {
		// untyped nil in a map: nothing to infer, treat as a nullable String
		_, _ = io.WriteString(w, "String")
		return
	}

	if reflectutil.ImplementsGraphQLType(t) {
		value = value && t.Kind() != reflect.Ptr
		var typeName string
		var ok bool

		if v != nil {
			typeName, ok = reflectutil.GetGraphQLType(reflect.ValueOf(v), t)
		}
		if !ok {
			typeName, ok = reflectutil.GetGraphQLTypeFromType(t)
		}

		if ok {
			_, _ = io.WriteString(w, typeName)
			if value {
				_, _ = io.WriteString(w, "!")
			}
			return
		}
	}

	if t.Kind() == reflect.Ptr {
		// Pointer is an optional type, so no "!" at the end of the pointer's underlying type.
		writeArgumentType(w, t.Elem(), nil, false)
		return
	}

	switch {
	case reflectutil.IsIntegerKind(t.Kind()):
		_, _ = io.WriteString(w, "Int")
	case reflectutil.IsFloatKind(t.Kind()):
		_, _ = io.WriteString(w, "Float")
	case t.Kind() == reflect.Bool:
		_, _ = io.WriteString(w, "Boolean")
	case t.Kind() == reflect.Slice || t.Kind() == reflect.Array:
		// List. E.g., "[Int!]".
		_, _ = io.WriteString(w, "[")
		writeArgumentType(w, t.Elem(), nil, true)
		_, _ = io.WriteString(w, "]")
	default:
		n := t.Name()
		if n == "string" {
			n = "String"
		}
		_, _ = io.WriteString(w, n)
	}

	if value {
		_, _ = io.WriteString(w, "!")
	}
}
