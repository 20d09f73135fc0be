// Package shape describes the response shape of a GraphQL operation as a tree
// of response keys, and derives the same tree from the Go type a response is
// decoded into.
package shape

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/llehouerou/go-saleor-catalog/internal/reflectutil"
	"github.com/llehouerou/go-saleor-catalog/internal/tagparser"
	"github.com/llehouerou/go-saleor-catalog/types"
)

// Field is a single response key and the selection beneath it.
// Children is nil for leaves.
type Field struct {
	Name     string
	Children Fields
}

// Fields is an ordered selection. Names are unique within one level.
type Fields []*Field

// Lookup returns the field named name, or nil.
func (fs Fields) Lookup(name string) *Field {
	for _, f := range fs {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Names returns the response keys of this level, in selection order.
func (fs Fields) Names() []string {
	names := make([]string, 0, len(fs))
	for _, f := range fs {
		names = append(names, f.Name)
	}
	return names
}

// Merge folds other into fs. Fields selected on both sides have their
// children merged, the way GraphQL merges repeated selections.
func (fs Fields) Merge(other Fields) Fields {
	for _, o := range other {
		existing := fs.Lookup(o.Name)
		if existing == nil {
			fs = append(fs, &Field{Name: o.Name, Children: Fields(nil).Merge(o.Children)})
			continue
		}
		if o.Children != nil {
			existing.Children = existing.Children.Merge(o.Children)
		}
	}
	return fs
}

// Paths flattens the tree into sorted dotted paths, e.g. "product.price.amount".
func (fs Fields) Paths() []string {
	var out []string
	var walk func(prefix string, level Fields)
	walk = func(prefix string, level Fields) {
		for _, f := range level {
			p := f.Name
			if prefix != "" {
				p = prefix + "." + f.Name
			}
			out = append(out, p)
			walk(p, f.Children)
		}
	}
	walk("", fs)
	sort.Strings(out)
	return out
}

// String renders the selection minified.
//
// E.g., {product{id,price{amount,currency}}}.
func (fs Fields) String() string {
	var b strings.Builder
	fs.write(&b)
	return b.String()
}

func (fs Fields) write(b *strings.Builder) {
	b.WriteString("{")
	for i, f := range fs {
		if i != 0 {
			b.WriteString(",")
		}
		b.WriteString(f.Name)
		if f.Children != nil {
			f.Children.write(b)
		}
	}
	b.WriteString("}")
}

// Diff compares an expected selection against an actual one and reports
// every path present on one side only, plus leaf/object disagreements.
// An empty result means both shapes are identical.
func Diff(want, got Fields) []string {
	var out []string
	diff(&out, "", want, got)
	sort.Strings(out)
	return out
}

func diff(out *[]string, prefix string, want, got Fields) {
	join := func(name string) string {
		if prefix == "" {
			return name
		}
		return prefix + "." + name
	}
	for _, w := range want {
		g := got.Lookup(w.Name)
		path := join(w.Name)
		switch {
		case g == nil:
			*out = append(*out, "missing "+path)
		case (w.Children == nil) != (g.Children == nil):
			*out = append(*out, "leaf/object mismatch at "+path)
		default:
			diff(out, path, w.Children, g.Children)
		}
	}
	for _, g := range got {
		if want.Lookup(g.Name) == nil {
			*out = append(*out, "unexpected "+join(g.Name))
		}
	}
}

// FromType derives the selection a value of type t can hold, reading
// response keys from json tags. Anonymous struct fields without a json name
// are inlined into their parent, matching how encoding/json promotes them;
// this is how fragment spreads are expressed in Go.
//
// E.g., struct{Product *struct{ID string `json:"id"`} `json:"product"`} -> {product{id}}.
func FromType(t reflect.Type) (Fields, error) {
	t = reflectutil.Indirect(t)
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("shape of %v: expected a struct", t)
	}
	return (&walker{visiting: map[reflect.Type]bool{}}).structFields(t)
}

type walker struct {
	visiting map[reflect.Type]bool
}

// typeFields returns nil for types that decode as leaves.
func (w *walker) typeFields(t reflect.Type) (Fields, error) {
	t = reflectutil.Indirect(t)
	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		return w.typeFields(t.Elem())
	case reflect.Map:
		return nil, fmt.Errorf("type %v is not supported, use a struct", t)
	case reflect.Struct:
		if reflectutil.IsOpaqueScalar(t) {
			return nil, nil
		}
		return w.structFields(t)
	}
	return nil, nil
}

func (w *walker) structFields(t reflect.Type) (Fields, error) {
	if w.visiting[t] {
		return nil, fmt.Errorf("recursive type %v cannot describe a finite selection", t)
	}
	w.visiting[t] = true
	defer delete(w.visiting, t)

	fields := Fields{}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() && !f.Anonymous {
			continue
		}
		tag := tagparser.ParseJSONTag(f.Tag.Get(types.JSONTag))
		if tag.Skip {
			continue
		}

		if f.Anonymous && tag.Name == "" {
			inner := reflectutil.Indirect(f.Type)
			if inner.Kind() == reflect.Struct && !reflectutil.IsOpaqueScalar(inner) {
				promoted, err := w.structFields(inner)
				if err != nil {
					return nil, fmt.Errorf("embedded `%v`: %w", f.Name, err)
				}
				fields = fields.Merge(promoted)
				continue
			}
			if !f.IsExported() {
				continue
			}
		}

		name := tag.Name
		if name == "" {
			name = f.Name
		}

		var children Fields
		if !reflectutil.IsTrue(f.Tag.Get(types.ScalarTag)) {
			var err error
			children, err = w.typeFields(f.Type)
			if err != nil {
				return nil, fmt.Errorf("field `%v`: %w", f.Name, err)
			}
		}
		fields = fields.Merge(Fields{{Name: name, Children: children}})
	}
	return fields, nil
}
