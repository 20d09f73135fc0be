// Package document inspects a single GraphQL executable document: its
// operation, the fragments it defines and spreads, the variables it declares
// and uses, and the response shape it selects.
package document

import (
	"errors"
	"fmt"
	"sort"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"

	"github.com/llehouerou/go-saleor-catalog/internal/shape"
	"github.com/llehouerou/go-saleor-catalog/types"
)

// Document is a parsed executable document.
type Document struct {
	Name   string
	Source string

	doc *ast.QueryDocument
}

// Parse parses source. name is only used in error positions.
func Parse(name, source string) (*Document, error) {
	doc, err := parser.ParseQuery(&ast.Source{Name: name, Input: source})
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return &Document{Name: name, Source: source, doc: doc}, nil
}

// Operation returns the single operation of the document, or nil when the
// document holds zero or several operations.
func (d *Document) Operation() *ast.OperationDefinition {
	if len(d.doc.Operations) != 1 {
		return nil
	}
	return d.doc.Operations[0]
}

// OperationNames lists every operation name in source order.
func (d *Document) OperationNames() []string {
	names := make([]string, 0, len(d.doc.Operations))
	for _, op := range d.doc.Operations {
		names = append(names, op.Name)
	}
	return names
}

// FragmentDefinitions counts how many times each fragment name is defined.
func (d *Document) FragmentDefinitions() map[string]int {
	out := make(map[string]int, len(d.doc.Fragments))
	for _, f := range d.doc.Fragments {
		out[f.Name]++
	}
	return out
}

// FragmentSpreads returns every fragment name spread anywhere in the
// document, sorted and deduplicated.
func (d *Document) FragmentSpreads() []string {
	seen := map[string]bool{}
	var walk func(ast.SelectionSet)
	walk = func(set ast.SelectionSet) {
		for _, sel := range set {
			switch node := sel.(type) {
			case *ast.Field:
				walk(node.SelectionSet)
			case *ast.FragmentSpread:
				seen[node.Name] = true
			case *ast.InlineFragment:
				walk(node.SelectionSet)
			}
		}
	}
	for _, op := range d.doc.Operations {
		walk(op.SelectionSet)
	}
	for _, f := range d.doc.Fragments {
		walk(f.SelectionSet)
	}
	return sortedKeys(seen)
}

// DeclaredVariables maps each variable declared by the operation to its
// GraphQL type, e.g. "id" -> "ID!".
func (d *Document) DeclaredVariables() map[string]string {
	out := map[string]string{}
	op := d.Operation()
	if op == nil {
		return out
	}
	for _, v := range op.VariableDefinitions {
		out[v.Variable] = v.Type.String()
	}
	return out
}

// UsedVariables lists the variables referenced by the operation body and by
// every fragment reachable from it, sorted.
func (d *Document) UsedVariables() []string {
	op := d.Operation()
	if op == nil {
		return nil
	}
	used := map[string]bool{}
	visited := map[string]bool{}
	var walk func(ast.SelectionSet)
	walk = func(set ast.SelectionSet) {
		for _, sel := range set {
			switch node := sel.(type) {
			case *ast.Field:
				collectArguments(used, node.Arguments)
				collectDirectives(used, node.Directives)
				walk(node.SelectionSet)
			case *ast.FragmentSpread:
				collectDirectives(used, node.Directives)
				if visited[node.Name] {
					continue
				}
				visited[node.Name] = true
				if f := d.doc.Fragments.ForName(node.Name); f != nil {
					walk(f.SelectionSet)
				}
			case *ast.InlineFragment:
				collectDirectives(used, node.Directives)
				walk(node.SelectionSet)
			}
		}
	}
	collectDirectives(used, op.Directives)
	walk(op.SelectionSet)
	return sortedKeys(used)
}

// ResponseShape returns the keys the operation's response carries, with
// fragment spreads expanded and aliases used as keys.
func (d *Document) ResponseShape() (shape.Fields, error) {
	op := d.Operation()
	if op == nil {
		return nil, fmt.Errorf("%s: expected exactly one operation, got %d", d.Name, len(d.doc.Operations))
	}
	return d.expand(op.SelectionSet, map[string]bool{})
}

// FragmentShape returns the expanded selection of the named fragment.
func (d *Document) FragmentShape(name string) (shape.Fields, error) {
	f := d.doc.Fragments.ForName(name)
	if f == nil {
		return nil, fmt.Errorf("%s: fragment %q is not defined", d.Name, name)
	}
	return d.expand(f.SelectionSet, map[string]bool{name: true})
}

func (d *Document) expand(set ast.SelectionSet, visiting map[string]bool) (shape.Fields, error) {
	fields := shape.Fields{}
	for _, sel := range set {
		switch node := sel.(type) {
		case *ast.Field:
			if node.Name == types.TypenameField {
				continue
			}
			key := node.Alias
			if key == "" {
				key = node.Name
			}
			var children shape.Fields
			if len(node.SelectionSet) > 0 {
				var err error
				children, err = d.expand(node.SelectionSet, visiting)
				if err != nil {
					return nil, err
				}
			}
			fields = fields.Merge(shape.Fields{{Name: key, Children: children}})
		case *ast.FragmentSpread:
			if visiting[node.Name] {
				return nil, fmt.Errorf("%s: fragment %q spreads itself", d.Name, node.Name)
			}
			f := d.doc.Fragments.ForName(node.Name)
			if f == nil {
				return nil, fmt.Errorf("%s: fragment %q is not defined", d.Name, node.Name)
			}
			visiting[node.Name] = true
			inner, err := d.expand(f.SelectionSet, visiting)
			delete(visiting, node.Name)
			if err != nil {
				return nil, err
			}
			fields = fields.Merge(inner)
		case *ast.InlineFragment:
			inner, err := d.expand(node.SelectionSet, visiting)
			if err != nil {
				return nil, err
			}
			fields = fields.Merge(inner)
		}
	}
	return fields, nil
}

// Check verifies the structural contract every catalog document keeps:
// a single named operation, every spread fragment defined exactly once, no
// unused fragment definitions, and declared variables equal to used ones.
// All violations are reported together.
func (d *Document) Check() error {
	var errs []error

	op := d.Operation()
	switch {
	case op == nil:
		errs = append(errs, fmt.Errorf("%s: expected exactly one operation, got %d", d.Name, len(d.doc.Operations)))
	case op.Name == "":
		errs = append(errs, fmt.Errorf("%s: operation is anonymous", d.Name))
	}

	defined := d.FragmentDefinitions()
	spread := map[string]bool{}
	for _, name := range d.FragmentSpreads() {
		spread[name] = true
		switch n := defined[name]; {
		case n == 0:
			errs = append(errs, fmt.Errorf("%s: fragment %q is spread but not defined", d.Name, name))
		case n > 1:
			errs = append(errs, fmt.Errorf("%s: fragment %q is defined %d times", d.Name, name, n))
		}
	}
	for _, name := range sortedKeys(defined) {
		if !spread[name] {
			errs = append(errs, fmt.Errorf("%s: fragment %q is defined but never spread", d.Name, name))
		}
	}

	if op != nil {
		declared := d.DeclaredVariables()
		used := map[string]bool{}
		for _, name := range d.UsedVariables() {
			used[name] = true
			if _, ok := declared[name]; !ok {
				errs = append(errs, fmt.Errorf("%s: variable $%s is used but not declared", d.Name, name))
			}
		}
		for _, name := range sortedKeys(declared) {
			if !used[name] {
				errs = append(errs, fmt.Errorf("%s: variable $%s is declared but never used", d.Name, name))
			}
		}
	}

	if op != nil && len(errs) == 0 {
		if _, err := d.ResponseShape(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Validate runs the full GraphQL validation rules against schema, catching
// fields, arguments or type conditions the schema does not have.
func (d *Document) Validate(schema *ast.Schema) error {
	_, list := gqlparser.LoadQuery(schema, d.Source)
	if len(list) == 0 {
		return nil
	}
	errs := make([]error, 0, len(list))
	for _, e := range list {
		errs = append(errs, fmt.Errorf("%s: %w", d.Name, e))
	}
	return errors.Join(errs...)
}

func collectArguments(used map[string]bool, args ast.ArgumentList) {
	for _, arg := range args {
		collectValue(used, arg.Value)
	}
}

func collectDirectives(used map[string]bool, directives ast.DirectiveList) {
	for _, dir := range directives {
		collectArguments(used, dir.Arguments)
	}
}

func collectValue(used map[string]bool, v *ast.Value) {
	if v == nil {
		return
	}
	if v.Kind == ast.Variable {
		used[v.Raw] = true
		return
	}
	for _, child := range v.Children {
		collectValue(used, child.Value)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
