package catalog

import (
	"errors"
	"fmt"
	"reflect"
	"sort"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/llehouerou/go-saleor-catalog/internal/document"
	"github.com/llehouerou/go-saleor-catalog/internal/shape"
)

// FragmentTypes maps each fragment name to the Go type holding its
// selection.
var FragmentTypes = map[string]reflect.Type{
	"Money":                reflect.TypeOf(Money{}),
	"ProductImageFragment": reflect.TypeOf(ProductImage{}),
	"Product":              reflect.TypeOf(Product{}),
	"ProductVariant":       reflect.TypeOf(ProductVariant{}),
}

// Verify checks every operation of the catalog and reports all problems
// at once:
//   - the document parses and holds one operation named after the entry
//   - every spread fragment is defined exactly once and every definition is spread
//   - declared and used variables match
//   - the variables type declares the same variables with the same types
//   - the result type holds exactly the response shape
//   - fragments shared between documents select the same fields everywhere,
//     and match their Go type
func Verify() error {
	return verify(Operations())
}

func verify(ops []Operation) error {
	var errs []error
	fragments := map[string]*fragmentUse{}

	for _, op := range ops {
		doc, err := document.Parse(op.Name, op.Document)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := doc.Check(); err != nil {
			errs = append(errs, err)
			continue
		}
		if names := doc.OperationNames(); names[0] != op.Name {
			errs = append(errs, fmt.Errorf("%s: document declares operation %q", op.Name, names[0]))
		}

		errs = append(errs, checkVariables(op, doc)...)
		errs = append(errs, checkResult(op, doc)...)

		for name := range doc.FragmentDefinitions() {
			fs, err := doc.FragmentShape(name)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			use := fragments[name]
			if use == nil {
				use = &fragmentUse{}
				fragments[name] = use
			}
			use.ops = append(use.ops, op.Name)
			use.shapes = append(use.shapes, fs)
		}
	}

	errs = append(errs, checkFragments(fragments)...)
	return errors.Join(errs...)
}

func checkVariables(op Operation, doc *document.Document) []error {
	fromGo, err := op.Variables()
	if err != nil {
		return []error{fmt.Errorf("%s: variables type: %w", op.Name, err)}
	}
	declared := doc.DeclaredVariables()

	var errs []error
	for _, name := range sortedNames(declared) {
		goType, ok := fromGo[name]
		switch {
		case !ok:
			errs = append(errs, fmt.Errorf("%s: variable $%s has no field in %v", op.Name, name, op.VariablesType))
		case goType != declared[name]:
			errs = append(errs, fmt.Errorf("%s: variable $%s is %s in the document but %s in %v", op.Name, name, declared[name], goType, op.VariablesType))
		}
	}
	for _, name := range sortedNames(fromGo) {
		if _, ok := declared[name]; !ok {
			errs = append(errs, fmt.Errorf("%s: %v sends $%s which the document does not declare", op.Name, op.VariablesType, name))
		}
	}
	return errs
}

func checkResult(op Operation, doc *document.Document) []error {
	want, err := doc.ResponseShape()
	if err != nil {
		return []error{err}
	}
	got, err := shape.FromType(op.ResultType)
	if err != nil {
		return []error{fmt.Errorf("%s: result type: %w", op.Name, err)}
	}
	var errs []error
	for _, d := range shape.Diff(want, got) {
		errs = append(errs, fmt.Errorf("%s: %v: %s", op.Name, op.ResultType, d))
	}
	return errs
}

// fragmentUse is the expanded field set a fragment has in each document
// defining it.
type fragmentUse struct {
	ops    []string
	shapes []shape.Fields
}

func checkFragments(fragments map[string]*fragmentUse) []error {
	var errs []error
	for _, name := range sortedNames(fragments) {
		use := fragments[name]
		ref, refOp := use.shapes[0], use.ops[0]
		diverged := false
		for i := 1; i < len(use.ops); i++ {
			for _, d := range shape.Diff(ref, use.shapes[i]) {
				diverged = true
				errs = append(errs, fmt.Errorf("fragment %s: %s differs from %s: %s", name, use.ops[i], refOp, d))
			}
		}
		if diverged {
			continue
		}

		t, ok := FragmentTypes[name]
		if !ok {
			errs = append(errs, fmt.Errorf("fragment %s has no Go type", name))
			continue
		}
		got, err := shape.FromType(t)
		if err != nil {
			errs = append(errs, fmt.Errorf("fragment %s: %w", name, err))
			continue
		}
		for _, d := range shape.Diff(ref, got) {
			errs = append(errs, fmt.Errorf("fragment %s: %v: %s", name, t, d))
		}
	}
	return errs
}

// Validate checks every document against schema, e.g. one dumped from the
// Saleor instance the dashboard talks to.
func Validate(schema *ast.Schema) error {
	var errs []error
	for _, op := range Operations() {
		doc, err := document.Parse(op.Name, op.Document)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := doc.Validate(schema); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
