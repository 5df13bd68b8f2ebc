package dispatch

import (
	"newt/internal/pattern"
	"newt/internal/tag"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Definition is one function definition: a name, one pattern per parameter,
// and an opaque body reference the evaluator executes after dispatch.
type Definition struct {
	Name   string
	Params []pattern.Pattern
	Body   any
}

func (d *Definition) Arity() int { return len(d.Params) }

// Signature renders the definition head for error messages and introspection.
func (d *Definition) Signature() string {
	params := make([]string, len(d.Params))
	for i, p := range d.Params {
		params[i] = p.String()
	}
	return d.Name + "(" + strings.Join(params, ", ") + ")"
}

// IsConstructorName reports whether a function name denotes a constructor.
// Constructor names start with an upper-case letter and are single-definition.
func IsConstructorName(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}

type group struct {
	name    string
	defs    []*Definition // insertion order, all arities
	byArity map[int][]*Definition
}

// Table holds every function group of a loaded program. Definitions are
// add-only during module load; after Freeze the table is read-only and safe
// to share across concurrent readers.
type Table struct {
	matcher *pattern.Matcher
	groups  map[string]*group
	names   []string // group definition order
	frozen  bool
}

func NewTable(reg *tag.Registry) *Table {
	return &Table{
		matcher: pattern.NewMatcher(reg),
		groups:  map[string]*group{},
	}
}

// Matcher exposes the table's matcher so hosts can tune its depth limit.
func (t *Table) Matcher() *pattern.Matcher { return t.matcher }

// Add registers a definition, performing the load-time checks: binding
// collisions within the definition, bindings under a uniform element pattern,
// and the single-definition constructor rule.
func (t *Table) Add(def *Definition) error {
	if t.frozen {
		return &FrozenError{Name: def.Name}
	}

	seen := map[string]bool{}
	for _, param := range def.Params {
		if names := pattern.ElemBindingNames(param); len(names) > 0 {
			return &ElementBindingError{Function: def.Name, Binding: names[0]}
		}
		for _, name := range pattern.BindingNames(param) {
			if seen[name] {
				return &BindingCollisionError{Function: def.Name, Binding: name}
			}
			seen[name] = true
		}
	}

	g, ok := t.groups[def.Name]
	if !ok {
		g = &group{name: def.Name, byArity: map[int][]*Definition{}}
		t.groups[def.Name] = g
		t.names = append(t.names, def.Name)
	} else if IsConstructorName(def.Name) {
		return &DuplicateConstructorError{Name: def.Name}
	}

	g.defs = append(g.defs, def)
	g.byArity[def.Arity()] = append(g.byArity[def.Arity()], def)
	return nil
}

// Freeze ends the load phase.
func (t *Table) Freeze() { t.frozen = true }

func (t *Table) Frozen() bool { return t.frozen }

// Names returns every group name in definition order.
func (t *Table) Names() []string { return t.names }

// Definitions returns all definitions for a name, across arities, in
// definition order.
func (t *Table) Definitions(name string) []*Definition {
	g, ok := t.groups[name]
	if !ok {
		return nil
	}
	return g.defs
}
