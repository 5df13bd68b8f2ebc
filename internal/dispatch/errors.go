package dispatch

import (
	"fmt"
	"newt/internal/object"
	"strings"
)

// NoSuchFunctionError reports a call to a name/arity with no definitions.
type NoSuchFunctionError struct {
	Name  string
	Arity int
}

func (e *NoSuchFunctionError) Error() string {
	return fmt.Sprintf("no function %s/%d defined", e.Name, e.Arity)
}

// NoMatchingOverloadError reports that definitions exist for the name and
// arity but none matched the given arguments.
type NoMatchingOverloadError struct {
	Name string
	Args []object.Object
}

func (e *NoMatchingOverloadError) Error() string {
	types := make([]string, len(e.Args))
	for i, arg := range e.Args {
		types[i] = string(arg.Type())
	}
	return fmt.Sprintf("no overload of %s matches (%s)", e.Name, strings.Join(types, ", "))
}

// AmbiguousDispatchError reports two or more candidates that tie with no
// dominating winner. The tied candidates are named so the caller can add a
// more specific definition.
type AmbiguousDispatchError struct {
	Name       string
	Candidates []*Definition
}

func (e *AmbiguousDispatchError) Error() string {
	sigs := make([]string, len(e.Candidates))
	for i, def := range e.Candidates {
		sigs[i] = def.Signature()
	}
	return fmt.Sprintf("ambiguous call to %s: %s", e.Name, strings.Join(sigs, " vs "))
}

// DuplicateConstructorError reports a second definition for a constructor
// name. Constructors are single-definition; this is a load-time error.
type DuplicateConstructorError struct {
	Name string
}

func (e *DuplicateConstructorError) Error() string {
	return fmt.Sprintf("constructor %s is already defined", e.Name)
}

// BindingCollisionError reports a definition that binds the same name twice
// across its parameter patterns. Detected at load time.
type BindingCollisionError struct {
	Function string
	Binding  string
}

func (e *BindingCollisionError) Error() string {
	return fmt.Sprintf("definition of %s binds %q more than once", e.Function, e.Binding)
}

// ElementBindingError reports a binding inside a uniform element pattern,
// where it would be re-bound once per item. Detected at load time.
type ElementBindingError struct {
	Function string
	Binding  string
}

func (e *ElementBindingError) Error() string {
	return fmt.Sprintf("definition of %s binds %q inside a uniform element pattern", e.Function, e.Binding)
}

// FrozenError reports a definition added after the table was frozen.
type FrozenError struct {
	Name string
}

func (e *FrozenError) Error() string {
	return fmt.Sprintf("cannot define %s: function table is frozen", e.Name)
}
