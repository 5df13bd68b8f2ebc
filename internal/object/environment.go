package object

import (
	"fmt"
	"sync"
)

// Environment is the binding table the host evaluator executes function bodies
// in. The dispatch core only ever extends environments: a successful resolve
// hands back bindings that the evaluator layers over the closure's captured
// environment.
type Environment struct {
	Outer    *Environment
	bindings map[string]Object

	mu sync.RWMutex
}

func NewEnvironment() *Environment {
	return &Environment{bindings: map[string]Object{}}
}

// NewEnclosedEnvironment creates a child scope.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.Outer = outer
	return env
}

func (e *Environment) Define(name string, val Object) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.bindings[name]; exists {
		return fmt.Errorf("binding %q already defined in this scope", name)
	}
	e.bindings[name] = val
	return nil
}

func (e *Environment) Get(name string) (Object, bool) {
	e.mu.RLock()
	val, ok := e.bindings[name]
	e.mu.RUnlock()
	if !ok && e.Outer != nil {
		return e.Outer.Get(name)
	}
	return val, ok
}

// Extend creates a child scope holding the given bindings. This is the hook
// the evaluator uses with the binding table returned by dispatch.
func (e *Environment) Extend(bindings map[string]Object) *Environment {
	child := NewEnclosedEnvironment(e)
	for name, val := range bindings {
		child.bindings[name] = val
	}
	return child
}

// Names returns the names bound directly in this scope, ignoring outer scopes.
func (e *Environment) Names() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	names := make([]string, 0, len(e.bindings))
	for name := range e.bindings {
		names = append(names, name)
	}
	return names
}
