package tag

import (
	"fmt"
	"log/slog"
)

// Names of the predefined tags. These exist in every registry before any user
// declaration is processed and cannot be redefined.
const (
	AnyName    = "Any"
	IntName    = "Int"
	FloatName  = "Float"
	StringName = "String"
	ListName   = "List"
	DictName   = "Dict"
)

// Tag is a single node in the constructor hierarchy. Tags are created through
// Registry.Define and are immutable afterwards; the ancestor chain is computed
// once at definition time.
type Tag struct {
	ID     int
	Name   string
	parent *Tag
	chain  []*Tag // this tag first, Any last
}

func (t *Tag) Parent() *Tag   { return t.parent }
func (t *Tag) String() string { return t.Name }

// Chain returns the ancestor chain from t itself up to Any.
// Callers must not modify the returned slice.
func (t *Tag) Chain() []*Tag { return t.chain }

// Distance returns the zero-based position of `to` within t's ancestor chain.
// Distance(t, t) is 0. The second return is false when `to` is not an ancestor.
func (t *Tag) Distance(to *Tag) (int, bool) {
	for i, a := range t.chain {
		if a == to {
			return i, true
		}
	}
	return 0, false
}

// DuplicateTagError reports a tag declaration that reuses an existing name.
type DuplicateTagError struct {
	Name string
}

func (e *DuplicateTagError) Error() string {
	return fmt.Sprintf("tag %q is already defined", e.Name)
}

// UnknownParentError reports a tag declaration whose parent name does not
// resolve against the registry.
type UnknownParentError struct {
	Name   string
	Parent string
}

func (e *UnknownParentError) Error() string {
	return fmt.Sprintf("tag %q declares unknown parent %q", e.Name, e.Parent)
}

// FrozenError reports a definition attempted after the registry was frozen.
type FrozenError struct {
	Name string
}

func (e *FrozenError) Error() string {
	return fmt.Sprintf("cannot define tag %q: registry is frozen", e.Name)
}

// Registry holds every tag known to a program. It is append-only: tags are
// defined during module load, then the registry is frozen and may be shared
// read-only across goroutines.
type Registry struct {
	arena  []*Tag
	byName map[string]*Tag
	frozen bool

	Any    *Tag
	Int    *Tag
	Float  *Tag
	String *Tag
	List   *Tag
	Dict   *Tag
}

func NewRegistry() *Registry {
	r := &Registry{byName: map[string]*Tag{}}
	r.Any = r.mustDefine(AnyName, nil)
	r.Int = r.mustDefine(IntName, r.Any)
	r.Float = r.mustDefine(FloatName, r.Any)
	r.String = r.mustDefine(StringName, r.Any)
	r.List = r.mustDefine(ListName, r.Any)
	r.Dict = r.mustDefine(DictName, r.Any)
	return r
}

func (r *Registry) mustDefine(name string, parent *Tag) *Tag {
	t, err := r.Define(name, parent)
	if err != nil {
		panic(err)
	}
	return t
}

// Define registers a new tag under the given parent. Only the root Any is
// defined with a nil parent.
func (r *Registry) Define(name string, parent *Tag) (*Tag, error) {
	if r.frozen {
		return nil, &FrozenError{Name: name}
	}
	if _, exists := r.byName[name]; exists {
		return nil, &DuplicateTagError{Name: name}
	}
	if parent == nil && len(r.arena) > 0 {
		return nil, fmt.Errorf("tag %q must declare a parent", name)
	}

	t := &Tag{
		ID:     len(r.arena),
		Name:   name,
		parent: parent,
	}
	t.chain = make([]*Tag, 0, 2)
	t.chain = append(t.chain, t)
	if parent != nil {
		t.chain = append(t.chain, parent.chain...)
	}

	r.arena = append(r.arena, t)
	r.byName[name] = t
	slog.Debug("tag defined",
		slog.String("name", name),
		slog.Int("id", t.ID),
		slog.Int("chain-length", len(t.chain)))
	return t, nil
}

// DefineNamed resolves the parent by name before defining. It is the entry
// point used when processing declarations from the loader.
func (r *Registry) DefineNamed(name, parentName string) (*Tag, error) {
	parent, ok := r.Lookup(parentName)
	if !ok {
		return nil, &UnknownParentError{Name: name, Parent: parentName}
	}
	return r.Define(name, parent)
}

func (r *Registry) Lookup(name string) (*Tag, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// AncestorChain is the registry-level form of Tag.Chain, kept for callers that
// expose ancestry to user code (introspection builtins).
func (r *Registry) AncestorChain(t *Tag) []*Tag { return t.Chain() }

// Distance is the registry-level form of Tag.Distance.
func (r *Registry) Distance(from, to *Tag) (int, bool) { return from.Distance(to) }

// Tags returns every registered tag in definition order.
func (r *Registry) Tags() []*Tag { return r.arena }

// Freeze ends the load phase. After Freeze the registry is read-only and safe
// to share across concurrent readers without locking.
func (r *Registry) Freeze() { r.frozen = true }

func (r *Registry) Frozen() bool { return r.frozen }
