package pattern

import (
	"bytes"
	"fmt"
	"newt/internal/tag"
	"strings"
)

// Pattern is a structural template tested against a value during dispatch.
type Pattern interface {
	String() string
	node()
}

// Wildcard matches any value and binds nothing.
type Wildcard struct{}

func (*Wildcard) node()          {}
func (*Wildcard) String() string { return "_" }

// Binding matches any value and binds it to Name.
type Binding struct {
	Name string
}

func (*Binding) node()            {}
func (b *Binding) String() string { return b.Name }

// TagPattern matches a value by tag. With no fields any value whose tag chain
// contains Tag matches; with fields the value must be constructed with exactly
// Tag and each field is matched recursively.
type TagPattern struct {
	Tag    *tag.Tag
	Fields []Pattern
}

func (*TagPattern) node() {}
func (p *TagPattern) String() string {
	if len(p.Fields) == 0 {
		return p.Tag.Name
	}

	var out bytes.Buffer

	fields := []string{}
	for _, f := range p.Fields {
		fields = append(fields, f.String())
	}

	out.WriteString(p.Tag.Name)
	out.WriteString("(")
	out.WriteString(strings.Join(fields, ", "))
	out.WriteString(")")

	return out.String()
}

// NamedTagPattern is a TagPattern that additionally binds the whole matched
// value to Name.
type NamedTagPattern struct {
	Name string
	TagPattern
}

func (p *NamedTagPattern) String() string {
	return p.Name + "@" + p.TagPattern.String()
}

type ContainerKind int

const (
	KindList ContainerKind = iota
	KindDict
)

func (k ContainerKind) String() string {
	if k == KindDict {
		return "Dict"
	}
	return "List"
}

// ContainerPattern matches a container of the stated kind. When Elem is set,
// every element (list) or value (dict) must match it.
type ContainerPattern struct {
	Kind ContainerKind
	Elem Pattern
}

func (*ContainerPattern) node() {}
func (p *ContainerPattern) String() string {
	open, closing := "[", "]"
	if p.Kind == KindDict {
		open, closing = "{", "}"
	}
	if p.Elem == nil {
		return open + closing
	}
	return open + p.Elem.String() + "..." + closing
}

// ListPattern destructures a list-tagged value positionally. A constructed
// value whose tag descends from List destructures through its field sequence.
type ListPattern struct {
	Elems []Pattern
}

func (*ListPattern) node() {}
func (p *ListPattern) String() string {
	elems := []string{}
	for _, e := range p.Elems {
		elems = append(elems, e.String())
	}
	return "[" + strings.Join(elems, ", ") + "]"
}

type DictEntry struct {
	Key   string
	Value Pattern
}

// DictPattern matches a dict that contains every listed key, each value
// matched recursively. Extra keys in the value are ignored.
type DictPattern struct {
	Entries []DictEntry
}

func (*DictPattern) node() {}
func (p *DictPattern) String() string {
	entries := []string{}
	for _, e := range p.Entries {
		entries = append(entries, fmt.Sprintf("%s: %s", e.Key, e.Value.String()))
	}
	return "{" + strings.Join(entries, ", ") + "}"
}

// ArityPattern matches a closure of exactly N parameters.
type ArityPattern struct {
	N int
}

func (*ArityPattern) node()            {}
func (p *ArityPattern) String() string { return fmt.Sprintf("fn/%d", p.N) }

// BindingNames collects every name the pattern binds, depth-first and
// left-to-right. The loader uses it to reject definitions that bind the same
// name twice.
func BindingNames(p Pattern) []string {
	var names []string
	collectBindingNames(p, &names)
	return names
}

// ElemBindingNames collects every name bound inside a uniform element
// pattern. Such a binding would be re-bound once per item, so the loader
// rejects definitions that contain one.
func ElemBindingNames(p Pattern) []string {
	var names []string
	collectElemBindingNames(p, false, &names)
	return names
}

func collectElemBindingNames(p Pattern, underElem bool, names *[]string) {
	switch v := p.(type) {
	case *Binding:
		if underElem {
			*names = append(*names, v.Name)
		}
	case *TagPattern:
		for _, f := range v.Fields {
			collectElemBindingNames(f, underElem, names)
		}
	case *NamedTagPattern:
		if underElem {
			*names = append(*names, v.Name)
		}
		for _, f := range v.Fields {
			collectElemBindingNames(f, underElem, names)
		}
	case *ContainerPattern:
		if v.Elem != nil {
			collectElemBindingNames(v.Elem, true, names)
		}
	case *ListPattern:
		for _, e := range v.Elems {
			collectElemBindingNames(e, underElem, names)
		}
	case *DictPattern:
		for _, e := range v.Entries {
			collectElemBindingNames(e.Value, underElem, names)
		}
	}
}

func collectBindingNames(p Pattern, names *[]string) {
	switch v := p.(type) {
	case *Binding:
		*names = append(*names, v.Name)
	case *TagPattern:
		for _, f := range v.Fields {
			collectBindingNames(f, names)
		}
	case *NamedTagPattern:
		*names = append(*names, v.Name)
		for _, f := range v.Fields {
			collectBindingNames(f, names)
		}
	case *ContainerPattern:
		if v.Elem != nil {
			collectBindingNames(v.Elem, names)
		}
	case *ListPattern:
		for _, e := range v.Elems {
			collectBindingNames(e, names)
		}
	case *DictPattern:
		for _, e := range v.Entries {
			collectBindingNames(e.Value, names)
		}
	}
}
