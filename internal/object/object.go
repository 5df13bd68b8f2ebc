package object

import (
	"bytes"
	"fmt"
	"newt/internal/tag"
	"strconv"
	"strings"
)

const (
	INTEGER_OBJ     = "INTEGER"
	FLOAT_OBJ       = "FLOAT"
	STRING_OBJ      = "STRING"
	LIST_OBJ        = "LIST"
	DICT_OBJ        = "DICT"
	CONSTRUCTED_OBJ = "CONSTRUCTED"
	CLOSURE_OBJ     = "CLOSURE"
)

type ObjectType string

// Object is the runtime representation of a value. Values are immutable once
// built; nothing in the dispatch core mutates them.
type Object interface {
	Type() ObjectType
	Inspect() string
}

type Integer struct {
	Value int64
}

func (i *Integer) Type() ObjectType { return INTEGER_OBJ }
func (i *Integer) Inspect() string  { return strconv.FormatInt(i.Value, 10) }

type Float struct {
	Value float64
}

func (f *Float) Type() ObjectType { return FLOAT_OBJ }
func (f *Float) Inspect() string  { return strconv.FormatFloat(f.Value, 'g', -1, 64) }

type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return strconv.Quote(s.Value) }

type List struct {
	Elements []Object
}

func (l *List) Type() ObjectType { return LIST_OBJ }
func (l *List) Inspect() string {
	var out bytes.Buffer

	elements := []string{}
	for _, e := range l.Elements {
		elements = append(elements, e.Inspect())
	}

	out.WriteString("[")
	out.WriteString(strings.Join(elements, ", "))
	out.WriteString("]")

	return out.String()
}

type DictPair struct {
	Key   string
	Value Object
}

// Dict is an ordered string-keyed mapping. Keys are unique; setting an
// existing key replaces its value but keeps its original position.
type Dict struct {
	pairs []DictPair
	index map[string]int
}

func NewDict() *Dict {
	return &Dict{index: map[string]int{}}
}

func (d *Dict) Type() ObjectType { return DICT_OBJ }
func (d *Dict) Inspect() string {
	var out bytes.Buffer

	pairs := []string{}
	for _, pair := range d.pairs {
		pairs = append(pairs, fmt.Sprintf("%s: %s", pair.Key, pair.Value.Inspect()))
	}

	out.WriteString("{")
	out.WriteString(strings.Join(pairs, ", "))
	out.WriteString("}")

	return out.String()
}

func (d *Dict) Set(key string, v Object) *Dict {
	if d.index == nil {
		d.index = map[string]int{}
	}
	if i, ok := d.index[key]; ok {
		d.pairs[i].Value = v
		return d
	}
	d.index[key] = len(d.pairs)
	d.pairs = append(d.pairs, DictPair{Key: key, Value: v})
	return d
}

func (d *Dict) Get(key string) (Object, bool) {
	i, ok := d.index[key]
	if !ok {
		return nil, false
	}
	return d.pairs[i].Value, true
}

func (d *Dict) Len() int { return len(d.pairs) }

// Pairs returns the entries in insertion order. Callers must not modify the
// returned slice.
func (d *Dict) Pairs() []DictPair { return d.pairs }

func (d *Dict) Keys() []string {
	keys := make([]string, len(d.pairs))
	for i, pair := range d.pairs {
		keys[i] = pair.Key
	}
	return keys
}

// Constructed is a value built by a user constructor: its own tag plus the
// ordered field values the constructor was applied to.
type Constructed struct {
	Tag    *tag.Tag
	Fields []Object
}

func (c *Constructed) Type() ObjectType { return CONSTRUCTED_OBJ }
func (c *Constructed) Inspect() string {
	if len(c.Fields) == 0 {
		return c.Tag.Name
	}

	var out bytes.Buffer

	fields := []string{}
	for _, f := range c.Fields {
		fields = append(fields, f.Inspect())
	}

	out.WriteString(c.Tag.Name)
	out.WriteString("(")
	out.WriteString(strings.Join(fields, ", "))
	out.WriteString(")")

	return out.String()
}

// Closure is a function value. The body and captured environment are opaque to
// the dispatch core; only the arity participates in matching.
type Closure struct {
	Arity int
	Env   *Environment
	Body  any
}

func (c *Closure) Type() ObjectType { return CLOSURE_OBJ }
func (c *Closure) Inspect() string  { return fmt.Sprintf("fn/%d", c.Arity) }

// OwnTag resolves the exact tag a value was built with. Closures carry no own
// tag and return false.
func OwnTag(reg *tag.Registry, o Object) (*tag.Tag, bool) {
	switch v := o.(type) {
	case *Integer:
		return reg.Int, true
	case *Float:
		return reg.Float, true
	case *String:
		return reg.String, true
	case *List:
		return reg.List, true
	case *Dict:
		return reg.Dict, true
	case *Constructed:
		return v.Tag, true
	default:
		return nil, false
	}
}

// IsInstance reports whether the value's tag chain contains t. This backs the
// isInstance-style introspection builtins the evaluator exposes to user code.
func IsInstance(reg *tag.Registry, o Object, t *tag.Tag) bool {
	own, ok := OwnTag(reg, o)
	if !ok {
		return false
	}
	_, ok = own.Distance(t)
	return ok
}

// Equals compares two values structurally. Constructed values compare by tag
// identity plus fields; closures only by identity.
func Equals(a, b Object) bool {
	switch av := a.(type) {
	case *Integer:
		bv, ok := b.(*Integer)
		return ok && av.Value == bv.Value
	case *Float:
		bv, ok := b.(*Float)
		return ok && av.Value == bv.Value
	case *String:
		bv, ok := b.(*String)
		return ok && av.Value == bv.Value
	case *List:
		bv, ok := b.(*List)
		if !ok || len(av.Elements) != len(bv.Elements) {
			return false
		}
		for i := range av.Elements {
			if !Equals(av.Elements[i], bv.Elements[i]) {
				return false
			}
		}
		return true
	case *Dict:
		bv, ok := b.(*Dict)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		for _, pair := range av.Pairs() {
			other, ok := bv.Get(pair.Key)
			if !ok || !Equals(pair.Value, other) {
				return false
			}
		}
		return true
	case *Constructed:
		bv, ok := b.(*Constructed)
		if !ok || av.Tag != bv.Tag || len(av.Fields) != len(bv.Fields) {
			return false
		}
		for i := range av.Fields {
			if !Equals(av.Fields[i], bv.Fields[i]) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}
