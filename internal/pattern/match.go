package pattern

import (
	"fmt"
	"newt/internal/object"
	"newt/internal/tag"
)

// DefaultMaxDepth bounds matcher recursion. Patterns arrive from the loader,
// so in practice this is never hit, but a hostile declaration stream must not
// be able to blow the stack.
const DefaultMaxDepth = 10000

// DepthError aborts the whole resolve; it is not a plain no-match.
type DepthError struct {
	Limit int
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("pattern match exceeded maximum depth %d", e.Limit)
}

// Bindings maps names captured during a match to the sub-values they matched.
type Bindings map[string]object.Object

// Result is a successful match: captured bindings plus the specificity score.
type Result struct {
	Bindings Bindings
	Score    Score
}

// Matcher tests patterns against values. It holds no mutable state beyond the
// registry reference and is safe for concurrent use once the registry is
// frozen.
type Matcher struct {
	reg      *tag.Registry
	MaxDepth int
}

func NewMatcher(reg *tag.Registry) *Matcher {
	return &Matcher{reg: reg, MaxDepth: DefaultMaxDepth}
}

// Match tests one pattern against one value. A nil Result with a nil error
// means the pattern simply does not match; an error means matching itself
// failed and the surrounding resolve must abort.
func (m *Matcher) Match(p Pattern, v object.Object) (*Result, error) {
	bindings := Bindings{}
	score, ok, err := m.match(p, v, bindings, 0)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &Result{Bindings: bindings, Score: score}, nil
}

func (m *Matcher) match(p Pattern, v object.Object, bindings Bindings, depth int) (Score, bool, error) {
	if depth > m.MaxDepth {
		return nil, false, &DepthError{Limit: m.MaxDepth}
	}

	switch pat := p.(type) {
	case *Wildcard:
		return Score{m.catchAllWeight(v)}, true, nil

	case *Binding:
		bindings[pat.Name] = v
		return Score{m.catchAllWeight(v)}, true, nil

	case *TagPattern:
		return m.matchTag(pat, v, bindings, depth)

	case *NamedTagPattern:
		score, ok, err := m.matchTag(&pat.TagPattern, v, bindings, depth)
		if ok {
			bindings[pat.Name] = v
		}
		return score, ok, err

	case *ContainerPattern:
		return m.matchContainer(pat, v, bindings, depth)

	case *ListPattern:
		return m.matchList(pat, v, bindings, depth)

	case *DictPattern:
		return m.matchDict(pat, v, bindings, depth)

	case *ArityPattern:
		closure, ok := v.(*object.Closure)
		if !ok || closure.Arity != pat.N {
			return nil, false, nil
		}
		return Score{0}, true, nil

	default:
		return nil, false, fmt.Errorf("unsupported pattern %T", p)
	}
}

// catchAllWeight scores a wildcard or binding position: the full chain length
// of the value's own tag, one worse than any tag constraint on the same value
// could score. Closures have no own tag and weigh 1.
func (m *Matcher) catchAllWeight(v object.Object) int {
	own, ok := object.OwnTag(m.reg, v)
	if !ok {
		return 1
	}
	return len(own.Chain())
}

func (m *Matcher) matchTag(pat *TagPattern, v object.Object, bindings Bindings, depth int) (Score, bool, error) {
	if len(pat.Fields) == 0 {
		own, ok := object.OwnTag(m.reg, v)
		if !ok {
			return nil, false, nil
		}
		d, ok := own.Distance(pat.Tag)
		if !ok {
			return nil, false, nil
		}
		return Score{d}, true, nil
	}

	// A destructuring tag pattern requires the exact constructor.
	constructed, ok := v.(*object.Constructed)
	if !ok || constructed.Tag != pat.Tag || len(constructed.Fields) != len(pat.Fields) {
		return nil, false, nil
	}

	score := Score{0}
	for i, field := range pat.Fields {
		sub, ok, err := m.match(field, constructed.Fields[i], bindings, depth+1)
		if err != nil || !ok {
			return nil, false, err
		}
		score = append(score, sub...)
	}
	return score, true, nil
}

func (m *Matcher) matchContainer(pat *ContainerPattern, v object.Object, bindings Bindings, depth int) (Score, bool, error) {
	kindTag := m.reg.List
	if pat.Kind == KindDict {
		kindTag = m.reg.Dict
	}

	own, ok := object.OwnTag(m.reg, v)
	if !ok {
		return nil, false, nil
	}
	d, ok := own.Distance(kindTag)
	if !ok {
		return nil, false, nil
	}

	items, ok := m.containerItems(pat.Kind, v)
	if !ok {
		return nil, false, nil
	}

	if pat.Elem == nil {
		return Score{d}, true, nil
	}

	// A container is only as well matched as its worst element. Item score
	// lengths can differ when the element pattern is itself a container and
	// some items are empty; combineMax treats the missing components as 0.
	var agg Score
	for _, item := range items {
		sub, ok, err := m.match(pat.Elem, item, bindings, depth+1)
		if err != nil || !ok {
			return nil, false, err
		}
		if agg == nil {
			agg = append(Score{}, sub...)
		} else {
			agg = combineMax(agg, sub)
		}
	}
	return append(Score{d}, agg...), true, nil
}

// containerItems extracts the matchable items of a container value: list
// elements, dict values in insertion order, or the field sequence of a
// constructed value whose tag descends from List.
func (m *Matcher) containerItems(kind ContainerKind, v object.Object) ([]object.Object, bool) {
	switch val := v.(type) {
	case *object.List:
		return val.Elements, kind == KindList
	case *object.Dict:
		if kind != KindDict {
			return nil, false
		}
		items := make([]object.Object, 0, val.Len())
		for _, pair := range val.Pairs() {
			items = append(items, pair.Value)
		}
		return items, true
	case *object.Constructed:
		return val.Fields, kind == KindList
	default:
		return nil, false
	}
}

func (m *Matcher) matchList(pat *ListPattern, v object.Object, bindings Bindings, depth int) (Score, bool, error) {
	own, ok := object.OwnTag(m.reg, v)
	if !ok {
		return nil, false, nil
	}
	d, ok := own.Distance(m.reg.List)
	if !ok {
		return nil, false, nil
	}

	items, ok := m.containerItems(KindList, v)
	if !ok || len(items) != len(pat.Elems) {
		return nil, false, nil
	}

	score := Score{d}
	for i, elem := range pat.Elems {
		sub, ok, err := m.match(elem, items[i], bindings, depth+1)
		if err != nil || !ok {
			return nil, false, err
		}
		score = append(score, sub...)
	}
	return score, true, nil
}

func (m *Matcher) matchDict(pat *DictPattern, v object.Object, bindings Bindings, depth int) (Score, bool, error) {
	dict, ok := v.(*object.Dict)
	if !ok {
		return nil, false, nil
	}

	score := Score{0}
	for _, entry := range pat.Entries {
		val, ok := dict.Get(entry.Key)
		if !ok {
			return nil, false, nil
		}
		sub, ok, err := m.match(entry.Value, val, bindings, depth+1)
		if err != nil || !ok {
			return nil, false, err
		}
		score = append(score, sub...)
	}
	return score, true, nil
}
