package loader

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"newt/internal/pattern"
	"newt/internal/tag"

	"gopkg.in/yaml.v3"
)

// UnknownTagError reports a pattern or value that references an undeclared tag.
type UnknownTagError struct {
	Name string
}

func (e *UnknownTagError) Error() string {
	return fmt.Sprintf("unknown tag %q", e.Name)
}

// PatternDecl is the YAML form of one parameter pattern. Scalars are
// shorthand: "_" is a wildcard, a capitalized name a tag match, anything else
// a binding. A YAML sequence is a positional list pattern. The mapping form
// spells out the node kind explicitly.
type PatternDecl struct {
	Any     bool
	Bind    string
	Tag     string
	As      string
	Fields  []PatternDecl
	List    []PatternDecl
	hasList bool
	Entries []DictEntryDecl
	Each    *PatternDecl
	Kind    string
	Arity   *int
}

type DictEntryDecl struct {
	Key   string      `yaml:"key"`
	Value PatternDecl `yaml:"value"`
}

type patternDeclRaw struct {
	Any     bool            `yaml:"any"`
	Bind    string          `yaml:"bind"`
	Tag     string          `yaml:"tag"`
	As      string          `yaml:"as"`
	Fields  []PatternDecl   `yaml:"fields"`
	List    *[]PatternDecl  `yaml:"list"`
	Entries []DictEntryDecl `yaml:"entries"`
	Each    *PatternDecl    `yaml:"each"`
	Kind    string          `yaml:"kind"`
	Arity   *int            `yaml:"arity"`
}

func (d *PatternDecl) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		switch {
		case s == "_":
			d.Any = true
		case isCapitalized(s):
			d.Tag = s
		default:
			d.Bind = s
		}
		return nil

	case yaml.SequenceNode:
		var elems []PatternDecl
		if err := node.Decode(&elems); err != nil {
			return err
		}
		d.List = elems
		d.hasList = true
		return nil

	case yaml.MappingNode:
		var raw patternDeclRaw
		if err := node.Decode(&raw); err != nil {
			return err
		}
		d.Any = raw.Any
		d.Bind = raw.Bind
		d.Tag = raw.Tag
		d.As = raw.As
		d.Fields = raw.Fields
		if raw.List != nil {
			d.List = *raw.List
			d.hasList = true
		}
		d.Entries = raw.Entries
		d.Each = raw.Each
		d.Kind = raw.Kind
		d.Arity = raw.Arity
		return nil

	default:
		return fmt.Errorf("pattern declaration must be a scalar, sequence or mapping (line %d)", node.Line)
	}
}

func isCapitalized(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}

func compileParams(reg *tag.Registry, decls []PatternDecl) ([]pattern.Pattern, error) {
	params := make([]pattern.Pattern, len(decls))
	for i, decl := range decls {
		p, err := compilePattern(reg, decl)
		if err != nil {
			return nil, fmt.Errorf("parameter %d: %w", i+1, err)
		}
		params[i] = p
	}
	return params, nil
}

func compilePattern(reg *tag.Registry, d PatternDecl) (pattern.Pattern, error) {
	switch {
	case d.Any:
		return &pattern.Wildcard{}, nil

	case d.Bind != "":
		if isCapitalized(d.Bind) {
			return nil, fmt.Errorf("binding %q must not be capitalized", d.Bind)
		}
		return &pattern.Binding{Name: d.Bind}, nil

	case d.Tag != "":
		tg, ok := reg.Lookup(d.Tag)
		if !ok {
			return nil, &UnknownTagError{Name: d.Tag}
		}
		fields, err := compileParams(reg, d.Fields)
		if err != nil {
			return nil, err
		}
		tp := pattern.TagPattern{Tag: tg, Fields: fields}
		if d.As != "" {
			return &pattern.NamedTagPattern{Name: d.As, TagPattern: tp}, nil
		}
		return &tp, nil

	case d.hasList:
		elems, err := compileParams(reg, d.List)
		if err != nil {
			return nil, err
		}
		return &pattern.ListPattern{Elems: elems}, nil

	case len(d.Entries) > 0:
		entries := make([]pattern.DictEntry, len(d.Entries))
		for i, e := range d.Entries {
			v, err := compilePattern(reg, e.Value)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", e.Key, err)
			}
			entries[i] = pattern.DictEntry{Key: e.Key, Value: v}
		}
		return &pattern.DictPattern{Entries: entries}, nil

	case d.Each != nil || d.Kind != "":
		kind := pattern.KindList
		switch d.Kind {
		case "", tag.ListName:
		case tag.DictName:
			kind = pattern.KindDict
		default:
			return nil, fmt.Errorf("container kind must be List or Dict, got %q", d.Kind)
		}
		cp := &pattern.ContainerPattern{Kind: kind}
		if d.Each != nil {
			elem, err := compilePattern(reg, *d.Each)
			if err != nil {
				return nil, err
			}
			cp.Elem = elem
		}
		return cp, nil

	case d.Arity != nil:
		if *d.Arity < 1 {
			return nil, fmt.Errorf("arity pattern requires n >= 1, got %d", *d.Arity)
		}
		return &pattern.ArityPattern{N: *d.Arity}, nil

	default:
		return nil, fmt.Errorf("empty pattern declaration")
	}
}
