package loader

import (
	"fmt"
	"strconv"

	"newt/internal/object"
	"newt/internal/tag"

	"gopkg.in/yaml.v3"
)

// DecodeValue turns a YAML node into a runtime value. Scalars map onto the
// primitive values, sequences onto lists and mappings onto dicts (insertion
// order preserved). Two mapping forms are special:
//
//	{make: Vec2, fields: [1.0, 2.0]}   constructed value
//	{closure: 2}                       closure of the given arity
func DecodeValue(reg *tag.Registry, node *yaml.Node) (object.Object, error) {
	if node.Kind == yaml.AliasNode {
		node = node.Alias
	}

	switch node.Kind {
	case yaml.ScalarNode:
		return decodeScalar(node)
	case yaml.SequenceNode:
		elements := make([]object.Object, len(node.Content))
		for i, child := range node.Content {
			v, err := DecodeValue(reg, child)
			if err != nil {
				return nil, err
			}
			elements[i] = v
		}
		return &object.List{Elements: elements}, nil
	case yaml.MappingNode:
		return decodeMapping(reg, node)
	case yaml.DocumentNode:
		if len(node.Content) != 1 {
			return nil, fmt.Errorf("expected a single value document")
		}
		return DecodeValue(reg, node.Content[0])
	default:
		return nil, fmt.Errorf("unsupported value node (line %d)", node.Line)
	}
}

// DecodeValueString decodes one inline YAML value, as typed at the REPL.
func DecodeValueString(reg *tag.Registry, src string) (object.Object, error) {
	var node yaml.Node
	if err := yaml.Unmarshal([]byte(src), &node); err != nil {
		return nil, err
	}
	return DecodeValue(reg, &node)
}

func decodeScalar(node *yaml.Node) (object.Object, error) {
	switch node.Tag {
	case "!!int":
		i, err := strconv.ParseInt(node.Value, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("integer literal %q: %w", node.Value, err)
		}
		return &object.Integer{Value: i}, nil
	case "!!float":
		f, err := strconv.ParseFloat(node.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("float literal %q: %w", node.Value, err)
		}
		return &object.Float{Value: f}, nil
	case "!!str":
		return &object.String{Value: node.Value}, nil
	default:
		return nil, fmt.Errorf("unsupported literal %q (line %d)", node.Value, node.Line)
	}
}

func decodeMapping(reg *tag.Registry, node *yaml.Node) (object.Object, error) {
	keys := make([]string, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keys = append(keys, node.Content[i].Value)
	}

	if contains(keys, "make") {
		return decodeConstructed(reg, node, keys)
	}
	if len(keys) == 1 && keys[0] == "closure" {
		var arity int
		if err := node.Content[1].Decode(&arity); err != nil {
			return nil, fmt.Errorf("closure arity: %w", err)
		}
		if arity < 1 {
			return nil, fmt.Errorf("closure arity must be >= 1, got %d", arity)
		}
		return &object.Closure{Arity: arity}, nil
	}

	dict := object.NewDict()
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i]
		if key.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("dict keys must be strings (line %d)", key.Line)
		}
		if _, exists := dict.Get(key.Value); exists {
			return nil, fmt.Errorf("duplicate dict key %q (line %d)", key.Value, key.Line)
		}
		val, err := DecodeValue(reg, node.Content[i+1])
		if err != nil {
			return nil, err
		}
		dict.Set(key.Value, val)
	}
	return dict, nil
}

func decodeConstructed(reg *tag.Registry, node *yaml.Node, keys []string) (object.Object, error) {
	var tagName string
	var fields []object.Object

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i].Value, node.Content[i+1]
		switch key {
		case "make":
			if err := val.Decode(&tagName); err != nil {
				return nil, fmt.Errorf("make: %w", err)
			}
		case "fields":
			if val.Kind != yaml.SequenceNode {
				return nil, fmt.Errorf("fields must be a sequence (line %d)", val.Line)
			}
			for _, child := range val.Content {
				f, err := DecodeValue(reg, child)
				if err != nil {
					return nil, err
				}
				fields = append(fields, f)
			}
		default:
			return nil, fmt.Errorf("unexpected key %q in constructed value (line %d)", key, node.Line)
		}
	}

	tg, ok := reg.Lookup(tagName)
	if !ok {
		return nil, &UnknownTagError{Name: tagName}
	}
	return &object.Constructed{Tag: tg, Fields: fields}, nil
}

func contains(keys []string, want string) bool {
	for _, k := range keys {
		if k == want {
			return true
		}
	}
	return false
}
