package object

import (
	"newt/internal/tag"
	"testing"
)

func TestDictInsertionOrder(t *testing.T) {
	d := NewDict()
	d.Set("b", &Integer{Value: 2})
	d.Set("a", &Integer{Value: 1})
	d.Set("c", &Integer{Value: 3})

	keys := d.Keys()
	if len(keys) != 3 || keys[0] != "b" || keys[1] != "a" || keys[2] != "c" {
		t.Errorf("keys = %v, want insertion order [b a c]", keys)
	}

	if d.Inspect() != "{b: 2, a: 1, c: 3}" {
		t.Errorf("inspect = %s", d.Inspect())
	}
}

func TestDictSetExistingKeyKeepsPosition(t *testing.T) {
	d := NewDict()
	d.Set("a", &Integer{Value: 1})
	d.Set("b", &Integer{Value: 2})
	d.Set("a", &Integer{Value: 9})

	if d.Len() != 2 {
		t.Fatalf("len = %d, want 2", d.Len())
	}
	keys := d.Keys()
	if keys[0] != "a" || keys[1] != "b" {
		t.Errorf("keys = %v, want [a b]", keys)
	}
	val, _ := d.Get("a")
	if val.Inspect() != "9" {
		t.Errorf("a = %s, want 9", val.Inspect())
	}
}

func TestOwnTag(t *testing.T) {
	reg := tag.NewRegistry()
	suit, _ := reg.Define("Suit", reg.Any)
	club, _ := reg.Define("Club", suit)

	cases := []struct {
		value Object
		want  *tag.Tag
	}{
		{&Integer{Value: 1}, reg.Int},
		{&Float{Value: 1.5}, reg.Float},
		{&String{Value: "x"}, reg.String},
		{&List{}, reg.List},
		{NewDict(), reg.Dict},
		{&Constructed{Tag: club}, club},
	}
	for _, c := range cases {
		got, ok := OwnTag(reg, c.value)
		if !ok || got != c.want {
			t.Errorf("OwnTag(%s) = (%v, %v), want %s", c.value.Inspect(), got, ok, c.want)
		}
	}

	if _, ok := OwnTag(reg, &Closure{Arity: 1}); ok {
		t.Errorf("closures must not have an own tag")
	}
}

func TestIsInstance(t *testing.T) {
	reg := tag.NewRegistry()
	suit, _ := reg.Define("Suit", reg.Any)
	club, _ := reg.Define("Club", suit)

	clubValue := &Constructed{Tag: club}
	if !IsInstance(reg, clubValue, club) || !IsInstance(reg, clubValue, suit) || !IsInstance(reg, clubValue, reg.Any) {
		t.Errorf("Club value must be an instance of Club, Suit and Any")
	}
	if IsInstance(reg, clubValue, reg.Int) {
		t.Errorf("Club value must not be an instance of Int")
	}
	if IsInstance(reg, &Closure{Arity: 1}, reg.Any) {
		t.Errorf("closures are not instances of any tag")
	}
}

func TestEquals(t *testing.T) {
	reg := tag.NewRegistry()
	vec2, _ := reg.Define("Vec2", reg.List)

	a := &Constructed{Tag: vec2, Fields: []Object{&Float{Value: 1}, &Float{Value: 2}}}
	b := &Constructed{Tag: vec2, Fields: []Object{&Float{Value: 1}, &Float{Value: 2}}}
	c := &Constructed{Tag: vec2, Fields: []Object{&Float{Value: 1}, &Float{Value: 3}}}

	if !Equals(a, b) {
		t.Errorf("structurally identical constructed values must be equal")
	}
	if Equals(a, c) {
		t.Errorf("constructed values with different fields must not be equal")
	}
	if Equals(a, &List{Elements: a.Fields}) {
		t.Errorf("a constructed value must not equal a bare list")
	}

	d1 := NewDict().Set("x", &Integer{Value: 1}).Set("y", &Integer{Value: 2})
	d2 := NewDict().Set("y", &Integer{Value: 2}).Set("x", &Integer{Value: 1})
	if !Equals(d1, d2) {
		t.Errorf("dict equality must not depend on insertion order")
	}
}

func TestEnvironmentExtend(t *testing.T) {
	root := NewEnvironment()
	if err := root.Define("x", &Integer{Value: 1}); err != nil {
		t.Fatalf("define: %v", err)
	}
	if err := root.Define("x", &Integer{Value: 2}); err == nil {
		t.Fatalf("redefining in the same scope must fail")
	}

	child := root.Extend(map[string]Object{"y": &Integer{Value: 2}})
	if val, ok := child.Get("x"); !ok || val.Inspect() != "1" {
		t.Errorf("child must see outer bindings")
	}
	if val, ok := child.Get("y"); !ok || val.Inspect() != "2" {
		t.Errorf("child must see its own bindings")
	}
	if _, ok := root.Get("y"); ok {
		t.Errorf("extension must not leak into the outer scope")
	}
}
