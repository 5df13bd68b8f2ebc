package tag

import (
	"errors"
	"testing"
)

func TestPredefinedTags(t *testing.T) {
	r := NewRegistry()

	for _, name := range []string{AnyName, IntName, FloatName, StringName, ListName, DictName} {
		if _, ok := r.Lookup(name); !ok {
			t.Errorf("predefined tag %q not registered", name)
		}
	}

	if r.Any.Parent() != nil {
		t.Errorf("Any must not have a parent")
	}
	for _, prim := range []*Tag{r.Int, r.Float, r.String, r.List, r.Dict} {
		if prim.Parent() != r.Any {
			t.Errorf("primitive %s must have parent Any, got %v", prim, prim.Parent())
		}
	}
}

func TestDefineBuildsChain(t *testing.T) {
	r := NewRegistry()

	suit, err := r.Define("Suit", r.Any)
	if err != nil {
		t.Fatalf("define Suit: %v", err)
	}
	club, err := r.Define("Club", suit)
	if err != nil {
		t.Fatalf("define Club: %v", err)
	}

	chain := club.Chain()
	if len(chain) != 3 {
		t.Fatalf("Club chain length = %d, want 3", len(chain))
	}
	if chain[0] != club || chain[1] != suit || chain[2] != r.Any {
		t.Errorf("Club chain = %v, want [Club Suit Any]", chain)
	}
}

func TestDistanceMonotonicity(t *testing.T) {
	r := NewRegistry()
	suit, _ := r.Define("Suit", r.Any)
	club, _ := r.Define("Club", suit)

	for _, tag := range []*Tag{r.Any, r.Int, suit, club} {
		if d, ok := tag.Distance(tag); !ok || d != 0 {
			t.Errorf("Distance(%s, %s) = (%d, %v), want (0, true)", tag, tag, d, ok)
		}
	}

	for i, ancestor := range club.Chain() {
		d, ok := club.Distance(ancestor)
		if !ok || d != i {
			t.Errorf("Distance(Club, %s) = (%d, %v), want (%d, true)", ancestor, d, ok, i)
		}
	}
}

func TestDistanceNonAncestor(t *testing.T) {
	r := NewRegistry()
	suit, _ := r.Define("Suit", r.Any)
	club, _ := r.Define("Club", suit)
	heart, _ := r.Define("Heart", suit)

	if _, ok := club.Distance(heart); ok {
		t.Errorf("Heart must not be an ancestor of Club")
	}
	if _, ok := suit.Distance(club); ok {
		t.Errorf("distance must not run downward in the hierarchy")
	}
	if _, ok := r.Int.Distance(r.Float); ok {
		t.Errorf("sibling primitives must have no distance")
	}
}

func TestDuplicateDefine(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Define("Suit", r.Any); err != nil {
		t.Fatalf("define Suit: %v", err)
	}

	_, err := r.Define("Suit", r.Any)
	var dup *DuplicateTagError
	if !errors.As(err, &dup) {
		t.Fatalf("redefining Suit: got %v, want DuplicateTagError", err)
	}
	if dup.Name != "Suit" {
		t.Errorf("DuplicateTagError.Name = %q, want Suit", dup.Name)
	}

	if _, err := r.Define("Int", r.Any); err == nil {
		t.Errorf("redefining a predefined tag must fail")
	}
}

func TestDefineNamedUnknownParent(t *testing.T) {
	r := NewRegistry()

	_, err := r.DefineNamed("Club", "Suit")
	var unknown *UnknownParentError
	if !errors.As(err, &unknown) {
		t.Fatalf("got %v, want UnknownParentError", err)
	}
	if unknown.Parent != "Suit" {
		t.Errorf("UnknownParentError.Parent = %q, want Suit", unknown.Parent)
	}
}

func TestFreeze(t *testing.T) {
	r := NewRegistry()
	r.Freeze()

	if !r.Frozen() {
		t.Fatalf("registry must report frozen")
	}
	_, err := r.Define("Suit", r.Any)
	var frozen *FrozenError
	if !errors.As(err, &frozen) {
		t.Fatalf("define after freeze: got %v, want FrozenError", err)
	}

	// queries still work on a frozen registry
	if d, ok := r.Int.Distance(r.Any); !ok || d != 1 {
		t.Errorf("Distance(Int, Any) after freeze = (%d, %v), want (1, true)", d, ok)
	}
}
