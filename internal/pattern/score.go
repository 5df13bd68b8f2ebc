package pattern

import (
	"strconv"
	"strings"
)

// Score measures how specific a successful match was. Each component is a tag
// distance (0 = exact); a longer vector reflects deeper destructuring. Lower
// components and longer vectors are more specific.
type Score []int

func (s Score) Equal(o Score) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}
	return true
}

// Dominates reports whether s beats o: component-wise less-or-equal everywhere
// and strictly less somewhere. Both vectors must have the same length.
func (s Score) Dominates(o Score) bool {
	if len(s) != len(o) {
		return false
	}
	strict := false
	for i := range s {
		if s[i] > o[i] {
			return false
		}
		if s[i] < o[i] {
			strict = true
		}
	}
	return strict
}

func (s Score) String() string {
	parts := make([]string, len(s))
	for i, c := range s {
		parts[i] = strconv.Itoa(c)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// combineMax folds src into dst component-wise, keeping the worse (larger)
// component. The vectors may differ in length: a nested element pattern
// scores shorter against an empty container than against a populated one.
// A missing component counts as exact (0), so the longer vector's tail is
// carried over unchanged.
func combineMax(dst, src Score) Score {
	for i, c := range src {
		if i == len(dst) {
			return append(dst, src[i:]...)
		}
		if c > dst[i] {
			dst[i] = c
		}
	}
	return dst
}
