package dispatch

import (
	"fmt"
	"log/slog"
	"newt/internal/object"
	"newt/internal/pattern"
)

// Selection is the outcome of a successful resolve: the winning definition and
// the bindings merged across all its positional matches, ready to extend the
// evaluator's environment.
type Selection struct {
	Def      *Definition
	Bindings pattern.Bindings
	Score    pattern.Score
}

// Candidate reports how one definition fared during a resolve. Used by
// introspection tooling; Resolve itself only returns the winner.
type Candidate struct {
	Def      *Definition
	Matched  bool
	Score    pattern.Score
	Bindings pattern.Bindings
	Reason   string // elimination reason when not matched
}

// Resolve picks the unique best-matching definition for a call. Dispatch is a
// pure function of the frozen table state and the arguments: repeated calls
// with the same inputs yield the same result.
func (t *Table) Resolve(name string, args []object.Object) (*Selection, error) {
	candidates, err := t.matchCandidates(name, args)
	if err != nil {
		return nil, err
	}
	return t.selectWinner(name, args, candidates)
}

// Explain runs the same resolution as Resolve but reports every candidate's
// score or elimination reason alongside the outcome.
func (t *Table) Explain(name string, args []object.Object) ([]Candidate, *Selection, error) {
	candidates, err := t.matchCandidates(name, args)
	if err != nil {
		return nil, nil, err
	}
	sel, err := t.selectWinner(name, args, candidates)
	return candidates, sel, err
}

func (t *Table) matchCandidates(name string, args []object.Object) ([]Candidate, error) {
	g, ok := t.groups[name]
	if !ok {
		return nil, &NoSuchFunctionError{Name: name, Arity: len(args)}
	}
	defs := g.byArity[len(args)]
	if len(defs) == 0 {
		return nil, &NoSuchFunctionError{Name: name, Arity: len(args)}
	}

	slog.Debug("dispatching",
		slog.String("function", name),
		slog.Int("arity", len(args)),
		slog.Int("candidates", len(defs)))

	candidates := make([]Candidate, 0, len(defs))
	for _, def := range defs {
		cand := Candidate{Def: def, Matched: true, Bindings: pattern.Bindings{}}
		for i, param := range def.Params {
			res, err := t.matcher.Match(param, args[i])
			if err != nil {
				return nil, err
			}
			if res == nil {
				cand.Matched = false
				cand.Score = nil
				cand.Bindings = nil
				cand.Reason = fmt.Sprintf("argument %d (%s) does not match %s",
					i+1, args[i].Inspect(), param)
				break
			}
			cand.Score = append(cand.Score, res.Score...)
			for k, v := range res.Bindings {
				cand.Bindings[k] = v
			}
		}
		candidates = append(candidates, cand)
	}
	return candidates, nil
}

func (t *Table) selectWinner(name string, args []object.Object, candidates []Candidate) (*Selection, error) {
	var survivors []Candidate
	for _, cand := range candidates {
		if cand.Matched {
			survivors = append(survivors, cand)
		}
	}
	if len(survivors) == 0 {
		return nil, &NoMatchingOverloadError{Name: name, Args: args}
	}

	// longest score vector first: deeper destructuring is more specific
	maxLen := 0
	for _, cand := range survivors {
		if len(cand.Score) > maxLen {
			maxLen = len(cand.Score)
		}
	}
	var tied []Candidate
	for _, cand := range survivors {
		if len(cand.Score) == maxLen {
			tied = append(tied, cand)
		}
	}

	if len(tied) == 1 {
		return selection(tied[0]), nil
	}

	// among length ties only a component-wise dominator wins
	for i := range tied {
		dominatesAll := true
		for j := range tied {
			if i != j && !tied[i].Score.Dominates(tied[j].Score) {
				dominatesAll = false
				break
			}
		}
		if dominatesAll {
			slog.Debug("dispatch winner by dominance",
				slog.String("function", name),
				slog.String("score", tied[i].Score.String()))
			return selection(tied[i]), nil
		}
	}

	defs := make([]*Definition, len(tied))
	for i, cand := range tied {
		defs[i] = cand.Def
	}
	return nil, &AmbiguousDispatchError{Name: name, Candidates: defs}
}

func selection(c Candidate) *Selection {
	return &Selection{Def: c.Def, Bindings: c.Bindings, Score: c.Score}
}
