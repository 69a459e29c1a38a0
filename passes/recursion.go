package passes

import (
	"strings"

	"github.com/ava12/mage/grammar"
	"github.com/ava12/mage/internal/queue"
	"github.com/ava12/mage/pipeline"
)

type leftAnalysis struct {
	rules    map[string]*grammar.Rule
	nullable map[string]bool
}

func newLeftAnalysis(g *grammar.Grammar) *leftAnalysis {
	a := &leftAnalysis{rules: make(map[string]*grammar.Rule), nullable: make(map[string]bool)}
	for _, r := range g.AllRules() {
		if _, has := a.rules[r.Name]; !has {
			a.rules[r.Name] = r
		}
	}

	for changed := true; changed; {
		changed = false
		for name, r := range a.rules {
			if !a.nullable[name] && r.Expr != nil && a.isNullable(r.Expr) {
				a.nullable[name] = true
				changed = true
			}
		}
	}
	return a
}

// isNullable reports whether expression may match empty input, given current rule nullability.
func (a *leftAnalysis) isNullable(e grammar.Expr) bool {
	switch x := e.(type) {
	case *grammar.Ref:
		return a.nullable[x.Name]
	case *grammar.Literal:
		return x.Text == ""
	case *grammar.Charset, *grammar.Any:
		return false
	case *grammar.Seq:
		for _, item := range x.Items {
			if !a.isNullable(item) {
				return false
			}
		}
		return true
	case *grammar.Choice:
		for _, alt := range x.Alts {
			if a.isNullable(alt) {
				return true
			}
		}
		return false
	case *grammar.List:
		return x.Min == 0 || (a.isNullable(x.Elem) && (x.Sep == nil || x.Min <= 1 || a.isNullable(x.Sep)))
	case *grammar.Repeat:
		return x.Min == 0 || a.isNullable(x.Expr)
	case *grammar.Lookahead:
		return true
	case *grammar.Hide:
		return a.isNullable(x.Expr)
	}
	return false
}

// leading appends names of rules that may be referenced before any input is consumed.
func (a *leftAnalysis) leading(e grammar.Expr, res []string) []string {
	switch x := e.(type) {
	case *grammar.Ref:
		return append(res, x.Name)
	case *grammar.Seq:
		for _, item := range x.Items {
			res = a.leading(item, res)
			if !a.isNullable(item) {
				break
			}
		}
	case *grammar.Choice:
		for _, alt := range x.Alts {
			res = a.leading(alt, res)
		}
	case *grammar.List:
		res = a.leading(x.Elem, res)
		if x.Sep != nil && a.isNullable(x.Elem) {
			res = a.leading(x.Sep, res)
		}
	case *grammar.Repeat:
		res = a.leading(x.Expr, res)
	case *grammar.Lookahead:
		res = a.leading(x.Expr, res)
	case *grammar.Hide:
		res = a.leading(x.Expr, res)
	}
	return res
}

// isLeftRecursive reports whether rule may reach itself through leading references.
func (a *leftAnalysis) isLeftRecursive(r *grammar.Rule) bool {
	if r.Expr == nil {
		return false
	}

	seen := make(map[string]bool)
	q := queue.New(a.leading(r.Expr, nil)...)
	for name, ok := q.First(); ok; name, ok = q.First() {
		if name == r.Name {
			return true
		}
		target := a.rules[name]
		if seen[name] || target == nil || target.Expr == nil {
			continue
		}

		seen[name] = true
		q.Append(a.leading(target.Expr, nil)...)
	}
	return false
}

// FindLeftRecursion reports all rules that may reference themselves before consuming any input.
func FindLeftRecursion(g *grammar.Grammar) error {
	a := newLeftAnalysis(g)
	var names []string
	for _, r := range g.AllRules() {
		if a.isLeftRecursive(r) {
			names = append(names, r.Name)
		}
	}
	if len(names) == 0 {
		return nil
	}
	return posError(a.rules[names[0]].Pos, LeftRecursionError, "left recursion in rules: %s", strings.Join(names, ", "))
}

// CheckRecursion creates the pass reporting left-recursive rules.
func CheckRecursion() pipeline.Pass {
	p := pipeline.Check(CheckRecursionName, "reports left-recursive rules", FindLeftRecursion)
	p.After = []string{FlattenModulesName}
	p.Flattened = true
	return p
}
