package passes

import (
	"strings"

	"github.com/go-logr/logr"

	"github.com/ava12/mage"
	"github.com/ava12/mage/grammar"
	"github.com/ava12/mage/internal/queue"
	"github.com/ava12/mage/pipeline"
)

// Names of validation passes.
const (
	CheckUndefinedName  = "check-undefined"
	CheckCharsetsName   = "check-charsets"
	CheckDuplicatesName = "check-duplicates"
	CheckRecursionName  = "check-recursion"
	CheckUnusedName     = "check-unused"
)

// FindUndefined reports every reference (and example) to a rule that is not defined.
// Each rule reports each undefined name once.
func FindUndefined(g *grammar.Grammar) error {
	defined := make(map[string]bool)
	for _, r := range g.AllRules() {
		defined[r.Name] = true
	}

	var errs mage.ErrorList
	for _, r := range g.AllRules() {
		if r.Expr == nil {
			continue
		}
		reported := make(map[string]bool)
		grammar.Visit(r.Expr, func(e grammar.Expr) bool {
			if ref, is := e.(*grammar.Ref); is && !defined[ref.Name] && !reported[ref.Name] {
				reported[ref.Name] = true
				errs = append(errs, posError(r.Pos, UndefinedRuleError, "rule %q references undefined rule %q", r.Name, ref.Name))
			}
			return true
		})
	}
	for _, ex := range g.Examples() {
		if !defined[ex.Rule] {
			errs = append(errs, posError(ex.Pos, UndefinedRuleError, "example references undefined rule %q", ex.Rule))
		}
	}
	return errs.Err()
}

// FindInvertedRanges reports every charset range having low bound greater than high bound.
func FindInvertedRanges(g *grammar.Grammar) error {
	var errs mage.ErrorList
	grammar.VisitRules(g, func(r *grammar.Rule, e grammar.Expr) bool {
		if cs, is := e.(*grammar.Charset); is {
			for _, cr := range cs.Ranges {
				if cr.Low > cr.High {
					errs = append(errs, posError(r.Pos, InvertedRangeError, "rule %q: inverted charset range %s..%s (%U > %U)",
						r.Name, grammar.QuoteChar(cr.Low), grammar.QuoteChar(cr.High), cr.Low, cr.High))
				}
			}
		}
		return true
	})
	return errs.Err()
}

// FindDuplicates reports rules and modules defined more than once in the same scope.
func FindDuplicates(g *grammar.Grammar) error {
	var errs mage.ErrorList
	findDuplicates(g.Elements, &errs)
	return errs.Err()
}

func findDuplicates(es []grammar.Element, errs *mage.ErrorList) {
	rules := make(map[string]bool)
	modules := make(map[string]bool)
	for _, el := range es {
		switch x := el.(type) {
		case *grammar.Rule:
			if rules[x.Name] {
				*errs = append(*errs, posError(x.Pos, DuplicateRuleError, "rule %q is already defined", x.Name))
			}
			rules[x.Name] = true
		case *grammar.Module:
			if modules[x.Name] {
				*errs = append(*errs, posError(x.Pos, DuplicateRuleError, "module %q is already defined", x.Name))
			}
			modules[x.Name] = true
			findDuplicates(x.Elements, errs)
		}
	}
}

// FindUnused returns names of rules unreachable from roots in declaration order.
// Roots are public rules and rules used by examples; if there are none, the first rule is the root.
func FindUnused(g *grammar.Grammar) []string {
	rules := g.AllRules()
	if len(rules) == 0 {
		return nil
	}

	byName := make(map[string]*grammar.Rule, len(rules))
	for _, r := range rules {
		if _, has := byName[r.Name]; !has {
			byName[r.Name] = r
		}
	}

	used := make(map[string]bool)
	q := queue.New[string]()
	mark := func(name string) {
		if !used[name] && byName[name] != nil {
			used[name] = true
			q.Append(name)
		}
	}
	for _, r := range rules {
		if r.IsPublic() {
			mark(r.Name)
		}
	}
	for _, ex := range g.Examples() {
		mark(ex.Rule)
	}
	if q.IsEmpty() {
		mark(rules[0].Name)
	}

	for name, ok := q.First(); ok; name, ok = q.First() {
		grammar.Visit(byName[name].Expr, func(e grammar.Expr) bool {
			if ref, is := e.(*grammar.Ref); is {
				mark(ref.Name)
			}
			return true
		})
	}

	var res []string
	for _, r := range rules {
		if !used[r.Name] {
			res = append(res, r.Name)
		}
	}
	return res
}

// CheckUndefined creates the pass reporting undefined references.
func CheckUndefined() pipeline.Pass {
	p := pipeline.Check(CheckUndefinedName, "reports references to undefined rules", FindUndefined)
	p.After = []string{FlattenModulesName}
	p.Flattened = true
	return p
}

// CheckCharsets creates the pass reporting inverted charset ranges.
func CheckCharsets() pipeline.Pass {
	return pipeline.Check(CheckCharsetsName, "reports inverted charset ranges", FindInvertedRanges)
}

// CheckDuplicates creates the pass reporting rules defined twice in the same scope.
func CheckDuplicates() pipeline.Pass {
	return pipeline.Check(CheckDuplicatesName, "reports duplicate rule and module names", FindDuplicates)
}

// CheckUnused creates the pass logging a warning for every unreachable rule. It never fails.
func CheckUnused(log logr.Logger) pipeline.Pass {
	return pipeline.Check(CheckUnusedName, "warns about rules unreachable from public rules", func(g *grammar.Grammar) error {
		if unused := FindUnused(g); len(unused) > 0 {
			log.Info("unused rules", "rules", strings.Join(unused, ", "))
		}
		return nil
	})
}
