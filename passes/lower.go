package passes

import (
	"github.com/ava12/mage"
	"github.com/ava12/mage/grammar"
	"github.com/ava12/mage/pipeline"
)

// LowerToCoreName is the name of the pass created by LowerToCore.
const LowerToCoreName = "lower-to-core"

// CheckRepeats reports every repetition with invalid bounds.
func CheckRepeats(g *grammar.Grammar) error {
	var errs mage.ErrorList
	grammar.VisitRules(g, func(r *grammar.Rule, e grammar.Expr) bool {
		rep, is := e.(*grammar.Repeat)
		if is && (rep.Min < 0 || (rep.Max != grammar.Unbounded && rep.Max < rep.Min)) {
			errs = append(errs, posError(r.Pos, InvalidRepeatError, "rule %q: invalid repetition bounds in %s", r.Name, rep))
		}
		return true
	})
	return errs.Err()
}

// lowerExpr replaces sugar nodes with core ones: unbounded repetitions become lists, bounded ones become
// mandatory copies followed by nested optionals. Nested sequences are spliced, single-item sequences are unwrapped.
func lowerExpr(e grammar.Expr) grammar.Expr {
	switch x := e.(type) {
	case *grammar.Repeat:
		if x.Max == grammar.Unbounded {
			return &grammar.List{Elem: x.Expr, Min: x.Min}
		}

		items := make([]grammar.Expr, 0, x.Min+1)
		for i := 0; i < x.Min; i++ {
			items = append(items, grammar.Clone(x.Expr))
		}
		var opt grammar.Expr
		for i := x.Max - x.Min; i > 0; i-- {
			body := grammar.Clone(x.Expr)
			if opt != nil {
				body = grammar.Sequence(body, opt)
			}
			opt = grammar.Alt(body, grammar.Sequence())
		}
		if opt != nil {
			items = append(items, opt)
		}
		return lowerExpr(grammar.Sequence(items...))

	case *grammar.Seq:
		items := make([]grammar.Expr, 0, len(x.Items))
		for _, item := range x.Items {
			if inner, is := item.(*grammar.Seq); is {
				items = append(items, inner.Items...)
			} else {
				items = append(items, item)
			}
		}
		if len(items) == 1 {
			return items[0]
		}
		return &grammar.Seq{Items: items}
	}
	return e
}

// Lower derives grammar containing core expression kinds only.
// Lowering a lowered grammar changes nothing.
func Lower(g *grammar.Grammar) (*grammar.Grammar, error) {
	if e := CheckRepeats(g); e != nil {
		return nil, e
	}
	return grammar.RewriteRules(g, lowerExpr), nil
}

// LowerToCore creates the pass eliminating repetition sugar.
func LowerToCore() pipeline.Pass {
	return pipeline.Pass{
		Name:        LowerToCoreName,
		Description: "replaces repetitions with lists, sequences, and choices",
		Run:         Lower,
	}
}
