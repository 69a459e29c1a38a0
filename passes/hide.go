package passes

import (
	"github.com/ava12/mage/grammar"
	"github.com/ava12/mage/pipeline"
)

// Names of hiding passes.
const (
	HideLookaheadsName = "hide-lookaheads"
	RemoveHiddenName   = "remove-hidden"
	UnhideName         = "unhide"
)

func hideLookaheads(e grammar.Expr) grammar.Expr {
	switch x := e.(type) {
	case *grammar.Hide:
		if _, is := x.Expr.(*grammar.Lookahead); is {
			return grammar.Clone(x)
		}
	case *grammar.Lookahead:
		return &grammar.Hide{Expr: grammar.Clone(x)}
	}
	return grammar.MapChildren(e, hideLookaheads)
}

// HideRuleLookaheads wraps every lookahead of non-token rules in Hide, so that lookaheads never
// contribute nodes to syntax trees. Lookaheads that are already hidden are left as is.
func HideRuleLookaheads(g *grammar.Grammar) *grammar.Grammar {
	c := grammar.Classify(g)
	return grammar.TransformRules(g, func(r *grammar.Rule) *grammar.Rule {
		if r.Expr == nil || c.IsToken(r.Name) {
			return r
		}
		return r.WithExpr(hideLookaheads(r.Expr))
	})
}

// RemoveHiddenExprs replaces every hidden subexpression with the empty sequence.
func RemoveHiddenExprs(g *grammar.Grammar) *grammar.Grammar {
	return grammar.RewriteRules(g, func(e grammar.Expr) grammar.Expr {
		if _, is := e.(*grammar.Hide); is {
			return grammar.Sequence()
		}
		return e
	})
}

// UnhideExprs replaces every hidden subexpression with its content.
func UnhideExprs(g *grammar.Grammar) *grammar.Grammar {
	return grammar.RewriteRules(g, func(e grammar.Expr) grammar.Expr {
		if h, is := e.(*grammar.Hide); is {
			return h.Expr
		}
		return e
	})
}

// HideLookaheads creates the pass hiding lookaheads of non-token rules.
func HideLookaheads() pipeline.Pass {
	return pipeline.Transform(HideLookaheadsName, "wraps lookaheads of non-token rules in hide", HideRuleLookaheads)
}

// RemoveHidden creates the pass dropping hidden subexpressions.
func RemoveHidden() pipeline.Pass {
	return pipeline.Transform(RemoveHiddenName, "replaces hidden subexpressions with empty sequence", RemoveHiddenExprs)
}

// Unhide creates the pass removing hide markers.
func Unhide() pipeline.Pass {
	return pipeline.Transform(UnhideName, "removes hide markers keeping their content", UnhideExprs)
}
