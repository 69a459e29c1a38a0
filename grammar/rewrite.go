package grammar

// Transformer maps an expression to its replacement.
// Transformers must not depend on anything but their argument.
type Transformer func(Expr) Expr

// MapChildren returns a fresh copy of e with every direct child replaced by f(child).
// It does not descend any deeper: recursive passes call it at each level of their own recursion.
func MapChildren(e Expr, f Transformer) Expr {
	cs := e.Children()
	if len(cs) == 0 {
		return e.WithChildren(nil)
	}

	mapped := make([]Expr, len(cs))
	for i, c := range cs {
		mapped[i] = f(c)
	}
	return e.WithChildren(mapped)
}

// Rewrite applies f to every node of expression tree bottom-up:
// children are rewritten before their parent is passed to f.
// Nodes f does not care about should be returned unchanged.
func Rewrite(e Expr, f Transformer) Expr {
	var walk Transformer
	walk = func(e Expr) Expr {
		return f(MapChildren(e, walk))
	}
	return walk(e)
}

// Clone returns a structural copy of e sharing no nodes with it.
func Clone(e Expr) Expr {
	if e == nil {
		return nil
	}
	return Rewrite(e, func(e Expr) Expr { return e })
}

// Visitor is called for every visited node, returning false skips node children.
type Visitor func(Expr) bool

// Visit walks expression tree top-down without rebuilding it.
func Visit(e Expr, v Visitor) {
	if e == nil || !v(e) {
		return
	}
	for _, c := range e.Children() {
		Visit(c, v)
	}
}

// VisitRules calls v for every subexpression of every rule body, including rules in modules.
// rule is the rule owning visited expressions.
func VisitRules(g *Grammar, v func(rule *Rule, e Expr) bool) {
	for _, r := range g.AllRules() {
		if r.Expr != nil {
			Visit(r.Expr, func(e Expr) bool { return v(r, e) })
		}
	}
}

// MapElements derives grammar with every rule and example replaced by result of corresponding function,
// descending into modules. Nil function leaves elements of that type as is.
func MapElements(g *Grammar, rf func(*Rule) *Rule, ef func(*Example) *Example) *Grammar {
	return g.WithElements(mapElements(g.Elements, rf, ef))
}

func mapElements(es []Element, rf func(*Rule) *Rule, ef func(*Example) *Example) []Element {
	res := make([]Element, len(es))
	for i, el := range es {
		switch x := el.(type) {
		case *Rule:
			if rf != nil {
				el = rf(x)
			}
		case *Example:
			if ef != nil {
				el = ef(x)
			}
		case *Module:
			el = x.WithElements(mapElements(x.Elements, rf, ef))
		}
		res[i] = el
	}
	return res
}

// TransformRules derives grammar with every rule replaced by f(rule).
func TransformRules(g *Grammar, f func(*Rule) *Rule) *Grammar {
	return MapElements(g, f, nil)
}

// MapRules derives grammar with body of every rule passed through f.
// External rules (with no body) are kept as is. Other rule fields are preserved.
func MapRules(g *Grammar, f Transformer) *Grammar {
	return TransformRules(g, func(r *Rule) *Rule {
		if r.Expr == nil {
			return r
		}
		return r.WithExpr(f(r.Expr))
	})
}

// RewriteRules applies f bottom-up to every node of every rule body.
func RewriteRules(g *Grammar, f Transformer) *Grammar {
	return MapRules(g, func(e Expr) Expr { return Rewrite(e, f) })
}
