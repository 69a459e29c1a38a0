package grammar

import (
	"regexp"
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Classes holds derived rule classification of a grammar.
//
// A rule is a variant rule if its body is a choice of plain references (a union of other rules).
// A rule is a token rule if it has ForceToken flag, or if it is not public, not a variant, and either
// external or has lexical body: one that references token rules only.
// A token rule is a keyword if it has KeywordRule flag or its body is an identifier-like literal.
// Rules that are neither tokens nor variants are node rules.
type Classes struct {
	rules   map[string]*Rule
	tokens  map[string]bool
	variant map[string]bool
}

// Classify computes classification for all rules of the grammar (including rules in modules).
func Classify(g *Grammar) *Classes {
	c := &Classes{
		rules:   make(map[string]*Rule),
		tokens:  make(map[string]bool),
		variant: make(map[string]bool),
	}
	rules := g.AllRules()
	for _, r := range rules {
		if _, has := c.rules[r.Name]; !has {
			c.rules[r.Name] = r
		}
	}

	for _, r := range rules {
		if r.Flags&ForceToken == 0 && isVariantBody(r.Expr) {
			c.variant[r.Name] = true
		}
	}

	for _, r := range rules {
		switch {
		case r.Flags&ForceToken != 0:
			c.tokens[r.Name] = true
		case c.variant[r.Name] || r.IsPublic():
		default:
			c.tokens[r.Name] = true
		}
	}

	for changed := true; changed; {
		changed = false
		for name := range c.tokens {
			r := c.rules[name]
			if r.Flags&ForceToken == 0 && r.Expr != nil && !c.refsTokensOnly(r.Expr) {
				delete(c.tokens, name)
				changed = true
			}
		}
	}

	return c
}

func isVariantBody(e Expr) bool {
	ch, is := e.(*Choice)
	if !is {
		return false
	}
	for _, alt := range ch.Alts {
		if _, is := alt.(*Ref); !is {
			return false
		}
	}
	return true
}

func (c *Classes) refsTokensOnly(e Expr) bool {
	res := true
	Visit(e, func(e Expr) bool {
		if ref, is := e.(*Ref); is && !c.tokens[ref.Name] {
			res = false
		}
		return res
	})
	return res
}

// Rule returns classified rule by name or nil.
func (c *Classes) Rule(name string) *Rule {
	return c.rules[name]
}

func (c *Classes) IsToken(name string) bool {
	return c.tokens[name]
}

func (c *Classes) IsVariant(name string) bool {
	return c.variant[name]
}

func (c *Classes) IsKeyword(name string) bool {
	if !c.tokens[name] {
		return false
	}
	r := c.rules[name]
	if r.Flags&KeywordRule != 0 {
		return true
	}
	lit, is := r.Expr.(*Literal)
	return is && identRe.MatchString(lit.Text)
}

// IsNode reports whether the rule is neither a token nor a variant rule.
func (c *Classes) IsNode(name string) bool {
	_, has := c.rules[name]
	return has && !c.tokens[name] && !c.variant[name]
}

// IsFixedToken reports whether the rule is a token rule matching exactly one literal text.
func (c *Classes) IsFixedToken(name string) (string, bool) {
	if !c.tokens[name] {
		return "", false
	}
	lit, is := c.rules[name].Expr.(*Literal)
	if !is {
		return "", false
	}
	return lit.Text, true
}

// IsIdentifier reports whether text looks like an identifier.
func IsIdentifier(text string) bool {
	return identRe.MatchString(text)
}
