package grammar

import (
	"github.com/ava12/mage/source"
)

// RuleFlags holds boolean rule properties.
type RuleFlags int

const (
	// PublicRule rules are visible to consumers and produce syntax tree nodes.
	PublicRule RuleFlags = 1 << iota
	// ForceToken makes the rule a token rule regardless of its body.
	ForceToken
	// KeywordRule makes the rule a keyword regardless of its body.
	KeywordRule
)

// Decorator is an opaque annotation interpreted by passes and generators.
type Decorator struct {
	Name string
	Args []string
}

// Element is a top-level grammar element: *Rule, *Module, or *Example.
type Element interface {
	element()
}

// Rule is a named grammar rule. Expr is nil for external rules.
// Mode distinguishes rules that came from different modules after flattening, 0 is the top level.
type Rule struct {
	Name       string
	Type       string
	Expr       Expr
	Flags      RuleFlags
	Decorators []Decorator
	Mode       int
	Comment    string
	Pos        source.Pos
}

func (*Rule) element() {}

func (r *Rule) IsPublic() bool {
	return r.Flags&PublicRule != 0
}

func (r *Rule) IsExtern() bool {
	return r.Expr == nil
}

// Decorator returns the first decorator with given name.
func (r *Rule) Decorator(name string) (Decorator, bool) {
	for _, d := range r.Decorators {
		if d.Name == name {
			return d, true
		}
	}
	return Decorator{}, false
}

func (r *Rule) HasDecorator(name string) bool {
	_, has := r.Decorator(name)
	return has
}

func (r *Rule) derive() *Rule {
	c := *r
	return &c
}

// WithName derives renamed rule.
func (r *Rule) WithName(name string) *Rule {
	c := r.derive()
	c.Name = name
	return c
}

// WithExpr derives rule with another body.
func (r *Rule) WithExpr(e Expr) *Rule {
	c := r.derive()
	c.Expr = e
	return c
}

// WithFlags derives rule with another set of flags.
func (r *Rule) WithFlags(flags RuleFlags) *Rule {
	c := r.derive()
	c.Flags = flags
	return c
}

// WithMode derives rule with another module mode.
func (r *Rule) WithMode(mode int) *Rule {
	c := r.derive()
	c.Mode = mode
	return c
}

// WithDecorator derives rule with one more decorator.
func (r *Rule) WithDecorator(d Decorator) *Rule {
	c := r.derive()
	c.Decorators = append(append(make([]Decorator, 0, len(r.Decorators)+1), r.Decorators...), d)
	return c
}

// Module is a named group of elements. Rule names are unique within their immediate module.
type Module struct {
	Name     string
	Elements []Element
	Pos      source.Pos
}

func (*Module) element() {}

// WithElements derives module with another element list.
func (m *Module) WithElements(es []Element) *Module {
	return &Module{Name: m.Name, Elements: es, Pos: m.Pos}
}

// Example is an embedded test case: Input must be accepted by Rule unless ExpectFail is set.
type Example struct {
	Rule       string
	Input      string
	ExpectFail bool
	Pos        source.Pos
}

func (*Example) element() {}

// WithRule derives example targeting another rule name.
func (ex *Example) WithRule(name string) *Example {
	c := *ex
	c.Rule = name
	return &c
}

// Grammar is an ordered list of elements. After module flattening it contains only rules and examples.
type Grammar struct {
	Elements []Element
}

// New creates grammar containing given elements.
func New(elements ...Element) *Grammar {
	return &Grammar{Elements: append([]Element(nil), elements...)}
}

// WithElements derives grammar with another element list.
func (g *Grammar) WithElements(es []Element) *Grammar {
	return &Grammar{Elements: es}
}

// Rules returns top-level rules in declaration order.
func (g *Grammar) Rules() []*Rule {
	res := make([]*Rule, 0, len(g.Elements))
	for _, el := range g.Elements {
		if r, is := el.(*Rule); is {
			res = append(res, r)
		}
	}
	return res
}

// AllRules returns rules of all modules in depth-first order.
func (g *Grammar) AllRules() []*Rule {
	var res []*Rule
	walkElements(g.Elements, func(el Element) {
		if r, is := el.(*Rule); is {
			res = append(res, r)
		}
	})
	return res
}

// Rule returns top-level rule with given name or nil.
func (g *Grammar) Rule(name string) *Rule {
	for _, el := range g.Elements {
		if r, is := el.(*Rule); is && r.Name == name {
			return r
		}
	}
	return nil
}

// Examples returns examples of all modules in depth-first order.
func (g *Grammar) Examples() []*Example {
	var res []*Example
	walkElements(g.Elements, func(el Element) {
		if ex, is := el.(*Example); is {
			res = append(res, ex)
		}
	})
	return res
}

// HasModules reports whether grammar still contains nested modules.
func (g *Grammar) HasModules() bool {
	for _, el := range g.Elements {
		if _, is := el.(*Module); is {
			return true
		}
	}
	return false
}

func walkElements(es []Element, f func(Element)) {
	for _, el := range es {
		f(el)
		if m, is := el.(*Module); is {
			walkElements(m.Elements, f)
		}
	}
}
