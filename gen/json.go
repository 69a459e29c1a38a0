package gen

import (
	"encoding/json"

	"github.com/ava12/mage/grammar"
)

// Document is the serializable form of flattened grammar produced by json target.
type Document struct {
	Rules    []RuleDoc    `json:"rules" jsonschema:"description=Grammar rules in definition order"`
	Examples []ExampleDoc `json:"examples,omitempty" jsonschema:"description=Embedded examples"`
}

// RuleDoc describes a single rule.
type RuleDoc struct {
	Name       string         `json:"name"`
	Class      string         `json:"class" jsonschema:"enum=token,enum=keyword,enum=variant,enum=node"`
	Public     bool           `json:"public,omitempty"`
	Extern     bool           `json:"extern,omitempty"`
	Type       string         `json:"type,omitempty"`
	Mode       int            `json:"mode,omitempty" jsonschema:"minimum=0"`
	Comment    string         `json:"comment,omitempty"`
	Decorators []DecoratorDoc `json:"decorators,omitempty"`
	Body       *ExprDoc       `json:"body,omitempty" jsonschema:"description=Rule body (absent for external rules)"`
}

type DecoratorDoc struct {
	Name string   `json:"name"`
	Args []string `json:"args,omitempty"`
}

// ExprDoc describes an expression. Items hold subexpressions: sequence items, choice alternatives,
// or the single operand of list, repeat, lookahead, and hide expressions.
type ExprDoc struct {
	Kind    string     `json:"kind" jsonschema:"enum=ref,enum=literal,enum=charset,enum=any,enum=seq,enum=choice,enum=list,enum=repeat,enum=lookahead,enum=hide"`
	Name    string     `json:"name,omitempty"`
	Text    string     `json:"text,omitempty"`
	Ranges  []RangeDoc `json:"ranges,omitempty"`
	Invert  bool       `json:"invert,omitempty"`
	Negated bool       `json:"negated,omitempty"`
	Min     int        `json:"min,omitempty" jsonschema:"minimum=0"`
	Max     *int       `json:"max,omitempty" jsonschema:"description=Repeat upper bound (absent if unbounded)"`
	Items   []*ExprDoc `json:"items,omitempty"`
	Sep     *ExprDoc   `json:"sep,omitempty"`
}

// RangeDoc is an inclusive character range.
type RangeDoc struct {
	Low  string `json:"low"`
	High string `json:"high"`
}

type ExampleDoc struct {
	Rule       string `json:"rule"`
	Input      string `json:"input"`
	ExpectFail bool   `json:"expectFail,omitempty"`
}

// NewDocument builds grammar document for flattened grammar.
func NewDocument(g *grammar.Grammar) *Document {
	c := grammar.Classify(g)
	doc := &Document{Rules: []RuleDoc{}}
	for _, r := range g.Rules() {
		rd := RuleDoc{
			Name:    r.Name,
			Class:   ruleClass(c, r.Name),
			Public:  r.IsPublic(),
			Extern:  r.IsExtern(),
			Type:    r.Type,
			Mode:    r.Mode,
			Comment: r.Comment,
		}
		for _, d := range r.Decorators {
			rd.Decorators = append(rd.Decorators, DecoratorDoc{d.Name, d.Args})
		}
		if r.Expr != nil {
			rd.Body = exprDoc(r.Expr)
		}
		doc.Rules = append(doc.Rules, rd)
	}
	for _, ex := range g.Examples() {
		doc.Examples = append(doc.Examples, ExampleDoc{ex.Rule, ex.Input, ex.ExpectFail})
	}
	return doc
}

func ruleClass(c *grammar.Classes, name string) string {
	switch {
	case c.IsKeyword(name):
		return "keyword"
	case c.IsToken(name):
		return "token"
	case c.IsVariant(name):
		return "variant"
	default:
		return "node"
	}
}

func exprDoc(e grammar.Expr) *ExprDoc {
	res := &ExprDoc{Kind: e.Kind().String()}
	switch x := e.(type) {
	case *grammar.Ref:
		res.Name = x.Name
	case *grammar.Literal:
		res.Text = x.Text
	case *grammar.Charset:
		res.Invert = x.Invert
		for _, cr := range x.Ranges {
			res.Ranges = append(res.Ranges, RangeDoc{string(cr.Low), string(cr.High)})
		}
	case *grammar.List:
		res.Min = x.Min
		res.Items = []*ExprDoc{exprDoc(x.Elem)}
		if x.Sep != nil {
			res.Sep = exprDoc(x.Sep)
		}
		return res
	case *grammar.Repeat:
		res.Min = x.Min
		if x.Max != grammar.Unbounded {
			hi := x.Max
			res.Max = &hi
		}
	case *grammar.Lookahead:
		res.Negated = x.Negated
	}

	for _, child := range e.Children() {
		res.Items = append(res.Items, exprDoc(child))
	}
	return res
}

func generateJSON(g *grammar.Grammar, opts Options) (Files, error) {
	content, e := json.MarshalIndent(NewDocument(g), "", "  ")
	if e != nil {
		return nil, e
	}
	return Files{opts.Name + ".json": append(content, '\n')}, nil
}
