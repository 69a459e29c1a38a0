package passes

import (
	"github.com/ava12/mage/grammar"
	"github.com/ava12/mage/pipeline"
)

// InsertMagicRulesName is the name of the pass created by InsertMagicRules.
const InsertMagicRulesName = "insert-magic-rules"

// Names of generated magic rules.
const (
	KeywordRuleName = "keyword"
	TokenRuleName   = "token"
	NodeRuleName    = "node"
	SyntaxRuleName  = "syntax"
)

// MagicRuleNames lists magic rule names in order of insertion.
var MagicRuleNames = []string{KeywordRuleName, TokenRuleName, NodeRuleName, SyntaxRuleName}

// AddMagicRules appends public rules matching any keyword, any token, any node, and any node or token.
// Every keyword, token, and node rule of the grammar is referenced by corresponding magic rule.
// Grammar must be flattened and must not define rules with magic names.
func AddMagicRules(g *grammar.Grammar) (*grammar.Grammar, error) {
	if g.HasModules() {
		return nil, notFlattenedError(InsertMagicRulesName)
	}
	for _, name := range MagicRuleNames {
		if r := g.Rule(name); r != nil {
			return nil, posError(r.Pos, MagicNameError, "rule name %q is reserved for generated rule", name)
		}
	}

	c := grammar.Classify(g)
	var keywords, tokens, nodes []grammar.Expr
	for _, r := range g.Rules() {
		switch {
		case c.IsToken(r.Name):
			tokens = append(tokens, grammar.R(r.Name))
			if c.IsKeyword(r.Name) {
				keywords = append(keywords, grammar.R(r.Name))
			}
		case c.IsNode(r.Name):
			nodes = append(nodes, grammar.R(r.Name))
		}
	}

	magic := func(name string, alts ...grammar.Expr) grammar.Element {
		return &grammar.Rule{Name: name, Flags: grammar.PublicRule, Expr: grammar.Alt(alts...)}
	}
	es := append(make([]grammar.Element, 0, len(g.Elements)+len(MagicRuleNames)), g.Elements...)
	es = append(es,
		magic(KeywordRuleName, keywords...),
		magic(TokenRuleName, tokens...),
		magic(NodeRuleName, nodes...),
		magic(SyntaxRuleName, grammar.R(NodeRuleName), grammar.R(TokenRuleName)),
	)
	return g.WithElements(es), nil
}

// InsertMagicRules creates the pass adding magic rules.
func InsertMagicRules() pipeline.Pass {
	return pipeline.Pass{
		Name:        InsertMagicRulesName,
		Description: "adds keyword, token, node, and syntax rules",
		After:       []string{FlattenModulesName},
		Flattened:   true,
		Run:         AddMagicRules,
	}
}
