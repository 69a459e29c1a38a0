package passes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ava12/mage/grammar"
	"github.com/ava12/mage/internal/test"
)

func rule(name string, e grammar.Expr) *grammar.Rule {
	return &grammar.Rule{Name: name, Expr: e}
}

func pubRule(name string, e grammar.Expr) *grammar.Rule {
	return &grammar.Rule{Name: name, Expr: e, Flags: grammar.PublicRule}
}

func ruleBodies(g *grammar.Grammar) map[string]string {
	res := make(map[string]string)
	for _, r := range g.AllRules() {
		if r.Expr != nil {
			res[r.Name] = r.Expr.String()
		}
	}
	return res
}

func ruleNames(g *grammar.Grammar) []string {
	var res []string
	for _, r := range g.AllRules() {
		res = append(res, r.Name)
	}
	return res
}

func TestPrefixRules(t *testing.T) {
	g := grammar.New(
		pubRule("r", grammar.Alt(grammar.Sequence(grammar.R("a"), grammar.R("M.b")), grammar.R("c"))),
		rule("a", grammar.Lit("a")),
		&grammar.Module{Name: "M", Elements: []grammar.Element{rule("b", grammar.R("a"))}},
		&grammar.Example{Rule: "r", Input: "a"},
	)
	pg := PrefixRules(g, "p_")

	assert.Equal(t, []string{"p_r", "p_a", "p_b"}, ruleNames(pg))
	assert.Equal(t, "p_a M.p_b | p_c", pg.Rule("p_r").Expr.String())
	assert.Equal(t, "p_r", pg.Examples()[0].Rule)
	assert.True(t, pg.Rule("p_r").IsPublic())

	assert.Equal(t, []string{"r", "a", "b"}, ruleNames(g), "source grammar must not change")
	assert.Same(t, g, PrefixRules(g, ""))
}

func TestCanonicalName(t *testing.T) {
	samples := map[string]string{
		"A":          "A",
		"foo":        "foo",
		"FooBar":     "foo_bar",
		"fooBar":     "foo_bar",
		"HTTPServer": "HTTP_server",
		"foo_bar":    "foo_bar",
		"Json2Yaml":  "json2_yaml",
		"X-Ray":      "X_ray",
	}
	for name, expected := range samples {
		assert.Equal(t, expected, CanonicalName(name), name)
	}
}

func TestFlatten(t *testing.T) {
	g := grammar.New(
		pubRule("start", grammar.Sequence(grammar.R("A.x"), grammar.R("B.y"), grammar.R("z"))),
		rule("z", grammar.Lit("z")),
		&grammar.Module{Name: "A", Elements: []grammar.Element{
			pubRule("x", grammar.Sequence(grammar.R("y"), grammar.Lit("a"))),
			rule("y", grammar.Lit("ay")),
			&grammar.Example{Rule: "x", Input: "aya"},
		}},
		&grammar.Module{Name: "B", Elements: []grammar.Element{
			rule("y", grammar.R("x")),
			rule("x", grammar.Lit("bx")),
			&grammar.Module{Name: "C", Elements: []grammar.Element{
				rule("w", grammar.Sequence(grammar.R("z"), grammar.R("x"), grammar.R("A.y"))),
			}},
		}},
	)

	fg, e := Flatten(g)
	require.NoError(t, e)
	assert.False(t, fg.HasModules())
	assert.Equal(t, []string{"start", "z", "A_x", "A_y", "B_y", "B_x", "B_C_w"}, ruleNames(fg))

	modes := make([]int, 0)
	for _, r := range fg.Rules() {
		modes = append(modes, r.Mode)
	}
	assert.Equal(t, []int{0, 0, 1, 1, 2, 2, 3}, modes)

	bodies := ruleBodies(fg)
	assert.Equal(t, "A_x B_y z", bodies["start"])
	assert.Equal(t, "A_y 'a'", bodies["A_x"])
	assert.Equal(t, "B_x", bodies["B_y"])
	assert.Equal(t, "z B_x A_y", bodies["B_C_w"])
	assert.Equal(t, "A_x", fg.Examples()[0].Rule)
	assert.True(t, fg.Rule("A_x").IsPublic())

	again, e := Flatten(fg)
	require.NoError(t, e)
	assert.Equal(t, fg.String(), again.String())
	assert.Equal(t, 3, again.Rule("B_C_w").Mode)
}

func TestFlattenClash(t *testing.T) {
	g := grammar.New(
		rule("A_x", grammar.Lit("1")),
		&grammar.Module{Name: "A", Elements: []grammar.Element{rule("x", grammar.Lit("2"))}},
	)
	_, e := Flatten(g)
	test.ExpectErrorCode(t, DuplicateRuleError, e)
	assert.Contains(t, e.Error(), `"A_x"`)
}

func TestHideLookaheads(t *testing.T) {
	g := grammar.New(
		pubRule("n", grammar.Sequence(
			grammar.Lit("a"),
			&grammar.Lookahead{Expr: grammar.Lit("b")},
			&grammar.Hide{Expr: &grammar.Lookahead{Expr: grammar.Lit("c"), Negated: true}},
			grammar.R("t"),
		)),
		rule("t", grammar.Sequence(grammar.Lit("b"), &grammar.Lookahead{Expr: grammar.Lit("c"), Negated: true})),
	)
	hg := HideRuleLookaheads(g)
	bodies := ruleBodies(hg)
	assert.Equal(t, "'a' ~&'b' ~!'c' t", bodies["n"])
	assert.Equal(t, "'b' !'c'", bodies["t"])

	assert.Equal(t, hg.String(), HideRuleLookaheads(hg).String())
	assert.Equal(t, "'a' &'b' !'c' t", ruleBodies(UnhideExprs(hg))["n"])
	assert.Equal(t, "'a' () () t", ruleBodies(RemoveHiddenExprs(hg))["n"])
}

func TestMagicRules(t *testing.T) {
	g := grammar.New(
		pubRule("stmt", grammar.Sequence(grammar.R("if_kw"), grammar.R("name"))),
		pubRule("expr", grammar.Alt(grammar.R("stmt"), grammar.R("name"))),
		rule("if_kw", grammar.Lit("if")),
		rule("name", &grammar.List{Elem: grammar.Chars('a', 'z'), Min: 1}),
	)
	mg, e := AddMagicRules(g)
	require.NoError(t, e)

	bodies := ruleBodies(mg)
	assert.Equal(t, "if_kw", bodies[KeywordRuleName])
	assert.Equal(t, "if_kw | name", bodies[TokenRuleName])
	assert.Equal(t, "stmt", bodies[NodeRuleName])
	assert.Equal(t, "node | token", bodies[SyntaxRuleName])

	c := grammar.Classify(mg)
	for _, name := range MagicRuleNames {
		assert.True(t, mg.Rule(name).IsPublic(), name)
		assert.True(t, c.IsVariant(name), name)
	}

	_, e = AddMagicRules(mg)
	test.ExpectErrorCode(t, MagicNameError, e)

	_, e = AddMagicRules(grammar.New(&grammar.Module{Name: "M"}))
	test.ExpectErrorCode(t, NotFlattenedError, e)
}

func TestMagicRulesOfEmptyGrammar(t *testing.T) {
	mg, e := AddMagicRules(grammar.New())
	require.NoError(t, e)
	assert.Equal(t, []string{"keyword", "token", "node", "syntax"}, ruleNames(mg))
	assert.Equal(t, "!()", mg.Rule(NodeRuleName).Expr.String())
}

func TestLower(t *testing.T) {
	a := grammar.Lit("a")
	g := grammar.New(
		rule("r23", &grammar.Repeat{Expr: a, Min: 2, Max: 3}),
		rule("r02", &grammar.Repeat{Expr: a, Min: 0, Max: 2}),
		rule("opt", &grammar.Repeat{Expr: a, Min: 0, Max: 1}),
		rule("star", &grammar.Repeat{Expr: a, Min: 0, Max: grammar.Unbounded}),
		rule("plus", &grammar.Repeat{Expr: grammar.R("r23"), Min: 1, Max: grammar.Unbounded}),
		rule("one", &grammar.Repeat{Expr: a, Min: 1, Max: 1}),
		rule("none", &grammar.Repeat{Expr: a, Min: 0, Max: 0}),
		rule("single", grammar.Sequence(grammar.Alt(a, grammar.R("b")))),
	)
	lg, e := Lower(g)
	require.NoError(t, e)

	bodies := ruleBodies(lg)
	assert.Equal(t, "'a' 'a' ('a' | ())", bodies["r23"])
	assert.Equal(t, "'a' ('a' | ()) | ()", bodies["r02"])
	assert.Equal(t, "'a' | ()", bodies["opt"])
	assert.Equal(t, "'a'*", bodies["star"])
	assert.Equal(t, "r23+", bodies["plus"])
	assert.Equal(t, "'a'", bodies["one"])
	assert.Equal(t, "()", bodies["none"])
	assert.Equal(t, "'a' | b", bodies["single"])

	_, isList := lg.Rule("star").Expr.(*grammar.List)
	assert.True(t, isList)
	grammar.VisitRules(lg, func(r *grammar.Rule, e grammar.Expr) bool {
		assert.NotEqual(t, grammar.RepeatKind, e.Kind(), r.Name)
		return true
	})

	again, e := Lower(lg)
	require.NoError(t, e)
	assert.Equal(t, lg.String(), again.String())
}

func TestLowerInvalidRepeat(t *testing.T) {
	g := grammar.New(
		rule("bad", &grammar.Repeat{Expr: grammar.Lit("a"), Min: 3, Max: 2}),
		rule("worse", &grammar.Repeat{Expr: grammar.Lit("a"), Min: -1, Max: grammar.Unbounded}),
	)
	_, e := Lower(g)
	test.ExpectErrorCodes(t, e, InvalidRepeatError, InvalidRepeatError)
}
