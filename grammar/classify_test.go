package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	g := New(
		&Rule{Name: "expr", Flags: PublicRule, Expr: Alt(R("num"), R("call"))},
		&Rule{Name: "call", Flags: PublicRule, Expr: Sequence(R("ident"), R("lparen"), R("args"), Lit(")"))},
		&Rule{Name: "args", Expr: &List{Elem: R("expr"), Sep: Lit(","), Min: 0}},
		&Rule{Name: "num", Expr: &Repeat{Expr: Chars('0', '9'), Min: 1, Max: Unbounded}},
		&Rule{Name: "ident", Expr: Sequence(R("letter"), &Repeat{Expr: R("letter"), Min: 0, Max: Unbounded})},
		&Rule{Name: "letter", Expr: Chars('a', 'z')},
		&Rule{Name: "lparen", Expr: Lit("(")},
		&Rule{Name: "if_kw", Expr: Lit("if")},
		&Rule{Name: "forced", Flags: PublicRule | ForceToken, Expr: R("expr")},
		&Rule{Name: "kw", Flags: KeywordRule, Expr: Lit("++")},
		&Rule{Name: "EOF"},
		&Rule{Name: "input", Flags: PublicRule},
	)
	c := Classify(g)

	for _, name := range []string{"num", "ident", "letter", "lparen", "if_kw", "forced", "kw", "EOF"} {
		assert.True(t, c.IsToken(name), name)
	}
	for _, name := range []string{"expr", "call", "args", "input"} {
		assert.False(t, c.IsToken(name), name)
	}

	assert.True(t, c.IsVariant("expr"))
	assert.False(t, c.IsNode("expr"))
	assert.True(t, c.IsNode("call"))
	assert.True(t, c.IsNode("args"))
	assert.True(t, c.IsNode("input"))
	assert.False(t, c.IsNode("missing"))

	assert.True(t, c.IsKeyword("if_kw"))
	assert.True(t, c.IsKeyword("kw"))
	assert.False(t, c.IsKeyword("lparen"))
	assert.False(t, c.IsKeyword("call"))

	text, fixed := c.IsFixedToken("lparen")
	assert.True(t, fixed)
	assert.Equal(t, "(", text)
	_, fixed = c.IsFixedToken("num")
	assert.False(t, fixed)
}

func TestClassifyTokenCycles(t *testing.T) {
	g := New(
		&Rule{Name: "a", Expr: Alt(Lit("x"), Sequence(Lit("("), R("b"), Lit(")")))},
		&Rule{Name: "b", Expr: Alt(R("a"), Lit("y"))},
		&Rule{Name: "c", Expr: Sequence(R("a"), R("n"))},
		&Rule{Name: "n", Flags: PublicRule, Expr: Lit("n")},
	)
	c := Classify(g)
	assert.True(t, c.IsToken("a"))
	assert.True(t, c.IsToken("b"))
	assert.False(t, c.IsToken("c"))
	assert.False(t, c.IsToken("n"))
}
