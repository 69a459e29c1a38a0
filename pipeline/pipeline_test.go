package pipeline

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-logr/logr/funcr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ava12/mage/grammar"
	. "github.com/ava12/mage/internal/test"
)

func appendRule(name string) Pass {
	return Transform("append-"+name, "appends rule "+name, func(g *grammar.Grammar) *grammar.Grammar {
		es := append(append([]grammar.Element(nil), g.Elements...), &grammar.Rule{Name: name, Expr: grammar.Lit(name)})
		return g.WithElements(es)
	})
}

var errBoom = errors.New("boom")

func failing(name string) Pass {
	return Check(name, "always fails", func(*grammar.Grammar) error { return errBoom })
}

func ruleNames(g *grammar.Grammar) string {
	names := make([]string, 0)
	for _, r := range g.Rules() {
		names = append(names, r.Name)
	}
	return strings.Join(names, ",")
}

func run(t *testing.T, p Pass, g *grammar.Grammar) *grammar.Grammar {
	t.Helper()
	res, e := p.Run(g)
	require.NoError(t, e)
	return res
}

func TestRunAppliesPassesInOrder(t *testing.T) {
	g := grammar.New()
	res, e := New([]Pass{appendRule("a"), appendRule("b"), appendRule("c")}).Run(g)
	require.NoError(t, e)
	assert.Equal(t, "a,b,c", ruleNames(res))
	assert.Empty(t, g.Elements)
}

func TestCompositionLaws(t *testing.T) {
	a, b, c := appendRule("a"), appendRule("b"), appendRule("c")
	g := grammar.New(&grammar.Rule{Name: "x", Expr: grammar.Lit("x")})

	left := run(t, Compose(Compose(a, b), c), g)
	right := run(t, Compose(a, Compose(b, c)), g)
	assert.Equal(t, left.String(), right.String())
	assert.Equal(t, "x,a,b,c", ruleNames(left))

	assert.Equal(t, run(t, a, g).String(), run(t, Compose(Identity, a), g).String())
	assert.Equal(t, run(t, a, g).String(), run(t, Compose(a, Identity), g).String())
	assert.Same(t, g, run(t, Compose(), g))
	assert.Equal(t, "append-a+append-b", Compose(a, b).Name)
}

func TestFailureNamesPassAndAborts(t *testing.T) {
	called := false
	after := Check("after", "", func(*grammar.Grammar) error {
		called = true
		return nil
	})

	res, e := New([]Pass{appendRule("a"), failing("broken"), after}).Run(grammar.New())
	assert.Nil(t, res)
	assert.False(t, called)

	var pe *PassError
	require.ErrorAs(t, e, &pe)
	assert.Equal(t, "broken", pe.Pass)
	assert.ErrorIs(t, e, errBoom)
	assert.Equal(t, "pass broken failed: boom", e.Error())
}

func TestNilResultIsFailure(t *testing.T) {
	p := Pass{Name: "nil", Run: func(*grammar.Grammar) (*grammar.Grammar, error) { return nil, nil }}
	_, e := New([]Pass{p}).Run(grammar.New())
	ExpectErrorCode(t, PassFailedError, e)
}

func TestFlattenedPassRejectsModules(t *testing.T) {
	ran := false
	p := Pass{Name: "flat", Flattened: true, Run: func(g *grammar.Grammar) (*grammar.Grammar, error) {
		ran = true
		return g, nil
	}}
	g := grammar.New(&grammar.Module{Name: "m", Elements: []grammar.Element{
		&grammar.Rule{Name: "x", Expr: grammar.Lit("x")},
	}})

	_, e := New([]Pass{appendRule("a"), p}).Run(g)
	ExpectErrorCode(t, NotFlattenedError, e)
	var pe *PassError
	require.ErrorAs(t, e, &pe)
	assert.Equal(t, "flat", pe.Pass)
	assert.False(t, ran)

	_, e = New([]Pass{p}).Run(grammar.New(&grammar.Rule{Name: "x", Expr: grammar.Lit("x")}))
	require.NoError(t, e)
	assert.True(t, ran)
}

func TestNestedPipelineReportsBothNames(t *testing.T) {
	inner := New([]Pass{appendRule("a"), failing("inner-check")}).AsPass("inner", "")
	_, e := New([]Pass{inner}).Run(grammar.New())

	var pe *PassError
	require.ErrorAs(t, e, &pe)
	assert.Equal(t, "inner", pe.Pass)
	assert.Contains(t, e.Error(), "inner-check")
}

func TestThenDoesNotChangeOriginal(t *testing.T) {
	p := New([]Pass{appendRule("a")})
	q := p.Then(appendRule("b"))
	assert.Equal(t, []string{"append-a"}, p.Names())
	assert.Equal(t, []string{"append-a", "append-b"}, q.Names())
}

func TestLogging(t *testing.T) {
	var lines []string
	log := funcr.New(func(prefix, args string) {
		lines = append(lines, args)
	}, funcr.Options{Verbosity: 1})

	_, e := New([]Pass{appendRule("a"), failing("broken")}, WithLogger(log)).Run(grammar.New())
	require.Error(t, e)
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], `"pass"="append-a"`)
	assert.Contains(t, lines[1], `"pass"="broken"`)
	assert.Contains(t, lines[2], `"msg"="pass failed"`)
}
