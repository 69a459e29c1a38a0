package gen

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/ebnf"

	"github.com/ava12/mage/grammar"
	"github.com/ava12/mage/internal/test"
	"github.com/ava12/mage/langdef"
	"github.com/ava12/mage/passes"
)

const sampleSource = `
@skip token ws = [ \t\n]+;
keyword let = 'let';
name = [a-z_] [a-z0-9_]*;
num = [0-9]+;
eq = '=';
semi = ';';
# assignment
pub stmt = let name eq value semi;
pub value = name | num;
pub block = stmt*;
test block "let x = 1; let y = x;";
`

func sampleGrammar(t *testing.T) *grammar.Grammar {
	t.Helper()
	g, e := langdef.ParseString("sample", sampleSource)
	require.NoError(t, e)
	g, e = passes.Standard("", logr.Discard()).Run(g)
	require.NoError(t, e)
	return g
}

func pubRule(name string, e grammar.Expr) *grammar.Rule {
	return &grammar.Rule{Name: name, Flags: grammar.PublicRule, Expr: e}
}

func rule(name string, e grammar.Expr) *grammar.Rule {
	return &grammar.Rule{Name: name, Expr: e}
}

func lines(content []byte) []string {
	return strings.Split(string(content), "\n")
}

func TestTargets(t *testing.T) {
	names := make([]string, 0)
	for _, target := range Targets() {
		names = append(names, target.Name)
		assert.NotEmpty(t, target.Description)
	}
	assert.Equal(t, []string{"json", "schema", "ebnf", "go"}, names)

	g := grammar.New(pubRule("s", grammar.R("x")), rule("x", grammar.Lit("x")))

	_, e := Generate(g, "cobol", Options{})
	test.ExpectErrorCode(t, UnknownTargetError, e)

	_, e = Generate(grammar.New(&grammar.Module{Name: "M"}), "json", Options{})
	test.ExpectErrorCode(t, NotFlattenedError, e)

	_, e = Generate(g, "ebnf", Options{Prefix: "1x"})
	test.ExpectErrorCode(t, InvalidNameError, e)

	fs, e := Generate(g, "json", Options{Name: "out"})
	require.NoError(t, e)
	assert.Equal(t, []string{"out.json"}, fs.Names())
}

func TestJSON(t *testing.T) {
	fs, e := Generate(sampleGrammar(t), "json", Options{})
	require.NoError(t, e)
	require.Contains(t, fs, "grammar.json")

	var doc Document
	require.NoError(t, json.Unmarshal(fs["grammar.json"], &doc))

	rules := make(map[string]RuleDoc)
	for _, r := range doc.Rules {
		rules[r.Name] = r
	}
	assert.Equal(t, "keyword", rules["let"].Class)
	assert.Equal(t, "token", rules["name"].Class)
	assert.Equal(t, "node", rules["stmt"].Class)
	assert.Equal(t, "variant", rules["value"].Class)
	assert.Equal(t, "assignment", rules["stmt"].Comment)
	assert.True(t, rules["stmt"].Public)
	assert.Equal(t, []DecoratorDoc{{Name: "skip"}}, rules["ws"].Decorators)

	num := rules["num"].Body
	require.NotNil(t, num)
	assert.Equal(t, "list", num.Kind)
	assert.Equal(t, 1, num.Min)
	require.Len(t, num.Items, 1)
	assert.Equal(t, "charset", num.Items[0].Kind)
	assert.Equal(t, []RangeDoc{{Low: "0", High: "9"}}, num.Items[0].Ranges)

	assert.Equal(t, []ExampleDoc{{Rule: "block", Input: "let x = 1; let y = x;"}}, doc.Examples)
}

func TestJSONRepeat(t *testing.T) {
	doc := NewDocument(grammar.New(
		pubRule("r", &grammar.Repeat{Expr: grammar.Lit("a"), Min: 2, Max: grammar.Unbounded}),
		pubRule("b", &grammar.Repeat{Expr: grammar.Lit("a"), Max: 3}),
		&grammar.Rule{Name: "ext"},
	))

	require.Len(t, doc.Rules, 3)
	assert.Equal(t, "repeat", doc.Rules[0].Body.Kind)
	assert.Equal(t, 2, doc.Rules[0].Body.Min)
	assert.Nil(t, doc.Rules[0].Body.Max)
	require.NotNil(t, doc.Rules[1].Body.Max)
	assert.Equal(t, 3, *doc.Rules[1].Body.Max)
	assert.True(t, doc.Rules[2].Extern)
	assert.Nil(t, doc.Rules[2].Body)
}

func TestSchema(t *testing.T) {
	fs, e := Generate(sampleGrammar(t), "schema", Options{Name: "mage"})
	require.NoError(t, e)
	require.Contains(t, fs, "mage.schema.json")

	var schema map[string]any
	require.NoError(t, json.Unmarshal(fs["mage.schema.json"], &schema))
	assert.Equal(t, SchemaID, schema["$id"])
	assert.Equal(t, "Mage grammar document", schema["title"])

	props, is := schema["properties"].(map[string]any)
	require.True(t, is)
	assert.Contains(t, props, "rules")
	assert.Contains(t, props, "examples")

	defs, is := schema["$defs"].(map[string]any)
	require.True(t, is)
	assert.Contains(t, defs, "ExprDoc")
	assert.Contains(t, defs, "RuleDoc")
}

func TestEBNF(t *testing.T) {
	g := grammar.New(
		pubRule("s", grammar.Sequence(
			&grammar.Repeat{Expr: grammar.Lit("a"), Min: 1, Max: 3},
			&grammar.List{Elem: grammar.R("x"), Sep: grammar.Lit(",")},
			grammar.Alt(grammar.R("x"), grammar.Sequence()),
			&grammar.Lookahead{Expr: grammar.R("x")},
			&grammar.Hide{Expr: grammar.R("x")},
		)),
		rule("x", grammar.Lit("x")),
		rule("id", grammar.Sequence(grammar.Chars('a', 'z', '_', '_'), &grammar.List{Elem: grammar.Chars('a', 'z', '0', '9', '_', '_')})),
		rule("num", &grammar.List{Elem: grammar.Chars('0', '9'), Min: 1}),
		&grammar.Rule{Name: "E"},
	)

	fs, e := Generate(g, "ebnf", Options{})
	require.NoError(t, e)
	content := fs["grammar.ebnf"]
	ls := lines(content)
	assert.Contains(t, ls, "Grammar = S | x | id | num | e .")
	assert.Contains(t, ls, `S = "a" [ "a" [ "a" ] ] [ x { "," x } ] [ x ] x .`)
	assert.Contains(t, ls, `x = "x" .`)
	assert.Contains(t, ls, `id = ( "_" | "a" … "z" ) { "0" … "9" | "_" | "a" … "z" } .`)
	assert.Contains(t, ls, `num = "0" … "9" { "0" … "9" } .`)
	assert.Contains(t, ls, "e = .")

	eg, e := ebnf.Parse("grammar.ebnf", bytes.NewReader(content))
	require.NoError(t, e)
	require.NoError(t, ebnf.Verify(eg, StartName))
}

func TestEBNFPrefixAndComments(t *testing.T) {
	fs, e := Generate(sampleGrammar(t), "ebnf", Options{Prefix: "my_", Debug: true})
	require.NoError(t, e)
	ls := lines(fs["grammar.ebnf"])
	assert.Contains(t, ls, "My_stmt = my_let my_name my_eq My_value my_semi .")
	assert.Contains(t, ls, "My_value = my_name | my_num .")
	assert.Contains(t, ls, "// assignment")
	assert.Contains(t, ls, "// node, mode 0")
	assert.Equal(t, "My_Grammar", strings.Fields(ls[2])[0])
}

func TestEBNFCollisions(t *testing.T) {
	g := grammar.New(pubRule("s", grammar.Sequence(grammar.R("Foo"), grammar.R("foo"))), rule("Foo", grammar.Lit("a")), rule("foo", grammar.Lit("b")))
	_, e := Generate(g, "ebnf", Options{})
	test.ExpectErrorCode(t, NameCollisionError, e)

	g = grammar.New(pubRule("grammar", grammar.Lit("g")))
	_, e = Generate(g, "ebnf", Options{})
	test.ExpectErrorCode(t, NameCollisionError, e)

	g = grammar.New(pubRule("s", grammar.R("missing")))
	_, e = Generate(g, "ebnf", Options{})
	test.ExpectErrorCode(t, VerifyError, e)
}

func TestRanges(t *testing.T) {
	rs := normalizeRanges([]grammar.CharRange{{Low: 'x', High: 'z'}, {Low: 'a', High: 'c'}, {Low: 'b', High: 'd'}, {Low: 'e', High: 'e'}})
	assert.Equal(t, []grammar.CharRange{{Low: 'a', High: 'e'}, {Low: 'x', High: 'z'}}, rs)

	rs = normalizeRanges([]grammar.CharRange{{Low: 0xd000, High: 0xe000}})
	assert.Equal(t, []grammar.CharRange{{Low: 0xd000, High: 0xd7ff}, {Low: 0xe000, High: 0xe000}}, rs)

	rs = invertRanges(normalizeRanges([]grammar.CharRange{{Low: 'a', High: 'z'}}))
	assert.Equal(t, []grammar.CharRange{{Low: 0, High: '`'}, {Low: '{', High: 0xd7ff}, {Low: 0xe000, High: 0x10ffff}}, rs)

	assert.Empty(t, invertRanges(normalizeRanges([]grammar.CharRange{{Low: 0, High: 0x10ffff}})))
}

func TestGoName(t *testing.T) {
	samples := map[string]string{
		"foo_bar": "FooBar",
		"A_x":     "AX",
		"_x":      "X",
		"ident":   "Ident",
		"Lex_kw":  "LexKw",
		"_":       "X",
	}
	for name, expected := range samples {
		assert.Equal(t, expected, goName(name), name)
	}
}

func TestGo(t *testing.T) {
	fs, e := Generate(sampleGrammar(t), "go", Options{Package: "calc", ParentRefs: true, Debug: true})
	require.NoError(t, e)
	require.Contains(t, fs, "grammar.go")
	src := string(fs["grammar.go"])

	assert.True(t, strings.HasPrefix(src, "// Code generated with mage. DO NOT EDIT.\n\npackage calc\n"))
	assert.Contains(t, src, "import \"github.com/ava12/mage/tree\"")
	assert.Contains(t, src, "type Stmt struct {")
	assert.Contains(t, src, "type Block struct {")
	assert.NotContains(t, src, "type Value struct {")
	assert.NotContains(t, src, "type Syntax struct {")
	assert.Contains(t, src, "\tParent Node\n")
	assert.Contains(t, src, "VisitStmt(n *Stmt) bool")
	assert.Contains(t, src, "func LinkParents(n Node) {")
	assert.Contains(t, src, "// assignment\n")
	assert.Contains(t, src, "//\tpub stmt = let name eq value semi;")
	assert.Contains(t, src, `{LetKind, "let", true, false},`)
	assert.Regexp(t, `\{WsKind, ".+", false, true\},`, src)
	assert.Contains(t, src, "const lastTokenKind = 6")
}

func TestGoWithoutParents(t *testing.T) {
	fs, e := Generate(sampleGrammar(t), "go", Options{Prefix: "p_"})
	require.NoError(t, e)
	src := string(fs["grammar.go"])
	assert.Contains(t, src, "package syntax\n")
	assert.Contains(t, src, "type PStmt struct {")
	assert.NotContains(t, src, "Parent")
	assert.NotContains(t, src, "LinkParents")
}

func TestGoErrors(t *testing.T) {
	g := grammar.New(pubRule("s", grammar.R("x")), rule("x", grammar.Lit("x")))
	_, e := Generate(g, "go", Options{Package: "my-pkg"})
	test.ExpectErrorCode(t, InvalidNameError, e)

	g = grammar.New(pubRule("foo_bar", grammar.Lit("a")), pubRule("FooBar", grammar.Lit("b")))
	_, e = Generate(g, "go", Options{})
	test.ExpectErrorCode(t, NameCollisionError, e)

	g = grammar.New(pubRule("s", grammar.R("tok")), rule("tok", grammar.Lit("t")), pubRule("tok_kind", grammar.Lit("k")))
	_, e = Generate(g, "go", Options{})
	test.ExpectErrorCode(t, NameCollisionError, e)

	g = grammar.New(pubRule("s", grammar.R("visitor")), rule("visitor", grammar.Lit("v")))
	_, e = Generate(g, "go", Options{})
	test.ExpectErrorCode(t, NameCollisionError, e)
}
