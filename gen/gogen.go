package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ava12/mage/grammar"
	"github.com/ava12/mage/lexer"
)

// TreeImport is the import path of evaluator syntax trees used by generated Go code.
const TreeImport = "github.com/ava12/mage/tree"

var goReserved = []string{
	"Kind", "InvalidKind", "Node", "Token", "Visitor", "Walk", "FromTree",
	"LinkParents", "TokenPattern", "TokenPatterns",
}

type goKind struct {
	rule  *grammar.Rule
	name  string
	token bool
}

type goWriter struct {
	buffer bytes.Buffer
	opts   Options
	kinds  []goKind
	nodes  []goKind
}

func (w *goWriter) line(text string, params ...any) {
	if len(params) > 0 {
		text = fmt.Sprintf(text, params...)
	}
	w.buffer.WriteString(text)
	w.buffer.WriteByte('\n')
}

func generateGo(g *grammar.Grammar, opts Options) (Files, error) {
	if !grammar.IsIdentifier(opts.Package) {
		return nil, invalidNameError("package", opts.Package)
	}

	lex, e := lexer.Compile(g)
	if e != nil {
		return nil, e
	}

	c := grammar.Classify(g)
	w := &goWriter{opts: opts}
	names := newNameTable("go", goReserved...)
	var tokens, nodes []goKind
	for _, r := range g.Rules() {
		isToken := c.IsToken(r.Name)
		if !isToken && !(c.IsNode(r.Name) && r.IsPublic()) {
			continue
		}

		k := goKind{rule: r, name: goName(opts.Prefix + r.Name), token: isToken}
		e = names.add(r.Name, k.name)
		if e == nil {
			e = names.reserve(r.Name, k.name+"Kind")
		}
		if e == nil && !isToken {
			e = names.reserve(r.Name, "Visit"+k.name)
		}
		if e != nil {
			return nil, e
		}

		if isToken {
			tokens = append(tokens, k)
		} else {
			nodes = append(nodes, k)
		}
	}
	w.kinds = append(tokens, nodes...)
	w.nodes = nodes

	w.header()
	w.kindDecls(len(tokens))
	w.nodeTypes()
	w.visitor()
	if opts.ParentRefs {
		w.linkParents()
	}
	w.fromTree()
	e = w.tokenPatterns(g, lex)
	if e != nil {
		return nil, e
	}

	content, e := format.Source(w.buffer.Bytes())
	if e != nil {
		return nil, verifyError("go", e)
	}
	return Files{opts.Name + ".go": content}, nil
}

func goName(name string) string {
	var sb strings.Builder
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-' || r == '.'
	})
	for _, part := range parts {
		first, size := utf8.DecodeRuneInString(part)
		sb.WriteRune(unicode.ToUpper(first))
		sb.WriteString(part[size:])
	}
	res := sb.String()
	first, _ := utf8.DecodeRuneInString(res)
	if !unicode.IsUpper(first) {
		res = "X" + res
	}
	return res
}

func (w *goWriter) header() {
	w.line("// Code generated with mage. DO NOT EDIT.")
	w.line("")
	w.line("package %s", w.opts.Package)
	w.line("")
	w.line("import %q", TreeImport)
	w.line("")
}

func (w *goWriter) comment(k goKind, first string) {
	w.line("// %s", first)
	for _, l := range commentLines(k.rule.Comment) {
		w.line("// %s", l)
	}
	if w.opts.Debug {
		w.line("//")
		w.line("//\t%s", k.rule.String())
	}
}

func (w *goWriter) kindDecls(tokenCount int) {
	w.line("// Kind identifies syntax node type.")
	w.line("type Kind int")
	w.line("")
	w.line("const (")
	w.line("InvalidKind Kind = iota")
	for _, k := range w.kinds {
		w.line("%sKind // %s", k.name, k.rule.Name)
	}
	w.line(")")
	w.line("")
	w.line("const lastTokenKind = %d", tokenCount)
	w.line("")

	w.line("var kindNames = [...]string{")
	w.line("InvalidKind: \"\",")
	for _, k := range w.kinds {
		w.line("%sKind: %q,", k.name, k.rule.Name)
	}
	w.line("}")
	w.line("")

	w.line("var kindsByRule = map[string]Kind{")
	for _, k := range w.kinds {
		w.line("%q: %sKind,", k.rule.Name, k.name)
	}
	w.line("}")
	w.line("")

	w.line("// String returns grammar rule name.")
	w.line("func (k Kind) String() string {")
	w.line("if k < 0 || int(k) >= len(kindNames) {")
	w.line("return \"\"")
	w.line("}")
	w.line("return kindNames[k]")
	w.line("}")
	w.line("")
	w.line("// IsToken reports whether k is a token kind.")
	w.line("func (k Kind) IsToken() bool {")
	w.line("return k > InvalidKind && k <= lastTokenKind")
	w.line("}")
	w.line("")
}

func (w *goWriter) parentField() {
	if w.opts.ParentRefs {
		w.line("Parent Node")
	}
}

func (w *goWriter) nodeTypes() {
	w.line("// Node is implemented by all syntax node types.")
	w.line("type Node interface {")
	w.line("Kind() Kind")
	w.line("Children() []Node")
	w.line("}")
	w.line("")

	w.line("// Token is a leaf syntax node.")
	w.line("type Token struct {")
	w.line("Type Kind")
	w.line("Text string")
	w.line("Line int")
	w.line("Col int")
	w.parentField()
	w.line("}")
	w.line("")
	w.line("func (t *Token) Kind() Kind { return t.Type }")
	w.line("func (t *Token) Children() []Node { return nil }")
	w.line("")

	for _, k := range w.nodes {
		w.comment(k, fmt.Sprintf("%s is a syntax node built by rule %q.", k.name, k.rule.Name))
		w.line("type %s struct {", k.name)
		w.line("Line int")
		w.line("Col int")
		w.line("Items []Node")
		w.parentField()
		w.line("}")
		w.line("")
		w.line("func (n *%s) Kind() Kind { return %sKind }", k.name, k.name)
		w.line("func (n *%s) Children() []Node { return n.Items }", k.name)
		w.line("")
	}
}

func (w *goWriter) visitor() {
	w.line("// Visitor is called by Walk for every node, returning false skips node children.")
	w.line("type Visitor interface {")
	w.line("VisitToken(t *Token) bool")
	for _, k := range w.nodes {
		w.line("Visit%s(n *%s) bool", k.name, k.name)
	}
	w.line("}")
	w.line("")

	w.line("// Walk visits n and its descendants depth-first.")
	w.line("func Walk(n Node, v Visitor) {")
	w.line("walkChildren := false")
	w.line("switch x := n.(type) {")
	w.line("case *Token:")
	w.line("v.VisitToken(x)")
	for _, k := range w.nodes {
		w.line("case *%s:", k.name)
		w.line("walkChildren = v.Visit%s(x)", k.name)
	}
	w.line("}")
	w.line("if walkChildren {")
	w.line("for _, c := range n.Children() {")
	w.line("Walk(c, v)")
	w.line("}")
	w.line("}")
	w.line("}")
	w.line("")
}

func (w *goWriter) linkParents() {
	w.line("// LinkParents sets Parent fields of all descendants of n.")
	w.line("func LinkParents(n Node) {")
	w.line("for _, c := range n.Children() {")
	w.line("switch x := c.(type) {")
	w.line("case *Token:")
	w.line("x.Parent = n")
	for _, k := range w.nodes {
		w.line("case *%s:", k.name)
		w.line("x.Parent = n")
	}
	w.line("}")
	w.line("LinkParents(c)")
	w.line("}")
	w.line("}")
	w.line("")
}

func (w *goWriter) fromTree() {
	w.line("// FromTree converts syntax tree built by grammar evaluator.")
	w.line("// Nodes of unknown rules are skipped.")
	w.line("func FromTree(n *tree.Node) Node {")
	w.line("k := kindsByRule[n.Rule]")
	w.line("if n.Token {")
	w.line("return &Token{Type: k, Text: n.Text, Line: n.Pos.Line(), Col: n.Pos.Col()}")
	w.line("}")
	if len(w.nodes) > 0 {
		w.line("")
		w.line("var items []Node")
		w.line("for _, c := range n.Children {")
		w.line("if item := FromTree(c); item != nil {")
		w.line("items = append(items, item)")
		w.line("}")
		w.line("}")
		w.line("")
		w.line("switch k {")
		for _, k := range w.nodes {
			w.line("case %sKind:", k.name)
			w.line("return &%s{Line: n.Pos.Line(), Col: n.Pos.Col(), Items: items}", k.name)
		}
		w.line("}")
	}
	w.line("return nil")
	w.line("}")
	w.line("")
}

func (w *goWriter) tokenPatterns(g *grammar.Grammar, lex *lexer.Lexer) error {
	kinds := make(map[string]string, len(w.kinds))
	for _, k := range w.kinds {
		kinds[k.rule.Name] = k.name + "Kind"
	}

	w.line("// TokenPattern describes token rule matched by lexer.")
	w.line("// Pattern holds literal text or regular expression.")
	w.line("type TokenPattern struct {")
	w.line("Kind Kind")
	w.line("Pattern string")
	w.line("Literal bool")
	w.line("Skip bool")
	w.line("}")
	w.line("")
	w.line("// TokenPatterns lists lexer token rules in definition order.")
	w.line("var TokenPatterns = []TokenPattern{")
	for _, tt := range lex.Types() {
		pattern, literal := tt.Literal, tt.Literal != ""
		if !literal {
			var e error
			pattern, e = lexer.Translate(g, tt.TypeName)
			if e != nil {
				return e
			}
		}
		w.line("{%s, %q, %t, %t},", kinds[tt.TypeName], pattern, literal, tt.Skip)
	}
	w.line("}")
	return nil
}
