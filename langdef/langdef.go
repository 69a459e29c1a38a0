// Package langdef converts grammar description written in Mage language to grammar model.
//
// A description is a sequence of rules, modules, and examples:
//
//	# comment lines directly above a rule become its Comment
//	@skip token ws = [ \t\n]+;
//	pub stmt -> Statement = 'let' name ('=' value)? ';';
//	value = name | num | !'-' [0-9]+ | ~'(' value ')';
//	list = value % ',';
//	extern EOF;
//	mod Lex { name = [a-z_] [a-z0-9_]*; }
//	test stmt "let x;";
//	test stmt ! "let;";
//
// Modifiers pub, token, keyword, and extern are reserved words, as are mod and test.
// Postfix operators are *, +, ?, {n}, {n,}, and {n,m}; prefix operators are & and ! (lookaheads)
// and ~ (hide); "a % b" is a non-empty list of a separated with b; () is the empty sequence.
package langdef

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/ava12/mage"
	"github.com/ava12/mage/grammar"
	"github.com/ava12/mage/source"
)

// ParseString parses grammar description and returns a grammar on success.
// Returns nil and mage.Error on error.
func ParseString(name, content string) (*grammar.Grammar, error) {
	return Parse(source.NewString(name, content))
}

// ParseBytes parses grammar description and returns a grammar on success.
// Returns nil and mage.Error on error.
func ParseBytes(name string, content []byte) (*grammar.Grammar, error) {
	return Parse(source.New(name, content))
}

// Parse parses grammar description and returns a grammar on success.
// Returns nil and mage.Error on error.
func Parse(src *source.Source) (*grammar.Grammar, error) {
	ast, e := mageParser.ParseBytes(src.Name(), src.Content())
	if e != nil {
		return nil, syntaxError(e)
	}

	b := &builder{src: src, lines: strings.Split(string(src.Content()), "\n")}
	es, e := b.elements(ast.Elements)
	if e != nil {
		return nil, e
	}
	return grammar.New(es...), nil
}

func syntaxError(e error) error {
	var pe participle.Error
	if errors.As(e, &pe) {
		pos := pe.Position()
		return mage.NewError(ParseError, pe.Message(), pos.Filename, pos.Line, pos.Column)
	}
	return mage.FormatError(ParseError, e.Error())
}

type builder struct {
	src   *source.Source
	lines []string
}

func (b *builder) pos(p lexer.Position) source.Pos {
	return b.src.Pos(p.Offset)
}

func (b *builder) elements(asts []*elementAST) ([]grammar.Element, error) {
	res := make([]grammar.Element, 0, len(asts))
	for _, ast := range asts {
		var el grammar.Element
		var e error
		switch {
		case ast.Module != nil:
			el, e = b.module(ast.Module)
		case ast.Example != nil:
			el, e = b.example(ast.Example)
		default:
			el, e = b.rule(ast.Rule)
		}
		if e != nil {
			return nil, e
		}
		res = append(res, el)
	}
	return res, nil
}

func (b *builder) module(ast *moduleAST) (*grammar.Module, error) {
	pos := b.pos(ast.Pos)
	if strings.ContainsRune(ast.Name, '.') {
		return nil, invalidNameError(pos, ast.Name)
	}

	es, e := b.elements(ast.Elements)
	if e != nil {
		return nil, e
	}
	return &grammar.Module{Name: ast.Name, Elements: es, Pos: pos}, nil
}

func (b *builder) example(ast *exampleAST) (*grammar.Example, error) {
	pos := b.pos(ast.Pos)
	input, e := unquote(ast.Input, pos)
	if e != nil {
		return nil, e
	}
	return &grammar.Example{Rule: ast.Rule, Input: input, ExpectFail: ast.Fail, Pos: pos}, nil
}

func (b *builder) rule(ast *ruleAST) (*grammar.Rule, error) {
	pos := b.pos(ast.Pos)
	if strings.ContainsRune(ast.Name, '.') {
		return nil, invalidNameError(pos, ast.Name)
	}

	r := &grammar.Rule{Name: ast.Name, Type: ast.Type, Pos: pos, Comment: b.comment(ast.Pos.Line)}
	extern := false
	for _, m := range ast.Modifiers {
		switch m {
		case "pub":
			r.Flags |= grammar.PublicRule
		case "token":
			r.Flags |= grammar.ForceToken
		case "keyword":
			r.Flags |= grammar.KeywordRule | grammar.ForceToken
		case "extern":
			extern = true
		}
	}
	if extern && ast.Expr != nil {
		return nil, externBodyError(pos, ast.Name)
	}

	for _, d := range ast.Decorators {
		dec := grammar.Decorator{Name: d.Name}
		for _, arg := range d.Args {
			if arg[0] == '"' || arg[0] == '\'' {
				var e error
				arg, e = unquote(arg, pos)
				if e != nil {
					return nil, e
				}
			}
			dec.Args = append(dec.Args, arg)
		}
		r.Decorators = append(r.Decorators, dec)
	}

	if ast.Expr != nil {
		x, e := b.expr(ast.Expr)
		if e != nil {
			return nil, e
		}
		r.Expr = x
	}
	return r, nil
}

// comment collects "#" lines directly above given line.
func (b *builder) comment(line int) string {
	var res []string
	for i := line - 2; i >= 0; i-- {
		text := strings.TrimSpace(b.lines[i])
		if !strings.HasPrefix(text, "#") {
			break
		}
		text = strings.TrimPrefix(text, "#")
		res = append(res, strings.TrimPrefix(text, " "))
	}

	for i, j := 0, len(res)-1; i < j; i, j = i+1, j-1 {
		res[i], res[j] = res[j], res[i]
	}
	return strings.Join(res, "\n")
}

func (b *builder) expr(ast *exprAST) (grammar.Expr, error) {
	alts := make([]grammar.Expr, len(ast.Alts))
	for i, seq := range ast.Alts {
		items := make([]grammar.Expr, len(seq.Items))
		for j, item := range seq.Items {
			x, e := b.list(item)
			if e != nil {
				return nil, e
			}
			items[j] = x
		}
		if len(items) == 1 {
			alts[i] = items[0]
		} else {
			alts[i] = &grammar.Seq{Items: items}
		}
	}

	if len(alts) == 1 {
		return alts[0], nil
	}
	return &grammar.Choice{Alts: alts}, nil
}

func (b *builder) list(ast *listAST) (grammar.Expr, error) {
	elem, e := b.postfix(ast.Elem)
	if e != nil || ast.Sep == nil {
		return elem, e
	}

	sep, e := b.postfix(ast.Sep)
	if e != nil {
		return nil, e
	}
	return &grammar.List{Elem: elem, Sep: sep, Min: 1}, nil
}

func (b *builder) postfix(ast *postfixAST) (grammar.Expr, error) {
	x, e := b.prefix(ast.Prefix)
	if e != nil {
		return nil, e
	}

	switch {
	case ast.Op == "*":
		return &grammar.Repeat{Expr: x, Min: 0, Max: grammar.Unbounded}, nil
	case ast.Op == "+":
		return &grammar.Repeat{Expr: x, Min: 1, Max: grammar.Unbounded}, nil
	case ast.Op == "?":
		return &grammar.Repeat{Expr: x, Min: 0, Max: 1}, nil
	case ast.Min == nil:
		return x, nil
	case ast.Max != nil:
		return &grammar.Repeat{Expr: x, Min: *ast.Min, Max: *ast.Max}, nil
	case ast.HasComma:
		return &grammar.Repeat{Expr: x, Min: *ast.Min, Max: grammar.Unbounded}, nil
	default:
		return &grammar.Repeat{Expr: x, Min: *ast.Min, Max: *ast.Min}, nil
	}
}

func (b *builder) prefix(ast *prefixAST) (grammar.Expr, error) {
	x, e := b.primary(ast.Primary)
	if e != nil {
		return nil, e
	}

	switch ast.Op {
	case "&":
		return &grammar.Lookahead{Expr: x}, nil
	case "!":
		return &grammar.Lookahead{Expr: x, Negated: true}, nil
	case "~":
		return &grammar.Hide{Expr: x}, nil
	default:
		return x, nil
	}
}

func (b *builder) primary(ast *primaryAST) (grammar.Expr, error) {
	pos := b.pos(ast.Pos)
	switch {
	case ast.Ref != "":
		return &grammar.Ref{Name: ast.Ref}, nil
	case ast.Str != nil:
		text, e := unquote(*ast.Str, pos)
		if e != nil {
			return nil, e
		}
		return &grammar.Literal{Text: text}, nil
	case ast.Charset != nil:
		return parseCharset(*ast.Charset, pos)
	case ast.Any:
		return &grammar.Any{}, nil
	case ast.Group != nil:
		return b.expr(ast.Group)
	default:
		return &grammar.Seq{Items: []grammar.Expr{}}, nil
	}
}

type escapeCharEntry struct {
	substitute byte
	hexLen     byte
}

var escapeCharMap = map[byte]escapeCharEntry{
	'\\': {'\\', 0},
	'"':  {'"', 0},
	'\'': {'\'', 0},
	']':  {']', 0},
	'-':  {'-', 0},
	'^':  {'^', 0},
	'n':  {'\n', 0},
	'r':  {'\r', 0},
	't':  {'\t', 0},
	'x':  {0, 2},
	'u':  {0, 4},
	'U':  {0, 8},
}

// nextChar decodes the first (possibly escaped) char of content.
// Returns the char, its length in content, and whether it was escaped.
func nextChar(content string, pos source.Pos) (rune, int, bool, error) {
	if content[0] != '\\' {
		r, size := utf8.DecodeRuneInString(content)
		return r, size, false, nil
	}
	if len(content) < 2 {
		return 0, 0, false, invalidEscapeError(pos, content)
	}

	entry, valid := escapeCharMap[content[1]]
	if !valid {
		return 0, 0, false, invalidEscapeError(pos, content[:2])
	}
	if entry.hexLen == 0 {
		return rune(entry.substitute), 2, true, nil
	}

	hexLen := int(entry.hexLen)
	if len(content) < hexLen+2 {
		return 0, 0, false, invalidEscapeError(pos, content)
	}
	codePoint, e := strconv.ParseUint(content[2:hexLen+2], 16, 32)
	if e != nil {
		return 0, 0, false, invalidEscapeError(pos, content[:hexLen+2])
	}
	if !utf8.ValidRune(rune(codePoint)) {
		return 0, 0, false, invalidRuneError(pos, content[2:hexLen+2])
	}
	return rune(codePoint), hexLen + 2, true, nil
}

func unquote(token string, pos source.Pos) (string, error) {
	content := token[1 : len(token)-1]
	if strings.IndexByte(content, '\\') < 0 {
		return content, nil
	}

	var sb strings.Builder
	for len(content) > 0 {
		r, size, _, e := nextChar(content, pos)
		if e != nil {
			return "", e
		}
		sb.WriteRune(r)
		content = content[size:]
	}
	return sb.String(), nil
}

type charsetItem struct {
	r    rune
	dash bool
}

func parseCharset(token string, pos source.Pos) (*grammar.Charset, error) {
	content := token[1 : len(token)-1]
	cs := &grammar.Charset{Ranges: []grammar.CharRange{}}
	if strings.HasPrefix(content, "^") {
		cs.Invert = true
		content = content[1:]
	}

	var items []charsetItem
	for len(content) > 0 {
		r, size, escaped, e := nextChar(content, pos)
		if e != nil {
			return nil, e
		}
		items = append(items, charsetItem{r, r == '-' && !escaped})
		content = content[size:]
	}

	for i := 0; i < len(items); i++ {
		low := items[i]
		if low.dash && i > 0 && i < len(items)-1 {
			return nil, invalidCharsetError(pos, token)
		}
		if i+2 < len(items) && items[i+1].dash {
			if items[i+2].dash {
				return nil, invalidCharsetError(pos, token)
			}
			cs.Ranges = append(cs.Ranges, grammar.CharRange{Low: low.r, High: items[i+2].r})
			i += 2
			continue
		}
		cs.Ranges = append(cs.Ranges, grammar.CharRange{Low: low.r, High: low.r})
	}
	return cs, nil
}
