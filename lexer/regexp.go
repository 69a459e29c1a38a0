package lexer

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ava12/mage/grammar"
)

const neverRe = `[^\x{0}-\x{10FFFF}]`
const anyRe = `(?s:.)`

type translator struct {
	rules   map[string]*grammar.Rule
	classes *grammar.Classes
	rule    string
	active  map[string]bool
}

// Translate converts body of named token rule to RE2 regular expression syntax.
// References to other token rules are inlined. Lookaheads and external rules cannot be translated.
func Translate(g *grammar.Grammar, rule string) (string, error) {
	return newTranslator(g, grammar.Classify(g)).translateRule(rule)
}

func newTranslator(g *grammar.Grammar, c *grammar.Classes) *translator {
	t := &translator{rules: make(map[string]*grammar.Rule), classes: c, active: make(map[string]bool)}
	for _, r := range g.Rules() {
		t.rules[r.Name] = r
	}
	return t
}

func (t *translator) translateRule(name string) (string, error) {
	r := t.rules[name]
	if r == nil || !t.classes.IsToken(name) {
		return "", unknownTokenError(name, name)
	}
	if r.Expr == nil {
		return "", untranslatableError(name, "external rule")
	}

	t.rule = name
	t.active = map[string]bool{name: true}
	return t.expr(r.Expr)
}

func (t *translator) expr(e grammar.Expr) (string, error) {
	switch x := e.(type) {
	case *grammar.Ref:
		return t.ref(x.Name)
	case *grammar.Literal:
		return regexp.QuoteMeta(x.Text), nil
	case *grammar.Charset:
		return charsetRe(x), nil
	case *grammar.Any:
		return anyRe, nil
	case *grammar.Seq:
		var sb strings.Builder
		for _, item := range x.Items {
			re, e := t.expr(item)
			if e != nil {
				return "", e
			}
			sb.WriteString(group(re))
		}
		return sb.String(), nil
	case *grammar.Choice:
		if len(x.Alts) == 0 {
			return neverRe, nil
		}
		alts := make([]string, len(x.Alts))
		for i, alt := range x.Alts {
			re, e := t.expr(alt)
			if e != nil {
				return "", e
			}
			alts[i] = re
		}
		return "(?:" + strings.Join(alts, "|") + ")", nil
	case *grammar.List:
		return t.list(x)
	case *grammar.Repeat:
		re, e := t.expr(x.Expr)
		if e != nil {
			return "", e
		}
		if x.Max == grammar.Unbounded {
			return group(re) + fmt.Sprintf("{%d,}", x.Min), nil
		}
		return group(re) + fmt.Sprintf("{%d,%d}", x.Min, x.Max), nil
	case *grammar.Hide:
		return t.expr(x.Expr)
	case *grammar.Lookahead:
		return "", untranslatableError(t.rule, "lookahead "+x.String())
	default:
		return "", untranslatableError(t.rule, e.Kind().String())
	}
}

func (t *translator) ref(name string) (string, error) {
	r := t.rules[name]
	if r == nil || !t.classes.IsToken(name) {
		return "", unknownTokenError(t.rule, name)
	}
	if r.Expr == nil {
		return "", untranslatableError(t.rule, "reference to external rule "+name)
	}
	if t.active[name] {
		return "", recursiveTokenError(t.rule, name)
	}

	t.active[name] = true
	defer delete(t.active, name)
	return t.expr(r.Expr)
}

func (t *translator) list(l *grammar.List) (string, error) {
	elem, e := t.expr(l.Elem)
	if e != nil {
		return "", e
	}
	elem = group(elem)

	if l.Sep == nil {
		switch l.Min {
		case 0:
			return elem + "*", nil
		case 1:
			return elem + "+", nil
		default:
			return elem + fmt.Sprintf("{%d,}", l.Min), nil
		}
	}

	sep, e := t.expr(l.Sep)
	if e != nil {
		return "", e
	}
	tail := "(?:" + group(sep) + elem + ")"
	switch l.Min {
	case 0:
		return "(?:" + elem + tail + "*)?", nil
	case 1:
		return elem + tail + "*", nil
	default:
		return elem + tail + fmt.Sprintf("{%d,}", l.Min-1), nil
	}
}

func group(re string) string {
	if utf8.RuneCountInString(re) <= 1 {
		return re
	}
	return "(?:" + re + ")"
}

func charsetRe(cs *grammar.Charset) string {
	if len(cs.Ranges) == 0 {
		if cs.Invert {
			return anyRe
		}
		return neverRe
	}

	var sb strings.Builder
	sb.WriteByte('[')
	if cs.Invert {
		sb.WriteByte('^')
	}
	for _, cr := range cs.Ranges {
		fmt.Fprintf(&sb, `\x{%x}`, cr.Low)
		if cr.High != cr.Low {
			fmt.Fprintf(&sb, `-\x{%x}`, cr.High)
		}
	}
	sb.WriteByte(']')
	return sb.String()
}
