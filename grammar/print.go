package grammar

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

const (
	choicePrec = iota
	seqPrec
	listPrec
	postfixPrec
	prefixPrec
)

func (r *Ref) String() string     { return r.Name }
func (l *Literal) String() string { return QuoteLiteral(l.Text) }
func (*Any) String() string       { return "." }

func (cs *Charset) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	if cs.Invert {
		sb.WriteByte('^')
	}
	for _, cr := range cs.Ranges {
		sb.WriteString(escapeCharsetChar(cr.Low))
		if cr.High != cr.Low {
			sb.WriteByte('-')
			sb.WriteString(escapeCharsetChar(cr.High))
		}
	}
	sb.WriteByte(']')
	return sb.String()
}

func (s *Seq) String() string {
	if len(s.Items) == 0 {
		return "()"
	}
	return joinExprs(s.Items, " ", listPrec)
}

func (c *Choice) String() string {
	if len(c.Alts) == 0 {
		return "!()"
	}
	return joinExprs(c.Alts, " | ", seqPrec)
}

func (l *List) String() string {
	if l.Sep == nil {
		return (&Repeat{l.Elem, l.Min, Unbounded}).String()
	}

	res := format(l.Elem, postfixPrec) + " % " + format(l.Sep, postfixPrec)
	switch l.Min {
	case 1:
		return res
	case 0:
		return "(" + res + ")?"
	default:
		return fmt.Sprintf("(%s){%d,}", res, l.Min)
	}
}

func (r *Repeat) String() string {
	var suffix string
	switch {
	case r.Min == 0 && r.Max == Unbounded:
		suffix = "*"
	case r.Min == 1 && r.Max == Unbounded:
		suffix = "+"
	case r.Min == 0 && r.Max == 1:
		suffix = "?"
	case r.Max == Unbounded:
		suffix = fmt.Sprintf("{%d,}", r.Min)
	case r.Min == r.Max:
		suffix = fmt.Sprintf("{%d}", r.Min)
	default:
		suffix = fmt.Sprintf("{%d,%d}", r.Min, r.Max)
	}
	return format(r.Expr, prefixPrec) + suffix
}

func (la *Lookahead) String() string {
	op := "&"
	if la.Negated {
		op = "!"
	}
	return op + format(la.Expr, prefixPrec)
}

func (h *Hide) String() string {
	return "~" + format(h.Expr, prefixPrec)
}

func precedence(e Expr) int {
	switch x := e.(type) {
	case *Choice:
		if len(x.Alts) > 1 {
			return choicePrec
		}
	case *Seq:
		if len(x.Items) > 1 {
			return seqPrec
		}
	case *List:
		if x.Sep != nil && x.Min == 1 {
			return listPrec
		}
		return postfixPrec
	case *Repeat:
		return postfixPrec
	case *Lookahead, *Hide:
		return prefixPrec
	}
	return prefixPrec + 1
}

func format(e Expr, minPrec int) string {
	if precedence(e) < minPrec {
		return "(" + e.String() + ")"
	}
	return e.String()
}

func joinExprs(es []Expr, sep string, minPrec int) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = format(e, minPrec)
	}
	return strings.Join(parts, sep)
}

// QuoteLiteral returns single-quoted literal with special characters escaped.
func QuoteLiteral(text string) string {
	var sb strings.Builder
	sb.WriteByte('\'')
	for _, r := range text {
		switch r {
		case '\'':
			sb.WriteString(`\'`)
		default:
			sb.WriteString(escapeChar(r))
		}
	}
	sb.WriteByte('\'')
	return sb.String()
}

func escapeCharsetChar(r rune) string {
	switch r {
	case ']', '-', '^':
		return `\` + string(r)
	}
	return escapeChar(r)
}

func escapeChar(r rune) string {
	switch r {
	case '\\':
		return `\\`
	case '\n':
		return `\n`
	case '\r':
		return `\r`
	case '\t':
		return `\t`
	}
	if unicode.IsPrint(r) {
		return string(r)
	}
	if r < 0x100 {
		return fmt.Sprintf(`\x%02x`, r)
	}
	if r < 0x10000 {
		return fmt.Sprintf(`\u%04x`, r)
	}
	return fmt.Sprintf(`\U%08x`, r)
}

// QuoteChar returns escaped quoted representation of a single character, e.g. 'z' or '\n'.
func QuoteChar(r rune) string {
	return strconv.QuoteRune(r)
}

func (r *Rule) String() string {
	var sb strings.Builder
	for _, d := range r.Decorators {
		sb.WriteString("@" + d.Name)
		if len(d.Args) > 0 {
			args := make([]string, len(d.Args))
			for i, a := range d.Args {
				args[i] = QuoteLiteral(a)
			}
			sb.WriteString("(" + strings.Join(args, ", ") + ")")
		}
		sb.WriteByte(' ')
	}
	if r.Flags&PublicRule != 0 {
		sb.WriteString("pub ")
	}
	if r.Flags&ForceToken != 0 {
		sb.WriteString("token ")
	}
	if r.Flags&KeywordRule != 0 {
		sb.WriteString("keyword ")
	}
	if r.Expr == nil {
		sb.WriteString("extern ")
	}
	sb.WriteString(r.Name)
	if r.Type != "" {
		sb.WriteString(" -> " + r.Type)
	}
	if r.Expr != nil {
		sb.WriteString(" = " + r.Expr.String())
	}
	sb.WriteByte(';')
	return sb.String()
}

func (m *Module) String() string {
	return "mod " + m.Name + " {\n" + indent(formatElements(m.Elements)) + "}"
}

func (ex *Example) String() string {
	fail := ""
	if ex.ExpectFail {
		fail = "! "
	}
	return "test " + ex.Rule + " " + fail + QuoteLiteral(ex.Input) + ";"
}

// String returns grammar description in Mage syntax.
func (g *Grammar) String() string {
	return formatElements(g.Elements)
}

func formatElements(es []Element) string {
	var sb strings.Builder
	for _, el := range es {
		if s, is := el.(fmt.Stringer); is {
			sb.WriteString(s.String())
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func indent(text string) string {
	lines := strings.SplitAfter(text, "\n")
	var sb strings.Builder
	for _, l := range lines {
		if l != "" {
			sb.WriteString("  " + l)
		}
	}
	return sb.String()
}
