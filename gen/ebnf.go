package gen

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/exp/ebnf"

	"github.com/ava12/mage/grammar"
)

// StartName is the name of synthetic start production referencing all rules.
// Token rules become lexical (lowercase) productions, other rules start with uppercase letter.
// EBNF output approximates matching semantics: lookaheads are dropped,
// empty non-inverted charsets become empty tokens.
const StartName = "Grammar"

const (
	maxRune        = unicode.MaxRune
	surrogateLow   = 0xd800
	surrogateHigh  = 0xdfff
	ebnfEllipsis   = " … "
	ebnfEmptyToken = `""`
)

// ebnf term precedence
const (
	ebnfNone = iota
	ebnfAlt
	ebnfSeq
	ebnfTerm
)

type ebnfText struct {
	text string
	prec int
}

func (t ebnfText) term() string {
	if t.prec < ebnfSeq {
		return "( " + t.text + " )"
	}
	return t.text
}

func (t ebnfText) alt() string {
	if t.prec == ebnfNone {
		return ebnfEmptyToken
	}
	return t.text
}

type ebnfWriter struct {
	names *nameTable
}

func generateEBNF(g *grammar.Grammar, opts Options) (Files, error) {
	c := grammar.Classify(g)
	rules := g.Rules()
	start := ebnfName(opts.Prefix+StartName, false)
	w := &ebnfWriter{names: newNameTable("ebnf", start)}
	for _, r := range rules {
		e := w.names.add(r.Name, ebnfName(opts.Prefix+r.Name, c.IsToken(r.Name)))
		if e != nil {
			return nil, e
		}
	}

	var buffer bytes.Buffer
	buffer.WriteString("// Code generated with mage.\n\n")
	buffer.WriteString(start + " =")
	for i, r := range rules {
		if i > 0 {
			buffer.WriteString(" |")
		}
		buffer.WriteString(" " + w.names.name(r.Name))
	}
	buffer.WriteString(" .\n")

	for _, r := range rules {
		buffer.WriteString("\n")
		for _, line := range commentLines(r.Comment) {
			buffer.WriteString("// " + line + "\n")
		}
		if opts.Debug {
			buffer.WriteString(fmt.Sprintf("// %s, mode %d\n", ruleClass(c, r.Name), r.Mode))
		}
		buffer.WriteString(w.names.name(r.Name) + " =")
		if r.Expr != nil {
			buffer.WriteString(" " + w.expr(r.Expr).alt())
		}
		buffer.WriteString(" .\n")
	}

	name := opts.Name + ".ebnf"
	content := buffer.Bytes()
	eg, e := ebnf.Parse(name, bytes.NewReader(content))
	if e == nil {
		e = ebnf.Verify(eg, start)
	}
	if e != nil {
		return nil, verifyError("ebnf", e)
	}
	return Files{name: content}, nil
}

func ebnfName(name string, lexical bool) string {
	first, size := utf8.DecodeRuneInString(name)
	if lexical {
		return string(unicode.ToLower(first)) + name[size:]
	}
	if unicode.IsUpper(first) {
		return name
	}
	if up := unicode.ToUpper(first); unicode.IsUpper(up) {
		return string(up) + name[size:]
	}
	return "X" + name
}

func commentLines(comment string) []string {
	if comment == "" {
		return nil
	}
	return strings.Split(strings.TrimRight(comment, "\n"), "\n")
}

func (w *ebnfWriter) expr(e grammar.Expr) ebnfText {
	switch x := e.(type) {
	case *grammar.Ref:
		return ebnfText{w.names.name(x.Name), ebnfTerm}
	case *grammar.Literal:
		return ebnfText{strconv.Quote(x.Text), ebnfTerm}
	case *grammar.Any:
		return charRanges([]grammar.CharRange{{Low: 0, High: maxRune}})
	case *grammar.Charset:
		rs := normalizeRanges(x.Ranges)
		if x.Invert {
			rs = invertRanges(rs)
		}
		return charRanges(rs)
	case *grammar.Seq:
		return w.seq(x.Items)
	case *grammar.Choice:
		return w.choice(x.Alts)
	case *grammar.List:
		return w.list(x)
	case *grammar.Repeat:
		return w.repeat(x)
	case *grammar.Hide:
		return w.expr(x.Expr)
	}
	return ebnfText{}
}

func (w *ebnfWriter) seq(items []grammar.Expr) ebnfText {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		t := w.expr(item)
		if t.prec != ebnfNone {
			parts = append(parts, t.term())
		}
	}
	return joinSeq(parts)
}

func joinSeq(parts []string) ebnfText {
	switch len(parts) {
	case 0:
		return ebnfText{}
	case 1:
		return ebnfText{parts[0], ebnfTerm}
	default:
		return ebnfText{strings.Join(parts, " "), ebnfSeq}
	}
}

func (w *ebnfWriter) choice(alts []grammar.Expr) ebnfText {
	var parts []string
	optional := false
	for _, alt := range alts {
		t := w.expr(alt)
		if t.prec == ebnfNone {
			optional = true
		} else {
			parts = append(parts, t.text)
		}
	}

	switch {
	case len(parts) == 0:
		return ebnfText{}
	case optional:
		return ebnfText{"[ " + strings.Join(parts, " | ") + " ]", ebnfTerm}
	case len(parts) == 1:
		return w.expr(alts[0])
	default:
		return ebnfText{strings.Join(parts, " | "), ebnfAlt}
	}
}

func (w *ebnfWriter) list(l *grammar.List) ebnfText {
	elem := w.expr(l.Elem)
	if elem.prec == ebnfNone {
		return elem
	}

	item := elem.term()
	if l.Sep != nil {
		if sep := w.expr(l.Sep); sep.prec != ebnfNone {
			item = sep.term() + " " + item
		}
	}

	if l.Min == 0 {
		if l.Sep == nil {
			return ebnfText{"{ " + elem.text + " }", ebnfTerm}
		}
		return ebnfText{"[ " + elem.term() + " { " + item + " } ]", ebnfTerm}
	}

	parts := []string{elem.term()}
	for i := 1; i < l.Min; i++ {
		parts = append(parts, item)
	}
	parts = append(parts, "{ "+item+" }")
	return joinSeq(parts)
}

func (w *ebnfWriter) repeat(r *grammar.Repeat) ebnfText {
	body := w.expr(r.Expr)
	if body.prec == ebnfNone {
		return body
	}

	var parts []string
	for i := 0; i < r.Min; i++ {
		parts = append(parts, body.term())
	}
	if r.Max == grammar.Unbounded {
		parts = append(parts, "{ "+body.text+" }")
	} else if r.Max > r.Min {
		opt := ""
		for i := r.Min; i < r.Max; i++ {
			if opt == "" {
				opt = "[ " + body.text + " ]"
			} else {
				opt = "[ " + body.term() + " " + opt + " ]"
			}
		}
		parts = append(parts, opt)
	}
	return joinSeq(parts)
}

func charRanges(rs []grammar.CharRange) ebnfText {
	parts := make([]string, len(rs))
	for i, cr := range rs {
		parts[i] = strconv.Quote(string(cr.Low))
		if cr.High != cr.Low {
			parts[i] += ebnfEllipsis + strconv.Quote(string(cr.High))
		}
	}

	switch len(parts) {
	case 0:
		return ebnfText{ebnfEmptyToken, ebnfTerm}
	case 1:
		return ebnfText{parts[0], ebnfTerm}
	default:
		return ebnfText{strings.Join(parts, " | "), ebnfAlt}
	}
}

// normalizeRanges sorts and merges ranges and removes surrogate code points,
// which cannot be represented in EBNF tokens.
func normalizeRanges(rs []grammar.CharRange) []grammar.CharRange {
	sorted := append([]grammar.CharRange(nil), rs...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Low < sorted[j].Low
	})

	var res []grammar.CharRange
	add := func(cr grammar.CharRange) {
		if cr.Low > cr.High {
			return
		}
		if n := len(res); n > 0 && cr.Low <= res[n-1].High+1 {
			if cr.High > res[n-1].High {
				res[n-1].High = cr.High
			}
			return
		}
		res = append(res, cr)
	}

	for _, cr := range sorted {
		if cr.Low < 0 {
			cr.Low = 0
		}
		if cr.High > maxRune {
			cr.High = maxRune
		}
		if cr.Low <= surrogateHigh && cr.High >= surrogateLow {
			add(grammar.CharRange{Low: cr.Low, High: surrogateLow - 1})
			add(grammar.CharRange{Low: surrogateHigh + 1, High: cr.High})
		} else {
			add(cr)
		}
	}
	return res
}

// invertRanges returns complement of normalized ranges.
func invertRanges(rs []grammar.CharRange) []grammar.CharRange {
	var res []grammar.CharRange
	next := rune(0)
	for _, cr := range rs {
		if cr.Low > next {
			res = append(res, grammar.CharRange{Low: next, High: cr.Low - 1})
		}
		next = cr.High + 1
	}
	if next <= maxRune {
		res = append(res, grammar.CharRange{Low: next, High: maxRune})
	}
	return normalizeRanges(res)
}
