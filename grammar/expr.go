// Package grammar defines grammar model: expressions, rules, modules, and embedded examples.
//
// All values are treated as immutable after construction. Transformations never modify
// existing values, they derive new ones using With* methods or helpers from rewrite.go.
package grammar

// Kind identifies expression variant.
type Kind int

const (
	RefKind Kind = iota
	LiteralKind
	CharsetKind
	AnyKind
	SeqKind
	ChoiceKind
	ListKind
	RepeatKind
	LookaheadKind
	HideKind
)

var kindNames = [...]string{"ref", "literal", "charset", "any", "seq", "choice", "list", "repeat", "lookahead", "hide"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Unbounded is the Repeat.Max value for repetitions without upper limit.
const Unbounded = -1

// Expr is a grammar expression. The set of implementations is closed: every variant
// must report its children and be able to derive a copy of itself with replaced children,
// so adding a variant that misses any of these fails to compile.
type Expr interface {
	Kind() Kind
	// Children returns direct subexpressions in evaluation order.
	Children() []Expr
	// WithChildren returns a fresh copy with children replaced,
	// cs must have the same length as Children() result.
	WithChildren(cs []Expr) Expr
	String() string
	exprNode()
}

var (
	_ Expr = (*Ref)(nil)
	_ Expr = (*Literal)(nil)
	_ Expr = (*Charset)(nil)
	_ Expr = (*Any)(nil)
	_ Expr = (*Seq)(nil)
	_ Expr = (*Choice)(nil)
	_ Expr = (*List)(nil)
	_ Expr = (*Repeat)(nil)
	_ Expr = (*Lookahead)(nil)
	_ Expr = (*Hide)(nil)
)

// Ref references a rule by name. Before module flattening the name may be
// qualified with module path, e.g. "Lexer.ident".
type Ref struct {
	Name string
}

func (*Ref) Kind() Kind         { return RefKind }
func (*Ref) Children() []Expr   { return nil }
func (*Ref) exprNode()          {}
func (r *Ref) WithChildren([]Expr) Expr {
	c := *r
	return &c
}

// WithName derives reference to another rule.
func (r *Ref) WithName(name string) *Ref {
	return &Ref{Name: name}
}

// Literal matches exact text.
type Literal struct {
	Text string
}

func (*Literal) Kind() Kind       { return LiteralKind }
func (*Literal) Children() []Expr { return nil }
func (*Literal) exprNode()        {}
func (l *Literal) WithChildren([]Expr) Expr {
	c := *l
	return &c
}

// CharRange is a charset element. Single character has Low == High.
// Low > High is representable and reported by charset validation.
type CharRange struct {
	Low, High rune
}

// Contains reports whether r belongs to range.
func (cr CharRange) Contains(r rune) bool {
	return r >= cr.Low && r <= cr.High
}

// Charset matches a single character belonging to (or, if Invert is set, not belonging to) any of ranges.
type Charset struct {
	Ranges []CharRange
	Invert bool
}

func (*Charset) Kind() Kind       { return CharsetKind }
func (*Charset) Children() []Expr { return nil }
func (*Charset) exprNode()        {}
func (cs *Charset) WithChildren([]Expr) Expr {
	return &Charset{Ranges: append([]CharRange(nil), cs.Ranges...), Invert: cs.Invert}
}

// Matches reports whether the charset accepts r.
func (cs *Charset) Matches(r rune) bool {
	for _, cr := range cs.Ranges {
		if cr.Contains(r) {
			return !cs.Invert
		}
	}
	return cs.Invert
}

// Any matches any single character.
type Any struct{}

func (*Any) Kind() Kind               { return AnyKind }
func (*Any) Children() []Expr         { return nil }
func (*Any) exprNode()                {}
func (*Any) WithChildren([]Expr) Expr { return &Any{} }

// Seq matches all items one after another. Empty Seq matches empty string.
type Seq struct {
	Items []Expr
}

func (*Seq) Kind() Kind         { return SeqKind }
func (s *Seq) Children() []Expr { return s.Items }
func (*Seq) exprNode()          {}
func (s *Seq) WithChildren(cs []Expr) Expr {
	return &Seq{Items: copyExprs(cs)}
}

// Choice tries alternatives in order, the first one that matches wins.
// Empty Choice never matches.
type Choice struct {
	Alts []Expr
}

func (*Choice) Kind() Kind         { return ChoiceKind }
func (c *Choice) Children() []Expr { return c.Alts }
func (*Choice) exprNode()          {}
func (c *Choice) WithChildren(cs []Expr) Expr {
	return &Choice{Alts: copyExprs(cs)}
}

// List matches at least Min occurrences of Elem, separated by Sep if it is not nil.
// This is the core repetition form.
type List struct {
	Elem Expr
	Sep  Expr
	Min  int
}

func (*List) Kind() Kind { return ListKind }
func (*List) exprNode()  {}

func (l *List) Children() []Expr {
	if l.Sep == nil {
		return []Expr{l.Elem}
	}
	return []Expr{l.Elem, l.Sep}
}

func (l *List) WithChildren(cs []Expr) Expr {
	res := &List{Elem: cs[0], Min: l.Min}
	if len(cs) > 1 {
		res.Sep = cs[1]
	}
	return res
}

// WithMin derives list with another minimum count.
func (l *List) WithMin(n int) *List {
	c := *l
	c.Min = n
	return &c
}

// Repeat is the convenience repetition form (x*, x+, x?, x{n,m}).
// Max is Unbounded or not less than Min. Lowering replaces it with core forms.
type Repeat struct {
	Expr     Expr
	Min, Max int
}

func (*Repeat) Kind() Kind         { return RepeatKind }
func (r *Repeat) Children() []Expr { return []Expr{r.Expr} }
func (*Repeat) exprNode()          {}
func (r *Repeat) WithChildren(cs []Expr) Expr {
	return &Repeat{Expr: cs[0], Min: r.Min, Max: r.Max}
}

// Lookahead checks that Expr matches (or does not match if Negated) at current position
// without consuming anything.
type Lookahead struct {
	Expr    Expr
	Negated bool
}

func (*Lookahead) Kind() Kind         { return LookaheadKind }
func (la *Lookahead) Children() []Expr { return []Expr{la.Expr} }
func (*Lookahead) exprNode()          {}
func (la *Lookahead) WithChildren(cs []Expr) Expr {
	return &Lookahead{Expr: cs[0], Negated: la.Negated}
}

// Hide matches Expr but excludes the match from syntax tree.
type Hide struct {
	Expr Expr
}

func (*Hide) Kind() Kind         { return HideKind }
func (h *Hide) Children() []Expr { return []Expr{h.Expr} }
func (*Hide) exprNode()          {}
func (h *Hide) WithChildren(cs []Expr) Expr {
	return &Hide{Expr: cs[0]}
}

func copyExprs(es []Expr) []Expr {
	if es == nil {
		return []Expr{}
	}
	return append(make([]Expr, 0, len(es)), es...)
}

// Lit is a shortcut for &Literal{text}.
func Lit(text string) *Literal {
	return &Literal{Text: text}
}

// R is a shortcut for &Ref{name}.
func R(name string) *Ref {
	return &Ref{Name: name}
}

// Sequence is a shortcut for &Seq{items}.
func Sequence(items ...Expr) *Seq {
	return &Seq{Items: copyExprs(items)}
}

// Alt is a shortcut for &Choice{alts}.
func Alt(alts ...Expr) *Choice {
	return &Choice{Alts: copyExprs(alts)}
}

// Chars creates charset from pairs of runes: Chars('a', 'z', '_', '_').
func Chars(bounds ...rune) *Charset {
	cs := &Charset{Ranges: make([]CharRange, 0, len(bounds)/2)}
	for i := 0; i+1 < len(bounds); i += 2 {
		cs.Ranges = append(cs.Ranges, CharRange{bounds[i], bounds[i+1]})
	}
	return cs
}
