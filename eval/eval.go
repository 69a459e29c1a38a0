// Package eval interprets grammar rules directly against text.
//
// Evaluation is a backtracking recursive descent: sequences stop at the first failed item,
// choices commit to the first successful alternative (ordered choice, not the longest match),
// lists and repetitions are greedy. Depth of rule references is limited;
// hitting the limit aborts evaluation with RecursionLimit outcome, which usually means
// a left-recursive or otherwise cyclic grammar.
package eval

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/ava12/mage"
	"github.com/ava12/mage/grammar"
	"github.com/ava12/mage/source"
	"github.com/ava12/mage/tree"
)

// DefaultMaxDepth is the rule reference depth limit used when Options.MaxDepth is not set.
const DefaultMaxDepth = 1000

// Options configure evaluator.
type Options struct {
	// MaxDepth limits nesting of rule references, DefaultMaxDepth if 0.
	MaxDepth int
}

// Outcome is the kind of evaluation result.
type Outcome int

const (
	Success Outcome = iota
	Failure
	RecursionLimit
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Failure:
		return "failure"
	case RecursionLimit:
		return "recursion limit"
	default:
		return "unknown"
	}
}

// Result describes evaluation of a rule against source text.
type Result struct {
	Outcome Outcome

	// End is the byte offset right after the matched text, valid for Success.
	End int

	// Furthest is the furthest position where some expected construct did not match.
	Furthest source.Pos

	// Expected lists descriptions of constructs expected at Furthest, in order of attempts.
	Expected []string

	// Tree contains top-level syntax tree nodes built for matched text, valid for Success.
	Tree []*tree.Node
}

// Err returns nil for successful result or mage.Error describing failure.
func (r Result) Err() error {
	switch r.Outcome {
	case Success:
		return nil
	case RecursionLimit:
		return mage.FormatErrorPos(r.Furthest, RecursionLimitError, "recursion limit reached")
	}

	msg := "unexpected input"
	if len(r.Expected) > 0 {
		msg = "expected " + strings.Join(r.Expected, " or ")
	}
	return mage.FormatErrorPos(r.Furthest, MismatchError, msg)
}

// Evaluator executes rules of a flattened grammar. Grammar need not be lowered.
// Evaluator is immutable and safe for concurrent use.
type Evaluator struct {
	rules    map[string]*grammar.Rule
	classes  *grammar.Classes
	maxDepth int
}

// New creates evaluator for flattened grammar.
// Returns error if grammar has modules or references undefined rules.
func New(g *grammar.Grammar, opts Options) (*Evaluator, error) {
	if g.HasModules() {
		return nil, notFlattenedError()
	}

	ev := &Evaluator{
		rules:    make(map[string]*grammar.Rule),
		classes:  grammar.Classify(g),
		maxDepth: opts.MaxDepth,
	}
	if ev.maxDepth <= 0 {
		ev.maxDepth = DefaultMaxDepth
	}
	for _, r := range g.Rules() {
		if _, has := ev.rules[r.Name]; !has {
			ev.rules[r.Name] = r
		}
	}

	var e error
	grammar.VisitRules(g, func(r *grammar.Rule, x grammar.Expr) bool {
		if ref, is := x.(*grammar.Ref); is && e == nil && ev.rules[ref.Name] == nil {
			e = undefinedRefError(r.Name, ref.Name)
		}
		return e == nil
	})
	if e != nil {
		return nil, e
	}
	return ev, nil
}

// Match evaluates named rule at the beginning of source. The rule need not consume entire source.
func (ev *Evaluator) Match(rule string, src *source.Source) (Result, error) {
	if ev.rules[rule] == nil {
		return Result{}, unknownRuleError(rule)
	}

	s := &state{ev: ev, src: src, text: src.Content()}
	end, nodes, ok := s.ref(rule, 0, true)
	res := Result{End: end, Furthest: src.Pos(s.furthest), Expected: s.expected}
	switch {
	case s.limitHit:
		res.Outcome = RecursionLimit
		res.End = 0
		res.Furthest = src.Pos(s.limitPos)
	case ok:
		res.Outcome = Success
		res.Tree = nodes
	default:
		res.Outcome = Failure
		res.End = 0
	}
	return res, nil
}

// Accepts evaluates named rule against entire source: a match that leaves some text unconsumed is a failure.
func (ev *Evaluator) Accepts(rule string, src *source.Source) (Result, error) {
	res, e := ev.Match(rule, src)
	if e != nil || res.Outcome != Success || res.End == src.Len() {
		return res, e
	}

	s := &state{furthest: res.Furthest.Offset(), expected: res.Expected}
	s.expect(res.End, "end of input")
	return Result{Outcome: Failure, Furthest: src.Pos(s.furthest), Expected: s.expected}, nil
}

// MatchString is a shortcut for Match with unnamed source.
func (ev *Evaluator) MatchString(rule, text string) (Result, error) {
	return ev.Match(rule, source.NewString("", text))
}

// AcceptsString is a shortcut for Accepts with unnamed source.
func (ev *Evaluator) AcceptsString(rule, text string) (Result, error) {
	return ev.Accepts(rule, source.NewString("", text))
}

// state holds everything that changes during a single top-level evaluation.
type state struct {
	ev       *Evaluator
	src      *source.Source
	text     []byte
	depth    int
	limitHit bool
	limitPos int
	silent   int
	furthest int
	expected []string
}

func (s *state) expect(pos int, what string) {
	if s.silent > 0 || pos < s.furthest {
		return
	}
	if pos > s.furthest {
		s.furthest = pos
		s.expected = nil
	}
	for _, e := range s.expected {
		if e == what {
			return
		}
	}
	s.expected = append(s.expected, what)
}

func (s *state) ref(name string, pos int, collect bool) (int, []*tree.Node, bool) {
	r := s.ev.rules[name]
	if s.depth >= s.ev.maxDepth {
		if !s.limitHit {
			s.limitHit = true
			s.limitPos = pos
		}
		return pos, nil, false
	}
	if r.Expr == nil {
		s.expect(pos, name)
		return pos, nil, false
	}

	s.depth++
	defer func() { s.depth-- }()

	c := s.ev.classes
	if c.IsToken(name) {
		s.silent++
		end, _, ok := s.eval(r.Expr, pos, false)
		s.silent--
		if !ok {
			s.expect(pos, name)
			return pos, nil, false
		}
		if !collect || r.HasDecorator("skip") {
			return end, nil, true
		}
		return end, []*tree.Node{tree.NewToken(name, s.src.Pos(pos), string(s.text[pos:end]))}, true
	}

	end, nodes, ok := s.eval(r.Expr, pos, collect)
	if !ok || !collect || !r.IsPublic() || !c.IsNode(name) {
		return end, nodes, ok
	}
	return end, []*tree.Node{tree.NewNode(name, s.src.Pos(pos), string(s.text[pos:end]), nodes)}, true
}

// eval matches expression at pos, returning position after match, collected tree nodes, and success flag.
// Nodes are built only if collect is set.
func (s *state) eval(e grammar.Expr, pos int, collect bool) (int, []*tree.Node, bool) {
	if s.limitHit {
		return pos, nil, false
	}

	switch x := e.(type) {
	case *grammar.Ref:
		return s.ref(x.Name, pos, collect)

	case *grammar.Literal:
		if bytes.HasPrefix(s.text[pos:], []byte(x.Text)) {
			return pos + len(x.Text), nil, true
		}
		s.expect(pos, x.String())
		return pos, nil, false

	case *grammar.Charset:
		r, size := utf8.DecodeRune(s.text[pos:])
		if size > 0 && x.Matches(r) {
			return pos + size, nil, true
		}
		s.expect(pos, x.String())
		return pos, nil, false

	case *grammar.Any:
		_, size := utf8.DecodeRune(s.text[pos:])
		if size > 0 {
			return pos + size, nil, true
		}
		s.expect(pos, "any character")
		return pos, nil, false

	case *grammar.Seq:
		var nodes []*tree.Node
		end := pos
		for _, item := range x.Items {
			next, ns, ok := s.eval(item, end, collect)
			if !ok {
				return pos, nil, false
			}
			end = next
			nodes = append(nodes, ns...)
		}
		return end, nodes, true

	case *grammar.Choice:
		for _, alt := range x.Alts {
			end, nodes, ok := s.eval(alt, pos, collect)
			if ok {
				return end, nodes, true
			}
			if s.limitHit {
				break
			}
		}
		return pos, nil, false

	case *grammar.List:
		return s.repeat(x.Elem, x.Sep, x.Min, grammar.Unbounded, pos, collect)

	case *grammar.Repeat:
		return s.repeat(x.Expr, nil, x.Min, x.Max, pos, collect)

	case *grammar.Lookahead:
		s.silent++
		_, _, ok := s.eval(x.Expr, pos, false)
		s.silent--
		if s.limitHit {
			return pos, nil, false
		}
		if ok != x.Negated {
			return pos, nil, true
		}
		s.expect(pos, x.String())
		return pos, nil, false

	case *grammar.Hide:
		end, _, ok := s.eval(x.Expr, pos, false)
		return end, nil, ok
	}

	return pos, nil, false
}

// repeat matches elem greedily, at most hi times (or unlimited), interleaved with sep if it is not nil.
// A separator not followed by an element is not consumed.
// Iteration stops when an element together with its separator consumes nothing:
// such element could be matched any number of times, so lo is considered satisfied.
func (s *state) repeat(elem, sep grammar.Expr, lo, hi int, pos int, collect bool) (int, []*tree.Node, bool) {
	if hi == 0 {
		return pos, nil, true
	}

	end, nodes, ok := s.eval(elem, pos, collect)
	if !ok {
		return pos, nil, lo == 0 && !s.limitHit
	}

	count := 1
	for hi == grammar.Unbounded || count < hi {
		next := end
		var sepNodes []*tree.Node
		if sep != nil {
			next, sepNodes, ok = s.eval(sep, end, collect)
			if !ok {
				break
			}
		}

		after, elemNodes, ok := s.eval(elem, next, collect)
		if !ok {
			break
		}
		if after == end {
			count = max(count, lo)
			break
		}

		nodes = append(nodes, sepNodes...)
		nodes = append(nodes, elemNodes...)
		end = after
		count++
	}

	if s.limitHit || count < lo {
		return pos, nil, false
	}
	return end, nodes, true
}
