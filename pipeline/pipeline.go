// Package pipeline composes grammar passes.
//
// A pass is a named function from grammar to grammar. Analysis passes return their input unchanged
// or fail. Pipelines apply passes left to right, feeding each pass with the result of the previous one;
// the first failure aborts the pipeline and is reported as *PassError naming the failed pass.
package pipeline

import (
	"github.com/go-logr/logr"

	"github.com/ava12/mage/grammar"
)

// Func transforms a grammar. It must not modify its argument.
type Func func(g *grammar.Grammar) (*grammar.Grammar, error)

// Pass is a named grammar transformation with optional metadata.
type Pass struct {
	// Name is a stable pass name, unique within a registry.
	Name string

	// Description is a human-readable one-line description.
	Description string

	// After lists passes that must run before this one when both are selected.
	After []string

	// Flattened means the pass expects a grammar with no nested modules.
	Flattened bool

	// CheckOnly means the pass never changes the grammar, it only reports errors.
	CheckOnly bool

	Run Func
}

// Identity is the no-op pass.
var Identity = Pass{
	Name:        "identity",
	Description: "returns grammar unchanged",
	CheckOnly:   true,
	Run:         func(g *grammar.Grammar) (*grammar.Grammar, error) { return g, nil },
}

// Check creates analysis pass from a function that only reports errors.
func Check(name, description string, check func(*grammar.Grammar) error) Pass {
	return Pass{
		Name:        name,
		Description: description,
		CheckOnly:   true,
		Run: func(g *grammar.Grammar) (*grammar.Grammar, error) {
			if e := check(g); e != nil {
				return nil, e
			}
			return g, nil
		},
	}
}

// Transform creates rewriting pass from a function that cannot fail.
func Transform(name, description string, f func(*grammar.Grammar) *grammar.Grammar) Pass {
	return Pass{
		Name:        name,
		Description: description,
		Run: func(g *grammar.Grammar) (*grammar.Grammar, error) {
			return f(g), nil
		},
	}
}

// Option configures a pipeline.
type Option func(*Pipeline)

// WithLogger makes the pipeline log every pass at V(1).
func WithLogger(log logr.Logger) Option {
	return func(p *Pipeline) {
		p.log = log
	}
}

// Pipeline is an ordered list of passes. Pipelines are immutable, Then derives a new one.
type Pipeline struct {
	passes []Pass
	log    logr.Logger
}

// New creates pipeline running given passes in order.
func New(passes []Pass, options ...Option) *Pipeline {
	p := &Pipeline{passes: append([]Pass(nil), passes...), log: logr.Discard()}
	for _, o := range options {
		o(p)
	}
	return p
}

// Passes returns pass list of the pipeline.
func (p *Pipeline) Passes() []Pass {
	return append([]Pass(nil), p.passes...)
}

// Names returns pass names in order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.passes))
	for i, pass := range p.passes {
		names[i] = pass.Name
	}
	return names
}

// Then derives pipeline with more passes appended.
func (p *Pipeline) Then(passes ...Pass) *Pipeline {
	res := &Pipeline{passes: make([]Pass, 0, len(p.passes)+len(passes)), log: p.log}
	res.passes = append(append(res.passes, p.passes...), passes...)
	return res
}

// Run applies all passes to g. On failure it returns nil grammar and *PassError.
// A pass marked as Flattened fails without running if the grammar still contains modules.
func (p *Pipeline) Run(g *grammar.Grammar) (*grammar.Grammar, error) {
	for _, pass := range p.passes {
		p.log.V(1).Info("running pass", "pass", pass.Name, "rules", len(g.AllRules()))
		var res *grammar.Grammar
		var e error
		if pass.Flattened && g.HasModules() {
			e = notFlattenedError(pass.Name)
		} else {
			res, e = pass.Run(g)
		}
		if e == nil && res == nil {
			e = nilGrammarError(pass.Name)
		}
		if e != nil {
			p.log.V(1).Info("pass failed", "pass", pass.Name, "error", e.Error())
			return nil, &PassError{Pass: pass.Name, Err: e}
		}
		g = res
	}
	return g, nil
}

// AsPass wraps the pipeline into a single pass, so pipelines can be nested.
func (p *Pipeline) AsPass(name, description string) Pass {
	return Pass{
		Name:        name,
		Description: description,
		Run:         p.Run,
	}
}

// Compose returns pass equivalent to running given passes in order.
// Compose() is Identity, Compose(p) is p.
func Compose(passes ...Pass) Pass {
	switch len(passes) {
	case 0:
		return Identity
	case 1:
		return passes[0]
	}

	names := make([]string, len(passes))
	checkOnly := true
	for i, p := range passes {
		names[i] = p.Name
		checkOnly = checkOnly && p.CheckOnly
	}
	return Pass{
		Name:      joinNames(names),
		Flattened: passes[0].Flattened,
		CheckOnly: checkOnly,
		Run:       New(passes).Run,
	}
}

func joinNames(names []string) string {
	res := names[0]
	for _, n := range names[1:] {
		res += "+" + n
	}
	return res
}
