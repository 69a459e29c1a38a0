package eval

import (
	"github.com/go-logr/logr"

	"github.com/ava12/mage/grammar"
	"github.com/ava12/mage/source"
)

// Verdict is the outcome of an embedded example.
type Verdict int

const (
	// Passed means example outcome matched its expectation.
	Passed Verdict = iota
	// Failed means example was rejected while expected to pass, or vice versa.
	Failed
	// Warning means evaluation hit recursion limit, so example neither passed nor failed.
	Warning
)

func (v Verdict) String() string {
	switch v {
	case Passed:
		return "passed"
	case Failed:
		return "failed"
	case Warning:
		return "warning"
	default:
		return "unknown"
	}
}

// ExampleResult holds verdict for a single example.
type ExampleResult struct {
	Example *grammar.Example
	Verdict Verdict
	Result  Result
}

// Report summarizes evaluation of all grammar examples.
type Report struct {
	Results  []ExampleResult
	Passed   int
	Failed   int
	Warnings int
}

// OK reports whether no example has failed. Warnings do not make report fail.
func (r *Report) OK() bool {
	return r.Failed == 0
}

func exampleSource(ex *grammar.Example) *source.Source {
	name := ex.Rule + " example"
	if ex.Pos.Line() > 0 {
		name = ex.Pos.String()
	}
	return source.NewString(name, ex.Input)
}

// RunExamples evaluates every example of flattened grammar against entire example input.
// Failed examples are logged at V(0), recursion limit warnings at V(0), passed examples at V(1).
// Returns error only if grammar cannot be evaluated at all or an example names unknown rule.
func RunExamples(g *grammar.Grammar, opts Options, log logr.Logger) (*Report, error) {
	ev, e := New(g, opts)
	if e != nil {
		return nil, e
	}

	report := &Report{}
	for _, ex := range g.Examples() {
		res, e := ev.Accepts(ex.Rule, exampleSource(ex))
		if e != nil {
			return report, e
		}

		er := ExampleResult{Example: ex, Result: res}
		switch {
		case res.Outcome == RecursionLimit:
			er.Verdict = Warning
			report.Warnings++
			log.Info("example hit recursion limit", "rule", ex.Rule, "input", ex.Input)
		case (res.Outcome == Success) != ex.ExpectFail:
			er.Verdict = Passed
			report.Passed++
			log.V(1).Info("example passed", "rule", ex.Rule, "input", ex.Input)
		default:
			er.Verdict = Failed
			report.Failed++
			if ex.ExpectFail {
				log.Info("example failed", "rule", ex.Rule, "input", ex.Input, "reason", "accepted input expected to fail")
			} else {
				log.Info("example failed", "rule", ex.Rule, "input", ex.Input, "reason", res.Err().Error())
			}
		}
		report.Results = append(report.Results, er)
	}
	return report, nil
}
