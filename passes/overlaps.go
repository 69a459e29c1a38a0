package passes

import (
	"regexp"
	"strings"

	"github.com/go-logr/logr"

	"github.com/ava12/mage"
	"github.com/ava12/mage/grammar"
	"github.com/ava12/mage/lexer"
	"github.com/ava12/mage/pipeline"
)

// CheckOverlapsName is the name of the pass created by CheckOverlaps.
const CheckOverlapsName = "check-overlaps"

// Overlap describes token rules matching the same text.
type Overlap struct {
	// Text is the literal text matched by all Rules.
	Text string

	// Rules lists overlapping token rules in declaration order.
	Rules []string

	// Exact means all Rules are fixed tokens with identical text.
	// Otherwise Rules[0] is a fixed token and the rest are other token rules whose languages contain Text.
	Exact bool
}

// FindOverlaps returns overlaps between token rules of flattened grammar.
// Fixed tokens having the same text are exact overlaps. Fixed tokens whose text is also matched by some
// other token rule (e.g. keywords matched by identifier rule) are reported as inexact overlaps.
// Token rules that cannot be translated to regular expressions are not compared.
func FindOverlaps(g *grammar.Grammar) []Overlap {
	c := grammar.Classify(g)
	var texts []string
	fixed := make(map[string][]string)
	var patterns []string
	res := make(map[string]*regexp.Regexp)

	for _, r := range g.Rules() {
		if !c.IsToken(r.Name) {
			continue
		}
		if text, is := c.IsFixedToken(r.Name); is {
			if fixed[text] == nil {
				texts = append(texts, text)
			}
			fixed[text] = append(fixed[text], r.Name)
			continue
		}
		if re, e := lexer.Translate(g, r.Name); e == nil {
			if rx, e := regexp.Compile("^(?:" + re + ")$"); e == nil {
				patterns = append(patterns, r.Name)
				res[r.Name] = rx
			}
		}
	}

	var overlaps []Overlap
	for _, text := range texts {
		names := fixed[text]
		if len(names) > 1 {
			overlaps = append(overlaps, Overlap{Text: text, Rules: names, Exact: true})
		}

		var matching []string
		for _, name := range patterns {
			if res[name].MatchString(text) {
				matching = append(matching, name)
			}
		}
		if len(matching) > 0 {
			overlaps = append(overlaps, Overlap{Text: text, Rules: append([]string{names[0]}, matching...)})
		}
	}
	return overlaps
}

// CheckOverlaps creates the pass failing on exact token overlaps and logging inexact ones at V(1).
func CheckOverlaps(log logr.Logger) pipeline.Pass {
	p := pipeline.Check(CheckOverlapsName, "reports fixed tokens with identical text", func(g *grammar.Grammar) error {
		var errs mage.ErrorList
		for _, o := range FindOverlaps(g) {
			if o.Exact {
				errs = append(errs, mage.FormatError(OverlappingTokensError, "token rules %s all match %s",
					strings.Join(o.Rules, ", "), grammar.QuoteLiteral(o.Text)))
			} else {
				log.V(1).Info("token overlap", "text", o.Text, "rules", strings.Join(o.Rules, ", "))
			}
		}
		return errs.Err()
	})
	p.After = []string{FlattenModulesName}
	p.Flattened = true
	return p
}
