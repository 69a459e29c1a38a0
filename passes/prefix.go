package passes

import (
	"strings"

	"github.com/ava12/mage/grammar"
	"github.com/ava12/mage/pipeline"
)

// AddPrefixName is the name of the pass created by AddPrefix.
const AddPrefixName = "add-prefix"

// PrefixName returns rule name with prefix added. For dotted (module-qualified) names
// only the last segment is prefixed since module names are not rule names.
func PrefixName(prefix, name string) string {
	i := strings.LastIndexByte(name, '.')
	return name[:i+1] + prefix + name[i+1:]
}

// PrefixRules derives grammar with every rule name, reference, and example rule name prefixed.
// Modules are not renamed.
func PrefixRules(g *grammar.Grammar, prefix string) *grammar.Grammar {
	if prefix == "" {
		return g
	}

	prefixRef := func(e grammar.Expr) grammar.Expr {
		if ref, is := e.(*grammar.Ref); is {
			return ref.WithName(PrefixName(prefix, ref.Name))
		}
		return e
	}
	return grammar.MapElements(g,
		func(r *grammar.Rule) *grammar.Rule {
			r = r.WithName(prefix + r.Name)
			if r.Expr != nil {
				r = r.WithExpr(grammar.Rewrite(r.Expr, prefixRef))
			}
			return r
		},
		func(ex *grammar.Example) *grammar.Example {
			return ex.WithRule(PrefixName(prefix, ex.Rule))
		},
	)
}

// AddPrefix creates the pass renaming all rules with given prefix.
// When selected together with flatten-modules or insert-magic-rules it must run after them.
func AddPrefix(prefix string) pipeline.Pass {
	p := pipeline.Transform(AddPrefixName, "prefixes all rule names and references", func(g *grammar.Grammar) *grammar.Grammar {
		return PrefixRules(g, prefix)
	})
	p.After = []string{FlattenModulesName, InsertMagicRulesName}
	return p
}
