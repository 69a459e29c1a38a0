// Package passes contains grammar canonicalization, desugaring, and validation passes.
//
// Every pass is a pipeline.Pass with a stable name. Validation passes report all violations
// they find at once, as mage.ErrorList, so that a single run shows every problem of a grammar.
package passes

import (
	"github.com/go-logr/logr"

	"github.com/ava12/mage/pipeline"
)

// StandardNames lists passes of the standard pipeline in order of execution.
var StandardNames = []string{
	CheckDuplicatesName,
	FlattenModulesName,
	CheckUndefinedName,
	CheckCharsetsName,
	CheckRecursionName,
	HideLookaheadsName,
	InsertMagicRulesName,
	LowerToCoreName,
	CheckOverlapsName,
}

// All returns all passes in registration order. log receives warnings of non-failing checks.
func All(log logr.Logger) []pipeline.Pass {
	return []pipeline.Pass{
		CheckDuplicates(),
		FlattenModules(),
		CheckUndefined(),
		CheckCharsets(),
		CheckRecursion(),
		CheckUnused(log),
		HideLookaheads(),
		RemoveHidden(),
		Unhide(),
		InsertMagicRules(),
		LowerToCore(),
		CheckOverlaps(log),
	}
}

// Register adds all passes to the registry.
func Register(r *pipeline.Registry, log logr.Logger) *pipeline.Registry {
	return r.Register(All(log)...)
}

// Standard returns the pipeline turning parsed grammar into validated canonical grammar.
// If prefix is not empty, add-prefix pass runs right after insert-magic-rules,
// so flattened module rules and magic rules get the prefix too.
func Standard(prefix string, log logr.Logger) *pipeline.Pipeline {
	r := Register(pipeline.NewRegistry(), log)
	names := StandardNames
	if prefix != "" {
		r.Register(AddPrefix(prefix))
		names = make([]string, 0, len(StandardNames)+1)
		for _, name := range StandardNames {
			names = append(names, name)
			if name == InsertMagicRulesName {
				names = append(names, AddPrefixName)
			}
		}
	}

	p, e := r.Select(names, pipeline.WithLogger(log))
	if e != nil {
		panic(e)
	}
	return p
}
