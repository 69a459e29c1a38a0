package eval

import (
	"github.com/ava12/mage"
)

// Error codes used by evaluator:
const (
	// UnknownRuleError indicates evaluation of (or reference to) a rule not defined in the grammar.
	UnknownRuleError = mage.EvalErrors + iota

	// NotFlattenedError indicates a grammar that still contains modules.
	NotFlattenedError

	// MismatchError is the code of errors describing failed evaluation results, see Result.Err.
	MismatchError

	// RecursionLimitError is the code of errors describing evaluation aborted by recursion limit.
	RecursionLimitError
)

func unknownRuleError(name string) *mage.Error {
	return mage.FormatError(UnknownRuleError, "unknown rule %q", name)
}

func undefinedRefError(rule, name string) *mage.Error {
	return mage.FormatError(UnknownRuleError, "rule %q references undefined rule %q", rule, name)
}

func notFlattenedError() *mage.Error {
	return mage.FormatError(NotFlattenedError, "grammar contains modules, flatten it first")
}
