package passes

import (
	"github.com/ava12/mage"
	"github.com/ava12/mage/source"
)

// Error codes used by passes:
const (
	// UndefinedRuleError indicates a reference to a rule that is not defined.
	UndefinedRuleError = mage.GrammarErrors + iota

	// InvertedRangeError indicates a charset range with low bound greater than high bound.
	InvertedRangeError

	// DuplicateRuleError indicates two rules (or modules) with the same name in the same scope,
	// or two rules having the same name after flattening.
	DuplicateRuleError

	// LeftRecursionError indicates rules that may reference themselves without consuming any input.
	LeftRecursionError

	// OverlappingTokensError indicates distinct fixed token rules matching the same text.
	OverlappingTokensError

	// MagicNameError indicates a user rule having the name of a generated magic rule.
	MagicNameError

	// InvalidRepeatError indicates a repetition with negative minimum or with maximum less than minimum.
	InvalidRepeatError

	// NotFlattenedError indicates that a pass requiring flattened grammar got a grammar with modules.
	NotFlattenedError
)

func posError(pos source.Pos, code int, msg string, params ...any) *mage.Error {
	if pos.Line() == 0 {
		return mage.FormatError(code, msg, params...)
	}
	return mage.FormatErrorPos(pos, code, msg, params...)
}

func notFlattenedError(pass string) *mage.Error {
	return mage.FormatError(NotFlattenedError, "%s: grammar contains modules, flatten it first", pass)
}
