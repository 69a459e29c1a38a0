package gen

import (
	"github.com/ava12/mage"
)

// Error codes used by generators:
const (
	// UnknownTargetError indicates a target name not present in the target table.
	UnknownTargetError = mage.GenErrors + iota

	// NotFlattenedError indicates a grammar that still contains modules.
	NotFlattenedError

	// NameCollisionError indicates two rules mapped to the same identifier of the output language.
	NameCollisionError

	// InvalidNameError indicates an option value that is not a valid identifier.
	InvalidNameError

	// VerifyError indicates that generated output failed self-check.
	VerifyError
)

func unknownTargetError(name string) *mage.Error {
	return mage.FormatError(UnknownTargetError, "unknown target %q", name)
}

func notFlattenedError(target string) *mage.Error {
	return mage.FormatError(NotFlattenedError, "%s target requires flattened grammar", target)
}

func nameCollisionError(target, name, first, second string) *mage.Error {
	return mage.FormatError(NameCollisionError, "%s target: rules %q and %q both map to %s", target, first, second, name)
}

func invalidNameError(what, name string) *mage.Error {
	return mage.FormatError(InvalidNameError, "invalid %s name: %q", what, name)
}

func verifyError(target string, e error) *mage.Error {
	return mage.FormatError(VerifyError, "%s target produced invalid output: %s", target, e.Error())
}
