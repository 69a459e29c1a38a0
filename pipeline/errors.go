package pipeline

import (
	"strings"

	"github.com/ava12/mage"
)

const (
	UnknownPassError = mage.PassErrors + iota
	PassOrderError
	PassFailedError
	NotFlattenedError
)

// PassError reports which pass of a pipeline failed. Err is the error returned by the pass.
type PassError struct {
	Pass string
	Err  error
}

func (e *PassError) Error() string {
	return "pass " + e.Pass + " failed: " + e.Err.Error()
}

func (e *PassError) Unwrap() error {
	return e.Err
}

func unknownPassError(names []string) *mage.Error {
	return mage.FormatError(UnknownPassError, "unknown passes: %s", strings.Join(names, ", "))
}

func passOrderError(pass, after string) *mage.Error {
	return mage.FormatError(PassOrderError, "pass %q must run after %q", pass, after)
}

func notFlattenedError(pass string) *mage.Error {
	return mage.FormatError(NotFlattenedError, "pass %q requires flattened grammar", pass)
}

func nilGrammarError(pass string) *mage.Error {
	return mage.FormatError(PassFailedError, "pass %q returned no grammar", pass)
}
