package lexer

import (
	"fmt"
	"unicode/utf8"

	"github.com/ava12/mage"
	"github.com/ava12/mage/source"
)

// Error codes used by lexer:
const (
	// WrongCharError indicates that lexer cannot fetch any token at current position.
	// Error message contains the rune at current source position.
	WrongCharError = mage.LexicalErrors + iota

	// UntranslatableError indicates that token rule body cannot be expressed as regular expression.
	UntranslatableError

	// RecursiveTokenError indicates that token rule references itself.
	RecursiveTokenError

	// UnknownTokenError indicates reference to a rule that is not a known token rule.
	UnknownTokenError
)

func wrongCharError(s *source.Source, pos int) *mage.Error {
	r, _ := utf8.DecodeRune(s.Content()[pos:])
	msg := fmt.Sprintf("wrong char %q (u+%x)", r, r)
	line, col := s.LineCol(pos)
	return mage.NewError(WrongCharError, msg, s.Name(), line, col)
}

func untranslatableError(rule string, what string) *mage.Error {
	return mage.FormatError(UntranslatableError, "token rule %q: cannot translate %s to regular expression", rule, what)
}

func recursiveTokenError(rule, ref string) *mage.Error {
	return mage.FormatError(RecursiveTokenError, "token rule %q: recursive reference to %q", rule, ref)
}

func unknownTokenError(rule, ref string) *mage.Error {
	return mage.FormatError(UnknownTokenError, "token rule %q: %q is not a token rule", rule, ref)
}
