package langdef

import (
	"github.com/ava12/mage"
	"github.com/ava12/mage/source"
)

// Error codes used by langdef:
const (
	// ParseError indicates grammar description that does not follow Mage syntax.
	ParseError = mage.SyntaxErrors + iota

	// InvalidEscapeError indicates unknown or malformed escape sequence in a string or a charset.
	InvalidEscapeError

	// InvalidRuneError indicates escape sequence encoding invalid code point.
	InvalidRuneError

	// InvalidCharsetError indicates malformed charset.
	InvalidCharsetError

	// ExternBodyError indicates external rule having a body.
	ExternBodyError

	// InvalidNameError indicates qualified (dotted) name used as rule or module name.
	InvalidNameError
)

func invalidEscapeError(pos source.Pos, seq string) *mage.Error {
	return mage.FormatErrorPos(pos, InvalidEscapeError, "invalid escape sequence %q", seq)
}

func invalidRuneError(pos source.Pos, hex string) *mage.Error {
	return mage.FormatErrorPos(pos, InvalidRuneError, "invalid code point %s", hex)
}

func invalidCharsetError(pos source.Pos, text string) *mage.Error {
	return mage.FormatErrorPos(pos, InvalidCharsetError, "invalid charset %s", text)
}

func externBodyError(pos source.Pos, name string) *mage.Error {
	return mage.FormatErrorPos(pos, ExternBodyError, "external rule %q cannot have a body", name)
}

func invalidNameError(pos source.Pos, name string) *mage.Error {
	return mage.FormatErrorPos(pos, InvalidNameError, "qualified name %q cannot be defined", name)
}
