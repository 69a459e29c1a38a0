/*
Package mage is a grammar compiler for the Mage grammar language.

Consists of subpackages:
  - cmd/mage: console utility checking, testing, and generating artifacts from grammar files;
  - grammar: grammar model (expressions, rules, modules, examples) and generic rewriting helpers;
  - langdef: converts Mage grammar description to grammar model;
  - pipeline: named passes, pass registry, and pass pipelines;
  - passes: canonicalization, desugaring, and validation passes;
  - eval: grammar evaluator executing rules directly against text;
  - tree: syntax trees built by evaluator;
  - lexer: regexp-based lexer built from token rules of canonical grammar;
  - gen: generators producing output files from canonical grammar;
  - source: source text with line and column lookup.

Typical usage is:

1. Describe grammar in Mage language, optionally with embedded examples.

2. Parse grammar description using langdef subpackage.

3. Run the standard pass pipeline to get validated canonical grammar.

4. Feed canonical grammar to evaluator (e.g. to run embedded examples) or to generators.
*/
package mage

import (
	"fmt"
	"strings"
)

// Error classes used by subpackages, each class contains up to 99 error codes:
const (
	GrammarErrors = 1   // used by passes for grammar validation
	PassErrors    = 101 // used by pipeline
	EvalErrors    = 201 // used by eval
	SyntaxErrors  = 301 // used by langdef
	GenErrors     = 401 // used by gen
	LexicalErrors = 501 // used by lexer
)

// Error is the error type used by mage subpackages.
type Error struct {
	// Code contains non-zero error code.
	Code int

	// Message contains non-empty error message including source name and position information if provided.
	Message string

	// SourceName contains source name that caused this error or empty string.
	SourceName string

	// Line contains line number in source file or 0.
	Line int

	// Col contains column number in source file or 0.
	Col int
}

// SourcePos is used to retrieve source name and position information when constructing an error;
// source.Pos implements this interface.
type SourcePos interface {
	// SourceName returns source file name or empty string.
	SourceName() string
	// Line returns line number or 0.
	Line() int
	// Col returns column number or 0.
	Col() int
}

// NewError creates new Error structure.
// name, line, and col will be added to error message if provided (non-zero).
func NewError(code int, msg, name string, line, col int) *Error {
	if name != "" && line != 0 && col != 0 {
		msg += fmt.Sprintf(" in %s at line %d col %d", name, line, col)
	}
	return &Error{code, msg, name, line, col}
}

// Error simply returns Error.Message.
func (e *Error) Error() string {
	return e.Message
}

// FormatError creates Error structure with no source and position information.
// params will be added to error message using fmt.Sprintf function.
func FormatError(code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return NewError(code, msg, "", 0, 0)
}

// FormatErrorPos creates Error structure with source and position information.
// pos must not be nil.
// params will be added to error message using fmt.Sprintf function.
func FormatErrorPos(pos SourcePos, code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return NewError(code, msg, pos.SourceName(), pos.Line(), pos.Col())
}

// ErrorList holds all errors found by a check that does not stop at the first one.
type ErrorList []*Error

// Error joins messages of all contained errors, one per line.
func (el ErrorList) Error() string {
	msgs := make([]string, len(el))
	for i, e := range el {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "\n")
}

// Unwrap makes each contained error reachable by errors.Is and errors.As.
func (el ErrorList) Unwrap() []error {
	res := make([]error, len(el))
	for i, e := range el {
		res[i] = e
	}
	return res
}

// Err returns nil for empty list, the only error for single-element list, or the list itself.
func (el ErrorList) Err() error {
	switch len(el) {
	case 0:
		return nil
	case 1:
		return el[0]
	default:
		return el
	}
}
