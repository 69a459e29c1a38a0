package lexer

import (
	"github.com/ava12/mage/source"
)

// Token is a lexeme fetched by Lexer.
type Token struct {
	tokenType int
	typeName  string
	text      string
	pos       source.Pos
}

// NewToken creates new token.
func NewToken(tokenType int, typeName, text string, pos source.Pos) *Token {
	return &Token{tokenType, typeName, text, pos}
}

// Type returns token type: index of token rule in Lexer.Types().
func (t *Token) Type() int {
	return t.tokenType
}

// TypeName returns name of the token rule.
func (t *Token) TypeName() string {
	return t.typeName
}

func (t *Token) Text() string {
	return t.text
}

func (t *Token) Pos() source.Pos {
	return t.pos
}

func (t *Token) SourceName() string {
	return t.pos.SourceName()
}

func (t *Token) Line() int {
	return t.pos.Line()
}

func (t *Token) Col() int {
	return t.pos.Col()
}
