// Package lexer builds regexp-based lexical analyzers from token rules of canonical grammars.
package lexer

import (
	"regexp"
	"strings"

	"github.com/ava12/mage"
	"github.com/ava12/mage/grammar"
	"github.com/ava12/mage/internal/bmap"
	"github.com/ava12/mage/source"
)

// SkipDecorator marks token rules matching insignificant lexemes (e.g. whitespace or comments).
// Lexer consumes such lexemes but never returns them.
const SkipDecorator = "skip"

// TokenType describes a token rule recognized by lexer.
type TokenType struct {
	// Type is the index of token type in Lexer.Types().
	Type int

	// TypeName is the token rule name.
	TypeName string

	// Literal contains fixed token text, empty for other token types.
	Literal string

	// Skip is set for token rules having SkipDecorator.
	Skip bool
}

// Lexer splits source text into tokens of a flattened grammar.
// Tokens matching single literal text are compared as plain strings, other token rules are
// translated to regular expression capturing groups. At each position the longest lexeme wins,
// of regexp tokens matching lexemes of the same length the first declared one wins;
// if a regexp token text equals some literal token text the literal token is returned.
// Lexer is immutable and safe for concurrent use.
type Lexer struct {
	types  []TokenType
	groups []int
	byText *bmap.BMap[int]
	re     *regexp.Regexp
}

// Compile creates lexer for all token rules of flattened grammar in declaration order.
// External token rules are not matched by lexer.
func Compile(g *grammar.Grammar) (*Lexer, error) {
	c := grammar.Classify(g)
	t := newTranslator(g, c)
	l := &Lexer{byText: bmap.New[int](len(g.Rules()))}
	var res []string

	for _, r := range g.Rules() {
		if !c.IsToken(r.Name) || r.IsExtern() {
			continue
		}

		tt := TokenType{Type: len(l.types), TypeName: r.Name, Skip: r.HasDecorator(SkipDecorator)}
		if text, fixed := c.IsFixedToken(r.Name); fixed && text != "" {
			tt.Literal = text
			l.byText.Add(text, tt.Type)
		} else {
			re, e := t.translateRule(r.Name)
			if e != nil {
				return nil, e
			}
			res = append(res, "("+re+")")
			l.groups = append(l.groups, tt.Type)
		}
		l.types = append(l.types, tt)
	}

	if len(res) > 0 {
		re, e := regexp.Compile("^(?:" + strings.Join(res, "|") + ")")
		if e != nil {
			return nil, untranslatableError(l.types[l.groups[0]].TypeName, "token set: "+e.Error())
		}
		re.Longest()
		l.re = re
	}
	return l, nil
}

// Types returns all token types known to lexer.
func (l *Lexer) Types() []TokenType {
	return append([]TokenType(nil), l.types...)
}

func (l *Lexer) matchLiteral(content []byte) (int, int) {
	tt, size, found := l.byText.Prefix(content)
	if !found {
		return -1, 0
	}
	return tt, size
}

func (l *Lexer) matchGroup(content []byte) (int, int) {
	if l.re == nil {
		return -1, 0
	}

	match := l.re.FindSubmatchIndex(content)
	if len(match) == 0 || match[1] <= match[0] {
		return -1, 0
	}
	for i := 2; i < len(match); i += 2 {
		if match[i] >= 0 {
			return l.groups[(i>>1)-1], match[1]
		}
	}
	return -1, 0
}

func (l *Lexer) match(content []byte) (int, int) {
	litType, litLen := l.matchLiteral(content)
	reType, reLen := l.matchGroup(content)
	if reLen <= litLen {
		return litType, litLen
	}

	if lt, has := l.byText.Get(content[:reLen]); has {
		return lt, reLen
	}
	return reType, reLen
}

func (l *Lexer) matchToken(src *source.Source, pos int) (*Token, int, error) {
	content := src.Content()[pos:]
	tokenType, size := l.match(content)
	if tokenType < 0 {
		return nil, 0, wrongCharError(src, pos)
	}

	tt := l.types[tokenType]
	if tt.Skip {
		return nil, size, nil
	}
	return NewToken(tt.Type, tt.TypeName, string(content[:size]), src.Pos(pos)), size, nil
}

// Tokenize splits entire source into tokens, skipping insignificant lexemes.
// Returns tokens fetched so far and mage.Error if some part of source matches no token.
func (l *Lexer) Tokenize(src *source.Source) ([]*Token, error) {
	var res []*Token
	for pos := 0; pos < src.Len(); {
		tok, size, e := l.matchToken(src, pos)
		if e != nil {
			return res, e
		}
		if tok != nil {
			res = append(res, tok)
		}
		pos += size
	}
	return res, nil
}

// Match reports whether entire text is a single lexeme of named token type.
func (l *Lexer) Match(typeName, text string) bool {
	tokenType, size := l.match([]byte(text))
	return tokenType >= 0 && size == len(text) && l.types[tokenType].TypeName == typeName
}

var _ mage.SourcePos = (*Token)(nil)
