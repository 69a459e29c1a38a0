// Package source defines source text used by grammar parser and evaluator.
package source

import (
	"bytes"
	"fmt"
	"sort"
	"unicode/utf8"
)

// Source holds named text content and knows where its lines start.
// Source is immutable and safe for concurrent use.
type Source struct {
	name       string
	content    []byte
	lineStarts []int
}

// New creates source with given name and content.
func New(name string, content []byte) *Source {
	s := &Source{name: name, content: content}
	lineCnt := bytes.Count(content, []byte("\n")) + 1
	s.lineStarts = make([]int, 1, lineCnt)
	for i, b := range content {
		if b == '\n' {
			s.lineStarts = append(s.lineStarts, i+1)
		}
	}
	return s
}

// NewString creates source from string content.
func NewString(name, content string) *Source {
	return New(name, []byte(content))
}

func (s *Source) Name() string {
	return s.name
}

func (s *Source) Content() []byte {
	return s.content
}

func (s *Source) Len() int {
	return len(s.content)
}

// LineCol converts byte offset to 1-based line and column numbers, column is counted in runes.
// Offsets outside of content are clamped.
func (s *Source) LineCol(pos int) (line, col int) {
	if pos < 0 {
		pos = 0
	} else if pos > len(s.content) {
		pos = len(s.content)
	}

	lineIndex := sort.Search(len(s.lineStarts), func(i int) bool {
		return s.lineStarts[i] > pos
	}) - 1
	lineStart := s.lineStarts[lineIndex]
	return lineIndex + 1, utf8.RuneCount(s.content[lineStart:pos]) + 1
}

// Pos returns position descriptor for byte offset.
func (s *Source) Pos(offset int) Pos {
	line, col := s.LineCol(offset)
	return Pos{s, offset, line, col}
}

// Pos describes a position in a source, zero value means "no position".
type Pos struct {
	src            *Source
	pos, line, col int
}

func (p Pos) Source() *Source {
	return p.src
}

// SourceName returns source name or empty string for zero Pos.
func (p Pos) SourceName() string {
	if p.src == nil {
		return ""
	}
	return p.src.name
}

// Offset returns byte offset in source content.
func (p Pos) Offset() int {
	return p.pos
}

func (p Pos) Line() int {
	return p.line
}

func (p Pos) Col() int {
	return p.col
}

func (p Pos) String() string {
	if p.line == 0 {
		return "-"
	}
	if p.src == nil || p.src.name == "" {
		return fmt.Sprintf("%d:%d", p.line, p.col)
	}
	return fmt.Sprintf("%s:%d:%d", p.src.name, p.line, p.col)
}
