package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type result struct {
	pos, line, col int
}

func TestSourceLineCol(t *testing.T) {
	samples := map[string][]result{
		"": {
			{0, 1, 1},
			{100, 1, 1},
			{-5, 1, 1},
		},
		"\n": {
			{0, 1, 1},
			{1, 2, 1},
			{100, 2, 1},
		},
		"0\n2\n4\n6789abcde\ng\ni\n": {
			{4, 3, 1},
			{5, 3, 2},
			{6, 4, 1},
			{7, 4, 2},
			{14, 4, 9},
			{19, 6, 2},
			{20, 7, 1},
			{9, 4, 4},
			{5, 3, 2},
		},
		"пр\nивет": {
			{4, 1, 3},
			{5, 2, 1},
			{7, 2, 2},
		},
	}

	for text, results := range samples {
		src := NewString("", text)
		for _, res := range results {
			l, c := src.LineCol(res.pos)
			assert.Equal(t, res.line, l, "sample %q, pos %d", text, res.pos)
			assert.Equal(t, res.col, c, "sample %q, pos %d", text, res.pos)
		}
	}
}

func TestPosString(t *testing.T) {
	src := NewString("input", "ab\ncd")
	assert.Equal(t, "input:2:2", src.Pos(4).String())
	assert.Equal(t, "2:1", NewString("", "ab\ncd").Pos(3).String())
	assert.Equal(t, "-", Pos{}.String())
	assert.Equal(t, "", Pos{}.SourceName())
	assert.Equal(t, 4, src.Pos(4).Offset())
}
