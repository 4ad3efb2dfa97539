package parsec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputPeekNextAdvancesPosition(t *testing.T) {
	in := OpenString("t", []byte("ab\ncd"))

	b, ok := in.Peek()
	require.True(t, ok)
	assert.Equal(t, byte('a'), b)
	assert.Equal(t, Pos{Name: "t", Offset: 0, Row: 1, Col: 1}, in.Position())

	in.Next()
	in.Next()
	assert.Equal(t, Pos{Name: "t", Offset: 2, Row: 1, Col: 3}, in.Position())

	in.Next() // consumes '\n'
	assert.Equal(t, Pos{Name: "t", Offset: 3, Row: 2, Col: 1}, in.Position())
}

func TestInputEof(t *testing.T) {
	in := OpenString("t", []byte("a"))
	in.Next()
	_, ok := in.Peek()
	assert.False(t, ok)
	assert.True(t, in.Eof())
}

func TestInputRewindRestoresPosition(t *testing.T) {
	in := OpenString("t", []byte("hello"))
	id := in.Mark()
	in.Next()
	in.Next()
	in.Rewind(id)
	assert.Equal(t, 0, in.Position().Offset)
	b, _ := in.Peek()
	assert.Equal(t, byte('h'), b)
}

func TestInputCommitKeepsAdvancedPosition(t *testing.T) {
	in := OpenString("t", []byte("hello"))
	id := in.Mark()
	in.Next()
	in.Next()
	in.Commit(id)
	assert.Equal(t, 2, in.Position().Offset)
}

func TestInputNestedMarksRewindIndependently(t *testing.T) {
	in := OpenString("t", []byte("abcdef"))
	outer := in.Mark()
	in.Next()
	inner := in.Mark()
	in.Next()
	in.Next()
	in.Rewind(inner)
	assert.Equal(t, 1, in.Position().Offset)
	in.Rewind(outer)
	assert.Equal(t, 0, in.Position().Offset)
}

func TestInputStreamBuffersAcrossMarks(t *testing.T) {
	in := OpenStream("t", strings.NewReader("streamed input data"))
	id := in.Mark()
	for i := 0; i < 5; i++ {
		in.Next()
	}
	in.Rewind(id)
	b, ok := in.Peek()
	require.True(t, ok)
	assert.Equal(t, byte('s'), b)
}

func TestInputStreamHonorsConfiguredMinWindow(t *testing.T) {
	cfg := NewConfig()
	cfg.SetInt("input.buffer.min_window", 3)
	in := OpenStreamWithConfig("t", strings.NewReader("abcdefgh"), cfg)

	for i := 0; i < 8; i++ {
		in.Next()
	}

	data, ok := in.PeekBehind(3)
	require.True(t, ok)
	assert.Equal(t, []byte("fgh"), data)

	_, ok = in.PeekBehind(4)
	assert.False(t, ok, "bytes older than min_window should already be trimmed")
}

func TestInputBacktrackDepthTracksOpenMarks(t *testing.T) {
	in := OpenString("t", []byte("abc"))
	assert.Equal(t, 0, in.BacktrackDepth())
	m1 := in.Mark()
	assert.Equal(t, 1, in.BacktrackDepth())
	m2 := in.Mark()
	assert.Equal(t, 2, in.BacktrackDepth())
	in.Commit(m2)
	assert.Equal(t, 1, in.BacktrackDepth())
	in.Commit(m1)
	assert.Equal(t, 0, in.BacktrackDepth())
}
