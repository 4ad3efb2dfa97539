package parsec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorRenderExpect(t *testing.T) {
	e := NewExpect(Pos{Name: "t", Row: 1, Col: 1}, "b", "'a'")
	assert.Equal(t, "t:1:1: error: expected 'a' at 'b'", e.Render())
}

func TestErrorRenderUnexpected(t *testing.T) {
	e := NewUnexpected(Pos{Name: "t", Row: 1, Col: 1}, "x", "'x'")
	assert.Equal(t, "t:1:1: error: unexpected 'x' at 'x'", e.Render())
}

func TestErrorRenderFailTakesPriority(t *testing.T) {
	e := NewFail(Pos{Name: "t", Row: 2, Col: 3}, "q", "boom")
	assert.Equal(t, "t:2:3: error: boom at 'q'", e.Render())
}

func TestMergeKeepsLaterPosition(t *testing.T) {
	a := NewExpect(Pos{Offset: 1}, "x", "'a'")
	b := NewExpect(Pos{Offset: 5}, "y", "'b'")
	m := Merge(a, b)
	assert.Same(t, b, m)
}

func TestMergeUnionsExpectedAtSamePosition(t *testing.T) {
	a := NewExpect(Pos{Offset: 3}, "x", "'a'")
	b := NewExpect(Pos{Offset: 3}, "x", "'b'")
	m := Merge(a, b)
	assert.Equal(t, []string{"'a'", "'b'"}, m.Expected)
}

func TestMergeDeduplicatesExpected(t *testing.T) {
	a := NewExpect(Pos{Offset: 3}, "x", "'a'")
	b := NewExpect(Pos{Offset: 3}, "x", "'a'")
	m := Merge(a, b)
	assert.Equal(t, []string{"'a'"}, m.Expected)
}

func TestMergeNilIsIdentity(t *testing.T) {
	a := NewExpect(Pos{Offset: 3}, "x", "'a'")
	assert.Same(t, a, Merge(nil, a))
	assert.Same(t, a, Merge(a, nil))
}

func TestRelabelReplacesExpectedOnly(t *testing.T) {
	e := NewExpect(Pos{Offset: 1}, "x", "'a'")
	r := Relabel(e, "digit")
	assert.Equal(t, []string{"digit"}, r.Expected)
	assert.Equal(t, e.Pos, r.Pos)
	assert.Equal(t, KindExpect, r.Kind)
}

func TestUsageErrorPanicsWithTypedValue(t *testing.T) {
	defer func() {
		r := recover()
		ue, ok := r.(*UsageError)
		assert.True(t, ok, "expected *UsageError, got %T", r)
		assert.Contains(t, ue.Error(), "usage error")
	}()
	usagePanic("bad thing: %s", "oops")
}

func TestGrammarErrorFormatsPositionAndMessage(t *testing.T) {
	e := &GrammarError{Pos: Pos{Name: "<regex>", Row: 1, Col: 4}, Msg: "unexpected '*'"}
	assert.Equal(t, "<regex>:1:4: grammar error: unexpected '*'", e.Error())
}
