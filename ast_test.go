package parsec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithTagChainsPrefixes(t *testing.T) {
	n := NewLeaf("regex", []byte("abc"), Pos{})
	n = n.WithTag("identifier")
	n = n.WithTag("expression")
	assert.Equal(t, "expression|identifier|regex", n.Tag)
	assert.Equal(t, []string{"expression", "identifier", "regex"}, n.Tags())
}

func TestHasTagFindsAnyChainSegment(t *testing.T) {
	n := NewLeaf("regex", nil, Pos{}).WithTag("identifier")
	assert.True(t, n.HasTag("identifier"))
	assert.True(t, n.HasTag("regex"))
	assert.False(t, n.HasTag("string"))
}

func TestIsLeafAndChild(t *testing.T) {
	leaf := NewLeaf("digit", []byte("7"), Pos{})
	assert.True(t, leaf.IsLeaf())

	interior := NewInterior("number", []*Node{leaf}, Pos{})
	assert.False(t, interior.IsLeaf())
	assert.Same(t, leaf, interior.Child(0))
	assert.Nil(t, interior.Child(1))
}

func TestNewInteriorInheritsFirstChildState(t *testing.T) {
	leaf := NewLeaf("digit", []byte("7"), Pos{Offset: 5})
	interior := NewInterior("number", []*Node{leaf}, Pos{})
	assert.Equal(t, 5, interior.State.Offset)
}

func TestTextConcatenatesLeaves(t *testing.T) {
	a := NewLeaf("digit", []byte("1"), Pos{})
	b := NewLeaf("digit", []byte("2"), Pos{})
	sum := NewInterior("number", []*Node{a, b}, Pos{})
	assert.Equal(t, "12", sum.Text())
}

func TestDumpIncludesTagAndLeafContents(t *testing.T) {
	leaf := NewLeaf("digit", []byte("7"), Pos{})
	out := leaf.Dump()
	assert.Contains(t, out, "digit")
	assert.Contains(t, out, "7")
}
