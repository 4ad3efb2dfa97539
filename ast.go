package parsec

import (
	"strings"
)

// Node is the generic AST produced by the grammar front-end. Tag is
// a "|"-separated chain of rule names and primitive
// kinds accumulated as a match bubbles up through nested rules (e.g.
// "expression|product|regex"); Contents holds the matched bytes for a
// leaf and is empty for an interior node; State is the position of the
// leaf's first byte. A Node exclusively owns its Children.
type Node struct {
	Tag      string
	Contents []byte
	State    Pos
	Children []*Node
}

// NewLeaf builds a leaf AST node: no children, Contents holds the
// bytes it matched.
func NewLeaf(tag string, contents []byte, state Pos) *Node {
	return &Node{Tag: tag, Contents: contents, State: state}
}

// NewInterior builds an interior AST node from its ordered children.
// State defaults to the first child's State when children is
// non-empty.
func NewInterior(tag string, children []*Node, state Pos) *Node {
	if len(children) > 0 && state == (Pos{}) {
		state = children[0].State
	}
	return &Node{Tag: tag, Children: children, State: state}
}

// WithTag returns a copy of n with prefix prepended to its tag chain,
// the way a rule name is threaded onto the tag of whatever it
// matched.
func (n *Node) WithTag(prefix string) *Node {
	c := *n
	if c.Tag == "" {
		c.Tag = prefix
	} else {
		c.Tag = prefix + "|" + c.Tag
	}
	return &c
}

// Tags splits n's tag chain into its components, outermost first.
func (n *Node) Tags() []string { return strings.Split(n.Tag, "|") }

// HasTag reports whether tag appears anywhere in n's tag chain.
func (n *Node) HasTag(tag string) bool {
	for _, t := range n.Tags() {
		if t == tag {
			return true
		}
	}
	return false
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// Child returns n's i-th child, or nil if out of range.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// Text concatenates the Contents of every leaf under n, in document
// order — the matched text n spans.
func (n *Node) Text() string {
	if n.IsLeaf() {
		return string(n.Contents)
	}
	var sb strings.Builder
	for _, c := range n.Children {
		sb.WriteString(c.Text())
	}
	return sb.String()
}

// Dump renders n as a minimal, indented debug string — a troubleshooting
// aid, not a formatter for end users.
func (n *Node) Dump() string {
	var sb strings.Builder
	n.dump(&sb, 0)
	return sb.String()
}

func (n *Node) dump(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(n.Tag)
	if n.IsLeaf() {
		sb.WriteString(" ")
		sb.WriteString(string(n.Contents))
	}
	sb.WriteString("\n")
	for _, c := range n.Children {
		c.dump(sb, depth+1)
	}
}
