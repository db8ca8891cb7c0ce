package regex

import (
	"fmt"
	"strings"
)

type nodeKind uint8

const (
	literalNode nodeKind = iota
	concatNode
	orNode
	kleeneNode
	optionalNode
	nullRepeatNode
	groupDefNode
	groupCallNode
	// endNode is the synthetic marker appended before analysis
	endNode
)

var nodeKindNames = [...]string{
	literalNode:    "LITERAL",
	concatNode:     "CONCAT",
	orNode:         "OR",
	kleeneNode:     "KLEENE",
	optionalNode:   "OPTIONAL",
	nullRepeatNode: "NULL_REPEAT",
	groupDefNode:   "GROUP_DEF",
	groupCallNode:  "GROUP_CALL",
	endNode:        "END",
}

func (k nodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return fmt.Sprintf("node(%d)", k)
}

// node is a syntax tree node. Literals carry char, group definitions and
// calls carry name. Unary nodes only use left. A NULL_REPEAT keeps its operand
// in left so that group definitions inside it are still collected, but the
// operand never contributes positions.
type node struct {
	kind  nodeKind
	char  rune
	name  string
	left  *node
	right *node

	// offset is where the node starts in the pattern. Copies of a GROUP_DEF
	// made by bounded repeats share it, which tells them apart from a second
	// definition of the same name.
	offset int
}

func newLiteral(c rune) *node {
	return &node{kind: literalNode, char: c}
}

func newCall(name string) *node {
	return &node{kind: groupCallNode, name: name}
}

func newBinary(kind nodeKind, left, right *node) *node {
	return &node{kind: kind, left: left, right: right}
}

func newUnary(kind nodeKind, child *node) *node {
	return &node{kind: kind, left: child}
}

// copyTree deep-copies n, a repeated operand must never be aliased.
func copyTree(n *node) *node {
	if n == nil {
		return nil
	}
	c := *n
	c.left = copyTree(n.left)
	c.right = copyTree(n.right)
	return &c
}

// String renders n as an s-expression, e.g. (CONCAT LITERAL:a (KLEENE LITERAL:b _)).
func (n *node) String() string {
	sb := strings.Builder{}
	n.writeTo(&sb)
	return sb.String()
}

func (n *node) writeTo(sb *strings.Builder) {
	if n == nil {
		sb.WriteString("_")
		return
	}

	label := n.kind.String()
	switch n.kind {
	case literalNode:
		label += ":" + string(n.char)
	case groupDefNode, groupCallNode:
		label += ":" + n.name
	}

	if n.left == nil && n.right == nil {
		sb.WriteString(label)
		return
	}
	sb.WriteString("(" + label + " ")
	n.left.writeTo(sb)
	sb.WriteString(" ")
	n.right.writeTo(sb)
	sb.WriteString(")")
}
