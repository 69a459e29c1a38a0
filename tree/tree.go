// Package tree defines syntax trees built by grammar evaluator.
package tree

import (
	"strconv"
	"strings"

	"github.com/ava12/mage/source"
)

// Node is a syntax tree node. Token nodes are leaves created by token rules,
// other nodes are created by public node rules and hold their (non-hidden) subnodes.
type Node struct {
	Rule     string
	Token    bool
	Pos      source.Pos
	Text     string
	Children []*Node
}

// NewToken creates leaf node.
func NewToken(rule string, pos source.Pos, text string) *Node {
	return &Node{Rule: rule, Token: true, Pos: pos, Text: text}
}

// NewNode creates non-leaf node.
func NewNode(rule string, pos source.Pos, text string, children []*Node) *Node {
	return &Node{Rule: rule, Pos: pos, Text: text, Children: children}
}

// NodeVisitor is called for every visited node. walkChildren = false skips node children,
// walkSiblings = false skips remaining siblings of the node.
type NodeVisitor func(n *Node) (walkChildren, walkSiblings bool)

type WalkMode int

const (
	WalkLtr WalkMode = 0
	WalkRtl WalkMode = 1
)

// Walk visits n and its descendants depth-first.
func Walk(n *Node, mode WalkMode, visitor NodeVisitor) {
	if n != nil {
		visitNode(n, visitor, mode&WalkRtl != 0)
	}
}

func visitNode(n *Node, v NodeVisitor, rtl bool) (visitSiblings bool) {
	vc, vs := v(n)
	if !vc {
		return vs
	}

	if rtl {
		for i := len(n.Children) - 1; i >= 0 && vc; i-- {
			vc = visitNode(n.Children[i], v, true)
		}
	} else {
		for i := 0; i < len(n.Children) && vc; i++ {
			vc = visitNode(n.Children[i], v, false)
		}
	}
	return vs
}

// Tokens returns all token nodes of the tree in source order.
func Tokens(n *Node) []*Node {
	var res []*Node
	Walk(n, WalkLtr, func(n *Node) (bool, bool) {
		if n.Token {
			res = append(res, n)
		}
		return true, true
	})
	return res
}

// Find returns all nodes created by named rule in depth-first order.
func Find(n *Node, rule string) []*Node {
	var res []*Node
	Walk(n, WalkLtr, func(n *Node) (bool, bool) {
		if n.Rule == rule {
			res = append(res, n)
		}
		return true, true
	})
	return res
}

// Format returns compact text representation of the tree:
// tokens are written as name:"text", other nodes as (name child...).
func Format(n *Node) string {
	var sb strings.Builder
	format(&sb, n)
	return sb.String()
}

func format(sb *strings.Builder, n *Node) {
	if n.Token {
		sb.WriteString(n.Rule + ":" + strconv.Quote(n.Text))
		return
	}

	sb.WriteString("(" + n.Rule)
	for _, c := range n.Children {
		sb.WriteByte(' ')
		format(sb, c)
	}
	sb.WriteByte(')')
}
