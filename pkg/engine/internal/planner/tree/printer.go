package tree

import (
	"fmt"
	"io"
	"strings"
)

const (
	symPrefix = "│   "
	symIndent = "    "
	symConn   = "├── "
	symLast   = "└── "
)

// Printer writes a [Node] hierarchy as an indented tree.
type Printer struct {
	w io.Writer
}

// NewPrinter creates a Printer that writes to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Print writes root and all of its descendants.
func (p *Printer) Print(root *Node) {
	p.printNode(root, "", "")
}

// String renders root into a string.
func String(root *Node) string {
	var sb strings.Builder
	NewPrinter(&sb).Print(root)
	return sb.String()
}

func (p *Printer) printNode(n *Node, prefix, conn string) {
	fmt.Fprintf(p.w, "%s%s%s\n", prefix, conn, formatLine(n))

	childPrefix := prefix
	switch conn {
	case symConn:
		childPrefix += symPrefix
	case symLast:
		childPrefix += symIndent
	}

	// Comments hang one level below the node, before its children.
	commentPrefix := childPrefix
	if len(n.Children) > 0 {
		commentPrefix += symPrefix
	} else {
		commentPrefix += symIndent
	}
	for i, c := range n.Comments {
		p.printNode(c, commentPrefix, connector(i, len(n.Comments)))
	}
	for i, child := range n.Children {
		p.printNode(child, childPrefix, connector(i, len(n.Children)))
	}
}

func connector(i, n int) string {
	if i == n-1 {
		return symLast
	}
	return symConn
}

func formatLine(n *Node) string {
	if len(n.Properties) == 0 {
		return n.Name
	}
	props := make([]string, 0, len(n.Properties))
	for _, p := range n.Properties {
		props = append(props, formatProperty(p))
	}
	return n.Name + " " + strings.Join(props, " ")
}

func formatProperty(p Property) string {
	values := make([]string, len(p.Values))
	for i, v := range p.Values {
		values[i] = fmt.Sprint(v)
	}
	if p.IsMultiValue {
		return fmt.Sprintf("%s=(%s)", p.Key, strings.Join(values, ", "))
	}
	return fmt.Sprintf("%s=%s", p.Key, strings.Join(values, ""))
}
