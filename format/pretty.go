package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/packrat/tree"
)

// PrettyEncoder draws a tree with box drawing characters:
//
//	expr (1:1..1:6)
//	├── "1" Number (1:1)
//	├── "+" "+" (1:3)
//	└── "x" Identifier (1:5)
type PrettyEncoder struct {
	w    io.Writer
	root tree.Node

	pad    []string
	output strings.Builder
}

func NewPrettyEncoder(w io.Writer) *PrettyEncoder {
	return &PrettyEncoder{w: w}
}

func (e *PrettyEncoder) Encode(root tree.Node) error {
	e.root = root
	return write(e.w, e)
}

func (e *PrettyEncoder) MarshalText() ([]byte, error) {
	e.output.Reset()
	e.pad = e.pad[:0]
	e.writeNode(e.root)
	return []byte(e.output.String()), nil
}

func (e *PrettyEncoder) indent(s string) { e.pad = append(e.pad, s) }
func (e *PrettyEncoder) unindent()       { e.pad = e.pad[:len(e.pad)-1] }

func (e *PrettyEncoder) writeNode(n tree.Node) {
	e.output.WriteString(label(n))
	e.output.WriteByte('\n')

	b, ok := n.(*tree.Branch)
	if !ok {
		return
	}
	for i, child := range b.Children {
		for _, p := range e.pad {
			e.output.WriteString(p)
		}
		if i == len(b.Children)-1 {
			e.output.WriteString("└── ")
			e.indent("    ")
		} else {
			e.output.WriteString("├── ")
			e.indent("│   ")
		}
		e.writeNode(child)
		e.unindent()
	}
}

func label(n tree.Node) string {
	switch n := n.(type) {
	case *tree.Branch:
		start, end, ok := tree.Span(n)
		if !ok {
			return n.Name
		}
		return fmt.Sprintf("%s (%d:%d..%d:%d)", n.Name, start.Line, start.Column, end.Line, end.Column)
	case *tree.Terminal:
		return fmt.Sprintf("%q %s (%d:%d)", n.Token.Lexeme, n.Token.Kind, n.Token.Line(), n.Token.Column())
	case *tree.Epsilon:
		return fmt.Sprintf("ε (%d:%d)", n.Position.Line, n.Position.Column)
	}
	return n.String()
}
