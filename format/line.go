package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/packrat/token"
	"github.com/dhamidi/packrat/tree"
)

// LineEncoder writes one tab separated line per node in pre-order:
// depth, kind, position and lexeme.
type LineEncoder struct {
	w    io.Writer
	root tree.Node
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(root tree.Node) error {
	e.root = root
	return write(e.w, e)
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	e.writeNode(&sb, e.root, 0)
	return []byte(sb.String()), nil
}

func (e *LineEncoder) writeNode(sb *strings.Builder, n tree.Node, depth int) {
	switch n := n.(type) {
	case *tree.Branch:
		start, _, ok := tree.Span(n)
		fmt.Fprintf(sb, "%d\t%s\t%s\t-\n", depth, n.Name, positionStr(start, ok))
		for _, child := range n.Children {
			e.writeNode(sb, child, depth+1)
		}
	case *tree.Terminal:
		fmt.Fprintf(sb, "%d\t%s\t%s\t%q\n", depth, n.Token.Kind, n.Token.Position, n.Token.Lexeme)
	case *tree.Epsilon:
		fmt.Fprintf(sb, "%d\tepsilon\t%s\t-\n", depth, n.Position)
	}
}

func positionStr(p token.Position, ok bool) string {
	if !ok {
		return "-"
	}
	return p.String()
}

// LineTokenEncoder writes one tab separated line per token:
// position, kind, terminal name and lexeme.
type LineTokenEncoder struct {
	w      io.Writer
	tokens []token.Token
	names  func(int) string
}

// NewLineTokenEncoder creates a token encoder.  names maps terminal
// ids to names; nil prints the ids.
func NewLineTokenEncoder(w io.Writer, names func(int) string) *LineTokenEncoder {
	return &LineTokenEncoder{w: w, names: names}
}

func (e *LineTokenEncoder) Encode(tokens []token.Token) error {
	e.tokens = tokens
	return write(e.w, e)
}

func (e *LineTokenEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	for _, tok := range e.tokens {
		fmt.Fprintf(&sb, "%s\t%s\t%s\t%q\n",
			tok.Position,
			tok.Kind,
			e.terminalStr(tok.Terminal),
			tok.Lexeme,
		)
	}
	return []byte(sb.String()), nil
}

func (e *LineTokenEncoder) terminalStr(id int) string {
	if id == token.Invalid {
		return "-"
	}
	if e.names == nil {
		return fmt.Sprint(id)
	}
	return e.names(id)
}
