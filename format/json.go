package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/packrat/token"
	"github.com/dhamidi/packrat/tree"
)

type JSONEncoder struct {
	w    io.Writer
	root tree.Node
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(root tree.Node) error {
	e.root = root
	return write(e.w, e)
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	text, err := json.MarshalIndent(nodeToJSON(e.root), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(text, '\n'), nil
}

type jsonNode struct {
	Kind     string      `json:"kind"`
	Span     *jsonSpan   `json:"span,omitempty"`
	Token    string      `json:"token,omitempty"`
	Children []*jsonNode `json:"children,omitempty"`
}

type jsonSpan struct {
	Start jsonPosition `json:"start"`
	End   jsonPosition `json:"end"`
}

type jsonPosition struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func toJSONPosition(p token.Position) jsonPosition {
	return jsonPosition{Line: p.Line, Column: p.Column}
}

func nodeToJSON(n tree.Node) *jsonNode {
	jn := &jsonNode{}
	switch n := n.(type) {
	case *tree.Branch:
		jn.Kind = n.Name
		for _, child := range n.Children {
			jn.Children = append(jn.Children, nodeToJSON(child))
		}
	case *tree.Terminal:
		jn.Kind = n.Token.Kind
		jn.Token = n.Token.Lexeme
	case *tree.Epsilon:
		jn.Kind = "epsilon"
	}

	if start, end, ok := tree.Span(n); ok && start.Line != 0 {
		jn.Span = &jsonSpan{
			Start: toJSONPosition(start),
			End:   toJSONPosition(end),
		}
	}
	return jn
}
