// Package format renders parse trees and token streams.
package format

import (
	"encoding"
	"fmt"
	"io"

	"github.com/dhamidi/packrat/tree"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(root tree.Node) error
}

// Names lists the formats known to New.
var Names = []string{"text", "pretty", "json", "lines"}

// New returns the encoder called name writing to w.
func New(name string, w io.Writer) (Encoder, error) {
	switch name {
	case "text":
		return NewTextEncoder(w), nil
	case "pretty":
		return NewPrettyEncoder(w), nil
	case "json":
		return NewJSONEncoder(w), nil
	case "lines":
		return NewLineEncoder(w), nil
	}
	return nil, fmt.Errorf("unknown format %q, want one of %v", name, Names)
}

// write marshals e and writes the result to w.
func write(w io.Writer, e encoding.TextMarshaler) error {
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = w.Write(text)
	return err
}

// TextEncoder writes the compact form of a tree, S(a, S(b), a).
type TextEncoder struct {
	w    io.Writer
	root tree.Node
}

func NewTextEncoder(w io.Writer) *TextEncoder {
	return &TextEncoder{w: w}
}

func (e *TextEncoder) Encode(root tree.Node) error {
	e.root = root
	return write(e.w, e)
}

func (e *TextEncoder) MarshalText() ([]byte, error) {
	return []byte(e.root.String() + "\n"), nil
}
