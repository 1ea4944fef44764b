package lsp

import (
	"errors"
	"fmt"
	"unicode/utf16"
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/packrat/ebnf/parse"
	"github.com/dhamidi/packrat/parser"
	"github.com/dhamidi/packrat/token"
)

// Diagnose parses text and reports what the lexer could not match
// and where the parse failed.  An empty document has no diagnostics.
func Diagnose(lang *parse.Language, text []byte, filename string, opts ...parser.Option) []protocol.Diagnostic {
	diagnostics := []protocol.Diagnostic{}

	res, err := lang.Parse(text, filename, opts...)
	for _, tok := range res.LexErrors {
		diagnostics = append(diagnostics, newDiagnostic(
			toRange(text, tok.Position, tok.End()),
			fmt.Sprintf("unexpected character %q", tok.Lexeme),
		))
	}

	var perr *parser.ParseError
	var derr *parser.DepthError
	switch {
	case err == nil, errors.Is(err, parser.ErrNoInput):
	case errors.As(err, &perr):
		diagnostics = append(diagnostics, newDiagnostic(toRange(text, perr.Position, perr.End), perr.Error()))
	case errors.As(err, &derr):
		diagnostics = append(diagnostics, newDiagnostic(toRange(text, derr.Position, derr.Position), derr.Error()))
	default:
		diagnostics = append(diagnostics, newDiagnostic(protocol.Range{}, err.Error()))
	}
	return diagnostics
}

func newDiagnostic(r protocol.Range, message string) protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityError
	source := lsName
	return protocol.Diagnostic{
		Range:    r,
		Severity: &severity,
		Source:   &source,
		Message:  message,
	}
}

func toRange(text []byte, start, end token.Position) protocol.Range {
	return protocol.Range{
		Start: toPosition(text, start),
		End:   toPosition(text, end),
	}
}

// toPosition converts a position to the zero based line and UTF-16
// column editors count in.
func toPosition(text []byte, p token.Position) protocol.Position {
	offset := min(p.Offset, len(text))
	lineStart := offset
	for lineStart > 0 && text[lineStart-1] != '\n' {
		lineStart--
	}
	var character int
	for i := lineStart; i < offset; {
		r, size := utf8.DecodeRune(text[i:])
		i += size
		if n := utf16.RuneLen(r); n > 0 {
			character += n
		} else {
			character++
		}
	}
	return protocol.Position{
		Line:      protocol.UInteger(max(p.Line-1, 0)),
		Character: protocol.UInteger(character),
	}
}
