// Package token defines the tokens consumed by the parser and the
// pull-style sources that deliver them.
package token

import (
	"fmt"
	"unicode/utf8"
)

// Invalid is the terminal id given to tokens no grammar terminal
// describes.  Such tokens never match a terminal symbol.
const Invalid = -1

// Position represents a location in source code.
type Position struct {
	Filename string
	Offset   int
	Line     int
	Column   int
}

func (p Position) String() string {
	if p.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Advance returns the position right after lexeme, assuming the
// lexeme starts at p.
func (p Position) Advance(lexeme string) Position {
	end := p
	for i := 0; i < len(lexeme); {
		r, size := utf8.DecodeRuneInString(lexeme[i:])
		i += size
		end.Offset += size
		if r == '\n' {
			end.Line++
			end.Column = 1
			continue
		}
		end.Column++
	}
	return end
}

// Token is a lexed token.  Terminal is the grammar terminal id the
// lexer classified it as; Kind is the lexical category it came from.
type Token struct {
	Terminal int
	Kind     string
	Lexeme   string
	Position Position
}

func (t Token) String() string {
	return fmt.Sprintf("%s %s %q", t.Position, t.Kind, t.Lexeme)
}

// Line returns the 1-based line the token starts on.
func (t Token) Line() int { return t.Position.Line }

// Column returns the 1-based column the token starts on.
func (t Token) Column() int { return t.Position.Column }

// End returns the position right after the token.
func (t Token) End() Position { return t.Position.Advance(t.Lexeme) }
