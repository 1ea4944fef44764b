package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dhamidi/packrat/token"
)

// ErrNoInput is returned when the token source produced no tokens.
var ErrNoInput = errors.New("no input")

// ErrDepthExceeded is matched by every *DepthError.
var ErrDepthExceeded = errors.New("recursion depth exceeded")

// ParseError reports that no complete parse exists.  Position is the
// farthest point any terminal match was attempted at and End the end
// of the token found there.
type ParseError struct {
	Position token.Position
	End      token.Position
	Found    string
	Expected []string
}

func (e *ParseError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "parse error at %s: unexpected %s", e.Position, e.Found)
	if len(e.Expected) > 0 {
		b.WriteString(", expected ")
		b.WriteString(strings.Join(e.Expected, ", "))
	}
	return b.String()
}

// Line returns the 1-based line of the farthest position reached.
func (e *ParseError) Line() int { return e.Position.Line }

// Column returns the 1-based column of the farthest position reached.
func (e *ParseError) Column() int { return e.Position.Column }

// DepthError aborts a parse that would keep more than Max productions
// in progress at once.
type DepthError struct {
	Max        int
	Production string
	Position   token.Position
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("%s: more than %d productions in progress when calling %s at %s",
		ErrDepthExceeded, e.Max, e.Production, e.Position)
}

func (e *DepthError) Is(target error) bool { return target == ErrDepthExceeded }
