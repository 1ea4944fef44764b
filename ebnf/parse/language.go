package parse

import (
	"fmt"
	"os"

	"golang.org/x/exp/ebnf"

	"github.com/dhamidi/packrat/ebnflex"
	"github.com/dhamidi/packrat/grammar"
	"github.com/dhamidi/packrat/parser"
	"github.com/dhamidi/packrat/token"
)

// Language is a compiled grammar together with the lexicon its
// tokens are scanned with.
type Language struct {
	Lexicon ebnf.Grammar
	Grammar *grammar.Grammar
	Skip    []string
}

// LoadGrammar loads an EBNF grammar from a file.
func LoadGrammar(filename string) (ebnf.Grammar, error) {
	return ebnflex.LoadGrammar(filename)
}

// Load reads and compiles the grammar in filename.
func Load(filename string, opts Options) (*Language, error) {
	src, err := LoadGrammar(filename)
	if err != nil {
		return nil, err
	}
	lang, err := Compile(src, opts)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", filename, err)
	}
	return lang, nil
}

// Lexer returns a lexer for input that classifies tokens into the
// terminals of the grammar.
func (l *Language) Lexer(input []byte, filename string) *ebnflex.Lexer {
	v := l.Grammar.Vocabulary()
	return ebnflex.NewLexer(l.Lexicon, input, filename,
		ebnflex.WithSkip(l.Skip...),
		ebnflex.WithLiterals(v.Literals()...),
		ebnflex.WithClassifier(v.Classify))
}

// Result is a parse result plus the input the lexer could not
// match.
type Result struct {
	*parser.Result
	LexErrors []token.Token
}

// Parse lexes and parses input.
func (l *Language) Parse(input []byte, filename string, opts ...parser.Option) (*Result, error) {
	lx := l.Lexer(input, filename)
	res, err := parser.New(l.Grammar, opts...).Parse(lx)
	return &Result{Result: res, LexErrors: lx.Errors()}, err
}

// ParseFile reads filename and parses it.
func ParseFile(lang *Language, filename string, opts ...parser.Option) (*Result, error) {
	input, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return lang.Parse(input, filename, opts...)
}
