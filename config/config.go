// Package config loads parser definitions: which grammar to use and
// how its trees are shaped and lexed.
//
// A definition lives in a packrat.yaml file:
//
//	grammar: calc.ebnf
//	start: expr
//	keep: [term]
//	drop: ["(", ")"]
//	skip: [WhiteSpace, Comment]
//	max_depth: 1024
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/dhamidi/packrat/ebnf/parse"
	"github.com/dhamidi/packrat/parser"
)

// FileName is the name definitions are discovered under.
const FileName = "packrat.yaml"

// DefaultSkip are the token kinds skipped when a definition names
// none.
var DefaultSkip = []string{"WhiteSpace", "Comment"}

// Definition describes one language.
type Definition struct {
	// Path is the file the definition was read from, if any.
	Path string `yaml:"-"`

	Name string `yaml:"name,omitempty"`

	// Grammar is the EBNF file, relative to the definition.
	Grammar string `yaml:"grammar"`
	Start   string `yaml:"start"`

	Keep  []string `yaml:"keep,omitempty"`
	Raise []string `yaml:"raise,omitempty"`
	Drop  []string `yaml:"drop,omitempty"`
	Skip  []string `yaml:"skip,omitempty"`

	// MaxDepth bounds the productions in progress during a parse.
	// Zero means parser.DefaultMaxDepth, a negative value no bound.
	MaxDepth int `yaml:"max_depth,omitempty"`
}

// Load looks for a definition in the current directory and its
// parents.
func Load() (*Definition, error) {
	return LoadFrom(".")
}

// LoadFrom looks for a definition in dir and its parents.
func LoadFrom(dir string) (*Definition, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", dir, err)
	}
	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, fmt.Errorf("could not find %s in %s or any parent", FileName, dir)
		}
		dir = parent
	}
}

// LoadFile reads the definition in path.
func LoadFile(path string) (*Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open definition: %w", err)
	}
	defer f.Close()

	def, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	def.Path = path
	return def, nil
}

// Decode reads a definition from r, fills in defaults and validates
// it.  Unknown keys are errors.
func Decode(r io.Reader) (*Definition, error) {
	var def Definition
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&def); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode definition: %w", err)
	}
	def.setDefaults()
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

func (d *Definition) setDefaults() {
	if d.Skip == nil {
		d.Skip = append([]string(nil), DefaultSkip...)
	}
	if d.MaxDepth == 0 {
		d.MaxDepth = parser.DefaultMaxDepth
	}
}

// Validate reports every missing or conflicting setting.
func (d *Definition) Validate() error {
	var errs []error
	if d.Grammar == "" {
		errs = append(errs, errors.New("grammar is required"))
	}
	if d.Start == "" {
		errs = append(errs, errors.New("start is required"))
	}
	raise := make(map[string]bool, len(d.Raise))
	for _, name := range d.Raise {
		raise[name] = true
	}
	for _, name := range d.Keep {
		if raise[name] {
			errs = append(errs, fmt.Errorf("%s is both kept and raised", name))
		}
	}
	return errors.Join(errs...)
}

// GrammarPath returns the grammar file resolved against the
// directory of the definition.
func (d *Definition) GrammarPath() string {
	if d.Path == "" || filepath.IsAbs(d.Grammar) {
		return d.Grammar
	}
	return filepath.Join(filepath.Dir(d.Path), d.Grammar)
}

// Options returns the compile options of the definition.
func (d *Definition) Options() parse.Options {
	return parse.Options{
		Start: d.Start,
		Keep:  d.Keep,
		Raise: d.Raise,
		Drop:  d.Drop,
		Skip:  d.Skip,
	}
}

// ParserOptions returns the parser options of the definition.
func (d *Definition) ParserOptions() []parser.Option {
	return []parser.Option{parser.WithMaxDepth(max(d.MaxDepth, 0))}
}

// Language loads and compiles the grammar of the definition.
func (d *Definition) Language() (*parse.Language, error) {
	return parse.Load(d.GrammarPath(), d.Options())
}

// Encode writes d as YAML.
func (d *Definition) Encode(w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(d); err != nil {
		return fmt.Errorf("encode definition: %w", err)
	}
	return encoder.Close()
}
