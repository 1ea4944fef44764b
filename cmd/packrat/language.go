package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/packrat/config"
	"github.com/dhamidi/packrat/ebnf/parse"
	"github.com/dhamidi/packrat/parser"
)

// languageFlags select the language input is parsed with: a
// definition file, a discovered packrat.yaml, or a grammar named on
// the command line.  Flags override the definition.
type languageFlags struct {
	cmd *cobra.Command

	def      string
	grammar  string
	start    string
	keep     []string
	raise    []string
	drop     []string
	skip     []string
	maxDepth int
}

func addLanguageFlags(cmd *cobra.Command) *languageFlags {
	f := &languageFlags{cmd: cmd}
	flags := cmd.Flags()
	flags.StringVarP(&f.def, "def", "d", "", "parser definition (default: "+config.FileName+" in the current directory or a parent)")
	flags.StringVarP(&f.grammar, "grammar", "g", "", "EBNF grammar file")
	flags.StringVarP(&f.start, "start", "s", "", "start production")
	flags.StringSliceVar(&f.keep, "keep", nil, "productions always kept in the tree")
	flags.StringSliceVar(&f.raise, "raise", nil, "productions whose children are raised into the parent")
	flags.StringSliceVar(&f.drop, "drop", nil, "literals left out of the tree")
	flags.StringSliceVar(&f.skip, "skip", config.DefaultSkip, "token kinds skipped by the lexer")
	flags.IntVar(&f.maxDepth, "max-depth", parser.DefaultMaxDepth, "most productions in progress at once, negative for no limit")
	return f
}

// definition resolves the definition the flags describe.
func (f *languageFlags) definition() (*config.Definition, error) {
	var def *config.Definition
	var err error
	switch {
	case f.def != "":
		def, err = config.LoadFile(f.def)
	case f.grammar != "":
		def = &config.Definition{Skip: f.skip, MaxDepth: f.maxDepth}
	default:
		def, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	flags := f.cmd.Flags()
	if flags.Changed("grammar") {
		def.Grammar = f.grammar
		def.Path = ""
	}
	if flags.Changed("start") {
		def.Start = f.start
	}
	if flags.Changed("keep") {
		def.Keep = f.keep
	}
	if flags.Changed("raise") {
		def.Raise = f.raise
	}
	if flags.Changed("drop") {
		def.Drop = f.drop
	}
	if flags.Changed("skip") {
		def.Skip = f.skip
	}
	if flags.Changed("max-depth") {
		def.MaxDepth = f.maxDepth
	}
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("invalid definition: %w", err)
	}
	return def, nil
}

func (f *languageFlags) language() (*config.Definition, *parse.Language, error) {
	def, err := f.definition()
	if err != nil {
		return nil, nil, err
	}
	lang, err := def.Language()
	if err != nil {
		return nil, nil, err
	}
	return def, lang, nil
}

// readInput reads filename, or standard input for "-".
func readInput(filename string) ([]byte, error) {
	if filename == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}
