package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/packrat/format"
	"github.com/dhamidi/packrat/token"
)

func newTokensCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:           "tokens <file>",
		Short:         "Print the tokens of a file, one per line",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	lf := addLanguageFlags(cmd)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		_, lang, err := lf.language()
		if err != nil {
			return err
		}
		input, err := readInput(args[0])
		if err != nil {
			return err
		}

		lexer := lang.Lexer(input, args[0])
		var tokens []token.Token
		if all {
			for {
				tok, err := lexer.NextToken()
				if err == io.EOF {
					break
				}
				tokens = append(tokens, tok)
			}
		} else {
			tokens = lexer.Tokenize()
		}

		enc := format.NewLineTokenEncoder(os.Stdout, lang.Grammar.TerminalName)
		if err := enc.Encode(tokens); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		if n := len(lexer.Errors()); n > 0 {
			return fmt.Errorf("%d unexpected characters", n)
		}
		return nil
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "include skipped tokens")

	return cmd
}
