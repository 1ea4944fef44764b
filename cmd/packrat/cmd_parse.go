package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/packrat/format"
	"github.com/dhamidi/packrat/parser"
)

func newParseCmd() *cobra.Command {
	var outputFormat string
	var showStats bool
	var trace bool

	cmd := &cobra.Command{
		Use:           "parse <file>...",
		Short:         "Parse files and print their trees",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	lf := addLanguageFlags(cmd)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		def, lang, err := lf.language()
		if err != nil {
			return err
		}
		encoder, err := format.New(outputFormat, os.Stdout)
		if err != nil {
			return err
		}
		opts := def.ParserOptions()
		if trace {
			opts = append(opts, parser.WithTrace())
		}

		failed := 0
		for _, filename := range args {
			input, err := readInput(filename)
			if err != nil {
				return err
			}
			res, err := lang.Parse(input, filename, opts...)
			if showStats {
				printStats(filename, res.Stats)
			}
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				failed++
				continue
			}
			if err := encoder.Encode(res.Root); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d files failed to parse", failed, len(args))
		}
		return nil
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format ("+strings.Join(format.Names, ", ")+")")
	cmd.Flags().BoolVar(&showStats, "stats", false, "print parse statistics to stderr")
	cmd.Flags().BoolVar(&trace, "trace", false, "log every parser step at debug level (use with -vv)")

	return cmd
}

func printStats(filename string, st parser.Stats) {
	fmt.Fprintf(os.Stderr, "%s: %d tokens, %d pushes, %d backtracks, %d cascades, depth %d\n",
		filename, st.Tokens, st.Pushes, st.Backtracks, st.Cascades, st.MaxDepth)
	fmt.Fprintf(os.Stderr, "%s: cache %d/%d hits, left recursion %d direct %d indirect %d grows\n",
		filename, st.CacheHits, st.CacheLookups, st.DirectRecursions, st.IndirectRecursions, st.Grows)
	fmt.Fprintf(os.Stderr, "%s: nodes %d allocated, %d kept, %d released\n",
		filename, st.Allocated, st.Kept, st.Released)
}
