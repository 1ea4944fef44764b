package main

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/exp/ebnf"

	"github.com/dhamidi/packrat/ebnf/parse"
)

func newCheckCmd() *cobra.Command {
	var opts parse.Options
	var verify bool
	var printGrammar bool

	cmd := &cobra.Command{
		Use:           "check <grammar>",
		Short:         "Parse and compile an EBNF grammar file",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]

			src, err := parse.LoadGrammar(filename)
			if err != nil {
				printErrors(errors.Unwrap(err))
				return fmt.Errorf("%s: invalid grammar", filename)
			}
			if opts.Start == "" {
				return nil
			}

			if verify {
				if err := ebnf.Verify(src, opts.Start); err != nil {
					printErrors(err)
					return fmt.Errorf("%s: verification failed", filename)
				}
			}

			lang, err := parse.Compile(src, opts)
			if err != nil {
				var gerr *parse.GrammarError
				if errors.As(err, &gerr) {
					for _, p := range gerr.Problems {
						fmt.Println(p)
					}
					return fmt.Errorf("%s: %d problems", filename, len(gerr.Problems))
				}
				return err
			}

			g := lang.Grammar
			fmt.Printf("%s: %d productions, %d terminals\n", filename, g.Len(), g.Vocabulary().Len())
			var names []string
			for _, id := range g.LeftRecursive() {
				names = append(names, g.Production(id).Name)
			}
			if len(names) > 0 {
				fmt.Printf("left recursive: %s\n", strings.Join(names, ", "))
			}
			if printGrammar {
				fmt.Fprint(os.Stdout, g)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Start, "start", "s", "", "start production to compile from (if empty, only checks syntax)")
	cmd.Flags().StringSliceVar(&opts.Keep, "keep", nil, "productions always kept in the tree")
	cmd.Flags().StringSliceVar(&opts.Raise, "raise", nil, "productions whose children are raised into the parent")
	cmd.Flags().StringSliceVar(&opts.Drop, "drop", nil, "literals left out of the tree")
	cmd.Flags().BoolVar(&verify, "verify", false, "also run the strict x/exp/ebnf verifier")
	cmd.Flags().BoolVar(&printGrammar, "print", false, "print the compiled grammar")

	return cmd
}

// printErrors prints every error of an error list on its own line.
func printErrors(err error) {
	if err == nil {
		return
	}
	v := reflect.ValueOf(err)
	if v.Kind() == reflect.Slice {
		for i := 0; i < v.Len(); i++ {
			fmt.Println(v.Index(i).Interface())
		}
	} else {
		fmt.Println(err)
	}
}
