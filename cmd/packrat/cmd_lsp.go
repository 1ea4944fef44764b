package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/packrat/lsp"
)

func newLSPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start a language server reporting parse errors",
		Args:  cobra.NoArgs,
	}
	lf := addLanguageFlags(cmd)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		def, lang, err := lf.language()
		if err != nil {
			return err
		}
		server := lsp.NewServer(lang, version, def.ParserOptions()...)
		return server.RunStdio()
	}

	return cmd
}
