package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mauriciogardini/arduino-c-compiler/internal/config"
	"github.com/mauriciogardini/arduino-c-compiler/pkg/lexer"
)

// NewTokensCommand creates the tokens command, a lexer dump.
func NewTokensCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <file>",
		Short: "Dump the lexical token stream of a source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromContext(cmd.Context())
			source, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			renderer := newRenderer(cmd, cfg)
			renderer.Tokens(lexer.Tokenize(string(source)), cfg.Format)
			return nil
		},
	}
}
