// Package commands implements the CLI subcommands.
package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mauriciogardini/arduino-c-compiler/internal/cli/output"
	"github.com/mauriciogardini/arduino-c-compiler/internal/config"
	"github.com/mauriciogardini/arduino-c-compiler/pkg/lexer"
	"github.com/mauriciogardini/arduino-c-compiler/pkg/parser"
)

// compileSource lexes and analyzes one source text.
func compileSource(source string, log *slog.Logger) (*parser.Result, error) {
	tokens := lexer.Tokenize(source)
	var opts []parser.Option
	if log != nil {
		opts = append(opts, parser.WithLogger(log))
	}
	return parser.New(tokens, opts...).Parse()
}

// compileFile reads and compiles one file.
func compileFile(path string, log *slog.Logger) (*parser.Result, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return compileSource(string(source), log)
}

// newRenderer builds the renderer for a command from the loaded config.
func newRenderer(cmd *cobra.Command, cfg *config.Config) *output.Renderer {
	styles := output.NewStyles(output.ShouldColorize(cfg.Color, os.Stdout))
	return output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), styles)
}

// debugLogger returns a debug-level slog logger when tracing is enabled.
func debugLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	if !cfg.Debug {
		return nil
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

// NewBuildCommand creates the build command, the compiler driver.
func NewBuildCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build <file>...",
		Short: "Compile source files to C3E intermediary code",
		Long: `Compile one or more source files.

By default each successful compilation prints "OK.". With --verbose the
symbol table, the intermediary code (preceded by "goto main"), and any
accumulated warnings are printed instead. Compilation of a file stops at
its first error; the command exits non-zero when any file fails.`,
		Example: `  # Check a sketch
  arduinocc build blink.c

  # Full report
  arduinocc build -v blink.c

  # Symbol table as a table
  arduinocc build -v --format table blink.c`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromContext(cmd.Context())
			renderer := newRenderer(cmd, cfg)
			log := debugLogger(cmd, cfg)

			type outcome struct {
				result *parser.Result
				err    error
			}
			outcomes := make([]outcome, len(args))

			// Files compile concurrently; each compilation stays
			// single-threaded. Output order follows the argument order.
			group, ctx := errgroup.WithContext(cmd.Context())
			for i, path := range args {
				group.Go(func() error {
					if err := ctx.Err(); err != nil {
						return err
					}
					result, err := compileFile(path, log)
					outcomes[i] = outcome{result: result, err: err}
					return nil
				})
			}
			if err := group.Wait(); err != nil {
				return err
			}

			var failed bool
			for i, path := range args {
				if len(args) > 1 {
					fmt.Fprintf(cmd.OutOrStdout(), "== %s ==\n", path)
				}
				switch {
				case outcomes[i].err != nil:
					renderer.Error(outcomes[i].err)
					failed = true
				case cfg.Verbose:
					renderer.Result(outcomes[i].result, cfg.Format)
				default:
					renderer.OK()
				}
			}
			if failed {
				return fmt.Errorf("compilation failed")
			}
			return nil
		},
	}
	return cmd
}
