package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/mauriciogardini/arduino-c-compiler/internal/config"
)

// NewREPLCommand creates the repl command: compile snippets interactively.
func NewREPLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Compile snippets interactively",
		Long: `Read definitions from the terminal and compile them as a program once the
curly brackets balance. Each snippet compiles independently.

Commands: .help, .reset, .quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.FromContext(cmd.Context())
			renderer := newRenderer(cmd, cfg)
			log := debugLogger(cmd, cfg)

			rl, err := readline.NewEx(&readline.Config{
				Prompt:          "arduinocc> ",
				InterruptPrompt: "^C",
				EOFPrompt:       ".quit",
			})
			if err != nil {
				return fmt.Errorf("failed to initialize REPL: %w", err)
			}
			defer func() { _ = rl.Close() }()

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, "Arduino C Compiler REPL")
			_, _ = fmt.Fprintln(out, "Type .help for commands, .quit to exit")
			_, _ = fmt.Fprintln(out)

			var buffer strings.Builder
			depth := 0

			reset := func() {
				buffer.Reset()
				depth = 0
				rl.SetPrompt("arduinocc> ")
			}

			for {
				line, err := rl.Readline()
				if errors.Is(err, readline.ErrInterrupt) {
					reset()
					continue
				}
				if errors.Is(err, io.EOF) {
					break
				}

				trimmed := strings.TrimSpace(line)
				if buffer.Len() == 0 && strings.HasPrefix(trimmed, ".") {
					switch trimmed {
					case ".quit", ".exit":
						return nil
					case ".reset":
						reset()
						continue
					case ".help":
						_, _ = fmt.Fprintln(out, ".help   show this help")
						_, _ = fmt.Fprintln(out, ".reset  discard the current snippet")
						_, _ = fmt.Fprintln(out, ".quit   exit the REPL")
						continue
					default:
						_, _ = fmt.Fprintf(out, "unknown command %s\n", trimmed)
						continue
					}
				}

				buffer.WriteString(line)
				buffer.WriteString("\n")
				depth += strings.Count(line, "{") - strings.Count(line, "}")

				// Keep reading until the snippet closes.
				if depth > 0 || (trimmed != "" && !strings.HasSuffix(trimmed, ";") && !strings.HasSuffix(trimmed, "}")) {
					rl.SetPrompt("      ...> ")
					continue
				}
				if strings.TrimSpace(buffer.String()) == "" {
					reset()
					continue
				}

				result, err := compileSource(buffer.String(), log)
				if err != nil {
					renderer.Error(err)
				} else {
					renderer.Result(result, cfg.Format)
				}
				reset()
			}
			return nil
		},
	}
}
