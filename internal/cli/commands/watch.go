package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/mauriciogardini/arduino-c-compiler/internal/config"
)

// NewWatchCommand creates the watch command: recompile on every write.
func NewWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <file>",
		Short: "Recompile a source file whenever it changes",
		Long: `Watch a source file and recompile it on every write.

Diagnostics are printed after each round; the watch keeps running whether
the compilation succeeds or fails. Interrupt to stop.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromContext(cmd.Context())
			renderer := newRenderer(cmd, cfg)
			log := debugLogger(cmd, cfg)

			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}

			compile := func() {
				result, err := compileFile(path, log)
				if err != nil {
					renderer.Error(err)
					return
				}
				if cfg.Verbose {
					renderer.Result(result, cfg.Format)
				} else {
					renderer.OK()
				}
			}

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("failed to create watcher: %w", err)
			}
			defer func() { _ = watcher.Close() }()

			// Watch the directory: editors replace files on save, which
			// drops a watch registered on the file itself.
			if err := watcher.Add(filepath.Dir(path)); err != nil {
				return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Watching %s\n", path)
			compile()

			debounce := time.Duration(cfg.DebounceMS) * time.Millisecond
			var timer *time.Timer
			pending := make(chan struct{}, 1)

			for {
				select {
				case <-cmd.Context().Done():
					return nil
				case event, ok := <-watcher.Events:
					if !ok {
						return nil
					}
					if event.Name != path {
						continue
					}
					if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
						continue
					}
					if timer != nil {
						timer.Stop()
					}
					timer = time.AfterFunc(debounce, func() {
						select {
						case pending <- struct{}{}:
						default:
						}
					})
				case <-pending:
					fmt.Fprintf(cmd.OutOrStdout(), "\n-- %s --\n", time.Now().Format(time.TimeOnly))
					compile()
				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					fmt.Fprintf(cmd.ErrOrStderr(), "watch error: %v\n", err)
				}
			}
		},
	}
}
