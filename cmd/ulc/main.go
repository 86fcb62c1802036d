// Command ulc is the untyped lambda calculus interpreter's CLI
// entrypoint: no subcommand starts the REPL, `ulc run FILE` batch-
// evaluates a file, and `ulc eval EXPR` evaluates a single expression —
// the three modes SPEC_FULL.md §3 assigns to spf13/cobra, grounded in
// the teacher's pkg/cli dispatch and CWBudde-go-dws's cobra usage.
package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/silverneko/ulc/internal/config"
	"github.com/silverneko/ulc/pkg/cli"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ulc: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var colorFlag string

	root := &cobra.Command{
		Use:     "ulc",
		Short:   "An interpreter for the untyped lambda calculus",
		Version: config.Version,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunREPL(cli.Options{
				Prelude: preludeFiles(),
				Color:   resolveColor(colorFlag),
			})
		},
	}
	root.PersistentFlags().StringVar(&colorFlag, "color", "auto", `color output: "auto", "always", or "never"`)

	root.AddCommand(&cobra.Command{
		Use:   "run FILE",
		Short: "Evaluate a program read from FILE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunFile(args[0], cli.Options{Prelude: preludeFiles()})
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "eval EXPR",
		Short: "Evaluate a single expression",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunSource(args[0], cli.Options{Prelude: preludeFiles()})
		},
	})

	return root
}

// preludeFiles reads the user config (~/.ulcrc.yaml) for additional
// prelude source files. A missing or malformed config is not fatal for
// the commands that call this: config.Load already treats a missing file
// as empty, and an unreadable or malformed one is ignored here, so no
// extra prelude files are loaded and the error is not reported.
func preludeFiles() []string {
	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		return nil
	}
	return cfg.Prelude
}

// resolveColor honors an explicit --color flag; when the flag is "auto",
// the user config's color setting decides, and failing that isatty
// (SPEC_FULL.md §2.3, §3: go-isatty, reused from the teacher's
// internal/evaluator/builtins_term.go use of the same library).
func resolveColor(flag string) bool {
	switch flag {
	case "always":
		return true
	case "never":
		return false
	}
	cfg, err := config.Load(config.DefaultPath())
	if err == nil {
		if enabled, ok := cfg.ColorEnabled(); ok {
			return enabled
		}
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}
