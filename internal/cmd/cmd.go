// Package cmd implements the literate command line interface.
package cmd

import (
	_ "embed"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

const fileMode = 0o644

//go:embed help/root.md
var rootHelp string

type statusFunc func(format string, args ...any)

type options struct {
	dir   string
	only  []string
	quiet bool

	status statusFunc
}

func (o *options) createStatus(w io.Writer) {
	if o.quiet {
		o.status = func(string, ...any) {}

		return
	}

	o.status = func(format string, args ...any) {
		fmt.Fprintf(w, format, args...)
	}
}

// Execute runs the command line and returns the process exit code.
func Execute(args []string, stdout, stderr io.Writer) int {
	opts := &options{}

	root := rootCmd(opts)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(stderr, "literate: %v\n", err)

		return 1
	}

	return 0
}

func rootCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:   "literate [flags] document",
		Short: "Extract source files from a literate document",
		Long:  rootHelp,
		Args:  cobra.ExactArgs(1),
		PreRun: func(cmd *cobra.Command, _ []string) {
			opts.createStatus(cmd.ErrOrStderr())
		},
		RunE: func(_ *cobra.Command, args []string) error {
			return tangleRun(args[0], opts)
		},

		SilenceErrors:     true,
		SilenceUsage:      true,
		DisableAutoGenTag: true,
	}

	dirFlag(cmd, opts)
	quietFlag(cmd, opts)

	cmd.Flags().StringArrayVarP(&opts.only, "only", "o", nil, "only write target files matching the glob (repeatable)")

	cmd.AddCommand(blocksCmd(opts))
	cmd.AddCommand(execCmd(opts))

	return cmd
}

func dirFlag(cmd *cobra.Command, opts *options) {
	cmd.Flags().StringVarP(&opts.dir, "dir", "d", ".", "directory extracted files are written below")
}

func quietFlag(cmd *cobra.Command, opts *options) {
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "suppress informational output")
}

// checkargs requires exactly one positional argument before the "--"
// that introduces a command.
func checkargs(cmd *cobra.Command, args []string) error {
	dash := cmd.Flags().ArgsLenAtDash()
	if dash < 0 {
		dash = len(args)
	}

	if dash != 1 {
		return fmt.Errorf("expected exactly one document, got %d", dash)
	}

	return nil
}

// script splits the arguments at "--" and returns the joined command
// along with the remaining arguments.
func script(cmd *cobra.Command, args []string) (string, []string) {
	dash := cmd.Flags().ArgsLenAtDash()
	if dash < 0 {
		return "", args
	}

	return strings.Join(args[dash:], " "), args[:dash]
}
