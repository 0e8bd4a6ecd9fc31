package cmd

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cpp-tutor/literate/internal/literate"
	"github.com/spf13/cobra"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

//go:embed help/exec.md
var execHelp string

var errMissingCommand = fmt.Errorf("command is required after '--'")

func execCmd(opts *options) *cobra.Command {
	var keep bool

	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:     "exec [flags] document -- command",
		Aliases: []string{"e"},
		Short:   "Tangle into a scratch directory and run a command per extracted file",
		Long:    execHelp,
		Args:    checkargs,
		PreRun: func(cmd *cobra.Command, _ []string) {
			opts.createStatus(cmd.ErrOrStderr())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			scr, args := script(cmd, args)
			if len(scr) == 0 {
				return errMissingCommand
			}

			dir, err := os.MkdirTemp(".", "literate-exec-")
			if err != nil {
				return err
			}

			if !keep {
				defer os.RemoveAll(dir)
			}

			return execRun(cmd, args[0], dir, opts, scr)
		},

		DisableAutoGenTag: true,
	}

	quietFlag(cmd, opts)

	cmd.Flags().BoolVarP(&keep, "keep", "k", false, "don't remove the scratch directory")

	return cmd
}

func execRun(cmd *cobra.Command, input, dir string, opts *options, scr string) error {
	src, err := os.ReadFile(input)
	if err != nil {
		return err
	}

	res, err := literate.New(literate.DirFS(dir), literate.WithStatus(opts.status)).Tangle(src)
	if err != nil {
		return err
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return err
	}

	var failures int

	for _, file := range res.Files {
		expanded := expandCommand(scr, file, absDir)

		opts.status("--- %s ---\n", file)

		exitCode, execErr := runCommand(cmd.Context(), expanded, absDir, cmd.OutOrStdout(), cmd.ErrOrStderr())
		if execErr != nil {
			return execErr
		}

		if exitCode != 0 {
			failures++
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d file(s) failed", failures)
	}

	return nil
}

func expandCommand(scr, file, dir string) string {
	expanded := strings.ReplaceAll(scr, "{}", filepath.Join(dir, filepath.FromSlash(file)))
	expanded = strings.ReplaceAll(expanded, "{file}", file)
	expanded = strings.ReplaceAll(expanded, "{dir}", dir)

	return expanded
}

func runCommand(ctx context.Context, command, dir string, stdout, stderr io.Writer) (int, error) {
	file, err := syntax.NewParser().Parse(strings.NewReader(command), "")
	if err != nil {
		return -1, err
	}

	runner, err := interp.New(interp.Dir(dir), interp.StdIO(os.Stdin, stdout, stderr))
	if err != nil {
		return -1, err
	}

	err = runner.Run(ctx, file)
	if err != nil {
		if status, ok := interp.IsExitStatus(err); ok {
			return int(status), nil
		}

		return -1, err
	}

	return 0, nil
}
