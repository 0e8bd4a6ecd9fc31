package cmd

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cpp-tutor/literate/internal/literate"
	"github.com/cpp-tutor/literate/internal/markdown"
	"github.com/rodaine/table"
	"github.com/spf13/cobra"
)

//go:embed help/blocks.md
var blocksHelp string

func blocksCmd(_ *options) *cobra.Command {
	var langs []string

	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:     "blocks [flags] document",
		Aliases: []string{"b"},
		Short:   "List fenced code blocks and their target files",
		Long:    blocksHelp,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return blocksRun(cmd.OutOrStdout(), args[0], langs)
		},

		DisableAutoGenTag: true,
	}

	cmd.Flags().StringArrayVarP(&langs, "lang", "l", nil, "only list blocks whose language matches the glob (repeatable)")

	return cmd
}

func blocksRun(w io.Writer, filename string, langs []string) error {
	src, err := os.ReadFile(filename)
	if err != nil {
		return err
	}

	blocks, err := markdown.Blocks(src)
	if err != nil {
		return err
	}

	match := func(string) bool { return true }

	if len(langs) > 0 {
		if match, err = globFilter(langs); err != nil {
			return err
		}
	}

	tbl := table.New("#", "LANG", "TARGET", "LINES", "SIZE").WithWriter(w)

	for i, block := range blocks {
		if !match(block.Lang) {
			continue
		}

		tbl.AddRow(i, orDash(block.Lang), orDash(target(block)),
			fmt.Sprintf("%d-%d", block.StartLine, block.EndLine), len(block.Code))
	}

	tbl.Print()

	return nil
}

// target resolves the file a block is tagged with: a "file=" entry in
// the info string, or a file directive on the first body line.
func target(block *markdown.Block) string {
	if file := block.Meta.Get("file"); file != "" {
		return file
	}

	first, _, _ := strings.Cut(string(block.Code), "\n")

	if d, ok := literate.ParseDirective(first); ok && d.Kind == literate.DirectiveFile {
		return d.Path
	}

	return ""
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}

	return s
}
