package cmd

import (
	"os"

	"github.com/cpp-tutor/literate/internal/literate"
)

func tangleRun(input string, opts *options) error {
	src, err := os.ReadFile(input)
	if err != nil {
		return err
	}

	docPath := literate.DocPath(input)
	opts.status("Reading: %s, writing: %s\n", input, docPath)

	topts := []literate.Option{literate.WithStatus(opts.status)}

	if len(opts.only) > 0 {
		filter, err := globFilter(opts.only, '/')
		if err != nil {
			return err
		}

		topts = append(topts, literate.WithFilter(filter))
	}

	res, err := literate.New(literate.DirFS(opts.dir), topts...).Tangle(src)
	if err != nil {
		return err
	}

	return os.WriteFile(docPath, res.Doc, fileMode)
}
