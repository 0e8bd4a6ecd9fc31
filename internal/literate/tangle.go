package literate

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"path"
	"strings"
)

const (
	fileMode = 0o644
	dirMode  = 0o755
)

// ErrUnclosedFence is reported when the document ends inside a fence.
var ErrUnclosedFence = errors.New("unclosed code fence")

// Option configures a Tangler.
type Option func(*Tangler)

// WithStatus sets the callback for informational output ("Writing: ...").
func WithStatus(status func(format string, args ...any)) Option {
	return func(t *Tangler) {
		t.status = status
	}
}

// WithFilter restricts which target files are written. Filtered targets
// still appear in the woven documentation.
func WithFilter(filter func(target string) bool) Option {
	return func(t *Tangler) {
		t.filter = filter
	}
}

// Tangler extracts tagged source files from a literate document and
// weaves its documentation output.
type Tangler struct {
	fsys   WriteFS
	status func(format string, args ...any)
	filter func(target string) bool
}

// New returns a Tangler writing extracted files to fsys.
func New(fsys WriteFS, opts ...Option) *Tangler {
	t := &Tangler{
		fsys:   fsys,
		status: func(string, ...any) {},
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Result is the outcome of a Tangle run.
type Result struct {
	Doc   []byte   // woven documentation
	Files []string // extracted file paths in write order
}

type blockKind int

const (
	blockNone  blockKind = iota
	blockPlain           // fence with no directive, reproduced verbatim
	blockFile            // fence tagged with a target file
	blockQuiet           // skip or detached block, never extracted
)

// Tangle processes the document in a single pass. Extracted files are
// flushed when the target path changes and at end of document, never on
// fence close: non-contiguous fences tagged with the same path
// concatenate into one file. The returned documentation reproduces the
// document with directive lines removed and file-tagged blocks trimmed
// per their range suffixes.
//
// If the document ends inside a fence, Tangle returns an error wrapping
// ErrUnclosedFence; the pending file and the documentation are not
// written. Files flushed before that point remain on fsys.
func (t *Tangler) Tangle(source []byte) (*Result, error) {
	lines, err := splitLines(source)
	if err != nil {
		return nil, err
	}

	res := &Result{}

	var (
		doc      bytes.Buffer
		fileBuf  bytes.Buffer // accumulated content of the open target
		blockBuf bytes.Buffer // current block body, held for trimming
		openPath string
		block    blockKind
		fence    string // fence line that opened the current block
		omit     Directive
	)

	flush := func() error {
		if openPath == "" {
			return nil
		}

		if err := t.write(openPath, fileBuf.Bytes()); err != nil {
			return err
		}

		if t.filter == nil || t.filter(openPath) {
			res.Files = append(res.Files, openPath)
		}

		openPath = ""
		fileBuf.Reset()

		return nil
	}

	for i := 0; i < len(lines); i++ {
		line := lines[i]

		if !IsFence(line) {
			switch block {
			case blockNone, blockQuiet:
				writeLine(&doc, line)
			case blockPlain:
				writeLine(&doc, line)

				if openPath != "" {
					writeLine(&fileBuf, line)
				}
			case blockFile:
				writeLine(&blockBuf, line)
				writeLine(&fileBuf, line)
			}

			continue
		}

		if block != blockNone { // closing fence
			if block == blockFile {
				writeLine(&doc, fence)
				doc.WriteString(trimRange(blockBuf.String(), omit.OmitBegin, omit.OmitEnd))
				blockBuf.Reset()
				omit = Directive{}
			}

			writeLine(&doc, line)
			block = blockNone

			continue
		}

		// Opening fence: the directive, if any, sits on the next line
		// and is consumed here, never emitted.
		var next string
		if i+1 < len(lines) {
			next = lines[i+1]
		}

		d, ok := ParseDirective(next)
		if !ok {
			block = blockPlain

			writeLine(&doc, line)

			continue
		}

		i++

		switch d.Kind {
		case DirectiveFile:
			if d.Path != openPath {
				if err := flush(); err != nil {
					return nil, err
				}

				openPath = d.Path
			}

			block = blockFile
			fence = line
			omit = d
			blockBuf.Reset()
		case DirectiveDetach:
			if err := flush(); err != nil {
				return nil, err
			}

			block = blockQuiet

			writeLine(&doc, line)
		case DirectiveSkip:
			block = blockQuiet

			writeLine(&doc, line)
		}
	}

	if block != blockNone {
		if openPath != "" {
			return nil, fmt.Errorf("incomplete source file %s: %w", openPath, ErrUnclosedFence)
		}

		return nil, ErrUnclosedFence
	}

	if err := flush(); err != nil {
		return nil, err
	}

	res.Doc = doc.Bytes()

	return res, nil
}

func (t *Tangler) write(target string, data []byte) error {
	if t.filter != nil && !t.filter(target) {
		t.status("Skipping: %s\n", target)

		return nil
	}

	t.status("Writing: %s\n", target)

	if dir := path.Dir(target); dir != "." && dir != "/" {
		if err := t.fsys.MkdirAll(dir, dirMode); err != nil {
			return err
		}
	}

	return t.fsys.WriteFile(target, data, fileMode)
}

// DocPath derives the documentation output path: everything after the
// input path's final dot is replaced with "md".
func DocPath(input string) string {
	if idx := strings.LastIndex(input, "."); idx >= 0 {
		return input[:idx] + ".md"
	}

	return input + ".md"
}

// trimRange drops the first begin and last end lines of a block body,
// then strips trailing blank lines.
func trimRange(body string, begin, end int) string {
	if body == "" {
		return ""
	}

	lines := strings.Split(strings.TrimSuffix(body, "\n"), "\n")

	if begin > len(lines) {
		begin = len(lines)
	}

	lines = lines[begin:]

	if end > len(lines) {
		end = len(lines)
	}

	lines = lines[:len(lines)-end]

	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}

	if len(lines) == 0 {
		return ""
	}

	return strings.Join(lines, "\n") + "\n"
}

func writeLine(buf *bytes.Buffer, line string) {
	buf.WriteString(line)
	buf.WriteByte('\n')
}

func splitLines(source []byte) ([]string, error) {
	var lines []string

	scanner := bufio.NewScanner(bytes.NewReader(source))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}
