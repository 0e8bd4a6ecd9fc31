package markdown

import (
	"bytes"
	"regexp"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var reInfo = regexp.MustCompile(`\s*(\w*)\s*(.*?)\s*$`)

// Blocks parses a Markdown document and returns its fenced code blocks
// in document order.
func Blocks(source []byte) ([]*Block, error) {
	parser := goldmark.DefaultParser()
	root := parser.Parse(text.NewReader(source)).OwnerDocument()

	var blocks []*Block

	err := ast.Walk(root, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering || node.Kind() != ast.KindFencedCodeBlock {
			return ast.WalkContinue, nil
		}

		fcb, ok := node.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		block, berr := extractBlock(fcb, source)
		if berr != nil {
			return ast.WalkStop, berr
		}

		blocks = append(blocks, block)

		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	return blocks, nil
}

func extractBlock(fcb *ast.FencedCodeBlock, source []byte) (*Block, error) {
	block := &Block{Code: extractCode(fcb, source)}

	if fcb.Info != nil {
		lang, meta, err := parseInfo(fcb.Info.Text(source))
		if err != nil {
			return nil, err
		}

		block.Lang, block.Meta = lang, meta
	}

	block.StartLine, block.EndLine = extractLines(fcb, source)

	return block, nil
}

func extractCode(fcb *ast.FencedCodeBlock, source []byte) []byte {
	var buff bytes.Buffer

	lines := fcb.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buff.Write(line.Value(source))
	}

	return buff.Bytes()
}

func extractLines(fcb *ast.FencedCodeBlock, source []byte) (int, int) {
	var start, end int

	if fcb.Info != nil {
		start = lineAt(source, fcb.Info.Segment.Start)
	}

	lines := fcb.Lines()
	if lines.Len() > 0 {
		if start == 0 {
			start = lineAt(source, lines.At(0).Start) - 1
		}

		end = lineAt(source, lines.At(lines.Len()-1).Stop)
	} else if start > 0 {
		end = start + 1
	}

	return start, end
}

func lineAt(source []byte, offset int) int {
	line := 1

	for i := 0; i < offset && i < len(source); i++ {
		if source[i] == '\n' {
			line++
		}
	}

	return line
}

func parseInfo(info []byte) (string, Meta, error) {
	all := reInfo.FindSubmatch(info)
	if all == nil {
		return "", nil, nil
	}

	lang := string(all[1])

	meta, err := parseMeta(all[2])
	if err != nil {
		return lang, nil, err
	}

	return lang, meta, nil
}
