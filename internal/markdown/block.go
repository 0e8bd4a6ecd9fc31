// Package markdown enumerates fenced code blocks of a Markdown (or
// literate) document using goldmark.
package markdown

// Block is a fenced code block found in a document.
type Block struct {
	Lang      string
	Meta      Meta
	Code      []byte
	StartLine int
	EndLine   int
}
