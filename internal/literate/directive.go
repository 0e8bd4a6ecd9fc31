// Package literate tangles literate-programming documents: it extracts
// the source files embedded in fenced code blocks and weaves a cleaned
// documentation file with directive lines removed.
package literate

import (
	"regexp"
	"strconv"
	"strings"
)

// Markers are matched against the first three characters of a line.
const (
	fenceMarker = "```"
	fileMarker  = "//@"
	skipMarker  = "//#"
	rangeSep    = "@"
)

// DirectiveKind discriminates the marker lines recognized immediately
// after an opening fence.
type DirectiveKind int

const (
	// DirectiveFile tags the block's content with a target file path.
	DirectiveFile DirectiveKind = iota
	// DirectiveDetach is a file directive with an empty path: it stops
	// extraction without opening a new file.
	DirectiveDetach
	// DirectiveSkip marks the block as documentation-only.
	DirectiveSkip
)

// Directive is a parsed marker line.
type Directive struct {
	Kind DirectiveKind
	Path string

	// Lines hidden from the documentation rendering of the block.
	// They are always written to the extracted file.
	OmitBegin int
	OmitEnd   int
}

var reRange = regexp.MustCompile(`^\+(\d+),-(\d+)$`)

// ParseDirective recognizes a file directive ("//@path" with an optional
// "@+N,-M" range suffix) or a skip directive ("//#"). A suffix that does
// not match the two-integer pattern is ignored; the path is still
// truncated at the separator.
func ParseDirective(line string) (Directive, bool) {
	if strings.HasPrefix(line, skipMarker) {
		return Directive{Kind: DirectiveSkip}, true
	}

	if !strings.HasPrefix(line, fileMarker) {
		return Directive{}, false
	}

	d := Directive{Kind: DirectiveFile, Path: strings.TrimSpace(line[len(fileMarker):])}

	if idx := strings.Index(d.Path, rangeSep); idx >= 0 {
		suffix := d.Path[idx+len(rangeSep):]
		d.Path = strings.TrimSpace(d.Path[:idx])

		if m := reRange.FindStringSubmatch(suffix); m != nil {
			d.OmitBegin, _ = strconv.Atoi(m[1])
			d.OmitEnd, _ = strconv.Atoi(m[2])
		}
	}

	if d.Path == "" {
		d.Kind = DirectiveDetach
	}

	return d, true
}

// IsFence reports whether the line toggles the code-fence state.
func IsFence(line string) bool {
	return strings.HasPrefix(line, fenceMarker)
}
