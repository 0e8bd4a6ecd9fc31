package markdown

import (
	"regexp"
	"strings"

	"github.com/google/shlex"
)

// Meta holds key=value metadata parsed from a fenced code block's info
// string, e.g. "go file=main.go".
type Meta map[string]string

// Get returns the metadata value for the given key, or an empty string
// if the key is missing or the Meta is nil.
func (m Meta) Get(name string) string {
	if m == nil {
		return ""
	}

	return m[name]
}

var reBrackets = regexp.MustCompile(`^\s*{(.*)}$`)

func parseMeta(input []byte) (Meta, error) {
	if len(input) == 0 {
		return Meta{}, nil
	}

	if subs := reBrackets.FindSubmatch(input); subs != nil {
		input = subs[1]
	}

	words, err := shlex.Split(string(input))
	if err != nil {
		return nil, err
	}

	meta := make(Meta)

	for _, word := range words {
		if key, value, ok := strings.Cut(word, "="); ok {
			meta[key] = value
		}
	}

	return meta, nil
}
