package literate

import (
	"fmt"
	"io/fs"
	"strings"
	"testing"

	"github.com/liamg/memoryfs"
	"github.com/stretchr/testify/require"
)

func doc(lines ...string) []byte {
	return []byte(strings.Join(lines, "\n") + "\n")
}

func read(t *testing.T, fsys fs.FS, path string) string {
	t.Helper()

	data, err := fs.ReadFile(fsys, path)
	require.NoError(t, err)

	return string(data)
}

func TestTangleSingleBlock(t *testing.T) {
	input := doc(
		"# Greeting",
		"",
		"```cpp",
		"//@hello.cpp",
		"int main() {}",
		"```",
	)

	memfs := memoryfs.New()

	res, err := New(memfs).Tangle(input)
	require.NoError(t, err)

	require.Equal(t, []string{"hello.cpp"}, res.Files)
	require.Equal(t, "int main() {}\n", read(t, memfs, "hello.cpp"))

	want := doc(
		"# Greeting",
		"",
		"```cpp",
		"int main() {}",
		"```",
	)
	require.Equal(t, string(want), string(res.Doc))
}

func TestTangleConcatenatesSameTarget(t *testing.T) {
	input := doc(
		"```",
		"//@a.txt",
		"one",
		"```",
		"between",
		"```",
		"//@a.txt",
		"two",
		"```",
	)

	memfs := memoryfs.New()

	res, err := New(memfs).Tangle(input)
	require.NoError(t, err)

	require.Equal(t, []string{"a.txt"}, res.Files)
	require.Equal(t, "one\ntwo\n", read(t, memfs, "a.txt"))
}

func TestTanglePlainFenceContinuesOpenFile(t *testing.T) {
	input := doc(
		"```",
		"//@a.txt",
		"one",
		"```",
		"prose",
		"```",
		"two",
		"```",
	)

	memfs := memoryfs.New()

	res, err := New(memfs).Tangle(input)
	require.NoError(t, err)

	require.Equal(t, "one\ntwo\n", read(t, memfs, "a.txt"))

	// The untagged fence is reproduced verbatim.
	want := doc(
		"```",
		"one",
		"```",
		"prose",
		"```",
		"two",
		"```",
	)
	require.Equal(t, string(want), string(res.Doc))
}

func TestTangleRangeSuffix(t *testing.T) {
	input := doc(
		"```",
		"//@code.txt@+2,-1",
		"A",
		"B",
		"C",
		"D",
		"E",
		"```",
	)

	memfs := memoryfs.New()

	res, err := New(memfs).Tangle(input)
	require.NoError(t, err)

	// The extracted file keeps the full untrimmed body.
	require.Equal(t, "A\nB\nC\nD\nE\n", read(t, memfs, "code.txt"))

	// The documentation shows only the middle.
	want := doc(
		"```",
		"C",
		"D",
		"```",
	)
	require.Equal(t, string(want), string(res.Doc))
}

func TestTangleOmitResetsPerFence(t *testing.T) {
	input := doc(
		"```",
		"//@a.txt@+1,-0",
		"hidden",
		"shown",
		"```",
		"```",
		"//@a.txt",
		"also shown",
		"```",
	)

	memfs := memoryfs.New()

	res, err := New(memfs).Tangle(input)
	require.NoError(t, err)

	require.Equal(t, "hidden\nshown\nalso shown\n", read(t, memfs, "a.txt"))

	want := doc(
		"```",
		"shown",
		"```",
		"```",
		"also shown",
		"```",
	)
	require.Equal(t, string(want), string(res.Doc))
}

func TestTangleSwitchFlushesPreviousTarget(t *testing.T) {
	input := doc(
		"```",
		"//@x.txt",
		"from x",
		"```",
		"```",
		"//@y.txt",
		"from y",
		"```",
	)

	memfs := memoryfs.New()

	res, err := New(memfs).Tangle(input)
	require.NoError(t, err)

	require.Equal(t, []string{"x.txt", "y.txt"}, res.Files)
	require.Equal(t, "from x\n", read(t, memfs, "x.txt"))
	require.Equal(t, "from y\n", read(t, memfs, "y.txt"))
}

func TestTangleSkipBlock(t *testing.T) {
	input := doc(
		"```",
		"//@a.txt",
		"real",
		"```",
		"```",
		"//#",
		"example only",
		"```",
	)

	memfs := memoryfs.New()

	res, err := New(memfs).Tangle(input)
	require.NoError(t, err)

	// The skip block contributes nothing to the open file.
	require.Equal(t, "real\n", read(t, memfs, "a.txt"))

	// Its body is shown, its directive line is not.
	want := doc(
		"```",
		"real",
		"```",
		"```",
		"example only",
		"```",
	)
	require.Equal(t, string(want), string(res.Doc))
}

func TestTangleDetachStopsExtraction(t *testing.T) {
	input := doc(
		"```",
		"//@a.txt",
		"one",
		"```",
		"```",
		"//@",
		"doc only",
		"```",
		"```",
		"orphan",
		"```",
	)

	memfs := memoryfs.New()

	res, err := New(memfs).Tangle(input)
	require.NoError(t, err)

	// The detach flushed a.txt; the later untagged fence has no open
	// file to append to.
	require.Equal(t, []string{"a.txt"}, res.Files)
	require.Equal(t, "one\n", read(t, memfs, "a.txt"))

	want := doc(
		"```",
		"one",
		"```",
		"```",
		"doc only",
		"```",
		"```",
		"orphan",
		"```",
	)
	require.Equal(t, string(want), string(res.Doc))
}

func TestTangleProseRoundTrip(t *testing.T) {
	input := doc(
		"# Title",
		"",
		"Nothing but prose here.",
		"",
		"And a final line.",
	)

	res, err := New(memoryfs.New()).Tangle(input)
	require.NoError(t, err)

	require.Empty(t, res.Files)
	require.Equal(t, string(input), string(res.Doc))
}

func TestTangleUnclosedFence(t *testing.T) {
	input := doc(
		"```",
		"//@a.txt",
		"one",
	)

	memfs := memoryfs.New()

	res, err := New(memfs).Tangle(input)
	require.ErrorIs(t, err, ErrUnclosedFence)
	require.Contains(t, err.Error(), "a.txt")
	require.Nil(t, res)

	// The pending file must not be flushed.
	_, err = fs.ReadFile(memfs, "a.txt")
	require.Error(t, err)
}

func TestTangleUnclosedPlainFence(t *testing.T) {
	input := doc(
		"```",
		"left open",
	)

	res, err := New(memoryfs.New()).Tangle(input)
	require.ErrorIs(t, err, ErrUnclosedFence)
	require.Nil(t, res)
}

func TestTangleCreatesDirectories(t *testing.T) {
	input := doc(
		"```",
		"//@sub/dir/out.txt",
		"content",
		"```",
	)

	memfs := memoryfs.New()

	_, err := New(memfs).Tangle(input)
	require.NoError(t, err)

	require.Equal(t, "content\n", read(t, memfs, "sub/dir/out.txt"))
}

func TestTangleMalformedRange(t *testing.T) {
	input := doc(
		"```",
		"//@a.txt@+x,-y",
		"A",
		"B",
		"```",
	)

	memfs := memoryfs.New()

	res, err := New(memfs).Tangle(input)
	require.NoError(t, err)

	// Path truncated at the separator, suffix treated as "no range".
	require.Equal(t, "A\nB\n", read(t, memfs, "a.txt"))
	require.Contains(t, string(res.Doc), "A\nB\n")
}

func TestTangleStripsTrailingBlankLines(t *testing.T) {
	input := doc(
		"```",
		"//@a.txt",
		"one",
		"",
		"",
		"```",
	)

	memfs := memoryfs.New()

	res, err := New(memfs).Tangle(input)
	require.NoError(t, err)

	// The file keeps the blanks, the documentation drops them.
	require.Equal(t, "one\n\n\n", read(t, memfs, "a.txt"))

	want := doc(
		"```",
		"one",
		"```",
	)
	require.Equal(t, string(want), string(res.Doc))
}

func TestTangleFilter(t *testing.T) {
	input := doc(
		"```",
		"//@main.go",
		"package main",
		"```",
		"```",
		"//@notes.txt",
		"skip me",
		"```",
	)

	memfs := memoryfs.New()

	filter := func(target string) bool { return strings.HasSuffix(target, ".go") }

	res, err := New(memfs, WithFilter(filter)).Tangle(input)
	require.NoError(t, err)

	require.Equal(t, []string{"main.go"}, res.Files)
	require.Equal(t, "package main\n", read(t, memfs, "main.go"))

	_, err = fs.ReadFile(memfs, "notes.txt")
	require.Error(t, err)

	// Filtered targets still appear in the documentation.
	require.Contains(t, string(res.Doc), "skip me\n")
}

func TestTangleStatus(t *testing.T) {
	input := doc(
		"```",
		"//@a.txt",
		"one",
		"```",
	)

	var messages []string
	status := func(format string, args ...any) {
		messages = append(messages, strings.TrimSpace(fmt.Sprintf(format, args...)))
	}

	_, err := New(memoryfs.New(), WithStatus(status)).Tangle(input)
	require.NoError(t, err)
	require.Equal(t, []string{"Writing: a.txt"}, messages)
}

func TestTrimRange(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		begin, end int
		want       string
	}{
		{name: "empty", body: "", want: ""},
		{name: "no trim", body: "a\nb\n", want: "a\nb\n"},
		{name: "begin", body: "a\nb\nc\n", begin: 1, want: "b\nc\n"},
		{name: "end", body: "a\nb\nc\n", end: 1, want: "a\nb\n"},
		{name: "both", body: "a\nb\nc\nd\ne\n", begin: 2, end: 1, want: "c\nd\n"},
		{name: "overlong begin", body: "a\n", begin: 5, want: ""},
		{name: "overlong end", body: "a\nb\n", end: 5, want: ""},
		{name: "trailing blanks", body: "a\n\n \n", want: "a\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, trimRange(tt.body, tt.begin, tt.end))
		})
	}
}
