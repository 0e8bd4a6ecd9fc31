package literate

import (
	"io/fs"
	"os"
	"path/filepath"
)

// WriteFS is the destination for extracted source files. Paths are
// slash-separated and relative. *memoryfs.FS satisfies the interface
// directly, which the tests rely on.
type WriteFS interface {
	MkdirAll(path string, perm fs.FileMode) error
	WriteFile(path string, data []byte, perm fs.FileMode) error
}

// DirFS returns a WriteFS that writes below root on the host filesystem.
func DirFS(root string) WriteFS {
	return dirFS(root)
}

type dirFS string

func (d dirFS) MkdirAll(path string, perm fs.FileMode) error {
	return os.MkdirAll(filepath.Join(string(d), filepath.FromSlash(path)), perm)
}

func (d dirFS) WriteFile(path string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(filepath.Join(string(d), filepath.FromSlash(path)), data, perm)
}
