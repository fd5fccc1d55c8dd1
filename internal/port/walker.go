package port

import "github.com/jjmejia/micode-manager-sub000/internal/domain"

type FileWalker interface {
	Walk(root string) ([]FileInfo, error)
}

type FileInfo struct {
	Path    string
	ModTime int64
	Size    int64
}

// UnitLoader reads a source unit with its modification time.
type UnitLoader interface {
	LoadUnit(path string) (domain.SourceUnit, error)
}

// UnitLoaderFunc adapts a function to UnitLoader.
type UnitLoaderFunc func(path string) (domain.SourceUnit, error)

func (f UnitLoaderFunc) LoadUnit(path string) (domain.SourceUnit, error) {
	return f(path)
}

// PathFilter decides which slash-separated relative paths a watcher follows.
type PathFilter interface {
	Matches(relPath string) bool
	SkipsDir(relPath string) bool
}
