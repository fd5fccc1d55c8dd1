package fs

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/jjmejia/micode-manager-sub000/internal/domain"
	"github.com/jjmejia/micode-manager-sub000/internal/port"
)

type Walker struct {
	includes    []string
	excludes    []string
	gitignore   bool
	maxFileSize int64
}

type Option func(*Walker)

// WithGitignore skips paths matched by the root's .gitignore file.
func WithGitignore(enabled bool) Option {
	return func(w *Walker) { w.gitignore = enabled }
}

// WithMaxFileSize skips files larger than n bytes. Zero means no limit.
func WithMaxFileSize(n int64) Option {
	return func(w *Walker) { w.maxFileSize = n }
}

func NewWalker(includes, excludes []string, opts ...Option) *Walker {
	if len(includes) == 0 {
		includes = []string{"**/*"}
	}
	w := &Walker{
		includes: includes,
		excludes: excludes,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

var (
	_ port.FileWalker = (*Walker)(nil)
	_ port.PathFilter = (*Walker)(nil)
)

// Walk lists matching files under root in lexical order.
func (w *Walker) Walk(root string) ([]port.FileInfo, error) {
	var files []port.FileInfo

	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	var gi *ignore.GitIgnore
	if w.gitignore {
		gi = loadGitignore(root)
	}

	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		if info.IsDir() {
			if relPath == "." {
				return nil
			}
			if info.Name() == ".git" || w.shouldExclude(relPath+"/") || (gi != nil && gi.MatchesPath(relPath+"/")) {
				return filepath.SkipDir
			}
			return nil
		}

		if !w.shouldInclude(relPath) || w.shouldExclude(relPath) {
			return nil
		}
		if gi != nil && gi.MatchesPath(relPath) {
			return nil
		}
		if w.maxFileSize > 0 && info.Size() > w.maxFileSize {
			return nil
		}

		files = append(files, port.FileInfo{
			Path:    path,
			ModTime: info.ModTime().UnixNano(),
			Size:    info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})
	return files, nil
}

// Matches reports whether the slash-separated relative path is a file Walk
// would list, ignoring .gitignore and size limits.
func (w *Walker) Matches(relPath string) bool {
	return w.shouldInclude(relPath) && !w.shouldExclude(relPath)
}

// SkipsDir reports whether Walk prunes the relative directory path.
func (w *Walker) SkipsDir(relPath string) bool {
	if relPath == "." || relPath == "" {
		return false
	}
	return path.Base(relPath) == ".git" || w.shouldExclude(relPath) || w.shouldExclude(relPath+"/")
}

func (w *Walker) shouldInclude(path string) bool {
	for _, pattern := range w.includes {
		matched, err := doublestar.Match(pattern, path)
		if err == nil && matched {
			return true
		}
	}
	return false
}

func (w *Walker) shouldExclude(path string) bool {
	for _, pattern := range w.excludes {
		matched, err := doublestar.Match(pattern, path)
		if err == nil && matched {
			return true
		}
	}
	return false
}

func loadGitignore(root string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}

// LoadUnit reads path into a SourceUnit identified by the path itself.
func LoadUnit(path string) (domain.SourceUnit, error) {
	info, err := os.Stat(path)
	if err != nil {
		return domain.SourceUnit{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return domain.SourceUnit{}, fmt.Errorf("%s is a directory", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.SourceUnit{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return domain.SourceUnit{
		Identity: path,
		Content:  string(data),
		ModTime:  info.ModTime(),
	}, nil
}

// Loader is the filesystem port.UnitLoader.
var Loader port.UnitLoader = port.UnitLoaderFunc(LoadUnit)
