package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/jjmejia/micode-manager-sub000/config"
	"github.com/jjmejia/micode-manager-sub000/internal/adapter/analyzer"
	"github.com/jjmejia/micode-manager-sub000/internal/adapter/cache"
	"github.com/jjmejia/micode-manager-sub000/internal/adapter/docblock"
	"github.com/jjmejia/micode-manager-sub000/internal/adapter/fs"
	"github.com/jjmejia/micode-manager-sub000/internal/adapter/memstore"
	"github.com/jjmejia/micode-manager-sub000/internal/adapter/store"
	"github.com/jjmejia/micode-manager-sub000/internal/domain"
	"github.com/jjmejia/micode-manager-sub000/internal/port"
	"github.com/jjmejia/micode-manager-sub000/internal/usecase"
)

// engine bundles the extraction use case with the cache tier it writes to.
type engine struct {
	grammar *domain.LexicalGrammar
	extract *usecase.ExtractUseCase
	cache   *cache.DocCache
	store   cacheBackend
}

// cacheBackend is what the cache commands need beyond port.CacheStore.
type cacheBackend interface {
	port.CacheStore
	Stats() (store.Stats, error)
	Clear() error
	Close() error
}

// memoryBackend adapts the in-process store to cacheBackend.
type memoryBackend struct {
	*memstore.MemoryStore
}

func (m memoryBackend) Stats() (store.Stats, error) {
	return store.Stats{Entries: m.Len()}, nil
}

func (m memoryBackend) Clear() error {
	m.MemoryStore.Clear()
	return nil
}

func (e *engine) Close() error {
	if e.store == nil {
		return nil
	}
	return e.store.Close()
}

// grammarFromConfig resolves the configured preset with its extra ignore names.
func grammarFromConfig(cfg *config.Config) (*domain.LexicalGrammar, error) {
	g, err := analyzer.GrammarByName(cfg.Docs.Grammar)
	if err != nil {
		return nil, err
	}
	if len(cfg.Docs.Ignore) > 0 {
		g = analyzer.WithIgnore(g, cfg.Docs.Ignore...)
	}
	return g, nil
}

// parserFromConfig registers a last-value-wins handler for every extra tag.
func parserFromConfig(cfg *config.Config, g *domain.LexicalGrammar) *docblock.Parser {
	opts := make([]docblock.Option, 0, len(cfg.Docs.ExtraTags))
	for _, tag := range cfg.Docs.ExtraTags {
		opts = append(opts, docblock.WithTagHandler(tag, replaceValue))
	}
	return docblock.NewParser(g.Tags, opts...)
}

func replaceValue(current *domain.TagValue, content string) {
	*current = domain.Scalar(content)
}

// openBackend opens the configured cache backend for the project in dir.
func openBackend(cfg *config.Config, dir, marker string) (cacheBackend, error) {
	path := cfg.CachePath(dir)

	switch cfg.Cache.Backend {
	case "memory":
		ms, err := memstore.NewMemoryStore(memstore.DefaultCapacity)
		if err != nil {
			return nil, err
		}
		return memoryBackend{ms}, nil

	case "file":
		return store.NewFileStore(path)

	default:
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
		st, err := store.NewBoltStore(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open cache: %w", err)
		}
		rebuilt, err := st.Prepare(marker)
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("failed to prepare cache: %w", err)
		}
		if rebuilt {
			log.Info("cache cleared for a new engine marker", "path", path)
		}
		return st, nil
	}
}

// newEngine wires grammar, parser, cache and store from cfg. With useCache
// false (or caching disabled in the config) nothing is opened on disk.
func newEngine(cfg *config.Config, dir string, useCache bool) (*engine, error) {
	g, err := grammarFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	e := &engine{grammar: g}
	opts := []usecase.Option{
		usecase.WithParser(parserFromConfig(cfg, g)),
		usecase.WithLoader(fs.Loader),
	}

	if useCache && cfg.Cache.Enabled {
		marker := usecase.CacheMarker(g, cfg.Docs.ExtraTags...)
		st, err := openBackend(cfg, dir, marker)
		if err != nil {
			return nil, err
		}
		e.store = st
		e.cache = cache.NewDocCache(st, marker, cache.WithMemorySlot(cfg.Cache.MemorySlot))
		opts = append(opts, usecase.WithCache(e.cache))
	}

	e.extract = usecase.NewExtractUseCase(g, opts...)
	return e, nil
}

// newWalker builds the file walker from the scan section.
func newWalker(cfg *config.Config) *fs.Walker {
	return fs.NewWalker(cfg.Scan.Includes, cfg.Scan.Excludes,
		fs.WithGitignore(cfg.Scan.Gitignore),
		fs.WithMaxFileSize(cfg.Scan.MaxFileSize))
}

// resolveDir returns the absolute directory named by args, or the project dir.
func resolveDir(args []string) (string, error) {
	path := GetRootDir()
	if len(args) > 0 {
		var err error
		path, err = filepath.Abs(args[0])
		if err != nil {
			return "", fmt.Errorf("invalid path: %w", err)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("path does not exist: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("path is not a directory: %s", path)
	}
	return path, nil
}

var errAuditFailed = errors.New("documentation audit failed")
