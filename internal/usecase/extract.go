package usecase

import (
	"strings"

	"github.com/charmbracelet/log"

	"github.com/jjmejia/micode-manager-sub000/internal/adapter/analyzer"
	"github.com/jjmejia/micode-manager-sub000/internal/adapter/cache"
	"github.com/jjmejia/micode-manager-sub000/internal/adapter/docblock"
	"github.com/jjmejia/micode-manager-sub000/internal/adapter/fs"
	"github.com/jjmejia/micode-manager-sub000/internal/adapter/validator"
	"github.com/jjmejia/micode-manager-sub000/internal/domain"
	"github.com/jjmejia/micode-manager-sub000/internal/port"
)

// ExtractUseCase turns source units into DocumentModels: scan, parse each
// doc comment, validate, and optionally memoize through a DocCache.
type ExtractUseCase struct {
	grammar   *domain.LexicalGrammar
	scanner   *analyzer.Scanner
	parser    *docblock.Parser
	validator *validator.Validator
	cache     *cache.DocCache
	loader    port.UnitLoader
	logger    *log.Logger
}

type Option func(*ExtractUseCase)

// WithCache memoizes non-summary results. The cache marker should come from
// CacheMarker for the same grammar.
func WithCache(c *cache.DocCache) Option {
	return func(u *ExtractUseCase) { u.cache = c }
}

// WithParser replaces the default tag parser, typically to register custom
// tag handlers.
func WithParser(p *docblock.Parser) Option {
	return func(u *ExtractUseCase) {
		if p != nil {
			u.parser = p
		}
	}
}

func WithLoader(l port.UnitLoader) Option {
	return func(u *ExtractUseCase) {
		if l != nil {
			u.loader = l
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(u *ExtractUseCase) {
		if l != nil {
			u.logger = l
		}
	}
}

// NewExtractUseCase creates the engine for grammar. A nil grammar is a
// programming error and panics.
func NewExtractUseCase(grammar *domain.LexicalGrammar, opts ...Option) *ExtractUseCase {
	if grammar == nil {
		panic("usecase: nil grammar")
	}
	u := &ExtractUseCase{
		grammar:   grammar,
		scanner:   analyzer.NewScanner(grammar),
		parser:    docblock.NewParser(grammar.Tags),
		validator: validator.New(grammar),
		loader:    fs.Loader,
		logger:    log.Default().WithPrefix("extract"),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// CacheMarker is the cache marker for models built with grammar. Extra parts
// (for example registered custom tags) are appended so that changing them
// also invalidates cached entries.
func CacheMarker(grammar *domain.LexicalGrammar, extra ...string) string {
	marker := domain.EngineFormat + "+" + analyzer.Fingerprint(grammar)
	if len(extra) > 0 {
		marker += "+" + strings.Join(extra, ",")
	}
	return marker
}

// Extract returns the DocumentModel for unit. Problems with the unit are
// reported inside the model, never as an error.
func (u *ExtractUseCase) Extract(unit domain.SourceUnit) *domain.DocumentModel {
	if u.cache != nil {
		if model, ok := u.cache.Get(unit); ok {
			return model
		}
	}

	model := u.build(unit)
	if u.cache != nil {
		u.cache.Put(unit, model)
	}
	return model
}

// ExtractFile loads path through the configured loader and extracts it. An
// unreadable file yields an empty model carrying one error.
func (u *ExtractUseCase) ExtractFile(path string) *domain.DocumentModel {
	unit, err := u.loader.LoadUnit(path)
	if err != nil {
		u.logger.Debug("unit unreadable", "path", path, "error", err)
		return domain.FailedModel(path, err)
	}
	return u.Extract(unit)
}

// ExtractDeclaration returns the detail view of one declaration.
func (u *ExtractUseCase) ExtractDeclaration(unit domain.SourceUnit, name string) *domain.DocumentModel {
	return u.Extract(unit).Filter(name)
}

// Summary returns the unit's one-line description using the summary-only
// scan mode. It bypasses the cache.
func (u *ExtractUseCase) Summary(unit domain.SourceUnit) domain.Summary {
	res := u.scanner.Scan(unit.Content, true)
	if res.Err != nil {
		return domain.Summary{Identity: unit.Identity, Error: res.Err.Error()}
	}
	s := domain.Summary{Identity: unit.Identity}
	if res.HasMain {
		s.Summary = u.parser.Parse(res.Main).Summary
	}
	return s
}

func (u *ExtractUseCase) SummaryFile(path string) domain.Summary {
	unit, err := u.loader.LoadUnit(path)
	if err != nil {
		return domain.Summary{Identity: path, Error: err.Error()}
	}
	return u.Summary(unit)
}

func (u *ExtractUseCase) build(unit domain.SourceUnit) *domain.DocumentModel {
	res := u.scanner.Scan(unit.Content, false)
	if res.Err != nil {
		return domain.FailedModel(unit.Identity, res.Err)
	}

	model := domain.NewDocumentModel(unit.Identity)
	if res.HasMain {
		model.Main = u.parser.Parse(res.Main)
	}
	model.MainAttached = res.MainAttached

	// a main block that documents a declaration is validated with it
	if !model.MainAttached {
		unitDecl := domain.Declaration{Kind: domain.KindUnit, Name: unit.Identity, Doc: model.Main}
		model.Warnings = append(model.Warnings, u.validator.Validate(unitDecl, true)...)
	}

	for _, sd := range res.Declarations {
		decl := domain.Declaration{
			Kind: sd.Kind,
			Name: sd.Name,
			Args: sd.Args,
			Line: sd.Line,
		}
		if sd.HasDoc {
			decl.Doc = u.parser.Parse(sd.Doc)
		}
		model.AddDeclaration(decl)
		model.Warnings = append(model.Warnings, u.validator.Validate(decl, false)...)
	}

	u.logger.Debug("extracted", "unit", unit.Identity,
		"declarations", len(model.Declarations), "warnings", len(model.Warnings))
	return model
}
