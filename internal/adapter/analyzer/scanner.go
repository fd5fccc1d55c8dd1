package analyzer

import (
	"errors"
	"strings"

	"github.com/jjmejia/micode-manager-sub000/internal/domain"
)

// ErrNoCodeRegion is reported when a grammar requires code regions and the
// content has none.
var ErrNoCodeRegion = errors.New("unrecognized content: no code region found")

type scanState int

const (
	stateOutside scanState = iota
	stateCode
	stateLineComment
	stateBlockComment
	stateDocComment
	stateString
)

// ScannedDecl is a recognized declaration with the raw text of the doc
// comment that preceded it.
type ScannedDecl struct {
	Kind   domain.DeclKind
	Name   string
	Args   string
	Line   int
	Doc    string
	HasDoc bool
}

// ScanResult is the raw output of one scan.
type ScanResult struct {
	Main    string
	HasMain bool
	// MainAttached is set when the main doc comment was consumed by a
	// function or class declaration rather than standing as a unit header.
	MainAttached bool
	Declarations []ScannedDecl
	Err          error
}

// Scanner separates code, comments and string literals and pairs doc
// comments with the declarations that follow them.
type Scanner struct {
	grammar *domain.LexicalGrammar
}

// NewScanner creates a scanner for grammar. A nil grammar is a programming
// error.
func NewScanner(grammar *domain.LexicalGrammar) *Scanner {
	if grammar == nil {
		panic("analyzer: nil grammar")
	}
	return &Scanner{grammar: grammar}
}

// Scan walks content once. With summaryOnly set it stops as soon as the
// first doc comment closes and reports only the main doc comment.
func (s *Scanner) Scan(content string, summaryOnly bool) ScanResult {
	sc := &scan{
		g:           s.grammar,
		src:         content,
		line:        1,
		summaryOnly: summaryOnly,
	}
	for _, sep := range []string{s.grammar.BlockOpen, s.grammar.BlockClose, s.grammar.StatementEnd} {
		if sep != "" {
			sc.seps = append(sc.seps, sep)
		}
	}
	for _, kw := range s.grammar.Declarations {
		if kw.ArgsOpen == "" || kw.ArgsClose == "" {
			continue
		}
		pair := domain.Region{Open: kw.ArgsOpen, Close: kw.ArgsClose}
		if !containsRegion(sc.argPairs, pair) {
			sc.argPairs = append(sc.argPairs, pair)
		}
	}
	if len(s.grammar.CodeRegions) == 0 {
		sc.state = stateCode
		sc.sawRegion = true
	}
	sc.run()

	if !sc.sawRegion {
		return ScanResult{Err: ErrNoCodeRegion}
	}
	if summaryOnly {
		sc.result.Declarations = nil
		sc.result.MainAttached = false
	}
	return sc.result
}

type scan struct {
	g           *domain.LexicalGrammar
	src         string
	pos         int
	line        int
	state       scanState
	region      domain.Region
	sawRegion   bool
	quote       byte
	seps        []string
	argPairs    []domain.Region
	// argDepth counts open argument lists; separators inside them are
	// plain text, so "f(opts = {})" stays on one declaration line.
	argDepth int
	summaryOnly bool
	done        bool

	buf     strings.Builder
	last    byte
	bufLine int

	pending       string
	hasPending    bool
	pendingIsMain bool
	declSeen      bool

	result ScanResult
}

func (s *scan) run() {
	for s.pos < len(s.src) && !s.done {
		switch s.state {
		case stateOutside:
			s.outside()
		case stateCode:
			s.code()
		case stateLineComment:
			s.lineComment()
		case stateBlockComment:
			s.skipTo(s.g.BlockComment.Close)
		case stateDocComment:
			s.docComment()
		case stateString:
			s.stringLiteral()
		}
	}
	if !s.done {
		s.flush()
	}
}

func (s *scan) advance(n int) {
	if s.pos+n > len(s.src) {
		n = len(s.src) - s.pos
	}
	s.line += strings.Count(s.src[s.pos:s.pos+n], "\n")
	s.pos += n
}

func (s *scan) rest() string {
	return s.src[s.pos:]
}

func (s *scan) outside() {
	best, at := -1, -1
	for i, r := range s.g.CodeRegions {
		idx := strings.Index(s.rest(), r.Open)
		if idx < 0 {
			continue
		}
		if at < 0 || idx < at || (idx == at && len(r.Open) > len(s.g.CodeRegions[best].Open)) {
			best, at = i, idx
		}
	}
	if best < 0 {
		s.advance(len(s.rest()))
		return
	}
	s.region = s.g.CodeRegions[best]
	s.sawRegion = true
	s.advance(at + len(s.region.Open))
	s.state = stateCode
}

func (s *scan) code() {
	rest := s.rest()
	g := s.g

	if s.region.Close != "" && strings.HasPrefix(rest, s.region.Close) {
		s.argDepth = 0
		s.flush()
		s.advance(len(s.region.Close))
		s.state = stateOutside
		return
	}

	if open := g.BlockComment.Open; open != "" && strings.HasPrefix(rest, open) {
		after := rest[len(open):]
		if len(open) > 1 && len(after) > 0 && after[0] == open[1] && !strings.HasPrefix(after, g.BlockComment.Close) {
			s.advance(len(open) + 1)
			s.state = stateDocComment
			return
		}
		s.space()
		s.advance(len(open))
		s.state = stateBlockComment
		return
	}

	for _, marker := range g.LineComments {
		if strings.HasPrefix(rest, marker) {
			s.advance(len(marker))
			s.state = stateLineComment
			return
		}
	}

	c := rest[0]
	if strings.IndexByte(g.Quotes, c) >= 0 {
		s.write(c)
		s.quote = c
		s.advance(1)
		s.state = stateString
		return
	}

	for _, pair := range s.argPairs {
		switch {
		case strings.HasPrefix(rest, pair.Open):
			s.argDepth++
			s.writeString(pair.Open)
			return
		case s.argDepth > 0 && strings.HasPrefix(rest, pair.Close):
			s.argDepth--
			s.writeString(pair.Close)
			return
		}
	}

	if s.argDepth == 0 {
		for _, sep := range s.seps {
			if strings.HasPrefix(rest, sep) {
				s.buf.WriteByte('\n')
				s.last = '\n'
				s.advance(len(sep))
				s.flush()
				return
			}
		}
	}

	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		s.space()
	default:
		s.write(c)
	}
	s.advance(1)
}

// write appends a code byte, remembering where the buffered statement began.
func (s *scan) write(c byte) {
	if s.buf.Len() == 0 {
		s.bufLine = s.line
	}
	s.buf.WriteByte(c)
	s.last = c
}

func (s *scan) writeString(text string) {
	for i := 0; i < len(text); i++ {
		s.write(text[i])
	}
	s.advance(len(text))
}

// space collapses whitespace runs into a single space.
func (s *scan) space() {
	if s.buf.Len() == 0 || s.last == ' ' || s.last == '\n' {
		return
	}
	s.buf.WriteByte(' ')
	s.last = ' '
}

func (s *scan) lineComment() {
	rest := s.rest()
	end := strings.IndexByte(rest, '\n')
	if s.region.Close != "" {
		line := rest
		if end >= 0 {
			line = rest[:end]
		}
		if idx := strings.Index(line, s.region.Close); idx >= 0 {
			s.advance(idx)
			s.state = stateCode
			return
		}
	}
	if end < 0 {
		s.advance(len(rest))
		return
	}
	s.advance(end + 1)
	s.space()
	s.state = stateCode
}

func (s *scan) skipTo(marker string) {
	idx := strings.Index(s.rest(), marker)
	if idx < 0 {
		s.advance(len(s.rest()))
		return
	}
	s.advance(idx + len(marker))
	s.state = stateCode
}

func (s *scan) docComment() {
	rest := s.rest()
	idx := strings.Index(rest, s.g.BlockComment.Close)
	if idx < 0 {
		// unterminated doc comments are dropped
		s.advance(len(rest))
		return
	}
	text := rest[:idx]
	s.advance(idx + len(s.g.BlockComment.Close))
	s.state = stateCode
	s.closeDoc(text)
}

func (s *scan) closeDoc(text string) {
	// code buffered before the comment belongs to the previous pending doc
	s.flush()

	isMain := false
	if !s.declSeen && !s.result.HasMain {
		s.result.Main = text
		s.result.HasMain = true
		isMain = true
	}
	if s.summaryOnly {
		s.done = true
		return
	}
	s.pending = text
	s.hasPending = true
	s.pendingIsMain = isMain
}

func (s *scan) stringLiteral() {
	rest := s.rest()
	c := rest[0]
	if c == s.g.Escape && len(rest) > 1 {
		s.buf.WriteString(rest[:2])
		s.last = rest[1]
		s.advance(2)
		return
	}
	s.buf.WriteByte(c)
	s.last = c
	s.advance(1)
	if c == s.quote {
		s.state = stateCode
	}
}

// flush tests the buffered code line by line against the declaration
// keywords. Non-declaration code orphans the pending doc comment.
func (s *scan) flush() {
	text := s.buf.String()
	s.buf.Reset()
	s.last = 0
	if strings.TrimSpace(text) == "" {
		return
	}
	for _, line := range strings.Split(text, "\n") {
		if decl, ok := s.matchDeclaration(strings.TrimSpace(line)); ok {
			decl.Line = s.bufLine
			s.emit(decl)
			return
		}
	}
	s.hasPending = false
	s.pending = ""
	s.pendingIsMain = false
}

func (s *scan) emit(decl ScannedDecl) {
	if s.hasPending {
		decl.Doc = s.pending
		decl.HasDoc = true
		if s.pendingIsMain && decl.Kind != domain.KindNamespace {
			s.result.MainAttached = true
		}
	}
	s.hasPending = false
	s.pending = ""
	s.pendingIsMain = false
	s.declSeen = true
	s.result.Declarations = append(s.result.Declarations, decl)
}

func (s *scan) matchDeclaration(line string) (ScannedDecl, bool) {
	rest := line
	for rest != "" {
		word, after, _ := strings.Cut(rest, " ")
		rest = strings.TrimSpace(after)

		if containsFold(s.g.Modifiers, word) {
			continue
		}
		for _, kw := range s.g.Declarations {
			if strings.EqualFold(word, kw.Keyword) {
				return splitDeclaration(kw, rest)
			}
		}
		return ScannedDecl{}, false
	}
	return ScannedDecl{}, false
}

// splitDeclaration extracts name and argument text with a single bounded
// split on the keyword's argument delimiters.
func splitDeclaration(kw domain.DeclKeyword, rest string) (ScannedDecl, bool) {
	decl := ScannedDecl{Kind: kw.Kind}
	if rest == "" {
		return decl, false
	}

	if kw.FreeArgs || kw.ArgsOpen == "" {
		name, args, _ := strings.Cut(rest, " ")
		decl.Name = strings.TrimSpace(name)
		decl.Args = strings.TrimSpace(args)
		return decl, decl.Name != ""
	}

	name, args, found := strings.Cut(rest, kw.ArgsOpen)
	name = strings.TrimLeft(strings.TrimSpace(name), "&")
	if name == "" || strings.ContainsAny(name, " \t") {
		return decl, false
	}
	if found && kw.ArgsClose != "" {
		if idx := strings.LastIndex(args, kw.ArgsClose); idx >= 0 {
			args = args[:idx]
		}
	}
	decl.Name = name
	decl.Args = strings.TrimSpace(args)
	return decl, true
}

func containsRegion(list []domain.Region, r domain.Region) bool {
	for _, item := range list {
		if item == r {
			return true
		}
	}
	return false
}

func containsFold(list []string, word string) bool {
	for _, item := range list {
		if strings.EqualFold(item, word) {
			return true
		}
	}
	return false
}
