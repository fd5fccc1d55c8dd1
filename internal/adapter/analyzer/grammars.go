package analyzer

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/jjmejia/micode-manager-sub000/internal/domain"
)

var grammars = map[string]func() *domain.LexicalGrammar{
	"generic": GenericGrammar,
	"php":     PHPGrammar,
}

// GrammarNames lists the registered grammar presets.
func GrammarNames() []string {
	names := make([]string, 0, len(grammars))
	for name := range grammars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GrammarByName returns a fresh copy of a registered grammar preset.
func GrammarByName(name string) (*domain.LexicalGrammar, error) {
	build, ok := grammars[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown grammar %q (available: %s)", name, strings.Join(GrammarNames(), ", "))
	}
	return build(), nil
}

// GenericGrammar covers C-family syntaxes with /** */ doc comments and
// "function"/"class" declarations, such as JavaScript.
func GenericGrammar() *domain.LexicalGrammar {
	return &domain.LexicalGrammar{
		Name:         "generic",
		LineComments: []string{"//"},
		BlockComment: domain.Region{Open: "/*", Close: "*/"},
		Quotes:       "\"'`",
		Escape:       '\\',
		Declarations: []domain.DeclKeyword{
			{Keyword: "function", Kind: domain.KindFunction, ArgsOpen: "(", ArgsClose: ")"},
			{Keyword: "class", Kind: domain.KindClass, FreeArgs: true},
			{Keyword: "interface", Kind: domain.KindInterface, FreeArgs: true},
			{Keyword: "trait", Kind: domain.KindTrait, FreeArgs: true},
			{Keyword: "namespace", Kind: domain.KindNamespace, FreeArgs: true},
		},
		Modifiers:       []string{"export", "default", "async", "public", "private", "protected", "static", "abstract", "final"},
		BlockOpen:       "{",
		BlockClose:      "}",
		StatementEnd:    ";",
		Ignore:          []string{"namespace", "constructor"},
		VariablePattern: regexp.MustCompile(`([A-Za-z_$][\w$]*)\s*(?::[^,=]*)?(?:=[^,]*)?(?:,|$)`),
		Tags: domain.TagGrammar{
			LineMarker:    "*",
			TagStart:      "@",
			ParamTag:      "param",
			ReturnTag:     "return",
			ParamPattern:  regexp.MustCompile(`(?s)^(\S+)\s+(?:\.\.\.)?([A-Za-z_$][\w$]*)(?:\s+(.*))?$`),
			ReturnPattern: regexp.MustCompile(`(?s)^(\S+)(?:\s+(.*))?$`),
		},
	}
}

// PHPGrammar scans PHP sources, including files mixing template markup
// with <?php ... ?> code regions.
func PHPGrammar() *domain.LexicalGrammar {
	return &domain.LexicalGrammar{
		Name: "php",
		CodeRegions: []domain.Region{
			{Open: "<?php", Close: "?>"},
			{Open: "<?", Close: "?>"},
		},
		LineComments: []string{"//", "#"},
		BlockComment: domain.Region{Open: "/*", Close: "*/"},
		Quotes:       "\"'",
		Escape:       '\\',
		Declarations: []domain.DeclKeyword{
			{Keyword: "function", Kind: domain.KindFunction, ArgsOpen: "(", ArgsClose: ")"},
			{Keyword: "class", Kind: domain.KindClass, FreeArgs: true},
			{Keyword: "interface", Kind: domain.KindInterface, FreeArgs: true},
			{Keyword: "trait", Kind: domain.KindTrait, FreeArgs: true},
			{Keyword: "enum", Kind: domain.KindClass, FreeArgs: true},
			{Keyword: "namespace", Kind: domain.KindNamespace, FreeArgs: true},
		},
		Modifiers:    []string{"public", "private", "protected", "static", "abstract", "final", "readonly"},
		BlockOpen:    "{",
		BlockClose:   "}",
		StatementEnd: ";",
		Ignore: []string{
			"namespace",
			"__construct", "__destruct", "__get", "__set", "__isset", "__unset",
			"__call", "__callStatic", "__toString", "__invoke", "__clone",
			"__sleep", "__wakeup", "__serialize", "__unserialize",
		},
		VariablePattern: regexp.MustCompile(`\$[A-Za-z_]\w*`),
		Tags: domain.TagGrammar{
			LineMarker:    "*",
			TagStart:      "@",
			ParamTag:      "param",
			ReturnTag:     "return",
			ParamPattern:  regexp.MustCompile(`(?s)^(\S+)\s+(?:&|\.\.\.)?(\$[A-Za-z_]\w*)(?:\s+(.*))?$`),
			ReturnPattern: regexp.MustCompile(`(?s)^(\S+)(?:\s+(.*))?$`),
		},
	}
}

// WithIgnore returns a copy of g with names appended to its ignore list.
func WithIgnore(g *domain.LexicalGrammar, names ...string) *domain.LexicalGrammar {
	out := *g
	out.Ignore = append(append([]string(nil), g.Ignore...), names...)
	return &out
}

// Fingerprint hashes every field of g that changes extraction output.
// Cached models built under a different fingerprint must not be reused.
func Fingerprint(g *domain.LexicalGrammar) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s|%v|%v|%v|%q|%d|", g.Name, g.CodeRegions, g.LineComments, g.BlockComment, g.Quotes, g.Escape)
	for _, d := range g.Declarations {
		fmt.Fprintf(&b, "%s:%s:%s:%s:%t,", d.Keyword, d.Kind, d.ArgsOpen, d.ArgsClose, d.FreeArgs)
	}
	fmt.Fprintf(&b, "|%v|%s%s%s|%v|", g.Modifiers, g.BlockOpen, g.BlockClose, g.StatementEnd, g.Ignore)
	if g.VariablePattern != nil {
		b.WriteString(g.VariablePattern.String())
	}
	t := g.Tags
	fmt.Fprintf(&b, "|%s%s%s%s|", t.LineMarker, t.TagStart, t.ParamTag, t.ReturnTag)
	if t.ParamPattern != nil {
		b.WriteString(t.ParamPattern.String())
	}
	if t.ReturnPattern != nil {
		b.WriteString(t.ReturnPattern.String())
	}
	hash := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(hash[:8])
}
