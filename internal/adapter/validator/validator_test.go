package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jjmejia/micode-manager-sub000/internal/adapter/analyzer"
	"github.com/jjmejia/micode-manager-sub000/internal/domain"
)

func documented(summary string, params ...string) domain.DocBlock {
	doc := domain.DocBlock{Summary: summary}
	for _, p := range params {
		doc.Params = append(doc.Params, domain.Param{Name: p, Type: "mixed"})
	}
	return doc
}

func codes(warnings []domain.Warning) []domain.WarningCode {
	var out []domain.WarningCode
	for _, w := range warnings {
		out = append(out, w.Code)
	}
	return out
}

func TestValidate_ParamCompleteness(t *testing.T) {
	v := New(analyzer.GenericGrammar())
	decl := domain.Declaration{Kind: domain.KindFunction, Name: "add", Args: "a, b, c"}

	decl.Doc = documented("Adds.", "a", "b", "c")
	assert.Empty(t, v.Validate(decl, false))

	decl.Doc = documented("Adds.", "a", "c")
	warnings := v.Validate(decl, false)
	require.Len(t, warnings, 1)
	assert.Equal(t, domain.WarnMissingParam, warnings[0].Code)
	assert.Equal(t, "add", warnings[0].Target)
	assert.Contains(t, warnings[0].Message, "b")

	decl.Doc = documented("Adds.")
	warnings = v.Validate(decl, false)
	require.Len(t, warnings, 1)
	assert.Equal(t, domain.WarnMissingParams, warnings[0].Code)
}

func TestValidate_MissingSummary(t *testing.T) {
	v := New(analyzer.GenericGrammar())

	warnings := v.Validate(domain.Declaration{Kind: domain.KindClass, Name: "Loader"}, false)
	assert.Equal(t, []domain.WarningCode{domain.WarnMissingSummary}, codes(warnings))

	assert.Empty(t, v.Validate(domain.Declaration{Kind: domain.KindNamespace, Name: "app"}, false))
	assert.Empty(t, v.Validate(domain.Declaration{Kind: domain.KindFunction, Name: "Constructor"}, false))
}

func TestValidate_MainBlockNeedsAuthor(t *testing.T) {
	v := New(analyzer.GenericGrammar())
	unit := domain.Declaration{Kind: domain.KindUnit, Name: "lib/math.js", Doc: documented("Math helpers.")}

	warnings := v.Validate(unit, true)
	assert.Equal(t, []domain.WarningCode{domain.WarnMissingAuthor}, codes(warnings))

	unit.Doc.Author = domain.Scalar("Jane")
	assert.Empty(t, v.Validate(unit, true))
	assert.Empty(t, v.Validate(domain.Declaration{Kind: domain.KindUnit, Name: "x", Doc: documented("X.")}, false))
}

func TestValidate_ParamsOnlyForFunctions(t *testing.T) {
	v := New(analyzer.GenericGrammar())
	decl := domain.Declaration{Kind: domain.KindClass, Name: "Foo", Args: "extends Bar", Doc: documented("Foo.")}

	assert.Empty(t, v.Validate(decl, false))
}

func TestVariables(t *testing.T) {
	generic := New(analyzer.GenericGrammar())
	assert.Equal(t, []string{"path", "opts", "retries"}, generic.Variables("path, opts: Options, retries = 3"))
	assert.Nil(t, generic.Variables("  "))

	php := New(analyzer.PHPGrammar())
	assert.Equal(t, []string{"$items", "$flags"}, php.Variables("array &$items, int $flags = SORT_REGULAR"))
}

func TestNew_NilGrammarPanics(t *testing.T) {
	assert.Panics(t, func() { New(nil) })
}
