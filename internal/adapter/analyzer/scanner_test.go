package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jjmejia/micode-manager-sub000/internal/domain"
)

func TestScan_EndToEndExample(t *testing.T) {
	src := `/**
 * Adds two integers.
 * @param int a First addend.
 * @param int b Second addend.
 * @return int Sum of both addends.
 */
function add(a, b) { }
`
	res := NewScanner(GenericGrammar()).Scan(src, false)

	require.NoError(t, res.Err)
	require.Len(t, res.Declarations, 1)
	decl := res.Declarations[0]
	assert.Equal(t, domain.KindFunction, decl.Kind)
	assert.Equal(t, "add", decl.Name)
	assert.Equal(t, "a, b", decl.Args)
	assert.Equal(t, 7, decl.Line)
	assert.True(t, decl.HasDoc)
	assert.Contains(t, decl.Doc, "Adds two integers.")

	assert.True(t, res.HasMain)
	assert.True(t, res.MainAttached)
	assert.Equal(t, decl.Doc, res.Main)
}

func TestScan_StringLiteralsHideSeparators(t *testing.T) {
	src := "var s = \"a { b; \\\" function x() c\";\n/** Doc. */\nfunction f() {}"
	res := NewScanner(GenericGrammar()).Scan(src, false)

	require.Len(t, res.Declarations, 1)
	assert.Equal(t, "f", res.Declarations[0].Name)
	assert.Equal(t, " Doc. ", res.Declarations[0].Doc)
}

func TestScan_EmptyBlockCommentIsNotDoc(t *testing.T) {
	res := NewScanner(GenericGrammar()).Scan("/**/ function f() {}", false)

	assert.False(t, res.HasMain)
	require.Len(t, res.Declarations, 1)
	assert.False(t, res.Declarations[0].HasDoc)
}

func TestScan_PlainCommentsDiscarded(t *testing.T) {
	src := `// function hidden() {
/* function alsoHidden() { */
function shown() {}`
	res := NewScanner(GenericGrammar()).Scan(src, false)

	require.Len(t, res.Declarations, 1)
	assert.Equal(t, "shown", res.Declarations[0].Name)
	assert.Equal(t, 3, res.Declarations[0].Line)
}

func TestScan_OrphanDocCommentDiscarded(t *testing.T) {
	src := `/** Main. */
function a() {}
/** Orphan. */
x = 1;
function b() {}
/** Trailing orphan. */
`
	res := NewScanner(GenericGrammar()).Scan(src, false)

	require.Len(t, res.Declarations, 2)
	assert.Equal(t, " Main. ", res.Declarations[0].Doc)
	assert.False(t, res.Declarations[1].HasDoc)
	assert.Empty(t, res.Declarations[1].Doc)
	assert.Equal(t, " Main. ", res.Main)
}

func TestScan_NewDocReplacesPending(t *testing.T) {
	src := `function first() {}
/** Stale. */
/** Fresh. */
function second() {}`
	res := NewScanner(GenericGrammar()).Scan(src, false)

	require.Len(t, res.Declarations, 2)
	assert.False(t, res.HasMain)
	assert.Equal(t, " Fresh. ", res.Declarations[1].Doc)
}

func TestScan_SummaryOnly(t *testing.T) {
	src := "/** First. */ function a() {} /** Second. */ function b() {}"
	res := NewScanner(GenericGrammar()).Scan(src, true)

	assert.True(t, res.HasMain)
	assert.Equal(t, " First. ", res.Main)
	assert.Nil(t, res.Declarations)
	assert.False(t, res.MainAttached)

	late := NewScanner(GenericGrammar()).Scan("function a() {} /** Late. */", true)
	assert.False(t, late.HasMain)
}

func TestScan_TrailingDeclarationWithoutSeparator(t *testing.T) {
	res := NewScanner(GenericGrammar()).Scan("/** Doc. */\nfunction tail(x)", false)

	require.Len(t, res.Declarations, 1)
	assert.Equal(t, "tail", res.Declarations[0].Name)
	assert.Equal(t, "x", res.Declarations[0].Args)
}

func TestScan_ModifiersAndClassArgs(t *testing.T) {
	src := `export default async function load(path, opts) {}
class Foo extends Bar {
  static helper() {}
}`
	res := NewScanner(GenericGrammar()).Scan(src, false)

	require.Len(t, res.Declarations, 2)
	assert.Equal(t, "load", res.Declarations[0].Name)
	assert.Equal(t, "path, opts", res.Declarations[0].Args)
	assert.Equal(t, domain.KindClass, res.Declarations[1].Kind)
	assert.Equal(t, "Foo", res.Declarations[1].Name)
	assert.Equal(t, "extends Bar", res.Declarations[1].Args)
}

func TestScan_SeparatorsInsideArgumentsDeferred(t *testing.T) {
	src := `/** Loads. */
function load(path, opts = {}, cb = function () { return; }) {
  run();
}
function next(a) {}`
	res := NewScanner(GenericGrammar()).Scan(src, false)

	require.Len(t, res.Declarations, 2)
	assert.Equal(t, "load", res.Declarations[0].Name)
	assert.Equal(t, "path, opts = {}, cb = function () { return; }", res.Declarations[0].Args)
	assert.True(t, res.Declarations[0].HasDoc)
	assert.Equal(t, "next", res.Declarations[1].Name)
	assert.Equal(t, "a", res.Declarations[1].Args)
}

func TestScan_PHPCodeRegions(t *testing.T) {
	src := `<html>
<?php
/**
 * Main.
 * @author A
 */
namespace App;
/** Run it. */
public static function run($x) { return 1; }
# function commented() {
?>
<p>function notCode() {}</p>`
	res := NewScanner(PHPGrammar()).Scan(src, false)

	require.NoError(t, res.Err)
	require.Len(t, res.Declarations, 2)
	assert.Equal(t, domain.KindNamespace, res.Declarations[0].Kind)
	assert.Equal(t, "App", res.Declarations[0].Name)
	assert.Equal(t, 7, res.Declarations[0].Line)
	assert.Equal(t, "run", res.Declarations[1].Name)
	assert.Equal(t, "$x", res.Declarations[1].Args)
	assert.Equal(t, 9, res.Declarations[1].Line)
	assert.Equal(t, " Run it. ", res.Declarations[1].Doc)

	assert.True(t, res.HasMain)
	assert.False(t, res.MainAttached)
}

func TestScan_PHPLineCommentEndsAtRegionClose(t *testing.T) {
	res := NewScanner(PHPGrammar()).Scan("<?php // note ?> text <?php function f() {}", false)

	require.Len(t, res.Declarations, 1)
	assert.Equal(t, "f", res.Declarations[0].Name)
}

func TestScan_PHPLineCommentIgnoresLaterRegionClose(t *testing.T) {
	var b strings.Builder
	b.WriteString("<?php\n")
	for i := 0; i < 2000; i++ {
		b.WriteString("// note\n")
	}
	b.WriteString("function f($a) {}\n?>\n<p>function notCode() {}</p>")
	res := NewScanner(PHPGrammar()).Scan(b.String(), false)

	require.Len(t, res.Declarations, 1)
	assert.Equal(t, "f", res.Declarations[0].Name)
	assert.Equal(t, 2002, res.Declarations[0].Line)
}

func TestScan_NoCodeRegion(t *testing.T) {
	res := NewScanner(PHPGrammar()).Scan("just some text, function f() {}", false)

	assert.ErrorIs(t, res.Err, ErrNoCodeRegion)
	assert.Empty(t, res.Declarations)
}

func TestScan_Idempotent(t *testing.T) {
	src := "/** A. */ function a(x) {} /** B. */ class B {}"
	s := NewScanner(GenericGrammar())

	assert.Equal(t, s.Scan(src, false), s.Scan(src, false))
}

func TestNewScanner_NilGrammarPanics(t *testing.T) {
	assert.Panics(t, func() { NewScanner(nil) })
}
