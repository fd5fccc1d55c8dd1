package usecase

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jjmejia/micode-manager-sub000/internal/adapter/analyzer"
	"github.com/jjmejia/micode-manager-sub000/internal/adapter/cache"
	"github.com/jjmejia/micode-manager-sub000/internal/adapter/fs"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

func TestAudit(t *testing.T) {
	root := writeTree(t, map[string]string{
		"lib/good.php": "<?php\n/**\n * Good module.\n * @author Ana\n */\nnamespace Lib;\n",
		"lib/bad.php":  "<?php\nfunction undocumented($a) {}\n",
		"lib/page.php": "<html>no code</html>",
		"notes.txt":    "ignored",
	})

	g := analyzer.PHPGrammar()
	u := NewAuditUseCase(fs.NewWalker([]string{"**/*.php"}, nil), NewExtractUseCase(g))

	var calls int
	result, err := u.Audit(root, func(done, total int) {
		calls++
		assert.Equal(t, 3, total)
	})
	require.NoError(t, err)

	assert.Equal(t, 3, calls)
	assert.Equal(t, 3, result.FilesScanned)
	assert.False(t, result.Clean())
	assert.Equal(t, 1, result.Errors)
	assert.Equal(t, 3, result.Provenance["fresh"])

	byName := make(map[string]UnitReport)
	for _, r := range result.Units {
		byName[filepath.Base(r.Identity)] = r
	}
	assert.Empty(t, byName["good.php"].Warnings)
	assert.Equal(t, "Good module.", byName["good.php"].Summary)
	assert.Len(t, byName["page.php"].Errors, 1)
	// unit summary, unit author, function summary, function params
	assert.Len(t, byName["bad.php"].Warnings, 4)
	assert.Equal(t, 1, byName["bad.php"].Declarations)
	assert.Equal(t, 4, result.Warnings)
}

func TestAudit_SecondRunServedFromCache(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.js": addSource,
	})
	g := analyzer.GenericGrammar()
	c := cache.NewDocCache(nil, CacheMarker(g))
	u := NewAuditUseCase(fs.NewWalker([]string{"**/*.js"}, nil), NewExtractUseCase(g, WithCache(c)))

	first, err := u.Audit(root, nil)
	require.NoError(t, err)
	assert.True(t, first.Clean())

	second, err := u.Audit(root, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, second.Provenance["memory-cache"])
}

func TestAudit_WalkError(t *testing.T) {
	u := NewAuditUseCase(fs.NewWalker(nil, nil), NewExtractUseCase(analyzer.GenericGrammar()))
	_, err := u.Audit(filepath.Join(t.TempDir(), "missing"), nil)
	assert.Error(t, err)
}

func TestSummaries(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.php": "<?php\n/** Mailer. */\n",
		"b.php": "<?php\nfunction f() {}\n",
	})
	u := NewSummaryUseCase(fs.NewWalker([]string{"*.php"}, nil), NewExtractUseCase(analyzer.PHPGrammar()))

	summaries, err := u.Summaries(root, nil)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "Mailer.", summaries[0].Summary)
	assert.Empty(t, summaries[1].Summary)
	assert.Empty(t, summaries[1].Error)
}
