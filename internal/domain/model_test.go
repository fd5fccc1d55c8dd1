package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func modelWithAttachedMain() *DocumentModel {
	m := NewDocumentModel("Mailer.php")
	m.Main = DocBlock{Summary: "Mailer utilities."}
	m.MainAttached = true
	m.AddDeclaration(Declaration{Kind: KindClass, Name: "Mailer", Doc: m.Main})
	m.AddDeclaration(Declaration{Kind: KindFunction, Name: "send"})
	m.Warnings = []Warning{
		{Target: "send", Code: WarnMissingSummary},
		{Target: "Mailer", Code: WarnMissingAuthor},
	}
	return m
}

func TestFilter_MainAttachment(t *testing.T) {
	m := modelWithAttachedMain()

	owner := m.Filter("MAILER")
	assert.True(t, owner.MainAttached)
	require.Len(t, owner.Declarations, 1)
	assert.Equal(t, "Mailer", owner.Declarations[0].Name)

	other := m.Filter("send")
	assert.False(t, other.MainAttached)
	assert.Equal(t, "Mailer utilities.", other.Main.Summary)
	assert.Equal(t, []Warning{{Target: "send", Code: WarnMissingSummary}}, other.Warnings)

	missing := m.Filter("nope")
	assert.False(t, missing.MainAttached)
	assert.Empty(t, missing.Declarations)
	assert.Len(t, missing.Errors, 1)

	// the source model is untouched
	assert.True(t, m.MainAttached)
	assert.Len(t, m.Declarations, 2)
}

func TestFilter_KeepsUnitWarnings(t *testing.T) {
	m := NewDocumentModel("lib.php")
	m.AddDeclaration(Declaration{Kind: KindFunction, Name: "f"})
	m.AddDeclaration(Declaration{Kind: KindFunction, Name: "g"})
	m.Warnings = []Warning{
		{Target: "lib.php", Code: WarnMissingAuthor},
		{Target: "f", Code: WarnMissingSummary},
		{Target: "g", Code: WarnMissingSummary},
	}

	got := m.Filter("g").Warnings
	assert.Equal(t, []Warning{
		{Target: "lib.php", Code: WarnMissingAuthor},
		{Target: "g", Code: WarnMissingSummary},
	}, got)
}
