package domain

import (
	"fmt"
	"strings"
)

// NewDocumentModel returns an empty model for identity with fresh provenance.
func NewDocumentModel(identity string) *DocumentModel {
	return &DocumentModel{
		Identity:     identity,
		Declarations: []Declaration{},
		Index:        map[string]int{},
		Provenance:   ProvenanceFresh,
	}
}

// FailedModel returns an empty model carrying a single error.
func FailedModel(identity string, err error) *DocumentModel {
	m := NewDocumentModel(identity)
	m.Errors = append(m.Errors, err.Error())
	return m
}

// IsEmpty reports whether no summary, description or tag was recorded.
func (d DocBlock) IsEmpty() bool {
	return d.Summary == "" && d.Description == "" && len(d.Params) == 0 &&
		d.Return == nil && d.Author.IsZero() && d.Since.IsZero() &&
		d.Version.IsZero() && d.Todo.IsZero() && d.Link.IsZero() && len(d.Other) == 0
}

// Param returns the documented parameter with the given name.
func (d DocBlock) Param(name string) (Param, bool) {
	for _, p := range d.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// AddDeclaration appends decl and indexes it by lower-cased name. The first
// declaration of a name keeps the index slot.
func (m *DocumentModel) AddDeclaration(decl Declaration) {
	m.Declarations = append(m.Declarations, decl)
	key := strings.ToLower(decl.Name)
	if _, exists := m.Index[key]; !exists {
		m.Index[key] = len(m.Declarations) - 1
	}
}

// Lookup finds a declaration by name, ignoring case.
func (m *DocumentModel) Lookup(name string) (Declaration, bool) {
	idx, ok := m.Index[strings.ToLower(name)]
	if !ok || idx < 0 || idx >= len(m.Declarations) {
		return Declaration{}, false
	}
	return m.Declarations[idx], true
}

// Filter returns a copy of the model narrowed to the named declaration,
// keeping the main block and unit-level warnings. An unknown name yields a
// model with no declarations and one extra error.
func (m *DocumentModel) Filter(name string) *DocumentModel {
	out := m.WithProvenance(m.Provenance)
	out.Target = name
	out.Declarations = []Declaration{}
	out.Index = map[string]int{}
	out.Errors = append([]string(nil), m.Errors...)
	out.MainAttached = false

	decl, ok := m.Lookup(name)
	if !ok {
		out.Errors = append(out.Errors, fmt.Sprintf("declaration %q not found in %s", name, m.Identity))
		out.Warnings = nil
		return out
	}
	out.AddDeclaration(decl)

	// an attached main block belongs to the first declaration; any other
	// detail view shows it on its own
	out.MainAttached = m.MainAttached && m.Index[strings.ToLower(name)] == 0

	var warnings []Warning
	for _, w := range m.Warnings {
		if strings.EqualFold(w.Target, decl.Name) || w.Target == m.Identity {
			warnings = append(warnings, w)
		}
	}
	out.Warnings = warnings
	return out
}

// WithProvenance returns a shallow copy tagged with p.
func (m *DocumentModel) WithProvenance(p Provenance) *DocumentModel {
	out := *m
	out.Provenance = p
	return &out
}
