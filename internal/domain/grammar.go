package domain

import "regexp"

// Region is a pair of open/close markers.
type Region struct {
	Open  string
	Close string
}

// DeclKeyword describes one declaration keyword the scanner recognizes.
type DeclKeyword struct {
	Keyword   string
	Kind      DeclKind
	ArgsOpen  string
	ArgsClose string
	// FreeArgs declarations keep everything after the name as args
	// (inheritance and interface clauses) instead of a delimited list.
	FreeArgs bool
}

// TagGrammar holds the markers and sub-grammars of doc comment bodies.
type TagGrammar struct {
	LineMarker string
	TagStart   string
	ParamTag   string
	ReturnTag  string
	// ParamPattern captures type, variable name and an optional description.
	ParamPattern *regexp.Regexp
	// ReturnPattern captures type and an optional description.
	ReturnPattern *regexp.Regexp
}

// LexicalGrammar is the marker table for one source syntax. It is built once
// and shared read-only by every scan.
type LexicalGrammar struct {
	Name string

	// CodeRegions delimit code inside template material. Empty means the
	// whole input is code.
	CodeRegions  []Region
	LineComments []string
	BlockComment Region
	Quotes       string
	Escape       byte

	Declarations []DeclKeyword
	Modifiers    []string

	BlockOpen    string
	BlockClose   string
	StatementEnd string

	// Ignore lists declaration kinds and names exempt from the
	// missing-summary rule.
	Ignore []string

	// VariablePattern finds formal parameter names in argument text. When
	// the pattern has a capture group, group 1 is the name.
	VariablePattern *regexp.Regexp

	Tags TagGrammar
}
