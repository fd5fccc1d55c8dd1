package validator

import (
	"fmt"
	"strings"

	"github.com/jjmejia/micode-manager-sub000/internal/domain"
)

// Validator reports advisory documentation gaps. It never fails.
type Validator struct {
	grammar *domain.LexicalGrammar
	ignore  map[string]bool
}

func New(grammar *domain.LexicalGrammar) *Validator {
	if grammar == nil {
		panic("validator: nil grammar")
	}
	ignore := make(map[string]bool, len(grammar.Ignore))
	for _, name := range grammar.Ignore {
		ignore[strings.ToLower(name)] = true
	}
	return &Validator{grammar: grammar, ignore: ignore}
}

// Validate checks decl. isMain marks the unit-level block, which must also
// carry an author.
func (v *Validator) Validate(decl domain.Declaration, isMain bool) []domain.Warning {
	var warnings []domain.Warning
	target := decl.Name

	if decl.Doc.Summary == "" && !v.ignored(decl) {
		warnings = append(warnings, domain.Warning{
			Target:  target,
			Code:    domain.WarnMissingSummary,
			Message: fmt.Sprintf("%s %s has no summary", decl.Kind, target),
		})
	}
	if isMain && decl.Doc.Author.IsZero() {
		warnings = append(warnings, domain.Warning{
			Target:  target,
			Code:    domain.WarnMissingAuthor,
			Message: fmt.Sprintf("%s has no author", target),
		})
	}
	if decl.Kind == domain.KindFunction {
		warnings = append(warnings, v.params(decl)...)
	}
	return warnings
}

func (v *Validator) ignored(decl domain.Declaration) bool {
	return v.ignore[strings.ToLower(string(decl.Kind))] || v.ignore[strings.ToLower(decl.Name)]
}

func (v *Validator) params(decl domain.Declaration) []domain.Warning {
	names := v.Variables(decl.Args)
	if len(names) == 0 {
		return nil
	}
	if len(decl.Doc.Params) == 0 {
		return []domain.Warning{{
			Target:  decl.Name,
			Code:    domain.WarnMissingParams,
			Message: fmt.Sprintf("%s documents none of its parameters (%s)", decl.Name, strings.Join(names, ", ")),
		}}
	}

	var warnings []domain.Warning
	for _, name := range names {
		if _, ok := decl.Doc.Param(name); ok {
			continue
		}
		warnings = append(warnings, domain.Warning{
			Target:  decl.Name,
			Code:    domain.WarnMissingParam,
			Message: fmt.Sprintf("%s does not document parameter %s", decl.Name, name),
		})
	}
	return warnings
}

// Variables lists the formal parameter names found in args, in order and
// without duplicates.
func (v *Validator) Variables(args string) []string {
	pattern := v.grammar.VariablePattern
	if pattern == nil || strings.TrimSpace(args) == "" {
		return nil
	}
	var names []string
	seen := make(map[string]bool)
	for _, m := range pattern.FindAllStringSubmatch(args, -1) {
		name := m[0]
		if len(m) > 1 {
			name = m[1]
		}
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}
