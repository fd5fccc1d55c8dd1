package usecase

import (
	"fmt"

	"github.com/jjmejia/micode-manager-sub000/internal/domain"
	"github.com/jjmejia/micode-manager-sub000/internal/port"
)

// ProgressFunc is called after each unit with the number done and the total.
type ProgressFunc func(done, total int)

// AuditUseCase checks documentation completeness across a directory tree.
type AuditUseCase struct {
	walker  port.FileWalker
	extract *ExtractUseCase
}

func NewAuditUseCase(walker port.FileWalker, extract *ExtractUseCase) *AuditUseCase {
	return &AuditUseCase{
		walker:  walker,
		extract: extract,
	}
}

// UnitReport is the audit outcome for one unit.
type UnitReport struct {
	Identity     string            `json:"identity"`
	Summary      string            `json:"summary,omitempty"`
	Declarations int               `json:"declarations"`
	Warnings     []domain.Warning  `json:"warnings,omitempty"`
	Errors       []string          `json:"errors,omitempty"`
	Provenance   domain.Provenance `json:"provenance"`
}

// AuditResult contains the results of an audit run.
type AuditResult struct {
	Units        []UnitReport              `json:"units"`
	FilesScanned int                       `json:"files_scanned"`
	Declarations int                       `json:"declarations"`
	Warnings     int                       `json:"warnings"`
	Errors       int                       `json:"errors"`
	Provenance   map[domain.Provenance]int `json:"provenance"`
}

// Clean reports whether no unit produced warnings or errors.
func (r *AuditResult) Clean() bool {
	return r.Warnings == 0 && r.Errors == 0
}

// Audit extracts every file under root. Per-unit problems are collected in
// the result; only a failing walk is returned as an error.
func (u *AuditUseCase) Audit(root string, progress ProgressFunc) (*AuditResult, error) {
	files, err := u.walker.Walk(root)
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	return u.AuditFiles(paths, progress), nil
}

// AuditFiles audits an explicit list of files in order.
func (u *AuditUseCase) AuditFiles(paths []string, progress ProgressFunc) *AuditResult {
	result := &AuditResult{
		Units:      make([]UnitReport, 0, len(paths)),
		Provenance: make(map[domain.Provenance]int),
	}

	for i, path := range paths {
		model := u.extract.ExtractFile(path)

		report := UnitReport{
			Identity:     model.Identity,
			Summary:      model.Main.Summary,
			Declarations: len(model.Declarations),
			Warnings:     model.Warnings,
			Errors:       model.Errors,
			Provenance:   model.Provenance,
		}
		result.Units = append(result.Units, report)

		// Update totals
		result.FilesScanned++
		result.Declarations += report.Declarations
		result.Warnings += len(report.Warnings)
		result.Errors += len(report.Errors)
		result.Provenance[model.Provenance]++

		if progress != nil {
			progress(i+1, len(paths))
		}
	}

	return result
}
