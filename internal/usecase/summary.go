package usecase

import (
	"fmt"

	"github.com/jjmejia/micode-manager-sub000/internal/domain"
	"github.com/jjmejia/micode-manager-sub000/internal/port"
)

// SummaryUseCase lists the one-line description of every unit under a
// directory, for module list views.
type SummaryUseCase struct {
	walker  port.FileWalker
	extract *ExtractUseCase
}

func NewSummaryUseCase(walker port.FileWalker, extract *ExtractUseCase) *SummaryUseCase {
	return &SummaryUseCase{
		walker:  walker,
		extract: extract,
	}
}

func (u *SummaryUseCase) Summaries(root string, progress ProgressFunc) ([]domain.Summary, error) {
	files, err := u.walker.Walk(root)
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	summaries := make([]domain.Summary, 0, len(files))
	for i, f := range files {
		summaries = append(summaries, u.extract.SummaryFile(f.Path))
		if progress != nil {
			progress(i+1, len(files))
		}
	}
	return summaries, nil
}
