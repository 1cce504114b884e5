package service

import (
	"context"
	"fmt"

	"github.com/prestanaute/backend/internal/repo"
)

// WorksiteService backs the validation form's worksite autocomplete.
type WorksiteService struct {
	worksites repo.WorksiteRepo
}

// NewWorksiteService constructs a WorksiteService backed by the provided repo.
func NewWorksiteService(worksites repo.WorksiteRepo) *WorksiteService {
	return &WorksiteService{worksites: worksites}
}

// Search returns autocomplete tokens ("<id> | <name>") for worksites matching
// the term by name or id. Always returns a non-nil slice; empty means no match.
func (s *WorksiteService) Search(ctx context.Context, term string) ([]string, error) {
	worksites, err := s.worksites.Search(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("service.WorksiteService.Search: %w", err)
	}

	tokens := make([]string, 0, len(worksites))
	for _, w := range worksites {
		tokens = append(tokens, w.Token())
	}
	return tokens, nil
}
