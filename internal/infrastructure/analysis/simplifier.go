package analysis

import (
	"context"

	"github.com/avoskres/plainlegal/internal/core/domain"
	"github.com/avoskres/plainlegal/internal/core/ports"
)

type Simplifier struct {
	gen ports.TextGenerator
}

func NewSimplifier(gen ports.TextGenerator) *Simplifier {
	return &Simplifier{gen: gen}
}

func (s *Simplifier) Simplify(ctx context.Context, text string, clauseType domain.ClauseType, level domain.SimplificationLevel) (string, error) {
	return s.gen.Generate(ctx, buildSimplificationPrompt(text, clauseType, level))
}

func (s *Simplifier) Summarize(ctx context.Context, docType string, clauses []domain.Clause) (string, error) {
	return s.gen.Generate(ctx, buildSummaryPrompt(docType, clauses))
}

// ActionItems asks for a bullet checklist over obligation-bearing clauses.
// Non-bullet lines in the response are discarded.
func (s *Simplifier) ActionItems(ctx context.Context, clauses []domain.Clause) ([]string, error) {
	if len(clauses) == 0 {
		return nil, nil
	}
	response, err := s.gen.Generate(ctx, buildActionItemsPrompt(clauses))
	if err != nil {
		return nil, err
	}
	return parseBulletLines(response, 0), nil
}
