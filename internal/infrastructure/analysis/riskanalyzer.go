package analysis

import (
	"context"

	"github.com/avoskres/plainlegal/internal/core/domain"
	"github.com/avoskres/plainlegal/internal/core/ports"
)

const maxRecommendations = 5

type RiskAnalyzer struct {
	gen ports.TextGenerator
}

func NewRiskAnalyzer(gen ports.TextGenerator) *RiskAnalyzer {
	return &RiskAnalyzer{gen: gen}
}

func (r *RiskAnalyzer) AnalyzeClause(ctx context.Context, clause domain.Clause) (domain.ClauseRisk, error) {
	response, err := r.gen.Generate(ctx, buildClauseRiskPrompt(clause))
	if err != nil {
		return domain.ClauseRisk{}, err
	}
	return parseClauseRisk(response), nil
}

// Recommendations summarizes the numeric risk profile into at most five
// actionable bullets. Lines without a bullet or number marker are dropped.
func (r *RiskAnalyzer) Recommendations(ctx context.Context, docType string, analysis domain.RiskAnalysis) ([]string, error) {
	response, err := r.gen.Generate(ctx, buildRecommendationsPrompt(docType, analysis))
	if err != nil {
		return nil, err
	}
	return parseBulletLines(response, maxRecommendations), nil
}
