package usecase

import (
	"strings"

	"github.com/avoskres/plainlegal/internal/core/domain"
)

var severityWeights = map[domain.Severity]int{
	domain.SeverityLow:      5,
	domain.SeverityMedium:   15,
	domain.SeverityHigh:     25,
	domain.SeverityCritical: 40,
}

const (
	baseRiskScore        = 30
	financialWeight      = 5
	terminationWeight    = 10
	complianceWeight     = 5
	contextSnippetLength = 200
)

// aggregateRisks folds per-clause risk results into one document-level
// analysis. It is pure: same inputs, same output, no model calls.
func aggregateRisks(clauses []domain.Clause, clauseRisks []domain.ClauseRisk) domain.RiskAnalysis {
	analysis := domain.RiskAnalysis{
		Categories: make(map[domain.Severity]int),
	}

	for i, clause := range clauses {
		risk := clauseRisks[i]
		analysis.Categories[risk.Severity]++

		if risk.Severity == domain.SeverityHigh || risk.Severity == domain.SeverityCritical {
			analysis.HighRiskClauses = append(analysis.HighRiskClauses, domain.HighRiskClause{
				Section:  clause.SectionIndex,
				Type:     clause.ClauseType,
				Text:     clause.SimplifiedText,
				Risks:    risk.Risks,
				Severity: risk.Severity,
			})
		}

		context := contextSnippet(clause.SimplifiedText)
		appendItems(&analysis.Deadlines, clause.SectionIndex, risk.Deadlines, context)
		appendItems(&analysis.FinancialObligations, clause.SectionIndex, risk.Financial, context)
		appendItems(&analysis.TerminationRisks, clause.SectionIndex, risk.Termination, context)
		appendItems(&analysis.ComplianceRequirements, clause.SectionIndex, risk.Compliance, context)
	}

	analysis.OverallScore = riskScore(analysis)
	return analysis
}

// riskScore reproduces the fixed scoring formula:
// 30 + Σ weight(severity)×count + 5×financial + 10×termination + 5×compliance,
// clamped to [0, 100].
func riskScore(analysis domain.RiskAnalysis) int {
	score := baseRiskScore
	for severity, count := range analysis.Categories {
		score += severityWeights[severity] * count
	}
	score += financialWeight * len(analysis.FinancialObligations)
	score += terminationWeight * len(analysis.TerminationRisks)
	score += complianceWeight * len(analysis.ComplianceRequirements)

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}

// appendItems collects non-empty items, skipping a literal "none" the model
// sometimes emits for an empty category.
func appendItems(list *[]domain.RiskItem, section int, items []string, context string) {
	for _, item := range items {
		if item == "" || strings.EqualFold(item, "none") {
			continue
		}
		*list = append(*list, domain.RiskItem{
			Section: section,
			Item:    item,
			Context: context,
		})
	}
}

func contextSnippet(text string) string {
	if len(text) > contextSnippetLength {
		return text[:contextSnippetLength] + "..."
	}
	return text
}
