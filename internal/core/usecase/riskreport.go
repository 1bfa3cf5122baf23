package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/avoskres/plainlegal/internal/core/domain"
	"github.com/avoskres/plainlegal/internal/core/ports"
)

// RiskReportUseCase builds the on-demand risk report for a completed
// document: every clause is re-assessed, the results are folded into a
// single aggregate and closed with model recommendations.
type RiskReportUseCase struct {
	docs    ports.DocumentRepository
	clauses ports.ClauseRepository
	risk    ports.RiskAnalyzer
}

func NewRiskReportUseCase(docs ports.DocumentRepository, clauses ports.ClauseRepository, risk ports.RiskAnalyzer) *RiskReportUseCase {
	return &RiskReportUseCase{docs: docs, clauses: clauses, risk: risk}
}

func (uc *RiskReportUseCase) RiskReport(ctx context.Context, ownerID, documentID string) (*domain.RiskAnalysis, error) {
	if ownerID == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "risk report", errors.New("missing owner id"))
	}
	doc, err := uc.docs.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc.OwnerID != ownerID {
		return nil, domain.WrapError(domain.ErrUnauthorized, "risk report", errors.New("document belongs to another user"))
	}
	if doc.Status != domain.StatusCompleted {
		return nil, domain.WrapError(domain.ErrInvalidInput, "risk report", errors.New("document analysis is not complete"))
	}

	clauses, err := uc.clauses.ListByDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	clauseRisks := make([]domain.ClauseRisk, len(clauses))
	for i, clause := range clauses {
		risk, err := uc.risk.AnalyzeClause(ctx, clause)
		if err != nil {
			slog.Warn("clause_risk_fallback", "document_id", documentID, "section", clause.SectionIndex, "error", err)
			risk = fallbackClauseRisk(clause)
		}
		clauseRisks[i] = risk
	}

	analysis := aggregateRisks(clauses, clauseRisks)
	analysis.Recommendations = uc.recommendations(ctx, doc.DocumentType, analysis)
	return &analysis, nil
}

func (uc *RiskReportUseCase) recommendations(ctx context.Context, docType string, analysis domain.RiskAnalysis) []string {
	recs, err := uc.risk.Recommendations(ctx, docType, analysis)
	if err != nil || len(recs) == 0 {
		slog.Warn("recommendations_fallback", "doc_type", docType, "error", err)
		return fallbackRecommendations(analysis.OverallScore)
	}
	return recs
}
