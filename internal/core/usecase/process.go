package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/avoskres/plainlegal/internal/core/domain"
	"github.com/avoskres/plainlegal/internal/core/ports"
)

// ProcessDocumentUseCase runs the analysis pipeline for one queued
// document: extract, section, classify, annotate, simplify, score, store.
// Model failures on a single section degrade to keyword fallbacks; only
// extraction and persistence failures fail the document.
type ProcessDocumentUseCase struct {
	docs       ports.DocumentRepository
	clauses    ports.ClauseRepository
	extractor  ports.TextExtractor
	normalizer func(string) string
	sectioner  ports.Sectioner
	entities   ports.EntityExtractor
	docTyper   ports.DocumentTypeClassifier
	annotator  ports.ClauseAnnotator
	simplifier ports.ClauseSimplifier
	risk       ports.RiskAnalyzer
	observer   ports.PipelineObserver
}

func NewProcessDocumentUseCase(
	docs ports.DocumentRepository,
	clauses ports.ClauseRepository,
	extractor ports.TextExtractor,
	normalizer func(string) string,
	sectioner ports.Sectioner,
	entities ports.EntityExtractor,
	docTyper ports.DocumentTypeClassifier,
	annotator ports.ClauseAnnotator,
	simplifier ports.ClauseSimplifier,
	risk ports.RiskAnalyzer,
) *ProcessDocumentUseCase {
	return &ProcessDocumentUseCase{
		docs:       docs,
		clauses:    clauses,
		extractor:  extractor,
		normalizer: normalizer,
		sectioner:  sectioner,
		entities:   entities,
		docTyper:   docTyper,
		annotator:  annotator,
		simplifier: simplifier,
		risk:       risk,
	}
}

// SetObserver attaches processing telemetry. The worker wires its metrics
// here; the pipeline runs the same without one.
func (uc *ProcessDocumentUseCase) SetObserver(observer ports.PipelineObserver) {
	uc.observer = observer
}

func (uc *ProcessDocumentUseCase) observeSections(count int) {
	if uc.observer != nil {
		uc.observer.ObserveSections(count)
	}
}

func (uc *ProcessDocumentUseCase) recordFallback(stage string) {
	if uc.observer != nil {
		uc.observer.RecordFallback(stage)
	}
}

func (uc *ProcessDocumentUseCase) Process(ctx context.Context, documentID string) error {
	doc, err := uc.docs.GetByID(ctx, documentID)
	if err != nil {
		return fmt.Errorf("fetch document by id: %w", err)
	}
	if doc.Status.IsTerminal() {
		slog.Info("skip_terminal_document", "document_id", documentID, "status", doc.Status)
		return nil
	}

	if err := uc.runPipeline(ctx, doc); err != nil {
		if failErr := uc.docs.UpdateStatus(ctx, documentID, domain.StatusFailed, err.Error()); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.docs.UpdateStatus(ctx, documentID, domain.StatusCompleted, ""); err != nil {
		return fmt.Errorf("set status=completed: %w", err)
	}
	return nil
}

func (uc *ProcessDocumentUseCase) runPipeline(ctx context.Context, doc *domain.Document) error {
	text, err := uc.extractText(ctx, doc)
	if err != nil {
		return err
	}

	sections := uc.sectioner.Split(uc.normalizer(text))
	if len(sections) == 0 {
		return domain.WrapError(domain.ErrInvalidInput, "split sections", errors.New("no usable sections"))
	}
	uc.observeSections(len(sections))

	// Entities are advisory; a failure here would only lose metadata, and
	// the extractor is pure so it cannot fail.
	ents := uc.entities.Extract(text)
	slog.Info("entities_extracted",
		"document_id", doc.ID,
		"dates", len(ents.Dates),
		"amounts", len(ents.Amounts),
		"parties", len(ents.Parties),
	)

	docType := uc.classifyDocumentType(ctx, doc.Filename, text)
	clauses := uc.buildClauses(ctx, doc.ID, sections)

	clauseRisks := make([]domain.ClauseRisk, len(clauses))
	for i, clause := range clauses {
		clauseRisks[i] = uc.analyzeClauseRisk(ctx, clause)
	}
	analysis := aggregateRisks(clauses, clauseRisks)

	summary := uc.summarize(ctx, docType, clauses)

	if err := uc.clauses.CreateBatch(ctx, clauses); err != nil {
		return fmt.Errorf("store clauses: %w", err)
	}
	if err := uc.docs.SaveResults(ctx, doc.ID, docType, summary, analysis.OverallScore); err != nil {
		return fmt.Errorf("save analysis results: %w", err)
	}
	return nil
}

func (uc *ProcessDocumentUseCase) extractText(ctx context.Context, doc *domain.Document) (string, error) {
	text, err := uc.extractor.Extract(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("extract text: %w", err)
	}
	if text == "" {
		return "", domain.WrapError(domain.ErrInvalidInput, "extract text", errors.New("empty extracted text"))
	}
	if err := uc.docs.SaveRawText(ctx, doc.ID, text); err != nil {
		return "", fmt.Errorf("save raw text: %w", err)
	}
	return text, nil
}

func (uc *ProcessDocumentUseCase) classifyDocumentType(ctx context.Context, filename, text string) string {
	docType, err := uc.docTyper.ClassifyType(ctx, filename, text)
	if err != nil {
		slog.Warn("document_type_fallback", "filename", filename, "error", err)
		uc.recordFallback("doctype")
		return fallbackDocumentType(filename, text)
	}
	return docType
}

// buildClauses annotates and simplifies every section. Each section fails
// independently: annotation errors use the keyword fallback, simplification
// errors keep the original text under the original sentinel level.
func (uc *ProcessDocumentUseCase) buildClauses(ctx context.Context, documentID string, sections []domain.Section) []domain.Clause {
	now := time.Now().UTC()

	clauses := make([]domain.Clause, 0, len(sections))
	for _, section := range sections {
		annotation, err := uc.annotator.Annotate(ctx, section.Text)
		if err != nil {
			slog.Warn("annotation_fallback", "document_id", documentID, "section", section.Index, "error", err)
			uc.recordFallback("annotate")
			annotation = fallbackAnnotate(section.Text)
		}

		simplified, level := uc.simplify(ctx, documentID, section, annotation.Type)

		clauses = append(clauses, domain.Clause{
			ID:                  uuid.NewString(),
			DocumentID:          documentID,
			SectionIndex:        section.Index,
			OriginalText:        section.Text,
			SimplifiedText:      simplified,
			SimplificationLevel: level,
			ClauseType:          annotation.Type,
			RiskLevel:           annotation.RiskLevel,
			Confidence:          annotation.Confidence,
			KeyPhrases:          annotation.KeyPhrases,
			Deadlines:           annotation.Deadlines,
			Obligations:         annotation.Obligations,
			CreatedAt:           now,
		})
	}
	return clauses
}

func (uc *ProcessDocumentUseCase) simplify(ctx context.Context, documentID string, section domain.Section, clauseType domain.ClauseType) (string, domain.SimplificationLevel) {
	simplified, err := uc.simplifier.Simplify(ctx, section.Text, clauseType, domain.LevelGeneral)
	if err != nil || simplified == "" {
		slog.Warn("simplification_fallback", "document_id", documentID, "section", section.Index, "error", err)
		uc.recordFallback("simplify")
		return section.Text, domain.LevelOriginal
	}
	return simplified, domain.LevelGeneral
}

func (uc *ProcessDocumentUseCase) analyzeClauseRisk(ctx context.Context, clause domain.Clause) domain.ClauseRisk {
	risk, err := uc.risk.AnalyzeClause(ctx, clause)
	if err != nil {
		slog.Warn("clause_risk_fallback", "document_id", clause.DocumentID, "section", clause.SectionIndex, "error", err)
		uc.recordFallback("risk")
		return fallbackClauseRisk(clause)
	}
	return risk
}

func (uc *ProcessDocumentUseCase) summarize(ctx context.Context, docType string, clauses []domain.Clause) string {
	summary, err := uc.simplifier.Summarize(ctx, docType, clauses)
	if err != nil || summary == "" {
		slog.Warn("summary_fallback", "doc_type", docType, "error", err)
		uc.recordFallback("summary")
		return fallbackSummary(docType, len(clauses))
	}
	return summary
}
