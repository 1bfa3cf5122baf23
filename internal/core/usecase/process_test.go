package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/avoskres/plainlegal/internal/core/domain"
)

func identityNormalizer(text string) string { return text }

func processFixture() (*fakeDocumentRepo, *fakeClauseRepo, *domain.Document) {
	doc := &domain.Document{
		ID:          "doc-1",
		OwnerID:     "user-1",
		Filename:    "lease.pdf",
		StoragePath: "user-1/doc-1/lease.pdf",
		Status:      domain.StatusProcessing,
	}
	return newFakeDocumentRepo(doc), newFakeClauseRepo(), doc
}

func TestProcessHappyPath(t *testing.T) {
	docs, clauses, doc := processFixture()

	sections := []domain.Section{
		domain.NewSection("Tenant shall pay rent by the 1st of each month.", 1, true),
		domain.NewSection("Landlord may terminate with 30 days notice.", 2, true),
	}

	uc := NewProcessDocumentUseCase(
		docs, clauses,
		&stubExtractor{text: "full lease text"},
		identityNormalizer,
		&stubSectioner{sections: sections},
		stubEntityExtractor{},
		&stubDocTyper{result: "Lease Agreement"},
		&stubAnnotator{fn: func(string) (domain.Annotation, error) {
			return domain.Annotation{
				Type:       domain.TypeObligation,
				RiskLevel:  domain.RiskMedium,
				Confidence: 0.9,
			}, nil
		}},
		&stubSimplifier{
			simplifyFn: func(text string, _ domain.ClauseType, _ domain.SimplificationLevel) (string, error) {
				return "Plainly: " + text, nil
			},
			summarizeFn: func(string, []domain.Clause) (string, error) {
				return "A standard lease.", nil
			},
		},
		&stubRiskAnalyzer{analyzeFn: func(domain.Clause) (domain.ClauseRisk, error) {
			return domain.ClauseRisk{Severity: domain.SeverityLow}, nil
		}},
	)

	if err := uc.Process(context.Background(), doc.ID); err != nil {
		t.Fatalf("Process: %v", err)
	}

	if docs.statuses[doc.ID] != domain.StatusCompleted {
		t.Fatalf("status = %q, want completed", docs.statuses[doc.ID])
	}
	if docs.rawText[doc.ID] != "full lease text" {
		t.Errorf("raw text not saved")
	}

	stored, _ := clauses.ListByDocument(context.Background(), doc.ID)
	if len(stored) != 2 {
		t.Fatalf("stored %d clauses, want 2", len(stored))
	}
	for i, clause := range stored {
		if clause.SectionIndex != i+1 {
			t.Errorf("clause %d index = %d", i, clause.SectionIndex)
		}
		if clause.SimplificationLevel != domain.LevelGeneral {
			t.Errorf("clause %d level = %q", i, clause.SimplificationLevel)
		}
		if !strings.HasPrefix(clause.SimplifiedText, "Plainly: ") {
			t.Errorf("clause %d simplified = %q", i, clause.SimplifiedText)
		}
	}

	result := docs.results[doc.ID]
	if result.docType != "Lease Agreement" {
		t.Errorf("doc type = %q", result.docType)
	}
	if result.summary != "A standard lease." {
		t.Errorf("summary = %q", result.summary)
	}
	// base 30 + two low-severity clauses at 5 each
	if result.riskScore != 40 {
		t.Errorf("risk score = %d, want 40", result.riskScore)
	}
}

func TestProcessModelFailuresDegradeToFallbacks(t *testing.T) {
	docs, clauses, doc := processFixture()

	sections := []domain.Section{
		domain.NewSection("The tenant shall pay a penalty fee for late payment.", 1, true),
	}
	modelDown := errors.New("model unavailable")

	uc := NewProcessDocumentUseCase(
		docs, clauses,
		&stubExtractor{text: "text"},
		identityNormalizer,
		&stubSectioner{sections: sections},
		stubEntityExtractor{},
		&stubDocTyper{err: modelDown},
		&stubAnnotator{fn: func(string) (domain.Annotation, error) {
			return domain.Annotation{}, modelDown
		}},
		&stubSimplifier{
			simplifyFn: func(string, domain.ClauseType, domain.SimplificationLevel) (string, error) {
				return "", modelDown
			},
			summarizeFn: func(string, []domain.Clause) (string, error) {
				return "", modelDown
			},
		},
		&stubRiskAnalyzer{analyzeFn: func(domain.Clause) (domain.ClauseRisk, error) {
			return domain.ClauseRisk{}, modelDown
		}},
	)
	observer := &fakeObserver{}
	uc.SetObserver(observer)

	if err := uc.Process(context.Background(), doc.ID); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if docs.statuses[doc.ID] != domain.StatusCompleted {
		t.Fatalf("status = %q, want completed despite model failures", docs.statuses[doc.ID])
	}

	stored, _ := clauses.ListByDocument(context.Background(), doc.ID)
	if len(stored) != 1 {
		t.Fatalf("stored %d clauses, want 1", len(stored))
	}
	clause := stored[0]
	if clause.ClauseType != domain.TypePenalty {
		t.Errorf("fallback clause type = %q, want penalty", clause.ClauseType)
	}
	if clause.Confidence != 0.5 {
		t.Errorf("fallback confidence = %v, want 0.5", clause.Confidence)
	}
	if clause.SimplifiedText != clause.OriginalText {
		t.Errorf("simplified should fall back to original text")
	}
	if clause.SimplificationLevel != domain.LevelOriginal {
		t.Errorf("fallback level = %q, want original", clause.SimplificationLevel)
	}

	result := docs.results[doc.ID]
	if !strings.Contains(result.summary, "This document contains 1 clauses") {
		t.Errorf("fallback summary = %q", result.summary)
	}

	if len(observer.sections) != 1 || observer.sections[0] != 1 {
		t.Errorf("observed sections = %v, want [1]", observer.sections)
	}
	wantStages := []string{"doctype", "annotate", "simplify", "risk", "summary"}
	for _, stage := range wantStages {
		if observer.fallbacks[stage] != 1 {
			t.Errorf("fallback stage %q recorded %d times, want 1", stage, observer.fallbacks[stage])
		}
	}
}

func TestProcessEmptyTextFailsDocument(t *testing.T) {
	docs, clauses, doc := processFixture()

	uc := NewProcessDocumentUseCase(
		docs, clauses,
		&stubExtractor{text: ""},
		identityNormalizer,
		&stubSectioner{},
		stubEntityExtractor{},
		&stubDocTyper{result: "Contract"},
		&stubAnnotator{fn: func(string) (domain.Annotation, error) {
			return domain.Annotation{}, nil
		}},
		&stubSimplifier{},
		&stubRiskAnalyzer{},
	)

	err := uc.Process(context.Background(), doc.ID)
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("err = %v, want invalid input kind", err)
	}
	if docs.statuses[doc.ID] != domain.StatusFailed {
		t.Fatalf("status = %q, want failed", docs.statuses[doc.ID])
	}
	if docs.errorMsg[doc.ID] == "" {
		t.Error("failure reason not recorded")
	}
}

func TestProcessSkipsTerminalDocument(t *testing.T) {
	docs, clauses, _ := processFixture()
	done := &domain.Document{ID: "doc-done", OwnerID: "user-1", Status: domain.StatusCompleted}
	_ = docs.Create(context.Background(), done)

	uc := NewProcessDocumentUseCase(
		docs, clauses, &stubExtractor{text: "should not be read"}, identityNormalizer,
		&stubSectioner{}, stubEntityExtractor{},
		&stubDocTyper{}, &stubAnnotator{fn: func(string) (domain.Annotation, error) {
			return domain.Annotation{}, nil
		}}, &stubSimplifier{}, &stubRiskAnalyzer{},
	)

	if err := uc.Process(context.Background(), done.ID); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if docs.rawText[done.ID] != "" {
		t.Error("terminal document was reprocessed")
	}
}

func TestProcessUnknownDocument(t *testing.T) {
	docs, clauses, _ := processFixture()
	uc := NewProcessDocumentUseCase(
		docs, clauses, &stubExtractor{text: "x"}, identityNormalizer,
		&stubSectioner{}, stubEntityExtractor{},
		&stubDocTyper{}, &stubAnnotator{fn: func(string) (domain.Annotation, error) {
			return domain.Annotation{}, nil
		}}, &stubSimplifier{}, &stubRiskAnalyzer{},
	)

	err := uc.Process(context.Background(), "missing")
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("err = %v, want document not found kind", err)
	}
}
