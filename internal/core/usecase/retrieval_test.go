package usecase

import (
	"math"
	"testing"

	"github.com/avoskres/plainlegal/internal/core/domain"
)

func TestExtractQuestionKeywords(t *testing.T) {
	keywords := extractQuestionKeywords("What happens if I miss the payment deadline?")

	want := map[string]bool{
		"payment":  false,
		"deadline": false,
		"happens":  false,
		"miss":     false,
	}
	for _, kw := range keywords {
		if _, ok := want[kw]; ok {
			want[kw] = true
		}
		if kw == "what" || kw == "the" {
			t.Errorf("stop or short word leaked: %q", kw)
		}
	}
	for kw, seen := range want {
		if !seen {
			t.Errorf("keyword %q not extracted (got %v)", kw, keywords)
		}
	}
}

func TestFilterRelevantClauses(t *testing.T) {
	clauses := []domain.Clause{
		{SectionIndex: 1, ClauseType: domain.TypeGeneral, SimplifiedText: "Nothing about the topic here."},
		{SectionIndex: 2, ClauseType: domain.TypeGeneral, SimplifiedText: "Payment is due monthly."},
		{SectionIndex: 3, ClauseType: domain.TypePenalty, SimplifiedText: "A penalty applies to late payment before the deadline."},
	}
	keywords := []string{"payment", "deadline", "penalty"}

	ranked := filterRelevantClauses(clauses, keywords)
	if len(ranked) != 2 {
		t.Fatalf("ranked %d clauses, want 2 (zero scores dropped)", len(ranked))
	}
	// section 3: three keyword hits plus the penalty type boost
	if ranked[0].Clause.SectionIndex != 3 || ranked[0].Score != 5 {
		t.Errorf("top clause = section %d score %d", ranked[0].Clause.SectionIndex, ranked[0].Score)
	}
	if ranked[1].Clause.SectionIndex != 2 || ranked[1].Score != 1 {
		t.Errorf("second clause = section %d score %d", ranked[1].Clause.SectionIndex, ranked[1].Score)
	}
}

func TestFilterRelevantClausesCapsAtTen(t *testing.T) {
	var clauses []domain.Clause
	for i := 1; i <= 15; i++ {
		clauses = append(clauses, domain.Clause{
			SectionIndex:   i,
			ClauseType:     domain.TypeObligation,
			SimplifiedText: "payment obligations",
		})
	}
	ranked := filterRelevantClauses(clauses, []string{"payment"})
	if len(ranked) != 10 {
		t.Fatalf("ranked %d, want capped at 10", len(ranked))
	}
}

func TestAnswerConfidence(t *testing.T) {
	tests := []struct {
		name     string
		relevant int
		keywords []string
		context  string
		want     float64
	}{
		{"no signal", 0, nil, "", 0.5},
		{"one clause one match", 1, []string{"payment"}, "payment terms", 0.65},
		{"clause bonus capped", 7, nil, "", 0.8},
		{"both bonuses capped", 10, []string{"a", "b", "c", "d", "e"}, "a b c d e", 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := answerConfidence(tt.relevant, tt.keywords, tt.context)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("confidence = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractAnswerSources(t *testing.T) {
	ranked := []domain.RankedClause{
		{Score: 5, Clause: domain.Clause{
			SectionIndex:   2,
			DocumentID:     "doc-1",
			ClauseType:     domain.TypePenalty,
			SimplifiedText: "late payment triggers a penalty fee",
		}},
		{Score: 3, Clause: domain.Clause{
			SectionIndex:   7,
			DocumentID:     "doc-1",
			ClauseType:     domain.TypeGeneral,
			SimplifiedText: "governing law for the contract remains unrelated verbiage entirely",
		}},
	}

	sources := extractAnswerSources(ranked, "A late payment triggers a penalty fee of $50.")
	if len(sources) != 1 {
		t.Fatalf("sources = %+v, want only the overlapping clause", sources)
	}
	if sources[0].Section != 2 || sources[0].DocumentID != "doc-1" || sources[0].Type != domain.TypePenalty {
		t.Errorf("source = %+v", sources[0])
	}
}

func TestExtractAnswerSourcesTruncatesPreview(t *testing.T) {
	long := ""
	for i := 0; i < 40; i++ {
		long += "payment "
	}
	ranked := []domain.RankedClause{{Score: 1, Clause: domain.Clause{SectionIndex: 1, SimplifiedText: long}}}

	sources := extractAnswerSources(ranked, "payment")
	if len(sources) != 1 {
		t.Fatalf("sources = %+v", sources)
	}
	if len(sources[0].TextPreview) != 153 {
		t.Errorf("preview length = %d, want 150 chars plus ellipsis", len(sources[0].TextPreview))
	}
}
