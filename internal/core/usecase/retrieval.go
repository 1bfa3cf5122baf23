package usecase

import (
	"sort"
	"strings"

	"github.com/avoskres/plainlegal/internal/core/domain"
)

// legalVocabulary is the fixed term set matched against questions. It skews
// toward recall: any hit pulls related clauses into the answer context.
var legalVocabulary = []string{
	"termination", "cancel", "end", "break",
	"payment", "fee", "cost", "money", "price",
	"deadline", "date", "time", "when", "duration",
	"obligation", "must", "required", "responsible",
	"penalty", "fine", "consequence", "breach",
	"right", "entitled", "benefit", "privilege",
	"liability", "risk", "damages", "insurance",
	"confidential", "private", "disclosure",
	"renewal", "extension", "automatic",
	"dispute", "arbitration", "court", "legal",
}

var questionStopWords = map[string]struct{}{
	"what": {}, "when": {}, "where": {}, "how": {}, "why": {},
	"who": {}, "this": {}, "that": {}, "with": {},
}

// boostedClauseTypes get +2 relevance regardless of keyword hits.
var boostedClauseTypes = map[domain.ClauseType]struct{}{
	domain.TypeObligation: {},
	domain.TypeDeadline:   {},
	domain.TypePenalty:    {},
	domain.TypeRisk:       {},
}

const maxRelevantClauses = 10

// extractQuestionKeywords unions vocabulary hits with every question word
// longer than three characters outside the stop-word set.
func extractQuestionKeywords(question string) []string {
	lower := strings.ToLower(question)

	var keywords []string
	for _, term := range legalVocabulary {
		if strings.Contains(lower, term) {
			keywords = append(keywords, term)
		}
	}
	for _, word := range strings.Fields(question) {
		word = strings.ToLower(strings.Trim(word, ".,;:!?\"'"))
		if len(word) <= 3 {
			continue
		}
		if _, stop := questionStopWords[word]; stop {
			continue
		}
		keywords = append(keywords, word)
	}
	return keywords
}

// filterRelevantClauses scores each clause by keyword hits over both texts
// plus a type boost, drops zero scores and returns the top ten.
func filterRelevantClauses(clauses []domain.Clause, keywords []string) []domain.RankedClause {
	var ranked []domain.RankedClause
	for _, clause := range clauses {
		text := strings.ToLower(clause.SimplifiedText + " " + clause.OriginalText)

		score := 0
		for _, keyword := range keywords {
			if strings.Contains(text, keyword) {
				score++
			}
		}
		if _, boosted := boostedClauseTypes[clause.ClauseType]; boosted {
			score += 2
		}
		if score > 0 {
			ranked = append(ranked, domain.RankedClause{Clause: clause, Score: score})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if len(ranked) > maxRelevantClauses {
		ranked = ranked[:maxRelevantClauses]
	}
	return ranked
}

// answerConfidence starts at 0.5 and grows with relevant clause count and
// keyword coverage of the context, capped at 1.0.
func answerConfidence(relevantCount int, keywords []string, contextText string) float64 {
	confidence := 0.5

	if relevantCount > 0 {
		bonus := float64(relevantCount) * 0.1
		if bonus > 0.3 {
			bonus = 0.3
		}
		confidence += bonus
	}

	lower := strings.ToLower(contextText)
	matches := 0
	for _, keyword := range keywords {
		if strings.Contains(lower, keyword) {
			matches++
		}
	}
	if matches > 0 {
		bonus := float64(matches) * 0.05
		if bonus > 0.2 {
			bonus = 0.2
		}
		confidence += bonus
	}

	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence
}

// extractAnswerSources keeps top-ranked clauses whose word overlap with the
// answer exceeds one tenth of the clause's vocabulary.
func extractAnswerSources(ranked []domain.RankedClause, answer string) []domain.Source {
	const (
		sourceCandidates = 5
		previewLength    = 150
		overlapThreshold = 0.1
	)

	answerWords := make(map[string]struct{})
	for _, word := range strings.Fields(strings.ToLower(answer)) {
		answerWords[word] = struct{}{}
	}

	var sources []domain.Source
	for i, rc := range ranked {
		if i >= sourceCandidates {
			break
		}
		clauseWords := make(map[string]struct{})
		for _, word := range strings.Fields(strings.ToLower(rc.Clause.SimplifiedText)) {
			clauseWords[word] = struct{}{}
		}
		if len(clauseWords) == 0 {
			continue
		}

		overlap := 0
		for word := range clauseWords {
			if _, ok := answerWords[word]; ok {
				overlap++
			}
		}
		if float64(overlap)/float64(len(clauseWords)) <= overlapThreshold {
			continue
		}

		preview := rc.Clause.SimplifiedText
		if len(preview) > previewLength {
			preview = preview[:previewLength] + "..."
		}
		sources = append(sources, domain.Source{
			Section:     rc.Clause.SectionIndex,
			Type:        rc.Clause.ClauseType,
			TextPreview: preview,
			DocumentID:  rc.Clause.DocumentID,
		})
	}
	return sources
}
