package usecase

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/avoskres/plainlegal/internal/core/domain"
)

// Keyword fallbacks keep the pipeline moving when the model is down. They
// are deliberately crude: a fallback-classified clause carries confidence
// 0.5 and medium risk so readers can tell it apart from model output.

var clauseTypePatterns = map[domain.ClauseType][]*regexp.Regexp{
	domain.TypeObligation: {
		regexp.MustCompile(`\b(must|shall|required|obligated|responsible|duty|covenant)\b`),
		regexp.MustCompile(`\b(agree to|undertake|commit|promise)\b`),
	},
	domain.TypeRight: {
		regexp.MustCompile(`\b(entitled|right|benefit|receive|privilege)\b`),
		regexp.MustCompile(`\b(may|permitted|allowed|can)\b`),
	},
	domain.TypeRisk: {
		regexp.MustCompile(`\b(liable|responsibility|risk|damages|loss|penalty)\b`),
		regexp.MustCompile(`\b(breach|violation|default|failure)\b`),
	},
	domain.TypePenalty: {
		regexp.MustCompile(`\b(fine|penalty|fee|charge|forfeit)\b`),
		regexp.MustCompile(`\b(terminate|cancel|suspend)\b`),
	},
	domain.TypeDeadline: {
		regexp.MustCompile(`\b(within|before|after|by|until|deadline)\b`),
		regexp.MustCompile(`\b\d+\s+(days?|weeks?|months?|years?)\b`),
		regexp.MustCompile(`\b(january|february|march|april|may|june|july|august|september|october|november|december)\b`),
	},
}

// fallbackAnnotate scores each clause type by keyword hits and picks the
// highest; all-zero means general.
func fallbackAnnotate(text string) domain.Annotation {
	lower := strings.ToLower(text)

	best := domain.TypeGeneral
	bestScore := 0
	for _, clauseType := range []domain.ClauseType{
		domain.TypeObligation, domain.TypeRight, domain.TypeRisk, domain.TypePenalty, domain.TypeDeadline,
	} {
		score := 0
		for _, pattern := range clauseTypePatterns[clauseType] {
			score += len(pattern.FindAllString(lower, -1))
		}
		if score > bestScore {
			best = clauseType
			bestScore = score
		}
	}

	return domain.Annotation{
		Type:       best,
		RiskLevel:  domain.RiskMedium,
		Confidence: 0.5,
	}
}

// fallbackClauseRisk detects risk signals by keyword group; severity follows
// the clause's already assigned risk level.
func fallbackClauseRisk(clause domain.Clause) domain.ClauseRisk {
	text := strings.ToLower(clause.SimplifiedText)

	risk := domain.ClauseRisk{Severity: domain.ParseSeverity(string(clause.RiskLevel))}
	if containsAny(text, "penalty", "fine", "forfeit", "damages") {
		risk.Risks = append(risk.Risks, "Potential financial penalties")
		risk.Financial = append(risk.Financial, "Penalty fees may apply")
	}
	if containsAny(text, "terminate", "cancel", "void", "breach") {
		risk.Termination = append(risk.Termination, "Agreement may be terminated")
	}
	if containsAny(text, "within", "days", "deadline", "before") {
		risk.Deadlines = append(risk.Deadlines, "Time-sensitive requirements")
	}
	if containsAny(text, "must", "shall", "required", "comply") {
		risk.Compliance = append(risk.Compliance, "Compliance requirements")
	}
	return risk
}

var documentTypeKeywords = map[string][]string{
	"Employment Contract":      {"employment", "employee", "employer", "salary", "wages", "termination", "job"},
	"Rental Agreement":         {"rent", "lease", "tenant", "landlord", "property", "premises", "monthly"},
	"Loan Agreement":           {"loan", "borrow", "lender", "interest", "payment", "principal", "debt"},
	"Privacy Policy":           {"privacy", "data", "information", "collect", "cookies", "personal"},
	"Terms of Service":         {"terms", "service", "user", "website", "platform", "agreement"},
	"Insurance Policy":         {"insurance", "coverage", "premium", "claim", "policy", "insured"},
	"Purchase Agreement":       {"purchase", "sale", "buyer", "seller", "goods", "product"},
	"Service Agreement":        {"service", "provider", "client", "work", "deliverable"},
	"Non-Disclosure Agreement": {"confidential", "non-disclosure", "nda", "proprietary", "secret"},
}

const fallbackDocumentTypeName = "Other Legal Document"

func fallbackDocumentType(filename, text string) string {
	textLower := strings.ToLower(text)
	filenameLower := strings.ToLower(filename)

	best := fallbackDocumentTypeName
	bestScore := 0
	for docType, keywords := range documentTypeKeywords {
		score := 0
		for _, keyword := range keywords {
			if strings.Contains(textLower, keyword) || strings.Contains(filenameLower, keyword) {
				score++
			}
		}
		if score > bestScore || (score == bestScore && score > 0 && docType < best) {
			best = docType
			bestScore = score
		}
	}
	if bestScore == 0 {
		return fallbackDocumentTypeName
	}
	return best
}

func fallbackSummary(docType string, clauseCount int) string {
	return fmt.Sprintf("Summary of %s: This document contains %d clauses covering various legal terms and conditions.", docType, clauseCount)
}

// fallbackRecommendations is tiered by the overall score.
func fallbackRecommendations(riskScore int) []string {
	recommendations := []string{"Review all clauses carefully before signing"}
	switch {
	case riskScore > 70:
		recommendations = append(recommendations,
			"Consider seeking legal counsel due to high risk level",
			"Negotiate terms that seem unfavorable or unclear",
			"Ensure you have adequate insurance or financial resources",
		)
	case riskScore > 50:
		recommendations = append(recommendations,
			"Pay close attention to obligations and deadlines",
			"Consider professional advice for complex terms",
		)
	default:
		recommendations = append(recommendations,
			"Ensure you understand all requirements",
			"Keep organized records of the agreement",
		)
	}
	return recommendations
}

func containsAny(text string, words ...string) bool {
	for _, word := range words {
		if strings.Contains(text, word) {
			return true
		}
	}
	return false
}
