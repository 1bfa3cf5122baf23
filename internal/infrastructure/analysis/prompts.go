package analysis

import (
	"fmt"
	"strings"

	"github.com/avoskres/plainlegal/internal/core/domain"
)

// documentTypes is the closed set used for document classification. The
// model is told to answer with one of these labels verbatim.
var documentTypes = []string{
	"Employment Contract",
	"Rental Agreement",
	"Loan Agreement",
	"Privacy Policy",
	"Terms of Service",
	"Insurance Policy",
	"Purchase Agreement",
	"Service Agreement",
	"Non-Disclosure Agreement",
	"Other Legal Document",
}

func buildTypeClassificationPrompt(filename, text string) string {
	const maxSample = 1000
	sample := text
	if len(sample) > maxSample {
		sample = sample[:maxSample]
	}

	return fmt.Sprintf(`Analyze the following document text and filename to determine the document type.

Filename: %s
Text sample: %s

Classify this document as one of the following types:
- %s

Respond with only the document type, no explanation.`,
		filename, sample, strings.Join(documentTypes, "\n- "))
}

func buildAnnotationPrompt(clauseText string) string {
	return fmt.Sprintf(`Analyze this legal clause and classify it into one of these categories:
- obligation: Things the reader must do or comply with
- right: Things the reader is entitled to or benefits they receive
- risk: Potential problems, liability, or negative consequences
- penalty: Specific punishments or fees for non-compliance
- deadline: Time-sensitive requirements or important dates
- general: General information, definitions, or background

Clause text: %s

Also assess:
1. Risk level (low/medium/high)
2. Key phrases that indicate the classification
3. Any specific deadlines mentioned
4. Any obligations mentioned

Respond in this exact format:
TYPE: [category]
RISK_LEVEL: [low/medium/high]
KEY_PHRASES: [comma-separated list]
DEADLINES: [any dates or time periods found]
OBLIGATIONS: [any specific things that must be done]
CONFIDENCE: [0.0-1.0]`, clauseText)
}

var levelInstructions = map[domain.SimplificationLevel]string{
	domain.LevelGeneral: `Rewrite this in simple, everyday language that anyone can understand.
Use short sentences and common words. Avoid legal jargon completely.
Make it sound like you're explaining to a friend.`,
	domain.LevelStudent: `Rewrite this for a college student level. Use clear language but you can
include some technical terms if you explain them. Make it educational.`,
	domain.LevelProfessional: `Rewrite this for a business professional. Keep some technical terms
but make the meaning and implications very clear. Focus on practical impact.`,
	domain.LevelLawyer: `Rewrite this to be clearer while maintaining legal precision.
Simplify structure and language but don't lose important legal nuances.`,
}

var clauseContexts = map[domain.ClauseType]string{
	domain.TypeObligation: "This clause describes something you must do or comply with.",
	domain.TypeRight:      "This clause describes something you're entitled to or a benefit you receive.",
	domain.TypeRisk:       "This clause describes potential problems or liability you should be aware of.",
	domain.TypePenalty:    "This clause describes consequences if you don't comply with the agreement.",
	domain.TypeDeadline:   "This clause contains important dates or time requirements.",
	domain.TypeGeneral:    "This clause provides general information about the agreement.",
}

func buildSimplificationPrompt(clauseText string, clauseType domain.ClauseType, level domain.SimplificationLevel) string {
	instruction, ok := levelInstructions[level]
	if !ok {
		instruction = levelInstructions[domain.LevelGeneral]
	}
	context, ok := clauseContexts[clauseType]
	if !ok {
		context = clauseContexts[domain.TypeGeneral]
	}

	return fmt.Sprintf(`%s

Context: %s

Original legal text:
%s

Simplified version:`, instruction, context, clauseText)
}

func buildSummaryPrompt(docType string, clauses []domain.Clause) string {
	const exemplarsPerType = 3
	const exemplarLength = 200

	groups := make(map[domain.ClauseType][]string)
	var order []domain.ClauseType
	for _, clause := range clauses {
		if _, seen := groups[clause.ClauseType]; !seen {
			order = append(order, clause.ClauseType)
		}
		groups[clause.ClauseType] = append(groups[clause.ClauseType], clause.SimplifiedText)
	}

	var content strings.Builder
	for _, clauseType := range order {
		fmt.Fprintf(&content, "\n%s CLAUSES:\n", strings.ToUpper(string(clauseType)))
		for i, text := range groups[clauseType] {
			if i >= exemplarsPerType {
				break
			}
			if len(text) > exemplarLength {
				text = text[:exemplarLength]
			}
			fmt.Fprintf(&content, "%d. %s...\n", i+1, text)
		}
	}

	return fmt.Sprintf(`Create a comprehensive but concise summary of this %s.

Focus on:
1. What this document is about
2. Key obligations and requirements
3. Important rights and benefits
4. Major risks or concerns
5. Critical deadlines

Document content:
%s

Write the summary in plain English, as if explaining to someone who has never seen this document before.
Make it practical and actionable.`, docType, content.String())
}

func buildActionItemsPrompt(clauses []domain.Clause) string {
	var actionText strings.Builder
	for _, clause := range clauses {
		fmt.Fprintf(&actionText, "- %s\n", clause.SimplifiedText)
	}

	return fmt.Sprintf(`Based on these legal clauses, create a clear action item checklist for someone who signed this document.

Clauses:
%s
Create specific, actionable items in this format:
• [Action item]
• [Action item]

Focus on what the person actually needs to DO, not just what they should know.
Include any deadlines or time requirements.`, actionText.String())
}

func buildClauseRiskPrompt(clause domain.Clause) string {
	return fmt.Sprintf(`Analyze this legal clause for potential risks and concerns:

Clause Type: %s
Risk Level: %s
Text: %s

Identify:
1. Specific risks or potential problems
2. Financial implications or costs
3. Deadlines or time-sensitive requirements
4. Termination or cancellation conditions
5. Compliance requirements
6. Penalty or consequence severity

Respond in this format:
RISKS: [list specific risks]
FINANCIAL: [any monetary implications]
DEADLINES: [any time requirements]
TERMINATION: [termination conditions]
COMPLIANCE: [what must be complied with]
SEVERITY: [low/medium/high/critical]`, clause.ClauseType, clause.RiskLevel, clause.SimplifiedText)
}

func buildRecommendationsPrompt(docType string, analysis domain.RiskAnalysis) string {
	return fmt.Sprintf(`Based on this risk analysis, provide 3-5 specific, actionable recommendations
for someone who is considering signing or has signed this document.

Risk Analysis:
Document Type: %s
Overall Risk Score: %d/100
High Risk Clauses: %d
Financial Obligations: %d
Deadlines: %d
Termination Risks: %d

Focus on:
1. Most important actions to take
2. Risks to mitigate or be aware of
3. Professional advice that might be needed
4. Timeline considerations
5. Financial planning needs

Make recommendations practical and specific.`,
		docType,
		analysis.OverallScore,
		len(analysis.HighRiskClauses),
		len(analysis.FinancialObligations),
		len(analysis.Deadlines),
		len(analysis.TerminationRisks))
}

func buildAnswerPrompt(question, history, contextBlock string) string {
	return fmt.Sprintf(`You are a helpful legal document assistant. Answer the user's question based on the provided document context and previous conversation.

Rules:
1. Only answer based on the information in the provided documents
2. Be clear and direct in your response
3. Reference previous conversation when relevant
4. If the documents don't contain relevant information, say so
5. Cite specific sections when possible
6. Explain any legal terms in simple language
7. If there are potential risks or important considerations, mention them

Previous Conversation:
%s

Current Question: %s

Document Context:
%s

Answer:`, history, question, contextBlock)
}
