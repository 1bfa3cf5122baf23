package domain

import (
	"strings"
	"time"
)

// ClauseType is the closed set of semantic categories a section can be
// assigned. Anything else coerces to TypeGeneral at the parse boundary.
type ClauseType string

const (
	TypeObligation ClauseType = "obligation"
	TypeRight      ClauseType = "right"
	TypeRisk       ClauseType = "risk"
	TypePenalty    ClauseType = "penalty"
	TypeDeadline   ClauseType = "deadline"
	TypeGeneral    ClauseType = "general"
)

func ParseClauseType(raw string) ClauseType {
	switch t := ClauseType(strings.ToLower(strings.TrimSpace(raw))); t {
	case TypeObligation, TypeRight, TypeRisk, TypePenalty, TypeDeadline, TypeGeneral:
		return t
	default:
		return TypeGeneral
	}
}

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

func ParseRiskLevel(raw string) RiskLevel {
	switch l := RiskLevel(strings.ToLower(strings.TrimSpace(raw))); l {
	case RiskLow, RiskMedium, RiskHigh:
		return l
	default:
		return RiskLow
	}
}

// Severity extends RiskLevel with a critical bucket for aggregate analysis.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

func ParseSeverity(raw string) Severity {
	switch s := Severity(strings.ToLower(strings.TrimSpace(raw))); s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return s
	default:
		return SeverityLow
	}
}

// SimplificationLevel is the target audience register for rewrites.
// LevelOriginal is a sentinel meaning "simplification unavailable" and is
// never a valid requested level.
type SimplificationLevel string

const (
	LevelGeneral      SimplificationLevel = "general"
	LevelStudent      SimplificationLevel = "student"
	LevelProfessional SimplificationLevel = "professional"
	LevelLawyer       SimplificationLevel = "lawyer"
	LevelOriginal     SimplificationLevel = "original"
)

func ParseSimplificationLevel(raw string) SimplificationLevel {
	switch l := SimplificationLevel(strings.ToLower(strings.TrimSpace(raw))); l {
	case LevelGeneral, LevelStudent, LevelProfessional, LevelLawyer:
		return l
	default:
		return LevelGeneral
	}
}

// Section is one contiguous span of document text produced by the splitter.
// Indices within a document are 1-based, sequential and gapless. Sections are
// not persisted; they exist only while the pipeline builds clause records.
type Section struct {
	Text      string `json:"text"`
	Index     int    `json:"index"`
	WordCount int    `json:"word_count"`
	HasMarker bool   `json:"has_marker"`
}

func NewSection(text string, index int, hasMarker bool) Section {
	trimmed := strings.TrimSpace(text)
	return Section{
		Text:      trimmed,
		Index:     index,
		WordCount: len(strings.Fields(trimmed)),
		HasMarker: hasMarker,
	}
}

// Annotation is the per-section result of the classification pass.
type Annotation struct {
	Type        ClauseType `json:"type"`
	RiskLevel   RiskLevel  `json:"risk_level"`
	KeyPhrases  []string   `json:"key_phrases"`
	Deadlines   []string   `json:"deadlines"`
	Obligations []string   `json:"obligations"`
	Confidence  float64    `json:"confidence"`
}

// Clause is the persisted per-section analysis record. Immutable after
// creation except SimplifiedText/SimplificationLevel (re-simplify) and Advice.
type Clause struct {
	ID                  string              `json:"id"`
	DocumentID          string              `json:"document_id"`
	SectionIndex        int                 `json:"section_index"`
	OriginalText        string              `json:"original_text"`
	SimplifiedText      string              `json:"simplified_text"`
	SimplificationLevel SimplificationLevel `json:"simplification_level"`
	ClauseType          ClauseType          `json:"clause_type"`
	RiskLevel           RiskLevel           `json:"risk_level"`
	Confidence          float64             `json:"confidence"`
	KeyPhrases          []string            `json:"key_phrases"`
	Deadlines           []string            `json:"deadlines"`
	Obligations         []string            `json:"obligations"`
	Advice              string              `json:"advice,omitempty"`
	CreatedAt           time.Time           `json:"created_at"`
}
