package entities

import (
	"regexp"
	"sort"

	"github.com/avoskres/plainlegal/internal/core/domain"
)

const monthAlternatives = `January|February|March|April|May|June|July|August|September|October|November|December`

var (
	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`),
		regexp.MustCompile(`(?i)\b\d{1,2}\s+(?:` + monthAlternatives + `)\s+\d{2,4}\b`),
		regexp.MustCompile(`(?i)\b(?:` + monthAlternatives + `)\s+\d{1,2},?\s+\d{2,4}\b`),
	}
	moneyPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\$\d{1,3}(?:,\d{3})*(?:\.\d{2})?`),
		regexp.MustCompile(`(?i)\b\d+\s*dollars?\b`),
		regexp.MustCompile(`(?i)\b\d+\s*USD\b`),
	}
	partyPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b[A-Z][a-z]+\s+[A-Z][a-z]+\b`),
		regexp.MustCompile(`\b[A-Z][A-Z\s&]+(?:LLC|Inc|Corp|Corporation|Company|Ltd)\b`),
	}
)

type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract pulls dates, monetary amounts and likely party names from full
// document text. The lists are advisory metadata; nothing downstream gates
// on them. Results are deduplicated and sorted for stable output.
func (e *Extractor) Extract(text string) domain.Entities {
	return domain.Entities{
		Dates:   collect(text, datePatterns),
		Amounts: collect(text, moneyPatterns),
		Parties: collect(text, partyPatterns),
	}
}

func collect(text string, patterns []*regexp.Regexp) []string {
	seen := make(map[string]struct{})
	for _, p := range patterns {
		for _, m := range p.FindAllString(text, -1) {
			seen[m] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return nil
	}
	out := make([]string, 0, len(seen))
	for m := range seen {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}
