package sectioning

import (
	"regexp"
	"strings"

	"github.com/avoskres/plainlegal/internal/core/domain"
)

// Marker classes that typically open a clause in legal documents. Order
// matters only for readability; the combined pattern matches any of them.
var markerPatterns = []string{
	`\n\s*\d+\.\s+`,          // 1., 2., 3.
	`\n\s*\([a-z]\)\s+`,      // (a), (b), (c)
	`\n\s*\(\d+\)\s+`,        // (1), (2), (3)
	`\n\s*[A-Z][A-Z\s]+:\s*`, // ALL-CAPS label:
	`\n\s*Article\s+\d+`,
	`\n\s*Section\s+\d+`,
	`\n\s*WHEREAS`,
	`\n\s*NOW THEREFORE`,
	`\n\s*\d+\s*\.\s*\d+`, // 1.1, 1.2
}

const (
	minSectionLength = 50
	maxSections      = 20
)

type Splitter struct {
	boundary *regexp.Regexp
}

func NewSplitter() *Splitter {
	combined := "(?i)(?:" + strings.Join(markerPatterns, "|") + ")"
	return &Splitter{boundary: regexp.MustCompile(combined)}
}

// Split partitions normalized text into ordered sections. Text before the
// first marker becomes an unmarked section; each marker opens a new one.
// With at most one marker hit the whole split falls back to paragraph
// boundaries. Sections of 50 characters or fewer are dropped, and anything
// beyond 20 sections is merged back down. Indexes are reassigned 1..N after
// all filtering.
func (s *Splitter) Split(text string) []domain.Section {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	sections := s.splitByMarkers(text)
	if len(sections) <= 1 {
		sections = splitByParagraphs(text)
	}

	kept := sections[:0]
	for _, sec := range sections {
		if len(strings.TrimSpace(sec.Text)) > minSectionLength {
			kept = append(kept, sec)
		}
	}
	sections = kept

	if len(sections) > maxSections {
		sections = mergeSections(sections, maxSections)
	}

	for i := range sections {
		sections[i].Index = i + 1
	}
	return sections
}

func (s *Splitter) splitByMarkers(text string) []domain.Section {
	// Prepend a newline so a marker on the very first line still matches.
	probe := "\n" + text

	locs := s.boundary.FindAllStringIndex(probe, -1)
	if len(locs) == 0 {
		return []domain.Section{domain.NewSection(text, 1, false)}
	}

	var sections []domain.Section
	appendSection := func(raw string, marked bool) {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return
		}
		sections = append(sections, domain.NewSection(raw, len(sections)+1, marked))
	}

	appendSection(probe[:locs[0][0]], false)
	for i, loc := range locs {
		end := len(probe)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		appendSection(probe[loc[0]:end], true)
	}
	return sections
}

func splitByParagraphs(text string) []domain.Section {
	var sections []domain.Section
	for _, paragraph := range strings.Split(text, "\n\n") {
		paragraph = strings.TrimSpace(paragraph)
		if len(paragraph) > minSectionLength {
			sections = append(sections, domain.NewSection(paragraph, len(sections)+1, false))
		}
	}
	return sections
}

// mergeSections concatenates consecutive sections into at most limit groups.
// The boundaries inside a group are not recoverable afterwards.
func mergeSections(sections []domain.Section, limit int) []domain.Section {
	groupSize := (len(sections) + limit - 1) / limit

	var merged []domain.Section
	for start := 0; start < len(sections); start += groupSize {
		end := start + groupSize
		if end > len(sections) {
			end = len(sections)
		}
		parts := make([]string, 0, end-start)
		for _, sec := range sections[start:end] {
			parts = append(parts, sec.Text)
		}
		merged = append(merged, domain.NewSection(strings.Join(parts, "\n\n"), len(merged)+1, true))
	}
	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}
