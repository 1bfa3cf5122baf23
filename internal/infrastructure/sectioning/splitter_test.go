package sectioning

import (
	"fmt"
	"strings"
	"testing"
)

const filler = "this clause continues with enough words to clear the minimum section length filter applied after splitting"

func TestSplitEmptyInput(t *testing.T) {
	s := NewSplitter()
	if got := s.Split(""); len(got) != 0 {
		t.Fatalf("expected zero sections, got %d", len(got))
	}
	if got := s.Split("   \n\n  "); len(got) != 0 {
		t.Fatalf("expected zero sections for blank input, got %d", len(got))
	}
}

func TestSplitByNumberedMarkers(t *testing.T) {
	text := "Preamble text before any numbered clause appears in this agreement today.\n" +
		"1. The first obligation: " + filler + "\n" +
		"2. The second obligation: " + filler + "\n" +
		"3. The third obligation: " + filler

	sections := NewSplitter().Split(text)
	if len(sections) != 4 {
		t.Fatalf("expected 4 sections, got %d", len(sections))
	}
	if sections[0].HasMarker {
		t.Fatalf("preamble should be unmarked")
	}
	for _, sec := range sections[1:] {
		if !sec.HasMarker {
			t.Fatalf("section %d should be marked: %q", sec.Index, sec.Text)
		}
	}
	if !strings.HasPrefix(sections[1].Text, "1.") || !strings.HasPrefix(sections[3].Text, "3.") {
		t.Fatalf("marker text lost: %q / %q", sections[1].Text, sections[3].Text)
	}
}

func TestSplitRecognizesClauseKeywords(t *testing.T) {
	text := "WHEREAS the parties wish to cooperate, " + filler + "\n" +
		"NOW THEREFORE the parties agree as follows and " + filler + "\n" +
		"Section 4 governs termination notice periods and " + filler

	sections := NewSplitter().Split(text)
	if len(sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(sections))
	}
	for i, prefix := range []string{"WHEREAS", "NOW THEREFORE", "Section 4"} {
		if !strings.HasPrefix(sections[i].Text, prefix) {
			t.Fatalf("section %d: expected prefix %q, got %q", i+1, prefix, sections[i].Text)
		}
	}
}

func TestSplitMarkerOnFirstLine(t *testing.T) {
	text := "1. Opening clause with no preamble before it, " + filler + "\n" +
		"2. Second clause of the same agreement, " + filler

	sections := NewSplitter().Split(text)
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}
	if !sections[0].HasMarker {
		t.Fatalf("first-line marker not detected")
	}
}

func TestSplitParagraphFallback(t *testing.T) {
	text := "First paragraph without any legal numbering, " + filler + "\n\n" +
		"Second paragraph also free of markers, " + filler + "\n\n" +
		"tiny"

	sections := NewSplitter().Split(text)
	if len(sections) != 2 {
		t.Fatalf("expected 2 paragraph sections, got %d", len(sections))
	}
	for _, sec := range sections {
		if sec.HasMarker {
			t.Fatalf("paragraph fallback sections must be unmarked")
		}
	}
}

func TestSplitDropsShortSections(t *testing.T) {
	text := "Intro long enough to survive the length filter, " + filler + "\n" +
		"1. ok\n" +
		"2. Second clause long enough to survive, " + filler

	sections := NewSplitter().Split(text)
	for _, sec := range sections {
		if strings.TrimSpace(sec.Text) == "1. ok" {
			t.Fatalf("short section should have been dropped")
		}
	}
}

func TestSplitMergesDownToLimit(t *testing.T) {
	var b strings.Builder
	for i := 1; i <= 45; i++ {
		fmt.Fprintf(&b, "%d. Clause number %d states that %s\n", i, i, filler)
	}

	sections := NewSplitter().Split(b.String())
	if len(sections) > maxSections {
		t.Fatalf("expected at most %d sections, got %d", maxSections, len(sections))
	}
	merged := sections[0]
	if !merged.HasMarker {
		t.Fatalf("merged sections must be marked")
	}
	if !strings.Contains(merged.Text, "Clause number 1 ") || !strings.Contains(merged.Text, "Clause number 2 ") {
		t.Fatalf("merge lost consecutive clause text: %q", merged.Text)
	}
}

func TestSplitIndexesContiguous(t *testing.T) {
	var b strings.Builder
	for i := 1; i <= 30; i++ {
		fmt.Fprintf(&b, "%d. Clause body %d, %s\n", i, i, filler)
	}

	sections := NewSplitter().Split(b.String())
	for i, sec := range sections {
		if sec.Index != i+1 {
			t.Fatalf("index gap at position %d: got %d", i, sec.Index)
		}
		if sec.WordCount == 0 {
			t.Fatalf("section %d has zero word count", sec.Index)
		}
	}
}

func TestNormalizePreservesParagraphBreaks(t *testing.T) {
	raw := "First   line\t with  spaces\r\nSecond line\r\r\n\n\n\nThird paragraph © here"
	got := Normalize(raw)

	if strings.Contains(got, "\r") {
		t.Fatalf("carriage returns survived: %q", got)
	}
	if strings.Contains(got, "  ") {
		t.Fatalf("whitespace runs survived: %q", got)
	}
	if !strings.Contains(got, "\n\n") {
		t.Fatalf("paragraph break collapsed: %q", got)
	}
	if strings.Contains(got, "©") {
		t.Fatalf("special character survived: %q", got)
	}
}

func TestNormalizeEmpty(t *testing.T) {
	if got := Normalize(""); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}
