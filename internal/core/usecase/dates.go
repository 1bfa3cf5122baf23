package usecase

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/avoskres/plainlegal/internal/core/domain"
)

const (
	dateKindSpecific = "specific_date"
	dateKindRelative = "relative_deadline"
)

var (
	numericDatePattern = regexp.MustCompile(`\b(\d{1,2})[/-](\d{1,2})[/-](\d{2,4})\b`)
	monthNamePattern   = regexp.MustCompile(`(?i)\b(\d{1,2})\s+(January|February|March|April|May|June|July|August|September|October|November|December)\s+(\d{2,4})\b`)
	monthFirstPattern  = regexp.MustCompile(`(?i)\b(January|February|March|April|May|June|July|August|September|October|November|December)\s+(\d{1,2}),?\s+(\d{2,4})\b`)
	withinPattern      = regexp.MustCompile(`(?i)\bwithin\s+(\d+)\s+(days?|weeks?|months?|years?)\b`)
	offsetPattern      = regexp.MustCompile(`(?i)\b(\d+)\s+(days?|weeks?|months?|years?)\s+(before|after|from)\b`)
)

var monthsByName = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
}

// extractCriticalDates finds dated and relative deadlines in every clause
// and ranks them by urgency. Relative offsets resolve against now using
// calendar approximations (weeks x7, months x30, years x365 days).
func extractCriticalDates(clauses []domain.Clause, now time.Time) []domain.CriticalDate {
	var dates []domain.CriticalDate
	for _, clause := range clauses {
		for _, found := range findDatesInText(clause.SimplifiedText, now) {
			found.Section = clause.SectionIndex
			found.Urgency = dateUrgency(found.Date, now)
			found.Context = contextSnippet(clause.SimplifiedText)
			dates = append(dates, found)
		}
	}

	sort.SliceStable(dates, func(i, j int) bool {
		if dates[i].Urgency != dates[j].Urgency {
			return dates[i].Urgency < dates[j].Urgency
		}
		switch {
		case dates[i].Date == nil:
			return false
		case dates[j].Date == nil:
			return true
		default:
			return dates[i].Date.Before(*dates[j].Date)
		}
	})
	return dates
}

func findDatesInText(text string, now time.Time) []domain.CriticalDate {
	var found []domain.CriticalDate

	for _, match := range numericDatePattern.FindAllStringSubmatch(text, -1) {
		found = append(found, domain.CriticalDate{
			Date:        parseNumericDate(match[1], match[2], match[3]),
			Kind:        dateKindSpecific,
			Description: match[0],
		})
	}
	for _, match := range monthNamePattern.FindAllStringSubmatch(text, -1) {
		found = append(found, domain.CriticalDate{
			Date:        parseNamedDate(match[2], match[1], match[3]),
			Kind:        dateKindSpecific,
			Description: match[0],
		})
	}
	for _, match := range monthFirstPattern.FindAllStringSubmatch(text, -1) {
		found = append(found, domain.CriticalDate{
			Date:        parseNamedDate(match[1], match[2], match[3]),
			Kind:        dateKindSpecific,
			Description: match[0],
		})
	}
	for _, match := range withinPattern.FindAllStringSubmatch(text, -1) {
		found = append(found, domain.CriticalDate{
			Date:        resolveOffset(match[1], match[2], now),
			Kind:        dateKindRelative,
			Description: match[0],
		})
	}
	for _, match := range offsetPattern.FindAllStringSubmatch(text, -1) {
		found = append(found, domain.CriticalDate{
			Date:        resolveOffset(match[1], match[2], now),
			Kind:        dateKindRelative,
			Description: match[0],
		})
	}
	return found
}

// parseNumericDate reads D/M/Y. Ambiguous day/month pairs are swapped when
// the first number cannot be a month. Unparseable input yields nil, which
// surfaces as a medium-urgency undated entry.
func parseNumericDate(dayStr, monthStr, yearStr string) *time.Time {
	day, _ := strconv.Atoi(dayStr)
	month, _ := strconv.Atoi(monthStr)
	year := normalizeYear(yearStr)

	if month > 12 && day <= 12 {
		day, month = month, day
	}
	if month < 1 || month > 12 || day < 1 || day > 31 || year == 0 {
		return nil
	}
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if date.Day() != day {
		return nil
	}
	return &date
}

func parseNamedDate(monthName, dayStr, yearStr string) *time.Time {
	month, ok := monthsByName[strings.ToLower(monthName)]
	if !ok {
		return nil
	}
	day, _ := strconv.Atoi(dayStr)
	year := normalizeYear(yearStr)
	if day < 1 || day > 31 || year == 0 {
		return nil
	}
	date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if date.Day() != day {
		return nil
	}
	return &date
}

func normalizeYear(yearStr string) int {
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return 0
	}
	if year < 100 {
		year += 2000
	}
	return year
}

func resolveOffset(numberStr, unit string, now time.Time) *time.Time {
	number, err := strconv.Atoi(numberStr)
	if err != nil {
		return nil
	}

	var days int
	switch {
	case strings.HasPrefix(strings.ToLower(unit), "day"):
		days = number
	case strings.HasPrefix(strings.ToLower(unit), "week"):
		days = number * 7
	case strings.HasPrefix(strings.ToLower(unit), "month"):
		days = number * 30
	case strings.HasPrefix(strings.ToLower(unit), "year"):
		days = number * 365
	default:
		return nil
	}

	date := now.Add(time.Duration(days) * 24 * time.Hour)
	return &date
}

// dateUrgency buckets a date: 1 past due, 2 within a week, 3 within a month
// or unparsed, 4 within three months, 5 beyond that.
func dateUrgency(date *time.Time, now time.Time) int {
	if date == nil {
		return 3
	}
	daysUntil := int(date.Sub(now).Hours() / 24)
	switch {
	case daysUntil < 0:
		return 1
	case daysUntil <= 7:
		return 2
	case daysUntil <= 30:
		return 3
	case daysUntil <= 90:
		return 4
	default:
		return 5
	}
}
