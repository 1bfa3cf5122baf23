package analysis

import (
	"strconv"
	"strings"

	"github.com/avoskres/plainlegal/internal/core/domain"
)

// splitList parses a comma-separated label value, dropping empty entries.
func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// labelValue returns the text after "LABEL:" if the line carries that label.
func labelValue(line, label string) (string, bool) {
	if !strings.HasPrefix(line, label+":") {
		return "", false
	}
	return strings.TrimSpace(line[len(label)+1:]), true
}

// parseAnnotation reads the six-line labeled response. Unknown lines are
// ignored; missing labels keep their defaults.
func parseAnnotation(response string) domain.Annotation {
	result := domain.Annotation{
		Type:       domain.TypeGeneral,
		RiskLevel:  domain.RiskLow,
		Confidence: 0.7,
	}

	for _, line := range strings.Split(strings.TrimSpace(response), "\n") {
		line = strings.TrimSpace(line)
		if value, ok := labelValue(line, "TYPE"); ok {
			result.Type = domain.ParseClauseType(value)
		} else if value, ok := labelValue(line, "RISK_LEVEL"); ok {
			result.RiskLevel = domain.ParseRiskLevel(value)
		} else if value, ok := labelValue(line, "KEY_PHRASES"); ok {
			result.KeyPhrases = splitList(value)
		} else if value, ok := labelValue(line, "DEADLINES"); ok {
			result.Deadlines = splitList(value)
		} else if value, ok := labelValue(line, "OBLIGATIONS"); ok {
			result.Obligations = splitList(value)
		} else if value, ok := labelValue(line, "CONFIDENCE"); ok {
			if confidence, err := strconv.ParseFloat(value, 64); err == nil {
				result.Confidence = confidence
			} else {
				result.Confidence = 0.7
			}
		}
	}
	return result
}

// parseClauseRisk reads the labeled risk response; defaults to an empty
// low-severity result when nothing parses.
func parseClauseRisk(response string) domain.ClauseRisk {
	result := domain.ClauseRisk{Severity: domain.SeverityLow}

	for _, line := range strings.Split(strings.TrimSpace(response), "\n") {
		line = strings.TrimSpace(line)
		if value, ok := labelValue(line, "RISKS"); ok {
			result.Risks = splitList(value)
		} else if value, ok := labelValue(line, "FINANCIAL"); ok {
			result.Financial = splitList(value)
		} else if value, ok := labelValue(line, "DEADLINES"); ok {
			result.Deadlines = splitList(value)
		} else if value, ok := labelValue(line, "TERMINATION"); ok {
			result.Termination = splitList(value)
		} else if value, ok := labelValue(line, "COMPLIANCE"); ok {
			result.Compliance = splitList(value)
		} else if value, ok := labelValue(line, "SEVERITY"); ok {
			result.Severity = domain.ParseSeverity(value)
		}
	}
	return result
}

// parseBulletLines keeps only lines opening with a bullet or number marker,
// with the marker stripped.
func parseBulletLines(response string, limit int) []string {
	var items []string
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "•") && !strings.HasPrefix(line, "-") && !isDigit(line[0]) {
			continue
		}
		clean := strings.TrimLeft(line, "•-0123456789.) \t")
		if clean != "" {
			items = append(items, clean)
		}
		if limit > 0 && len(items) >= limit {
			break
		}
	}
	return items
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
