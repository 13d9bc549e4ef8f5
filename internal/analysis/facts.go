package analysis

import (
	"regexp"
	"sort"
	"strings"

	"flowpulse-docparse/internal/domain"
)

const (
	maxNumbers  = 50
	maxDates    = 20
	maxEntities = 20
	maxKPIs     = 20
)

const monthNames = `January|February|March|April|May|June|July|August|September|October|November|December`

var (
	currencyPattern = regexp.MustCompile(`[$£€¥]\d+(?:,\d+)*(?:\.\d+)?`)
	percentPattern  = regexp.MustCompile(`\d+(?:\.\d+)?%`)
	groupedPattern  = regexp.MustCompile(`\b\d{1,3}(?:,\d{3})+(?:\.\d{2})?\b`)

	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{2,4}\b`),
		regexp.MustCompile(`\b\d{1,2}-\d{1,2}-\d{2,4}\b`),
		regexp.MustCompile(`(?i)\b(?:` + monthNames + `)\s+\d{1,2},\s+\d{4}\b`),
		regexp.MustCompile(`(?i)\b\d{1,2}\s+(?:` + monthNames + `)\s+\d{4}\b`),
	}

	// Capitalised words joined by spaces or tabs only, so a phrase never
	// spans two lines.
	entityPattern = regexp.MustCompile(`\b[A-Z][a-z]+(?:[ \t]+[A-Z][a-z]+)+\b`)

	kpiPattern = regexp.MustCompile(`[A-Za-z][\w ]{2,29}:\s*[$£€¥]?[\d,]+(?:\.\d+)?%?`)
)

// ExtractKeyData pulls numbers, dates, entities and KPI pairs out of text.
// It never fails; every slice is non-nil.
func ExtractKeyData(text string) domain.KeyData {
	var numbers []string
	numbers = append(numbers, currencyPattern.FindAllString(text, -1)...)
	numbers = append(numbers, percentPattern.FindAllString(text, -1)...)
	numbers = append(numbers, groupedPattern.FindAllString(text, -1)...)

	return domain.KeyData{
		Numbers:  capped(dedupe(numbers), maxNumbers),
		Dates:    capped(dedupe(findDates(text)), maxDates),
		Entities: capped(dedupe(entityPattern.FindAllString(text, -1)), maxEntities),
		KPIs:     extractKPIs(text),
	}
}

// findDates returns the matches of every date pattern in text order.
func findDates(text string) []string {
	var spans [][]int
	for _, p := range datePatterns {
		spans = append(spans, p.FindAllStringIndex(text, -1)...)
	}
	sort.SliceStable(spans, func(i, j int) bool {
		return spans[i][0] < spans[j][0]
	})

	dates := make([]string, len(spans))
	for i, sp := range spans {
		dates[i] = text[sp[0]:sp[1]]
	}
	return dates
}

func extractKPIs(text string) []domain.KPI {
	kpis := []domain.KPI{}
	seen := make(map[domain.KPI]struct{})

	for _, m := range kpiPattern.FindAllString(text, -1) {
		label, value, ok := strings.Cut(m, ":")
		if !ok {
			continue
		}
		kpi := domain.KPI{Label: strings.TrimSpace(label), Value: strings.TrimSpace(value)}
		if kpi.Label == "" || kpi.Value == "" {
			continue
		}
		if _, dup := seen[kpi]; dup {
			continue
		}
		seen[kpi] = struct{}{}
		kpis = append(kpis, kpi)
		if len(kpis) == maxKPIs {
			break
		}
	}
	return kpis
}

// dedupe keeps the first occurrence of each value.
func dedupe(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func capped(values []string, n int) []string {
	if len(values) > n {
		return values[:n]
	}
	return values
}
