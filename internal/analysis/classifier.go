package analysis

import (
	"regexp"
	"strings"

	"flowpulse-docparse/internal/domain"
)

type rule struct {
	label domain.DocumentType
	match func(lower string) bool
}

func anyOf(phrases ...string) func(string) bool {
	return func(s string) bool {
		for _, p := range phrases {
			if strings.Contains(s, p) {
				return true
			}
		}
		return false
	}
}

func allOf(phrases ...string) func(string) bool {
	return func(s string) bool {
		for _, p := range phrases {
			if !strings.Contains(s, p) {
				return false
			}
		}
		return true
	}
}

var cvToken = regexp.MustCompile(`(^|[^a-z])cv([^a-z]|$)`)

// Evaluated in order; the first match wins.
var fileNameRules = []rule{
	{domain.DocumentTypeInvoice, anyOf("invoice")},
	{domain.DocumentTypeStatement, anyOf("statement")},
	{domain.DocumentTypeContract, anyOf("contract", "agreement")},
	{domain.DocumentTypeProposal, anyOf("proposal")},
	{domain.DocumentTypeReport, anyOf("report")},
	{domain.DocumentTypePolicy, anyOf("policy")},
	{domain.DocumentTypeResume, func(s string) bool {
		return anyOf("resume", "curriculum")(s) || cvToken.MatchString(s)
	}},
	{domain.DocumentTypeLetter, anyOf("letter")},
}

var contentRules = []rule{
	{domain.DocumentTypeInvoice, anyOf("invoice number", "bill to", "amount due")},
	{domain.DocumentTypeStatement, anyOf("account statement", "opening balance", "closing balance", "statement period")},
	{domain.DocumentTypeContract, anyOf("this agreement", "hereby agree", "terms and conditions", "governing law")},
	{domain.DocumentTypeReport, anyOf("executive summary", "findings", "quarterly report", "annual report")},
	{domain.DocumentTypeProposal, anyOf("proposal", "scope of work", "proposed solution")},
	{domain.DocumentTypeLetter, allOf("dear", "sincerely")},
	{domain.DocumentTypeResume, allOf("experience", "education", "skills")},
	{domain.DocumentTypePolicy, anyOf("policy", "compliance", "code of conduct", "procedures")},
}

// Classify assigns a document type from the file name first and the content
// second, returning DocumentTypeOther when no rule matches.
func Classify(content, fileName string) domain.DocumentType {
	if label, ok := firstMatch(fileNameRules, strings.ToLower(fileName)); ok {
		return label
	}
	if label, ok := firstMatch(contentRules, strings.ToLower(content)); ok {
		return label
	}
	return domain.DocumentTypeOther
}

func firstMatch(rules []rule, lower string) (domain.DocumentType, bool) {
	if lower == "" {
		return "", false
	}
	for _, r := range rules {
		if r.match(lower) {
			return r.label, true
		}
	}
	return "", false
}
