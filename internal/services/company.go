package services

import (
	"regexp"
	"strings"
)

var (
	// The value runs to the end of its line; a label on the last line still counts.
	companyLabelRe = mustCompileRule(`Company[:\- ]+(.+?)(?=\n|$)`)

	handleDomainRe = regexp.MustCompile(`@([a-zA-Z0-9.-]+)`)
)

// extractCompany prefers an explicit "Company:" label and falls back to the
// domain of the first email address or handle in the text.
// e.g. "jobs@stripe.com" -> "Stripe"
func extractCompany(text string) (*string, error) {
	m, err := companyLabelRe.FindStringMatch(text)
	if err != nil {
		return companyFromHandle(text), err
	}
	if m != nil {
		if name := nonEmpty(m.GroupByNumber(1).String()); name != nil {
			return name, nil
		}
	}
	return companyFromHandle(text), nil
}

func companyFromHandle(text string) *string {
	m := handleDomainRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	// Only the first label counts: "careers.globex.io" -> "Careers".
	label, _, _ := strings.Cut(m[1], ".")
	return nonEmpty(capitalize(label))
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
