package services

import (
	"regexp"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
	"github.com/justsurfingit/job-extractor/internal/models"
)

const ruleTimeout = 2 * time.Second

var (
	newlineRunRe = regexp.MustCompile(`\n+`)

	titleRe = regexp.MustCompile(`(?i)(?:(?:Job\s*Title|Position)[:\- ]+)?([^\n]+(?:Developer|Engineer|Intern|Manager|Lead|Consultant|Designer|Analyst|Architect)[^\n]*)`)

	jobTypeRe = regexp.MustCompile(`(?i)\b(Remote|Onsite|Hybrid|Full Time|Part Time|Full-time|On-Site)\b`)

	// Section bodies end at a lookahead so the next heading is left unconsumed.
	responsibilitiesRe = mustCompileRule(`(Key Responsibilities|Responsibilities)[:\- ]+([\s\S]+?)(?=(Requirements|Qualifications|Skills|$))`)
	qualificationsRe   = mustCompileRule(`(Requirements|Qualifications|Eligibility Criteria)[:\- ]+([\s\S]+?)(?=(Responsibilities|Skills|$))`)
)

func mustCompileRule(pattern string) *regexp2.Regexp {
	re := regexp2.MustCompile(pattern, regexp2.IgnoreCase)
	re.MatchTimeout = ruleTimeout
	return re
}

// normalizeText collapses newline runs and trims the ends.
func normalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.TrimSpace(newlineRunRe.ReplaceAllString(text, "\n"))
}

// extractTitle returns the first line carrying a role keyword, minus any
// "Job Title:" or "Position:" label.
func extractTitle(text string) *string {
	m := titleRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	return nonEmpty(m[1])
}

// extractJobType returns the first work-arrangement token as written.
func extractJobType(text string) *string {
	return nonEmpty(jobTypeRe.FindString(text))
}

// extractLocation joins the distinct LOC entities in order of first appearance.
func extractLocation(spans []models.EntitySpan) *string {
	seen := make(map[string]bool)
	var locs []string
	for _, span := range spans {
		if span.Group != models.GroupLocation {
			continue
		}
		word := StripContinuation(span.Word)
		if seen[word] {
			continue
		}
		seen[word] = true
		locs = append(locs, word)
	}
	if len(locs) == 0 {
		return nil
	}
	return nonEmpty(strings.Join(locs, " "))
}

func extractResponsibilities(text string) (*string, error) {
	return matchSection(responsibilitiesRe, text)
}

func extractQualifications(text string) (*string, error) {
	return matchSection(qualificationsRe, text)
}

func matchSection(re *regexp2.Regexp, text string) (*string, error) {
	m, err := re.FindStringMatch(text)
	if err != nil || m == nil {
		return nil, err
	}
	return nonEmpty(m.GroupByNumber(2).String()), nil
}

// deriveJobDescription mirrors the title; there is no separate description rule.
func deriveJobDescription(title *string) *string {
	if title == nil {
		return nil
	}
	desc := *title
	return &desc
}

func nonEmpty(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
