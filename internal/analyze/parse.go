package analyze

import (
	"regexp"
	"strings"
	"time"
)

// Fields is the best-effort structured guess scraped from the model's
// free-text reply. Unmatched fields stay empty.
type Fields struct {
	Name       string `json:"name,omitempty"`
	ID         string `json:"id,omitempty"`
	IssueDate  string `json:"issue_date,omitempty"`
	ExpiryDate string `json:"expiry_date,omitempty"`
}

var (
	namePattern   = regexp.MustCompile(`(?i)name:?\s*([^\n]+)`)
	idPattern     = regexp.MustCompile(`(?i)(?:id|number):?\s*([^\n]+)`)
	issuePattern  = regexp.MustCompile(`(?i)(?:issue\s*)?date:?\s*([^\n]+)`)
	expiryPattern = regexp.MustCompile(`(?i)expir(?:y|ation)\s*date:?\s*([^\n]+)`)
)

// ParseFields scans the reply for label markers, one independent match per
// field. The issue pattern falls back to the bare word "date" when its
// qualifier is absent, so a reply with several date-like labels can have it
// capture the wrong occurrence. The result is advisory either way.
func ParseFields(text string) Fields {
	lower := strings.ToLower(text)
	var fields Fields

	if strings.Contains(lower, "name:") {
		if m := namePattern.FindStringSubmatch(text); m != nil {
			fields.Name = strings.TrimSpace(m[1])
		}
	}

	if strings.Contains(lower, "id:") || strings.Contains(lower, "number:") {
		if m := idPattern.FindStringSubmatch(text); m != nil {
			fields.ID = strings.TrimSpace(m[1])
		}
	}

	if strings.Contains(lower, "date:") {
		if m := issuePattern.FindStringSubmatch(text); m != nil {
			fields.IssueDate = normalizeDate(strings.TrimSpace(m[1]))
		}
	}

	if strings.Contains(lower, "expiry date:") || strings.Contains(lower, "expiration date:") {
		if m := expiryPattern.FindStringSubmatch(text); m != nil {
			fields.ExpiryDate = normalizeDate(strings.TrimSpace(m[1]))
		}
	}

	return fields
}

var dateLayouts = []string{
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"02/01/2006",
	"01/02/2006",
	"2006/01/02",
	"02.01.2006",
}

// normalizeDate reformats a parseable date to YYYY-MM-DD and keeps the raw
// string otherwise. A bad date is not an error; the value is a suggestion.
func normalizeDate(raw string) string {
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed.Format("2006-01-02")
		}
	}
	return raw
}
