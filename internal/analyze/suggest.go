package analyze

import (
	"fmt"
	"math/rand"
	"time"
)

// Suggestion is a fully-populated form pre-fill derived from extracted
// fields. Consumers apply it only on an explicit user action.
type Suggestion struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IssueDate string `json:"issueDate"`
}

// Suggestions fills the gaps extraction left: a placeholder CERT-<5 digits>
// identifier, "Unknown" holder, today's issue date. This runs at the call
// site on extracted fields, never inside extraction itself.
func Suggestions(fields Fields, now time.Time) Suggestion {
	s := Suggestion{
		ID:        fields.ID,
		Name:      fields.Name,
		IssueDate: fields.IssueDate,
	}
	if s.ID == "" {
		s.ID = fmt.Sprintf("CERT-%d", 10000+rand.Intn(90000))
	}
	if s.Name == "" {
		s.Name = "Unknown"
	}
	if s.IssueDate == "" {
		s.IssueDate = now.Format("2006-01-02")
	}
	return s
}
