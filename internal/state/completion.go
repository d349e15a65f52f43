package state

import (
	"math"
	"strings"

	"jobdesk-engine/internal/domain"
)

// SubmitThreshold is the completion percentage a profile must reach before
// submit is allowed.
const SubmitThreshold = 70

type ChecklistItem struct {
	Name string `json:"name"`
	Done bool   `json:"done"`
}

// Checklist is the fixed per-role list of fields a "complete" profile has
// filled in. Completion is derived, never stored.
func Checklist(p domain.Profile) []ChecklistItem {
	switch v := p.(type) {
	case domain.JobSeekerProfile:
		return []ChecklistItem{
			{"title", strings.TrimSpace(v.Title) != ""},
			{"summary", strings.TrimSpace(v.Summary) != ""},
			{"skills", len(v.Skills) > 0},
			{"experience", len(v.Experience) > 0},
		}
	case domain.EmployerProfile:
		return []ChecklistItem{
			{"companyName", strings.TrimSpace(v.CompanyName) != ""},
			{"description", strings.TrimSpace(v.Description) != ""},
			{"industry", strings.TrimSpace(v.Industry) != ""},
			{"companySize", strings.TrimSpace(v.CompanySize) != ""},
		}
	case domain.AdminProfile:
		return []ChecklistItem{
			{"firstName", strings.TrimSpace(v.FirstName) != ""},
			{"lastName", strings.TrimSpace(v.LastName) != ""},
		}
	}
	return nil
}

// CompletionPercent is completed/total rounded to the nearest integer,
// always in [0,100]. Checking off more items never lowers it.
func CompletionPercent(p domain.Profile) int {
	items := Checklist(p)
	if len(items) == 0 {
		return 0
	}
	done := 0
	for _, it := range items {
		if it.Done {
			done++
		}
	}
	return int(math.Round(float64(done) / float64(len(items)) * 100))
}
