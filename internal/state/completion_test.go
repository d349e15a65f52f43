package state

import (
	"testing"

	"github.com/stretchr/testify/require"

	"jobdesk-engine/internal/domain"
)

func seekerWith(fields func(*domain.JobSeekerProfile)) domain.JobSeekerProfile {
	p := domain.JobSeekerProfile{
		ProfileBase: domain.ProfileBase{ID: "p1", FirstName: "Ada", LastName: "Lovelace"},
	}
	if fields != nil {
		fields(&p)
	}
	return p
}

func TestCompletionPercentJobSeeker(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*domain.JobSeekerProfile)
		want int
	}{
		{"empty", nil, 0},
		{"title only", func(p *domain.JobSeekerProfile) { p.Title = "Dev" }, 25},
		{"half", func(p *domain.JobSeekerProfile) {
			p.Title = "Dev"
			p.Summary = "s"
		}, 50},
		{"whitespace does not count", func(p *domain.JobSeekerProfile) {
			p.Title = "   "
			p.Summary = "s"
		}, 25},
		{"empty skills list does not count", func(p *domain.JobSeekerProfile) {
			p.Title = "Dev"
			p.Summary = "s"
			p.Skills = []string{}
		}, 50},
		{"three of four", func(p *domain.JobSeekerProfile) {
			p.Title = "Dev"
			p.Summary = "s"
			p.Skills = []string{"go"}
		}, 75},
		{"full", func(p *domain.JobSeekerProfile) {
			p.Title = "Dev"
			p.Summary = "s"
			p.Skills = []string{"go"}
			p.Experience = []domain.WorkExperience{{ID: "e1", Company: "Acme"}}
		}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, CompletionPercent(seekerWith(tt.mod)))
		})
	}
}

func TestCompletionPercentEmployer(t *testing.T) {
	p := domain.EmployerProfile{
		ProfileBase: domain.ProfileBase{ID: "p2"},
		CompanyName: "Acme",
		Description: "We make anvils",
		Industry:    "manufacturing",
	}
	require.Equal(t, 75, CompletionPercent(p))

	p.CompanySize = "11-50"
	require.Equal(t, 100, CompletionPercent(p))
}

func TestCompletionPercentAdmin(t *testing.T) {
	p := domain.AdminProfile{ProfileBase: domain.ProfileBase{FirstName: "Ada"}}
	require.Equal(t, 50, CompletionPercent(p))
	p.LastName = "Lovelace"
	require.Equal(t, 100, CompletionPercent(p))
}

// Checking off another item never lowers the percentage, and the value
// stays inside [0,100] whatever the profile looks like.
func TestCompletionMonotonicAndBounded(t *testing.T) {
	steps := []func(*domain.JobSeekerProfile){
		func(p *domain.JobSeekerProfile) { p.Title = "Dev" },
		func(p *domain.JobSeekerProfile) { p.Summary = "s" },
		func(p *domain.JobSeekerProfile) { p.Skills = []string{"go"} },
		func(p *domain.JobSeekerProfile) { p.Experience = []domain.WorkExperience{{ID: "e1"}} },
	}

	p := seekerWith(nil)
	prev := CompletionPercent(p)
	require.GreaterOrEqual(t, prev, 0)
	for _, step := range steps {
		step(&p)
		cur := CompletionPercent(p)
		require.GreaterOrEqual(t, cur, prev)
		require.LessOrEqual(t, cur, 100)
		prev = cur
	}
	require.Equal(t, 100, prev)
}

func TestChecklistThresholdAlignment(t *testing.T) {
	// 3 of 4 items (75%) clears the submit gate, 2 of 4 (50%) does not
	below := seekerWith(func(p *domain.JobSeekerProfile) {
		p.Title = "Dev"
		p.Summary = "s"
	})
	above := seekerWith(func(p *domain.JobSeekerProfile) {
		p.Title = "Dev"
		p.Summary = "s"
		p.Skills = []string{"go"}
	})
	require.Less(t, CompletionPercent(below), SubmitThreshold)
	require.GreaterOrEqual(t, CompletionPercent(above), SubmitThreshold)
}
