package domain

import (
	"fmt"
	"time"
)

type ApplicationStatus string

const (
	StatusPending            ApplicationStatus = "PENDING"
	StatusReviewed           ApplicationStatus = "REVIEWED"
	StatusShortlisted        ApplicationStatus = "SHORTLISTED"
	StatusInterviewScheduled ApplicationStatus = "INTERVIEW_SCHEDULED"
	StatusOffered            ApplicationStatus = "OFFERED"
	StatusRejected           ApplicationStatus = "REJECTED"
	StatusWithdrawn          ApplicationStatus = "WITHDRAWN"
	StatusAccepted           ApplicationStatus = "ACCEPTED"
)

// statusOrder is the review pipeline order; used for sorting, not for
// transition enforcement (the backend owns transitions).
var statusOrder = map[ApplicationStatus]int{
	StatusPending:            0,
	StatusReviewed:           1,
	StatusShortlisted:        2,
	StatusInterviewScheduled: 3,
	StatusOffered:            4,
	StatusRejected:           5,
	StatusWithdrawn:          6,
	StatusAccepted:           7,
}

func ParseApplicationStatus(s string) (ApplicationStatus, error) {
	st := ApplicationStatus(s)
	if _, ok := statusOrder[st]; !ok {
		return "", fmt.Errorf("unknown application status %q", s)
	}
	return st, nil
}

func (s ApplicationStatus) Order() int { return statusOrder[s] }

// Application ties one applicant to one job. JobID and ApplicantID never
// change after creation; only Status and the timestamps move.
type Application struct {
	ID            string            `json:"id"`
	JobID         string            `json:"jobId"`
	JobTitle      string            `json:"jobTitle,omitempty"`
	CompanyName   string            `json:"companyName,omitempty"`
	ApplicantID   string            `json:"applicantId"`
	Status        ApplicationStatus `json:"status"`
	CoverLetter   string            `json:"coverLetter,omitempty"`
	AttachmentURL string            `json:"attachmentUrl,omitempty"`
	AppliedAt     time.Time         `json:"appliedAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

// ApplicationStats is the per-status aggregate for the current actor.
type ApplicationStats struct {
	Total    int                       `json:"total"`
	ByStatus map[ApplicationStatus]int `json:"byStatus"`
}

// ApplicationFilter narrows a search; zero values mean "any".
type ApplicationFilter struct {
	Status  ApplicationStatus
	Title   string
	Company string
	From    time.Time
	To      time.Time
}
