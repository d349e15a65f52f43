package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

type Role string

const (
	RoleJobSeeker Role = "job_seeker"
	RoleEmployer  Role = "employer"
	RoleAdmin     Role = "admin"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleJobSeeker, RoleEmployer, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown profile role %q", s)
}

// Profile is the closed set of profile variants. The backend tags the
// variant with a "profileType" field; DecodeProfile dispatches on it.
// Consumers switch on the concrete type, never on field presence.
type Profile interface {
	ProfileRole() Role
	ProfileID() string
	ProfileVersion() int
}

// ProfileBase holds the fields every variant shares.
type ProfileBase struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (b ProfileBase) ProfileID() string   { return b.ID }
func (b ProfileBase) ProfileVersion() int { return b.Version }

type JobSeekerProfile struct {
	ProfileBase
	Title          string           `json:"title"`
	Summary        string           `json:"summary"`
	Skills         []string         `json:"skills"`
	ResumeURL      string           `json:"resumeUrl,omitempty"`
	MinSalary      int              `json:"minSalary,omitempty"`
	MaxSalary      int              `json:"maxSalary,omitempty"`
	Experience     []WorkExperience `json:"experience"`
	Education      []Education      `json:"education"`
	Projects       []Project        `json:"projects"`
	Certifications []Certification  `json:"certifications"`
}

func (JobSeekerProfile) ProfileRole() Role { return RoleJobSeeker }

type EmployerProfile struct {
	ProfileBase
	CompanyName string `json:"companyName"`
	Description string `json:"description"`
	Industry    string `json:"industry"`
	CompanySize string `json:"companySize"`
	Website     string `json:"website,omitempty"`
	Location    string `json:"location,omitempty"`
}

func (EmployerProfile) ProfileRole() Role { return RoleEmployer }

type AdminProfile struct {
	ProfileBase
	Department string `json:"department,omitempty"`
}

func (AdminProfile) ProfileRole() Role { return RoleAdmin }

// Sub-entities owned by a JobSeekerProfile. IDs are server-generated;
// nothing deletes them implicitly.

type WorkExperience struct {
	ID          string     `json:"id"`
	Company     string     `json:"company"`
	Title       string     `json:"title"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	Description string     `json:"description,omitempty"`
}

type Education struct {
	ID           string     `json:"id"`
	School       string     `json:"school"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"fieldOfStudy,omitempty"`
	StartDate    time.Time  `json:"startDate"`
	EndDate      *time.Time `json:"endDate,omitempty"`
}

type Project struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
}

type Certification struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Issuer    string     `json:"issuer,omitempty"`
	IssuedAt  time.Time  `json:"issuedAt"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

type SubEntityKind string

const (
	SubExperience    SubEntityKind = "experience"
	SubEducation     SubEntityKind = "education"
	SubProject       SubEntityKind = "project"
	SubCertification SubEntityKind = "certification"
)

// DecodeProfile unmarshals a profile payload into the variant named by its
// profileType discriminator.
func DecodeProfile(data []byte) (Profile, error) {
	var probe struct {
		ProfileType string `json:"profileType"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("profile probe: %w", err)
	}
	role, err := ParseRole(probe.ProfileType)
	if err != nil {
		return nil, err
	}
	switch role {
	case RoleJobSeeker:
		var p JobSeekerProfile
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("job seeker profile: %w", err)
		}
		return p, nil
	case RoleEmployer:
		var p EmployerProfile
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("employer profile: %w", err)
		}
		return p, nil
	case RoleAdmin:
		var p AdminProfile
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("admin profile: %w", err)
		}
		return p, nil
	}
	return nil, fmt.Errorf("unknown profile role %q", role)
}

// EncodeProfile marshals a variant with its profileType tag attached.
func EncodeProfile(p Profile) ([]byte, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	m["profileType"] = string(p.ProfileRole())
	return json.Marshal(m)
}
