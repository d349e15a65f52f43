// Package guard holds the pure routing decisions: given what the auth and
// profile slices currently know, where should a page send the user? No
// network, no state mutation; the caller triggers fetches when told to.
package guard

import (
	"strings"

	"jobdesk-engine/internal/domain"
)

type Decision string

const (
	Allow               Decision = "allow"
	RedirectLogin       Decision = "redirect_login"
	FetchProfile        Decision = "fetch_profile" // trigger fetch, render loading
	RedirectRoleChooser Decision = "redirect_role_chooser"
	RedirectDashboard   Decision = "redirect_dashboard"
)

// Client-side routes. The role chooser is where profile-less users land.
const (
	PathAuth        = "/auth"
	PathLogin       = "/auth/login"
	PathRegister    = "/auth/register"
	PathRoleChooser = "/auth/choose-role"
)

type Requirements struct {
	RequireAuth    bool
	RequireProfile bool
}

// Snapshot is the guard's read of the store: authenticated or not, whether
// the profile fetch has completed (absence counts as completed), and the
// profile itself when there is one.
type Snapshot struct {
	Authenticated bool
	ProfileLoaded bool
	Profile       domain.Profile // nil when absent or not yet loaded
}

type Result struct {
	Decision Decision
	Target   string // redirect destination; empty for Allow/FetchProfile
	ReturnTo string // preserved intended destination on a login redirect
}

// Evaluate picks exactly one outcome for a page at currentPath.
func Evaluate(req Requirements, s Snapshot, currentPath string) Result {
	if req.RequireAuth && !s.Authenticated {
		return Result{Decision: RedirectLogin, Target: PathAuth, ReturnTo: currentPath}
	}

	if req.RequireProfile {
		if !s.ProfileLoaded {
			return Result{Decision: FetchProfile}
		}
		if !profileUsable(s.Profile) {
			return Result{Decision: RedirectRoleChooser, Target: PathRoleChooser}
		}
	}

	// a finished profile has no business on the chooser page; move it on
	if currentPath == PathRoleChooser && s.ProfileLoaded && profileUsable(s.Profile) {
		return Result{Decision: RedirectDashboard, Target: RoleLandingPath(s.Profile.ProfileRole())}
	}

	return Result{Decision: Allow}
}

// profileUsable: a profile exists and carries the minimum identity fields.
// Missing role (nil profile) or missing first/last name sends the user
// back through role selection.
func profileUsable(p domain.Profile) bool {
	if p == nil {
		return false
	}
	switch v := p.(type) {
	case domain.JobSeekerProfile:
		return named(v.FirstName, v.LastName)
	case domain.EmployerProfile:
		return named(v.FirstName, v.LastName)
	case domain.AdminProfile:
		return named(v.FirstName, v.LastName)
	}
	return false
}

func named(first, last string) bool {
	return strings.TrimSpace(first) != "" && strings.TrimSpace(last) != ""
}

// RoleLandingPath maps a role to its post-chooser landing page.
func RoleLandingPath(role domain.Role) string {
	switch role {
	case domain.RoleJobSeeker:
		return "/profile/job-seeker"
	case domain.RoleEmployer:
		return "/profile/employer"
	case domain.RoleAdmin:
		return "/admin/dashboard"
	}
	return PathRoleChooser
}

// DashboardPath maps a role to its dashboard.
func DashboardPath(role domain.Role) string {
	switch role {
	case domain.RoleJobSeeker:
		return "/dashboard"
	case domain.RoleEmployer:
		return "/employer/dashboard"
	case domain.RoleAdmin:
		return "/admin/dashboard"
	}
	return PathAuth
}
