package guard

import (
	"context"

	"jobdesk-engine/internal/domain"
)

// Prober is the two probes SmartRedirect needs; *state.Store satisfies it.
type Prober interface {
	CheckStatus(ctx context.Context) (*domain.Identity, error)
	FetchCurrentProfile(ctx context.Context) (domain.Profile, error)
}

// SmartRedirect backs "/" and the 404 fallback: probe auth, then profile,
// and land on exactly one of the auth page, the role chooser, or the
// role's dashboard. A profile-fetch 404 comes back as (nil, nil) from the
// store, which is the role-chooser case, not an error.
func SmartRedirect(ctx context.Context, p Prober) (string, error) {
	id, err := p.CheckStatus(ctx)
	if err != nil {
		return PathAuth, err
	}
	if id == nil {
		return PathAuth, nil
	}

	profile, err := p.FetchCurrentProfile(ctx)
	if err != nil {
		return PathRoleChooser, err
	}
	if profile == nil {
		return PathRoleChooser, nil
	}
	return DashboardPath(profile.ProfileRole()), nil
}
