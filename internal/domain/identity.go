package domain

import "time"

// Identity is what /auth/me gives back. The session credential itself is an
// HTTP-only cookie held in the gateway's jar; engine code never sees it.
type Identity struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	CreatedAt time.Time `json:"createdAt"`
}
