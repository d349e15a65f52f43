package guard

import (
	"net/mail"
	"strings"
	"sync"
	"time"
)

// EmailGate enforces the linear auth sub-flow: the email-check page runs
// first and leaves a short-lived marker; login/register entered without a
// fresh marker bounce back to the email-check page. The marker is
// validated for email shape before being trusted; navigation state is
// spoofable.
type EmailGate struct {
	mu    sync.Mutex
	email string
	setAt time.Time
	ttl   time.Duration
}

const DefaultMarkerTTL = 10 * time.Minute

func NewEmailGate(ttl time.Duration) *EmailGate {
	if ttl <= 0 {
		ttl = DefaultMarkerTTL
	}
	return &EmailGate{ttl: ttl}
}

// Supply records the email-check result. Malformed input never sets the
// marker.
func (g *EmailGate) Supply(email string) bool {
	email = strings.TrimSpace(email)
	if !wellFormedEmail(email) {
		return false
	}
	g.mu.Lock()
	g.email = email
	g.setAt = time.Now()
	g.mu.Unlock()
	return true
}

// Admit returns the marker email when a fresh, well-formed marker exists.
func (g *EmailGate) Admit() (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.email == "" || time.Since(g.setAt) > g.ttl {
		return "", false
	}
	if !wellFormedEmail(g.email) {
		return "", false
	}
	return g.email, true
}

func (g *EmailGate) Clear() {
	g.mu.Lock()
	g.email = ""
	g.mu.Unlock()
}

func wellFormedEmail(s string) bool {
	if s == "" || strings.ContainsAny(s, " \t\n") {
		return false
	}
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}
