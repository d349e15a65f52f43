package gateway

import (
	"encoding/json"
	"log"
	"net/http"
	"net/http/cookiejar"
	"time"

	"jobdesk-engine/internal/secrets"
)

// The backend's session cookie is HTTP-only; a browser keeps it in its
// cookie store across reloads. The engine's equivalent of a reload is a
// process restart, so the jar contents for the API origin round-trip
// through the OS keychain.

type savedCookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Path    string    `json:"path,omitempty"`
	Expires time.Time `json:"expires,omitempty"`
}

// PersistSession snapshots the jar's cookies for the API origin into the
// keychain. Call after successful login/register.
func (c *Client) PersistSession() error {
	cookies := c.cookieJar().Cookies(c.base)
	if len(cookies) == 0 {
		return nil
	}
	saved := make([]savedCookie, 0, len(cookies))
	for _, ck := range cookies {
		saved = append(saved, savedCookie{Name: ck.Name, Value: ck.Value, Path: ck.Path, Expires: ck.Expires})
	}
	b, err := json.Marshal(saved)
	if err != nil {
		return err
	}
	return secrets.SetSession(secrets.SessionAccount(c.base.Host), string(b))
}

// RestoreSession loads a previously persisted session into the jar.
// Missing or garbled entries are not errors; the engine just starts
// unauthenticated and CheckStatus sorts it out.
func (c *Client) RestoreSession() {
	s, err := secrets.GetSession(secrets.SessionAccount(c.base.Host))
	if err != nil {
		return
	}
	var saved []savedCookie
	if err := json.Unmarshal([]byte(s), &saved); err != nil {
		log.Printf("[gateway] dropping unreadable stored session: %v", err)
		_ = secrets.DeleteSession(secrets.SessionAccount(c.base.Host))
		return
	}
	cookies := make([]*http.Cookie, 0, len(saved))
	for _, sc := range saved {
		cookies = append(cookies, &http.Cookie{Name: sc.Name, Value: sc.Value, Path: sc.Path, Expires: sc.Expires})
	}
	c.cookieJar().SetCookies(c.base, cookies)
}

// ClearSession wipes both the keychain entry and the in-memory jar.
// HTTP-only cookies can only truly be expired by the backend's logout
// response; dropping the jar is the engine-side best effort. A fresh
// http.Client carries the fresh jar; mutating the live one would race
// with requests already in flight, which keep the old client.
func (c *Client) ClearSession() error {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.hc = &http.Client{Timeout: c.hc.Timeout, Jar: jar}
	c.jar = jar
	c.mu.Unlock()
	return secrets.DeleteSession(secrets.SessionAccount(c.base.Host))
}
