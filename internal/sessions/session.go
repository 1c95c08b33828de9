package sessions

import "time"

// Session is the per-client transient state: at most one pending flash
// message and at most one authenticated username.
type Session struct {
	ID        string    `json:"id"`
	Username  string    `json:"username,omitempty"`
	Flash     string    `json:"flash,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the session is past its expiry.
func (s *Session) Expired() bool {
	return time.Now().UTC().After(s.ExpiresAt)
}
