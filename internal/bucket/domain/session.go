package domain

import "time"

// Session is the result of a successful login: a signed stateless token the
// client holds on to, plus the identity it is bound to. Sessions are never
// persisted server-side; logout is the client discarding the token.
type Session struct {
	Token     string
	User      User
	ExpiresAt time.Time
}
