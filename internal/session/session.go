// Package session holds the client-side record of who is logged in.
//
// A Session is an immutable value. The Context owns the current Session and
// only changes it through SetSession and ClearSession, persisting every
// change to a Store so the session survives restarts.
package session

import "hrhub/internal/model"

// Session is the authenticated principal and its token, or Anonymous.
type Session struct {
	token   string
	profile model.Profile
}

// Anonymous is the unauthenticated session.
var Anonymous = Session{}

// New returns an authenticated session. An empty token yields Anonymous.
func New(token string, profile model.Profile) Session {
	if token == "" {
		return Anonymous
	}
	return Session{token: token, profile: profile}
}

func (s Session) Token() string { return s.token }

// Profile returns the public profile and whether the session is authenticated.
func (s Session) Profile() (model.Profile, bool) {
	return s.profile, s.IsAuthenticated()
}

func (s Session) IsAuthenticated() bool { return s.token != "" }
