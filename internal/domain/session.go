package domain

// UserInfo is the authenticated identity held by a session.
type UserInfo struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Token string `json:"token"`
}

// Session is the per-visitor authentication snapshot. User is nil until a
// login or register succeeds.
type Session struct {
	User *UserInfo `json:"user,omitempty"`
}

func (s Session) LoggedIn() bool {
	return s.User != nil
}

// UserProfile is the backend's view of an account, as returned by the
// profile fetch and update actions.
type UserProfile struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
