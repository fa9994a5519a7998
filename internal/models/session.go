package models

// Session is a point-in-time view of the auth store.
type Session struct {
	User    *AdminUser `json:"user"`
	Loading bool       `json:"loading"`
	Error   string     `json:"error,omitempty"`
}

// Authenticated reports whether a user is present.
func (s Session) Authenticated() bool {
	return s.User != nil
}
