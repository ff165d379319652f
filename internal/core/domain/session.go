package domain

// Session is an ephemeral, client-held snapshot of an authenticated identity.
// It is derived from one Account at login time and never auto-refreshes: if
// the account's role or name changes afterwards, the already-issued session
// keeps the values it was minted with until explicit logout.
type Session struct {
	Username    string `json:"username"`
	Role        Role   `json:"role"`
	DisplayName string `json:"display_name"`
}

// NewSession snapshots the attributes of a verified account.
func NewSession(a *Account) *Session {
	return &Session{
		Username:    a.Username,
		Role:        a.Role,
		DisplayName: a.DisplayName(),
	}
}

// IsAdmin reports whether the session carries the admin role.
func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}
