package auth

// SessionData represents the authenticated session context for a request
type SessionData struct {
	UserID int    `json:"user_id"`
	Email  string `json:"email"`
	RolID  int    `json:"id_rol"` // 0 when the user has no role assigned
}

// HasRole reports whether the session's role is in the allowed set
func (s *SessionData) HasRole(allowed ...int) bool {
	for _, r := range allowed {
		if s.RolID == r {
			return true
		}
	}
	return false
}
