package web

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Cookie names. The token cookie is also honored by the API's token
// extraction, so pages and API calls share one session.
const (
	cookieToken    = "access_token"
	cookieRole     = "user_role"
	cookieRemember = "remember_session"
)

const tokenCookieMaxAge = 30 * 24 * 60 * 60 // 30 days

// SessionStore abstracts the visitor's session state: the bearer
// token, the cached role id, and the remember flag. Token and role are
// persistent; the remember flag lives only for the browsing session.
// No validation happens here — only the backend decides whether a
// token is still good.
type SessionStore interface {
	Token() (string, bool)
	RolID() (int, bool)
	Remember() bool
	SetToken(token string)
	SetRolID(rolID int)
	SetRemember(remember bool)
	Clear()
}

// cookieStore implements SessionStore on the request/response cookies
type cookieStore struct {
	c *gin.Context
}

// NewSessionStore returns the cookie-backed store for this request
func NewSessionStore(c *gin.Context) SessionStore {
	return &cookieStore{c: c}
}

func (s *cookieStore) Token() (string, bool) {
	token, err := s.c.Cookie(cookieToken)
	return token, err == nil && token != ""
}

func (s *cookieStore) RolID() (int, bool) {
	raw, err := s.c.Cookie(cookieRole)
	if err != nil {
		return 0, false
	}
	rolID, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return rolID, true
}

func (s *cookieStore) Remember() bool {
	raw, err := s.c.Cookie(cookieRemember)
	return err == nil && raw == "true"
}

func (s *cookieStore) SetToken(token string) {
	s.c.SetSameSite(http.SameSiteLaxMode)
	s.c.SetCookie(cookieToken, token, tokenCookieMaxAge, "/", "", false, true)
}

func (s *cookieStore) SetRolID(rolID int) {
	s.c.SetCookie(cookieRole, strconv.Itoa(rolID), tokenCookieMaxAge, "/", "", false, true)
}

func (s *cookieStore) SetRemember(remember bool) {
	if !remember {
		s.c.SetCookie(cookieRemember, "", -1, "/", "", false, true)
		return
	}
	// MaxAge 0 leaves the cookie session-scoped
	s.c.SetCookie(cookieRemember, "true", 0, "/", "", false, true)
}

func (s *cookieStore) Clear() {
	s.c.SetCookie(cookieToken, "", -1, "/", "", false, true)
	s.c.SetCookie(cookieRole, "", -1, "/", "", false, true)
	s.c.SetCookie(cookieRemember, "", -1, "/", "", false, true)
}
