package web

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const cookieFlash = "flash"

// Flash kinds map to the styling of the rendered notification.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

// Flash is a transient one-shot message: it survives exactly one
// redirect and is consumed on the next page render.
type Flash struct {
	Kind    string
	Message string
}

// Notify queues a flash message for the next rendered page
func Notify(c *gin.Context, kind, message string) {
	c.SetCookie(cookieFlash, kind+"|"+message, 60, "/", "", false, true)
}

// PopFlash consumes the pending flash message, if any. The cookie is
// cleared so the message renders at most once.
func PopFlash(c *gin.Context) (Flash, bool) {
	raw, err := c.Cookie(cookieFlash)
	if err != nil || raw == "" {
		return Flash{}, false
	}
	c.SetCookie(cookieFlash, "", -1, "/", "", false, true)
	kind, message, found := strings.Cut(raw, "|")
	if !found {
		return Flash{Kind: FlashInfo, Message: raw}, true
	}
	return Flash{Kind: kind, Message: message}, true
}
