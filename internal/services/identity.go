package services

import (
	"net"
	"net/http"
	"strings"

	"inkwell/internal/middleware"
	"inkwell/internal/models"

	"github.com/gin-gonic/gin"
)

// ResolveIdentity derives the acting identity for a vote: the session user
// when one is logged in, plus the client network address that keys the
// rating ledger. Anonymous voters get a nil user id.
func ResolveIdentity(c *gin.Context) (userID *uint, addr string) {
	if v, exists := c.Get(middleware.CheckUserKey); exists {
		if u, ok := v.(*models.User); ok {
			userID = &u.ID
		}
	}
	return userID, ClientAddress(c.Request)
}

// ClientAddress returns the first X-Forwarded-For entry when the header is
// present, otherwise the host part of the peer address.
func ClientAddress(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first := strings.TrimSpace(strings.Split(fwd, ",")[0])
		if first != "" {
			return first
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
