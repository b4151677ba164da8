package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Cookie names the storefront uses to carry identity. Auth mechanics live
// elsewhere; here they are opaque keys scoping a cart.
const (
	customerCookie = "customer-id"
	sessionCookie  = "session-id"
)

const cookieMaxAge = 30 * 24 * 60 * 60

// callerIdentity is the resolved owner of the request's cart: at most one
// of the two fields is set, customer winning over session.
type callerIdentity struct {
	CustomerID *string
	SessionID  *string
}

func (id callerIdentity) present() bool {
	return id.CustomerID != nil || id.SessionID != nil
}

func resolveIdentity(c *gin.Context) callerIdentity {
	if v, err := c.Cookie(customerCookie); err == nil && v != "" {
		return callerIdentity{CustomerID: &v}
	}
	if v, err := c.Cookie(sessionCookie); err == nil && v != "" {
		return callerIdentity{SessionID: &v}
	}
	return callerIdentity{}
}

func setIdentityCookie(c *gin.Context, name, value string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, cookieMaxAge, "/", "", false, true)
}

func clearIdentityCookie(c *gin.Context, name string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, "", -1, "/", "", false, true)
}
