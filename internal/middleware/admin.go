package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdminVerifier decides whether a set of basic-auth credentials belongs to an
// administrator. Injected so the credential source stays out of the HTTP
// layer.
type AdminVerifier interface {
	VerifyAdmin(username, password string) bool
}

// AdminVerifierFunc adapts a plain function to the AdminVerifier interface.
type AdminVerifierFunc func(username, password string) bool

func (f AdminVerifierFunc) VerifyAdmin(username, password string) bool {
	return f(username, password)
}

// NewConfigAdminVerifier verifies against a single configured credential pair
// using constant-time comparison.
func NewConfigAdminVerifier(adminUsername, adminPassword string) AdminVerifier {
	return AdminVerifierFunc(func(username, password string) bool {
		userOK := subtle.ConstantTimeCompare([]byte(username), []byte(adminUsername)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(password), []byte(adminPassword)) == 1
		return userOK && passOK
	})
}

// AdminAuth guards administrator endpoints with HTTP basic auth checked
// against the injected verifier.
func AdminAuth(verifier AdminVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, password, ok := c.Request.BasicAuth()
		if !ok || !verifier.VerifyAdmin(username, password) {
			GetLoggerFromCtx(c.Request.Context()).Warn("Admin authentication failed")
			c.Header("WWW-Authenticate", `Basic realm="admin"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Admin credentials required"})
			return
		}
		c.Next()
	}
}
