package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"pingo-api/internal/application/ports"
	"pingo-api/internal/domain/upload"
	"pingo-api/internal/domain/user"
)

const (
	CtxUserID = "userID"

	AuthCookie = "auth_token"
)

// Credentials collects the raw bearer token and auth cookie of a request
// without validating either.
func Credentials(c *gin.Context) upload.Credentials {
	var creds upload.Credentials
	if h := c.GetHeader("Authorization"); h != "" {
		if tok, ok := strings.CutPrefix(h, "Bearer "); ok {
			creds.Bearer = strings.TrimSpace(tok)
		}
	}
	if v, err := c.Cookie(AuthCookie); err == nil {
		creds.Cookie = v
	}
	return creds
}

// AuthMiddleware requires a verified identity from the bearer token or,
// when none is sent, the auth cookie.
func AuthMiddleware(verifier ports.CredentialVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		creds := Credentials(c)
		tok := creds.Bearer
		if tok == "" {
			tok = creds.Cookie
		}
		if tok == "" {
			c.AbortWithStatusJSON(
				http.StatusUnauthorized,
				gin.H{"error": "missing credentials"},
			)
			return
		}

		id, ok := verifier.VerifyCredential(tok)
		if !ok {
			c.AbortWithStatusJSON(
				http.StatusUnauthorized,
				gin.H{"error": "invalid token"},
			)
			return
		}

		c.Set(CtxUserID, id)

		c.Next()
	}
}

// UserID is user.Anonymous outside AuthMiddleware.
func UserID(c *gin.Context) user.ID {
	if v, ok := c.Get(CtxUserID); ok {
		if id, ok := v.(user.ID); ok {
			return id
		}
	}
	return user.Anonymous
}
