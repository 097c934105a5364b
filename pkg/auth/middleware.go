package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const principalKey = "auth.principal"

// Middleware rejects requests without a valid bearer token with 401 and
// stores the token subject on the context.
func Middleware(v *Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c.GetHeader("Authorization"))
		if err == nil {
			var claims *Claims
			claims, err = v.Verify(token)
			if err == nil {
				c.Set(principalKey, claims.Subject)
				c.Next()
				return
			}
		}

		detail := "Given token not valid"
		if errors.Is(err, ErrMissingToken) {
			detail = "Authentication credentials were not provided."
		}

		log.Debug().Err(err).Str("path", c.Request.URL.Path).Msg("Rejected unauthenticated request")

		c.Header("WWW-Authenticate", `Bearer realm="api"`)
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": detail})
	}
}

// PrincipalFrom returns the authenticated subject set by Middleware.
func PrincipalFrom(c *gin.Context) (string, bool) {
	who := c.GetString(principalKey)
	return who, who != ""
}
