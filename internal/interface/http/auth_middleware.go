package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/linwei/smartliving/internal/domain/auth"
	apperrors "github.com/linwei/smartliving/pkg/errors"
)

// authMiddleware verifies the bearer token when one is present and stores the
// claims for downstream handlers. Requests without a header continue
// anonymously; a present but invalid token is rejected outright, even on
// guest-readable routes.
func authMiddleware(svc auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "invalid authorization header", nil))
			return
		}
		token := strings.TrimSpace(parts[1])
		claims, err := svc.Verify(c.Request.Context(), token)
		if err != nil {
			status := http.StatusForbidden
			code := "invalid_token"
			if !apperrors.IsCode(err, "invalid_token") {
				status = http.StatusInternalServerError
				code = "auth_failed"
			}
			abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

// requireAuth gates routes that need an authenticated caller.
func requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := getClaims(c); !ok {
			abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing authorization header", nil))
			return
		}
		c.Next()
	}
}
