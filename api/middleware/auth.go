package middleware

import (
	"context"
	stderrors "errors"
	"strings"

	"campusfood/api/ctxutil"
	"campusfood/api/response"
	"campusfood/infrastructure/security"
	"campusfood/pkg/errors"

	"github.com/gin-gonic/gin"
)

type TokenVerifier interface {
	Verify(token string) (security.Identity, error)
}

// AdminChecker fails with NotFound for a vanished user and Forbidden for a non-admin.
type AdminChecker interface {
	RequireAdmin(ctx context.Context, userID int64) error
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

// RequireIdentity rejects requests without a bearer token with 401 and
// requests with a bad or expired one with 403.
func RequireIdentity(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.Abort(c, errors.Unauthenticated("access token required"))
			return
		}
		id, err := verifier.Verify(token)
		if err != nil {
			if stderrors.Is(err, security.ErrTokenExpired) {
				response.Abort(c, errors.Forbidden("token expired"))
				return
			}
			response.Abort(c, errors.Forbidden("invalid token"))
			return
		}
		ctxutil.SetIdentity(c, id)
		c.Next()
	}
}

// OptionalIdentity attaches the identity when a valid token is present and
// otherwise lets the request through anonymously.
func OptionalIdentity(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if id, err := verifier.Verify(token); err == nil {
				ctxutil.SetIdentity(c, id)
			}
		}
		c.Next()
	}
}

// RequireAdmin must run after RequireIdentity.
func RequireAdmin(checker AdminChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := ctxutil.Identity(c)
		if !ok {
			response.Abort(c, errors.Unauthenticated("access token required"))
			return
		}
		if err := checker.RequireAdmin(ctxutil.WithRequestID(c), id.UserID); err != nil {
			response.AbortAppError(c, err)
			return
		}
		c.Next()
	}
}
