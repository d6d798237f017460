// Package ctxutil moves request-scoped values between gin and context.Context.
package ctxutil

import (
	"context"
	"strconv"

	"campusfood/api/response"
	"campusfood/infrastructure/persistence"
	"campusfood/infrastructure/security"
	"campusfood/pkg/errors"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// WithRequestID returns the request context tagged with the request id.
func WithRequestID(c *gin.Context) context.Context {
	return persistence.ContextWithRequestID(c.Request.Context(), response.GetRequestID(c))
}

func SetIdentity(c *gin.Context, id security.Identity) {
	c.Set(identityKey, id)
}

func Identity(c *gin.Context) (security.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return security.Identity{}, false
	}
	id, ok := v.(security.Identity)
	return id, ok
}

// UserID is zero for anonymous requests.
func UserID(c *gin.Context) int64 {
	id, _ := Identity(c)
	return id.UserID
}

// ParamID parses a positive integer path parameter.
func ParamID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.BadRequest("invalid " + name)
	}
	return id, nil
}
