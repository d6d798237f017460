/*
Package response renders the JSON envelope shared by every endpoint.

HTTP status mapping lives in pkg/errors; domain and application code never see
it. Failures are logged in full (chain, code, stack) and replied to with the
error code and a user-facing message. Server-side messages are replaced by a
generic one unless internal errors are exposed for development.

	success: { success: true, data: {...}, message: "...", code: 200, request_id: "..." }
	failure: { success: false, error: "ERROR_CODE", message: "...", code: 4xx/5xx, request_id: "..." }
*/
package response

import (
	stderrors "errors"
	"net/http"
	"runtime"
	"sync/atomic"

	"campusfood/domain/shared"
	"campusfood/pkg/errors"
	"campusfood/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const internalMessage = "internal server error"

var exposeInternal atomic.Bool

// ExposeInternalErrors controls whether 5xx replies carry the underlying message.
func ExposeInternalErrors(on bool) {
	exposeInternal.Store(on)
}

func GetRequestID(c *gin.Context) string {
	if requestID, exists := c.Get(RequestIDKey); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return ""
}

func captureStack(skip int) []string {
	var pcs [16]uintptr
	n := runtime.Callers(skip, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	stack := make([]string, 0, 5)
	for i := 0; i < 5; i++ {
		frame, more := frames.Next()
		if frame.Function != "" {
			stack = append(stack, frame.Function)
		}
		if !more {
			break
		}
	}
	return stack
}

// HandleError replies to framework-level failures such as malformed JSON.
func HandleError(c *gin.Context, err error, message string, code int) {
	requestID := GetRequestID(c)

	logger.Warn(message,
		zap.String("request_id", requestID),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.Int("status", code),
		zap.Error(err))

	c.JSON(code, &Response{
		Success:   false,
		Error:     string(errors.CodeBadRequest),
		Message:   message,
		Code:      code,
		RequestID: requestID,
	})
}

// HandleAppError classifies err and replies with the mapped status.
func HandleAppError(c *gin.Context, err error) {
	requestID := GetRequestID(c)
	appErr := errors.FromDomainError(err)
	status := appErr.HTTPStatusCode()

	fields := []zap.Field{
		zap.String("request_id", requestID),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.String("error_code", string(appErr.Code)),
		zap.Int("http_status", status),
	}
	if appErr.Err != nil {
		fields = append(fields, zap.Error(appErr.Err))
	}

	message := appErr.Message
	if appErr.IsServerError() {
		logger.Error(appErr.Message, append(fields, zap.Strings("stack", extractStack(err)))...)
		if !exposeInternal.Load() {
			message = internalMessage
		}
	} else {
		logger.Warn(appErr.Message, fields...)
	}

	c.JSON(status, &Response{
		Success:   false,
		Error:     string(appErr.Code),
		Message:   message,
		Code:      status,
		RequestID: requestID,
	})
}

// Abort replies with appErr and stops the handler chain.
func Abort(c *gin.Context, appErr *errors.AppError) {
	c.AbortWithStatusJSON(appErr.HTTPStatusCode(), &Response{
		Success:   false,
		Error:     string(appErr.Code),
		Message:   appErr.Message,
		Code:      appErr.HTTPStatusCode(),
		RequestID: GetRequestID(c),
	})
}

// AbortAppError is HandleAppError for middleware.
func AbortAppError(c *gin.Context, err error) {
	HandleAppError(c, err)
	c.Abort()
}

// AbortInternal replies 500 with the generic message.
func AbortInternal(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, &Response{
		Success:   false,
		Error:     string(errors.CodeInternal),
		Message:   internalMessage,
		Code:      http.StatusInternalServerError,
		RequestID: GetRequestID(c),
	})
}

// extractStack prefers the stack captured where a domain error was created.
func extractStack(err error) []string {
	var stacker shared.Stacker
	if stderrors.As(err, &stacker) {
		if stack := stacker.Stack(); len(stack) > 0 {
			return stack
		}
	}
	return captureStack(4)
}
