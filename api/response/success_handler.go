package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func HandleSuccess(c *gin.Context, data any, message string) {
	ok(c, http.StatusOK, data, message)
}

// HandleCreated answers POSTs that stored a new resource.
func HandleCreated(c *gin.Context, data any, message string) {
	ok(c, http.StatusCreated, data, message)
}

// HandleMessage replies 200 with a message and no data.
func HandleMessage(c *gin.Context, message string) {
	ok(c, http.StatusOK, nil, message)
}

func ok(c *gin.Context, status int, data any, message string) {
	c.JSON(status, &Response{
		Success:   true,
		Data:      data,
		Message:   message,
		Code:      status,
		RequestID: GetRequestID(c),
	})
}
