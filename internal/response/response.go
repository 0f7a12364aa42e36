package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Body is the uniform response envelope every endpoint returns.
type Body struct {
	Success    bool        `json:"success"`
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message"`
	Errors     []string    `json:"errors,omitempty"`
}

// OK writes a successful envelope.
func OK(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, Body{
		Success:    true,
		StatusCode: status,
		Data:       data,
		Message:    message,
	})
}

// Abort serializes a recognized *Error as-is and aborts the request.
// Anything else is logged server-side and downgraded to an opaque 500.
func Abort(c *gin.Context, err error) {
	if apiErr, ok := err.(*Error); ok {
		c.AbortWithStatusJSON(apiErr.Status, Body{
			Success:    false,
			StatusCode: apiErr.Status,
			Message:    apiErr.Message,
			Errors:     apiErr.Errors,
		})
		return
	}

	logrus.WithError(err).WithField("path", c.FullPath()).Error("unhandled error")
	c.AbortWithStatusJSON(http.StatusInternalServerError, Body{
		Success:    false,
		StatusCode: http.StatusInternalServerError,
		Message:    "Internal Server Error",
	})
}
