package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/charlesng35/paintstore/pkg/errors"
)

// ErrorBody is the payload written for failed requests. Detail keeps the field
// name mobile clients already parse.
type ErrorBody struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

// JSON writes data as the bare response body.
func JSON(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// Strings writes a JSON array of strings, never null.
func Strings(c *gin.Context, values []string) {
	if values == nil {
		values = []string{}
	}
	c.JSON(http.StatusOK, values)
}

// Error writes a JSON error response derived from an AppError.
func Error(c *gin.Context, err error) {
	if err == nil {
		err = appErrors.ErrInternalServer
	}

	appErr := appErrors.FromError(err)
	status := appErr.StatusCode
	if status == 0 {
		status = http.StatusInternalServerError
	}

	detail := appErr.Message
	if appErr.Internal != nil && status >= http.StatusInternalServerError {
		detail = appErr.Error()
	}

	c.AbortWithStatusJSON(status, ErrorBody{
		Code:   appErr.Code,
		Detail: detail,
	})
}
