package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the "error" member of a failed response.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	ErrorWithDetails(c, statusCode, code, message, nil)
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error":   ErrorBody{Code: code, Message: message, Details: details},
	})
}

// Abort writes the error and stops the handler chain.
func Abort(c *gin.Context, statusCode int, code string, message string) {
	Error(c, statusCode, code, message)
	c.Abort()
}

// BadRequest reports a request that failed binding or validation.
func BadRequest(c *gin.Context, err error) {
	Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
}
