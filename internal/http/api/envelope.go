// Package api defines the JSON envelope shared by handlers and
// middleware: {success, message?, data?, code?} with the HTTP status
// mirroring the machine code.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/craftconnect/authsvc/domain"
)

// Envelope is the standard response body.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// OK writes a success envelope.
func OK(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

// Fail writes a failure envelope derived from the error taxonomy.
func Fail(c *gin.Context, err error) {
	c.JSON(domain.StatusOf(err), Envelope{
		Success: false,
		Message: err.Error(),
		Code:    domain.CodeOf(err),
	})
}

// Abort writes a failure envelope and stops the middleware chain.
func Abort(c *gin.Context, err error) {
	c.AbortWithStatusJSON(domain.StatusOf(err), Envelope{
		Success: false,
		Message: err.Error(),
		Code:    domain.CodeOf(err),
	})
}

// FailStatus writes a failure envelope with an explicit status and code.
func FailStatus(c *gin.Context, status int, code, message string) {
	c.JSON(status, Envelope{Success: false, Message: message, Code: code})
}
