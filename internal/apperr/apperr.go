package apperr

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// Error is an application error carrying the HTTP status it maps to.
// Message is what the client sees; Err is the internal cause and is
// logged but never serialized.
type Error struct {
	Code    int    `json:"-"`
	Message string `json:"error"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped cause
func (e *Error) Unwrap() error {
	return e.Err
}

// Constructors for the error taxonomy
func BadRequest(msg string) *Error   { return &Error{Code: http.StatusBadRequest, Message: msg} }
func Unauthorized(msg string) *Error { return &Error{Code: http.StatusUnauthorized, Message: msg} }
func Forbidden(msg string) *Error    { return &Error{Code: http.StatusForbidden, Message: msg} }
func NotFound(msg string) *Error     { return &Error{Code: http.StatusNotFound, Message: msg} }
func Conflict(msg string) *Error     { return &Error{Code: http.StatusConflict, Message: msg} }

// Internal wraps a storage or crypto failure behind a generic message
// so raw error text is never leaked to the client
func Internal(msg string, err error) *Error {
	return &Error{Code: http.StatusInternalServerError, Message: msg, Err: err}
}

// Respond writes err as a JSON response. Anything that is not an
// *Error is treated as an internal failure.
func Respond(c *gin.Context, err error) {
	appErr, ok := err.(*Error)
	if !ok {
		appErr = Internal("Internal server error", err)
	}
	// Internal causes are logged here, at the handler boundary
	if appErr.Err != nil {
		logrus.WithFields(logrus.Fields{
			"path":  c.FullPath(),
			"error": appErr.Err.Error(),
		}).Error(appErr.Message)
	}
	c.JSON(appErr.Code, gin.H{"error": appErr.Message})
}
