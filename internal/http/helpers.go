package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/mrlokans/criminaldb/internal/auth"
	"github.com/mrlokans/criminaldb/internal/failure"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"` // failure kind, or a route-specific code
}

// SuccessResponse is a standard success response with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response for input rejected before
// it reached a service.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message, Code: string(failure.KindValidation)})
}

// respondError sends an error response with the given status code.
func respondError(c *gin.Context, status int, message, code string) {
	c.JSON(status, ErrorResponse{Error: message, Code: code})
}

// statusFor maps a failure kind onto an HTTP status.
func statusFor(err error) int {
	if errors.Is(err, auth.ErrInvalidCredentials) {
		return http.StatusUnauthorized
	}
	switch failure.KindOf(err) {
	case failure.KindValidation:
		return http.StatusBadRequest
	case failure.KindNotFound:
		return http.StatusNotFound
	case failure.KindConstraint:
		return http.StatusConflict
	case failure.KindConnectivity:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondFailure reports a classified error. The message goes out as is:
// validation messages are fixed strings and store messages are shown verbatim.
func respondFailure(c *gin.Context, err error) {
	status := statusFor(err)
	kind := failure.KindOf(err)

	entry := log.WithFields(log.Fields{
		"path": c.FullPath(),
		"kind": kind,
	}).WithError(err)
	var fe *failure.Error
	if errors.As(err, &fe) {
		entry = entry.WithField("op", fe.Op)
	}
	if status >= http.StatusInternalServerError {
		entry.Error("Request failed")
	} else {
		entry.Debug("Request rejected")
	}

	c.JSON(status, ErrorResponse{Error: err.Error(), Code: string(kind)})
}

// --- Success Response Helpers ---

// respondSuccess sends a 200 OK response with a message.
func respondSuccess(c *gin.Context, message string) {
	c.JSON(http.StatusOK, SuccessResponse{Message: message})
}

// respondCreated sends a 201 Created response with data.
func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}
