package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

var statusByKind = map[Kind]int{
	KindValidation:        http.StatusBadRequest,
	KindNotFound:          http.StatusNotFound,
	KindConflict:          http.StatusConflict,
	KindInvalidTransition: http.StatusUnprocessableEntity,
	KindForbidden:         http.StatusForbidden,
	KindUnavailable:       http.StatusServiceUnavailable,
}

var messages = map[string]string{
	"slot_unavailable":           "The requested time is no longer available. Fetch slots again and pick another time.",
	"invalid_transition":         "The booking cannot move to the requested status.",
	"cancellation_window_closed": "The cancellation deadline for this booking has passed.",
	"booking_busy":               "Too many simultaneous requests for this day. Try again.",
}

// StatusOf returns the HTTP status a business error maps to, 500 otherwise.
func StatusOf(err error) int {
	var be BusinessError
	if errors.As(err, &be) {
		if status, ok := statusByKind[be.Kind]; ok {
			return status
		}
		return http.StatusBadRequest
	}
	if IsExclusionConflict(err) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// Respond writes err as the standard error body.
func Respond(c *gin.Context, err error) {
	status := StatusOf(err)

	var be BusinessError
	switch {
	case errors.As(err, &be):
		msg, ok := messages[be.Code]
		if !ok {
			msg = be.Code
		}
		Write(c, status, be.Code, msg)
	case status == http.StatusConflict:
		Write(c, status, "slot_unavailable", messages["slot_unavailable"])
	default:
		zap.L().Error("unhandled error", zap.String("path", c.FullPath()), zap.Error(err))
		Internal(c, "internal_error", "Internal error.")
	}
}
