package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/booking-site/internal/httperr"
	"github.com/BruksfildServices01/booking-site/internal/middleware"
)

// owner returns the authenticated profile and user ids. Routes behind
// AuthMiddleware always have them.
func owner(c *gin.Context) (profileID uint, userID uint) {
	return c.MustGet(middleware.ContextProfileID).(uint),
		c.MustGet(middleware.ContextUserID).(uint)
}

// uintParam parses a path parameter, writing a 400 on failure.
func uintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		httperr.BadRequest(c, "invalid_"+name, "Invalid "+name+".")
		return 0, false
	}
	return uint(v), true
}

// bindJSON binds the request body, writing a 400 on failure.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return false
	}
	return true
}
