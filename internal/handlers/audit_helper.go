package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/booking-site/internal/audit"
	"github.com/BruksfildServices01/booking-site/internal/middleware"
)

// writeAudit records an owner action with the identity from the request.
func writeAudit(
	d *audit.Dispatcher,
	c *gin.Context,
	action string,
	entity string,
	entityID *uint,
	meta any,
) {
	profileID, _ := middleware.ProfileID(c)

	var userID *uint
	if id, ok := middleware.UserID(c); ok {
		userID = &id
	}

	d.Dispatch(audit.Event{
		ProfileID: profileID,
		UserID:    userID,
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Metadata:  meta,
	})
}
