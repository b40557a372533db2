package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/booking-site/internal/audit"
	"github.com/BruksfildServices01/booking-site/internal/httperr"
	"github.com/BruksfildServices01/booking-site/internal/httpresp"
	"github.com/BruksfildServices01/booking-site/internal/models"
)

// ServiceSlotsHandler manages per-service weekly availability. A service
// with active slots on a weekday ignores the profile rules of that day.
type ServiceSlotsHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewServiceSlotsHandler(db *gorm.DB, audit *audit.Dispatcher) *ServiceSlotsHandler {
	return &ServiceSlotsHandler{db: db, audit: audit}
}

func (h *ServiceSlotsHandler) service(c *gin.Context) (*models.Service, bool) {
	profileID, _ := owner(c)

	id, ok := uintParam(c, "id")
	if !ok {
		return nil, false
	}

	var svc models.Service
	if err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND profile_id = ?", id, profileID).
		First(&svc).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "service_not_found", "Service not found.")
			return nil, false
		}
		httperr.Respond(c, err)
		return nil, false
	}
	return &svc, true
}

func (h *ServiceSlotsHandler) find(c *gin.Context) (*models.ServiceAvailabilitySlot, bool) {
	svc, ok := h.service(c)
	if !ok {
		return nil, false
	}

	slotID, ok := uintParam(c, "slotId")
	if !ok {
		return nil, false
	}

	var slot models.ServiceAvailabilitySlot
	if err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND service_id = ?", slotID, svc.ID).
		First(&slot).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "service_slot_not_found", "Service availability not found.")
			return nil, false
		}
		httperr.Respond(c, err)
		return nil, false
	}
	return &slot, true
}

func (h *ServiceSlotsHandler) List(c *gin.Context) {
	svc, ok := h.service(c)
	if !ok {
		return
	}

	day, filtered, ok := dayFilter(c)
	if !ok {
		return
	}

	q := h.db.WithContext(c.Request.Context()).Where("service_id = ?", svc.ID)
	if filtered {
		q = q.Where("day_of_week = ?", day)
	}

	var slots []models.ServiceAvailabilitySlot
	if err := q.Order("day_of_week ASC, start_time ASC").Find(&slots).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, slots)
}

func (h *ServiceSlotsHandler) Create(c *gin.Context) {
	svc, ok := h.service(c)
	if !ok {
		return
	}

	var req RuleRequest
	if !bindJSON(c, &req) {
		return
	}

	active, err := req.validate()
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	slot := models.ServiceAvailabilitySlot{
		ServiceID: svc.ID,
		DayOfWeek: *req.DayOfWeek,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Active:    active,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&slot).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	writeAudit(h.audit, c, "service_slot_created", "service_availability_slot", &slot.ID,
		map[string]uint{"service_id": svc.ID})
	c.JSON(http.StatusCreated, slot)
}

func (h *ServiceSlotsHandler) Update(c *gin.Context) {
	slot, ok := h.find(c)
	if !ok {
		return
	}

	var req RulePatchRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := req.apply(&slot.DayOfWeek, &slot.StartTime, &slot.EndTime, &slot.Active); err != nil {
		httperr.Respond(c, err)
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Save(slot).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	writeAudit(h.audit, c, "service_slot_updated", "service_availability_slot", &slot.ID, req)
	c.JSON(http.StatusOK, slot)
}

func (h *ServiceSlotsHandler) Delete(c *gin.Context) {
	slot, ok := h.find(c)
	if !ok {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Delete(slot).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	writeAudit(h.audit, c, "service_slot_deleted", "service_availability_slot", &slot.ID, nil)
	c.Status(http.StatusNoContent)
}
