package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/booking-site/internal/audit"
	"github.com/BruksfildServices01/booking-site/internal/config"
	domain "github.com/BruksfildServices01/booking-site/internal/domain/booking"
	"github.com/BruksfildServices01/booking-site/internal/httperr"
	"github.com/BruksfildServices01/booking-site/internal/models"
)

type SettingsHandler struct {
	db     *gorm.DB
	config *config.Config
	audit  *audit.Dispatcher
}

func NewSettingsHandler(db *gorm.DB, cfg *config.Config, audit *audit.Dispatcher) *SettingsHandler {
	return &SettingsHandler{db: db, config: cfg, audit: audit}
}

type UpdateSettingsRequest struct {
	BufferMinutes      *int    `json:"buffer_minutes" binding:"omitempty,min=0,max=720"`
	AdvanceBookingDays *int    `json:"advance_booking_days" binding:"omitempty,min=0,max=730"`
	MinAdvanceHours    *int    `json:"min_advance_hours" binding:"omitempty,min=0,max=8760"`
	CancellationHours  *int    `json:"cancellation_hours" binding:"omitempty,min=0,max=8760"`
	AutoConfirm        *bool   `json:"auto_confirm"`
	Timezone           *string `json:"timezone" binding:"omitempty,iana_tz"`
	Language           *string `json:"language" binding:"omitempty,max=10"`
	SlotStepMinutes    *int    `json:"slot_step_minutes" binding:"omitempty,min=5,max=240"`
}

// load returns the profile's settings, creating the default row if a
// profile predates it.
func (h *SettingsHandler) load(c *gin.Context, profileID uint) (*models.BookingSettings, error) {
	var s models.BookingSettings
	err := h.db.WithContext(c.Request.Context()).
		Where("profile_id = ?", profileID).
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s = models.DefaultBookingSettings(profileID, h.config.DefaultTimezone, h.config.SlotStepMinutes)
		err = h.db.WithContext(c.Request.Context()).Create(&s).Error
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (h *SettingsHandler) Get(c *gin.Context) {
	profileID, _ := owner(c)

	s, err := h.load(c, profileID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *SettingsHandler) Update(c *gin.Context) {
	profileID, _ := owner(c)

	var req UpdateSettingsRequest
	if !bindJSON(c, &req) {
		return
	}

	s, err := h.load(c, profileID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if req.BufferMinutes != nil {
		s.BufferMinutes = *req.BufferMinutes
	}
	if req.AdvanceBookingDays != nil {
		s.AdvanceBookingDays = *req.AdvanceBookingDays
	}
	if req.MinAdvanceHours != nil {
		s.MinAdvanceHours = *req.MinAdvanceHours
	}
	if req.CancellationHours != nil {
		s.CancellationHours = *req.CancellationHours
	}
	if req.AutoConfirm != nil {
		s.AutoConfirm = *req.AutoConfirm
	}
	if req.Timezone != nil {
		s.Timezone = *req.Timezone
	}
	if req.Language != nil {
		s.Language = *req.Language
	}
	if req.SlotStepMinutes != nil {
		s.SlotStepMinutes = *req.SlotStepMinutes
	}

	policy := domain.PolicyFrom(s, h.config.DefaultTimezone, h.config.SlotStepMinutes)
	if err := policy.Validate(); err != nil {
		httperr.Respond(c, err)
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Save(s).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	writeAudit(h.audit, c, "settings_updated", "booking_settings", &s.ID, req)
	c.JSON(http.StatusOK, s)
}
