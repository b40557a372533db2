package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/booking-site/internal/audit"
	"github.com/BruksfildServices01/booking-site/internal/domain/availability"
	"github.com/BruksfildServices01/booking-site/internal/httperr"
	"github.com/BruksfildServices01/booking-site/internal/httpresp"
	"github.com/BruksfildServices01/booking-site/internal/models"
)

// ======================================================
// REQUESTS (shared with service availability)
// ======================================================

type RuleRequest struct {
	DayOfWeek *int   `json:"day_of_week" binding:"required,min=0,max=6"`
	StartTime string `json:"start_time" binding:"required,hhmm"`
	EndTime   string `json:"end_time" binding:"required,hhmm"`
	Active    *bool  `json:"active"`
}

type RulePatchRequest struct {
	DayOfWeek *int    `json:"day_of_week" binding:"omitempty,min=0,max=6"`
	StartTime *string `json:"start_time" binding:"omitempty,hhmm"`
	EndTime   *string `json:"end_time" binding:"omitempty,hhmm"`
	Active    *bool   `json:"active"`
}

func (r RuleRequest) validate() (bool, error) {
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	_, err := availability.NewWeeklyRule(*r.DayOfWeek, r.StartTime, r.EndTime, active)
	return active, err
}

// apply patches the fields in place and revalidates the result.
func (p RulePatchRequest) apply(day *int, start, end *string, active *bool) error {
	if p.DayOfWeek != nil {
		*day = *p.DayOfWeek
	}
	if p.StartTime != nil {
		*start = *p.StartTime
	}
	if p.EndTime != nil {
		*end = *p.EndTime
	}
	if p.Active != nil {
		*active = *p.Active
	}
	_, err := availability.NewWeeklyRule(*day, *start, *end, *active)
	return err
}

// dayFilter reads the optional ?day= query value.
func dayFilter(c *gin.Context) (int, bool, bool) {
	raw := c.Query("day")
	if raw == "" {
		return 0, false, true
	}
	day, err := strconv.Atoi(raw)
	if err != nil || day < 0 || day > 6 {
		httperr.BadRequest(c, "invalid_day_of_week", "day must be between 0 and 6.")
		return 0, false, false
	}
	return day, true, true
}

// ======================================================
// HANDLER
// ======================================================

type WeeklyRulesHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewWeeklyRulesHandler(db *gorm.DB, audit *audit.Dispatcher) *WeeklyRulesHandler {
	return &WeeklyRulesHandler{db: db, audit: audit}
}

func (h *WeeklyRulesHandler) List(c *gin.Context) {
	profileID, _ := owner(c)

	day, filtered, ok := dayFilter(c)
	if !ok {
		return
	}

	q := h.db.WithContext(c.Request.Context()).Where("profile_id = ?", profileID)
	if filtered {
		q = q.Where("day_of_week = ?", day)
	}

	var rules []models.WeeklyRule
	if err := q.Order("day_of_week ASC, start_time ASC").Find(&rules).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, rules)
}

func (h *WeeklyRulesHandler) Create(c *gin.Context) {
	profileID, _ := owner(c)

	var req RuleRequest
	if !bindJSON(c, &req) {
		return
	}

	active, err := req.validate()
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	rule := models.WeeklyRule{
		ProfileID: profileID,
		DayOfWeek: *req.DayOfWeek,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Active:    active,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&rule).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	writeAudit(h.audit, c, "weekly_rule_created", "weekly_rule", &rule.ID, nil)
	c.JSON(http.StatusCreated, rule)
}

func (h *WeeklyRulesHandler) find(c *gin.Context) (*models.WeeklyRule, bool) {
	profileID, _ := owner(c)

	id, ok := uintParam(c, "id")
	if !ok {
		return nil, false
	}

	var rule models.WeeklyRule
	if err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND profile_id = ?", id, profileID).
		First(&rule).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "weekly_rule_not_found", "Weekly rule not found.")
			return nil, false
		}
		httperr.Respond(c, err)
		return nil, false
	}
	return &rule, true
}

func (h *WeeklyRulesHandler) Update(c *gin.Context) {
	rule, ok := h.find(c)
	if !ok {
		return
	}

	var req RulePatchRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := req.apply(&rule.DayOfWeek, &rule.StartTime, &rule.EndTime, &rule.Active); err != nil {
		httperr.Respond(c, err)
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Save(rule).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	writeAudit(h.audit, c, "weekly_rule_updated", "weekly_rule", &rule.ID, req)
	c.JSON(http.StatusOK, rule)
}

func (h *WeeklyRulesHandler) Delete(c *gin.Context) {
	rule, ok := h.find(c)
	if !ok {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Delete(rule).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	writeAudit(h.audit, c, "weekly_rule_deleted", "weekly_rule", &rule.ID, nil)
	c.Status(http.StatusNoContent)
}
