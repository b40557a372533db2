package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/booking-site/internal/audit"
	"github.com/BruksfildServices01/booking-site/internal/domain/availability"
	"github.com/BruksfildServices01/booking-site/internal/httperr"
	"github.com/BruksfildServices01/booking-site/internal/httpresp"
	"github.com/BruksfildServices01/booking-site/internal/models"
)

type ScheduleBlocksHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewScheduleBlocksHandler(db *gorm.DB, audit *audit.Dispatcher) *ScheduleBlocksHandler {
	return &ScheduleBlocksHandler{db: db, audit: audit}
}

// --------- Requests ---------

type CreateBlockRequest struct {
	StartDate string  `json:"start_date" binding:"required,ymd"`
	EndDate   string  `json:"end_date" binding:"required,ymd"`
	IsAllDay  bool    `json:"is_all_day"`
	StartTime *string `json:"start_time" binding:"omitempty,hhmm"`
	EndTime   *string `json:"end_time" binding:"omitempty,hhmm"`
	Reason    string  `json:"reason" binding:"max=255"`
}

type UpdateBlockRequest struct {
	StartDate *string `json:"start_date" binding:"omitempty,ymd"`
	EndDate   *string `json:"end_date" binding:"omitempty,ymd"`
	IsAllDay  *bool   `json:"is_all_day"`
	StartTime *string `json:"start_time" binding:"omitempty,hhmm"`
	EndTime   *string `json:"end_time" binding:"omitempty,hhmm"`
	Reason    *string `json:"reason" binding:"omitempty,max=255"`
}

// --------- Handlers ---------

// List accepts optional from/to dates and returns blocks overlapping them.
func (h *ScheduleBlocksHandler) List(c *gin.Context) {
	profileID, _ := owner(c)

	q := h.db.WithContext(c.Request.Context()).Where("profile_id = ?", profileID)

	if from := c.Query("from"); from != "" {
		if _, err := availability.ParseDate(from); err != nil {
			httperr.Respond(c, err)
			return
		}
		q = q.Where("end_date >= ?", from)
	}
	if to := c.Query("to"); to != "" {
		if _, err := availability.ParseDate(to); err != nil {
			httperr.Respond(c, err)
			return
		}
		q = q.Where("start_date <= ?", to)
	}

	var blocks []models.ScheduleBlock
	if err := q.Order("start_date ASC, start_time ASC").Find(&blocks).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, blocks)
}

func (h *ScheduleBlocksHandler) Create(c *gin.Context) {
	profileID, _ := owner(c)

	var req CreateBlockRequest
	if !bindJSON(c, &req) {
		return
	}

	if _, err := availability.NewBlock(req.StartDate, req.EndDate, req.IsAllDay, req.StartTime, req.EndTime); err != nil {
		httperr.Respond(c, err)
		return
	}

	block := models.ScheduleBlock{
		ProfileID: profileID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		IsAllDay:  req.IsAllDay,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Reason:    req.Reason,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&block).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	writeAudit(h.audit, c, "schedule_block_created", "schedule_block", &block.ID, nil)
	c.JSON(http.StatusCreated, block)
}

func (h *ScheduleBlocksHandler) find(c *gin.Context) (*models.ScheduleBlock, bool) {
	profileID, _ := owner(c)

	id, ok := uintParam(c, "id")
	if !ok {
		return nil, false
	}

	var block models.ScheduleBlock
	if err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND profile_id = ?", id, profileID).
		First(&block).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "schedule_block_not_found", "Schedule block not found.")
			return nil, false
		}
		httperr.Respond(c, err)
		return nil, false
	}
	return &block, true
}

func (h *ScheduleBlocksHandler) Update(c *gin.Context) {
	block, ok := h.find(c)
	if !ok {
		return
	}

	var req UpdateBlockRequest
	if !bindJSON(c, &req) {
		return
	}

	if req.StartDate != nil {
		block.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		block.EndDate = *req.EndDate
	}
	if req.IsAllDay != nil {
		block.IsAllDay = *req.IsAllDay
		if block.IsAllDay {
			block.StartTime, block.EndTime = nil, nil
		}
	}
	if req.StartTime != nil {
		block.StartTime = req.StartTime
	}
	if req.EndTime != nil {
		block.EndTime = req.EndTime
	}
	if req.Reason != nil {
		block.Reason = *req.Reason
	}

	if _, err := availability.NewBlock(block.StartDate, block.EndDate, block.IsAllDay, block.StartTime, block.EndTime); err != nil {
		httperr.Respond(c, err)
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Save(block).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	writeAudit(h.audit, c, "schedule_block_updated", "schedule_block", &block.ID, req)
	c.JSON(http.StatusOK, block)
}

func (h *ScheduleBlocksHandler) Delete(c *gin.Context) {
	block, ok := h.find(c)
	if !ok {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Delete(block).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	writeAudit(h.audit, c, "schedule_block_deleted", "schedule_block", &block.ID, nil)
	c.Status(http.StatusNoContent)
}
