package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/booking-site/internal/httperr"
	"github.com/BruksfildServices01/booking-site/internal/httpresp"
	"github.com/BruksfildServices01/booking-site/internal/models"
	ucbooking "github.com/BruksfildServices01/booking-site/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	availability *ucbooking.GetAvailability
	create       *ucbooking.CreateBooking
	changeStatus *ucbooking.ChangeStatus
	listByDate   *ucbooking.ListBookingsByDate
	listByMonth  *ucbooking.ListBookingsByMonth
}

func NewBookingHandler(
	availability *ucbooking.GetAvailability,
	create *ucbooking.CreateBooking,
	changeStatus *ucbooking.ChangeStatus,
	listByDate *ucbooking.ListBookingsByDate,
	listByMonth *ucbooking.ListBookingsByMonth,
) *BookingHandler {
	return &BookingHandler{
		availability: availability,
		create:       create,
		changeStatus: changeStatus,
		listByDate:   listByDate,
		listByMonth:  listByMonth,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateBookingRequest struct {
	ServiceID   uint   `json:"service_id" binding:"required"`
	Date        string `json:"date" binding:"required,ymd"`
	StartTime   string `json:"start_time" binding:"required,hhmm"`
	ClientName  string `json:"client_name" binding:"required,max=100"`
	ClientEmail string `json:"client_email" binding:"required,email,max=100"`
	ClientPhone string `json:"client_phone" binding:"max=20"`
	Notes       string `json:"notes" binding:"max=255"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type SlotsQuery struct {
	ServiceID uint   `form:"service_id" binding:"required"`
	Date      string `form:"date" binding:"required,ymd"`
}

// bookingCreated exposes the cancel token once, to whoever made the booking.
type bookingCreated struct {
	*models.Booking
	CancelToken string `json:"cancel_token"`
}

// ======================================================
// OWNER ENDPOINTS
// ======================================================

func (h *BookingHandler) AvailableSlots(c *gin.Context) {
	profileID, _ := owner(c)

	var q SlotsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	res, err := h.availability.Execute(c.Request.Context(), ucbooking.GetAvailabilityInput{
		ProfileID: profileID,
		ServiceID: q.ServiceID,
		Date:      q.Date,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, res)
}

func (h *BookingHandler) Create(c *gin.Context) {
	profileID, userID := owner(c)

	var req CreateBookingRequest
	if !bindJSON(c, &req) {
		return
	}

	b, err := h.create.Execute(c.Request.Context(), ucbooking.CreateBookingInput{
		ProfileID:   profileID,
		ServiceID:   req.ServiceID,
		Date:        req.Date,
		StartTime:   req.StartTime,
		ClientName:  req.ClientName,
		ClientEmail: req.ClientEmail,
		ClientPhone: req.ClientPhone,
		Notes:       req.Notes,
		UserID:      &userID,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, bookingCreated{Booking: b, CancelToken: b.CancelToken})
}

func (h *BookingHandler) ListByDate(c *gin.Context) {
	profileID, _ := owner(c)

	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "missing_date", "date is required.")
		return
	}

	list, err := h.listByDate.Execute(c.Request.Context(), profileID, date)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, list)
}

func (h *BookingHandler) ListByMonth(c *gin.Context) {
	profileID, _ := owner(c)

	year, errY := strconv.Atoi(c.Query("year"))
	month, errM := strconv.Atoi(c.Query("month"))
	if errY != nil || errM != nil {
		httperr.BadRequest(c, "invalid_month", "year and month are required.")
		return
	}

	list, err := h.listByMonth.Execute(c.Request.Context(), profileID, year, month)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, list)
}

func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	profileID, userID := owner(c)

	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	b, err := h.changeStatus.Execute(c.Request.Context(), profileID, userID, id, req.Status)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, b)
}
