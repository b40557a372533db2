package handlers

import (
	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/booking-site/internal/domain/booking"
	"github.com/BruksfildServices01/booking-site/internal/httperr"
	"github.com/BruksfildServices01/booking-site/internal/httpresp"
	"github.com/BruksfildServices01/booking-site/internal/models"
	ucbooking "github.com/BruksfildServices01/booking-site/internal/usecase/booking"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

// PublicHandler serves the client-facing booking page. Profiles are
// addressed by slug; no authentication.
type PublicHandler struct {
	repo         domain.Repository
	availability *ucbooking.GetAvailability
	create       *ucbooking.CreateBooking
	cancel       *ucbooking.CancelByClient
}

func NewPublicHandler(
	repo domain.Repository,
	availability *ucbooking.GetAvailability,
	create *ucbooking.CreateBooking,
	cancel *ucbooking.CancelByClient,
) *PublicHandler {
	return &PublicHandler{
		repo:         repo,
		availability: availability,
		create:       create,
		cancel:       cancel,
	}
}

func (h *PublicHandler) profile(c *gin.Context) (*models.Profile, bool) {
	p, err := h.repo.GetProfileBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		httperr.Respond(c, err)
		return nil, false
	}
	return p, true
}

////////////////////////////////////////////////////////
// PROFILE
////////////////////////////////////////////////////////

func (h *PublicHandler) GetProfile(c *gin.Context) {
	p, ok := h.profile(c)
	if !ok {
		return
	}

	services, err := h.repo.ListActiveServices(c.Request.Context(), p.ID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if services == nil {
		services = []models.Service{}
	}

	httpresp.OK(c, gin.H{
		"profile":  p,
		"services": services,
	})
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

func (h *PublicHandler) AvailableSlots(c *gin.Context) {
	p, ok := h.profile(c)
	if !ok {
		return
	}

	var q SlotsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	res, err := h.availability.Execute(c.Request.Context(), ucbooking.GetAvailabilityInput{
		ProfileID: p.ID,
		ServiceID: q.ServiceID,
		Date:      q.Date,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, res)
}

////////////////////////////////////////////////////////
// BOOK / CANCEL
////////////////////////////////////////////////////////

func (h *PublicHandler) CreateBooking(c *gin.Context) {
	p, ok := h.profile(c)
	if !ok {
		return
	}

	var req CreateBookingRequest
	if !bindJSON(c, &req) {
		return
	}

	b, err := h.create.Execute(c.Request.Context(), ucbooking.CreateBookingInput{
		ProfileID:   p.ID,
		ServiceID:   req.ServiceID,
		Date:        req.Date,
		StartTime:   req.StartTime,
		ClientName:  req.ClientName,
		ClientEmail: req.ClientEmail,
		ClientPhone: req.ClientPhone,
		Notes:       req.Notes,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, bookingCreated{Booking: b, CancelToken: b.CancelToken})
}

func (h *PublicHandler) CancelBooking(c *gin.Context) {
	p, ok := h.profile(c)
	if !ok {
		return
	}

	b, err := h.cancel.Execute(c.Request.Context(), p.ID, c.Param("token"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, b)
}
