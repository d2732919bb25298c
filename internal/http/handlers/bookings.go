package handlers

import (
	"net/http"
	"strings"

	"travelbook/internal/domain"
	"travelbook/internal/domain/models"
	"travelbook/internal/services"

	"github.com/gin-gonic/gin"
)

// POST /api/bookings
func (h *Handlers) CreateBooking(c *gin.Context) {
	rc, ok := caller(c)
	if !ok {
		return
	}
	var req services.CreateBookingInput
	if !BindJSONOrError(c, &req) {
		return
	}
	// Regular users always book for themselves.
	if !rc.IsAdmin() || strings.TrimSpace(req.UserName) == "" {
		req.UserName = rc.Username
	}

	out, err := h.bookings(c).CreateBooking(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

// loadOwned fetches a booking and hides it from callers who do not own it.
func (h *Handlers) loadOwned(c *gin.Context, rc domain.RequestContext) (models.Booking, bool) {
	b, err := h.bookings(c).GetBooking(c.Request.Context(), param(c, "id"))
	if err != nil {
		RespondDomainError(c, err)
		return b, false
	}
	if !owns(rc, b.UserName) {
		RespondDomainError(c, domain.NotFoundError{Resource: "booking"})
		return b, false
	}
	return b, true
}

// GET /api/bookings/:id
func (h *Handlers) GetBooking(c *gin.Context) {
	rc, ok := caller(c)
	if !ok {
		return
	}
	b, ok := h.loadOwned(c, rc)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, b)
}

// GET /api/bookings
func (h *Handlers) ListMyBookings(c *gin.Context) {
	rc, ok := caller(c)
	if !ok {
		return
	}
	out, err := h.bookings(c).ListByUser(c.Request.Context(), rc.Username)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondPage(c, out)
}

// GET /api/admin/bookings?status=
func (h *Handlers) ListAllBookings(c *gin.Context) {
	status := models.BookingStatus(strings.ToLower(strings.TrimSpace(c.Query("status"))))
	out, err := h.bookings(c).ListAll(c.Request.Context(), status)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondPage(c, out)
}

// PATCH /api/bookings/:id
func (h *Handlers) UpdateBooking(c *gin.Context) {
	rc, ok := caller(c)
	if !ok {
		return
	}
	var req models.BookingUpdate
	if !BindJSONOrError(c, &req) {
		return
	}
	if req.UserName != nil && !rc.IsAdmin() {
		RespondDomainError(c, domain.ValidationError{Field: "user_name", Msg: "cannot be changed"})
		return
	}
	if _, ok := h.loadOwned(c, rc); !ok {
		return
	}
	out, err := h.bookings(c).UpdateBooking(c.Request.Context(), param(c, "id"), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// PUT /api/bookings/:id/cancel
func (h *Handlers) CancelBooking(c *gin.Context) {
	rc, ok := caller(c)
	if !ok {
		return
	}
	if _, ok := h.loadOwned(c, rc); !ok {
		return
	}
	res, err := h.bookings(c).CancelBooking(c.Request.Context(), param(c, "id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// PUT /api/admin/bookings/:id/complete
func (h *Handlers) CompleteBooking(c *gin.Context) {
	out, err := h.bookings(c).CompleteBooking(c.Request.Context(), param(c, "id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/bookings/:id/history
func (h *Handlers) BookingHistory(c *gin.Context) {
	rc, ok := caller(c)
	if !ok {
		return
	}
	if _, ok := h.loadOwned(c, rc); !ok {
		return
	}
	out, err := h.bookings(c).History(c.Request.Context(), param(c, "id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/bookings/:id/voucher
func (h *Handlers) BookingVoucher(c *gin.Context) {
	rc, ok := caller(c)
	if !ok {
		return
	}
	b, ok := h.loadOwned(c, rc)
	if !ok {
		return
	}
	if b.Status == models.BookingCancelled {
		respondError(c, http.StatusConflict, "booking_cancelled", "no voucher for a cancelled booking", nil)
		return
	}
	pdfBytes, filename, err := h.docs(c).GenerateVoucher(c.Request.Context(), b.BookingID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
