package handlers

import (
	"net/http"
	"strings"

	"travelbook/internal/domain/models"
	"travelbook/internal/services"

	"github.com/gin-gonic/gin"
)

type reviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// POST /api/hotels/:id/reviews
func (h *Handlers) CreateReview(c *gin.Context) {
	rc, ok := caller(c)
	if !ok {
		return
	}
	var req reviewRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	out, err := h.reviews(c).CreateReview(c.Request.Context(), services.CreateReviewInput{
		HotelID:  param(c, "id"),
		UserName: rc.Username,
		Rating:   req.Rating,
		Comment:  req.Comment,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

// GET /api/hotels/:id/reviews lists approved reviews only.
func (h *Handlers) ListHotelReviews(c *gin.Context) {
	out, err := h.reviews(c).ListReviews(c.Request.Context(), param(c, "id"), models.ReviewApproved)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondPage(c, out)
}

// GET /api/admin/reviews?hotel_id=&status=
func (h *Handlers) ListReviews(c *gin.Context) {
	status := models.ReviewStatus(strings.ToLower(strings.TrimSpace(c.Query("status"))))
	out, err := h.reviews(c).ListReviews(c.Request.Context(), c.Query("hotel_id"), status)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondPage(c, out)
}

// GET /api/hotels/:id/rating
func (h *Handlers) HotelRating(c *gin.Context) {
	out, err := h.reviews(c).AverageRating(c.Request.Context(), param(c, "id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// PUT /api/admin/reviews/:id/approve
func (h *Handlers) ApproveReview(c *gin.Context) {
	out, err := h.reviews(c).ApproveReview(c.Request.Context(), param(c, "id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// PUT /api/admin/reviews/:id/reject
func (h *Handlers) RejectReview(c *gin.Context) {
	out, err := h.reviews(c).RejectReview(c.Request.Context(), param(c, "id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
