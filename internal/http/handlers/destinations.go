package handlers

import (
	"net/http"

	"travelbook/internal/domain/models"

	"github.com/gin-gonic/gin"
)

type destinationRequest struct {
	DestinationID string   `json:"destination_id"`
	Name          string   `json:"name"`
	Country       string   `json:"country"`
	City          string   `json:"city"`
	Description   string   `json:"description"`
	Image         string   `json:"image"`
	Highlights    []string `json:"highlights"`
}

func (r destinationRequest) model() models.Destination {
	return models.Destination{
		DestinationID: r.DestinationID,
		Name:          r.Name,
		Country:       r.Country,
		City:          r.City,
		Description:   r.Description,
		Image:         r.Image,
		Highlights:    r.Highlights,
	}
}

// GET /api/destinations?country=&page=&pageSize=
func (h *Handlers) ListDestinations(c *gin.Context) {
	out, err := h.destinations(c).ListDestinations(c.Request.Context(), c.Query("country"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondPage(c, out)
}

// GET /api/destinations/:id
func (h *Handlers) GetDestination(c *gin.Context) {
	out, err := h.destinations(c).GetDestination(c.Request.Context(), param(c, "id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/destinations/:id/hotels
func (h *Handlers) ListDestinationHotels(c *gin.Context) {
	out, err := h.destinations(c).DestinationHotels(c.Request.Context(), param(c, "id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondPage(c, out)
}

// POST /api/admin/destinations
func (h *Handlers) CreateDestination(c *gin.Context) {
	var req destinationRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	out, err := h.destinations(c).CreateDestination(c.Request.Context(), req.model())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

// PUT /api/admin/destinations/:id
func (h *Handlers) UpdateDestination(c *gin.Context) {
	var req models.DestinationUpdate
	if !BindJSONOrError(c, &req) {
		return
	}
	out, err := h.destinations(c).UpdateDestination(c.Request.Context(), param(c, "id"), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// DELETE /api/admin/destinations/:id
func (h *Handlers) DeleteDestination(c *gin.Context) {
	if err := h.destinations(c).DeleteDestination(c.Request.Context(), param(c, "id")); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "destination deleted"})
}
