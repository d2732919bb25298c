package handlers

import (
	"travelbook/internal/http/middleware"
	"travelbook/internal/services"

	"github.com/gin-gonic/gin"
)

// Handlers binds the HTTP routes to the services. Each request works on a
// copy of the service tagged with its request id.
type Handlers struct {
	Bookings     services.BookingService
	Inventory    services.InventoryService
	Destinations services.DestinationService
	Reviews      services.ReviewService
	Auth         services.AuthService
	Docs         services.DocsService
}

func (h *Handlers) bookings(c *gin.Context) services.BookingService {
	s := h.Bookings
	s.RequestID = middleware.GetRequestID(c)
	return s
}

func (h *Handlers) inventory(c *gin.Context) services.InventoryService {
	s := h.Inventory
	s.RequestID = middleware.GetRequestID(c)
	return s
}

func (h *Handlers) reviews(c *gin.Context) services.ReviewService {
	s := h.Reviews
	s.RequestID = middleware.GetRequestID(c)
	return s
}

func (h *Handlers) docs(c *gin.Context) services.DocsService {
	s := h.Docs
	s.RequestID = middleware.GetRequestID(c)
	return s
}

func (h *Handlers) destinations(c *gin.Context) services.DestinationService {
	s := h.Destinations
	s.RequestID = middleware.GetRequestID(c)
	return s
}
