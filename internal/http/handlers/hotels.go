package handlers

import (
	"net/http"
	"time"

	"travelbook/internal/domain/models"

	"github.com/gin-gonic/gin"
)

type packageRequest struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Inclusions  []string  `json:"inclusions"`
	ValidUntil  time.Time `json:"valid_until"`
	Capacity    int       `json:"capacity"`
	// Omitted means the package starts fully available.
	RoomsAvailable *int `json:"rooms_available"`
}

func (r packageRequest) model() models.Package {
	p := models.Package{
		Name:           r.Name,
		Description:    r.Description,
		Price:          r.Price,
		Inclusions:     r.Inclusions,
		ValidUntil:     r.ValidUntil,
		Capacity:       r.Capacity,
		RoomsAvailable: r.Capacity,
	}
	if r.RoomsAvailable != nil {
		p.RoomsAvailable = *r.RoomsAvailable
	}
	return p
}

type hotelRequest struct {
	HotelID     string           `json:"hotel_id"`
	Name        string           `json:"name"`
	Address     string           `json:"address"`
	City        string           `json:"city"`
	Email       string           `json:"email"`
	Phone       string           `json:"phone"`
	StarRating  int              `json:"star_rating"`
	Description string           `json:"description"`
	Image       string           `json:"image"`
	Packages    []packageRequest `json:"packages"`
}

func (r hotelRequest) model() models.Hotel {
	h := models.Hotel{
		HotelID:     r.HotelID,
		Name:        r.Name,
		Address:     r.Address,
		City:        r.City,
		Email:       r.Email,
		Phone:       r.Phone,
		StarRating:  r.StarRating,
		Description: r.Description,
		Image:       r.Image,
		Packages:    make([]models.Package, 0, len(r.Packages)),
	}
	for _, p := range r.Packages {
		h.Packages = append(h.Packages, p.model())
	}
	return h
}

// GET /api/hotels?city=&page=&pageSize=
func (h *Handlers) ListHotels(c *gin.Context) {
	out, err := h.inventory(c).ListHotels(c.Request.Context(), c.Query("city"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondPage(c, out)
}

// GET /api/hotels/:id
func (h *Handlers) GetHotel(c *gin.Context) {
	out, err := h.inventory(c).GetHotel(c.Request.Context(), param(c, "id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// POST /api/admin/hotels
func (h *Handlers) CreateHotel(c *gin.Context) {
	var req hotelRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	out, err := h.inventory(c).CreateHotel(c.Request.Context(), req.model())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

// PUT /api/admin/hotels/:id
func (h *Handlers) UpdateHotel(c *gin.Context) {
	var req models.HotelUpdate
	if !BindJSONOrError(c, &req) {
		return
	}
	out, err := h.inventory(c).UpdateHotel(c.Request.Context(), param(c, "id"), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// DELETE /api/admin/hotels/:id
func (h *Handlers) DeleteHotel(c *gin.Context) {
	if err := h.inventory(c).DeleteHotel(c.Request.Context(), param(c, "id")); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "hotel deleted"})
}

// POST /api/admin/hotels/:id/packages
func (h *Handlers) AddPackage(c *gin.Context) {
	var req packageRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	out, err := h.inventory(c).AddPackage(c.Request.Context(), param(c, "id"), req.model())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

// PUT /api/admin/hotels/:id/packages/:name
func (h *Handlers) UpdatePackage(c *gin.Context) {
	var req models.PackageUpdate
	if !BindJSONOrError(c, &req) {
		return
	}
	out, err := h.inventory(c).UpdatePackage(c.Request.Context(), param(c, "id"), param(c, "name"), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// DELETE /api/admin/hotels/:id/packages/:name
func (h *Handlers) RemovePackage(c *gin.Context) {
	if err := h.inventory(c).RemovePackage(c.Request.Context(), param(c, "id"), param(c, "name")); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "package removed"})
}

// GET /api/hotels/:id/bookings (admin). The hotel is addressed by id and
// bookings are keyed by hotel name.
func (h *Handlers) ListHotelBookings(c *gin.Context) {
	ctx := c.Request.Context()
	hotel, err := h.inventory(c).GetHotel(ctx, param(c, "id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	out, err := h.bookings(c).ListByHotel(ctx, hotel.Name)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondPage(c, out)
}
