package api

import (
	stdhttp "net/http"

	intconfig "travelbook/internal/config"
	"travelbook/internal/domain"
	h "travelbook/internal/http/handlers"
	"travelbook/internal/http/middleware"
	"travelbook/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Deps are the collaborators the router wires into handlers and middleware.
type Deps struct {
	Handlers *h.Handlers
	Store    h.Pinger
	Tokens   middleware.TokenParser
	Redis    *redis.Client
}

func NewRouter(env intconfig.Env, d Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(env.CORSOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		utils.LogWarn("", "router", "trusted_proxies", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":      "route not found",
			"code":       "not_found",
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
			"request_id": middleware.GetRequestID(c),
		})
	})

	hd := d.Handlers
	authed := middleware.AuthRequired(d.Tokens)
	admin := middleware.RequireRoles(string(domain.RoleAdmin))

	api := r.Group("/api")
	api.Use(middleware.AuthOptional(d.Tokens), middleware.RateLimit(env.RateLimit, d.Redis))
	{
		api.GET("/health", h.Health(d.Store))
		api.GET("/routes", h.Routes(r))

		// Auth
		auth := api.Group("/auth")
		auth.POST("/register", hd.Register)
		auth.POST("/login", hd.Login)
		auth.GET("/me", authed, hd.Me)

		// Hotels (public browse)
		hotels := api.Group("/hotels")
		hotels.GET("", hd.ListHotels)
		hotels.GET("/:id", hd.GetHotel)
		hotels.GET("/:id/rating", hd.HotelRating)
		hotels.GET("/:id/reviews", hd.ListHotelReviews)
		hotels.POST("/:id/reviews", authed, hd.CreateReview)
		hotels.GET("/:id/bookings", authed, admin, hd.ListHotelBookings)

		// Destinations (public browse)
		dest := api.Group("/destinations")
		dest.GET("", hd.ListDestinations)
		dest.GET("/:id", hd.GetDestination)
		dest.GET("/:id/hotels", hd.ListDestinationHotels)

		// Bookings
		bookings := api.Group("/bookings", authed)
		bookings.POST("", hd.CreateBooking)
		bookings.GET("", hd.ListMyBookings)
		bookings.GET("/:id", hd.GetBooking)
		bookings.PATCH("/:id", hd.UpdateBooking)
		bookings.PUT("/:id/cancel", hd.CancelBooking)
		bookings.GET("/:id/history", hd.BookingHistory)
		bookings.GET("/:id/voucher", hd.BookingVoucher)

		// Admin
		adm := api.Group("/admin", authed, admin)
		adm.POST("/hotels", hd.CreateHotel)
		adm.PUT("/hotels/:id", hd.UpdateHotel)
		adm.DELETE("/hotels/:id", hd.DeleteHotel)
		adm.POST("/hotels/:id/packages", hd.AddPackage)
		adm.PUT("/hotels/:id/packages/:name", hd.UpdatePackage)
		adm.DELETE("/hotels/:id/packages/:name", hd.RemovePackage)
		adm.POST("/destinations", hd.CreateDestination)
		adm.PUT("/destinations/:id", hd.UpdateDestination)
		adm.DELETE("/destinations/:id", hd.DeleteDestination)
		adm.GET("/reviews", hd.ListReviews)
		adm.PUT("/reviews/:id/approve", hd.ApproveReview)
		adm.PUT("/reviews/:id/reject", hd.RejectReview)
		adm.GET("/bookings", hd.ListAllBookings)
		adm.PUT("/bookings/:id/complete", hd.CompleteBooking)
	}

	return r
}
